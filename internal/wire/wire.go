// Package wire implements the length-prefixed, big-endian binary protocol
// shared by the server's TCP link, the client's UDP link to the GUI, and the
// events nested inside a Turn. Decoding reads from an io.Reader so the same
// code serves a streaming TCP socket and a one-shot UDP datagram buffer.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrProtocol covers unknown tags, malformed lengths, out-of-range
// directions, and truncated streams.
var ErrProtocol = errors.New("protocol error")

// ErrOversize covers an encode that would exceed a hard wire cap.
var ErrOversize = errors.New("encode too large")

// MaxDatagramSize is the buffer size implementations target for the UDP link.
const MaxDatagramSize = 65507

// MaxStringLen is the hard cap on a wire String (length byte is a u8).
const MaxStringLen = 255

func protoErrf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrProtocol}, args...)...)
}

// Encoder appends wire-format values to a caller-provided growable buffer.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an Encoder writing into a fresh buffer.
func NewEncoder() *Encoder { return &Encoder{buf: make([]byte, 0, 64)} }

// Bytes returns the accumulated encoding.
func (e *Encoder) Bytes() []byte { return e.buf }

// Len reports the number of bytes written so far.
func (e *Encoder) Len() int { return len(e.buf) }

func (e *Encoder) WriteU8(v uint8) { e.buf = append(e.buf, v) }

func (e *Encoder) WriteU16(v uint16) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	e.buf = append(e.buf, tmp[:]...)
}

func (e *Encoder) WriteU32(v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	e.buf = append(e.buf, tmp[:]...)
}

// WriteString writes a u8-length-prefixed byte sequence. It returns
// ErrOversize if s exceeds MaxStringLen — encoders must reject rather than
// silently truncate.
func (e *Encoder) WriteString(s string) error {
	if len(s) > MaxStringLen {
		return fmt.Errorf("%w: string of %d bytes exceeds %d", ErrOversize, len(s), MaxStringLen)
	}
	e.WriteU8(uint8(len(s)))
	e.buf = append(e.buf, s...)
	return nil
}

// WriteCount writes a sequence/map cardinality.
func (e *Encoder) WriteCount(n int) { e.WriteU32(uint32(n)) }

// CheckDatagramSize rejects an encoding that would not fit in one UDP
// datagram.
func (e *Encoder) CheckDatagramSize() error {
	if len(e.buf) > MaxDatagramSize {
		return fmt.Errorf("%w: datagram of %d bytes exceeds %d", ErrOversize, len(e.buf), MaxDatagramSize)
	}
	return nil
}

// Decoder reads wire-format values from an io.Reader. The same type serves
// the streaming TCP contract (messages may span multiple underlying reads)
// and the one-shot UDP contract (the reader is a bytes.Reader over a single
// datagram) — callers pick the reader, the decode logic is identical.
type Decoder struct {
	r io.Reader
	// cap bounds how many elements a single sequence/map cardinality may
	// claim, guarding against a corrupt length field attempting a huge
	// allocation.
	cap uint32
}

// DefaultCap bounds how large a single sequence/map cardinality may claim
// before decoding rejects it as corrupt rather than allocating.
const DefaultCap = 1 << 20

// NewDecoder wraps r with the default cardinality cap.
func NewDecoder(r io.Reader) *Decoder { return &Decoder{r: r, cap: DefaultCap} }

func (d *Decoder) readFull(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, protoErrf("end of stream mid-message: %v", err)
		}
		return nil, err
	}
	return buf, nil
}

func (d *Decoder) ReadU8() (uint8, error) {
	b, err := d.readFull(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Decoder) ReadU16() (uint16, error) {
	b, err := d.readFull(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (d *Decoder) ReadU32() (uint32, error) {
	b, err := d.readFull(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (d *Decoder) ReadString() (string, error) {
	n, err := d.ReadU8()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	b, err := d.readFull(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadCount reads a sequence/map cardinality, rejecting one that would read
// past the hard cap.
func (d *Decoder) ReadCount() (uint32, error) {
	n, err := d.ReadU32()
	if err != nil {
		return 0, err
	}
	if n > d.cap {
		return 0, protoErrf("count %d exceeds cap %d", n, d.cap)
	}
	return n, nil
}
