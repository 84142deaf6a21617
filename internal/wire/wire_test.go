package wire_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"bombit/internal/model"
	"bombit/internal/wire"
)

func TestScalarRoundTrip(t *testing.T) {
	e := wire.NewEncoder()
	e.WriteU8(0xAB)
	e.WriteU16(0x1234)
	e.WriteU32(0xDEADBEEF)
	require.NoError(t, e.WriteString("hello"))

	d := wire.NewDecoder(bytes.NewReader(e.Bytes()))
	u8, err := d.ReadU8()
	require.NoError(t, err)
	require.EqualValues(t, 0xAB, u8)

	u16, err := d.ReadU16()
	require.NoError(t, err)
	require.EqualValues(t, 0x1234, u16)

	u32, err := d.ReadU32()
	require.NoError(t, err)
	require.EqualValues(t, 0xDEADBEEF, u32)

	s, err := d.ReadString()
	require.NoError(t, err)
	require.Equal(t, "hello", s)
}

func TestC2SRoundTrip(t *testing.T) {
	cases := []wire.C2SMessage{
		wire.Join{Name: "robo"},
		wire.PlaceBomb{},
		wire.PlaceBlock{},
		wire.Move{Direction: model.Right},
	}
	for _, msg := range cases {
		e := wire.NewEncoder()
		require.NoError(t, wire.EncodeC2S(e, msg))

		d := wire.NewDecoder(bytes.NewReader(e.Bytes()))
		got, err := wire.DecodeC2S(d)
		require.NoError(t, err)
		require.Equal(t, msg, got)
	}
}

func TestS2CRoundTripTurn(t *testing.T) {
	turn := wire.TurnMessage(model.Turn{
		Number: 7,
		Events: []model.Event{
			model.BombPlaced{BombID: 1, Position: model.Position{X: 2, Y: 3}},
			model.BombExploded{
				BombID:          1,
				RobotsDestroyed: []model.PlayerID{0, 2},
				BlocksDestroyed: []model.Position{{X: 1, Y: 1}},
			},
			model.PlayerMoved{PlayerID: 0, Position: model.Position{X: 4, Y: 4}},
			model.BlockPlaced{Position: model.Position{X: 5, Y: 5}},
		},
	})

	e := wire.NewEncoder()
	require.NoError(t, wire.EncodeS2C(e, turn))

	d := wire.NewDecoder(bytes.NewReader(e.Bytes()))
	got, err := wire.DecodeS2C(d)
	require.NoError(t, err)
	require.Equal(t, turn, got)
}

func TestStreamingDecodeAcrossChunks(t *testing.T) {
	e1 := wire.NewEncoder()
	require.NoError(t, wire.EncodeC2S(e1, wire.Join{Name: "a"}))
	e2 := wire.NewEncoder()
	require.NoError(t, wire.EncodeC2S(e2, wire.Move{Direction: model.Up}))

	full := append(append([]byte{}, e1.Bytes()...), e2.Bytes()...)

	// Feed the concatenation through a reader that only yields it one byte
	// at a time, simulating datagram/segment boundaries mid-message.
	r := &byteAtATimeReader{data: full}
	d := wire.NewDecoder(r)

	got1, err := wire.DecodeC2S(d)
	require.NoError(t, err)
	require.Equal(t, wire.Join{Name: "a"}, got1)

	got2, err := wire.DecodeC2S(d)
	require.NoError(t, err)
	require.Equal(t, wire.Move{Direction: model.Up}, got2)
}

type byteAtATimeReader struct {
	data []byte
	pos  int
}

func (r *byteAtATimeReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, bytes.ErrTooLarge // unreachable in these tests
	}
	p[0] = r.data[r.pos]
	r.pos++
	return 1, nil
}

func TestDecodeInvalidDirectionIsProtocolError(t *testing.T) {
	e := wire.NewEncoder()
	e.WriteU8(wire.TagMove)
	e.WriteU8(4) // out of range
	d := wire.NewDecoder(bytes.NewReader(e.Bytes()))
	_, err := wire.DecodeC2S(d)
	require.ErrorIs(t, err, wire.ErrProtocol)
}

func TestGUIDatagramValidation(t *testing.T) {
	msg, ok := wire.DecodeGUIDatagram([]byte{2, 4})
	require.False(t, ok)
	require.Nil(t, msg)

	msg, ok = wire.DecodeGUIDatagram([]byte{2, 1})
	require.True(t, ok)
	require.Equal(t, wire.GUIMove{Direction: model.Right}, msg)

	c2s, ok := wire.EncodeGUIForward(msg)
	require.True(t, ok)
	require.Equal(t, wire.Move{Direction: model.Right}, c2s)
}

func TestWriteStringOversize(t *testing.T) {
	e := wire.NewEncoder()
	err := e.WriteString(string(make([]byte, 256)))
	require.ErrorIs(t, err, wire.ErrOversize)
}
