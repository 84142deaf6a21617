// Package conn implements the server's bounded connection multiplexer: a
// fixed pool of N worker slots, each running a reader and a writer task
// against one TCP socket, bridging wire bytes to the engine's typed inbound
// and outbound queues.
package conn

import (
	"context"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"bombit/internal/engine"
	"bombit/internal/metrics"
	"bombit/internal/wire"
)

// OutboundBuffer is the per-slot outbound queue capacity. Spec recommends an
// unbounded engine->writer queue; a channel cannot be truly unbounded, so a
// generously sized buffer stands in (see DESIGN.md).
const OutboundBuffer = 4096

// slot is one of the pool's N fixed tenancies.
type slot struct {
	id       engine.SlotID
	mu       sync.Mutex
	occupied bool
}

// Pool owns the N fixed slots and the listener that feeds them.
type Pool struct {
	eng     *engine.Engine
	metrics *metrics.Server
	inbound chan engine.Inbound

	slots     []*slot
	freeSlots chan *slot

	rateLimit rate.Limit
	burst     int
}

// New builds a pool of n slots backed by eng. inbound is the engine's single
// dispatch queue; the pool is its only producer (handshake markers, client
// messages and slot-closed notices all come from the slots' run).
func New(eng *engine.Engine, m *metrics.Server, n int, inbound chan engine.Inbound, msgRate float64, burst int) *Pool {
	p := &Pool{
		eng:       eng,
		metrics:   m,
		inbound:   inbound,
		freeSlots: make(chan *slot, n),
		rateLimit: rate.Limit(msgRate),
		burst:     burst,
	}
	p.slots = make([]*slot, n)
	for i := 0; i < n; i++ {
		s := &slot{id: engine.SlotID(i)}
		p.slots[i] = s
		p.freeSlots <- s
	}
	return p
}

// Serve accepts connections until ctx is cancelled or the listener errs.
// Accepting is serialized through freeSlots: when all N slots are occupied,
// the loop holds the connection it has just accepted and does not call
// Accept again until a slot frees up, so the OS backlog absorbs further
// incoming connections meanwhile.
func (p *Pool) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		c, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}

		select {
		case s := <-p.freeSlots:
			go p.run(ctx, s, c)
		case <-ctx.Done():
			c.Close()
			return nil
		}
	}
}

// run occupies s with c for the lifetime of one tenancy: handshake, then
// paired reader/writer tasks, then recycling back to freeSlots.
func (p *Pool) run(ctx context.Context, s *slot, c net.Conn) {
	s.mu.Lock()
	s.occupied = true
	s.mu.Unlock()
	if p.metrics != nil {
		p.metrics.ConnectedSlots.Inc()
	}

	defer func() {
		c.Close()
		s.mu.Lock()
		s.occupied = false
		s.mu.Unlock()
		if p.metrics != nil {
			p.metrics.ConnectedSlots.Dec()
		}
		p.eng.SetSlotAddress(s.id, "")
		p.inbound <- engine.Inbound{Slot: s.id, Kind: engine.InboundClosed}
		select {
		case p.freeSlots <- s:
		case <-ctx.Done():
		}
	}()

	p.eng.SetSlotAddress(s.id, c.RemoteAddr().String())

	outbound := make(chan engine.OutboundItem, OutboundBuffer)
	p.inbound <- engine.Inbound{Slot: s.id, Kind: engine.InboundReset, Outbound: outbound}

	// Block until the matching SLOT_RESET acknowledgement, discarding any
	// other item popped ahead of it.
	for {
		item := <-outbound
		if item.ResetAck {
			break
		}
	}

	// latch counts still-running partner tasks; whichever task exits first
	// closes the socket (wakes the reader's blocked I/O) and cancels tenCtx
	// (wakes the writer's blocked channel receive), so the supervisor just
	// waits for both to have exited.
	tenCtx, cancelTen := context.WithCancel(ctx)
	defer cancelTen()

	var latch atomic.Int32
	latch.Store(2)
	bothDone := make(chan struct{})
	partnerExit := func() {
		if latch.Add(-1) == 0 {
			close(bothDone)
		} else {
			c.Close()
			cancelTen()
		}
	}

	limiter := rate.NewLimiter(p.rateLimit, p.burst)

	go p.reader(s.id, c, limiter, partnerExit)
	go p.writer(tenCtx, s.id, c, outbound, partnerExit)

	<-bothDone
}

func (p *Pool) reader(id engine.SlotID, c net.Conn, limiter *rate.Limiter, partnerExit func()) {
	defer partnerExit()

	dec := wire.NewDecoder(c)
	for {
		if !limiter.Allow() {
			time.Sleep(time.Millisecond) // shed load instead of dropping the connection
		}
		msg, err := wire.DecodeC2S(dec)
		if err != nil {
			log.Printf("conn: slot %d reader: %v", id, err)
			if p.metrics != nil {
				p.metrics.ProtocolErrors.Inc()
			}
			return
		}
		p.inbound <- engine.Inbound{Slot: id, Kind: engine.InboundClient, Msg: msg}
	}
}

func (p *Pool) writer(ctx context.Context, id engine.SlotID, c net.Conn, outbound chan engine.OutboundItem, partnerExit func()) {
	defer partnerExit()

	for {
		var item engine.OutboundItem
		select {
		case <-ctx.Done():
			return
		case item = <-outbound:
		}
		if item.ResetAck {
			continue // stale ack from a pre-handshake state, ignore
		}
		enc := wire.NewEncoder()
		if err := wire.EncodeS2C(enc, item.Msg); err != nil {
			log.Printf("conn: slot %d writer: encode: %v", id, err)
			return
		}
		if _, err := c.Write(enc.Bytes()); err != nil {
			log.Printf("conn: slot %d writer: %v", id, err)
			return
		}
	}
}
