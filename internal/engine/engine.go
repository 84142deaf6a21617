// Package engine implements the server's authoritative turn loop: grid
// state, bomb timers, blast propagation, player actions, and scoring,
// replaying an in-memory journal for late-joining observers. A single owner
// holds all game state behind one mutex, driven by an inbound event queue
// and a ticking game loop gated by a condition variable.
package engine

import (
	"context"
	"log"
	"sync"
	"time"

	"bombit/internal/metrics"
	"bombit/internal/model"
	"bombit/internal/wire"
)

// State is the engine's two-state session machine.
type State uint8

const (
	Lobby State = iota
	InGame
)

// SlotID identifies one connection worker slot.
type SlotID int

// InboundKind tags an Inbound event.
type InboundKind uint8

const (
	InboundReset InboundKind = iota
	InboundClosed
	InboundClient
)

// Inbound is one item on the engine's single inbound queue: a SLOT_RESET
// handshake marker, a slot-closed notice, or a decoded client message.
// Multi-producer (every worker reader and every handshake), single-consumer
// (the engine dispatch loop).
type Inbound struct {
	Slot     SlotID
	Kind     InboundKind
	Outbound chan OutboundItem // set when Kind == InboundReset
	Msg      wire.C2SMessage   // set when Kind == InboundClient
}

// OutboundItem is one item on a slot's outbound queue: either the
// in-process SLOT_RESET acknowledgement sentinel or a real wire message to
// encode and send.
type OutboundItem struct {
	ResetAck bool
	Msg      wire.S2CMessage
}

// Engine owns all game state exclusively. It is constructed once per server
// process and reset (resetSessionLocked), not destroyed, at end of game.
type Engine struct {
	cfg     model.GameConfig
	metrics *metrics.Server

	mu   sync.Mutex
	cond *sync.Cond

	state State

	playerOrder  []model.PlayerID
	players      map[model.PlayerID]model.Player
	playerOfSlot map[SlotID]model.PlayerID
	slotOutbound map[SlotID]chan OutboundItem
	slotAddrs    map[SlotID]string

	positions map[model.PlayerID]model.Position
	scores    map[model.PlayerID]uint32
	actions   map[model.PlayerID]model.Action
	blocks    *blockGrid
	bombs     map[model.BombID]*model.Bomb
	nextBomb  model.BombID

	currentTurn uint16
	journal     *Journal
	rng         *rng
}

// New constructs an Engine for one server process. cfg is immutable for the
// lifetime of every game session the engine plays; resetSessionLocked resets
// session state but keeps cfg.
func New(cfg model.GameConfig, m *metrics.Server) *Engine {
	e := &Engine{
		cfg:     cfg,
		metrics: m,
	}
	e.cond = sync.NewCond(&e.mu)
	e.resetSessionLocked()
	return e
}

func (e *Engine) resetSessionLocked() {
	e.state = Lobby
	e.playerOrder = nil
	e.players = make(map[model.PlayerID]model.Player)
	e.playerOfSlot = make(map[SlotID]model.PlayerID)
	e.positions = make(map[model.PlayerID]model.Position)
	e.scores = make(map[model.PlayerID]uint32)
	e.actions = make(map[model.PlayerID]model.Action)
	e.blocks = newBlockGrid(e.cfg.SizeX, e.cfg.SizeY)
	e.bombs = make(map[model.BombID]*model.Bomb)
	e.nextBomb = 0
	e.currentTurn = 0
	e.journal = newJournal()
	e.rng = newRNG(e.cfg.Seed)
	if e.slotOutbound == nil {
		e.slotOutbound = make(map[SlotID]chan OutboundItem)
	}
}

// Run is the engine's single dispatch loop: it consumes Inbound items one
// at a time, holding the lock for the duration of each, so a Join that
// precedes a Move from the same slot is always seen first.
func (e *Engine) Run(ctx context.Context, inbound <-chan Inbound) {
	for {
		select {
		case <-ctx.Done():
			return
		case item := <-inbound:
			e.dispatch(item)
		}
	}
}

func (e *Engine) dispatch(item Inbound) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch item.Kind {
	case InboundReset:
		e.handleSlotResetLocked(item.Slot, item.Outbound)
	case InboundClosed:
		e.handleSlotClosedLocked(item.Slot)
	case InboundClient:
		e.handleClientMessageLocked(item.Slot, item.Msg)
	}
}

// TickLoop is the engine's tick task: it waits on the state condition until
// InGame (no busy-ticking in Lobby), then sleeps turn_duration before
// acquiring the lock to run one tick — the lock is taken only after the
// sleep, so external messages interleave with turns but never with each
// other. This task is only ever stopped by process exit, so it takes no
// context.
func (e *Engine) TickLoop() {
	for {
		e.mu.Lock()
		for e.state != InGame {
			e.cond.Wait()
		}
		e.mu.Unlock()

		time.Sleep(e.cfg.TurnDuration)

		e.mu.Lock()
		if e.state == InGame {
			e.tickLocked()
		}
		e.mu.Unlock()
	}
}

func (e *Engine) pushLocked(slot SlotID, msg wire.S2CMessage) {
	ch, ok := e.slotOutbound[slot]
	if !ok {
		return
	}
	select {
	case ch <- OutboundItem{Msg: msg}:
	default:
		log.Printf("engine: outbound queue full for slot %d, dropping message", slot)
	}
}

// broadcastLocked pushes msg to every currently occupied slot. All pushes
// for a turn happen while the lock is held, so every slot's queue receives
// turn T before the lock releases and work on T+1 can begin.
func (e *Engine) broadcastLocked(msg wire.S2CMessage) {
	for slot := range e.slotOutbound {
		e.pushLocked(slot, msg)
	}
}

func (e *Engine) orderedIDsLocked() []model.PlayerID {
	out := make([]model.PlayerID, len(e.playerOrder))
	copy(out, e.playerOrder)
	return out
}
