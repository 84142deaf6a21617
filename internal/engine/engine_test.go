package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bombit/internal/model"
	"bombit/internal/wire"
)

func testConfig() model.GameConfig {
	return model.GameConfig{
		ServerName:      "test",
		PlayersCount:    1,
		SizeX:           3,
		SizeY:           3,
		GameLength:      5,
		ExplosionRadius: 1,
		BombTimer:       1,
		TurnDuration:    time.Millisecond,
		InitialBlocks:   0,
		Seed:            1,
	}
}

func drain(t *testing.T, ch chan OutboundItem) []wire.S2CMessage {
	t.Helper()
	var out []wire.S2CMessage
	for {
		select {
		case item := <-ch:
			if !item.ResetAck {
				out = append(out, item.Msg)
			}
		default:
			return out
		}
	}
}

func newTestEngine(t *testing.T, cfg model.GameConfig) (*Engine, SlotID, chan OutboundItem) {
	t.Helper()
	e := New(cfg, nil)
	slot := SlotID(0)
	ch := make(chan OutboundItem, 32)
	e.mu.Lock()
	e.handleSlotResetLocked(slot, ch)
	e.mu.Unlock()
	return e, slot, ch
}

func TestJoinStartsGameAtPlayerCount(t *testing.T) {
	cfg := testConfig()
	e, slot, ch := newTestEngine(t, cfg)

	e.mu.Lock()
	e.handleClientMessageLocked(slot, wire.Join{Name: "alice"})
	e.mu.Unlock()

	msgs := drain(t, ch)
	require.GreaterOrEqual(t, len(msgs), 1)

	var sawStart bool
	var sawTurn0 bool
	for _, m := range msgs {
		switch v := m.(type) {
		case wire.GameStarted:
			sawStart = true
			require.Len(t, v.OrderedIDs, 1)
		case wire.TurnMessage:
			if v.Number == 0 {
				sawTurn0 = true
			}
		}
	}
	require.True(t, sawStart)
	require.True(t, sawTurn0)

	e.mu.Lock()
	defer e.mu.Unlock()
	require.Equal(t, InGame, e.state)
}

func TestDuplicateJoinFromSameSlotIgnored(t *testing.T) {
	cfg := testConfig()
	cfg.PlayersCount = 2
	e, slot, ch := newTestEngine(t, cfg)

	e.mu.Lock()
	e.handleClientMessageLocked(slot, wire.Join{Name: "alice"})
	e.handleClientMessageLocked(slot, wire.Join{Name: "alice-again"})
	e.mu.Unlock()
	drain(t, ch)

	e.mu.Lock()
	defer e.mu.Unlock()
	require.Equal(t, Lobby, e.state)
	require.Len(t, e.playerOrder, 1)
}

func TestMoveBlockedByBlockProducesNoEvent(t *testing.T) {
	cfg := testConfig()
	e, slot, ch := newTestEngine(t, cfg)

	e.mu.Lock()
	e.handleClientMessageLocked(slot, wire.Join{Name: "alice"})
	pid := e.playerOrder[0]
	start := e.positions[pid]
	blocked := model.Position{X: start.X, Y: start.Y}
	// place a block on the neighbouring cell Up, or Down when Up leaves the grid
	dir := model.Up
	dx, dy := dir.Delta()
	target := model.Position{X: uint16(int(start.X) + dx), Y: uint16(int(start.Y) + dy)}
	if int(target.X) >= int(cfg.SizeX) || int(target.Y) >= int(cfg.SizeY) {
		dir = model.Down
		dx, dy = dir.Delta()
		target = model.Position{X: uint16(int(start.X) + dx), Y: uint16(int(start.Y) + dy)}
	}
	e.blocks.add(target)
	_ = blocked

	e.handleClientMessageLocked(slot, wire.Move{Direction: dir})
	e.tickLocked()
	e.mu.Unlock()

	msgs := drain(t, ch)
	for _, m := range msgs {
		if tm, ok := m.(wire.TurnMessage); ok && tm.Number == 1 {
			for _, ev := range tm.Events {
				if pm, ok := ev.(model.PlayerMoved); ok {
					require.NotEqual(t, pid, pm.PlayerID)
				}
			}
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	require.Equal(t, start, e.positions[pid])
}

func TestBombExplosionAffectsEmptyGrid(t *testing.T) {
	cfg := testConfig()
	cfg.SizeX, cfg.SizeY = 3, 3
	cfg.ExplosionRadius = 1
	cfg.BombTimer = 1
	e, slot, ch := newTestEngine(t, cfg)

	e.mu.Lock()
	e.handleClientMessageLocked(slot, wire.Join{Name: "alice"})
	pid := e.playerOrder[0]
	e.positions[pid] = model.Position{X: 1, Y: 1}
	e.handleClientMessageLocked(slot, wire.PlaceBomb{})
	e.tickLocked() // places bomb with timer 1
	drain(t, ch)
	e.tickLocked() // bomb timer hits 0, explodes
	e.mu.Unlock()

	msgs := drain(t, ch)
	var exploded *model.BombExploded
	for _, m := range msgs {
		if tm, ok := m.(wire.TurnMessage); ok {
			for _, ev := range tm.Events {
				if be, ok := ev.(model.BombExploded); ok {
					evCopy := be
					exploded = &evCopy
				}
			}
		}
	}
	require.NotNil(t, exploded)
}

func TestGameEndsAfterGameLengthTurns(t *testing.T) {
	cfg := testConfig()
	cfg.GameLength = 2
	e, slot, ch := newTestEngine(t, cfg)

	e.mu.Lock()
	e.handleClientMessageLocked(slot, wire.Join{Name: "alice"})
	drain(t, ch)
	for i := 0; i < 3; i++ {
		e.tickLocked()
	}
	state := e.state
	e.mu.Unlock()

	msgs := drain(t, ch)
	var sawEnded bool
	for _, m := range msgs {
		if _, ok := m.(wire.GameEnded); ok {
			sawEnded = true
		}
	}
	require.True(t, sawEnded)
	require.Equal(t, Lobby, state)
}

func TestSlotResetReplaysJournalMidGame(t *testing.T) {
	cfg := testConfig()
	e, slot, ch := newTestEngine(t, cfg)

	e.mu.Lock()
	e.handleClientMessageLocked(slot, wire.Join{Name: "alice"})
	drain(t, ch)
	e.tickLocked()
	e.mu.Unlock()
	drain(t, ch)

	observer := make(chan OutboundItem, 32)
	e.mu.Lock()
	e.handleSlotResetLocked(SlotID(1), observer)
	e.mu.Unlock()

	msgs := drain(t, observer)
	require.GreaterOrEqual(t, len(msgs), 3)
	_, ok := msgs[0].(wire.Hello)
	require.True(t, ok)
	_, ok = msgs[1].(wire.GameStarted)
	require.True(t, ok)
}
