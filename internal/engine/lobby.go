package engine

import (
	"log"

	"bombit/internal/model"
	"bombit/internal/wire"
)

func (e *Engine) handleClientMessageLocked(slot SlotID, msg wire.C2SMessage) {
	switch m := msg.(type) {
	case wire.Join:
		e.handleJoinLocked(slot, m)
	case wire.Move:
		e.stageActionLocked(slot, model.Action{Kind: model.ActionMove, Direction: m.Direction})
	case wire.PlaceBomb:
		e.stageActionLocked(slot, model.Action{Kind: model.ActionPlaceBomb})
	case wire.PlaceBlock:
		e.stageActionLocked(slot, model.Action{Kind: model.ActionPlaceBlock})
	}
}

// handleJoinLocked assigns a new player to a robot slot. Duplicate joins
// from an already-mapped slot, and any join once the game has started, are
// silently ignored.
func (e *Engine) handleJoinLocked(slot SlotID, join wire.Join) {
	if e.state != Lobby {
		return
	}
	if _, already := e.playerOfSlot[slot]; already {
		return
	}

	address := e.slotAddress(slot)
	id := model.PlayerID(len(e.playerOrder))
	player := model.Player{Name: join.Name, Address: address}

	e.playerOrder = append(e.playerOrder, id)
	e.players[id] = player
	e.playerOfSlot[slot] = id

	e.broadcastLocked(wire.AcceptedPlayer{ID: id, Name: player.Name, Address: player.Address})
	if e.metrics != nil {
		e.metrics.PlayersJoined.Inc()
	}

	if len(e.playerOrder) == int(e.cfg.PlayersCount) {
		e.startGameLocked()
	}
}

// slotAddress is overridden by SetSlotAddress before a Join is processed;
// connection workers record the TCP peer address here so Player.Address is
// never empty.
func (e *Engine) slotAddress(slot SlotID) string {
	if addr, ok := e.slotAddrs[slot]; ok {
		return addr
	}
	return ""
}

// SetSlotAddress records the TCP peer endpoint text for a slot. Connection
// workers call this right after accept, before forwarding any client
// message, and again with an empty address when the tenancy ends.
func (e *Engine) SetSlotAddress(slot SlotID, addr string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.slotAddrs == nil {
		e.slotAddrs = make(map[SlotID]string)
	}
	e.slotAddrs[slot] = addr
}

func (e *Engine) stageActionLocked(slot SlotID, action model.Action) {
	id, ok := e.playerOfSlot[slot]
	if !ok {
		return // slot does not control a robot this game
	}
	e.actions[id] = action
}

// startGameLocked transitions the session into InGame, announces the
// roster, and seeds the initial robot positions and blocks via the session
// RNG before emitting turn 0.
func (e *Engine) startGameLocked() {
	e.state = InGame
	e.cond.Broadcast()

	e.broadcastLocked(wire.GameStarted{OrderedIDs: e.orderedIDsLocked(), Players: e.players})
	e.journal.recordStart(e.players, e.orderedIDsLocked())

	turn := model.Turn{Number: 0}
	for _, id := range e.playerOrder {
		x, y := e.rng.position(e.cfg.SizeX, e.cfg.SizeY)
		pos := model.Position{X: x, Y: y}
		e.positions[id] = pos
		turn.Events = append(turn.Events, model.PlayerMoved{PlayerID: id, Position: pos})
	}

	for i := uint32(0); i < e.cfg.InitialBlocks; i++ {
		x, y := e.rng.position(e.cfg.SizeX, e.cfg.SizeY)
		pos := model.Position{X: x, Y: y}
		if e.blocks.contains(pos) {
			continue // duplicate placement silently dropped; the RNG draw is still consumed
		}
		e.blocks.add(pos)
		turn.Events = append(turn.Events, model.BlockPlaced{Position: pos})
	}

	e.currentTurn = 0
	e.journal.append(turn)
	e.broadcastLocked(wire.TurnMessage(turn))

	if e.metrics != nil {
		e.metrics.GamesStarted.Inc()
	}
	log.Printf("engine: game started with %d players", len(e.playerOrder))
}
