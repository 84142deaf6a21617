package engine

import "bombit/internal/wire"

// handleSlotResetLocked replays a slot up to date on (re)connect: Hello,
// then either the current Lobby roster or the full InGame history, pushed to
// the slot's freshly (re)opened outbound queue in order.
func (e *Engine) handleSlotResetLocked(slot SlotID, outbound chan OutboundItem) {
	e.slotOutbound[slot] = outbound

	select {
	case outbound <- OutboundItem{ResetAck: true}:
	default:
	}

	push := func(msg wire.S2CMessage) {
		select {
		case outbound <- OutboundItem{Msg: msg}:
		default:
		}
	}

	push(wire.Hello{
		ServerName:      e.cfg.ServerName,
		PlayersCount:    e.cfg.PlayersCount,
		SizeX:           e.cfg.SizeX,
		SizeY:           e.cfg.SizeY,
		GameLength:      e.cfg.GameLength,
		ExplosionRadius: e.cfg.ExplosionRadius,
		BombTimer:       e.cfg.BombTimer,
	})

	switch e.state {
	case Lobby:
		for _, id := range e.playerOrder {
			p := e.players[id]
			push(wire.AcceptedPlayer{ID: id, Name: p.Name, Address: p.Address})
		}
	case InGame:
		push(wire.GameStarted{OrderedIDs: e.orderedIDsLocked(), Players: e.players})
		for _, t := range e.journal.turns {
			push(wire.TurnMessage(t))
		}
	}
}

// handleSlotClosedLocked drops a slot's outbound queue and frees the player
// seat mapping. The player itself remains in the roster and keeps playing
// passively (its staged actions simply stop arriving) until the next slot
// reset reattaches a (possibly different) observer to the same queue key.
func (e *Engine) handleSlotClosedLocked(slot SlotID) {
	delete(e.slotOutbound, slot)
	delete(e.playerOfSlot, slot)
	delete(e.slotAddrs, slot)
}
