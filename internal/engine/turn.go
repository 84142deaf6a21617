package engine

import (
	"sort"

	"bombit/internal/blast"
	"bombit/internal/model"
	"bombit/internal/wire"
)

// tickLocked runs one turn resolution: bomb timers, explosions, destroyed
// robot respawns, staged player actions, then end-of-game. Called with the
// lock already held.
func (e *Engine) tickLocked() {
	e.currentTurn++
	turn := model.Turn{Number: e.currentTurn}

	startBlocks := e.blocks.snapshot()

	// 1. Decrement every bomb's timer.
	ids := make([]model.BombID, 0, len(e.bombs))
	for id := range e.bombs {
		e.bombs[id].Timer--
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	destroyedRobots := make(map[model.PlayerID]bool)
	destroyedBlocks := make(map[model.Position]bool)

	// 2. Every bomb whose timer reached 0 explodes.
	for _, id := range ids {
		b := e.bombs[id]
		if b.Timer > 0 {
			continue
		}
		affected := blast.Affected(b.Position, e.cfg.ExplosionRadius, e.cfg.SizeX, e.cfg.SizeY, blast.IsBlockFromSet(startBlocks))

		var robots []model.PlayerID
		var blocks []model.Position
		for _, pid := range e.playerOrder {
			if affected[e.positions[pid]] {
				robots = append(robots, pid)
				destroyedRobots[pid] = true
			}
		}
		for pos := range affected {
			if startBlocks[pos] {
				blocks = append(blocks, pos)
				destroyedBlocks[pos] = true
			}
		}
		sortPositions(blocks)

		turn.Events = append(turn.Events, model.BombExploded{BombID: id, RobotsDestroyed: robots, BlocksDestroyed: blocks})
		delete(e.bombs, id)
	}

	// 3. Remove destroyed blocks from the grid.
	for pos := range destroyedBlocks {
		e.blocks.remove(pos)
	}

	var pendingBlocks []model.Position

	// 4. Resolve each player.
	for _, pid := range e.playerOrder {
		if destroyedRobots[pid] {
			x, y := e.rng.position(e.cfg.SizeX, e.cfg.SizeY)
			pos := model.Position{X: x, Y: y}
			e.positions[pid] = pos
			e.scores[pid]++
			turn.Events = append(turn.Events, model.PlayerMoved{PlayerID: pid, Position: pos})
			continue
		}

		action, staged := e.actions[pid]
		if !staged {
			continue
		}

		switch action.Kind {
		case model.ActionMove:
			cur := e.positions[pid]
			dx, dy := action.Direction.Delta()
			nx, ny := int(cur.X)+dx, int(cur.Y)+dy
			if nx < 0 || ny < 0 || nx >= int(e.cfg.SizeX) || ny >= int(e.cfg.SizeY) {
				continue
			}
			target := model.Position{X: uint16(nx), Y: uint16(ny)}
			if e.blocks.contains(target) {
				continue
			}
			e.positions[pid] = target
			turn.Events = append(turn.Events, model.PlayerMoved{PlayerID: pid, Position: target})
		case model.ActionPlaceBomb:
			id := e.nextBomb
			e.nextBomb++
			pos := e.positions[pid]
			e.bombs[id] = &model.Bomb{ID: id, Position: pos, Timer: e.cfg.BombTimer}
			turn.Events = append(turn.Events, model.BombPlaced{BombID: id, Position: pos})
		case model.ActionPlaceBlock:
			pos := e.positions[pid]
			pendingBlocks = append(pendingBlocks, pos)
			turn.Events = append(turn.Events, model.BlockPlaced{Position: pos})
		}
	}

	for _, pos := range pendingBlocks {
		e.blocks.add(pos)
	}

	// 5. Clear staged actions, journal, broadcast.
	e.actions = make(map[model.PlayerID]model.Action)
	e.journal.append(turn)
	e.broadcastLocked(wire.TurnMessage(turn))
	if e.metrics != nil {
		e.metrics.TurnsEmitted.Inc()
		e.metrics.BombsExploded.Add(float64(countExplosions(turn)))
	}

	// 6. End of game.
	if e.currentTurn > e.cfg.GameLength {
		e.broadcastLocked(wire.GameEnded{OrderedIDs: e.orderedIDsLocked(), Scores: copyScores(e.scores)})
		if e.metrics != nil {
			e.metrics.GamesEnded.Inc()
		}
		e.resetSessionLocked()
	}
}

func sortPositions(p []model.Position) {
	sort.Slice(p, func(i, j int) bool {
		if p[i].X != p[j].X {
			return p[i].X < p[j].X
		}
		return p[i].Y < p[j].Y
	})
}

func copyScores(scores map[model.PlayerID]uint32) map[model.PlayerID]uint32 {
	out := make(map[model.PlayerID]uint32, len(scores))
	for k, v := range scores {
		out[k] = v
	}
	return out
}

func countExplosions(t model.Turn) int {
	n := 0
	for _, ev := range t.Events {
		if _, ok := ev.(model.BombExploded); ok {
			n++
		}
	}
	return n
}
