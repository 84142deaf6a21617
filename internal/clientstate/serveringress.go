package clientstate

import (
	"fmt"
	"io"
	"log"

	"bombit/internal/blast"
	"bombit/internal/model"
	"bombit/internal/wire"
)

// GUISender pushes one encoded datagram to the local GUI.
type GUISender func(payload []byte) error

// ServerIngress consumes the server's TCP byte stream and mirrors it into
// the arbiter, emitting a GUI snapshot after every message.
type ServerIngress struct {
	arbiter *Arbiter
	toGUI   GUISender
}

func NewServerIngress(a *Arbiter, toGUI GUISender) *ServerIngress {
	return &ServerIngress{arbiter: a, toGUI: toGUI}
}

// Run decodes messages from r until it errs or r is exhausted. A protocol
// violation is treated as a fatal contract break — the caller is expected to
// treat a non-nil return as fatal.
func (si *ServerIngress) Run(r io.Reader) error {
	dec := wire.NewDecoder(r)
	for {
		msg, err := wire.DecodeS2C(dec)
		if err != nil {
			return err
		}
		if err := si.apply(msg); err != nil {
			return err
		}
		if err := si.emitSnapshot(); err != nil {
			log.Printf("client: gui send: %v", err)
		}
	}
}

func (si *ServerIngress) apply(msg wire.S2CMessage) error {
	switch m := msg.(type) {
	case wire.Hello:
		si.arbiter.setHello(model.GameConfig{
			ServerName:      m.ServerName,
			PlayersCount:    m.PlayersCount,
			SizeX:           m.SizeX,
			SizeY:           m.SizeY,
			GameLength:      m.GameLength,
			ExplosionRadius: m.ExplosionRadius,
			BombTimer:       m.BombTimer,
		})
	case wire.AcceptedPlayer:
		si.arbiter.withLobby(func(v *LobbyView) {
			v.OrderedIDs = append(v.OrderedIDs, m.ID)
			v.Players[m.ID] = model.Player{Name: m.Name, Address: m.Address}
		})
	case wire.GameStarted:
		si.arbiter.startGame(m.OrderedIDs, m.Players)
	case wire.TurnMessage:
		si.applyTurn(model.Turn(m))
	case wire.GameEnded:
		si.arbiter.endGame()
	default:
		return fmt.Errorf("%w: unexpected S2C message %T", wire.ErrProtocol, msg)
	}
	return nil
}

// applyTurn folds one Turn's events into the in-game view: bomb timers
// decrement, explosions recompute their blast radius locally via the same
// propagation the server uses, and destroyed robots/blocks update scores and
// the block set.
func (si *ServerIngress) applyTurn(t model.Turn) {
	si.arbiter.withGame(func(v *InGameView) {
		v.Turn = t.Number
		v.Explosions = make(map[model.Position]bool)
		destroyedRobots := make(map[model.PlayerID]bool)
		destroyedBlocks := make(map[model.Position]bool)

		for _, b := range v.Bombs {
			if b.Timer > 0 {
				b.Timer--
			}
		}

		for _, ev := range t.Events {
			switch e := ev.(type) {
			case model.BombPlaced:
				v.Bombs[e.BombID] = &model.Bomb{ID: e.BombID, Position: e.Position, Timer: v.BombTimer}
			case model.BombExploded:
				if bomb, known := v.Bombs[e.BombID]; known {
					affected := blast.Affected(bomb.Position, v.ExplosionRadius, v.SizeX, v.SizeY, blast.IsBlockFromSet(v.Blocks))
					for pos := range affected {
						v.Explosions[pos] = true
					}
				}
				delete(v.Bombs, e.BombID)
				for _, pid := range e.RobotsDestroyed {
					destroyedRobots[pid] = true
				}
				for _, pos := range e.BlocksDestroyed {
					destroyedBlocks[pos] = true
				}
			case model.PlayerMoved:
				v.PlayerPositions[e.PlayerID] = e.Position
			case model.BlockPlaced:
				v.Blocks[e.Position] = true
			}
		}

		for pid := range destroyedRobots {
			v.Scores[pid]++
		}
		for pos := range destroyedBlocks {
			delete(v.Blocks, pos)
		}
	})
}

// emitSnapshot encodes the arbiter's current view and sends it to the GUI,
// as either a Lobby or a Game snapshot depending on the current phase.
func (si *ServerIngress) emitSnapshot() error {
	switch si.arbiter.Phase() {
	case Lobby:
		l := si.arbiter.lobbySnapshot()
		enc := wire.NewEncoder()
		if err := wire.EncodeLobby(enc, wire.Lobby{
			ServerName:      l.ServerName,
			PlayersCount:    l.PlayersCount,
			SizeX:           l.SizeX,
			SizeY:           l.SizeY,
			GameLength:      l.GameLength,
			ExplosionRadius: l.ExplosionRadius,
			BombTimer:       l.BombTimer,
			OrderedIDs:      l.OrderedIDs,
			Players:         l.Players,
		}); err != nil {
			return err
		}
		return si.toGUI(enc.Bytes())
	case InGame:
		g := si.arbiter.gameSnapshot()
		enc := wire.NewEncoder()
		if err := wire.EncodeGame(enc, wire.Game{
			ServerName:      g.ServerName,
			SizeX:           g.SizeX,
			SizeY:           g.SizeY,
			GameLength:      g.GameLength,
			Turn:            g.Turn,
			OrderedIDs:      g.OrderedIDs,
			Players:         g.Players,
			PlayerPositions: g.PlayerPositions,
			Blocks:          positionKeys(g.Blocks),
			Bombs:           bombValues(g.Bombs),
			Explosions:      positionKeys(g.Explosions),
			Scores:          g.Scores,
		}); err != nil {
			return err
		}
		return si.toGUI(enc.Bytes())
	default:
		return nil
	}
}

func positionKeys(m map[model.Position]bool) []model.Position {
	out := make([]model.Position, 0, len(m))
	for p := range m {
		out = append(out, p)
	}
	return out
}

func bombValues(m map[model.BombID]*model.Bomb) []model.Bomb {
	out := make([]model.Bomb, 0, len(m))
	for _, b := range m {
		out = append(out, *b)
	}
	return out
}
