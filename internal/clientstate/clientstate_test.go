package clientstate

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"bombit/internal/config"
	"bombit/internal/model"
	"bombit/internal/wire"
)

func helloConfig() model.GameConfig {
	return model.GameConfig{
		ServerName:      "srv",
		PlayersCount:    1,
		SizeX:           3,
		SizeY:           3,
		GameLength:      10,
		ExplosionRadius: 1,
		BombTimer:       2,
	}
}

func TestServerIngressTracksLobbyThenGame(t *testing.T) {
	a := NewArbiter()
	var sent [][]byte
	si := NewServerIngress(a, func(p []byte) error {
		sent = append(sent, p)
		return nil
	})

	require.NoError(t, si.apply(wire.Hello{
		ServerName: "srv", PlayersCount: 1, SizeX: 3, SizeY: 3, GameLength: 10, ExplosionRadius: 1, BombTimer: 2,
	}))
	require.Equal(t, Lobby, a.Phase())

	require.NoError(t, si.apply(wire.AcceptedPlayer{ID: 0, Name: "alice", Address: "1.2.3.4:1"}))
	l := a.lobbySnapshot()
	require.Len(t, l.OrderedIDs, 1)

	require.NoError(t, si.apply(wire.GameStarted{
		OrderedIDs: []model.PlayerID{0},
		Players:    map[model.PlayerID]model.Player{0: {Name: "alice"}},
	}))
	require.Equal(t, InGame, a.Phase())
}

func TestApplyTurnBombExplosionPopulatesExplosionsAndScore(t *testing.T) {
	a := NewArbiter()
	si := NewServerIngress(a, func(p []byte) error { return nil })

	require.NoError(t, si.apply(wire.Hello{ServerName: "srv", PlayersCount: 1, SizeX: 3, SizeY: 3, GameLength: 10, ExplosionRadius: 1, BombTimer: 1}))
	require.NoError(t, si.apply(wire.GameStarted{
		OrderedIDs: []model.PlayerID{0},
		Players:    map[model.PlayerID]model.Player{0: {Name: "alice"}},
	}))

	si.applyTurn(model.Turn{Number: 1, Events: []model.Event{
		model.BombPlaced{BombID: 0, Position: model.Position{X: 1, Y: 1}},
	}})

	si.applyTurn(model.Turn{Number: 2, Events: []model.Event{
		model.BombExploded{BombID: 0, RobotsDestroyed: []model.PlayerID{0}},
	}})

	g := a.gameSnapshot()
	require.True(t, g.Explosions[model.Position{X: 1, Y: 1}])
	require.True(t, g.Explosions[model.Position{X: 2, Y: 1}])
	require.Equal(t, uint32(1), g.Scores[0])
	require.Empty(t, g.Bombs)
}

func TestGameEndedReturnsToLobbyWithoutDisconnect(t *testing.T) {
	a := NewArbiter()
	si := NewServerIngress(a, func(p []byte) error { return nil })

	require.NoError(t, si.apply(wire.Hello{ServerName: "srv", PlayersCount: 1, SizeX: 3, SizeY: 3, GameLength: 10}))
	require.NoError(t, si.apply(wire.GameStarted{OrderedIDs: []model.PlayerID{0}, Players: map[model.PlayerID]model.Player{0: {Name: "a"}}}))
	require.NoError(t, si.apply(wire.GameEnded{OrderedIDs: []model.PlayerID{0}, Scores: map[model.PlayerID]uint32{0: 3}}))

	require.Equal(t, Lobby, a.Phase())
}

func TestGUIIngressJoinsInLobbyAndForwardsInGame(t *testing.T) {
	a := NewArbiter()
	var sent []wire.C2SMessage
	gi := NewGUIIngress(a, func(p []byte) error {
		dec := wire.NewDecoder(bytes.NewReader(p))
		msg, err := wire.DecodeC2S(dec)
		require.NoError(t, err)
		sent = append(sent, msg)
		return nil
	}, config.Client{PlayerName: "bob"})

	require.NoError(t, gi.HandleDatagram([]byte{0})) // PlaceBomb, but Idle -> dropped
	require.Empty(t, sent)

	a.setHello(helloConfig())
	require.NoError(t, gi.HandleDatagram([]byte{0}))
	require.Len(t, sent, 1)
	_, ok := sent[0].(wire.Join)
	require.True(t, ok)

	a.startGame([]model.PlayerID{0}, map[model.PlayerID]model.Player{0: {Name: "bob"}})
	require.NoError(t, gi.HandleDatagram([]byte{2, 1}))
	require.Len(t, sent, 2)
	mv, ok := sent[1].(wire.Move)
	require.True(t, ok)
	require.Equal(t, model.Right, mv.Direction)
}

func TestGUIIngressDropsMalformedDatagram(t *testing.T) {
	a := NewArbiter()
	a.setHello(helloConfig())
	var calls int
	gi := NewGUIIngress(a, func(p []byte) error {
		calls++
		return nil
	}, config.Client{PlayerName: "bob"})

	require.NoError(t, gi.HandleDatagram([]byte{2, 4})) // direction 4 is invalid
	require.Equal(t, 0, calls)
}
