// Package clientstate mirrors the server's authoritative world on the
// player client: a state arbiter and the two views it feeds from, driven by
// the server-ingress task and read by the GUI-ingress task.
package clientstate

import "bombit/internal/model"

// LobbyView accumulates accepted players while the arbiter is in Lobby.
type LobbyView struct {
	ServerName      string
	PlayersCount    uint8
	SizeX, SizeY    uint16
	GameLength      uint16
	ExplosionRadius uint16
	BombTimer       uint16
	OrderedIDs      []model.PlayerID
	Players         map[model.PlayerID]model.Player
}

func newLobbyView(h model.GameConfig) LobbyView {
	return LobbyView{
		ServerName:      h.ServerName,
		PlayersCount:    h.PlayersCount,
		SizeX:           h.SizeX,
		SizeY:           h.SizeY,
		GameLength:      h.GameLength,
		ExplosionRadius: h.ExplosionRadius,
		BombTimer:       h.BombTimer,
		Players:         make(map[model.PlayerID]model.Player),
	}
}

// InGameView is the client's reconstruction of the current game, rebuilt
// from Turn events as they arrive.
type InGameView struct {
	ServerName      string
	SizeX, SizeY    uint16
	GameLength      uint16
	ExplosionRadius uint16
	BombTimer       uint16

	Turn            uint16
	OrderedIDs      []model.PlayerID
	Players         map[model.PlayerID]model.Player
	PlayerPositions map[model.PlayerID]model.Position
	Blocks          map[model.Position]bool
	Bombs           map[model.BombID]*model.Bomb
	Explosions      map[model.Position]bool
	Scores          map[model.PlayerID]uint32
}

func newInGameView() InGameView {
	return InGameView{
		Players:         make(map[model.PlayerID]model.Player),
		PlayerPositions: make(map[model.PlayerID]model.Position),
		Blocks:          make(map[model.Position]bool),
		Bombs:           make(map[model.BombID]*model.Bomb),
		Explosions:      make(map[model.Position]bool),
		Scores:          make(map[model.PlayerID]uint32),
	}
}
