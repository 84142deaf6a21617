package clientstate

import (
	"sync"

	"bombit/internal/model"
)

// Phase is the client's three-state arbiter.
type Phase uint8

const (
	Idle Phase = iota
	Lobby
	InGame
)

// Arbiter is shared between the server-ingress task (writer) and the
// GUI-ingress task (reader): the only cross-task state on the client side.
type Arbiter struct {
	mu    sync.Mutex
	phase Phase
	hello model.GameConfig
	lobby LobbyView
	game  InGameView
}

func NewArbiter() *Arbiter {
	return &Arbiter{phase: Idle}
}

func (a *Arbiter) Phase() Phase {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.phase
}

func (a *Arbiter) setHello(h model.GameConfig) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hello = h
	a.phase = Lobby
	a.lobby = newLobbyView(h)
}

func (a *Arbiter) lobbySnapshot() LobbyView {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lobby
}

func (a *Arbiter) gameSnapshot() InGameView {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.game
}

func (a *Arbiter) withLobby(fn func(*LobbyView)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(&a.lobby)
}

func (a *Arbiter) startGame(orderedIDs []model.PlayerID, players map[model.PlayerID]model.Player) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.phase = InGame
	a.game = newInGameView()
	a.game.ServerName = a.hello.ServerName
	a.game.SizeX = a.hello.SizeX
	a.game.SizeY = a.hello.SizeY
	a.game.GameLength = a.hello.GameLength
	a.game.ExplosionRadius = a.hello.ExplosionRadius
	a.game.BombTimer = a.hello.BombTimer
	a.game.OrderedIDs = orderedIDs
	a.game.Players = players
	for _, id := range orderedIDs {
		a.game.Scores[id] = 0
	}
}

func (a *Arbiter) withGame(fn func(*InGameView)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(&a.game)
}

// endGame returns the arbiter to Lobby, resets the lobby view from the
// stored Hello and clears the in-game view (startGame rebuilds it from the
// same Hello); the connection itself stays up.
func (a *Arbiter) endGame() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.phase = Lobby
	a.lobby = newLobbyView(a.hello)
	a.game = InGameView{}
}
