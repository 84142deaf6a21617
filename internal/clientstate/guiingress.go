package clientstate

import (
	"bombit/internal/config"
	"bombit/internal/wire"
)

// ServerSender forwards one encoded C2S message to the server over TCP.
type ServerSender func(payload []byte) error

// GUIIngress consumes UDP datagrams from the local GUI and either emits a
// Join (Lobby), forwards an action (InGame), or drops the datagram (Idle or
// malformed).
type GUIIngress struct {
	arbiter    *Arbiter
	toServer   ServerSender
	playerName string
}

func NewGUIIngress(a *Arbiter, toServer ServerSender, cfg config.Client) *GUIIngress {
	return &GUIIngress{arbiter: a, toServer: toServer, playerName: cfg.PlayerName}
}

// HandleDatagram processes one raw UDP payload from the GUI.
func (gi *GUIIngress) HandleDatagram(data []byte) error {
	msg, ok := wire.DecodeGUIDatagram(data)
	if !ok {
		return nil // silently dropped
	}

	switch gi.arbiter.Phase() {
	case Lobby:
		return gi.send(wire.Join{Name: gi.playerName})
	case InGame:
		c2s, ok := wire.EncodeGUIForward(msg)
		if !ok {
			return nil
		}
		return gi.send(c2s)
	default: // Idle
		return nil
	}
}

func (gi *GUIIngress) send(msg wire.C2SMessage) error {
	enc := wire.NewEncoder()
	if err := wire.EncodeC2S(enc, msg); err != nil {
		return err
	}
	return gi.toServer(enc.Bytes())
}
