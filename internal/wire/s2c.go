package wire

import "bombit/internal/model"

// Server -> Client message tags.
const (
	TagHello          uint8 = 0
	TagAcceptedPlayer uint8 = 1
	TagGameStarted    uint8 = 2
	TagTurn           uint8 = 3
	TagGameEnded      uint8 = 4
)

// Hello carries the immutable game parameters, always the first byte a
// client observes on a fresh or recycled slot.
type Hello struct {
	ServerName      string
	PlayersCount    uint8
	SizeX, SizeY    uint16
	GameLength      uint16
	ExplosionRadius uint16
	BombTimer       uint16
}

type AcceptedPlayer struct {
	ID      model.PlayerID
	Name    string
	Address string
}

// GameStarted carries the full player map in join order.
type GameStarted struct {
	OrderedIDs []model.PlayerID
	Players    map[model.PlayerID]model.Player
}

type GameEnded struct {
	OrderedIDs []model.PlayerID
	Scores     map[model.PlayerID]uint32
}

// TurnMessage wraps model.Turn so it can implement S2CMessage; model.Turn
// itself stays a plain domain type shared with the journal and the client
// world model.
type TurnMessage model.Turn

// S2CMessage is the closed sum of server->client wire messages.
type S2CMessage interface {
	s2cTag() uint8
}

func (Hello) s2cTag() uint8          { return TagHello }
func (AcceptedPlayer) s2cTag() uint8 { return TagAcceptedPlayer }
func (GameStarted) s2cTag() uint8    { return TagGameStarted }
func (TurnMessage) s2cTag() uint8    { return TagTurn }
func (GameEnded) s2cTag() uint8      { return TagGameEnded }

// EncodeS2C writes one server->client message, tag byte first.
func EncodeS2C(e *Encoder, msg S2CMessage) error {
	e.WriteU8(msg.s2cTag())
	switch m := msg.(type) {
	case Hello:
		if err := e.WriteString(m.ServerName); err != nil {
			return err
		}
		e.WriteU8(m.PlayersCount)
		e.WriteU16(m.SizeX)
		e.WriteU16(m.SizeY)
		e.WriteU16(m.GameLength)
		e.WriteU16(m.ExplosionRadius)
		e.WriteU16(m.BombTimer)
	case AcceptedPlayer:
		e.WriteU8(uint8(m.ID))
		if err := e.WriteString(m.Name); err != nil {
			return err
		}
		if err := e.WriteString(m.Address); err != nil {
			return err
		}
	case GameStarted:
		if err := e.WritePlayerMap(m.OrderedIDs, m.Players); err != nil {
			return err
		}
	case TurnMessage:
		if err := e.WriteTurn(model.Turn(m)); err != nil {
			return err
		}
	case GameEnded:
		e.WriteScoreMap(m.OrderedIDs, m.Scores)
	default:
		return protoErrf("unknown S2C message type %T", msg)
	}
	return nil
}

// DecodeS2C reads one server->client message.
func DecodeS2C(d *Decoder) (S2CMessage, error) {
	tag, err := d.ReadU8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case TagHello:
		name, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		players, err := d.ReadU8()
		if err != nil {
			return nil, err
		}
		sx, err := d.ReadU16()
		if err != nil {
			return nil, err
		}
		sy, err := d.ReadU16()
		if err != nil {
			return nil, err
		}
		length, err := d.ReadU16()
		if err != nil {
			return nil, err
		}
		radius, err := d.ReadU16()
		if err != nil {
			return nil, err
		}
		timer, err := d.ReadU16()
		if err != nil {
			return nil, err
		}
		return Hello{ServerName: name, PlayersCount: players, SizeX: sx, SizeY: sy, GameLength: length, ExplosionRadius: radius, BombTimer: timer}, nil
	case TagAcceptedPlayer:
		id, err := d.ReadU8()
		if err != nil {
			return nil, err
		}
		name, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		addr, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		return AcceptedPlayer{ID: model.PlayerID(id), Name: name, Address: addr}, nil
	case TagGameStarted:
		players, err := d.ReadPlayerMap()
		if err != nil {
			return nil, err
		}
		return GameStarted{OrderedIDs: orderedIDs(players), Players: players}, nil
	case TagTurn:
		t, err := d.ReadTurn()
		if err != nil {
			return nil, err
		}
		return TurnMessage(t), nil
	case TagGameEnded:
		scores, err := d.ReadScoreMap()
		if err != nil {
			return nil, err
		}
		return GameEnded{OrderedIDs: orderedScoreIDs(scores), Scores: scores}, nil
	default:
		return nil, protoErrf("unknown S2C tag %d", tag)
	}
}

func orderedIDs(m map[model.PlayerID]model.Player) []model.PlayerID {
	ids := make([]model.PlayerID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sortPlayerIDs(ids)
	return ids
}

func orderedScoreIDs(m map[model.PlayerID]uint32) []model.PlayerID {
	ids := make([]model.PlayerID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sortPlayerIDs(ids)
	return ids
}

func sortPlayerIDs(ids []model.PlayerID) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}
