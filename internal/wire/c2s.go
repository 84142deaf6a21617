package wire

import "bombit/internal/model"

// Client -> Server message tags.
const (
	TagJoin       uint8 = 0
	TagPlaceBomb  uint8 = 1
	TagPlaceBlock uint8 = 2
	TagMove       uint8 = 3
)

type Join struct {
	Name string
}

type PlaceBomb struct{}

type PlaceBlock struct{}

type Move struct {
	Direction model.Direction
}

// C2SMessage is the closed sum of client->server wire messages.
type C2SMessage interface {
	c2sTag() uint8
}

func (Join) c2sTag() uint8       { return TagJoin }
func (PlaceBomb) c2sTag() uint8  { return TagPlaceBomb }
func (PlaceBlock) c2sTag() uint8 { return TagPlaceBlock }
func (Move) c2sTag() uint8       { return TagMove }

// EncodeC2S writes one client->server message, tag byte first.
func EncodeC2S(e *Encoder, msg C2SMessage) error {
	e.WriteU8(msg.c2sTag())
	switch m := msg.(type) {
	case Join:
		if err := e.WriteString(m.Name); err != nil {
			return err
		}
	case PlaceBomb, PlaceBlock:
		// no payload
	case Move:
		e.WriteU8(uint8(m.Direction))
	default:
		return protoErrf("unknown C2S message type %T", msg)
	}
	return nil
}

// DecodeC2S reads one client->server message. A direction outside 0..3 is a
// protocol violation.
func DecodeC2S(d *Decoder) (C2SMessage, error) {
	tag, err := d.ReadU8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case TagJoin:
		name, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		return Join{Name: name}, nil
	case TagPlaceBomb:
		return PlaceBomb{}, nil
	case TagPlaceBlock:
		return PlaceBlock{}, nil
	case TagMove:
		dir, err := d.ReadU8()
		if err != nil {
			return nil, err
		}
		direction := model.Direction(dir)
		if !direction.Valid() {
			return nil, protoErrf("invalid direction %d", dir)
		}
		return Move{Direction: direction}, nil
	default:
		return nil, protoErrf("unknown C2S tag %d", tag)
	}
}
