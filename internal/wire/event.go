package wire

import "bombit/internal/model"

// WriteEvent encodes one tagged Event variant.
func (e *Encoder) WriteEvent(ev model.Event) error {
	e.WriteU8(ev.Tag())
	switch v := ev.(type) {
	case model.BombPlaced:
		e.WriteU32(uint32(v.BombID))
		e.WritePosition(v.Position)
	case model.BombExploded:
		e.WriteU32(uint32(v.BombID))
		e.WritePlayerIDList(v.RobotsDestroyed)
		e.WritePositionList(v.BlocksDestroyed)
	case model.PlayerMoved:
		e.WriteU8(uint8(v.PlayerID))
		e.WritePosition(v.Position)
	case model.BlockPlaced:
		e.WritePosition(v.Position)
	default:
		return protoErrf("unknown event type %T", ev)
	}
	return nil
}

// ReadEvent decodes one tagged Event variant.
func (d *Decoder) ReadEvent() (model.Event, error) {
	tag, err := d.ReadU8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case model.EventTagBombPlaced:
		id, err := d.ReadU32()
		if err != nil {
			return nil, err
		}
		pos, err := d.ReadPosition()
		if err != nil {
			return nil, err
		}
		return model.BombPlaced{BombID: model.BombID(id), Position: pos}, nil
	case model.EventTagBombExploded:
		id, err := d.ReadU32()
		if err != nil {
			return nil, err
		}
		robots, err := d.ReadPlayerIDList()
		if err != nil {
			return nil, err
		}
		blocks, err := d.ReadPositionList()
		if err != nil {
			return nil, err
		}
		return model.BombExploded{BombID: model.BombID(id), RobotsDestroyed: robots, BlocksDestroyed: blocks}, nil
	case model.EventTagPlayerMoved:
		pid, err := d.ReadU8()
		if err != nil {
			return nil, err
		}
		pos, err := d.ReadPosition()
		if err != nil {
			return nil, err
		}
		return model.PlayerMoved{PlayerID: model.PlayerID(pid), Position: pos}, nil
	case model.EventTagBlockPlaced:
		pos, err := d.ReadPosition()
		if err != nil {
			return nil, err
		}
		return model.BlockPlaced{Position: pos}, nil
	default:
		return nil, protoErrf("unknown event tag %d", tag)
	}
}

// WriteTurn encodes a Turn: u16 turn, List<Event>, events in recorded order.
func (e *Encoder) WriteTurn(t model.Turn) error {
	e.WriteU16(t.Number)
	e.WriteCount(len(t.Events))
	for _, ev := range t.Events {
		if err := e.WriteEvent(ev); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) ReadTurn() (model.Turn, error) {
	num, err := d.ReadU16()
	if err != nil {
		return model.Turn{}, err
	}
	n, err := d.ReadCount()
	if err != nil {
		return model.Turn{}, err
	}
	events := make([]model.Event, 0, n)
	for i := uint32(0); i < n; i++ {
		ev, err := d.ReadEvent()
		if err != nil {
			return model.Turn{}, err
		}
		events = append(events, ev)
	}
	return model.Turn{Number: num, Events: events}, nil
}
