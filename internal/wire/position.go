package wire

import "bombit/internal/model"

func (e *Encoder) WritePosition(p model.Position) {
	e.WriteU16(p.X)
	e.WriteU16(p.Y)
}

func (d *Decoder) ReadPosition() (model.Position, error) {
	x, err := d.ReadU16()
	if err != nil {
		return model.Position{}, err
	}
	y, err := d.ReadU16()
	if err != nil {
		return model.Position{}, err
	}
	return model.Position{X: x, Y: y}, nil
}

func (e *Encoder) WritePlayer(p model.Player) error {
	if err := e.WriteString(p.Name); err != nil {
		return err
	}
	return e.WriteString(p.Address)
}

func (d *Decoder) ReadPlayer() (model.Player, error) {
	name, err := d.ReadString()
	if err != nil {
		return model.Player{}, err
	}
	addr, err := d.ReadString()
	if err != nil {
		return model.Player{}, err
	}
	return model.Player{Name: name, Address: addr}, nil
}

// WritePlayerMap encodes a Map<u8,Player>. Iteration order is fixed by the
// caller (ordered by PlayerID) so encoding stays deterministic within one
// message.
func (e *Encoder) WritePlayerMap(ids []model.PlayerID, players map[model.PlayerID]model.Player) error {
	e.WriteCount(len(ids))
	for _, id := range ids {
		e.WriteU8(uint8(id))
		if err := e.WritePlayer(players[id]); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) ReadPlayerMap() (map[model.PlayerID]model.Player, error) {
	n, err := d.ReadCount()
	if err != nil {
		return nil, err
	}
	out := make(map[model.PlayerID]model.Player, n)
	for i := uint32(0); i < n; i++ {
		id, err := d.ReadU8()
		if err != nil {
			return nil, err
		}
		p, err := d.ReadPlayer()
		if err != nil {
			return nil, err
		}
		out[model.PlayerID(id)] = p
	}
	return out, nil
}

// WritePositionList encodes a List<Position>.
func (e *Encoder) WritePositionList(ps []model.Position) {
	e.WriteCount(len(ps))
	for _, p := range ps {
		e.WritePosition(p)
	}
}

func (d *Decoder) ReadPositionList() ([]model.Position, error) {
	n, err := d.ReadCount()
	if err != nil {
		return nil, err
	}
	out := make([]model.Position, 0, n)
	for i := uint32(0); i < n; i++ {
		p, err := d.ReadPosition()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// WritePlayerIDList encodes a List<u8 player_id>.
func (e *Encoder) WritePlayerIDList(ids []model.PlayerID) {
	e.WriteCount(len(ids))
	for _, id := range ids {
		e.WriteU8(uint8(id))
	}
}

func (d *Decoder) ReadPlayerIDList() ([]model.PlayerID, error) {
	n, err := d.ReadCount()
	if err != nil {
		return nil, err
	}
	out := make([]model.PlayerID, 0, n)
	for i := uint32(0); i < n; i++ {
		id, err := d.ReadU8()
		if err != nil {
			return nil, err
		}
		out = append(out, model.PlayerID(id))
	}
	return out, nil
}

// WriteScoreMap encodes a Map<u8,u32 score>, ordered by the given ids.
func (e *Encoder) WriteScoreMap(ids []model.PlayerID, scores map[model.PlayerID]uint32) {
	e.WriteCount(len(ids))
	for _, id := range ids {
		e.WriteU8(uint8(id))
		e.WriteU32(scores[id])
	}
}

func (d *Decoder) ReadScoreMap() (map[model.PlayerID]uint32, error) {
	n, err := d.ReadCount()
	if err != nil {
		return nil, err
	}
	out := make(map[model.PlayerID]uint32, n)
	for i := uint32(0); i < n; i++ {
		id, err := d.ReadU8()
		if err != nil {
			return nil, err
		}
		score, err := d.ReadU32()
		if err != nil {
			return nil, err
		}
		out[model.PlayerID(id)] = score
	}
	return out, nil
}

// WritePositionMap encodes a Map<u8,Position>, ordered by the given ids.
func (e *Encoder) WritePositionMap(ids []model.PlayerID, positions map[model.PlayerID]model.Position) {
	e.WriteCount(len(ids))
	for _, id := range ids {
		e.WriteU8(uint8(id))
		e.WritePosition(positions[id])
	}
}

func (d *Decoder) ReadPositionMap() (map[model.PlayerID]model.Position, error) {
	n, err := d.ReadCount()
	if err != nil {
		return nil, err
	}
	out := make(map[model.PlayerID]model.Position, n)
	for i := uint32(0); i < n; i++ {
		id, err := d.ReadU8()
		if err != nil {
			return nil, err
		}
		pos, err := d.ReadPosition()
		if err != nil {
			return nil, err
		}
		out[model.PlayerID(id)] = pos
	}
	return out, nil
}
