package engine

import "bombit/internal/model"

// blockGrid is a dense occupancy index for blocks, adapted from the
// teacher's spatial grid (internal/systems/visibility.go): instead of
// bucketing players into cells for viewport culling — this domain has no
// viewport, every observer sees the whole board — it indexes block
// occupancy for O(1) membership checks during blast propagation and move
// validation, backed by the same dense 2D slice layout.
type blockGrid struct {
	width, height uint16
	cells         [][]bool
}

func newBlockGrid(width, height uint16) *blockGrid {
	cells := make([][]bool, width)
	for x := range cells {
		cells[x] = make([]bool, height)
	}
	return &blockGrid{width: width, height: height, cells: cells}
}

func (g *blockGrid) contains(p model.Position) bool {
	if p.X >= g.width || p.Y >= g.height {
		return false
	}
	return g.cells[p.X][p.Y]
}

func (g *blockGrid) add(p model.Position) {
	if p.X >= g.width || p.Y >= g.height {
		return
	}
	g.cells[p.X][p.Y] = true
}

func (g *blockGrid) remove(p model.Position) {
	if p.X >= g.width || p.Y >= g.height {
		return
	}
	g.cells[p.X][p.Y] = false
}

// snapshot returns every occupied position, used when a bomb's blast needs
// the block set as it stood at the start of the turn, before any blocks
// placed this turn are inserted.
func (g *blockGrid) snapshot() map[model.Position]bool {
	out := make(map[model.Position]bool)
	for x := uint16(0); x < g.width; x++ {
		for y := uint16(0); y < g.height; y++ {
			if g.cells[x][y] {
				out[model.Position{X: x, Y: y}] = true
			}
		}
	}
	return out
}

func (g *blockGrid) inBounds(p model.Position) bool {
	return p.X < g.width && p.Y < g.height
}
