// Package blast implements the four-ray blast propagation algorithm used to
// resolve a bomb explosion. It is shared verbatim between the server engine
// (computing the authoritative affected set when a bomb explodes) and the
// client's server-ingress task (recomputing the same set from a
// BombExploded event to drive the explosion-cell snapshot).
package blast

import "bombit/internal/model"

// IsBlock reports whether a position holds a block, sampled at turn start.
type IsBlock func(model.Position) bool

// Affected returns the set of cells destroyed by a bomb at pos with blast
// radius r on a sizeX*sizeY grid. pos is always included. If pos itself is
// not a block, four rays extend in +x, -x, +y, -y: each walks up to r
// cells, stopping (inclusive) at the grid edge or at the first block.
func Affected(pos model.Position, r, sizeX, sizeY uint16, isBlock IsBlock) map[model.Position]bool {
	affected := map[model.Position]bool{pos: true}
	if isBlock(pos) {
		return affected
	}

	type dir struct{ dx, dy int }
	dirs := []dir{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

	for _, d := range dirs {
		x, y := int(pos.X), int(pos.Y)
		for step := 0; step < int(r); step++ {
			x += d.dx
			y += d.dy
			if x < 0 || y < 0 || x >= int(sizeX) || y >= int(sizeY) {
				break
			}
			cell := model.Position{X: uint16(x), Y: uint16(y)}
			affected[cell] = true
			if isBlock(cell) {
				break
			}
		}
	}
	return affected
}

// IsBlockFromSet adapts a plain set of block positions (the common case:
// blocks sampled once at turn start) to the IsBlock signature.
func IsBlockFromSet(blocks map[model.Position]bool) IsBlock {
	return func(p model.Position) bool { return blocks[p] }
}
