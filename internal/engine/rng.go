package engine

import "math/rand"

// rng wraps math/rand with the formula used for reproducible placement:
// (x,y) = (rng()%size_x, rng()%size_y). Keeping a single stream per game and
// consuming it in a fixed order (player spawns, then block placements) is
// what makes two engines seeded alike converge to the same world.
type rng struct {
	src *rand.Rand
}

func newRNG(seed int64) *rng {
	return &rng{src: rand.New(rand.NewSource(seed))}
}

// position draws a uniformly random in-bounds position using the source's
// raw uint32 output, matching the original modulo formula bit for bit.
func (r *rng) position(sizeX, sizeY uint16) (x, y uint16) {
	x = uint16(r.src.Uint32() % uint32(sizeX))
	y = uint16(r.src.Uint32() % uint32(sizeY))
	return x, y
}
