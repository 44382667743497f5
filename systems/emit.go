package systems

import "math/rand"

// SpawnRequest carries the initial state of a particle to be acquired from the pool.
type SpawnRequest struct {
	X, Y   float32
	VX, VY float32
	Size   float32
	Color  uint32
}

// Emitter draws randomized particle kinematics.
// Velocity components fall in [-VelocitySpread/2, VelocitySpread/2);
// size falls in [MinSize, MinSize+SizeRange).
type Emitter struct {
	VelocitySpread float32
	MinSize        float32
	SizeRange      float32
}

// Request draws a spawn request at (x, y) from rng.
// The draw order is vx, vy, size, color so a given seed always yields the same particle.
func (e Emitter) Request(rng *rand.Rand, x, y float32) SpawnRequest {
	vx := (rng.Float32() - 0.5) * e.VelocitySpread
	vy := (rng.Float32() - 0.5) * e.VelocitySpread
	size := rng.Float32()*e.SizeRange + e.MinSize
	return SpawnRequest{
		X:     x,
		Y:     y,
		VX:    vx,
		VY:    vy,
		Size:  size,
		Color: RandomColor(rng),
	}
}

// Scatter draws a spawn request at a uniformly random position inside b.
func (e Emitter) Scatter(rng *rand.Rand, b Bounds) SpawnRequest {
	x := rng.Float32() * b.Width
	y := rng.Float32() * b.Height
	return e.Request(rng, x, y)
}
