package systems

// IsColliding reports whether two particles overlap now, or would overlap
// after both advance by their velocity. The look-ahead catches fast particles
// that would otherwise pass through each other within one tick.
func IsColliding(a, b Particle) bool {
	reach := a.Body.Size + b.Body.Size
	reachSq := reach * reach

	if distanceSq(a.Pos.X, a.Pos.Y, b.Pos.X, b.Pos.Y) < reachSq {
		return true
	}

	nax := a.Pos.X + a.Vel.X
	nay := a.Pos.Y + a.Vel.Y
	nbx := b.Pos.X + b.Vel.X
	nby := b.Pos.Y + b.Vel.Y
	return distanceSq(nax, nay, nbx, nby) < reachSq
}

// Resolve exchanges an elastic impulse between a and b along the line
// connecting their centers. Only velocities change. Momentum along the
// normal is conserved for any pair of masses.
// Returns false (and does nothing) when the centers coincide.
func Resolve(a, b Particle) bool {
	nx := b.Pos.X - a.Pos.X
	ny := b.Pos.Y - a.Pos.Y
	length := distance(a.Pos.X, a.Pos.Y, b.Pos.X, b.Pos.Y)
	if length == 0 {
		return false
	}
	nx /= length
	ny /= length

	// Relative velocity projected on the normal
	rvx := b.Vel.X - a.Vel.X
	rvy := b.Vel.Y - a.Vel.Y
	dot := rvx*nx + rvy*ny

	ma := a.Body.Mass()
	mb := b.Body.Mass()
	impulse := 2 * dot / (ma + mb)

	a.Vel.X += impulse * mb * nx
	a.Vel.Y += impulse * mb * ny
	b.Vel.X -= impulse * ma * nx
	b.Vel.Y -= impulse * ma * ny

	return true
}

// CorrectPosition pushes overlapping particles apart along the line
// connecting their centers, each by half the overlap.
// Returns true if the particles were moved.
func CorrectPosition(a, b Particle) bool {
	dist := distance(a.Pos.X, a.Pos.Y, b.Pos.X, b.Pos.Y)
	if dist == 0 {
		return false
	}

	overlap := a.Body.Size + b.Body.Size - dist
	if overlap <= 0 {
		return false
	}

	dx := (a.Pos.X - b.Pos.X) / dist
	dy := (a.Pos.Y - b.Pos.Y) / dist
	half := overlap / 2

	a.Pos.X += dx * half
	a.Pos.Y += dy * half
	b.Pos.X -= dx * half
	b.Pos.Y -= dy * half

	return true
}
