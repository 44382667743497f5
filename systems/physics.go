package systems

import "github.com/pthm-cable/surfaceplay/components"

// Bounds represents the simulation bounds.
type Bounds struct {
	Width, Height float32
}

// Integrate advances a particle by its velocity and reflects it off the
// field edges. A particle past an edge is clamped onto it and the matching
// velocity component is negated; a particle exactly on an edge is left alone.
// Returns true if any component was reflected.
func Integrate(p Particle, b Bounds) bool {
	pos, vel := p.Pos, p.Vel
	pos.X += vel.X
	pos.Y += vel.Y

	reflected := false

	if pos.X < 0 {
		pos.X = 0
		vel.X = -vel.X
		reflected = true
	} else if pos.X > b.Width {
		pos.X = b.Width
		vel.X = -vel.X
		reflected = true
	}

	if pos.Y < 0 {
		pos.Y = 0
		vel.Y = -vel.Y
		reflected = true
	} else if pos.Y > b.Height {
		pos.Y = b.Height
		vel.Y = -vel.Y
		reflected = true
	}

	return reflected
}

// IsOutOfScreen reports whether a particle has left the field by more than
// margin beyond any edge, counting its full radius.
func IsOutOfScreen(pos components.Position, size float32, b Bounds, margin float32) bool {
	return pos.X+size+margin < 0 ||
		pos.Y+size+margin < 0 ||
		pos.X-size > b.Width+margin ||
		pos.Y-size > b.Height+margin
}
