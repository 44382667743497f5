package systems

import "github.com/pthm-cable/surfaceplay/components"

// Particle is a view of one live particle's components.
// The pointers come from the ECS world and stay valid only until the next
// structural change (entity creation or removal).
type Particle struct {
	Pos  *components.Position
	Vel  *components.Velocity
	Body *components.Body
}

// NewParticle builds a standalone particle that is not backed by an ECS world.
func NewParticle(x, y, vx, vy, size float32) Particle {
	return Particle{
		Pos:  &components.Position{X: x, Y: y},
		Vel:  &components.Velocity{X: vx, Y: vy},
		Body: &components.Body{Size: size},
	}
}

// Mass returns the particle's derived mass.
func (p Particle) Mass() float32 {
	return p.Body.Mass()
}
