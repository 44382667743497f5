// Package components defines the ECS components that make up a particle.
//
// A live particle is an ark entity carrying Position, Velocity, Body and Tint.
// Entities are recycled through systems.ParticlePool, so an entity's identity
// is its slot, not its values.
package components
