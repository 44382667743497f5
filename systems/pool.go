package systems

import (
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/surfaceplay/components"
)

// PoolStats counts pool traffic since the pool was created.
type PoolStats struct {
	Allocated int // acquires served by creating a new entity
	Recycled  int // acquires served from the reservoir
	Returned  int // releases kept in the reservoir
	Discarded int // releases dropped because the reservoir was full
}

// ParticlePool keeps a bounded reservoir of particle entities for reuse.
// Acquire never fails: an empty reservoir falls back to creating an entity.
// Release keeps at most capacity entities and removes the rest from the world.
//
// All methods are safe for concurrent use. The pool is the only writer of the
// entities it hands out until they are returned to the caller.
type ParticlePool struct {
	mu       sync.Mutex
	world    *ecs.World
	mapper   *ecs.Map4[components.Position, components.Velocity, components.Body, components.Tint]
	free     []ecs.Entity
	capacity int
	stats    PoolStats
}

// NewParticlePool creates a pool bounded to capacity retained entities.
// With prefill, capacity dormant entities are created up front.
func NewParticlePool(world *ecs.World, capacity int, prefill bool) *ParticlePool {
	if capacity < 0 {
		capacity = 0
	}
	p := &ParticlePool{
		world:    world,
		mapper:   ecs.NewMap4[components.Position, components.Velocity, components.Body, components.Tint](world),
		free:     make([]ecs.Entity, 0, capacity),
		capacity: capacity,
	}

	if prefill {
		for i := 0; i < capacity; i++ {
			pos := components.Position{}
			vel := components.Velocity{}
			body := components.Body{Size: 1}
			tint := components.Tint{}
			p.free = append(p.free, p.mapper.NewEntity(&pos, &vel, &body, &tint))
		}
	}

	return p
}

// Acquire returns an entity initialized from req, reusing a pooled one if available.
func (p *ParticlePool) Acquire(req SpawnRequest) ecs.Entity {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n := len(p.free); n > 0 {
		e := p.free[n-1]
		p.free = p.free[:n-1]

		pos, vel, body, tint := p.mapper.Get(e)
		*pos = components.Position{X: req.X, Y: req.Y}
		*vel = components.Velocity{X: req.VX, Y: req.VY}
		*body = components.Body{Size: req.Size}
		*tint = components.Tint{RGB: req.Color}

		p.stats.Recycled++
		return e
	}

	pos := components.Position{X: req.X, Y: req.Y}
	vel := components.Velocity{X: req.VX, Y: req.VY}
	body := components.Body{Size: req.Size}
	tint := components.Tint{RGB: req.Color}

	p.stats.Allocated++
	return p.mapper.NewEntity(&pos, &vel, &body, &tint)
}

// Release hands an entity back. It is retained for reuse while the
// reservoir is below capacity, otherwise removed from the world.
// Entities that are no longer alive are ignored.
func (p *ParticlePool) Release(e ecs.Entity) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.world.Alive(e) {
		return
	}

	if len(p.free) < p.capacity {
		p.free = append(p.free, e)
		p.stats.Returned++
		return
	}

	p.world.RemoveEntity(e)
	p.stats.Discarded++
}

// Len returns the number of entities currently retained for reuse.
func (p *ParticlePool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}

// Cap returns the reservoir bound.
func (p *ParticlePool) Cap() int {
	return p.capacity
}

// Stats returns a copy of the traffic counters.
func (p *ParticlePool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}
