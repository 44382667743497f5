package game

import (
	"github.com/pthm-cable/surfaceplay/systems"
	"github.com/pthm-cable/surfaceplay/telemetry"
)

// Tick advances the field by one step and publishes a new frame.
// Calls are serialized; before the first valid SurfaceReady it does nothing.
func (s *Simulation) Tick() {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	if s.grid == nil {
		return
	}

	tick := s.tick.Load() + 1
	stats := TickStats{Tick: tick}

	s.perfCollector.StartTick()

	s.perfCollector.StartPhase(telemetry.PhaseDrain)
	stats.Spawned = s.drainInbox()
	s.collector.RecordSpawned(stats.Spawned)

	s.perfCollector.StartPhase(telemetry.PhaseSpatialGrid)
	s.collectParticles()
	s.grid.Rebuild(s.particles)

	s.perfCollector.StartPhase(telemetry.PhaseIntegrate)
	for _, p := range s.particles {
		systems.Integrate(p, s.bounds)
	}

	s.perfCollector.StartPhase(telemetry.PhaseCollide)
	stats.PairChecks, stats.Collisions = s.collide()

	s.perfCollector.StartPhase(telemetry.PhaseCull)
	s.markCulled()

	s.perfCollector.StartPhase(telemetry.PhaseFrame)
	s.buildFrame(tick)
	s.publishFrame()

	// Released only now: removing an entity invalidates the component
	// pointers the frame builder reads.
	s.perfCollector.StartPhase(telemetry.PhaseCull)
	stats.Culled = s.releaseCulled()

	s.tick.Store(tick)
	s.lastTick = stats

	s.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	s.flushTelemetry(tick)

	s.perfCollector.EndTick()
}

// collectParticles refreshes the per-tick component views of the live set.
// Slot i of every per-tick slice refers to live[i].
func (s *Simulation) collectParticles() {
	s.particles = s.particles[:0]
	s.tints = s.tints[:0]
	for _, e := range s.live {
		pos, vel, body, tint := s.mapper.Get(e)
		s.particles = append(s.particles, systems.Particle{Pos: pos, Vel: vel, Body: body})
		s.tints = append(s.tints, tint.RGB)
	}
}

// collide runs the narrow phase over range-1 grid neighbors.
// In per-pair mode a pair is visited only from its lower slot.
func (s *Simulation) collide() (checks, collisions int) {
	dedupe := s.cfg.Derived.DedupePairs

	for i := range s.particles {
		a := s.particles[i]
		s.neighbors = s.grid.Neighbors(s.neighbors[:0], int32(i), 1)

		for _, j := range s.neighbors {
			if int(j) == i || (dedupe && int(j) < i) {
				continue
			}
			b := s.particles[j]

			checks++
			s.collector.RecordPairCheck()
			if !systems.IsColliding(a, b) {
				continue
			}

			systems.Resolve(a, b)
			systems.CorrectPosition(a, b)
			collisions++
			s.collector.RecordCollision()
		}
	}

	return checks, collisions
}

// markCulled flags particles that left the field beyond the margin.
func (s *Simulation) markCulled() {
	margin := s.cfg.Derived.Margin32

	s.culled = s.culled[:0]
	for _, p := range s.particles {
		out := systems.IsOutOfScreen(*p.Pos, p.Body.Size, s.bounds, margin)
		if out {
			s.collector.RecordCulled()
		}
		s.culled = append(s.culled, out)
	}
}
