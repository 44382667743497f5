package game

import (
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/surfaceplay/systems"
	"github.com/pthm-cable/surfaceplay/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and writes the result.
// Called from Tick with tickMu held.
func (s *Simulation) flushTelemetry(tick int32) {
	if !s.collector.ShouldFlush(tick) {
		return
	}

	stats := s.collector.Flush(tick, s.sampleField())
	perfStats := s.perfCollector.Stats()

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if s.outputManager != nil {
		if err := s.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := s.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// sampleField collects speed, energy and momentum over the live set.
// Component views are rebuilt because culled entities may have been removed.
func (s *Simulation) sampleField() telemetry.FieldSample {
	s.collectParticles()

	poolStats := s.pool.Stats()
	sample := telemetry.FieldSample{
		Live:          len(s.live),
		PoolSize:      s.pool.Len(),
		PoolAllocated: poolStats.Allocated,
		PoolRecycled:  poolStats.Recycled,
		PoolDiscarded: poolStats.Discarded,
		Speeds:        make([]float64, 0, len(s.particles)),
	}

	for _, p := range s.particles {
		speed := float64(systems.Speed(p.Vel.X, p.Vel.Y))
		mass := float64(p.Mass())

		sample.Speeds = append(sample.Speeds, speed)
		sample.KineticEnergy += 0.5 * mass * speed * speed
		sample.Momentum = r2.Add(sample.Momentum, telemetry.Momentum(mass, float64(p.Vel.X), float64(p.Vel.Y)))
	}

	return sample
}
