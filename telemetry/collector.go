package telemetry

import "gonum.org/v1/gonum/spatial/r2"

// FieldSample is the state of the particle field sampled at a window boundary.
// Pool counters are cumulative since the pool was created; the collector
// reports the per-window difference.
type FieldSample struct {
	Live          int
	PoolSize      int
	PoolAllocated int
	PoolRecycled  int
	PoolDiscarded int
	Speeds        []float64
	KineticEnergy float64
	Momentum      r2.Vec
}

// Collector accumulates events within tick windows and produces WindowStats.
// It is owned by the tick path and is not safe for concurrent use.
type Collector struct {
	windowDurationTicks int32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	spawned    int
	culled     int
	pairChecks int
	collisions int

	// Cumulative pool counters at the start of the window
	poolAllocated int
	poolRecycled  int
	poolDiscarded int
}

// NewCollector creates a new stats collector flushing every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowDurationTicks: int32(windowTicks),
	}
}

// RecordSpawned records n particles entering the live set.
func (c *Collector) RecordSpawned(n int) {
	c.spawned += n
}

// RecordCulled records a particle leaving the field.
func (c *Collector) RecordCulled() {
	c.culled++
}

// RecordPairCheck records a narrow-phase overlap test.
func (c *Collector) RecordPairCheck() {
	c.pairChecks++
}

// RecordCollision records a resolved collision.
func (c *Collector) RecordCollision() {
	c.collisions++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, sample FieldSample) WindowStats {
	var collisionRate float64
	if c.pairChecks > 0 {
		collisionRate = float64(c.collisions) / float64(c.pairChecks)
	}

	speedMean, speedStd, p10, p50, p90 := ComputeSpeedStats(sample.Speeds)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Live:     sample.Live,
		PoolSize: sample.PoolSize,

		Spawned:       c.spawned,
		Culled:        c.culled,
		PairChecks:    c.pairChecks,
		Collisions:    c.collisions,
		CollisionRate: collisionRate,

		PoolAllocated: sample.PoolAllocated - c.poolAllocated,
		PoolRecycled:  sample.PoolRecycled - c.poolRecycled,
		PoolDiscarded: sample.PoolDiscarded - c.poolDiscarded,

		SpeedMean: speedMean,
		SpeedStd:  speedStd,
		SpeedP10:  p10,
		SpeedP50:  p50,
		SpeedP90:  p90,

		KineticEnergy: sample.KineticEnergy,
		MomentumX:     sample.Momentum.X,
		MomentumY:     sample.Momentum.Y,
		MomentumNorm:  r2.Norm(sample.Momentum),
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.spawned = 0
	c.culled = 0
	c.pairChecks = 0
	c.collisions = 0
	c.poolAllocated = sample.PoolAllocated
	c.poolRecycled = sample.PoolRecycled
	c.poolDiscarded = sample.PoolDiscarded

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
