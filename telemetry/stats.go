package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Population at window end
	Live     int `csv:"live"`
	PoolSize int `csv:"pool_size"`

	// Events during window
	Spawned       int     `csv:"spawned"`
	Culled        int     `csv:"culled"`
	PairChecks    int     `csv:"pair_checks"`
	Collisions    int     `csv:"collisions"`
	CollisionRate float64 `csv:"collision_rate"` // collisions per pair check

	// Pool traffic during window
	PoolAllocated int `csv:"pool_allocated"`
	PoolRecycled  int `csv:"pool_recycled"`
	PoolDiscarded int `csv:"pool_discarded"`

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Conserved quantities (sampled at window end)
	KineticEnergy float64 `csv:"kinetic_energy"`
	MomentumX     float64 `csv:"momentum_x"`
	MomentumY     float64 `csv:"momentum_y"`
	MomentumNorm  float64 `csv:"momentum_norm"`
}

// Percentile returns the p-th quantile of a sorted slice using the
// empirical distribution. p is clamped to [0, 1]. Returns 0 if sorted is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeSpeedStats calculates mean, population standard deviation and
// percentiles of the given values.
func ComputeSpeedStats(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, std = stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// Momentum returns the momentum vector m * v.
func Momentum(mass float64, vx, vy float64) r2.Vec {
	return r2.Scale(mass, r2.Vec{X: vx, Y: vy})
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("live", s.Live),
		slog.Int("pool_size", s.PoolSize),
		slog.Int("spawned", s.Spawned),
		slog.Int("culled", s.Culled),
		slog.Int("pair_checks", s.PairChecks),
		slog.Int("collisions", s.Collisions),
		slog.Float64("collision_rate", s.CollisionRate),
		slog.Int("pool_allocated", s.PoolAllocated),
		slog.Int("pool_recycled", s.PoolRecycled),
		slog.Int("pool_discarded", s.PoolDiscarded),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Float64("momentum_norm", s.MomentumNorm),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"live", s.Live,
		"pool_size", s.PoolSize,
		"spawned", s.Spawned,
		"culled", s.Culled,
		"pair_checks", s.PairChecks,
		"collisions", s.Collisions,
		"collision_rate", s.CollisionRate,
		"pool_allocated", s.PoolAllocated,
		"pool_recycled", s.PoolRecycled,
		"pool_discarded", s.PoolDiscarded,
		"speed_mean", s.SpeedMean,
		"speed_p50", s.SpeedP50,
		"speed_p90", s.SpeedP90,
		"kinetic_energy", s.KineticEnergy,
		"momentum_x", s.MomentumX,
		"momentum_y", s.MomentumY,
	)
}
