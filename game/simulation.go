// Package game runs the particle field: it owns the ECS world, the spawn
// inbox, the fixed-interval tick loop and the double-buffered draw frame.
package game

import (
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/surfaceplay/components"
	"github.com/pthm-cable/surfaceplay/config"
	"github.com/pthm-cable/surfaceplay/draw"
	"github.com/pthm-cable/surfaceplay/systems"
	"github.com/pthm-cable/surfaceplay/telemetry"
)

// State is the lifecycle state of a Simulation.
type State int32

const (
	StateIdle    State = iota // no surface yet, or loop stopped
	StateSeeded               // initial particles queued, loop not running
	StateRunning              // tick loop active
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSeeded:
		return "seeded"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// Options configures a Simulation beyond the loaded config.
type Options struct {
	Seed          int64
	LogStats      bool
	ManualTick    bool // SurfaceReady does not start the loop; the caller drives Tick
	OutputManager *telemetry.OutputManager
	StatsCallback func(telemetry.WindowStats)
}

// TickStats counts what happened during the most recent tick.
type TickStats struct {
	Tick       int32
	Spawned    int
	Culled     int
	PairChecks int
	Collisions int
}

// Simulation holds the complete particle field.
//
// Lock order: stateMu, then tickMu, then inboxMu. frameMu is never held
// together with another lock.
type Simulation struct {
	cfg *config.Config

	world  *ecs.World
	mapper *ecs.Map4[components.Position, components.Velocity, components.Body, components.Tint]
	pool   *systems.ParticlePool

	// Spawn inbox. The rng is shared by seeding and spawning.
	inboxMu      sync.Mutex
	inbox        []systems.SpawnRequest
	rng          *rand.Rand
	seedEmitter  systems.Emitter
	spawnEmitter systems.Emitter

	// Tick-owned state
	tickMu    sync.Mutex
	grid      *systems.SpatialGrid
	bounds    systems.Bounds
	live      []ecs.Entity
	particles []systems.Particle
	tints     []uint32
	culled    []bool
	neighbors []int32
	drained   []systems.SpawnRequest
	back      draw.Frame
	lastTick  TickStats

	liveCount atomic.Int64
	tick      atomic.Int32

	frameMu sync.Mutex
	front   draw.Frame

	// Lifecycle
	stateMu sync.Mutex
	state   State
	loop    *tickLoop

	// Telemetry
	perfCollector *telemetry.PerfCollector
	collector     *telemetry.Collector
	logStats      bool
	outputManager *telemetry.OutputManager
	statsCallback func(telemetry.WindowStats)
	manualTick    bool
}

// New creates a simulation from cfg. The surface is unknown until SurfaceReady.
func New(cfg *config.Config, opts Options) (*Simulation, error) {
	if err := cfg.Refresh(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	world := ecs.NewWorld()

	s := &Simulation{
		cfg:    cfg,
		world:  world,
		mapper: ecs.NewMap4[components.Position, components.Velocity, components.Body, components.Tint](world),
		pool:   systems.NewParticlePool(world, cfg.Pool.MaxParticles, cfg.Pool.Prefill),
		rng:    rand.New(rand.NewSource(opts.Seed)),
		seedEmitter: systems.Emitter{
			VelocitySpread: float32(cfg.Seed.VelocitySpread),
			MinSize:        float32(cfg.Seed.MinSize),
			SizeRange:      float32(cfg.Seed.SizeRange),
		},
		spawnEmitter: systems.Emitter{
			VelocitySpread: float32(cfg.Spawn.VelocitySpread),
			MinSize:        float32(cfg.Spawn.MinSize),
			SizeRange:      float32(cfg.Spawn.SizeRange),
		},
		loop:          newTickLoop(cfg.Derived.TickInterval),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		logStats:      opts.LogStats,
		outputManager: opts.OutputManager,
		statsCallback: opts.StatsCallback,
		manualTick:    opts.ManualTick,
		neighbors:     make([]int32, 0, 64),
	}

	return s, nil
}

// Count returns the number of live particles plus spawn requests not yet drained.
func (s *Simulation) Count() int {
	s.inboxMu.Lock()
	defer s.inboxMu.Unlock()
	return int(s.liveCount.Load()) + len(s.inbox)
}

// State returns the current lifecycle state.
func (s *Simulation) State() State {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.state
}

// TickCount returns the number of completed ticks.
func (s *Simulation) TickCount() int32 {
	return s.tick.Load()
}

// PoolLen returns the number of pooled particle slots available for reuse.
func (s *Simulation) PoolLen() int {
	return s.pool.Len()
}

// GridSize returns the grid dimensions, or zeros before the first surface.
func (s *Simulation) GridSize() (cols, rows int) {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	if s.grid == nil {
		return 0, 0
	}
	return s.grid.Cols(), s.grid.Rows()
}

// LastTickStats returns counters from the most recent tick.
func (s *Simulation) LastTickStats() TickStats {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	return s.lastTick
}

// Frame copies the most recently completed frame into dst.
func (s *Simulation) Frame(dst *draw.Frame) {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	s.front.CopyTo(dst)
}

// Perf returns the performance collector shared with the host.
func (s *Simulation) Perf() *telemetry.PerfCollector {
	return s.perfCollector
}

// Config returns the simulation configuration.
func (s *Simulation) Config() *config.Config {
	return s.cfg
}

// Unload stops the loop. Live particles are kept.
func (s *Simulation) Unload() {
	s.Stop()
}
