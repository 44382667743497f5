// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Color policies for particle tinting.
const (
	ColorDerived = "derived" // hue from position and size, computed every frame
	ColorRandom  = "random"  // uniform RGB picked at spawn, fixed for the particle's lifetime
)

// Collision modes.
const (
	CollisionPerParticle = "per_particle" // each pair handled from both sides per tick
	CollisionPerPair     = "per_pair"     // each pair handled once per tick
)

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Simulation SimulationConfig `yaml:"simulation"`
	Collision  CollisionConfig  `yaml:"collision"`
	Pool       PoolConfig       `yaml:"pool"`
	Seed       EmitConfig       `yaml:"seed"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	Render     RenderConfig     `yaml:"render"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the graphical host.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// SimulationConfig holds tick loop and field parameters.
type SimulationConfig struct {
	TickIntervalMS    float64 `yaml:"tick_interval_ms"`    // Fixed tick cadence (8ms ~ 120Hz)
	CellSize          float64 `yaml:"cell_size"`           // Spatial grid cell edge in pixels
	OutOfScreenMargin float64 `yaml:"out_of_screen_margin"` // Slack beyond the edges before culling
}

// CollisionConfig holds narrow-phase parameters.
type CollisionConfig struct {
	Mode string `yaml:"mode"` // per_particle or per_pair
}

// PoolConfig holds particle pool parameters.
type PoolConfig struct {
	MaxParticles int  `yaml:"max_particles"` // Reservoir bound (not a live-set ceiling)
	Prefill      bool `yaml:"prefill"`       // Allocate MaxParticles slots up front
}

// EmitConfig describes randomized kinematics for a batch of new particles.
// Velocity components are (r - 0.5) * VelocitySpread; size is MinSize + r * SizeRange.
type EmitConfig struct {
	Count          int     `yaml:"count"`
	VelocitySpread float64 `yaml:"velocity_spread"`
	MinSize        float64 `yaml:"min_size"`
	SizeRange      float64 `yaml:"size_range"`
}

// SpawnConfig holds pointer spawn parameters.
type SpawnConfig struct {
	Burst          int     `yaml:"burst"` // Particles per spawn request
	VelocitySpread float64 `yaml:"velocity_spread"`
	MinSize        float64 `yaml:"min_size"`
	SizeRange      float64 `yaml:"size_range"`
}

// RenderConfig holds frame building parameters.
type RenderConfig struct {
	ColorPolicy   string  `yaml:"color_policy"`
	Links         bool    `yaml:"links"`          // Draw link lines from large to small particles
	LinkThreshold float64 `yaml:"link_threshold"` // Radius separating large from small
	LinkRange     int     `yaml:"link_range"`     // Neighbor range in cells for link lines
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"`          // Ticks per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"` // Ticks averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TickInterval    time.Duration // Simulation.TickIntervalMS as a duration
	CellSize32      float32
	Margin32        float32
	LinkThreshold32 float32
	DedupePairs     bool // Collision.Mode == per_pair
	RandomColors    bool // Render.ColorPolicy == random
	ScreenW32       float32
	ScreenH32       float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate reports the first parameter that would break the simulation kernel.
func (c *Config) Validate() error {
	switch {
	case c.Simulation.TickIntervalMS <= 0:
		return fmt.Errorf("simulation.tick_interval_ms must be positive, got %v", c.Simulation.TickIntervalMS)
	case c.Simulation.CellSize <= 0:
		return fmt.Errorf("simulation.cell_size must be positive, got %v", c.Simulation.CellSize)
	case c.Simulation.OutOfScreenMargin < 0:
		return fmt.Errorf("simulation.out_of_screen_margin must not be negative, got %v", c.Simulation.OutOfScreenMargin)
	case c.Pool.MaxParticles < 0:
		return fmt.Errorf("pool.max_particles must not be negative, got %d", c.Pool.MaxParticles)
	case c.Seed.Count < 0:
		return fmt.Errorf("seed.count must not be negative, got %d", c.Seed.Count)
	case c.Spawn.Burst < 1:
		return fmt.Errorf("spawn.burst must be at least 1, got %d", c.Spawn.Burst)
	case c.Seed.MinSize <= 0 || c.Spawn.MinSize <= 0:
		return fmt.Errorf("particle min_size must be positive (seed %v, spawn %v)", c.Seed.MinSize, c.Spawn.MinSize)
	case c.Seed.SizeRange < 0 || c.Spawn.SizeRange < 0:
		return fmt.Errorf("particle size_range must not be negative (seed %v, spawn %v)", c.Seed.SizeRange, c.Spawn.SizeRange)
	case c.Render.LinkRange < 0:
		return fmt.Errorf("render.link_range must not be negative, got %d", c.Render.LinkRange)
	}

	switch c.Collision.Mode {
	case CollisionPerParticle, CollisionPerPair:
	default:
		return fmt.Errorf("collision.mode: unknown mode %q", c.Collision.Mode)
	}

	switch c.Render.ColorPolicy {
	case ColorDerived, ColorRandom:
	default:
		return fmt.Errorf("render.color_policy: unknown policy %q", c.Render.ColorPolicy)
	}

	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.TickInterval = time.Duration(c.Simulation.TickIntervalMS * float64(time.Millisecond))
	c.Derived.CellSize32 = float32(c.Simulation.CellSize)
	c.Derived.Margin32 = float32(c.Simulation.OutOfScreenMargin)
	c.Derived.LinkThreshold32 = float32(c.Render.LinkThreshold)
	c.Derived.DedupePairs = c.Collision.Mode == CollisionPerPair
	c.Derived.RandomColors = c.Render.ColorPolicy == ColorRandom
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
}

// Refresh recomputes derived values after fields were changed in code.
// Returns the validation error, if any, and leaves derived values untouched in that case.
func (c *Config) Refresh() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
