package game

import (
	"sync"
	"testing"
	"time"

	"github.com/pthm-cable/surfaceplay/config"
	"github.com/pthm-cable/surfaceplay/draw"
	"github.com/pthm-cable/surfaceplay/systems"
	"github.com/pthm-cable/surfaceplay/telemetry"
)

// newTestSim creates a manually ticked simulation. mutate may adjust the
// defaults before validation.
func newTestSim(t *testing.T, mutate func(*config.Config)) *Simulation {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	s, err := New(cfg, Options{Seed: 7, ManualTick: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.CellSize = 0
	if _, err := New(cfg, Options{}); err == nil {
		t.Fatal("expected error for zero cell size")
	}
}

func TestSurfaceReadySeedsOnce(t *testing.T) {
	s := newTestSim(t, nil)

	s.SurfaceReady(640, 480)
	if got := s.Count(); got != 100 {
		t.Fatalf("Count() after first SurfaceReady = %d, want 100", got)
	}
	if s.State() != StateSeeded {
		t.Errorf("State() = %v, want seeded", s.State())
	}

	s.SurfaceReady(640, 480)
	if got := s.Count(); got != 100 {
		t.Errorf("Count() after second SurfaceReady = %d, want 100", got)
	}

	s.Tick()
	s.SurfaceReady(640, 480)
	if got := s.Count(); got > 100 {
		t.Errorf("SurfaceReady re-seeded a populated field: Count() = %d", got)
	}
}

func TestZeroSurfaceIsIgnored(t *testing.T) {
	s := newTestSim(t, nil)

	s.SurfaceReady(0, 480)
	s.SurfaceReady(640, -1)
	if s.State() != StateIdle {
		t.Errorf("State() = %v, want idle", s.State())
	}
	if cols, rows := s.GridSize(); cols != 0 || rows != 0 {
		t.Errorf("grid built for a zero surface: %dx%d", cols, rows)
	}

	s.SpawnAt(10, 10)
	s.Tick()
	if s.TickCount() != 0 {
		t.Errorf("TickCount() = %d, want 0 before a valid surface", s.TickCount())
	}
	if s.Count() != 5 {
		t.Errorf("queued spawn requests = %d, want 5", s.Count())
	}
}

func TestSpawnAtAddsBurst(t *testing.T) {
	s := newTestSim(t, nil)
	s.SurfaceReady(640, 480)

	s.SpawnAt(320, 240)
	if got := s.Count(); got != 105 {
		t.Errorf("Count() right after SpawnAt = %d, want 105", got)
	}

	s.Tick()
	if got := s.LastTickStats().Spawned; got != 105 {
		t.Errorf("spawned in first tick = %d, want 105", got)
	}
}

func TestPoolShrinksAfterDrain(t *testing.T) {
	s := newTestSim(t, nil)
	before := s.PoolLen()
	if before != 5000 {
		t.Fatalf("prefilled PoolLen() = %d, want 5000", before)
	}

	s.SurfaceReady(640, 480)
	s.Tick()

	culled := s.LastTickStats().Culled
	if got, want := s.PoolLen(), before-100+culled; got != want {
		t.Errorf("PoolLen() after first tick = %d, want %d", got, want)
	}
}

func TestSpawnDrawsFromPool(t *testing.T) {
	s := newTestSim(t, nil)
	s.SurfaceReady(640, 480)
	s.Tick()

	count, pooled := s.Count(), s.PoolLen()
	s.SpawnAt(100, 100)
	if got := s.Count(); got != count+5 {
		t.Fatalf("Count() = %d, want %d", got, count+5)
	}

	s.Tick()
	stats := s.LastTickStats()
	if stats.Spawned != 5 {
		t.Errorf("spawned = %d, want 5", stats.Spawned)
	}
	if got, want := s.PoolLen(), pooled-5+stats.Culled; got != want {
		t.Errorf("PoolLen() = %d, want %d", got, want)
	}
}

func TestSpawnWithExhaustedPool(t *testing.T) {
	s := newTestSim(t, func(c *config.Config) {
		c.Pool.MaxParticles = 0
		c.Seed.Count = 0
	})
	s.SurfaceReady(640, 480)

	s.SpawnAt(100, 100)
	s.Tick()
	if s.Count() != 5 {
		t.Errorf("Count() = %d, want 5", s.Count())
	}
	if s.PoolLen() != 0 {
		t.Errorf("PoolLen() = %d, want 0", s.PoolLen())
	}
}

func TestGridDimensions(t *testing.T) {
	s := newTestSim(t, nil)
	s.SurfaceReady(1080, 1920)

	if cols, rows := s.GridSize(); cols != 36 || rows != 64 {
		t.Errorf("GridSize() = %dx%d, want 36x64", cols, rows)
	}

	s.SurfaceResized(500, 500)
	s.SurfaceReady(500, 500)
	if cols, rows := s.GridSize(); cols != 36 || rows != 64 {
		t.Errorf("grid rebuilt on resize: %dx%d", cols, rows)
	}
}

func TestCulledParticleIsNeverDrawn(t *testing.T) {
	s := newTestSim(t, func(c *config.Config) { c.Seed.Count = 0 })
	s.SurfaceReady(640, 480)

	// Position correction pushes the small particle far past the left edge
	s.enqueue(systems.SpawnRequest{X: 0.5, Y: 100, Size: 2})
	s.enqueue(systems.SpawnRequest{X: 1, Y: 100, Size: 30})
	s.Tick()

	stats := s.LastTickStats()
	if stats.Culled != 1 {
		t.Fatalf("culled = %d, want 1", stats.Culled)
	}
	if s.Count() != 1 {
		t.Errorf("Count() = %d, want 1", s.Count())
	}

	var f draw.Frame
	s.Frame(&f)
	if got := f.Count(draw.Circle); got != 1 {
		t.Fatalf("circles drawn = %d, want 1", got)
	}
	for _, cmd := range f.Commands {
		if cmd.Radius == 2 {
			t.Errorf("culled particle was drawn: %+v", cmd)
		}
	}
}

func TestFrameDerivedColors(t *testing.T) {
	s := newTestSim(t, nil)
	s.SurfaceReady(640, 480)
	s.Tick()

	var f draw.Frame
	s.Frame(&f)
	if f.Tick != 1 {
		t.Errorf("frame tick = %d, want 1", f.Tick)
	}

	bounds := systems.Bounds{Width: 640, Height: 480}
	circles := 0
	for _, cmd := range f.Commands {
		if cmd.Kind != draw.Circle {
			continue
		}
		circles++
		want := systems.DeriveColor(cmd.X, cmd.Y, cmd.Radius, bounds)
		if cmd.Color != want {
			t.Errorf("circle at (%v, %v) size %v color %06x, want %06x", cmd.X, cmd.Y, cmd.Radius, cmd.Color, want)
		}
	}
	if circles != s.Count() {
		t.Errorf("circles = %d, live = %d", circles, s.Count())
	}
}

func TestFrameRandomColorsStayFixed(t *testing.T) {
	s := newTestSim(t, func(c *config.Config) {
		c.Seed.Count = 0
		c.Render.ColorPolicy = config.ColorRandom
	})
	s.SurfaceReady(640, 480)
	s.enqueue(systems.SpawnRequest{X: 100, Y: 100, VX: 1, VY: 1, Size: 5, Color: 0xABCDEF})

	var f draw.Frame
	for i := 0; i < 3; i++ {
		s.Tick()
		s.Frame(&f)
		if len(f.Commands) != 1 || f.Commands[0].Color != 0xABCDEF {
			t.Fatalf("tick %d: commands = %+v, want one circle colored abcdef", i+1, f.Commands)
		}
	}
}

func TestLinksDrawnBeforeOwner(t *testing.T) {
	s := newTestSim(t, func(c *config.Config) { c.Seed.Count = 0 })
	s.SurfaceReady(640, 480)

	s.enqueue(systems.SpawnRequest{X: 100, Y: 100, Size: 20})
	s.enqueue(systems.SpawnRequest{X: 200, Y: 100, Size: 3})
	s.enqueue(systems.SpawnRequest{X: 600, Y: 400, Size: 3}) // out of link range
	s.Tick()

	var f draw.Frame
	s.Frame(&f)

	if got := f.Count(draw.Line); got != 1 {
		t.Fatalf("lines = %d, want 1", got)
	}
	line, owner := f.Commands[0], f.Commands[1]
	if line.Kind != draw.Line || owner.Kind != draw.Circle || owner.Radius != 20 {
		t.Fatalf("expected line then its owner's circle, got %+v", f.Commands[:2])
	}
	if line.X != 100 || line.X2 != 200 || line.Color != owner.Color {
		t.Errorf("line = %+v, want (100,100)->(200,100) in owner color", line)
	}
}

func TestLinksDisabled(t *testing.T) {
	s := newTestSim(t, func(c *config.Config) {
		c.Seed.Count = 0
		c.Render.Links = false
	})
	s.SurfaceReady(640, 480)
	s.enqueue(systems.SpawnRequest{X: 100, Y: 100, Size: 20})
	s.enqueue(systems.SpawnRequest{X: 200, Y: 100, Size: 3})
	s.Tick()

	var f draw.Frame
	s.Frame(&f)
	if f.Count(draw.Line) != 0 {
		t.Error("lines drawn with links disabled")
	}
}

func TestPerPairHalvesPairChecks(t *testing.T) {
	both := newTestSim(t, nil)
	once := newTestSim(t, func(c *config.Config) { c.Collision.Mode = config.CollisionPerPair })

	both.SurfaceReady(640, 480)
	once.SurfaceReady(640, 480)
	both.Tick()
	once.Tick()

	a, b := both.LastTickStats().PairChecks, once.LastTickStats().PairChecks
	if a == 0 {
		t.Fatal("no pair checks in a seeded field")
	}
	if a != 2*b {
		t.Errorf("per_particle checks = %d, per_pair = %d, want exactly double", a, b)
	}
}

func TestSameSeedSameFrames(t *testing.T) {
	a := newTestSim(t, nil)
	b := newTestSim(t, nil)
	a.SurfaceReady(800, 600)
	b.SurfaceReady(800, 600)

	var fa, fb draw.Frame
	for i := 0; i < 30; i++ {
		if i%10 == 0 {
			a.SpawnAt(400, 300)
			b.SpawnAt(400, 300)
		}
		a.Tick()
		b.Tick()
	}
	a.Frame(&fa)
	b.Frame(&fb)

	if len(fa.Commands) != len(fb.Commands) {
		t.Fatalf("frame sizes differ: %d vs %d", len(fa.Commands), len(fb.Commands))
	}
	for i := range fa.Commands {
		if fa.Commands[i] != fb.Commands[i] {
			t.Fatalf("command %d differs: %+v vs %+v", i, fa.Commands[i], fb.Commands[i])
		}
	}
}

func TestParticlesStayInsideField(t *testing.T) {
	s := newTestSim(t, nil)
	s.SurfaceReady(320, 240)

	for i := 0; i < 200; i++ {
		s.Tick()
	}

	var f draw.Frame
	s.Frame(&f)
	margin := float32(5)
	for _, cmd := range f.Commands {
		if cmd.Kind != draw.Circle {
			continue
		}
		if cmd.X+cmd.Radius+margin < 0 || cmd.Y+cmd.Radius+margin < 0 ||
			cmd.X-cmd.Radius > 320+margin || cmd.Y-cmd.Radius > 240+margin {
			t.Errorf("drawn particle outside the field: %+v", cmd)
		}
	}
}

func TestStatsCallback(t *testing.T) {
	cfg := config.Default()
	cfg.Telemetry.StatsWindow = 5

	var got []telemetry.WindowStats
	s, err := New(cfg, Options{
		Seed:          1,
		ManualTick:    true,
		StatsCallback: func(ws telemetry.WindowStats) { got = append(got, ws) },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	s.SurfaceReady(640, 480)
	for i := 0; i < 10; i++ {
		s.Tick()
	}

	if len(got) != 2 {
		t.Fatalf("stats windows = %d, want 2", len(got))
	}
	if got[0].Spawned != 100 || got[1].Spawned != 0 {
		t.Errorf("spawned per window = %d, %d, want 100, 0", got[0].Spawned, got[1].Spawned)
	}
	if got[1].WindowEndTick != 10 || got[1].Live != s.Count() {
		t.Errorf("second window = %+v", got[1])
	}
	if got[0].PoolRecycled != 100 {
		t.Errorf("pool recycled = %d, want 100", got[0].PoolRecycled)
	}
}

func TestLoopRunsAndStopRetainsParticles(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.TickIntervalMS = 1
	s, err := New(cfg, Options{Seed: 3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	s.SurfaceReady(640, 480)
	if s.State() != StateRunning {
		t.Fatalf("State() = %v, want running", s.State())
	}

	deadline := time.Now().Add(2 * time.Second)
	for s.TickCount() < 5 {
		if time.Now().After(deadline) {
			t.Fatal("loop did not tick")
		}
		time.Sleep(time.Millisecond)
	}

	s.Stop()
	if s.State() != StateIdle {
		t.Errorf("State() after Stop = %v, want idle", s.State())
	}

	ticks, count := s.TickCount(), s.Count()
	if count == 0 {
		t.Fatal("Stop discarded the particles")
	}
	time.Sleep(20 * time.Millisecond)
	if s.TickCount() != ticks || s.Count() != count {
		t.Errorf("field changed after Stop: ticks %d->%d count %d->%d", ticks, s.TickCount(), count, s.Count())
	}

	// Restarting does not re-seed
	s.SurfaceReady(640, 480)
	if s.State() != StateRunning {
		t.Errorf("State() after restart = %v, want running", s.State())
	}
	s.Stop()
	if s.Count() > count {
		t.Errorf("restart re-seeded: %d > %d", s.Count(), count)
	}
}

func TestConcurrentSpawnWhileRunning(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.TickIntervalMS = 1
	s, err := New(cfg, Options{Seed: 9})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.SurfaceReady(640, 480)

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				s.SpawnAt(float32(100+w*100), 240)
				var f draw.Frame
				s.Frame(&f)
			}
		}(w)
	}
	wg.Wait()
	s.Stop()

	// Drain the remaining requests and compare with the live set
	s.Tick()
	s.tickMu.Lock()
	live := len(s.live)
	s.tickMu.Unlock()
	if s.Count() != live {
		t.Errorf("Count() = %d, live set = %d", s.Count(), live)
	}
	if s.PoolLen() > cfg.Pool.MaxParticles {
		t.Errorf("PoolLen() = %d exceeds bound %d", s.PoolLen(), cfg.Pool.MaxParticles)
	}
}

func TestStateString(t *testing.T) {
	if StateIdle.String() != "idle" || StateSeeded.String() != "seeded" ||
		StateRunning.String() != "running" || State(7).String() != "unknown" {
		t.Error("unexpected state names")
	}
}
