package game

import (
	"log/slog"

	"github.com/pthm-cable/surfaceplay/systems"
)

// SurfaceReady reports the drawable surface size. The first valid call fixes
// the field bounds and grid. When the field is empty the initial batch is
// seeded; the loop is then started unless ManualTick was set.
// Non-positive sizes are ignored.
func (s *Simulation) SurfaceReady(width, height int) {
	if width <= 0 || height <= 0 {
		slog.Warn("surface_ready_ignored", "width", width, "height", height)
		return
	}

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	s.tickMu.Lock()
	if s.grid == nil {
		s.bounds = systems.Bounds{Width: float32(width), Height: float32(height)}
		s.grid = systems.NewSpatialGrid(s.bounds.Width, s.bounds.Height, s.cfg.Derived.CellSize32)
		slog.Info("surface_ready",
			"width", width,
			"height", height,
			"grid_cols", s.grid.Cols(),
			"grid_rows", s.grid.Rows(),
		)
	}
	s.tickMu.Unlock()

	if s.Count() == 0 {
		n := s.seed()
		slog.Info("seeded", "count", n)
	}
	if s.state == StateIdle {
		s.state = StateSeeded
	}

	if !s.manualTick {
		s.startLocked()
	}
}

// SurfaceResized is logged and otherwise ignored: the grid keeps the
// dimensions of the first surface.
func (s *Simulation) SurfaceResized(width, height int) {
	cols, rows := s.GridSize()
	slog.Info("surface_resize_ignored",
		"width", width,
		"height", height,
		"grid_cols", cols,
		"grid_rows", rows,
	)
}

// Start launches the tick loop. It does nothing before the first valid
// SurfaceReady or while the loop is already running.
func (s *Simulation) Start() {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.startLocked()
}

func (s *Simulation) startLocked() {
	if s.state == StateRunning {
		return
	}
	if cols, _ := s.GridSize(); cols == 0 {
		return
	}

	s.loop.start(s.Tick)
	s.state = StateRunning
	slog.Info("loop_started", "interval", s.cfg.Derived.TickInterval, "count", s.Count())
}

// Stop halts the tick loop after the tick in flight completes.
// Live particles are retained and resume moving on the next Start.
func (s *Simulation) Stop() {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if s.state != StateRunning {
		return
	}

	s.loop.stop()
	s.state = StateIdle
	slog.Info("loop_stopped", "tick", s.TickCount(), "count", s.Count())
}

// SpawnAt queues a burst of particles at (x, y). It only takes the inbox
// lock and never waits for a tick; the particles join the field at the
// start of the next tick.
func (s *Simulation) SpawnAt(x, y float32) {
	s.inboxMu.Lock()
	defer s.inboxMu.Unlock()

	for i := 0; i < s.cfg.Spawn.Burst; i++ {
		s.inbox = append(s.inbox, s.spawnEmitter.Request(s.rng, x, y))
	}
}

// seed queues the initial batch scattered over the field.
// Caller must hold stateMu.
func (s *Simulation) seed() int {
	s.inboxMu.Lock()
	defer s.inboxMu.Unlock()

	n := s.cfg.Seed.Count
	for i := 0; i < n; i++ {
		s.inbox = append(s.inbox, s.seedEmitter.Scatter(s.rng, s.bounds))
	}
	return n
}

// enqueue adds a single request to the inbox.
func (s *Simulation) enqueue(req systems.SpawnRequest) {
	s.inboxMu.Lock()
	defer s.inboxMu.Unlock()
	s.inbox = append(s.inbox, req)
}

// drainInbox moves queued requests into the live set, acquiring a pool slot
// for each. Returns the number of particles added.
func (s *Simulation) drainInbox() int {
	s.inboxMu.Lock()
	s.drained, s.inbox = s.inbox, s.drained[:0]
	s.liveCount.Add(int64(len(s.drained)))
	s.inboxMu.Unlock()

	for _, req := range s.drained {
		s.live = append(s.live, s.pool.Acquire(req))
	}
	return len(s.drained)
}

// releaseCulled returns culled particles to the pool and compacts the live
// set, keeping survivor order. Returns the number released.
func (s *Simulation) releaseCulled() int {
	kept := s.live[:0]
	released := 0
	for i, e := range s.live {
		if s.culled[i] {
			s.pool.Release(e)
			released++
			continue
		}
		kept = append(kept, e)
	}
	s.live = kept
	s.liveCount.Add(-int64(released))
	return released
}
