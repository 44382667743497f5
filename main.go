package main

import (
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/surfaceplay/config"
	"github.com/pthm-cable/surfaceplay/game"
	"github.com/pthm-cable/surfaceplay/renderer"
	"github.com/pthm-cable/surfaceplay/telemetry"
	"github.com/pthm-cable/surfaceplay/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	spawnEvery := flag.Int("spawn-every", 0, "Headless: spawn a burst at a random point every N ticks (0 = never)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	outputManager, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer outputManager.Close()

	if err := outputManager.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
		os.Exit(1)
	}

	opts := game.Options{
		Seed:          rngSeed,
		LogStats:      *logStats,
		ManualTick:    *headless,
		OutputManager: outputManager,
	}

	sim, err := game.New(cfg, opts)
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}
	defer sim.Unload()

	if *headless {
		runHeadless(sim, cfg, rngSeed, *maxTicks, *spawnEvery)
		return
	}
	runWindow(sim, cfg, *maxTicks)
}

// runHeadless ticks the simulation as fast as possible on the calling goroutine.
func runHeadless(sim *game.Simulation, cfg *config.Config, seed int64, maxTicks, spawnEvery int) {
	slog.Info("starting headless simulation",
		"seed", seed,
		"max_ticks", maxTicks,
		"spawn_every", spawnEvery,
	)

	sim.SurfaceReady(cfg.Screen.Width, cfg.Screen.Height)

	// Synthetic pointer input uses its own stream so spawn points do not
	// perturb the simulation's draws.
	pointer := rand.New(rand.NewSource(seed + 1))
	w := float32(cfg.Screen.Width)
	h := float32(cfg.Screen.Height)

	for {
		if spawnEvery > 0 && int(sim.TickCount())%spawnEvery == 0 {
			sim.SpawnAt(pointer.Float32()*w, pointer.Float32()*h)
		}

		sim.Tick()

		if maxTicks > 0 && int(sim.TickCount()) >= maxTicks {
			slog.Info("max ticks reached", "tick", sim.TickCount(), "count", sim.Count())
			return
		}
	}
}

// runWindow opens a raylib window and replays the latest frame every display frame.
// The simulation ticks on its own goroutine.
func runWindow(sim *game.Simulation, cfg *config.Config, maxTicks int) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Surface Play")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	canvas := renderer.NewCanvas()
	hud := ui.NewHUD()

	sim.SurfaceReady(rl.GetScreenWidth(), rl.GetScreenHeight())

	width, height := rl.GetScreenWidth(), rl.GetScreenHeight()
	for !rl.WindowShouldClose() {
		if rl.IsWindowResized() {
			width, height = rl.GetScreenWidth(), rl.GetScreenHeight()
			sim.SurfaceResized(width, height)
		}

		if rl.IsMouseButtonDown(rl.MouseLeftButton) {
			mouse := rl.GetMousePosition()
			if !hud.Contains(mouse.X, mouse.Y) {
				sim.SpawnAt(mouse.X, mouse.Y)
			}
		}

		sim.Frame(canvas.Frame())
		sim.Perf().RecordFrame()

		rl.BeginDrawing()
		canvas.Draw()
		actions := hud.Draw(ui.HUDData{
			Title:        "Surface Play",
			Count:        sim.Count(),
			PoolLen:      sim.PoolLen(),
			PoolCap:      cfg.Pool.MaxParticles,
			Tick:         sim.TickCount(),
			FPS:          rl.GetFPS(),
			Running:      sim.State() == game.StateRunning,
			Perf:         sim.Perf().Stats(),
			TickInterval: cfg.Derived.TickInterval,
		})
		hud.DrawControls(int32(height), "Hold left mouse: spawn | Esc: quit")
		rl.EndDrawing()

		if actions.TogglePause {
			if sim.State() == game.StateRunning {
				sim.Stop()
			} else {
				sim.Start()
			}
		}
		if actions.Burst {
			sim.SpawnAt(float32(width)/2, float32(height)/2)
		}

		if maxTicks > 0 && int(sim.TickCount()) >= maxTicks {
			break
		}
	}
}
