package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/kinetic/config"
	"github.com/pthm-cable/kinetic/renderer"
	"github.com/pthm-cable/kinetic/sim"
	"github.com/pthm-cable/kinetic/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	opts := sim.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
	}

	s, err := sim.New(cfg, opts)
	if err != nil {
		slog.Error("failed to build simulation", "error", err)
		os.Exit(1)
	}
	defer s.Unload()

	if *headless {
		runHeadless(s, cfg, *maxTicks, *stepsPerUpdate, rngSeed)
		return
	}

	runWindow(s, cfg, *maxTicks, *stepsPerUpdate)
}

// runHeadless steps the simulation at the fixed timestep with no graphics.
func runHeadless(s *sim.Simulation, cfg *config.Config, maxTicks, stepsPerUpdate int, seed int64) {
	slog.Info("starting headless simulation",
		"seed", seed,
		"max_ticks", maxTicks,
		"steps_per_update", stepsPerUpdate,
	)

	dt := cfg.Derived.DT32
	for {
		for i := 0; i < stepsPerUpdate; i++ {
			s.Step(dt)
		}

		if maxTicks > 0 && int(s.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", s.Tick())
			return
		}
	}
}

// runWindow runs the graphical loop: fixed-timestep stepping, then draw.
func runWindow(s *sim.Simulation, cfg *config.Config, maxTicks, stepsPerUpdate int) {
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Kinetic")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	particles := renderer.NewParticleRenderer()
	shapes := renderer.NewShapeRenderer()
	overlays := renderer.NewOverlayRenderer()
	panel := ui.NewPanel(float32(cfg.Screen.Width)-320, 20, 300)
	hud := ui.NewHUD()

	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyTab) {
			panel.Toggle()
		}

		// Frame time drives the step; clamp hitches so fast particles
		// don't tunnel after a stall.
		dt := rl.GetFrameTime()
		if dt > 0.05 {
			dt = 0.05
		}
		for i := 0; i < stepsPerUpdate; i++ {
			s.Step(dt)
		}

		count := s.Count()
		if e := s.Emitter(); e != nil {
			count = e.Active()
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Color{R: 12, G: 12, B: 16, A: 255})

		overlays.DrawField(s.Field())
		overlays.DrawSensor(s.Sensor())
		shapes.Draw(s)
		particles.Draw(s.Positions(), s.Velocities(), count)
		overlays.DrawEmitter(s.Emitter())

		hud.Draw(s)
		panel.Draw(s)

		rl.EndDrawing()

		if maxTicks > 0 && int(s.Tick()) >= maxTicks {
			break
		}
	}
}
