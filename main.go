package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aurora/app"
	"github.com/pthm-cable/aurora/classify"
	"github.com/pthm-cable/aurora/config"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without a window")
	maxSeconds := flag.Float64("max-seconds", 0, "Stop after N seconds (0 = unlimited)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if classify.HasCredentials(cfg.Analysis) {
		slog.Info("classifier credentials present; remote analysis is not supported, using local backend",
			"backend", cfg.Analysis.Backend)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := app.New(app.Options{
		Config:    cfg,
		Seed:      *seed,
		Headless:  *headless,
		LogStats:  *logStats,
		OutputDir: *outputDir,
	})
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	maxRun := time.Duration(*maxSeconds * float64(time.Second))

	if *headless {
		slog.Info("starting headless run", "max_seconds", *maxSeconds)
		a.RunHeadless(ctx, maxRun)
		return
	}

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Aurora")
	defer rl.CloseWindow()
	defer a.Unload()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	a.Start(ctx)
	started := time.Now()
	for !rl.WindowShouldClose() && ctx.Err() == nil {
		a.Update(ctx)

		if maxRun > 0 && time.Since(started) >= maxRun {
			break
		}
	}
}
