// Command aura-tui draws the emotion particle field in a truecolor terminal.
//
// Keys: c toggles the camera, a toggles analysis, q or Esc quits.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/aurora/aura"
	"github.com/pthm-cable/aurora/capture"
	"github.com/pthm-cable/aurora/classify"
	"github.com/pthm-cable/aurora/config"
	"github.com/pthm-cable/aurora/session"
	"github.com/pthm-cable/aurora/store"
	"github.com/pthm-cable/aurora/term"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	logPath := flag.String("log", "", "Write JSON logs to this file (empty = discard)")
	flag.Parse()

	// The terminal belongs to tcell, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "creating log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	if err := run(*configPath, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "aura-tui: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, seed int64) error {
	if err := config.Init(configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Cfg()
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	seeds := config.SeedsFrom(seed)

	classifier, err := classify.New(cfg.Analysis, seeds.Classifier)
	if err != nil {
		return fmt.Errorf("creating classifier: %w", err)
	}
	st := store.New(nil)
	if cfg.Session.Persist {
		if st, err = store.Open(cfg.Session.AppName); err != nil {
			slog.Warn("session store unavailable, using memory", "error", err)
			st = store.New(nil)
		}
	}

	mgr := aura.NewManager(cfg.Aura, aura.ManagerOptions{Rand: aura.NewRand(seeds.Particles)})
	sess := session.New(session.Options{
		Source:           capture.NewSynthetic(cfg.Capture, cfg.Derived.Warmup, seeds.Capture),
		Classifier:       classifier,
		Manager:          mgr,
		Store:            st,
		AnalysisInterval: cfg.Derived.AnalysisInterval,
		ReadyPoll:        cfg.Derived.ReadyPoll,
		AudioWindow:      cfg.Derived.AudioWindow,
	})
	defer sess.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()
	screen.Clear()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("terminal ready", "seed", seed, "backend", classifier.Backend())
	loop := term.NewLoop(screen, term.LoopOptions{Config: cfg, Session: sess, Manager: mgr, Seed: seed})
	return loop.Run(ctx)
}
