// Package app runs the aura window: it owns the session, mirrors the
// particle population into a scene each frame and draws it.
package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pthm-cable/aurora/aura"
	"github.com/pthm-cable/aurora/capture"
	"github.com/pthm-cable/aurora/classify"
	"github.com/pthm-cable/aurora/config"
	"github.com/pthm-cable/aurora/emotion"
	"github.com/pthm-cable/aurora/renderer"
	"github.com/pthm-cable/aurora/scene"
	"github.com/pthm-cable/aurora/session"
	"github.com/pthm-cable/aurora/store"
	"github.com/pthm-cable/aurora/telemetry"
	"github.com/pthm-cable/aurora/ui"
	"github.com/pthm-cable/aurora/viewport"
)

// Options configures an App.
type Options struct {
	Config    *config.Config
	Seed      int64
	Headless  bool   // No window; capture and analysis start on their own
	LogStats  bool   // Log each telemetry window
	OutputDir string // Empty disables CSV output
}

// App holds the complete application state.
type App struct {
	cfg      *config.Config
	headless bool
	logStats bool
	rng      aura.Rand

	mgr        *aura.Manager
	classifier *classify.Resilient
	source     *capture.Synthetic
	sess       *session.Session
	store      *store.Store
	prefs      store.Prefs

	scene  *scene.Scene
	meters *scene.Meters
	view   *viewport.Viewport

	// Snapshot-derived layers, rebuilt when the snapshot changes
	lastSnap emotion.Snapshot
	renders  int
	washes   []aura.Wash
	glow     aura.Glow

	// Telemetry
	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	bookmarks *telemetry.BookmarkDetector
	output    *telemetry.OutputManager

	// Window-only
	renderer *renderer.AuraRenderer
	hud      *ui.HUD
	controls *ui.ControlPanel
	overlays *ui.OverlayRegistry
	frame    int
}

// New wires an App from opts. It does not touch the window, so it is safe
// before raylib is initialized and in headless mode.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	seeds := config.SeedsFrom(seed)
	now := time.Now()

	classifier, err := classify.New(cfg.Analysis, seeds.Classifier)
	if err != nil {
		return nil, fmt.Errorf("creating classifier: %w", err)
	}

	st := store.New(nil)
	if cfg.Session.Persist {
		if st, err = store.Open(cfg.Session.AppName); err != nil {
			slog.Warn("session store unavailable, using memory", "error", err)
			st = store.New(nil)
		}
	}
	prefs, err := st.LoadPrefs()
	if err != nil {
		slog.Warn("loading prefs failed", "error", err)
		prefs = store.DefaultPrefs()
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	a := &App{
		cfg:        cfg,
		headless:   opts.Headless,
		logStats:   opts.LogStats,
		rng:        aura.NewRand(seeds.Backdrop),
		classifier: classifier,
		source:     capture.NewSynthetic(cfg.Capture, cfg.Derived.Warmup, seeds.Capture),
		store:      st,
		prefs:      prefs,
		scene:      scene.New(seeds.Scene),
		meters:     scene.NewMeters(cfg.Screen.TargetFPS),
		view:       viewport.New(float32(cfg.Screen.Width), float32(cfg.Screen.Height), float32(cfg.Screen.Container)),
		glow:       aura.GlowFor(emotion.Snapshot{}),
		collector:  telemetry.NewCollector(cfg.Derived.StatsWindow, now),
		perf:       telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarks:  telemetry.NewBookmarkDetector(10),
		output:     output,
	}

	a.mgr = aura.NewManager(cfg.Aura, aura.ManagerOptions{
		Rand:      aura.NewRand(seeds.Particles),
		Observers: []aura.Observer{a.collector},
	})
	a.sess = session.New(session.Options{
		Source:           a.source,
		Classifier:       classifier,
		Manager:          a.mgr,
		Store:            st,
		AnalysisInterval: cfg.Derived.AnalysisInterval,
		ReadyPoll:        cfg.Derived.ReadyPoll,
		AudioWindow:      cfg.Derived.AudioWindow,
	})

	if !a.headless {
		a.renderer = renderer.NewAuraRenderer()
		a.hud = ui.NewHUD(240)
		a.controls = ui.NewControlPanel()
		a.overlays = ui.NewOverlayRegistry()
		a.overlays.SetEnabled(ui.OverlayEmotionPanel, prefs.ShowPanel)
		a.overlays.SetEnabled(ui.OverlayDebugBadge, prefs.ShowDebug)
	}

	slog.Info("app ready",
		"seed", seed,
		"backend", classifier.Backend(),
		"persistent_store", st.Persistent(),
		"headless", a.headless,
	)
	return a, nil
}

// Session returns the application controller.
func (a *App) Session() *session.Session {
	return a.sess
}

// Manager returns the particle lifecycle manager.
func (a *App) Manager() *aura.Manager {
	return a.mgr
}

// Unload frees GPU resources. Call it before the window closes.
func (a *App) Unload() {
	if a.renderer != nil {
		a.renderer.Preview.Unload()
	}
}

// Close stops the session, saves preferences and flushes output.
func (a *App) Close() {
	a.sess.Close()
	if err := a.store.SavePrefs(a.prefs); err != nil {
		slog.Warn("saving prefs failed", "error", err)
	}
	if err := a.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
