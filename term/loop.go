package term

import (
	"context"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/aurora/aura"
	"github.com/pthm-cable/aurora/config"
	"github.com/pthm-cable/aurora/emotion"
	"github.com/pthm-cable/aurora/scene"
	"github.com/pthm-cable/aurora/session"
)

// LoopOptions wires a Loop.
type LoopOptions struct {
	Config  *config.Config
	Session *session.Session
	Manager *aura.Manager
	Seed    int64
}

// Loop drives the terminal front end: it polls keys, mirrors the particle
// population into a scene and redraws at a fixed rate.
type Loop struct {
	screen   tcell.Screen
	renderer *Renderer
	sess     *session.Session
	mgr      *aura.Manager
	scene    *scene.Scene
	rng      aura.Rand
	cfg      *config.Config

	lastSnap emotion.Snapshot
	renders  int
	washes   []aura.Wash
	glow     aura.Glow
}

// NewLoop creates a loop drawing onto screen. The screen must already be
// initialized.
func NewLoop(screen tcell.Screen, opts LoopOptions) *Loop {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	seeds := config.SeedsFrom(opts.Seed)
	return &Loop{
		screen:   screen,
		renderer: NewRenderer(screen, cfg.Terminal.CellAspect, cfg.Screen.Container),
		sess:     opts.Session,
		mgr:      opts.Manager,
		scene:    scene.New(seeds.Scene),
		rng:      aura.NewRand(seeds.Backdrop),
		cfg:      cfg,
		glow:     aura.GlowFor(emotion.Snapshot{}),
	}
}

// Step advances the scene to now and returns the frame to draw.
func (l *Loop) Step(now time.Time) Frame {
	l.scene.Sync(l.mgr.Population())
	if snap := l.mgr.Snapshot(); !snap.Equal(l.lastSnap) {
		l.lastSnap = snap
		l.renders++
		l.washes = aura.Backdrop(snap, l.rng, l.cfg.Backdrop)
		l.glow = aura.GlowFor(snap)
	}
	l.scene.Animate(now)

	return Frame{
		Washes:  l.washes,
		Glow:    l.glow,
		Sprites: l.scene.Sprites(),
		Rows:    scene.Rows(l.lastSnap),
		Status:  l.sess.Status(),
		Debug:   scene.DebugLine(l.renders, l.lastSnap),
	}
}

// HandleKey applies a key press and reports whether the loop should quit.
// ch is only read for tcell.KeyRune.
func (l *Loop) HandleKey(ctx context.Context, key tcell.Key, ch rune) (quit bool) {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
	default:
		return false
	}

	switch ch {
	case 'q', 'Q':
		return true
	case 'c', 'C':
		l.toggle(ctx, true)
	case 'a', 'A':
		l.toggle(ctx, false)
	}
	return false
}

func (l *Loop) toggle(ctx context.Context, capture bool) {
	action, err := l.sess.Toggle(ctx, capture)
	if err != nil {
		slog.Warn("action failed", "action", action.String(), "error", err)
		return
	}
	slog.Info("action", "action", action.String())
}

// Run draws until ctx is done or the user quits.
func (l *Loop) Run(ctx context.Context) error {
	fps := l.cfg.Terminal.FPS
	if fps <= 0 {
		fps = 20
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := l.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	l.renderer.Draw(l.Step(time.Now()))
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if l.HandleKey(ctx, ev.Key(), ev.Rune()) {
					return nil
				}
			case *tcell.EventResize:
				l.screen.Sync()
			}
		case now := <-ticker.C:
			l.renderer.Draw(l.Step(now))
		}
	}
}
