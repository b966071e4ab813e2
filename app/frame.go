package app

import (
	"context"
	"log/slog"
	"math"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aurora/aura"
	"github.com/pthm-cable/aurora/emotion"
	"github.com/pthm-cable/aurora/renderer"
	"github.com/pthm-cable/aurora/scene"
	"github.com/pthm-cable/aurora/telemetry"
	"github.com/pthm-cable/aurora/ui"
)

// previewEvery is how many frames pass between camera preview uploads.
const previewEvery = 6

// Start begins capture when the saved preferences (or headless mode) ask
// for it. Headless runs also start analysis.
func (a *App) Start(ctx context.Context) {
	if !a.headless && !a.prefs.AutoCapture {
		return
	}
	if err := a.sess.StartCapture(ctx); err != nil {
		slog.Error("auto capture failed", "error", err)
		return
	}
	if a.headless {
		if err := a.sess.StartAnalysis(ctx); err != nil {
			slog.Error("auto analysis failed", "error", err)
		}
	}
}

// Step advances the scene to now: it mirrors the live population, rebuilds
// snapshot-derived layers and flushes telemetry when a window ends.
func (a *App) Step(now time.Time) {
	a.perf.StartFrame()

	a.perf.StartPhase(telemetry.PhaseSync)
	a.scene.Sync(a.mgr.Population())
	if snap := a.mgr.Snapshot(); !snap.Equal(a.lastSnap) {
		a.lastSnap = snap
		a.renders++
		a.washes = aura.Backdrop(snap, a.rng, a.cfg.Backdrop)
		a.glow = aura.GlowFor(snap)
		a.meters.SetTarget(snap)
	}

	a.perf.StartPhase(telemetry.PhaseAnimate)
	a.scene.Animate(now)
	a.meters.Step()

	if !a.headless {
		a.perf.StartPhase(telemetry.PhaseDraw)
		a.draw()
	}
	a.perf.EndFrame()

	a.flushTelemetry(now)
}

// Update handles input and advances one windowed frame, drawing it.
func (a *App) Update(ctx context.Context) {
	a.handleInput(ctx)
	a.frame++
	if a.frame%previewEvery == 0 {
		a.updatePreview()
	}
	a.Step(time.Now())
}

func (a *App) updatePreview() {
	if !a.overlays.IsEnabled(ui.OverlayPreview) || !a.source.Ready() {
		a.renderer.Preview.Clear()
		return
	}
	img, err := a.source.Frame()
	if err != nil {
		return
	}
	a.renderer.Preview.Update(img)
}

func (a *App) draw() {
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())

	rl.BeginDrawing()
	defer rl.EndDrawing()

	f := renderer.Frame{Glow: a.glow, Sprites: a.scene.Sprites()}
	if a.overlays.IsEnabled(ui.OverlayBackdrop) {
		f.Washes = a.washes
	}
	a.renderer.Draw(a.view, f)

	st := a.sess.Status()
	rect := a.view.ContainerRect()
	if action, ok := a.controls.Draw(rect.X+rect.W/2, min(rect.Y+rect.H+16, float32(h)-80), st); ok {
		a.do(context.Background(), action)
	}

	if a.overlays.IsEnabled(ui.OverlayStatusPanel) {
		a.hud.DrawStatus(ui.HUDData{
			Status:     st,
			Backend:    a.classifier.Backend(),
			Population: a.scene.Len(),
			Fallbacks:  a.classifier.Fallbacks(),
			Perf:       a.perf.Stats(),
		})
	}
	if a.overlays.IsEnabled(ui.OverlayEmotionPanel) {
		a.hud.DrawEmotions(w, meterRows(a.lastSnap, a.meters))
	}
	if a.overlays.IsEnabled(ui.OverlayDebugBadge) {
		a.hud.DrawDebugBadge(w, h, scene.DebugLine(a.renders, a.lastSnap))
	}
	a.hud.DrawHints(h, a.overlays)
}

// meterRows lists the snapshot's rows with bars eased by the meters.
func meterRows(snap emotion.Snapshot, m *scene.Meters) []scene.Row {
	rows := scene.Rows(snap)
	for i := range rows {
		rows[i].Bar = math.Max(scene.MinBarShare, m.Value(rows[i].Name))
	}
	return rows
}
