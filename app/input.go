package app

import (
	"context"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aurora/session"
	"github.com/pthm-cable/aurora/ui"
)

// handleInput processes keyboard and mouse input.
func (a *App) handleInput(ctx context.Context) {
	a.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	// Session toggles
	if rl.IsKeyPressed(rl.KeyC) {
		a.toggle(ctx, true)
	}
	if rl.IsKeyPressed(rl.KeyA) {
		a.toggle(ctx, false)
	}

	if a.overlays.HandleInput() {
		a.prefs.ShowPanel = a.overlays.IsEnabled(ui.OverlayEmotionPanel)
		a.prefs.ShowDebug = a.overlays.IsEnabled(ui.OverlayDebugBadge)
		a.savePrefs()
	}

	// Container zoom
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.view.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyZero) {
		a.view.Reset()
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (a *App) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	a.view.Resize(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
}

func (a *App) toggle(ctx context.Context, capture bool) {
	action, err := a.sess.Toggle(ctx, capture)
	a.afterAction(action, err)
}

func (a *App) do(ctx context.Context, action session.Action) {
	a.afterAction(action, a.sess.Do(ctx, action))
}

// afterAction logs failures and remembers whether capture should start
// with the next launch.
func (a *App) afterAction(action session.Action, err error) {
	if err != nil {
		slog.Warn("control failed", "action", action.String(), "error", err)
		return
	}
	switch action {
	case session.ActionStartCapture:
		a.prefs.AutoCapture = true
	case session.ActionStopCapture:
		a.prefs.AutoCapture = false
		a.renderer.Preview.Clear()
	default:
		return
	}
	a.savePrefs()
}

func (a *App) savePrefs() {
	if err := a.store.SavePrefs(a.prefs); err != nil {
		slog.Warn("saving prefs failed", "error", err)
	}
}
