package app

import (
	"context"
	"log/slog"
	"time"
)

// RunHeadless steps the app at the target frame rate until ctx is done or
// maxRun elapses (0 = unlimited). Capture and analysis start immediately.
func (a *App) RunHeadless(ctx context.Context, maxRun time.Duration) {
	if maxRun > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, maxRun)
		defer cancel()
	}
	a.Start(ctx)

	fps := a.cfg.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	started := time.Now()
	for {
		select {
		case <-ctx.Done():
			slog.Info("headless run finished",
				"elapsed", time.Since(started).Round(time.Millisecond),
				"analyses", a.sess.Status().Analyses,
				"particles", a.mgr.Len(),
			)
			return
		case now := <-ticker.C:
			a.Step(now)
		}
	}
}
