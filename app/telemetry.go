package app

import (
	"log/slog"
	"time"
)

// flushTelemetry checks if the stats window should be flushed and handles
// bookmarks.
func (a *App) flushTelemetry(now time.Time) {
	if !a.collector.ShouldFlush(now) {
		return
	}

	stats := a.collector.Flush(now, a.mgr.Population())
	perfStats := a.perf.Stats()

	if a.logStats {
		slog.Info("stats", "window", stats, "perf", perfStats)
	}

	if err := a.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := a.output.WritePerf(perfStats, stats.Window); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range a.bookmarks.Check(stats) {
		if a.logStats {
			bm.LogBookmark()
		}
		if err := a.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}
