package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkMoodShift  BookmarkType = "mood_shift"
	BookmarkSpawnSurge BookmarkType = "spawn_surge"
	BookmarkFieldFaded BookmarkType = "field_faded"
	BookmarkSteadyMood BookmarkType = "steady_mood"
)

const (
	steadyWindows       = 5
	minHistoryForSurges = 3
)

// Bookmark marks a notable moment in a session.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Window      int          `csv:"window"`
	Elapsed     float64      `csv:"elapsed"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"window", b.Window,
		"description", b.Description,
	)
}

// BookmarkDetector watches successive windows for notable changes.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	last        *WindowStats
	steadyCount int // consecutive windows sharing the last dominant emotion
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < minHistoryForSurges {
		historySize = minHistoryForSurges
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark
	add := func(b *Bookmark) {
		if b != nil {
			b.Window = stats.Window
			b.Elapsed = stats.Elapsed
			bookmarks = append(bookmarks, *b)
		}
	}

	if bd.last != nil {
		add(bd.checkMoodShift(stats))
		add(bd.checkFieldFaded(stats))
	}
	add(bd.checkSpawnSurge(stats))
	add(bd.checkSteadyMood(stats))

	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
	last := stats
	bd.last = &last
	return bookmarks
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkMoodShift(stats WindowStats) *Bookmark {
	prev := bd.last.Dominant
	if prev == "" || stats.Dominant == "" || prev == stats.Dominant {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkMoodShift,
		Description: fmt.Sprintf("Dominant emotion changed from %s to %s", prev, stats.Dominant),
	}
}

func (bd *BookmarkDetector) checkFieldFaded(stats WindowStats) *Bookmark {
	if bd.last.Population == 0 || stats.Population > 0 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkFieldFaded,
		Description: fmt.Sprintf("Field emptied from %d particles", bd.last.Population),
	}
}

func (bd *BookmarkDetector) checkSpawnSurge(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < minHistoryForSurges {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Spawned
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(stats.Spawned) > avg*2.0 && stats.Spawned >= 10 {
		return &Bookmark{
			Type:        BookmarkSpawnSurge,
			Description: fmt.Sprintf("Spawned %d is %.1fx average (%.1f)", stats.Spawned, float64(stats.Spawned)/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkSteadyMood(stats WindowStats) *Bookmark {
	if stats.Dominant == "" || stats.Population == 0 {
		bd.steadyCount = 0
		return nil
	}
	if bd.last != nil && bd.last.Dominant == stats.Dominant {
		bd.steadyCount++
	} else {
		bd.steadyCount = 1
	}

	// Fire once per streak
	if bd.steadyCount == steadyWindows {
		return &Bookmark{
			Type:        BookmarkSteadyMood,
			Description: fmt.Sprintf("%s dominant for %d windows", stats.Dominant, steadyWindows),
		}
	}
	return nil
}
