package telemetry

import (
	"sync"
	"time"

	"github.com/pthm-cable/aurora/aura"
	"github.com/pthm-cable/aurora/emotion"
)

// Collector accumulates manager reports within time windows and produces
// WindowStats. It implements aura.Observer, so reports may arrive on the
// manager's timer goroutine.
type Collector struct {
	window time.Duration

	mu          sync.Mutex
	started     time.Time
	windowStart time.Time
	windows     int
	snapshot    emotion.Snapshot
	snapshotAt  time.Time

	// Event counters for current window
	snapshots    int
	ticks        int
	spawnedGlyph int
	spawnedBlob  int
	spawnedRay   int
	expired      int
}

// NewCollector creates a collector whose windows last window, starting at
// start.
func NewCollector(window time.Duration, start time.Time) *Collector {
	if window <= 0 {
		window = 10 * time.Second
	}
	return &Collector{
		window:      window,
		started:     start,
		windowStart: start,
	}
}

// ObserveTick records one burst or tick. Reports are counted in the window
// they arrive in; a burst older than the held snapshot does not replace it.
func (c *Collector) ObserveTick(r aura.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r.Cause == aura.CauseSnapshot {
		c.snapshots++
		if !r.At.Before(c.snapshotAt) {
			c.snapshot, c.snapshotAt = r.Snapshot, r.At
		}
	} else {
		c.ticks++
	}
	c.expired += r.Expired
	for i := range r.Spawned {
		switch r.Spawned[i].Kind {
		case aura.KindGlyph:
			c.spawnedGlyph++
		case aura.KindBlob:
			c.spawnedBlob++
		case aura.KindRay:
			c.spawnedRay++
		}
	}
}

// ShouldFlush returns true once the current window has run its length.
func (c *Collector) ShouldFlush(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return now.Sub(c.windowStart) >= c.window
}

// Flush produces a WindowStats for the window ending at now, describing pop,
// and resets counters for the next window.
func (c *Collector) Flush(now time.Time, pop []aura.Particle) WindowStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.windows++
	stats := WindowStats{
		Window:       c.windows,
		Elapsed:      now.Sub(c.started).Seconds(),
		Snapshots:    c.snapshots,
		Ticks:        c.ticks,
		SpawnedGlyph: c.spawnedGlyph,
		SpawnedBlob:  c.spawnedBlob,
		SpawnedRay:   c.spawnedRay,
		Spawned:      c.spawnedGlyph + c.spawnedBlob + c.spawnedRay,
		Expired:      c.expired,
	}
	if d, ok := c.snapshot.Dominant(); ok {
		stats.Dominant = string(d.Name)
	}
	stats.Describe(pop)

	// Reset for next window
	c.windowStart = now
	c.snapshots = 0
	c.ticks = 0
	c.spawnedGlyph = 0
	c.spawnedBlob = 0
	c.spawnedRay = 0
	c.expired = 0

	return stats
}

// Window returns the window length.
func (c *Collector) Window() time.Duration {
	return c.window
}
