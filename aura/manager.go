package aura

import (
	"sync"
	"time"

	"github.com/pthm-cable/aurora/config"
	"github.com/pthm-cable/aurora/emotion"
)

// Cause says what produced a Report.
type Cause uint8

const (
	CauseSnapshot Cause = iota
	CauseTick
)

func (c Cause) String() string {
	if c == CauseSnapshot {
		return "snapshot"
	}
	return "tick"
}

// Report describes one change to the live population.
type Report struct {
	At         time.Time
	Cause      Cause
	Spawned    []Particle
	Expired    int
	Population int
	Snapshot   emotion.Snapshot
}

// Observer receives a Report after every burst and tick.
// It is called outside the manager lock and must not block for long.
// Tick reports come from the timer goroutine and burst reports from the
// goroutine calling OnSnapshotUpdated, so reports may arrive out of At
// order and concurrently.
type Observer interface {
	ObserveTick(Report)
}

// ManagerOptions configures a Manager. Zero values fall back to defaults.
type ManagerOptions struct {
	Rand      Rand             // Shared by generation and batch sizing
	Now       func() time.Time // Clock; defaults to time.Now
	Manual    bool             // No internal timer; the caller drives Tick
	Observers []Observer
}

// Manager owns the live particle population. Population changes are
// serialized by a mutex, so the internal timer, snapshot updates and readers
// may run on different goroutines.
type Manager struct {
	gen       *Generator
	rng       Rand
	now       func() time.Time
	cfg       config.AuraConfig
	interval  time.Duration
	manual    bool
	observers []Observer

	mu         sync.Mutex
	population []Particle
	snapshot   emotion.Snapshot
	running    bool
	stop       chan struct{}
}

// NewManager creates an idle manager. The tick timer starts with the first
// snapshot.
func NewManager(cfg config.AuraConfig, opts ManagerOptions) *Manager {
	rng := opts.Rand
	if rng == nil {
		rng = NewRand(time.Now().UnixNano())
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		gen:       NewGenerator(cfg, rng),
		rng:       rng,
		now:       now,
		cfg:       cfg,
		interval:  seconds(cfg.TickInterval),
		manual:    opts.Manual,
		observers: opts.Observers,
	}
}

// OnSnapshotUpdated replaces the current snapshot, appends an initial burst
// generated from it and starts the tick timer if it is not running.
// An empty snapshot adds nothing; existing particles decay on later ticks.
func (m *Manager) OnSnapshotUpdated(snap emotion.Snapshot) {
	m.mu.Lock()
	now := m.now()
	m.snapshot = snap
	batch := m.gen.Generate(snap, m.cfg.BurstCount, now)
	m.population = append(m.population, batch...)
	m.startLocked()
	r := Report{
		At:         now,
		Cause:      CauseSnapshot,
		Spawned:    batch,
		Population: len(m.population),
		Snapshot:   snap,
	}
	m.mu.Unlock()

	m.notify(r)
}

// Tick drops particles whose expiry is at or before now and appends a batch
// of TickBatchMin..TickBatchMax particles from the current snapshot.
// This is the only place particles leave the population.
func (m *Manager) Tick() {
	m.mu.Lock()
	r := m.tickLocked()
	m.mu.Unlock()

	m.notify(r)
}

func (m *Manager) tickLocked() Report {
	now := m.now()

	alive := 0
	for i := range m.population {
		if m.population[i].Expired(now) {
			continue
		}
		m.population[alive] = m.population[i]
		alive++
	}
	expired := len(m.population) - alive
	clear(m.population[alive:])
	m.population = m.population[:alive]

	batch := m.gen.Generate(m.snapshot, m.batchSize(), now)
	m.population = append(m.population, batch...)

	return Report{
		At:         now,
		Cause:      CauseTick,
		Spawned:    batch,
		Expired:    expired,
		Population: len(m.population),
		Snapshot:   m.snapshot,
	}
}

func (m *Manager) batchSize() int {
	lo, hi := m.cfg.TickBatchMin, m.cfg.TickBatchMax
	if hi <= lo {
		return lo
	}
	n := lo + int(m.rng.Float64()*float64(hi-lo+1))
	if n > hi {
		n = hi
	}
	return n
}

// Stop halts the tick timer. It is safe to call any number of times, before
// the first snapshot, and concurrently with an in-flight tick. No timer tick
// mutates the population after Stop returns.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stop != nil {
		close(m.stop)
		m.stop = nil
	}
	m.running = false
}

// Running reports whether the tick timer is active.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Population returns a copy of the live particles in insertion order.
func (m *Manager) Population() []Particle {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Particle, len(m.population))
	copy(out, m.population)
	return out
}

// Len returns the number of live particles.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.population)
}

// Snapshot returns the last snapshot received.
func (m *Manager) Snapshot() emotion.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot
}

func (m *Manager) startLocked() {
	if m.running {
		return
	}
	m.running = true
	if m.manual || m.interval <= 0 {
		return
	}
	stop := make(chan struct{})
	m.stop = stop
	go m.loop(stop, m.interval)
}

func (m *Manager) loop(stop chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			m.mu.Lock()
			// A Stop (and possibly a restart) may have happened while waiting.
			if m.stop != stop {
				m.mu.Unlock()
				return
			}
			r := m.tickLocked()
			m.mu.Unlock()
			m.notify(r)
		}
	}
}

func (m *Manager) notify(r Report) {
	for _, o := range m.observers {
		o.ObserveTick(r)
	}
}
