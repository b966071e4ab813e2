package scene

import (
	"github.com/charmbracelet/harmonica"

	"github.com/pthm-cable/aurora/emotion"
)

// Level is one smoothed meter reading.
type Level struct {
	Name   emotion.Name
	Value  float64
	Target float64
}

// Meters eases per-emotion intensities toward the latest snapshot with a
// critically damped spring, one step per rendered frame.
type Meters struct {
	spring harmonica.Spring
	pos    []float64
	vel    []float64
	target []float64
}

// NewMeters creates meters stepped at fps frames per second.
func NewMeters(fps int) *Meters {
	if fps <= 0 {
		fps = 60
	}
	n := len(emotion.Vocabulary)
	return &Meters{
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
		pos:    make([]float64, n),
		vel:    make([]float64, n),
		target: make([]float64, n),
	}
}

// SetTarget sets the values the meters move toward. Emotions missing from
// snap fall to zero.
func (m *Meters) SetTarget(snap emotion.Snapshot) {
	for i, name := range emotion.Vocabulary {
		v, _ := snap.Intensity(name)
		m.target[i] = v
	}
}

// Step advances every meter by one frame.
func (m *Meters) Step() {
	for i := range m.pos {
		m.pos[i], m.vel[i] = m.spring.Update(m.pos[i], m.vel[i], m.target[i])
	}
}

// Value returns the current reading for name.
func (m *Meters) Value(name emotion.Name) float64 {
	i := emotion.Rank(name)
	if i >= len(m.pos) {
		return 0
	}
	return m.pos[i]
}

// Levels returns all readings in vocabulary order.
func (m *Meters) Levels() []Level {
	out := make([]Level, len(emotion.Vocabulary))
	for i, name := range emotion.Vocabulary {
		out[i] = Level{Name: name, Value: m.pos[i], Target: m.target[i]}
	}
	return out
}
