package classify

import (
	"context"
	"math/rand"
	"sync"

	"github.com/pthm-cable/aurora/emotion"
)

// Mock synthesizes plausible emotions: two to four random emotions are
// active and their intensities sum to one. Every vocabulary name is present.
type Mock struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewMock creates a mock backend with a seeded source.
func NewMock(seed int64) *Mock {
	return &Mock{rng: rand.New(rand.NewSource(seed))}
}

func (m *Mock) Name() string { return "mock" }

// Analyze ignores the sample and never fails.
func (m *Mock) Analyze(_ context.Context, _ Sample) (emotion.Snapshot, error) {
	return m.Generate(), nil
}

// Generate returns one synthesized snapshot.
func (m *Mock) Generate() emotion.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw := make(map[string]float64, len(emotion.Vocabulary))
	for _, n := range emotion.Vocabulary {
		raw[string(n)] = 0
	}

	active := 2 + m.rng.Intn(3)
	var total float64
	for _, i := range m.rng.Perm(len(emotion.Vocabulary))[:active] {
		// Keep every active value strictly positive.
		v := m.rng.Float64() + 1e-3
		raw[string(emotion.Vocabulary[i])] = v
		total += v
	}
	for k, v := range raw {
		raw[k] = v / total
	}
	return emotion.NewSnapshot(raw)
}
