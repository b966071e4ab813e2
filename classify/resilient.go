package classify

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/pthm-cable/aurora/emotion"
)

// Resilient wraps a backend and substitutes mock emotions when the backend
// errors or returns an all-zero result.
type Resilient struct {
	backend   Backend
	fallback  *Mock
	fallbacks atomic.Int64
}

// NewResilient wraps backend. A nil fallback gets a fresh mock.
func NewResilient(backend Backend, fallback *Mock) *Resilient {
	if fallback == nil {
		fallback = NewMock(1)
	}
	return &Resilient{backend: backend, fallback: fallback}
}

// Backend returns the wrapped backend's name.
func (r *Resilient) Backend() string {
	if r.backend == nil {
		return r.fallback.Name()
	}
	return r.backend.Name()
}

// Fallbacks returns how many results were substituted.
func (r *Resilient) Fallbacks() int64 {
	return r.fallbacks.Load()
}

// Classify returns the backend's result, or a mock snapshot on failure.
func (r *Resilient) Classify(ctx context.Context, s Sample) emotion.Snapshot {
	if r.backend == nil {
		return r.fallback.Generate()
	}

	snap, err := r.backend.Analyze(ctx, s)
	switch {
	case err != nil:
		slog.Warn("classification failed, using mock emotions",
			"backend", r.backend.Name(),
			"error", err,
		)
	case snap.Total() <= 0:
		slog.Warn("no emotions detected, using mock emotions",
			"backend", r.backend.Name(),
		)
	default:
		return snap
	}

	r.fallbacks.Add(1)
	return r.fallback.Generate()
}
