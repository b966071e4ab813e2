// Package classify turns captured media into emotion snapshots.
//
// A Backend may fail; a Classifier never does. Resilient bridges the two by
// falling back to synthesized mock emotions whenever its backend errors or
// reports nothing.
package classify

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/pthm-cable/aurora/capture"
	"github.com/pthm-cable/aurora/config"
	"github.com/pthm-cable/aurora/emotion"
)

// ErrNoFrames is returned by a replay with no usable rows.
var ErrNoFrames = errors.New("classify: recording has no frames")

// Sample is one captured moment sent for analysis.
type Sample struct {
	Frame *image.RGBA
	Audio capture.AudioClip
	At    time.Time
}

// Backend analyzes a sample. Errors are expected and handled by the caller.
type Backend interface {
	Name() string
	Analyze(ctx context.Context, s Sample) (emotion.Snapshot, error)
}

// Classifier always produces a snapshot.
type Classifier interface {
	Classify(ctx context.Context, s Sample) emotion.Snapshot
}

// New builds the classifier selected by cfg.Backend, wrapped in Resilient.
func New(cfg config.AnalysisConfig, seed int64) (*Resilient, error) {
	mock := NewMock(seed)
	switch cfg.Backend {
	case "", "mock":
		return NewResilient(mock, mock), nil
	case "replay":
		r, err := LoadReplay(cfg.ReplayFile, cfg.FaceWeight, cfg.VoiceWeight)
		if err != nil {
			return nil, fmt.Errorf("loading replay: %w", err)
		}
		return NewResilient(r, mock), nil
	}
	return nil, fmt.Errorf("unknown analysis backend %q", cfg.Backend)
}

// HasCredentials reports whether both credential variables named in cfg are set.
func HasCredentials(cfg config.AnalysisConfig) bool {
	return cfg.KeyEnv != "" && cfg.SecretEnv != "" &&
		os.Getenv(cfg.KeyEnv) != "" && os.Getenv(cfg.SecretEnv) != ""
}
