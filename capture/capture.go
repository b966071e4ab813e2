// Package capture provides media sources that supply video frames and audio
// clips for emotion analysis.
package capture

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/gopxl/beep"
)

var (
	// ErrInactive is returned when reading from a source that is not started.
	ErrInactive = errors.New("capture: source not started")
	// ErrNotReady is returned when a started source has no frame dimensions yet.
	ErrNotReady = errors.New("capture: source not ready")
)

// Source is a camera and microphone pair.
type Source interface {
	// Start acquires the devices and begins producing frames.
	Start(ctx context.Context) error
	// Ready reports whether frame dimensions are known.
	Ready() bool
	// Active reports whether the source is started.
	Active() bool
	// Size returns the frame dimensions, or zeros before Ready.
	Size() (w, h int)
	// Frame grabs the current video frame.
	Frame() (*image.RGBA, error)
	// Audio records a clip of the given length.
	Audio(d time.Duration) (AudioClip, error)
	// Stop releases all devices. Stopping twice is a no-op.
	Stop()
}

// AudioClip is a block of stereo samples.
type AudioClip struct {
	Rate    beep.SampleRate
	Samples [][2]float64
}

// Duration returns the clip length.
func (c AudioClip) Duration() time.Duration {
	if c.Rate <= 0 {
		return 0
	}
	return c.Rate.D(len(c.Samples))
}

// Streamer replays the clip.
func (c AudioClip) Streamer() beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= len(c.Samples) {
			return 0, false
		}
		n := copy(samples, c.Samples[pos:])
		pos += n
		return n, true
	})
}

// WaitReady polls src every poll interval until it is ready, the source
// stops, or ctx is done.
func WaitReady(ctx context.Context, src Source, poll time.Duration) error {
	if poll <= 0 {
		poll = 500 * time.Millisecond
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		if !src.Active() {
			return ErrInactive
		}
		if src.Ready() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
