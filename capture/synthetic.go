package capture

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/aurora/config"
)

// Synthetic is a Source that needs no hardware. Frames are a slowly cycling
// color gradient and audio is a sine tone mixed with noise.
type Synthetic struct {
	cfg    config.CaptureConfig
	warmup time.Duration
	now    func() time.Time

	mu      sync.Mutex
	rng     *rand.Rand
	active  bool
	started time.Time
	frames  int
}

// NewSynthetic creates a stopped synthetic source.
func NewSynthetic(cfg config.CaptureConfig, warmup time.Duration, seed int64) *Synthetic {
	if cfg.FrameWidth <= 0 {
		cfg.FrameWidth = 640
	}
	if cfg.FrameHeight <= 0 {
		cfg.FrameHeight = 480
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	return &Synthetic{
		cfg:    cfg,
		warmup: warmup,
		now:    time.Now,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Start begins producing frames. Starting an active source is a no-op.
func (s *Synthetic) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("starting capture: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return nil
	}
	s.active = true
	s.started = s.now()
	s.frames = 0
	return nil
}

// Active reports whether the source is started.
func (s *Synthetic) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Ready reports true once the warm-up has elapsed.
func (s *Synthetic) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readyLocked()
}

func (s *Synthetic) readyLocked() bool {
	return s.active && s.now().Sub(s.started) >= s.warmup
}

// Size returns the frame dimensions once ready.
func (s *Synthetic) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.readyLocked() {
		return 0, 0
	}
	return s.cfg.FrameWidth, s.cfg.FrameHeight
}

// Frame renders the next gradient frame. The hue shifts with each frame.
func (s *Synthetic) Frame() (*image.RGBA, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return nil, ErrInactive
	}
	if !s.readyLocked() {
		return nil, ErrNotReady
	}

	w, h := s.cfg.FrameWidth, s.cfg.FrameHeight
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	hue := math.Mod(float64(s.frames)*7, 360)
	for y := 0; y < h; y++ {
		v := 0.35 + 0.6*float64(y)/float64(h)
		for x := 0; x < w; x++ {
			c := colorful.Hsv(math.Mod(hue+60*float64(x)/float64(w), 360), 0.5, v)
			r, g, b := c.RGB255()
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	s.frames++
	return img, nil
}

// Audio synthesizes d worth of microphone input.
func (s *Synthetic) Audio(d time.Duration) (AudioClip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return AudioClip{}, ErrInactive
	}

	sr := beep.SampleRate(s.cfg.SampleRate)
	tone, err := generators.SineTone(sr, s.cfg.ToneHz)
	if err != nil {
		return AudioClip{}, fmt.Errorf("synthesizing tone: %w", err)
	}
	noise := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := s.rng.Float64()*2 - 1
			samples[i][0] = v
			samples[i][1] = v
		}
		return len(samples), true
	})

	level := math.Max(0, math.Min(1, s.cfg.NoiseLevel))
	n := sr.N(d)
	mixed := beep.Take(n, beep.Mix(
		newVolume(tone, 0.5*(1-level)),
		newVolume(noise, 0.5*level),
	))

	buf := make([][2]float64, n)
	filled := 0
	for filled < n {
		k, ok := mixed.Stream(buf[filled:])
		filled += k
		if !ok {
			break
		}
	}
	return AudioClip{Rate: sr, Samples: buf[:filled]}, nil
}

// Stop releases the source. Safe to call repeatedly.
func (s *Synthetic) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
}

// newVolume scales s linearly. A non-positive gain silences it.
func newVolume(s beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain)}
}
