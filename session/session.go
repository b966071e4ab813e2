// Package session wires capture, classification and the particle field
// together behind the four controls a user has: start/stop capture and
// start/stop analysis.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pthm-cable/aurora/aura"
	"github.com/pthm-cable/aurora/capture"
	"github.com/pthm-cable/aurora/classify"
	"github.com/pthm-cable/aurora/emotion"
	"github.com/pthm-cable/aurora/store"
)

// ErrCaptureStopped is returned when analysis needs a running capture.
var ErrCaptureStopped = errors.New("session: capture is not running")

// Options configures a Session. Source, Classifier and Manager are required.
type Options struct {
	Source     capture.Source
	Classifier classify.Classifier
	Manager    *aura.Manager
	Store      *store.Store // Optional

	AnalysisInterval time.Duration // Defaults to 3s
	ReadyPoll        time.Duration // Defaults to 500ms
	AudioWindow      time.Duration // Defaults to 1s
	Now              func() time.Time
}

// Status is a point-in-time view of the session for display.
type Status struct {
	Capturing    bool
	Ready        bool
	Analyzing    bool
	Analyses     int
	LastAnalysis time.Time
	LastError    string
	Snapshot     emotion.Snapshot
}

// Session is the application controller. Its methods are safe for
// concurrent use.
type Session struct {
	src      capture.Source
	cls      classify.Classifier
	mgr      *aura.Manager
	store    *store.Store
	interval time.Duration
	poll     time.Duration
	audio    time.Duration
	now      func() time.Time

	mu           sync.Mutex
	cancel       context.CancelFunc
	done         chan struct{}
	analyses     int
	lastAnalysis time.Time
	lastErr      error
	closed       bool
}

// New creates a session and restores the last saved snapshot, if any, into
// the particle field.
func New(opts Options) *Session {
	s := &Session{
		src:      opts.Source,
		cls:      opts.Classifier,
		mgr:      opts.Manager,
		store:    opts.Store,
		interval: opts.AnalysisInterval,
		poll:     opts.ReadyPoll,
		audio:    opts.AudioWindow,
		now:      opts.Now,
	}
	if s.interval <= 0 {
		s.interval = 3 * time.Second
	}
	if s.poll <= 0 {
		s.poll = 500 * time.Millisecond
	}
	if s.audio <= 0 {
		s.audio = time.Second
	}
	if s.now == nil {
		s.now = time.Now
	}

	snap, at, ok, err := s.store.LoadSnapshot()
	switch {
	case err != nil:
		slog.Warn("restoring snapshot failed", "error", err)
	case ok && !snap.Empty():
		slog.Info("restored snapshot", "saved_at", at, "emotions", snap.String())
		s.mgr.OnSnapshotUpdated(snap)
	}
	return s
}

// StartCapture starts the media source.
func (s *Session) StartCapture(ctx context.Context) error {
	if err := s.src.Start(ctx); err != nil {
		err = fmt.Errorf("starting capture: %w", err)
		s.setError(err)
		return err
	}
	slog.Info("capture started")
	return nil
}

// StopCapture stops analysis and releases the media source.
func (s *Session) StopCapture() {
	s.StopAnalysis()
	if s.src.Active() {
		s.src.Stop()
		slog.Info("capture stopped")
	}
}

// StartAnalysis begins periodic classification. It returns at once; the
// first analysis runs as soon as the source is ready and then every
// analysis interval. Starting twice is a no-op.
func (s *Session) StartAnalysis(ctx context.Context) error {
	if !s.src.Active() {
		s.setError(ErrCaptureStopped)
		return ErrCaptureStopped
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrCaptureStopped
	}
	if s.cancel != nil {
		return nil
	}
	actx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel, s.done = cancel, done
	go s.loop(actx, done)

	slog.Info("analysis started", "interval", s.interval)
	return nil
}

// StopAnalysis halts classification and waits for an in-flight analysis to
// finish. Safe to call when not analyzing.
func (s *Session) StopAnalysis() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	slog.Info("analysis stopped")
}

// AnalyzeOnce captures one sample, classifies it and feeds the result to
// the particle field.
func (s *Session) AnalyzeOnce(ctx context.Context) (emotion.Snapshot, error) {
	frame, err := s.src.Frame()
	if err != nil {
		if errors.Is(err, capture.ErrInactive) {
			return emotion.Snapshot{}, ErrCaptureStopped
		}
		return emotion.Snapshot{}, fmt.Errorf("grabbing frame: %w", err)
	}
	audio, err := s.src.Audio(s.audio)
	if err != nil {
		return emotion.Snapshot{}, fmt.Errorf("recording audio: %w", err)
	}

	now := s.now()
	snap := s.cls.Classify(ctx, classify.Sample{Frame: frame, Audio: audio, At: now})
	if ctx.Err() != nil {
		return emotion.Snapshot{}, ctx.Err()
	}
	s.mgr.OnSnapshotUpdated(snap)

	if err := s.store.SaveSnapshot(snap, now); err != nil {
		slog.Warn("saving snapshot failed", "error", err)
	}

	s.mu.Lock()
	s.analyses++
	s.lastAnalysis = now
	s.lastErr = nil
	s.mu.Unlock()

	slog.Debug("analysis complete", "emotions", snap.String())
	return snap, nil
}

func (s *Session) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer s.release(done)

	if err := capture.WaitReady(ctx, s.src, s.poll); err != nil {
		if ctx.Err() == nil {
			s.setError(fmt.Errorf("waiting for capture: %w", err))
		}
		return
	}
	if !s.runOnce(ctx) {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.runOnce(ctx) {
				return
			}
		}
	}
}

// runOnce reports whether the loop should continue.
func (s *Session) runOnce(ctx context.Context) bool {
	_, err := s.AnalyzeOnce(ctx)
	switch {
	case err == nil:
		return true
	case ctx.Err() != nil:
		return false
	case errors.Is(err, ErrCaptureStopped):
		s.setError(err)
		return false
	default:
		s.setError(err)
		return true
	}
}

// release clears the loop handle when the loop ends on its own.
func (s *Session) release(done chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done == done {
		s.cancel()
		s.cancel, s.done = nil, nil
	}
}

func (s *Session) setError(err error) {
	slog.Warn("session error", "error", err)
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

// Close stops analysis, capture and the particle timer. Safe to call twice.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.StopCapture()
	s.mgr.Stop()
}

// Status returns the current session state.
func (s *Session) Status() Status {
	s.mu.Lock()
	st := Status{
		Analyzing:    s.cancel != nil,
		Analyses:     s.analyses,
		LastAnalysis: s.lastAnalysis,
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	s.mu.Unlock()

	st.Capturing = s.src.Active()
	st.Ready = s.src.Ready()
	st.Snapshot = s.mgr.Snapshot()
	return st
}
