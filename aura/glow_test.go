package aura

import (
	"math"
	"testing"

	"github.com/pthm-cable/aurora/config"
	"github.com/pthm-cable/aurora/emotion"
)

func TestGlowFor(t *testing.T) {
	tests := []struct {
		name    string
		snap    emotion.Snapshot
		want    emotion.Name
		opacity float64
	}{
		{"empty", emotion.NewSnapshot(nil), "", 0.3},
		{"faint only", emotion.NewSnapshot(map[string]float64{"joy": 0.04}), "", 0.3},
		{"dominant", emotion.NewSnapshot(map[string]float64{"joy": 0.2, "fear": 0.7}), emotion.Fear, 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := GlowFor(tt.snap)
			if g.Emotion != tt.want || g.Opacity != tt.opacity {
				t.Errorf("GlowFor = %s@%v, want %s@%v", g.Emotion, g.Opacity, tt.want, tt.opacity)
			}
			if tt.want == "" && g.Color != emotion.Fallback.Color {
				t.Errorf("glow color = %v, want fallback white", g.Color.Hex())
			}
		})
	}
}

func TestBackdrop(t *testing.T) {
	cfg := config.BackdropConfig{Threshold: 0.1, OpacityScale: 0.5, OpacityMax: 0.4, RadiusBase: 50, RadiusScale: 80}
	snap := emotion.NewSnapshot(map[string]float64{"joy": 0.2, "anger": 0.9, "neutral": 0.1})

	washes := Backdrop(snap, &seqRand{vals: []float64{0}}, cfg)
	if len(washes) != 2 {
		t.Fatalf("washes = %d, want 2 (neutral at threshold excluded)", len(washes))
	}

	first, second := washes[0], washes[1]
	if first.Emotion != emotion.Anger || second.Emotion != emotion.Joy {
		t.Errorf("order = %s, %s, want anger, joy", first.Emotion, second.Emotion)
	}
	if first.Opacity != 0.4 {
		t.Errorf("strong wash opacity = %v, want capped 0.4", first.Opacity)
	}
	if math.Abs(second.Opacity-0.1) > 1e-9 {
		t.Errorf("joy wash opacity = %v, want 0.1", second.Opacity)
	}
	if math.Abs(first.Radius-122) > 1e-9 {
		t.Errorf("anger radius = %v, want 122", first.Radius)
	}
	if first.X != 10 || first.Y != 20 || second.X != 30 || second.Y != 35 {
		t.Errorf("positions = (%v,%v) (%v,%v)", first.X, first.Y, second.X, second.Y)
	}

	if got := Backdrop(emotion.NewSnapshot(nil), NewRand(1), cfg); got != nil {
		t.Errorf("empty snapshot washes = %v, want nil", got)
	}
}
