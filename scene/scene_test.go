package scene

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/aurora/aura"
	"github.com/pthm-cable/aurora/emotion"
)

var t0 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func particle(id string, kind aura.Kind, created time.Time) aura.Particle {
	d := 10 * time.Second
	return aura.Particle{
		ID:       id,
		Emotion:  emotion.Joy,
		Kind:     kind,
		X:        50,
		Y:        50,
		DX:       0,
		DY:       -20,
		Size:     30,
		Opacity:  0.8,
		FadeIn:   time.Second,
		Duration: d,
		Created:  created,
		Expires:  created.Add(d),
	}
}

func TestSync(t *testing.T) {
	s := New(1)
	a := particle("a", aura.KindGlyph, t0)
	b := particle("b", aura.KindBlob, t0)
	c := particle("c", aura.KindRay, t0)

	if added, removed := s.Sync([]aura.Particle{a, b}); added != 2 || removed != 0 {
		t.Fatalf("first sync added=%d removed=%d", added, removed)
	}
	if added, removed := s.Sync([]aura.Particle{b, c}); added != 1 || removed != 1 {
		t.Fatalf("second sync added=%d removed=%d", added, removed)
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
	if _, removed := s.Sync(nil); removed != 2 || s.Len() != 0 {
		t.Errorf("clearing sync removed=%d len=%d", removed, s.Len())
	}
}

func TestSpritesLayered(t *testing.T) {
	s := New(1)
	s.Sync([]aura.Particle{
		particle("g1", aura.KindGlyph, t0),
		particle("r1", aura.KindRay, t0.Add(time.Second)),
		particle("b2", aura.KindBlob, t0.Add(time.Second)),
		particle("b1", aura.KindBlob, t0),
	})
	s.Animate(t0.Add(2 * time.Second))

	want := []string{"b1", "b2", "r1", "g1"}
	got := s.Sprites()
	if len(got) != len(want) {
		t.Fatalf("sprites = %d, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("sprite %d = %s, want %s", i, got[i].ID, id)
		}
	}
	if got[3].Glyph != "😊" {
		t.Errorf("glyph = %q, want joy face", got[3].Glyph)
	}
}

func TestEnvelope(t *testing.T) {
	p := particle("a", aura.KindGlyph, t0)

	tests := []struct {
		name string
		at   time.Duration
		want float64
	}{
		{"created", 0, 0},
		{"half faded in", 500 * time.Millisecond, 0.5},
		{"full", 5 * time.Second, 1},
		{"fading out", 9 * time.Second, 0.5},
		{"expired", 10 * time.Second, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := t0.Add(tt.at)
			got := envelope(&p, p.Progress(now), tt.at.Seconds())
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("envelope = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAnimateMotion(t *testing.T) {
	s := New(3)
	glyph := particle("g", aura.KindGlyph, t0)
	ray := particle("r", aura.KindRay, t0)
	ray.DX, ray.DY = 30, 0
	s.Sync([]aura.Particle{glyph, ray})

	s.Animate(t0.Add(5 * time.Second))
	var g, r Sprite
	for _, sp := range s.Sprites() {
		switch sp.ID {
		case "g":
			g = sp
		case "r":
			r = sp
		}
	}

	// Half way through, the glyph has risen about 10 points, give or take wobble.
	if math.Abs(g.Y-40) > 2*wobbleAmplitude {
		t.Errorf("glyph y = %v, want near 40", g.Y)
	}
	if math.Abs(g.Alpha-0.8) > 1e-9 {
		t.Errorf("glyph alpha = %v, want full opacity 0.8", g.Alpha)
	}

	// Rays keep their length while sweeping.
	length := math.Hypot(r.EndX-r.X, r.EndY-r.Y)
	if math.Abs(length-30) > 1e-9 {
		t.Errorf("ray length = %v, want 30", length)
	}
	if math.Abs(r.Rotation-raySweep/2) > 1e-9 {
		t.Errorf("ray rotation = %v, want %v", r.Rotation, raySweep/2)
	}
}

func TestMeters(t *testing.T) {
	m := NewMeters(60)
	m.SetTarget(emotion.NewSnapshot(map[string]float64{"joy": 0.8}))

	prev := 0.0
	for i := 0; i < 10; i++ {
		m.Step()
		v := m.Value(emotion.Joy)
		if v < prev {
			t.Fatalf("meter went backwards at step %d: %v < %v", i, v, prev)
		}
		prev = v
	}
	if prev <= 0 || prev >= 0.8 {
		t.Errorf("after 10 frames joy = %v, want between 0 and 0.8", prev)
	}

	for i := 0; i < 600; i++ {
		m.Step()
	}
	if v := m.Value(emotion.Joy); math.Abs(v-0.8) > 1e-3 {
		t.Errorf("settled joy = %v, want 0.8", v)
	}

	levels := m.Levels()
	if len(levels) != len(emotion.Vocabulary) || levels[0].Name != emotion.Joy || levels[0].Target != 0.8 {
		t.Errorf("levels = %+v", levels)
	}
	if m.Value("excitement") != 0 {
		t.Error("unknown meter should read zero")
	}
}
