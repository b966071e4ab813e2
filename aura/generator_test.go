package aura

import (
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pthm-cable/aurora/config"
	"github.com/pthm-cable/aurora/emotion"
)

// seqRand replays a fixed sequence of values, cycling when exhausted.
type seqRand struct {
	vals []float64
	i    int
}

func (s *seqRand) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func testAuraConfig() config.AuraConfig {
	return config.AuraConfig{
		BurstCount:   20,
		TickInterval: 1,
		TickBatchMin: 1,
		TickBatchMax: 3,
		KindWeights:  config.KindWeights{Glyph: 0.5, Blob: 0.3, Ray: 0.2},
		Size:         config.SizeConfig{Base: 20, Scale: 40, Jitter: 20},
		FadeIn:       config.RangeConfig{Min: 0.2, Max: 1.5},
		Glyph: config.GlyphConfig{
			Opacity:  config.OpacityConfig{Base: 0.5, Scale: 0.5, Min: 0.5, Max: 1},
			Duration: config.RangeConfig{Min: 6, Max: 12},
			DriftX:   6,
			Rise:     config.RangeConfig{Min: 10, Max: 30},
			Rotation: 10,
		},
		Blob: config.BlobConfig{
			Threshold:    0.1,
			Opacity:      config.OpacityConfig{Base: 0.2, Scale: 0.6, Min: 0.2, Max: 0.8},
			Duration:     config.RangeConfig{Min: 2, Max: 5},
			RadiusBase:   10,
			RadiusScale:  30,
			RadiusJitter: 8,
		},
		Ray: config.RayConfig{
			Threshold:    0.05,
			Opacity:      config.OpacityConfig{Base: 0.3, Scale: 0.4, Min: 0.3, Max: 0.7},
			Duration:     config.RangeConfig{Min: 1.5, Max: 3.5},
			LengthBase:   20,
			LengthScale:  25,
			LengthJitter: 5,
		},
	}
}

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func TestGenerateCount(t *testing.T) {
	tests := []struct {
		name string
		snap emotion.Snapshot
		n    int
		want int
	}{
		{"single emotion", emotion.NewSnapshot(map[string]float64{"joy": 0.8}), 20, 20},
		{"one particle", emotion.NewSnapshot(map[string]float64{"fear": 0.3, "anger": 0.2}), 1, 1},
		{"all zero", emotion.NewSnapshot(map[string]float64{"joy": 0, "sadness": 0}), 5, 5},
		{"empty", emotion.NewSnapshot(nil), 20, 0},
		{"only unknown", emotion.NewSnapshot(map[string]float64{"excitement": 0.9}), 20, 0},
		{"zero count", emotion.NewSnapshot(map[string]float64{"joy": 0.8}), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(testAuraConfig(), NewRand(1))
			got := g.Generate(tt.snap, tt.n, t0)
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestGenerateExpiryInvariant(t *testing.T) {
	g := NewGenerator(testAuraConfig(), NewRand(7))
	snap := emotion.NewSnapshot(map[string]float64{
		"joy": 0.6, "sadness": 0.3, "anger": 0.08, "neutral": 0.02,
	})

	seen := make(map[string]bool)
	for _, p := range g.Generate(snap, 500, t0) {
		if p.Duration <= 0 {
			t.Fatalf("particle %s has non-positive duration %v", p.ID, p.Duration)
		}
		if !p.Expires.Equal(p.Created.Add(p.Duration)) {
			t.Fatalf("particle %s: expires %v != created + duration %v", p.ID, p.Expires, p.Created.Add(p.Duration))
		}
		if seen[p.ID] {
			t.Fatalf("duplicate id %s", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestGenerateNeverEmitsUnknown(t *testing.T) {
	g := NewGenerator(testAuraConfig(), NewRand(3))
	snap := emotion.NewSnapshot(map[string]float64{"excitement": 0.9, "joy": 0.2})
	for _, p := range g.Generate(snap, 200, t0) {
		if p.Emotion != emotion.Joy {
			t.Fatalf("unexpected emotion %q", p.Emotion)
		}
	}
}

func TestGenerateDerivedValues(t *testing.T) {
	snap := emotion.NewSnapshot(map[string]float64{"joy": 0.8})

	t.Run("glyph", func(t *testing.T) {
		g := NewGenerator(testAuraConfig(), &seqRand{vals: []float64{0.5}})
		p := g.Generate(snap, 1, t0)[0]

		if p.Kind != KindGlyph {
			t.Fatalf("kind = %v, want glyph", p.Kind)
		}
		checks := []struct {
			name      string
			got, want float64
		}{
			{"size", p.Size, 62}, // 20 + 0.8*40 + 0.5*20
			{"opacity", p.Opacity, 0.9},
			{"x", p.X, 50},
			{"y", p.Y, 50},
			{"dx", p.DX, 0},
			{"dy", p.DY, -20},
			{"rotation", p.Rotation, 0},
		}
		for _, c := range checks {
			if math.Abs(c.got-c.want) > 1e-9 {
				t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
			}
		}
		if p.Duration != 9*time.Second {
			t.Errorf("duration = %v, want 9s", p.Duration)
		}
		if math.Abs(p.FadeIn.Seconds()-0.85) > 1e-6 {
			t.Errorf("fade-in = %v, want 850ms", p.FadeIn)
		}
		r, gr, b := p.Color.RGB255()
		if r != 0xFF || gr != 0xDD || b != 0 {
			t.Errorf("color = %d,%d,%d, want joy yellow", r, gr, b)
		}
	})

	t.Run("blob", func(t *testing.T) {
		g := NewGenerator(testAuraConfig(), &seqRand{vals: []float64{0, 0.6, 0, 0, 0, 0, 0, 0, 0, 0}})
		p := g.Generate(snap, 1, t0)[0]

		if p.Kind != KindBlob {
			t.Fatalf("kind = %v, want blob", p.Kind)
		}
		if math.Abs(p.X-84) > 1e-9 || math.Abs(p.Y-50) > 1e-9 {
			t.Errorf("position = (%v, %v), want (84, 50)", p.X, p.Y)
		}
		if math.Abs(p.Opacity-0.68) > 1e-9 {
			t.Errorf("opacity = %v, want 0.68", p.Opacity)
		}
		if p.Duration != 2*time.Second {
			t.Errorf("duration = %v, want 2s", p.Duration)
		}
	})

	t.Run("ray", func(t *testing.T) {
		g := NewGenerator(testAuraConfig(), &seqRand{vals: []float64{0, 0.9, 0, 0.25, 0, 0, 0, 0, 0, 0}})
		p := g.Generate(snap, 1, t0)[0]

		if p.Kind != KindRay {
			t.Fatalf("kind = %v, want ray", p.Kind)
		}
		if p.X != 50 || p.Y != 50 {
			t.Errorf("origin = (%v, %v), want center", p.X, p.Y)
		}
		if math.Abs(p.DX) > 1e-9 || math.Abs(p.DY-40) > 1e-9 {
			t.Errorf("end offset = (%v, %v), want (0, 40)", p.DX, p.DY)
		}
		if math.Abs(p.Rotation-90) > 1e-9 {
			t.Errorf("rotation = %v, want 90", p.Rotation)
		}
	})
}

func TestKindThresholds(t *testing.T) {
	tests := []struct {
		name      string
		intensity float64
		allowed   map[Kind]bool
	}{
		{"below ray threshold", 0.04, map[Kind]bool{KindGlyph: true}},
		{"between thresholds", 0.08, map[Kind]bool{KindGlyph: true, KindRay: true}},
		{"above both", 0.5, map[Kind]bool{KindGlyph: true, KindBlob: true, KindRay: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(testAuraConfig(), NewRand(11))
			snap := emotion.FromEntries(emotion.Entry{Name: emotion.Fear, Intensity: tt.intensity})
			seen := make(map[Kind]bool)
			for _, p := range g.Generate(snap, 1000, t0) {
				if !tt.allowed[p.Kind] {
					t.Fatalf("kind %v not allowed at intensity %v", p.Kind, tt.intensity)
				}
				seen[p.Kind] = true
			}
			for k := range tt.allowed {
				if !seen[k] {
					t.Errorf("kind %v never generated", k)
				}
			}
		})
	}
}

func TestContainerBound(t *testing.T) {
	cfg := testAuraConfig()
	cfg.Blob.RadiusScale = 200
	cfg.Ray.LengthScale = 200
	g := NewGenerator(cfg, NewRand(5))
	snap := emotion.FromEntries(emotion.Entry{Name: emotion.Anger, Intensity: 1})

	for _, p := range g.Generate(snap, 500, t0) {
		switch p.Kind {
		case KindBlob:
			if d := math.Hypot(p.X-50, p.Y-50); d > containerRadius+1e-9 {
				t.Fatalf("blob %s at distance %v outside container", p.ID, d)
			}
		case KindRay:
			if d := math.Hypot(p.DX, p.DY); d > containerRadius+1e-9 {
				t.Fatalf("ray %s length %v outside container", p.ID, d)
			}
		case KindGlyph:
			if p.X < 0 || p.X >= 100 || p.Y < 0 || p.Y >= 100 {
				t.Fatalf("glyph %s at (%v, %v) outside viewport", p.ID, p.X, p.Y)
			}
		}
	}
}

func TestSizeMonotonicInIntensity(t *testing.T) {
	g := NewGenerator(testAuraConfig(), NewRand(21))
	snap := emotion.FromEntries(
		emotion.Entry{Name: emotion.Joy, Intensity: 0.7},
		emotion.Entry{Name: emotion.Sadness, Intensity: 0.3},
	)

	sizes := map[emotion.Name][]float64{}
	opacities := map[emotion.Name][]float64{}
	for _, p := range g.Generate(snap, 4000, t0) {
		sizes[p.Emotion] = append(sizes[p.Emotion], p.Size)
		if p.Kind == KindGlyph {
			opacities[p.Emotion] = append(opacities[p.Emotion], p.Opacity)
		}
	}

	if stat.Mean(sizes[emotion.Joy], nil) <= stat.Mean(sizes[emotion.Sadness], nil) {
		t.Errorf("mean joy size %v should exceed sadness %v",
			stat.Mean(sizes[emotion.Joy], nil), stat.Mean(sizes[emotion.Sadness], nil))
	}
	if stat.Mean(opacities[emotion.Joy], nil) <= stat.Mean(opacities[emotion.Sadness], nil) {
		t.Error("glyph opacity should grow with intensity")
	}
}

func TestSamplingProportionalToIntensity(t *testing.T) {
	g := NewGenerator(testAuraConfig(), NewRand(42))
	snap := emotion.NewSnapshot(map[string]float64{"joy": 0.5, "anger": 0.3, "fear": 0.2})

	const draws = 5000
	counts := map[emotion.Name]float64{}
	for _, p := range g.Generate(snap, draws, t0) {
		counts[p.Emotion]++
	}

	if !(counts[emotion.Joy] > counts[emotion.Anger] && counts[emotion.Anger] > counts[emotion.Fear]) {
		t.Fatalf("counts not ordered by intensity: %v", counts)
	}

	obs := []float64{counts[emotion.Joy], counts[emotion.Anger], counts[emotion.Fear]}
	exp := []float64{0.5 * draws, 0.3 * draws, 0.2 * draws}
	chi := stat.ChiSquare(obs, exp)
	crit := distuv.ChiSquared{K: 2}.Quantile(0.9999)
	if chi > crit {
		t.Errorf("chi-square %v exceeds critical %v; counts %v", chi, crit, counts)
	}
}

func TestJoySadnessRatio(t *testing.T) {
	g := NewGenerator(testAuraConfig(), NewRand(8))
	snap := emotion.NewSnapshot(map[string]float64{"joy": 0.8, "sadness": 0.1})

	var joy, sad float64
	for trial := 0; trial < 200; trial++ {
		for _, p := range g.Generate(snap, 20, t0) {
			switch p.Emotion {
			case emotion.Joy:
				joy++
			case emotion.Sadness:
				sad++
			default:
				t.Fatalf("unexpected emotion %q", p.Emotion)
			}
		}
	}
	if sad == 0 {
		t.Fatal("sadness never sampled")
	}
	if ratio := joy / sad; ratio < 6.5 || ratio > 9.8 {
		t.Errorf("joy/sadness ratio = %.2f, want about 8", ratio)
	}
}

func TestSampleWeighted(t *testing.T) {
	a := emotion.Entry{Name: emotion.Joy, Intensity: 0.5}
	b := emotion.Entry{Name: emotion.Sadness, Intensity: 0.5}
	z := emotion.Entry{Name: emotion.Fear, Intensity: 0}

	tests := []struct {
		name    string
		entries []emotion.Entry
		u       float64
		want    emotion.Name
	}{
		{"first half", []emotion.Entry{a, b}, 0.25, emotion.Joy},
		{"boundary meets", []emotion.Entry{a, b}, 0.5, emotion.Joy},
		{"second half", []emotion.Entry{a, b}, 0.75, emotion.Sadness},
		{"top of range", []emotion.Entry{a, b}, 0.999999, emotion.Sadness},
		{"zero weight skipped", []emotion.Entry{z, a}, 0, emotion.Joy},
		{"all zero falls back to first", []emotion.Entry{z, {Name: emotion.Anger}}, 0.7, emotion.Fear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SampleWeighted(tt.entries, tt.u)
			if !ok || got.Name != tt.want {
				t.Errorf("SampleWeighted(u=%v) = %v,%v want %v", tt.u, got.Name, ok, tt.want)
			}
		})
	}

	if _, ok := SampleWeighted(nil, 0.5); ok {
		t.Error("empty input should report false")
	}
}

func TestParticleProgress(t *testing.T) {
	p := Particle{Created: t0, Duration: 4 * time.Second, Expires: t0.Add(4 * time.Second)}

	tests := []struct {
		at      time.Duration
		want    float64
		expired bool
	}{
		{-time.Second, 0, false},
		{time.Second, 0.25, false},
		{4 * time.Second, 1, true},
		{10 * time.Second, 1, true},
	}
	for _, tt := range tests {
		now := t0.Add(tt.at)
		if got := p.Progress(now); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Progress(%v) = %v, want %v", tt.at, got, tt.want)
		}
		if got := p.Expired(now); got != tt.expired {
			t.Errorf("Expired(%v) = %v, want %v", tt.at, got, tt.expired)
		}
	}
}
