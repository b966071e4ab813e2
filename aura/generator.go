package aura

import (
	"math"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/pthm-cable/aurora/config"
	"github.com/pthm-cable/aurora/emotion"
)

// drawsPerParticle is the number of random values each particle consumes.
// They are taken up front in this order:
//
//	0 emotion  1 kind  2 size jitter  3-7 geometry  8 duration  9 fade-in
//
// Geometry uses 3-7 as: glyph x, y, drift, rise, rotation; blob angle,
// radius jitter; ray angle, length jitter. Unused slots are still drawn.
const drawsPerParticle = 10

// containerRadius bounds blob and ray geometry around the center.
const containerRadius = 50.0

// minDuration keeps lifetimes positive when a config range reaches zero.
const minDuration = time.Millisecond

// Generator produces particles from a snapshot. It holds no state between
// calls other than the random source and the id sequence.
type Generator struct {
	cfg config.AuraConfig
	rng Rand
	seq atomic.Uint64
}

// NewGenerator creates a generator using the given aura parameters.
func NewGenerator(cfg config.AuraConfig, rng Rand) *Generator {
	if rng == nil {
		rng = NewRand(time.Now().UnixNano())
	}
	return &Generator{cfg: cfg, rng: rng}
}

// Generate returns n new particles created at now. An empty snapshot or
// n < 1 yields nil. Emotions are drawn with SampleWeighted over every entry
// in the snapshot, so stronger emotions produce more particles.
func (g *Generator) Generate(snap emotion.Snapshot, n int, now time.Time) []Particle {
	if snap.Empty() || n < 1 {
		return nil
	}
	entries := snap.Entries()

	out := make([]Particle, 0, n)
	var u [drawsPerParticle]float64
	for len(out) < n {
		for i := range u {
			u[i] = g.rng.Float64()
		}
		entry, _ := SampleWeighted(entries, u[0])
		out = append(out, g.build(entry, u, now))
	}
	return out
}

func (g *Generator) build(e emotion.Entry, u [drawsPerParticle]float64, now time.Time) Particle {
	desc, ok := emotion.Lookup(string(e.Name))
	if !ok {
		desc = emotion.Fallback
	}
	i := e.Intensity
	kind := g.kindFor(i, u[1])

	p := Particle{
		ID:      "p" + strconv.FormatUint(g.seq.Add(1), 10),
		Emotion: e.Name,
		Kind:    kind,
		Size:    g.cfg.Size.Base + i*g.cfg.Size.Scale + u[2]*g.cfg.Size.Jitter,
		Color:   desc.Color,
		Created: now,
	}

	var dur config.RangeConfig
	switch kind {
	case KindGlyph:
		c := g.cfg.Glyph
		p.X = u[3] * 100
		p.Y = u[4] * 100
		p.DX = (u[5] - 0.5) * 2 * c.DriftX
		p.DY = -c.Rise.Lerp(u[6])
		p.Rotation = (u[7] - 0.5) * 2 * c.Rotation
		p.Opacity = opacity(c.Opacity, i)
		dur = c.Duration
	case KindBlob:
		c := g.cfg.Blob
		angle := u[3] * 2 * math.Pi
		r := math.Min(containerRadius, c.RadiusBase+i*c.RadiusScale+u[4]*c.RadiusJitter)
		p.X = 50 + math.Cos(angle)*r
		p.Y = 50 + math.Sin(angle)*r
		p.Opacity = opacity(c.Opacity, i)
		dur = c.Duration
	case KindRay:
		c := g.cfg.Ray
		angle := u[3] * 2 * math.Pi
		length := math.Min(containerRadius, c.LengthBase+i*c.LengthScale+u[4]*c.LengthJitter)
		p.X, p.Y = 50, 50
		p.DX = math.Cos(angle) * length
		p.DY = math.Sin(angle) * length
		p.Rotation = angle * 180 / math.Pi
		p.Opacity = opacity(c.Opacity, i)
		dur = c.Duration
	}

	p.Duration = seconds(dur.Lerp(u[8]))
	if p.Duration < minDuration {
		p.Duration = minDuration
	}
	p.FadeIn = seconds(g.cfg.FadeIn.Lerp(u[9]))
	p.Expires = p.Created.Add(p.Duration)
	return p
}

// kindFor picks among the kinds eligible at intensity i. Glyphs are always
// eligible; blobs and rays need their thresholds exceeded.
func (g *Generator) kindFor(i, u float64) Kind {
	kinds := [3]Kind{KindGlyph, KindBlob, KindRay}
	weights := []float64{g.cfg.KindWeights.Glyph, 0, 0}
	if i > g.cfg.Blob.Threshold {
		weights[1] = g.cfg.KindWeights.Blob
	}
	if i > g.cfg.Ray.Threshold {
		weights[2] = g.cfg.KindWeights.Ray
	}
	return kinds[pick(weights, u)]
}

func opacity(c config.OpacityConfig, i float64) float64 {
	return math.Max(c.Min, math.Min(c.Max, c.Base+i*c.Scale))
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
