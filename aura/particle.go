// Package aura turns emotion snapshots into a live, self-renewing field of
// visual particles.
//
// Generator is a pure producer of particles from a snapshot. Manager owns the
// live population: it adds a burst whenever a snapshot arrives and, on its own
// cadence, drops expired particles and injects a small batch drawn from the
// last snapshot.
package aura

import (
	"math/rand"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/aurora/emotion"
)

// Rand is a source of uniform values in [0,1).
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// NewRand returns a seeded pseudo-random source.
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

// Kind identifies the visual form of a particle.
type Kind uint8

const (
	KindGlyph Kind = iota // floating emoji over the whole viewport
	KindBlob              // soft aura circle inside the container
	KindRay               // line from the container center
)

func (k Kind) String() string {
	switch k {
	case KindGlyph:
		return "glyph"
	case KindBlob:
		return "blob"
	case KindRay:
		return "ray"
	}
	return "unknown"
}

// Particle is one generated visual unit. It never changes after creation.
//
// Positions are percentages of the target area. Glyph X/Y span the whole
// viewport; blob and ray X/Y are inside the container centered on (50,50).
// For glyphs DX/DY is the drift over the full lifetime, for rays it is the
// offset of the end point from X/Y, and blobs do not move.
type Particle struct {
	ID      string
	Emotion emotion.Name
	Kind    Kind

	X, Y     float64
	Size     float64
	Color    colorful.Color
	Opacity  float64
	DX, DY   float64
	Rotation float64 // Degrees

	FadeIn   time.Duration
	Duration time.Duration
	Created  time.Time
	Expires  time.Time
}

// Expired reports whether the particle has reached its expiry at now.
func (p Particle) Expired(now time.Time) bool {
	return !now.Before(p.Expires)
}

// Progress returns the fraction of the lifetime elapsed at now, in [0,1].
func (p Particle) Progress(now time.Time) float64 {
	if p.Duration <= 0 {
		return 1
	}
	t := float64(now.Sub(p.Created)) / float64(p.Duration)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
