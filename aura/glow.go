package aura

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/aurora/config"
	"github.com/pthm-cable/aurora/emotion"
)

// Glow is the radial base light behind the particle field.
type Glow struct {
	Emotion   emotion.Name // Empty when nothing dominates
	Intensity float64
	Color     colorful.Color
	Opacity   float64
}

// GlowFor returns the dominant emotion's color at 0.9 opacity, or a faint
// white glow when no emotion dominates.
func GlowFor(snap emotion.Snapshot) Glow {
	dom, ok := snap.Dominant()
	if !ok {
		return Glow{Color: emotion.Fallback.Color, Opacity: 0.3}
	}
	desc, _ := emotion.Lookup(string(dom.Name))
	return Glow{
		Emotion:   dom.Name,
		Intensity: dom.Intensity,
		Color:     desc.Color,
		Opacity:   0.9,
	}
}

// Wash is a large blurred color patch on the page background.
// X, Y are percentages of the viewport; Radius is in pixels.
type Wash struct {
	Emotion emotion.Name
	Color   colorful.Color
	X, Y    float64
	Radius  float64
	Opacity float64
}

// Backdrop lays out one wash per significant emotion, strongest first.
// Positions spread across the page by rank with a random offset.
func Backdrop(snap emotion.Snapshot, rng Rand, cfg config.BackdropConfig) []Wash {
	sig := snap.Above(cfg.Threshold)
	if len(sig) == 0 {
		return nil
	}
	out := make([]Wash, 0, len(sig))
	for idx, e := range sig {
		desc, ok := emotion.Lookup(string(e.Name))
		if !ok {
			continue
		}
		r := rng.Float64()
		out = append(out, Wash{
			Emotion: e.Name,
			Color:   desc.Color,
			X:       10 + math.Mod(float64(idx)*20+r*10, 80),
			Y:       20 + math.Mod(float64(idx)*15+r*10, 60),
			Radius:  cfg.RadiusBase + e.Intensity*cfg.RadiusScale,
			Opacity: math.Min(cfg.OpacityMax, e.Intensity*cfg.OpacityScale),
		})
	}
	return out
}
