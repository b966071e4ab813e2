// Package scene mirrors the live particle population into an ECS world and
// animates it frame by frame for the renderers.
package scene

import (
	"math"
	"sort"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mlange-42/ark/ecs"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/aurora/aura"
	"github.com/pthm-cable/aurora/emotion"
)

const (
	wobbleAmplitude = 1.5  // Percent of the target area
	wobbleRate      = 0.35 // Noise units per second
	fadeOutShare    = 0.2  // Final share of the lifetime spent fading out
	pulsePeriod     = 1.5  // Seconds per blob pulse
	pulseDepth      = 0.12
	raySweep        = 12.0 // Degrees a ray turns over its lifetime
)

// Sprite is a render-ready particle.
type Sprite struct {
	ID      string
	Emotion emotion.Name
	Kind    aura.Kind
	Glyph   string
	Label   string
	Color   colorful.Color
	Size    float64
	Created time.Time
	Pose
}

// Scene is an ark world holding one entity per live particle.
type Scene struct {
	world  *ecs.World
	mapper *ecs.Map2[Source, Pose]
	filter *ecs.Filter2[Source, Pose]
	index  map[string]ecs.Entity
	noise  opensimplex.Noise
	phase  float64
}

// New creates an empty scene.
func New(seed int64) *Scene {
	world := ecs.NewWorld()
	return &Scene{
		world:  world,
		mapper: ecs.NewMap2[Source, Pose](world),
		filter: ecs.NewFilter2[Source, Pose](world),
		index:  make(map[string]ecs.Entity),
		noise:  opensimplex.New(seed),
	}
}

// Len returns the number of entities.
func (s *Scene) Len() int {
	return len(s.index)
}

// Sync makes the world match pop: particles not yet mirrored get an entity
// and entities whose particle left the population are removed.
func (s *Scene) Sync(pop []aura.Particle) (added, removed int) {
	live := make(map[string]struct{}, len(pop))
	for i := range pop {
		p := &pop[i]
		live[p.ID] = struct{}{}
		if _, ok := s.index[p.ID]; ok {
			continue
		}
		src := Source{Particle: *p, Phase: s.phase}
		s.phase += 17.3
		pose := Pose{X: p.X, Y: p.Y, EndX: p.X + p.DX, EndY: p.Y + p.DY, Scale: 1, Rotation: p.Rotation}
		s.index[p.ID] = s.mapper.NewEntity(&src, &pose)
		added++
	}

	// First pass: collect vanished entities (must complete before modifying)
	var toRemove []ecs.Entity
	query := s.filter.Query()
	for query.Next() {
		src, _ := query.Get()
		if _, ok := live[src.Particle.ID]; !ok {
			toRemove = append(toRemove, query.Entity())
			delete(s.index, src.Particle.ID)
		}
	}

	// Second pass: remove entities (query iteration complete)
	for _, e := range toRemove {
		s.world.RemoveEntity(e)
	}
	return added, len(toRemove)
}

// Animate computes every entity's pose at now.
func (s *Scene) Animate(now time.Time) {
	query := s.filter.Query()
	for query.Next() {
		src, pose := query.Get()
		s.animate(src, pose, now)
	}
}

func (s *Scene) animate(src *Source, pose *Pose, now time.Time) {
	p := &src.Particle
	t := p.Progress(now)
	age := now.Sub(p.Created).Seconds()
	if age < 0 {
		age = 0
	}

	pose.Alpha = p.Opacity * envelope(p, t, age)
	pose.Scale = 1
	pose.Rotation = p.Rotation

	wx := wobbleAmplitude * s.noise.Eval2(src.Phase, age*wobbleRate)
	wy := wobbleAmplitude * s.noise.Eval2(src.Phase+100, age*wobbleRate)

	switch p.Kind {
	case aura.KindGlyph:
		pose.X = p.X + p.DX*t + wx
		pose.Y = p.Y + p.DY*t + wy
		pose.EndX, pose.EndY = pose.X, pose.Y
	case aura.KindBlob:
		pose.X = p.X + wx
		pose.Y = p.Y + wy
		pose.EndX, pose.EndY = pose.X, pose.Y
		pose.Scale = 1 + pulseDepth*math.Sin(2*math.Pi*age/pulsePeriod+src.Phase)
	case aura.KindRay:
		pose.X, pose.Y = p.X, p.Y
		turn := raySweep * t
		pose.Rotation = p.Rotation + turn
		rad := turn * math.Pi / 180
		cos, sin := math.Cos(rad), math.Sin(rad)
		pose.EndX = p.X + p.DX*cos - p.DY*sin
		pose.EndY = p.Y + p.DX*sin + p.DY*cos
	}
}

// envelope is the fade multiplier: linear fade-in over FadeIn, full
// strength, then linear fade-out over the final share of the lifetime.
func envelope(p *aura.Particle, t, age float64) float64 {
	a := 1.0
	if fi := p.FadeIn.Seconds(); fi > 0 && age < fi {
		a = age / fi
	}
	if t > 1-fadeOutShare {
		a = math.Min(a, (1-t)/fadeOutShare)
	}
	return math.Max(0, math.Min(1, a))
}

// Sprites returns render-ready sprites, blobs first, then rays, then glyphs.
// Within a layer older particles come first.
func (s *Scene) Sprites() []Sprite {
	out := make([]Sprite, 0, len(s.index))
	query := s.filter.Query()
	for query.Next() {
		src, pose := query.Get()
		p := &src.Particle
		desc, ok := emotion.Lookup(string(p.Emotion))
		if !ok {
			desc = emotion.Fallback
		}
		out = append(out, Sprite{
			ID:      p.ID,
			Emotion: p.Emotion,
			Kind:    p.Kind,
			Glyph:   desc.Glyph,
			Label:   desc.Label,
			Color:   p.Color,
			Size:    p.Size,
			Created: p.Created,
			Pose:    *pose,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return layer(out[i].Kind) < layer(out[j].Kind)
		}
		if !out[i].Created.Equal(out[j].Created) {
			return out[i].Created.Before(out[j].Created)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func layer(k aura.Kind) int {
	switch k {
	case aura.KindBlob:
		return 0
	case aura.KindRay:
		return 1
	}
	return 2
}
