package renderer

import (
	"math"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/aurora/aura"
	"github.com/pthm-cable/aurora/scene"
	"github.com/pthm-cable/aurora/viewport"
)

// referenceSide is the container side, in pixels, at which particle sizes
// are drawn unscaled.
const referenceSide = 600

// Frame is everything drawn in one pass, back to front.
type Frame struct {
	Washes  []aura.Wash
	Glow    aura.Glow
	Sprites []scene.Sprite
}

// AuraRenderer draws the emotion field with raylib primitives.
type AuraRenderer struct {
	Background rl.Color
	Border     rl.Color
	Preview    *Preview
}

// NewAuraRenderer creates a renderer with the default palette.
func NewAuraRenderer() *AuraRenderer {
	return &AuraRenderer{
		Background: rl.Color{R: 8, G: 8, B: 20, A: 255},
		Border:     rl.Color{R: 255, G: 255, B: 255, A: 180},
		Preview:    NewPreview(),
	}
}

// Draw renders f. The caller owns BeginDrawing/EndDrawing.
func (r *AuraRenderer) Draw(v *viewport.Viewport, f Frame) {
	rl.ClearBackground(r.Background)
	r.drawWashes(v, f.Washes)

	rect := v.ContainerRect()
	cx := rect.X + rect.W/2
	cy := rect.Y + rect.H/2
	radius := rect.W / 2

	// Container: dark disc, live preview, glow
	rl.DrawCircleGradient(int32(cx), int32(cy), radius,
		rl.Color{R: 5, G: 5, B: 20, A: 180}, rl.Color{R: 0, G: 0, B: 0, A: 230})
	r.Preview.Draw(rect)
	r.drawGlow(cx, cy, radius, f.Glow)

	unit := rect.W / referenceSide
	rl.BeginBlendMode(rl.BlendAdditive)
	for i := range f.Sprites {
		s := &f.Sprites[i]
		switch s.Kind {
		case aura.KindBlob:
			r.drawBlob(v, s, unit)
		case aura.KindRay:
			r.drawRay(v, s, unit)
		}
	}
	rl.EndBlendMode()

	rl.DrawRing(rl.Vector2{X: cx, Y: cy}, radius, radius+6*unit, 0, 360, 96, r.Border)

	// Glyphs float above everything, in page space
	for i := range f.Sprites {
		if f.Sprites[i].Kind == aura.KindGlyph {
			r.drawBadge(v, &f.Sprites[i], unit)
		}
	}
}

func (r *AuraRenderer) drawWashes(v *viewport.Viewport, washes []aura.Wash) {
	for _, w := range washes {
		x, y := v.Full(float32(w.X), float32(w.Y))
		radius := float32(w.Radius) * v.ContainerScale() / 4
		if !v.IsVisible(x, y, radius) {
			continue
		}
		rl.DrawCircleGradient(int32(x), int32(y), radius, toRL(w.Color, w.Opacity), toRL(w.Color, 0))
	}
}

func (r *AuraRenderer) drawGlow(cx, cy, radius float32, g aura.Glow) {
	rl.BeginBlendMode(rl.BlendAdditive)
	rl.DrawCircleGradient(int32(cx), int32(cy), radius*0.8, toRL(g.Color, g.Opacity*0.5), toRL(g.Color, 0))
	rl.EndBlendMode()
}

func (r *AuraRenderer) drawBlob(v *viewport.Viewport, s *scene.Sprite, unit float32) {
	x, y := v.InContainer(float32(s.X), float32(s.Y))
	radius := float32(s.Size*s.Scale) * unit / 2
	if radius < 1 || !v.IsVisible(x, y, radius) {
		return
	}
	rl.DrawCircleGradient(int32(x), int32(y), radius, toRL(s.Color, s.Alpha*0.8), toRL(s.Color, 0))
	rl.DrawCircleV(rl.Vector2{X: x, Y: y}, radius*0.35, toRL(s.Color, s.Alpha*0.5))
}

func (r *AuraRenderer) drawRay(v *viewport.Viewport, s *scene.Sprite, unit float32) {
	x0, y0 := v.InContainer(float32(s.X), float32(s.Y))
	x1, y1 := v.InContainer(float32(s.EndX), float32(s.EndY))
	thick := float32(math.Max(1, s.Size/10)) * unit

	// Fade toward both ends by drawing a wide faint pass under a narrow core
	mx, my := (x0+x1)/2, (y0+y1)/2
	rl.DrawLineEx(rl.Vector2{X: x0, Y: y0}, rl.Vector2{X: x1, Y: y1}, thick*2.5, toRL(s.Color, s.Alpha*0.25))
	rl.DrawLineEx(rl.Vector2{X: (x0 + mx) / 2, Y: (y0 + my) / 2}, rl.Vector2{X: (x1 + mx) / 2, Y: (y1 + my) / 2}, thick, toRL(s.Color, s.Alpha*0.8))
}

// drawBadge draws a glyph particle as a colored disc with its label pill.
func (r *AuraRenderer) drawBadge(v *viewport.Viewport, s *scene.Sprite, unit float32) {
	x, y := v.Full(float32(s.X), float32(s.Y))
	radius := float32(s.Size) * unit / 2
	if radius < 2 || !v.IsVisible(x, y, radius*2) {
		return
	}
	alpha := s.Alpha

	rl.DrawCircleGradient(int32(x), int32(y), radius*1.6, toRL(s.Color, alpha*0.4), toRL(s.Color, 0))
	rl.DrawCircleV(rl.Vector2{X: x, Y: y}, radius, toRL(s.Color, alpha))

	var initial string
	if s.Label != "" {
		initial = strings.ToUpper(s.Label[:1])
	}
	fontSize := int32(radius)
	tw := rl.MeasureText(initial, fontSize)
	rl.DrawText(initial, int32(x)-tw/2, int32(y)-fontSize/2, fontSize, rl.Fade(rl.Black, float32(alpha)))

	labelSize := int32(math.Max(10, float64(12*unit)))
	lw := rl.MeasureText(s.Label, labelSize)
	pill := rl.Rectangle{
		X:      x - float32(lw)/2 - 6,
		Y:      y + radius + 4,
		Width:  float32(lw) + 12,
		Height: float32(labelSize) + 4,
	}
	rl.DrawRectangleRounded(pill, 1, 8, toRL(s.Color, alpha*0.9))
	rl.DrawText(s.Label, int32(pill.X)+6, int32(pill.Y)+2, labelSize, rl.Fade(rl.Black, float32(alpha)))
}

// toRL converts c at opacity a in [0,1] to a raylib color.
func toRL(c colorful.Color, a float64) rl.Color {
	r, g, b := c.Clamped().RGB255()
	return rl.Color{R: r, G: g, B: b, A: uint8(math.Max(0, math.Min(1, a)) * 255)}
}
