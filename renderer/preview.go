package renderer

import (
	"image"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aurora/viewport"
)

// Preview shows the latest camera frame inside the container.
type Preview struct {
	tex         rl.Texture2D
	w, h        int
	initialized bool
	Tint        rl.Color
}

// NewPreview creates an empty preview.
func NewPreview() *Preview {
	return &Preview{Tint: rl.Color{R: 255, G: 255, B: 255, A: 90}}
}

// Update uploads img, reallocating the texture when its size changes.
func (p *Preview) Update(img *image.RGBA) {
	if img == nil {
		return
	}
	b := img.Bounds()
	if p.initialized && b.Dx() == p.w && b.Dy() == p.h {
		rl.UpdateTexture(p.tex, rgbaPixels(img))
		return
	}
	p.Unload()

	rimg := rl.NewImageFromImage(img)
	p.tex = rl.LoadTextureFromImage(rimg)
	rl.UnloadImage(rimg)
	rl.SetTextureFilter(p.tex, rl.FilterBilinear)
	p.w, p.h = b.Dx(), b.Dy()
	p.initialized = true
}

// Clear drops the current frame, e.g. after capture stops.
func (p *Preview) Clear() {
	p.Unload()
}

// Draw fills rect with the frame, cropped to a centered square.
func (p *Preview) Draw(rect viewport.Rect) {
	if !p.initialized {
		return
	}
	side := float32(min(p.w, p.h))
	src := rl.Rectangle{
		X:      (float32(p.w) - side) / 2,
		Y:      (float32(p.h) - side) / 2,
		Width:  side,
		Height: side,
	}
	dst := rl.Rectangle{X: rect.X, Y: rect.Y, Width: rect.W, Height: rect.H}
	rl.DrawTexturePro(p.tex, src, dst, rl.Vector2{}, 0, p.Tint)
}

// Unload frees resources.
func (p *Preview) Unload() {
	if p.initialized {
		rl.UnloadTexture(p.tex)
		p.initialized = false
	}
}

func rgbaPixels(img *image.RGBA) []rl.Color {
	b := img.Bounds()
	out := make([]rl.Color, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			out = append(out, rl.Color{R: c.R, G: c.G, B: c.B, A: c.A})
		}
	}
	return out
}
