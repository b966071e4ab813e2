// Package viewport maps the normalized percent space particles live in onto
// screen coordinates.
package viewport

import "math"

// Rect is an axis-aligned screen rectangle.
type Rect struct {
	X, Y, W, H float32
}

// Viewport maps percent coordinates to the screen.
//
// Two spaces exist. The full space covers the whole screen and is used by
// floating glyphs. The container space is a square centered on the screen
// whose side is Container times the short screen side, scaled by Zoom; it is
// used by blobs and rays.
type Viewport struct {
	// Screen dimensions in pixels (or cells)
	W, H float32

	// Container side as a fraction of the short screen side
	Container float32

	// Container magnification
	Zoom, MinZoom, MaxZoom float32
}

// New creates a viewport for a w x h screen.
func New(w, h, container float32) *Viewport {
	if container <= 0 || container > 1 {
		container = 0.8
	}
	return &Viewport{
		W:         w,
		H:         h,
		Container: container,
		Zoom:      1.0,
		MinZoom:   0.5,
		MaxZoom:   2.0,
	}
}

// Resize updates the screen dimensions.
func (v *Viewport) Resize(w, h float32) {
	v.W = w
	v.H = h
}

// Full converts a full-space percent position to screen coordinates.
func (v *Viewport) Full(px, py float32) (sx, sy float32) {
	return px / 100 * v.W, py / 100 * v.H
}

// ScreenToFull converts screen coordinates back to full-space percent.
func (v *Viewport) ScreenToFull(sx, sy float32) (px, py float32) {
	if v.W == 0 || v.H == 0 {
		return 0, 0
	}
	return sx / v.W * 100, sy / v.H * 100
}

// ContainerRect returns the container's screen rectangle.
func (v *Viewport) ContainerRect() Rect {
	side := v.containerSide()
	return Rect{
		X: (v.W - side) / 2,
		Y: (v.H - side) / 2,
		W: side,
		H: side,
	}
}

// InContainer converts a container-space percent position to screen
// coordinates. Points outside [0,100] land outside the rectangle.
func (v *Viewport) InContainer(px, py float32) (sx, sy float32) {
	r := v.ContainerRect()
	return r.X + px/100*r.W, r.Y + py/100*r.H
}

// ContainerScale returns screen units per container percent.
func (v *Viewport) ContainerScale() float32 {
	return v.containerSide() / 100
}

// IsVisible returns true if a circle at (sx, sy) with the given radius
// overlaps the screen (conservative check for culling).
func (v *Viewport) IsVisible(sx, sy, radius float32) bool {
	return sx+radius >= 0 && sx-radius <= v.W && sy+radius >= 0 && sy-radius <= v.H
}

// SetZoom sets the container zoom, clamped to min/max.
func (v *Viewport) SetZoom(zoom float32) {
	v.Zoom = clamp(zoom, v.MinZoom, v.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (v *Viewport) ZoomBy(factor float32) {
	v.SetZoom(v.Zoom * factor)
}

// Reset returns the zoom to 1.
func (v *Viewport) Reset() {
	v.Zoom = 1.0
}

func (v *Viewport) containerSide() float32 {
	short := float32(math.Min(float64(v.W), float64(v.H)))
	return short * v.Container * v.Zoom
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
