// Package term renders the particle field onto a terminal cell grid.
package term

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/aurora/aura"
	"github.com/pthm-cable/aurora/scene"
	"github.com/pthm-cable/aurora/session"
	"github.com/pthm-cable/aurora/viewport"
)

// Shading runes for blobs, faint to dense.
var shades = []rune{'·', '░', '▒', '▓'}

var background = colorful.Color{R: 0.03, G: 0.03, B: 0.08}

// Frame is one terminal frame, back to front.
type Frame struct {
	Washes  []aura.Wash
	Glow    aura.Glow
	Sprites []scene.Sprite
	Rows    []scene.Row
	Status  session.Status
	Debug   string
}

type cell struct {
	r     rune
	fg    colorful.Color
	bg    colorful.Color
	wide  bool // Second half of a double-width rune
	plain bool // Keep the terminal default foreground
}

// Renderer draws frames onto a tcell screen.
//
// Cells are taller than wide, so geometry runs in a virtual space of
// cell-width units: a row is aspect units tall.
type Renderer struct {
	screen tcell.Screen
	aspect float64
	view   *viewport.Viewport
	grid   []cell
	w, h   int
}

// NewRenderer creates a renderer for screen. aspect is the cell height
// divided by its width.
func NewRenderer(screen tcell.Screen, aspect, container float64) *Renderer {
	if aspect <= 0 {
		aspect = 2
	}
	r := &Renderer{
		screen: screen,
		aspect: aspect,
		view:   viewport.New(0, 0, float32(container)),
	}
	r.resize()
	return r
}

func (r *Renderer) resize() {
	w, h := r.screen.Size()
	if w == r.w && h == r.h && r.grid != nil {
		return
	}
	r.w, r.h = w, h
	r.grid = make([]cell, w*h)
	r.view.Resize(float32(w), float32(float64(h)*r.aspect))
}

// toCell maps a virtual point to a cell.
func (r *Renderer) toCell(x, y float32) (int, int) {
	return int(math.Floor(float64(x))), int(math.Floor(float64(y) / r.aspect))
}

// toVirtual returns the virtual center of cell (cx, cy).
func (r *Renderer) toVirtual(cx, cy int) (float64, float64) {
	return float64(cx) + 0.5, (float64(cy) + 0.5) * r.aspect
}

func (r *Renderer) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= r.w || y >= r.h {
		return nil
	}
	return &r.grid[y*r.w+x]
}

// Draw renders f and shows the screen.
func (r *Renderer) Draw(f Frame) {
	r.resize()
	for i := range r.grid {
		r.grid[i] = cell{r: ' ', bg: background, fg: background}
	}

	r.drawBackground(f.Washes, f.Glow)
	for i := range f.Sprites {
		s := &f.Sprites[i]
		switch s.Kind {
		case aura.KindBlob:
			r.drawBlob(s)
		case aura.KindRay:
			r.drawRay(s)
		}
	}
	for i := range f.Sprites {
		if f.Sprites[i].Kind == aura.KindGlyph {
			r.drawGlyph(&f.Sprites[i])
		}
	}
	r.drawPanel(f.Rows)
	r.drawFooter(f.Status, f.Debug)
	r.flush()
}

// drawBackground shades every cell from the washes and the container glow.
func (r *Renderer) drawBackground(washes []aura.Wash, glow aura.Glow) {
	rect := r.view.ContainerRect()
	gx := float64(rect.X + rect.W/2)
	gy := float64(rect.Y + rect.H/2)
	gr := float64(rect.W / 2)
	scale := float64(r.view.ContainerScale())

	for cy := 0; cy < r.h; cy++ {
		for cx := 0; cx < r.w; cx++ {
			vx, vy := r.toVirtual(cx, cy)
			c := r.at(cx, cy)
			for _, w := range washes {
				sx, sy := r.view.Full(float32(w.X), float32(w.Y))
				radius := w.Radius * scale / 4
				if k := falloff(vx, vy, float64(sx), float64(sy), radius); k > 0 {
					c.bg = c.bg.BlendRgb(w.Color, w.Opacity*k).Clamped()
				}
			}
			if k := falloff(vx, vy, gx, gy, gr*0.8); k > 0 {
				c.bg = c.bg.BlendRgb(glow.Color, glow.Opacity*0.35*k).Clamped()
			}
		}
	}
}

func (r *Renderer) drawBlob(s *scene.Sprite) {
	x, y := r.view.InContainer(float32(s.X), float32(s.Y))
	radius := s.Size * s.Scale * float64(r.view.ContainerScale()) / 12
	if radius < 0.5 {
		radius = 0.5
	}
	x0, y0 := r.toCell(x-float32(radius), y-float32(radius))
	x1, y1 := r.toCell(x+float32(radius), y+float32(radius))
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			c := r.at(cx, cy)
			if c == nil {
				continue
			}
			vx, vy := r.toVirtual(cx, cy)
			k := falloff(vx, vy, float64(x), float64(y), radius) * s.Alpha
			if k <= 0.05 {
				continue
			}
			idx := int(k * float64(len(shades)))
			if idx >= len(shades) {
				idx = len(shades) - 1
			}
			c.r = shades[idx]
			c.fg = s.Color
			c.plain = false
		}
	}
}

func (r *Renderer) drawRay(s *scene.Sprite) {
	x0, y0 := r.view.InContainer(float32(s.X), float32(s.Y))
	x1, y1 := r.view.InContainer(float32(s.EndX), float32(s.EndY))
	dx, dy := float64(x1-x0), float64(y1-y0)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	ch := rayRune(dx, dy/r.aspect)
	fg := background.BlendRgb(s.Color, s.Alpha).Clamped()
	steps := int(length * 2)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		cx, cy := r.toCell(x0+float32(dx*t), y0+float32(dy*t))
		if c := r.at(cx, cy); c != nil {
			c.r, c.fg, c.plain = ch, fg, false
		}
	}
}

// rayRune picks a line rune for a direction in cell units.
func rayRune(dx, dy float64) rune {
	deg := math.Mod(math.Atan2(dy, dx)*180/math.Pi+180, 180)
	switch {
	case deg < 22.5 || deg >= 157.5:
		return '─'
	case deg < 67.5:
		return '╲'
	case deg < 112.5:
		return '│'
	}
	return '╱'
}

func (r *Renderer) drawGlyph(s *scene.Sprite) {
	if s.Alpha < 0.1 {
		return
	}
	x, y := r.view.Full(float32(s.X), float32(s.Y))
	cx, cy := r.toCell(x, y)
	c, next := r.at(cx, cy), r.at(cx+1, cy)
	if c == nil || next == nil {
		return
	}
	for _, ch := range s.Glyph {
		c.r = ch
		break
	}
	c.fg, c.plain = s.Color, true
	*next = cell{wide: true, bg: next.bg}
}

// drawPanel lists the emotion rows at the top-right corner.
func (r *Renderer) drawPanel(rows []scene.Row) {
	const barWidth = 10
	width := 12 + barWidth + 5
	x := r.w - width - 1
	if x < 0 || len(rows) == 0 {
		return
	}
	for i, row := range rows {
		y := i + 1
		if y >= r.h-2 {
			break
		}
		filled := int(math.Round(row.Bar * barWidth))
		bar := make([]rune, barWidth)
		for j := range bar {
			bar[j] = '░'
			if j < filled {
				bar[j] = '█'
			}
		}
		r.text(x, y, padRight(row.Label, 11), colorful.Color{R: 0.85, G: 0.85, B: 0.85})
		r.text(x+12, y, string(bar), row.Color)
		r.text(x+13+barWidth, y, row.Percent, colorful.Color{R: 1, G: 1, B: 1})
	}
}

// drawFooter shows the available controls and the debug line.
func (r *Renderer) drawFooter(st session.Status, debug string) {
	if r.h < 2 {
		return
	}
	hint := "[q] Quit"
	for _, ctl := range st.Controls() {
		key := "[c]"
		if ctl.Action == session.ActionStartAnalysis || ctl.Action == session.ActionStopAnalysis {
			key = "[a]"
		}
		label := key + " " + ctl.Action.String()
		if !ctl.Enabled {
			label += " (warming up)"
		}
		hint += "  " + label
	}
	r.text(1, r.h-1, hint, colorful.Color{R: 0.6, G: 0.6, B: 0.6})
	if debug != "" {
		x := r.w - len([]rune(debug)) - 1
		if x > len([]rune(hint))+2 {
			r.text(x, r.h-1, debug, colorful.Color{R: 1, G: 1, B: 1})
		} else {
			r.text(1, r.h-2, debug, colorful.Color{R: 1, G: 1, B: 1})
		}
	}
}

func (r *Renderer) text(x, y int, s string, fg colorful.Color) {
	for _, ch := range s {
		if c := r.at(x, y); c != nil {
			c.r, c.fg, c.plain = ch, fg, false
		}
		x++
	}
}

func (r *Renderer) flush() {
	for y := 0; y < r.h; y++ {
		for x := 0; x < r.w; x++ {
			c := &r.grid[y*r.w+x]
			if c.wide {
				continue
			}
			style := tcell.StyleDefault.Background(rgb(c.bg))
			if !c.plain {
				style = style.Foreground(rgb(c.fg))
			}
			r.screen.SetContent(x, y, c.r, nil, style)
		}
	}
	r.screen.Show()
}

// falloff is 1 at the center of a circle, fading linearly to 0 at radius.
func falloff(x, y, cx, cy, radius float64) float64 {
	if radius <= 0 {
		return 0
	}
	d := math.Hypot(x-cx, y-cy) / radius
	if d >= 1 {
		return 0
	}
	return 1 - d
}

func rgb(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func padRight(s string, n int) string {
	for len([]rune(s)) < n {
		s += " "
	}
	return s
}
