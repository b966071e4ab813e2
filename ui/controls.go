package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aurora/session"
)

const (
	buttonWidth  = 150
	buttonHeight = 32
	buttonGap    = 12
)

// ControlPanel draws the session buttons centered below the container.
type ControlPanel struct {
	renderer *Renderer
}

// NewControlPanel creates a control panel.
func NewControlPanel() *ControlPanel {
	return &ControlPanel{renderer: NewRenderer()}
}

// Draw renders one button per available control, centered on cx with its
// top edge at y, and returns the action clicked this frame, if any.
func (c *ControlPanel) Draw(cx, y float32, st session.Status) (session.Action, bool) {
	controls := st.Controls()
	total := float32(len(controls))*buttonWidth + float32(len(controls)-1)*buttonGap
	x := cx - total/2

	var clicked session.Action
	var ok bool
	for _, ctl := range controls {
		bounds := rl.Rectangle{X: x, Y: y, Width: buttonWidth, Height: buttonHeight}
		if !ctl.Enabled {
			gui.Disable()
		}
		if gui.Button(bounds, ctl.Action.String()) && ctl.Enabled {
			clicked, ok = ctl.Action, true
		}
		if !ctl.Enabled {
			gui.Enable()
		}
		x += buttonWidth + buttonGap
	}

	c.drawStatus(cx, y+buttonHeight+10, st)
	return clicked, ok
}

// drawStatus draws the capture state pill under the buttons.
func (c *ControlPanel) drawStatus(cx, y float32, st session.Status) {
	if !st.Capturing {
		return
	}
	t := c.renderer.Theme
	text, color := "warming up", t.Warn
	switch {
	case st.Analyzing:
		text, color = "analyzing", t.Good
	case st.Ready:
		text, color = "ready", t.Good
	}
	w := rl.MeasureText(text, t.FontSize)
	pill := rl.Rectangle{X: cx - float32(w)/2 - 10, Y: y, Width: float32(w) + 20, Height: float32(t.FontSize) + 8}
	rl.DrawRectangleRounded(pill, 1, 8, rl.Fade(color, 0.3))
	rl.DrawText(text, int32(pill.X)+10, int32(pill.Y)+4, t.FontSize, rl.RayWhite)
}
