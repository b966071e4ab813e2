package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/aurora/scene"
	"github.com/pthm-cable/aurora/session"
	"github.com/pthm-cable/aurora/telemetry"
)

// HUDData holds the data behind the status panel.
type HUDData struct {
	Status     session.Status
	Backend    string
	Population int
	Fallbacks  int64
	Perf       telemetry.PerfStats
}

var statusSection = SectionDescriptor{
	ID:    "status",
	Title: "Session",
	Fields: []FieldDescriptor{
		{ID: "capture", Label: "Capture", Widget: WidgetText, TextGetter: func(d any) string {
			st := d.(HUDData).Status
			switch {
			case !st.Capturing:
				return "off"
			case !st.Ready:
				return "warming up"
			}
			return "live"
		}},
		{ID: "analysis", Label: "Analysis", Widget: WidgetText, TextGetter: func(d any) string {
			hd := d.(HUDData)
			if hd.Status.Analyzing {
				return fmt.Sprintf("on (%s)", hd.Backend)
			}
			return "off"
		}},
		{ID: "analyses", Label: "Analyses", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 {
			return float32(d.(HUDData).Status.Analyses)
		}},
		{ID: "last", Label: "Last", Widget: WidgetText, TextGetter: func(d any) string {
			return d.(HUDData).Status.LastAnalysis.Format(time.TimeOnly)
		}, Visible: func(d any) bool {
			return !d.(HUDData).Status.LastAnalysis.IsZero()
		}},
		{ID: "fallbacks", Label: "Fallbacks", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 {
			return float32(d.(HUDData).Fallbacks)
		}, Visible: func(d any) bool {
			return d.(HUDData).Fallbacks > 0
		}},
		{ID: "particles", Label: "Particles", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 {
			return float32(d.(HUDData).Population)
		}},
		{ID: "fps", Label: "FPS", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 {
			return float32(d.(HUDData).Perf.FPS)
		}},
		{ID: "error", Label: "Error", Widget: WidgetText, TextGetter: func(d any) string {
			return d.(HUDData).Status.LastError
		}, Visible: func(d any) bool {
			return d.(HUDData).Status.LastError != ""
		}},
	},
}

// HUD draws the status panel, emotion list and debug badge.
type HUD struct {
	renderer *Renderer
	width    int32
}

// NewHUD creates a HUD whose panels are width pixels wide.
func NewHUD(width int32) *HUD {
	return &HUD{renderer: NewRenderer(), width: width}
}

// DrawStatus draws the session panel at the top-left corner.
func (h *HUD) DrawStatus(data HUDData) {
	r := h.renderer
	pad := r.Theme.Padding
	height := r.SectionHeight(statusSection, data) + pad*2
	r.DrawPanel(pad, pad, h.width, height)
	r.DrawSection(pad*2, pad*2, statusSection, data, h.width-pad*2)
}

// DrawEmotions draws the emotion list at the top-right corner.
func (h *HUD) DrawEmotions(screenW int32, rows []scene.Row) {
	r := h.renderer
	t := r.Theme
	pad := t.Padding
	x := screenW - h.width - pad
	lines := int32(len(rows))
	if lines == 0 {
		lines = 1
	}
	r.DrawPanel(x, pad, h.width, t.LineHeight*(lines+1)+pad*2)

	y := r.DrawSectionHeader(x+pad, pad*2, "Emotions")
	if len(rows) == 0 {
		rl.DrawText("waiting for analysis", x+pad, y, t.FontSize, t.LabelColor)
		return
	}
	for _, row := range rows {
		y = r.DrawBar(x+pad, y, row.Label, float32(row.Bar), row.Percent, fromColorful(row.Color), h.width-pad*2)
	}
}

// DrawDebugBadge draws text in a dark badge at the bottom-right corner.
func (h *HUD) DrawDebugBadge(screenW, screenH int32, text string) {
	t := h.renderer.Theme
	w := rl.MeasureText(text, t.FontSize)
	x := screenW - w - t.Padding*3
	y := screenH - t.FontSize - t.Padding*3
	rl.DrawRectangle(x-8, y-4, w+16, t.FontSize+8, rl.Color{R: 0, G: 0, B: 0, A: 204})
	rl.DrawText(text, x, y, t.FontSize, rl.White)
}

// DrawHints renders the key legend at the bottom-left corner.
func (h *HUD) DrawHints(screenH int32, overlays *OverlayRegistry) {
	x := h.renderer.Theme.Padding
	y := screenH - 24
	for _, cat := range []string{"panels", "layers"} {
		for _, desc := range overlays.ByCategory(cat) {
			color := rl.Gray
			if overlays.IsEnabled(desc.ID) {
				color = rl.LightGray
			}
			text := fmt.Sprintf("[%s] %s", desc.KeyLabel, desc.Name)
			rl.DrawText(text, x, y, 12, color)
			x += rl.MeasureText(text, 12) + 14
		}
	}
}

func fromColorful(c colorful.Color) rl.Color {
	r, g, b := c.Clamped().RGB255()
	return rl.Color{R: r, G: g, B: b, A: 255}
}
