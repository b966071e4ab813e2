// Package ui draws the window's panels and controls with raylib and raygui.
// Panels are described by field descriptors so a layout can change without
// touching drawing code.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// WidgetType specifies how a field should be rendered.
type WidgetType int

const (
	WidgetText        WidgetType = iota // Plain text with format string
	WidgetBar                           // Progress bar [0, 1]
	WidgetColorSwatch                   // Color preview square
	WidgetSection                       // Section header
	WidgetSpacer                        // Vertical spacing
)

// FieldDescriptor defines how to display a single piece of data.
type FieldDescriptor struct {
	ID          string
	Label       string
	Widget      WidgetType
	Format      string             // Printf format for numeric text (e.g., "%.2f")
	Color       rl.Color           // Optional color override
	Visible     func(any) bool     // nil = always visible
	Getter      func(any) float32  // Numeric value extractor
	TextGetter  func(any) string   // Text value extractor
	ColorGetter func(any) rl.Color // Color extractor
}

// SectionDescriptor defines a group of fields with a header.
type SectionDescriptor struct {
	ID      string
	Title   string
	Fields  []FieldDescriptor
	Visible func(any) bool
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	Good           rl.Color
	Warn           rl.Color
	Bad            rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 10, G: 10, B: 24, A: 210},
		PanelBorder:    rl.Color{R: 70, G: 80, B: 110, A: 255},
		SectionHeader:  rl.Color{R: 0, G: 255, B: 255, A: 255},
		LabelColor:     rl.LightGray,
		ValueColor:     rl.RayWhite,
		BarBg:          rl.Color{R: 40, G: 40, B: 50, A: 255},
		BarFill:        rl.Color{R: 100, G: 150, B: 200, A: 255},
		Good:           rl.Color{R: 16, G: 185, B: 129, A: 255},
		Warn:           rl.Color{R: 245, G: 158, B: 11, A: 255},
		Bad:            rl.Color{R: 239, G: 68, B: 68, A: 255},
		Padding:        10,
		LineHeight:     18,
		LabelWidth:     80,
		BarHeight:      10,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}
