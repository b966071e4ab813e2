package scene

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/aurora/emotion"
)

// MinBarShare is the narrowest bar drawn for a listed emotion.
const MinBarShare = 0.05

// Row is one line of the emotion list.
type Row struct {
	Name      emotion.Name
	Label     string
	Glyph     string
	Color     colorful.Color
	Intensity float64
	Percent   string
	Bar       float64 // Fraction of the bar width to fill, whole percent, at least MinBarShare
}

// Rows lists the emotions of snap above the dominance threshold, strongest
// first.
func Rows(snap emotion.Snapshot) []Row {
	above := snap.Above(emotion.DominantThreshold)
	rows := make([]Row, 0, len(above))
	for _, e := range above {
		desc, ok := emotion.Lookup(string(e.Name))
		if !ok {
			desc = emotion.Fallback
		}
		rows = append(rows, Row{
			Name:      e.Name,
			Label:     desc.Label,
			Glyph:     desc.Glyph,
			Color:     desc.Color,
			Intensity: e.Intensity,
			Percent:   Percent(e.Intensity),
			Bar:       math.Max(MinBarShare, math.Round(e.Intensity*100)/100),
		})
	}
	return rows
}

// Percent formats v in [0,1] as a rounded percentage.
func Percent(v float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(v*100)))
}

// DebugLine is the status badge text, e.g.
// "Render #3 | Emotions: 8 | Main: joy (72%)".
func DebugLine(renders int, snap emotion.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Render #%d | Emotions: %d", renders, snap.Len())
	if d, ok := snap.Dominant(); ok {
		fmt.Fprintf(&b, " | Main: %s (%s)", d.Name, Percent(d.Intensity))
	}
	return b.String()
}
