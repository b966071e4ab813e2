// Package emotion defines the closed emotion vocabulary, its display table
// and point-in-time intensity snapshots.
package emotion

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Name identifies an emotion in the vocabulary.
type Name string

const (
	Joy      Name = "joy"
	Sadness  Name = "sadness"
	Anger    Name = "anger"
	Fear     Name = "fear"
	Surprise Name = "surprise"
	Disgust  Name = "disgust"
	Contempt Name = "contempt"
	Neutral  Name = "neutral"
)

// Vocabulary lists every known emotion in canonical order.
var Vocabulary = []Name{Joy, Sadness, Anger, Fear, Surprise, Disgust, Contempt, Neutral}

// VoiceVocabulary is the subset a voice (prosody) channel reports.
var VoiceVocabulary = []Name{Joy, Sadness, Anger, Fear, Surprise, Disgust, Neutral}

// Descriptor holds how an emotion is displayed.
type Descriptor struct {
	Name  Name
	Glyph string
	Hex   string
	Color colorful.Color
	Label string
}

// Rune returns the first rune of the glyph, for cell-based renderers.
func (d Descriptor) Rune() rune {
	for _, r := range d.Glyph {
		return r
	}
	return '?'
}

var descriptors = map[Name]Descriptor{
	Joy:      describe(Joy, "😊", "#FFDD00", "Happy"),
	Sadness:  describe(Sadness, "😢", "#0080FF", "Sad"),
	Anger:    describe(Anger, "😠", "#FF2D00", "Angry"),
	Fear:     describe(Fear, "😨", "#9900FF", "Afraid"),
	Surprise: describe(Surprise, "😲", "#00FFFF", "Surprised"),
	Disgust:  describe(Disgust, "🤢", "#00FF80", "Disgusted"),
	Contempt: describe(Contempt, "😏", "#FF6600", "Contempt"),
	Neutral:  describe(Neutral, "😐", "#AAAAAA", "Neutral"),
}

var order = func() map[Name]int {
	m := make(map[Name]int, len(Vocabulary))
	for i, n := range Vocabulary {
		m[n] = i
	}
	return m
}()

func describe(name Name, glyph, hex, label string) Descriptor {
	c, err := colorful.Hex(hex)
	if err != nil {
		panic(fmt.Sprintf("emotion: bad color %q for %s: %v", hex, name, err))
	}
	return Descriptor{Name: name, Glyph: glyph, Hex: hex, Color: c, Label: label}
}

// Lookup returns the descriptor for name. Unknown names report false.
func Lookup(name string) (Descriptor, bool) {
	d, ok := descriptors[Name(name)]
	return d, ok
}

// Known reports whether name is part of the vocabulary.
func Known(name string) bool {
	_, ok := descriptors[Name(name)]
	return ok
}

// Rank returns the canonical position of name, or len(Vocabulary) when unknown.
func Rank(name Name) int {
	if i, ok := order[name]; ok {
		return i
	}
	return len(Vocabulary)
}

// Fallback is the descriptor used when nothing dominates.
var Fallback = Descriptor{
	Name:  "",
	Glyph: "✦",
	Hex:   "#FFFFFF",
	Color: colorful.Color{R: 1, G: 1, B: 1},
	Label: "Calm",
}
