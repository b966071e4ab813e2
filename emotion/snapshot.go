package emotion

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// DominantThreshold is the intensity an emotion must exceed to dominate.
const DominantThreshold = 0.05

// Entry is one emotion and its intensity.
type Entry struct {
	Name      Name
	Intensity float64
}

// Snapshot is an immutable point-in-time mapping from emotion to intensity.
// Entries keep a stable order so sampling over them is deterministic.
// Unknown names are dropped and intensities are clamped to [0,1] when the
// snapshot is built.
type Snapshot struct {
	entries []Entry
}

// NewSnapshot builds a snapshot from a raw classifier result, ordering
// entries by the canonical vocabulary.
func NewSnapshot(raw map[string]float64) Snapshot {
	entries := make([]Entry, 0, len(raw))
	for name, v := range raw {
		if !Known(name) {
			continue
		}
		entries = append(entries, Entry{Name: Name(name), Intensity: clamp01(v)})
	}
	sort.Slice(entries, func(i, j int) bool {
		return Rank(entries[i].Name) < Rank(entries[j].Name)
	})
	return Snapshot{entries: entries}
}

// FromEntries builds a snapshot keeping the caller's order. A repeated name
// keeps its first position and its last value.
func FromEntries(in ...Entry) Snapshot {
	entries := make([]Entry, 0, len(in))
	pos := make(map[Name]int, len(in))
	for _, e := range in {
		if !Known(string(e.Name)) {
			continue
		}
		v := clamp01(e.Intensity)
		if i, ok := pos[e.Name]; ok {
			entries[i].Intensity = v
			continue
		}
		pos[e.Name] = len(entries)
		entries = append(entries, Entry{Name: e.Name, Intensity: v})
	}
	return Snapshot{entries: entries}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Len returns the number of entries.
func (s Snapshot) Len() int {
	return len(s.entries)
}

// Empty reports whether the snapshot has no entries.
func (s Snapshot) Empty() bool {
	return len(s.entries) == 0
}

// Entries returns a copy of the entries in snapshot order.
func (s Snapshot) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Intensity returns the intensity for name.
func (s Snapshot) Intensity(name Name) (float64, bool) {
	for _, e := range s.entries {
		if e.Name == name {
			return e.Intensity, true
		}
	}
	return 0, false
}

// Total returns the sum of all intensities.
func (s Snapshot) Total() float64 {
	if len(s.entries) == 0 {
		return 0
	}
	vals := make([]float64, len(s.entries))
	for i, e := range s.entries {
		vals[i] = e.Intensity
	}
	return floats.Sum(vals)
}

// Dominant returns the strongest emotion above DominantThreshold.
// Ties resolve by vocabulary order.
func (s Snapshot) Dominant() (Entry, bool) {
	above := s.Above(DominantThreshold)
	if len(above) == 0 {
		return Entry{}, false
	}
	return above[0], true
}

// Above returns entries with intensity strictly greater than threshold,
// strongest first.
func (s Snapshot) Above(threshold float64) []Entry {
	var out []Entry
	for _, e := range s.entries {
		if e.Intensity > threshold {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Intensity != out[j].Intensity {
			return out[i].Intensity > out[j].Intensity
		}
		return Rank(out[i].Name) < Rank(out[j].Name)
	})
	return out
}

// Normalized returns a copy scaled to sum to 1. A zero total is returned unchanged.
func (s Snapshot) Normalized() Snapshot {
	total := s.Total()
	if total <= 0 {
		return s
	}
	entries := s.Entries()
	for i := range entries {
		entries[i].Intensity /= total
	}
	return Snapshot{entries: entries}
}

// Map returns the snapshot as a plain map.
func (s Snapshot) Map() map[string]float64 {
	m := make(map[string]float64, len(s.entries))
	for _, e := range s.entries {
		m[string(e.Name)] = e.Intensity
	}
	return m
}

// Equal reports whether both snapshots hold the same entries in the same order.
func (s Snapshot) Equal(o Snapshot) bool {
	if len(s.entries) != len(o.entries) {
		return false
	}
	for i := range s.entries {
		if s.entries[i] != o.entries[i] {
			return false
		}
	}
	return true
}

func (s Snapshot) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, e := range s.entries {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(string(e.Name))
		b.WriteString(": ")
		b.WriteString(strconv.FormatFloat(e.Intensity, 'f', 2, 64))
	}
	b.WriteByte('}')
	return b.String()
}
