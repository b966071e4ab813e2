package aura

import "github.com/pthm-cable/aurora/emotion"

// SampleWeighted picks one entry with probability proportional to its
// intensity. u is a uniform value in [0,1).
//
// The draw is u*total; entries are walked accumulating intensity and the first
// positive entry whose running sum meets the draw wins. When the total is not
// positive the first entry is returned. ok is false only for empty input.
func SampleWeighted(entries []emotion.Entry, u float64) (e emotion.Entry, ok bool) {
	if len(entries) == 0 {
		return emotion.Entry{}, false
	}
	weights := make([]float64, len(entries))
	for i, en := range entries {
		weights[i] = en.Intensity
	}
	return entries[pick(weights, u)], true
}

// pick returns the index chosen by a cumulative walk over weights.
// weights must be non-empty.
func pick(weights []float64, u float64) int {
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return 0
	}

	draw := u * total
	var acc float64
	last := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		last = i
		if acc >= draw {
			return i
		}
	}
	// Rounding left the draw just above the final sum.
	return last
}
