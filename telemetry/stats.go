// Package telemetry tracks particle field health over time windows and writes
// it out as CSV.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/aurora/aura"
	"github.com/pthm-cable/aurora/emotion"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	Window  int     `csv:"window"`
	Elapsed float64 `csv:"elapsed"` // Seconds since the collector started

	// Population at window end
	Population int    `csv:"population"`
	Dominant   string `csv:"dominant"`

	// Events during window
	Snapshots    int `csv:"snapshots"`
	Ticks        int `csv:"ticks"`
	Spawned      int `csv:"spawned"`
	SpawnedGlyph int `csv:"spawned_glyph"`
	SpawnedBlob  int `csv:"spawned_blob"`
	SpawnedRay   int `csv:"spawned_ray"`
	Expired      int `csv:"expired"`

	// Live particles per emotion at window end
	Joy      int `csv:"joy"`
	Sadness  int `csv:"sadness"`
	Anger    int `csv:"anger"`
	Fear     int `csv:"fear"`
	Surprise int `csv:"surprise"`
	Disgust  int `csv:"disgust"`
	Contempt int `csv:"contempt"`
	Neutral  int `csv:"neutral"`

	// Distributions over the live population
	SizeMean    float64 `csv:"size_mean"`
	SizeP50     float64 `csv:"size_p50"`
	SizeP90     float64 `csv:"size_p90"`
	OpacityMean float64 `csv:"opacity_mean"`
}

// LogValue implements slog.LogValuer.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window", s.Window),
		slog.Float64("elapsed", s.Elapsed),
		slog.Int("population", s.Population),
		slog.String("dominant", s.Dominant),
		slog.Int("spawned", s.Spawned),
		slog.Int("expired", s.Expired),
		slog.Int("snapshots", s.Snapshots),
		slog.Float64("size_mean", s.SizeMean),
		slog.Float64("opacity_mean", s.OpacityMean),
	)
}

// CountFor returns the live count recorded for name.
func (s *WindowStats) CountFor(name emotion.Name) int {
	if p := s.countPtr(name); p != nil {
		return *p
	}
	return 0
}

func (s *WindowStats) countPtr(name emotion.Name) *int {
	switch name {
	case emotion.Joy:
		return &s.Joy
	case emotion.Sadness:
		return &s.Sadness
	case emotion.Anger:
		return &s.Anger
	case emotion.Fear:
		return &s.Fear
	case emotion.Surprise:
		return &s.Surprise
	case emotion.Disgust:
		return &s.Disgust
	case emotion.Contempt:
		return &s.Contempt
	case emotion.Neutral:
		return &s.Neutral
	}
	return nil
}

// Describe fills the population fields from pop.
func (s *WindowStats) Describe(pop []aura.Particle) {
	s.Population = len(pop)
	sizes := make([]float64, 0, len(pop))
	opacities := make([]float64, 0, len(pop))
	for i := range pop {
		if p := s.countPtr(pop[i].Emotion); p != nil {
			*p++
		}
		sizes = append(sizes, pop[i].Size)
		opacities = append(opacities, pop[i].Opacity)
	}
	s.SizeMean, s.SizeP50, s.SizeP90 = Distribution(sizes)
	if len(opacities) > 0 {
		s.OpacityMean = stat.Mean(opacities, nil)
	}
}

// Distribution returns the mean, median and 90th percentile of values.
// Empty input yields zeros. values is not modified.
func Distribution(values []float64) (mean, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	return mean, p50, p90
}
