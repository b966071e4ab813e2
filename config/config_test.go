package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Aura.BurstCount != 20 {
		t.Errorf("burst_count = %d, want 20", cfg.Aura.BurstCount)
	}
	if cfg.Derived.TickInterval != time.Second {
		t.Errorf("tick interval = %v, want 1s", cfg.Derived.TickInterval)
	}
	if cfg.Derived.AnalysisInterval != 3*time.Second {
		t.Errorf("analysis interval = %v, want 3s", cfg.Derived.AnalysisInterval)
	}
	if cfg.Aura.TickBatchMin != 1 || cfg.Aura.TickBatchMax != 3 {
		t.Errorf("tick batch = [%d, %d], want [1, 3]", cfg.Aura.TickBatchMin, cfg.Aura.TickBatchMax)
	}
	if cfg.Aura.Blob.Threshold <= cfg.Aura.Ray.Threshold {
		t.Errorf("expected blob threshold above ray threshold, got %v <= %v",
			cfg.Aura.Blob.Threshold, cfg.Aura.Ray.Threshold)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aura.yaml")
	overlay := []byte("aura:\n  burst_count: 7\n  tick_interval: 0.25\n")
	if err := os.WriteFile(path, overlay, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load overlay: %v", err)
	}

	if cfg.Aura.BurstCount != 7 {
		t.Errorf("burst_count = %d, want 7", cfg.Aura.BurstCount)
	}
	if cfg.Derived.TickInterval != 250*time.Millisecond {
		t.Errorf("tick interval = %v, want 250ms", cfg.Derived.TickInterval)
	}
	// Untouched keys keep their defaults
	if cfg.Aura.TickBatchMax != 3 {
		t.Errorf("tick_batch_max = %d, want default 3", cfg.Aura.TickBatchMax)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero burst", func(c *Config) { c.Aura.BurstCount = 0 }},
		{"zero tick", func(c *Config) { c.Aura.TickInterval = 0 }},
		{"inverted batch", func(c *Config) { c.Aura.TickBatchMin, c.Aura.TickBatchMax = 3, 1 }},
		{"zero glyph duration", func(c *Config) { c.Aura.Glyph.Duration.Min = 0 }},
		{"inverted ray duration", func(c *Config) { c.Aura.Ray.Duration = RangeConfig{Min: 4, Max: 2} }},
		{"negative weight", func(c *Config) { c.Aura.KindWeights.Blob = -1 }},
		{"zero analysis interval", func(c *Config) { c.Analysis.Interval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Aura.BurstCount = 33

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config: %v", err)
	}
	if back.Aura.BurstCount != 33 {
		t.Errorf("burst_count = %d, want 33", back.Aura.BurstCount)
	}
}

func TestRangeLerp(t *testing.T) {
	r := RangeConfig{Min: 2, Max: 6}
	if got := r.Lerp(0); got != 2 {
		t.Errorf("Lerp(0) = %v, want 2", got)
	}
	if got := r.Lerp(0.5); got != 4 {
		t.Errorf("Lerp(0.5) = %v, want 4", got)
	}
}

func TestSeedsFromDistinct(t *testing.T) {
	for _, seed := range []int64{0, 1, 42, -7} {
		s := SeedsFrom(seed)
		all := []int64{s.Particles, s.Backdrop, s.Capture, s.Scene, s.Classifier}
		seen := make(map[int64]bool, len(all))
		for _, v := range all {
			if seen[v] {
				t.Errorf("SeedsFrom(%d) = %+v reuses %d", seed, s, v)
			}
			seen[v] = true
		}
	}
}
