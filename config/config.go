// Package config provides configuration loading and access for the aura application.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all application configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Aura      AuraConfig      `yaml:"aura"`
	Backdrop  BackdropConfig  `yaml:"backdrop"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Capture   CaptureConfig   `yaml:"capture"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Session   SessionConfig   `yaml:"session"`
	Terminal  TerminalConfig  `yaml:"terminal"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	TargetFPS int     `yaml:"target_fps"`
	Container float64 `yaml:"container"` // Fraction of the short screen side used by the blob/ray container
}

// AuraConfig holds particle field generation and lifecycle parameters.
type AuraConfig struct {
	BurstCount   int     `yaml:"burst_count"`    // Particles generated when a new snapshot arrives
	TickInterval float64 `yaml:"tick_interval"`  // Seconds between lifecycle ticks
	TickBatchMin int     `yaml:"tick_batch_min"` // Fewest particles injected per tick
	TickBatchMax int     `yaml:"tick_batch_max"` // Most particles injected per tick

	KindWeights KindWeights `yaml:"kind_weights"`
	Size        SizeConfig  `yaml:"size"`
	FadeIn      RangeConfig `yaml:"fade_in"` // Seconds

	Glyph GlyphConfig `yaml:"glyph"`
	Blob  BlobConfig  `yaml:"blob"`
	Ray   RayConfig   `yaml:"ray"`
}

// KindWeights is the relative share of each particle kind among eligible kinds.
type KindWeights struct {
	Glyph float64 `yaml:"glyph"`
	Blob  float64 `yaml:"blob"`
	Ray   float64 `yaml:"ray"`
}

// RangeConfig is a closed [min, max] interval.
type RangeConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Lerp maps t in [0,1] onto the range.
func (r RangeConfig) Lerp(t float64) float64 {
	return r.Min + (r.Max-r.Min)*t
}

// SizeConfig holds the size formula: base + intensity*scale + rand*jitter.
type SizeConfig struct {
	Base   float64 `yaml:"base"`
	Scale  float64 `yaml:"scale"`
	Jitter float64 `yaml:"jitter"`
}

// OpacityConfig holds the opacity formula: clamp(base + intensity*scale, min, max).
type OpacityConfig struct {
	Base  float64 `yaml:"base"`
	Scale float64 `yaml:"scale"`
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
}

// GlyphConfig holds floating glyph parameters. Glyphs use the full viewport.
type GlyphConfig struct {
	Opacity  OpacityConfig `yaml:"opacity"`
	Duration RangeConfig   `yaml:"duration"` // Seconds
	DriftX   float64       `yaml:"drift_x"`  // Max horizontal drift over lifetime (percent)
	Rise     RangeConfig   `yaml:"rise"`     // Upward travel over lifetime (percent)
	Rotation float64       `yaml:"rotation"` // Max absolute rotation (degrees)
}

// BlobConfig holds ambient aura blob parameters.
type BlobConfig struct {
	Threshold    float64       `yaml:"threshold"` // Minimum intensity (exclusive)
	Opacity      OpacityConfig `yaml:"opacity"`
	Duration     RangeConfig   `yaml:"duration"`
	RadiusBase   float64       `yaml:"radius_base"`
	RadiusScale  float64       `yaml:"radius_scale"`
	RadiusJitter float64       `yaml:"radius_jitter"`
}

// RayConfig holds aura ray parameters.
type RayConfig struct {
	Threshold    float64       `yaml:"threshold"` // Minimum intensity (exclusive)
	Opacity      OpacityConfig `yaml:"opacity"`
	Duration     RangeConfig   `yaml:"duration"`
	LengthBase   float64       `yaml:"length_base"`
	LengthScale  float64       `yaml:"length_scale"`
	LengthJitter float64       `yaml:"length_jitter"`
}

// BackdropConfig holds page background wash parameters.
type BackdropConfig struct {
	Threshold    float64 `yaml:"threshold"`
	OpacityScale float64 `yaml:"opacity_scale"`
	OpacityMax   float64 `yaml:"opacity_max"`
	RadiusBase   float64 `yaml:"radius_base"`
	RadiusScale  float64 `yaml:"radius_scale"`
}

// AnalysisConfig holds emotion classification parameters.
type AnalysisConfig struct {
	Interval    float64 `yaml:"interval"`     // Seconds between classifications
	Backend     string  `yaml:"backend"`      // "mock" or "replay"
	ReplayFile  string  `yaml:"replay_file"`  // CSV recording for the replay backend
	FaceWeight  float64 `yaml:"face_weight"`  // Weight of face channel when fusing
	VoiceWeight float64 `yaml:"voice_weight"` // Weight of voice channel when fusing
	AudioWindow float64 `yaml:"audio_window"` // Seconds of audio sent with each frame
	KeyEnv      string  `yaml:"key_env"`      // Env var holding the API key
	SecretEnv   string  `yaml:"secret_env"`   // Env var holding the API secret
}

// CaptureConfig holds media capture parameters.
type CaptureConfig struct {
	FrameWidth  int     `yaml:"frame_width"`
	FrameHeight int     `yaml:"frame_height"`
	Warmup      float64 `yaml:"warmup"`     // Seconds before the source reports ready
	ReadyPoll   float64 `yaml:"ready_poll"` // Seconds between readiness checks
	SampleRate  int     `yaml:"sample_rate"`
	ToneHz      float64 `yaml:"tone_hz"`
	NoiseLevel  float64 `yaml:"noise_level"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// SessionConfig holds persistence settings.
type SessionConfig struct {
	AppName string `yaml:"app_name"`
	Persist bool   `yaml:"persist"`
}

// TerminalConfig holds terminal renderer settings.
type TerminalConfig struct {
	FPS        int     `yaml:"fps"`
	CellAspect float64 `yaml:"cell_aspect"` // Terminal cell height / width
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TickInterval     time.Duration
	AnalysisInterval time.Duration
	AudioWindow      time.Duration
	Warmup           time.Duration
	ReadyPoll        time.Duration
	StatsWindow      time.Duration
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate checks invariants the particle field relies on.
func (c *Config) Validate() error {
	var errs []error
	a := c.Aura

	if a.BurstCount < 1 {
		errs = append(errs, fmt.Errorf("aura.burst_count must be >= 1, got %d", a.BurstCount))
	}
	if a.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("aura.tick_interval must be > 0, got %v", a.TickInterval))
	}
	if a.TickBatchMin < 1 || a.TickBatchMax < a.TickBatchMin {
		errs = append(errs, fmt.Errorf("aura.tick_batch range [%d, %d] invalid", a.TickBatchMin, a.TickBatchMax))
	}
	for name, r := range map[string]RangeConfig{
		"aura.glyph.duration": a.Glyph.Duration,
		"aura.blob.duration":  a.Blob.Duration,
		"aura.ray.duration":   a.Ray.Duration,
	} {
		if r.Min <= 0 || r.Max < r.Min {
			errs = append(errs, fmt.Errorf("%s range [%v, %v] invalid", name, r.Min, r.Max))
		}
	}
	if a.FadeIn.Min < 0 || a.FadeIn.Max < a.FadeIn.Min {
		errs = append(errs, fmt.Errorf("aura.fade_in range [%v, %v] invalid", a.FadeIn.Min, a.FadeIn.Max))
	}
	if a.KindWeights.Glyph < 0 || a.KindWeights.Blob < 0 || a.KindWeights.Ray < 0 {
		errs = append(errs, errors.New("aura.kind_weights must be non-negative"))
	}
	if c.Analysis.Interval <= 0 {
		errs = append(errs, fmt.Errorf("analysis.interval must be > 0, got %v", c.Analysis.Interval))
	}

	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.TickInterval = seconds(c.Aura.TickInterval)
	c.Derived.AnalysisInterval = seconds(c.Analysis.Interval)
	c.Derived.AudioWindow = seconds(c.Analysis.AudioWindow)
	c.Derived.Warmup = seconds(c.Capture.Warmup)
	c.Derived.ReadyPoll = seconds(c.Capture.ReadyPoll)
	if c.Derived.ReadyPoll <= 0 {
		c.Derived.ReadyPoll = 500 * time.Millisecond
	}
	c.Derived.StatsWindow = seconds(c.Telemetry.StatsWindow)

	if c.Screen.Container <= 0 || c.Screen.Container > 1 {
		c.Screen.Container = 0.8
	}
	if c.Terminal.CellAspect <= 0 {
		c.Terminal.CellAspect = 2.0
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
