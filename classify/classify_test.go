package classify

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/aurora/config"
	"github.com/pthm-cable/aurora/emotion"
)

func TestMockShape(t *testing.T) {
	m := NewMock(1)
	for i := 0; i < 200; i++ {
		s := m.Generate()
		if s.Len() != len(emotion.Vocabulary) {
			t.Fatalf("mock has %d entries, want all %d", s.Len(), len(emotion.Vocabulary))
		}
		if math.Abs(s.Total()-1) > 1e-9 {
			t.Fatalf("mock total = %v, want 1", s.Total())
		}
		active := len(s.Above(0))
		if active < 2 || active > 4 {
			t.Fatalf("active emotions = %d, want 2..4", active)
		}
	}
}

func TestFuse(t *testing.T) {
	face := emotion.NewSnapshot(map[string]float64{"joy": 1, "contempt": 0.5})
	voice := emotion.NewSnapshot(map[string]float64{"joy": 0.5, "contempt": 1, "fear": 1})

	got := Fuse(face, voice, 0.6, 0.4)
	// joy 0.6+0.2=0.8, contempt 0.3 (voice ignored), fear 0.4; total 1.5
	tests := []struct {
		name emotion.Name
		want float64
	}{
		{emotion.Joy, 0.8 / 1.5},
		{emotion.Contempt, 0.3 / 1.5},
		{emotion.Fear, 0.4 / 1.5},
		{emotion.Neutral, 0},
	}
	for _, tt := range tests {
		v, ok := got.Intensity(tt.name)
		if !ok || math.Abs(v-tt.want) > 1e-9 {
			t.Errorf("%s = %v, want %v", tt.name, v, tt.want)
		}
	}

	zero := Fuse(emotion.Snapshot{}, emotion.Snapshot{}, 0.6, 0.4)
	if zero.Total() != 0 || zero.Len() != len(emotion.Vocabulary) {
		t.Errorf("fusing nothing = %v", zero)
	}
}

const recording = `t,channel,joy,sadness,anger,fear,surprise,disgust,contempt,neutral
0,face,0.8,0.2,0,0,0,0,0,0
0,voice,0,1,0,0,0,0,0,0
3,face,0,0,0,0,0,0,0,1
3,mouth,1,0,0,0,0,0,0,0
`

func TestParseReplay(t *testing.T) {
	r, err := ParseReplay(strings.NewReader(recording), 0.6, 0.4)
	if err != nil {
		t.Fatal(err)
	}
	if r.Len() != 2 {
		t.Fatalf("frames = %d, want 2", r.Len())
	}

	ctx := context.Background()
	first, _ := r.Analyze(ctx, Sample{})
	// joy 0.48, sadness 0.12+0.4=0.52
	if v, _ := first.Intensity(emotion.Sadness); math.Abs(v-0.52) > 1e-9 {
		t.Errorf("fused sadness = %v, want 0.52", v)
	}
	second, _ := r.Analyze(ctx, Sample{})
	if d, _ := second.Dominant(); d.Name != emotion.Neutral {
		t.Errorf("second frame dominant = %s, want neutral", d.Name)
	}
	third, _ := r.Analyze(ctx, Sample{})
	if !third.Equal(first) {
		t.Error("replay should loop")
	}
}

func TestParseReplayEmpty(t *testing.T) {
	_, err := ParseReplay(strings.NewReader("t,channel,joy,sadness,anger,fear,surprise,disgust,contempt,neutral\n"), 0.6, 0.4)
	if !errors.Is(err, ErrNoFrames) {
		t.Errorf("err = %v, want ErrNoFrames", err)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	snap := emotion.NewSnapshot(map[string]float64{"anger": 0.7, "surprise": 0.3})
	var buf bytes.Buffer
	if err := WriteRecords(&buf, []Record{RecordFrom(0, ChannelFace, snap)}); err != nil {
		t.Fatal(err)
	}
	r, err := ParseReplay(&buf, 0.6, 0.4)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := r.Analyze(context.Background(), Sample{})
	if v, _ := got.Intensity(emotion.Anger); math.Abs(v-0.7) > 1e-9 {
		t.Errorf("anger = %v, want 0.7", v)
	}
}

type failing struct{ err error }

func (f failing) Name() string { return "failing" }
func (f failing) Analyze(context.Context, Sample) (emotion.Snapshot, error) {
	return emotion.Snapshot{}, f.err
}

type fixed struct{ snap emotion.Snapshot }

func (f fixed) Name() string { return "fixed" }
func (f fixed) Analyze(context.Context, Sample) (emotion.Snapshot, error) {
	return f.snap, nil
}

func TestResilient(t *testing.T) {
	good := emotion.NewSnapshot(map[string]float64{"joy": 1})

	tests := []struct {
		name         string
		backend      Backend
		wantFallback bool
	}{
		{"success", fixed{good}, false},
		{"error", failing{errors.New("unreachable")}, true},
		{"all zero", fixed{emotion.NewSnapshot(map[string]float64{"joy": 0})}, true},
		{"empty", fixed{emotion.Snapshot{}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResilient(tt.backend, NewMock(2))
			got := r.Classify(context.Background(), Sample{})
			if got.Total() <= 0 {
				t.Fatal("classifier returned an empty result")
			}
			if fell := r.Fallbacks() == 1; fell != tt.wantFallback {
				t.Errorf("fallback = %v, want %v", fell, tt.wantFallback)
			}
			if !tt.wantFallback && !got.Equal(good) {
				t.Errorf("got %v, want backend result", got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec.csv")
	if err := os.WriteFile(path, []byte(recording), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		cfg     config.AnalysisConfig
		backend string
		wantErr bool
	}{
		{"default", config.AnalysisConfig{}, "mock", false},
		{"replay", config.AnalysisConfig{Backend: "replay", ReplayFile: path, FaceWeight: 0.6, VoiceWeight: 0.4}, "replay", false},
		{"missing file", config.AnalysisConfig{Backend: "replay", ReplayFile: filepath.Join(t.TempDir(), "none.csv")}, "", true},
		{"unknown", config.AnalysisConfig{Backend: "oracle"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.cfg, 1)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && c.Backend() != tt.backend {
				t.Errorf("backend = %s, want %s", c.Backend(), tt.backend)
			}
		})
	}
}

func TestHasCredentials(t *testing.T) {
	cfg := config.AnalysisConfig{KeyEnv: "AURORA_TEST_KEY", SecretEnv: "AURORA_TEST_SECRET"}
	t.Setenv("AURORA_TEST_KEY", "k")
	t.Setenv("AURORA_TEST_SECRET", "")
	if HasCredentials(cfg) {
		t.Error("missing secret should report false")
	}
	t.Setenv("AURORA_TEST_SECRET", "s")
	if !HasCredentials(cfg) {
		t.Error("both set should report true")
	}
}
