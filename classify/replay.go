package classify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/aurora/emotion"
)

// Channels a recorded row may belong to.
const (
	ChannelFace  = "face"
	ChannelVoice = "voice"
)

// Record is one row of a replay recording: the scores of one channel at
// time T (seconds from the start of the recording).
type Record struct {
	T        float64 `csv:"t"`
	Channel  string  `csv:"channel"`
	Joy      float64 `csv:"joy"`
	Sadness  float64 `csv:"sadness"`
	Anger    float64 `csv:"anger"`
	Fear     float64 `csv:"fear"`
	Surprise float64 `csv:"surprise"`
	Disgust  float64 `csv:"disgust"`
	Contempt float64 `csv:"contempt"`
	Neutral  float64 `csv:"neutral"`
}

// RecordFrom converts a snapshot into a row.
func RecordFrom(t float64, channel string, s emotion.Snapshot) Record {
	get := func(n emotion.Name) float64 {
		v, _ := s.Intensity(n)
		return v
	}
	return Record{
		T:        t,
		Channel:  channel,
		Joy:      get(emotion.Joy),
		Sadness:  get(emotion.Sadness),
		Anger:    get(emotion.Anger),
		Fear:     get(emotion.Fear),
		Surprise: get(emotion.Surprise),
		Disgust:  get(emotion.Disgust),
		Contempt: get(emotion.Contempt),
		Neutral:  get(emotion.Neutral),
	}
}

// Snapshot converts the row back into a snapshot.
func (r Record) Snapshot() emotion.Snapshot {
	return emotion.NewSnapshot(map[string]float64{
		string(emotion.Joy):      r.Joy,
		string(emotion.Sadness):  r.Sadness,
		string(emotion.Anger):    r.Anger,
		string(emotion.Fear):     r.Fear,
		string(emotion.Surprise): r.Surprise,
		string(emotion.Disgust):  r.Disgust,
		string(emotion.Contempt): r.Contempt,
		string(emotion.Neutral):  r.Neutral,
	})
}

// WriteRecords writes rows as CSV with a header.
func WriteRecords(w io.Writer, records []Record) error {
	if err := gocsv.Marshal(records, w); err != nil {
		return fmt.Errorf("writing records: %w", err)
	}
	return nil
}

// Replay plays back a recording, one fused frame per call, looping at the end.
type Replay struct {
	mu     sync.Mutex
	frames []emotion.Snapshot
	next   int
}

// LoadReplay reads a recording from path.
func LoadReplay(path string, faceWeight, voiceWeight float64) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening recording: %w", err)
	}
	defer f.Close()
	return ParseReplay(f, faceWeight, voiceWeight)
}

// ParseReplay reads a recording. Rows sharing a timestamp form one frame;
// face and voice rows are fused with the given weights. Unknown channels
// are skipped.
func ParseReplay(r io.Reader, faceWeight, voiceWeight float64) (*Replay, error) {
	var records []Record
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, fmt.Errorf("parsing recording: %w", err)
	}

	type frame struct {
		face, voice       emotion.Snapshot
		hasFace, hasVoice bool
	}
	var order []float64
	frames := make(map[float64]*frame)
	for _, rec := range records {
		if rec.Channel != ChannelFace && rec.Channel != ChannelVoice {
			continue
		}
		fr, ok := frames[rec.T]
		if !ok {
			fr = &frame{}
			frames[rec.T] = fr
			order = append(order, rec.T)
		}
		if rec.Channel == ChannelFace {
			fr.face, fr.hasFace = rec.Snapshot(), true
		} else {
			fr.voice, fr.hasVoice = rec.Snapshot(), true
		}
	}
	if len(order) == 0 {
		return nil, ErrNoFrames
	}

	out := &Replay{frames: make([]emotion.Snapshot, 0, len(order))}
	for _, t := range order {
		fr := frames[t]
		switch {
		case fr.hasFace && fr.hasVoice:
			out.frames = append(out.frames, Fuse(fr.face, fr.voice, faceWeight, voiceWeight))
		case fr.hasFace:
			out.frames = append(out.frames, fr.face.Normalized())
		default:
			out.frames = append(out.frames, Fuse(emotion.Snapshot{}, fr.voice, 0, 1))
		}
	}
	return out, nil
}

func (r *Replay) Name() string { return "replay" }

// Len returns the number of frames.
func (r *Replay) Len() int {
	return len(r.frames)
}

// Analyze returns the next frame. The sample is ignored.
func (r *Replay) Analyze(ctx context.Context, _ Sample) (emotion.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return emotion.Snapshot{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return emotion.Snapshot{}, ErrNoFrames
	}
	s := r.frames[r.next%len(r.frames)]
	r.next++
	return s, nil
}
