// Command record writes a synthetic replay recording: one face row and one
// voice row per frame, generated by the mock classifier. The output feeds
// the replay backend (analysis.backend: replay).
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/pthm-cable/aurora/classify"
)

func main() {
	out := flag.String("out", "recording.csv", "Output CSV path")
	frames := flag.Int("frames", 40, "Number of frames to record")
	interval := flag.Float64("interval", 3, "Seconds between frames")
	seed := flag.Int64("seed", 1, "RNG seed")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if *frames <= 0 || *interval <= 0 {
		slog.Error("frames and interval must be positive", "frames", *frames, "interval", *interval)
		os.Exit(1)
	}

	face := classify.NewMock(*seed)
	voice := classify.NewMock(*seed + 1)

	records := make([]classify.Record, 0, 2**frames)
	for i := 0; i < *frames; i++ {
		t := float64(i) * *interval
		records = append(records, classify.RecordFrom(t, classify.ChannelFace, face.Generate()))

		// Prosody has no contempt score.
		rec := classify.RecordFrom(t, classify.ChannelVoice, voice.Generate())
		rec.Contempt = 0
		records = append(records, rec)
	}

	f, err := os.Create(*out)
	if err != nil {
		slog.Error("failed to create output", "path", *out, "error", err)
		os.Exit(1)
	}
	if err := classify.WriteRecords(f, records); err != nil {
		f.Close()
		slog.Error("failed to write recording", "error", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
		os.Exit(1)
	}
	slog.Info("recording written", "path", *out, "frames", *frames, "rows", len(records))
}
