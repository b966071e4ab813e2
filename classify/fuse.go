package classify

import "github.com/pthm-cable/aurora/emotion"

// Fuse blends face and voice results. Each name gets
// faceWeight*face + voiceWeight*voice, voice only contributing names it can
// report, and the result is normalized to sum to one when non-zero.
func Fuse(face, voice emotion.Snapshot, faceWeight, voiceWeight float64) emotion.Snapshot {
	voiced := make(map[emotion.Name]bool, len(emotion.VoiceVocabulary))
	for _, n := range emotion.VoiceVocabulary {
		voiced[n] = true
	}

	entries := make([]emotion.Entry, len(emotion.Vocabulary))
	for i, n := range emotion.Vocabulary {
		f, _ := face.Intensity(n)
		v := 0.0
		if voiced[n] {
			v, _ = voice.Intensity(n)
		}
		entries[i] = emotion.Entry{Name: n, Intensity: faceWeight*f + voiceWeight*v}
	}
	return emotion.FromEntries(entries...).Normalized()
}
