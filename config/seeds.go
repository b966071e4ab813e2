package config

// Seeds holds one RNG seed per randomized component, so no two share a
// math/rand stream.
type Seeds struct {
	Particles  int64
	Backdrop   int64
	Capture    int64
	Scene      int64
	Classifier int64
}

// SeedsFrom derives the component seeds from a run seed.
func SeedsFrom(seed int64) Seeds {
	return Seeds{
		Particles:  seed,
		Backdrop:   seed + 1,
		Capture:    seed + 2,
		Scene:      seed + 3,
		Classifier: seed + 4,
	}
}
