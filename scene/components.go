package scene

import (
	"github.com/pthm-cable/aurora/aura"
)

// Source holds the immutable particle an entity mirrors.
type Source struct {
	Particle aura.Particle
	Phase    float64 // Noise offset, unique per entity
}

// Pose is the per-frame animated state of an entity.
type Pose struct {
	X, Y       float64 // Percent of the target area
	EndX, EndY float64 // Ray end point; equal to X, Y for other kinds
	Scale      float64 // Size multiplier
	Alpha      float64 // Final opacity in [0,1]
	Rotation   float64 // Degrees
}
