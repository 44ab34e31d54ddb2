package errorfactor

import (
	"fmt"
	"math"

	"github.com/banshee-data/scan-geometry/internal/geometry"
)

// Uncertainty is the standard deviation of each estimate for an assumed
// per-beam radial-velocity noise level. Values carry the unit of NoiseStdev.
type Uncertainty struct {
	NoiseStdev float64
	Velocity   [geometry.VelocityComponents]float64
	Stress     [geometry.StressComponents]float64
}

// Scale multiplies the factors by the per-beam noise standard deviation.
func (f Factors) Scale(noiseStdev float64) (Uncertainty, error) {
	if math.IsNaN(noiseStdev) || math.IsInf(noiseStdev, 0) || noiseStdev < 0 {
		return Uncertainty{}, fmt.Errorf("noise standard deviation must be finite and non-negative, got %v", noiseStdev)
	}

	u := Uncertainty{NoiseStdev: noiseStdev}
	for i, v := range f.Velocity {
		u.Velocity[i] = v * noiseStdev
	}
	for i, v := range f.Stress {
		u.Stress[i] = v * noiseStdev
	}
	return u, nil
}
