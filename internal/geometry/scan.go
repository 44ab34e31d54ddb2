package geometry

import (
	"fmt"
	"math"
)

// ScanPattern is an ordered set of lidar beam directions. Azimuth and
// Elevation are in degrees and index-aligned: beam i points at
// (Azimuth[i], Elevation[i]). Beam order defines the row order of A and the
// column order of A⁺.
type ScanPattern struct {
	Azimuth   []float64
	Elevation []float64
}

// NewScanPattern copies the angle slices into a ScanPattern after checking
// that they have the same length and hold only finite values.
func NewScanPattern(azimuthDeg, elevationDeg []float64) (ScanPattern, error) {
	if len(azimuthDeg) != len(elevationDeg) {
		return ScanPattern{}, fmt.Errorf("%w: %d azimuths but %d elevations",
			ErrShapeMismatch, len(azimuthDeg), len(elevationDeg))
	}
	for i := range azimuthDeg {
		if !isFinite(azimuthDeg[i]) || !isFinite(elevationDeg[i]) {
			return ScanPattern{}, fmt.Errorf("%w: beam %d has non-finite angle (az=%v, el=%v)",
				ErrShapeMismatch, i, azimuthDeg[i], elevationDeg[i])
		}
	}

	p := ScanPattern{
		Azimuth:   make([]float64, len(azimuthDeg)),
		Elevation: make([]float64, len(elevationDeg)),
	}
	copy(p.Azimuth, azimuthDeg)
	copy(p.Elevation, elevationDeg)
	return p, nil
}

// Beams returns the number of beams N.
func (p ScanPattern) Beams() int {
	return len(p.Azimuth)
}

// Validate re-checks the invariants enforced by NewScanPattern for patterns
// built as struct literals.
func (p ScanPattern) Validate() error {
	_, err := NewScanPattern(p.Azimuth, p.Elevation)
	return err
}

// Cosd returns the cosine of an angle given in degrees.
func Cosd(deg float64) float64 {
	return math.Cos(deg / 180 * math.Pi)
}

// Sind returns the sine of an angle given in degrees.
func Sind(deg float64) float64 {
	return math.Sin(deg / 180 * math.Pi)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
