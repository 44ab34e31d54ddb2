// Package errorfactor propagates per-beam radial-velocity noise through the
// scan geometry. The result is a set of dimensionless factors: multiply by
// the per-beam noise standard deviation to get the standard deviation of
// each mean-velocity and Reynolds-stress estimate.
package errorfactor

import (
	"fmt"
	"math"

	"github.com/banshee-data/scan-geometry/internal/geometry"
	"gonum.org/v1/gonum/mat"
)

// SixBeamCount is the exact number of beams a six-beam scan must have.
const SixBeamCount = 6

// Factors holds the geometrical error factors of one scan.
type Factors struct {
	Velocity [geometry.VelocityComponents]float64
	Stress   [geometry.StressComponents]float64
}

// Compute returns the error factors of g for the given scan type.
func Compute(g *geometry.Geometry, scanType ScanType) (Factors, error) {
	if err := scanType.Validate(); err != nil {
		return Factors{}, err
	}
	if err := checkBeamCount(g.Pattern, scanType); err != nil {
		return Factors{}, err
	}

	var f Factors
	f.Velocity = velocityFactors(g)

	switch scanType {
	case DBS:
		f.Stress = dbsStressFactors(g)
	case SixBeam:
		f.Stress = sixBeamStressFactors(g, SixBeamDesignMatrix(g.Pattern))
	}
	return f, nil
}

// FromAngles validates the inputs in order (shape, scan type, beam count),
// builds the geometry, and computes the factors.
func FromAngles(azimuthDeg, elevationDeg []float64, scanType ScanType) (Factors, error) {
	p, err := geometry.NewScanPattern(azimuthDeg, elevationDeg)
	if err != nil {
		return Factors{}, err
	}
	if err := scanType.Validate(); err != nil {
		return Factors{}, err
	}
	if err := checkBeamCount(p, scanType); err != nil {
		return Factors{}, err
	}
	g, err := geometry.Build(p)
	if err != nil {
		return Factors{}, err
	}
	return Compute(g, scanType)
}

func checkBeamCount(p geometry.ScanPattern, scanType ScanType) error {
	if scanType == SixBeam && p.Beams() != SixBeamCount {
		return fmt.Errorf("%w: six-beam scan needs exactly %d beams, got %d",
			geometry.ErrInvalidScanPattern, SixBeamCount, p.Beams())
	}
	return nil
}

// velocityFactors: sqrt(Σ_j Σ_k (A⁺[i,j]·A[j,k])²) per mean-velocity component.
func velocityFactors(g *geometry.Geometry) [geometry.VelocityComponents]float64 {
	var out [geometry.VelocityComponents]float64
	nb := g.Beams()
	for i := range out {
		var sum float64
		for j := 0; j < nb; j++ {
			for k := 0; k < 3; k++ {
				v := g.APlus.At(i, j) * g.A.At(j, k)
				sum += v * v
			}
		}
		out[i] = math.Sqrt(sum)
	}
	return out
}

// dbsStressFactors squares each term of the bilinear stress estimator
// before summing, treating every term as an independent noise contribution.
func dbsStressFactors(g *geometry.Geometry) [geometry.StressComponents]float64 {
	var out [geometry.StressComponents]float64
	nb := g.Beams()
	for i, axes := range geometry.StressIndex {
		j, k := axes[0], axes[1]
		var sum float64
		for l := 0; l < nb; l++ {
			for m := 0; m < nb; m++ {
				for n := 0; n < 3; n++ {
					for p := 0; p < 3; p++ {
						v := g.APlus.At(j, l) * g.APlus.At(k, m) * g.A.At(l, n) * g.A.At(m, p)
						sum += v * v
					}
				}
			}
		}
		out[i] = math.Sqrt(sum)
	}
	return out
}

// sixBeamStressFactors: sqrt(Σ_j Σ_k Σ_l (M[i,j]·A[j,k]·A[j,l])²), where j
// runs over the beams. The (i, j) indexing of M is kept exactly as written;
// it is only well defined because a six-beam M is square.
func sixBeamStressFactors(g *geometry.Geometry, M *mat.Dense) [geometry.StressComponents]float64 {
	var out [geometry.StressComponents]float64
	nb := g.Beams()
	for i := range out {
		var sum float64
		for j := 0; j < nb; j++ {
			for k := 0; k < 3; k++ {
				for l := 0; l < 3; l++ {
					v := M.At(i, j) * g.A.At(j, k) * g.A.At(j, l)
					sum += v * v
				}
			}
		}
		out[i] = math.Sqrt(sum)
	}
	return out
}

// SixBeamDesignMatrix returns the N×6 matrix whose row i holds the
// direction-cosine products of beam i, one column per stress component:
//
//	cos²(el)cos²(az), cos²(el)sin²(az), sin²(el),
//	2cos²(el)cos(az)sin(az), 2cos(el)sin(el)cos(az), 2cos(el)sin(el)sin(az)
func SixBeamDesignMatrix(p geometry.ScanPattern) *mat.Dense {
	nb := p.Beams()
	M := mat.NewDense(nb, geometry.StressComponents, nil)
	for i := 0; i < nb; i++ {
		sa, ca := geometry.Sind(p.Azimuth[i]), geometry.Cosd(p.Azimuth[i])
		sb, cb := geometry.Sind(p.Elevation[i]), geometry.Cosd(p.Elevation[i])
		M.Set(i, 0, (cb*cb)*(ca*ca))
		M.Set(i, 1, (cb*cb)*(sa*sa))
		M.Set(i, 2, sb*sb)
		M.Set(i, 3, 2*cb*cb*ca*sa)
		M.Set(i, 4, 2*cb*sb*ca)
		M.Set(i, 5, 2*cb*sb*sa)
	}
	return M
}
