// Package bias computes the cross-contamination bias of Reynolds-stress
// estimates made with the wide-scan (independent-beam) approximation.
//
// For stress component i with axis pair (j, k) = geometry.StressIndex[i]:
//
//	bias[i] = Σ_l Σ_m Σ_n Σ_p A⁺[j,l]·A⁺[k,m]·A[l,n]·A[m,p]·RS[n,p]·([l==m] − 1)
//
// i.e. minus the sum of all cross-beam (l ≠ m) contributions that the
// approximation drops.
package bias

import (
	"fmt"
	"math"

	"github.com/banshee-data/scan-geometry/internal/geometry"
	"gonum.org/v1/gonum/mat"
)

// symmetryTolerance bounds |RS[n,p] − RS[p,n]| for a well-formed tensor.
const symmetryTolerance = 1e-12

// Vector holds one value per stress component in geometry.StressIndex order.
type Vector [geometry.StressComponents]float64

// Compute returns the cross-contamination bias of each stress component for
// the scan geometry g and the covariance (Reynolds stress) tensor rs.
func Compute(g *geometry.Geometry, rs mat.Matrix) (Vector, error) {
	if err := ValidateCovariance(rs); err != nil {
		return Vector{}, err
	}

	A, APlus := g.A, g.APlus
	nb := g.Beams()

	var out Vector
	for i, axes := range geometry.StressIndex {
		j, k := axes[0], axes[1]
		var sum float64
		for l := 0; l < nb; l++ {
			for m := 0; m < nb; m++ {
				if l == m {
					// ([l==m] − 1) vanishes on the diagonal.
					continue
				}
				for n := 0; n < 3; n++ {
					for p := 0; p < 3; p++ {
						sum -= APlus.At(j, l) * APlus.At(k, m) * A.At(l, n) * A.At(m, p) * rs.At(n, p)
					}
				}
			}
		}
		out[i] = sum
	}
	return out, nil
}

// FromAngles builds the geometry for the given angles and computes the
// bias. Shape checks on the angles and on rs run before any matrix work.
func FromAngles(azimuthDeg, elevationDeg []float64, rs mat.Matrix) (Vector, error) {
	p, err := geometry.NewScanPattern(azimuthDeg, elevationDeg)
	if err != nil {
		return Vector{}, err
	}
	if err := ValidateCovariance(rs); err != nil {
		return Vector{}, err
	}
	g, err := geometry.Build(p)
	if err != nil {
		return Vector{}, err
	}
	return Compute(g, rs)
}

// ValidateCovariance checks that rs is a finite, symmetric 3×3 tensor.
func ValidateCovariance(rs mat.Matrix) error {
	if rs == nil {
		return fmt.Errorf("%w: covariance tensor is nil", geometry.ErrShapeMismatch)
	}
	r, c := rs.Dims()
	if r != 3 || c != 3 {
		return fmt.Errorf("%w: covariance tensor must be 3×3, got %d×%d", geometry.ErrShapeMismatch, r, c)
	}
	for n := 0; n < 3; n++ {
		for p := 0; p < 3; p++ {
			v := rs.At(n, p)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: covariance entry (%d,%d) is not finite", geometry.ErrShapeMismatch, n, p)
			}
			if p > n && math.Abs(v-rs.At(p, n)) > symmetryTolerance {
				return fmt.Errorf("%w: covariance tensor is not symmetric at (%d,%d)", geometry.ErrShapeMismatch, n, p)
			}
		}
	}
	return nil
}

// NewCovariance builds a symmetric tensor from a row-major 3×3 slice.
func NewCovariance(rowMajor []float64) (*mat.SymDense, error) {
	if len(rowMajor) != 9 {
		return nil, fmt.Errorf("%w: covariance needs 9 values, got %d", geometry.ErrShapeMismatch, len(rowMajor))
	}
	dense := mat.NewDense(3, 3, append([]float64(nil), rowMajor...))
	if err := ValidateCovariance(dense); err != nil {
		return nil, err
	}
	return mat.NewSymDense(3, append([]float64(nil), rowMajor...)), nil
}
