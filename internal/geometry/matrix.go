package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// MinBeams is the smallest scan that can span three dimensions.
const MinBeams = 3

// Geometry holds the derived matrices of one scan pattern.
//
//	A  : N×3, row i = unit direction cosine of beam i
//	A⁺ : 3×N, (AᵗA)⁻¹Aᵗ
//
// A Geometry is immutable once built; rebuild it when the pattern changes.
type Geometry struct {
	Pattern ScanPattern
	A       *mat.Dense
	APlus   *mat.Dense
}

// Beams returns the number of beams N.
func (g *Geometry) Beams() int {
	return g.Pattern.Beams()
}

// Build constructs the observation matrix and its pseudo-inverse for p.
func Build(p ScanPattern) (*Geometry, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Beams() < MinBeams {
		opsf("rejecting scan with %d beams", p.Beams())
		return nil, fmt.Errorf("%w: %d beams cannot span 3-D (need at least %d)",
			ErrSingularMatrix, p.Beams(), MinBeams)
	}

	A := ObservationMatrix(p)
	APlus, err := PseudoInverse(A)
	if err != nil {
		return nil, err
	}

	return &Geometry{Pattern: p, A: A, APlus: APlus}, nil
}

// ObservationMatrix returns the N×3 direction-cosine matrix of p, one row
// per beam in pattern order:
//
//	(cosd(el)·cosd(az), cosd(el)·sind(az), sind(el))
func ObservationMatrix(p ScanPattern) *mat.Dense {
	n := p.Beams()
	A := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		az, el := p.Azimuth[i], p.Elevation[i]
		A.Set(i, 0, Cosd(el)*Cosd(az))
		A.Set(i, 1, Cosd(el)*Sind(az))
		A.Set(i, 2, Sind(el))
	}
	return A
}

// PseudoInverse returns the generalized inverse (AᵗA)⁻¹Aᵗ of A through the
// normal equations. Any failure to invert AᵗA, exact or numerical, is
// reported as ErrSingularMatrix.
func PseudoInverse(A mat.Matrix) (*mat.Dense, error) {
	var AtA, AtAi, AI mat.Dense

	AtA.Mul(A.T(), A) // AᵗA
	if err := AtAi.Inverse(&AtA); err != nil {
		opsf("AᵗA inversion failed: %v", err)
		return nil, fmt.Errorf("%w: AᵗA is not invertible: %v", ErrSingularMatrix, err)
	}
	if diagLogger != nil {
		diagf("AᵗA condition number %.3g", mat.Cond(&AtA, 2))
	}

	AI.Mul(&AtAi, A.T()) // (AᵗA)⁻¹Aᵗ
	return &AI, nil
}
