package bias

import (
	"github.com/banshee-data/scan-geometry/internal/geometry"
	"gonum.org/v1/gonum/mat"
)

// Breakdown separates the two stress estimates whose difference is the
// cross-contamination bias.
type Breakdown struct {
	// WideScan keeps only same-beam (l == m) radial covariances.
	WideScan Vector
	// Reference uses the full cross-beam covariance. Because A⁺A = I it
	// reproduces RS itself up to round-off.
	Reference Vector
	// Bias is WideScan − Reference.
	Bias Vector
}

// Decompose evaluates the wide-scan and reference estimates separately
// from the radial-velocity covariance A·RS·Aᵗ.
func Decompose(g *geometry.Geometry, rs mat.Matrix) (Breakdown, error) {
	if err := ValidateCovariance(rs); err != nil {
		return Breakdown{}, err
	}

	cov := BeamCovariance(g, rs)
	nb := g.Beams()

	var b Breakdown
	for i, axes := range geometry.StressIndex {
		j, k := axes[0], axes[1]
		var wide, ref float64
		for l := 0; l < nb; l++ {
			for m := 0; m < nb; m++ {
				term := g.APlus.At(j, l) * g.APlus.At(k, m) * cov.At(l, m)
				ref += term
				if l == m {
					wide += term
				}
			}
		}
		b.WideScan[i] = wide
		b.Reference[i] = ref
		b.Bias[i] = wide - ref
	}
	return b, nil
}

// BeamCovariance returns the N×N covariance of the radial-velocity
// fluctuations seen by each pair of beams under a frozen, homogeneous
// turbulence field with Reynolds stress rs.
func BeamCovariance(g *geometry.Geometry, rs mat.Matrix) *mat.SymDense {
	var ars, full mat.Dense
	ars.Mul(g.A, rs)
	full.Mul(&ars, g.A.T())

	nb := g.Beams()
	cov := mat.NewSymDense(nb, nil)
	for l := 0; l < nb; l++ {
		for m := l; m < nb; m++ {
			cov.SetSym(l, m, 0.5*(full.At(l, m)+full.At(m, l)))
		}
	}
	return cov
}
