package errorfactor

import (
	"math"
	"testing"

	"github.com/banshee-data/scan-geometry/internal/geometry"
	"github.com/banshee-data/scan-geometry/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

var (
	regularAz = []float64{0, 0, 90, 180, 270}
	regularEl = []float64{90, 62, 62, 62, 62}

	sixBeamAz = []float64{0, 0, 72, 144, 216, 288}
	sixBeamEl = []float64{90, 45, 45, 45, 45, 45}
)

func build(t *testing.T, az, el []float64) *geometry.Geometry {
	t.Helper()
	p, err := geometry.NewScanPattern(az, el)
	require.NoError(t, err)
	g, err := geometry.Build(p)
	require.NoError(t, err)
	return g
}

func TestComputeRegularDBS(t *testing.T) {
	t.Parallel()
	f, err := Compute(build(t, regularAz, regularEl), DBS)
	require.NoError(t, err)

	// AᵗA = diag(2c², 2c², 1+4s²), and each velocity factor reduces to
	// sqrt((AᵗA)⁻¹[i,i]) because the rows of A are unit vectors.
	c, s := geometry.Cosd(62), geometry.Sind(62)
	assert.InDelta(t, 1/(math.Sqrt2*c), f.Velocity[0], 1e-12)
	assert.InDelta(t, 1/(math.Sqrt2*c), f.Velocity[1], 1e-12)
	assert.InDelta(t, 1/math.Sqrt(1+4*s*s), f.Velocity[2], 1e-12)

	// The DBS stress factor of (j,k) separates into Velocity[j]·Velocity[k].
	for i, axes := range geometry.StressIndex {
		want := f.Velocity[axes[0]] * f.Velocity[axes[1]]
		assert.InDelta(t, want, f.Stress[i], 1e-12, "component %s", geometry.StressNames[i])
	}
}

func TestComputeSixBeam(t *testing.T) {
	t.Parallel()
	g := build(t, sixBeamAz, sixBeamEl)

	f, err := Compute(g, SixBeam)
	require.NoError(t, err)

	for i, v := range f.Velocity {
		assert.Greater(t, v, 0.0, "velocity %s", geometry.VelocityNames[i])
	}
	for i, v := range f.Stress {
		assert.Greater(t, v, 0.0, "stress %s", geometry.StressNames[i])
	}

	// With unit beam vectors the sum over k and l collapses, leaving the
	// norm of row i of M.
	M := SixBeamDesignMatrix(g.Pattern)
	for i := range f.Stress {
		row := mat.Row(nil, i, M)
		var ss float64
		for _, v := range row {
			ss += v * v
		}
		assert.InDelta(t, math.Sqrt(ss), f.Stress[i], 1e-12)
	}

	// Velocity factors do not depend on the scan type.
	dbs, err := Compute(g, DBS)
	require.NoError(t, err)
	assert.Equal(t, dbs.Velocity, f.Velocity)
}

func TestSixBeamBeamCount(t *testing.T) {
	t.Parallel()

	t.Run("five beams", func(t *testing.T) {
		t.Parallel()
		_, err := FromAngles(sixBeamAz[:5], sixBeamEl[:5], SixBeam)
		testutil.AssertErrorIs(t, err, geometry.ErrInvalidScanPattern)

		_, err = Compute(build(t, sixBeamAz[:5], sixBeamEl[:5]), SixBeam)
		assert.ErrorIs(t, err, geometry.ErrInvalidScanPattern)
	})

	t.Run("seven beams", func(t *testing.T) {
		t.Parallel()
		az := append(append([]float64(nil), sixBeamAz...), 36)
		el := append(append([]float64(nil), sixBeamEl...), 60)
		_, err := FromAngles(az, el, SixBeam)
		assert.ErrorIs(t, err, geometry.ErrInvalidScanPattern)

		// The same pattern is fine as DBS.
		_, err = FromAngles(az, el, DBS)
		assert.NoError(t, err)
	})

	t.Run("checked before geometry", func(t *testing.T) {
		t.Parallel()
		_, err := FromAngles([]float64{0, 0, 0, 0, 0}, []float64{90, 90, 90, 90, 90}, SixBeam)
		assert.ErrorIs(t, err, geometry.ErrInvalidScanPattern)
		assert.NotErrorIs(t, err, geometry.ErrSingularMatrix)
	})
}

func TestUnsupportedScanType(t *testing.T) {
	t.Parallel()

	_, err := Compute(build(t, regularAz, regularEl), ScanType("VAD"))
	assert.ErrorIs(t, err, geometry.ErrUnsupportedScanType)

	_, err = FromAngles(regularAz, regularEl, ScanType(""))
	assert.ErrorIs(t, err, geometry.ErrUnsupportedScanType)

	// Shape is validated first.
	_, err = FromAngles(regularAz, regularEl[:4], ScanType("VAD"))
	assert.ErrorIs(t, err, geometry.ErrShapeMismatch)
}

func TestSingularGeometry(t *testing.T) {
	t.Parallel()
	_, err := FromAngles([]float64{0, 0, 0}, []float64{90, 90, 90}, DBS)
	assert.ErrorIs(t, err, geometry.ErrSingularMatrix)
}

func TestFactorsNonNegative(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		az, el   []float64
		scanType ScanType
	}{
		{"negative DBS", []float64{0, -10, -100, -190, -280}, []float64{-90, -62, -62, -62, -62}, DBS},
		{"mixed DBS", []float64{-45, 45, 135, -135}, []float64{70, -70, 30, -30}, DBS},
		{"negative six-beam", []float64{0, 0, -72, -144, -216, -288}, []float64{-90, -45, -45, -45, -45, -45}, SixBeam},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f, err := FromAngles(tt.az, tt.el, tt.scanType)
			testutil.AssertNoError(t, err)
			testutil.AssertNonNegative(t, f.Velocity[:])
			testutil.AssertNonNegative(t, f.Stress[:])
		})
	}
}

func TestSixBeamDesignMatrix(t *testing.T) {
	t.Parallel()
	p, err := geometry.NewScanPattern(sixBeamAz, sixBeamEl)
	require.NoError(t, err)

	M := SixBeamDesignMatrix(p)
	r, c := M.Dims()
	require.Equal(t, 6, r)
	require.Equal(t, 6, c)

	// Row i · (UU, VV, WW, UV, UW, VW) is the radial-velocity variance a·RS·aᵗ.
	rs := mat.NewSymDense(3, []float64{1, 0.2, -0.1, 0.2, 0.7, 0.05, -0.1, 0.05, 0.5})
	stress := mat.NewVecDense(6, nil)
	for i, axes := range geometry.StressIndex {
		stress.SetVec(i, rs.At(axes[0], axes[1]))
	}
	A := geometry.ObservationMatrix(p)
	for i := 0; i < r; i++ {
		a := mat.NewVecDense(3, mat.Row(nil, i, A))
		want := mat.Inner(a, rs, a)
		got := mat.Dot(mat.NewVecDense(6, mat.Row(nil, i, M)), stress)
		assert.InDelta(t, want, got, 1e-12, "beam %d", i)
	}
}

func TestParseScanType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    ScanType
		wantErr bool
	}{
		{"DBS", DBS, false},
		{"dbs", DBS, false},
		{" six-beam ", SixBeam, false},
		{"Six-Beam", SixBeam, false},
		{"sixbeam", SixBeam, false},
		{"six_beam", SixBeam, false},
		{"VAD", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseScanType(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, geometry.ErrUnsupportedScanType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, got.Validate())
		})
	}
}

func TestScale(t *testing.T) {
	t.Parallel()
	f, err := FromAngles(regularAz, regularEl, DBS)
	require.NoError(t, err)

	u, err := f.Scale(0.1)
	require.NoError(t, err)
	assert.Equal(t, 0.1, u.NoiseStdev)
	for i := range f.Velocity {
		assert.InDelta(t, 0.1*f.Velocity[i], u.Velocity[i], 1e-15)
	}
	for i := range f.Stress {
		assert.InDelta(t, 0.1*f.Stress[i], u.Stress[i], 1e-15)
	}

	zero, err := f.Scale(0)
	require.NoError(t, err)
	assert.Equal(t, [6]float64{}, zero.Stress)

	for _, bad := range []float64{-0.1, math.NaN(), math.Inf(1)} {
		_, err := f.Scale(bad)
		assert.Error(t, err)
	}
}
