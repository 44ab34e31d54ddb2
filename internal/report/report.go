// Package report renders the output of the bias and error-factor pipelines.
//
// It consumes only the computed vectors and the raw beam angles: text, JSON
// and CSV summaries, PNG bar charts (gonum/plot) and an interactive HTML page
// (go-echarts) with a 3-D ray diagram.
package report

import (
	"time"

	"github.com/banshee-data/scan-geometry/internal/bias"
	"github.com/banshee-data/scan-geometry/internal/errorfactor"
	"github.com/banshee-data/scan-geometry/internal/geometry"
	"github.com/banshee-data/scan-geometry/internal/timeutil"
	"github.com/banshee-data/scan-geometry/internal/version"
	"github.com/google/uuid"
)

// Report collects the results of one analysis run.
type Report struct {
	RunID        string    `json:"run_id"`
	Version      string    `json:"version"`
	GeneratedAt  time.Time `json:"generated_at"`
	Preset       string    `json:"preset,omitempty"`
	AzimuthDeg   []float64 `json:"azimuth_deg"`
	ElevationDeg []float64 `json:"elevation_deg"`

	Bias        *BiasSection        `json:"bias,omitempty"`
	Factors     *FactorSection      `json:"error_factors,omitempty"`
	Uncertainty *UncertaintySection `json:"uncertainty,omitempty"`
}

// BiasSection holds the cross-contamination results in stress order.
type BiasSection struct {
	Components []string   `json:"components"`
	WideScan   [6]float64 `json:"wide_scan"`
	Reference  [6]float64 `json:"reference"`
	Bias       [6]float64 `json:"bias"`
}

// FactorSection holds the geometrical error factors.
type FactorSection struct {
	ScanType           string     `json:"scan_type"`
	VelocityComponents []string   `json:"velocity_components"`
	StressComponents   []string   `json:"stress_components"`
	Velocity           [3]float64 `json:"velocity"`
	Stress             [6]float64 `json:"stress"`
}

// UncertaintySection holds the factors scaled by the per-beam noise level.
type UncertaintySection struct {
	NoiseStdev float64    `json:"noise_stdev"`
	Units      string     `json:"units"`
	Velocity   [3]float64 `json:"velocity"`
	Stress     [6]float64 `json:"stress"`
}

// Option configures New.
type Option func(*options)

type options struct {
	clock timeutil.Clock
}

// WithClock sets the clock used for GeneratedAt.
func WithClock(c timeutil.Clock) Option {
	return func(o *options) { o.clock = c }
}

// New starts a report for the given scan pattern.
func New(preset string, p geometry.ScanPattern, opts ...Option) *Report {
	o := options{clock: timeutil.RealClock{}}
	for _, opt := range opts {
		opt(&o)
	}
	return &Report{
		RunID:        uuid.NewString(),
		Version:      version.String(),
		GeneratedAt:  o.clock.Now().UTC(),
		Preset:       preset,
		AzimuthDeg:   append([]float64(nil), p.Azimuth...),
		ElevationDeg: append([]float64(nil), p.Elevation...),
	}
}

// Pattern returns the scan pattern the report was built for.
func (r *Report) Pattern() geometry.ScanPattern {
	return geometry.ScanPattern{Azimuth: r.AzimuthDeg, Elevation: r.ElevationDeg}
}

// SetBias records a bias breakdown.
func (r *Report) SetBias(b bias.Breakdown) {
	r.Bias = &BiasSection{
		Components: stressNames(),
		WideScan:   b.WideScan,
		Reference:  b.Reference,
		Bias:       b.Bias,
	}
}

// SetFactors records the error factors for a scan type.
func (r *Report) SetFactors(scanType errorfactor.ScanType, f errorfactor.Factors) {
	r.Factors = &FactorSection{
		ScanType:           scanType.String(),
		VelocityComponents: velocityNames(),
		StressComponents:   stressNames(),
		Velocity:           f.Velocity,
		Stress:             f.Stress,
	}
}

// SetUncertainty records scaled uncertainties in the given units.
func (r *Report) SetUncertainty(u errorfactor.Uncertainty, unitName string) {
	r.Uncertainty = &UncertaintySection{
		NoiseStdev: u.NoiseStdev,
		Units:      unitName,
		Velocity:   u.Velocity,
		Stress:     u.Stress,
	}
}

func stressNames() []string {
	return append([]string(nil), geometry.StressNames[:]...)
}

func velocityNames() []string {
	return append([]string(nil), geometry.VelocityNames[:]...)
}
