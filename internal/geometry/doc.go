// Package geometry owns the scan-geometry layer of the error analysis.
//
// Responsibilities: holding a lidar scan pattern (per-beam azimuth and
// elevation in degrees), building the N×3 direction-cosine observation
// matrix A and its normal-equation pseudo-inverse A⁺ = (AᵗA)⁻¹Aᵗ.
// Key types: ScanPattern, Geometry, StressIndex.
//
// Dependency rule: geometry is the leaf package. The bias and errorfactor
// pipelines depend on it; it depends on neither.
package geometry
