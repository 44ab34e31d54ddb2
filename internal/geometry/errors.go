package geometry

import "errors"

// Error kinds shared by every pipeline that consumes a Geometry. Callers
// match them with errors.Is; context is added with fmt.Errorf("...: %w").
var (
	// ErrShapeMismatch is returned when azimuth/elevation lengths differ,
	// an angle is not finite, or a covariance tensor is malformed.
	ErrShapeMismatch = errors.New("geometry: shape mismatch")

	// ErrSingularMatrix is returned when AᵗA cannot be inverted, i.e. the
	// beams do not span three dimensions.
	ErrSingularMatrix = errors.New("geometry: singular matrix")

	// ErrInvalidScanPattern is returned when a scan pattern does not suit
	// the requested scan type (six-beam with N != 6).
	ErrInvalidScanPattern = errors.New("geometry: invalid scan pattern")

	// ErrUnsupportedScanType is returned for scan types other than DBS and
	// six-beam.
	ErrUnsupportedScanType = errors.New("geometry: unsupported scan type")
)
