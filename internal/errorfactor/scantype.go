package errorfactor

import (
	"fmt"
	"strings"

	"github.com/banshee-data/scan-geometry/internal/geometry"
)

// ScanType selects how Reynolds-stress error factors are evaluated.
type ScanType string

const (
	// DBS reconstructs stresses through the pseudo-inverse bilinear form.
	DBS ScanType = "DBS"
	// SixBeam uses the closed-form six-beam design matrix.
	SixBeam ScanType = "six-beam"
)

// ValidScanTypes lists the supported scan types.
var ValidScanTypes = []ScanType{DBS, SixBeam}

// ParseScanType maps user input onto a ScanType. Matching ignores case and
// accepts "sixbeam" and "six_beam" for SixBeam.
func ParseScanType(s string) (ScanType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dbs":
		return DBS, nil
	case "six-beam", "sixbeam", "six_beam":
		return SixBeam, nil
	}
	return "", fmt.Errorf("%w: %q (must be DBS or six-beam)", geometry.ErrUnsupportedScanType, s)
}

// Validate reports whether t is one of ValidScanTypes.
func (t ScanType) Validate() error {
	for _, v := range ValidScanTypes {
		if t == v {
			return nil
		}
	}
	return fmt.Errorf("%w: %q (must be DBS or six-beam)", geometry.ErrUnsupportedScanType, string(t))
}

func (t ScanType) String() string {
	return string(t)
}
