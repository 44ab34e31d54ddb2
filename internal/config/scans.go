package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/banshee-data/scan-geometry/internal/bias"
	"github.com/banshee-data/scan-geometry/internal/errorfactor"
	"github.com/banshee-data/scan-geometry/internal/geometry"
	"github.com/banshee-data/scan-geometry/internal/units"
	"gonum.org/v1/gonum/mat"
)

// DefaultConfigPath is the path to the canonical scan presets file.
// Scan patterns and stress tensors live here, never in Go code.
const DefaultConfigPath = "config/scans.defaults.json"

// ScanConfig is the root of a scan presets file.
type ScanConfig struct {
	DefaultPreset *string           `json:"default_preset,omitempty"`
	NoiseStdev    *float64          `json:"noise_stdev,omitempty"` // per-beam radial-velocity noise, in Units
	Units         *string           `json:"units,omitempty"`
	Presets       map[string]Preset `json:"presets,omitempty"`
}

// Preset is one named scan pattern with its analysis inputs.
type Preset struct {
	Description    string         `json:"description,omitempty"`
	AzimuthDeg     []float64      `json:"azimuth_deg"`
	ElevationDeg   []float64      `json:"elevation_deg"`
	ScanType       *string        `json:"scan_type,omitempty"`
	ReynoldsStress *[3][3]float64 `json:"reynolds_stress,omitempty"`
}

// EmptyScanConfig returns a ScanConfig with all fields unset.
// Use LoadScanConfig to load actual values from a presets file.
func EmptyScanConfig() *ScanConfig {
	return &ScanConfig{}
}

// LoadScanConfig loads a ScanConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
func LoadScanConfig(path string) (*ScanConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyScanConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical presets from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *ScanConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,       // from cmd/scangeom/
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadScanConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *ScanConfig) Validate() error {
	if c.NoiseStdev != nil && *c.NoiseStdev < 0 {
		return fmt.Errorf("noise_stdev must be non-negative, got %f", *c.NoiseStdev)
	}

	if c.Units != nil {
		if err := units.Validate(*c.Units); err != nil {
			return err
		}
	}

	if c.DefaultPreset != nil {
		if _, ok := c.Presets[*c.DefaultPreset]; !ok {
			return fmt.Errorf("default_preset %q is not defined", *c.DefaultPreset)
		}
	}

	for _, name := range c.PresetNames() {
		if err := c.Presets[name].Validate(); err != nil {
			return fmt.Errorf("preset %q: %w", name, err)
		}
	}

	return nil
}

// PresetNames returns the preset names in sorted order.
func (c *ScanConfig) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset returns the named preset, or the default preset when name is empty.
func (c *ScanConfig) Preset(name string) (Preset, error) {
	if name == "" {
		name = c.GetDefaultPreset()
	}
	if name == "" {
		return Preset{}, fmt.Errorf("no preset requested and no default_preset configured")
	}
	p, ok := c.Presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown preset %q (available: %v)", name, c.PresetNames())
	}
	return p, nil
}

// GetDefaultPreset returns the default_preset value or "".
func (c *ScanConfig) GetDefaultPreset() string {
	if c.DefaultPreset == nil {
		return ""
	}
	return *c.DefaultPreset
}

// GetNoiseStdev returns the noise_stdev value or the default.
func (c *ScanConfig) GetNoiseStdev() float64 {
	if c.NoiseStdev == nil {
		return 0 // default: report factors only
	}
	return *c.NoiseStdev
}

// GetUnits returns the units value or the default.
func (c *ScanConfig) GetUnits() string {
	if c.Units == nil {
		return units.MPS
	}
	return *c.Units
}

// Validate checks the angles, scan type and stress tensor of a preset.
func (p Preset) Validate() error {
	if _, err := p.Pattern(); err != nil {
		return err
	}
	scanType, err := p.GetScanType()
	if err != nil {
		return err
	}
	if scanType == errorfactor.SixBeam && len(p.AzimuthDeg) != errorfactor.SixBeamCount {
		return fmt.Errorf("%w: six-beam preset has %d beams", geometry.ErrInvalidScanPattern, len(p.AzimuthDeg))
	}
	if p.ReynoldsStress != nil {
		if _, err := p.Covariance(); err != nil {
			return err
		}
	}
	return nil
}

// Pattern returns the preset's scan pattern.
func (p Preset) Pattern() (geometry.ScanPattern, error) {
	return geometry.NewScanPattern(p.AzimuthDeg, p.ElevationDeg)
}

// GetScanType returns the scan_type value or the default (DBS).
func (p Preset) GetScanType() (errorfactor.ScanType, error) {
	if p.ScanType == nil {
		return errorfactor.DBS, nil
	}
	return errorfactor.ParseScanType(*p.ScanType)
}

// HasCovariance reports whether the preset carries a Reynolds stress tensor.
func (p Preset) HasCovariance() bool {
	return p.ReynoldsStress != nil
}

// Covariance returns the preset's Reynolds stress tensor.
func (p Preset) Covariance() (*mat.SymDense, error) {
	if p.ReynoldsStress == nil {
		return nil, fmt.Errorf("preset has no reynolds_stress")
	}
	rs := *p.ReynoldsStress
	return bias.NewCovariance([]float64{
		rs[0][0], rs[0][1], rs[0][2],
		rs[1][0], rs[1][1], rs[1][2],
		rs[2][0], rs[2][1], rs[2][2],
	})
}
