package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/scan-geometry/internal/errorfactor"
	"github.com/banshee-data/scan-geometry/internal/geometry"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestLoadScanConfig(t *testing.T) {
	path := writeConfig(t, "scans.json", `{
  "default_preset": "tilted",
  "noise_stdev": 0.2,
  "units": "kmph",
  "presets": {
    "tilted": {
      "azimuth_deg": [0, 120, 240],
      "elevation_deg": [60, 60, 60],
      "reynolds_stress": [[1, 0, 0], [0, 1, 0], [0, 0, 0.5]]
    }
  }
}`)

	cfg, err := LoadScanConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.GetDefaultPreset() != "tilted" {
		t.Errorf("GetDefaultPreset() = %q, want tilted", cfg.GetDefaultPreset())
	}
	if cfg.GetNoiseStdev() != 0.2 {
		t.Errorf("GetNoiseStdev() = %f, want 0.2", cfg.GetNoiseStdev())
	}
	if cfg.GetUnits() != "kmph" {
		t.Errorf("GetUnits() = %q, want kmph", cfg.GetUnits())
	}

	p, err := cfg.Preset("")
	if err != nil {
		t.Fatalf("Preset(\"\") error: %v", err)
	}
	st, err := p.GetScanType()
	if err != nil || st != errorfactor.DBS {
		t.Errorf("GetScanType() = %v, %v; want DBS default", st, err)
	}
	rs, err := p.Covariance()
	if err != nil {
		t.Fatalf("Covariance() error: %v", err)
	}
	if rs.At(2, 2) != 0.5 {
		t.Errorf("RS[2][2] = %f, want 0.5", rs.At(2, 2))
	}
	pattern, err := p.Pattern()
	if err != nil || pattern.Beams() != 3 {
		t.Errorf("Pattern() = %d beams, %v; want 3 beams", pattern.Beams(), err)
	}
}

func TestEmptyScanConfigDefaults(t *testing.T) {
	cfg := EmptyScanConfig()
	if cfg.GetNoiseStdev() != 0 {
		t.Errorf("GetNoiseStdev() = %f, want 0", cfg.GetNoiseStdev())
	}
	if cfg.GetUnits() != "mps" {
		t.Errorf("GetUnits() = %q, want mps", cfg.GetUnits())
	}
	if _, err := cfg.Preset(""); err == nil {
		t.Error("expected error when no preset and no default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("empty config should be valid, got %v", err)
	}
}

func TestLoadScanConfigRejects(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		body    string
		wantErr string
		wantIs  error
	}{
		{
			name:    "wrong extension",
			file:    "scans.yaml",
			body:    `{}`,
			wantErr: ".json extension",
		},
		{
			name:    "bad json",
			file:    "scans.json",
			body:    `{"presets": `,
			wantErr: "failed to parse",
		},
		{
			name:    "negative noise",
			file:    "scans.json",
			body:    `{"noise_stdev": -1}`,
			wantErr: "noise_stdev",
		},
		{
			name:    "unknown units",
			file:    "scans.json",
			body:    `{"units": "knots"}`,
			wantErr: "invalid units",
		},
		{
			name:    "missing default preset",
			file:    "scans.json",
			body:    `{"default_preset": "nope"}`,
			wantErr: "not defined",
		},
		{
			name:   "angle length mismatch",
			file:   "scans.json",
			body:   `{"presets": {"p": {"azimuth_deg": [0, 90], "elevation_deg": [45]}}}`,
			wantIs: geometry.ErrShapeMismatch,
		},
		{
			name:   "unknown scan type",
			file:   "scans.json",
			body:   `{"presets": {"p": {"azimuth_deg": [0, 90, 180], "elevation_deg": [45, 45, 45], "scan_type": "VAD"}}}`,
			wantIs: geometry.ErrUnsupportedScanType,
		},
		{
			name:   "six-beam with five beams",
			file:   "scans.json",
			body:   `{"presets": {"p": {"azimuth_deg": [0, 0, 90, 180, 270], "elevation_deg": [90, 45, 45, 45, 45], "scan_type": "six-beam"}}}`,
			wantIs: geometry.ErrInvalidScanPattern,
		},
		{
			name:   "asymmetric stress",
			file:   "scans.json",
			body:   `{"presets": {"p": {"azimuth_deg": [0, 90, 180], "elevation_deg": [45, 45, 45], "reynolds_stress": [[1, 0.3, 0], [0, 1, 0], [0, 0, 1]]}}}`,
			wantIs: geometry.ErrShapeMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.body)
			_, err := LoadScanConfig(path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.wantErr != "" && !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("error %q is not %v", err, tt.wantIs)
			}
		})
	}
}

func TestLoadScanConfigMissingFile(t *testing.T) {
	_, err := LoadScanConfig(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil || !strings.Contains(err.Error(), "failed to stat") {
		t.Errorf("expected stat error, got %v", err)
	}
}

func TestDefaultPresets(t *testing.T) {
	cfg := MustLoadDefaultConfig()

	want := []string{"inclined-dbs", "regular-dbs", "six-beam"}
	got := cfg.PresetNames()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("PresetNames() = %v, want %v", got, want)
	}
	if cfg.GetDefaultPreset() != "regular-dbs" {
		t.Errorf("default preset = %q, want regular-dbs", cfg.GetDefaultPreset())
	}

	six, err := cfg.Preset("six-beam")
	if err != nil {
		t.Fatalf("Preset(six-beam): %v", err)
	}
	st, err := six.GetScanType()
	if err != nil || st != errorfactor.SixBeam {
		t.Errorf("six-beam scan type = %v, %v", st, err)
	}

	regular, err := cfg.Preset("regular-dbs")
	if err != nil {
		t.Fatalf("Preset(regular-dbs): %v", err)
	}
	rs, err := regular.Covariance()
	if err != nil {
		t.Fatalf("Covariance(): %v", err)
	}
	if rs.At(0, 2) != -0.1 || rs.At(1, 1) != 0.7 {
		t.Errorf("unexpected regular-dbs stress tensor: %v", rs.RawSymmetric().Data)
	}

	if _, err := cfg.Preset("vad"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestPresetWithoutCovariance(t *testing.T) {
	p := Preset{AzimuthDeg: []float64{0, 90, 180}, ElevationDeg: []float64{45, 45, 45}}
	if p.HasCovariance() {
		t.Error("HasCovariance() = true for preset without tensor")
	}
	if _, err := p.Covariance(); err == nil {
		t.Error("expected error from Covariance() without tensor")
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}
