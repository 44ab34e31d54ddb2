package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/banshee-data/scan-geometry/internal/bias"
	"github.com/banshee-data/scan-geometry/internal/config"
	"github.com/banshee-data/scan-geometry/internal/errorfactor"
	"github.com/banshee-data/scan-geometry/internal/geometry"
	"github.com/banshee-data/scan-geometry/internal/report"
	"github.com/banshee-data/scan-geometry/internal/units"
	"gonum.org/v1/gonum/mat"
)

// customName labels a run whose angles came from the command line only.
const customName = "custom"

type commonFlags struct {
	config    *string
	preset    *string
	azimuth   *string
	elevation *string
	format    *string
	plots     *string
	html      *string
	debug     *bool
}

func registerFlags(flags *flag.FlagSet) *commonFlags {
	return &commonFlags{
		config:    flags.String("config", "", "Scan presets file (default: "+config.DefaultConfigPath+")"),
		preset:    flags.String("preset", "", "Preset name (default: default_preset from config)"),
		azimuth:   flags.String("azimuth", "", "Beam azimuths in degrees, comma separated"),
		elevation: flags.String("elevation", "", "Beam elevations in degrees, comma separated"),
		format:    flags.String("format", report.FormatText, "Output format: "+strings.Join(report.ValidFormats, ", ")),
		plots:     flags.String("plots", "", "Directory for PNG charts"),
		html:      flags.String("html", "", "Path of an interactive HTML page"),
		debug:     flags.Bool("debug", false, "Enable debug logging"),
	}
}

// inputs is the resolved analysis request: preset values overlaid with
// any explicit flags.
type inputs struct {
	cfg      *config.ScanConfig
	name     string
	pattern  geometry.ScanPattern
	scanType errorfactor.ScanType
	rs       *mat.SymDense
}

func resolveInputs(f *commonFlags, flags *flag.FlagSet) (*inputs, error) {
	cfg, err := loadConfig(*f.config)
	if err != nil {
		return nil, err
	}

	in := &inputs{cfg: cfg, scanType: errorfactor.DBS}

	explicitAngles := *f.azimuth != "" || *f.elevation != ""
	var preset config.Preset
	havePreset := false
	if *f.preset != "" || !explicitAngles {
		preset, err = cfg.Preset(*f.preset)
		if err != nil {
			return nil, err
		}
		havePreset = true
		in.name = *f.preset
		if in.name == "" {
			in.name = cfg.GetDefaultPreset()
		}
	}

	az, el := preset.AzimuthDeg, preset.ElevationDeg
	if isSet(flags, "azimuth") {
		if az, err = parseCSVFloat64s(*f.azimuth); err != nil {
			return nil, fmt.Errorf("--azimuth: %w", err)
		}
	}
	if isSet(flags, "elevation") {
		if el, err = parseCSVFloat64s(*f.elevation); err != nil {
			return nil, fmt.Errorf("--elevation: %w", err)
		}
	}
	if !havePreset {
		in.name = customName
	}

	in.pattern, err = geometry.NewScanPattern(az, el)
	if err != nil {
		return nil, err
	}

	if havePreset {
		if in.scanType, err = preset.GetScanType(); err != nil {
			return nil, err
		}
		if preset.HasCovariance() {
			if in.rs, err = preset.Covariance(); err != nil {
				return nil, err
			}
		}
	}
	return in, nil
}

// loadConfig reads the presets file. With no explicit path a missing
// default file yields an empty configuration, so explicit angles still work.
func loadConfig(path string) (*config.ScanConfig, error) {
	if path != "" {
		return config.LoadScanConfig(path)
	}
	cfg, err := config.LoadScanConfig(config.DefaultConfigPath)
	if errors.Is(err, fs.ErrNotExist) {
		return config.EmptyScanConfig(), nil
	}
	return cfg, err
}

// resolveNoise returns the noise level in the requested units. A config
// noise_stdev is converted from the config's units when --units differs.
func resolveNoise(cfg *config.ScanConfig, flags *flag.FlagSet, noiseFlag float64, unitFlag string) (float64, string, error) {
	unit := cfg.GetUnits()
	if unitFlag != "" {
		unit = strings.ToLower(unitFlag)
	}
	if err := units.Validate(unit); err != nil {
		return 0, "", err
	}

	if isSet(flags, "noise") {
		if noiseFlag < 0 {
			return 0, "", fmt.Errorf("--noise must be non-negative, got %g", noiseFlag)
		}
		return noiseFlag, unit, nil
	}

	noise := units.ConvertSpeed(units.ToMPS(cfg.GetNoiseStdev(), cfg.GetUnits()), unit)
	return noise, unit, nil
}

func parseCovariance(s string) (*mat.SymDense, error) {
	vals, err := parseCSVFloat64s(s)
	if err != nil {
		return nil, fmt.Errorf("--rs: %w", err)
	}
	return bias.NewCovariance(vals)
}

func isSet(flags *flag.FlagSet, name string) bool {
	set := false
	flags.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// parseCSVFloat64s parses a comma-separated list of float64 values.
// Returns nil, nil for empty input strings.
func parseCSVFloat64s(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float '%s': %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}
