package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/banshee-data/scan-geometry/internal/bias"
	"github.com/banshee-data/scan-geometry/internal/errorfactor"
	"github.com/banshee-data/scan-geometry/internal/geometry"
	"github.com/banshee-data/scan-geometry/internal/monitoring"
	"github.com/banshee-data/scan-geometry/internal/report"
	"github.com/banshee-data/scan-geometry/internal/timeutil"
	"github.com/banshee-data/scan-geometry/internal/version"
)

// errUsage is returned when the command line cannot be dispatched. The usage
// text has already been printed.
var errUsage = errors.New("invalid usage")

var clock timeutil.Clock = timeutil.RealClock{}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		printUsage(stderr)
		return errUsage
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "bias":
		return handleBias(args, stdout, stderr)
	case "errors":
		return handleErrors(args, stdout, stderr)
	case "presets":
		return handlePresets(args, stdout, stderr)
	case "version":
		fmt.Fprintf(stdout, "scangeom version %s\n", version.String())
		return nil
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", command)
		printUsage(stderr)
		return errUsage
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `scangeom - Lidar scan geometry analysis

Usage: scangeom <command> [options]

Commands:
  bias       Cross-contamination bias of the six Reynolds-stress estimates
  errors     Geometrical error factors (and uncertainties when --noise > 0)
  presets    List the scan presets in the configuration file
  version    Show scangeom version
  help       Show this help message

Common Flags:
  --config <file>      Scan presets file (default: config/scans.defaults.json)
  --preset <name>      Preset to analyse (default: default_preset from config)
  --azimuth <list>     Beam azimuths in degrees, comma separated
  --elevation <list>   Beam elevations in degrees, comma separated
  --format <fmt>       Output format: text, json or csv (default: text)
  --plots <dir>        Write PNG charts into dir
  --html <file>        Write an interactive HTML page
  --debug              Enable debug logging

bias Flags:
  --rs <list>          Reynolds stress tensor, 9 values row-major

errors Flags:
  --scan-type <type>   DBS or six-beam
  --noise <stdev>      Per-beam radial-velocity noise standard deviation
  --units <unit>       Units of --noise and the reported uncertainties

Examples:
  scangeom bias --preset regular-dbs
  scangeom errors --azimuth 0,0,72,144,216,288 --elevation 90,45,45,45,45,45 --scan-type six-beam
  scangeom errors --preset inclined-dbs --noise 0.2 --units mph --format json`)
}

func handleBias(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("bias", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := registerFlags(fs)
	rsFlag := fs.String("rs", "", "Reynolds stress tensor, 9 comma-separated values (row-major)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	setupLogging(f.debug, stderr)

	in, err := resolveInputs(f, fs)
	if err != nil {
		return err
	}
	if *rsFlag != "" {
		in.rs, err = parseCovariance(*rsFlag)
		if err != nil {
			return err
		}
	}
	if in.rs == nil {
		return fmt.Errorf("bias needs a Reynolds stress tensor: set --rs or use a preset with reynolds_stress")
	}

	start := clock.Now()
	vec, err := bias.FromAngles(in.pattern.Azimuth, in.pattern.Elevation, in.rs)
	if err != nil {
		return err
	}
	g, err := geometry.Build(in.pattern)
	if err != nil {
		return err
	}
	breakdown, err := bias.Decompose(g, in.rs)
	if err != nil {
		return err
	}
	breakdown.Bias = vec

	r := report.New(in.name, in.pattern, report.WithClock(clock))
	r.SetBias(breakdown)
	monitoring.Logf("bias: preset=%q beams=%d took=%s", in.name, in.pattern.Beams(), clock.Since(start))
	return emit(r, f, stdout)
}

func handleErrors(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("errors", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := registerFlags(fs)
	scanTypeFlag := fs.String("scan-type", "", "Scan type: DBS or six-beam (default: preset scan_type or DBS)")
	noiseFlag := fs.Float64("noise", 0, "Per-beam radial-velocity noise standard deviation (default: noise_stdev from config)")
	unitsFlag := fs.String("units", "", "Units of --noise and the uncertainties (default: units from config)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	setupLogging(f.debug, stderr)

	in, err := resolveInputs(f, fs)
	if err != nil {
		return err
	}
	if *scanTypeFlag != "" {
		in.scanType, err = errorfactor.ParseScanType(*scanTypeFlag)
		if err != nil {
			return err
		}
	}
	noise, unit, err := resolveNoise(in.cfg, fs, *noiseFlag, *unitsFlag)
	if err != nil {
		return err
	}

	start := clock.Now()
	factors, err := errorfactor.FromAngles(in.pattern.Azimuth, in.pattern.Elevation, in.scanType)
	if err != nil {
		return err
	}

	r := report.New(in.name, in.pattern, report.WithClock(clock))
	r.SetFactors(in.scanType, factors)
	if noise > 0 {
		u, err := factors.Scale(noise)
		if err != nil {
			return err
		}
		r.SetUncertainty(u, unit)
	}
	monitoring.Logf("errors: preset=%q beams=%d scan_type=%s noise=%g %s took=%s",
		in.name, in.pattern.Beams(), in.scanType, noise, unit, clock.Since(start))
	return emit(r, f, stdout)
}

func handlePresets(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("presets", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Scan presets file")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tBEAMS\tSCAN TYPE\tSTRESS\tDESCRIPTION")
	for _, name := range cfg.PresetNames() {
		p := cfg.Presets[name]
		scanType, _ := p.GetScanType()
		label := name
		if name == cfg.GetDefaultPreset() {
			label += " (default)"
		}
		stress := "-"
		if p.HasCovariance() {
			stress = "yes"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", label, len(p.AzimuthDeg), scanType, stress, p.Description)
	}
	return tw.Flush()
}

// emit writes the report to stdout and any requested chart files.
func emit(r *report.Report, f *commonFlags, stdout io.Writer) error {
	if err := r.Write(stdout, *f.format); err != nil {
		return err
	}
	if *f.plots != "" {
		files, err := r.WritePNGs(*f.plots)
		if err != nil {
			return err
		}
		monitoring.Logf("wrote %d plots to %s", len(files), *f.plots)
	}
	if *f.html != "" {
		if err := r.WriteHTMLFile(*f.html); err != nil {
			return err
		}
		monitoring.Logf("wrote %s", *f.html)
	}
	return nil
}

func setupLogging(debug *bool, stderr io.Writer) {
	if *debug {
		monitoring.SetOutput(stderr, "[scangeom] ")
		geometry.SetLogWriters(stderr, stderr)
		return
	}
	monitoring.SetOutput(nil, "")
	geometry.SetLogWriters(stderr, nil)
}
