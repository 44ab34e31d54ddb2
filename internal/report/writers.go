package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/banshee-data/scan-geometry/internal/units"
)

// Output formats accepted by Write.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ValidFormats lists the formats in display order.
var ValidFormats = []string{FormatText, FormatJSON, FormatCSV}

// Write renders r to w in the named format.
func (r *Report) Write(w io.Writer, format string) error {
	switch format {
	case FormatText, "":
		return r.WriteText(w)
	case FormatJSON:
		return r.WriteJSON(w)
	case FormatCSV:
		return r.WriteCSV(w)
	default:
		return fmt.Errorf("unknown output format %q, must be one of %v", format, ValidFormats)
	}
}

// WriteJSON writes r as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText writes a human-readable summary with aligned columns.
func (r *Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "run\t%s\n", r.RunID)
	fmt.Fprintf(tw, "version\t%s\n", r.Version)
	if r.Preset != "" {
		fmt.Fprintf(tw, "preset\t%s\n", r.Preset)
	}
	fmt.Fprintf(tw, "beams\t%d\n", len(r.AzimuthDeg))
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "beam\tazimuth_deg\televation_deg")
	for i := range r.AzimuthDeg {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i, formatFloat(r.AzimuthDeg[i]), formatFloat(r.ElevationDeg[i]))
	}

	if b := r.Bias; b != nil {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "component\twide_scan\treference\tbias")
		for i, name := range b.Components {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name,
				formatFloat(b.WideScan[i]), formatFloat(b.Reference[i]), formatFloat(b.Bias[i]))
		}
	}

	if f := r.Factors; f != nil {
		fmt.Fprintln(tw)
		fmt.Fprintf(tw, "scan type\t%s\n", f.ScanType)
		u := r.Uncertainty
		if u != nil {
			fmt.Fprintf(tw, "noise stdev\t%s %s\n", formatFloat(u.NoiseStdev), units.Label(u.Units))
			fmt.Fprintln(tw, "component\tfactor\tstdev")
		} else {
			fmt.Fprintln(tw, "component\tfactor")
		}
		for i, name := range f.VelocityComponents {
			writeFactorRow(tw, name, f.Velocity[i], u, func(u *UncertaintySection) float64 { return u.Velocity[i] })
		}
		for i, name := range f.StressComponents {
			writeFactorRow(tw, name, f.Stress[i], u, func(u *UncertaintySection) float64 { return u.Stress[i] })
		}
	}

	return tw.Flush()
}

func writeFactorRow(w io.Writer, name string, factor float64, u *UncertaintySection, pick func(*UncertaintySection) float64) {
	if u == nil {
		fmt.Fprintf(w, "%s\t%s\n", name, formatFloat(factor))
		return
	}
	fmt.Fprintf(w, "%s\t%s\t%s\n", name, formatFloat(factor), formatFloat(pick(u)))
}

// WriteCSV writes one row per quantity: section, component, value.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	rows := [][]string{{"section", "component", "value"}}
	for i := range r.AzimuthDeg {
		beam := "beam" + strconv.Itoa(i)
		rows = append(rows,
			[]string{"azimuth_deg", beam, formatFloat(r.AzimuthDeg[i])},
			[]string{"elevation_deg", beam, formatFloat(r.ElevationDeg[i])},
		)
	}
	if b := r.Bias; b != nil {
		for i, name := range b.Components {
			rows = append(rows,
				[]string{"wide_scan", name, formatFloat(b.WideScan[i])},
				[]string{"reference", name, formatFloat(b.Reference[i])},
				[]string{"bias", name, formatFloat(b.Bias[i])},
			)
		}
	}
	if f := r.Factors; f != nil {
		for i, name := range f.VelocityComponents {
			rows = append(rows, []string{"velocity_factor", name, formatFloat(f.Velocity[i])})
		}
		for i, name := range f.StressComponents {
			rows = append(rows, []string{"stress_factor", name, formatFloat(f.Stress[i])})
		}
	}
	if u := r.Uncertainty; u != nil {
		for i, name := range r.velocityComponents() {
			rows = append(rows, []string{"velocity_stdev_" + u.Units, name, formatFloat(u.Velocity[i])})
		}
		for i, name := range r.stressComponents() {
			rows = append(rows, []string{"stress_stdev", name, formatFloat(u.Stress[i])})
		}
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func (r *Report) velocityComponents() []string {
	if r.Factors != nil {
		return r.Factors.VelocityComponents
	}
	return velocityNames()
}

func (r *Report) stressComponents() []string {
	if r.Factors != nil {
		return r.Factors.StressComponents
	}
	return stressNames()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}
