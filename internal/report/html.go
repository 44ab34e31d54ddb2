package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/banshee-data/scan-geometry/internal/fsutil"
	"github.com/banshee-data/scan-geometry/internal/geometry"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const pageTitle = "Scan geometry"

// WriteHTML renders an interactive page: a 3-D ray diagram followed by bar
// charts for each section present in r.
func (r *Report) WriteHTML(w io.Writer) error {
	page := components.NewPage()
	page.SetPageTitle(pageTitle)
	page.AddCharts(r.raysChart())

	if b := r.Bias; b != nil {
		page.AddCharts(barChart("Cross-contamination bias", r.subtitle(), b.Components, b.Bias[:]))
	}
	if f := r.Factors; f != nil {
		page.AddCharts(
			barChart("Velocity error factors", f.ScanType, f.VelocityComponents, f.Velocity[:]),
			barChart("Stress error factors", f.ScanType, f.StressComponents, f.Stress[:]),
		)
	}

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return fmt.Errorf("failed to render chart page: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteHTMLFile writes the HTML page to path.
func (r *Report) WriteHTMLFile(path string) error {
	return r.WriteHTMLTo(fsutil.OSFileSystem{}, path)
}

// WriteHTMLTo is WriteHTMLFile on an arbitrary filesystem.
func (r *Report) WriteHTMLTo(fsys fsutil.FileSystem, path string) error {
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := r.WriteHTML(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (r *Report) subtitle() string {
	if r.Preset != "" {
		return fmt.Sprintf("preset=%s beams=%d", r.Preset, len(r.AzimuthDeg))
	}
	return fmt.Sprintf("beams=%d", len(r.AzimuthDeg))
}

// raysChart draws each beam from the origin to where it crosses unit height.
func (r *Report) raysChart() *charts.Line3D {
	line := charts.NewLine3D()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: pageTitle, Width: "900px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: "Beam rays", Subtitle: r.subtitle()}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "x (east)"}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "y (north)"}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "z (up)"}),
	)

	rays := geometry.Rays(r.Pattern())
	colors := beamColors(len(rays))
	for i, ray := range rays {
		name := fmt.Sprintf("beam %d", i)
		data := []opts.Chart3DData{
			{Name: "origin", Value: []interface{}{0.0, 0.0, 0.0}},
			{Name: fmt.Sprintf("az %.1f el %.1f", ray.AzimuthDeg, ray.ElevationDeg), Value: []interface{}{ray.X, ray.Y, ray.Z}},
		}
		line.AddSeries(name, data,
			charts.WithLineStyleOpts(opts.LineStyle{Color: hexColor(colors[i]), Width: 3}),
		)
	}
	return line
}

func barChart(title, subtitle string, names []string, values []float64) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: pageTitle, Width: "900px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	data := make([]opts.BarData, len(values))
	for i, v := range values {
		data[i] = opts.BarData{Name: names[i], Value: v}
	}
	bar.SetXAxis(names).AddSeries(title, data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
	)
	return bar
}
