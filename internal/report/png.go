package report

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/banshee-data/scan-geometry/internal/fsutil"
	"github.com/banshee-data/scan-geometry/internal/geometry"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PNG file names written by WritePNGs.
const (
	BiasPNG          = "bias.png"
	VelocityPNG      = "velocity_factors.png"
	StressPNG        = "stress_factors.png"
	RaysPNG          = "rays_plan.png"
	defaultBarWidth  = 20
	plotWidthInches  = 8
	plotHeightInches = 5
)

var barColor = color.RGBA{R: 70, G: 110, B: 180, A: 255}

// WritePNGs renders the sections present in r into dir and returns the paths
// written. The directory is created if needed.
func (r *Report) WritePNGs(dir string) ([]string, error) {
	return r.WritePNGsTo(fsutil.OSFileSystem{}, dir)
}

// WritePNGsTo is WritePNGs on an arbitrary filesystem.
func (r *Report) WritePNGsTo(fsys fsutil.FileSystem, dir string) ([]string, error) {
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create plot directory: %w", err)
	}

	var written []string
	save := func(p *plot.Plot, name string, w, h vg.Length) error {
		file := filepath.Join(dir, name)
		if err := savePlot(fsys, p, w, h, file); err != nil {
			return fmt.Errorf("failed to save %s: %w", name, err)
		}
		written = append(written, file)
		return nil
	}

	rays, err := r.raysPlot()
	if err != nil {
		return written, err
	}
	if err := save(rays, RaysPNG, plotHeightInches*vg.Inch, plotHeightInches*vg.Inch); err != nil {
		return written, err
	}

	if b := r.Bias; b != nil {
		p, err := barPlot("Cross-contamination bias", "bias", b.Components, b.Bias[:])
		if err != nil {
			return written, err
		}
		if err := save(p, BiasPNG, plotWidthInches*vg.Inch, plotHeightInches*vg.Inch); err != nil {
			return written, err
		}
	}

	if f := r.Factors; f != nil {
		p, err := barPlot(fmt.Sprintf("Velocity error factors (%s)", f.ScanType), "factor", f.VelocityComponents, f.Velocity[:])
		if err != nil {
			return written, err
		}
		if err := save(p, VelocityPNG, plotWidthInches*vg.Inch, plotHeightInches*vg.Inch); err != nil {
			return written, err
		}

		p, err = barPlot(fmt.Sprintf("Stress error factors (%s)", f.ScanType), "factor", f.StressComponents, f.Stress[:])
		if err != nil {
			return written, err
		}
		if err := save(p, StressPNG, plotWidthInches*vg.Inch, plotHeightInches*vg.Inch); err != nil {
			return written, err
		}
	}

	return written, nil
}

func savePlot(fsys fsutil.FileSystem, p *plot.Plot, w, h vg.Length, file string) error {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return err
	}
	f, err := fsys.Create(file)
	if err != nil {
		return err
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func barPlot(title, yLabel string, names []string, values []float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())

	bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(defaultBarWidth))
	if err != nil {
		return nil, fmt.Errorf("failed to create bar chart: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)
	return p, nil
}

// raysPlot draws the horizontal projection of each beam from the origin to
// where it crosses unit height.
func (r *Report) raysPlot() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Beam rays (plan view)"
	p.X.Label.Text = "x (east)"
	p.Y.Label.Text = "y (north)"
	p.Add(plotter.NewGrid())

	rays := geometry.Rays(r.Pattern())
	colors := beamColors(len(rays))

	ends := make(plotter.XYs, len(rays))
	labels := make([]string, len(rays))
	for i, ray := range rays {
		line, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: ray.X, Y: ray.Y}})
		if err != nil {
			return nil, fmt.Errorf("failed to create ray line: %w", err)
		}
		line.Color = colors[i]
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("beam %d (az %.1f, el %.1f)", i, ray.AzimuthDeg, ray.ElevationDeg), line)

		ends[i] = plotter.XY{X: ray.X, Y: ray.Y}
		labels[i] = fmt.Sprintf("%d", i)
	}

	if len(rays) > 0 {
		scatter, err := plotter.NewScatter(ends)
		if err != nil {
			return nil, fmt.Errorf("failed to create ray endpoints: %w", err)
		}
		p.Add(scatter)

		lbl, err := plotter.NewLabels(plotter.XYLabels{XYs: ends, Labels: labels})
		if err != nil {
			return nil, fmt.Errorf("failed to create ray labels: %w", err)
		}
		p.Add(lbl)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	return p, nil
}
