package jmhbench

import (
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	barThickness = 14
	xMargin      = 0.05
)

// barValues feeds bar lengths to plotter.BarChart.
type barValues []Bar

func (b barValues) Len() int            { return len(b) }
func (b barValues) Value(i int) float64 { return b[i].Length }

// whiskers places an error bar at the end of every bar.
type whiskers []Bar

func (w whiskers) Len() int { return len(w) }

func (w whiskers) XY(i int) (float64, float64) {
	return w[i].Length, float64(w[i].Position)
}

func (w whiskers) XError(i int) (float64, float64) {
	return w[i].Error, w[i].Error
}

func withAlpha(c color.RGBA, opacity float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(opacity * 255))}
}

// Plot draws the chart with gonum/plot.
func (c *Chart) Plot() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.X.Min = 0

	if len(c.Bars) == 0 {
		// plotter refuses empty data, an empty chart keeps its axes and title.
		p.X.Max = 1
		p.Y.Min = 0
		p.Y.Max = 1
		return p, nil
	}

	bars, err := plotter.NewBarChart(barValues(c.Bars), vg.Points(barThickness))
	if err != nil {
		return nil, err
	}
	bars.Horizontal = true
	bars.Color = withAlpha(c.BarColor, c.Opacity)
	bars.LineStyle.Width = 0
	p.Add(bars)

	errs, err := plotter.NewXErrorBars(whiskers(c.Bars))
	if err != nil {
		return nil, err
	}
	errs.LineStyle.Color = withAlpha(c.ErrorColor, c.Opacity)
	errs.LineStyle.Width = vg.Points(1.5)
	errs.CapWidth = vg.Points(barThickness / 2)
	p.Add(errs)

	p.NominalY(c.Labels()...)

	// Half a slot around the outer bars and room for the last whisker cap.
	p.Y.Min = -0.5
	p.Y.Max = float64(len(c.Bars)) - 0.5
	var end float64
	for _, b := range c.Bars {
		end = math.Max(end, b.Length+b.Error)
	}
	if end == 0 {
		end = 1
	}
	p.X.Max = end * (1 + xMargin)
	return p, nil
}

func (c *Chart) size() (vg.Length, vg.Length) {
	return vg.Length(c.Width) * vg.Inch, vg.Length(c.heightInches()) * vg.Inch
}

// SaveImage writes the chart to path, the format follows the extension
// (png, svg, pdf, eps, jpg, tif).
func (c *Chart) SaveImage(path string) error {
	p, err := c.Plot()
	if err != nil {
		return err
	}
	w, h := c.size()
	return p.Save(w, h, path)
}

// WriteImage writes the chart to out in the given format.
func (c *Chart) WriteImage(out io.Writer, format string) error {
	p, err := c.Plot()
	if err != nil {
		return err
	}
	w, h := c.size()
	wt, err := p.WriterTo(w, h, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(out)
	return err
}
