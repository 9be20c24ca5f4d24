package jmhbench

import (
	"image/color"

	log "github.com/sirupsen/logrus"
)

// Bar is one horizontal bar of a chart.
type Bar struct {
	Label string `json:"label"`
	// Position is the bar's index on the vertical axis, 0 is the bottom bar.
	Position int     `json:"position"`
	Length   float64 `json:"length"`
	// Error is the half-width of the whisker drawn around the end of the bar.
	Error float64 `json:"error"`
}

// Chart is everything needed to draw a report, independent of the output format.
type Chart struct {
	Title      string     `json:"title"`
	XLabel     string     `json:"x_label"`
	Bars       []Bar      `json:"bars"`
	BarColor   color.RGBA `json:"-"`
	ErrorColor color.RGBA `json:"-"`
	Opacity    float64    `json:"-"`
	Width      float64    `json:"-"`
	Height     float64    `json:"-"`
}

// BuildChart lays rows out as bars in file order. Score and error are used as is.
func BuildChart(rows []BenchmarkRow, cfg Config) (*Chart, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	barColor, _ := ParseColor(cfg.BarColor)
	errColor, _ := ParseColor(cfg.ErrorColor)

	labeler := cfg.Labeler()
	c := &Chart{
		Title:      cfg.Title,
		XLabel:     cfg.XLabel,
		Bars:       make([]Bar, 0, len(rows)),
		BarColor:   barColor,
		ErrorColor: errColor,
		Opacity:    cfg.Opacity,
		Width:      cfg.Width,
		Height:     cfg.Height,
	}
	for i, r := range rows {
		label, short := labeler.Label(r.Name)
		if short {
			// Names of other projects do not carry the prefix, and under the
			// empty policy their bars end up unlabelled.
			log.WithFields(log.Fields{
				"benchmark": r.Name,
				"prefix":    labeler.PrefixLength,
				"policy":    labeler.Policy,
			}).Warn("benchmark name not longer than label prefix")
		}
		c.Bars = append(c.Bars, Bar{
			Label:    label,
			Position: i,
			Length:   r.Score,
			Error:    r.ScoreError,
		})
	}
	return c, nil
}

// Labels returns the bar labels in position order.
func (c *Chart) Labels() []string {
	labels := make([]string, len(c.Bars))
	for i, b := range c.Bars {
		labels[i] = b.Label
	}
	return labels
}

// heightInches is Height, or a value that leaves room for every label.
func (c *Chart) heightInches() float64 {
	if c.Height > 0 {
		return c.Height
	}
	h := 1.5 + 0.35*float64(len(c.Bars))
	if h < 4 {
		h = 4
	}
	return h
}
