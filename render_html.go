package jmhbench

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const errorStack = "error"

// BarChart builds the interactive version of the chart. echarts has no error bar
// series, so each whisker is a stacked pair: a transparent bar up to
// Length-Error and a colored span of 2*Error laid over the score bar.
func (c *Chart) BarChart() *charts.Bar {
	bar := charts.NewBar()
	w, h := c.size()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: c.Title,
			Width:     fmt.Sprintf("%dpx", int(w.Dots(96))),
			Height:    fmt.Sprintf("%dpx", int(h.Dots(96))),
		}),
		charts.WithTitleOpts(opts.Title{Title: c.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
		charts.WithXAxisOpts(opts.XAxis{Name: c.XLabel, Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category"}),
	)

	scores := make([]opts.BarData, 0, len(c.Bars))
	lows := make([]opts.BarData, 0, len(c.Bars))
	spans := make([]opts.BarData, 0, len(c.Bars))
	for _, b := range c.Bars {
		low := math.Max(b.Length-b.Error, 0)
		scores = append(scores, opts.BarData{Name: b.Label, Value: b.Length})
		lows = append(lows, opts.BarData{Name: b.Label, Value: low})
		spans = append(spans, opts.BarData{Name: b.Label, Value: b.Length + b.Error - low})
	}

	opacity := float32(c.Opacity)
	bar.SetXAxis(c.Labels()).
		AddSeries(ColScore, scores,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: hexColor(c.BarColor), Opacity: opacity})).
		AddSeries("", lows,
			charts.WithBarChartOpts(opts.BarChart{Stack: errorStack, BarGap: "-100%"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "transparent"})).
		AddSeries(ColScoreError, spans,
			charts.WithBarChartOpts(opts.BarChart{Stack: errorStack, BarGap: "-100%"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: hexColor(c.ErrorColor), Opacity: opacity}))
	bar.XYReversal()
	return bar
}

// WriteHTML renders the chart as a standalone HTML page.
func (c *Chart) WriteHTML(w io.Writer) error {
	return c.BarChart().Render(w)
}

// NewPage puts the interactive version of every chart on one page.
func NewPage(title string, cs ...*Chart) *components.Page {
	page := components.NewPage()
	page.PageTitle = title
	for _, c := range cs {
		page.AddCharts(c.BarChart())
	}
	return page
}
