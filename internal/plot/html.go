package plot

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// htmlPoints bounds the samples per series embedded in the page.
const htmlPoints = 4000

// RenderHTML writes an interactive page with one zoomable line chart per
// figure.
func RenderHTML(w io.Writer, pageTitle string, figs []Figure, th Theme) error {
	page := components.NewPage()
	page.PageTitle = pageTitle
	for _, f := range figs {
		page.AddCharts(f.lineChart(th))
	}
	return page.Render(w)
}

func (f Figure) lineChart(th Theme) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: th.Echarts}),
		charts.WithTitleOpts(opts.Title{Title: f.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{
			Type:   "scroll",
			Orient: "vertical",
			Right:  "10",
			Top:    "20",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: f.XLabel, Type: "value", Scale: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: f.YLabel, Scale: opts.Bool(true)}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
	)
	for _, s := range f.Series {
		s = Decimate(finite(s), htmlPoints)
		data := make([]opts.LineData, len(s.X))
		for i := range s.X {
			data[i] = opts.LineData{Value: []float64{s.X[i], s.Y[i]}}
		}
		seriesOpts := []charts.SeriesOpts{
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		}
		if f.Dashed[s.Name] {
			seriesOpts = append(seriesOpts, charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed"}))
		}
		line.AddSeries(s.Name, data, seriesOpts...)
	}
	return line
}
