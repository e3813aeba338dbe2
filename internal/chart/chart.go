// Package chart renders view configurations as standalone HTML pages.
package chart

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/verte-zerg/splitlog/internal/model"
	"github.com/verte-zerg/splitlog/internal/series"
)

const (
	chartWidth  = "100%"
	chartHeight = "600px"
	symbolSize  = 8
	lineWidth   = 2
)

// Reference completion times shown on split charts.
var referenceLines = []struct {
	Name    string
	Seconds float64
}{
	{Name: "Sub 45", Seconds: 2700},
	{Name: "Sub 50", Seconds: 3000},
	{Name: "Sub 65", Seconds: 3900},
}

// durationFormatter renders seconds as m:ss or h:mm:ss on the value axis.
const durationFormatter = `function (v) {
  var s = Math.floor(v), h = Math.floor(s / 3600), m = Math.floor((s % 3600) / 60), r = s % 60;
  var pad = function (n) { return (n < 10 ? '0' : '') + n; };
  return h > 0 ? h + ':' + pad(m) + ':' + pad(r) : m + ':' + pad(r);
}`

// Render writes an HTML page for the view: a scatter chart over dates when
// IndexByDate is set, otherwise a run-indexed line chart.
func Render(w io.Writer, c model.Collection, cfg model.ViewConfig) error {
	page := components.NewPage()
	if cfg.IndexByDate {
		page.AddCharts(Scatter(c, cfg))
	} else {
		page.AddCharts(Line(c, cfg))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render chart page: %w", err)
	}
	return nil
}

// Line builds the run-indexed chart for the view.
func Line(c model.Collection, cfg model.ViewConfig) *charts.Line {
	co := newChartOpts(cfg.Theme)
	rows, chartSeries := series.RunIndexed(c, cfg)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(co.Init(chartWidth, chartHeight)),
		charts.WithTitleOpts(co.Title(series.Title(cfg), cfg.Mode.Label())),
		charts.WithLegendOpts(co.Legend()),
		charts.WithTooltipOpts(co.Tooltip("axis")),
		charts.WithDataZoomOpts(co.DataZoom()...),
		charts.WithXAxisOpts(co.XAxis("Task #")),
		charts.WithYAxisOpts(co.DurationAxis(cfg)),
		charts.WithGridOpts(co.Grid()),
	)

	labels := make([]string, len(rows))
	for i := range rows {
		labels[i] = strconv.Itoa(i)
	}
	line.SetXAxis(labels)

	for i, s := range chartSeries {
		data := make([]opts.LineData, len(rows))
		for j := range data {
			data[j] = opts.LineData{Value: "-"}
		}
		for _, p := range s.Points {
			data[p.RunIndex] = opts.LineData{Value: p.Y}
		}
		seriesOpts := []charts.SeriesOpts{
			charts.WithLineChartOpts(opts.LineChart{
				ConnectNulls: opts.Bool(cfg.Mode == model.ModePB),
				ShowSymbol:   opts.Bool(cfg.Mode == model.ModePB),
			}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: series.Hex(s.Color)}),
			charts.WithLineStyleOpts(opts.LineStyle{Width: lineWidth}),
		}
		if i == 0 && cfg.ShowSplits {
			seriesOpts = append(seriesOpts, referenceLineOpts()...)
		}
		line.AddSeries(s.Label, data, seriesOpts...)
	}
	return line
}

func referenceLineOpts() []charts.SeriesOpts {
	out := make([]charts.SeriesOpts, 0, len(referenceLines)+1)
	for _, ref := range referenceLines {
		out = append(out, charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{
			Name:  ref.Name,
			YAxis: ref.Seconds,
		}))
	}
	out = append(out, charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
		Symbol: []string{"none"},
		Label:  &opts.Label{Show: opts.Bool(true), Position: "insideEndTop", Color: series.Hex("red")},
	}))
	return out
}

// Scatter builds the date-indexed point cloud for the view.
func Scatter(c model.Collection, cfg model.ViewConfig) *charts.Scatter {
	co := newChartOpts(cfg.Theme)
	cloud := series.PointCloud(c, cfg)

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(co.Init(chartWidth, chartHeight)),
		charts.WithTitleOpts(co.Title(series.Title(cfg), "")),
		charts.WithLegendOpts(co.Legend()),
		charts.WithTooltipOpts(co.Tooltip("item")),
		charts.WithDataZoomOpts(co.DataZoom()...),
		charts.WithXAxisOpts(co.TimeAxis("Date")),
		charts.WithYAxisOpts(co.DurationAxis(cfg)),
		charts.WithGridOpts(co.Grid()),
	)

	for _, s := range cloud {
		data := make([]opts.ScatterData, 0, len(s.Points))
		for _, p := range s.Points {
			data = append(data, opts.ScatterData{
				Value:      []any{p.X, p.Y, p.Timestamp.Format(time.DateTime)},
				SymbolSize: symbolSize,
			})
		}
		scatter.AddSeries(s.Label, data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: series.Hex(s.Color)}),
		)
	}
	return scatter
}
