package chart

import (
	"math"

	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/verte-zerg/splitlog/internal/model"
)

type palette struct {
	background string
	text       string
	textMuted  string
	axis       string
	grid       string
	echarts    string
}

var palettes = map[model.Theme]palette{
	model.ThemeDark: {
		background: "#1a1b1e",
		text:       "#c1c2c5",
		textMuted:  "#909296",
		axis:       "#5c5f66",
		grid:       "#2c2e33",
		echarts:    "dark",
	},
	model.ThemeLight: {
		background: "#ffffff",
		text:       "#212529",
		textMuted:  "#868e96",
		axis:       "#adb5bd",
		grid:       "#e9ecef",
		echarts:    "white",
	},
}

const dataZoomEndPercent = 100

// chartOpts provides themed chart options.
type chartOpts struct {
	theme palette
}

func newChartOpts(theme model.Theme) *chartOpts {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[model.ThemeDark]
	}
	return &chartOpts{theme: p}
}

func (c *chartOpts) Init(width, height string) opts.Initialization {
	return opts.Initialization{
		Width:           width,
		Height:          height,
		BackgroundColor: c.theme.background,
		Theme:           c.theme.echarts,
	}
}

func (c *chartOpts) Title(title, subtitle string) opts.Title {
	return opts.Title{
		Title:         title,
		Subtitle:      subtitle,
		Left:          "center",
		TitleStyle:    &opts.TextStyle{Color: c.theme.text},
		SubtitleStyle: &opts.TextStyle{Color: c.theme.textMuted},
	}
}

func (c *chartOpts) Legend() opts.Legend {
	return opts.Legend{
		Show:      opts.Bool(true),
		Type:      "scroll",
		Bottom:    "0%",
		Left:      "center",
		TextStyle: &opts.TextStyle{Color: c.theme.textMuted},
	}
}

func (c *chartOpts) XAxis(name string) opts.XAxis {
	return opts.XAxis{
		Name:      name,
		AxisLabel: &opts.AxisLabel{Color: c.theme.textMuted},
		AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: c.theme.axis}},
	}
}

func (c *chartOpts) TimeAxis(name string) opts.XAxis {
	axis := c.XAxis(name)
	axis.Type = "time"
	return axis
}

// DurationAxis labels seconds as clock times and pins the view bounds when
// splits are shown.
func (c *chartOpts) DurationAxis(cfg model.ViewConfig) opts.YAxis {
	axis := opts.YAxis{
		Name: "Time",
		Type: "value",
		AxisLabel: &opts.AxisLabel{
			Color:     c.theme.textMuted,
			Formatter: opts.FuncOpts(durationFormatter),
		},
		AxisLine: &opts.AxisLine{LineStyle: &opts.LineStyle{Color: c.theme.axis}},
		SplitLine: &opts.SplitLine{
			Show:      opts.Bool(true),
			LineStyle: &opts.LineStyle{Color: c.theme.grid},
		},
	}
	if cfg.ShowSplits {
		lo, hi := cfg.Bounds()
		if lo > 0 {
			axis.Min = lo
		}
		if !math.IsInf(hi, 1) {
			axis.Max = hi
		}
	}
	return axis
}

func (c *chartOpts) Grid() opts.Grid {
	return opts.Grid{
		Top:          "15%",
		Bottom:       "15%",
		Left:         "5%",
		Right:        "5%",
		ContainLabel: opts.Bool(true),
	}
}

func (c *chartOpts) DataZoom() []opts.DataZoom {
	return []opts.DataZoom{
		{Type: "slider", Start: 0, End: dataZoomEndPercent},
		{Type: "inside"},
	}
}

func (c *chartOpts) Tooltip(trigger string) opts.Tooltip {
	return opts.Tooltip{Show: opts.Bool(true), Trigger: trigger}
}
