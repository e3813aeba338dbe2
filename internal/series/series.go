// Package series projects attempt collections into chart-ready series.
package series

import (
	"strings"

	"github.com/verte-zerg/splitlog/internal/metrics"
	"github.com/verte-zerg/splitlog/internal/model"
)

// AllWaves returns every wave observed in the collection plus "last",
// in wave order.
func AllWaves(c model.Collection) []model.WaveID {
	set := model.NewWaveSet(model.LastWave)
	for _, a := range c {
		for _, w := range a.Splits.Waves() {
			set[w] = struct{}{}
		}
	}
	return set.Sorted()
}

// PointCloud emits one point per attempt for every selected wave whose split
// lies inside the view bounds. The completion series only takes successful
// attempts with a duration below the upper bound.
func PointCloud(c model.Collection, cfg model.ViewConfig) []model.ChartSeries {
	lo, hi := cfg.Bounds()
	waves := cfg.Selected.Sorted()
	index := make(map[model.WaveID]int, len(waves))
	out := make([]model.ChartSeries, len(waves))
	for i, w := range waves {
		index[w] = i
		out[i] = model.ChartSeries{
			Key:   w,
			Label: "Wave " + string(w),
			Color: SeriesColor(w, cfg.Theme),
		}
	}

	for run, a := range c {
		a.Splits.Each(func(w model.WaveID, split float64, ok bool) {
			i, selected := index[w]
			if !selected || !ok || split < lo || split > hi {
				return
			}
			var delta *float64
			if d, ok := a.Deltas.Get(w); ok {
				delta = &d
			}
			out[i].Points = append(out[i].Points, cloudPoint(cfg, run, a, split, delta))
		})

		i, selected := index[model.LastWave]
		if !selected || !a.Success || a.Duration < lo || a.Duration >= hi {
			continue
		}
		var delta *float64
		if d, ok := metrics.FinalSegment(a); ok {
			delta = &d
		}
		out[i].Points = append(out[i].Points, cloudPoint(cfg, run, a, a.Duration, delta))
	}
	return out
}

func cloudPoint(cfg model.ViewConfig, run int, a model.Attempt, split float64, delta *float64) model.Point {
	p := model.Point{
		X:         float64(run),
		RunIndex:  run,
		Timestamp: a.Timestamp,
		Split:     &split,
		Delta:     delta,
	}
	if cfg.IndexByDate {
		p.X = float64(a.Timestamp.UnixMilli())
	}
	if cfg.ShowSplits {
		p.Y = split
	} else if delta != nil {
		p.Y = *delta
	}
	return p
}

// RunIndexed applies the exclusion filter, derives the configured mode and
// returns one row per attempt holding only the selected waves, together with
// one series per selected wave.
func RunIndexed(c model.Collection, cfg model.ViewConfig) ([]model.Row, []model.ChartSeries) {
	derived := metrics.Derive(metrics.ExcludeAbove(c, cfg.ExcludeLimit()), cfg.Mode)

	rows := make([]model.Row, len(derived))
	for i, d := range derived {
		values := d.Deltas
		if cfg.ShowSplits {
			values = d.Splits
		}
		rows[i] = model.Row{
			RunIndex:  i,
			Timestamp: d.Timestamp,
			Values:    values.Select(cfg.Selected.Has),
		}
	}

	waves := cfg.Selected.Sorted()
	out := make([]model.ChartSeries, 0, len(waves))
	for _, w := range waves {
		s := model.ChartSeries{
			Key:   w,
			Label: Label(w, cfg.ShowSplits),
			Color: SeriesColor(w, cfg.Theme),
		}
		for _, row := range rows {
			v, ok := row.Values.Get(w)
			if !ok {
				continue
			}
			s.Points = append(s.Points, model.Point{
				X:         float64(row.RunIndex),
				Y:         v,
				RunIndex:  row.RunIndex,
				Timestamp: row.Timestamp,
			})
		}
		out = append(out, s)
	}
	return rows, out
}

// Label names a run-indexed series.
func Label(w model.WaveID, splits bool) string {
	switch {
	case w == model.LastWave && splits:
		return "Completion"
	case w == model.LastWave:
		return "Final segment"
	case splits:
		return string(w) + " Split"
	default:
		return string(w) + " Delta"
	}
}

// Title describes the view, e.g. "Personal Best Splits to Mage and Jad".
// Wave names are only spelled out when fewer than three waves are selected.
func Title(cfg model.ViewConfig) string {
	var b strings.Builder
	switch cfg.Mode {
	case model.ModePB:
		b.WriteString("Personal Best ")
	case model.ModeEMA:
		b.WriteString("Moving Average ")
	}
	if cfg.ShowSplits {
		b.WriteString("Splits")
	} else {
		b.WriteString("Wave Deltas")
	}

	waves := cfg.Selected.Sorted()
	if len(waves) >= 3 {
		return b.String()
	}
	joiner := "to"
	for _, w := range waves {
		name, ok := WaveName(w)
		if !ok {
			continue
		}
		b.WriteString(" " + joiner + " " + name)
		joiner = "and"
	}
	return b.String()
}
