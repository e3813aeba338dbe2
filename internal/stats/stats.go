package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/splitlog/internal/model"
	"github.com/verte-zerg/splitlog/internal/series"
	"github.com/verte-zerg/splitlog/internal/timecode"
)

const (
	sparkChars = " .:-=+*#%@"
	dateLayout = "2006-01-02 15:04"
)

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints headline numbers for a collection.
func RenderSummary(w io.Writer, r Report) error {
	if r.Attempts == 0 {
		_, err := fmt.Fprintln(w, "No attempts found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Attempts: %d\n", r.Attempts); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Successes: %d (%.2f%%)\n", r.Successes, r.SuccessRate*100); err != nil {
		return err
	}
	if r.Successes > 0 {
		if _, err := fmt.Fprintf(w, "Personal best: %s\n", timecode.Format(r.Best)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Average completion: %s\n", timecode.Format(r.Average)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Completions: %s\n", Sparkline(r.Completions)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Last attempt: %s\n", r.Last.Format(dateLayout)); err != nil {
		return err
	}
	if len(r.Weakest) > 0 {
		parts := make([]string, len(r.Weakest))
		for i, wave := range r.Weakest {
			parts[i] = string(wave)
		}
		if _, err := fmt.Fprintf(w, "Most time lost: %s\n", strings.Join(parts, ", ")); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderWaveTable prints per-wave bests and averages.
func RenderWaveTable(w io.Writer, r Report) error {
	if len(r.Waves) == 0 {
		_, err := fmt.Fprintln(w, "No wave stats found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Wave"); err != nil {
		return err
	}
	table := newTextTable("Wave", "Seen", "Best Split", "Avg Split", "Best Delta", "Avg Delta").
		alignRight(1, 2, 3, 4, 5)
	for _, ws := range r.Waves {
		table.add(
			string(ws.Wave),
			fmt.Sprintf("%d", ws.Count),
			timecode.Format(ws.BestSplit),
			timecode.Format(ws.AvgSplit),
			timecode.Format(ws.BestDelta),
			timecode.Format(ws.AvgDelta),
		)
	}
	if err := table.writeTo(w); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderAttempts prints one row per attempt: date, result, last wave,
// duration and "split (+delta)" for each wave in waves.
func RenderAttempts(w io.Writer, c model.Collection, waves []model.WaveID) error {
	if len(c) == 0 {
		_, err := fmt.Fprintln(w, "No attempts found.")
		return err
	}
	headers := []string{"Date", "Result", "Last Wave", "Duration"}
	for _, wave := range waves {
		headers = append(headers, string(wave))
	}
	table := newTextTable(headers...).alignRight(3)
	for i := range waves {
		table.alignRight(4 + i)
	}
	for _, a := range c {
		result := "Fail"
		if a.Success {
			result = "Success"
		}
		row := []string{
			a.Timestamp.Format(dateLayout),
			result,
			string(a.LastWave),
			timecode.Format(a.Duration),
		}
		for _, wave := range waves {
			row = append(row, splitCell(a, wave))
		}
		table.add(row...)
	}
	if err := table.writeTo(w); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

func splitCell(a model.Attempt, wave model.WaveID) string {
	if !a.Splits.Has(wave) {
		return ""
	}
	split, ok := a.Splits.Get(wave)
	if !ok {
		return "N/A"
	}
	cell := timecode.Format(split)
	if delta, ok := a.Deltas.Get(wave); ok {
		cell += " (+" + timecode.Format(delta) + ")"
	}
	return cell
}

// RenderView plots the series a view configuration selects. Date-indexed
// views are laid out by run index since the terminal has no time axis.
func RenderView(w io.Writer, c model.Collection, cfg model.ViewConfig, opts PlotOptions) error {
	if len(c) == 0 {
		_, err := fmt.Fprintln(w, "No attempts found.")
		return err
	}
	var (
		chart []model.ChartSeries
		n     int
	)
	if cfg.IndexByDate {
		chart = series.PointCloud(c, cfg)
		n = len(c)
	} else {
		var rows []model.Row
		rows, chart = series.RunIndexed(c, cfg)
		n = len(rows)
	}
	opts.Shared = true
	opts.Format = timecode.Format
	if cfg.Mode == model.ModePB {
		opts.ConnectGaps = true
	}
	return PlotSeries(w, series.Title(cfg), FromChartSeries(chart, n), opts)
}
