package stats

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/splitlog/internal/model"
	"github.com/verte-zerg/splitlog/internal/timecode"
)

// RenderImports prints recent load batches, newest first.
func RenderImports(w io.Writer, records []model.ImportRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No imports recorded.")
		return err
	}
	table := newTextTable("When", "Source", "Files", "Parsed", "Skipped", "Took").alignRight(2, 3, 4, 5)
	for _, rec := range records {
		table.add(
			humanize.Time(rec.StartedAt),
			rec.Source,
			humanize.Comma(int64(rec.Files)),
			humanize.Comma(int64(rec.Parsed)),
			humanize.Comma(int64(rec.Skipped)),
			(time.Duration(rec.DurationMs) * time.Millisecond).String(),
		)
	}
	return table.writeTo(w)
}

// RenderViews prints saved view configurations.
func RenderViews(w io.Writer, views []model.SavedView) error {
	if len(views) == 0 {
		_, err := fmt.Fprintln(w, "No saved views.")
		return err
	}
	table := newTextTable("Name", "Mode", "Values", "Waves", "Min", "Max", "Exclude", "Updated")
	for _, v := range views {
		values := "deltas"
		if v.View.ShowSplits {
			values = "splits"
		}
		waves := v.View.Selected.String()
		if waves == "" {
			waves = "all"
		}
		table.add(
			v.Name,
			string(v.View.Mode),
			values,
			waves,
			boundText(v.View.MinBound),
			boundText(v.View.MaxBound),
			boundText(v.View.ExcludeAbove),
			humanize.Time(v.UpdatedAt),
		)
	}
	return table.writeTo(w)
}

func boundText(v float64) string {
	if v <= 0 {
		return "-"
	}
	return timecode.Format(v)
}
