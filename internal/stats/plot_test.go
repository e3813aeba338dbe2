package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/verte-zerg/splitlog/internal/model"
	"github.com/verte-zerg/splitlog/internal/timecode"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Test Plot", []Series{
		{Name: "A", Values: []float64{1, 2, 3, 2, 1}},
		{Name: "B", Values: []float64{1, 1, 2, 3, 4}},
	}, PlotOptions{Width: 5, Height: 4})
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Test Plot") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "Scaled per series") {
		t.Fatalf("expected scale note in output")
	}
	if !strings.Contains(out, "Legend:") {
		t.Fatalf("expected legend in output")
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	expectedMin := 1 + 1 + 2 + 4 + 1
	if len(lines) < expectedMin {
		t.Fatalf("expected at least %d lines of output, got %d", expectedMin, len(lines))
	}
}

func TestPlotSeriesSharedAxis(t *testing.T) {
	nan := math.NaN()
	var buf bytes.Buffer
	err := PlotSeries(&buf, "", []Series{
		{Name: "9 Split", Color: "cyan", Values: []float64{60, nan, 90}},
		{Name: "Completion", Color: "white", Values: []float64{nan, nan, 3600}},
		{Name: "Empty", Values: []float64{nan, nan, nan}},
	}, PlotOptions{Width: 12, Height: 5, Shared: true, Format: timecode.Format})
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "Scaled per series") {
		t.Fatalf("shared plots have no per-series scale note")
	}
	if !strings.Contains(out, "1:00:00 │") {
		t.Fatalf("expected top axis label, got:\n%s", out)
	}
	if !strings.Contains(out, "1:00 │") {
		t.Fatalf("expected bottom axis label, got:\n%s", out)
	}
	if strings.Contains(out, "Empty") {
		t.Fatalf("series without values should be dropped")
	}
}

func TestResampleSeriesKeepsGaps(t *testing.T) {
	nan := math.NaN()
	got := resampleSeries([]float64{1, nan, nan, nan, 5, 7}, 3)
	if got[0] != 1 || !math.IsNaN(got[1]) || got[2] != 6 {
		t.Fatalf("unexpected resample: %v", got)
	}
}

func TestFromChartSeries(t *testing.T) {
	got := FromChartSeries([]model.ChartSeries{{
		Label:  "18 Split",
		Color:  "teal",
		Points: []model.Point{{RunIndex: 1, Y: 120}, {RunIndex: 5, Y: 99}},
	}}, 3)
	if len(got) != 1 || got[0].Name != "18 Split" || got[0].Color != "teal" {
		t.Fatalf("unexpected series: %+v", got)
	}
	v := got[0].Values
	if len(v) != 3 || !math.IsNaN(v[0]) || v[1] != 120 || !math.IsNaN(v[2]) {
		t.Fatalf("unexpected values: %v", v)
	}
}
