package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/splitlog/internal/model"
)

var day = time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)

func fixture(hour int, success bool, duration float64, splits ...float64) model.Attempt {
	waves := []model.WaveID{"9", "18"}
	var s, d model.SplitMap
	prev := 0.0
	for i, v := range splits {
		s.Set(waves[i], v)
		d.Set(waves[i], v-prev)
		prev = v
	}
	last, _ := s.Last()
	return model.Attempt{
		Timestamp: day.Add(time.Duration(hour) * time.Hour),
		LastWave:  last,
		Splits:    s,
		Deltas:    d,
		Success:   success,
		Duration:  duration,
	}
}

func collection() model.Collection {
	return model.Collection{
		fixture(0, true, 200, 60, 150),
		fixture(1, false, 70, 70),
		fixture(2, true, 180, 50, 140),
	}
}

func TestBuildReport(t *testing.T) {
	r := BuildReport(collection())
	if r.Attempts != 3 || r.Successes != 2 {
		t.Fatalf("unexpected counts: %+v", r)
	}
	if r.Best != 180 || r.Average != 190 {
		t.Fatalf("unexpected best/average: %v %v", r.Best, r.Average)
	}
	if !r.Last.Equal(day.Add(2 * time.Hour)) {
		t.Fatalf("unexpected last: %v", r.Last)
	}
	if len(r.Waves) != 3 || r.Waves[0].Wave != "9" || r.Waves[2].Wave != model.LastWave {
		t.Fatalf("unexpected waves: %+v", r.Waves)
	}
	w9 := r.Waves[0]
	if w9.Count != 3 || w9.BestSplit != 50 || w9.AvgSplit != 60 {
		t.Fatalf("unexpected wave 9 stats: %+v", w9)
	}
	last := r.Waves[2]
	if last.BestSplit != 180 || last.BestDelta != 40 || last.AvgDelta != 45 {
		t.Fatalf("unexpected last stats: %+v", last)
	}
	// Wave 9 deltas: avg 60, best 50; wave 18: 90 both; last: 45 vs 40.
	if len(r.Weakest) != 3 || r.Weakest[0] != "9" || r.Weakest[1] != model.LastWave {
		t.Fatalf("unexpected weakest: %v", r.Weakest)
	}
}

func TestBuildReportEmpty(t *testing.T) {
	r := BuildReport(nil)
	var buf bytes.Buffer
	if err := RenderSummary(&buf, r); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No attempts found." {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, BuildReport(collection())); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Attempts: 3", "Successes: 2 (66.67%)", "Personal best: 3:00", "Average completion: 3:10", "Last attempt: 2024-05-01 22:00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderAttempts(t *testing.T) {
	c := collection()
	c[1].Splits.SetNull("18")
	var buf bytes.Buffer
	if err := RenderAttempts(&buf, c, []model.WaveID{"9", "18"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header and 3 rows, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "Date") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "2:30 (+1:30)") || !strings.Contains(lines[1], "Success") {
		t.Fatalf("unexpected first row: %q", lines[1])
	}
	if !strings.Contains(lines[2], "N/A") || !strings.Contains(lines[2], "Fail") {
		t.Fatalf("unexpected second row: %q", lines[2])
	}
}

func TestRenderWaveTable(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderWaveTable(&buf, BuildReport(collection())); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "Best Split") {
		t.Fatalf("expected header in output:\n%s", buf.String())
	}
}

func TestRenderView(t *testing.T) {
	cfg := model.ViewConfig{
		Mode:       model.ModeRaw,
		ShowSplits: true,
		Selected:   model.NewWaveSet("9", "18", model.LastWave),
	}
	var buf bytes.Buffer
	if err := RenderView(&buf, collection(), cfg, PlotOptions{Width: 20, Height: 6}); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "Splits\n") {
		t.Fatalf("expected title first:\n%s", out)
	}
	if !strings.Contains(out, "Completion") || !strings.Contains(out, "9 Split") {
		t.Fatalf("expected legend entries:\n%s", out)
	}
}
