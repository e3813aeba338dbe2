package stats

import (
	"testing"
)

func TestFastestAttempts(t *testing.T) {
	top := FastestAttempts(collection(), 5)
	if len(top) != 2 {
		t.Fatalf("expected 2 successes, got %d", len(top))
	}
	if top[0].Duration != 180 || top[1].Duration != 200 {
		t.Fatalf("unexpected order: %v %v", top[0].Duration, top[1].Duration)
	}
	if FastestAttempts(collection(), 0) != nil {
		t.Fatalf("expected nil for n=0")
	}
}

func TestWeakestWaves(t *testing.T) {
	waves := []WaveStats{
		{Wave: "9", Count: 2, BestDelta: 50, AvgDelta: 55},
		{Wave: "18", Count: 2, BestDelta: 60, AvgDelta: 80},
		{Wave: "25", Count: 1, BestDelta: 10, AvgDelta: 90},
	}
	got := WeakestWaves(waves, 1)
	if len(got) != 1 || got[0] != "18" {
		t.Fatalf("unexpected weakest: %v", got)
	}
}
