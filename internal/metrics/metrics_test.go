package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/splitlog/internal/model"
)

func attempt(day int, success bool, duration float64, waves ...any) model.Attempt {
	var splits, deltas model.SplitMap
	prev := 0.0
	for i := 0; i+1 < len(waves); i += 2 {
		w := model.WaveID(waves[i].(string))
		v, ok := waves[i+1].(float64)
		if !ok {
			splits.SetNull(w)
			deltas.SetNull(w)
			continue
		}
		splits.Set(w, v)
		deltas.Set(w, v-prev)
		prev = v
	}
	return model.Attempt{
		Timestamp: time.Date(2024, 1, day, 12, 0, 0, 0, time.UTC),
		Splits:    splits,
		Deltas:    deltas,
		Success:   success,
		Duration:  duration,
	}
}

func value(t *testing.T, m model.SplitMap, w model.WaveID) float64 {
	t.Helper()
	v, ok := m.Get(w)
	require.True(t, ok, "wave %s missing", w)
	return v
}

func TestFinalSegment(t *testing.T) {
	v, ok := FinalSegment(attempt(1, true, 130, "9", 60.0, "18", 120.0))
	require.True(t, ok)
	require.Equal(t, 10.0, v)

	_, ok = FinalSegment(attempt(1, false, 120, "9", 60.0, "18", 120.0))
	require.False(t, ok)

	_, ok = FinalSegment(attempt(1, true, 130, "9", 60.0, "18", nil))
	require.False(t, ok)
}

func TestDeriveRaw(t *testing.T) {
	c := model.Collection{
		attempt(1, true, 130, "9", 60.0, "18", 120.0),
		attempt(2, false, 70, "9", 70.0),
	}
	out := Derive(c, model.ModeRaw)
	require.Len(t, out, 2)

	require.Equal(t, 130.0, value(t, out[0].Splits, model.LastWave))
	require.Equal(t, 10.0, value(t, out[0].Deltas, model.LastWave))
	require.Equal(t, 60.0, value(t, out[0].Deltas, "18"))

	require.False(t, out[1].Splits.Has(model.LastWave))
	require.True(t, out[1].Deltas.Has(model.LastWave))
	_, ok := out[1].Deltas.Get(model.LastWave)
	require.False(t, ok)

	// The input collection is never mutated.
	require.False(t, c[0].Splits.Has(model.LastWave))
}

func TestDerivePersonalBest(t *testing.T) {
	c := model.Collection{
		attempt(1, true, 130, "9", 60.0, "18", 120.0),
		attempt(2, true, 125, "9", 62.0, "18", 118.0),
		attempt(3, false, 61, "9", 61.0),
		attempt(4, true, 140, "9", 55.0, "18", 130.0),
	}
	out := Derive(c, model.ModePB)
	require.Len(t, out, 4)

	require.Equal(t, 60.0, value(t, out[0].Splits, "9"))
	require.Equal(t, 130.0, value(t, out[0].Splits, model.LastWave))

	require.False(t, out[1].Splits.Has("9"))
	require.Equal(t, 118.0, value(t, out[1].Splits, "18"))
	require.Equal(t, 125.0, value(t, out[1].Splits, model.LastWave))
	require.Equal(t, 7.0, value(t, out[1].Deltas, model.LastWave))

	require.Zero(t, out[2].Splits.Len())
	require.Equal(t, 55.0, value(t, out[3].Splits, "9"))
	require.False(t, out[3].Splits.Has(model.LastWave))
}

func TestDerivePersonalBestStrictlyDecreases(t *testing.T) {
	var c model.Collection
	durations := []float64{300, 310, 290, 290, 280, 295, 270}
	for i, d := range durations {
		c = append(c, attempt(i+1, true, d, "9", d/2))
	}
	prev := map[model.WaveID]float64{}
	for _, d := range Derive(c, model.ModePB) {
		d.Splits.Each(func(w model.WaveID, v float64, ok bool) {
			require.True(t, ok)
			if p, seen := prev[w]; seen {
				require.Less(t, v, p)
			}
			prev[w] = v
		})
	}
	require.Equal(t, 270.0, prev[model.LastWave])
}

func TestDeriveMovingAverage(t *testing.T) {
	c := model.Collection{
		attempt(1, false, 100, "9", 100.0),
		attempt(2, false, 110, "9", 110.0),
		attempt(3, false, 50, "18", 50.0),
		attempt(4, false, 120, "9", nil, "18", 60.0),
	}
	out := Derive(c, model.ModeEMA)
	require.Len(t, out, 4)

	require.Equal(t, 100.0, value(t, out[0].Splits, "9"))
	require.InDelta(t, 101.8181818, value(t, out[1].Splits, "9"), 1e-6)

	// A wave seen for the first time is seeded with its own value; absent waves
	// are neither emitted nor updated.
	require.False(t, out[2].Splits.Has("9"))
	require.Equal(t, 50.0, value(t, out[2].Splits, "18"))
	require.False(t, out[3].Splits.Has("9"))
	require.InDelta(t, 50+10*AlphaForWindow(EMAWindow), value(t, out[3].Splits, "18"), 1e-9)
}

func TestEMA(t *testing.T) {
	e := NewEMA(AlphaForWindow(10))
	require.Equal(t, 100.0, e.Update(100))
	require.InDelta(t, 101.8181818, e.Update(110), 1e-6)
	require.InDelta(t, 101.8181818, e.Value(), 1e-6)
}

func TestExcludeAbove(t *testing.T) {
	c := model.Collection{
		attempt(1, true, 100, "9", 50.0),
		attempt(2, true, 200, "9", 50.0),
		attempt(3, true, 150, "9", 50.0),
	}
	out := ExcludeAbove(c, 150)
	require.Len(t, out, 2)
	require.Equal(t, 100.0, out[0].Duration)
	require.Equal(t, 150.0, out[1].Duration)
	require.Len(t, ExcludeAbove(nil, 10), 0)
}
