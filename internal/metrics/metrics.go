// Package metrics derives per-attempt views: raw with final segments,
// personal-best events and moving averages.
package metrics

import (
	"github.com/verte-zerg/splitlog/internal/model"
)

// EMAWindow is the smoothing window used by ModeEMA.
const EMAWindow = 10

// ExcludeAbove drops attempts whose duration exceeds max. It must run before
// Derive since it changes the history PB and EMA scans see.
func ExcludeAbove(c model.Collection, max float64) model.Collection {
	out := make(model.Collection, 0, len(c))
	for _, a := range c {
		if a.Duration <= max {
			out = append(out, a)
		}
	}
	return out
}

// FinalSegment returns the time from the last recorded split to completion.
// It is only defined for successful attempts with a usable last split.
func FinalSegment(a model.Attempt) (float64, bool) {
	if !a.Success {
		return 0, false
	}
	last, ok := a.Splits.Last()
	if !ok {
		return 0, false
	}
	split, ok := a.Splits.Get(last)
	if !ok {
		return 0, false
	}
	return a.Duration - split, true
}

// Derive projects each attempt according to mode, scanning left to right.
func Derive(c model.Collection, mode model.Mode) []model.DerivedAttempt {
	var step func(model.Attempt) model.DerivedAttempt
	switch mode {
	case model.ModePB:
		step = newBestScan().step
	case model.ModeEMA:
		step = newAverageScan(AlphaForWindow(EMAWindow)).step
	default:
		step = rawStep
	}
	out := make([]model.DerivedAttempt, len(c))
	for i, a := range c {
		out[i] = step(a)
	}
	return out
}

func derived(a model.Attempt, splits, deltas model.SplitMap) model.DerivedAttempt {
	return model.DerivedAttempt{
		Timestamp: a.Timestamp,
		Success:   a.Success,
		Duration:  a.Duration,
		Splits:    splits,
		Deltas:    deltas,
	}
}

func rawStep(a model.Attempt) model.DerivedAttempt {
	splits := a.Splits.Clone()
	deltas := a.Deltas.Clone()
	if a.Success {
		splits.Set(model.LastWave, a.Duration)
	}
	if final, ok := FinalSegment(a); ok {
		deltas.Set(model.LastWave, final)
	} else {
		deltas.SetNull(model.LastWave)
	}
	return derived(a, splits, deltas)
}

// bestScan keeps running minima and emits only strict improvements.
type bestScan struct {
	splits map[model.WaveID]float64
	deltas map[model.WaveID]float64
}

func newBestScan() *bestScan {
	return &bestScan{
		splits: map[model.WaveID]float64{},
		deltas: map[model.WaveID]float64{},
	}
}

func (s *bestScan) step(a model.Attempt) model.DerivedAttempt {
	var splits, deltas model.SplitMap
	a.Splits.Each(func(w model.WaveID, v float64, ok bool) {
		if ok && improve(s.splits, w, v) {
			splits.Set(w, v)
		}
	})
	a.Deltas.Each(func(w model.WaveID, v float64, ok bool) {
		if ok && improve(s.deltas, w, v) {
			deltas.Set(w, v)
		}
	})
	if a.Success && improve(s.splits, model.LastWave, a.Duration) {
		splits.Set(model.LastWave, a.Duration)
	}
	if final, ok := FinalSegment(a); ok && improve(s.deltas, model.LastWave, final) {
		deltas.Set(model.LastWave, final)
	}
	return derived(a, splits, deltas)
}

func improve(best map[model.WaveID]float64, w model.WaveID, v float64) bool {
	if prev, ok := best[w]; ok && v >= prev {
		return false
	}
	best[w] = v
	return true
}

// averageScan keeps one EMA per wave for splits and deltas.
type averageScan struct {
	alpha  float64
	splits map[model.WaveID]*EMA
	deltas map[model.WaveID]*EMA
}

func newAverageScan(alpha float64) *averageScan {
	return &averageScan{
		alpha:  alpha,
		splits: map[model.WaveID]*EMA{},
		deltas: map[model.WaveID]*EMA{},
	}
}

func (s *averageScan) step(a model.Attempt) model.DerivedAttempt {
	return derived(a, s.smooth(s.splits, a.Splits), s.smooth(s.deltas, a.Deltas))
}

// smooth updates the EMA of every non-null wave. Waves missing from values keep
// their state and are not emitted.
func (s *averageScan) smooth(state map[model.WaveID]*EMA, values model.SplitMap) model.SplitMap {
	var out model.SplitMap
	values.Each(func(w model.WaveID, v float64, ok bool) {
		if !ok {
			return
		}
		ema, found := state[w]
		if !found {
			ema = NewEMA(s.alpha)
			state[w] = ema
		}
		out.Set(w, ema.Update(v))
	})
	return out
}
