package stats

import (
	"time"

	"github.com/verte-zerg/splitlog/internal/metrics"
	"github.com/verte-zerg/splitlog/internal/model"
)

const weakestWaveCount = 3

// WaveStats aggregates one wave across a collection.
type WaveStats struct {
	Wave      model.WaveID
	Count     int
	BestSplit float64
	AvgSplit  float64
	BestDelta float64
	AvgDelta  float64
}

// Report contains precomputed data for summary rendering.
type Report struct {
	Attempts    int
	Successes   int
	SuccessRate float64
	Best        float64
	Average     float64
	Completions []float64
	Last        time.Time
	Waves       []WaveStats
	Weakest     []model.WaveID
}

type waveAcc struct {
	splits, deltas       int
	splitSum, deltaSum   float64
	bestSplit, bestDelta float64
}

// BuildReport aggregates a collection. Final segments of successful attempts
// are reported under the "last" wave.
func BuildReport(c model.Collection) Report {
	r := Report{Attempts: len(c)}
	if len(c) == 0 {
		return r
	}
	accs := map[model.WaveID]*waveAcc{}
	get := func(w model.WaveID) *waveAcc {
		acc, ok := accs[w]
		if !ok {
			acc = &waveAcc{}
			accs[w] = acc
		}
		return acc
	}
	var total float64
	for _, a := range c {
		if a.Timestamp.After(r.Last) {
			r.Last = a.Timestamp
		}
		a.Splits.Each(func(w model.WaveID, v float64, ok bool) {
			if ok {
				get(w).addSplit(v)
			}
		})
		a.Deltas.Each(func(w model.WaveID, v float64, ok bool) {
			if ok {
				get(w).addDelta(v)
			}
		})
		if !a.Success {
			continue
		}
		r.Successes++
		total += a.Duration
		r.Completions = append(r.Completions, a.Duration)
		if r.Successes == 1 || a.Duration < r.Best {
			r.Best = a.Duration
		}
		get(model.LastWave).addSplit(a.Duration)
		if final, ok := metrics.FinalSegment(a); ok {
			get(model.LastWave).addDelta(final)
		}
	}
	r.SuccessRate = float64(r.Successes) / float64(r.Attempts)
	if r.Successes > 0 {
		r.Average = total / float64(r.Successes)
	}

	waves := make([]model.WaveID, 0, len(accs))
	for w := range accs {
		waves = append(waves, w)
	}
	model.SortWaves(waves)
	for _, w := range waves {
		r.Waves = append(r.Waves, accs[w].stats(w))
	}
	r.Weakest = WeakestWaves(r.Waves, weakestWaveCount)
	return r
}

func (a *waveAcc) addSplit(v float64) {
	if a.splits == 0 || v < a.bestSplit {
		a.bestSplit = v
	}
	a.splits++
	a.splitSum += v
}

func (a *waveAcc) addDelta(v float64) {
	if a.deltas == 0 || v < a.bestDelta {
		a.bestDelta = v
	}
	a.deltas++
	a.deltaSum += v
}

func (a *waveAcc) stats(w model.WaveID) WaveStats {
	ws := WaveStats{Wave: w, Count: a.splits, BestSplit: a.bestSplit, BestDelta: a.bestDelta}
	if a.splits > 0 {
		ws.AvgSplit = a.splitSum / float64(a.splits)
	}
	if a.deltas > 0 {
		ws.AvgDelta = a.deltaSum / float64(a.deltas)
	}
	return ws
}
