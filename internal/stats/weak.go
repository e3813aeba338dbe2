package stats

import (
	"sort"

	"github.com/verte-zerg/splitlog/internal/model"
)

// WeakestWaves selects the waves whose average delta trails their best delta
// by the widest margin.
func WeakestWaves(waves []WaveStats, top int) []model.WaveID {
	if len(waves) == 0 {
		return nil
	}
	candidates := make([]WaveStats, 0, len(waves))
	for _, ws := range waves {
		if ws.Count > 1 {
			candidates = append(candidates, ws)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		gi := lostTime(candidates[i])
		gj := lostTime(candidates[j])
		if gi == gj {
			return candidates[i].Wave.Less(candidates[j].Wave)
		}
		return gi > gj
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	out := make([]model.WaveID, 0, top)
	for i := 0; i < top; i++ {
		out = append(out, candidates[i].Wave)
	}
	return out
}

func lostTime(ws WaveStats) float64 {
	return ws.AvgDelta - ws.BestDelta
}
