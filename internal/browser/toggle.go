package browser

import "github.com/verte-zerg/splitlog/internal/model"

// ToggleExclusive focuses a single wave. Choosing a wave while others are
// active selects only that wave; choosing the only active wave selects all.
func ToggleExclusive(selected model.WaveSet, all []model.WaveID, w model.WaveID) model.WaveSet {
	if len(selected) == 1 && selected.Has(w) {
		return model.NewWaveSet(all...)
	}
	return model.NewWaveSet(w)
}

// Toggle flips a single wave.
func Toggle(selected model.WaveSet, w model.WaveID) model.WaveSet {
	out := selected.Clone()
	if out.Has(w) {
		delete(out, w)
	} else {
		out[w] = struct{}{}
	}
	return out
}
