package stats

import (
	"sort"

	"github.com/verte-zerg/splitlog/internal/model"
)

// FastestAttempts returns the n quickest successful attempts, earliest first
// on ties.
func FastestAttempts(c model.Collection, n int) []model.Attempt {
	if n <= 0 || len(c) == 0 {
		return nil
	}
	items := make([]model.Attempt, 0, len(c))
	for _, a := range c {
		if a.Success {
			items = append(items, a)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Duration == items[j].Duration {
			return items[i].Timestamp.Before(items[j].Timestamp)
		}
		return items[i].Duration < items[j].Duration
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
