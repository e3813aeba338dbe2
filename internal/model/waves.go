package model

import (
	"sort"
	"strconv"
	"strings"
)

// WaveID names a checkpoint within an attempt. Ordering is numeric.
type WaveID string

// LastWave is the synthetic id for the completion time and final segment.
const LastWave WaveID = "last"

// Number returns the numeric value of the wave id.
func (w WaveID) Number() (int, bool) {
	n, err := strconv.Atoi(string(w))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Less orders numeric ids first by value, then other ids lexically, with LastWave at the end.
func (w WaveID) Less(other WaveID) bool {
	if w == LastWave || other == LastWave {
		return other == LastWave && w != LastWave
	}
	a, aok := w.Number()
	b, bok := other.Number()
	switch {
	case aok && bok:
		return a < b
	case aok:
		return true
	case bok:
		return false
	default:
		return w < other
	}
}

// SortWaves sorts ids in place using WaveID.Less.
func SortWaves(waves []WaveID) {
	sort.Slice(waves, func(i, j int) bool { return waves[i].Less(waves[j]) })
}

// WaveSet is an unordered selection of wave ids.
type WaveSet map[WaveID]struct{}

// NewWaveSet builds a set from ids.
func NewWaveSet(waves ...WaveID) WaveSet {
	set := make(WaveSet, len(waves))
	for _, w := range waves {
		set[w] = struct{}{}
	}
	return set
}

// ParseWaveSet parses a comma-separated list such as "9,18,last".
func ParseWaveSet(s string) WaveSet {
	set := WaveSet{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		set[WaveID(strings.ToLower(part))] = struct{}{}
	}
	return set
}

// Has reports whether the wave is selected.
func (s WaveSet) Has(w WaveID) bool {
	_, ok := s[w]
	return ok
}

// Sorted returns the ids in wave order.
func (s WaveSet) Sorted() []WaveID {
	out := make([]WaveID, 0, len(s))
	for w := range s {
		out = append(out, w)
	}
	SortWaves(out)
	return out
}

// String renders the set as a comma-separated list in wave order.
func (s WaveSet) String() string {
	sorted := s.Sorted()
	parts := make([]string, len(sorted))
	for i, w := range sorted {
		parts[i] = string(w)
	}
	return strings.Join(parts, ",")
}

// Clone copies the set.
func (s WaveSet) Clone() WaveSet {
	out := make(WaveSet, len(s))
	for w := range s {
		out[w] = struct{}{}
	}
	return out
}
