package model

// SplitMap maps wave ids to optional durations in seconds, preserving the
// order in which waves were inserted. The zero value is an empty map.
type SplitMap struct {
	order  []WaveID
	values map[WaveID]splitValue
}

type splitValue struct {
	seconds float64
	ok      bool
}

// Set stores a duration for the wave. Existing waves keep their position.
func (m *SplitMap) Set(w WaveID, seconds float64) {
	m.set(w, splitValue{seconds: seconds, ok: true})
}

// SetNull records the wave as observed without a usable duration.
func (m *SplitMap) SetNull(w WaveID) {
	m.set(w, splitValue{})
}

func (m *SplitMap) set(w WaveID, v splitValue) {
	if m.values == nil {
		m.values = map[WaveID]splitValue{}
	}
	if _, ok := m.values[w]; !ok {
		m.order = append(m.order, w)
	}
	m.values[w] = v
}

// Get returns the duration for the wave; ok is false when missing or null.
func (m SplitMap) Get(w WaveID) (float64, bool) {
	v, ok := m.values[w]
	if !ok || !v.ok {
		return 0, false
	}
	return v.seconds, true
}

// Has reports whether the wave key is present, null or not.
func (m SplitMap) Has(w WaveID) bool {
	_, ok := m.values[w]
	return ok
}

// Len returns the number of keys.
func (m SplitMap) Len() int {
	return len(m.order)
}

// Waves returns the keys in insertion order.
func (m SplitMap) Waves() []WaveID {
	return append([]WaveID(nil), m.order...)
}

// Last returns the most recently inserted key.
func (m SplitMap) Last() (WaveID, bool) {
	if len(m.order) == 0 {
		return "", false
	}
	return m.order[len(m.order)-1], true
}

// Max returns the largest non-null value.
func (m SplitMap) Max() (float64, bool) {
	var best float64
	found := false
	for _, w := range m.order {
		v := m.values[w]
		if !v.ok {
			continue
		}
		if !found || v.seconds > best {
			best = v.seconds
			found = true
		}
	}
	return best, found
}

// Each calls fn for every key in insertion order.
func (m SplitMap) Each(fn func(w WaveID, seconds float64, ok bool)) {
	for _, w := range m.order {
		v := m.values[w]
		fn(w, v.seconds, v.ok)
	}
}

// Clone returns an independent copy.
func (m SplitMap) Clone() SplitMap {
	return m.Select(func(WaveID) bool { return true })
}

// Select returns a copy holding only the waves accepted by keep.
func (m SplitMap) Select(keep func(WaveID) bool) SplitMap {
	var out SplitMap
	for _, w := range m.order {
		if keep(w) {
			out.set(w, m.values[w])
		}
	}
	return out
}
