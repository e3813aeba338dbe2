package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaveOrder(t *testing.T) {
	waves := []WaveID{LastWave, "69", "9", "boss", "18", "100"}
	SortWaves(waves)
	assert.Equal(t, []WaveID{"9", "18", "69", "100", "boss", LastWave}, waves)
	assert.False(t, LastWave.Less(LastWave))
}

func TestSplitMapKeepsOrderAndNulls(t *testing.T) {
	var m SplitMap
	m.Set("18", 500)
	m.SetNull("9")
	m.Set("18", 510)

	assert.Equal(t, []WaveID{"18", "9"}, m.Waves())
	assert.True(t, m.Has("9"))
	_, ok := m.Get("9")
	assert.False(t, ok)
	v, ok := m.Get("18")
	require.True(t, ok)
	assert.Equal(t, 510.0, v)

	last, ok := m.Last()
	require.True(t, ok)
	assert.Equal(t, WaveID("9"), last)

	maxV, ok := m.Max()
	require.True(t, ok)
	assert.Equal(t, 510.0, maxV)
}

func TestSplitMapCloneIsIndependent(t *testing.T) {
	var m SplitMap
	m.Set("9", 200)
	c := m.Clone()
	c.Set("9", 100)
	c.Set("18", 300)

	v, _ := m.Get("9")
	assert.Equal(t, 200.0, v)
	assert.Equal(t, 1, m.Len())

	sel := c.Select(func(w WaveID) bool { return w == "18" })
	assert.Equal(t, []WaveID{"18"}, sel.Waves())
}

func TestEmptySplitMap(t *testing.T) {
	var m SplitMap
	_, ok := m.Last()
	assert.False(t, ok)
	_, ok = m.Max()
	assert.False(t, ok)
	assert.False(t, m.Has("9"))
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{
		"":               ModeRaw,
		"PB":             ModePB,
		"moving-average": ModeEMA,
		"actual":         ModeRaw,
	} {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseMode("fastest")
	assert.Error(t, err)

	assert.Equal(t, ModePB, ModeRaw.Next())
	assert.Equal(t, ModeEMA, ModePB.Next())
	assert.Equal(t, ModeRaw, ModeEMA.Next())
}

func TestParseWaveSet(t *testing.T) {
	set := ParseWaveSet(" 9,18, ,LAST")
	assert.Equal(t, NewWaveSet("9", "18", LastWave), set)
	assert.Equal(t, "9,18,last", set.String())
}

func TestViewBounds(t *testing.T) {
	lo, hi := ViewConfig{MinBound: 60}.Bounds()
	assert.Equal(t, 60.0, lo)
	assert.True(t, math.IsInf(hi, 1))
	assert.True(t, math.IsInf(ViewConfig{}.ExcludeLimit(), 1))
	assert.Equal(t, 4200.0, ViewConfig{ExcludeAbove: 4200}.ExcludeLimit())
}
