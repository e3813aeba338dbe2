package browser

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/splitlog/internal/collection"
	"github.com/verte-zerg/splitlog/internal/model"
)

type fakeSource struct {
	gen      uint64
	attempts model.Collection
	calls    int
}

func (f *fakeSource) Begin() uint64 {
	f.gen++
	return f.gen
}

func (f *fakeSource) LoadGeneration(_ context.Context, gen uint64, _ []string) (model.Collection, collection.Stats, error) {
	f.calls++
	if gen != f.gen {
		return nil, collection.Stats{}, collection.ErrSuperseded
	}
	return f.attempts, collection.Stats{Files: len(f.attempts), Parsed: len(f.attempts)}, nil
}

func fixture() model.Collection {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var c model.Collection
	for i, dur := range []float64{3700, 3500} {
		var splits, deltas model.SplitMap
		splits.Set("9", 200+float64(i))
		deltas.Set("9", 200+float64(i))
		splits.Set("18", 500)
		deltas.Set("18", 300-float64(i))
		c = append(c, model.Attempt{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			LastWave:  "69",
			Splits:    splits,
			Deltas:    deltas,
			Success:   true,
			Duration:  dur,
		})
	}
	return c
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T, src *fakeSource) *Model {
	t.Helper()
	m := NewModel(Options{Source: src, View: model.ViewConfig{Mode: model.ModeRaw}})
	cmd := m.Init()
	require.NotNil(t, cmd)
	m.Update(cmd())
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func TestToggleExclusive(t *testing.T) {
	all := []model.WaveID{"9", "18", "last"}

	got := ToggleExclusive(model.NewWaveSet(all...), all, "18")
	assert.Equal(t, model.NewWaveSet("18"), got)

	got = ToggleExclusive(model.NewWaveSet("18"), all, "18")
	assert.Equal(t, model.NewWaveSet(all...), got)

	got = ToggleExclusive(model.NewWaveSet("9"), all, "18")
	assert.Equal(t, model.NewWaveSet("18"), got)

	got = ToggleExclusive(model.WaveSet{}, all, "last")
	assert.Equal(t, model.NewWaveSet("last"), got)
}

func TestToggleDoesNotMutate(t *testing.T) {
	selected := model.NewWaveSet("9", "18")
	got := Toggle(selected, "9")
	assert.Equal(t, model.NewWaveSet("18"), got)
	assert.True(t, selected.Has("9"))
	assert.True(t, Toggle(got, "9").Has("9"))
}

func TestLoadSelectsAllWaves(t *testing.T) {
	src := &fakeSource{attempts: fixture()}
	m := loaded(t, src)

	assert.Equal(t, []model.WaveID{"9", "18", "last"}, m.waves)
	assert.Equal(t, model.NewWaveSet("9", "18", "last"), m.ViewConfig().Selected)
	assert.Equal(t, 2, m.report.Attempts)
	assert.Contains(t, m.View(), "Chart")
}

func TestStaleLoadIsDropped(t *testing.T) {
	src := &fakeSource{attempts: fixture()}
	m := NewModel(Options{Source: src})
	first := m.Init()
	second := m.reload()

	m.Update(first())
	assert.True(t, m.loading)
	assert.Empty(t, m.attempts)

	m.Update(second())
	assert.False(t, m.loading)
	assert.Len(t, m.attempts, 2)
}

func TestKeysChangeView(t *testing.T) {
	src := &fakeSource{attempts: fixture()}
	m := loaded(t, src)

	m.Update(keyRunes("m"))
	assert.Equal(t, model.ModePB, m.ViewConfig().Mode)
	m.Update(keyRunes("s"))
	assert.True(t, m.ViewConfig().ShowSplits)
	m.Update(keyRunes("d"))
	assert.True(t, m.ViewConfig().IndexByDate)

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, model.NewWaveSet("18"), m.ViewConfig().Selected)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Len(t, m.ViewConfig().Selected, 3)

	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, m.ViewConfig().Selected.Has("18"))

	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, model.LastWave, m.waves[m.cursor])
}

func TestReloadKey(t *testing.T) {
	src := &fakeSource{attempts: fixture()}
	m := loaded(t, src)

	_, cmd := m.Update(keyRunes("r"))
	require.NotNil(t, cmd)
	assert.True(t, m.loading)
	m.Update(cmd())
	assert.False(t, m.loading)
	assert.Equal(t, 2, src.calls)
}

func TestBoundsForm(t *testing.T) {
	src := &fakeSource{attempts: fixture()}
	m := loaded(t, src)

	m.Update(keyRunes("/"))
	require.True(t, m.filterMode)
	m.filterInputs[0].SetValue("1:00")
	m.filterInputs[1].SetValue("90")
	m.filterInputs[2].SetValue("1:05:00")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.False(t, m.filterMode)
	view := m.ViewConfig()
	assert.Equal(t, 60.0, view.MinBound)
	assert.Equal(t, 90.0, view.MaxBound)
	assert.Equal(t, 3900.0, view.ExcludeAbove)
}

func TestBoundsFormRejectsInvalid(t *testing.T) {
	src := &fakeSource{attempts: fixture()}
	m := loaded(t, src)

	m.Update(keyRunes("/"))
	m.filterInputs[0].SetValue("soon")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.filterMode)
	assert.Contains(t, m.filterError, "invalid duration")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.filterMode)
	assert.Zero(t, m.ViewConfig().MinBound)
}

func TestTabsRender(t *testing.T) {
	src := &fakeSource{attempts: fixture()}
	m := loaded(t, src)

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, tabAttempts, m.activeTab)
	assert.Contains(t, m.View(), "Duration")

	m.Update(keyRunes("3"))
	assert.Equal(t, tabSummary, m.activeTab)
	assert.Contains(t, m.View(), "Personal best")
	assert.True(t, strings.Contains(m.View(), "58:20"))
}

func TestQuit(t *testing.T) {
	m := NewModel(Options{})
	_, cmd := m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
