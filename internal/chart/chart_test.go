package chart

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/splitlog/internal/model"
)

func sample() model.Collection {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	var out model.Collection
	for i, total := range []float64{3100, 2950, 3300} {
		var splits, deltas model.SplitMap
		splits.Set("67", total-200)
		deltas.Set("67", total-200)
		splits.Set("68", total-100)
		deltas.Set("68", 100)
		out = append(out, model.Attempt{
			Timestamp: base.Add(time.Duration(i) * 24 * time.Hour),
			LastWave:  "68",
			Splits:    splits,
			Deltas:    deltas,
			Success:   true,
			Duration:  total,
		})
	}
	return out
}

func TestRenderLinePage(t *testing.T) {
	t.Parallel()

	cfg := model.ViewConfig{
		Mode:       model.ModeRaw,
		ShowSplits: true,
		Selected:   model.NewWaveSet("67", model.LastWave),
		Theme:      model.ThemeDark,
	}
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sample(), cfg))

	out := buf.String()
	assert.Contains(t, out, "67 Split")
	assert.Contains(t, out, "Completion")
	assert.Contains(t, out, "Sub 45")
	assert.Contains(t, out, "Sub 65")
	assert.Contains(t, out, "Splits to Jad")
}

func TestLineDeltasHaveNoReferenceLines(t *testing.T) {
	t.Parallel()

	cfg := model.ViewConfig{
		Mode:     model.ModePB,
		Selected: model.NewWaveSet("68"),
		Theme:    model.ThemeLight,
	}
	line := Line(sample(), cfg)
	require.NotNil(t, line)

	var buf bytes.Buffer
	require.NoError(t, line.Render(&buf))
	assert.NotContains(t, buf.String(), "Sub 45")
	assert.Contains(t, buf.String(), "Personal Best Wave Deltas to Triples")
}

func TestRenderScatterPage(t *testing.T) {
	t.Parallel()

	cfg := model.ViewConfig{
		ShowSplits:  true,
		Selected:    model.NewWaveSet("68", model.LastWave),
		IndexByDate: true,
		Theme:       model.ThemeDark,
	}
	scatter := Scatter(sample(), cfg)
	require.NotNil(t, scatter)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sample(), cfg))
	out := buf.String()
	assert.Contains(t, out, "Wave 68")
	assert.Contains(t, out, "Wave last")
	assert.Contains(t, out, `"time"`)
}

func TestRenderEmptyCollection(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, nil, model.ViewConfig{Selected: model.NewWaveSet("9")}))
	assert.Positive(t, buf.Len())
}
