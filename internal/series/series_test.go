package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/splitlog/internal/model"
)

var base = time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)

func makeAttempt(hour int, success bool, duration float64, splits ...float64) model.Attempt {
	waves := []model.WaveID{"9", "18", "25"}
	var s, d model.SplitMap
	prev := 0.0
	for i, v := range splits {
		s.Set(waves[i], v)
		d.Set(waves[i], v-prev)
		prev = v
	}
	return model.Attempt{
		Timestamp: base.Add(time.Duration(hour) * time.Hour),
		Splits:    s,
		Deltas:    d,
		Success:   success,
		Duration:  duration,
	}
}

func sample() model.Collection {
	return model.Collection{
		makeAttempt(0, true, 200, 60, 120, 180),
		makeAttempt(1, false, 130, 70, 130),
		makeAttempt(2, true, 190, 55, 110, 170),
	}
}

func keys(series []model.ChartSeries) []model.WaveID {
	out := make([]model.WaveID, len(series))
	for i, s := range series {
		out[i] = s.Key
	}
	return out
}

func TestPointCloud(t *testing.T) {
	cfg := model.ViewConfig{
		ShowSplits: true,
		Selected:   model.NewWaveSet(model.LastWave, "18", "9"),
		MinBound:   0,
		MaxBound:   200,
		Theme:      model.ThemeDark,
	}
	got := PointCloud(sample(), cfg)
	require.Equal(t, []model.WaveID{"9", "18", model.LastWave}, keys(got))

	require.Equal(t, "Wave 9", got[0].Label)
	require.Equal(t, "cyan", got[0].Color)
	require.Len(t, got[0].Points, 3)
	require.Equal(t, 1.0, got[0].Points[1].X)
	require.Equal(t, 70.0, got[0].Points[1].Y)
	require.Equal(t, 70.0, *got[0].Points[1].Delta)

	// 200 equals the upper bound, so only the third attempt completes.
	last := got[2]
	require.Equal(t, "white", last.Color)
	require.Len(t, last.Points, 1)
	require.Equal(t, 2, last.Points[0].RunIndex)
	require.Equal(t, 190.0, last.Points[0].Y)
	require.Equal(t, 20.0, *last.Points[0].Delta)
}

func TestPointCloudBoundsAndDates(t *testing.T) {
	cfg := model.ViewConfig{
		Selected:    model.NewWaveSet("9"),
		MinBound:    56,
		MaxBound:    70,
		IndexByDate: true,
		Theme:       model.ThemeLight,
	}
	got := PointCloud(sample(), cfg)
	require.Len(t, got, 1)
	points := got[0].Points
	require.Len(t, points, 2)
	require.Equal(t, float64(base.UnixMilli()), points[0].X)
	require.Equal(t, float64(base.Add(time.Hour).UnixMilli()), points[1].X)
	// Deltas are plotted when splits are hidden.
	require.Equal(t, 70.0, points[1].Y)
	require.Equal(t, 70.0, *points[1].Split)
}

func TestPointCloudKeepsEmptySelectedSeries(t *testing.T) {
	cfg := model.ViewConfig{ShowSplits: true, Selected: model.NewWaveSet("69")}
	got := PointCloud(sample(), cfg)
	require.Len(t, got, 1)
	require.Equal(t, "violet", got[0].Color)
	require.Empty(t, got[0].Points)
}

func TestRunIndexed(t *testing.T) {
	cfg := model.ViewConfig{
		Mode:       model.ModeRaw,
		ShowSplits: false,
		Selected:   model.NewWaveSet("18", model.LastWave),
		Theme:      model.ThemeLight,
	}
	rows, got := RunIndexed(sample(), cfg)
	require.Len(t, rows, 3)
	for _, row := range rows {
		require.False(t, row.Values.Has("9"))
		require.False(t, row.Values.Has("25"))
	}
	v, ok := rows[0].Values.Get("18")
	require.True(t, ok)
	require.Equal(t, 60.0, v)

	require.Equal(t, []model.WaveID{"18", model.LastWave}, keys(got))
	require.Equal(t, "18 Delta", got[0].Label)
	require.Equal(t, "Final segment", got[1].Label)
	require.Equal(t, "black", got[1].Color)
	// The failed attempt has no final segment.
	require.Len(t, got[1].Points, 2)
	require.Equal(t, 20.0, got[1].Points[0].Y)
	require.Equal(t, 2, got[1].Points[1].RunIndex)
}

func TestRunIndexedExcludesBeforeDeriving(t *testing.T) {
	cfg := model.ViewConfig{
		Mode:         model.ModePB,
		ShowSplits:   true,
		Selected:     model.NewWaveSet(model.LastWave),
		ExcludeAbove: 195,
	}
	rows, got := RunIndexed(sample(), cfg)
	require.Len(t, rows, 2)
	require.Len(t, got, 1)
	require.Len(t, got[0].Points, 1)
	require.Equal(t, 190.0, got[0].Points[0].Y)
	require.Equal(t, "Completion", got[0].Label)
}

func TestAllWaves(t *testing.T) {
	require.Equal(t, []model.WaveID{"9", "18", "25", model.LastWave}, AllWaves(sample()))
	require.Equal(t, []model.WaveID{model.LastWave}, AllWaves(nil))
}

func TestColors(t *testing.T) {
	require.Equal(t, Color("9"), Color("7"))
	require.Equal(t, "gray", Color("99"))
	require.Equal(t, "white", LastColor(model.ThemeDark))
	require.Equal(t, "black", LastColor(model.ThemeLight))
	require.Equal(t, "#15aabf", Hex("cyan"))
	require.Equal(t, "#868e96", Hex("nope"))
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name string
		cfg  model.ViewConfig
		want string
	}{
		{
			name: "pb two waves",
			cfg:  model.ViewConfig{Mode: model.ModePB, ShowSplits: true, Selected: model.NewWaveSet("67", "35")},
			want: "Personal Best Splits to Mage and Jad",
		},
		{
			name: "ema deltas many waves",
			cfg:  model.ViewConfig{Mode: model.ModeEMA, Selected: model.NewWaveSet("9", "18", "25")},
			want: "Moving Average Wave Deltas",
		},
		{
			name: "raw unknown wave skipped",
			cfg:  model.ViewConfig{Mode: model.ModeRaw, ShowSplits: true, Selected: model.NewWaveSet(model.LastWave, "69")},
			want: "Splits to Zuk",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Title(tt.cfg))
		})
	}
}
