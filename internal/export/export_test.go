package export

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/splitlog/internal/model"
)

func sample() model.Collection {
	var splits, deltas model.SplitMap
	splits.Set("9", 200)
	deltas.Set("9", 200)
	splits.SetNull("18")
	deltas.SetNull("18")
	return model.Collection{{
		Source:    "a.txt",
		Grammar:   model.GrammarKillCount,
		Timestamp: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		LastWave:  "18",
		Splits:    splits,
		Deltas:    deltas,
		Duration:  200,
	}}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
	_, err = ParseFormat("csv")
	assert.Error(t, err)
}

func TestRecords(t *testing.T) {
	recs := Records(sample())
	require.Len(t, recs, 1)
	assert.Equal(t, "killcount", recs[0].Grammar)
	require.Len(t, recs[0].Waves, 2)
	require.NotNil(t, recs[0].Waves[0].Split)
	assert.Equal(t, 200.0, *recs[0].Waves[0].Split)
	assert.Nil(t, recs[0].Waves[1].Split)
	assert.Nil(t, recs[0].Waves[1].Delta)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(), FormatJSON))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "18", decoded[0]["last_wave"])
	waves := decoded[0]["waves"].([]any)
	assert.Nil(t, waves[1].(map[string]any)["split"])
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(), FormatYAML))
	assert.Contains(t, buf.String(), "last_wave:")

	var decoded []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, 200, decoded[0]["duration"])
	assert.Equal(t, "18", decoded[0]["last_wave"])
}
