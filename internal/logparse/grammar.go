package logparse

import (
	"regexp"
	"strings"
	"time"

	"github.com/verte-zerg/splitlog/internal/model"
)

const timestampLayout = "2006-01-02 15:04:05"

var (
	splitsWaveRe    = regexp.MustCompile(`Wave:\s*(\d+),\s*Split:\s*([\d:;.]+)(?:\s*\(([^)]*)\))?`)
	killCountWaveRe = regexp.MustCompile(`Wave:\s*(\d+),\s*Time:\s*([\d:;.]+)`)
	durationRe      = regexp.MustCompile(`Duration(?:\s*\((\w+)\))?:\s*([\d:;.]+)`)
	onWaveRe        = regexp.MustCompile(`on Wave (\d+)`)

	stampPattern    = `(\d{4})-(\d{2})-(\d{2})[ _T](\d{2})[-_;.:](\d{2})[-_;.:](\d{2})`
	prefixStampRe   = regexp.MustCompile(`^` + stampPattern)
	anywhereStampRe = regexp.MustCompile(stampPattern)
)

// grammar describes how one log format is read.
type grammar struct {
	wave           *regexp.Regexp
	explicitDeltas bool
	timestamp      func(name string) (time.Time, bool)
	lastWave       func(name string, splits model.SplitMap) model.WaveID
	success        func(name, label string, hasDuration bool) bool
}

var grammars = map[model.Grammar]grammar{
	model.GrammarSplits: {
		wave:           splitsWaveRe,
		explicitDeltas: true,
		timestamp:      func(name string) (time.Time, bool) { return matchStamp(prefixStampRe, name) },
		lastWave: func(name string, splits model.SplitMap) model.WaveID {
			if m := onWaveRe.FindStringSubmatch(name); m != nil {
				return model.WaveID(m[1])
			}
			return lastObserved(splits)
		},
		success: func(_, label string, _ bool) bool {
			return strings.EqualFold(label, "Success")
		},
	},
	model.GrammarKillCount: {
		wave:      killCountWaveRe,
		timestamp: func(name string) (time.Time, bool) { return matchStamp(anywhereStampRe, name) },
		lastWave: func(_ string, splits model.SplitMap) model.WaveID {
			return lastObserved(splits)
		},
		success: func(name, label string, hasDuration bool) bool {
			if label != "" {
				return strings.EqualFold(label, "Success")
			}
			return hasDuration && !failedKillCount(name)
		},
	},
}

func matchStamp(re *regexp.Regexp, name string) (time.Time, bool) {
	m := re.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, false
	}
	normalized := m[1] + "-" + m[2] + "-" + m[3] + " " + m[4] + ":" + m[5] + ":" + m[6]
	t, err := time.ParseInLocation(timestampLayout, normalized, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func lastObserved(splits model.SplitMap) model.WaveID {
	w, _ := splits.Last()
	return w
}
