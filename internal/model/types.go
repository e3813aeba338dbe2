// Package model defines shared data structures.
package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Grammar names one of the supported split log formats.
type Grammar int

const (
	// GrammarSplits is the Inferno Stats plugin format ("Wave: 9, Split: 3:12 (3:12)").
	GrammarSplits Grammar = iota
	// GrammarKillCount is the kill-count logger format ("Wave: 9, Time: 3:12").
	GrammarKillCount
)

func (g Grammar) String() string {
	switch g {
	case GrammarSplits:
		return "splits"
	case GrammarKillCount:
		return "killcount"
	default:
		return fmt.Sprintf("grammar(%d)", int(g))
	}
}

// Attempt is one recorded run reconstructed from a single log file.
type Attempt struct {
	Source    string
	Grammar   Grammar
	Timestamp time.Time
	LastWave  WaveID
	Splits    SplitMap
	Deltas    SplitMap
	Success   bool
	Duration  float64
}

// Collection is a batch of attempts ordered ascending by timestamp.
type Collection []Attempt

// DerivedAttempt carries mode-specific splits and deltas for one attempt.
type DerivedAttempt struct {
	Timestamp time.Time
	Success   bool
	Duration  float64
	Splits    SplitMap
	Deltas    SplitMap
}

// Mode selects how attempts are projected before charting.
type Mode string

const (
	ModeRaw Mode = "raw"
	ModePB  Mode = "pb"
	ModeEMA Mode = "ema"
)

// Modes lists the view modes in display order.
var Modes = []Mode{ModeRaw, ModePB, ModeEMA}

// ParseMode accepts the short mode names and their long aliases.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "raw", "run", "actual":
		return ModeRaw, nil
	case "pb", "personal-best", "best":
		return ModePB, nil
	case "ema", "moving-average", "average", "avg":
		return ModeEMA, nil
	default:
		return "", fmt.Errorf("unknown mode %q (use raw, pb or ema)", s)
	}
}

// Label returns the human name of the mode.
func (m Mode) Label() string {
	switch m {
	case ModePB:
		return "PB Improvement"
	case ModeEMA:
		return "Moving Average"
	default:
		return "Actual time"
	}
}

// Next cycles through Modes.
func (m Mode) Next() Mode {
	for i, mode := range Modes {
		if mode == m {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return ModeRaw
}

// Theme selects the light or dark palette.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dark":
		return ThemeDark, nil
	case "light":
		return ThemeLight, nil
	default:
		return "", fmt.Errorf("unknown theme %q (use light or dark)", s)
	}
}

// ViewConfig describes what the charting layer should show.
// A MaxBound or ExcludeAbove of zero means no limit.
type ViewConfig struct {
	Mode         Mode
	ShowSplits   bool
	Selected     WaveSet
	MinBound     float64
	MaxBound     float64
	ExcludeAbove float64
	IndexByDate  bool
	Theme        Theme
}

// Bounds returns the inclusive display bounds with zero max treated as unbounded.
func (c ViewConfig) Bounds() (lo, hi float64) {
	hi = c.MaxBound
	if hi <= 0 {
		hi = math.Inf(1)
	}
	return c.MinBound, hi
}

// ExcludeLimit returns the maximum kept duration, +Inf when unset.
func (c ViewConfig) ExcludeLimit() float64 {
	if c.ExcludeAbove <= 0 {
		return math.Inf(1)
	}
	return c.ExcludeAbove
}

// Point is one chart datum.
type Point struct {
	X         float64
	Y         float64
	RunIndex  int
	Timestamp time.Time
	Split     *float64
	Delta     *float64
}

// ChartSeries is a named, colored list of points.
type ChartSeries struct {
	Key    WaveID
	Label  string
	Color  string
	Points []Point
}

// Row is one run-indexed chart row holding only the selected waves.
type Row struct {
	RunIndex  int
	Timestamp time.Time
	Values    SplitMap
}

// ImportRecord summarizes one load batch.
type ImportRecord struct {
	ID         int64
	StartedAt  time.Time
	Source     string
	Files      int
	Parsed     int
	Skipped    int
	DurationMs int64
}

// SavedView is a named view configuration.
type SavedView struct {
	Name      string
	View      ViewConfig
	UpdatedAt time.Time
}
