package logparse

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"time"

	"github.com/verte-zerg/splitlog/internal/model"
	"github.com/verte-zerg/splitlog/internal/timecode"
)

// implausibleDuration is the attempt length above which a warning is logged.
const implausibleDuration = 4 * 60 * 60

var (
	// ErrNoWaves is returned when a file holds no wave markers.
	ErrNoWaves = errors.New("no wave markers found")
	// ErrNoTimestamp is returned when neither the name nor the mod time dates the file.
	ErrNoTimestamp = errors.New("no timestamp in file name")
	// ErrUnknownGrammar is returned for a grammar without a parse table entry.
	ErrUnknownGrammar = errors.New("unknown log grammar")
)

// File is a raw log file.
type File struct {
	Name    string
	Content string
	ModTime time.Time
}

// Parser extracts attempts from log files.
type Parser struct {
	logger *slog.Logger
}

// NewParser returns a Parser that reports anomalies to logger.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Parser{logger: logger}
}

// Parse builds one attempt from a file. Files the grammar cannot read return
// an error and should be skipped by the caller.
func (p *Parser) Parse(f File) (model.Attempt, error) {
	kind := Detect(f.Name)
	g, ok := grammars[kind]
	if !ok {
		return model.Attempt{}, fmt.Errorf("%s: %w", f.Name, ErrUnknownGrammar)
	}

	stamp, ok := g.timestamp(f.Name)
	if !ok {
		if f.ModTime.IsZero() {
			return model.Attempt{}, fmt.Errorf("%s: %w", f.Name, ErrNoTimestamp)
		}
		stamp = f.ModTime
	}

	splits, explicit := scanWaves(g.wave, f.Content)
	if splits.Len() == 0 {
		return model.Attempt{}, fmt.Errorf("%s: %w", f.Name, ErrNoWaves)
	}
	deltas := DeltasFromSplits(splits)
	if g.explicitDeltas {
		deltas = mergeDeltas(deltas, explicit)
	}

	label, duration, hasDuration := scanDuration(f.Content)
	if !hasDuration {
		duration = fallbackDuration(splits)
	}
	if maxSplit, ok := splits.Max(); ok && maxSplit > duration {
		p.logger.Debug("duration below last split, clamping",
			"file", f.Name, "duration", duration, "split", maxSplit)
		duration = maxSplit
	}
	if duration > implausibleDuration {
		p.logger.Warn("implausible attempt duration",
			"file", f.Name, "duration", timecode.Format(duration))
	}

	return model.Attempt{
		Source:    f.Name,
		Grammar:   kind,
		Timestamp: stamp,
		LastWave:  g.lastWave(f.Name, splits),
		Splits:    splits,
		Deltas:    deltas,
		Success:   g.success(f.Name, label, hasDuration),
		Duration:  duration,
	}, nil
}

// scanWaves collects wave splits in file order, plus any parenthesised deltas.
func scanWaves(re *regexp.Regexp, content string) (model.SplitMap, model.SplitMap) {
	var splits, explicit model.SplitMap
	for _, m := range re.FindAllStringSubmatch(content, -1) {
		wave := model.WaveID(m[1])
		if secs, ok := timecode.Parse(m[2]); ok {
			splits.Set(wave, secs)
		} else {
			splits.SetNull(wave)
		}
		if len(m) > 3 {
			if secs, ok := timecode.Parse(m[3]); ok {
				explicit.Set(wave, secs)
			}
		}
	}
	return splits, explicit
}

func scanDuration(content string) (label string, seconds float64, ok bool) {
	m := durationRe.FindStringSubmatch(content)
	if m == nil {
		return "", 0, false
	}
	seconds, ok = timecode.Parse(m[2])
	if !ok {
		return m[1], 0, false
	}
	return m[1], seconds, true
}

func fallbackDuration(splits model.SplitMap) float64 {
	if last, ok := splits.Last(); ok {
		if secs, ok := splits.Get(last); ok {
			return secs
		}
	}
	secs, _ := splits.Max()
	return secs
}

// DeltasFromSplits derives per-wave time as the difference to the previous
// non-null split. The first wave's delta is its own split.
func DeltasFromSplits(splits model.SplitMap) model.SplitMap {
	var deltas model.SplitMap
	prev := 0.0
	splits.Each(func(w model.WaveID, secs float64, ok bool) {
		if !ok {
			deltas.SetNull(w)
			return
		}
		deltas.Set(w, secs-prev)
		prev = secs
	})
	return deltas
}

// mergeDeltas prefers explicit deltas and keeps derived ones where absent.
func mergeDeltas(derived, explicit model.SplitMap) model.SplitMap {
	var out model.SplitMap
	derived.Each(func(w model.WaveID, secs float64, ok bool) {
		if v, found := explicit.Get(w); found {
			out.Set(w, v)
			return
		}
		if ok {
			out.Set(w, secs)
			return
		}
		out.SetNull(w)
	})
	return out
}
