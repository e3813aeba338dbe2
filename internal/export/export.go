// Package export serializes attempt collections as JSON or YAML.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/splitlog/internal/model"
)

// Format selects the output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (use json or yaml)", s)
	}
}

// Wave is one wave of an exported attempt. Null values stay nil.
type Wave struct {
	Wave  string   `json:"wave" yaml:"wave"`
	Split *float64 `json:"split" yaml:"split"`
	Delta *float64 `json:"delta" yaml:"delta"`
}

// Record is the exported form of an attempt.
type Record struct {
	Source    string    `json:"source" yaml:"source"`
	Grammar   string    `json:"grammar" yaml:"grammar"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	LastWave  string    `json:"last_wave" yaml:"last_wave"`
	Success   bool      `json:"success" yaml:"success"`
	Duration  float64   `json:"duration" yaml:"duration"`
	Waves     []Wave    `json:"waves" yaml:"waves"`
}

// Records converts a collection, keeping wave order.
func Records(c model.Collection) []Record {
	out := make([]Record, 0, len(c))
	for _, a := range c {
		rec := Record{
			Source:    a.Source,
			Grammar:   a.Grammar.String(),
			Timestamp: a.Timestamp,
			LastWave:  string(a.LastWave),
			Success:   a.Success,
			Duration:  a.Duration,
			Waves:     make([]Wave, 0, a.Splits.Len()),
		}
		for _, w := range a.Splits.Waves() {
			rec.Waves = append(rec.Waves, Wave{
				Wave:  string(w),
				Split: optional(a.Splits.Get(w)),
				Delta: optional(a.Deltas.Get(w)),
			})
		}
		out = append(out, rec)
	}
	return out
}

func optional(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &v
}

// Write encodes the collection to w.
func Write(w io.Writer, c model.Collection, format Format) error {
	records := Records(c)
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to flush yaml: %w", err)
		}
		return nil
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	}
}
