// Package generator writes synthetic split logs for demos and tests.
package generator

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/splitlog/internal/logparse"
	"github.com/verte-zerg/splitlog/internal/model"
	"github.com/verte-zerg/splitlog/internal/timecode"
)

// InfernoWaves are the split waves recorded by the Inferno Stats plugin.
var InfernoWaves = []model.WaveID{"9", "18", "25", "35", "42", "50", "57", "60", "63", "66", "67", "68", "69"}

// FightCavesWaves are the split waves recorded for the Fight Caves.
var FightCavesWaves = []model.WaveID{"7", "15", "31", "46", "53", "61", "62"}

// Options controls the shape of generated attempts.
type Options struct {
	Grammar    model.Grammar
	Waves      []model.WaveID
	SuccessPct float64
	Start      time.Time
	Spacing    time.Duration
	// WaveSeconds is the mean time spent in one wave.
	WaveSeconds float64
}

// Generator produces randomized attempts.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate produces count log files, one attempt each, spaced opts.Spacing apart.
func (g *Generator) Generate(opts Options, count int) []logparse.File {
	opts = withDefaults(opts)
	files := make([]logparse.File, 0, count)
	for i := 0; i < count; i++ {
		stamp := opts.Start.Add(time.Duration(i) * opts.Spacing)
		success := g.rnd.Float64() < opts.SuccessPct
		reached := len(opts.Waves)
		if !success {
			reached = 1 + g.rnd.Intn(len(opts.Waves))
		}
		deltas := g.waveDeltas(opts.WaveSeconds, reached)
		files = append(files, Render(opts.Grammar, stamp, i+1, opts.Waves[:reached], deltas, success, g.finalSegment(opts.WaveSeconds)))
	}
	return files
}

// waveDeltas picks integer wave times around mean with a weak bias toward later, longer waves.
func (g *Generator) waveDeltas(mean float64, n int) []int {
	out := make([]int, n)
	for i := range out {
		weight := 0.6 + 0.8*float64(i)/float64(maxInt(1, n))
		jitter := 0.75 + 0.5*g.rnd.Float64()
		out[i] = maxInt(1, int(mean*weight*jitter))
	}
	return out
}

func (g *Generator) finalSegment(mean float64) int {
	return maxInt(1, int(mean*(0.5+g.rnd.Float64())))
}

// Render writes one attempt in the given grammar. final is the time from the
// last split to completion and is only used for successful attempts.
func Render(grammar model.Grammar, stamp time.Time, kc int, waves []model.WaveID, deltas []int, success bool, final int) logparse.File {
	var b strings.Builder
	total := 0
	for i, wave := range waves {
		total += deltas[i]
		switch grammar {
		case model.GrammarKillCount:
			fmt.Fprintf(&b, "Wave: %s, Time: %s\n", wave, timecode.Format(float64(total)))
		default:
			fmt.Fprintf(&b, "Wave: %s, Split: %s (%s)\n", wave, timecode.Format(float64(total)), timecode.Format(float64(deltas[i])))
		}
	}
	duration := total + final
	var name string
	switch grammar {
	case model.GrammarKillCount:
		stampText := stamp.Format("2006-01-02 15;04;05")
		if success {
			fmt.Fprintf(&b, "Duration: %s\n", timecode.Format(float64(duration)))
			name = fmt.Sprintf("Inferno %d KC, %s.txt", kc, stampText)
		} else {
			name = fmt.Sprintf("Inferno Failed KC, %s.txt", stampText)
		}
	default:
		stampText := stamp.Format("2006-01-02 15-04-05")
		if success {
			fmt.Fprintf(&b, "Duration (Success): %s\n", timecode.Format(float64(duration)))
			name = fmt.Sprintf("%s on Wave %s.txt", stampText, waves[len(waves)-1])
		} else {
			fmt.Fprintf(&b, "Duration (Fail): %s\n", timecode.Format(float64(total)))
			name = fmt.Sprintf("%s Failed on Wave %s.txt", stampText, waves[len(waves)-1])
		}
	}
	return logparse.File{Name: name, Content: b.String(), ModTime: stamp}
}

// WriteDir writes files into dir and stamps each with its ModTime, so the
// mod-time fallback sees the same timestamp as the file name.
func WriteDir(dir string, files []logparse.File) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create sample directory: %w", err)
	}
	for _, f := range files {
		path := filepath.Join(dir, f.Name)
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		if !f.ModTime.IsZero() {
			if err := os.Chtimes(path, f.ModTime, f.ModTime); err != nil {
				return fmt.Errorf("failed to stamp %s: %w", path, err)
			}
		}
	}
	return nil
}

func withDefaults(opts Options) Options {
	if len(opts.Waves) == 0 {
		opts.Waves = InfernoWaves
	}
	if opts.Start.IsZero() {
		opts.Start = time.Now().Add(-24 * time.Hour).Truncate(time.Second)
	}
	if opts.Spacing <= 0 {
		opts.Spacing = time.Hour
	}
	if opts.WaveSeconds <= 0 {
		opts.WaveSeconds = 240
	}
	return opts
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
