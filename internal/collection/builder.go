// Package collection builds ordered attempt collections from batches of log files.
package collection

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/splitlog/internal/logparse"
	"github.com/verte-zerg/splitlog/internal/model"
)

// Builder parses batches of files concurrently.
type Builder struct {
	parser *logparse.Parser
	logger *slog.Logger
	limit  int
}

// NewBuilder returns a Builder that parses up to GOMAXPROCS files at once.
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Builder{
		parser: logparse.NewParser(logger),
		logger: logger,
		limit:  runtime.GOMAXPROCS(0),
	}
}

// Build parses every file, drops the ones that fail and sorts the rest by timestamp.
// The only error is ctx cancellation.
func (b *Builder) Build(ctx context.Context, files []logparse.File) (model.Collection, error) {
	return b.run(ctx, len(files), func(i int) (logparse.File, error) {
		return files[i], nil
	})
}

// run fetches and parses n files concurrently. A fetch or parse failure drops the file.
func (b *Builder) run(ctx context.Context, n int, fetch func(i int) (logparse.File, error)) (model.Collection, error) {
	results := make([]*model.Attempt, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxInt(1, b.limit))
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := fetch(i)
			if err != nil {
				b.logger.Warn("failed to read log", "err", err)
				return nil
			}
			attempt, err := b.parser.Parse(f)
			if err != nil {
				b.logger.Debug("skipping log", "file", f.Name, "err", err)
				return nil
			}
			results[i] = &attempt
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(model.Collection, 0, n)
	for _, a := range results {
		if a != nil {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
