package collection

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/splitlog/internal/logparse"
	"github.com/verte-zerg/splitlog/internal/model"
)

// FilterFunc returns true when a file found in a directory should be loaded.
type FilterFunc func(name string) bool

// IsLogFile accepts plain text log files.
func IsLogFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".txt")
}

// Stats summarizes one load.
type Stats struct {
	Files   int
	Parsed  int
	Skipped int
	Elapsed time.Duration
}

// Loader reads log files from disk and builds a collection.
type Loader struct {
	builder *Builder
	filter  FilterFunc
}

// NewLoader returns a Loader that keeps .txt files found in directories.
func NewLoader(builder *Builder) *Loader {
	return &Loader{builder: builder, filter: IsLogFile}
}

// Discover expands directories into the log files they contain. Files named
// explicitly are always kept. The result is sorted and deduplicated.
func (l *Loader) Discover(paths []string) ([]string, error) {
	seen := map[string]struct{}{}
	var out []string
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !l.filter(d.Name()) {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Load discovers, reads and parses the logs under paths.
func (l *Loader) Load(ctx context.Context, paths []string) (model.Collection, Stats, error) {
	start := time.Now()
	files, err := l.Discover(paths)
	if err != nil {
		return nil, Stats{}, err
	}
	attempts, err := l.builder.run(ctx, len(files), func(i int) (logparse.File, error) {
		return ReadFile(files[i])
	})
	if err != nil {
		return nil, Stats{}, err
	}
	return attempts, Stats{
		Files:   len(files),
		Parsed:  len(attempts),
		Skipped: len(files) - len(attempts),
		Elapsed: time.Since(start),
	}, nil
}

// ReadFile loads one log file with its base name and modification time.
func ReadFile(path string) (logparse.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return logparse.File{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return logparse.File{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return logparse.File{
		Name:    filepath.Base(path),
		Content: string(data),
		ModTime: info.ModTime(),
	}, nil
}
