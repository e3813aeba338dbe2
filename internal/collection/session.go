package collection

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/verte-zerg/splitlog/internal/model"
)

// ErrSuperseded is returned when a newer load started before this one finished.
var ErrSuperseded = errors.New("load superseded by a newer request")

type snapshot struct {
	gen      uint64
	attempts model.Collection
}

// Session holds the current collection and discards results of stale loads.
type Session struct {
	loader  *Loader
	gen     atomic.Uint64
	current atomic.Pointer[snapshot]
}

// NewSession returns an empty Session.
func NewSession(loader *Loader) *Session {
	return &Session{loader: loader}
}

// Begin starts a new load and returns its generation.
func (s *Session) Begin() uint64 {
	return s.gen.Add(1)
}

// Commit installs attempts if gen is still the newest load. It reports whether
// the collection was replaced.
func (s *Session) Commit(gen uint64, attempts model.Collection) bool {
	if gen != s.gen.Load() {
		return false
	}
	next := &snapshot{gen: gen, attempts: attempts}
	for {
		cur := s.current.Load()
		if cur != nil && cur.gen >= gen {
			return false
		}
		if s.current.CompareAndSwap(cur, next) {
			return true
		}
	}
}

// Current returns the last committed collection.
func (s *Session) Current() model.Collection {
	snap := s.current.Load()
	if snap == nil {
		return nil
	}
	return snap.attempts
}

// Load reads paths under a fresh generation and commits the result.
func (s *Session) Load(ctx context.Context, paths []string) (model.Collection, Stats, error) {
	gen := s.Begin()
	return s.LoadGeneration(ctx, gen, paths)
}

// LoadGeneration reads paths for a generation obtained from Begin.
func (s *Session) LoadGeneration(ctx context.Context, gen uint64, paths []string) (model.Collection, Stats, error) {
	attempts, stats, err := s.loader.Load(ctx, paths)
	if err != nil {
		return nil, stats, err
	}
	if !s.Commit(gen, attempts) {
		return nil, stats, ErrSuperseded
	}
	return attempts, stats, nil
}
