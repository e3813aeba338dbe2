// Package store handles SQLite persistence of import history and saved views.
// Parsed attempts are never stored; logs are re-read on every load.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/splitlog/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrViewNotFound is returned by LoadView for unknown names.
var ErrViewNotFound = errors.New("view not found")

// Store wraps SQLite access for import history and views.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS imports (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			source TEXT NOT NULL,
			files INTEGER NOT NULL,
			parsed INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS views (
			name TEXT PRIMARY KEY,
			mode TEXT NOT NULL,
			show_splits INTEGER NOT NULL,
			waves TEXT NOT NULL,
			min_bound REAL NOT NULL,
			max_bound REAL NOT NULL,
			exclude_above REAL NOT NULL,
			by_date INTEGER NOT NULL,
			theme TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_imports_started_at ON imports(started_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RecordImport stores a load batch summary and returns its id.
func (s *Store) RecordImport(ctx context.Context, rec model.ImportRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO imports (started_at, source, files, parsed, skipped, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.Source,
		rec.Files,
		rec.Parsed,
		rec.Skipped,
		rec.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListImports returns the most recent import batches, newest first.
// A non-positive limit returns every batch.
func (s *Store) ListImports(ctx context.Context, limit int) ([]model.ImportRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, source, files, parsed, skipped, duration_ms
		 FROM imports
		 ORDER BY started_at DESC, id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.ImportRecord
	for rows.Next() {
		var rec model.ImportRecord
		var startedAt string
		if err := rows.Scan(&rec.ID, &startedAt, &rec.Source, &rec.Files, &rec.Parsed, &rec.Skipped, &rec.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, err
		}
		rec.StartedAt = parsed
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SaveView inserts or replaces a named view.
func (s *Store) SaveView(ctx context.Context, name string, view model.ViewConfig) error {
	if name == "" {
		return fmt.Errorf("view name is empty")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO views (name, mode, show_splits, waves, min_bound, max_bound, exclude_above, by_date, theme, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			mode = excluded.mode,
			show_splits = excluded.show_splits,
			waves = excluded.waves,
			min_bound = excluded.min_bound,
			max_bound = excluded.max_bound,
			exclude_above = excluded.exclude_above,
			by_date = excluded.by_date,
			theme = excluded.theme,
			updated_at = excluded.updated_at`,
		name,
		string(view.Mode),
		boolToInt(view.ShowSplits),
		view.Selected.String(),
		view.MinBound,
		view.MaxBound,
		view.ExcludeAbove,
		boolToInt(view.IndexByDate),
		string(view.Theme),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

// LoadView returns a named view or ErrViewNotFound.
func (s *Store) LoadView(ctx context.Context, name string) (model.SavedView, error) {
	row := s.db.QueryRowContext(ctx, viewSelect+` WHERE name = ?`, name)
	view, err := scanView(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SavedView{}, fmt.Errorf("%w: %s", ErrViewNotFound, name)
	}
	return view, err
}

// ListViews returns every saved view ordered by name.
func (s *Store) ListViews(ctx context.Context) ([]model.SavedView, error) {
	rows, err := s.db.QueryContext(ctx, viewSelect+` ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.SavedView
	for rows.Next() {
		view, err := scanView(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteView removes a named view. Unknown names are not an error.
func (s *Store) DeleteView(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM views WHERE name = ?`, name)
	return err
}

const viewSelect = `SELECT name, mode, show_splits, waves, min_bound, max_bound, exclude_above, by_date, theme, updated_at FROM views`

type scanner interface {
	Scan(dest ...any) error
}

func scanView(row scanner) (model.SavedView, error) {
	var (
		view               model.SavedView
		mode, waves, theme string
		updatedAt          string
		showSplits, byDate int
	)
	if err := row.Scan(&view.Name, &mode, &showSplits, &waves, &view.View.MinBound, &view.View.MaxBound,
		&view.View.ExcludeAbove, &byDate, &theme, &updatedAt); err != nil {
		return model.SavedView{}, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return model.SavedView{}, err
	}
	view.UpdatedAt = parsed
	view.View.Mode = model.Mode(mode)
	view.View.ShowSplits = showSplits != 0
	view.View.Selected = model.ParseWaveSet(waves)
	view.View.IndexByDate = byDate != 0
	view.View.Theme = model.Theme(theme)
	return view, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
