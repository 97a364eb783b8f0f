// Package migration applies the numbered SQL files that define the local
// state database schema.
package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/MarkBevz50/focusflow/internal/logger"
)

// ErrSchemaTooNew means the database was written by a newer focusflow.
var ErrSchemaTooNew = errors.New("database schema is newer than this version of focusflow supports")

// Migration is one NNN_name.sql file.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Status describes where a database stands relative to the bundled files.
type Status struct {
	Current int
	Latest  int
}

// Pending returns how many migrations have not been applied yet.
func (s Status) Pending() int {
	if s.Latest <= s.Current {
		return 0
	}
	return s.Latest - s.Current
}

// Runner manages database schema migrations
type Runner struct {
	db    *sql.DB
	files fs.FS
}

// NewRunner creates a runner over a directory of migration files.
func NewRunner(db *sql.DB, files fs.FS) *Runner {
	return &Runner{db: db, files: files}
}

func (r *Runner) ensureVersionTable(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version    INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL
		)
	`)
	return err
}

// CurrentVersion returns the applied schema version, 0 for a fresh database.
func (r *Runner) CurrentVersion(ctx context.Context) (int, error) {
	if err := r.ensureVersionTable(ctx); err != nil {
		return 0, fmt.Errorf("failed to ensure schema_version table: %w", err)
	}
	var version sql.NullInt64
	if err := r.db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return int(version.Int64), nil
}

// Migrations parses the migration files in version order.
func (r *Runner) Migrations() ([]Migration, error) {
	entries, err := fs.ReadDir(r.files, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var out []Migration
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != ".sql" {
			continue
		}
		m, err := parseName(name)
		if err != nil {
			return nil, err
		}
		content, err := fs.ReadFile(r.files, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		m.SQL = string(content)
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	for i := 1; i < len(out); i++ {
		if out[i].Version == out[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", out[i].Version)
		}
	}
	return out, nil
}

func parseName(filename string) (Migration, error) {
	prefix, rest, ok := strings.Cut(filename, "_")
	if !ok {
		return Migration{}, fmt.Errorf("invalid migration filename %s (expected NNN_name.sql)", filename)
	}
	version, err := strconv.Atoi(prefix)
	if err != nil || version < 1 {
		return Migration{}, fmt.Errorf("invalid version number in migration filename %s", filename)
	}
	return Migration{Version: version, Name: strings.TrimSuffix(rest, ".sql")}, nil
}

// Status compares the database against the bundled migrations.
func (r *Runner) Status(ctx context.Context) (Status, error) {
	current, err := r.CurrentVersion(ctx)
	if err != nil {
		return Status{}, err
	}
	ms, err := r.Migrations()
	if err != nil {
		return Status{}, err
	}
	st := Status{Current: current}
	if len(ms) > 0 {
		st.Latest = ms[len(ms)-1].Version
	}
	if st.Current > st.Latest {
		return st, fmt.Errorf("%w (database %d, supported %d)", ErrSchemaTooNew, st.Current, st.Latest)
	}
	return st, nil
}

// Apply runs every pending migration, each in its own transaction, and
// returns how many were applied.
func (r *Runner) Apply(ctx context.Context) (int, error) {
	st, err := r.Status(ctx)
	if err != nil {
		return 0, err
	}
	if st.Pending() == 0 {
		logger.For(logger.Migration).Debug("schema up to date", "version", st.Current)
		return 0, nil
	}

	ms, err := r.Migrations()
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, m := range ms {
		if m.Version <= st.Current {
			continue
		}
		if err := r.applyOne(ctx, m); err != nil {
			return applied, err
		}
		applied++
		logger.For(logger.Migration).Info("applied migration", "version", m.Version, "name", m.Name)
	}
	return applied, nil
}

func (r *Runner) applyOne(ctx context.Context, m Migration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_version (version, applied_at) VALUES (?, ?)",
		m.Version, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
	}
	return nil
}
