package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/MarkBevz50/focusflow/internal/constants"
	"github.com/MarkBevz50/focusflow/internal/logger"
	"github.com/MarkBevz50/focusflow/internal/migration"
	"github.com/MarkBevz50/focusflow/internal/storage"
	"github.com/MarkBevz50/focusflow/migrations"
)

// Store is the SQLite-backed storage.Provider.
type Store struct {
	path string
	db   *sql.DB
}

var _ storage.Provider = (*Store)(nil)

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Init creates the database if needed, applies migrations and seeds default
// settings. It is safe to call on an existing database.
func (s *Store) Init(ctx context.Context) error {
	if s.db != nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := s.open(); err != nil {
		return err
	}

	if err := s.migrate(ctx); err != nil {
		s.Close()
		return err
	}

	settings, err := s.GetSettings(ctx)
	if err != nil || settings.WeekStart == "" {
		if settings.WeekStart == "" {
			settings.WeekStart = constants.DefaultWeekStart
		}
		if err := s.SaveSettings(ctx, settings); err != nil {
			s.Close()
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}
	logger.For(logger.Storage).Debug("local state ready", "path", s.path)
	return nil
}

// Load opens an existing database without creating it.
func (s *Store) Load(ctx context.Context) error {
	if s.db != nil {
		return nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return storage.ErrNotInitialized
	}
	if err := s.open(); err != nil {
		return err
	}
	_, err := s.SchemaStatus(ctx)
	return err
}

func (s *Store) migrate(ctx context.Context) error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	if _, err := runner.Apply(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// conn returns the open database, or ErrNotInitialized before a successful
// Init or Load.
func (s *Store) conn() (*sql.DB, error) {
	if s.db == nil {
		return nil, storage.ErrNotInitialized
	}
	return s.db, nil
}

// Ping checks that the database answers a query.
func (s *Store) Ping(ctx context.Context) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	var one int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func (s *Store) open() error {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps writes from the TUI and its commands serialized
	db.SetMaxOpenConns(1)
	s.db = db
	return nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) runner() (*migration.Runner, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(db, sub), nil
}

// SchemaStatus reports the applied and bundled schema versions.
func (s *Store) SchemaStatus(ctx context.Context) (migration.Status, error) {
	runner, err := s.runner()
	if err != nil {
		return migration.Status{}, err
	}
	return runner.Status(ctx)
}
