package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/migration"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/sqlstore"
	"github.com/julianstephens/habitual/migrations"
)

// ErrNotInitialized is returned by Load when the database file does not exist.
var ErrNotInitialized = errors.New("storage not initialized, run 'habitual init' first")

type Store struct {
	*sqlstore.Queries

	path         string
	db           *sql.DB
	migrationLog func(string)
}

type Option func(*Store)

// WithMigrationLog routes migration progress messages to fn.
func WithMigrationLog(fn func(string)) Option {
	return func(s *Store) { s.migrationLog = fn }
}

func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:         path,
		migrationLog: func(msg string) { logger.Info(msg) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ storage.Provider = (*Store)(nil)

func (s *Store) open() error {
	db, err := sql.Open("sqlite", s.path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer; one connection avoids SQLITE_BUSY between goroutines.
	db.SetMaxOpenConns(1)
	s.db = db
	s.Queries = sqlstore.New(db, sqlstore.Question)
	return nil
}

func (s *Store) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if s.db == nil {
		if err := s.open(); err != nil {
			return err
		}
	}

	if _, err := s.runner().ApplyMigrations(s.migrationLog); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Fill in defaults on a fresh database, keep existing values on re-init.
	if _, err := s.GetSettings(); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("failed to read settings: %w", err)
		}
		if err := s.SaveSettings(models.DefaultSettings()); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return ErrNotInitialized
	}

	if err := s.open(); err != nil {
		return err
	}

	return s.runner().ValidateVersion()
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		s.Queries = nil
		return err
	}
	return nil
}

func (s *Store) runner() *migration.Runner {
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		// the embed pattern guarantees the directory exists
		panic(fmt.Sprintf("sqlite migrations missing from embedded FS: %v", err))
	}
	return migration.NewRunner(s.db, sub, migration.DialectSQLite)
}

// MigrationStatus reports applied and pending migrations without applying them.
func (s *Store) MigrationStatus() (migration.Status, error) {
	if s.db == nil {
		if _, err := os.Stat(s.path); os.IsNotExist(err) {
			return migration.Status{}, ErrNotInitialized
		}
		if err := s.open(); err != nil {
			return migration.Status{}, err
		}
	}
	return s.runner().Status()
}

// Migrate applies pending migrations to an existing database.
func (s *Store) Migrate(logFn func(string)) (int, error) {
	if _, err := s.MigrationStatus(); err != nil {
		return 0, err
	}
	return s.runner().ApplyMigrations(logFn)
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the open connection, or nil before Init/Load.
func (s *Store) GetDB() *sql.DB {
	return s.db
}

// tableExists reports whether a table exists (case-insensitive, like SQLite itself).
func (s *Store) tableExists(tableName string) (bool, error) {
	var count int
	row := s.db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name COLLATE NOCASE = ?", tableName)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// RequiredTables lists the tables a migrated database must contain.
var RequiredTables = []string{"settings", "habits", "habit_logs", "habit_statistics", "scheduled_notifications", "schema_version"}

// MissingTables returns the required tables absent from the database.
func (s *Store) MissingTables() ([]string, error) {
	var missing []string
	for _, table := range RequiredTables {
		ok, err := s.tableExists(table)
		if err != nil {
			return nil, fmt.Errorf("failed to check table %s: %w", table, err)
		}
		if !ok {
			missing = append(missing, table)
		}
	}
	return missing, nil
}
