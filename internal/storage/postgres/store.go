package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	pq "github.com/lib/pq"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/migration"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/sqlstore"
	"github.com/julianstephens/habitual/migrations"
)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

type Store struct {
	*sqlstore.Queries

	connStr      string
	db           *sql.DB
	migrationLog func(string)
}

var _ storage.Provider = (*Store)(nil)

func New(connStr string) *Store {
	s := &Store{
		connStr:      connStr,
		migrationLog: func(msg string) { logger.Info(msg) },
	}
	s.ensureSearchPath()
	return s
}

// SetMigrationLog routes migration progress messages to fn.
func (s *Store) SetMigrationLog(fn func(string)) {
	s.migrationLog = fn
}

// IsConnString reports whether a --config value names a PostgreSQL database
// rather than a SQLite file path.
func IsConnString(value string) bool {
	return strings.HasPrefix(value, "postgres://") ||
		strings.HasPrefix(value, "postgresql://") ||
		strings.Contains(value, "host=") ||
		strings.Contains(value, "dbname=")
}

func isURL(connStr string) bool {
	return strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://")
}

// ensureSearchPath pins the connection to the application schema unless the
// caller chose one.
func (s *Store) ensureSearchPath() {
	if isURL(s.connStr) {
		u, err := url.Parse(s.connStr)
		if err != nil {
			logger.Warn("Failed to parse Postgres connection string", "error", err)
			return
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", constants.AppName)
			u.RawQuery = q.Encode()
			s.connStr = u.String()
		}
		return
	}

	if !hasParam(s.connStr, "search_path") {
		s.connStr = strings.TrimSpace(s.connStr) + " search_path=" + constants.AppName
	}
}

// hasParam reports whether a DSN-style connection string (space-separated
// key=value pairs) sets key, compared case-insensitively.
func hasParam(connStr, key string) bool {
	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], key) {
			return true
		}
	}
	return false
}

// hasSSLMode checks URL query parameters and DSN pairs for sslmode.
func hasSSLMode(connStr string) bool {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" {
		for key := range u.Query() {
			if strings.EqualFold(key, "sslmode") {
				return true
			}
		}
	}
	return hasParam(connStr, "sslmode")
}

// ValidateConnString checks that connStr is a well-formed PostgreSQL URI or
// DSN and that it carries no password. Passwords belong in the OS keyring,
// HABITUAL_DB_CONNECTION or ~/.pgpass.
func ValidateConnString(connStr string) (bool, error) {
	if strings.TrimSpace(connStr) == "" {
		return false, fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}

	if _, err := pq.NewConnector(connStr); err != nil {
		return false, fmt.Errorf("%w: invalid connection string format: %v", ErrInvalidConnectionString, err)
	}

	if isURL(connStr) {
		parsedURL, err := url.Parse(connStr)
		if err != nil {
			return false, fmt.Errorf("%w: failed to parse connection URL: %v", ErrInvalidConnectionString, err)
		}
		if _, isSet := parsedURL.User.Password(); isSet {
			return false, ErrEmbeddedCredentials
		}
		if parsedURL.Host == "" && parsedURL.User == nil && (parsedURL.Path == "" || parsedURL.Path == "/") {
			return false, fmt.Errorf("%w: connection URL is incomplete", ErrInvalidConnectionString)
		}
		return true, nil
	}

	if hasParam(connStr, "password") {
		return false, ErrEmbeddedCredentials
	}
	return true, nil
}

// Redact hides any password in a connection string for display.
func Redact(connStr string) string {
	if isURL(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return "postgresql"
		}
		return u.Redacted()
	}
	fields := strings.Fields(connStr)
	for i, f := range fields {
		kv := strings.SplitN(f, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], "password") {
			fields[i] = kv[0] + "=xxxxx"
		}
	}
	return strings.Join(fields, " ")
}

func (s *Store) connect() (*sql.DB, error) {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(s.connStr) {
			return nil, fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func (s *Store) attach(db *sql.DB) {
	s.db = db
	s.Queries = sqlstore.New(db, sqlstore.Dollar)
}

func (s *Store) Init() error {
	if s.db == nil {
		db, err := s.connect()
		if err != nil {
			return err
		}
		if _, err := db.Exec("CREATE SCHEMA IF NOT EXISTS " + constants.AppName); err != nil {
			db.Close()
			return fmt.Errorf("failed to create schema: %w", err)
		}
		s.attach(db)
	}

	if _, err := s.runner().ApplyMigrations(s.migrationLog); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

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

	db, err := s.connect()
	if err != nil {
		return err
	}
	s.attach(db)

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
	sub, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		panic(fmt.Sprintf("postgres migrations missing from embedded FS: %v", err))
	}
	return migration.NewRunner(s.db, sub, migration.DialectPostgres)
}

func (s *Store) MigrationStatus() (migration.Status, error) {
	if err := s.Load(); err != nil {
		return migration.Status{}, err
	}
	return s.runner().Status()
}

func (s *Store) Migrate(logFn func(string)) (int, error) {
	if err := s.Load(); err != nil {
		return 0, err
	}
	return s.runner().ApplyMigrations(logFn)
}

// GetConfigPath returns a non-sensitive identifier instead of the connection string.
func (s *Store) GetConfigPath() string {
	return "postgresql"
}
