// Package backup keeps timestamped copies of the SQLite habit database.
package backup

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
)

const stampLayout = "20060102-150405"

// backup file names: habitual-YYYYMMDD-HHMMSS[-N].db
var backupName = regexp.MustCompile(`^` + regexp.QuoteMeta(constants.BackupFilePrefix) +
	`(\d{8}-\d{6})(?:-(\d+))?` + regexp.QuoteMeta(constants.BackupFileSuffix) + `$`)

// ErrNotHabitualDB is returned when a restore source lacks the habitual schema.
var ErrNotHabitualDB = errors.New("file is not a habitual database")

type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

type Manager struct {
	dbPath    string
	backupDir string
	keep      int
	now       func() time.Time
}

type Option func(*Manager)

// WithRetention sets how many backups rotation keeps.
func WithRetention(n int) Option {
	return func(m *Manager) { m.keep = n }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a backup manager storing copies next to dbPath under
// the backups directory.
func NewManager(dbPath string, opts ...Option) *Manager {
	m := &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		keep:      constants.MaxBackups,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

// CreateBackup copies the database into the backup directory and rotates
// old copies.
func (m *Manager) CreateBackup() (string, error) {
	path, err := m.createBackup()
	if err != nil {
		return "", err
	}
	if err := m.rotateBackups(); err != nil {
		logger.Warn("Failed to rotate old backups", "error", err)
	}
	return path, nil
}

func (m *Manager) createBackup() (string, error) {
	if _, err := os.Stat(m.dbPath); errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("database does not exist: %s", m.dbPath)
	}
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path, err := m.nextBackupPath()
	if err != nil {
		return "", err
	}
	if err := m.backupDatabase(path); err != nil {
		return "", fmt.Errorf("failed to backup database: %w", err)
	}
	logger.Info("Backup created", "path", path)
	return path, nil
}

func (m *Manager) nextBackupPath() (string, error) {
	stamp := m.now().Format(stampLayout)
	path := filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return path, nil
		}
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		path = filepath.Join(m.backupDir, fmt.Sprintf("%s%s-%d%s", constants.BackupFilePrefix, stamp, counter, constants.BackupFileSuffix))
	}
}

// backupDatabase writes a consistent copy with VACUUM INTO, falling back to
// a plain file copy when the running SQLite cannot do that.
func (m *Manager) backupDatabase(destPath string) error {
	src, err := sql.Open("sqlite", m.dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer src.Close()

	var count int
	if err := src.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}

	if _, err := src.Exec("VACUUM INTO ?", destPath); err != nil {
		logger.Debug("VACUUM INTO failed, copying file", "error", err)
		src.Close()
		return copyFile(m.dbPath, destPath)
	}
	return nil
}

// ListBackups returns available backups, newest first.
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if errors.Is(err, os.ErrNotExist) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	type ranked struct {
		BackupInfo
		counter int
	}
	var found []ranked
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := backupName.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		ts, err := time.ParseInLocation(stampLayout, match[1], time.Local)
		if err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		counter, _ := strconv.Atoi(match[2])
		found = append(found, ranked{
			BackupInfo: BackupInfo{Path: filepath.Join(m.backupDir, entry.Name()), Timestamp: ts, Size: info.Size()},
			counter:    counter,
		})
	}

	sort.Slice(found, func(i, j int) bool {
		if !found[i].Timestamp.Equal(found[j].Timestamp) {
			return found[i].Timestamp.After(found[j].Timestamp)
		}
		return found[i].counter > found[j].counter
	})

	backups := make([]BackupInfo, len(found))
	for i, r := range found {
		backups[i] = r.BackupInfo
	}
	return backups, nil
}

func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for i := m.keep; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
		logger.Debug("Rotated backup", "path", backups[i].Path)
	}
	return nil
}

// RestoreBackup replaces the database with backupPath. The current database
// is backed up first (without rotation); that copy's path is returned.
func (m *Manager) RestoreBackup(backupPath string) (string, error) {
	if _, err := os.Stat(backupPath); errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}
	if err := verifyBackup(backupPath); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var preRestore string
	if _, err := os.Stat(m.dbPath); err == nil {
		preRestore, err = m.createBackup()
		if err != nil {
			return "", fmt.Errorf("failed to backup current database before restore: %w", err)
		}
	}

	tempPath := m.dbPath + ".restore.tmp"
	if err := copyFile(backupPath, tempPath); err != nil {
		return preRestore, fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tempPath, m.dbPath); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			logger.Warn("Failed to remove temporary file", "path", tempPath, "error", removeErr)
		}
		return preRestore, fmt.Errorf("failed to restore database: %w", err)
	}

	logger.Info("Backup restored", "from", backupPath, "pre_restore", preRestore)
	return preRestore, nil
}

// verifyBackup checks that path opens as SQLite and carries the habits table.
func verifyBackup(path string) error {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()

	var n int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'habits'").Scan(&n)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotHabitualDB
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
