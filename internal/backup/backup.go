// Package backup keeps timestamped copies of file-based habit stores.
package backup

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
)

// Format is the on-disk format of the store being backed up
type Format string

const (
	FormatSQLite Format = "sqlite"
	FormatJSON   Format = "json"
)

// ErrUnsupported is returned for stores that are not a local file
var ErrUnsupported = errors.New("backups are only available for SQLite and JSON stores")

const (
	minuteLayout = "20060102-1504"
	secondLayout = "20060102-150405"
)

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager handles backup operations for one store file
type Manager struct {
	dbPath    string
	backupDir string
	format    Format
	clock     utils.Clock
}

// NewManager creates a manager for the store at dbPath. A .json path is
// treated as a JSON store, anything else as SQLite.
func NewManager(dbPath string) *Manager {
	format := FormatSQLite
	if strings.EqualFold(filepath.Ext(dbPath), ".json") {
		format = FormatJSON
	}
	return &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		format:    format,
		clock:     utils.SystemClock{},
	}
}

// ForStore returns a manager for provider, or ErrUnsupported when the
// provider does not live in a local file.
func ForStore(provider storage.Provider) (*Manager, error) {
	path := provider.GetConfigPath()
	if path == "memory" || path == "postgresql" {
		return nil, ErrUnsupported
	}
	return NewManager(path), nil
}

// WithClock sets the clock used to stamp backup names
func (m *Manager) WithClock(c utils.Clock) *Manager {
	m.clock = c
	return m
}

func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

func (m *Manager) Format() Format {
	return m.format
}

func (m *Manager) suffix() string {
	if m.format == FormatJSON {
		return ".json"
	}
	return ".db"
}

// CreateBackup copies the store into the backup directory and prunes old
// backups beyond constants.MaxBackups.
func (m *Manager) CreateBackup() (string, error) {
	path, err := m.createBackup()
	if err != nil {
		return "", err
	}

	if err := m.rotateBackups(); err != nil {
		logger.Warn("failed to rotate old backups", "error", err)
	}
	return path, nil
}

func (m *Manager) createBackup() (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	if _, err := os.Stat(m.dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("database does not exist: %s", m.dbPath)
	}

	backupPath, err := m.nextBackupPath()
	if err != nil {
		return "", err
	}

	switch m.format {
	case FormatJSON:
		if err := verifyJSON(m.dbPath); err != nil {
			return "", fmt.Errorf("refusing to back up unreadable store: %w", err)
		}
		err = copyFile(m.dbPath, backupPath)
	default:
		err = m.backupSQLite(backupPath)
	}
	if err != nil {
		return "", fmt.Errorf("failed to backup database: %w", err)
	}

	logger.Info("backup created", "path", backupPath)
	return backupPath, nil
}

// nextBackupPath picks an unused name, falling back to second precision and
// then a counter when backups are taken in quick succession.
func (m *Manager) nextBackupPath() (string, error) {
	now := m.clock.Now()
	candidates := []string{
		constants.BackupFilePrefix + now.Format(minuteLayout) + m.suffix(),
		constants.BackupFilePrefix + now.Format(secondLayout) + m.suffix(),
	}
	for i := 1; i <= 100; i++ {
		candidates = append(candidates, fmt.Sprintf("%s%s-%d%s", constants.BackupFilePrefix, now.Format(secondLayout), i, m.suffix()))
	}

	for _, name := range candidates {
		path := filepath.Join(m.backupDir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
	}
	return "", errors.New("failed to generate unique backup filename")
}

func (m *Manager) backupSQLite(destPath string) error {
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
		logger.Debug("VACUUM INTO failed, copying file instead", "error", err)
		return copyFile(m.dbPath, destPath)
	}
	return nil
}

// ListBackups returns backups for this store's format, newest first
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ts, ok := m.parseName(entry.Name())
		if !ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		backups = append(backups, BackupInfo{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: ts,
			Size:      info.Size(),
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})

	return backups, nil
}

// parseName extracts the timestamp from habitual-YYYYMMDD-HHMM[SS][-N].ext
func (m *Manager) parseName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, m.suffix()) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), m.suffix())

	// Drop a trailing collision counter
	if parts := strings.Split(stamp, "-"); len(parts) == 3 {
		stamp = parts[0] + "-" + parts[1]
	}

	for _, layout := range []string{minuteLayout, secondLayout} {
		if ts, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}

	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// ResolvePath accepts an absolute path or a file name inside the backup directory
func (m *Manager) ResolvePath(name string) (string, error) {
	path := name
	if !filepath.IsAbs(path) {
		inDir := filepath.Join(m.backupDir, name)
		if _, err := os.Stat(inDir); err == nil {
			path = inDir
		}
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("backup file not found: %s", name)
	}
	return path, nil
}

// RestoreBackup replaces the store with backupPath. The current store is
// backed up first and the copy is renamed into place.
func (m *Manager) RestoreBackup(backupPath string) error {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup file does not exist: %s", backupPath)
	}

	if err := m.verify(backupPath); err != nil {
		return fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	if _, err := os.Stat(m.dbPath); err == nil {
		current, err := m.createBackup()
		if err != nil {
			return fmt.Errorf("failed to backup current database before restore: %w", err)
		}
		logger.Info("backed up current store before restore", "path", current)
	}

	tempPath := m.dbPath + ".restore.tmp"
	if err := copyFile(backupPath, tempPath); err != nil {
		return fmt.Errorf("failed to copy backup file: %w", err)
	}

	if err := os.Rename(tempPath, m.dbPath); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			logger.Warn("failed to remove temporary restore file", "path", tempPath, "error", removeErr)
		}
		return fmt.Errorf("failed to restore database: %w", err)
	}

	logger.Info("store restored", "from", backupPath)
	return nil
}

func (m *Manager) verify(path string) error {
	if m.format == FormatJSON {
		return verifyJSON(path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	var count int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

func verifyJSON(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var doc storage.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.Version < 1 {
		return fmt.Errorf("unsupported document version %d", doc.Version)
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
