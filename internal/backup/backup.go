// Package backup keeps rotating snapshots of a file-backed habitual store.
// SQLite databases are copied with VACUUM INTO; JSON stores are copied
// byte for byte.
package backup

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
)

const timestampLayout = "20060102-150405"

// backupName matches habitual-YYYYMMDD-HHMMSS[-N].ext
var backupName = regexp.MustCompile(`^` + regexp.QuoteMeta(constants.BackupFilePrefix) + `(\d{8}-\d{6})(?:-(\d+))?(\.[a-z]+)$`)

// Info describes one backup file.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager creates, lists, rotates and restores backups of one store file.
type Manager struct {
	dbPath    string
	backupDir string
	suffix    string
	keep      int
	now       func() time.Time
}

// NewManager returns a manager that writes into a backups directory next
// to dbPath.
func NewManager(dbPath string) *Manager {
	suffix := filepath.Ext(dbPath)
	if suffix == "" {
		suffix = constants.BackupFileSuffix
	}
	return &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		suffix:    suffix,
		keep:      constants.MaxBackups,
		now:       time.Now,
	}
}

// Supported reports whether path names a store this package can back up.
// Postgres stores report a non-file config path and are skipped.
func Supported(path string) bool {
	if path == "" || strings.Contains(path, "://") {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

func (m *Manager) isJSON() bool {
	return strings.EqualFold(m.suffix, ".json")
}

// CreateBackup snapshots the store and prunes backups beyond the
// retention limit.
func (m *Manager) CreateBackup() (string, error) {
	path, err := m.create()
	if err != nil {
		return "", err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate old backups", "error", err)
	}
	logger.Debug("Created backup", "path", path)
	return path, nil
}

func (m *Manager) create() (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	if _, err := os.Stat(m.dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("database does not exist: %s", m.dbPath)
	}

	dest, err := m.nextPath()
	if err != nil {
		return "", err
	}

	if m.isJSON() {
		err = copyFile(m.dbPath, dest)
	} else {
		err = vacuumInto(m.dbPath, dest)
	}
	if err != nil {
		return "", fmt.Errorf("failed to backup database: %w", err)
	}
	return dest, nil
}

func (m *Manager) nextPath() (string, error) {
	stamp := m.now().Format(timestampLayout)
	for counter := 0; counter <= 100; counter++ {
		name := constants.BackupFilePrefix + stamp
		if counter > 0 {
			name = fmt.Sprintf("%s-%d", name, counter)
		}
		path := filepath.Join(m.backupDir, name+m.suffix)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique backup filename")
}

func vacuumInto(src, dest string) error {
	db, err := sql.Open("sqlite", src+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer db.Close()

	if err := verify(db); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	if _, err := db.Exec("VACUUM INTO ?", dest); err != nil {
		db.Close()
		return copyFile(src, dest)
	}
	return nil
}

func verify(db *sql.DB) error {
	var count int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

// ListBackups returns the backups of this store, newest first.
func (m *Manager) ListBackups() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := backupName.FindStringSubmatch(entry.Name())
		if match == nil || match[3] != m.suffix {
			continue
		}
		ts, err := time.ParseInLocation(timestampLayout, match[1], time.Local)
		if err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: ts,
			Size:      info.Size(),
		})
	}

	slices.SortStableFunc(backups, func(a, b Info) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return strings.Compare(b.Path, a.Path)
	})
	return backups, nil
}

func (m *Manager) rotate() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for _, b := range backups[min(m.keep, len(backups)):] {
		if err := os.Remove(b.Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", b.Path, err)
		}
	}
	return nil
}

// RestoreBackup replaces the store with backupPath. The current store is
// snapshotted first, outside the rotation.
func (m *Manager) RestoreBackup(backupPath string) (string, error) {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}
	if !m.isJSON() {
		if err := verifyFile(backupPath); err != nil {
			return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
		}
	}

	var safety string
	if _, err := os.Stat(m.dbPath); err == nil {
		safety, err = m.create()
		if err != nil {
			return "", fmt.Errorf("failed to backup current database before restore: %w", err)
		}
	}

	tmp := m.dbPath + ".restore.tmp"
	if err := copyFile(backupPath, tmp); err != nil {
		return "", fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			logger.Warn("Failed to remove temporary file", "path", tmp, "error", rmErr)
		}
		return "", fmt.Errorf("failed to restore database: %w", err)
	}
	logger.Info("Restored backup", "from", backupPath)
	return safety, nil
}

func verifyFile(path string) error {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()
	return verify(db)
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
