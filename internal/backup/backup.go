// Package backup snapshots and restores a SQLite booking journal.
package backup

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/carddelivery/internal/logger"
)

const (
	// MaxBackups is the number of snapshots kept after rotation.
	MaxBackups = 14
	// DirName is the snapshot directory next to the journal file.
	DirName = "backups"

	filePrefix = "journal-"
	fileSuffix = ".db"
	stampFmt   = "20060102-150405"
)

var fileRe = regexp.MustCompile(`^journal-(\d{8}-\d{6})(?:-(\d+))?\.db$`)

// Info describes one snapshot file.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager creates, lists and restores snapshots of one journal file.
type Manager struct {
	journal string
	dir     string
	now     func() time.Time
}

// NewManager returns a manager for the journal at path. Snapshots live in
// <journal dir>/backups.
func NewManager(path string) *Manager {
	return &Manager{
		journal: path,
		dir:     filepath.Join(filepath.Dir(path), DirName),
		now:     time.Now,
	}
}

// Dir returns the snapshot directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Create writes a new snapshot and rotates old ones.
func (m *Manager) Create() (string, error) {
	path, err := m.snapshot()
	if err != nil {
		return "", err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate journal backups", "error", err)
	}
	return path, nil
}

func (m *Manager) snapshot() (string, error) {
	if _, err := os.Stat(m.journal); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("journal does not exist: %s", m.journal)
		}
		return "", err
	}
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path, err := m.nextName()
	if err != nil {
		return "", err
	}

	src, err := sql.Open("sqlite", m.journal+"?mode=ro")
	if err != nil {
		return "", fmt.Errorf("failed to open journal: %w", err)
	}
	defer src.Close()

	if err := ping(src); err != nil {
		return "", fmt.Errorf("journal appears to be corrupted: %w", err)
	}
	if _, err := src.Exec("VACUUM INTO ?", path); err != nil {
		logger.Debug("VACUUM INTO failed, copying file", "error", err)
		if err := copyFile(m.journal, path); err != nil {
			return "", fmt.Errorf("failed to back up journal: %w", err)
		}
	}

	logger.Debug("Journal backup created", "path", path)
	return path, nil
}

func (m *Manager) nextName() (string, error) {
	stamp := m.now().Format(stampFmt)
	path := filepath.Join(m.dir, filePrefix+stamp+fileSuffix)
	for n := 1; exists(path); n++ {
		if n > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		path = filepath.Join(m.dir, fmt.Sprintf("%s%s-%d%s", filePrefix, stamp, n, fileSuffix))
	}
	return path, nil
}

// List returns the snapshots, newest first. A missing directory yields none.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	type ranked struct {
		Info
		seq int
	}
	var found []ranked
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		match := fileRe.FindStringSubmatch(e.Name())
		if match == nil {
			continue
		}
		ts, err := time.ParseInLocation(stampFmt, match[1], time.Local)
		if err != nil {
			continue
		}
		seq, _ := strconv.Atoi(match[2])
		fi, err := e.Info()
		if err != nil {
			continue
		}
		found = append(found, ranked{
			Info: Info{Path: filepath.Join(m.dir, e.Name()), Timestamp: ts, Size: fi.Size()},
			seq:  seq,
		})
	}

	slices.SortFunc(found, func(a, b ranked) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return b.seq - a.seq
	})

	out := make([]Info, len(found))
	for i, r := range found {
		out[i] = r.Info
	}
	return out, nil
}

func (m *Manager) rotate() error {
	all, err := m.List()
	if err != nil {
		return err
	}
	for _, b := range all[min(len(all), MaxBackups):] {
		if err := os.Remove(b.Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", b.Path, err)
		}
	}
	return nil
}

// Find resolves name as a path or as a file inside the snapshot directory.
func (m *Manager) Find(name string) (string, error) {
	if exists(name) {
		return filepath.Abs(name)
	}
	if !filepath.IsAbs(name) {
		if p := filepath.Join(m.dir, name); exists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("backup file not found: tried %s and %s", name, m.dir)
}

// Restore replaces the journal with the snapshot at path. The current journal
// is snapshotted first and the returned path names that safety copy, if any.
// The journal must be closed by the caller.
func (m *Manager) Restore(path string) (string, error) {
	if !exists(path) {
		return "", fmt.Errorf("backup file does not exist: %s", path)
	}
	if err := verify(path); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var safety string
	if exists(m.journal) {
		var err error
		if safety, err = m.snapshot(); err != nil {
			return "", fmt.Errorf("failed to back up current journal before restore: %w", err)
		}
	}

	tmp := m.journal + ".restore.tmp"
	if err := copyFile(path, tmp); err != nil {
		return safety, fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.journal); err != nil {
		_ = os.Remove(tmp)
		return safety, fmt.Errorf("failed to restore journal: %w", err)
	}

	logger.Info("Journal restored", "from", path)
	return safety, nil
}

func verify(path string) error {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()
	if err := ping(db); err != nil {
		return err
	}
	var n int
	return db.QueryRow("SELECT COUNT(*) FROM bookings").Scan(&n)
}

func ping(db *sql.DB) error {
	var n int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&n)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
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

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
