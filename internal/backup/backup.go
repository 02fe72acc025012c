// Package backup snapshots the SQLite journal database into a rotating
// set of files next to it and restores from them.
package backup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/dayreview/internal/constants"
	"github.com/julianstephens/dayreview/internal/logger"
)

const (
	minuteLayout = "20060102-1504"
	secondLayout = "20060102-150405"
)

var ErrNoDatabase = errors.New("database does not exist")

// requiredTables must exist in a file before it is accepted as a journal snapshot.
var requiredTables = []string{"tasks", "habits", "ratings", "mood_config"}

// Info describes one backup file.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

func (i Info) Name() string {
	return filepath.Base(i.Path)
}

// HumanSize renders the size as e.g. "48 kB".
func (i Info) HumanSize() string {
	return humanize.Bytes(uint64(i.Size))
}

// Age renders the timestamp relative to now, e.g. "3 hours ago".
func (i Info) Age() string {
	return humanize.Time(i.Timestamp)
}

type Manager struct {
	dbPath    string
	backupDir string
	keep      int
	now       func() time.Time
}

func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		keep:      constants.MaxBackups,
		now:       time.Now,
	}
}

func (m *Manager) BackupDir() string {
	return m.backupDir
}

// Create snapshots the database and prunes backups beyond the retention limit.
func (m *Manager) Create(ctx context.Context) (Info, error) {
	info, err := m.create(ctx)
	if err != nil {
		return Info{}, err
	}
	if err := m.rotate(); err != nil {
		// the snapshot itself succeeded
		logger.Warn("failed to rotate old backups", "error", err)
	}
	return info, nil
}

func (m *Manager) create(ctx context.Context) (Info, error) {
	if _, err := os.Stat(m.dbPath); os.IsNotExist(err) {
		return Info{}, fmt.Errorf("%w: %s", ErrNoDatabase, m.dbPath)
	}
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return Info{}, fmt.Errorf("failed to create backup directory: %w", err)
	}

	path, ts, err := m.nextPath()
	if err != nil {
		return Info{}, err
	}
	if err := m.snapshot(ctx, path); err != nil {
		return Info{}, fmt.Errorf("failed to backup database: %w", err)
	}

	st, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}
	logger.Info("created backup", "path", path, "size", humanize.Bytes(uint64(st.Size())))
	return Info{Path: path, Timestamp: ts, Size: st.Size()}, nil
}

// nextPath picks a file name that does not exist yet: minute precision,
// then second precision, then a numeric suffix.
func (m *Manager) nextPath() (string, time.Time, error) {
	now := m.now()
	candidates := []string{now.Format(minuteLayout), now.Format(secondLayout)}
	for i := 1; i <= 100; i++ {
		candidates = append(candidates, fmt.Sprintf("%s-%d", now.Format(secondLayout), i))
	}

	for _, stamp := range candidates {
		path := filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, now, nil
		}
	}
	return "", time.Time{}, fmt.Errorf("failed to generate unique backup filename")
}

func (m *Manager) snapshot(ctx context.Context, dest string) error {
	src, err := sql.Open("sqlite", m.dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer src.Close() //nolint:errcheck

	if err := checkSchema(ctx, src); err != nil {
		return fmt.Errorf("source database is not usable: %w", err)
	}

	if _, err := src.ExecContext(ctx, "VACUUM INTO ?", dest); err != nil {
		logger.Warn("VACUUM INTO failed, falling back to file copy", "error", err)
		return copyFile(m.dbPath, dest)
	}
	return nil
}

// List returns every backup, newest first.
func (m *Manager) List() ([]Info, error) {
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
		ts, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		st, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: ts,
			Size:      st.Size(),
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

// parseName extracts the timestamp from dayreview-YYYYMMDD-HHMM[SS][-N].db.
func parseName(name string) (time.Time, bool) {
	stamp, ok := strings.CutPrefix(name, constants.BackupFilePrefix)
	if !ok {
		return time.Time{}, false
	}
	stamp, ok = strings.CutSuffix(stamp, constants.BackupFileSuffix)
	if !ok {
		return time.Time{}, false
	}

	// a collision counter is a third dash separated part
	if parts := strings.Split(stamp, "-"); len(parts) == 3 {
		stamp = parts[0] + "-" + parts[1]
	}

	for _, layout := range []string{minuteLayout, secondLayout} {
		if len(stamp) != len(layout) {
			continue
		}
		if ts, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := m.keep; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Name(), err)
		}
		logger.Debug("removed old backup", "path", backups[i].Path)
	}
	return nil
}

// Restore replaces the database with backupPath. The current database, if
// any, is snapshotted first; its path is returned so the caller can report
// it. The database must not be open in this process.
func (m *Manager) Restore(ctx context.Context, backupPath string) (string, error) {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}
	if err := verify(ctx, backupPath); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var safety string
	if _, err := os.Stat(m.dbPath); err == nil {
		info, err := m.create(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to backup current database before restore: %w", err)
		}
		safety = info.Path
	}

	tmp := m.dbPath + ".restore.tmp"
	if err := copyFile(backupPath, tmp); err != nil {
		return "", fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			logger.Warn("failed to remove temporary file", "path", tmp, "error", rmErr)
		}
		return "", fmt.Errorf("failed to restore database: %w", err)
	}

	// stale journal files would be replayed over the restored snapshot
	for _, suffix := range []string{"-wal", "-shm", "-journal"} {
		if err := os.Remove(m.dbPath + suffix); err != nil && !os.IsNotExist(err) {
			logger.Warn("failed to remove journal file", "path", m.dbPath+suffix, "error", err)
		}
	}

	logger.Info("restored database", "from", backupPath, "safety_backup", safety)
	return safety, nil
}

func verify(ctx context.Context, path string) error {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck
	return checkSchema(ctx, db)
}

func checkSchema(ctx context.Context, db *sql.DB) error {
	for _, table := range requiredTables {
		var name string
		err := db.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("missing table %q", table)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close() //nolint:errcheck
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close() //nolint:errcheck
		return err
	}
	return out.Close()
}
