package backups

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/dayreview/internal/backup"
	"github.com/julianstephens/dayreview/internal/cli"
	"github.com/julianstephens/dayreview/internal/constants"
	"github.com/julianstephens/dayreview/internal/logger"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Snapshot the database now."`
	List    BackupListCmd    `cmd:"" help:"List available backups." default:"1"`
	Restore BackupRestoreCmd `cmd:"" help:"Replace the database with a backup."`
}

func manager(ctx *cli.Context) (*backup.Manager, error) {
	path, err := ctx.DatabasePath()
	if err != nil {
		return nil, err
	}
	return backup.NewManager(path), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	info, err := mgr.Create(ctx.Context())
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	ctx.Printf("Backup created: %s (%s)\n", info.Name(), info.HumanSize())
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	infos, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(infos) == 0 {
		ctx.Println("No backups found.")
		ctx.Printf("Backups are stored in: %s\n", mgr.BackupDir())
		return nil
	}

	ctx.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(infos), constants.MaxBackups)
	for _, b := range infos {
		ctx.Printf("  %s  %-32s %8s  %s\n",
			b.Timestamp.Format("2006-01-02 15:04:05"), b.Name(), b.HumanSize(), cli.FaintStyle.Render(b.Age()))
	}
	ctx.Printf("\nBackup directory: %s\n", mgr.BackupDir())
	return nil
}

type BackupRestoreCmd struct {
	File string `arg:"" help:"Path or filename of the backup to restore."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	path, err := resolveBackupPath(mgr.BackupDir(), c.File)
	if err != nil {
		return err
	}

	ok, err := ctx.Confirm(
		fmt.Sprintf("Restore from %s?", filepath.Base(path)),
		"The current database is backed up first. Stop any other dayreview processes before continuing.",
	)
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Restore cancelled.")
		return nil
	}

	if err := ctx.Store.Close(); err != nil {
		logger.Warn("failed to close database connection", "error", err)
	}

	safety, err := mgr.Restore(ctx.Context(), path)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	ctx.Println("Database restored.")
	if safety != "" {
		ctx.Printf("Previous database saved as %s\n", filepath.Base(safety))
	}
	return nil
}

// resolveBackupPath accepts an absolute path, a path relative to the
// working directory or a bare file name inside the backup directory.
func resolveBackupPath(backupDir, name string) (string, error) {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err != nil {
			return "", fmt.Errorf("backup file not found: %s", name)
		}
		return name, nil
	}
	if _, err := os.Stat(name); err == nil {
		return filepath.Abs(name)
	}
	candidate := filepath.Join(backupDir, name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", fmt.Errorf("backup file not found: tried current directory and %s", backupDir)
}
