package backups

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveBackupPath(t *testing.T) {
	backupDir := t.TempDir()
	name := "dayreview-20240615-1000.db"
	inDir := filepath.Join(backupDir, name)
	if err := os.WriteFile(inDir, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := resolveBackupPath(backupDir, name)
	if err != nil {
		t.Fatalf("bare name: %v", err)
	}
	if got != inDir {
		t.Errorf("bare name resolved to %s, want %s", got, inDir)
	}

	got, err = resolveBackupPath(backupDir, inDir)
	if err != nil || got != inDir {
		t.Errorf("absolute path resolved to %s, %v", got, err)
	}

	if _, err := resolveBackupPath(backupDir, filepath.Join(backupDir, "missing.db")); err == nil {
		t.Error("expected error for missing absolute path")
	}

	_, err = resolveBackupPath(backupDir, "missing.db")
	if err == nil || !strings.Contains(err.Error(), backupDir) {
		t.Errorf("expected not-found error naming the backup dir, got %v", err)
	}
}
