package backups

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/carddelivery/internal/cli"
	"github.com/julianstephens/carddelivery/internal/storage/postgres"
	"github.com/julianstephens/carddelivery/internal/storage/sqlite"
)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "journal.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	return &cli.Context{Store: store, Out: out}, out
}

func TestBackupListCmd_Empty(t *testing.T) {
	ctx, out := setupTestContext(t)
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "No backups found.") {
		t.Errorf("output = %q", out.String())
	}
}

func TestBackupCreateListRestore(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.Contains(out.String(), "✓ Backup created: journal-") {
		t.Errorf("output = %q", out.String())
	}

	out.Reset()
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out.String(), "1 total") {
		t.Errorf("list output = %q", out.String())
	}

	dir := filepath.Join(filepath.Dir(ctx.Store.GetConfigPath()), "backups")
	matches, err := filepath.Glob(filepath.Join(dir, "journal-*.db"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("backups on disk = %v, %v", matches, err)
	}

	out.Reset()
	if err := (&BackupRestoreCmd{BackupFile: filepath.Base(matches[0]), Yes: true}).Run(ctx); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !strings.Contains(out.String(), "Journal restored successfully") {
		t.Errorf("restore output = %q", out.String())
	}
}

func TestBackupRestoreCmd_NotFound(t *testing.T) {
	ctx, _ := setupTestContext(t)
	err := (&BackupRestoreCmd{BackupFile: "journal-19990101-000000.db", Yes: true}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("Run() error = %v", err)
	}
}

func TestBackup_PostgresJournal(t *testing.T) {
	ctx := &cli.Context{Store: postgres.New("postgres://localhost/bookings"), Out: &bytes.Buffer{}}
	if err := (&BackupCreateCmd{}).Run(ctx); !errors.Is(err, errNotSQLite) {
		t.Errorf("Run() error = %v, want errNotSQLite", err)
	}
}
