package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/carddelivery/internal/models"
	"github.com/julianstephens/carddelivery/internal/storage/sqlite"
)

func setupJournal(t *testing.T, ids ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.db")
	store := sqlite.NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	defer store.Close()

	for _, id := range ids {
		err := store.AddBooking(models.Booking{
			ID:        id,
			City:      "Казань",
			Date:      "2026-10-19",
			Name:      "Иванов Иван",
			Phone:     "+79001122333",
			CreatedAt: time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("AddBooking() failed: %v", err)
		}
	}
	return path
}

func countBookings(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM bookings").Scan(&n); err != nil {
		t.Fatalf("count bookings: %v", err)
	}
	return n
}

// fixedClock returns a clock that advances one second per call.
func fixedClock() func() time.Time {
	ts := time.Date(2026, 10, 16, 12, 0, 0, 0, time.Local)
	return func() time.Time {
		ts = ts.Add(time.Second)
		return ts
	}
}

func TestCreate(t *testing.T) {
	path := setupJournal(t, "a", "b")
	mgr := NewManager(path)
	mgr.now = fixedClock()

	snap, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if filepath.Dir(snap) != mgr.Dir() {
		t.Errorf("snapshot %s not in %s", snap, mgr.Dir())
	}
	if !strings.HasPrefix(filepath.Base(snap), "journal-20261016-1200") {
		t.Errorf("unexpected snapshot name %s", filepath.Base(snap))
	}
	if got := countBookings(t, snap); got != 2 {
		t.Errorf("snapshot has %d bookings, want 2", got)
	}
}

func TestCreate_MissingJournal(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(); err == nil {
		t.Error("Create() should fail when the journal does not exist")
	}
}

func TestCreate_SameSecond(t *testing.T) {
	path := setupJournal(t)
	mgr := NewManager(path)
	stuck := time.Date(2026, 10, 16, 12, 0, 0, 0, time.Local)
	mgr.now = func() time.Time { return stuck }

	first, err := mgr.Create()
	if err != nil {
		t.Fatal(err)
	}
	second, err := mgr.Create()
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatalf("snapshots collided: %s", first)
	}

	list, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Path != second {
		t.Errorf("List() = %+v, want the counter-suffixed snapshot first", list)
	}
}

func TestList(t *testing.T) {
	path := setupJournal(t)
	mgr := NewManager(path)
	mgr.now = fixedClock()

	list, err := mgr.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 0 {
		t.Errorf("List() = %d entries before any backup", len(list))
	}

	for range 3 {
		if _, err := mgr.Create(); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(mgr.Dir(), "notes.txt"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	list, err = mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("List() = %d entries, want 3", len(list))
	}
	for i, b := range list {
		if b.Size == 0 || b.Timestamp.IsZero() {
			t.Errorf("entry %d incomplete: %+v", i, b)
		}
		if i > 0 && b.Timestamp.After(list[i-1].Timestamp) {
			t.Errorf("entries not sorted newest first")
		}
	}
}

func TestRotation(t *testing.T) {
	path := setupJournal(t)
	mgr := NewManager(path)
	mgr.now = fixedClock()

	for range MaxBackups + 3 {
		if _, err := mgr.Create(); err != nil {
			t.Fatal(err)
		}
	}
	list, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != MaxBackups {
		t.Errorf("kept %d backups, want %d", len(list), MaxBackups)
	}
}

func TestRestore(t *testing.T) {
	path := setupJournal(t, "a")
	mgr := NewManager(path)
	mgr.now = fixedClock()

	snap, err := mgr.Create()
	if err != nil {
		t.Fatal(err)
	}

	store := sqlite.NewStore(path)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	if err := store.CancelBooking("a"); err != nil {
		t.Fatal(err)
	}
	store.Close()

	safety, err := mgr.Restore(snap)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if safety == "" {
		t.Error("Restore() should snapshot the current journal first")
	}

	store = sqlite.NewStore(path)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	b, err := store.GetBooking("a")
	if err != nil {
		t.Fatal(err)
	}
	if b.CancelledAt != nil {
		t.Error("restored journal still has the later cancellation")
	}
}

func TestRestore_Invalid(t *testing.T) {
	path := setupJournal(t)
	mgr := NewManager(path)

	if _, err := mgr.Restore(filepath.Join(t.TempDir(), "nope.db")); err == nil {
		t.Error("Restore() should fail for a missing file")
	}

	junk := filepath.Join(t.TempDir(), "junk.db")
	if err := os.WriteFile(junk, []byte("not a database"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Restore(junk); err == nil {
		t.Error("Restore() should reject a file that is not a journal")
	}
}

func TestFind(t *testing.T) {
	path := setupJournal(t)
	mgr := NewManager(path)
	mgr.now = fixedClock()

	snap, err := mgr.Create()
	if err != nil {
		t.Fatal(err)
	}

	got, err := mgr.Find(filepath.Base(snap))
	if err != nil {
		t.Fatalf("Find(name) error = %v", err)
	}
	if got != snap {
		t.Errorf("Find(name) = %s, want %s", got, snap)
	}
	if got, err := mgr.Find(snap); err != nil || got != snap {
		t.Errorf("Find(abs) = %s, %v", got, err)
	}
	if _, err := mgr.Find("journal-19990101-000000.db"); err == nil {
		t.Error("Find() should fail for an unknown snapshot")
	}
}
