package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/constants"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "dayspent.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE activity_sessions (
		id TEXT PRIMARY KEY,
		plan_id TEXT,
		duration_seconds INTEGER
	)`); err != nil {
		t.Fatalf("failed to create test table: %v", err)
	}
	if _, err := db.Exec("INSERT INTO activity_sessions VALUES ('s1', 'p1', 1800), ('s2', 'p2', 600)"); err != nil {
		t.Fatalf("failed to insert test data: %v", err)
	}
	return dbPath
}

func countSessions(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM activity_sessions").Scan(&count); err != nil {
		t.Fatalf("failed to query database: %v", err)
	}
	return count
}

// steppingClock advances one minute per call.
func steppingClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(time.Minute)
		return now
	}
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = func() time.Time { return time.Date(2024, 1, 8, 9, 30, 0, 0, time.UTC) }

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if got, want := filepath.Base(backupPath), "dayspent-20240108-0930.db"; got != want {
		t.Errorf("backup name = %s, want %s", got, want)
	}
	if filepath.Dir(backupPath) != mgr.GetBackupDir() {
		t.Errorf("backup written outside %s", mgr.GetBackupDir())
	}
	if got := countSessions(t, backupPath); got != 2 {
		t.Errorf("backup has %d sessions, want 2", got)
	}
}

func TestCreateBackupMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.CreateBackup(); err == nil {
		t.Fatal("expected error for missing database")
	}
}

func TestUniqueFilenames(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	fixed := time.Date(2024, 1, 8, 9, 30, 15, 0, time.UTC)
	mgr.now = func() time.Time { return fixed }

	seen := map[string]bool{}
	for i := 0; i < 4; i++ {
		p, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup %d failed: %v", i, err)
		}
		if seen[p] {
			t.Fatalf("duplicate backup path %s", p)
		}
		seen[p] = true
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 4 {
		t.Errorf("got %d backups, want 4", len(backups))
	}
}

func TestBackupRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = steppingClock(time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC))

	total := constants.MaxBackups + 3
	var last string
	for i := 0; i < total; i++ {
		p, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup %d failed: %v", i, err)
		}
		last = p
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Fatalf("got %d backups after rotation, want %d", len(backups), constants.MaxBackups)
	}
	if backups[0].Path != last {
		t.Errorf("newest backup = %s, want %s", backups[0].Path, last)
	}
	if strings.HasSuffix(backups[len(backups)-1].Path, "dayspent-20240108-0900.db") {
		t.Error("oldest backup should have been rotated away")
	}
}

func TestListBackups(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups on empty dir failed: %v", err)
	}
	if len(backups) != 0 {
		t.Fatalf("got %d backups, want 0", len(backups))
	}

	mgr.now = steppingClock(time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC))
	for i := 0; i < 3; i++ {
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup failed: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), "notes.txt"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	backups, err = mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("got %d backups, want 3", len(backups))
	}
	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Errorf("backups not sorted newest first at %d", i)
		}
		if backups[i].Size == 0 {
			t.Errorf("backup %s has zero size", backups[i].Path)
		}
	}
}

func TestParseBackupName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
		want time.Time
	}{
		{"dayspent-20240108-0930.db", true, time.Date(2024, 1, 8, 9, 30, 0, 0, time.UTC)},
		{"dayspent-20240108-093015.db", true, time.Date(2024, 1, 8, 9, 30, 15, 0, time.UTC)},
		{"dayspent-20240108-093015-2.db", true, time.Date(2024, 1, 8, 9, 30, 15, 0, time.UTC)},
		{"dayspent-garbage.db", false, time.Time{}},
		{"other-20240108-0930.db", false, time.Time{}},
		{"dayspent-20240108-0930.sqlite", false, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseBackupName(tt.name)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("timestamp = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = steppingClock(time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC))

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("DELETE FROM activity_sessions"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	preRestore, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	if got := countSessions(t, dbPath); got != 2 {
		t.Errorf("restored database has %d sessions, want 2", got)
	}
	if preRestore == "" {
		t.Fatal("expected a pre-restore backup")
	}
	if got := countSessions(t, preRestore); got != 0 {
		t.Errorf("pre-restore backup has %d sessions, want 0", got)
	}
	if _, err := os.Stat(dbPath + ".restore.tmp"); !os.IsNotExist(err) {
		t.Error("temporary restore file left behind")
	}
}

func TestRestoreWithoutExistingDatabase(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if err := os.Remove(dbPath); err != nil {
		t.Fatal(err)
	}

	preRestore, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	if preRestore != "" {
		t.Errorf("unexpected pre-restore backup %s", preRestore)
	}
	if got := countSessions(t, dbPath); got != 2 {
		t.Errorf("restored database has %d sessions, want 2", got)
	}
}

func TestRestoreRejectsCorruptedBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	bad := filepath.Join(t.TempDir(), "dayspent-20240108-0900.db")
	if err := os.WriteFile(bad, []byte("definitely not sqlite"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := mgr.RestoreBackup(bad); err == nil {
		t.Fatal("expected error restoring corrupted backup")
	}
	if got := countSessions(t, dbPath); got != 2 {
		t.Errorf("database changed after failed restore: %d sessions", got)
	}
}

func TestRestoreMissingBackup(t *testing.T) {
	mgr := NewManager(setupTestDB(t))
	if _, err := mgr.RestoreBackup(filepath.Join(t.TempDir(), "nope.db")); err == nil {
		t.Fatal("expected error for missing backup")
	}
}

func TestResolvePath(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	got, err := mgr.ResolvePath(backupPath)
	if err != nil || got != backupPath {
		t.Errorf("absolute path: got %q, %v", got, err)
	}

	got, err = mgr.ResolvePath(filepath.Base(backupPath))
	if err != nil || got != backupPath {
		t.Errorf("bare filename: got %q, %v", got, err)
	}

	if _, err := mgr.ResolvePath("dayspent-19990101-0000.db"); err == nil {
		t.Error("expected error for unknown backup")
	}
}
