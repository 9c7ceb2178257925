package migration

import (
	"database/sql"
	"io/fs"
	"os"
	"strings"
	"testing"

	_ "github.com/lib/pq"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/migrations"
)

// openPostgres connects to DAYSPENT_POSTGRES_TEST_URL inside a throwaway schema.
// Example: DAYSPENT_POSTGRES_TEST_URL="postgres://dayspent@localhost:5432/dayspent_test?sslmode=disable"
func openPostgres(t *testing.T) *sql.DB {
	t.Helper()
	connStr := os.Getenv("DAYSPENT_POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("DAYSPENT_POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("failed to open postgres database: %v", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		t.Fatalf("failed to ping postgres database: %v", err)
	}

	schema := "migration_test_" + strings.ToLower(strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))
	for _, stmt := range []string{
		"DROP SCHEMA IF EXISTS " + schema + " CASCADE",
		"CREATE SCHEMA " + schema,
		"SET search_path TO " + schema,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			t.Fatalf("%s: %v", stmt, err)
		}
	}
	t.Cleanup(func() {
		_, _ = db.Exec("DROP SCHEMA IF EXISTS " + schema + " CASCADE")
		db.Close()
	})
	return db
}

func postgresRunner(t *testing.T, db *sql.DB) *Runner {
	t.Helper()
	sub, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		t.Fatalf("failed to open embedded migrations: %v", err)
	}
	runner, err := NewRunner(db, sub, DriverPostgres)
	if err != nil {
		t.Fatalf("failed to create migration runner: %v", err)
	}
	return runner
}

func TestPostgresEmbeddedSchema(t *testing.T) {
	db := openPostgres(t)
	runner := postgresRunner(t, db)

	applied, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	latest, err := runner.GetLatestVersion()
	if err != nil {
		t.Fatalf("GetLatestVersion failed: %v", err)
	}
	if applied != latest {
		t.Errorf("applied %d migrations, want %d", applied, latest)
	}

	st, err := runner.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if !st.UpToDate() || st.Current != latest {
		t.Errorf("unexpected status after migrating: %+v", st)
	}

	if again, err := runner.ApplyMigrations(nil); err != nil || again != 0 {
		t.Errorf("second run should be a no-op, got %d, %v", again, err)
	}
}

func TestPostgresOneOpenSessionPerOwner(t *testing.T) {
	db := openPostgres(t)
	if _, err := postgresRunner(t, db).ApplyMigrations(nil); err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}

	mustExec := func(q string, args ...any) {
		t.Helper()
		if _, err := db.Exec(q, args...); err != nil {
			t.Fatalf("%s: %v", q, err)
		}
	}
	mustExec(`INSERT INTO plans (id, owner_id, activity_name, day_type, category, target_minutes) VALUES ('p1', 'o1', 'Reading', 'weekday', 'learning', 30)`)

	insertOpen := `INSERT INTO activity_sessions (id, owner_id, plan_id, activity_name, activity_date, start_time)
		VALUES ($1, $2, 'p1', 'Reading', '2024-01-08', now())`
	mustExec(insertOpen, "s1", "o1")
	if _, err := db.Exec(insertOpen, "s2", "o1"); err == nil {
		t.Fatal("second open session for the same owner should violate the unique index")
	}
	// Other owners are unaffected.
	mustExec(insertOpen, "s3", "o2")

	mustExec(`UPDATE activity_sessions SET end_time = now(), duration_seconds = 0 WHERE id = 's1'`)
	mustExec(insertOpen, "s4", "o1")
}

func TestPostgresLegacyCategoryMigration(t *testing.T) {
	db := openPostgres(t)
	runner := postgresRunner(t, db)

	all, err := runner.ReadMigrationFiles()
	if err != nil {
		t.Fatalf("ReadMigrationFiles failed: %v", err)
	}
	if _, err := db.Exec(all[0].SQL); err != nil {
		t.Fatalf("failed to apply initial schema: %v", err)
	}
	if err := runner.SetVersion(all[0].Version); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO plans (id, owner_id, activity_name, day_type, category, target_minutes) VALUES ('p1', 'o1', 'Course', 'weekday', 'education', 60)`); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	var category string
	if err := db.QueryRow(`SELECT category FROM plans WHERE id = 'p1'`).Scan(&category); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if category != "learning" {
		t.Errorf("category = %q, want learning", category)
	}
}

func TestPostgresRollbackKeepsVersion(t *testing.T) {
	db := openPostgres(t)
	runner, err := NewRunner(db, mapFS(map[string]string{
		"001_ok.sql":     "CREATE TABLE kept (id SERIAL PRIMARY KEY);",
		"002_broken.sql": "CREATE TABLE dropped (id SERIAL PRIMARY KEY); SELECT * FROM no_such_table;",
	}), DriverPostgres)
	if err != nil {
		t.Fatalf("failed to create migration runner: %v", err)
	}

	applied, err := runner.ApplyMigrations(nil)
	if err == nil {
		t.Fatal("expected the broken migration to fail")
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}
	if v, _ := runner.GetCurrentVersion(); v != 1 {
		t.Errorf("version = %d, want 1", v)
	}
	var exists bool
	if err := db.QueryRow(`SELECT to_regclass('dropped') IS NOT NULL`).Scan(&exists); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if exists {
		t.Error("table from the failed migration should have been rolled back")
	}
}
