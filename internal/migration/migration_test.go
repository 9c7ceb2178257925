package migration

import (
	"database/sql"
	"io/fs"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/migrations"
)

// mapFS builds an in-memory migrations directory from name -> SQL.
func mapFS(files map[string]string) fstest.MapFS {
	m := fstest.MapFS{}
	for name, body := range files {
		m[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return m
}

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "dayspent.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sqliteRunner(t *testing.T, db *sql.DB, files fs.FS) *Runner {
	t.Helper()
	r, err := NewRunner(db, files, DriverSQLite)
	require.NoError(t, err)
	return r
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n))
	return n == 1
}

func TestNewRunner(t *testing.T) {
	db := openSQLite(t)
	_, err := NewRunner(db, mapFS(nil), Driver("mysql"))
	assert.Error(t, err)
	_, err = NewRunner(nil, mapFS(nil), DriverSQLite)
	assert.Error(t, err)
}

func TestVersionRoundTrip(t *testing.T) {
	r := sqliteRunner(t, openSQLite(t), mapFS(nil))

	v, err := r.GetCurrentVersion()
	require.NoError(t, err)
	assert.Zero(t, v, "fresh database")

	require.NoError(t, r.SetVersion(5))
	require.NoError(t, r.SetVersion(7))
	v, err = r.GetCurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestReadMigrationFilesSortsAndSkipsOtherFiles(t *testing.T) {
	r := sqliteRunner(t, openSQLite(t), mapFS(map[string]string{
		"010_sessions.sql": "SELECT 1;",
		"002_plans.sql":    "SELECT 1;",
		"001_users.sql":    "SELECT 1;",
		"notes.txt":        "ignored",
	}))

	ms, err := r.ReadMigrationFiles()
	require.NoError(t, err)
	var got []string
	for _, m := range ms {
		got = append(got, m.Name)
	}
	assert.Equal(t, []string{"users", "plans", "sessions"}, got)
	assert.Equal(t, 10, ms[2].Version)
}

func TestReadMigrationFilesRejectsBadNames(t *testing.T) {
	cases := map[string]struct {
		files map[string]string
		want  string
	}{
		"no separator": {map[string]string{"001users.sql": ""}, "invalid migration filename"},
		"not a number": {map[string]string{"abc_users.sql": ""}, "invalid version number"},
		"version zero": {map[string]string{"000_users.sql": ""}, "version must be at least 1"},
		"same version": {map[string]string{"004_a.sql": "", "4_b.sql": ""}, "duplicate migration version"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := sqliteRunner(t, openSQLite(t), mapFS(tc.files)).ReadMigrationFiles()
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func TestApplyMigrationsPicksUpNewFiles(t *testing.T) {
	db := openSQLite(t)
	files := mapFS(map[string]string{
		"001_plans.sql": `CREATE TABLE plans (id TEXT PRIMARY KEY);`,
	})
	r := sqliteRunner(t, db, files)

	var progress []string
	n, err := r.ApplyMigrations(func(msg string) { progress = append(progress, msg) })
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NotEmpty(t, progress)

	files["002_sessions.sql"] = &fstest.MapFile{Data: []byte(`CREATE TABLE sessions (id TEXT PRIMARY KEY);`)}
	st, err := r.Status()
	require.NoError(t, err)
	assert.Equal(t, 1, st.Current)
	assert.Equal(t, 2, st.Latest)
	assert.Len(t, st.Pending, 1)
	assert.False(t, st.UpToDate())

	n, err = r.ApplyMigrations(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, tableExists(t, db, "sessions"))

	n, err = r.ApplyMigrations(nil)
	require.NoError(t, err)
	assert.Zero(t, n, "nothing left to apply")
}

func TestApplyMigrationsRollsBackFailedFile(t *testing.T) {
	db := openSQLite(t)
	r := sqliteRunner(t, db, mapFS(map[string]string{
		"001_plans.sql":  `CREATE TABLE plans (id TEXT PRIMARY KEY);`,
		"002_broken.sql": `CREATE TABLE half (id TEXT); NOT VALID SQL;`,
	}))

	n, err := r.ApplyMigrations(nil)
	require.Error(t, err)
	assert.Equal(t, 1, n)

	v, err := r.GetCurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.True(t, tableExists(t, db, "plans"))
	assert.False(t, tableExists(t, db, "half"))
}

func TestNewerDatabaseIsRefused(t *testing.T) {
	r := sqliteRunner(t, openSQLite(t), mapFS(map[string]string{
		"001_plans.sql": `CREATE TABLE plans (id TEXT PRIMARY KEY);`,
	}))
	require.NoError(t, r.SetVersion(9))

	assert.Error(t, r.ValidateVersion())
	_, err := r.ApplyMigrations(nil)
	assert.Error(t, err)
}

func TestEmbeddedSQLiteSchema(t *testing.T) {
	sub, err := fs.Sub(migrations.FS, "sqlite")
	require.NoError(t, err)
	db := openSQLite(t)
	r := sqliteRunner(t, db, sub)

	_, err = r.ApplyMigrations(nil)
	require.NoError(t, err)
	require.NoError(t, r.ValidateVersion())
	for _, table := range []string{"users", "plans", "activity_sessions", "settings"} {
		assert.True(t, tableExists(t, db, table), table)
	}

	_, err = db.Exec(`INSERT INTO plans (id, owner_id, activity_name, day_type, category, target_minutes, created_at, updated_at)
		VALUES ('p1', 'o1', 'Reading', 'weekday', 'learning', 30, 'now', 'now')`)
	require.NoError(t, err)
	open := `INSERT INTO activity_sessions (id, owner_id, plan_id, activity_name, activity_date, start_time)
		VALUES (?, 'o1', 'p1', 'Reading', '2024-01-08', 'now')`
	_, err = db.Exec(open, "s1")
	require.NoError(t, err)
	_, err = db.Exec(open, "s2")
	assert.Error(t, err, "second open session for the same owner")
}
