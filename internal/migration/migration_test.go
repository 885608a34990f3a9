package migration

import (
	"database/sql"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitual/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGetCurrentVersion(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, fstest.MapFS{}, SQLite)

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}

	if err := runner.SetVersion(5); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	if version, _ = runner.GetCurrentVersion(); version != 5 {
		t.Errorf("expected version 5, got %d", version)
	}
}

func TestReadMigrationFiles(t *testing.T) {
	tests := []struct {
		name    string
		files   fstest.MapFS
		want    []int
		wantErr string
	}{
		{
			name: "sorted by version",
			files: fstest.MapFS{
				"002_streaks.sql": {Data: []byte("SELECT 2;")},
				"001_init.sql":    {Data: []byte("SELECT 1;")},
				"README.md":       {Data: []byte("ignored")},
			},
			want: []int{1, 2},
		},
		{
			name:    "missing underscore",
			files:   fstest.MapFS{"001.sql": {Data: []byte("")}},
			wantErr: "invalid migration filename",
		},
		{
			name:    "zero version",
			files:   fstest.MapFS{"000_init.sql": {Data: []byte("")}},
			wantErr: "must be at least 1",
		},
		{
			name: "duplicate version",
			files: fstest.MapFS{
				"001_a.sql":  {Data: []byte("")},
				"0001_b.sql": {Data: []byte("")},
			},
			wantErr: "duplicate migration version 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(setupTestDB(t), tt.files, SQLite)
			got, err := runner.ReadMigrationFiles()
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadMigrationFiles() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d migrations, want %d", len(got), len(tt.want))
			}
			for i, v := range tt.want {
				if got[i].Version != v {
					t.Errorf("migration %d version = %d, want %d", i, got[i].Version, v)
				}
			}
		})
	}
}

func TestApplyMigrations(t *testing.T) {
	db := setupTestDB(t)
	files := fstest.MapFS{
		"001_init.sql":  {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"002_more.sql":  {Data: []byte("CREATE TABLE b (id INTEGER);")},
		"003_index.sql": {Data: []byte("CREATE INDEX idx_b ON b(id);")},
	}
	runner := NewRunner(db, files, SQLite)

	var logs []string
	applied, err := runner.ApplyMigrations(func(s string) { logs = append(logs, s) })
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if applied != 3 {
		t.Errorf("applied = %d, want 3", applied)
	}
	if len(logs) == 0 {
		t.Error("expected progress messages")
	}

	applied, err = runner.ApplyMigrations(nil)
	if err != nil || applied != 0 {
		t.Errorf("second run applied %d (err %v), want 0", applied, err)
	}
	if v, _ := runner.GetCurrentVersion(); v != 3 {
		t.Errorf("version = %d, want 3", v)
	}
}

func TestApplyMigrationsRollsBackFailure(t *testing.T) {
	db := setupTestDB(t)
	files := fstest.MapFS{
		"001_init.sql":   {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"002_broken.sql": {Data: []byte("CREATE TABLE c (id INTEGER); CREATE TABLE oops (")},
	}
	runner := NewRunner(db, files, SQLite)

	applied, err := runner.ApplyMigrations(nil)
	if err == nil {
		t.Fatal("expected error from broken migration")
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}
	if v, _ := runner.GetCurrentVersion(); v != 1 {
		t.Errorf("version = %d, want 1", v)
	}
	var n int
	if err := db.QueryRow("SELECT count(*) FROM sqlite_master WHERE name = 'c'").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Error("table from failed migration was not rolled back")
	}
}

func TestValidateVersionRejectsNewerSchema(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, fstest.MapFS{"001_init.sql": {Data: []byte("SELECT 1;")}}, SQLite)
	if err := runner.SetVersion(9); err != nil {
		t.Fatal(err)
	}
	if err := runner.ValidateVersion(); err == nil || !strings.Contains(err.Error(), "newer than supported") {
		t.Errorf("ValidateVersion() error = %v", err)
	}
}

func TestBindPostgres(t *testing.T) {
	r := NewRunner(nil, nil, Postgres)
	got := r.bind("INSERT INTO t (a, b) VALUES (?, ?)")
	if got != "INSERT INTO t (a, b) VALUES ($1, $2)" {
		t.Errorf("bind() = %q", got)
	}
	if s := NewRunner(nil, nil, SQLite).bind("?"); s != "?" {
		t.Errorf("sqlite bind() = %q", s)
	}
}

func TestEmbeddedSQLiteMigrations(t *testing.T) {
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		t.Fatal(err)
	}
	db := setupTestDB(t)
	if _, err := NewRunner(db, sub, SQLite).ApplyMigrations(nil); err != nil {
		t.Fatalf("embedded migrations failed: %v", err)
	}
	for _, table := range []string{"users", "habits", "streaks", "settings"} {
		var n int
		if err := db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name = ?", table).Scan(&n); err != nil {
			t.Fatal(err)
		}
		if n != 1 {
			t.Errorf("table %s missing after migration", table)
		}
	}
}
