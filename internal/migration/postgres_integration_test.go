package migration

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"
)

// Set HABITUAL_TEST_POSTGRES_URL to run, e.g.
// postgres://habitual@localhost:5432/habitual_test?sslmode=disable
func setupPostgresTestDB(t *testing.T) *sql.DB {
	t.Helper()
	connStr := os.Getenv("HABITUAL_TEST_POSTGRES_URL")
	if connStr == "" {
		t.Skip("HABITUAL_TEST_POSTGRES_URL not set, skipping PostgreSQL integration test")
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("failed to open postgres database: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Fatalf("failed to ping postgres database: %v", err)
	}

	t.Cleanup(func() {
		_, _ = db.Exec("DROP TABLE IF EXISTS schema_version")
		_, _ = db.Exec("DROP TABLE IF EXISTS test_users")
		db.Close()
	})
	return db
}

func TestPostgresApplyAndSetVersion(t *testing.T) {
	db := setupPostgresTestDB(t)

	runner, err := NewRunner(db, mapFS(map[string]string{
		"001_init.sql": "CREATE TABLE test_users (id SERIAL PRIMARY KEY);",
	}), DriverPostgres)
	if err != nil {
		t.Fatal(err)
	}

	count, err := runner.ApplyMigrations(nil)
	if err != nil || count != 1 {
		t.Fatalf("ApplyMigrations = %d, %v", count, err)
	}

	if err := runner.SetVersion(1); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	version, err := runner.GetCurrentVersion()
	if err != nil || version != 1 {
		t.Errorf("GetCurrentVersion = %d, %v; want 1", version, err)
	}
}
