// Package testutil provides migrated databases and catalog fixtures for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/toucann/taskengine/internal/db"
)

// Tables in dependency order, children first.
var tables = []string{
	"goal_unlocks",
	"goal_completions",
	"snoozes",
	"objective_progress",
	"objectives",
	"goals",
}

// DB returns a migrated database. It is a fresh sqlite file per test unless
// TEST_POSTGRES_DSN is set, in which case the shared Postgres database is
// truncated before use.
func DB(tb testing.TB) *sqlx.DB {
	tb.Helper()

	if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
		return open(tb, db.DriverPostgres, dsn, true)
	}

	path := filepath.Join(tb.TempDir(), "test.db")
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	return open(tb, db.DriverSQLite, dsn, false)
}

func open(tb testing.TB, driver, dsn string, truncate bool) *sqlx.DB {
	tb.Helper()

	database, err := db.Init(driver, dsn)
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	tb.Cleanup(func() {
		_ = database.Close()
	})

	if err := db.RunMigrations(database.DB, driver); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}

	if truncate {
		for _, table := range tables {
			if _, err := database.Exec("DELETE FROM " + table); err != nil {
				tb.Fatalf("truncate %s: %v", table, err)
			}
		}
	}

	return database
}
