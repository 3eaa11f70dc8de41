package database

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"zoo/config"
)

var (
	testDB *DB
)

// GetTestDB returns the shared Postgres test connection.
// Returns nil when TEST_DATABASE_URL was not set for this test run.
func GetTestDB() *DB {
	return testDB
}

// SetupTestDB connects to Postgres and applies the embedded migrations.
// Should be called once in TestMain, not in individual tests.
func SetupTestDB(dbURL string) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := Migrate(dbURL, nil); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := Connect(ctx, config.Database{URL: dbURL, MaxConns: 5, MinConns: 1}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	return db, nil
}

// CleanupTestDB truncates the animals table and resets its id sequence.
// Call this at the start of each integration test.
func CleanupTestDB(t *testing.T, db *DB) {
	t.Helper()

	ctx := context.Background()
	_, err := db.Pool.Exec(ctx, "TRUNCATE TABLE animals RESTART IDENTITY")
	require.NoError(t, err)
}

// TeardownTestDB closes the test database connection.
// Safe to call with nil DB (no-op).
func TeardownTestDB(db *DB) {
	if db != nil {
		db.Close()
	}
}

// NewTestSQLite opens a fresh SQLite store in a per-test temporary directory
// and closes it when the test ends.
func NewTestSQLite(t *testing.T) *SQLite {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "animals.db"), nil)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	return store
}
