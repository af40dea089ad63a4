package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/yourusername/moneyball/internal/config"
)

// TestConfigEnv names the variable pointing at a config file with a reachable database
const TestConfigEnv = "MONEYBALL_TEST_CONFIG"

// SetupTestDB connects to the database named by MONEYBALL_TEST_CONFIG and
// skips the test when none is configured.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	path := os.Getenv(TestConfigEnv)
	if path == "" {
		t.Skipf("%s not set, skipping database test", TestConfigEnv)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}
	if !cfg.Database.Enabled {
		t.Skip("database disabled in test config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := Initialize(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	return db
}

// TeardownTestDB removes test rows and closes the connection
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.Exec(ctx, "DELETE FROM tracker_entries WHERE session_id LIKE 'test-%'"); err != nil {
		t.Logf("warning: failed to clean tracker entries: %v", err)
	}
	db.Close()
}
