package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestRun_InvalidConfig verifies run fails with an invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("LITESYNC_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

// TestRun_AppliesSchema verifies a full run: config load, database open,
// file-sourced synchronization, and a version move to the configured target.
func TestRun_AppliesSchema(t *testing.T) {
	tmpDir := t.TempDir()

	schemaPath := filepath.Join(tmpDir, "schema.json")
	schemaDoc := `[
  "CREATE TABLE IF NOT EXISTS settings (key TEXT PRIMARY KEY, value TEXT)",
  {
    "table": "devices",
    "columns": [
      {"column": "id", "type": "INTEGER", "constraints": ["PRIMARY KEY"]},
      {"column": "name", "type": "TEXT", "constraints": ["NOT NULL"]}
    ],
    "data": [
      {"id": 1, "name": "thermostat"},
      {"id": 2, "name": "dimmer"}
    ]
  }
]`
	if err := os.WriteFile(schemaPath, []byte(schemaDoc), 0600); err != nil {
		t.Fatalf("writing schema document: %v", err)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	configContent := `
database:
  name: testdb
  dir: "` + filepath.Join(tmpDir, "data") + `"
  wal_mode: true
  busy_timeout: 5

schema:
  source: "` + schemaPath + `"
  target_version: "1.1"

mqtt:
  enabled: false

metrics:
  enabled: false

logging:
  level: error
  format: text
  output: stderr
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("writing test config: %v", err)
	}

	t.Setenv("LITESYNC_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx); err != nil {
		t.Fatalf("run() failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "data", "testdb.db")); err != nil {
		t.Fatalf("database file not created: %v", err)
	}

	// A second run against the same database must be idempotent and
	// accept the version the first run moved to.
	t.Setenv("LITESYNC_DATABASE_VERSION", "1.1")
	if err := run(ctx); err != nil {
		t.Fatalf("second run() failed: %v", err)
	}
}
