package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/nerrad567/litesync/statement"
)

// openTestDB opens a database in a temp directory for testing.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), Config{
		Name:        "test",
		Dir:         t.TempDir(),
		Version:     "1.0",
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return db
}

// captureLogger records warnings for assertion.
type captureLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *captureLogger) Debug(string, ...any) {}
func (l *captureLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	l.warns = append(l.warns, msg)
	l.mu.Unlock()
}

// TestOpen verifies database creation and the version handshake.
func TestOpen(t *testing.T) {
	t.Run("creates database file", func(t *testing.T) {
		dir := t.TempDir()
		db, err := Open(context.Background(), Config{Name: "inventory", Dir: dir, BusyTimeout: 5})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer db.Close() //nolint:errcheck // Test cleanup

		if _, err := os.Stat(filepath.Join(dir, "inventory.db")); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
	})

	t.Run("seeds version on first open", func(t *testing.T) {
		db := openTestDB(t)
		defer db.Close() //nolint:errcheck // Test cleanup

		if db.Version() != "1.0" {
			t.Errorf("Version() = %q, want %q", db.Version(), "1.0")
		}
	})

	t.Run("reopen with matching version succeeds", func(t *testing.T) {
		dir := t.TempDir()
		cfg := Config{Name: "db", Dir: dir, Version: "2.0", BusyTimeout: 5}

		db, err := Open(context.Background(), cfg)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		db.Close() //nolint:errcheck // Intentional reopen

		db, err = Open(context.Background(), cfg)
		if err != nil {
			t.Fatalf("reopen error = %v", err)
		}
		defer db.Close() //nolint:errcheck // Test cleanup

		if db.Version() != "2.0" {
			t.Errorf("Version() = %q, want %q", db.Version(), "2.0")
		}
	})

	t.Run("reopen with different version fails", func(t *testing.T) {
		dir := t.TempDir()

		db, err := Open(context.Background(), Config{Name: "db", Dir: dir, Version: "1.0", BusyTimeout: 5})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		db.Close() //nolint:errcheck // Intentional reopen

		if _, err := Open(context.Background(), Config{Name: "db", Dir: dir, Version: "9.9", BusyTimeout: 5}); !errors.Is(err, ErrVersionMismatch) {
			t.Errorf("Open() error = %v, want ErrVersionMismatch", err)
		}
	})

	t.Run("empty expected version accepts any stored version", func(t *testing.T) {
		dir := t.TempDir()

		db, err := Open(context.Background(), Config{Name: "db", Dir: dir, Version: "3.1", BusyTimeout: 5})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		db.Close() //nolint:errcheck // Intentional reopen

		db, err = Open(context.Background(), Config{Name: "db", Dir: dir, BusyTimeout: 5})
		if err != nil {
			t.Fatalf("reopen error = %v", err)
		}
		defer db.Close() //nolint:errcheck // Test cleanup

		if db.Version() != "3.1" {
			t.Errorf("Version() = %q, want stored %q", db.Version(), "3.1")
		}
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		if _, err := Open(context.Background(), Config{Dir: t.TempDir()}); err == nil {
			t.Error("Open() with empty name should fail")
		}
	})
}

// TestSizeWarning verifies the small-size ceiling diagnostics hook.
func TestSizeWarning(t *testing.T) {
	t.Run("warns when estimate exceeds ceiling", func(t *testing.T) {
		log := &captureLogger{}
		db, err := Open(context.Background(), Config{
			Name:          "big",
			Dir:           t.TempDir(),
			EstimatedSize: 64 << 20,
			BusyTimeout:   5,
			Logger:        log,
		})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer db.Close() //nolint:errcheck // Test cleanup

		if len(log.warns) != 1 {
			t.Errorf("warnings = %d, want 1", len(log.warns))
		}
	})

	t.Run("unbounded marker suppresses the warning", func(t *testing.T) {
		log := &captureLogger{}
		db, err := Open(context.Background(), Config{
			Name:          UnboundedPrefix + "big",
			Dir:           t.TempDir(),
			EstimatedSize: 64 << 20,
			BusyTimeout:   5,
			Logger:        log,
		})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer db.Close() //nolint:errcheck // Test cleanup

		if len(log.warns) != 0 {
			t.Errorf("warnings = %d, want 0", len(log.warns))
		}
		if db.Name() != "big" {
			t.Errorf("Name() = %q, marker should be stripped", db.Name())
		}
	})
}

// TestClose verifies that a closed handle fails fast everywhere.
func TestClose(t *testing.T) {
	db := openTestDB(t)
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	ctx := context.Background()
	stmt := statement.Prepared{SQL: "SELECT 1;"}

	if err := db.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Close() error = %v, want ErrClosed", err)
	}
	if _, err := db.RunSingle(ctx, stmt); !errors.Is(err, ErrClosed) {
		t.Errorf("RunSingle() error = %v, want ErrClosed", err)
	}
	if _, err := db.RunBatch(ctx, []statement.Prepared{stmt}); !errors.Is(err, ErrClosed) {
		t.Errorf("RunBatch() error = %v, want ErrClosed", err)
	}
	if err := db.ChangeVersion(ctx, "2.0"); !errors.Is(err, ErrClosed) {
		t.Errorf("ChangeVersion() error = %v, want ErrClosed", err)
	}
	if err := db.HealthCheck(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("HealthCheck() error = %v, want ErrClosed", err)
	}
}

// TestDestroy verifies database deletion is a permanent unsupported operation.
func TestDestroy(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	if err := db.Destroy(); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Destroy() error = %v, want ErrUnsupported", err)
	}
}
