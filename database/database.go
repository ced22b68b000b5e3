package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// UnboundedPrefix is the reserved marker a database name may carry to
// request no small-size cap. Names without it are subject to the platform's
// small-size ceiling, which Open surfaces as a warning (an observability
// hook, not an enforced limit). The marker is stripped from the name before
// the file path is derived.
const UnboundedPrefix = "unbounded:"

// Database configuration constants.
const (
	// smallSizeCeiling is the platform's default small-database quota.
	// Estimated sizes above it trigger the open-time warning.
	smallSizeCeiling = 5 << 20 // 5 MiB

	// dirPermissions is the permission mode for the database directory.
	dirPermissions = 0750

	// filePermissions is the permission mode for the database file.
	filePermissions = 0600

	// msPerSecond converts seconds to milliseconds.
	msPerSecond = 1000

	// connectionTimeout is the timeout for verifying database connectivity.
	connectionTimeout = 5 * time.Second
)

// Logger is the diagnostics sink accepted by this package. It is used for
// the small-size warning and for SQL tracing; it is never consulted for
// control flow. Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Config contains database configuration options.
type Config struct {
	// Name is the logical database name. It may carry UnboundedPrefix to
	// opt out of the small-size ceiling. The file name is derived from it.
	Name string

	// Dir is the directory holding database files.
	// It is created if it doesn't exist.
	Dir string

	// Version is the expected database version. On first open it seeds the
	// stored version; on reopen, a non-empty value that differs from the
	// stored one fails with ErrVersionMismatch. Empty accepts any version.
	Version string

	// EstimatedSize is the caller's advisory size estimate in bytes.
	// Only used for the small-size warning.
	EstimatedSize int64

	// WALMode enables Write-Ahead Logging for better concurrent access.
	WALMode bool

	// BusyTimeout is the maximum time to wait for a database lock (seconds).
	BusyTimeout int

	// TraceSQL logs every executed statement at debug level.
	TraceSQL bool

	// Logger is the optional diagnostics sink. Nil disables diagnostics.
	Logger Logger
}

// DB is a handle to one named, versioned SQLite database.
//
// The handle is single-owner for the lifetime of the process. Close
// invalidates it: every subsequent operation fails with ErrClosed rather
// than silently doing nothing.
type DB struct {
	db       *sql.DB
	name     string
	path     string
	traceSQL bool
	logger   Logger

	// mu guards closed and the cached version string.
	mu      sync.RWMutex
	closed  bool
	version string

	// changeMu serializes version-change transactions.
	changeMu sync.Mutex
}

// Open opens or creates the named database.
//
// It performs the following setup:
//  1. Creates the database directory if it doesn't exist
//  2. Opens the database file (creates if not present)
//  3. Configures WAL mode, busy timeout, and foreign keys
//  4. Sets file permissions (0600) and verifies the connection
//  5. Creates the version table if missing and reconciles the version
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - cfg: Database configuration
//
// Returns:
//   - *DB: Connected handle with the stored version cached
//   - error: If connection, configuration, or the version handshake fails
func Open(ctx context.Context, cfg Config) (*DB, error) {
	if cfg.Name == "" {
		return nil, errors.New("database: name is required")
	}

	name, unbounded := strings.CutPrefix(cfg.Name, UnboundedPrefix)
	if !unbounded && cfg.EstimatedSize > smallSizeCeiling && cfg.Logger != nil {
		cfg.Logger.Warn("estimated size exceeds the platform's small-database ceiling",
			"name", name,
			"estimated_size", cfg.EstimatedSize,
			"ceiling", int64(smallSizeCeiling),
		)
	}

	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	path := filepath.Join(dir, sanitizeName(name)+".db")

	// Build connection string with pragmas
	connStr := fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on",
		path,
		cfg.BusyTimeout*msPerSecond,
	)
	if cfg.WALMode {
		connStr += "&_journal_mode=WAL&_synchronous=NORMAL"
	}

	sqlDB, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite supports a single writer; keep one connection ready.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	db := &DB{
		db:       sqlDB,
		name:     name,
		path:     path,
		traceSQL: cfg.TraceSQL,
		logger:   cfg.Logger,
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("verifying database connection: %w", err)
	}

	// Ignore error - file might not exist yet on first run
	_ = os.Chmod(path, filePermissions) //nolint:errcheck // First run creates file later

	stored, err := db.reconcileVersion(ctx, cfg.Version)
	if err != nil {
		sqlDB.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, err
	}
	db.version = stored

	return db, nil
}

// reconcileVersion creates the version table if needed, seeds it on first
// open, and checks a non-empty expected version against the stored one.
func (db *DB) reconcileVersion(ctx context.Context, expected string) (string, error) {
	_, err := db.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS litesync_version (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			version TEXT NOT NULL
		)
	`)
	if err != nil {
		return "", fmt.Errorf("creating version table: %w", err)
	}

	var stored string
	err = db.db.QueryRowContext(ctx,
		"SELECT version FROM litesync_version WHERE id = 1",
	).Scan(&stored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.db.ExecContext(ctx,
			"INSERT INTO litesync_version (id, version) VALUES (1, ?)", expected,
		); err != nil {
			return "", fmt.Errorf("seeding version: %w", err)
		}
		return expected, nil
	case err != nil:
		return "", fmt.Errorf("reading stored version: %w", err)
	}

	if expected != "" && stored != expected {
		return "", fmt.Errorf("%w: database at version %q, expected %q",
			ErrVersionMismatch, stored, expected)
	}
	return stored, nil
}

// Close closes the database connection and invalidates the handle.
// Closing an already-closed handle returns ErrClosed.
func (db *DB) Close() error {
	db.mu.Lock()
	if db.closed {
		db.mu.Unlock()
		return ErrClosed
	}
	db.closed = true
	db.mu.Unlock()

	if err := db.db.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// Destroy reports that deleting the underlying database is not possible.
//
// The platform offers no way to physically remove a database once created;
// this is surfaced as a permanent unsupported operation rather than hidden
// behind a silent no-op.
func (db *DB) Destroy() error {
	return fmt.Errorf("%w: database deletion", ErrUnsupported)
}

// Name returns the logical database name (without the unbounded marker).
func (db *DB) Name() string {
	return db.name
}

// Path returns the filesystem path to the database file.
func (db *DB) Path() string {
	return db.path
}

// HealthCheck verifies the database is accessible and functioning.
func (db *DB) HealthCheck(ctx context.Context) error {
	if err := db.checkOpen(); err != nil {
		return err
	}
	var result int
	if err := db.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

// checkOpen fails fast when the handle has been closed.
func (db *DB) checkOpen() error {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.closed {
		return ErrClosed
	}
	return nil
}

// trace logs an executed statement when SQL tracing is enabled.
func (db *DB) trace(sql string, args []any) {
	if db.traceSQL && db.logger != nil {
		db.logger.Debug("executing statement", "sql", sql, "args", args)
	}
}

// sanitizeName maps a logical database name to a safe file name component.
func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, name)
}
