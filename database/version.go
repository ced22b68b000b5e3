package database

import (
	"context"
	"fmt"
)

// Version returns the cached database version. It never touches SQLite;
// the cache mirrors the last host-confirmed value.
func (db *DB) Version() string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.version
}

// ChangeVersion atomically moves the database from its current version to
// newVersion with an empty upgrade body.
//
// The stored version is verified against the cached one inside the
// transaction; a mismatch (another writer moved it) fails with
// ErrVersionMismatch. The cached value is updated only after the commit is
// confirmed, so a failed change never leaves the cache ahead of the
// database.
func (db *DB) ChangeVersion(ctx context.Context, newVersion string) error {
	return db.changeVersion(ctx, newVersion, nil)
}

// ChangeVersionWithSchema is ChangeVersion with an upgrade body: the given
// structure statements (DDL, no bound parameters) run inside the same
// version-change transaction, so the schema change and the version marker
// commit or roll back together.
//
// Data insertion does not belong in this path; insert rows in a follow-up
// batch after the version change is confirmed.
func (db *DB) ChangeVersionWithSchema(ctx context.Context, newVersion string, structure []string) error {
	return db.changeVersion(ctx, newVersion, structure)
}

func (db *DB) changeVersion(ctx context.Context, newVersion string, upgrade []string) error {
	if err := db.checkOpen(); err != nil {
		return err
	}

	db.changeMu.Lock()
	defer db.changeMu.Unlock()

	from := db.Version()

	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting version change: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	var stored string
	if err := tx.QueryRowContext(ctx,
		"SELECT version FROM litesync_version WHERE id = 1",
	).Scan(&stored); err != nil {
		return fmt.Errorf("reading stored version: %w", err)
	}
	if stored != from {
		return fmt.Errorf("%w: database at version %q, expected %q", ErrVersionMismatch, stored, from)
	}

	for i, sql := range upgrade {
		db.trace(sql, nil)
		if _, err := tx.ExecContext(ctx, sql); err != nil {
			return fmt.Errorf("%w: upgrade statement %d of %d: %w", ErrExecFailed, i+1, len(upgrade), err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE litesync_version SET version = ? WHERE id = 1", newVersion,
	); err != nil {
		return fmt.Errorf("%w: recording version: %w", ErrExecFailed, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing version change: %w", ErrExecFailed, err)
	}

	// Commit confirmed; the cache may now follow.
	db.mu.Lock()
	db.version = newVersion
	db.mu.Unlock()
	return nil
}
