// Package database provides the SQLite-backed database handle for litesync.
//
// This package manages:
//   - Opening or creating a named, versioned database file
//   - Transactional batch execution with all-or-nothing semantics
//   - A cached version marker kept consistent with the stored one
//   - Connection lifecycle (a closed handle fails fast, never no-ops)
//
// Security Considerations:
//   - All data statements use parameterised queries (no SQL injection)
//   - Database file permissions are set to 0600 (owner read/write only)
//
// Versioning:
//
// Each database carries a single version string in the litesync_version
// table. Open seeds it on first creation and verifies it on reopen;
// ChangeVersion and ChangeVersionWithSchema move it atomically. The cached
// copy on the handle is updated only after the transaction commits, so a
// failed change never leaves the cache ahead of the database.
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{
//	    Name:    "inventory",
//	    Dir:     "./data",
//	    Version: "1.0",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	res, err := db.RunSingle(ctx, stmt)
//
// Result rows are converted eagerly into plain column→value maps; no
// database/sql cursor types are retained or exposed.
package database
