package database

import "errors"

// Errors for the database package.
//
// These can be checked with errors.Is():
//
//	if errors.Is(err, database.ErrClosed) {
//	    // handle was closed, reopen before retrying
//	}
var (
	// ErrClosed is returned when an operation is attempted after Close,
	// or on a handle whose open never succeeded. Every public operation
	// checks this first and fails without touching SQLite.
	ErrClosed = errors.New("database: connection closed")

	// ErrExecFailed indicates SQLite rejected a statement (malformed SQL,
	// constraint violation, I/O error). The driver's error is wrapped
	// alongside, code and message intact.
	ErrExecFailed = errors.New("database: statement execution failed")

	// ErrVersionMismatch is returned when the stored database version does
	// not match the expected one, either at open or during a version change.
	ErrVersionMismatch = errors.New("database: version mismatch")

	// ErrUnsupported is returned for operations the platform cannot perform
	// at all, such as deleting the underlying database. Always reported,
	// never a silent no-op.
	ErrUnsupported = errors.New("database: operation not supported")
)
