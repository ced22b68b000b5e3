package schema

import "errors"

// Errors for the schema package.
var (
	// ErrLoadFailed indicates the document loader failed or its content
	// does not parse as a schema plan. Synchronization never starts when
	// this is returned.
	ErrLoadFailed = errors.New("schema: document load failed")

	// ErrDataNotAllowed is returned when a plan carrying row data is used
	// where only structure statements may run, such as inside a version
	// change. Insert data in a follow-up step after the version change is
	// confirmed.
	ErrDataNotAllowed = errors.New("schema: row data not allowed in this operation")
)
