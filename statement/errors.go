package statement

import "errors"

// ErrInvalidArgument is returned when a builder receives input that would
// produce malformed SQL (empty table name, empty row, empty predicate,
// table definition without columns).
//
// It is detected synchronously, before any SQL text is produced, and is
// never retried. Check with errors.Is:
//
//	if errors.Is(err, statement.ErrInvalidArgument) {
//	    // caller bug, not a database failure
//	}
var ErrInvalidArgument = errors.New("statement: invalid argument")
