// Package schema turns declarative schema documents into ordered SQL
// statement plans and applies them transactionally.
//
// A Plan is an ordered sequence of items, each either a raw SQL statement
// or a table definition (columns and/or inline row data). Input order is
// execution order; raw statements let a caller interleave arbitrary DDL
// such as ALTER TABLE between structural operations.
//
// The Synchronizer applies a plan in two dependent phases:
//
//  1. Structure: raw statements pass through unchanged, table definitions
//     with columns become CREATE TABLE IF NOT EXISTS. The whole phase is
//     one transactional batch — all applied or none.
//  2. Data: entered only when at least one table carries rows, and only
//     after the structure phase has committed. Every (table, row) pair is
//     flattened into an INSERT, preserving plan order then row order, and
//     executed as a second batch.
//
// The externally visible document format is a JSON array whose elements
// are either a raw SQL string or an object:
//
//	[
//	  "ALTER TABLE rooms ADD COLUMN floor INTEGER",
//	  {
//	    "table": "rooms",
//	    "columns": [{"column": "id", "type": "INTEGER", "constraints": ["PRIMARY KEY"]}],
//	    "data": [{"id": 1}, {"id": 2}]
//	  }
//	]
//
// Documents arrive through a Loader; FileLoader and HTTPLoader are the two
// shipped implementations. A loader or parse failure wraps ErrLoadFailed
// and synchronization does not start.
package schema
