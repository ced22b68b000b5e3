// Package statement builds parameterized SQL statements from declarative
// descriptions of tables, rows, and predicates.
//
// All builders are pure functions: no I/O, no database handle, fully
// deterministic. Each returns either a Prepared value (SQL text plus its
// positional arguments) or, for DDL, a bare SQL string — SQLite does not
// allow bound parameters for identifiers or table structure.
//
// The central invariant callers rely on for host-side binding:
// the number of ? placeholders in Prepared.SQL always equals len(Prepared.Args).
//
// Column order matters. Row preserves insertion order, so the generated
// column list and VALUES list line up with how the row was described:
//
//	row := statement.NewRow().Set("id", 1).Set("name", "kitchen")
//	stmt, err := statement.Insert("rooms", row)
//	// INSERT INTO rooms (id, name) VALUES (?, ?);  args [1 "kitchen"]
//
// Validation failures (empty row, empty predicate, no columns) are reported
// synchronously via errors wrapping ErrInvalidArgument, before any SQL is
// produced.
package statement
