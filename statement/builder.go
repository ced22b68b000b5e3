package statement

import (
	"fmt"
	"strings"
)

// Prepared is a SQL statement together with its positional bound arguments.
//
// The SQL text always ends with a single terminating semicolon, and the
// number of ? placeholders equals len(Args). Prepared is an immutable value
// type; it is safe to share and re-execute.
type Prepared struct {
	SQL  string
	Args []any
}

// Column describes one column of a table definition.
//
// Constraints are rendered into the CREATE TABLE statement verbatim, in
// order (e.g. "PRIMARY KEY", "NOT NULL", "DEFAULT 0").
type Column struct {
	Name        string
	Type        string
	Constraints []string
}

// Insert builds an INSERT statement for one row.
//
// Column order follows the row's iteration order, and the bound arguments
// follow the same order:
//
//	INSERT INTO rooms (id, name) VALUES (?, ?);
//
// Returns an error wrapping ErrInvalidArgument if the table name is empty
// or the row has no columns.
func Insert(table string, row *Row) (Prepared, error) {
	if err := requireTable(table); err != nil {
		return Prepared{}, err
	}
	if row.Len() == 0 {
		return Prepared{}, fmt.Errorf("%w: empty row for INSERT INTO %s", ErrInvalidArgument, table)
	}

	cols := row.Columns()
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);",
		table,
		strings.Join(cols, ", "),
		placeholders,
	)
	return Prepared{SQL: sql, Args: row.Values()}, nil
}

// Select builds a SELECT statement.
//
// A nil or empty columns slice selects *. A nil or empty where predicate
// omits the WHERE clause entirely; otherwise each predicate column renders
// as `col = ?` joined by AND, in the predicate's iteration order.
func Select(table string, columns []string, where *Row) (Prepared, error) {
	if err := requireTable(table); err != nil {
		return Prepared{}, err
	}

	colList := "*"
	if len(columns) > 0 {
		colList = strings.Join(columns, ", ")
	}

	clause, args := whereClause(where)
	sql := fmt.Sprintf("SELECT %s FROM %s%s;", colList, table, clause)
	return Prepared{SQL: sql, Args: args}, nil
}

// Update builds an UPDATE statement.
//
// SET clauses come from set (in iteration order) and precede the WHERE
// clauses from where (in iteration order); the bound arguments follow the
// same combined order. Both mappings are required: an empty set or empty
// where fails with ErrInvalidArgument, since an unpredicated UPDATE is
// almost always a caller bug.
func Update(table string, set, where *Row) (Prepared, error) {
	if err := requireTable(table); err != nil {
		return Prepared{}, err
	}
	if set.Len() == 0 {
		return Prepared{}, fmt.Errorf("%w: empty SET for UPDATE %s", ErrInvalidArgument, table)
	}
	if where.Len() == 0 {
		return Prepared{}, fmt.Errorf("%w: empty predicate for UPDATE %s", ErrInvalidArgument, table)
	}

	setCols := set.Columns()
	assignments := make([]string, len(setCols))
	for i, c := range setCols {
		assignments[i] = c + " = ?"
	}

	clause, whereArgs := whereClause(where)
	args := append(set.Values(), whereArgs...)

	sql := fmt.Sprintf("UPDATE %s SET %s%s;", table, strings.Join(assignments, ", "), clause)
	return Prepared{SQL: sql, Args: args}, nil
}

// Delete builds a DELETE statement.
//
// The predicate is required and non-empty; rendering matches Select's
// WHERE clause.
func Delete(table string, where *Row) (Prepared, error) {
	if err := requireTable(table); err != nil {
		return Prepared{}, err
	}
	if where.Len() == 0 {
		return Prepared{}, fmt.Errorf("%w: empty predicate for DELETE FROM %s", ErrInvalidArgument, table)
	}

	clause, args := whereClause(where)
	sql := fmt.Sprintf("DELETE FROM %s%s;", table, clause)
	return Prepared{SQL: sql, Args: args}, nil
}

// CreateTable builds a CREATE TABLE DDL string.
//
// DDL cannot carry bound parameters in SQLite, so the result is a bare SQL
// string without a trailing semicolon:
//
//	CREATE TABLE IF NOT EXISTS rooms (id INTEGER PRIMARY KEY, name TEXT NOT NULL)
//
// Returns an error wrapping ErrInvalidArgument when columns is empty.
func CreateTable(table string, columns []Column, ifNotExists bool) (string, error) {
	if err := requireTable(table); err != nil {
		return "", err
	}
	if len(columns) == 0 {
		return "", fmt.Errorf("%w: no columns for CREATE TABLE %s", ErrInvalidArgument, table)
	}

	defs := make([]string, len(columns))
	for i, col := range columns {
		def := col.Name + " " + col.Type
		if len(col.Constraints) > 0 {
			def += " " + strings.Join(col.Constraints, " ")
		}
		defs[i] = def
	}

	clause := "CREATE TABLE "
	if ifNotExists {
		clause = "CREATE TABLE IF NOT EXISTS "
	}
	return clause + table + " (" + strings.Join(defs, ", ") + ")", nil
}

// DropTable builds a DROP TABLE DDL string.
//
// The IF EXISTS guard makes the statement idempotent by construction:
// applying it against a database that no longer has the table succeeds.
func DropTable(table string) string {
	return "DROP TABLE IF EXISTS " + table
}

// whereClause renders a predicate as a WHERE clause with its arguments.
// A nil or empty predicate yields an empty clause and no arguments.
func whereClause(where *Row) (string, []any) {
	if where.Len() == 0 {
		return "", nil
	}
	cols := where.Columns()
	conditions := make([]string, len(cols))
	for i, c := range cols {
		conditions[i] = c + " = ?"
	}
	return " WHERE " + strings.Join(conditions, " AND "), where.Values()
}

// requireTable rejects empty table names before any SQL is assembled.
func requireTable(table string) error {
	if table == "" {
		return fmt.Errorf("%w: empty table name", ErrInvalidArgument)
	}
	return nil
}
