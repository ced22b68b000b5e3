package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/nerrad567/litesync/statement"
)

// RowSet is an ordered sequence of result rows, each a plain column→value
// mapping. It is built eagerly from the driver's cursor; no cursor type is
// retained once a call returns.
type RowSet []map[string]any

// Result reports the outcome of a successful statement or batch.
//
// For a batch, Rows holds the rows produced by the last statement only;
// earlier statements execute for effect. HasInsertID is false when the
// statement produced no insert identifier (any non-INSERT statement) —
// that is absence of data, not an error.
type Result struct {
	Rows         RowSet
	LastInsertID int64
	HasInsertID  bool
	RowsAffected int64
}

// execer abstracts *sql.DB and *sql.Tx for statement execution.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// RunBatch executes an ordered sequence of statements in one transaction.
//
// The batch succeeds or fails as a whole: any statement failure rolls the
// transaction back and nothing is applied. On success the returned Result
// carries the rows of the last statement. An empty batch commits nothing
// and succeeds trivially.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - batch: Statements to execute, in order
//
// Returns:
//   - *Result: Outcome of the last statement
//   - error: ErrClosed, or ErrExecFailed wrapping the driver error
func (db *DB) RunBatch(ctx context.Context, batch []statement.Prepared) (*Result, error) {
	if err := db.checkOpen(); err != nil {
		return nil, err
	}
	if len(batch) == 0 {
		return &Result{}, nil
	}

	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	var result *Result
	for i, stmt := range batch {
		db.trace(stmt.SQL, stmt.Args)

		if i == len(batch)-1 {
			result, err = runStatement(ctx, tx, stmt)
		} else {
			_, err = tx.ExecContext(ctx, stmt.SQL, stmt.Args...)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: statement %d of %d: %w", ErrExecFailed, i+1, len(batch), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: committing batch: %w", ErrExecFailed, err)
	}
	return result, nil
}

// RunSingle executes one statement outside an explicit transaction.
//
// Row-returning statements (SELECT, WITH, VALUES, PRAGMA, EXPLAIN) yield
// Result.Rows; INSERT statements yield the host-assigned insert identifier;
// other statements yield RowsAffected only.
func (db *DB) RunSingle(ctx context.Context, stmt statement.Prepared) (*Result, error) {
	if err := db.checkOpen(); err != nil {
		return nil, err
	}

	db.trace(stmt.SQL, stmt.Args)
	result, err := runStatement(ctx, db.db, stmt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecFailed, err)
	}
	return result, nil
}

// runStatement executes one statement on ex and converts its outcome.
func runStatement(ctx context.Context, ex execer, stmt statement.Prepared) (*Result, error) {
	if returnsRows(stmt.SQL) {
		rows, err := ex.QueryContext(ctx, stmt.SQL, stmt.Args...)
		if err != nil {
			return nil, err
		}
		defer rows.Close() //nolint:errcheck // Read errors surface via rows.Err

		set, err := collectRows(rows)
		if err != nil {
			return nil, err
		}
		return &Result{Rows: set}, nil
	}

	res, err := ex.ExecContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	if n, err := res.RowsAffected(); err == nil {
		result.RowsAffected = n
	}
	if firstKeyword(stmt.SQL) == "insert" {
		if id, err := res.LastInsertId(); err == nil {
			result.LastInsertID = id
			result.HasInsertID = true
		}
	}
	return result, nil
}

// collectRows drains a cursor into a RowSet eagerly.
func collectRows(rows *sql.Rows) (RowSet, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading result columns: %w", err)
	}

	var set RowSet
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning result row: %w", err)
		}

		row := make(map[string]any, len(cols))
		for i, c := range cols {
			// The driver may hand back TEXT columns as byte slices.
			if b, ok := values[i].([]byte); ok {
				row[c] = string(b)
			} else {
				row[c] = values[i]
			}
		}
		set = append(set, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating result rows: %w", err)
	}
	return set, nil
}

// returnsRows reports whether a statement produces a result set.
func returnsRows(sql string) bool {
	switch firstKeyword(sql) {
	case "select", "with", "values", "pragma", "explain":
		return true
	default:
		return false
	}
}

// firstKeyword returns the statement's leading keyword, lowercased.
func firstKeyword(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}
