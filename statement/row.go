package statement

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Row is an ordered mapping from column name to scalar value.
//
// Iteration order is insertion order, and it is significant: for an INSERT
// the column list and the VALUES list are emitted in this order, and for a
// predicate the `col = ?` clauses are joined in this order. Setting an
// existing column replaces its value without changing its position.
//
// Supported value types are string, int64, float64, bool, and nil. Values
// are passed through to the SQL driver unmodified.
//
// Row is not safe for concurrent mutation; build it fully before sharing.
type Row struct {
	cols []string
	vals map[string]any
}

// NewRow returns an empty Row.
func NewRow() *Row {
	return &Row{vals: make(map[string]any)}
}

// Set assigns a value to a column, appending the column to the iteration
// order if it is new. Returns the receiver for chaining.
func (r *Row) Set(column string, value any) *Row {
	if r.vals == nil {
		r.vals = make(map[string]any)
	}
	if _, ok := r.vals[column]; !ok {
		r.cols = append(r.cols, column)
	}
	r.vals[column] = value
	return r
}

// Len returns the number of columns in the row.
func (r *Row) Len() int {
	if r == nil {
		return 0
	}
	return len(r.cols)
}

// Columns returns the column names in iteration order.
// The returned slice is a copy; mutating it does not affect the row.
func (r *Row) Columns() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.cols))
	copy(out, r.cols)
	return out
}

// Value returns the value bound to a column and whether the column exists.
func (r *Row) Value(column string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.vals[column]
	return v, ok
}

// Values returns the values in column iteration order.
func (r *Row) Values() []any {
	if r == nil {
		return nil
	}
	out := make([]any, 0, len(r.cols))
	for _, c := range r.cols {
		out = append(out, r.vals[c])
	}
	return out
}

// UnmarshalJSON decodes a JSON object into the row, preserving the
// document's key order. encoding/json's map decoding would lose that order,
// so the object is walked token by token instead.
//
// Values must be JSON scalars (string, number, boolean, null). Numbers
// decode to int64 when integral, float64 otherwise. Nested objects or
// arrays are rejected.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decoding row: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: row must be a JSON object", ErrInvalidArgument)
	}

	r.cols = nil
	r.vals = make(map[string]any)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decoding row key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("%w: row key is not a string", ErrInvalidArgument)
		}

		valTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decoding row value for %q: %w", key, err)
		}

		val, err := scalarFromToken(valTok)
		if err != nil {
			return fmt.Errorf("column %q: %w", key, err)
		}
		r.Set(key, val)
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decoding row: %w", err)
	}
	return nil
}

// scalarFromToken converts a decoded JSON token into a bindable scalar.
func scalarFromToken(tok json.Token) (any, error) {
	switch v := tok.(type) {
	case nil:
		return nil, nil
	case string:
		return v, nil
	case bool:
		return v, nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: unparseable number %q", ErrInvalidArgument, v.String())
		}
		return f, nil
	case json.Delim:
		return nil, fmt.Errorf("%w: value must be a scalar, got nested %v", ErrInvalidArgument, v)
	default:
		return nil, fmt.Errorf("%w: unsupported value type %T", ErrInvalidArgument, tok)
	}
}
