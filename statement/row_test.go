package statement

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

// TestRowOrdering verifies insertion order semantics.
func TestRowOrdering(t *testing.T) {
	t.Run("iteration order is insertion order", func(t *testing.T) {
		row := NewRow().Set("c", int64(3)).Set("a", int64(1)).Set("b", int64(2))

		if got, want := row.Columns(), []string{"c", "a", "b"}; !reflect.DeepEqual(got, want) {
			t.Errorf("Columns() = %v, want %v", got, want)
		}
		if got, want := row.Values(), []any{int64(3), int64(1), int64(2)}; !reflect.DeepEqual(got, want) {
			t.Errorf("Values() = %v, want %v", got, want)
		}
	})

	t.Run("replacing a value keeps its position", func(t *testing.T) {
		row := NewRow().Set("a", int64(1)).Set("b", int64(2)).Set("a", int64(9))

		if got, want := row.Columns(), []string{"a", "b"}; !reflect.DeepEqual(got, want) {
			t.Errorf("Columns() = %v, want %v", got, want)
		}
		if v, _ := row.Value("a"); v != int64(9) {
			t.Errorf("Value(a) = %v, want 9", v)
		}
	})

	t.Run("nil row is empty", func(t *testing.T) {
		var row *Row
		if row.Len() != 0 {
			t.Errorf("Len() = %d, want 0", row.Len())
		}
		if row.Columns() != nil || row.Values() != nil {
			t.Error("nil row should have no columns or values")
		}
	})
}

// TestRowUnmarshalJSON verifies order-preserving JSON decoding.
func TestRowUnmarshalJSON(t *testing.T) {
	t.Run("preserves document key order", func(t *testing.T) {
		var row Row
		if err := json.Unmarshal([]byte(`{"z": 1, "a": "x", "m": null}`), &row); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if got, want := row.Columns(), []string{"z", "a", "m"}; !reflect.DeepEqual(got, want) {
			t.Errorf("Columns() = %v, want %v", got, want)
		}
	})

	t.Run("integral numbers decode to int64", func(t *testing.T) {
		var row Row
		if err := json.Unmarshal([]byte(`{"n": 42}`), &row); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		v, _ := row.Value("n")
		if v != int64(42) {
			t.Errorf("Value(n) = %v (%T), want int64 42", v, v)
		}
	})

	t.Run("fractional numbers decode to float64", func(t *testing.T) {
		var row Row
		if err := json.Unmarshal([]byte(`{"n": 2.5}`), &row); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		v, _ := row.Value("n")
		if v != 2.5 {
			t.Errorf("Value(n) = %v (%T), want float64 2.5", v, v)
		}
	})

	t.Run("booleans and nulls decode", func(t *testing.T) {
		var row Row
		if err := json.Unmarshal([]byte(`{"b": true, "x": null}`), &row); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if v, _ := row.Value("b"); v != true {
			t.Errorf("Value(b) = %v, want true", v)
		}
		if v, ok := row.Value("x"); !ok || v != nil {
			t.Errorf("Value(x) = %v, %v, want nil, true", v, ok)
		}
	})

	t.Run("nested values are rejected", func(t *testing.T) {
		for _, doc := range []string{`{"a": {"b": 1}}`, `{"a": [1, 2]}`} {
			var row Row
			err := json.Unmarshal([]byte(doc), &row)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Unmarshal(%s) error = %v, want ErrInvalidArgument", doc, err)
			}
		}
	})

	t.Run("non-object documents are rejected", func(t *testing.T) {
		var row Row
		if err := json.Unmarshal([]byte(`[1, 2]`), &row); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Unmarshal() error = %v, want ErrInvalidArgument", err)
		}
	})
}
