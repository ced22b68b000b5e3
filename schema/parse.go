package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/nerrad567/litesync/statement"
)

// columnDoc is the wire form of a column definition.
type columnDoc struct {
	Column      string   `json:"column"`
	Type        string   `json:"type"`
	Constraints []string `json:"constraints"`
}

// tableDoc is the wire form of a table entry. Data may be a single object
// or an array of objects; it is decoded lazily to preserve key order.
type tableDoc struct {
	Table   string          `json:"table"`
	Columns []columnDoc     `json:"columns"`
	Data    json.RawMessage `json:"data"`
}

// ParsePlan decodes a JSON schema document into a Plan.
//
// The document must be an array; each element is either a raw SQL string
// or a table object. Malformed content fails with an error wrapping
// ErrLoadFailed, and element order is preserved into the plan.
func ParsePlan(data []byte) (Plan, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("%w: document is not a JSON array: %w", ErrLoadFailed, err)
	}

	plan := make(Plan, 0, len(elements))
	for i, raw := range elements {
		item, err := parseItem(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %w", ErrLoadFailed, i+1, err)
		}
		plan = append(plan, item)
	}
	return plan, nil
}

// parseItem decodes one document element into a plan item.
func parseItem(raw json.RawMessage) (Item, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Item{}, fmt.Errorf("empty element")
	}

	switch trimmed[0] {
	case '"':
		var sql string
		if err := json.Unmarshal(trimmed, &sql); err != nil {
			return Item{}, err
		}
		if sql == "" {
			return Item{}, fmt.Errorf("empty SQL string")
		}
		return RawItem(sql), nil

	case '{':
		var doc tableDoc
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return Item{}, err
		}
		if doc.Table == "" {
			return Item{}, fmt.Errorf("table entry missing table name")
		}

		table := &Table{Name: doc.Table}
		for _, col := range doc.Columns {
			table.Columns = append(table.Columns, statement.Column{
				Name:        col.Column,
				Type:        col.Type,
				Constraints: col.Constraints,
			})
		}

		rows, err := parseData(doc.Data)
		if err != nil {
			return Item{}, fmt.Errorf("table %s: %w", doc.Table, err)
		}
		table.Rows = rows
		return TableItem(table), nil

	default:
		return Item{}, fmt.Errorf("element must be a SQL string or a table object")
	}
}

// parseData decodes a table's data field: absent, one row object, or an
// array of row objects.
func parseData(raw json.RawMessage) ([]*statement.Row, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	switch trimmed[0] {
	case '{':
		row := &statement.Row{}
		if err := json.Unmarshal(trimmed, row); err != nil {
			return nil, err
		}
		return []*statement.Row{row}, nil

	case '[':
		var rawRows []json.RawMessage
		if err := json.Unmarshal(trimmed, &rawRows); err != nil {
			return nil, err
		}
		rows := make([]*statement.Row, 0, len(rawRows))
		for i, rr := range rawRows {
			row := &statement.Row{}
			if err := json.Unmarshal(rr, row); err != nil {
				return nil, fmt.Errorf("row %d: %w", i+1, err)
			}
			rows = append(rows, row)
		}
		return rows, nil

	default:
		return nil, fmt.Errorf("data must be an object or an array of objects")
	}
}
