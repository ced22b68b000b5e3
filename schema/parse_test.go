package schema

import (
	"errors"
	"reflect"
	"testing"
)

// TestParsePlan verifies JSON document decoding.
func TestParsePlan(t *testing.T) {
	t.Run("mixed raw and table elements preserve order", func(t *testing.T) {
		doc := `[
			{"table": "rooms", "columns": [{"column": "id", "type": "INTEGER", "constraints": ["PRIMARY KEY"]}]},
			"ALTER TABLE rooms ADD COLUMN floor INTEGER",
			{"table": "rooms", "data": [{"id": 1}, {"id": 2}]}
		]`

		plan, err := ParsePlan([]byte(doc))
		if err != nil {
			t.Fatalf("ParsePlan() error = %v", err)
		}
		if len(plan) != 3 {
			t.Fatalf("items = %d, want 3", len(plan))
		}
		if plan[0].Table == nil || plan[0].Table.Name != "rooms" {
			t.Errorf("item 1 = %+v, want rooms table", plan[0])
		}
		if plan[1].Raw != "ALTER TABLE rooms ADD COLUMN floor INTEGER" {
			t.Errorf("item 2 raw = %q", plan[1].Raw)
		}
		if plan[2].Table == nil || len(plan[2].Table.Rows) != 2 {
			t.Errorf("item 3 = %+v, want 2 data rows", plan[2])
		}
	})

	t.Run("column constraints decode in order", func(t *testing.T) {
		doc := `[{"table": "t", "columns": [
			{"column": "id", "type": "INTEGER", "constraints": ["PRIMARY KEY", "AUTOINCREMENT"]}
		]}]`

		plan, err := ParsePlan([]byte(doc))
		if err != nil {
			t.Fatalf("ParsePlan() error = %v", err)
		}
		col := plan[0].Table.Columns[0]
		if !reflect.DeepEqual(col.Constraints, []string{"PRIMARY KEY", "AUTOINCREMENT"}) {
			t.Errorf("constraints = %v", col.Constraints)
		}
	})

	t.Run("single data object becomes one row", func(t *testing.T) {
		plan, err := ParsePlan([]byte(`[{"table": "t", "data": {"id": 1, "name": "a"}}]`))
		if err != nil {
			t.Fatalf("ParsePlan() error = %v", err)
		}
		rows := plan[0].Table.Rows
		if len(rows) != 1 {
			t.Fatalf("rows = %d, want 1", len(rows))
		}
		if got, want := rows[0].Columns(), []string{"id", "name"}; !reflect.DeepEqual(got, want) {
			t.Errorf("row columns = %v, want %v (document order)", got, want)
		}
	})

	t.Run("entry with neither columns nor data is a no-op", func(t *testing.T) {
		plan, err := ParsePlan([]byte(`[{"table": "t"}]`))
		if err != nil {
			t.Fatalf("ParsePlan() error = %v", err)
		}

		structure, err := plan.Structure()
		if err != nil {
			t.Fatalf("Structure() error = %v", err)
		}
		data, err := plan.Data()
		if err != nil {
			t.Fatalf("Data() error = %v", err)
		}
		if len(structure) != 0 || len(data) != 0 {
			t.Errorf("no-op entry produced statements: structure=%v data=%v", structure, data)
		}
	})

	t.Run("malformed documents wrap ErrLoadFailed", func(t *testing.T) {
		docs := []string{
			`{"not": "an array"}`,
			`[42]`,
			`[{"columns": []}]`,
			`[{"table": "t", "data": "nope"}]`,
			`[""]`,
			`not json at all`,
		}
		for _, doc := range docs {
			if _, err := ParsePlan([]byte(doc)); !errors.Is(err, ErrLoadFailed) {
				t.Errorf("ParsePlan(%s) error = %v, want ErrLoadFailed", doc, err)
			}
		}
	})
}

// TestPlanStatements verifies plan-to-statement flattening.
func TestPlanStatements(t *testing.T) {
	t.Run("structure renders create table statements", func(t *testing.T) {
		plan, err := ParsePlan([]byte(`[
			{"table": "t", "columns": [{"column": "id", "type": "INTEGER"}]},
			"DROP TABLE IF EXISTS old"
		]`))
		if err != nil {
			t.Fatalf("ParsePlan() error = %v", err)
		}

		structure, err := plan.Structure()
		if err != nil {
			t.Fatalf("Structure() error = %v", err)
		}
		want := []string{
			"CREATE TABLE IF NOT EXISTS t (id INTEGER)",
			"DROP TABLE IF EXISTS old",
		}
		if !reflect.DeepEqual(structure, want) {
			t.Errorf("Structure() = %v, want %v", structure, want)
		}
	})

	t.Run("data flattens rows in plan then row order", func(t *testing.T) {
		plan, err := ParsePlan([]byte(`[
			{"table": "a", "data": [{"id": 1}]},
			{"table": "b", "data": [{"id": 2}, {"id": 3}]}
		]`))
		if err != nil {
			t.Fatalf("ParsePlan() error = %v", err)
		}

		data, err := plan.Data()
		if err != nil {
			t.Fatalf("Data() error = %v", err)
		}
		if len(data) != 3 {
			t.Fatalf("statements = %d, want 3", len(data))
		}
		if data[0].SQL != "INSERT INTO a (id) VALUES (?);" {
			t.Errorf("first = %q", data[0].SQL)
		}
		if data[2].Args[0] != int64(3) {
			t.Errorf("last args = %v, want [3]", data[2].Args)
		}
	})

	t.Run("HasData reflects inline rows", func(t *testing.T) {
		withData, err := ParsePlan([]byte(`[{"table": "t", "data": {"id": 1}}]`))
		if err != nil {
			t.Fatalf("ParsePlan() error = %v", err)
		}
		if !withData.HasData() {
			t.Error("HasData() = false for plan with rows")
		}

		empty := Plan{RawItem("SELECT 1")}
		if empty.HasData() {
			t.Error("HasData() = true for raw-only plan")
		}
	})
}
