package schema

import (
	"context"

	"github.com/nerrad567/litesync/statement"
)

// Table describes one table in a plan: its structure, its inline data, or
// both. An entry with neither columns nor rows contributes nothing to
// either phase; that is a no-op, not an error.
type Table struct {
	Name    string
	Columns []statement.Column
	Rows    []*statement.Row
}

// Item is one element of a Plan: either a raw SQL statement or a table
// definition. Exactly one of the two fields is set.
type Item struct {
	// Raw is a SQL statement passed through to the structure phase
	// unchanged, with no bound parameters.
	Raw string

	// Table is a declarative table definition.
	Table *Table
}

// RawItem wraps a bare SQL statement as a plan item.
func RawItem(sql string) Item {
	return Item{Raw: sql}
}

// TableItem wraps a table definition as a plan item.
func TableItem(t *Table) Item {
	return Item{Table: t}
}

// Plan is an ordered description of structural and data changes to apply.
// Sequence order is execution order and is significant.
type Plan []Item

// Structure returns the structure-phase statements in plan order: raw
// statements verbatim, table definitions rendered as
// CREATE TABLE IF NOT EXISTS. Items without columns contribute nothing.
func (p Plan) Structure() ([]string, error) {
	var stmts []string
	for _, item := range p {
		switch {
		case item.Raw != "":
			stmts = append(stmts, item.Raw)
		case item.Table != nil && len(item.Table.Columns) > 0:
			ddl, err := statement.CreateTable(item.Table.Name, item.Table.Columns, true)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, ddl)
		}
	}
	return stmts, nil
}

// Data returns the data-phase statements: one INSERT per (table, row) pair,
// preserving plan order then row order within each table.
func (p Plan) Data() ([]statement.Prepared, error) {
	var stmts []statement.Prepared
	for _, item := range p {
		if item.Table == nil {
			continue
		}
		for _, row := range item.Table.Rows {
			ins, err := statement.Insert(item.Table.Name, row)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, ins)
		}
	}
	return stmts, nil
}

// HasData reports whether any table in the plan carries rows.
func (p Plan) HasData() bool {
	for _, item := range p {
		if item.Table != nil && len(item.Table.Rows) > 0 {
			return true
		}
	}
	return false
}

// VersionChanger is the version-change capability consumed by
// ChangeVersion. Satisfied by *database.DB.
type VersionChanger interface {
	ChangeVersionWithSchema(ctx context.Context, newVersion string, structure []string) error
}

// ChangeVersion runs the plan's structure statements inside an atomic
// version change to newVersion.
//
// Only structure may run in this path: a plan carrying row data is
// rejected up front with ErrDataNotAllowed, before the version change
// starts. Insert the data in a follow-up batch once the new version is
// confirmed.
func ChangeVersion(ctx context.Context, vc VersionChanger, newVersion string, plan Plan) error {
	if plan.HasData() {
		return ErrDataNotAllowed
	}
	structure, err := plan.Structure()
	if err != nil {
		return err
	}
	return vc.ChangeVersionWithSchema(ctx, newVersion, structure)
}
