// Package schema defines the in-memory model that flows from the metadata
// loader into the DDL renderer: columns, tables, foreign-key edges and the
// error taxonomy shared by every stage.
//
// All values are derived once per run from the input spreadsheet and are
// discarded after the DDL text is produced.
package schema

// DefaultType is the generic type token used when a metadata row carries no
// data type. Dialects map it like any other token (e.g. VARCHAR2(255) on
// Oracle).
const DefaultType = "VARCHAR(255)"

// Reference is a single foreign-key target named by a metadata row.
type Reference struct {
	Table  string
	Column string
}

// ColumnSpec is one metadata row after parsing.
//
// Type is the raw token from the spreadsheet; mapping to a dialect type
// happens at render time.
type ColumnSpec struct {
	Table      string
	Name       string
	Type       string
	PrimaryKey bool

	// LastOperation marks the enum-like INSERT/UPDATE/DELETE column.
	LastOperation bool
	// SyncTimestamp marks the column defaulting to the current timestamp.
	SyncTimestamp bool

	References []Reference
}

// IsForeignKey reports whether the row names at least one reference.
func (c ColumnSpec) IsForeignKey() bool { return len(c.References) > 0 }

// TableSpec groups the columns of one table in input order.
type TableSpec struct {
	Name        string
	Columns     []ColumnSpec
	PrimaryKeys []string
}

// HasColumn reports whether the table declares a column with the given name.
func (t TableSpec) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// ForeignKeyEdge is a directed reference from a source column to a target
// column. Several edges may connect the same pair of tables.
type ForeignKeyEdge struct {
	SourceTable  string
	SourceColumn string
	TargetTable  string
	TargetColumn string
}

// Metadata is the loader's output: the dialect token found in (or forced
// onto) the input, and the parsed columns in first-seen order.
type Metadata struct {
	Dialect string
	Columns []ColumnSpec
}

// Tables groups cols by table name, preserving the order in which each table
// name was first seen and the order of columns within a table.
func Tables(cols []ColumnSpec) []TableSpec {
	idx := make(map[string]int)
	var out []TableSpec
	for _, c := range cols {
		i, ok := idx[c.Table]
		if !ok {
			i = len(out)
			idx[c.Table] = i
			out = append(out, TableSpec{Name: c.Table})
		}
		out[i].Columns = append(out[i].Columns, c)
		if c.PrimaryKey {
			out[i].PrimaryKeys = append(out[i].PrimaryKeys, c.Name)
		}
	}
	return out
}

// Edges expands every column reference into a ForeignKeyEdge, in row order.
// A row with several references yields several edges from the same column.
func Edges(cols []ColumnSpec) []ForeignKeyEdge {
	var out []ForeignKeyEdge
	for _, c := range cols {
		for _, r := range c.References {
			out = append(out, ForeignKeyEdge{
				SourceTable:  c.Table,
				SourceColumn: c.Name,
				TargetTable:  r.Table,
				TargetColumn: r.Column,
			})
		}
	}
	return out
}
