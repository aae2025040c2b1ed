package ddl

// ColumnDef is a column after dialect resolution: the name is already
// quoted and the type already mapped, so rendering is plain concatenation.
//
// Fields:
//   - Name: quoted column identifier
//   - SQLType: dialect column type (e.g., INTEGER, VARCHAR2(255), ENUM(...))
//   - Clauses: trailing clauses in emission order (NOT NULL, CHECK (...),
//     DEFAULT ...)
type ColumnDef struct {
	Name    string
	SQLType string
	Clauses []string
}

// TableDef holds the quoted, schema-qualified table name and its ordered
// column definitions.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}
