// Package ddl turns parsed metadata into a DDL script for one dialect.
//
// The script creates every table first and adds constraints afterwards with
// ALTER TABLE, so tables may reference each other in any order. Foreign keys
// that would close a reference cycle are dropped before rendering (see
// BreakCycles).
package ddl

import (
	"fmt"
	"strings"
)

// BuildCreateTableSQL renders a CREATE TABLE statement from a TableDef.
//
// Rules:
//
//   - t.FQN must be non-empty; it is emitted verbatim.
//   - At least one column is required, each with a Name and SQLType.
//   - A column is rendered as "<Name> <SQLType>[ <clause>...]".
//
// The statement has the form:
//
//	CREATE TABLE <FQN> (
//	    <col1-def>,
//	    <col2-def>
//	);
//
// Constraints are not rendered here; they are emitted as separate ALTER
// TABLE statements by Render.
func BuildCreateTableSQL(t TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: table %s has no columns", fqn)
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s missing SQLType", c.Name)
		}

		var sb strings.Builder
		sb.WriteString(c.Name)
		sb.WriteByte(' ')
		sb.WriteString(typ)
		for _, cl := range c.Clauses {
			sb.WriteByte(' ')
			sb.WriteString(cl)
		}
		cols = append(cols, sb.String())
	}

	return fmt.Sprintf("CREATE TABLE %s (\n    %s\n);", fqn, strings.Join(cols, ",\n    ")), nil
}

// BuildAddPrimaryKeySQL renders ALTER TABLE ... ADD CONSTRAINT ... PRIMARY KEY.
// cols must already be quoted.
func BuildAddPrimaryKeySQL(fqn, name string, cols []string) string {
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s PRIMARY KEY (%s);", fqn, name, strings.Join(cols, ", "))
}

// BuildAddUniqueSQL renders ALTER TABLE ... ADD CONSTRAINT ... UNIQUE.
func BuildAddUniqueSQL(fqn, name string, cols []string) string {
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s UNIQUE (%s);", fqn, name, strings.Join(cols, ", "))
}

// BuildAddForeignKeySQL renders ALTER TABLE ... ADD CONSTRAINT ... FOREIGN KEY
// ... REFERENCES.
func BuildAddForeignKeySQL(fqn, name, col, refFQN, refCol string) string {
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s);",
		fqn, name, col, refFQN, refCol)
}
