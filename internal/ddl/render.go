package ddl

import (
	"fmt"
	"log"
	"strings"

	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/dialect"
	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/schema"
)

// DefaultMaxCycles bounds simple-cycle enumeration when Options.MaxCycles is
// zero.
const DefaultMaxCycles = 10000

// Options tunes Render.
type Options struct {
	// Schema qualifies every table name. Empty means unqualified.
	Schema string

	// Preamble emits the dialect's schema bootstrap as a commented block.
	Preamble        bool
	PreambleOptions dialect.PreambleOptions

	// KeepSelfReferences leaves single-table cycles (a table referencing
	// itself) out of cycle breaking.
	KeepSelfReferences bool

	// MaxCycles caps cycle enumeration (0 = DefaultMaxCycles, <0 = no cap).
	MaxCycles int
}

// DroppedEdge is a foreign key left out of the script, with the reason.
type DroppedEdge struct {
	Edge   schema.ForeignKeyEdge
	Reason string
}

// Result is the rendered script plus what happened to each foreign key.
type Result struct {
	SQL     string
	Tables  int
	Columns int

	// ForeignKeys are the edges rendered as FOREIGN KEY constraints.
	ForeignKeys []schema.ForeignKeyEdge
	// Missing are edges whose target table or column is unknown.
	Missing []DroppedEdge
	// Cyclic are edges removed to keep the reference graph acyclic.
	Cyclic []schema.ForeignKeyEdge
	// BrokenCycles are the table-level edges removed by cycle breaking.
	BrokenCycles []TableEdge
}

// Render produces the DDL script for tables and edges in dialect d.
//
// Layout, sections separated by a blank line and empty sections omitted:
//
//	-- DDL for database: <DIALECT>
//	[-- commented schema bootstrap]
//	-- Tables              CREATE TABLE per table, input order
//	-- Primary keys        one ALTER TABLE per table with PK columns
//	-- Unique constraints  referenced non-PK columns, where the dialect needs them
//	-- Foreign keys        one ALTER TABLE per surviving edge
//
// Edges pointing at an unknown table or column are dropped and logged.
// Edges closing a reference cycle are dropped (see Graph.BreakCycles); the
// script lists them in a comment. Output is byte-identical for identical
// input.
func Render(d dialect.Dialect, tables []schema.TableSpec, edges []schema.ForeignKeyEdge, opts Options) (*Result, error) {
	if d == nil {
		return nil, schema.Errorf(schema.KindRender, "ddl.render", "no dialect selected")
	}
	if len(tables) == 0 {
		return nil, schema.Errorf(schema.KindRender, "ddl.render", "no tables to render")
	}
	maxCycles := opts.MaxCycles
	if maxCycles == 0 {
		maxCycles = DefaultMaxCycles
	}

	res := &Result{Tables: len(tables)}
	byName := make(map[string]schema.TableSpec, len(tables))
	names := make([]string, 0, len(tables))
	for _, t := range tables {
		byName[t.Name] = t
		names = append(names, t.Name)
		res.Columns += len(t.Columns)
	}

	// Validate targets.
	valid := make([]schema.ForeignKeyEdge, 0, len(edges))
	for _, e := range edges {
		tgt, ok := byName[e.TargetTable]
		switch {
		case !ok:
			res.Missing = append(res.Missing, DroppedEdge{Edge: e, Reason: "unknown target table"})
			log.Printf("ddl: dropping foreign key %s.%s -> %s.%s: unknown target table",
				e.SourceTable, e.SourceColumn, e.TargetTable, e.TargetColumn)
		case !tgt.HasColumn(e.TargetColumn):
			res.Missing = append(res.Missing, DroppedEdge{Edge: e, Reason: "unknown target column"})
			log.Printf("ddl: dropping foreign key %s.%s -> %s.%s: column not found on target table",
				e.SourceTable, e.SourceColumn, e.TargetTable, e.TargetColumn)
		default:
			valid = append(valid, e)
		}
	}

	// Break cycles on the table graph.
	g := NewGraph(names)
	for _, e := range valid {
		if opts.KeepSelfReferences && e.SourceTable == e.TargetTable {
			continue
		}
		g.AddEdge(e.SourceTable, e.TargetTable)
	}
	res.BrokenCycles = g.BreakCycles(maxCycles)
	removed := make(map[TableEdge]bool, len(res.BrokenCycles))
	for _, te := range res.BrokenCycles {
		removed[te] = true
	}
	for _, e := range valid {
		if removed[TableEdge{Source: e.SourceTable, Target: e.TargetTable}] {
			res.Cyclic = append(res.Cyclic, e)
			log.Printf("ddl: dropping foreign key %s.%s -> %s.%s to break a reference cycle",
				e.SourceTable, e.SourceColumn, e.TargetTable, e.TargetColumn)
			continue
		}
		res.ForeignKeys = append(res.ForeignKeys, e)
	}

	// Any validated edge makes its source column NOT NULL, including edges
	// later dropped for cycles.
	fkSource := make(map[[2]string]bool, len(valid))
	for _, e := range valid {
		fkSource[[2]string{e.SourceTable, e.SourceColumn}] = true
	}

	sections := []string{header(d, opts.Schema)}
	if opts.Preamble && opts.Schema != "" {
		sections = append(sections, commentBlock("Schema bootstrap (review before running):",
			d.SchemaPreamble(opts.Schema, opts.PreambleOptions)))
	}

	creates := make([]string, 0, len(tables))
	for _, t := range tables {
		stmt, err := BuildCreateTableSQL(tableDef(d, opts.Schema, t, fkSource))
		if err != nil {
			return nil, schema.Wrap(schema.KindRender, "ddl.render", err)
		}
		creates = append(creates, stmt)
	}
	sections = append(sections, section("Tables", creates))

	namer := NewNamer(d.MaxIdentifierLength())

	var pks []string
	for _, t := range tables {
		if len(t.PrimaryKeys) == 0 {
			continue
		}
		pks = append(pks, BuildAddPrimaryKeySQL(d.QuoteFQN(opts.Schema, t.Name),
			namer.Name("PK", t.Name), quoteAll(d, t.PrimaryKeys)))
	}
	if len(pks) > 0 {
		sections = append(sections, section("Primary keys", pks))
	}

	if d.RequiresUniqueReferencedKey() {
		var uqs []string
		seen := map[[2]string]bool{}
		for _, e := range res.ForeignKeys {
			k := [2]string{e.TargetTable, e.TargetColumn}
			if seen[k] {
				continue
			}
			seen[k] = true
			pk := byName[e.TargetTable].PrimaryKeys
			if len(pk) == 1 && pk[0] == e.TargetColumn {
				continue
			}
			uqs = append(uqs, BuildAddUniqueSQL(d.QuoteFQN(opts.Schema, e.TargetTable),
				namer.Name("UQ", e.TargetTable, e.TargetColumn), []string{d.QuoteIdent(e.TargetColumn)}))
		}
		if len(uqs) > 0 {
			sections = append(sections, section("Unique constraints", uqs))
		}
	}

	var fks []string
	for _, e := range res.ForeignKeys {
		fks = append(fks, BuildAddForeignKeySQL(
			d.QuoteFQN(opts.Schema, e.SourceTable),
			namer.Name("FK", e.SourceTable, e.TargetTable),
			d.QuoteIdent(e.SourceColumn),
			d.QuoteFQN(opts.Schema, e.TargetTable),
			d.QuoteIdent(e.TargetColumn),
		))
	}
	if len(res.Cyclic) > 0 {
		lines := make([]string, 0, len(res.Cyclic))
		for _, e := range res.Cyclic {
			lines = append(lines, fmt.Sprintf("-- skipped foreign key (cycle): %s.%s -> %s.%s",
				e.SourceTable, e.SourceColumn, e.TargetTable, e.TargetColumn))
		}
		fks = append(fks, strings.Join(lines, "\n"))
	}
	if len(fks) > 0 {
		sections = append(sections, section("Foreign keys", fks))
	}

	res.SQL = strings.Join(sections, "\n\n") + "\n"
	return res, nil
}

// tableDef resolves quoting, types and column clauses for t. Clauses are
// applied in a fixed order: primary-key NOT NULL, CHECK (or enum type),
// DEFAULT, foreign-key NOT NULL.
func tableDef(d dialect.Dialect, schemaName string, t schema.TableSpec, fkSource map[[2]string]bool) TableDef {
	def := TableDef{FQN: d.QuoteFQN(schemaName, t.Name)}
	for _, c := range t.Columns {
		name := d.QuoteIdent(c.Name)
		token := c.Type
		if strings.TrimSpace(token) == "" {
			token = schema.DefaultType
		}
		col := ColumnDef{Name: name, SQLType: d.MapType(token)}

		notNull := false
		if c.PrimaryKey {
			col.Clauses = append(col.Clauses, "NOT NULL")
			notNull = true
		}
		if c.LastOperation {
			typ, clause := d.EnumOrCheck(name, dialect.LastOperationValues)
			if typ != "" {
				col.SQLType = typ
			}
			if clause != "" {
				col.Clauses = append(col.Clauses, clause)
			}
		}
		if c.SyncTimestamp {
			col.Clauses = append(col.Clauses, "DEFAULT "+d.CurrentTimestampDefault())
		}
		if fkSource[[2]string{t.Name, c.Name}] && !notNull {
			col.Clauses = append(col.Clauses, "NOT NULL")
		}
		def.Columns = append(def.Columns, col)
	}
	return def
}

func header(d dialect.Dialect, schemaName string) string {
	h := "-- DDL for database: " + d.Name()
	if schemaName != "" {
		h += "\n-- Schema: " + schemaName
	}
	return h
}

func section(title string, stmts []string) string {
	return "-- " + title + "\n" + strings.Join(stmts, "\n\n")
}

// commentBlock prefixes every line of stmts with "-- ".
func commentBlock(title string, stmts []string) string {
	var sb strings.Builder
	sb.WriteString("-- ")
	sb.WriteString(title)
	for _, s := range stmts {
		for _, line := range strings.Split(s, "\n") {
			sb.WriteString("\n-- ")
			sb.WriteString(line)
		}
	}
	return sb.String()
}

func quoteAll(d dialect.Dialect, ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = d.QuoteIdent(id)
	}
	return out
}
