// Package dialect defines the per-database capability object used by the DDL
// renderer, and a small registry that concrete dialects join from their
// init() functions.
//
// Rendering code never branches on a dialect name. It selects one Dialect
// per run via Lookup and calls its methods for quoting, type mapping,
// defaults and constraint syntax.
package dialect

import (
	"sort"
	"strings"
	"sync"

	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/schema"
)

// Recognized dialect tokens, as they appear in the input spreadsheet.
const (
	Postgres  = "POSTGRESQL"
	MySQL     = "MYSQL"
	SQLServer = "SQL_SERVER"
	Oracle    = "ORACLE"
)

// LastOperationValues are the allowed values of a "last operation" column.
var LastOperationValues = []string{"INSERT", "UPDATE", "DELETE"}

// PreambleOptions carries inputs for the schema bootstrap block.
type PreambleOptions struct {
	// Password is used by dialects whose schema is a user (Oracle).
	Password string
}

// Dialect is the capability set the renderer needs from a target database.
type Dialect interface {
	// Name returns the canonical token, e.g. "POSTGRESQL".
	Name() string

	// QuoteIdent quotes a single identifier segment.
	QuoteIdent(id string) string

	// QuoteFQN quotes schema.name; an empty schema yields just the name.
	QuoteFQN(schema, name string) string

	// MapType translates a generic type token into a column type. Lookup is
	// case-insensitive and unknown tokens are returned verbatim.
	MapType(token string) string

	// SchemaPreamble returns the statements that (re)create the schema or
	// database namespace. Callers decide how to emit them.
	SchemaPreamble(schema string, opts PreambleOptions) []string

	// EnumOrCheck restricts quotedCol to values. Dialects with a native
	// enumeration return a replacement column type; others return a CHECK
	// clause. Exactly one of the results is non-empty.
	EnumOrCheck(quotedCol string, values []string) (typeOverride, clause string)

	// CurrentTimestampDefault is the expression used after DEFAULT for sync
	// timestamp columns.
	CurrentTimestampDefault() string

	// MaxIdentifierLength bounds generated constraint names.
	MaxIdentifierLength() int

	// RequiresUniqueReferencedKey reports whether a foreign key may only
	// reference a column covered by a PRIMARY KEY or UNIQUE constraint.
	RequiresUniqueReferencedKey() bool
}

var (
	mu       sync.RWMutex
	dialects = map[string]Dialect{}
)

// Register adds (or replaces) d under its Name. Concrete dialect packages
// call it from init().
func Register(d Dialect) {
	mu.Lock()
	defer mu.Unlock()
	dialects[d.Name()] = d
}

// Normalize canonicalizes a user-supplied dialect token: trimmed, upper
// case, with spaces and dashes folded to underscores ("sql server" ->
// "SQL_SERVER").
func Normalize(token string) string {
	t := strings.ToUpper(strings.TrimSpace(token))
	t = strings.NewReplacer(" ", "_", "-", "_").Replace(t)
	return t
}

// Lookup returns the registered dialect for token. Unknown tokens fail with
// schema.KindUnsupportedDialect naming the offending value.
func Lookup(token string) (Dialect, error) {
	name := Normalize(token)
	mu.RLock()
	d, ok := dialects[name]
	mu.RUnlock()
	if !ok {
		return nil, schema.Errorf(schema.KindUnsupportedDialect, "dialect.lookup",
			"unsupported database type %q (supported: %s)", strings.TrimSpace(token), strings.Join(Names(), ", "))
	}
	return d, nil
}

// Names lists registered dialect tokens in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(dialects))
	for k := range dialects {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// CheckIn renders the CHECK clause shared by dialects without enumerations:
//
//	CHECK ("col" IN ('INSERT', 'UPDATE', 'DELETE'))
func CheckIn(quotedCol string, values []string) string {
	return "CHECK (" + quotedCol + " IN (" + QuoteLiterals(values) + "))"
}

// QuoteLiterals renders values as a comma-separated list of SQL string
// literals with embedded single quotes doubled.
func QuoteLiterals(values []string) string {
	lits := make([]string, len(values))
	for i, v := range values {
		lits[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	return strings.Join(lits, ", ")
}

// LookupType performs the case-insensitive table lookup shared by every
// dialect's MapType. Keys in table must be upper case.
func LookupType(table map[string]string, token string) string {
	key := strings.ToUpper(strings.TrimSpace(token))
	if v, ok := table[key]; ok {
		return v
	}
	return token
}
