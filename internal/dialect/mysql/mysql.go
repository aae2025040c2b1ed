package mysql

import (
	"fmt"
	"strings"

	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/dialect"
)

func init() {
	dialect.Register(Dialect{})
}

// Dialect renders MySQL DDL with backtick quoting and native ENUM columns.
type Dialect struct{}

func (Dialect) Name() string { return dialect.MySQL }

// QuoteIdent wraps id in backticks, doubling embedded backticks.
//
//	name     -> `name`
//	we`ird   -> `we``ird`
func (Dialect) QuoteIdent(id string) string {
	return "`" + strings.ReplaceAll(id, "`", "``") + "`"
}

func (d Dialect) QuoteFQN(schema, name string) string {
	if schema == "" {
		return d.QuoteIdent(name)
	}
	return d.QuoteIdent(schema) + "." + d.QuoteIdent(name)
}

func (Dialect) MapType(token string) string { return MapType(token) }

func (d Dialect) SchemaPreamble(schema string, _ dialect.PreambleOptions) []string {
	q := d.QuoteIdent(schema)
	return []string{
		fmt.Sprintf("DROP DATABASE IF EXISTS %s;", q),
		fmt.Sprintf("CREATE DATABASE %s;", q),
	}
}

// EnumOrCheck replaces the column type with ENUM(...).
func (Dialect) EnumOrCheck(_ string, values []string) (string, string) {
	return "ENUM(" + dialect.QuoteLiterals(values) + ")", ""
}

func (Dialect) CurrentTimestampDefault() string { return "CURRENT_TIMESTAMP" }

func (Dialect) MaxIdentifierLength() int { return 64 }

// RequiresUniqueReferencedKey is false: InnoDB only needs an index on the
// referenced column.
func (Dialect) RequiresUniqueReferencedKey() bool { return false }
