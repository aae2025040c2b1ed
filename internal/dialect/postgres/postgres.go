package postgres

import (
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/dialect"
)

func init() {
	dialect.Register(Dialect{})
}

// Dialect renders PostgreSQL DDL. Identifiers are quoted with pgx's
// sanitizer so embedded double quotes are doubled.
type Dialect struct{}

func (Dialect) Name() string { return dialect.Postgres }

func (Dialect) QuoteIdent(id string) string {
	return pgx.Identifier{id}.Sanitize()
}

// QuoteFQN renders "schema"."name", or just "name" when schema is empty.
func (Dialect) QuoteFQN(schema, name string) string {
	if schema == "" {
		return pgx.Identifier{name}.Sanitize()
	}
	return pgx.Identifier{schema, name}.Sanitize()
}

func (Dialect) MapType(token string) string { return MapType(token) }

func (d Dialect) SchemaPreamble(schema string, _ dialect.PreambleOptions) []string {
	q := d.QuoteIdent(schema)
	return []string{
		fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE;", q),
		fmt.Sprintf("CREATE SCHEMA %s;", q),
	}
}

func (Dialect) EnumOrCheck(quotedCol string, values []string) (string, string) {
	return "", dialect.CheckIn(quotedCol, values)
}

func (Dialect) CurrentTimestampDefault() string { return "CURRENT_TIMESTAMP" }

// MaxIdentifierLength is NAMEDATALEN-1.
func (Dialect) MaxIdentifierLength() int { return 63 }

func (Dialect) RequiresUniqueReferencedKey() bool { return true }
