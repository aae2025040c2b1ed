package mssql

import (
	"fmt"
	"strings"

	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/dialect"
)

func init() {
	dialect.Register(Dialect{})
}

// Dialect renders T-SQL with bracket quoting.
type Dialect struct{}

func (Dialect) Name() string { return dialect.SQLServer }

// QuoteIdent quotes a single identifier segment using bracket syntax,
// escaping any closing brackets.
//
//	name      -> [name]
//	weird]id  -> [weird]]id]
func (Dialect) QuoteIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}

func (d Dialect) QuoteFQN(schema, name string) string {
	if schema == "" {
		return d.QuoteIdent(name)
	}
	return d.QuoteIdent(schema) + "." + d.QuoteIdent(name)
}

func (Dialect) MapType(token string) string { return MapType(token) }

// SchemaPreamble drops the schema when sys.schemas lists it, then recreates
// it. DROP SCHEMA runs through sp_executesql because it must be the only
// statement in its batch.
func (d Dialect) SchemaPreamble(schema string, _ dialect.PreambleOptions) []string {
	lit := strings.ReplaceAll(schema, "'", "''")
	return []string{
		fmt.Sprintf("IF EXISTS (SELECT * FROM sys.schemas WHERE name = N'%s')\nBEGIN\n  EXEC sp_executesql N'DROP SCHEMA %s';\nEND;",
			lit, strings.ReplaceAll(d.QuoteIdent(schema), "'", "''")),
		fmt.Sprintf("CREATE SCHEMA %s;", d.QuoteIdent(schema)),
	}
}

func (Dialect) EnumOrCheck(quotedCol string, values []string) (string, string) {
	return "", dialect.CheckIn(quotedCol, values)
}

func (Dialect) CurrentTimestampDefault() string { return "GETDATE()" }

func (Dialect) MaxIdentifierLength() int { return 128 }

func (Dialect) RequiresUniqueReferencedKey() bool { return true }
