package oracle

import (
	"fmt"
	"strings"

	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/dialect"
)

// DefaultPassword is used for the bootstrap CREATE USER when none is
// configured.
const DefaultPassword = "CHANGE_ME"

func init() {
	dialect.Register(Dialect{})
}

// Dialect renders Oracle DDL. A schema is a user, so the preamble creates
// one and grants it the usual roles.
type Dialect struct{}

func (Dialect) Name() string { return dialect.Oracle }

// QuoteIdent wraps id in double quotes, doubling embedded quotes.
func (Dialect) QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

func (d Dialect) QuoteFQN(schema, name string) string {
	if schema == "" {
		return d.QuoteIdent(name)
	}
	return d.QuoteIdent(schema) + "." + d.QuoteIdent(name)
}

func (Dialect) MapType(token string) string { return MapType(token) }

// SchemaPreamble drops the user if present (ORA-01918 means it did not
// exist), then recreates it with connect/resource grants and quota.
func (d Dialect) SchemaPreamble(schema string, opts dialect.PreambleOptions) []string {
	pw := opts.Password
	if pw == "" {
		pw = DefaultPassword
	}
	q := d.QuoteIdent(schema)
	lit := strings.ReplaceAll(q, "'", "''")
	return []string{
		fmt.Sprintf("BEGIN\n  EXECUTE IMMEDIATE 'DROP USER %s CASCADE';\nEXCEPTION\n  WHEN OTHERS THEN\n    IF SQLCODE != -1918 THEN RAISE; END IF;\nEND;\n/", lit),
		fmt.Sprintf("CREATE USER %s IDENTIFIED BY %s;", q, d.QuoteIdent(pw)),
		fmt.Sprintf("GRANT CONNECT, RESOURCE TO %s;", q),
		fmt.Sprintf("ALTER USER %s DEFAULT TABLESPACE USERS;", q),
		fmt.Sprintf("GRANT UNLIMITED TABLESPACE TO %s;", q),
	}
}

func (Dialect) EnumOrCheck(quotedCol string, values []string) (string, string) {
	return "", dialect.CheckIn(quotedCol, values)
}

func (Dialect) CurrentTimestampDefault() string { return "SYSTIMESTAMP" }

// MaxIdentifierLength is the pre-12.2 limit, which older targets still
// enforce.
func (Dialect) MaxIdentifierLength() int { return 30 }

func (Dialect) RequiresUniqueReferencedKey() bool { return true }
