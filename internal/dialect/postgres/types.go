// Package postgres implements the PostgreSQL dialect.
package postgres

import "github.com/SultanAl-Jrboa/schema-to-ddl/internal/dialect"

// types maps generic tokens (upper case) to PostgreSQL column types.
//
//	INT / INTEGER    -> INTEGER
//	FLOAT            -> REAL
//	DATETIME         -> TIMESTAMP
//	DECIMAL          -> NUMERIC
//	MONEY            -> NUMERIC(19,4)
//	VARCHAR          -> VARCHAR(255)
//	anything else    -> returned verbatim
var types = map[string]string{
	"BOOLEAN":      "BOOLEAN",
	"BOOL":         "BOOLEAN",
	"BIT":          "BOOLEAN",
	"TEXT":         "TEXT",
	"FLOAT":        "REAL",
	"REAL":         "REAL",
	"DOUBLE":       "DOUBLE PRECISION",
	"INT":          "INTEGER",
	"INTEGER":      "INTEGER",
	"SMALLINT":     "SMALLINT",
	"TINYINT":      "SMALLINT",
	"BIGINT":       "BIGINT",
	"VARCHAR":      "VARCHAR(255)",
	"NVARCHAR":     "VARCHAR(255)",
	"VARCHAR(255)": "VARCHAR(255)",
	"VARCHAR(100)": "VARCHAR(100)",
	"CHAR":         "CHAR",
	"DATE":         "DATE",
	"TIME":         "TIME",
	"DATETIME":     "TIMESTAMP",
	"TIMESTAMP":    "TIMESTAMP",
	"DECIMAL":      "NUMERIC",
	"NUMERIC":      "NUMERIC",
	"MONEY":        "NUMERIC(19,4)",
	"BINARY":       "BYTEA",
	"VARBINARY":    "BYTEA",
}

// MapType normalizes a generic type token into a PostgreSQL type. Unknown
// tokens pass through unchanged.
func MapType(token string) string {
	return dialect.LookupType(types, token)
}
