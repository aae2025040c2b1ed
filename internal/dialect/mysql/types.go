// Package mysql implements the MySQL dialect.
package mysql

import "github.com/SultanAl-Jrboa/schema-to-ddl/internal/dialect"

// types maps generic tokens (upper case) to MySQL column types.
var types = map[string]string{
	"BOOLEAN":      "TINYINT(1)",
	"BOOL":         "TINYINT(1)",
	"BIT":          "TINYINT(1)",
	"TEXT":         "TEXT",
	"FLOAT":        "FLOAT",
	"REAL":         "FLOAT",
	"DOUBLE":       "DOUBLE",
	"INT":          "INT",
	"INTEGER":      "INT",
	"SMALLINT":     "SMALLINT",
	"TINYINT":      "TINYINT",
	"BIGINT":       "BIGINT",
	"VARCHAR":      "VARCHAR(255)",
	"NVARCHAR":     "VARCHAR(255)",
	"VARCHAR(255)": "VARCHAR(255)",
	"VARCHAR(100)": "VARCHAR(100)",
	"CHAR":         "CHAR",
	"DATE":         "DATE",
	"TIME":         "TIME",
	"DATETIME":     "DATETIME",
	"TIMESTAMP":    "TIMESTAMP",
	"DECIMAL":      "DECIMAL",
	"NUMERIC":      "DECIMAL",
	"MONEY":        "DECIMAL(19,4)",
	"BINARY":       "BINARY",
	"VARBINARY":    "VARBINARY(255)",
}

// MapType normalizes a generic type token into a MySQL type. Unknown tokens
// pass through unchanged.
func MapType(token string) string {
	return dialect.LookupType(types, token)
}
