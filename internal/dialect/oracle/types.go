// Package oracle implements the Oracle dialect.
package oracle

import "github.com/SultanAl-Jrboa/schema-to-ddl/internal/dialect"

// types maps generic tokens (upper case) to Oracle column types. Oracle has
// no BOOLEAN column type before 23c, so flags become NUMBER(1).
var types = map[string]string{
	"BOOLEAN":      "NUMBER(1)",
	"BOOL":         "NUMBER(1)",
	"BIT":          "NUMBER(1)",
	"TEXT":         "CLOB",
	"FLOAT":        "NUMBER",
	"REAL":         "NUMBER",
	"DOUBLE":       "BINARY_DOUBLE",
	"INT":          "NUMBER(10)",
	"INTEGER":      "NUMBER(10)",
	"SMALLINT":     "NUMBER(5)",
	"TINYINT":      "NUMBER(3)",
	"BIGINT":       "NUMBER(19)",
	"VARCHAR":      "VARCHAR2(255)",
	"NVARCHAR":     "NVARCHAR2(255)",
	"VARCHAR(255)": "VARCHAR2(255)",
	"VARCHAR(100)": "VARCHAR2(100)",
	"CHAR":         "CHAR",
	"DATE":         "DATE",
	"TIME":         "DATE",
	"DATETIME":     "TIMESTAMP",
	"TIMESTAMP":    "TIMESTAMP",
	"DECIMAL":      "NUMBER",
	"NUMERIC":      "NUMBER",
	"MONEY":        "NUMBER(19,4)",
	"BINARY":       "RAW(2000)",
	"VARBINARY":    "BLOB",
}

// MapType maps a generic type token into an Oracle column type. Unknown
// tokens pass through unchanged.
func MapType(token string) string {
	return dialect.LookupType(types, token)
}
