// Package mssql implements the SQL Server dialect.
//
// The type table is biased toward the widths used by the metadata templates
// (VARCHAR(255), DECIMAL(18,2), VARBINARY(MAX)).
package mssql

import "github.com/SultanAl-Jrboa/schema-to-ddl/internal/dialect"

var types = map[string]string{
	"VARCHAR":      "VARCHAR(255)",
	"NVARCHAR":     "NVARCHAR(255)",
	"VARCHAR(255)": "VARCHAR(255)",
	"VARCHAR(100)": "VARCHAR(100)",
	"CHAR":         "CHAR(10)",
	"TEXT":         "TEXT",
	"INT":          "INT",
	"INTEGER":      "INT",
	"BIGINT":       "BIGINT",
	"SMALLINT":     "SMALLINT",
	"TINYINT":      "TINYINT",
	"BIT":          "BIT",
	"BOOLEAN":      "BIT",
	"BOOL":         "BIT",
	"DECIMAL":      "DECIMAL(18,2)",
	"NUMERIC":      "NUMERIC(18,2)",
	"MONEY":        "MONEY",
	"FLOAT":        "FLOAT",
	"REAL":         "REAL",
	"DOUBLE":       "FLOAT",
	"DATETIME":     "DATETIME",
	"DATE":         "DATE",
	"TIME":         "TIME",
	"TIMESTAMP":    "DATETIME2",
	"BINARY":       "BINARY",
	"VARBINARY":    "VARBINARY(MAX)",
}

// MapType maps a generic type token into a SQL Server column type. Unknown
// tokens pass through unchanged.
func MapType(token string) string {
	return dialect.LookupType(types, token)
}
