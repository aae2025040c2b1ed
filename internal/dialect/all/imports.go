// Package all registers every built-in dialect with the dialect registry.
//
// It exists purely for side effects: importing it (usually as a blank
// import from a cmd package) runs the init functions of
//
//   - "POSTGRESQL" (internal/dialect/postgres)
//   - "MYSQL"      (internal/dialect/mysql)
//   - "SQL_SERVER" (internal/dialect/mssql)
//   - "ORACLE"     (internal/dialect/oracle)
package all

import (
	_ "github.com/SultanAl-Jrboa/schema-to-ddl/internal/dialect/mssql"
	_ "github.com/SultanAl-Jrboa/schema-to-ddl/internal/dialect/mysql"
	_ "github.com/SultanAl-Jrboa/schema-to-ddl/internal/dialect/oracle"
	_ "github.com/SultanAl-Jrboa/schema-to-ddl/internal/dialect/postgres"
)
