package dialect_test

import (
	"testing"

	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/dialect"
	_ "github.com/SultanAl-Jrboa/schema-to-ddl/internal/dialect/all"
	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/schema"
)

// TestLookup verifies token normalization and the unsupported-dialect error.
func TestLookup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		token   string
		want    string
		wantErr bool
	}{
		{token: "POSTGRESQL", want: dialect.Postgres},
		{token: " postgresql ", want: dialect.Postgres},
		{token: "MySql", want: dialect.MySQL},
		{token: "sql server", want: dialect.SQLServer},
		{token: "SQL-SERVER", want: dialect.SQLServer},
		{token: "oracle", want: dialect.Oracle},
		{token: "\tSql-Server\n", want: dialect.SQLServer},
		{token: "SQLSERVER", wantErr: true},
		{token: "SQL  SERVER", wantErr: true},
		{token: "SQL.SERVER", wantErr: true},
		{token: "DB2", wantErr: true},
		{token: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.token, func(t *testing.T) {
			t.Parallel()

			d, err := dialect.Lookup(tt.token)
			if tt.wantErr {
				if !schema.IsKind(err, schema.KindUnsupportedDialect) {
					t.Fatalf("Lookup(%q) err = %v, want unsupported_dialect", tt.token, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Lookup(%q) unexpected error: %v", tt.token, err)
			}
			if d.Name() != tt.want {
				t.Fatalf("Lookup(%q).Name() = %q, want %q", tt.token, d.Name(), tt.want)
			}
		})
	}
}

func TestNamesListsAllBuiltins(t *testing.T) {
	t.Parallel()

	got := dialect.Names()
	want := []string{"MYSQL", "ORACLE", "POSTGRESQL", "SQL_SERVER"}
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Names() = %v, want %v", got, want)
		}
	}
}

// TestMapTypeIsPure checks every dialect returns the same output for the same
// token across calls.
func TestMapTypeIsPure(t *testing.T) {
	t.Parallel()

	tokens := []string{"int", "VARCHAR", "datetime", "money", "custom(7)", ""}
	for _, name := range dialect.Names() {
		d, err := dialect.Lookup(name)
		if err != nil {
			t.Fatal(err)
		}
		for _, tok := range tokens {
			if a, b := d.MapType(tok), d.MapType(tok); a != b {
				t.Fatalf("%s MapType(%q) not stable: %q vs %q", name, tok, a, b)
			}
		}
	}
}

func TestQuoteLiterals(t *testing.T) {
	t.Parallel()

	if got := dialect.QuoteLiterals([]string{"a", "it's"}); got != "'a', 'it''s'" {
		t.Fatalf("QuoteLiterals = %s", got)
	}
}
