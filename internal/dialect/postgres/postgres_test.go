package postgres

import (
	"strings"
	"testing"

	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/dialect"
)

// TestMapType verifies that MapType normalizes generic tokens into the
// expected PostgreSQL types and passes unknown tokens through unchanged.
func TestMapType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{name: "int lower", token: "int", want: "INTEGER"},
		{name: "int padded mixed case", token: " InT ", want: "INTEGER"},
		{name: "varchar bare", token: "varchar", want: "VARCHAR(255)"},
		{name: "varchar 100", token: "VARCHAR(100)", want: "VARCHAR(100)"},
		{name: "datetime", token: "datetime", want: "TIMESTAMP"},
		{name: "money", token: "Money", want: "NUMERIC(19,4)"},
		{name: "float", token: "FLOAT", want: "REAL"},
		{name: "unknown passthrough", token: "jsonb", want: "jsonb"},
		{name: "sized passthrough", token: "VARCHAR(42)", want: "VARCHAR(42)"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := MapType(tt.token); got != tt.want {
				t.Fatalf("MapType(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}

func TestQuoting(t *testing.T) {
	t.Parallel()

	var d Dialect
	if got := d.QuoteIdent(`we"ird`); got != `"we""ird"` {
		t.Fatalf("QuoteIdent = %s", got)
	}
	if got := d.QuoteFQN("NIC_DWH_STG", "CUSTOMER"); got != `"NIC_DWH_STG"."CUSTOMER"` {
		t.Fatalf("QuoteFQN = %s", got)
	}
	if got := d.QuoteFQN("", "CUSTOMER"); got != `"CUSTOMER"` {
		t.Fatalf("QuoteFQN without schema = %s", got)
	}
}

func TestConstraintSyntax(t *testing.T) {
	t.Parallel()

	var d Dialect
	typ, clause := d.EnumOrCheck(`"op"`, []string{"INSERT", "UPDATE", "DELETE"})
	if typ != "" {
		t.Fatalf("postgres must not override the type, got %q", typ)
	}
	if clause != `CHECK ("op" IN ('INSERT', 'UPDATE', 'DELETE'))` {
		t.Fatalf("clause = %s", clause)
	}
	pre := strings.Join(d.SchemaPreamble("S", dialect.PreambleOptions{}), "\n")
	if !strings.Contains(pre, `DROP SCHEMA IF EXISTS "S" CASCADE;`) || !strings.Contains(pre, `CREATE SCHEMA "S";`) {
		t.Fatalf("preamble = %s", pre)
	}
}

// BenchmarkMapType measures lookups over a mix of known and unknown tokens.
func BenchmarkMapType(b *testing.B) {
	tokens := []string{"int", "varchar", "DATETIME", "money", "jsonb", "", "BIGINT"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = MapType(tokens[i%len(tokens)])
	}
}
