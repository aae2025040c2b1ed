package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"unicode/utf8"
)

func TestDecode_JSON(t *testing.T) {
	t.Parallel()

	const js = `{
	  "job": "model-a",
	  "dialect": "ORACLE",
	  "schema": "STG",
	  "input": {
	    "path": "model.xlsx",
	    "options": {
	      "header_row": 6,
	      "header_aliases": { "type": "Data Type" }
	    }
	  },
	  "output": { "path": "out.sql", "preamble": true, "oracle_password": "pw" },
	  "render": { "keep_self_references": true },
	  "metrics": { "backend": "pushgateway", "pushgateway_url": "http://localhost:9091" }
	}`

	c, err := Decode([]byte(js), ".json")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if c.Job != "model-a" || c.Dialect != "ORACLE" || c.Schema != "STG" {
		t.Fatalf("top-level decoded = %+v", c)
	}
	if c.Input.Path != "model.xlsx" || c.Input.Options.Int("header_row", 0) != 6 {
		t.Fatalf("input decoded = %+v", c.Input)
	}
	if got := c.Input.Options.StringMap("header_aliases"); got["type"] != "Data Type" {
		t.Fatalf("header_aliases = %#v", got)
	}
	if !c.Output.Preamble || c.Output.OraclePassword != "pw" {
		t.Fatalf("output decoded = %+v", c.Output)
	}
	if !c.Render.KeepSelfReferences {
		t.Fatalf("render.keep_self_references = false, want true")
	}
	// Absent fields keep defaults.
	if c.Render.MaxCycles != Default().Render.MaxCycles {
		t.Fatalf("render.max_cycles = %d, want default %d", c.Render.MaxCycles, Default().Render.MaxCycles)
	}
}

func TestDecode_YAML(t *testing.T) {
	t.Parallel()

	const y = `
job: model-b
schema: ""
input:
  format: csv
  options:
    header_row: 1
    comma: ";"
    ref_table_pos: 7
render:
  max_cycles: -1
`
	c, err := Decode([]byte(y), ".yml")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if c.Job != "model-b" || c.Schema != "" {
		t.Fatalf("decoded = %+v", c)
	}
	if c.Input.Format != "csv" {
		t.Fatalf("input.format = %q, want csv", c.Input.Format)
	}
	if got := c.Input.Options.Rune("comma", ','); got != ';' {
		t.Fatalf("comma = %q, want ';'", got)
	}
	if got := c.Input.Options.Int("ref_table_pos", 0); got != 7 {
		t.Fatalf("ref_table_pos = %d, want 7", got)
	}
	if c.Render.MaxCycles != -1 {
		t.Fatalf("max_cycles = %d, want -1", c.Render.MaxCycles)
	}
	if c.Metrics.Backend != "none" {
		t.Fatalf("metrics.backend = %q, want default none", c.Metrics.Backend)
	}
}

func TestDecode_EmptyYAMLIsDefault(t *testing.T) {
	t.Parallel()
	c, err := Decode(nil, ".yaml")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(c, Default()) {
		t.Fatalf("empty yaml = %+v, want Default()", c)
	}
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		ext  string
	}{
		{"unknown json field", `{"jobs": "x"}`, ".json"},
		{"unknown yaml field", "jobs: x\n", ".yaml"},
		{"bad json", `{`, ".json"},
		{"unsupported ext", `job = "x"`, ".toml"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Decode([]byte(tc.in), tc.ext); err == nil {
				t.Fatalf("Decode(%q, %s) error = nil, want error", tc.in, tc.ext)
			}
		})
	}
}

func TestLoad_File(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "ddlgen.yaml")
	if err := os.WriteFile(path, []byte("job: from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Job != "from-file" {
		t.Fatalf("job = %q, want from-file", c.Job)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("Load(missing) error = nil, want error")
	}
}

func TestOptions_Int_Rune_DefaultsAndCoercion(t *testing.T) {
	t.Parallel()

	o := Options{
		"s":  "hello",
		"i":  float64(42), // encoding/json decodes numbers as float64
		"iy": 7,           // yaml.v3 decodes integers as int
		"r":  ",",
	}

	if got := o.Int("i", 0); got != 42 {
		t.Fatalf("Int(i) = %d, want 42", got)
	}
	if got := o.Int("iy", 0); got != 7 {
		t.Fatalf("Int(iy) = %d, want 7", got)
	}
	if got := o.Int("s", 9); got != 9 {
		t.Fatalf("Int(s) = %d, want default 9", got)
	}
	if got := o.Rune("r", ';'); got != ',' {
		t.Fatalf("Rune(r) = %q, want ','", got)
	}
	if got := o.Rune("missing", 'X'); got != 'X' {
		t.Fatalf("Rune(missing) = %q, want 'X'", got)
	}

	// Rune picks the first rune, not the first byte.
	o["r2"] = "ž"
	r := o.Rune("r2", 'x')
	if !utf8.ValidRune(r) || string(r) != "ž" {
		t.Fatalf("Rune(r2) = %#U, want ž", r)
	}
}

func TestOptions_StringMap(t *testing.T) {
	t.Parallel()

	o := Options{
		"m":  map[string]any{"A": "a", "B": "b", "X": 1},
		"ms": map[string]string{"k": "v"},
	}

	if sm := o.StringMap("m"); !reflect.DeepEqual(sm, map[string]string{"A": "a", "B": "b"}) {
		t.Fatalf("StringMap(m) = %#v, want {A:a B:b}", sm)
	}
	if sm := o.StringMap("ms"); sm["k"] != "v" {
		t.Fatalf("StringMap(ms) = %#v, want {k:v}", sm)
	}
	if sm := o.StringMap("missing"); sm == nil || len(sm) != 0 {
		t.Fatalf("StringMap(missing) = %#v, want empty map", sm)
	}
}

func TestOptions_UnmarshalJSON_NullYieldsEmptyMap(t *testing.T) {
	t.Parallel()

	type wrapper struct {
		Opts Options `json:"options"`
	}
	var w wrapper
	if err := json.Unmarshal([]byte(`{"options": null}`), &w); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if w.Opts == nil || len(w.Opts) != 0 {
		t.Fatalf("Opts after null unmarshal = %#v, want non-nil empty map", w.Opts)
	}
}
