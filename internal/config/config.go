// Package config defines the configuration model for a DDL generation run.
// A Config is decoded from JSON or YAML (picked by file extension) and then
// overridden by command-line flags.
//
// Example (YAML):
//
//	job: nightly-model
//	schema: NIC_DWH_STG
//	input:
//	  path: model.xlsx
//	  options:
//	    header_row: 5
//	    header_aliases: { type: "Data Type" }
//	output:
//	  path: ddl_output.sql
//	  preamble: true
//	metrics:
//	  backend: pushgateway
//	  pushgateway_url: http://localhost:9091
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/ddl"
)

const (
	DefaultJob    = "ddlgen"
	DefaultSchema = "NIC_DWH_STG"
)

// Config is the top-level object of a config file.
type Config struct {
	// Job labels metrics and log lines for this run.
	Job string `json:"job" yaml:"job"`

	// Dialect overrides the dialect named in the workbook's overview sheet.
	Dialect string `json:"dialect" yaml:"dialect"`

	// Schema qualifies every generated table (database name on MySQL, user
	// on Oracle). Empty leaves tables unqualified.
	Schema string `json:"schema" yaml:"schema"`

	Input   Input   `json:"input" yaml:"input"`
	Output  Output  `json:"output" yaml:"output"`
	Render  Render  `json:"render" yaml:"render"`
	Metrics Metrics `json:"metrics" yaml:"metrics"`

	// Verbose is set from the command line only.
	Verbose bool `json:"-" yaml:"-"`
}

// Input locates the metadata document and its layout.
type Input struct {
	Path string `json:"path" yaml:"path"`

	// Format is xlsx, xlsm or csv. Empty picks it from Path.
	Format string `json:"format" yaml:"format" validate:"omitempty,oneof=xlsx xlsm csv"`

	OverviewSheet string `json:"overview_sheet" yaml:"overview_sheet"`
	DialectCell   string `json:"dialect_cell" yaml:"dialect_cell"`
	MetadataSheet string `json:"metadata_sheet" yaml:"metadata_sheet"`

	// Options holds layout knobs:
	//   header_row (int), comma (string), header_aliases (object role->header),
	//   ref_table_pos, ref_column_pos (int, 1-based)
	Options Options `json:"options" yaml:"options"`
}

// Output controls the generated script.
type Output struct {
	Path string `json:"path" yaml:"path"`

	// Preamble adds the commented schema bootstrap block.
	Preamble bool `json:"preamble" yaml:"preamble"`

	// OraclePassword goes into the commented CREATE USER statement.
	OraclePassword string `json:"oracle_password" yaml:"oracle_password"`
}

// Render tunes foreign-key handling.
type Render struct {
	KeepSelfReferences bool `json:"keep_self_references" yaml:"keep_self_references"`

	// MaxCycles caps cycle enumeration; -1 removes the cap.
	MaxCycles int `json:"max_cycles" yaml:"max_cycles" validate:"min=-1"`
}

// Metrics selects the metrics backend.
type Metrics struct {
	Backend        string `json:"backend" yaml:"backend" validate:"omitempty,oneof=none pushgateway datadog"`
	PushgatewayURL string `json:"pushgateway_url" yaml:"pushgateway_url" validate:"omitempty,url"`
	DatadogAddr    string `json:"datadog_addr" yaml:"datadog_addr"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Job:     DefaultJob,
		Schema:  DefaultSchema,
		Input:   Input{Options: Options{}},
		Render:  Render{MaxCycles: ddl.DefaultMaxCycles},
		Metrics: Metrics{Backend: "none"},
	}
}

// Load reads a JSON or YAML config file. Fields absent from the file keep
// their Default values.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	c, err := Decode(b, filepath.Ext(path))
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// Decode parses b as JSON (".json") or YAML (".yaml", ".yml") on top of
// Default. Unknown fields are rejected.
func Decode(b []byte, ext string) (Config, error) {
	c := Default()
	switch strings.ToLower(ext) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&c); err != nil {
			return Config{}, fmt.Errorf("decode json: %w", err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q (want .json, .yaml or .yml)", ext)
	}
	if c.Input.Options == nil {
		c.Input.Options = Options{}
	}
	return c, nil
}

// Options is a small helper to fetch typed values from free-form maps
// decoded from JSON or YAML. It performs minimal coercion and returns the
// provided default when a key is absent or of an unexpected type.
type Options map[string]any

// Int returns the int value for key or def. JSON numbers arrive as float64
// and YAML integers as int.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		case int64:
			return int(n)
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty. Used for single-character settings such as a CSV
// delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringMap returns the string-valued entries of an object value for key.
// Non-string values are ignored. Returns an empty map when the key is
// missing or not an object.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		switch m := v.(type) {
		case map[string]any:
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		case map[string]string:
			for k, s := range m {
				res[k] = s
			}
		}
	}
	return res
}

// UnmarshalJSON makes a null "options" object decode to an empty, non-nil
// Options map.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
