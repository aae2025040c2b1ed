package config

import (
	"path/filepath"
	"strings"
	"testing"
)

// hasIssue reports whether issues contains an Issue with the given severity,
// path, and a Message containing msgSubstr.
func hasIssue(t *testing.T, issues []Issue, sev IssueSeverity, path, msgSubstr string) bool {
	t.Helper()
	for _, iss := range issues {
		if iss.Severity == sev && iss.Path == path && strings.Contains(iss.Message, msgSubstr) {
			return true
		}
	}
	return false
}

func TestValidateConfig_DefaultIsClean(t *testing.T) {
	t.Parallel()
	if issues := ValidateConfig(Default()); len(issues) != 0 {
		t.Fatalf("Default() issues = %+v, want none", issues)
	}
}

func TestValidateConfig_Cases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(c *Config)
		sev    IssueSeverity
		path   string
		msg    string
	}{
		{
			name:   "empty job",
			mutate: func(c *Config) { c.Job = " " },
			sev:    SeverityError,
			path:   "job",
			msg:    "job must not be empty",
		},
		{
			name:   "empty schema",
			mutate: func(c *Config) { c.Schema = "" },
			sev:    SeverityWarning,
			path:   "schema",
			msg:    "unqualified",
		},
		{
			name:   "unknown dialect",
			mutate: func(c *Config) { c.Dialect = "DB2" },
			sev:    SeverityError,
			path:   "dialect",
			msg:    `unsupported dialect "DB2"`,
		},
		{
			name:   "bad input format",
			mutate: func(c *Config) { c.Input.Format = "ods" },
			sev:    SeverityError,
			path:   "input.format",
			msg:    "is not one of: xlsx xlsm csv",
		},
		{
			name:   "max cycles below -1",
			mutate: func(c *Config) { c.Render.MaxCycles = -5 },
			sev:    SeverityError,
			path:   "render.max_cycles",
			msg:    "must be >= -1",
		},
		{
			name:   "bad metrics backend",
			mutate: func(c *Config) { c.Metrics.Backend = "statsd" },
			sev:    SeverityError,
			path:   "metrics.backend",
			msg:    "is not one of",
		},
		{
			name:   "pushgateway without url",
			mutate: func(c *Config) { c.Metrics.Backend = "pushgateway" },
			sev:    SeverityError,
			path:   "metrics.pushgateway_url",
			msg:    "requires pushgateway_url",
		},
		{
			name: "pushgateway url not a url",
			mutate: func(c *Config) {
				c.Metrics.Backend = "pushgateway"
				c.Metrics.PushgatewayURL = "not a url"
			},
			sev:  SeverityError,
			path: "metrics.pushgateway_url",
			msg:  "is not a valid URL",
		},
		{
			name:   "datadog without addr",
			mutate: func(c *Config) { c.Metrics.Backend = "datadog" },
			sev:    SeverityWarning,
			path:   "metrics.datadog_addr",
			msg:    "DD_AGENT_HOST",
		},
		{
			name:   "negative header row",
			mutate: func(c *Config) { c.Input.Options["header_row"] = float64(-2) },
			sev:    SeverityError,
			path:   "input.options.header_row",
			msg:    "1-based",
		},
		{
			name:   "multi-char comma",
			mutate: func(c *Config) { c.Input.Options["comma"] = ";;" },
			sev:    SeverityError,
			path:   "input.options.comma",
			msg:    "single character",
		},
		{
			name:   "negative ref position",
			mutate: func(c *Config) { c.Input.Options["ref_column_pos"] = -1 },
			sev:    SeverityError,
			path:   "input.options.ref_column_pos",
			msg:    "0 disables",
		},
		{
			name: "unknown alias role",
			mutate: func(c *Config) {
				c.Input.Options["header_aliases"] = map[string]any{"comment": "Description"}
			},
			sev:  SeverityError,
			path: "input.options.header_aliases.comment",
			msg:  "unknown header role",
		},
		{
			name: "empty alias header",
			mutate: func(c *Config) {
				c.Input.Options["header_aliases"] = map[string]any{"type": " "}
			},
			sev:  SeverityError,
			path: "input.options.header_aliases.type",
			msg:  "must not be empty",
		},
		{
			name: "overview sheet on csv",
			mutate: func(c *Config) {
				c.Input.Format = "csv"
				c.Input.OverviewSheet = "Overview"
			},
			sev:  SeverityWarning,
			path: "input.overview_sheet",
			msg:  "ignored",
		},
		{
			name: "oracle preamble without password",
			mutate: func(c *Config) {
				c.Dialect = "oracle"
				c.Output.Preamble = true
			},
			sev:  SeverityWarning,
			path: "output.oracle_password",
			msg:  "placeholder",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := Default()
			c.Input.Options = Options{}
			tc.mutate(&c)
			issues := ValidateConfig(c)
			if !hasIssue(t, issues, tc.sev, tc.path, tc.msg) {
				t.Fatalf("want %s at %s containing %q; got %+v", tc.sev, tc.path, tc.msg, issues)
			}
		})
	}
}

func TestValidateConfig_AcceptsDialectSpellings(t *testing.T) {
	t.Parallel()
	for _, d := range []string{"postgresql", "MySQL", "sql server", "SQL-SERVER", " ORACLE "} {
		c := Default()
		c.Dialect = d
		if hasIssue(t, ValidateConfig(c), SeverityError, "dialect", "") {
			t.Errorf("dialect %q rejected", d)
		}
	}
}

func TestHasErrors(t *testing.T) {
	t.Parallel()
	if HasErrors([]Issue{{Severity: SeverityWarning}}) {
		t.Fatalf("warnings only: HasErrors = true")
	}
	if !HasErrors([]Issue{{Severity: SeverityWarning}, {Severity: SeverityError}}) {
		t.Fatalf("HasErrors = false, want true")
	}
	if got := (Issue{Severity: SeverityError, Path: "job", Message: "x"}).Error(); got != "error at job: x" {
		t.Fatalf("Issue.Error() = %q", got)
	}
}

func TestValidateConfig_SampleFile(t *testing.T) {
	t.Parallel()

	c, err := Load(filepath.Join("..", "..", "configs", "ddlgen.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if issues := ValidateConfig(c); len(issues) != 0 {
		t.Fatalf("sample config has issues: %v", issues)
	}
	if got := c.Input.Options.Int("header_row", 0); got != 5 {
		t.Fatalf("header_row = %d, want 5", got)
	}
}
