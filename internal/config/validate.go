package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/dialect"
	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/metadata"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks the run.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is reported but does not block the run.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding.
//
// Path is a dotted path into the config (e.g. "metrics.backend",
// "input.options.header_aliases.kind").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether issues contains at least one SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

var validate = newValidator()

// newValidator reports field paths by their json names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateConfig performs static validation of c. It does not mutate c.
// Callers decide whether warnings are fatal.
func ValidateConfig(c Config) []Issue {
	var issues []Issue

	issues = append(issues, structIssues(c)...)

	if strings.TrimSpace(c.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it labels metrics and log lines",
		})
	}
	if strings.TrimSpace(c.Schema) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "schema",
			Message:  "no schema configured; tables will be created unqualified",
		})
	}
	if d := strings.TrimSpace(c.Dialect); d != "" && !knownDialect(d) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "dialect",
			Message: fmt.Sprintf("unsupported dialect %q (want one of %s, %s, %s, %s)",
				d, dialect.Postgres, dialect.MySQL, dialect.SQLServer, dialect.Oracle),
		})
	}

	issues = append(issues, validateInput(c.Input)...)
	issues = append(issues, validateOutput(c)...)
	issues = append(issues, validateMetrics(c.Metrics)...)
	return issues
}

func knownDialect(token string) bool {
	switch dialect.Normalize(token) {
	case dialect.Postgres, dialect.MySQL, dialect.SQLServer, dialect.Oracle:
		return true
	}
	return false
}

// structIssues converts validator tag failures into Issues.
func structIssues(c Config) []Issue {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []Issue{{Severity: SeverityError, Path: "", Message: err.Error()}}
	}
	issues := make([]Issue, 0, len(verrs))
	for _, fe := range verrs {
		path := fe.Namespace()
		if i := strings.IndexByte(path, '.'); i >= 0 {
			path = path[i+1:]
		}
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     path,
			Message:  describe(fe),
		})
	}
	return issues
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%v is not one of: %s", fe.Value(), fe.Param())
	case "min":
		return fmt.Sprintf("must be >= %s (got %v)", fe.Param(), fe.Value())
	case "url":
		return fmt.Sprintf("%q is not a valid URL", fe.Value())
	}
	return fmt.Sprintf("failed %q validation", fe.Tag())
}

func validateInput(in Input) []Issue {
	var issues []Issue

	if hr := in.Options.Int("header_row", 0); hr < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "input.options.header_row",
			Message:  fmt.Sprintf("header_row=%d; rows are 1-based", hr),
		})
	}
	if v, ok := in.Options["comma"]; ok {
		s, isString := v.(string)
		if !isString || utf8.RuneCountInString(s) != 1 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "input.options.comma",
				Message:  fmt.Sprintf("comma must be a single character, got %v", v),
			})
		}
	}
	for _, key := range []string{"ref_table_pos", "ref_column_pos"} {
		if n := in.Options.Int(key, 0); n < 0 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "input.options." + key,
				Message:  fmt.Sprintf("%s=%d; positions are 1-based, 0 disables", key, n),
			})
		}
	}

	known := map[string]bool{}
	for _, r := range metadata.Roles() {
		known[string(r)] = true
	}
	aliases := in.Options.StringMap("header_aliases")
	for role, header := range aliases {
		path := "input.options.header_aliases." + role
		if !known[role] {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path,
				Message:  fmt.Sprintf("unknown header role %q", role),
			})
			continue
		}
		if strings.TrimSpace(header) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path,
				Message:  "header text must not be empty",
			})
		}
	}

	if f := strings.ToLower(in.Format); f == metadata.FormatCSV && in.OverviewSheet != "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "input.overview_sheet",
			Message:  "csv input has no sheets; overview_sheet is ignored",
		})
	}
	return issues
}

func validateOutput(c Config) []Issue {
	var issues []Issue
	if c.Output.Preamble && dialect.Normalize(c.Dialect) == dialect.Oracle && c.Output.OraclePassword == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "output.oracle_password",
			Message:  "no oracle_password; the commented CREATE USER uses a placeholder",
		})
	}
	return issues
}

func validateMetrics(m Metrics) []Issue {
	var issues []Issue
	switch strings.ToLower(m.Backend) {
	case "pushgateway":
		if strings.TrimSpace(m.PushgatewayURL) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.pushgateway_url",
				Message:  "pushgateway backend requires pushgateway_url",
			})
		}
	case "datadog":
		if strings.TrimSpace(m.DatadogAddr) == "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "metrics.datadog_addr",
				Message:  "no datadog_addr; the client reads DD_AGENT_HOST and DD_DOGSTATSD_PORT",
			})
		}
	}
	return issues
}
