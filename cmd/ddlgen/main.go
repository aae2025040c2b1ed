// Command ddlgen turns metadata workbooks into DDL scripts.
//
// Usage:
//
//	ddlgen [flags] model.xlsx [more.xlsx ...]
//
// With one input the script goes to -out (a file, a directory, or "-" for
// stdout, the default). With several inputs they are processed
// concurrently and each script is written as <out>/<basename>.sql, next to
// its input when -out is empty.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/config"
	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/ddlgen"
	_ "github.com/SultanAl-Jrboa/schema-to-ddl/internal/dialect/all"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow)
	okColor   = color.New(color.FgGreen)
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code: 0 on
// success, 1 on a failed generation or invalid config, 2 on usage errors.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var (
		cfgPath        string
		dialectFlg     string
		schemaFlg      string
		outFlg         string
		preamble       bool
		validateOnly   bool
		metricsBackend string
		pushGatewayURL string
		verbose        bool
	)

	fs := flag.NewFlagSet("ddlgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfgPath, "config", "", "config file (JSON or YAML)")
	fs.StringVar(&dialectFlg, "dialect", "", "target dialect (POSTGRESQL, MYSQL, SQL_SERVER, ORACLE); overrides the workbook")
	fs.StringVar(&schemaFlg, "schema", "", "target schema (overrides config)")
	fs.StringVar(&outFlg, "out", "", `output file or directory, "-" for stdout`)
	fs.BoolVar(&preamble, "preamble", false, "emit the commented schema bootstrap block")
	fs.BoolVar(&validateOnly, "validate", false, "validate the configuration and exit")
	fs.StringVar(&metricsBackend, "metrics-backend", "", "metrics backend (none, pushgateway, datadog); overrides config and env METRICS_BACKEND")
	fs.StringVar(&pushGatewayURL, "pushgateway-url", "", "Pushgateway base URL (overrides config and env PUSHGATEWAY_URL)")
	fs.BoolVar(&verbose, "v", false, "enable verbose logs")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg := config.Default()
	if cfgPath != "" {
		c, err := config.Load(cfgPath)
		if err != nil {
			errColor.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		cfg = c
	}

	// Flags override file values only when given.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dialect":
			cfg.Dialect = dialectFlg
		case "schema":
			cfg.Schema = schemaFlg
		case "out":
			cfg.Output.Path = outFlg
		case "preamble":
			cfg.Output.Preamble = preamble
		case "metrics-backend":
			cfg.Metrics.Backend = metricsBackend
		case "pushgateway-url":
			cfg.Metrics.PushgatewayURL = pushGatewayURL
		}
	})
	cfg.Verbose = verbose

	issues := config.ValidateConfig(cfg)
	for _, iss := range issues {
		c := warnColor
		if iss.Severity == config.SeverityError {
			c = errColor
		}
		c.Fprintf(stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		log.Printf("configuration is invalid: %v", cfgPath)
		return 1
	}
	if validateOnly {
		okColor.Fprintf(stderr, "configuration is valid\n")
		return 0
	}

	inputs := fs.Args()
	if len(inputs) == 0 && cfg.Input.Path != "" {
		inputs = []string{cfg.Input.Path}
	}
	if len(inputs) == 0 {
		errColor.Fprintln(stderr, "error: no input files")
		fs.Usage()
		return 2
	}

	flush := setupMetrics(cfg, verbose)
	defer flush()

	start := time.Now()
	if err := generateAll(ctx, cfg, inputs, stdout, stderr); err != nil {
		errColor.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if verbose {
		log.Printf("ddlgen: %d file(s) completed in %s", len(inputs), time.Since(start).Truncate(time.Millisecond))
	}
	return 0
}

// generateAll renders every input. Several inputs run concurrently,
// bounded by GOMAXPROCS; the first failure cancels the rest.
func generateAll(ctx context.Context, cfg config.Config, inputs []string, stdout, stderr io.Writer) error {
	if len(inputs) == 1 {
		dst, err := singleTarget(cfg.Output.Path, inputs[0])
		if err != nil {
			return err
		}
		return generateOne(ctx, cfg, inputs[0], dst, stdout, stderr, nil)
	}

	out := cfg.Output.Path
	if out == "-" {
		return errors.New("cannot write several scripts to stdout; use -out <dir>")
	}
	if out != "" {
		if err := os.MkdirAll(out, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, in := range inputs {
		in := in
		dir := out
		if dir == "" {
			dir = filepath.Dir(in)
		}
		dst := filepath.Join(dir, scriptName(in))
		g.Go(func() error {
			return generateOne(gctx, cfg, in, dst, stdout, stderr, &mu)
		})
	}
	return g.Wait()
}

// singleTarget resolves -out for a single input: "" and "-" mean stdout,
// an existing directory gets <basename>.sql, anything else is a file path.
func singleTarget(out, input string) (string, error) {
	if out == "" || out == "-" {
		return "-", nil
	}
	if fi, err := os.Stat(out); err == nil && fi.IsDir() {
		return filepath.Join(out, scriptName(input)), nil
	}
	return out, nil
}

// scriptName maps "dir/model.xlsx" to "model.sql".
func scriptName(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".sql"
}

// generateOne renders input into dst ("-" for stdout) and reports the
// outcome on stderr. mu serializes report lines across goroutines.
func generateOne(ctx context.Context, cfg config.Config, input, dst string, stdout, stderr io.Writer, mu *sync.Mutex) error {
	res, err := ddlgen.Generate(ctx, cfg, input)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	if dst == "-" {
		if _, err := io.WriteString(stdout, res.SQL); err != nil {
			return fmt.Errorf("%s: write stdout: %w", input, err)
		}
	} else if err := os.WriteFile(dst, []byte(res.SQL), 0o644); err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	if mu != nil {
		mu.Lock()
		defer mu.Unlock()
	}
	target := dst
	if dst == "-" {
		target = "stdout"
	}
	okColor.Fprintf(stderr, "ok ")
	fmt.Fprintf(stderr, "%s -> %s (%s, %d tables, %d columns, %d foreign keys)\n",
		input, target, res.Dialect, res.Stats.Tables, res.Stats.Columns, res.Stats.Edges)
	for _, m := range res.Missing {
		warnColor.Fprintf(stderr, "  dropped %s.%s -> %s.%s: %s\n",
			m.Edge.SourceTable, m.Edge.SourceColumn, m.Edge.TargetTable, m.Edge.TargetColumn, m.Reason)
	}
	for _, e := range res.Cyclic {
		warnColor.Fprintf(stderr, "  dropped %s.%s -> %s.%s: reference cycle\n",
			e.SourceTable, e.SourceColumn, e.TargetTable, e.TargetColumn)
	}
	return nil
}
