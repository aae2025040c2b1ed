// Package ddlgen runs one generation: load the metadata document, select the
// dialect, and render the DDL script. Each step is timed and reported to the
// metrics backend.
//
// Dialects are resolved through the dialect registry; binaries must
// blank-import internal/dialect/all.
package ddlgen

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/config"
	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/ddl"
	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/dialect"
	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/metadata"
	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/metrics"
	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/schema"
)

// Stats summarizes a generation.
type Stats struct {
	Tables         int
	Columns        int
	Edges          int // foreign keys rendered
	DroppedMissing int // foreign keys to an unknown table or column
	DroppedCycle   int // foreign keys dropped to break reference cycles
}

// Result is a generated script.
type Result struct {
	SQL     string
	Dialect string
	Stats   Stats

	Missing []ddl.DroppedEdge
	Cyclic  []schema.ForeignKeyEdge
}

// Generate reads the metadata file at path and renders it.
func Generate(ctx context.Context, cfg config.Config, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	md, err := metadata.Load(path, LoaderOptions(cfg))
	metrics.RecordStep(cfg.Job, "load", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	if cfg.Verbose {
		log.Printf("ddlgen: loaded %d columns from %s in %s", len(md.Columns), path, time.Since(start).Truncate(time.Millisecond))
	}
	return render(ctx, cfg, md)
}

// GenerateReader reads metadata of the given format ("xlsx" or "csv") from
// r and renders it.
func GenerateReader(ctx context.Context, cfg config.Config, r io.Reader, format string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	md, err := metadata.LoadReader(r, format, LoaderOptions(cfg))
	metrics.RecordStep(cfg.Job, "load", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	return render(ctx, cfg, md)
}

func render(ctx context.Context, cfg config.Config, md *schema.Metadata) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	d, err := dialect.Lookup(md.Dialect)
	if err != nil {
		metrics.RecordStep(cfg.Job, "render", err, time.Since(start))
		return nil, err
	}

	out, err := ddl.Render(d, schema.Tables(md.Columns), schema.Edges(md.Columns), RenderOptions(cfg))
	metrics.RecordStep(cfg.Job, "render", err, time.Since(start))
	if err != nil {
		return nil, err
	}

	res := &Result{
		SQL:     out.SQL,
		Dialect: d.Name(),
		Stats: Stats{
			Tables:         out.Tables,
			Columns:        out.Columns,
			Edges:          len(out.ForeignKeys),
			DroppedMissing: len(out.Missing),
			DroppedCycle:   len(out.Cyclic),
		},
		Missing: out.Missing,
		Cyclic:  out.Cyclic,
	}

	metrics.RecordCount(cfg.Job, "tables", res.Stats.Tables)
	metrics.RecordCount(cfg.Job, "columns", res.Stats.Columns)
	metrics.RecordCount(cfg.Job, "foreign_keys", res.Stats.Edges)
	metrics.RecordCount(cfg.Job, "dropped_missing", res.Stats.DroppedMissing)
	metrics.RecordCount(cfg.Job, "dropped_cycle", res.Stats.DroppedCycle)
	metrics.RecordFile(cfg.Job, res.Dialect)

	if cfg.Verbose {
		log.Printf("ddlgen: rendered %s: tables=%d columns=%d fks=%d dropped_missing=%d dropped_cycle=%d in %s",
			res.Dialect, res.Stats.Tables, res.Stats.Columns, res.Stats.Edges,
			res.Stats.DroppedMissing, res.Stats.DroppedCycle, time.Since(start).Truncate(time.Millisecond))
	}
	return res, nil
}

// LoaderOptions derives loader settings from cfg.
func LoaderOptions(cfg config.Config) metadata.Options {
	o := cfg.Input.Options
	return metadata.Options{
		Format:        cfg.Input.Format,
		Dialect:       cfg.Dialect,
		OverviewSheet: cfg.Input.OverviewSheet,
		DialectCell:   cfg.Input.DialectCell,
		MetadataSheet: cfg.Input.MetadataSheet,
		HeaderRow:     o.Int("header_row", 0),
		Comma:         o.Rune("comma", 0),
		HeaderAliases: o.StringMap("header_aliases"),
		RefTablePos:   o.Int("ref_table_pos", 0),
		RefColumnPos:  o.Int("ref_column_pos", 0),
		Verbose:       cfg.Verbose,
	}
}

// RenderOptions derives renderer settings from cfg.
func RenderOptions(cfg config.Config) ddl.Options {
	return ddl.Options{
		Schema:             cfg.Schema,
		Preamble:           cfg.Output.Preamble,
		PreambleOptions:    dialect.PreambleOptions{Password: cfg.Output.OraclePassword},
		KeepSelfReferences: cfg.Render.KeepSelfReferences,
		MaxCycles:          cfg.Render.MaxCycles,
	}
}
