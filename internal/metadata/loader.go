// Package metadata reads the column-metadata table of a data-model workbook
// (xlsx) or an exported CSV into schema.Metadata.
package metadata

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/schema"
)

// Input formats.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

const (
	DefaultOverviewSheet = "Dataset Overview"
	DefaultDialectCell   = "B14"
	DefaultMetadataSheet = "Metadata"
	DefaultXLSXHeaderRow = 5
	DefaultCSVHeaderRow  = 1
)

// Options controls where the loader looks for things.
type Options struct {
	// Format is "xlsx" or "csv"; empty picks it from the file extension.
	Format string

	// Dialect overrides the token read from the overview sheet.
	Dialect string

	OverviewSheet string
	DialectCell   string
	MetadataSheet string

	// HeaderRow is the 1-based row holding the metadata headers. Zero
	// means the format default.
	HeaderRow int

	// Comma is the CSV field delimiter (default ',').
	Comma rune

	// HeaderAliases maps a Role name to the exact header text for it.
	HeaderAliases map[string]string

	// RefTablePos and RefColumnPos are 1-based column positions used for
	// the reference columns when no header names them. Zero disables.
	RefTablePos  int
	RefColumnPos int

	// Verbose logs every skipped row.
	Verbose bool
}

// DefaultOptions returns the layout of the standard data-model workbook.
func DefaultOptions() Options {
	return Options{
		OverviewSheet: DefaultOverviewSheet,
		DialectCell:   DefaultDialectCell,
		MetadataSheet: DefaultMetadataSheet,
	}
}

func (o Options) withDefaults(format string) Options {
	d := DefaultOptions()
	if o.OverviewSheet == "" {
		o.OverviewSheet = d.OverviewSheet
	}
	if o.DialectCell == "" {
		o.DialectCell = d.DialectCell
	}
	if o.MetadataSheet == "" {
		o.MetadataSheet = d.MetadataSheet
	}
	if o.HeaderRow <= 0 {
		if format == FormatCSV {
			o.HeaderRow = DefaultCSVHeaderRow
		} else {
			o.HeaderRow = DefaultXLSXHeaderRow
		}
	}
	return o
}

// FormatFor returns the input format implied by path's extension.
func FormatFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	}
	return "", schema.Errorf(schema.KindInvalidInput, "metadata.format",
		"unsupported input file %q (want .xlsx, .xlsm or .csv)", filepath.Base(path))
}

// Load reads the metadata file at path.
func Load(path string, opts Options) (*schema.Metadata, error) {
	format := opts.Format
	if format == "" {
		f, err := FormatFor(path)
		if err != nil {
			return nil, err
		}
		format = f
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, schema.Errorf(schema.KindInputNotFound, "metadata.load", "input file %s does not exist", path)
		}
		return nil, schema.Wrap(schema.KindInvalidInput, "metadata.load", errors.Wrapf(err, "open %s", path))
	}
	defer f.Close()

	return LoadReader(f, format, opts)
}

// LoadReader reads metadata of the given format from r.
func LoadReader(r io.Reader, format string, opts Options) (*schema.Metadata, error) {
	format = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	if format == "xlsm" {
		format = FormatXLSX
	}
	opts = opts.withDefaults(format)

	var (
		src source
		err error
	)
	switch format {
	case FormatXLSX:
		src, err = openXLSX(r, opts)
	case FormatCSV:
		src, err = openCSV(r, opts)
	default:
		return nil, schema.Errorf(schema.KindInvalidInput, "metadata.load", "unsupported input format %q", format)
	}
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dialectToken := strings.TrimSpace(opts.Dialect)
	if dialectToken == "" {
		if dialectToken, err = src.Dialect(); err != nil {
			return nil, err
		}
	}

	rows, err := src.Rows()
	if err != nil {
		return nil, err
	}
	if len(rows) < opts.HeaderRow {
		return nil, schema.Errorf(schema.KindSchemaShape, "metadata.load",
			"metadata table has %d rows; expected headers on row %d", len(rows), opts.HeaderRow)
	}

	cols, err := resolveColumns(rows[opts.HeaderRow-1], opts)
	if err != nil {
		return nil, err
	}

	specs := parseRows(rows[opts.HeaderRow:], cols, opts.HeaderRow+1, opts.Verbose)
	if len(specs) == 0 {
		return nil, schema.Errorf(schema.KindSchemaShape, "metadata.load", "metadata table has no column rows")
	}
	return &schema.Metadata{Dialect: dialectToken, Columns: specs}, nil
}

// parseRows turns data rows into column specs. firstRow is the 1-based
// spreadsheet row of rows[0], used in log lines.
func parseRows(rows [][]string, cols columnMap, firstRow int, verbose bool) []schema.ColumnSpec {
	get := func(row []string, r Role) string {
		i := cols.index(r)
		if i < 0 || i >= len(row) {
			return ""
		}
		v := strings.TrimSpace(row[i])
		if isMissing(v) {
			return ""
		}
		return v
	}

	var out []schema.ColumnSpec
	seen := map[[2]string]bool{}
	for n, row := range rows {
		table, column := get(row, RoleTable), get(row, RoleColumn)
		if table == "" || column == "" {
			if verbose && !blank(row) {
				log.Printf("metadata: skipping row %d: missing table or column name", firstRow+n)
			}
			continue
		}
		key := [2]string{table, column}
		if seen[key] {
			log.Printf("metadata: skipping row %d: duplicate column %s.%s", firstRow+n, table, column)
			continue
		}
		seen[key] = true

		typ := get(row, RoleType)
		if typ == "" {
			typ = schema.DefaultType
		}
		out = append(out, schema.ColumnSpec{
			Table:         table,
			Name:          column,
			Type:          typ,
			PrimaryKey:    isYes(get(row, RolePrimaryKey)),
			LastOperation: isYes(get(row, RoleLastOperation)),
			SyncTimestamp: isYes(get(row, RoleSyncTimestamp)),
			References:    splitReferences(get(row, RoleRefTable), get(row, RoleRefColumn)),
		})
	}
	return out
}

// splitReferences pairs pipe-separated table and column lists position by
// position, up to the shorter list. Pairs with an empty side are dropped.
func splitReferences(tables, columns string) []schema.Reference {
	if tables == "" || columns == "" {
		return nil
	}
	ts := strings.Split(tables, "|")
	cs := strings.Split(columns, "|")
	n := min(len(ts), len(cs))

	var refs []schema.Reference
	for i := 0; i < n; i++ {
		t, c := strings.TrimSpace(ts[i]), strings.TrimSpace(cs[i])
		if isMissing(t) || isMissing(c) {
			continue
		}
		refs = append(refs, schema.Reference{Table: t, Column: c})
	}
	return refs
}

func isYes(v string) bool { return strings.EqualFold(v, "YES") }

// isMissing treats empty cells and the "nan" placeholder of dataframe
// exports as absent.
func isMissing(v string) bool { return v == "" || strings.EqualFold(v, "nan") }

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
