package metadata

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/schema"
)

// source is one opened metadata document.
type source interface {
	// Dialect reads the dialect token from the document, if it has one.
	Dialect() (string, error)
	// Rows returns the metadata table, header row included.
	Rows() ([][]string, error)
	Close() error
}

type xlsxSource struct {
	f    *excelize.File
	opts Options
}

func openXLSX(r io.Reader, opts Options) (*xlsxSource, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, schema.Wrap(schema.KindInvalidInput, "metadata.open",
			errors.Wrap(err, "read xlsx workbook"))
	}
	return &xlsxSource{f: f, opts: opts}, nil
}

// sheet resolves name against the workbook, ignoring case and surrounding
// whitespace.
func (s *xlsxSource) sheet(name string) (string, bool) {
	want := strings.TrimSpace(name)
	for _, sh := range s.f.GetSheetList() {
		if strings.EqualFold(strings.TrimSpace(sh), want) {
			return sh, true
		}
	}
	return "", false
}

func (s *xlsxSource) Dialect() (string, error) {
	sh, ok := s.sheet(s.opts.OverviewSheet)
	if !ok {
		return "", schema.Errorf(schema.KindSchemaShape, "metadata.dialect",
			"workbook has no %q sheet and no dialect was configured", s.opts.OverviewSheet)
	}
	v, err := s.f.GetCellValue(sh, s.opts.DialectCell)
	if err != nil {
		return "", schema.Wrap(schema.KindSchemaShape, "metadata.dialect",
			errors.Wrapf(err, "read %s!%s", sh, s.opts.DialectCell))
	}
	return strings.TrimSpace(v), nil
}

func (s *xlsxSource) Rows() ([][]string, error) {
	sh, ok := s.sheet(s.opts.MetadataSheet)
	if !ok {
		return nil, schema.Errorf(schema.KindSchemaShape, "metadata.rows",
			"workbook has no %q sheet", s.opts.MetadataSheet)
	}
	rows, err := s.f.GetRows(sh)
	if err != nil {
		return nil, schema.Wrap(schema.KindInvalidInput, "metadata.rows",
			errors.Wrapf(err, "read sheet %s", sh))
	}
	return rows, nil
}

func (s *xlsxSource) Close() error { return s.f.Close() }

// csvSource holds a fully read CSV metadata table. CSV files carry no
// overview, so the dialect must be configured.
type csvSource struct {
	rows [][]string
}

func openCSV(r io.Reader, opts Options) (*csvSource, error) {
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, schema.Wrap(schema.KindInvalidInput, "metadata.open",
			errors.Wrap(err, "read csv"))
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return &csvSource{rows: rows}, nil
}

func (s *csvSource) Dialect() (string, error) {
	return "", schema.Errorf(schema.KindInvalidInput, "metadata.dialect",
		"csv metadata has no overview sheet; set a dialect explicitly")
}

func (s *csvSource) Rows() ([][]string, error) { return s.rows, nil }

func (s *csvSource) Close() error { return nil }
