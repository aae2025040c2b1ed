package metadata_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/metadata"
	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/schema"
)

var standardHeaders = []any{
	"Table Name", "Attribute Name", "Description", "Data Type and Length",
	"Is it the Primary Key or part of the Primary Key?",
	"Is it LastOperation column?", "Is it SyncTimestamp column?",
	"Reference Table", "Reference Attribute",
}

// workbook builds a data-model workbook: dialect in the overview sheet and
// the metadata table with headers on row 5.
func workbook(t *testing.T, dialect string, rows [][]any) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })

	_, err := f.NewSheet("Dataset Overview")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Dataset Overview", "A14", "Database"))
	require.NoError(t, f.SetCellValue("Dataset Overview", "B14", dialect))

	_, err = f.NewSheet("Metadata")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Metadata", "A1", "Data model"))
	require.NoError(t, f.SetSheetRow("Metadata", "A5", &standardHeaders))
	for i, r := range rows {
		r := r
		cell, err := excelize.CoordinatesToCellName(1, 6+i)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Metadata", cell, &r))
	}
	require.NoError(t, f.DeleteSheet("Sheet1"))
	return f
}

func saveWorkbook(t *testing.T, f *excelize.File, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadXLSX(t *testing.T) {
	t.Parallel()
	f := workbook(t, "POSTGRESQL", [][]any{
		{"CUSTOMER", "ID", "surrogate key", "int", "YES", "NO", "NO", "", ""},
		{"CUSTOMER", "NAME", "", "", "no", "", "", "nan", "nan"},
		{"", "ORPHAN", "no table name", "int"},
		{"ORDERS", "ID", "", "bigint", "yes"},
		{"ORDERS", "CUSTOMER_ID", "", "int", "", "", "", "CUSTOMER", "ID"},
		{"ORDERS", "LAST_OP", "", "varchar(10)", "", "Yes"},
		{"ORDERS", "SYNCED_AT", "", "datetime", "", "", "YES"},
		{"ORDERS", "CUSTOMER_ID", "", "int"},
	})
	path := saveWorkbook(t, f, "model.xlsx")

	md, err := metadata.Load(path, metadata.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "POSTGRESQL", md.Dialect)

	require.Len(t, md.Columns, 6)
	assert.Equal(t, schema.ColumnSpec{Table: "CUSTOMER", Name: "ID", Type: "int", PrimaryKey: true}, md.Columns[0])
	assert.Equal(t, schema.ColumnSpec{Table: "CUSTOMER", Name: "NAME", Type: schema.DefaultType}, md.Columns[1])
	assert.True(t, md.Columns[2].PrimaryKey)
	assert.Equal(t, []schema.Reference{{Table: "CUSTOMER", Column: "ID"}}, md.Columns[3].References)
	assert.True(t, md.Columns[3].IsForeignKey())
	assert.True(t, md.Columns[4].LastOperation)
	assert.True(t, md.Columns[5].SyncTimestamp)

	tables := schema.Tables(md.Columns)
	require.Len(t, tables, 2)
	assert.Equal(t, "CUSTOMER", tables[0].Name)
	assert.Equal(t, []string{"ID"}, tables[1].PrimaryKeys)
}

func TestLoadXLSXDialectOverride(t *testing.T) {
	t.Parallel()
	f := workbook(t, "POSTGRESQL", [][]any{{"A", "id", "", "int"}})
	path := saveWorkbook(t, f, "model.xlsx")

	opts := metadata.DefaultOptions()
	opts.Dialect = "ORACLE"
	md, err := metadata.Load(path, opts)
	require.NoError(t, err)
	assert.Equal(t, "ORACLE", md.Dialect)
}

func TestLoadXLSXWithoutOverview(t *testing.T) {
	t.Parallel()
	f := workbook(t, "MYSQL", [][]any{{"A", "id", "", "int"}})
	require.NoError(t, f.DeleteSheet("Dataset Overview"))
	path := saveWorkbook(t, f, "model.xlsx")

	_, err := metadata.Load(path, metadata.DefaultOptions())
	require.Error(t, err)
	assert.True(t, schema.IsKind(err, schema.KindSchemaShape))

	opts := metadata.DefaultOptions()
	opts.Dialect = "MYSQL"
	md, err := metadata.Load(path, opts)
	require.NoError(t, err)
	assert.Len(t, md.Columns, 1)
}

func TestLoadReaderXLSX(t *testing.T) {
	t.Parallel()
	f := workbook(t, "SQL_SERVER", [][]any{
		{"X", "ref", "", "int", "", "", "", "T1|T2", "C1|C2"},
	})
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	md, err := metadata.LoadReader(buf, "XLSX", metadata.Options{})
	require.NoError(t, err)
	assert.Equal(t, "SQL_SERVER", md.Dialect)
	require.Len(t, md.Columns, 1)
	assert.Equal(t, []schema.Reference{{Table: "T1", Column: "C1"}, {Table: "T2", Column: "C2"}}, md.Columns[0].References)

	edges := schema.Edges(md.Columns)
	require.Len(t, edges, 2)
	assert.Equal(t, "T2", edges[1].TargetTable)
}

func TestLoadCSV(t *testing.T) {
	t.Parallel()
	data := "\ufeffTable Name,Attribute Name,Data Type,Primary Key,Table,Attribute\n" +
		"A,id,int,YES,,\n" +
		"A,b_id,int,NO,B,id\n" +
		"B,id,int,YES,nan,nan\n" +
		",,,,,\n"

	opts := metadata.Options{Dialect: "mysql"}
	md, err := metadata.LoadReader(strings.NewReader(data), "csv", opts)
	require.NoError(t, err)
	assert.Equal(t, "mysql", md.Dialect)
	require.Len(t, md.Columns, 3)
	assert.Equal(t, []schema.Reference{{Table: "B", Column: "id"}}, md.Columns[1].References)
	assert.Nil(t, md.Columns[2].References)

	// CSV carries no overview.
	_, err = metadata.LoadReader(strings.NewReader(data), "csv", metadata.Options{})
	require.Error(t, err)
	assert.True(t, schema.IsKind(err, schema.KindInvalidInput))
}

func TestLoadCSVDuplicateColumnKeepsFirstRow(t *testing.T) {
	t.Parallel()
	data := "Table Name,Attribute Name,Data Type,Primary Key,Table,Attribute\n" +
		"A,id,int,YES,,\n" +
		"A,code,varchar(10),NO,B,code\n" +
		"A,id,bigint,NO,B,id\n" +
		"A,code,char(3),YES,,\n" +
		"B,id,int,YES,,\n"

	md, err := metadata.LoadReader(strings.NewReader(data), "csv", metadata.Options{Dialect: "POSTGRESQL"})
	require.NoError(t, err)
	require.Len(t, md.Columns, 3)
	assert.Equal(t, schema.ColumnSpec{Table: "A", Name: "id", Type: "int", PrimaryKey: true}, md.Columns[0])
	assert.Equal(t, schema.ColumnSpec{
		Table: "A", Name: "code", Type: "varchar(10)",
		References: []schema.Reference{{Table: "B", Column: "code"}},
	}, md.Columns[1])
	assert.Equal(t, "B", md.Columns[2].Table)

	tables := schema.Tables(md.Columns)
	require.Len(t, tables, 2)
	assert.Equal(t, []string{"id"}, tables[0].PrimaryKeys)
}

func TestLoadCSVSemicolon(t *testing.T) {
	t.Parallel()
	data := "title line\nTable Name;Attribute Name\nA;id\n"
	md, err := metadata.LoadReader(strings.NewReader(data), "csv",
		metadata.Options{Dialect: "ORACLE", Comma: ';', HeaderRow: 2})
	require.NoError(t, err)
	require.Len(t, md.Columns, 1)
	assert.Equal(t, schema.DefaultType, md.Columns[0].Type)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	_, err := metadata.Load(filepath.Join(dir, "missing.xlsx"), metadata.DefaultOptions())
	assert.True(t, schema.IsKind(err, schema.KindInputNotFound), "missing file: %v", err)

	txt := filepath.Join(dir, "model.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o644))
	_, err = metadata.Load(txt, metadata.DefaultOptions())
	assert.True(t, schema.IsKind(err, schema.KindInvalidInput), "extension: %v", err)

	garbage := filepath.Join(dir, "broken.xlsx")
	require.NoError(t, os.WriteFile(garbage, []byte("not a zip"), 0o644))
	_, err = metadata.Load(garbage, metadata.DefaultOptions())
	assert.True(t, schema.IsKind(err, schema.KindInvalidInput), "corrupt workbook: %v", err)

	noHeaders := "Description,Data Type\nx,int\n"
	_, err = metadata.LoadReader(strings.NewReader(noHeaders), "csv", metadata.Options{Dialect: "MYSQL"})
	assert.True(t, schema.IsKind(err, schema.KindSchemaShape), "shape: %v", err)
	assert.Contains(t, err.Error(), "Table Name, Attribute Name")

	empty := "Table Name,Attribute Name\n,\n"
	_, err = metadata.LoadReader(strings.NewReader(empty), "csv", metadata.Options{Dialect: "MYSQL"})
	assert.True(t, schema.IsKind(err, schema.KindSchemaShape), "no rows: %v", err)

	_, err = metadata.LoadReader(strings.NewReader(empty), "json", metadata.Options{Dialect: "MYSQL"})
	assert.True(t, schema.IsKind(err, schema.KindInvalidInput), "format: %v", err)
}

func TestFormatFor(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]string{
		"model.xlsx":   metadata.FormatXLSX,
		"MODEL.XLSM":   metadata.FormatXLSX,
		"dir/meta.csv": metadata.FormatCSV,
	} {
		got, err := metadata.FormatFor(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := metadata.FormatFor("model.xls")
	assert.Error(t, err)
}
