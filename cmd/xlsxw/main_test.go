package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCSVToWorkbook(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "orders.csv")
	require.NoError(t, os.WriteFile(in, []byte("id;name;qty\n007;apple;3\n2;pear;4.5\n"), 0o644))
	out := filepath.Join(dir, "out.xlsx")

	ctx := context.Background()
	var stdout bytes.Buffer
	require.NoError(t, run(ctx, []string{"csv", "-charset", "utf-8", "-table", "-freeze", "-o", out, in}, &stdout))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"orders"}, f.GetSheetList())
	rows, err := f.GetRows("orders")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"id", "name", "qty"},
		{"007", "apple", "3"},
		{"2", "pear", "4.5"},
	}, rows)
	typ, err := f.GetCellType("orders", "A2")
	require.NoError(t, err)
	assert.Equal(t, excelize.CellTypeSharedString, typ, "leading zeros stay text")

	require.NoError(t, run(ctx, []string{"inspect", out}, &stdout))
	report := stdout.String()
	assert.Contains(t, report, `sheet "orders" dimension=A1:C3`)
	assert.Contains(t, report, "pane frozen x=0 y=1 top-left=A2")
	assert.Contains(t, report, "table Table1 A1:C3 style=TableStyleMedium9")
}

func TestCSVNamedSheets(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.csv")
	require.NoError(t, os.WriteFile(a, []byte("x,y\n1,2\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("z\n3\n"), 0o644))

	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"csv", "-charset", "utf-8", "-autofilter", "First:" + a, b}, &stdout))

	f, err := excelize.OpenFile(filepath.Join(dir, "a.xlsx"))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"First", "b"}, f.GetSheetList())

	var filter string
	for _, dn := range f.GetDefinedName() {
		if dn.Name == "_xlnm._FilterDatabase" && dn.Scope == "First" {
			filter = dn.RefersTo
		}
	}
	assert.Equal(t, "First!$A$1:$B$2", filter)
}

func TestCSVRejects(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	var stdout bytes.Buffer
	ctx := context.Background()
	assert.Error(t, run(ctx, []string{"csv", "-charset", "utf-8", empty}, &stdout))
	assert.Error(t, run(ctx, []string{"csv", "-charset", "no-such-charset", empty}, &stdout))
	assert.Error(t, run(ctx, []string{"csv", "-table-style", "fancy3", empty}, &stdout))
	assert.NoError(t, run(ctx, []string{"csv"}, &stdout), "missing arguments print usage")
}

func TestSheetSource(t *testing.T) {
	for arg, want := range map[string][2]string{
		"data.csv":        {"data", "data.csv"},
		"Totals:data.csv": {"Totals", "data.csv"},
		"-":               {"Sheet1", "-"},
		"/tmp/report.tsv": {"report", "/tmp/report.tsv"},
	} {
		name, fn := sheetSource(arg, 0)
		assert.Equal(t, want, [2]string{name, fn}, arg)
	}
}

func TestFieldValue(t *testing.T) {
	assert.Nil(t, fieldValue("", true))
	assert.Equal(t, 3.0, fieldValue("3", true))
	assert.Equal(t, -0.5, fieldValue("-0.5", true))
	assert.Equal(t, "007", fieldValue("007", true))
	assert.Equal(t, "NaN", fieldValue("NaN", true))
	assert.Equal(t, "0x1F", fieldValue("0x1F", true))
	assert.Equal(t, "3", fieldValue("3", false))
}

func TestSniffSeparator(t *testing.T) {
	assert.Equal(t, ';', sniffSeparator([]byte("a;b;c\n")))
	assert.Equal(t, '\t', sniffSeparator([]byte("a b\tc\n")))
	assert.Equal(t, ',', sniffSeparator([]byte("single\n")))
}

func TestCSVUnpacked(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "plain.csv")
	require.NoError(t, os.WriteFile(in, []byte("a,b\n1,2\n"), 0o644))

	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"csv", "-charset", "utf-8", "-unpacked", in}, &stdout))

	for _, part := range []string{"[Content_Types].xml", "xl/workbook.xml", "xl/worksheets/sheet1.xml"} {
		assert.FileExists(t, filepath.Join(dir, "plain", filepath.FromSlash(part)))
	}
	assert.NoFileExists(t, filepath.Join(dir, "plain.xlsx"))
}
