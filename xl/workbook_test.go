package xl

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestAddSheet(t *testing.T) {
	wb := NewWorkbook()
	a := mustSheet(t, wb, "")
	assert.Equal(t, "Sheet1", a.Name())
	b := mustSheet(t, wb, "Data")
	assert.Equal(t, 1, b.Index())

	_, err := wb.AddSheet("DATA")
	assert.ErrorIs(t, err, ErrInvalidSheetName)
	_, err = wb.AddSheet("sheet1")
	assert.ErrorIs(t, err, ErrInvalidSheetName)
	assert.Same(t, b, wb.Sheet("data"))

	for _, bad := range []string{
		"'quoted",
		"trailing'",
		"a/b",
		"what?",
		"[x]",
		"0123456789012345678901234567890123",
	} {
		_, err := wb.AddSheet(bad)
		assert.ErrorIs(t, err, ErrInvalidSheetName, bad)
	}
	assert.Len(t, wb.Sheets(), 2)

	c := mustSheet(t, wb, "")
	assert.Equal(t, "Sheet3", c.Name())
}

func TestEmptyWorkbookGetsSheet(t *testing.T) {
	wb := NewWorkbook()
	f := reopen(t, wb)
	assert.Equal(t, []string{"Sheet1"}, f.GetSheetList())
	assert.Empty(t, wb.Sheets(), "writing leaves the model alone")

	sh := mustSheet(t, wb, "Data")
	assert.Equal(t, 0, sh.Index())
	assert.Equal(t, []string{"Data"}, reopen(t, wb).GetSheetList())
}

func TestDefineName(t *testing.T) {
	wb := NewWorkbook()
	sh := mustSheet(t, wb, "Sales")
	require.NoError(t, wb.DefineName("Total", "=Sales!$B$10", nil))
	require.NoError(t, wb.DefineName("Rate", "0.2", sh))
	require.NoError(t, wb.DefineName("Total", "Sales!$B$11", sh), "same name, other scope")

	assert.ErrorIs(t, wb.DefineName("total", "Sales!$A$1", nil), ErrDuplicateName)
	assert.ErrorIs(t, wb.DefineName("A1", "1", nil), ErrInvalidRange)
	assert.ErrorIs(t, wb.DefineName("1abc", "1", nil), ErrInvalidRange)
	assert.ErrorIs(t, wb.DefineName("_xlnm.Print_Area", "1", nil), ErrInvalidRange)
	assert.ErrorIs(t, wb.DefineName("Empty", " ", nil), ErrInvalidFormula)
	assert.ErrorIs(t, wb.DefineName("Foreign", "1", mustSheet(t, NewWorkbook(), "X")), ErrInvalidRange)

	f := reopen(t, wb)
	got := map[string]string{}
	for _, dn := range f.GetDefinedName() {
		got[dn.Scope+"/"+dn.Name] = dn.RefersTo
	}
	assert.Equal(t, map[string]string{
		"Workbook/Total": "Sales!$B$10",
		"Sales/Rate":     "0.2",
		"Sales/Total":    "Sales!$B$11",
	}, got)
}

func TestProperties(t *testing.T) {
	wb := NewWorkbook()
	mustSheet(t, wb, "S")
	wb.SetProperties(DocProperties{Title: "Quarterly", Author: "ops", Keywords: "q1 report"})

	f := reopen(t, wb)
	p, err := f.GetDocProps()
	require.NoError(t, err)
	assert.Equal(t, "Quarterly", p.Title)
	assert.Equal(t, "ops", p.Creator)
	assert.Equal(t, "q1 report", p.Keywords)

	assert.ErrorIs(t, wb.SetVBAName("9lives"), ErrInvalidRange)
	assert.NoError(t, wb.SetVBAName("ThisWorkbook"))
}

func TestHyperlinks(t *testing.T) {
	wb := NewWorkbook()
	sh := mustSheet(t, wb, "Links")
	mustSheet(t, wb, "Other")
	require.NoError(t, sh.WriteURL(0, 0, URL{Target: "https://example.com/a b", Tip: "go"}, nil))
	require.NoError(t, sh.WriteURL(1, 0, URL{Target: "internal:Other!A1", Text: "jump"}, nil))
	require.NoError(t, sh.WriteURL(2, 0, URL{Target: "mailto:ops@example.com"}, nil))
	assert.ErrorIs(t, sh.WriteURL(3, 0, URL{}, nil), ErrInvalidRange)

	require.NotNil(t, sh.Cell(0, 0).Format(), "default hyperlink style")

	f := reopen(t, wb)
	ok, target, err := f.GetCellHyperLink("Links", "A1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/a%20b", target)

	ok, target, err = f.GetCellHyperLink("Links", "A2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Other!A1", target)

	for cell, want := range map[string]string{
		"A1": "https://example.com/a b",
		"A2": "jump",
		"A3": "ops@example.com",
	} {
		v, err := f.GetCellValue("Links", cell)
		require.NoError(t, err)
		assert.Equal(t, want, v, cell)
	}
}

func TestSave(t *testing.T) {
	wb := NewWorkbook()
	sh := mustSheet(t, wb, "S")
	require.NoError(t, sh.WriteString(0, 0, "saved", nil))

	fn := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, os.WriteFile(fn, []byte("old"), 0o666))
	require.NoError(t, wb.Save(fn))

	f, err := excelize.OpenFile(fn)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("S", "A1")
	require.NoError(t, err)
	assert.Equal(t, "saved", v)

	err = wb.Save(filepath.Join(t.TempDir(), "missing", "out.xlsx"))
	assert.ErrorIs(t, err, ErrIO)
}

func TestWriteIsRepeatable(t *testing.T) {
	opts := DefaultOptions()
	opts.Created = time.Date(2024, time.May, 1, 8, 0, 0, 0, time.UTC)
	wb := NewWorkbookWith(opts)
	sh := mustSheet(t, wb, "S")
	require.NoError(t, sh.AppendRow("a", 1, true))
	require.NoError(t, sh.AddConditionalFormat(RangeOf(0, 1, 9, 1), ConditionalFormat{Rule: DataBarRule{}}))

	var first, second bytes.Buffer
	_, err := wb.WriteTo(&first)
	require.NoError(t, err)
	_, err = wb.WriteTo(&second)
	require.NoError(t, err)
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestPackageParts(t *testing.T) {
	wb := NewWorkbook()
	sh := mustSheet(t, wb, "S")
	require.NoError(t, sh.WriteString(0, 0, "x", nil))

	ms := parts(t, wb)
	names := ms.Parts()
	for _, want := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"docProps/core.xml",
		"docProps/app.xml",
		"xl/workbook.xml",
		"xl/_rels/workbook.xml.rels",
		"xl/worksheets/sheet1.xml",
		"xl/styles.xml",
		"xl/sharedStrings.xml",
		"xl/theme/theme1.xml",
	} {
		assert.Contains(t, names, want)
	}
	ct := string(ms.Blob("[Content_Types].xml"))
	assert.Contains(t, ct, "/xl/theme/theme1.xml")
	assert.Contains(t, ct, "/xl/sharedStrings.xml")
	assert.NotContains(t, names, "xl/richData/richValueRel.xml")

	var buf bytes.Buffer
	_, err := ms.WriteTo(&buf)
	require.NoError(t, err)
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"S"}, f.GetSheetList())
}
