package xl

import (
	"math"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetCellRejectsWithoutChange(t *testing.T) {
	wb := NewWorkbook()
	sh := mustSheet(t, wb, "Data")
	require.NoError(t, sh.WriteNumber(0, 0, 1.5, nil))

	assert.ErrorIs(t, sh.WriteNumber(0, 0, math.NaN(), nil), ErrInvalidNumber)
	assert.ErrorIs(t, sh.WriteNumber(0, 0, math.Inf(1), nil), ErrInvalidNumber)
	assert.ErrorIs(t, sh.WriteNumber(MaxRows, 0, 1, nil), ErrOutOfRange)
	assert.ErrorIs(t, sh.WriteNumber(0, -1, 1, nil), ErrOutOfRange)
	assert.ErrorIs(t, sh.WriteString(0, 0, strings.Repeat("x", maxStringLength+1), nil), ErrStringTooLong)

	c := sh.Cell(0, 0)
	require.NotNil(t, c)
	assert.Equal(t, Number(1.5), c.Value())
	assert.Equal(t, 0, wb.sst.len())
}

func TestSetCellForeignFormat(t *testing.T) {
	other := NewWorkbook()
	f, err := other.AddFormat(Style{Font: Font{Bold: true}, NumFmt: "0.0"})
	require.NoError(t, err)

	wb := NewWorkbook()
	sh := mustSheet(t, wb, "S")
	assert.ErrorIs(t, sh.WriteNumber(0, 0, 1, f), ErrInvalidRange)
	assert.Nil(t, sh.Cell(0, 0))
}

func TestMergeForeignFormat(t *testing.T) {
	other := NewWorkbook()
	for i := range 6 {
		_, err := other.AddFormat(Style{Alignment: Alignment{Indent: i + 1}})
		require.NoError(t, err)
	}
	f, err := other.AddFormat(Style{Font: Font{Bold: true}})
	require.NoError(t, err)

	wb := NewWorkbook()
	sh := mustSheet(t, wb, "S")
	assert.ErrorIs(t, sh.MergeRange(0, 0, 1, 1, String("x"), f), ErrInvalidRange)
	assert.Empty(t, sh.Merges())
	assert.Nil(t, sh.Cell(0, 0))
	assert.Nil(t, sh.Cell(1, 1))
	assert.Equal(t, 0, wb.sst.len())

	xml := string(parts(t, wb).Blob("xl/styles.xml"))
	assert.Contains(t, xml, `<cellXfs count="1">`)
}

func TestBlankClears(t *testing.T) {
	wb := NewWorkbook()
	sh := mustSheet(t, wb, "S")
	fill, err := wb.AddFormat(Style{Fill: SolidFill(Yellow)})
	require.NoError(t, err)

	require.NoError(t, sh.WriteString(3, 3, "x", nil))
	require.NoError(t, sh.WriteBlank(3, 3, nil))
	assert.Nil(t, sh.Cell(3, 3))
	_, ok := sh.Dimension()
	assert.False(t, ok)

	require.NoError(t, sh.WriteBlank(3, 3, fill))
	require.NotNil(t, sh.Cell(3, 3))
	assert.Equal(t, CellTypeBlank, sh.Cell(3, 3).Type())
}

func TestMerge(t *testing.T) {
	wb := NewWorkbook()
	sh := mustSheet(t, wb, "S")
	require.NoError(t, sh.WriteString(1, 1, "covered", nil))

	require.NoError(t, sh.MergeRange(0, 0, 2, 2, String("title"), nil))
	assert.Nil(t, sh.Cell(1, 1), "covered cells are cleared")

	assert.ErrorIs(t, sh.MergeRange(2, 2, 3, 3, nil, nil), ErrOverlappingMerge)
	assert.ErrorIs(t, sh.MergeRange(5, 5, 5, 5, nil, nil), ErrInvalidRange)
	assert.Len(t, sh.Merges(), 1)

	assert.ErrorIs(t, sh.WriteNumber(1, 1, 1, nil), ErrOverlappingMerge)
	require.NoError(t, sh.WriteString(0, 0, "new title", nil))

	f := reopen(t, wb)
	merges, err := f.GetMergeCells("S")
	require.NoError(t, err)
	require.Len(t, merges, 1)
	assert.Equal(t, "A1", merges[0].GetStartAxis())
	assert.Equal(t, "C3", merges[0].GetEndAxis())
	v, err := f.GetCellValue("S", "A1")
	require.NoError(t, err)
	assert.Equal(t, "new title", v)

	require.NoError(t, sh.UnmergeRange(0, 0))
	assert.Empty(t, sh.Merges())
	assert.ErrorIs(t, sh.UnmergeRange(0, 0), ErrInvalidRange)
	require.NoError(t, sh.WriteNumber(1, 1, 1, nil))
}

func TestMergeFormatSpansBlock(t *testing.T) {
	wb := NewWorkbook()
	sh := mustSheet(t, wb, "S")
	border, err := wb.AddFormat(Style{Border: BorderAround(BorderThin, Black)})
	require.NoError(t, err)
	require.NoError(t, sh.MergeRange(0, 0, 1, 1, String("x"), border))

	for _, rc := range [][2]int{{0, 1}, {1, 0}, {1, 1}} {
		c := sh.Cell(rc[0], rc[1])
		require.NotNil(t, c)
		assert.Same(t, border, c.Format())
	}
}

var cellRefs = regexp.MustCompile(`<c r="([A-Z]+[0-9]+)"`)

func TestCellsWrittenInOrder(t *testing.T) {
	wb := NewWorkbook()
	sh := mustSheet(t, wb, "S")
	for _, rc := range [][2]int{{9, 0}, {0, 5}, {0, 1}, {2, 27}, {2, 3}, {100, 0}} {
		require.NoError(t, sh.WriteNumber(rc[0], rc[1], 1, nil))
	}

	xml := string(parts(t, wb).Blob("xl/worksheets/sheet1.xml"))
	var got []string
	for _, m := range cellRefs.FindAllStringSubmatch(xml, -1) {
		got = append(got, m[1])
	}
	assert.Equal(t, []string{"B1", "F1", "D3", "AB3", "A10", "A101"}, got)
	assert.Contains(t, xml, `<dimension ref="A1:AB101"`)
}

func TestAppendRow(t *testing.T) {
	wb := NewWorkbook()
	sh := mustSheet(t, wb, "S")
	require.NoError(t, sh.AppendRow("name", "qty", "ok"))
	require.NoError(t, sh.AppendRow("apple", 3, true))
	require.NoError(t, sh.AppendRow("pear", nil, false))

	err := sh.AppendRow("bad", math.NaN())
	assert.ErrorIs(t, err, ErrInvalidNumber)
	assert.Nil(t, sh.Cell(3, 0), "a rejected row writes nothing")

	f := reopen(t, wb)
	rows, err := f.GetRows("S")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"name", "qty", "ok"},
		{"apple", "3", "TRUE"},
		{"pear", "", "FALSE"},
	}, rows)
}
