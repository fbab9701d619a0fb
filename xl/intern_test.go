package xl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableIntern(t *testing.T) {
	tab := newTable[string]()

	id, added := tab.intern("a")
	assert.Equal(t, 0, id)
	assert.True(t, added)

	id, added = tab.intern("b")
	assert.Equal(t, 1, id)
	assert.True(t, added)

	id, added = tab.intern("a")
	assert.Equal(t, 0, id)
	assert.False(t, added)

	assert.Equal(t, 2, tab.len())
	assert.Equal(t, "b", tab.at(1))
}

func TestSharedStrings(t *testing.T) {
	wb := NewWorkbook()
	sh := mustSheet(t, wb, "S")
	bold, err := wb.AddFormat(Style{Font: Font{Bold: true}})
	require.NoError(t, err)

	require.NoError(t, sh.WriteString(0, 0, "x", nil))
	require.NoError(t, sh.WriteString(1, 0, "x", nil))
	require.NoError(t, sh.WriteString(2, 0, "y", nil))
	assert.Equal(t, 2, wb.sst.len())

	runs := []TextRun{{Text: "bold", Format: bold}, {Text: " plain"}}
	require.NoError(t, sh.WriteRichString(3, 0, runs, nil))
	require.NoError(t, sh.WriteRichString(4, 0, runs, nil))
	assert.Equal(t, 4, wb.sst.len(), "rich strings are never shared")
	assert.Equal(t, "bold plain", sh.Text(3, 0))
	assert.Equal(t, "x", sh.Text(1, 0))

	// overwriting a cell does not shrink the table
	require.NoError(t, sh.WriteNumber(2, 0, 1, nil))
	assert.Equal(t, 4, wb.sst.len())
	assert.Empty(t, sh.Text(2, 0))
	assert.Empty(t, sh.Text(9, 9))
}

func TestSharedStringsCount(t *testing.T) {
	wb := NewWorkbook()
	sh := mustSheet(t, wb, "S")
	for i := range 5 {
		require.NoError(t, sh.WriteString(i, 0, "same", nil))
	}
	xml := string(parts(t, wb).Blob("xl/sharedStrings.xml"))
	assert.Contains(t, xml, `count="5"`)
	assert.Contains(t, xml, `uniqueCount="1"`)
}

func TestFormatInterning(t *testing.T) {
	wb := NewWorkbook()
	a, err := wb.AddFormat(Style{Font: Font{Italic: true}, NumFmt: "0.00"})
	require.NoError(t, err)
	b, err := wb.AddFormat(Style{Font: Font{Italic: true}, NumFmt: "0.00"})
	require.NoError(t, err)
	c, err := wb.AddFormat(Style{Font: Font{Italic: true}})
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.NotEqual(t, a.Index(), c.Index())
	assert.Equal(t, 0, (*Format)(nil).Index())
}
