package xl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnNumberAsLetters(t *testing.T) {
	for n, want := range map[int]string{
		1:     "A",
		26:    "Z",
		27:    "AA",
		52:    "AZ",
		53:    "BA",
		702:   "ZZ",
		703:   "AAA",
		16384: "XFD",
	} {
		assert.Equal(t, want, ColumnNumberAsLetters(n), n)
	}
	assert.Panics(t, func() { ColumnNumberAsLetters(0) })
}

func TestCellName(t *testing.T) {
	assert.Equal(t, "A1", CellName(0, 0))
	assert.Equal(t, "C5", CellName(4, 2))
	assert.Equal(t, "XFD1048576", CellName(MaxRows-1, MaxColumns-1))
}

func TestParseCell(t *testing.T) {
	row, col, err := ParseCell("$B$3")
	require.NoError(t, err)
	assert.Equal(t, 2, row)
	assert.Equal(t, 1, col)

	row, col, err = ParseCell("xfd1048576")
	require.NoError(t, err)
	assert.Equal(t, MaxRows-1, row)
	assert.Equal(t, MaxColumns-1, col)

	_, _, err = ParseCell("XFE1")
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, _, err = ParseCell("A1048577")
	assert.ErrorIs(t, err, ErrOutOfRange)
	for _, bad := range []string{"", "A", "12", "A0", "A-1"} {
		_, _, err = ParseCell(bad)
		assert.ErrorIs(t, err, ErrInvalidRange, bad)
	}
}

func TestRange(t *testing.T) {
	r, err := ParseRange("C5:A1")
	require.NoError(t, err)
	assert.Equal(t, Range{0, 0, 4, 2}, r)
	assert.Equal(t, "A1:C5", r.String())
	assert.Equal(t, "$A$1:$C$5", r.abs())
	assert.Equal(t, 5, r.Rows())
	assert.Equal(t, 3, r.Cols())

	single, err := ParseRange("B2")
	require.NoError(t, err)
	assert.Equal(t, "B2", single.String())
	assert.True(t, r.Overlaps(single))
	assert.True(t, r.Contains(4, 2))
	assert.False(t, r.Contains(5, 2))
	assert.False(t, RangeOf(10, 10, 11, 11).Overlaps(r))

	assert.ErrorIs(t, RangeOf(0, 0, MaxRows, 0).validate(), ErrOutOfRange)
	assert.ErrorIs(t, Range{FirstRow: 2, LastRow: 1}.validate(), ErrInvalidRange)
}
