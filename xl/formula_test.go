package xl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareFormula(t *testing.T) {
	for in, want := range map[string]string{
		"=SUM(A1:A3)":                  "SUM(A1:A3)",
		"CONCAT(A1,B1)":                "_xlfn.CONCAT(A1,B1)",
		`IFS(A1>1,"x",TRUE,"y")`:       `_xlfn.IFS(A1>1,"x",TRUE,"y")`,
		"SORT(FILTER(A1:A9,B1:B9))":    "_xlfn._xlws.SORT(_xlfn._xlws.FILTER(A1:A9,B1:B9))",
		`"CONCAT(" & A1`:               `"CONCAT(" & A1`,
		"_xlfn.CONCAT(A1)":             "_xlfn.CONCAT(A1)",
		"stdev.s(A1:A4)":               "_xlfn.stdev.s(A1:A4)",
		"'CONCAT sheet'!A1+CONCAT(B1)": "'CONCAT sheet'!A1+_xlfn.CONCAT(B1)",
	} {
		got, err := prepareFormula(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestPrepareFormulaErrors(t *testing.T) {
	for _, in := range []string{"", "=", "SUM(A1", "SUM((A1)"} {
		_, err := prepareFormula(in)
		assert.ErrorIs(t, err, ErrInvalidFormula, in)
	}
}

func TestFormulaRoundTrip(t *testing.T) {
	wb := NewWorkbook()
	sh := mustSheet(t, wb, "S")
	require.NoError(t, sh.WriteNumber(0, 0, 2, nil))
	require.NoError(t, sh.WriteFormulaNum(0, 1, "=A1*2", 4, nil))
	require.NoError(t, sh.WriteFormulaStr(0, 2, `CONCAT("a",A1)`, "a2", nil))
	require.NoError(t, sh.WriteArrayFormula(RangeOf(1, 0, 2, 0), "A1:B1*2", nil))
	assert.ErrorIs(t, sh.WriteFormula(3, 0, "SUM(A1", nil), ErrInvalidFormula)
	assert.Nil(t, sh.Cell(3, 0))

	f := reopen(t, wb)
	expr, err := f.GetCellFormula("S", "B1")
	require.NoError(t, err)
	assert.Equal(t, "A1*2", expr)
	v, err := f.GetCellValue("S", "B1")
	require.NoError(t, err)
	assert.Equal(t, "4", v)

	expr, err = f.GetCellFormula("S", "C1")
	require.NoError(t, err)
	assert.Contains(t, expr, "CONCAT(")
	v, err = f.GetCellValue("S", "C1")
	require.NoError(t, err)
	assert.Equal(t, "a2", v)

	expr, err = f.GetCellFormula("S", "A2")
	require.NoError(t, err)
	assert.Equal(t, "A1:B1*2", expr)
}
