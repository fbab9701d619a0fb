package xl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	for s, want := range map[string]Color{
		"#FF6600":  Orange,
		"0563c1":   0xFF0563C1,
		"80FF0000": 0x80FF0000,
	} {
		c, err := ParseColor(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, c, s)
	}
	for _, bad := range []string{"", "#FFF", "GG0000", "#1234567"} {
		_, err := ParseColor(bad)
		assert.ErrorIs(t, err, ErrInvalidNumber, bad)
	}
	assert.Equal(t, "FF638EC6", RGB(0x63, 0x8E, 0xC6).ARGB())
	assert.Equal(t, "auto", ColorAuto.String())
}

func TestStyleValidation(t *testing.T) {
	wb := NewWorkbook()
	for name, tc := range map[string]struct {
		style Style
		err   error
	}{
		"font size":   {Style{Font: Font{Size: 410}}, ErrOutOfRange},
		"font name":   {Style{Font: Font{Name: strings.Repeat("f", 32)}}, ErrStringTooLong},
		"indent":      {Style{Alignment: Alignment{Indent: 251}}, ErrOutOfRange},
		"rotation":    {Style{Alignment: Alignment{Rotation: 91}}, ErrOutOfRange},
		"number code": {Style{NumFmt: strings.Repeat("0", 256)}, ErrStringTooLong},
	} {
		_, err := wb.AddFormat(tc.style)
		assert.ErrorIs(t, err, tc.err, name)
	}
	assert.Len(t, wb.formatList, 1, "rejected styles are not interned")

	_, err := wb.AddFormat(Style{Alignment: Alignment{Rotation: 255}})
	assert.NoError(t, err)
	_, err = wb.AddFormat(Style{Font: Font{Name: strings.Repeat("ß", 31)}, NumFmt: strings.Repeat("€", 200)})
	assert.NoError(t, err, "limits count characters, not bytes")
}

func TestStyleTables(t *testing.T) {
	wb := NewWorkbook()
	for _, s := range []Style{
		{Font: Font{Bold: true, Color: Red}},
		{Font: Font{Bold: true, Color: Red}, NumFmt: "0.000"},
		{Fill: Fill{FgColor: Yellow}},
		{NumFmt: "0.00"},
		{NumFmt: "#,##0.000"},
	} {
		_, err := wb.AddFormat(s)
		require.NoError(t, err)
	}

	st := buildStyles(wb)
	assert.Equal(t, 2, st.fonts.len())
	assert.Equal(t, 3, st.fills.len(), "none, gray125 and the solid fill")
	assert.Equal(t, PatternSolid, st.fills.at(2).Pattern)
	assert.Equal(t, 1, st.borders.len())
	assert.Equal(t, []string{"0.000", "#,##0.000"}, st.numFmtIDs)

	require.Len(t, st.xfs, 6)
	assert.Equal(t, 1, st.xfs[1].font)
	assert.Equal(t, 164, st.xfs[2].numFmt)
	assert.Equal(t, 2, st.xfs[4].numFmt)
	assert.Equal(t, 165, st.xfs[5].numFmt)
}

func TestStyleReadBack(t *testing.T) {
	wb := NewWorkbook()
	sh := mustSheet(t, wb, "S")
	f, err := wb.AddFormat(Style{
		Font:      Font{Bold: true, Italic: true, Size: 14, Color: Red},
		Fill:      SolidFill(Yellow),
		NumFmt:    "0.000",
		Alignment: Alignment{Horizontal: HAlignCenter, Rotation: -45, WrapText: true},
	})
	require.NoError(t, err)
	require.NoError(t, sh.WriteNumber(0, 0, 1.25, f))

	x := reopen(t, wb)
	idx, err := x.GetCellStyle("S", "A1")
	require.NoError(t, err)
	assert.Equal(t, f.Index(), idx)

	st, err := x.GetStyle(idx)
	require.NoError(t, err)
	require.NotNil(t, st.Font)
	assert.True(t, st.Font.Bold)
	assert.True(t, st.Font.Italic)
	assert.Equal(t, 14.0, st.Font.Size)
	assert.Equal(t, "FF0000", st.Font.Color)
	assert.Equal(t, "pattern", st.Fill.Type)
	assert.Equal(t, 1, st.Fill.Pattern)
	require.NotNil(t, st.CustomNumFmt)
	assert.Equal(t, "0.000", *st.CustomNumFmt)
	require.NotNil(t, st.Alignment)
	assert.Equal(t, "center", st.Alignment.Horizontal)
	assert.Equal(t, 135, st.Alignment.TextRotation)
	assert.True(t, st.Alignment.WrapText)
}
