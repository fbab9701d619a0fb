package xl

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreezeAndSplit(t *testing.T) {
	wb := NewWorkbook()
	frozen := mustSheet(t, wb, "Frozen")
	split := mustSheet(t, wb, "Split")
	require.NoError(t, frozen.FreezePanes(1, 2))
	require.NoError(t, frozen.SetSelection(5, 3, 7, 4))
	require.NoError(t, split.FreezePanes(3, 0))
	require.NoError(t, split.SplitPanes(30, 0), "a split replaces the freeze")
	assert.ErrorIs(t, frozen.FreezePanes(MaxRows, 0), ErrOutOfRange)
	assert.ErrorIs(t, split.SplitPanes(math.NaN(), 0), ErrInvalidNumber)

	f := reopen(t, wb)
	p, err := f.GetPanes("Frozen")
	require.NoError(t, err)
	assert.True(t, p.Freeze)
	assert.Equal(t, 1, p.YSplit)
	assert.Equal(t, 2, p.XSplit)
	assert.Equal(t, "C2", p.TopLeftCell)
	assert.Equal(t, "bottomRight", p.ActivePane)
	require.Len(t, p.Selection, 1)
	assert.Equal(t, "D6:E8", p.Selection[0].SQRef)

	p, err = f.GetPanes("Split")
	require.NoError(t, err)
	assert.False(t, p.Freeze)
	assert.Equal(t, 900, p.YSplit)
	assert.Equal(t, "A3", p.TopLeftCell)

	frozen.FreezePanes(0, 0)
	assert.Nil(t, frozen.view.pane)
}

func TestSheetView(t *testing.T) {
	wb := NewWorkbook()
	sh := mustSheet(t, wb, "S")
	require.NoError(t, sh.SetZoom(150))
	assert.ErrorIs(t, sh.SetZoom(5), ErrOutOfRange)
	sh.Gridlines(GridLinesPrint)
	sh.RightToLeft()
	sh.SetTabColor(Orange)

	f := reopen(t, wb)
	v, err := f.GetSheetView("S", 0)
	require.NoError(t, err)
	require.NotNil(t, v.ZoomScale)
	assert.Equal(t, 150.0, *v.ZoomScale)
	require.NotNil(t, v.ShowGridLines)
	assert.False(t, *v.ShowGridLines)
	require.NotNil(t, v.RightToLeft)
	assert.True(t, *v.RightToLeft)

	props, err := f.GetSheetProps("S")
	require.NoError(t, err)
	require.NotNil(t, props.TabColorRGB)
	assert.Equal(t, "FFFF6600", *props.TabColorRGB)
}

func TestRowsAndColumns(t *testing.T) {
	wb := NewWorkbook()
	sh := mustSheet(t, wb, "S")
	require.NoError(t, sh.SetRow(0, 30, nil, nil))
	require.NoError(t, sh.SetRow(1, 0, nil, &RowColOptions{Hidden: true, Level: 2}))
	require.NoError(t, sh.SetColumn(1, 3, 20, nil, nil))
	require.NoError(t, sh.SetColumnWidth(5, 12.5))
	assert.ErrorIs(t, sh.SetRow(0, 500, nil, nil), ErrOutOfRange)
	assert.ErrorIs(t, sh.SetColumn(0, 0, 300, nil, nil), ErrOutOfRange)
	assert.ErrorIs(t, sh.SetRow(2, 10, nil, &RowColOptions{Level: 8}), ErrOutOfRange)
	assert.Equal(t, 30.0, sh.rows[0].height)

	f := reopen(t, wb)
	h, err := f.GetRowHeight("S", 1)
	require.NoError(t, err)
	assert.Equal(t, 30.0, h)
	visible, err := f.GetRowVisible("S", 2)
	require.NoError(t, err)
	assert.False(t, visible)
	level, err := f.GetRowOutlineLevel("S", 2)
	require.NoError(t, err)
	assert.Equal(t, uint8(2), level)

	for col, want := range map[string]float64{"B": 20, "C": 20, "D": 20, "F": 12.5} {
		w, err := f.GetColWidth("S", col)
		require.NoError(t, err)
		assert.Equal(t, want, w, col)
	}
}

func TestPageSetup(t *testing.T) {
	wb := NewWorkbook()
	sh := mustSheet(t, wb, "Print")
	require.NoError(t, sh.WriteString(0, 0, "x", nil))
	sh.SetLandscape()
	sh.SetPaper(PaperA4)
	require.NoError(t, sh.FitToPages(1, 0))
	require.NoError(t, sh.SetMargins(Margins{Left: 0.5, Right: 0.5, Top: 1, Bottom: 1, Header: 0.4, Footer: 0.4}))
	require.NoError(t, sh.SetHeader("&CQuarterly report"))
	require.NoError(t, sh.SetFooter("&RPage &P of &N"))
	require.NoError(t, sh.SetPrintArea(0, 0, 19, 4))
	require.NoError(t, sh.RepeatRows(0, 0))
	require.NoError(t, sh.SetHPageBreaks([]int{20, 40}))
	sh.CenterHorizontally()

	assert.ErrorIs(t, sh.SetMargins(Margins{Left: -1}), ErrOutOfRange)
	assert.ErrorIs(t, sh.SetPrintScale(500), ErrOutOfRange)
	assert.ErrorIs(t, sh.SetHPageBreaks([]int{0}), ErrOutOfRange)
	assert.ErrorIs(t, sh.SetHeader(string(make([]rune, 256))), ErrStringTooLong)

	f := reopen(t, wb)
	pl, err := f.GetPageLayout("Print")
	require.NoError(t, err)
	require.NotNil(t, pl.Orientation)
	assert.Equal(t, "landscape", *pl.Orientation)
	require.NotNil(t, pl.Size)
	assert.Equal(t, int(PaperA4), *pl.Size)
	require.NotNil(t, pl.FitToWidth)
	assert.Equal(t, 1, *pl.FitToWidth)

	m, err := f.GetPageMargins("Print")
	require.NoError(t, err)
	require.NotNil(t, m.Left)
	assert.Equal(t, 0.5, *m.Left)
	require.NotNil(t, m.Horizontally)
	assert.True(t, *m.Horizontally)

	hf, err := f.GetHeaderFooter("Print")
	require.NoError(t, err)
	assert.Equal(t, "&CQuarterly report", hf.OddHeader)
	assert.Equal(t, "&RPage &P of &N", hf.OddFooter)

	names := map[string]string{}
	for _, dn := range f.GetDefinedName() {
		names[dn.Name] = dn.RefersTo
	}
	assert.Equal(t, "Print!$A$1:$E$20", names["_xlnm.Print_Area"])
	assert.Equal(t, "Print!$1:$1", names["_xlnm.Print_Titles"])
}

func TestSheetVisibility(t *testing.T) {
	wb := NewWorkbook()
	first := mustSheet(t, wb, "First")
	second := mustSheet(t, wb, "Second")
	assert.ErrorIs(t, first.Hide(), ErrInvalidRange, "the active sheet stays visible")
	second.Activate()
	require.NoError(t, first.Hide())

	f := reopen(t, wb)
	visible, err := f.GetSheetVisible("First")
	require.NoError(t, err)
	assert.False(t, visible)
	assert.Equal(t, 1, f.GetActiveSheetIndex())
}

func TestAutofilter(t *testing.T) {
	wb := NewWorkbook()
	sh := mustSheet(t, wb, "S")
	require.NoError(t, sh.AppendRow("a", "b"))
	require.NoError(t, sh.AppendRow(1, 2))
	require.NoError(t, sh.Autofilter(0, 0, 1, 1))

	_, err := sh.AddTable(RangeOf(0, 0, 3, 1), nil)
	assert.ErrorIs(t, err, ErrOverlappingTable)
	_, err = sh.AddTable(RangeOf(0, 0, 3, 1), &TableOptions{NoAutofilter: true})
	require.NoError(t, err)
	require.NoError(t, sh.Autofilter(5, 0, 6, 0))

	f := reopen(t, wb)
	names := map[string]string{}
	for _, dn := range f.GetDefinedName() {
		names[dn.Name] = dn.RefersTo
	}
	assert.Equal(t, "S!$A$6:$A$7", names["_xlnm._FilterDatabase"])
}
