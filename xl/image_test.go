package xl

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBlob(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0xFF})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSniffImage(t *testing.T) {
	info, err := sniffImage(pngBlob(t, 12, 7))
	require.NoError(t, err)
	assert.Equal(t, mediaInfo{ext: "png", width: 12, height: 7}, info)

	_, err = sniffImage(nil)
	assert.ErrorIs(t, err, ErrInvalidImage)
	_, err = sniffImage([]byte("GIF89a but not really"))
	assert.ErrorIs(t, err, ErrInvalidImage)

	full := pngBlob(t, 4, 4)
	_, err = sniffImage(full[:len(full)-4])
	assert.ErrorIs(t, err, ErrInvalidImage)

	var gifBuf bytes.Buffer
	require.NoError(t, gif.Encode(&gifBuf, image.NewPaletted(image.Rect(0, 0, 3, 2), color.Palette{color.Black, color.White}), nil))
	info, err = sniffImage(gifBuf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, mediaInfo{ext: "gif", width: 3, height: 2}, info)

	var jpg bytes.Buffer
	require.NoError(t, jpeg.Encode(&jpg, image.NewGray(image.Rect(0, 0, 5, 9)), nil))
	info, err = sniffImage(jpg.Bytes())
	require.NoError(t, err)
	assert.Equal(t, mediaInfo{ext: "jpeg", width: 5, height: 9}, info)
	_, err = sniffImage(jpg.Bytes()[:jpg.Len()-2])
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestSpan(t *testing.T) {
	wb := NewWorkbook()
	sh := mustSheet(t, wb, "S")

	from, to := sh.span(anchor{width: 100, height: 30})
	assert.Equal(t, cellPos{}, from)
	assert.Equal(t, cellPos{row: 1, col: 1, dx: 36, dy: 10}, to)

	require.NoError(t, sh.SetColumn(1, 1, 0, nil, &RowColOptions{Hidden: true}))
	require.NoError(t, sh.SetRow(0, 30, nil, nil))
	from, to = sh.span(anchor{offsetX: 70, width: 64, height: 40})
	assert.Equal(t, cellPos{row: 0, col: 2, dx: 6}, from)
	assert.Equal(t, cellPos{row: 1, col: 3, dx: 6, dy: 0}, to)
}

func TestInsertImage(t *testing.T) {
	wb := NewWorkbook()
	sh := mustSheet(t, wb, "Pics")
	blob := pngBlob(t, 40, 20)
	require.NoError(t, sh.InsertImage(1, 1, blob, &ImageOptions{Description: "logo", ScaleX: 2}))
	require.NoError(t, sh.InsertImage(5, 1, blob, nil))

	assert.ErrorIs(t, sh.InsertImage(0, 0, []byte("nope"), nil), ErrInvalidImage)
	assert.ErrorIs(t, sh.InsertImage(0, 0, blob, &ImageOptions{OffsetX: -1}), ErrOutOfRange)
	assert.ErrorIs(t, sh.InsertImage(MaxRows, 0, blob, nil), ErrOutOfRange)
	assert.Len(t, sh.images, 2)
	assert.Equal(t, 80, sh.images[0].width)

	ms := parts(t, wb)
	var media []string
	for _, name := range ms.Parts() {
		if strings.HasPrefix(name, "xl/media/") {
			media = append(media, name)
		}
	}
	assert.Equal(t, []string{"xl/media/" + mediaName(blob, "png")}, media, "equal blobs share one part")
	drawing := string(ms.Blob("xl/drawings/drawing1.xml"))
	assert.Equal(t, 2, strings.Count(drawing, "<xdr:pic>"))
	assert.Contains(t, drawing, `descr="logo"`)
	assert.Contains(t, string(ms.Blob("[Content_Types].xml")), `Extension="png"`)

	f := reopen(t, wb)
	pics, err := f.GetPictures("Pics", "B2")
	require.NoError(t, err)
	require.Len(t, pics, 1)
	assert.Equal(t, blob, pics[0].File)
	assert.Equal(t, ".png", pics[0].Extension)
}

func TestEmbedImage(t *testing.T) {
	wb := NewWorkbook()
	sh := mustSheet(t, wb, "S")
	blob := pngBlob(t, 8, 8)
	require.NoError(t, sh.EmbedImage(0, 0, blob, nil))
	require.NoError(t, sh.EmbedImage(1, 0, blob, nil))
	assert.ErrorIs(t, sh.EmbedImage(2, 0, []byte{1, 2, 3}, nil), ErrInvalidImage)

	c := sh.Cell(0, 0)
	require.NotNil(t, c)
	require.NotNil(t, c.Picture())
	assert.Equal(t, ".png", c.Picture().Extension)

	ms := parts(t, wb)
	names := ms.Parts()
	for _, want := range []string{
		"xl/richData/richValueRel.xml",
		"xl/richData/_rels/richValueRel.xml.rels",
		"xl/richData/rdrichvaluestructure.xml",
		"xl/richData/rdrichvalue.xml",
		"xl/metadata.xml",
	} {
		assert.Contains(t, names, want)
	}
	sheet := string(ms.Blob("xl/worksheets/sheet1.xml"))
	assert.Equal(t, 2, strings.Count(sheet, `vm="1"`), "one rich value per distinct blob")
	assert.Contains(t, string(ms.Blob("xl/richData/rdrichvalue.xml")), `count="1"`)
}

func TestCharts(t *testing.T) {
	wb := NewWorkbook()
	sh := mustSheet(t, wb, "Data")
	for _, row := range [][]any{{"Q1", 10, 4}, {"Q2", 14, 6}, {"Q3", 9, 8}} {
		require.NoError(t, sh.AppendRow(row...))
	}

	col, err := wb.AddChart(ChartColumn)
	require.NoError(t, err)
	s := col.AddSeries("Data!$A$1:$A$3", "Data!$B$1:$B$3")
	s.Name = "Sales"
	s.Color = Blue
	col.AddSeries("Data!$A$1:$A$3", "=Data!$C$1:$C$3").Name = "=Data!$C$1"
	col.SetTitle("Quarterly")
	col.SetYAxisTitle("Units")
	col.SetLegend(LegendBottom)

	pie, err := wb.AddChart(ChartPie)
	require.NoError(t, err)
	pie.AddSeries("Data!$A$1:$A$3", "Data!$B$1:$B$3")
	pie.SetLegend(LegendNone)

	empty, err := wb.AddChart(ChartLine)
	require.NoError(t, err)
	_, err = wb.AddChart(ChartType(99))
	assert.ErrorIs(t, err, ErrOutOfRange)

	require.NoError(t, sh.InsertChart(4, 0, col, nil))
	require.NoError(t, sh.InsertChart(4, 8, pie, &ImageOptions{ScaleX: 0.5}))
	assert.ErrorIs(t, sh.InsertChart(20, 0, col, nil), ErrInvalidRange, "a chart is inserted once")
	assert.ErrorIs(t, sh.InsertChart(20, 0, empty, nil), ErrInvalidRange, "a chart needs series")
	other, err := NewWorkbook().AddChart(ChartBar)
	require.NoError(t, err)
	assert.ErrorIs(t, sh.InsertChart(20, 0, other, nil), ErrInvalidRange)

	ms := parts(t, wb)
	c1 := string(ms.Blob("xl/charts/chart1.xml"))
	assert.Contains(t, c1, "<c:barChart>")
	assert.Contains(t, c1, `<c:barDir val="col"`)
	assert.Contains(t, c1, "Quarterly")
	assert.Contains(t, c1, "Units")
	assert.Contains(t, c1, `<c:legendPos val="b"`)
	assert.Contains(t, c1, "<c:v>Sales</c:v>")
	assert.Contains(t, c1, "<c:f>Data!$C$1</c:f>")
	assert.Contains(t, c1, `<a:srgbClr val="0000FF"`)
	assert.Contains(t, c1, "<c:f>Data!$C$1:$C$3</c:f>")

	c2 := string(ms.Blob("xl/charts/chart2.xml"))
	assert.Contains(t, c2, "<c:pieChart>")
	assert.NotContains(t, c2, "<c:legend>")
	assert.NotContains(t, c2, "<c:catAx>")

	drawing := string(ms.Blob("xl/drawings/drawing1.xml"))
	assert.Equal(t, 2, strings.Count(drawing, "<xdr:graphicFrame"))
	assert.Contains(t, drawing, `cx="2286000"`, "240 pixels wide")
	rels := string(ms.Blob("xl/drawings/_rels/drawing1.xml.rels"))
	assert.Contains(t, rels, "../charts/chart1.xml")
	assert.Contains(t, rels, "../charts/chart2.xml")
}
