package xl

import (
	"fmt"
	"strings"

	"github.com/adnsv/srw/xml"
	"github.com/valyala/bytebufferpool"
)

// emuPerPixel converts pixels at 96 dpi to English Metric Units.
const emuPerPixel = 9525

func (w *Writer) writeDrawing(sh *Sheet, n int) error {
	abspath := fmt.Sprintf("/xl/drawings/drawing%d.xml", n)
	w.PartContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.drawing+xml"

	rels := newRelSet()

	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)
	x := xml.NewWriter(bb, xmlConfig)
	x.XmlStandaloneDecl()

	x.OTag("xdr:wsDr")
	x.Attr("xmlns:xdr", "http://schemas.openxmlformats.org/drawingml/2006/spreadsheetDrawing")
	x.Attr("xmlns:a", "http://schemas.openxmlformats.org/drawingml/2006/main")

	objID := 1
	for _, img := range sh.images {
		name, err := w.addMedia(img.blob, img.info.ext)
		if err != nil {
			return err
		}
		rid := rels.add(RelInfo{
			Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image",
			Target: "../media/" + name,
		})
		objID++
		from, to := sh.span(img.anchor)

		x.OTag("+xdr:twoCellAnchor").Attr("editAs", "oneCell")
		writeAnchorCorners(x, from, to)

		x.OTag("+xdr:pic")
		x.OTag("+xdr:nvPicPr")
		x.OTag("+xdr:cNvPr").Attr("id", objID).Attr("name", fmt.Sprintf("Picture %d", objID-1))
		if img.description != "" {
			x.Attr("descr", img.description)
		}
		x.CTag()
		x.OTag("+xdr:cNvPicPr")
		x.OTag("+a:picLocks").Attr("noChangeAspect", 1).CTag()
		x.CTag()
		x.CTag() // xdr:nvPicPr

		x.OTag("+xdr:blipFill")
		x.OTag("+a:blip").Attr("xmlns:r", "http://schemas.openxmlformats.org/officeDocument/2006/relationships").Attr("r:embed", rid).CTag()
		x.OTag("+a:stretch")
		x.OTag("+a:fillRect").CTag()
		x.CTag()
		x.CTag() // xdr:blipFill

		x.OTag("+xdr:spPr")
		writeTransform(x, "a:xfrm", img.anchor)
		x.OTag("+a:prstGeom").Attr("prst", "rect")
		x.OTag("+a:avLst").CTag()
		x.CTag()
		x.CTag() // xdr:spPr

		x.CTag() // xdr:pic
		x.OTag("+xdr:clientData").CTag()
		x.CTag() // xdr:twoCellAnchor
	}

	for _, ca := range sh.charts {
		w.lastChart++
		chartN := w.lastChart
		rid := rels.add(RelInfo{
			Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/chart",
			Target: fmt.Sprintf("../charts/chart%d.xml", chartN),
		})
		if err := w.writeChart(ca.chart, chartN); err != nil {
			return err
		}
		objID++
		from, to := sh.span(ca.anchor)

		x.OTag("+xdr:twoCellAnchor").Attr("editAs", "oneCell")
		writeAnchorCorners(x, from, to)

		x.OTag("+xdr:graphicFrame").Attr("macro", "")
		x.OTag("+xdr:nvGraphicFramePr")
		x.OTag("+xdr:cNvPr").Attr("id", objID).Attr("name", fmt.Sprintf("Chart %d", chartN))
		if ca.description != "" {
			x.Attr("descr", ca.description)
		}
		x.CTag()
		x.OTag("+xdr:cNvGraphicFramePr").CTag()
		x.CTag() // xdr:nvGraphicFramePr
		writeTransform(x, "xdr:xfrm", ca.anchor)
		x.OTag("+a:graphic")
		x.OTag("+a:graphicData").Attr("uri", "http://schemas.openxmlformats.org/drawingml/2006/chart")
		x.OTag("+c:chart")
		x.Attr("xmlns:c", "http://schemas.openxmlformats.org/drawingml/2006/chart")
		x.Attr("xmlns:r", "http://schemas.openxmlformats.org/officeDocument/2006/relationships")
		x.Attr("r:id", rid)
		x.CTag()
		x.CTag() // a:graphicData
		x.CTag() // a:graphic
		x.CTag() // xdr:graphicFrame
		x.OTag("+xdr:clientData").CTag()
		x.CTag() // xdr:twoCellAnchor
	}

	x.CTag() // xdr:wsDr

	if err := w.put(abspath, bb); err != nil {
		return err
	}
	return w.writeRels(fmt.Sprintf("/xl/drawings/_rels/drawing%d.xml.rels", n), rels.rels)
}

func writeAnchorCorners(x *xml.Writer, from, to cellPos) {
	for i, p := range []cellPos{from, to} {
		if i == 0 {
			x.OTag("+xdr:from")
		} else {
			x.OTag("+xdr:to")
		}
		x.OTag("+xdr:col").Write(p.col).CTag()
		x.OTag("+xdr:colOff").Write(p.dx * emuPerPixel).CTag()
		x.OTag("+xdr:row").Write(p.row).CTag()
		x.OTag("+xdr:rowOff").Write(p.dy * emuPerPixel).CTag()
		x.CTag()
	}
}

// writeTransform emits the absolute offset and extent of an object.
func writeTransform(x *xml.Writer, tag string, a anchor) {
	if tag == "xdr:xfrm" {
		x.OTag("+xdr:xfrm")
	} else {
		x.OTag("+a:xfrm")
	}
	x.OTag("+a:off").Attr("x", 0).Attr("y", 0).CTag()
	x.OTag("+a:ext").Attr("cx", a.width*emuPerPixel).Attr("cy", a.height*emuPerPixel).CTag()
	x.CTag()
}

func (w *Writer) writeChart(c *Chart, n int) error {
	abspath := fmt.Sprintf("/xl/charts/chart%d.xml", n)
	w.PartContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.drawingml.chart+xml"

	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)
	x := xml.NewWriter(bb, xmlConfig)
	x.XmlStandaloneDecl()

	x.OTag("c:chartSpace")
	x.Attr("xmlns:c", "http://schemas.openxmlformats.org/drawingml/2006/chart")
	x.Attr("xmlns:a", "http://schemas.openxmlformats.org/drawingml/2006/main")
	x.Attr("xmlns:r", "http://schemas.openxmlformats.org/officeDocument/2006/relationships")

	x.OTag("+c:roundedCorners").Attr("val", 0).CTag()
	x.OTag("+c:chart")
	if c.title != "" {
		writeChartTitle(x, c.title)
		x.OTag("+c:autoTitleDeleted").Attr("val", 0).CTag()
	}
	x.OTag("+c:plotArea")
	x.OTag("+c:layout").CTag()

	const catAxis, valAxis = 50010001, 50010002

	switch c.typ {
	case ChartColumn, ChartColumnStacked, ChartBar, ChartBarStacked:
		x.OTag("+c:barChart")
		if c.typ == ChartBar || c.typ == ChartBarStacked {
			x.OTag("+c:barDir").Attr("val", "bar").CTag()
		} else {
			x.OTag("+c:barDir").Attr("val", "col").CTag()
		}
		stacked := c.typ == ChartColumnStacked || c.typ == ChartBarStacked
		if stacked {
			x.OTag("+c:grouping").Attr("val", "stacked").CTag()
		} else {
			x.OTag("+c:grouping").Attr("val", "clustered").CTag()
		}
		x.OTag("+c:varyColors").Attr("val", 0).CTag()
		writeSeries(x, c, false)
		if stacked {
			x.OTag("+c:overlap").Attr("val", 100).CTag()
		}
		x.OTag("+c:axId").Attr("val", catAxis).CTag()
		x.OTag("+c:axId").Attr("val", valAxis).CTag()
		x.CTag()
	case ChartLine:
		x.OTag("+c:lineChart")
		x.OTag("+c:grouping").Attr("val", "standard").CTag()
		x.OTag("+c:varyColors").Attr("val", 0).CTag()
		writeSeries(x, c, false)
		x.OTag("+c:marker").Attr("val", 1).CTag()
		x.OTag("+c:axId").Attr("val", catAxis).CTag()
		x.OTag("+c:axId").Attr("val", valAxis).CTag()
		x.CTag()
	case ChartArea, ChartAreaStacked:
		x.OTag("+c:areaChart")
		if c.typ == ChartAreaStacked {
			x.OTag("+c:grouping").Attr("val", "stacked").CTag()
		} else {
			x.OTag("+c:grouping").Attr("val", "standard").CTag()
		}
		x.OTag("+c:varyColors").Attr("val", 0).CTag()
		writeSeries(x, c, false)
		x.OTag("+c:axId").Attr("val", catAxis).CTag()
		x.OTag("+c:axId").Attr("val", valAxis).CTag()
		x.CTag()
	case ChartPie:
		x.OTag("+c:pieChart")
		x.OTag("+c:varyColors").Attr("val", 1).CTag()
		writeSeries(x, c, false)
		x.OTag("+c:firstSliceAng").Attr("val", 0).CTag()
		x.CTag()
	case ChartDoughnut:
		x.OTag("+c:doughnutChart")
		x.OTag("+c:varyColors").Attr("val", 1).CTag()
		writeSeries(x, c, false)
		x.OTag("+c:firstSliceAng").Attr("val", 0).CTag()
		x.OTag("+c:holeSize").Attr("val", 50).CTag()
		x.CTag()
	case ChartScatter:
		x.OTag("+c:scatterChart")
		x.OTag("+c:scatterStyle").Attr("val", "lineMarker").CTag()
		x.OTag("+c:varyColors").Attr("val", 0).CTag()
		writeSeries(x, c, true)
		x.OTag("+c:axId").Attr("val", catAxis).CTag()
		x.OTag("+c:axId").Attr("val", valAxis).CTag()
		x.CTag()
	}

	if c.hasAxes() {
		horizontal := c.typ != ChartBar && c.typ != ChartBarStacked
		catPos, valPos := "b", "l"
		if !horizontal {
			catPos, valPos = "l", "b"
		}
		if c.typ == ChartScatter {
			writeValueAxis(x, catAxis, valAxis, catPos, c.xTitle, false)
		} else {
			x.OTag("+c:catAx")
			x.OTag("+c:axId").Attr("val", catAxis).CTag()
			x.OTag("+c:scaling")
			x.OTag("+c:orientation").Attr("val", "minMax").CTag()
			x.CTag()
			x.OTag("+c:delete").Attr("val", 0).CTag()
			x.OTag("+c:axPos").Attr("val", catPos).CTag()
			if c.xTitle != "" {
				writeChartTitle(x, c.xTitle)
			}
			x.OTag("+c:numFmt").Attr("formatCode", "General").Attr("sourceLinked", 1).CTag()
			x.OTag("+c:tickLblPos").Attr("val", "nextTo").CTag()
			x.OTag("+c:crossAx").Attr("val", valAxis).CTag()
			x.OTag("+c:crosses").Attr("val", "autoZero").CTag()
			x.OTag("+c:auto").Attr("val", 1).CTag()
			x.OTag("+c:lblAlgn").Attr("val", "ctr").CTag()
			x.OTag("+c:lblOffset").Attr("val", 100).CTag()
			x.CTag()
		}
		writeValueAxis(x, valAxis, catAxis, valPos, c.yTitle, true)
	}
	x.CTag() // c:plotArea

	if pos, ok := legendPositions[c.legend]; ok {
		x.OTag("+c:legend")
		x.OTag("+c:legendPos").Attr("val", pos).CTag()
		x.OTag("+c:overlay").Attr("val", 0).CTag()
		x.CTag()
	}
	x.OTag("+c:plotVisOnly").Attr("val", 1).CTag()
	x.OTag("+c:dispBlanksAs").Attr("val", "gap").CTag()
	x.CTag() // c:chart

	x.CTag() // c:chartSpace

	return w.put(abspath, bb)
}

func writeValueAxis(x *xml.Writer, id, cross int, pos, title string, gridlines bool) {
	x.OTag("+c:valAx")
	x.OTag("+c:axId").Attr("val", id).CTag()
	x.OTag("+c:scaling")
	x.OTag("+c:orientation").Attr("val", "minMax").CTag()
	x.CTag()
	x.OTag("+c:delete").Attr("val", 0).CTag()
	x.OTag("+c:axPos").Attr("val", pos).CTag()
	if gridlines {
		x.OTag("+c:majorGridlines").CTag()
	}
	if title != "" {
		writeChartTitle(x, title)
	}
	x.OTag("+c:numFmt").Attr("formatCode", "General").Attr("sourceLinked", 1).CTag()
	x.OTag("+c:tickLblPos").Attr("val", "nextTo").CTag()
	x.OTag("+c:crossAx").Attr("val", cross).CTag()
	x.OTag("+c:crosses").Attr("val", "autoZero").CTag()
	x.OTag("+c:crossBetween").Attr("val", "between").CTag()
	x.CTag()
}

func writeChartTitle(x *xml.Writer, title string) {
	x.OTag("+c:title")
	x.OTag("+c:tx")
	x.OTag("+c:rich")
	x.OTag("+a:bodyPr").CTag()
	x.OTag("+a:lstStyle").CTag()
	x.OTag("+a:p")
	x.OTag("+a:r")
	x.OTag("a:t").Write(title).CTag()
	x.CTag()
	x.CTag()
	x.CTag() // c:rich
	x.CTag() // c:tx
	x.OTag("+c:overlay").Attr("val", 0).CTag()
	x.CTag()
}

// writeSeries emits the series of c. Scatter series use x/y values instead
// of categories.
func writeSeries(x *xml.Writer, c *Chart, scatter bool) {
	for i, s := range c.series {
		x.OTag("+c:ser")
		x.OTag("+c:idx").Attr("val", i).CTag()
		x.OTag("+c:order").Attr("val", i).CTag()
		if s.Name != "" {
			x.OTag("+c:tx")
			if ref, ok := strings.CutPrefix(s.Name, "="); ok {
				x.OTag("+c:strRef")
				x.OTag("c:f").Write(ref).CTag()
				x.CTag()
			} else {
				x.OTag("c:v").Write(s.Name).CTag()
			}
			x.CTag()
		}
		if !s.Color.IsAuto() {
			x.OTag("+c:spPr")
			x.OTag("+a:solidFill")
			x.OTag("a:srgbClr").Attr("val", s.Color.ARGB()[2:]).CTag()
			x.CTag()
			x.CTag()
		}
		if scatter {
			if s.Categories != "" {
				x.OTag("+c:xVal")
				x.OTag("+c:numRef")
				x.OTag("c:f").Write(s.Categories).CTag()
				x.CTag()
				x.CTag()
			}
			x.OTag("+c:yVal")
		} else {
			if s.Categories != "" {
				x.OTag("+c:cat")
				x.OTag("+c:strRef")
				x.OTag("c:f").Write(s.Categories).CTag()
				x.CTag()
				x.CTag()
			}
			x.OTag("+c:val")
		}
		x.OTag("+c:numRef")
		x.OTag("c:f").Write(s.Values).CTag()
		x.CTag()
		x.CTag() // c:val or c:yVal
		if scatter {
			x.OTag("+c:smooth").Attr("val", 0).CTag()
		}
		x.CTag() // c:ser
	}
}

func (w *Writer) writeTable(t *Table) error {
	abspath := fmt.Sprintf("/xl/tables/table%d.xml", t.id)
	w.PartContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.table+xml"

	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)
	x := xml.NewWriter(bb, xmlConfig)
	x.XmlStandaloneDecl()

	x.OTag("table")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	x.Attr("id", t.id)
	x.Attr("name", t.name)
	x.Attr("displayName", t.name)
	x.Attr("ref", t.ref.String())
	if t.opts.NoHeaderRow {
		x.Attr("headerRowCount", 0)
	}
	if t.opts.TotalRow {
		x.Attr("totalsRowCount", 1)
	} else {
		x.Attr("totalsRowShown", 0)
	}

	if t.autofilter() {
		x.OTag("+autoFilter").Attr("ref", t.filterRange().String()).CTag()
	}

	x.OTag("+tableColumns").Attr("count", len(t.columns))
	for i, c := range t.columns {
		x.OTag("+tableColumn").Attr("id", i+1).Attr("name", c.Header)
		if t.opts.TotalRow {
			switch {
			case c.TotalLabel != "":
				x.Attr("totalsRowLabel", c.TotalLabel)
			case c.TotalFunction != TotalNone:
				x.Attr("totalsRowFunction", string(c.TotalFunction))
			}
		}
		if c.Format != nil {
			if id, ok := w.styles.dxf[c.Format.id]; ok {
				x.Attr("dataDxfId", id)
			}
		}
		if c.Formula != "" {
			f, _ := prepareFormula(t.calculated(c.Formula))
			x.OTag("+calculatedColumnFormula").Write(f).CTag()
		}
		x.CTag()
	}
	x.CTag()

	if name := t.styleName(); name != "" {
		x.OTag("+tableStyleInfo").Attr("name", name)
	} else {
		x.OTag("+tableStyleInfo")
	}
	x.Attr("showFirstColumn", boolDigit(t.opts.FirstColumn))
	x.Attr("showLastColumn", boolDigit(t.opts.LastColumn))
	x.Attr("showRowStripes", boolDigit(!t.opts.NoBandedRows))
	x.Attr("showColumnStripes", boolDigit(t.opts.BandedColumns))
	x.CTag()

	x.CTag() // table

	return w.put(abspath, bb)
}
