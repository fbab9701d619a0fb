package xl

import (
	"fmt"
	"slices"
	"strings"

	"github.com/adnsv/srw/xml"
	"github.com/valyala/bytebufferpool"
	"golang.org/x/exp/maps"
)

type hyperlinkRef struct {
	ref string
	url URL
}

func (w *Writer) writeSheet(wb *Workbook, sh *Sheet, sheetID int, rid string) error {
	relpath := fmt.Sprintf("worksheets/sheet%d.xml", sheetID)
	abspath := "/xl/" + relpath

	w.PartContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"
	w.WorkbookRels[rid] = RelInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet",
		Target: relpath,
	}

	rels := newRelSet()

	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)
	x := xml.NewWriter(bb, xmlConfig)
	x.XmlStandaloneDecl()

	x.OTag("worksheet")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	x.Attr("xmlns:r", "http://schemas.openxmlformats.org/officeDocument/2006/relationships")

	writeSheetPr(x, sh)

	dim := "A1"
	if d, ok := sh.Dimension(); ok {
		dim = d.String()
	}
	x.OTag("+dimension").Attr("ref", dim).CTag()

	writeSheetView(x, wb, sh)
	writeSheetFormat(x, sh)
	writeColumns(x, sh)

	links, err := w.writeSheetData(x, wb, sh)
	if err != nil {
		return err
	}

	if p := sh.protection; p != nil {
		writeProtection(x, p)
	}

	if sh.autoFilter != nil {
		x.OTag("+autoFilter").Attr("ref", sh.autoFilter.String()).CTag()
	}

	if len(sh.merges) > 0 {
		x.OTag("+mergeCells").Attr("count", len(sh.merges))
		for _, m := range sh.merges {
			x.OTag("+mergeCell").Attr("ref", m.String()).CTag()
		}
		x.CTag()
	}

	dataBars := w.writeConditionalFormats(x, sh)
	writeDataValidations(x, sh)

	if len(links) > 0 {
		x.OTag("+hyperlinks")
		for _, l := range links {
			x.OTag("+hyperlink").Attr("ref", l.ref)
			if l.url.internal() {
				x.Attr("location", l.url.location())
				x.Attr("display", l.url.display())
			} else {
				lid := rels.add(RelInfo{
					Type:       "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink",
					Target:     l.url.external(),
					TargetMode: "External",
				})
				x.Attr("r:id", lid)
			}
			if l.url.Tip != "" {
				x.Attr("tooltip", l.url.Tip)
			}
			x.CTag()
		}
		x.CTag()
	}

	writePageSetup(x, sh)

	if len(sh.images) > 0 || len(sh.charts) > 0 {
		w.lastDrawing++
		n := w.lastDrawing
		did := rels.add(RelInfo{
			Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/drawing",
			Target: fmt.Sprintf("../drawings/drawing%d.xml", n),
		})
		if err := w.writeDrawing(sh, n); err != nil {
			return err
		}
		x.OTag("+drawing").Attr("r:id", did).CTag()
	}

	if len(sh.comments) > 0 {
		vid, err := w.writeComments(sh, rels)
		if err != nil {
			return err
		}
		x.OTag("+legacyDrawing").Attr("r:id", vid).CTag()
	}

	if len(sh.tables) > 0 {
		x.OTag("+tableParts").Attr("count", len(sh.tables))
		for _, t := range sh.tables {
			tid := rels.add(RelInfo{
				Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/table",
				Target: fmt.Sprintf("../tables/table%d.xml", t.id),
			})
			if err := w.writeTable(t); err != nil {
				return err
			}
			x.OTag("+tablePart").Attr("r:id", tid).CTag()
		}
		x.CTag()
	}

	if len(dataBars) > 0 {
		writeDataBarExtensions(x, dataBars)
	}

	x.CTag() // worksheet

	if err := w.put(abspath, bb); err != nil {
		return err
	}
	if len(rels.rels) > 0 {
		return w.writeRels(fmt.Sprintf("/xl/worksheets/_rels/sheet%d.xml.rels", sheetID), rels.rels)
	}
	return nil
}

func writeSheetPr(x *xml.Writer, sh *Sheet) {
	o := sh.outline
	outlineCustom := !o.visible || !o.symbolsBelow || !o.symbolsRight || o.autoStyle
	if sh.vbaName == "" && sh.tabColor.IsAuto() && !outlineCustom && !sh.page.fitToPage {
		return
	}
	x.OTag("+sheetPr")
	if sh.vbaName != "" {
		x.Attr("codeName", sh.vbaName)
	}
	if !sh.tabColor.IsAuto() {
		x.OTag("+tabColor").Attr("rgb", sh.tabColor.ARGB()).CTag()
	}
	if outlineCustom {
		x.OTag("+outlinePr")
		if o.autoStyle {
			x.Attr("applyStyles", 1)
		}
		if !o.symbolsBelow {
			x.Attr("summaryBelow", 0)
		}
		if !o.symbolsRight {
			x.Attr("summaryRight", 0)
		}
		if !o.visible {
			x.Attr("showOutlineSymbols", 0)
		}
		x.CTag()
	}
	if sh.page.fitToPage {
		x.OTag("+pageSetUpPr").Attr("fitToPage", 1).CTag()
	}
	x.CTag()
}

var pageViewNames = map[PageView]string{
	PageViewPageLayout:       "pageLayout",
	PageViewPageBreakPreview: "pageBreakPreview",
}

func writeSheetView(x *xml.Writer, wb *Workbook, sh *Sheet) {
	v := sh.view
	x.OTag("+sheetViews")
	x.OTag("+sheetView")
	if sh.selected || sh.index == wb.activeSheet {
		x.Attr("tabSelected", 1)
	}
	if !v.gridlines {
		x.Attr("showGridLines", 0)
	}
	if v.hideZero {
		x.Attr("showZeros", 0)
	}
	if v.rightToLeft {
		x.Attr("rightToLeft", 1)
	}
	if name, ok := pageViewNames[v.pageView]; ok {
		x.Attr("view", name)
	}
	if v.zoom != 100 {
		x.Attr("zoomScale", v.zoom)
		if v.pageView == PageViewNormal {
			x.Attr("zoomScaleNormal", v.zoom)
		}
	}
	x.Attr("workbookViewId", 0)

	activePane := ""
	if p := v.pane; p != nil {
		x.OTag("+pane")
		switch p.kind {
		case paneFrozen:
			if p.col > 0 {
				x.Attr("xSplit", p.col)
			}
			if p.row > 0 {
				x.Attr("ySplit", p.row)
			}
			activePane = paneName(p.row > 0, p.col > 0)
		case paneSplit:
			if p.x > 0 {
				x.Attr("xSplit", fmtFloat(p.x))
			}
			if p.y > 0 {
				x.Attr("ySplit", fmtFloat(p.y))
			}
			activePane = paneName(p.y > 0, p.x > 0)
		}
		x.Attr("topLeftCell", CellName(p.top, p.left))
		x.Attr("activePane", activePane)
		if p.kind == paneFrozen {
			x.Attr("state", "frozen")
		}
		x.CTag()
	}
	if activePane != "" || v.selection != nil {
		x.OTag("+selection")
		if activePane != "" {
			x.Attr("pane", activePane)
		}
		if sel := v.selection; sel != nil {
			x.Attr("activeCell", CellName(sel.FirstRow, sel.FirstCol))
			x.Attr("sqref", RangeOf(sel.FirstRow, sel.FirstCol, sel.LastRow, sel.LastCol).String())
		}
		x.CTag()
	}

	x.CTag() // sheetView
	x.CTag() // sheetViews
}

func paneName(rows, cols bool) string {
	switch {
	case rows && cols:
		return "bottomRight"
	case rows:
		return "bottomLeft"
	}
	return "topRight"
}

func writeSheetFormat(x *xml.Writer, sh *Sheet) {
	levelRow, levelCol := 0, 0
	for _, r := range sh.rows {
		levelRow = max(levelRow, r.level)
	}
	for _, c := range sh.columns {
		levelCol = max(levelCol, c.Level)
	}
	h := sh.defaultRowHeight
	if h == 0 {
		h = DefaultRowHeight
	}
	x.OTag("+sheetFormatPr").Attr("defaultRowHeight", fmtFloat(h))
	if h != DefaultRowHeight {
		x.Attr("customHeight", 1)
	}
	if sh.hideUnusedRows {
		x.Attr("zeroHeight", 1)
	}
	if levelRow > 0 {
		x.Attr("outlineLevelRow", levelRow)
	}
	if levelCol > 0 {
		x.Attr("outlineLevelCol", levelCol)
	}
	x.CTag()
}

// writeColumns emits <cols>, joining adjacent columns with equal settings.
func writeColumns(x *xml.Writer, sh *Sheet) {
	if len(sh.columns) == 0 {
		return
	}
	keys := maps.Keys(sh.columns)
	slices.Sort(keys)

	x.OTag("+cols")
	for i := 0; i < len(keys); {
		first := keys[i]
		c := *sh.columns[first]
		j := i + 1
		for j < len(keys) && keys[j] == keys[j-1]+1 && *sh.columns[keys[j]] == c {
			j++
		}
		last := keys[j-1]
		x.OTag("+col").Attr("min", first+1).Attr("max", last+1)
		if c.Width > 0 {
			x.Attr("width", fmtFloat(c.Width)).Attr("customWidth", 1)
		} else {
			x.Attr("width", fmtFloat(DefaultColumnWidth))
		}
		if c.Format != nil {
			x.Attr("style", c.Format.id)
		}
		if c.Hidden {
			x.Attr("hidden", 1)
		}
		if c.Level > 0 {
			x.Attr("outlineLevel", c.Level)
		}
		if c.Collapsed {
			x.Attr("collapsed", 1)
		}
		x.CTag()
		i = j
	}
	x.CTag()
}

// writeSheetData emits rows and cells in ascending order and returns the
// hyperlinks found on the way.
func (w *Writer) writeSheetData(x *xml.Writer, wb *Workbook, sh *Sheet) ([]hyperlinkRef, error) {
	var links []hyperlinkRef

	rows := maps.Keys(sh.rows)
	slices.Sort(rows)

	x.OTag("+sheetData")
	for _, rn := range rows {
		row := sh.rows[rn]
		x.OTag("+row").Attr("r", rn+1)
		if row.format != nil {
			x.Attr("s", row.format.id).Attr("customFormat", 1)
		}
		if row.height > 0 {
			x.Attr("ht", fmtFloat(row.height)).Attr("customHeight", 1)
		}
		if row.hidden {
			x.Attr("hidden", 1)
		}
		if row.level > 0 {
			x.Attr("outlineLevel", row.level)
		}
		if row.collapsed {
			x.Attr("collapsed", 1)
		}

		cols := maps.Keys(row.cells)
		slices.Sort(cols)
		for _, cn := range cols {
			cell := row.cells[cn]
			ref := CellName(rn, cn)
			if err := w.writeCell(x, wb, ref, cell); err != nil {
				return nil, fmt.Errorf("%s!%s: %w", sh.name, ref, err)
			}
			if u, ok := cell.value.(URL); ok {
				links = append(links, hyperlinkRef{ref: ref, url: u})
			}
		}

		x.CTag() // row
	}
	x.CTag() // sheetData

	return links, nil
}

func (w *Writer) writeCell(x *xml.Writer, wb *Workbook, ref string, cell *Cell) error {
	x.OTag("+c").Attr("r", ref)
	if cell.format != nil && cell.format.id > 0 {
		x.Attr("s", cell.format.id)
	}

	switch v := cell.value.(type) {
	case Blank:
	case Number:
		x.Attr("t", "n")
		x.OTag("v").Write(fmtFloat(float64(v))).CTag()
	case Bool:
		x.Attr("t", "b")
		x.OTag("v").Write(boolDigit(bool(v))).CTag()
	case String, RichString, URL:
		w.sstRefs++
		x.Attr("t", "s")
		x.OTag("v").Write(cell.sid).CTag()
	case DateTime:
		x.OTag("v").Write(fmtFloat(v.serial(wb.opts.Date1904))).CTag()
	case Formula:
		expr, err := prepareFormula(v.Expr)
		if err != nil {
			return err
		}
		writeResultType(x, v.Result)
		x.OTag("f").Write(expr).CTag()
		writeResult(x, v.Result)
	case ArrayFormula:
		expr, err := prepareFormula(v.Expr)
		if err != nil {
			return err
		}
		writeResultType(x, v.Result)
		x.OTag("f").Attr("t", "array").Attr("ref", v.Range.String()).Write(expr).CTag()
		writeResult(x, v.Result)
	case embeddedPicture:
		info, err := w.addPicture(v.PictureInfo)
		if err != nil {
			return err
		}
		x.Attr("t", "e").Attr("vm", info.IId+1)
		x.OTag("v").Write("#VALUE!").CTag()
	default:
		return fmt.Errorf("unsupported value %T: %w", v, ErrInvalidNumber)
	}

	x.CTag() // c
	return nil
}

func boolDigit(b bool) int {
	if b {
		return 1
	}
	return 0
}

func writeResultType(x *xml.Writer, r any) {
	switch r.(type) {
	case string:
		x.Attr("t", "str")
	case bool:
		x.Attr("t", "b")
	}
}

func writeResult(x *xml.Writer, r any) {
	switch r := r.(type) {
	case float64:
		x.OTag("v").Write(fmtFloat(r)).CTag()
	case string:
		x.OTag("v").Write(escapeControl(r)).CTag()
	case bool:
		x.OTag("v").Write(boolDigit(r)).CTag()
	}
}

// addPicture registers an in-cell picture for the rich value parts.
func (w *Writer) addPicture(p *PictureInfo) (*MediaInfo, error) {
	if p == nil || len(p.Blob) == 0 {
		return nil, fmt.Errorf("empty picture data: %w", ErrInvalidImage)
	}
	ext := strings.TrimPrefix(strings.ToLower(p.Extension), ".")
	if ext == "jpg" {
		ext = "jpeg"
	}
	switch ext {
	case "png", "jpeg", "gif":
	default:
		return nil, fmt.Errorf("unsupported image extension %s: %w", p.Extension, ErrInvalidImage)
	}
	n := mediaName(p.Blob, ext)
	if info, ok := w.mediaMap[n]; ok {
		return info, nil
	}
	if _, err := w.addMedia(p.Blob, ext); err != nil {
		return nil, err
	}
	_, rid := w.nextRichDataID()
	info := &MediaInfo{
		Name: n,
		Blob: p.Blob,
		IId:  len(w.media),
		RId:  rid,
	}
	w.mediaMap[n] = info
	w.media = append(w.media, info)
	w.RichDataRels[rid] = RelInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image",
		Target: "../media/" + n,
	}
	return info, nil
}

// writeProtection emits sheetProtection. Its attributes name what is
// locked, so allowed actions are written as 0.
func writeProtection(x *xml.Writer, p *sheetProtection) {
	x.OTag("+sheetProtection")
	if p.hash != "" {
		x.Attr("password", p.hash)
	}
	x.Attr("sheet", 1)
	if !p.Objects {
		x.Attr("objects", 1)
	}
	if !p.Scenarios {
		x.Attr("scenarios", 1)
	}
	for _, a := range []struct {
		name    xml.NameString
		allowed bool
	}{
		{"formatCells", p.FormatCells},
		{"formatColumns", p.FormatColumns},
		{"formatRows", p.FormatRows},
		{"insertColumns", p.InsertColumns},
		{"insertRows", p.InsertRows},
		{"insertHyperlinks", p.InsertHyperlinks},
		{"deleteColumns", p.DeleteColumns},
		{"deleteRows", p.DeleteRows},
	} {
		if a.allowed {
			x.Attr(a.name, 0)
		}
	}
	if p.NoSelectLockedCells {
		x.Attr("selectLockedCells", 1)
	}
	if p.Sort {
		x.Attr("sort", 0)
	}
	if p.Autofilter {
		x.Attr("autoFilter", 0)
	}
	if p.PivotTables {
		x.Attr("pivotTables", 0)
	}
	if p.NoSelectUnlockedCells {
		x.Attr("selectUnlockedCells", 1)
	}
	x.CTag()
}

func writePageSetup(x *xml.Writer, sh *Sheet) {
	p := sh.page

	if p.centerH || p.centerV || p.printHeadings || p.printGridlines {
		x.OTag("+printOptions")
		if p.centerH {
			x.Attr("horizontalCentered", 1)
		}
		if p.centerV {
			x.Attr("verticalCentered", 1)
		}
		if p.printHeadings {
			x.Attr("headings", 1)
		}
		if p.printGridlines {
			x.Attr("gridLines", 1)
		}
		x.CTag()
	}

	m := p.margins
	x.OTag("+pageMargins")
	x.Attr("left", fmtFloat(m.Left)).Attr("right", fmtFloat(m.Right))
	x.Attr("top", fmtFloat(m.Top)).Attr("bottom", fmtFloat(m.Bottom))
	x.Attr("header", fmtFloat(m.Header)).Attr("footer", fmtFloat(m.Footer))
	x.CTag()

	if p.custom() {
		x.OTag("+pageSetup")
		if p.paper != PaperDefault {
			x.Attr("paperSize", int(p.paper))
		}
		if p.scale != 100 {
			x.Attr("scale", p.scale)
		}
		if p.firstPage > 0 {
			x.Attr("firstPageNumber", p.firstPage)
		}
		if p.fitToPage {
			x.Attr("fitToWidth", p.fitWidth).Attr("fitToHeight", p.fitHeight)
		}
		if p.printAcross {
			x.Attr("pageOrder", "overThenDown")
		}
		if p.landscape {
			x.Attr("orientation", "landscape")
		} else {
			x.Attr("orientation", "portrait")
		}
		if p.firstPage > 0 {
			x.Attr("useFirstPageNumber", 1)
		}
		x.CTag()
	}

	if p.header != "" || p.footer != "" {
		x.OTag("+headerFooter")
		if p.header != "" {
			x.OTag("+oddHeader").Write(p.header).CTag()
		}
		if p.footer != "" {
			x.OTag("+oddFooter").Write(p.footer).CTag()
		}
		x.CTag()
	}

	if len(sh.rowBreaks) > 0 {
		x.OTag("+rowBreaks").Attr("count", len(sh.rowBreaks)).Attr("manualBreakCount", len(sh.rowBreaks))
		for _, b := range sh.rowBreaks {
			x.OTag("+brk").Attr("id", b).Attr("max", MaxColumns-1).Attr("man", 1).CTag()
		}
		x.CTag()
	}
	if len(sh.colBreaks) > 0 {
		x.OTag("+colBreaks").Attr("count", len(sh.colBreaks)).Attr("manualBreakCount", len(sh.colBreaks))
		for _, b := range sh.colBreaks {
			x.OTag("+brk").Attr("id", b).Attr("max", MaxRows-1).Attr("man", 1).CTag()
		}
		x.CTag()
	}
}
