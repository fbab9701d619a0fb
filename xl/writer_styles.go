package xl

import (
	"github.com/adnsv/srw/xml"
	"github.com/valyala/bytebufferpool"
)

// styleTables are the deduplicated component tables of styles.xml.
type styleTables struct {
	fonts   *table[Font]
	fills   *table[Fill]
	borders *table[Border]

	numFmts   map[string]int // custom code -> id
	numFmtIDs []string       // custom codes in id order

	xfs  []xfEntry // indexed by Format id
	dxfs []Style
	dxf  map[int]int // Format id -> dxf index
}

type xfEntry struct {
	font, fill, border, numFmt int
	style                      Style
}

func buildStyles(wb *Workbook) *styleTables {
	t := &styleTables{
		fonts:   newTable[Font](),
		fills:   newTable[Fill](),
		borders: newTable[Border](),
		numFmts: map[string]int{},
		dxf:     map[int]int{},
	}
	t.fonts.intern(Font{})
	t.fills.intern(Fill{})
	t.fills.intern(Fill{Pattern: PatternGray125})
	t.borders.intern(Border{})

	for _, f := range wb.formatList {
		s := f.style
		fill := normalizeFill(s.Fill)
		e := xfEntry{style: s, numFmt: t.numFmt(s.NumFmt)}
		e.font, _ = t.fonts.intern(s.Font)
		e.fill, _ = t.fills.intern(fill)
		e.border, _ = t.borders.intern(s.Border)
		t.xfs = append(t.xfs, e)
	}

	for _, sh := range wb.sheets {
		for _, e := range sh.conditional {
			if usesDxf(e.cf.Rule) {
				t.addDxf(e.cf.Format)
			}
		}
		for _, tb := range sh.tables {
			for _, c := range tb.columns {
				t.addDxf(c.Format)
			}
		}
	}
	return t
}

// addDxf registers f as a differential format.
func (t *styleTables) addDxf(f *Format) {
	if f == nil {
		return
	}
	if _, ok := t.dxf[f.id]; ok {
		return
	}
	t.dxf[f.id] = len(t.dxfs)
	t.dxfs = append(t.dxfs, f.style)
	t.numFmt(f.style.NumFmt)
}

// numFmt returns the id of a number format code, registering custom codes.
func (t *styleTables) numFmt(code string) int {
	if id, ok := builtinNumFmtID(code); ok {
		return id
	}
	if id, ok := t.numFmts[code]; ok {
		return id
	}
	id := firstCustomNumFmt + len(t.numFmtIDs)
	t.numFmts[code] = id
	t.numFmtIDs = append(t.numFmtIDs, code)
	return id
}

// normalizeFill treats a colored fill without a pattern as solid.
func normalizeFill(f Fill) Fill {
	if f.Pattern == PatternNone && !f.FgColor.IsAuto() {
		f.Pattern = PatternSolid
	}
	if f.Pattern == PatternNone {
		return Fill{}
	}
	return f
}

func usesDxf(r Rule) bool {
	switch r.(type) {
	case TwoColorScaleRule, ThreeColorScaleRule, DataBarRule, IconSetRule:
		return false
	}
	return true
}

func (w *Writer) writeStyles() error {
	_, rid := w.nextWorkbookID()

	relpath := "styles.xml"
	abspath := "/xl/" + relpath

	w.PartContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"
	w.WorkbookRels[rid] = RelInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles",
		Target: relpath,
	}

	t := w.styles

	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)
	x := xml.NewWriter(bb, xmlConfig)
	x.XmlStandaloneDecl()

	x.OTag("styleSheet")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")

	if len(t.numFmtIDs) > 0 {
		x.OTag("+numFmts").Attr("count", len(t.numFmtIDs))
		for i, code := range t.numFmtIDs {
			x.OTag("+numFmt").Attr("numFmtId", firstCustomNumFmt+i).Attr("formatCode", code).CTag()
		}
		x.CTag()
	}

	x.OTag("+fonts").Attr("count", t.fonts.len())
	for _, f := range t.fonts.items {
		writeFont(x, f, false)
	}
	x.CTag()

	x.OTag("+fills").Attr("count", t.fills.len())
	for _, f := range t.fills.items {
		writeFill(x, f, false)
	}
	x.CTag()

	x.OTag("+borders").Attr("count", t.borders.len())
	for _, b := range t.borders.items {
		writeBorder(x, b)
	}
	x.CTag()

	x.OTag("+cellStyleXfs").Attr("count", 1)
	x.OTag("+xf").Attr("numFmtId", 0).Attr("fontId", 0).Attr("fillId", 0).Attr("borderId", 0).CTag()
	x.CTag()

	x.OTag("+cellXfs").Attr("count", len(t.xfs))
	for _, e := range t.xfs {
		x.OTag("+xf")
		x.Attr("numFmtId", e.numFmt).Attr("fontId", e.font).Attr("fillId", e.fill).Attr("borderId", e.border).Attr("xfId", 0)
		if e.numFmt > 0 {
			x.Attr("applyNumberFormat", 1)
		}
		if e.font > 0 {
			x.Attr("applyFont", 1)
		}
		if e.fill > 0 {
			x.Attr("applyFill", 1)
		}
		if e.border > 0 {
			x.Attr("applyBorder", 1)
		}
		if e.style.hasAlignment() {
			x.Attr("applyAlignment", 1)
		}
		if e.style.hasProtection() {
			x.Attr("applyProtection", 1)
		}
		if e.style.hasAlignment() {
			writeAlignment(x, e.style.Alignment)
		}
		if e.style.hasProtection() {
			x.OTag("+protection")
			if e.style.Protection.Unlocked {
				x.Attr("locked", 0)
			}
			if e.style.Protection.Hidden {
				x.Attr("hidden", 1)
			}
			x.CTag()
		}
		x.CTag()
	}
	x.CTag()

	x.OTag("+cellStyles").Attr("count", 1)
	x.OTag("+cellStyle").Attr("name", "Normal").Attr("xfId", 0).Attr("builtinId", 0).CTag()
	x.CTag()

	x.OTag("+dxfs").Attr("count", len(t.dxfs))
	for _, s := range t.dxfs {
		x.OTag("+dxf")
		if !s.Font.IsDefault() {
			writeFont(x, s.Font, true)
		}
		if s.NumFmt != "" {
			x.OTag("+numFmt").Attr("numFmtId", t.numFmt(s.NumFmt)).Attr("formatCode", s.NumFmt).CTag()
		}
		if fill := normalizeFill(s.Fill); fill != (Fill{}) {
			writeFill(x, fill, true)
		}
		if s.hasAlignment() {
			writeAlignment(x, s.Alignment)
		}
		if s.Border != (Border{}) {
			writeBorder(x, s.Border)
		}
		x.CTag()
	}
	x.CTag()

	x.OTag("+tableStyles").Attr("count", 0).Attr("defaultTableStyle", "TableStyleMedium9").Attr("defaultPivotStyle", "PivotStyleLight16").CTag()

	x.CTag()

	return w.put(abspath, bb)
}

// writeColor emits a color element; auto colors use the theme text color.
func writeColor(x *xml.Writer, c Color) {
	x.OTag("color")
	if c.IsAuto() {
		x.Attr("theme", 1)
	} else {
		x.Attr("rgb", c.ARGB())
	}
	x.CTag()
}

// writeFont emits a font. Differential fonts carry only the changed
// attributes.
func writeFont(x *xml.Writer, f Font, dxf bool) {
	x.OTag("+font")
	if f.Bold {
		x.OTag("b").CTag()
	}
	if f.Italic {
		x.OTag("i").CTag()
	}
	if f.Strikethrough {
		x.OTag("strike").CTag()
	}
	switch f.Underline {
	case UnderlineNone:
	case UnderlineSingle:
		x.OTag("u").CTag()
	default:
		x.OTag("u").Attr("val", string(f.Underline)).CTag()
	}
	if f.Script != ScriptNone {
		x.OTag("vertAlign").Attr("val", string(f.Script)).CTag()
	}
	if dxf {
		if !f.Color.IsAuto() {
			writeColor(x, f.Color)
		}
		x.CTag()
		return
	}
	x.OTag("sz").Attr("val", fmtFloat(f.size())).CTag()
	writeColor(x, f.Color)
	x.OTag("name").Attr("val", f.name()).CTag()
	x.OTag("family").Attr("val", 2).CTag()
	if f.name() == defaultFontName {
		x.OTag("scheme").Attr("val", "minor").CTag()
	}
	x.CTag()
}

// writeFill emits a pattern fill. Differential solid fills put the color in
// bgColor.
func writeFill(x *xml.Writer, f Fill, dxf bool) {
	x.OTag("+fill")
	x.OTag("patternFill")
	if f.Pattern == PatternNone {
		x.Attr("patternType", "none")
		x.CTag()
		x.CTag()
		return
	}
	if !(dxf && f.Pattern == PatternSolid) {
		x.Attr("patternType", string(f.Pattern))
	}
	if dxf && f.Pattern == PatternSolid {
		x.OTag("bgColor").Attr("rgb", f.FgColor.ARGB()).CTag()
	} else {
		if !f.FgColor.IsAuto() {
			x.OTag("fgColor").Attr("rgb", f.FgColor.ARGB()).CTag()
		}
		if !f.BgColor.IsAuto() {
			x.OTag("bgColor").Attr("rgb", f.BgColor.ARGB()).CTag()
		} else {
			x.OTag("bgColor").Attr("indexed", 64).CTag()
		}
	}
	x.CTag()
	x.CTag()
}

func writeBorder(x *xml.Writer, b Border) {
	x.OTag("+border")
	if b.DiagonalUp {
		x.Attr("diagonalUp", 1)
	}
	if b.DiagonalDown {
		x.Attr("diagonalDown", 1)
	}
	line := func(l BorderLine) {
		if l.Style == BorderNone {
			x.CTag()
			return
		}
		x.Attr("style", string(l.Style))
		x.OTag("color")
		if l.Color.IsAuto() {
			x.Attr("auto", 1)
		} else {
			x.Attr("rgb", l.Color.ARGB())
		}
		x.CTag()
		x.CTag()
	}
	x.OTag("left")
	line(b.Left)
	x.OTag("right")
	line(b.Right)
	x.OTag("top")
	line(b.Top)
	x.OTag("bottom")
	line(b.Bottom)
	x.OTag("diagonal")
	line(b.Diagonal)
	x.CTag()
}

func writeAlignment(x *xml.Writer, a Alignment) {
	x.OTag("alignment")
	if a.Horizontal != HAlignGeneral {
		x.Attr("horizontal", string(a.Horizontal))
	}
	if a.Vertical != VAlignBottom {
		x.Attr("vertical", string(a.Vertical))
	}
	if a.Rotation != 0 {
		x.Attr("textRotation", a.textRotation())
	}
	if a.WrapText {
		x.Attr("wrapText", 1)
	}
	if a.Indent > 0 {
		x.Attr("indent", a.Indent)
	}
	if a.ShrinkToFit {
		x.Attr("shrinkToFit", 1)
	}
	x.CTag()
}
