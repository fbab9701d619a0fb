package xl

import (
	"fmt"
	"strings"

	"github.com/adnsv/srw/xml"
	"github.com/valyala/bytebufferpool"
)

func (w *Writer) writeSharedStrings(wb *Workbook) error {
	_, rid := w.nextWorkbookID()

	relpath := "sharedStrings.xml"
	abspath := "/xl/" + relpath

	w.PartContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml"
	w.WorkbookRels[rid] = RelInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/sharedStrings",
		Target: relpath,
	}

	sst := wb.sst

	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)
	x := xml.NewWriter(bb, xmlConfig)
	x.XmlStandaloneDecl()

	x.OTag("sst")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	x.Attr("count", w.sstRefs)
	x.Attr("uniqueCount", sst.len())

	for id := 0; id < sst.len(); id++ {
		x.OTag("+si")
		if runs, ok := sst.runs[id]; ok {
			for _, run := range runs {
				x.OTag("+r")
				if run.Format != nil {
					writeRunProperties(x, run.Format.style.Font)
				}
				writeText(x, run.Text)
				x.CTag()
			}
		} else {
			writeText(x, sst.text(id))
		}
		x.CTag()
	}

	x.CTag()

	return w.put(abspath, bb)
}

// writeText emits a <t> element, preserving edge whitespace.
func writeText(x *xml.Writer, s string) {
	x.OTag("t")
	if s != strings.TrimSpace(s) {
		x.Attr("xml:space", "preserve")
	}
	x.Write(escapeControl(s))
	x.CTag()
}

// writeRunProperties emits the font of a rich text run.
func writeRunProperties(x *xml.Writer, f Font) {
	x.OTag("rPr")
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
	x.OTag("sz").Attr("val", fmtFloat(f.size())).CTag()
	writeColor(x, f.Color)
	x.OTag("rFont").Attr("val", f.name()).CTag()
	x.OTag("family").Attr("val", 2).CTag()
	if f.name() == defaultFontName {
		x.OTag("scheme").Attr("val", "minor").CTag()
	}
	x.CTag()
}

// escapeControl encodes control characters that XML 1.0 cannot carry as
// _xHHHH_ sequences.
func escapeControl(s string) string {
	if !strings.ContainsFunc(s, isControl) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if isControl(r) {
			fmt.Fprintf(&b, "_x%04X_", r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isControl(r rune) bool {
	return r < 0x20 && r != '\t' && r != '\n' && r != '\r'
}
