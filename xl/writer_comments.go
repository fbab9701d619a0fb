package xl

import (
	"fmt"
	"strings"

	"github.com/adnsv/srw/xml"
	"github.com/valyala/bytebufferpool"
)

// writeComments emits the comments part of a sheet and the legacy VML
// drawing that renders the note boxes. It returns the relationship id of
// the VML drawing for the sheet's legacyDrawing element.
func (w *Writer) writeComments(sh *Sheet, rels *relSet) (string, error) {
	w.lastComments++
	n := w.lastComments
	list := sh.sortedComments()

	rels.add(RelInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/comments",
		Target: fmt.Sprintf("../comments%d.xml", n),
	})
	vid := rels.add(RelInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/vmlDrawing",
		Target: fmt.Sprintf("../drawings/vmlDrawing%d.vml", n),
	})

	if err := w.writeCommentList(sh, list, n); err != nil {
		return "", err
	}
	if err := w.writeCommentShapes(sh, list, n); err != nil {
		return "", err
	}
	return vid, nil
}

func (w *Writer) writeCommentList(sh *Sheet, list []*comment, n int) error {
	abspath := fmt.Sprintf("/xl/comments%d.xml", n)
	w.PartContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.comments+xml"

	var authors []string
	authorIDs := map[string]int{}
	authorOf := func(c *comment) int {
		a := c.author
		if a == "" {
			a = sh.commentAuthor
		}
		id, ok := authorIDs[a]
		if !ok {
			id = len(authors)
			authorIDs[a] = id
			authors = append(authors, a)
		}
		return id
	}
	ids := make([]int, len(list))
	for i, c := range list {
		ids[i] = authorOf(c)
	}

	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)
	x := xml.NewWriter(bb, xmlConfig)
	x.XmlStandaloneDecl()

	x.OTag("comments").Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	x.OTag("+authors")
	for _, a := range authors {
		x.OTag("+author").Write(a).CTag()
	}
	x.CTag()

	x.OTag("+commentList")
	for i, c := range list {
		x.OTag("+comment").Attr("ref", CellName(c.row, c.col)).Attr("authorId", ids[i])
		x.OTag("+text")
		x.OTag("+r")
		writeRunProperties(x, c.font)
		writeText(x, c.text)
		x.CTag() // r
		x.CTag() // text
		x.CTag() // comment
	}
	x.CTag() // commentList
	x.CTag() // comments

	return w.put(abspath, bb)
}

// writeCommentShapes emits vmlDrawingN.vml with one text box per note.
func (w *Writer) writeCommentShapes(sh *Sheet, list []*comment, n int) error {
	abspath := fmt.Sprintf("/xl/drawings/vmlDrawing%d.vml", n)
	w.DefaultContentTypes["vml"] = "application/vnd.openxmlformats-officedocument.vmlDrawing"

	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)
	x := xml.NewWriter(bb, xmlConfig)

	x.OTag("xml")
	x.Attr("xmlns:v", "urn:schemas-microsoft-com:vml")
	x.Attr("xmlns:o", "urn:schemas-microsoft-com:office:office")
	x.Attr("xmlns:x", "urn:schemas-microsoft-com:office:excel")

	x.OTag("+o:shapelayout").Attr("v:ext", "edit")
	x.OTag("+o:idmap").Attr("v:ext", "edit").Attr("data", n).CTag()
	x.CTag()

	x.OTag("+v:shapetype").Attr("id", "_x0000_t202").Attr("coordsize", "21600,21600")
	x.Attr("o:spt", 202).Attr("path", "m,l,21600r21600,l21600,xe")
	x.OTag("+v:stroke").Attr("joinstyle", "miter").CTag()
	x.OTag("+v:path").Attr("gradientshapeok", "t").Attr("o:connecttype", "rect").CTag()
	x.CTag() // v:shapetype

	for i, c := range list {
		visible := c.visible || sh.commentsVisible
		from, to := sh.span(c.box)
		left := sh.colLeft(c.box.col) + c.box.offsetX
		top := sh.rowTop(c.box.row) + c.box.offsetY

		style := fmt.Sprintf("position:absolute;margin-left:%spt;margin-top:%spt;width:%spt;height:%spt;z-index:%d",
			fmtFloat(float64(left)*0.75), fmtFloat(float64(top)*0.75),
			fmtFloat(float64(c.box.width)*0.75), fmtFloat(float64(c.box.height)*0.75), i+1)
		if !visible {
			style += ";visibility:hidden"
		}
		fill := "#" + strings.ToLower(c.fill.ARGB()[2:])

		x.OTag("+v:shape").Attr("id", fmt.Sprintf("_x0000_s%d", 1024*n+i+1)).Attr("type", "#_x0000_t202")
		x.Attr("style", style).Attr("fillcolor", fill).Attr("o:insetmode", "auto")
		x.OTag("+v:fill").Attr("color2", fill).CTag()
		x.OTag("+v:shadow").Attr("on", "t").Attr("color", "black").Attr("obscured", "t").CTag()
		x.OTag("+v:path").Attr("o:connecttype", "none").CTag()
		x.OTag("+v:textbox").Attr("style", "mso-direction-alt:auto")
		x.OTag("+div").Attr("style", "text-align:left").CTag()
		x.CTag() // v:textbox

		x.OTag("+x:ClientData").Attr("ObjectType", "Note")
		x.OTag("+x:MoveWithCells").CTag()
		x.OTag("+x:SizeWithCells").CTag()
		x.OTag("+x:Anchor").Write(fmt.Sprintf("%d, %d, %d, %d, %d, %d, %d, %d",
			from.col, from.dx, from.row, from.dy, to.col, to.dx, to.row, to.dy)).CTag()
		x.OTag("+x:AutoFill").Write("False").CTag()
		x.OTag("+x:Row").Write(c.row).CTag()
		x.OTag("+x:Column").Write(c.col).CTag()
		if visible {
			x.OTag("+x:Visible").CTag()
		}
		x.CTag() // x:ClientData
		x.CTag() // v:shape
	}
	x.CTag() // xml

	return w.put(abspath, bb)
}

// colLeft is the pixel distance from the sheet's left edge to col.
func (s *Sheet) colLeft(col int) int {
	px := 0
	for c := 0; c < col; c++ {
		px += s.colPixels(c)
	}
	return px
}

// rowTop is the pixel distance from the sheet's top edge to row. Only rows
// with overrides are visited.
func (s *Sheet) rowTop(row int) int {
	px := row * s.rowPixels(-1)
	for r := range s.rows {
		if r < row {
			px += s.rowPixels(r) - s.rowPixels(-1)
		}
	}
	return px
}
