package xl

import (
	"github.com/adnsv/srw/xml"
	"github.com/valyala/bytebufferpool"
)

// writeRichData emits the rich value parts that back in-cell pictures. The
// media blobs themselves are stored by addMedia.
func (w *Writer) writeRichData() error {
	var err error

	err = w.writeRichValueRel()
	if err != nil {
		return err
	}

	err = w.writeRels("/xl/richData/_rels/richValueRel.xml.rels", w.RichDataRels)
	if err != nil {
		return err
	}

	err = w.writeRichValueStructure()
	if err != nil {
		return err
	}

	err = w.writeRichValueData()
	if err != nil {
		return err
	}

	return w.writeMetadata()
}

func (w *Writer) writeMetadata() error {
	_, rid := w.nextWorkbookID()

	relpath := "metadata.xml"
	abspath := "/xl/" + relpath

	w.PartContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheetMetadata+xml"
	w.WorkbookRels[rid] = RelInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/sheetMetadata",
		Target: relpath,
	}

	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)
	x := xml.NewWriter(bb, xmlConfig)
	x.XmlStandaloneDecl()

	x.OTag("metadata")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	x.Attr("xmlns:xlrd", "http://schemas.microsoft.com/office/spreadsheetml/2017/richdata")

	x.OTag("+metadataTypes").Attr("count", 1)
	x.OTag("+metadataType")
	x.Attr("name", "XLRICHVALUE")
	x.Attr("minSupportedVersion", "120000")
	for _, s := range richValueCapabilities {
		x.Attr(s, 1)
	}
	x.CTag() // metadataType
	x.CTag() // metadataTypes

	x.OTag("+futureMetadata").Attr("name", "XLRICHVALUE").Attr("count", len(w.media))
	for _, m := range w.media {
		x.OTag("+bk")
		x.OTag("extLst")
		x.OTag("ext").Attr("uri", "{3e2802c4-a4d2-4d8b-9148-e3be6c30e623}")
		x.OTag("xlrd:rvb").Attr("i", m.IId).CTag()
		x.CTag() // ext
		x.CTag() // extLst
		x.CTag() // bk
	}
	x.CTag() // futureMetadata

	// vm attributes on cells are 1-based indexes into this list
	x.OTag("+valueMetadata").Attr("count", len(w.media))
	for _, m := range w.media {
		x.OTag("+bk")
		x.OTag("rc").Attr("t", 1).Attr("v", m.IId).CTag()
		x.CTag() // bk
	}
	x.CTag() // valueMetadata

	x.CTag() // metadata

	return w.put(abspath, bb)
}

var richValueCapabilities = []xml.NameString{"copy", "pasteAll", "pasteValues",
	"merge", "splitFirst", "rowColShift", "clearFormats",
	"clearComments", "assign", "coerce"}

func (w *Writer) writeRichValueRel() error {
	_, rid := w.nextWorkbookID()

	relpath := "richData/richValueRel.xml"
	abspath := "/xl/" + relpath

	w.PartContentTypes[abspath] = "application/vnd.ms-excel.richvaluerel+xml"
	w.WorkbookRels[rid] = RelInfo{
		Type:   "http://schemas.microsoft.com/office/2022/10/relationships/richValueRel",
		Target: relpath,
	}

	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)
	x := xml.NewWriter(bb, xmlConfig)
	x.XmlStandaloneDecl()

	x.OTag("richValueRels")
	x.Attr("xmlns", "http://schemas.microsoft.com/office/spreadsheetml/2022/richvaluerel")
	x.Attr("xmlns:r", "http://schemas.openxmlformats.org/officeDocument/2006/relationships")

	for _, m := range w.media {
		x.OTag("+rel").Attr("r:id", m.RId).CTag()
	}

	x.CTag()

	return w.put(abspath, bb)
}

func (w *Writer) writeRichValueStructure() error {
	_, rid := w.nextWorkbookID()

	relpath := "richData/rdrichvaluestructure.xml"
	abspath := "/xl/" + relpath

	w.PartContentTypes[abspath] = "application/vnd.ms-excel.rdrichvaluestructure+xml"
	w.WorkbookRels[rid] = RelInfo{
		Type:   "http://schemas.microsoft.com/office/2017/06/relationships/rdRichValueStructure",
		Target: relpath,
	}

	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)
	x := xml.NewWriter(bb, xmlConfig)
	x.XmlStandaloneDecl()

	x.OTag("rvStructures")
	x.Attr("xmlns", "http://schemas.microsoft.com/office/spreadsheetml/2017/richdata")
	x.Attr("count", 1)

	// _localImage{Id, CalcOrigin}
	x.OTag("+s").Attr("t", "_localImage")
	x.OTag("+k").Attr("n", "_rvRel:LocalImageIdentifier").Attr("t", "i").CTag()
	x.OTag("+k").Attr("n", "CalcOrigin").Attr("t", "i").CTag()
	x.CTag()

	x.CTag()

	return w.put(abspath, bb)
}

// calcOriginPlaced marks a picture placed by the user rather than computed
// by IMAGE().
const calcOriginPlaced = 5

func (w *Writer) writeRichValueData() error {
	_, rid := w.nextWorkbookID()

	relpath := "richData/rdrichvalue.xml"
	abspath := "/xl/" + relpath

	w.PartContentTypes[abspath] = "application/vnd.ms-excel.rdrichvalue+xml"
	w.WorkbookRels[rid] = RelInfo{
		Type:   "http://schemas.microsoft.com/office/2017/06/relationships/rdRichValue",
		Target: relpath,
	}

	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)
	x := xml.NewWriter(bb, xmlConfig)
	x.XmlStandaloneDecl()

	x.OTag("rvData")
	x.Attr("xmlns", "http://schemas.microsoft.com/office/spreadsheetml/2017/richdata")
	x.Attr("count", len(w.media))

	for _, m := range w.media {
		x.OTag("+rv").Attr("s", 0)
		x.OTag("v").Write(m.IId).CTag()
		x.OTag("v").Write(calcOriginPlaced).CTag()
		x.CTag()
	}

	x.CTag()

	return w.put(abspath, bb)
}
