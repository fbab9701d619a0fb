package xl

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/adnsv/srw/xml"
	"github.com/valyala/bytebufferpool"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
)

// Writer serializes a Workbook into package parts. A Writer is used for a
// single Write call.
type Writer struct {
	out            Storage
	log            *slog.Logger
	lastGlobalId   int
	lastWorkbookId int
	lastRichDataId int

	GlobalRels          map[string]RelInfo // maps id to absolute path
	WorkbookRels        map[string]RelInfo // maps id to absolute paths
	DefaultContentTypes map[string]string  // maps path extension to content-type
	PartContentTypes    map[string]string  // maps path partname to content-type

	sstRefs int // string cells referencing the shared-string table

	media    []*MediaInfo          // in-cell pictures
	mediaMap map[string]*MediaInfo // maps media name to media info
	written  map[string]bool       // media parts already stored

	styles *styleTables
	sheets []*Sheet // tab order, with a placeholder for an empty workbook

	lastDrawing  int
	lastChart    int
	lastComments int

	RichDataRels map[string]RelInfo
}

type RelInfo struct {
	Type       string // url to schema type
	Target     string // relative path
	TargetMode string // "External" for hyperlinks leaving the package
}

type MediaInfo struct {
	Name string // hashed blob + extension
	Blob []byte
	IId  int
	RId  string
}

var xmlConfig = xml.WriterConfig{Indent: xml.Indent2Spaces}

func NewWriter(s Storage, log *slog.Logger) *Writer {
	if log == nil {
		log = DefaultOptions().logger()
	}
	w := &Writer{
		out:                 s,
		log:                 log,
		GlobalRels:          map[string]RelInfo{},
		WorkbookRels:        map[string]RelInfo{},
		DefaultContentTypes: map[string]string{},
		PartContentTypes:    map[string]string{},

		mediaMap: map[string]*MediaInfo{},
		written:  map[string]bool{},

		RichDataRels: map[string]RelInfo{},
	}

	w.DefaultContentTypes["xml"] = "application/xml"
	w.DefaultContentTypes["rels"] = "application/vnd.openxmlformats-package.relationships+xml"

	return w
}

func (w *Writer) nextGlobalID() (int, string) {
	w.lastGlobalId++
	return w.lastGlobalId, fmt.Sprintf("rId%d", w.lastGlobalId)
}
func (w *Writer) nextWorkbookID() (int, string) {
	w.lastWorkbookId++
	return w.lastWorkbookId, fmt.Sprintf("rId%d", w.lastWorkbookId)
}
func (w *Writer) nextRichDataID() (int, string) {
	w.lastRichDataId++
	return w.lastRichDataId, fmt.Sprintf("rId%d", w.lastRichDataId)
}

// relSet allocates relationship ids local to one part.
type relSet struct {
	last int
	rels map[string]RelInfo
}

func newRelSet() *relSet { return &relSet{rels: map[string]RelInfo{}} }

func (r *relSet) add(info RelInfo) string {
	r.last++
	rid := fmt.Sprintf("rId%d", r.last)
	r.rels[rid] = info
	return rid
}

// put stores a finished part.
func (w *Writer) put(path string, bb *bytebufferpool.ByteBuffer) error {
	w.log.Debug("part", "path", path, "size", bb.Len())
	if err := w.out.WriteBlob(path, bb.B); err != nil {
		return fmt.Errorf("write %s: %v: %w", path, err, ErrIO)
	}
	return nil
}

// Write emits the whole package for wb.
func (w *Writer) Write(wb *Workbook) error {
	var err error

	w.styles = buildStyles(wb)
	w.sheets = wb.sheets
	if len(w.sheets) == 0 {
		w.sheets = []*Sheet{newSheet(wb, "Sheet1", 0)}
	}

	err = w.writeWorkbook(wb)
	if err != nil {
		return err
	}

	err = w.writeStyles()
	if err != nil {
		return err
	}

	err = w.writeTheme()
	if err != nil {
		return err
	}

	if wb.sst.len() > 0 {
		err = w.writeSharedStrings(wb)
		if err != nil {
			return err
		}
	}

	if len(w.media) > 0 {
		err = w.writeRichData()
		if err != nil {
			return err
		}
	}

	err = w.writeCoreProperties(wb)
	if err != nil {
		return err
	}
	err = w.writeExtendedProperties(wb)
	if err != nil {
		return err
	}

	err = w.writeRels("/xl/_rels/workbook.xml.rels", w.WorkbookRels)
	if err != nil {
		return err
	}

	err = w.writeRels("/_rels/.rels", w.GlobalRels)
	if err != nil {
		return err
	}

	return w.writeContentTypes()
}

func (w *Writer) writeCoreProperties(wb *Workbook) error {
	_, rid := w.nextGlobalID()

	relpath := "docProps/core.xml"
	abspath := "/" + relpath

	w.PartContentTypes[abspath] = "application/vnd.openxmlformats-package.core-properties+xml"
	w.GlobalRels[rid] = RelInfo{
		Type:   "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties",
		Target: relpath,
	}

	created := wb.opts.Created
	if created.IsZero() {
		created = time.Now()
	}
	stamp := created.UTC().Format(time.RFC3339)
	p := wb.props

	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)
	x := xml.NewWriter(bb, xmlConfig)

	x.XmlStandaloneDecl()
	x.OTag("cp:coreProperties")
	x.Attr("xmlns:cp", "http://schemas.openxmlformats.org/package/2006/metadata/core-properties")
	x.Attr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
	x.Attr("xmlns:dcterms", "http://purl.org/dc/terms/")
	x.Attr("xmlns:dcmitype", "http://purl.org/dc/dcmitype/")
	x.Attr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")

	if p.Title != "" {
		x.OTag("+dc:title").Write(p.Title).CTag()
	}
	if p.Subject != "" {
		x.OTag("+dc:subject").Write(p.Subject).CTag()
	}
	if p.Author != "" {
		x.OTag("+dc:creator").Write(p.Author).CTag()
		x.OTag("+cp:lastModifiedBy").Write(p.Author).CTag()
	}
	if p.Keywords != "" {
		x.OTag("+cp:keywords").Write(p.Keywords).CTag()
	}
	if p.Comments != "" {
		x.OTag("+dc:description").Write(p.Comments).CTag()
	}

	x.OTag("+dcterms:created")
	x.Attr("xsi:type", "dcterms:W3CDTF")
	x.Write(stamp)
	x.CTag()

	x.OTag("+dcterms:modified")
	x.Attr("xsi:type", "dcterms:W3CDTF")
	x.Write(stamp)
	x.CTag()

	if p.Category != "" {
		x.OTag("+cp:category").Write(p.Category).CTag()
	}
	if p.Status != "" {
		x.OTag("+cp:contentStatus").Write(p.Status).CTag()
	}

	x.CTag()

	return w.put(abspath, bb)
}

func (w *Writer) writeExtendedProperties(wb *Workbook) error {
	_, rid := w.nextGlobalID()

	relpath := "docProps/app.xml"
	abspath := "/" + relpath

	w.PartContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	w.GlobalRels[rid] = RelInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties",
		Target: relpath,
	}

	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)
	x := xml.NewWriter(bb, xmlConfig)
	x.XmlStandaloneDecl()

	x.OTag("Properties")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties")
	x.Attr("xmlns:vt", "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes")

	if wb.AppName != "" {
		x.OTag("+Application").Write(wb.AppName).CTag()
	}
	x.OTag("+DocSecurity").Write(0).CTag()
	x.OTag("+ScaleCrop").Write("false").CTag()

	x.OTag("+HeadingPairs")
	x.OTag("+vt:vector").Attr("size", 2).Attr("baseType", "variant")
	x.OTag("+vt:variant")
	x.OTag("vt:lpstr").Write("Worksheets").CTag()
	x.CTag()
	x.OTag("+vt:variant")
	x.OTag("vt:i4").Write(len(w.sheets)).CTag()
	x.CTag()
	x.CTag() // vt:vector
	x.CTag() // HeadingPairs

	x.OTag("+TitlesOfParts")
	x.OTag("+vt:vector").Attr("size", len(w.sheets)).Attr("baseType", "lpstr")
	for _, sh := range w.sheets {
		x.OTag("+vt:lpstr").Write(sh.name).CTag()
	}
	x.CTag() // vt:vector
	x.CTag() // TitlesOfParts

	if wb.props.Manager != "" {
		x.OTag("+Manager").Write(wb.props.Manager).CTag()
	}
	if wb.props.Company != "" {
		x.OTag("+Company").Write(wb.props.Company).CTag()
	}
	x.OTag("+LinksUpToDate").Write("false").CTag()
	x.OTag("+SharedDoc").Write("false").CTag()
	x.OTag("+HyperlinksChanged").Write("false").CTag()
	x.OTag("+AppVersion").Write("12.0000").CTag()

	x.CTag()

	return w.put(abspath, bb)
}

func (w *Writer) writeContentTypes() error {
	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)
	x := xml.NewWriter(bb, xmlConfig)

	x.XmlStandaloneDecl()
	x.OTag("Types")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/package/2006/content-types")
	enumerate(w.DefaultContentTypes, func(ext, ctype string) error {
		x.OTag("+Default").Attr("Extension", ext).Attr("ContentType", ctype).CTag()
		return nil
	})
	enumerate(w.PartContentTypes, func(abspath, ctype string) error {
		x.OTag("+Override").Attr("PartName", abspath).Attr("ContentType", ctype).CTag()
		return nil
	})

	x.CTag()

	return w.put("[Content_Types].xml", bb)
}

func (w *Writer) writeRels(path string, rels map[string]RelInfo) error {
	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)
	x := xml.NewWriter(bb, xmlConfig)
	x.XmlStandaloneDecl()

	x.OTag("Relationships")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/package/2006/relationships")
	keys := maps.Keys(rels)
	slices.SortFunc(keys, compareRelIDs)
	for _, rid := range keys {
		info := rels[rid]
		x.OTag("+Relationship").Attr("Id", rid).Attr("Type", info.Type).Attr("Target", info.Target)
		if info.TargetMode != "" {
			x.Attr("TargetMode", info.TargetMode)
		}
		x.CTag()
	}
	x.CTag()

	return w.put(path, bb)
}

// compareRelIDs orders "rId2" before "rId10".
func compareRelIDs(a, b string) int {
	na, ea := strconv.Atoi(a[min(3, len(a)):])
	nb, eb := strconv.Atoi(b[min(3, len(b)):])
	if ea != nil || eb != nil || na == nb {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	}
	return na - nb
}

// addMedia stores an image part once and returns its name.
func (w *Writer) addMedia(blob []byte, ext string) (string, error) {
	name := mediaName(blob, ext)
	w.DefaultContentTypes[ext] = mediaContentType(ext)
	if w.written[name] {
		return name, nil
	}
	w.written[name] = true
	if err := w.out.WriteBlob("/xl/media/"+name, blob); err != nil {
		return "", fmt.Errorf("write media %s: %v: %w", name, err, ErrIO)
	}
	return name, nil
}

func enumerate[M ~map[K]V, K constraints.Ordered, V any](m M, callback func(k K, v V) error) error {
	keys := maps.Keys(m)
	slices.Sort(keys)
	for _, k := range keys {
		err := callback(k, m[k])
		if err != nil {
			return err
		}
	}
	return nil
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
