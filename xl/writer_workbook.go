package xl

import (
	"fmt"
	"slices"
	"strings"

	"github.com/adnsv/srw/xml"
	"github.com/valyala/bytebufferpool"
)

func (w *Writer) writeWorkbook(wb *Workbook) error {
	_, rid := w.nextGlobalID()

	relpath := "xl/workbook.xml"
	abspath := "/" + relpath

	w.PartContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	w.GlobalRels[rid] = RelInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument",
		Target: relpath,
	}

	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)
	x := xml.NewWriter(bb, xmlConfig)
	x.XmlStandaloneDecl()

	x.OTag("workbook")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	x.Attr("xmlns:r", "http://schemas.openxmlformats.org/officeDocument/2006/relationships")

	x.OTag("+fileVersion").Attr("appName", "xl").Attr("lastEdited", 4).Attr("lowestEdited", 4).Attr("rupBuild", 4505).CTag()

	x.OTag("+workbookPr")
	if wb.vbaName != "" {
		x.Attr("codeName", wb.vbaName)
	}
	if wb.opts.Date1904 {
		x.Attr("date1904", 1)
	}
	x.Attr("defaultThemeVersion", 124226)
	x.CTag()

	x.OTag("+bookViews")
	x.OTag("+workbookView")
	x.Attr("xWindow", 240).Attr("yWindow", 15).Attr("windowWidth", 16095).Attr("windowHeight", 9660)
	if wb.firstSheet > 0 {
		x.Attr("firstSheet", wb.firstSheet)
	}
	if wb.activeSheet > 0 {
		x.Attr("activeTab", wb.activeSheet)
	}
	x.CTag()
	x.CTag()

	x.OTag("+sheets")
	for _, sheet := range w.sheets {
		sheetID, sheetRID := w.nextWorkbookID()
		x.OTag("+sheet")
		x.Attr("name", sheet.name)
		x.Attr("sheetId", sheetID)
		if sheet.hidden {
			x.Attr("state", "hidden")
		}
		x.Attr("r:id", sheetRID)
		x.CTag()

		err := w.writeSheet(wb, sheet, sheetID, sheetRID)
		if err != nil {
			return err
		}
	}
	x.CTag()

	if names := definedNames(wb); len(names) > 0 {
		x.OTag("+definedNames")
		for _, dn := range names {
			x.OTag("+definedName").Attr("name", dn.name)
			if dn.scope >= 0 {
				x.Attr("localSheetId", dn.scope)
			}
			if dn.hidden {
				x.Attr("hidden", 1)
			}
			x.Write(dn.refersTo)
			x.CTag()
		}
		x.CTag()
	}

	x.OTag("+calcPr").Attr("calcId", 124519).Attr("fullCalcOnLoad", 1).CTag()

	x.CTag()

	return w.put(abspath, bb)
}

type definedNameEntry struct {
	name     string
	scope    int // sheet index, -1 for the workbook
	refersTo string
	hidden   bool
}

// definedNames collects user names and the built-in print and filter names,
// sorted the way Excel stores them.
func definedNames(wb *Workbook) []definedNameEntry {
	var out []definedNameEntry
	for _, dn := range wb.definedNames {
		scope := -1
		if dn.Scope != nil {
			scope = dn.Scope.index
		}
		out = append(out, definedNameEntry{name: dn.Name, scope: scope, refersTo: dn.RefersTo, hidden: dn.Hidden})
	}
	for _, sh := range wb.sheets {
		q := quoteSheetName(sh.name)
		if sh.autoFilter != nil {
			out = append(out, definedNameEntry{
				name: "_xlnm._FilterDatabase", scope: sh.index, hidden: true,
				refersTo: q + "!" + sh.autoFilter.abs(),
			})
		}
		if sh.printArea != nil {
			out = append(out, definedNameEntry{
				name: "_xlnm.Print_Area", scope: sh.index,
				refersTo: q + "!" + sh.printArea.abs(),
			})
		}
		var titles []string
		if sh.repeatCols != nil {
			titles = append(titles, fmt.Sprintf("%s!$%s:$%s", q, ColumnName(sh.repeatCols[0]), ColumnName(sh.repeatCols[1])))
		}
		if sh.repeatRows != nil {
			titles = append(titles, fmt.Sprintf("%s!$%d:$%d", q, sh.repeatRows[0]+1, sh.repeatRows[1]+1))
		}
		if len(titles) > 0 {
			out = append(out, definedNameEntry{
				name: "_xlnm.Print_Titles", scope: sh.index,
				refersTo: strings.Join(titles, ","),
			})
		}
	}
	slices.SortStableFunc(out, func(a, b definedNameEntry) int {
		ka := strings.ToLower(strings.TrimPrefix(a.name, "_xlnm."))
		kb := strings.ToLower(strings.TrimPrefix(b.name, "_xlnm."))
		if c := strings.Compare(ka, kb); c != 0 {
			return c
		}
		return a.scope - b.scope
	})
	return out
}

// quoteSheetName quotes a sheet name for use in a reference when needed.
func quoteSheetName(name string) string {
	plain := name != ""
	for i, r := range name {
		if r == '_' || r == '.' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 127 {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		plain = false
		break
	}
	if plain {
		if _, _, err := ParseCell(name); err == nil {
			plain = false
		}
	}
	if plain {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
