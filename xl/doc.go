// Package xl builds spreadsheet documents in memory and serializes them as
// Office Open XML (.xlsx) packages.
//
// A Workbook owns sheets, the shared string table and the cell formats.
// Sheets hold a sparse grid of cells addressed by zero-based row and column,
// plus merges, conditional formats, data validations, tables, images,
// charts and page layout. Every mutating call validates its input first and
// leaves the workbook untouched on error.
//
//	wb := xl.NewWorkbook()
//	sh, _ := wb.AddSheet("Data")
//	bold, _ := wb.AddFormat(xl.Style{Font: xl.Font{Bold: true}})
//	sh.WriteString(0, 0, "Total", bold)
//	sh.WriteFormula(0, 1, "SUM(B2:B10)", nil)
//	err := wb.Save("out.xlsx")
//
// Workbook.Write emits the package parts into any Storage: ZipStorage for
// archives, DirStorage for unpacked trees and MemStorage for tests.
package xl
