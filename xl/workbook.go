package xl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Workbook is the in-memory document. It owns the sheets, the shared-string
// table and the format table; all of them are serialized by Save, WriteTo
// or Write.
type Workbook struct {
	AppName string

	opts  Options
	props DocProperties

	sheets   []*Sheet
	sheetMap map[string]*Sheet // keyed by folded name

	formats    *table[Style]
	formatList []*Format
	sst        *sharedStrings

	definedNames []DefinedName
	tableNames   map[string]bool
	lastTableID  int
	charts       []*Chart

	activeSheet int
	firstSheet  int
	vbaName     string

	hyperlinkFormat *Format
	dateFormat      *Format
}

// DefinedName is a workbook or sheet scoped name.
type DefinedName struct {
	Name     string
	RefersTo string // formula without the leading '='
	Scope    *Sheet // nil for workbook scope
	Hidden   bool
}

func NewWorkbook() *Workbook {
	return NewWorkbookWith(DefaultOptions())
}

// NewWorkbookWith creates a workbook with explicit options.
func NewWorkbookWith(opts Options) *Workbook {
	wb := &Workbook{
		AppName:    opts.AppName,
		opts:       opts,
		sheetMap:   map[string]*Sheet{},
		formats:    newTable[Style](),
		sst:        newSharedStrings(),
		tableNames: map[string]bool{},
	}
	// Index 0 is the default cell format.
	wb.internFormat(Style{})
	return wb
}

func foldName(s string) string {
	return cases.Fold().String(s)
}

// AddSheet appends a sheet. An empty name picks the first free "SheetN".
func (wb *Workbook) AddSheet(name string) (*Sheet, error) {
	if name == "" {
		for n := len(wb.sheets) + 1; ; n++ {
			name = fmt.Sprintf("Sheet%d", n)
			if _, exists := wb.sheetMap[foldName(name)]; !exists {
				break
			}
		}
	}

	if err := validateSheetName(name); err != nil {
		return nil, err
	}
	if _, exists := wb.sheetMap[foldName(name)]; exists {
		return nil, fmt.Errorf("duplicate sheet name '%s': %w", name, ErrInvalidSheetName)
	}

	sheet := newSheet(wb, name, len(wb.sheets))

	wb.sheets = append(wb.sheets, sheet)
	wb.sheetMap[foldName(name)] = sheet

	return sheet, nil
}

// Sheet finds a sheet by name, ignoring case.
func (wb *Workbook) Sheet(name string) *Sheet {
	return wb.sheetMap[foldName(name)]
}

// Sheets returns the sheets in tab order.
func (wb *Workbook) Sheets() []*Sheet {
	return append([]*Sheet(nil), wb.sheets...)
}

func validateSheetName(s string) error {
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return fmt.Errorf("empty sheet name is not allowed: %w", ErrInvalidSheetName)
	} else if n > 31 {
		return fmt.Errorf("the sheet name %q is too long: %w", s, ErrInvalidSheetName)
	}
	if strings.HasPrefix(s, "'") || strings.HasSuffix(s, "'") {
		return fmt.Errorf("the first or last character of the sheet name can not be a single quote: %w", ErrInvalidSheetName)
	}
	if strings.ContainsAny(s, ":\\/?*[]") {
		return fmt.Errorf("the sheet name %q can not contain any of the characters :\\/?*[]: %w", s, ErrInvalidSheetName)
	}
	return nil
}

// AddFormat interns a style. Structurally equal styles share one Format.
func (wb *Workbook) AddFormat(s Style) (*Format, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	return wb.internFormat(s), nil
}

func (wb *Workbook) internFormat(s Style) *Format {
	id, added := wb.formats.intern(s)
	if added {
		wb.formatList = append(wb.formatList, &Format{id: id, style: s})
	}
	return wb.formatList[id]
}

func (wb *Workbook) defaultHyperlinkFormat() *Format {
	if wb.hyperlinkFormat == nil {
		wb.hyperlinkFormat = wb.internFormat(Style{Font: Font{
			Color:     0xFF0563C1,
			Underline: UnderlineSingle,
		}})
	}
	return wb.hyperlinkFormat
}

func (wb *Workbook) defaultDateFormat() *Format {
	if wb.dateFormat == nil {
		code := wb.opts.DefaultDateFormat
		if code == "" {
			code = "yyyy-mm-dd hh:mm:ss"
		}
		wb.dateFormat = wb.internFormat(Style{NumFmt: code})
	}
	return wb.dateFormat
}

// SetProperties replaces the document metadata.
func (wb *Workbook) SetProperties(p DocProperties) {
	wb.props = p
}

// SetVBAName sets the workbook code name used by macros.
func (wb *Workbook) SetVBAName(name string) error {
	if err := validateVBAName(name); err != nil {
		return err
	}
	wb.vbaName = name
	return nil
}

func validateVBAName(name string) error {
	if name == "" || utf8.RuneCountInString(name) > 31 {
		return fmt.Errorf("vba name %q: %w", name, ErrInvalidRange)
	}
	for i, r := range name {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (i > 0 && r >= '0' && r <= '9') {
			continue
		}
		return fmt.Errorf("vba name %q: %w", name, ErrInvalidRange)
	}
	return nil
}

// DefineName adds a named range or constant, e.g.
// DefineName("Sales", "Sheet1!$A$1:$A$10", nil).
func (wb *Workbook) DefineName(name, refersTo string, scope *Sheet) error {
	if err := validateDefinedName(name); err != nil {
		return err
	}
	refersTo = strings.TrimPrefix(strings.TrimSpace(refersTo), "=")
	if refersTo == "" {
		return fmt.Errorf("defined name %q: empty reference: %w", name, ErrInvalidFormula)
	}
	if scope != nil && scope.workbook != wb {
		return fmt.Errorf("defined name %q: scope belongs to another workbook: %w", name, ErrInvalidRange)
	}
	for _, dn := range wb.definedNames {
		if dn.Scope == scope && foldName(dn.Name) == foldName(name) {
			return fmt.Errorf("defined name %q: %w", name, ErrDuplicateName)
		}
	}
	wb.definedNames = append(wb.definedNames, DefinedName{Name: name, RefersTo: refersTo, Scope: scope})
	return nil
}

func validateDefinedName(name string) error {
	if name == "" || utf8.RuneCountInString(name) > 255 {
		return fmt.Errorf("defined name %q: %w", name, ErrInvalidRange)
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '\\' || r == '.' && i > 0:
		case r >= '0' && r <= '9' && i > 0:
		case r > 127 || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		default:
			return fmt.Errorf("defined name %q: invalid character %q: %w", name, r, ErrInvalidRange)
		}
	}
	if _, _, err := ParseCell(name); err == nil {
		return fmt.Errorf("defined name %q looks like a cell reference: %w", name, ErrInvalidRange)
	}
	if strings.HasPrefix(strings.ToLower(name), "_xlnm.") {
		return fmt.Errorf("defined name %q is reserved: %w", name, ErrInvalidRange)
	}
	return nil
}

// WriteTo serializes the workbook as an .xlsx package.
func (wb *Workbook) WriteTo(out io.Writer) (int64, error) {
	cw := &countingWriter{w: out}
	zs := NewZipStorageLevel(cw, wb.opts.CompressionLevel)
	if err := wb.Write(zs); err != nil {
		return cw.n, err
	}
	if err := zs.Close(); err != nil {
		return cw.n, fmt.Errorf("close archive: %v: %w", err, ErrIO)
	}
	return cw.n, nil
}

// Save writes the package to path. The file is replaced only after the
// whole package has been written, so a failed save leaves any previous
// file intact and can be retried.
func (wb *Workbook) Save(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create %s: %v: %w", path, err, ErrIO)
	}
	defer os.Remove(tmp.Name())

	if _, err = wb.WriteTo(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %v: %w", tmp.Name(), err, ErrIO)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %v: %w", path, err, ErrIO)
	}
	return nil
}

// Write emits every part of the package into s. A workbook without sheets
// is written with an empty "Sheet1"; the model itself is not changed.
func (wb *Workbook) Write(s Storage) error {
	return NewWriter(s, wb.opts.logger()).Write(wb)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
