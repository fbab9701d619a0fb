package xl

import (
	"fmt"
	"math"
	"time"
	"unicode/utf8"
)

// Sheet is a worksheet: a sparse cell grid plus the rules, tables,
// drawings and page model attached to it.
type Sheet struct {
	workbook *Workbook
	name     string
	index    int

	rows    map[int]*Row    // 0-based row -> row
	columns map[int]*Column // 0-based column -> overrides
	merges  []Range
	nextRow int // next row used by AppendRow

	conditional []*conditionalEntry
	validations []*DataValidation
	tables      []*Table
	images      []*imageAnchor
	charts      []*chartAnchor

	comments        map[[2]int]*comment
	commentAuthor   string
	commentsVisible bool

	page       pageSetup
	view       sheetView
	protection *sheetProtection
	autoFilter *Range
	printArea  *Range
	repeatRows *[2]int
	repeatCols *[2]int
	rowBreaks  []int
	colBreaks  []int

	defaultRowHeight float64
	hideUnusedRows   bool
	outline          outlineSettings
	tabColor         Color
	vbaName          string
	hidden           bool
	selected         bool
}

func newSheet(wb *Workbook, name string, index int) *Sheet {
	return &Sheet{
		workbook: wb,
		name:     name,
		index:    index,
		rows:     map[int]*Row{},
		columns:  map[int]*Column{},
		view:     sheetView{zoom: 100, gridlines: true},
		page:     defaultPageSetup(),
		outline:  outlineSettings{visible: true, symbolsBelow: true, symbolsRight: true, autoStyle: false},
	}
}

func (s *Sheet) Name() string { return s.name }

// Index is the zero-based tab position.
func (s *Sheet) Index() int { return s.index }

// Workbook returns the owning workbook.
func (s *Sheet) Workbook() *Workbook { return s.workbook }

// Cell returns the cell at (row, col), or nil when it is empty.
func (s *Sheet) Cell(row, col int) *Cell {
	return s.cell(row, col)
}

// Text returns the shared-string text of a string, rich string or link
// cell, rich runs joined. Other cells yield "".
func (s *Sheet) Text(row, col int) string {
	c := s.cell(row, col)
	if c == nil {
		return ""
	}
	switch c.value.(type) {
	case String, RichString, URL:
		return s.workbook.sst.text(c.sid)
	}
	return ""
}

// SetCell stores v with format f at (row, col), replacing any previous
// content. Blank{} with a nil format clears the cell.
func (s *Sheet) SetCell(row, col int, v Value, f *Format) error {
	if err := checkCell(row, col); err != nil {
		return err
	}
	if err := s.checkWritable(row, col); err != nil {
		return err
	}
	if v == nil {
		v = Blank{}
	}
	if err := s.workbook.validateValue(row, col, v); err != nil {
		return fmt.Errorf("%s: %w", CellName(row, col), err)
	}
	if err := s.checkFormat(f); err != nil {
		return err
	}
	s.store(row, col, v, f)
	return nil
}

func (s *Sheet) checkFormat(f *Format) error {
	if f == nil {
		return nil
	}
	if f.id >= len(s.workbook.formatList) || s.workbook.formatList[f.id] != f {
		return fmt.Errorf("format %d does not belong to this workbook: %w", f.id, ErrInvalidRange)
	}
	return nil
}

// store writes an already validated value.
func (s *Sheet) store(row, col int, v Value, f *Format) {
	wb := s.workbook
	c := &Cell{value: v, format: f}
	switch v := v.(type) {
	case Blank:
		if f == nil {
			s.clear(row, col)
			return
		}
	case String:
		c.sid = wb.sst.internString(string(v))
	case RichString:
		c.sid = wb.sst.internRich(v)
	case URL:
		c.sid = wb.sst.internString(v.display())
		if f == nil {
			c.format = wb.defaultHyperlinkFormat()
		}
	case DateTime:
		if f == nil {
			c.format = wb.defaultDateFormat()
		}
	}
	s.put(row, col, c)
}

// validateValue checks v without touching any table.
func (wb *Workbook) validateValue(row, col int, v Value) error {
	switch v := v.(type) {
	case Number:
		return checkFinite(float64(v))
	case String:
		return checkText(string(v))
	case Bool, Blank:
		return nil
	case RichString:
		if len(v) == 0 {
			return fmt.Errorf("empty rich string: %w", ErrInvalidRange)
		}
		n := 0
		for _, run := range v {
			if run.Text == "" {
				return fmt.Errorf("empty rich string run: %w", ErrInvalidRange)
			}
			n += utf8.RuneCountInString(run.Text)
		}
		if n > maxStringLength {
			return fmt.Errorf("rich string of %d characters: %w", n, ErrStringTooLong)
		}
		return nil
	case Formula:
		if _, err := prepareFormula(v.Expr); err != nil {
			return err
		}
		return checkResult(v.Result)
	case ArrayFormula:
		if err := v.Range.validate(); err != nil {
			return err
		}
		if v.Range.FirstRow != row || v.Range.FirstCol != col {
			return fmt.Errorf("array formula range %s must start at %s: %w", v.Range, CellName(row, col), ErrInvalidRange)
		}
		if _, err := prepareFormula(v.Expr); err != nil {
			return err
		}
		return checkResult(v.Result)
	case URL:
		return v.validate()
	case DateTime:
		return v.validate(wb.opts.Date1904)
	case embeddedPicture:
		if v.PictureInfo == nil || len(v.Blob) == 0 {
			return fmt.Errorf("empty picture: %w", ErrInvalidImage)
		}
		return nil
	}
	return fmt.Errorf("unsupported value %T: %w", v, ErrInvalidNumber)
}

func checkFinite(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%v: %w", f, ErrInvalidNumber)
	}
	return nil
}

func checkText(s string) error {
	if n := utf8.RuneCountInString(s); n > maxStringLength {
		return fmt.Errorf("string of %d characters: %w", n, ErrStringTooLong)
	}
	return nil
}

func checkResult(r any) error {
	switch r := r.(type) {
	case nil, bool:
		return nil
	case float64:
		return checkFinite(r)
	case string:
		return checkText(r)
	}
	return fmt.Errorf("formula result of type %T: %w", r, ErrInvalidFormula)
}

// WriteNumber writes a finite number.
func (s *Sheet) WriteNumber(row, col int, v float64, f *Format) error {
	return s.SetCell(row, col, Number(v), f)
}

func (s *Sheet) WriteString(row, col int, v string, f *Format) error {
	return s.SetCell(row, col, String(v), f)
}

func (s *Sheet) WriteBoolean(row, col int, v bool, f *Format) error {
	return s.SetCell(row, col, Bool(v), f)
}

// WriteBlank writes a format-only cell; a nil format clears the cell.
func (s *Sheet) WriteBlank(row, col int, f *Format) error {
	return s.SetCell(row, col, Blank{}, f)
}

// WriteFormula writes a formula without a cached result.
func (s *Sheet) WriteFormula(row, col int, expr string, f *Format) error {
	return s.SetCell(row, col, Formula{Expr: expr}, f)
}

// WriteFormulaNum writes a formula with a cached numeric result.
func (s *Sheet) WriteFormulaNum(row, col int, expr string, result float64, f *Format) error {
	return s.SetCell(row, col, Formula{Expr: expr, Result: result}, f)
}

// WriteFormulaStr writes a formula with a cached string result.
func (s *Sheet) WriteFormulaStr(row, col int, expr, result string, f *Format) error {
	return s.SetCell(row, col, Formula{Expr: expr, Result: result}, f)
}

// WriteArrayFormula writes a CSE array formula over r.
func (s *Sheet) WriteArrayFormula(r Range, expr string, f *Format) error {
	return s.SetCell(r.FirstRow, r.FirstCol, ArrayFormula{Range: r, Expr: expr}, f)
}

func (s *Sheet) WriteRichString(row, col int, runs []TextRun, f *Format) error {
	return s.SetCell(row, col, RichString(runs), f)
}

// WriteURL writes a hyperlink. With a nil format the conventional blue
// underlined hyperlink style is used.
func (s *Sheet) WriteURL(row, col int, u URL, f *Format) error {
	return s.SetCell(row, col, u, f)
}

// WriteDateTime writes a date/time. With a nil format the workbook's
// default date format is used.
func (s *Sheet) WriteDateTime(row, col int, d DateTime, f *Format) error {
	return s.SetCell(row, col, d, f)
}

// WriteTime is WriteDateTime for a time.Time.
func (s *Sheet) WriteTime(row, col int, t time.Time, f *Format) error {
	return s.SetCell(row, col, DateTimeOf(t), f)
}

// AppendRow writes values into the row following the last populated one,
// starting at column 0. Nil values leave their cell empty. Either all
// values are written or none.
func (s *Sheet) AppendRow(values ...any) error {
	row := s.nextRow
	vals := make([]Value, len(values))
	for col, x := range values {
		if x == nil {
			continue
		}
		v := toValue(x)
		if err := checkCell(row, col); err != nil {
			return err
		}
		if err := s.checkWritable(row, col); err != nil {
			return err
		}
		if err := s.workbook.validateValue(row, col, v); err != nil {
			return fmt.Errorf("%s: %w", CellName(row, col), err)
		}
		vals[col] = v
	}
	for col, v := range vals {
		if v != nil {
			s.store(row, col, v, nil)
		}
	}
	if row >= s.nextRow {
		s.nextRow = row + 1
	}
	return nil
}

func toValue(x any) Value {
	switch x := x.(type) {
	case Value:
		return x
	case string:
		return String(x)
	case []byte:
		return String(x)
	case bool:
		return Bool(x)
	case float64:
		return Number(x)
	case float32:
		return Number(x)
	case int:
		return Number(x)
	case int8:
		return Number(x)
	case int16:
		return Number(x)
	case int32:
		return Number(x)
	case int64:
		return Number(x)
	case uint:
		return Number(x)
	case uint8:
		return Number(x)
	case uint16:
		return Number(x)
	case uint32:
		return Number(x)
	case uint64:
		return Number(x)
	case time.Time:
		return DateTimeOf(x)
	case fmt.Stringer:
		return String(x.String())
	}
	return String(fmt.Sprint(x))
}
