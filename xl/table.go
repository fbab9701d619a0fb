package xl

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// TableStyleType is the family of a built-in table style.
type TableStyleType int

const (
	TableStyleDefault TableStyleType = iota // TableStyleMedium9
	TableStyleNone
	TableStyleLight
	TableStyleMedium
	TableStyleDark
)

// TotalFunction aggregates a column in the total row.
type TotalFunction string

const (
	TotalNone      TotalFunction = ""
	TotalAverage   TotalFunction = "average"
	TotalCountNums TotalFunction = "countNums"
	TotalCount     TotalFunction = "count"
	TotalMax       TotalFunction = "max"
	TotalMin       TotalFunction = "min"
	TotalStdDev    TotalFunction = "stdDev"
	TotalSum       TotalFunction = "sum"
	TotalVar       TotalFunction = "var"
)

// subtotal function numbers ignoring hidden rows.
var subtotalCodes = map[TotalFunction]int{
	TotalAverage:   101,
	TotalCountNums: 102,
	TotalCount:     103,
	TotalMax:       104,
	TotalMin:       105,
	TotalStdDev:    107,
	TotalSum:       109,
	TotalVar:       110,
}

// TableColumn describes one column of a table.
type TableColumn struct {
	Header        string // default "ColumnN"
	HeaderFormat  *Format
	Formula       string // calculated column formula, "[@Col]" style references allowed
	Format        *Format
	TotalLabel    string
	TotalFunction TotalFunction
	TotalValue    float64 // cached result of TotalFunction
}

// TableOptions configure AddTable. The zero value is a table with a header
// row, autofilter buttons, banded rows and the default style.
type TableOptions struct {
	Name          string // default "TableN"
	NoHeaderRow   bool
	NoAutofilter  bool
	NoBandedRows  bool
	BandedColumns bool
	FirstColumn   bool
	LastColumn    bool
	TotalRow      bool
	StyleType     TableStyleType
	StyleNumber   int
	Columns       []TableColumn
}

// Table is a structured range on a sheet.
type Table struct {
	id      int
	name    string
	ref     Range
	opts    TableOptions
	columns []TableColumn
}

func (t *Table) Name() string { return t.name }

func (t *Table) Range() Range { return t.ref }

// Columns returns the resolved column descriptions.
func (t *Table) Columns() []TableColumn {
	return append([]TableColumn(nil), t.columns...)
}

func (t *Table) autofilter() bool { return !t.opts.NoHeaderRow && !t.opts.NoAutofilter }

// dataRows is the body of the table, without header and total rows.
func (t *Table) dataRows() (first, last int) {
	first, last = t.ref.FirstRow, t.ref.LastRow
	if !t.opts.NoHeaderRow {
		first++
	}
	if t.opts.TotalRow {
		last--
	}
	return first, last
}

// filterRange excludes the total row.
func (t *Table) filterRange() Range {
	r := t.ref
	if t.opts.TotalRow {
		r.LastRow--
	}
	return r
}

func (t *Table) styleName() string {
	switch t.opts.StyleType {
	case TableStyleNone:
		return ""
	case TableStyleLight:
		return fmt.Sprintf("TableStyleLight%d", t.opts.StyleNumber)
	case TableStyleMedium:
		return fmt.Sprintf("TableStyleMedium%d", t.opts.StyleNumber)
	case TableStyleDark:
		return fmt.Sprintf("TableStyleDark%d", t.opts.StyleNumber)
	}
	return "TableStyleMedium9"
}

// calculated expands "@" shorthand into a full this-row reference.
func (t *Table) calculated(formula string) string {
	f := strings.TrimPrefix(strings.TrimSpace(formula), "=")
	return strings.ReplaceAll(f, "@", "[#This Row],")
}

func (t *Table) totalFormula(c TableColumn) string {
	return fmt.Sprintf("SUBTOTAL(%d,%s[%s])", subtotalCodes[c.TotalFunction], t.name, escapeColumnName(c.Header))
}

// escapeColumnName escapes the characters special inside a structured
// reference.
func escapeColumnName(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '[', ']', '#', '\'':
			b.WriteByte('\'')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func validateTableStyle(o *TableOptions) error {
	var hi int
	switch o.StyleType {
	case TableStyleDefault, TableStyleNone:
		return nil
	case TableStyleLight:
		hi = 21
	case TableStyleMedium:
		hi = 28
	case TableStyleDark:
		hi = 11
	default:
		return fmt.Errorf("table style type %d: %w", o.StyleType, ErrOutOfRange)
	}
	if o.StyleNumber < 1 || o.StyleNumber > hi {
		return rangeErr("table style number", o.StyleNumber, 1, hi)
	}
	return nil
}

// AddTable turns r into a table. Header labels and total row cells are
// written into the grid; column formulas fill the data rows.
func (s *Sheet) AddTable(r Range, opts *TableOptions) (*Table, error) {
	wb := s.workbook
	var o TableOptions
	if opts != nil {
		o = *opts
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	minRows := 1
	if !o.NoHeaderRow {
		minRows++
	}
	if o.TotalRow {
		minRows++
	}
	if r.Rows() < minRows {
		return nil, fmt.Errorf("table %s needs at least %d rows: %w", r, minRows, ErrInvalidRange)
	}
	if len(o.Columns) > 0 && len(o.Columns) != r.Cols() {
		return nil, fmt.Errorf("table %s has %d columns, %d described: %w", r, r.Cols(), len(o.Columns), ErrColumnCountMismatch)
	}
	if err := validateTableStyle(&o); err != nil {
		return nil, err
	}
	for _, other := range s.tables {
		if other.ref.Overlaps(r) {
			return nil, fmt.Errorf("table %s overlaps table %s: %w", r, other.name, ErrOverlappingTable)
		}
	}
	for _, m := range s.merges {
		if m.Overlaps(r) {
			return nil, fmt.Errorf("table %s overlaps merge %s: %w", r, m, ErrOverlappingMerge)
		}
	}

	if s.autoFilter != nil && !o.NoHeaderRow && !o.NoAutofilter && s.autoFilter.Overlaps(r) {
		return nil, fmt.Errorf("table %s overlaps the sheet autofilter %s: %w", r, s.autoFilter, ErrOverlappingTable)
	}

	id := wb.lastTableID + 1
	name := o.Name
	if name == "" {
		for n := id; ; n++ {
			name = fmt.Sprintf("Table%d", n)
			if !wb.tableNames[foldName(name)] {
				break
			}
		}
	} else {
		if err := validateDefinedName(name); err != nil {
			return nil, err
		}
		if strings.ContainsAny(name, " ") {
			return nil, fmt.Errorf("table name %q: %w", name, ErrInvalidRange)
		}
	}
	if wb.tableNames[foldName(name)] {
		return nil, fmt.Errorf("table name %q: %w", name, ErrDuplicateName)
	}

	t := &Table{id: id, name: name, ref: r, opts: o}
	t.columns = make([]TableColumn, r.Cols())
	seen := map[string]bool{}
	for i := range t.columns {
		var c TableColumn
		if len(o.Columns) > 0 {
			c = o.Columns[i]
		}
		if c.Header == "" {
			c.Header = fmt.Sprintf("Column%d", i+1)
		}
		if n := utf8.RuneCountInString(c.Header); n > 255 {
			return nil, fmt.Errorf("table header of %d characters: %w", n, ErrStringTooLong)
		}
		if seen[foldName(c.Header)] {
			return nil, fmt.Errorf("table header %q: %w", c.Header, ErrDuplicateName)
		}
		seen[foldName(c.Header)] = true
		if c.TotalFunction != TotalNone {
			if _, ok := subtotalCodes[c.TotalFunction]; !ok {
				return nil, fmt.Errorf("total function %q: %w", c.TotalFunction, ErrInvalidFormula)
			}
			if err := checkFinite(c.TotalValue); err != nil {
				return nil, err
			}
		}
		if err := checkText(c.TotalLabel); err != nil {
			return nil, err
		}
		if c.Formula != "" {
			if _, err := prepareFormula(t.calculated(c.Formula)); err != nil {
				return nil, fmt.Errorf("column %q: %w", c.Header, err)
			}
		}
		if err := s.checkFormat(c.HeaderFormat); err != nil {
			return nil, err
		}
		if err := s.checkFormat(c.Format); err != nil {
			return nil, err
		}
		t.columns[i] = c
	}

	wb.lastTableID = id
	wb.tableNames[foldName(name)] = true
	s.tables = append(s.tables, t)

	first, last := t.dataRows()
	for i, c := range t.columns {
		col := r.FirstCol + i
		if !o.NoHeaderRow {
			s.store(r.FirstRow, col, String(c.Header), c.HeaderFormat)
		}
		if c.Formula != "" {
			for row := first; row <= last; row++ {
				s.store(row, col, Formula{Expr: t.calculated(c.Formula)}, c.Format)
			}
		}
		if o.TotalRow {
			switch {
			case c.TotalLabel != "":
				s.store(r.LastRow, col, String(c.TotalLabel), nil)
			case c.TotalFunction != TotalNone:
				s.store(r.LastRow, col, Formula{Expr: t.totalFormula(c), Result: c.TotalValue}, c.Format)
			}
		}
	}
	return t, nil
}

// Tables lists the sheet's tables in creation order.
func (s *Sheet) Tables() []*Table {
	return append([]*Table(nil), s.tables...)
}
