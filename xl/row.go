package xl

import (
	"fmt"
	"strconv"
	"strings"
)

// Sheet extents.
const (
	MaxRows    = 1048576
	MaxColumns = 16384
)

// Row holds the populated cells of one sheet row plus its size overrides.
type Row struct {
	cells map[int]*Cell // keyed by 0-based column

	height    float64 // points, 0 = default
	format    *Format
	hidden    bool
	level     int
	collapsed bool
}

func (r *Row) custom() bool {
	return r.height > 0 || r.format != nil || r.hidden || r.level > 0 || r.collapsed
}

// Column holds width and style overrides of one sheet column.
type Column struct {
	Width     float64 // character units, 0 = default
	Format    *Format
	Hidden    bool
	Level     int
	Collapsed bool
}

// ColumnNumberAsLetters converts a 1-based column number to its letters.
func ColumnNumberAsLetters(n int) string {
	if n < 1 {
		panic("invalid column number")
	}
	var s string
	for n > 0 {
		s = string(rune((n-1)%26+65)) + s
		n = (n - 1) / 26
	}
	return s
}

// CellCoordAsString formats 1-based column and row numbers as "A1".
func CellCoordAsString(col, row int) string {
	if row < 1 {
		panic("invalid row number")
	}
	return ColumnNumberAsLetters(col) + strconv.Itoa(row)
}

// CellName formats zero-based coordinates, e.g. CellName(0, 0) == "A1".
func CellName(row, col int) string {
	return CellCoordAsString(col+1, row+1)
}

// ColumnName returns the letters of a zero-based column.
func ColumnName(col int) string {
	return ColumnNumberAsLetters(col + 1)
}

// ParseCell converts "B3" or "$B$3" into zero-based (row, col).
func ParseCell(ref string) (row, col int, err error) {
	s := strings.ReplaceAll(strings.ToUpper(ref), "$", "")
	i := 0
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		col = col*26 + int(s[i]-'A'+1)
		i++
		if col > MaxColumns {
			return 0, 0, fmt.Errorf("cell %q: %w", ref, ErrOutOfRange)
		}
	}
	if i == 0 || i == len(s) {
		return 0, 0, fmt.Errorf("cell %q: %w", ref, ErrInvalidRange)
	}
	row, err = strconv.Atoi(s[i:])
	if err != nil || row < 1 {
		return 0, 0, fmt.Errorf("cell %q: %w", ref, ErrInvalidRange)
	}
	if row > MaxRows {
		return 0, 0, fmt.Errorf("cell %q: %w", ref, ErrOutOfRange)
	}
	return row - 1, col - 1, nil
}

func checkCell(row, col int) error {
	if row < 0 || row >= MaxRows {
		return rangeErr("row", row, 0, MaxRows-1)
	}
	if col < 0 || col >= MaxColumns {
		return rangeErr("column", col, 0, MaxColumns-1)
	}
	return nil
}

// Range is a rectangular block of cells, zero-based and inclusive.
type Range struct {
	FirstRow, FirstCol int
	LastRow, LastCol   int
}

// RangeOf builds a range from two corners in any order.
func RangeOf(r1, c1, r2, c2 int) Range {
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	if c1 > c2 {
		c1, c2 = c2, c1
	}
	return Range{FirstRow: r1, FirstCol: c1, LastRow: r2, LastCol: c2}
}

// CellRange is the single-cell range at (row, col).
func CellRange(row, col int) Range {
	return Range{row, col, row, col}
}

// ParseRange accepts "A1:C5", "A1" and absolute forms.
func ParseRange(s string) (Range, error) {
	a, b, ok := strings.Cut(s, ":")
	r1, c1, err := ParseCell(a)
	if err != nil {
		return Range{}, err
	}
	if !ok {
		return CellRange(r1, c1), nil
	}
	r2, c2, err := ParseCell(b)
	if err != nil {
		return Range{}, err
	}
	return RangeOf(r1, c1, r2, c2), nil
}

func (r Range) validate() error {
	if err := checkCell(r.FirstRow, r.FirstCol); err != nil {
		return err
	}
	if err := checkCell(r.LastRow, r.LastCol); err != nil {
		return err
	}
	if r.FirstRow > r.LastRow || r.FirstCol > r.LastCol {
		return fmt.Errorf("range %d,%d:%d,%d: %w", r.FirstRow, r.FirstCol, r.LastRow, r.LastCol, ErrInvalidRange)
	}
	return nil
}

func (r Range) Rows() int { return r.LastRow - r.FirstRow + 1 }
func (r Range) Cols() int { return r.LastCol - r.FirstCol + 1 }

func (r Range) single() bool { return r.FirstRow == r.LastRow && r.FirstCol == r.LastCol }

// Contains reports whether (row, col) lies inside the range.
func (r Range) Contains(row, col int) bool {
	return row >= r.FirstRow && row <= r.LastRow && col >= r.FirstCol && col <= r.LastCol
}

// Overlaps reports whether the two ranges share at least one cell.
func (r Range) Overlaps(o Range) bool {
	return r.FirstRow <= o.LastRow && o.FirstRow <= r.LastRow &&
		r.FirstCol <= o.LastCol && o.FirstCol <= r.LastCol
}

func (r Range) String() string {
	if r.single() {
		return CellName(r.FirstRow, r.FirstCol)
	}
	return CellName(r.FirstRow, r.FirstCol) + ":" + CellName(r.LastRow, r.LastCol)
}

// abs renders the range with absolute references, "$A$1:$B$2".
func (r Range) abs() string {
	a := "$" + ColumnName(r.FirstCol) + "$" + strconv.Itoa(r.FirstRow+1)
	if r.single() {
		return a
	}
	return a + ":$" + ColumnName(r.LastCol) + "$" + strconv.Itoa(r.LastRow+1)
}
