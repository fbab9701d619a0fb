package xl

// Cell is a populated grid position: a value and an optional format.
type Cell struct {
	value  Value
	format *Format

	sid int // shared-string id for String, RichString and URL cells
}

// PictureInfo is image data placed inside a cell.
type PictureInfo struct {
	Extension string
	Blob      []byte
}

// CellType is the type of cell value type.
type CellType int

// Cell value types enumeration.
const (
	CellTypeUnset CellType = iota
	CellTypeBlank
	CellTypeBool
	CellTypeDateTime
	CellTypeFormula
	CellTypeArrayFormula
	CellTypeNumber
	CellTypeString
	CellTypeRichString
	CellTypeURL

	// internal
	cellTypePicture
)

// Value is one of Number, String, Formula, ArrayFormula, Bool, Blank,
// RichString, URL or DateTime.
type Value interface {
	cellType() CellType
}

type (
	// Number is a finite floating point value.
	Number float64

	// String is stored in the shared-string table.
	String string

	Bool bool

	// Blank is a format-only cell. Writing Blank without a format clears
	// the cell.
	Blank struct{}

	// RichString is an ordered list of text runs with their own fonts.
	RichString []TextRun
)

// Formula is a cell formula without the leading '='. Result is the cached
// value shown before recalculation: nil, float64, string or bool.
type Formula struct {
	Expr   string
	Result any
}

// ArrayFormula is a CSE formula spilling over Range. It is stored in the
// top-left cell of Range.
type ArrayFormula struct {
	Range  Range
	Expr   string
	Result any
}

// URL is a hyperlink. Text overrides the displayed string; Tip is the
// hover tooltip. Targets starting with "internal:" point into the workbook.
type URL struct {
	Target string
	Text   string
	Tip    string
}

// DateTime is a calendar date and wall-clock time, stored as a serial
// number with a date number format.
type DateTime struct {
	Year, Month, Day int
	Hour, Minute     int
	Second           float64
}

func (Number) cellType() CellType       { return CellTypeNumber }
func (String) cellType() CellType       { return CellTypeString }
func (Bool) cellType() CellType         { return CellTypeBool }
func (Blank) cellType() CellType        { return CellTypeBlank }
func (RichString) cellType() CellType   { return CellTypeRichString }
func (Formula) cellType() CellType      { return CellTypeFormula }
func (ArrayFormula) cellType() CellType { return CellTypeArrayFormula }
func (URL) cellType() CellType          { return CellTypeURL }
func (DateTime) cellType() CellType     { return CellTypeDateTime }

type embeddedPicture struct {
	*PictureInfo
}

func (embeddedPicture) cellType() CellType { return cellTypePicture }

// Type reports the kind of value stored in the cell.
func (c *Cell) Type() CellType {
	if c == nil || c.value == nil {
		return CellTypeUnset
	}
	t := c.value.cellType()
	if t == cellTypePicture {
		return CellTypeUnset
	}
	return t
}

// Value returns the value as written.
func (c *Cell) Value() Value {
	if c == nil {
		return nil
	}
	if _, ok := c.value.(embeddedPicture); ok {
		return nil
	}
	return c.value
}

// Format returns the cell format, nil for the default.
func (c *Cell) Format() *Format {
	if c == nil {
		return nil
	}
	return c.format
}

// Picture returns the embedded picture, if any.
func (c *Cell) Picture() *PictureInfo {
	if c == nil {
		return nil
	}
	if p, ok := c.value.(embeddedPicture); ok {
		return p.PictureInfo
	}
	return nil
}
