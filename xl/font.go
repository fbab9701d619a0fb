package xl

// Font is the character formatting of a cell or a rich text run.
// Zero fields fall back to the workbook default (Calibri 11, theme color).
type Font struct {
	Name          string
	Size          float64 // points
	Bold          bool
	Italic        bool
	Underline     UnderlineType
	Strikethrough bool
	Color         Color
	Script        ScriptType
}

// UnderlineType is ST_UnderlineValues.
type UnderlineType string

const (
	UnderlineNone             UnderlineType = ""
	UnderlineSingle           UnderlineType = "single"
	UnderlineDouble           UnderlineType = "double"
	UnderlineSingleAccounting UnderlineType = "singleAccounting"
	UnderlineDoubleAccounting UnderlineType = "doubleAccounting"
)

// ScriptType raises or lowers the run (ST_VerticalAlignRun).
type ScriptType string

const (
	ScriptNone        ScriptType = ""
	ScriptSuperscript ScriptType = "superscript"
	ScriptSubscript   ScriptType = "subscript"
)

const (
	defaultFontName = "Calibri"
	defaultFontSize = 11.0
)

// IsDefault reports whether no font property is set.
func (f *Font) IsDefault() bool {
	return *f == Font{}
}

func (f Font) name() string {
	if f.Name == "" {
		return defaultFontName
	}
	return f.Name
}

func (f Font) size() float64 {
	if f.Size <= 0 {
		return defaultFontSize
	}
	return f.Size
}
