package xl

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Style is the structural description of a cell format. Styles are
// comparable values: two styles with equal fields intern to the same Format.
type Style struct {
	Font       Font
	Fill       Fill
	Border     Border
	NumFmt     string // number format code, "" = General
	Alignment  Alignment
	Protection Protection
}

// Format is an interned, immutable cell style handle obtained from
// Workbook.AddFormat. The zero index is the workbook default format.
type Format struct {
	id    int
	style Style
}

// Index is the shared cell-format (xf) index of the format.
func (f *Format) Index() int {
	if f == nil {
		return 0
	}
	return f.id
}

// Style returns a copy of the format descriptor.
func (f *Format) Style() Style {
	if f == nil {
		return Style{}
	}
	return f.style
}

// PatternType enumerates fill patterns (ST_PatternType).
type PatternType string

const (
	PatternNone            PatternType = ""
	PatternSolid           PatternType = "solid"
	PatternMediumGray      PatternType = "mediumGray"
	PatternDarkGray        PatternType = "darkGray"
	PatternLightGray       PatternType = "lightGray"
	PatternDarkHorizontal  PatternType = "darkHorizontal"
	PatternDarkVertical    PatternType = "darkVertical"
	PatternDarkDown        PatternType = "darkDown"
	PatternDarkUp          PatternType = "darkUp"
	PatternDarkGrid        PatternType = "darkGrid"
	PatternDarkTrellis     PatternType = "darkTrellis"
	PatternLightHorizontal PatternType = "lightHorizontal"
	PatternLightVertical   PatternType = "lightVertical"
	PatternLightDown       PatternType = "lightDown"
	PatternLightUp         PatternType = "lightUp"
	PatternLightGrid       PatternType = "lightGrid"
	PatternLightTrellis    PatternType = "lightTrellis"
	PatternGray125         PatternType = "gray125"
	PatternGray0625        PatternType = "gray0625"
)

// Fill is a pattern fill. For solid fills only FgColor matters.
type Fill struct {
	Pattern PatternType
	FgColor Color
	BgColor Color
}

// SolidFill is a shortcut for a solid background.
func SolidFill(c Color) Fill {
	return Fill{Pattern: PatternSolid, FgColor: c}
}

// BorderStyle enumerates line styles (ST_BorderStyle).
type BorderStyle string

const (
	BorderNone             BorderStyle = ""
	BorderThin             BorderStyle = "thin"
	BorderMedium           BorderStyle = "medium"
	BorderDashed           BorderStyle = "dashed"
	BorderDotted           BorderStyle = "dotted"
	BorderThick            BorderStyle = "thick"
	BorderDouble           BorderStyle = "double"
	BorderHair             BorderStyle = "hair"
	BorderMediumDashed     BorderStyle = "mediumDashed"
	BorderDashDot          BorderStyle = "dashDot"
	BorderMediumDashDot    BorderStyle = "mediumDashDot"
	BorderDashDotDot       BorderStyle = "dashDotDot"
	BorderMediumDashDotDot BorderStyle = "mediumDashDotDot"
	BorderSlantDashDot     BorderStyle = "slantDashDot"
)

type BorderLine struct {
	Style BorderStyle
	Color Color
}

type Border struct {
	Left, Right, Top, Bottom BorderLine
	Diagonal                 BorderLine
	DiagonalUp, DiagonalDown bool
}

// BorderAround draws the same line on all four sides.
func BorderAround(style BorderStyle, c Color) Border {
	l := BorderLine{Style: style, Color: c}
	return Border{Left: l, Right: l, Top: l, Bottom: l}
}

type HAlign string

const (
	HAlignGeneral          HAlign = ""
	HAlignLeft             HAlign = "left"
	HAlignCenter           HAlign = "center"
	HAlignRight            HAlign = "right"
	HAlignFill             HAlign = "fill"
	HAlignJustify          HAlign = "justify"
	HAlignCenterContinuous HAlign = "centerContinuous"
	HAlignDistributed      HAlign = "distributed"
)

type VAlign string

const (
	VAlignBottom      VAlign = ""
	VAlignTop         VAlign = "top"
	VAlignCenter      VAlign = "center"
	VAlignJustify     VAlign = "justify"
	VAlignDistributed VAlign = "distributed"
)

type Alignment struct {
	Horizontal  HAlign
	Vertical    VAlign
	WrapText    bool
	ShrinkToFit bool
	Indent      int
	Rotation    int // -90..90, or 255 for stacked text
}

// Protection overrides the default locked state of a cell. Only meaningful
// on protected sheets.
type Protection struct {
	Unlocked bool
	Hidden   bool
}

func (s *Style) validate() error {
	if s.Font.Size < 0 || s.Font.Size > 409 {
		return fmt.Errorf("font size %g: %w", s.Font.Size, ErrOutOfRange)
	}
	if utf8.RuneCountInString(s.Font.Name) > 31 {
		return fmt.Errorf("font name %q: %w", s.Font.Name, ErrStringTooLong)
	}
	if s.Alignment.Indent < 0 || s.Alignment.Indent > 250 {
		return rangeErr("indent", s.Alignment.Indent, 0, 250)
	}
	if r := s.Alignment.Rotation; r != 255 && (r < -90 || r > 90) {
		return rangeErr("rotation", r, -90, 90)
	}
	if utf8.RuneCountInString(s.NumFmt) > 255 {
		return fmt.Errorf("number format: %w", ErrStringTooLong)
	}
	return nil
}

func (s Style) hasAlignment() bool  { return s.Alignment != Alignment{} }
func (s Style) hasProtection() bool { return s.Protection != Protection{} }

func (a Alignment) textRotation() int {
	if a.Rotation < 0 {
		return 90 - a.Rotation
	}
	return a.Rotation
}

var builtinNumFmt = map[int]string{
	0:  "General",
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	12: "# ?/?",
	13: "# ??/??",
	14: "mm-dd-yy",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "h:mm",
	21: "h:mm:ss",
	22: "m/d/yy h:mm",
	37: "#,##0 ;(#,##0)",
	38: "#,##0 ;[Red](#,##0)",
	39: "#,##0.00;(#,##0.00)",
	40: "#,##0.00;[Red](#,##0.00)",
	41: `_(* #,##0_);_(* \(#,##0\);_(* "-"_);_(@_)`,
	42: `_("$"* #,##0_);_("$"* \(#,##0\);_("$"* "-"_);_(@_)`,
	43: `_(* #,##0.00_);_(* \(#,##0.00\);_(* "-"??_);_(@_)`,
	44: `_("$"* #,##0.00_);_("$"* \(#,##0.00\);_("$"* "-"??_);_(@_)`,
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mmss.0",
	48: "##0.0E+0",
	49: "@",
}

var builtinNumFmtInv = make(map[string]int, len(builtinNumFmt))

func init() {
	for k, v := range builtinNumFmt {
		builtinNumFmtInv[strings.ToLower(v)] = k
	}
}

// firstCustomNumFmt is the first id available to user number formats.
const firstCustomNumFmt = 164

func builtinNumFmtID(code string) (int, bool) {
	if code == "" {
		return 0, true
	}
	id, ok := builtinNumFmtInv[strings.ToLower(code)]
	return id, ok
}
