package xl

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ConditionalFormat attaches a rule to a range. Format is the differential
// format applied when the rule matches; color scales, data bars and icon
// sets ignore it.
type ConditionalFormat struct {
	Rule       Rule
	Format     *Format
	StopIfTrue bool

	// MultiRange, e.g. "A1:A5 C1:C5", replaces the range passed to
	// AddConditionalFormat.
	MultiRange string
}

// Rule is one of the conditional formatting rule kinds: CellRule,
// TextRule, TimePeriodRule, AverageRule, DuplicateRule, UniqueRule,
// TopRule, BottomRule, BlanksRule, NoBlanksRule, ErrorsRule, NoErrorsRule,
// FormulaRule, TwoColorScaleRule, ThreeColorScaleRule, DataBarRule and
// IconSetRule.
type Rule interface {
	ruleKind() string
	validate() error
}

// Operand is a rule or validation argument: a number or a formula
// expression such as "$B$1" or "\"text\"".
type Operand struct {
	expr string
	num  float64
	kind operandKind
}

type operandKind uint8

const (
	operandUnset operandKind = iota
	operandNum
	operandExpr
)

// Num is a numeric operand.
func Num(v float64) Operand { return Operand{num: v, kind: operandNum} }

// Expr is a formula operand, with or without the leading '='.
func Expr(s string) Operand {
	return Operand{expr: strings.TrimPrefix(strings.TrimSpace(s), "="), kind: operandExpr}
}

// Str is a string literal operand.
func Str(s string) Operand { return Expr(quote(s)) }

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// IsSet reports whether the operand carries a value.
func (o Operand) IsSet() bool { return o.kind != operandUnset }

// String renders the operand as formula text.
func (o Operand) String() string {
	switch o.kind {
	case operandNum:
		return strconv.FormatFloat(o.num, 'g', -1, 64)
	case operandExpr:
		return prefixFutureFunctions(o.expr)
	}
	return ""
}

func (o Operand) validate(kind, field string) error {
	switch o.kind {
	case operandUnset:
		return ruleErr(kind, field, "value required")
	case operandNum:
		if checkFinite(o.num) != nil {
			return ruleErr(kind, field, "not a finite number")
		}
	case operandExpr:
		if _, err := prepareFormula(o.expr); err != nil {
			return ruleErr(kind, field, err.Error())
		}
	}
	return nil
}

// Criterion is a cell comparison operator.
type Criterion int

const (
	EqualTo Criterion = iota + 1
	NotEqualTo
	GreaterThan
	LessThan
	GreaterThanOrEqualTo
	LessThanOrEqualTo
	Between
	NotBetween
)

var criterionNames = map[Criterion]string{
	EqualTo:              "equal",
	NotEqualTo:           "notEqual",
	GreaterThan:          "greaterThan",
	LessThan:             "lessThan",
	GreaterThanOrEqualTo: "greaterThanOrEqual",
	LessThanOrEqualTo:    "lessThanOrEqual",
	Between:              "between",
	NotBetween:           "notBetween",
}

func (c Criterion) operator() string { return criterionNames[c] }

func (c Criterion) ranged() bool { return c == Between || c == NotBetween }

// validateOperands checks the operands a criterion needs: Min and Max for
// ranged criteria, Value otherwise.
func (c Criterion) validateOperands(kind string, value, lo, hi Operand) error {
	if _, ok := criterionNames[c]; !ok {
		return ruleErr(kind, "Criterion", fmt.Sprintf("unknown criterion %d", c))
	}
	if c.ranged() {
		if err := lo.validate(kind, "Min"); err != nil {
			return err
		}
		return hi.validate(kind, "Max")
	}
	return value.validate(kind, "Value")
}

// CellRule compares the cell value against Value, or Min..Max for Between
// and NotBetween.
type CellRule struct {
	Criterion Criterion
	Value     Operand
	Min, Max  Operand
}

func (r CellRule) ruleKind() string { return "cell" }

func (r CellRule) validate() error {
	return r.Criterion.validateOperands(r.ruleKind(), r.Value, r.Min, r.Max)
}

// TextCriterion selects a text match.
type TextCriterion int

const (
	TextContaining TextCriterion = iota + 1
	TextNotContaining
	TextBeginsWith
	TextEndsWith
)

// TextRule matches cells by their text.
type TextRule struct {
	Criterion TextCriterion
	Value     string
}

func (r TextRule) ruleKind() string { return "text" }

func (r TextRule) validate() error {
	if r.Criterion < TextContaining || r.Criterion > TextEndsWith {
		return ruleErr(r.ruleKind(), "Criterion", fmt.Sprintf("unknown criterion %d", r.Criterion))
	}
	if r.Value == "" {
		return ruleErr(r.ruleKind(), "Value", "text required")
	}
	if utf8.RuneCountInString(r.Value) > 255 {
		return ruleErr(r.ruleKind(), "Value", "longer than 255 characters")
	}
	return nil
}

// TimePeriod is a date range relative to today.
type TimePeriod int

const (
	Yesterday TimePeriod = iota + 1
	Today
	Tomorrow
	Last7Days
	LastWeek
	ThisWeek
	NextWeek
	LastMonth
	ThisMonth
	NextMonth
)

var timePeriodNames = map[TimePeriod]string{
	Yesterday: "yesterday",
	Today:     "today",
	Tomorrow:  "tomorrow",
	Last7Days: "last7Days",
	LastWeek:  "lastWeek",
	ThisWeek:  "thisWeek",
	NextWeek:  "nextWeek",
	LastMonth: "lastMonth",
	ThisMonth: "thisMonth",
	NextMonth: "nextMonth",
}

// TimePeriodRule matches dates within a period.
type TimePeriodRule struct {
	Period TimePeriod
}

func (r TimePeriodRule) ruleKind() string { return "time period" }

func (r TimePeriodRule) validate() error {
	if _, ok := timePeriodNames[r.Period]; !ok {
		return ruleErr(r.ruleKind(), "Period", fmt.Sprintf("unknown period %d", r.Period))
	}
	return nil
}

// AverageCriterion compares a cell with the range average.
type AverageCriterion int

const (
	AboveAverage AverageCriterion = iota + 1
	BelowAverage
	EqualOrAboveAverage
	EqualOrBelowAverage
	OneStdDevAbove
	OneStdDevBelow
	TwoStdDevAbove
	TwoStdDevBelow
	ThreeStdDevAbove
	ThreeStdDevBelow
)

// AverageRule matches cells above or below the average.
type AverageRule struct {
	Criterion AverageCriterion
}

func (r AverageRule) ruleKind() string { return "average" }

func (r AverageRule) validate() error {
	if r.Criterion < AboveAverage || r.Criterion > ThreeStdDevBelow {
		return ruleErr(r.ruleKind(), "Criterion", fmt.Sprintf("unknown criterion %d", r.Criterion))
	}
	return nil
}

// above, equal and stdDev attributes of the rule.
func (r AverageRule) params() (above, equal bool, stdDev int) {
	switch r.Criterion {
	case AboveAverage:
		return true, false, 0
	case BelowAverage:
		return false, false, 0
	case EqualOrAboveAverage:
		return true, true, 0
	case EqualOrBelowAverage:
		return false, true, 0
	}
	n := int(r.Criterion-OneStdDevAbove)/2 + 1
	return (r.Criterion-OneStdDevAbove)%2 == 0, false, n
}

// DuplicateRule matches values occurring more than once in the range.
type DuplicateRule struct{}

// UniqueRule matches values occurring once in the range.
type UniqueRule struct{}

// BlanksRule matches empty or whitespace-only cells.
type BlanksRule struct{}

type NoBlanksRule struct{}

// ErrorsRule matches cells holding an error value.
type ErrorsRule struct{}

type NoErrorsRule struct{}

func (DuplicateRule) ruleKind() string { return "duplicate" }
func (UniqueRule) ruleKind() string    { return "unique" }
func (BlanksRule) ruleKind() string    { return "blanks" }
func (NoBlanksRule) ruleKind() string  { return "no blanks" }
func (ErrorsRule) ruleKind() string    { return "errors" }
func (NoErrorsRule) ruleKind() string  { return "no errors" }

func (DuplicateRule) validate() error { return nil }
func (UniqueRule) validate() error    { return nil }
func (BlanksRule) validate() error    { return nil }
func (NoBlanksRule) validate() error  { return nil }
func (ErrorsRule) validate() error    { return nil }
func (NoErrorsRule) validate() error  { return nil }

// TopRule matches the Rank highest values, or the top Rank percent.
type TopRule struct {
	Rank    int
	Percent bool
}

// BottomRule matches the Rank lowest values, or the bottom Rank percent.
type BottomRule struct {
	Rank    int
	Percent bool
}

func (r TopRule) ruleKind() string    { return "top" }
func (r BottomRule) ruleKind() string { return "bottom" }

func (r TopRule) validate() error    { return validateRank(r.ruleKind(), r.Rank, r.Percent) }
func (r BottomRule) validate() error { return validateRank(r.ruleKind(), r.Rank, r.Percent) }

func validateRank(kind string, rank int, percent bool) error {
	if percent {
		if rank < 0 || rank > 100 {
			return ruleErr(kind, "Rank", "percent rank must be in 0..100")
		}
		return nil
	}
	if rank < 1 || rank > 1000 {
		return ruleErr(kind, "Rank", "rank must be in 1..1000")
	}
	return nil
}

// FormulaRule matches when Formula, evaluated relative to the top-left
// cell of the range, is true.
type FormulaRule struct {
	Formula string
}

func (r FormulaRule) ruleKind() string { return "formula" }

func (r FormulaRule) validate() error {
	if strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(r.Formula), "=")) == "" {
		return ruleErr(r.ruleKind(), "Formula", "expression required")
	}
	if _, err := prepareFormula(r.Formula); err != nil {
		return ruleErr(r.ruleKind(), "Formula", err.Error())
	}
	return nil
}

// ScaleType selects how a color scale or data bar point is computed.
type ScaleType int

const (
	ScaleAuto ScaleType = iota // kind's default
	ScaleMinimum
	ScaleNumber
	ScalePercent
	ScalePercentile
	ScaleFormula
	ScaleMaximum
)

var scaleTypeNames = map[ScaleType]string{
	ScaleMinimum:    "min",
	ScaleNumber:     "num",
	ScalePercent:    "percent",
	ScalePercentile: "percentile",
	ScaleFormula:    "formula",
	ScaleMaximum:    "max",
}

// ScalePoint is one stop of a color scale, data bar or icon set.
type ScalePoint struct {
	Type  ScaleType
	Value Operand
	Color Color
}

func (p ScalePoint) validate(kind, field string) error {
	switch p.Type {
	case ScaleAuto, ScaleMinimum, ScaleMaximum:
		return nil
	case ScaleNumber, ScaleFormula:
		return p.Value.validate(kind, field+".Value")
	case ScalePercent, ScalePercentile:
		if err := p.Value.validate(kind, field+".Value"); err != nil {
			return err
		}
		if p.Value.kind == operandNum && (p.Value.num < 0 || p.Value.num > 100) {
			return ruleErr(kind, field+".Value", "percent must be in 0..100")
		}
		return nil
	}
	return ruleErr(kind, field+".Type", fmt.Sprintf("unknown scale type %d", p.Type))
}

// resolve fills defaults: the given type when unset, a zero value for
// types that need one, and the default color.
func (p ScalePoint) resolve(t ScaleType, v float64, c Color) ScalePoint {
	if p.Type == ScaleAuto {
		p.Type = t
		if !p.Value.IsSet() {
			p.Value = Num(v)
		}
	}
	if !p.Value.IsSet() {
		p.Value = Num(0)
	}
	if p.Color.IsAuto() {
		p.Color = c
	}
	return p
}

// Default color scale and data bar colors.
const (
	ColorScale2Min   Color = 0xFFFF7128
	ColorScale2Max   Color = 0xFFFFEF9C
	ColorScale3Min   Color = 0xFFF8696B
	ColorScale3Mid   Color = 0xFFFFEB84
	ColorScale3Max   Color = 0xFF63BE7B
	DataBarColor     Color = 0xFF638EC6
	DataBarNegColor  Color = 0xFFFF0000
	DataBarAxisColor Color = 0xFF000000
)

// TwoColorScaleRule shades cells between two colors.
type TwoColorScaleRule struct {
	Min, Max ScalePoint
}

func (r TwoColorScaleRule) ruleKind() string { return "2 color scale" }

func (r TwoColorScaleRule) validate() error {
	if err := r.Min.validate(r.ruleKind(), "Min"); err != nil {
		return err
	}
	return r.Max.validate(r.ruleKind(), "Max")
}

func (r TwoColorScaleRule) points() []ScalePoint {
	return []ScalePoint{
		r.Min.resolve(ScaleMinimum, 0, ColorScale2Min),
		r.Max.resolve(ScaleMaximum, 0, ColorScale2Max),
	}
}

// ThreeColorScaleRule shades cells between three colors.
type ThreeColorScaleRule struct {
	Min, Mid, Max ScalePoint
}

func (r ThreeColorScaleRule) ruleKind() string { return "3 color scale" }

func (r ThreeColorScaleRule) validate() error {
	if err := r.Min.validate(r.ruleKind(), "Min"); err != nil {
		return err
	}
	if err := r.Mid.validate(r.ruleKind(), "Mid"); err != nil {
		return err
	}
	return r.Max.validate(r.ruleKind(), "Max")
}

func (r ThreeColorScaleRule) points() []ScalePoint {
	return []ScalePoint{
		r.Min.resolve(ScaleMinimum, 0, ColorScale3Min),
		r.Mid.resolve(ScalePercentile, 50, ColorScale3Mid),
		r.Max.resolve(ScaleMaximum, 0, ColorScale3Max),
	}
}

// BarDirection is the fill direction of data bars.
type BarDirection int

const (
	BarDirectionContext BarDirection = iota
	BarDirectionRightToLeft
	BarDirectionLeftToRight
)

// AxisPosition places the axis of data bars with negative values.
type AxisPosition int

const (
	AxisAutomatic AxisPosition = iota
	AxisMidpoint
	AxisNone
)

// DataBarRule draws an in-cell bar proportional to the value. Unless
// Classic is set the Excel 2010 extensions (solid fills, borders, negative
// colors, axis, direction) are written too.
type DataBarRule struct {
	Min, Max ScalePoint // Color is ignored

	BarColor            Color
	BorderColor         Color
	NegativeColor       Color
	NegativeBorderColor Color
	AxisColor           Color

	NegativeSameAsPositive       bool
	NegativeBorderSameAsPositive bool
	NoBorder                     bool
	Solid                        bool
	BarOnly                      bool
	Direction                    BarDirection
	Axis                         AxisPosition
	Classic                      bool
}

func (r DataBarRule) ruleKind() string { return "data bar" }

func (r DataBarRule) validate() error {
	if err := r.Min.validate(r.ruleKind(), "Min"); err != nil {
		return err
	}
	if err := r.Max.validate(r.ruleKind(), "Max"); err != nil {
		return err
	}
	if r.Direction < BarDirectionContext || r.Direction > BarDirectionLeftToRight {
		return ruleErr(r.ruleKind(), "Direction", fmt.Sprintf("unknown direction %d", r.Direction))
	}
	if r.Axis < AxisAutomatic || r.Axis > AxisNone {
		return ruleErr(r.ruleKind(), "Axis", fmt.Sprintf("unknown axis position %d", r.Axis))
	}
	if r.Min.Type == ScaleMaximum {
		return ruleErr(r.ruleKind(), "Min.Type", "maximum is not a valid minimum")
	}
	if r.Max.Type == ScaleMinimum {
		return ruleErr(r.ruleKind(), "Max.Type", "minimum is not a valid maximum")
	}
	return nil
}

// resolved returns the rule with every default color filled in.
func (r DataBarRule) resolved() DataBarRule {
	if r.BarColor.IsAuto() {
		r.BarColor = DataBarColor
	}
	if r.BorderColor.IsAuto() {
		r.BorderColor = r.BarColor
	}
	if r.NegativeColor.IsAuto() {
		r.NegativeColor = DataBarNegColor
	}
	if r.NegativeSameAsPositive {
		r.NegativeColor = r.BarColor
	}
	if r.NegativeBorderColor.IsAuto() {
		r.NegativeBorderColor = DataBarNegColor
	}
	if r.NegativeBorderSameAsPositive {
		r.NegativeBorderColor = r.BorderColor
	}
	if r.AxisColor.IsAuto() {
		r.AxisColor = DataBarAxisColor
	}
	return r
}

// IconStyle names a built-in icon set.
type IconStyle string

const (
	Icons3Arrows         IconStyle = "3Arrows"
	Icons3ArrowsGray     IconStyle = "3ArrowsGray"
	Icons3Flags          IconStyle = "3Flags"
	Icons3TrafficLights  IconStyle = "3TrafficLights1"
	Icons3TrafficLights2 IconStyle = "3TrafficLights2"
	Icons3Signs          IconStyle = "3Signs"
	Icons3Symbols        IconStyle = "3Symbols"
	Icons3Symbols2       IconStyle = "3Symbols2"
	Icons4Arrows         IconStyle = "4Arrows"
	Icons4ArrowsGray     IconStyle = "4ArrowsGray"
	Icons4RedToBlack     IconStyle = "4RedToBlack"
	Icons4Rating         IconStyle = "4Rating"
	Icons4TrafficLights  IconStyle = "4TrafficLights"
	Icons5Arrows         IconStyle = "5Arrows"
	Icons5ArrowsGray     IconStyle = "5ArrowsGray"
	Icons5Rating         IconStyle = "5Rating"
	Icons5Quarters       IconStyle = "5Quarters"
)

func (s IconStyle) count() int {
	switch {
	case strings.HasPrefix(string(s), "3"):
		return 3
	case strings.HasPrefix(string(s), "4"):
		return 4
	case strings.HasPrefix(string(s), "5"):
		return 5
	}
	return 0
}

// IconThreshold is the lower bound of an icon beyond the first.
type IconThreshold struct {
	Type        ScaleType // Number, Percent, Percentile or Formula
	Value       Operand
	GreaterThan bool // strict comparison instead of >=
}

// IconSetRule shows an icon chosen by the value. Thresholds, when given,
// hold one entry per icon after the first.
type IconSetRule struct {
	Style      IconStyle
	Reverse    bool
	IconsOnly  bool
	Thresholds []IconThreshold
}

func (r IconSetRule) ruleKind() string { return "icon set" }

func (r IconSetRule) validate() error {
	n := r.Style.count()
	if n == 0 {
		return ruleErr(r.ruleKind(), "Style", fmt.Sprintf("unknown icon style %q", r.Style))
	}
	if len(r.Thresholds) > 0 && len(r.Thresholds) != n-1 {
		return ruleErr(r.ruleKind(), "Thresholds", fmt.Sprintf("%s needs %d thresholds, got %d", r.Style, n-1, len(r.Thresholds)))
	}
	for i, t := range r.Thresholds {
		p := ScalePoint{Type: t.Type, Value: t.Value}
		if t.Type == ScaleAuto || t.Type == ScaleMinimum || t.Type == ScaleMaximum {
			return ruleErr(r.ruleKind(), fmt.Sprintf("Thresholds[%d].Type", i), "number, percent, percentile or formula required")
		}
		if err := p.validate(r.ruleKind(), fmt.Sprintf("Thresholds[%d]", i)); err != nil {
			return err
		}
	}
	return nil
}

// thresholds returns explicit or default thresholds, percent steps spread
// evenly over the icons.
func (r IconSetRule) thresholds() []IconThreshold {
	if len(r.Thresholds) > 0 {
		return r.Thresholds
	}
	n := r.Style.count()
	out := make([]IconThreshold, n-1)
	for i := range out {
		out[i] = IconThreshold{Type: ScalePercent, Value: Num(float64((i + 1) * 100 / n))}
	}
	if n == 3 {
		out[0].Value, out[1].Value = Num(33), Num(67)
	}
	return out
}

type conditionalEntry struct {
	ranges []Range
	cf     ConditionalFormat
}

func (e *conditionalEntry) sqref() string {
	parts := make([]string, len(e.ranges))
	for i, r := range e.ranges {
		parts[i] = r.String()
	}
	return strings.Join(parts, " ")
}

// AddConditionalFormat appends a rule to the sheet. Rules are evaluated in
// the order they were added; StopIfTrue ends evaluation for a matching
// cell.
func (s *Sheet) AddConditionalFormat(r Range, cf ConditionalFormat) error {
	if cf.Rule == nil {
		return ruleErr("conditional format", "Rule", "rule required")
	}
	ranges := []Range{r}
	if cf.MultiRange != "" {
		ranges = ranges[:0]
		for _, part := range strings.Fields(cf.MultiRange) {
			mr, err := ParseRange(part)
			if err != nil {
				return ruleErr(cf.Rule.ruleKind(), "MultiRange", err.Error())
			}
			ranges = append(ranges, mr)
		}
		if len(ranges) == 0 {
			return ruleErr(cf.Rule.ruleKind(), "MultiRange", "no ranges")
		}
	}
	for _, rr := range ranges {
		if err := rr.validate(); err != nil {
			return err
		}
	}
	if err := cf.Rule.validate(); err != nil {
		return err
	}
	if err := s.checkFormat(cf.Format); err != nil {
		return err
	}
	s.conditional = append(s.conditional, &conditionalEntry{ranges: ranges, cf: cf})
	return nil
}

// ConditionalFormats returns the rules in evaluation order.
func (s *Sheet) ConditionalFormats() []ConditionalFormat {
	out := make([]ConditionalFormat, len(s.conditional))
	for i, e := range s.conditional {
		out[i] = e.cf
	}
	return out
}
