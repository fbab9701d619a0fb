package xl

import (
	"fmt"
	"strings"

	"github.com/adnsv/srw/xml"
	"github.com/google/uuid"
)

// Extension URIs of the Excel 2010 data bar markup.
const (
	extDataBarRule = "{B025F937-C7B1-47D3-B67F-A62EFF666E3E}"
	extCondFormats = "{78C0D931-6437-407d-A8EE-F0AAD7539E65}"
	nsX14          = "http://schemas.microsoft.com/office/spreadsheetml/2009/9/main"
	nsXM           = "http://schemas.microsoft.com/office/excel/2006/main"
)

type dataBarExt struct {
	guid  string
	sqref string
	rule  DataBarRule
}

// ruleGUID derives a stable identifier for the extension part of a rule.
func ruleGUID(sheet string, priority int) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, fmt.Appendf(nil, "xlsx:%s/cf/%d", sheet, priority))
	return "{" + strings.ToUpper(id.String()) + "}"
}

// writeConditionalFormats emits one conditionalFormatting element per
// distinct range, in order of first use. Priorities follow the order the
// rules were added.
func (w *Writer) writeConditionalFormats(x *xml.Writer, sh *Sheet) []dataBarExt {
	if len(sh.conditional) == 0 {
		return nil
	}
	var order []string
	groups := map[string][]int{}
	for i, e := range sh.conditional {
		ref := e.sqref()
		if _, ok := groups[ref]; !ok {
			order = append(order, ref)
		}
		groups[ref] = append(groups[ref], i)
	}

	var exts []dataBarExt
	for _, ref := range order {
		x.OTag("+conditionalFormatting").Attr("sqref", ref)
		for _, i := range groups[ref] {
			e := sh.conditional[i]
			priority := i + 1
			guid := ""
			if db, ok := e.cf.Rule.(DataBarRule); ok && !db.Classic {
				guid = ruleGUID(sh.name, priority)
				exts = append(exts, dataBarExt{guid: guid, sqref: ref, rule: db.resolved()})
			}
			w.writeRule(x, e, priority, guid)
		}
		x.CTag()
	}
	return exts
}

func (w *Writer) writeRule(x *xml.Writer, e *conditionalEntry, priority int, guid string) {
	top := e.ranges[0]
	cell := CellName(top.FirstRow, top.FirstCol)

	x.OTag("+cfRule")
	switch r := e.cf.Rule.(type) {
	case CellRule:
		x.Attr("type", "cellIs")
	case TextRule:
		x.Attr("type", textRuleTypes[r.Criterion])
	case TimePeriodRule:
		x.Attr("type", "timePeriod")
	case AverageRule:
		x.Attr("type", "aboveAverage")
	case DuplicateRule:
		x.Attr("type", "duplicateValues")
	case UniqueRule:
		x.Attr("type", "uniqueValues")
	case TopRule, BottomRule:
		x.Attr("type", "top10")
	case BlanksRule:
		x.Attr("type", "containsBlanks")
	case NoBlanksRule:
		x.Attr("type", "notContainsBlanks")
	case ErrorsRule:
		x.Attr("type", "containsErrors")
	case NoErrorsRule:
		x.Attr("type", "notContainsErrors")
	case FormulaRule:
		x.Attr("type", "expression")
	case TwoColorScaleRule, ThreeColorScaleRule:
		x.Attr("type", "colorScale")
	case DataBarRule:
		x.Attr("type", "dataBar")
	case IconSetRule:
		x.Attr("type", "iconSet")
	}
	if e.cf.Format != nil && usesDxf(e.cf.Rule) {
		x.Attr("dxfId", w.styles.dxf[e.cf.Format.id])
	}
	x.Attr("priority", priority)
	if e.cf.StopIfTrue {
		x.Attr("stopIfTrue", 1)
	}

	formula := func(f string) {
		x.OTag("+formula").Write(f).CTag()
	}

	switch r := e.cf.Rule.(type) {
	case CellRule:
		x.Attr("operator", r.Criterion.operator())
		if r.Criterion.ranged() {
			formula(r.Min.String())
			formula(r.Max.String())
		} else {
			formula(r.Value.String())
		}

	case TextRule:
		q := quote(r.Value)
		n := len([]rune(r.Value))
		switch r.Criterion {
		case TextContaining:
			x.Attr("operator", "containsText").Attr("text", r.Value)
			formula(fmt.Sprintf("NOT(ISERROR(SEARCH(%s,%s)))", q, cell))
		case TextNotContaining:
			x.Attr("operator", "notContains").Attr("text", r.Value)
			formula(fmt.Sprintf("ISERROR(SEARCH(%s,%s))", q, cell))
		case TextBeginsWith:
			x.Attr("operator", "beginsWith").Attr("text", r.Value)
			formula(fmt.Sprintf("LEFT(%s,%d)=%s", cell, n, q))
		case TextEndsWith:
			x.Attr("operator", "endsWith").Attr("text", r.Value)
			formula(fmt.Sprintf("RIGHT(%s,%d)=%s", cell, n, q))
		}

	case TimePeriodRule:
		x.Attr("timePeriod", timePeriodNames[r.Period])
		formula(strings.ReplaceAll(timePeriodFormulas[r.Period], "A1", cell))

	case AverageRule:
		above, equal, stdDev := r.params()
		if !above {
			x.Attr("aboveAverage", 0)
		}
		if equal {
			x.Attr("equalAverage", 1)
		}
		if stdDev > 0 {
			x.Attr("stdDev", stdDev)
		}

	case TopRule:
		x.Attr("rank", r.Rank)
		if r.Percent {
			x.Attr("percent", 1)
		}

	case BottomRule:
		x.Attr("bottom", 1).Attr("rank", r.Rank)
		if r.Percent {
			x.Attr("percent", 1)
		}

	case BlanksRule:
		formula(fmt.Sprintf("LEN(TRIM(%s))=0", cell))
	case NoBlanksRule:
		formula(fmt.Sprintf("LEN(TRIM(%s))>0", cell))
	case ErrorsRule:
		formula(fmt.Sprintf("ISERROR(%s)", cell))
	case NoErrorsRule:
		formula(fmt.Sprintf("NOT(ISERROR(%s))", cell))

	case FormulaRule:
		f, _ := prepareFormula(r.Formula)
		formula(f)

	case TwoColorScaleRule:
		writeColorScale(x, r.points())
	case ThreeColorScaleRule:
		writeColorScale(x, r.points())

	case DataBarRule:
		r = r.resolved()
		x.OTag("+dataBar")
		if r.BarOnly {
			x.Attr("showValue", 0)
		}
		writeCfvo(x, r.Min.resolve(ScaleMinimum, 0, 0))
		writeCfvo(x, r.Max.resolve(ScaleMaximum, 0, 0))
		x.OTag("+color").Attr("rgb", r.BarColor.ARGB()).CTag()
		x.CTag()
		if guid != "" {
			x.OTag("+extLst")
			x.OTag("+ext").Attr("uri", extDataBarRule).Attr("xmlns:x14", nsX14)
			x.OTag("+x14:id").Write(guid).CTag()
			x.CTag()
			x.CTag()
		}

	case IconSetRule:
		x.OTag("+iconSet").Attr("iconSet", string(r.Style))
		if r.IconsOnly {
			x.Attr("showValue", 0)
		}
		if r.Reverse {
			x.Attr("reverse", 1)
		}
		x.OTag("+cfvo").Attr("type", "percent").Attr("val", 0).CTag()
		for _, t := range r.thresholds() {
			x.OTag("+cfvo").Attr("type", scaleTypeNames[t.Type]).Attr("val", t.Value.String())
			if t.GreaterThan {
				x.Attr("gte", 0)
			}
			x.CTag()
		}
		x.CTag()
	}

	x.CTag() // cfRule
}

var textRuleTypes = map[TextCriterion]string{
	TextContaining:    "containsText",
	TextNotContaining: "notContainsText",
	TextBeginsWith:    "beginsWith",
	TextEndsWith:      "endsWith",
}

// timePeriodFormulas are written relative to A1 and rebased on the top-left
// cell of the range.
var timePeriodFormulas = map[TimePeriod]string{
	Yesterday: "FLOOR(A1,1)=TODAY()-1",
	Today:     "FLOOR(A1,1)=TODAY()",
	Tomorrow:  "FLOOR(A1,1)=TODAY()+1",
	Last7Days: "AND(TODAY()-FLOOR(A1,1)<=6,FLOOR(A1,1)<=TODAY())",
	LastWeek:  "AND(TODAY()-ROUNDDOWN(A1,0)>=(WEEKDAY(TODAY())),TODAY()-ROUNDDOWN(A1,0)<(WEEKDAY(TODAY())+7))",
	ThisWeek:  "AND(TODAY()-ROUNDDOWN(A1,0)<=WEEKDAY(TODAY())-1,ROUNDDOWN(A1,0)-TODAY()<=7-WEEKDAY(TODAY()))",
	NextWeek:  "AND(ROUNDDOWN(A1,0)-TODAY()>(7-WEEKDAY(TODAY())),ROUNDDOWN(A1,0)-TODAY()<(15-WEEKDAY(TODAY())))",
	LastMonth: "AND(MONTH(A1)=MONTH(TODAY())-1,OR(YEAR(A1)=YEAR(TODAY()),AND(MONTH(A1)=1,YEAR(A1)=YEAR(TODAY())-1)))",
	ThisMonth: "AND(MONTH(A1)=MONTH(TODAY()),YEAR(A1)=YEAR(TODAY()))",
	NextMonth: "AND(MONTH(A1)=MONTH(TODAY())+1,OR(YEAR(A1)=YEAR(TODAY()),AND(MONTH(A1)=12,YEAR(A1)=YEAR(TODAY())+1)))",
}

func writeColorScale(x *xml.Writer, points []ScalePoint) {
	x.OTag("+colorScale")
	for _, p := range points {
		writeCfvo(x, p)
	}
	for _, p := range points {
		x.OTag("+color").Attr("rgb", p.Color.ARGB()).CTag()
	}
	x.CTag()
}

// writeCfvo emits a value object; minimum and maximum carry no value.
func writeCfvo(x *xml.Writer, p ScalePoint) {
	x.OTag("+cfvo").Attr("type", scaleTypeNames[p.Type])
	if p.Type != ScaleMinimum && p.Type != ScaleMaximum {
		x.Attr("val", p.Value.String())
	}
	x.CTag()
}

func writeDataBarExtensions(x *xml.Writer, exts []dataBarExt) {
	x.OTag("+extLst")
	x.OTag("+ext").Attr("uri", extCondFormats).Attr("xmlns:x14", nsX14)
	x.OTag("+x14:conditionalFormattings")
	for _, e := range exts {
		r := e.rule
		x.OTag("+x14:conditionalFormatting").Attr("xmlns:xm", nsXM)
		x.OTag("+x14:cfRule").Attr("type", "dataBar").Attr("id", e.guid)
		x.OTag("+x14:dataBar").Attr("minLength", 0).Attr("maxLength", 100)
		if !r.NoBorder {
			x.Attr("border", 1)
		}
		if r.Solid {
			x.Attr("gradient", 0)
		}
		switch r.Direction {
		case BarDirectionLeftToRight:
			x.Attr("direction", "leftToRight")
		case BarDirectionRightToLeft:
			x.Attr("direction", "rightToLeft")
		}
		if r.NegativeSameAsPositive {
			x.Attr("negativeBarColorSameAsPositive", 1)
		}
		if !r.NoBorder && !r.NegativeBorderSameAsPositive {
			x.Attr("negativeBarBorderColorSameAsPositive", 0)
		}
		switch r.Axis {
		case AxisMidpoint:
			x.Attr("axisPosition", "middle")
		case AxisNone:
			x.Attr("axisPosition", "none")
		}

		writeX14Bound(x, r.Min, "autoMin")
		writeX14Bound(x, r.Max, "autoMax")
		if !r.NoBorder {
			x.OTag("+x14:borderColor").Attr("rgb", r.BorderColor.ARGB()).CTag()
		}
		if !r.NegativeSameAsPositive {
			x.OTag("+x14:negativeFillColor").Attr("rgb", r.NegativeColor.ARGB()).CTag()
		}
		if !r.NoBorder && !r.NegativeBorderSameAsPositive {
			x.OTag("+x14:negativeBorderColor").Attr("rgb", r.NegativeBorderColor.ARGB()).CTag()
		}
		if r.Axis != AxisNone {
			x.OTag("+x14:axisColor").Attr("rgb", r.AxisColor.ARGB()).CTag()
		}
		x.CTag() // x14:dataBar
		x.CTag() // x14:cfRule
		x.OTag("+xm:sqref").Write(e.sqref).CTag()
		x.CTag() // x14:conditionalFormatting
	}
	x.CTag() // x14:conditionalFormattings
	x.CTag() // ext
	x.CTag() // extLst
}

// writeX14Bound emits a data bar bound, using auto for an unset type.
func writeX14Bound(x *xml.Writer, p ScalePoint, auto string) {
	x.OTag("+x14:cfvo")
	if p.Type == ScaleAuto {
		x.Attr("type", auto)
		x.CTag()
		return
	}
	x.Attr("type", scaleTypeNames[p.Type])
	if p.Type != ScaleMinimum && p.Type != ScaleMaximum {
		v := p.Value
		if !v.IsSet() {
			v = Num(0)
		}
		x.OTag("+xm:f").Write(v.String()).CTag()
	}
	x.CTag()
}

var validationOperators = map[Criterion]string{
	NotBetween:           "notBetween",
	EqualTo:              "equal",
	NotEqualTo:           "notEqual",
	GreaterThan:          "greaterThan",
	LessThan:             "lessThan",
	GreaterThanOrEqualTo: "greaterThanOrEqual",
	LessThanOrEqualTo:    "lessThanOrEqual",
}

var errorStyleNames = map[ErrorStyle]string{
	ErrorWarning:     "warning",
	ErrorInformation: "information",
}

func writeDataValidations(x *xml.Writer, sh *Sheet) {
	if len(sh.validations) == 0 {
		return
	}
	x.OTag("+dataValidations").Attr("count", len(sh.validations))
	for _, dv := range sh.validations {
		x.OTag("+dataValidation")
		if dv.Type != ValidateAny {
			x.Attr("type", validationTypeNames[dv.Type])
		}
		switch dv.Type {
		case ValidateAny, ValidateList, ValidateCustom:
		default:
			if op, ok := validationOperators[dv.criterion()]; ok {
				x.Attr("operator", op)
			}
		}
		if name, ok := errorStyleNames[dv.ErrorStyle]; ok {
			x.Attr("errorStyle", name)
		}
		if !dv.RejectBlank {
			x.Attr("allowBlank", 1)
		}
		if dv.NoDropdown && dv.Type == ValidateList {
			x.Attr("showDropDown", 1)
		}
		if !dv.HideInput {
			x.Attr("showInputMessage", 1)
		}
		if !dv.HideError {
			x.Attr("showErrorMessage", 1)
		}
		if dv.ErrorTitle != "" {
			x.Attr("errorTitle", dv.ErrorTitle)
		}
		if dv.ErrorMessage != "" {
			x.Attr("error", dv.ErrorMessage)
		}
		if dv.InputTitle != "" {
			x.Attr("promptTitle", dv.InputTitle)
		}
		if dv.InputMessage != "" {
			x.Attr("prompt", dv.InputMessage)
		}
		refs := make([]string, len(dv.ranges))
		for i, r := range dv.ranges {
			refs[i] = r.String()
		}
		x.Attr("sqref", strings.Join(refs, " "))

		f1, f2 := dv.formulas()
		if f1 != "" {
			x.OTag("+formula1").Write(f1).CTag()
		}
		if f2 != "" {
			x.OTag("+formula2").Write(f2).CTag()
		}
		x.CTag()
	}
	x.CTag()
}
