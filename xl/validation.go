package xl

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidationType restricts what may be entered into a cell.
type ValidationType int

const (
	ValidateAny ValidationType = iota
	ValidateWholeNumber
	ValidateDecimal
	ValidateList
	ValidateDate
	ValidateTime
	ValidateTextLength
	ValidateCustom
)

var validationTypeNames = [...]string{
	ValidateAny:         "none",
	ValidateWholeNumber: "whole",
	ValidateDecimal:     "decimal",
	ValidateList:        "list",
	ValidateDate:        "date",
	ValidateTime:        "time",
	ValidateTextLength:  "textLength",
	ValidateCustom:      "custom",
}

// ErrorStyle is the severity of the rejection dialog.
type ErrorStyle int

const (
	ErrorStop ErrorStyle = iota
	ErrorWarning
	ErrorInformation
)

const (
	maxValidationTitle   = 32
	maxValidationMessage = 255
	maxValidationList    = 255
)

// DataValidation is an input rule over a range.
//
// Whole, decimal, date, time and text length rules compare against Value,
// or Min..Max for Between and NotBetween. List rules take either the
// literal List or a range reference in Value. Custom rules take a formula
// in Value.
type DataValidation struct {
	Type      ValidationType
	Criterion Criterion
	Value     Operand
	Min, Max  Operand
	List      []string

	RejectBlank  bool
	NoDropdown   bool
	HideInput    bool
	HideError    bool
	InputTitle   string
	InputMessage string
	ErrorTitle   string
	ErrorMessage string
	ErrorStyle   ErrorStyle

	ranges []Range
}

// DateOperand is a date/time operand in the 1900 date system.
func DateOperand(d DateTime) Operand { return Num(d.serial(false)) }

func (dv *DataValidation) validate() error {
	const kind = "data validation"
	switch dv.Type {
	case ValidateAny:
	case ValidateWholeNumber, ValidateDecimal, ValidateDate, ValidateTime, ValidateTextLength:
		c := dv.Criterion
		if c == 0 {
			c = Between
		}
		if err := c.validateOperands(kind, dv.Value, dv.Min, dv.Max); err != nil {
			return err
		}
	case ValidateList:
		if len(dv.List) == 0 {
			if err := dv.Value.validate(kind, "Value"); err != nil {
				return ruleErr(kind, "List", "list values or source range required")
			}
			break
		}
		for _, v := range dv.List {
			if strings.Contains(v, ",") {
				return ruleErr(kind, "List", fmt.Sprintf("list value %q contains a comma", v))
			}
		}
		if n := utf8.RuneCountInString(strings.Join(dv.List, ",")); n > maxValidationList {
			return ruleErr(kind, "List", fmt.Sprintf("list of %d characters exceeds %d", n, maxValidationList))
		}
	case ValidateCustom:
		if err := dv.Value.validate(kind, "Value"); err != nil {
			return err
		}
	default:
		return ruleErr(kind, "Type", fmt.Sprintf("unknown type %d", dv.Type))
	}
	if dv.ErrorStyle < ErrorStop || dv.ErrorStyle > ErrorInformation {
		return ruleErr(kind, "ErrorStyle", fmt.Sprintf("unknown style %d", dv.ErrorStyle))
	}
	for _, f := range []struct {
		name, v string
		max     int
	}{
		{"InputTitle", dv.InputTitle, maxValidationTitle},
		{"ErrorTitle", dv.ErrorTitle, maxValidationTitle},
		{"InputMessage", dv.InputMessage, maxValidationMessage},
		{"ErrorMessage", dv.ErrorMessage, maxValidationMessage},
	} {
		if n := utf8.RuneCountInString(f.v); n > f.max {
			return ruleErr(kind, f.name, fmt.Sprintf("%d characters exceeds %d", n, f.max))
		}
	}
	return nil
}

// formulas returns formula1 and formula2.
func (dv *DataValidation) formulas() (string, string) {
	switch dv.Type {
	case ValidateAny:
		return "", ""
	case ValidateList:
		if len(dv.List) > 0 {
			return quote(strings.Join(dv.List, ",")), ""
		}
		return dv.Value.String(), ""
	case ValidateCustom:
		return dv.Value.String(), ""
	}
	if dv.criterion().ranged() {
		return dv.Min.String(), dv.Max.String()
	}
	return dv.Value.String(), ""
}

func (dv *DataValidation) criterion() Criterion {
	if dv.Criterion == 0 {
		return Between
	}
	return dv.Criterion
}

// AddDataValidation attaches an input rule to r.
func (s *Sheet) AddDataValidation(r Range, dv DataValidation) error {
	if err := r.validate(); err != nil {
		return err
	}
	if err := dv.validate(); err != nil {
		return err
	}
	dv.ranges = []Range{r}
	dv.List = append([]string(nil), dv.List...)
	s.validations = append(s.validations, &dv)
	return nil
}
