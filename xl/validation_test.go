package xl

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataValidationRejects(t *testing.T) {
	wb := NewWorkbook()
	sh := mustSheet(t, wb, "S")
	r := RangeOf(0, 0, 9, 0)

	for name, tc := range map[string]struct {
		dv    DataValidation
		field string
	}{
		"between needs min":   {DataValidation{Type: ValidateWholeNumber, Max: Num(10)}, "Min"},
		"greater needs value": {DataValidation{Type: ValidateDecimal, Criterion: GreaterThan}, "Value"},
		"empty list":          {DataValidation{Type: ValidateList}, "List"},
		"comma in list":       {DataValidation{Type: ValidateList, List: []string{"a,b"}}, "List"},
		"list too long":       {DataValidation{Type: ValidateList, List: []string{strings.Repeat("x", 256)}}, "List"},
		"custom formula":      {DataValidation{Type: ValidateCustom, Value: Expr("LEN(A1")}, "Value"},
		"unknown type":        {DataValidation{Type: 42}, "Type"},
		"error style":         {DataValidation{ErrorStyle: 7}, "ErrorStyle"},
		"title too long":      {DataValidation{InputTitle: strings.Repeat("t", 33)}, "InputTitle"},
	} {
		err := sh.AddDataValidation(r, tc.dv)
		require.ErrorIs(t, err, ErrInvalidRule, name)
		var re *RuleError
		require.True(t, errors.As(err, &re), name)
		assert.Equal(t, tc.field, re.Field, name)
	}
	assert.ErrorIs(t, sh.AddDataValidation(RangeOf(0, MaxColumns, 0, MaxColumns), DataValidation{}), ErrOutOfRange)
	assert.Empty(t, sh.validations)
}

func TestDataValidationReadBack(t *testing.T) {
	wb := NewWorkbook()
	sh := mustSheet(t, wb, "S")
	require.NoError(t, sh.AddDataValidation(RangeOf(1, 0, 20, 0), DataValidation{
		Type: ValidateWholeNumber,
		Min:  Num(1),
		Max:  Num(10),
	}))
	require.NoError(t, sh.AddDataValidation(RangeOf(1, 1, 20, 1), DataValidation{
		Type:         ValidateList,
		List:         []string{"open", "closed", "on hold"},
		ErrorTitle:   "Status",
		ErrorMessage: "Pick a status",
		ErrorStyle:   ErrorWarning,
	}))
	require.NoError(t, sh.AddDataValidation(RangeOf(1, 2, 20, 2), DataValidation{
		Type:      ValidateDate,
		Criterion: GreaterThan,
		Value:     DateOperand(DateTime{Year: 2024, Month: 1, Day: 1}),
	}))

	f := reopen(t, wb)
	dvs, err := f.GetDataValidations("S")
	require.NoError(t, err)
	require.Len(t, dvs, 3)

	assert.Equal(t, "A2:A21", dvs[0].Sqref)
	assert.Equal(t, "whole", dvs[0].Type)
	assert.Empty(t, dvs[0].Operator, "between is the default operator")

	assert.Equal(t, "B2:B21", dvs[1].Sqref)
	assert.Equal(t, "list", dvs[1].Type)
	assert.Contains(t, dvs[1].Formula1, "open,closed,on hold")
	require.NotNil(t, dvs[1].ErrorStyle)
	assert.Equal(t, "warning", *dvs[1].ErrorStyle)

	assert.Equal(t, "date", dvs[2].Type)
	assert.Equal(t, "greaterThan", dvs[2].Operator)
	assert.Contains(t, dvs[2].Formula1, "45292")
}
