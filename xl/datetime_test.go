package xl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDateTimeSerial(t *testing.T) {
	for _, tc := range []struct {
		d    DateTime
		want float64
	}{
		{DateTime{Year: 1900, Month: 1, Day: 1}, 1},
		{DateTime{Year: 1900, Month: 2, Day: 28}, 59},
		{DateTime{Year: 1900, Month: 3, Day: 1}, 61},
		{DateTime{Year: 2024, Month: 1, Day: 15, Hour: 12}, 45306.5},
		{DateTime{Hour: 6}, 0.25},
		{DateTime{Hour: 18, Minute: 30}, 0.7708333333333334},
	} {
		assert.InDelta(t, tc.want, tc.d.serial(false), 1e-9, "%+v", tc.d)
	}
	assert.InDelta(t, 1.0, DateTime{Year: 1904, Month: 1, Day: 2}.serial(true), 1e-9)
	assert.InDelta(t, 43844.0, DateTime{Year: 2024, Month: 1, Day: 15}.serial(true), 1e-9)
}

func TestDateTimeValidate(t *testing.T) {
	assert.NoError(t, DateTime{Year: 2024, Month: 2, Day: 29}.validate(false))
	assert.ErrorIs(t, DateTime{Year: 2023, Month: 2, Day: 29}.validate(false), ErrInvalidNumber)
	assert.ErrorIs(t, DateTime{Year: 1899, Month: 12, Day: 31}.validate(false), ErrInvalidNumber)
	assert.ErrorIs(t, DateTime{Year: 1903, Month: 1, Day: 1}.validate(true), ErrInvalidNumber)
	assert.ErrorIs(t, DateTime{Hour: 24}.validate(false), ErrInvalidNumber)
	assert.ErrorIs(t, DateTime{Second: 60}.validate(false), ErrInvalidNumber)
	assert.NoError(t, DateTime{Hour: 23, Minute: 59, Second: 59.999}.validate(false))
}

func TestWriteTime(t *testing.T) {
	wb := NewWorkbook()
	sh := mustSheet(t, wb, "S")
	ts := time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)
	require.NoError(t, sh.WriteTime(0, 0, ts, nil))
	assert.ErrorIs(t, sh.WriteDateTime(1, 0, DateTime{Year: 2023, Month: 2, Day: 29}, nil), ErrInvalidNumber)
	assert.Nil(t, sh.Cell(1, 0))

	f := reopen(t, wb)
	v, err := f.GetCellValue("S", "A1")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15 12:00:00", v)
	raw, err := f.GetCellValue("S", "A1", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "45306.5", raw)
}
