package xl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHash(t *testing.T) {
	assert.Equal(t, "83AF", passwordHash("password"))
	assert.Equal(t, "CC1A", passwordHash("abc"))
}

func TestProtect(t *testing.T) {
	wb := NewWorkbook()
	sh := mustSheet(t, wb, "Locked")
	open := mustSheet(t, wb, "Open")
	require.NoError(t, open.WriteString(0, 0, "x", nil))

	assert.ErrorIs(t, sh.Protect(strings.Repeat("p", 256), nil), ErrStringTooLong)
	assert.Nil(t, sh.protection)

	require.NoError(t, sh.Protect("password", &SheetProtection{FormatCells: true, Sort: true}))

	ms := parts(t, wb)
	xml := string(ms.Blob("xl/worksheets/sheet1.xml"))
	assert.Contains(t, xml, `password="83AF"`)
	assert.Contains(t, xml, `sheet="1"`)
	assert.Contains(t, xml, `formatCells="0"`)
	assert.Contains(t, xml, `sort="0"`)
	assert.NotContains(t, xml, `insertRows=`)
	assert.NotContains(t, string(ms.Blob("xl/worksheets/sheet2.xml")), "sheetProtection")
}

func TestProtectWithoutPassword(t *testing.T) {
	wb := NewWorkbook()
	sh := mustSheet(t, wb, "S")
	require.NoError(t, sh.Protect("", nil))

	xml := string(parts(t, wb).Blob("xl/worksheets/sheet1.xml"))
	assert.Contains(t, xml, "<sheetProtection")
	assert.NotContains(t, xml, "password=")
	assert.Contains(t, xml, `objects="1"`)
}
