package xl

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// reopen serializes wb and reads it back with an independent reader.
func reopen(t *testing.T, wb *Workbook) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	_, err := wb.WriteTo(&buf)
	require.NoError(t, err)
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

// parts serializes wb into memory.
func parts(t *testing.T, wb *Workbook) *MemStorage {
	t.Helper()
	ms := NewMemStorage()
	require.NoError(t, wb.Write(ms))
	return ms
}

func mustSheet(t *testing.T, wb *Workbook, name string) *Sheet {
	t.Helper()
	sh, err := wb.AddSheet(name)
	require.NoError(t, err)
	return sh
}
