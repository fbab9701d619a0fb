package xl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteComment(t *testing.T) {
	wb := NewWorkbook()
	sh := mustSheet(t, wb, "Notes")
	require.NoError(t, sh.SetCommentAuthor("Ops"))
	require.NoError(t, sh.WriteString(1, 1, "total", nil))
	require.NoError(t, sh.WriteComment(1, 1, "checked twice", nil))
	require.NoError(t, sh.WriteComment(0, 3, " spaced ", &CommentOptions{Author: "Ana", Visible: true, Width: 200, Color: Yellow}))
	require.NoError(t, sh.WriteComment(4, 0, "first draft", &CommentOptions{Author: "Ana"}))
	require.NoError(t, sh.WriteComment(4, 0, "final", &CommentOptions{Author: "Ana"}))

	assert.ErrorIs(t, sh.WriteComment(MaxRows, 0, "x", nil), ErrOutOfRange)
	assert.ErrorIs(t, sh.WriteComment(0, 0, strings.Repeat("n", maxCommentText+1), nil), ErrStringTooLong)
	assert.ErrorIs(t, sh.WriteComment(0, 0, "x", &CommentOptions{Author: strings.Repeat("a", 256)}), ErrStringTooLong)
	assert.ErrorIs(t, sh.WriteComment(0, 0, "x", &CommentOptions{Height: -1}), ErrOutOfRange)
	assert.ErrorIs(t, sh.SetCommentAuthor(strings.Repeat("a", 256)), ErrStringTooLong)
	_, ok := sh.Comment(0, 0)
	assert.False(t, ok, "rejected comments are not stored")
	text, ok := sh.Comment(4, 0)
	require.True(t, ok)
	assert.Equal(t, "final", text)

	f := reopen(t, wb)
	comments, err := f.GetComments("Notes")
	require.NoError(t, err)
	require.Len(t, comments, 3)

	got := map[string][2]string{}
	for _, c := range comments {
		require.Len(t, c.Paragraph, 1, c.Cell)
		got[c.Cell] = [2]string{c.Author, c.Paragraph[0].Text}
	}
	assert.Equal(t, map[string][2]string{
		"D1": {"Ana", " spaced "},
		"B2": {"Ops", "checked twice"},
		"A5": {"Ana", "final"},
	}, got)
	v, err := f.GetCellValue("Notes", "B2")
	require.NoError(t, err)
	assert.Equal(t, "total", v, "a note does not touch the cell value")
}

func TestCommentParts(t *testing.T) {
	wb := NewWorkbook()
	plain := mustSheet(t, wb, "Plain")
	require.NoError(t, plain.WriteNumber(0, 0, 1, nil))
	sh := mustSheet(t, wb, "S")
	require.NoError(t, sh.WriteComment(1, 1, "note", nil))
	row := 5
	require.NoError(t, sh.WriteComment(2, 0, "moved", &CommentOptions{StartRow: &row, XOffset: 3, YScale: 2}))

	ms := parts(t, wb)
	assert.Nil(t, ms.Blob("xl/worksheets/_rels/sheet1.xml.rels"), "sheets without notes get no legacy drawing")
	assert.Contains(t, string(ms.Blob("xl/worksheets/sheet2.xml")), "<legacyDrawing r:id=")
	rels := string(ms.Blob("xl/worksheets/_rels/sheet2.xml.rels"))
	assert.Contains(t, rels, `Target="../comments1.xml"`)
	assert.Contains(t, rels, `Target="../drawings/vmlDrawing1.vml"`)

	types := string(ms.Blob("[Content_Types].xml"))
	assert.Contains(t, types, `Extension="vml"`)
	assert.Contains(t, types, `PartName="/xl/comments1.xml"`)

	vml := string(ms.Blob("xl/drawings/vmlDrawing1.vml"))
	assert.Equal(t, 2, strings.Count(vml, `ObjectType="Note"`))
	assert.Contains(t, vml, "<x:Anchor>2, 15, 0, 10, 4, 15, 4, 4</x:Anchor>")
	assert.Contains(t, vml, "margin-left:107.25pt;margin-top:7.5pt;width:96pt;height:55.5pt")
	assert.Contains(t, vml, "visibility:hidden")
	assert.Contains(t, vml, `fillcolor="#ffffe1"`)
	assert.Contains(t, vml, "<x:Anchor>1, 3, 5, 10, 3, 3, 12, 18</x:Anchor>")
	assert.NotContains(t, vml, "<x:Visible/>")

	sh.ShowComments()
	vml = string(parts(t, wb).Blob("xl/drawings/vmlDrawing1.vml"))
	assert.Equal(t, 2, strings.Count(vml, "<x:Visible/>"))
	assert.NotContains(t, vml, "visibility:hidden")
}

func TestCommentBox(t *testing.T) {
	assert.Equal(t, anchor{row: 0, col: 1, offsetX: 15, offsetY: 2}, commentBox(0, 0))
	assert.Equal(t, anchor{row: 9, col: 4, offsetX: 15, offsetY: 10}, commentBox(10, 3))
	assert.Equal(t, anchor{row: MaxRows - 5, col: MaxColumns - 4, offsetX: 49, offsetY: 14}, commentBox(MaxRows-1, MaxColumns-1))
}
