package xl

import (
	"fmt"
	"slices"
	"unicode/utf8"
)

// CommentOptions describe the author and the note box of a cell comment.
// Zero fields take the defaults Excel uses for a new note.
type CommentOptions struct {
	Author  string // "" = the sheet's comment author
	Visible bool   // show the note without hovering over the cell

	Width, Height  int     // pixels, 0 = 128x74
	XScale, YScale float64 // 0 means 1
	Color          Color   // fill, auto = pale yellow
	Font           Font    // auto = Tahoma 8

	// The box is placed relative to StartRow/StartCol, by default the cell
	// right of and above the commented one.
	StartRow, StartCol *int
	XOffset, YOffset   int // pixels into the start cell
}

const (
	maxCommentText   = 32767
	maxCommentAuthor = 255

	defaultCommentWidth        = 128
	defaultCommentHeight       = 74
	defaultCommentFill   Color = 0xFFFFFFE1
)

type comment struct {
	row, col int
	text     string
	author   string
	visible  bool
	fill     Color
	font     Font
	box      anchor
}

func (o *CommentOptions) validate() error {
	if n := utf8.RuneCountInString(o.Author); n > maxCommentAuthor {
		return fmt.Errorf("comment author of %d characters: %w", n, ErrStringTooLong)
	}
	if o.Width < 0 || o.Height < 0 || o.XOffset < 0 || o.YOffset < 0 {
		return fmt.Errorf("negative comment box geometry: %w", ErrOutOfRange)
	}
	for _, v := range []float64{o.XScale, o.YScale} {
		if err := checkFinite(v); err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("negative comment scale: %w", ErrOutOfRange)
		}
	}
	if o.StartRow != nil && (*o.StartRow < 0 || *o.StartRow >= MaxRows) {
		return rangeErr("comment start row", *o.StartRow, 0, MaxRows-1)
	}
	if o.StartCol != nil && (*o.StartCol < 0 || *o.StartCol >= MaxColumns) {
		return rangeErr("comment start column", *o.StartCol, 0, MaxColumns-1)
	}
	if o.Font.Size < 0 || o.Font.Size > 409 {
		return fmt.Errorf("comment font size %g: %w", o.Font.Size, ErrOutOfRange)
	}
	return nil
}

// commentBox places the note the way Excel does: one column to the right
// and one row up, pulled back inside the grid near its last rows and
// columns.
func commentBox(row, col int) anchor {
	a := anchor{row: row - 1, col: col + 1, offsetX: 15, offsetY: 10}
	switch row {
	case 0:
		a.row, a.offsetY = 0, 2
	case MaxRows - 3:
		a.row, a.offsetY = MaxRows-7, 16
	case MaxRows - 2:
		a.row, a.offsetY = MaxRows-6, 16
	case MaxRows - 1:
		a.row, a.offsetY = MaxRows-5, 14
	}
	if col >= MaxColumns-3 {
		a.col, a.offsetX = col-3, 49
	}
	return a
}

// WriteComment attaches a note to the cell at (row, col). A second comment
// on the same cell replaces the first.
func (s *Sheet) WriteComment(row, col int, text string, opts *CommentOptions) error {
	if err := checkCell(row, col); err != nil {
		return err
	}
	if n := utf8.RuneCountInString(text); n > maxCommentText {
		return fmt.Errorf("comment of %d characters: %w", n, ErrStringTooLong)
	}
	var o CommentOptions
	if opts != nil {
		o = *opts
	}
	if err := o.validate(); err != nil {
		return err
	}

	c := &comment{
		row: row, col: col,
		text:    text,
		author:  o.Author,
		visible: o.Visible,
		fill:    o.Color,
		font:    o.Font,
		box:     commentBox(row, col),
	}
	if c.fill.IsAuto() {
		c.fill = defaultCommentFill
	}
	if c.font.Name == "" {
		c.font.Name = "Tahoma"
	}
	if c.font.Size == 0 {
		c.font.Size = 8
	}
	if o.StartRow != nil {
		c.box.row = *o.StartRow
	}
	if o.StartCol != nil {
		c.box.col = *o.StartCol
	}
	if o.XOffset > 0 {
		c.box.offsetX = o.XOffset
	}
	if o.YOffset > 0 {
		c.box.offsetY = o.YOffset
	}
	w, h := o.Width, o.Height
	if w == 0 {
		w = defaultCommentWidth
	}
	if h == 0 {
		h = defaultCommentHeight
	}
	c.box.width, c.box.height = scaled(w, o.XScale), scaled(h, o.YScale)

	if s.comments == nil {
		s.comments = map[[2]int]*comment{}
	}
	s.comments[[2]int{row, col}] = c
	return nil
}

// ShowComments makes every note on the sheet visible.
func (s *Sheet) ShowComments() { s.commentsVisible = true }

// SetCommentAuthor names the author of notes written without one.
func (s *Sheet) SetCommentAuthor(author string) error {
	if n := utf8.RuneCountInString(author); n > maxCommentAuthor {
		return fmt.Errorf("comment author of %d characters: %w", n, ErrStringTooLong)
	}
	s.commentAuthor = author
	return nil
}

// Comment returns the note text at (row, col).
func (s *Sheet) Comment(row, col int) (string, bool) {
	c, ok := s.comments[[2]int{row, col}]
	if !ok {
		return "", false
	}
	return c.text, true
}

// sortedComments lists the notes in row-major order.
func (s *Sheet) sortedComments() []*comment {
	list := make([]*comment, 0, len(s.comments))
	for _, c := range s.comments {
		list = append(list, c)
	}
	slices.SortFunc(list, func(a, b *comment) int {
		if a.row != b.row {
			return a.row - b.row
		}
		return a.col - b.col
	})
	return list
}
