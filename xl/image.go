package xl

import (
	"fmt"
	"math"
	"unicode/utf8"
)

// ImageOptions position and scale a floating image or chart.
type ImageOptions struct {
	OffsetX, OffsetY int     // pixels from the top-left corner of the anchor cell
	ScaleX, ScaleY   float64 // 0 means 1
	Description      string  // alt text
}

func (o *ImageOptions) validate() error {
	if o.OffsetX < 0 || o.OffsetY < 0 {
		return fmt.Errorf("negative image offset: %w", ErrOutOfRange)
	}
	for _, v := range []float64{o.ScaleX, o.ScaleY} {
		if err := checkFinite(v); err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("negative image scale: %w", ErrOutOfRange)
		}
	}
	if n := utf8.RuneCountInString(o.Description); n > 255 {
		return fmt.Errorf("description of %d characters: %w", n, ErrStringTooLong)
	}
	return nil
}

func scaled(px int, f float64) int {
	if f == 0 {
		f = 1
	}
	return int(math.Round(float64(px) * f))
}

// anchor is the placement of a drawing object in pixels relative to a cell.
type anchor struct {
	row, col         int
	offsetX, offsetY int
	width, height    int
	description      string
}

type imageAnchor struct {
	anchor
	blob []byte
	info mediaInfo
}

type chartAnchor struct {
	anchor
	chart *Chart
}

// cellPos is a corner of a two-cell anchor.
type cellPos struct {
	row, col int
	dx, dy   int // pixels into the cell
}

// span resolves the anchor against the current row and column sizes.
// Hidden rows and columns are skipped.
func (s *Sheet) span(a anchor) (from, to cellPos) {
	col, x := a.col, a.offsetX
	for col < MaxColumns-1 && x >= s.colPixels(col) {
		x -= s.colPixels(col)
		col++
	}
	row, y := a.row, a.offsetY
	for row < MaxRows-1 && y >= s.rowPixels(row) {
		y -= s.rowPixels(row)
		row++
	}
	from = cellPos{row: row, col: col, dx: x, dy: y}

	w, h := x+a.width, y+a.height
	for col < MaxColumns-1 && w >= s.colPixels(col) {
		w -= s.colPixels(col)
		col++
	}
	for row < MaxRows-1 && h >= s.rowPixels(row) {
		h -= s.rowPixels(row)
		row++
	}
	to = cellPos{row: row, col: col, dx: w, dy: h}
	return from, to
}

// InsertImage places a PNG, JPEG or GIF image over the grid with its
// top-left corner in (row, col).
func (s *Sheet) InsertImage(row, col int, data []byte, opts *ImageOptions) error {
	if err := checkCell(row, col); err != nil {
		return err
	}
	var o ImageOptions
	if opts != nil {
		o = *opts
	}
	if err := o.validate(); err != nil {
		return err
	}
	info, err := sniffImage(data)
	if err != nil {
		return err
	}
	s.images = append(s.images, &imageAnchor{
		anchor: anchor{
			row: row, col: col,
			offsetX: o.OffsetX, offsetY: o.OffsetY,
			width:       scaled(info.width, o.ScaleX),
			height:      scaled(info.height, o.ScaleY),
			description: o.Description,
		},
		blob: append([]byte(nil), data...),
		info: info,
	})
	return nil
}

// EmbedImage places an image inside the cell at (row, col) so it moves and
// sizes with the cell.
func (s *Sheet) EmbedImage(row, col int, data []byte, f *Format) error {
	info, err := sniffImage(data)
	if err != nil {
		return err
	}
	pic := embeddedPicture{&PictureInfo{Extension: "." + info.ext, Blob: append([]byte(nil), data...)}}
	return s.SetCell(row, col, pic, f)
}
