package xl

import (
	"fmt"
	"math"
	"slices"
	"unicode/utf8"
)

const (
	DefaultRowHeight   = 15.0 // points
	DefaultColumnWidth = 8.43 // characters
	maxOutlineLevel    = 7
	maxPageBreaks      = 1023
	maxHeaderFooter    = 255
)

// PageView selects how the sheet is displayed.
type PageView int

const (
	PageViewNormal PageView = iota
	PageViewPageLayout
	PageViewPageBreakPreview
)

// PaperSize is the printer paper code.
type PaperSize int

const (
	PaperDefault   PaperSize = 0
	PaperLetter    PaperSize = 1
	PaperTabloid   PaperSize = 3
	PaperLedger    PaperSize = 4
	PaperLegal     PaperSize = 5
	PaperStatement PaperSize = 6
	PaperExecutive PaperSize = 7
	PaperA3        PaperSize = 8
	PaperA4        PaperSize = 9
	PaperA5        PaperSize = 11
	PaperB4        PaperSize = 12
	PaperB5        PaperSize = 13
	PaperFolio     PaperSize = 14
	PaperQuarto    PaperSize = 15
)

// GridLines controls where cell gridlines appear.
type GridLines int

const (
	GridLinesHideAll GridLines = iota
	GridLinesScreen
	GridLinesPrint
	GridLinesAll
)

// Margins are page margins in inches.
type Margins struct {
	Left, Right, Top, Bottom float64
	Header, Footer           float64
}

// DefaultMargins are the margins of a new sheet.
var DefaultMargins = Margins{Left: 0.7, Right: 0.7, Top: 0.75, Bottom: 0.75, Header: 0.3, Footer: 0.3}

// RowColOptions carry the rarely used row and column settings.
type RowColOptions struct {
	Hidden    bool
	Level     int // outline level 0..7
	Collapsed bool
}

type pageSetup struct {
	landscape      bool
	paper          PaperSize
	scale          int
	fitToPage      bool
	fitWidth       int
	fitHeight      int
	firstPage      int
	printAcross    bool
	margins        Margins
	header         string
	footer         string
	centerH        bool
	centerV        bool
	printGridlines bool
	printHeadings  bool
}

func defaultPageSetup() pageSetup {
	return pageSetup{scale: 100, margins: DefaultMargins}
}

// custom reports whether a pageSetup element is needed.
func (p *pageSetup) custom() bool {
	return p.landscape || p.paper != PaperDefault || p.scale != 100 || p.fitToPage ||
		p.firstPage > 0 || p.printAcross
}

type paneKind int

const (
	paneFrozen paneKind = iota + 1
	paneSplit
)

type pane struct {
	kind     paneKind
	row, col int     // frozen: first unfrozen cell
	top      int     // first visible row of the bottom pane
	left     int     // first visible column of the right pane
	x, y     float64 // split: offsets in twips
}

type sheetView struct {
	zoom        int
	gridlines   bool
	rightToLeft bool
	hideZero    bool
	pageView    PageView
	pane        *pane
	selection   *Range
}

type outlineSettings struct {
	visible      bool
	symbolsBelow bool
	symbolsRight bool
	autoStyle    bool
}

// SetRow sets the height in points and default format of a row. A zero
// height keeps the default height.
func (s *Sheet) SetRow(row int, height float64, f *Format, opts *RowColOptions) error {
	if row < 0 || row >= MaxRows {
		return rangeErr("row", row, 0, MaxRows-1)
	}
	if err := checkFinite(height); err != nil {
		return err
	}
	if height < 0 || height > 409 {
		return fmt.Errorf("row height %g: %w", height, ErrOutOfRange)
	}
	if err := s.checkFormat(f); err != nil {
		return err
	}
	var o RowColOptions
	if opts != nil {
		o = *opts
	}
	if o.Level < 0 || o.Level > maxOutlineLevel {
		return rangeErr("outline level", o.Level, 0, maxOutlineLevel)
	}
	r := s.row(row)
	r.height = height
	r.format = f
	r.hidden = o.Hidden
	r.level = o.Level
	r.collapsed = o.Collapsed
	if len(r.cells) == 0 && !r.custom() {
		delete(s.rows, row)
	}
	return nil
}

// SetRowPixels is SetRow with the height in pixels.
func (s *Sheet) SetRowPixels(row int, pixels int, f *Format, opts *RowColOptions) error {
	return s.SetRow(row, float64(pixels)*0.75, f, opts)
}

// SetColumn sets width (in characters) and format of columns first..last.
func (s *Sheet) SetColumn(first, last int, width float64, f *Format, opts *RowColOptions) error {
	if first > last {
		first, last = last, first
	}
	if first < 0 || last >= MaxColumns {
		return rangeErr("column", last, 0, MaxColumns-1)
	}
	if err := checkFinite(width); err != nil {
		return err
	}
	if width < 0 || width > 255 {
		return fmt.Errorf("column width %g: %w", width, ErrOutOfRange)
	}
	if err := s.checkFormat(f); err != nil {
		return err
	}
	var o RowColOptions
	if opts != nil {
		o = *opts
	}
	if o.Level < 0 || o.Level > maxOutlineLevel {
		return rangeErr("outline level", o.Level, 0, maxOutlineLevel)
	}
	for col := first; col <= last; col++ {
		c := Column{Width: width, Format: f, Hidden: o.Hidden, Level: o.Level, Collapsed: o.Collapsed}
		if c == (Column{}) {
			delete(s.columns, col)
			continue
		}
		s.columns[col] = &c
	}
	return nil
}

// SetColumnPixels is SetColumn with the width in pixels.
func (s *Sheet) SetColumnPixels(first, last int, pixels int, f *Format, opts *RowColOptions) error {
	return s.SetColumn(first, last, pixelsToWidth(pixels), f, opts)
}

// SetColumnWidth sets the width of a single column; zero restores the default.
func (s *Sheet) SetColumnWidth(col int, w float64) error {
	var f *Format
	var opts *RowColOptions
	if c, exists := s.columns[col]; exists {
		f = c.Format
		opts = &RowColOptions{Hidden: c.Hidden, Level: c.Level, Collapsed: c.Collapsed}
	}
	return s.SetColumn(col, col, w, f, opts)
}

// Column returns the overrides of a column, nil when it uses defaults.
func (s *Sheet) Column(col int) *Column {
	if c, ok := s.columns[col]; ok {
		cc := *c
		return &cc
	}
	return nil
}

func widthToPixels(w float64) int {
	if w <= 0 {
		w = DefaultColumnWidth
	}
	if w < 1 {
		return int(w*12 + 0.5)
	}
	return int(w*7+0.5) + 5
}

func pixelsToWidth(px int) float64 {
	if px <= 12 {
		return float64(px) / 12
	}
	return float64(px-5) / 7
}

func (s *Sheet) colPixels(col int) int {
	if c, ok := s.columns[col]; ok {
		if c.Hidden {
			return 0
		}
		return widthToPixels(c.Width)
	}
	return widthToPixels(0)
}

func (s *Sheet) rowPixels(row int) int {
	h := s.defaultRowHeight
	if h == 0 {
		h = DefaultRowHeight
	}
	if r, ok := s.rows[row]; ok {
		if r.hidden {
			return 0
		}
		if r.height > 0 {
			h = r.height
		}
	}
	return int(math.Round(h / 0.75))
}

// SetDefaultRow changes the default row height; hideUnused hides every row
// that has no explicit settings.
func (s *Sheet) SetDefaultRow(height float64, hideUnused bool) error {
	if err := checkFinite(height); err != nil {
		return err
	}
	if height < 0 || height > 409 {
		return fmt.Errorf("row height %g: %w", height, ErrOutOfRange)
	}
	s.defaultRowHeight = height
	s.hideUnusedRows = hideUnused
	return nil
}

// FreezePanes freezes the rows above row and the columns left of col.
// Freezing at (0, 0) removes any pane. Replaces an earlier split.
func (s *Sheet) FreezePanes(row, col int) error {
	return s.FreezePanesAt(row, col, row, col)
}

// FreezePanesAt is FreezePanes with the first visible row and column of the
// scrolling pane.
func (s *Sheet) FreezePanesAt(row, col, top, left int) error {
	if err := checkCell(row, col); err != nil {
		return err
	}
	if err := checkCell(top, left); err != nil {
		return err
	}
	if row == 0 && col == 0 {
		s.view.pane = nil
		return nil
	}
	s.view.pane = &pane{kind: paneFrozen, row: row, col: col, top: top, left: left}
	return nil
}

// SplitPanes splits the window at the given offsets, y in points (row
// height units) and x in characters (column width units). Replaces an
// earlier freeze.
func (s *Sheet) SplitPanes(y, x float64) error {
	if err := checkFinite(x); err != nil {
		return err
	}
	if err := checkFinite(y); err != nil {
		return err
	}
	if x < 0 || y < 0 {
		return fmt.Errorf("split %g,%g: %w", y, x, ErrOutOfRange)
	}
	if x == 0 && y == 0 {
		s.view.pane = nil
		return nil
	}
	p := &pane{kind: paneSplit}
	if y > 0 {
		p.y = math.Round(20*y + 300)
		p.top = int(math.Ceil(y / DefaultRowHeight))
	}
	if x > 0 {
		p.x = math.Round(float64(widthToPixels(x))*15 + 390)
		p.left = int(math.Ceil(x / DefaultColumnWidth))
	}
	s.view.pane = p
	return nil
}

// SetSelection selects a range; the first corner becomes the active cell.
func (s *Sheet) SetSelection(r1, c1, r2, c2 int) error {
	if err := checkCell(r1, c1); err != nil {
		return err
	}
	if err := checkCell(r2, c2); err != nil {
		return err
	}
	r := Range{FirstRow: r1, FirstCol: c1, LastRow: r2, LastCol: c2}
	s.view.selection = &r
	return nil
}

// SetZoom sets the screen zoom percentage, 10..400.
func (s *Sheet) SetZoom(percent int) error {
	if percent < 10 || percent > 400 {
		return rangeErr("zoom", percent, 10, 400)
	}
	s.view.zoom = percent
	return nil
}

func (s *Sheet) SetPageView(v PageView) { s.view.pageView = v }
func (s *Sheet) RightToLeft()           { s.view.rightToLeft = true }
func (s *Sheet) HideZero()              { s.view.hideZero = true }
func (s *Sheet) SetTabColor(c Color)    { s.tabColor = c }
func (s *Sheet) SetLandscape()          { s.page.landscape = true }
func (s *Sheet) SetPortrait()           { s.page.landscape = false }
func (s *Sheet) SetPaper(p PaperSize)   { s.page.paper = p }
func (s *Sheet) PrintAcross()           { s.page.printAcross = true }
func (s *Sheet) CenterHorizontally()    { s.page.centerH = true }
func (s *Sheet) CenterVertically()      { s.page.centerV = true }
func (s *Sheet) PrintRowColHeaders()    { s.page.printHeadings = true }

// Gridlines controls screen and print gridlines.
func (s *Sheet) Gridlines(g GridLines) {
	s.view.gridlines = g == GridLinesScreen || g == GridLinesAll
	s.page.printGridlines = g == GridLinesPrint || g == GridLinesAll
}

// SetMargins sets page margins in inches.
func (s *Sheet) SetMargins(m Margins) error {
	for _, v := range []float64{m.Left, m.Right, m.Top, m.Bottom, m.Header, m.Footer} {
		if err := checkFinite(v); err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("margin %g: %w", v, ErrOutOfRange)
		}
	}
	s.page.margins = m
	return nil
}

// SetHeader sets the page header using Excel's &L/&C/&R control codes.
func (s *Sheet) SetHeader(text string) error {
	if n := utf8.RuneCountInString(text); n > maxHeaderFooter {
		return fmt.Errorf("header of %d characters: %w", n, ErrStringTooLong)
	}
	s.page.header = text
	return nil
}

// SetFooter sets the page footer.
func (s *Sheet) SetFooter(text string) error {
	if n := utf8.RuneCountInString(text); n > maxHeaderFooter {
		return fmt.Errorf("footer of %d characters: %w", n, ErrStringTooLong)
	}
	s.page.footer = text
	return nil
}

// SetPrintScale sets the print scale percentage, 10..400. It cancels
// FitToPages.
func (s *Sheet) SetPrintScale(percent int) error {
	if percent < 10 || percent > 400 {
		return rangeErr("print scale", percent, 10, 400)
	}
	s.page.scale = percent
	s.page.fitToPage = false
	return nil
}

// FitToPages fits the printout to width x height pages; 0 leaves that
// direction unconstrained.
func (s *Sheet) FitToPages(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("fit to %dx%d pages: %w", width, height, ErrOutOfRange)
	}
	s.page.fitToPage = true
	s.page.fitWidth = width
	s.page.fitHeight = height
	return nil
}

// SetStartPage sets the number of the first printed page.
func (s *Sheet) SetStartPage(n int) error {
	if n < 1 {
		return rangeErr("start page", n, 1, math.MaxInt16)
	}
	s.page.firstPage = n
	return nil
}

// SetHPageBreaks inserts page breaks above the given rows.
func (s *Sheet) SetHPageBreaks(rows []int) error {
	b, err := pageBreaks(rows, MaxRows)
	if err != nil {
		return err
	}
	s.rowBreaks = b
	return nil
}

// SetVPageBreaks inserts page breaks left of the given columns.
func (s *Sheet) SetVPageBreaks(cols []int) error {
	b, err := pageBreaks(cols, MaxColumns)
	if err != nil {
		return err
	}
	s.colBreaks = b
	return nil
}

func pageBreaks(in []int, limit int) ([]int, error) {
	if len(in) > maxPageBreaks {
		return nil, fmt.Errorf("%d page breaks: %w", len(in), ErrOutOfRange)
	}
	out := slices.Clone(in)
	for _, v := range out {
		if v <= 0 || v >= limit {
			return nil, rangeErr("page break", v, 1, limit-1)
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// RepeatRows prints rows first..last at the top of every page.
func (s *Sheet) RepeatRows(first, last int) error {
	if first > last {
		first, last = last, first
	}
	if first < 0 || last >= MaxRows {
		return rangeErr("row", last, 0, MaxRows-1)
	}
	s.repeatRows = &[2]int{first, last}
	return nil
}

// RepeatColumns prints columns first..last on the left of every page.
func (s *Sheet) RepeatColumns(first, last int) error {
	if first > last {
		first, last = last, first
	}
	if first < 0 || last >= MaxColumns {
		return rangeErr("column", last, 0, MaxColumns-1)
	}
	s.repeatCols = &[2]int{first, last}
	return nil
}

// SetPrintArea limits printing to a range.
func (s *Sheet) SetPrintArea(r1, c1, r2, c2 int) error {
	r := RangeOf(r1, c1, r2, c2)
	if err := r.validate(); err != nil {
		return err
	}
	s.printArea = &r
	return nil
}

// Autofilter adds filter buttons to the header row of r.
func (s *Sheet) Autofilter(r1, c1, r2, c2 int) error {
	r := RangeOf(r1, c1, r2, c2)
	if err := r.validate(); err != nil {
		return err
	}
	for _, t := range s.tables {
		if t.autofilter() && t.ref.Overlaps(r) {
			return fmt.Errorf("autofilter %s overlaps table %s: %w", r, t.name, ErrOverlappingTable)
		}
	}
	s.autoFilter = &r
	return nil
}

// OutlineSettings controls how grouped rows and columns are displayed.
func (s *Sheet) OutlineSettings(visible, symbolsBelow, symbolsRight, autoStyle bool) {
	s.outline = outlineSettings{visible: visible, symbolsBelow: symbolsBelow, symbolsRight: symbolsRight, autoStyle: autoStyle}
}

// SetVBAName sets the sheet code name used by macros.
func (s *Sheet) SetVBAName(name string) error {
	if err := validateVBAName(name); err != nil {
		return err
	}
	s.vbaName = name
	return nil
}

// Activate makes this the sheet shown when the file is opened.
func (s *Sheet) Activate() {
	s.selected = true
	s.hidden = false
	s.workbook.activeSheet = s.index
}

// Select marks the sheet tab as selected.
func (s *Sheet) Select() {
	s.selected = true
	s.hidden = false
}

// Hide hides the sheet. The active sheet cannot be hidden.
func (s *Sheet) Hide() error {
	if s.workbook.activeSheet == s.index {
		return fmt.Errorf("sheet %q is active: %w", s.name, ErrInvalidRange)
	}
	s.hidden = true
	s.selected = false
	return nil
}

// SetFirstSheet makes this the first visible tab.
func (s *Sheet) SetFirstSheet() {
	s.hidden = false
	s.workbook.firstSheet = s.index
}
