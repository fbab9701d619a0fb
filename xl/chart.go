package xl

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ChartType selects the chart family.
type ChartType int

const (
	ChartColumn ChartType = iota + 1
	ChartColumnStacked
	ChartBar
	ChartBarStacked
	ChartLine
	ChartArea
	ChartAreaStacked
	ChartPie
	ChartDoughnut
	ChartScatter
)

// LegendPosition places the chart legend.
type LegendPosition int

const (
	LegendRight LegendPosition = iota
	LegendNone
	LegendTop
	LegendBottom
	LegendLeft
)

var legendPositions = map[LegendPosition]string{
	LegendRight:  "r",
	LegendTop:    "t",
	LegendBottom: "b",
	LegendLeft:   "l",
}

// Default chart size in pixels.
const (
	chartWidth  = 480
	chartHeight = 288
)

// ChartSeries is one data series. Categories and Values are range
// references such as "Sheet1!$A$2:$A$7". Name is literal text, or a cell
// reference when it starts with '='.
type ChartSeries struct {
	Name       string
	Categories string
	Values     string
	Color      Color
}

// Chart is created by Workbook.AddChart and shown by Sheet.InsertChart.
type Chart struct {
	workbook *Workbook
	id       int
	typ      ChartType
	series   []*ChartSeries
	title    string
	xTitle   string
	yTitle   string
	legend   LegendPosition
	inserted bool
}

// AddChart creates a chart of type t.
func (wb *Workbook) AddChart(t ChartType) (*Chart, error) {
	if t < ChartColumn || t > ChartScatter {
		return nil, fmt.Errorf("chart type %d: %w", t, ErrOutOfRange)
	}
	c := &Chart{workbook: wb, id: len(wb.charts) + 1, typ: t}
	wb.charts = append(wb.charts, c)
	return c, nil
}

func (c *Chart) Type() ChartType { return c.typ }

// AddSeries appends a series plotting values against categories.
func (c *Chart) AddSeries(categories, values string) *ChartSeries {
	s := &ChartSeries{
		Categories: strings.TrimPrefix(categories, "="),
		Values:     strings.TrimPrefix(values, "="),
	}
	c.series = append(c.series, s)
	return s
}

func (c *Chart) SetTitle(title string)      { c.title = title }
func (c *Chart) SetXAxisTitle(title string) { c.xTitle = title }
func (c *Chart) SetYAxisTitle(title string) { c.yTitle = title }
func (c *Chart) SetLegend(p LegendPosition) { c.legend = p }

func (c *Chart) validate() error {
	if len(c.series) == 0 {
		return fmt.Errorf("chart %d has no series: %w", c.id, ErrInvalidRange)
	}
	for i, s := range c.series {
		if strings.TrimPrefix(s.Values, "=") == "" {
			return fmt.Errorf("chart %d series %d has no values: %w", c.id, i+1, ErrInvalidRange)
		}
	}
	for _, t := range []string{c.title, c.xTitle, c.yTitle} {
		if n := utf8.RuneCountInString(t); n > 255 {
			return fmt.Errorf("chart title of %d characters: %w", n, ErrStringTooLong)
		}
	}
	return nil
}

func (c *Chart) hasAxes() bool {
	return c.typ != ChartPie && c.typ != ChartDoughnut
}

// InsertChart shows c over the grid with its top-left corner in (row, col).
// A chart can be inserted once.
func (s *Sheet) InsertChart(row, col int, c *Chart, opts *ImageOptions) error {
	if err := checkCell(row, col); err != nil {
		return err
	}
	if c == nil || c.workbook != s.workbook {
		return fmt.Errorf("chart does not belong to this workbook: %w", ErrInvalidRange)
	}
	if c.inserted {
		return fmt.Errorf("chart %d is already inserted: %w", c.id, ErrInvalidRange)
	}
	if err := c.validate(); err != nil {
		return err
	}
	var o ImageOptions
	if opts != nil {
		o = *opts
	}
	if err := o.validate(); err != nil {
		return err
	}
	c.inserted = true
	s.charts = append(s.charts, &chartAnchor{
		anchor: anchor{
			row: row, col: col,
			offsetX: o.OffsetX, offsetY: o.OffsetY,
			width:       scaled(chartWidth, o.ScaleX),
			height:      scaled(chartHeight, o.ScaleY),
			description: o.Description,
		},
		chart: c,
	})
	return nil
}
