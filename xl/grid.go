package xl

import (
	"fmt"
	"slices"
)

// The grid is a map of rows, each a map of cells, so memory follows the
// number of populated cells. The writer visits both levels in sorted key
// order, which yields strictly increasing (row, col) pairs.

func (s *Sheet) cell(row, col int) *Cell {
	r := s.rows[row]
	if r == nil {
		return nil
	}
	return r.cells[col]
}

func (s *Sheet) row(n int) *Row {
	r := s.rows[n]
	if r == nil {
		r = &Row{cells: map[int]*Cell{}}
		s.rows[n] = r
	}
	return r
}

func (s *Sheet) put(row, col int, c *Cell) {
	s.row(row).cells[col] = c
	if row >= s.nextRow {
		s.nextRow = row + 1
	}
}

func (s *Sheet) clear(row, col int) {
	r := s.rows[row]
	if r == nil {
		return
	}
	delete(r.cells, col)
	if len(r.cells) == 0 && !r.custom() {
		delete(s.rows, row)
	}
}

// mergeAt returns the merged range covering (row, col).
func (s *Sheet) mergeAt(row, col int) (Range, bool) {
	for _, m := range s.merges {
		if m.Contains(row, col) {
			return m, true
		}
	}
	return Range{}, false
}

// checkWritable rejects writes into cells hidden by a merge. The top-left
// cell of a merge holds its value and stays writable.
func (s *Sheet) checkWritable(row, col int) error {
	if m, ok := s.mergeAt(row, col); ok && (m.FirstRow != row || m.FirstCol != col) {
		return fmt.Errorf("%s is covered by merge %s: %w", CellName(row, col), m, ErrOverlappingMerge)
	}
	return nil
}

// MergeRange merges the block r1,c1:r2,c2, storing v in its top-left cell.
// When f is set the covered cells carry it too, so borders and fills span
// the whole block.
func (s *Sheet) MergeRange(r1, c1, r2, c2 int, v Value, f *Format) error {
	m := RangeOf(r1, c1, r2, c2)
	if err := m.validate(); err != nil {
		return err
	}
	if m.single() {
		return fmt.Errorf("merge %s: single cell: %w", m, ErrInvalidRange)
	}
	if err := s.checkFormat(f); err != nil {
		return err
	}
	for _, other := range s.merges {
		if other.Overlaps(m) {
			return fmt.Errorf("merge %s overlaps %s: %w", m, other, ErrOverlappingMerge)
		}
	}
	for _, t := range s.tables {
		if t.ref.Overlaps(m) {
			return fmt.Errorf("merge %s overlaps table %s: %w", m, t.name, ErrOverlappingMerge)
		}
	}
	if v == nil {
		v = Blank{}
	}
	if err := s.workbook.validateValue(m.FirstRow, m.FirstCol, v); err != nil {
		return err
	}

	s.merges = append(s.merges, m)
	s.store(m.FirstRow, m.FirstCol, v, f)
	for row := m.FirstRow; row <= m.LastRow; row++ {
		for col := m.FirstCol; col <= m.LastCol; col++ {
			if row == m.FirstRow && col == m.FirstCol {
				continue
			}
			if f != nil {
				s.put(row, col, &Cell{value: Blank{}, format: f})
			} else {
				s.clear(row, col)
			}
		}
	}
	return nil
}

// UnmergeRange removes the merge whose top-left cell is (row, col). Cell
// contents are kept.
func (s *Sheet) UnmergeRange(row, col int) error {
	for i, m := range s.merges {
		if m.FirstRow == row && m.FirstCol == col {
			s.merges = slices.Delete(s.merges, i, i+1)
			return nil
		}
	}
	return fmt.Errorf("no merge at %s: %w", CellName(row, col), ErrInvalidRange)
}

// Merges lists merged ranges in the order they were created.
func (s *Sheet) Merges() []Range {
	return slices.Clone(s.merges)
}

// Dimension is the smallest range enclosing every populated cell.
func (s *Sheet) Dimension() (Range, bool) {
	var d Range
	found := false
	for rn, r := range s.rows {
		for cn := range r.cells {
			if !found {
				d = CellRange(rn, cn)
				found = true
				continue
			}
			d.FirstRow = min(d.FirstRow, rn)
			d.LastRow = max(d.LastRow, rn)
			d.FirstCol = min(d.FirstCol, cn)
			d.LastCol = max(d.LastCol, cn)
		}
	}
	return d, found
}
