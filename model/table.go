package model

import "strings"

// Cell is a token, or a whitespace-merged group of tokens, assigned to one
// (row, column) position in a reconstructed table grid.
type Cell struct {
	Text string
	BBox BBox // Union of the constituent token boxes
	Row  int
	Col  int
	// Confidence is the mean recognition confidence of the merged tokens.
	// It travels with extracted entries so duplicate elements across pages
	// can be resolved in favor of the better-recognized reading.
	Confidence float64
}

// IsEmpty reports whether the cell holds no text.
func (c Cell) IsEmpty() bool {
	return strings.TrimSpace(c.Text) == ""
}

// Table is an ordered collection of rows reconstructed from one page.
// Rows may be ragged: a row whose column count disagrees with the page's
// modal column count is kept but flagged irregular, since some extraction
// strategies tolerate ragged rows and others do not.
//
// A table is never mutated after construction.
type Table struct {
	Rows [][]Cell
	Page int
	BBox BBox

	// Irregular flags rows whose column count differs from ModalCols.
	Irregular []bool

	// ModalCols is the most common column count across rows.
	ModalCols int
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// GetCell returns the cell at the given position, or nil if out of bounds.
func (t *Table) GetCell(row, col int) *Cell {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	if col < 0 || col >= len(t.Rows[row]) {
		return nil
	}
	return &t.Rows[row][col]
}

// IsIrregular reports whether the given row was flagged as disagreeing with
// the table's modal column count.
func (t *Table) IsIrregular(row int) bool {
	if row < 0 || row >= len(t.Irregular) {
		return false
	}
	return t.Irregular[row]
}

// Text returns the table contents with cells joined by tabs and rows by
// newlines. Used by the classifier for keyword scans.
func (t *Table) Text() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, cell := range row {
			sb.WriteString(cell.Text)
			if j < len(row)-1 {
				sb.WriteString("\t")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Cells calls fn for every cell in row-major order.
func (t *Table) Cells(fn func(c *Cell)) {
	for i := range t.Rows {
		for j := range t.Rows[i] {
			fn(&t.Rows[i][j])
		}
	}
}
