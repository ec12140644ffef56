package composition

import "github.com/tsawler/matcert/model"

// HeaderStrategy assumes row 0 holds element symbols, one per column, and
// later data rows hold the corresponding values aligned by column index.
// Only rows whose column count matches the header participate; ragged rows
// flagged irregular by grid reconstruction are excluded.
type HeaderStrategy struct{}

// Name returns the strategy's identifier ("header").
func (s *HeaderStrategy) Name() string {
	return "header"
}

// Extract pairs header symbols with the value in the same grid column of
// each matching data row.
func (s *HeaderStrategy) Extract(t *model.Table) []Candidate {
	if t.RowCount() < 2 || t.IsIrregular(0) {
		return nil
	}

	header := t.Rows[0]
	context := rowText(header)

	// Grid column index -> header cell, for alignment across sparse rows
	symbolCols := make(map[int]model.Cell)
	for _, cell := range header {
		if _, ok := CorrectSymbol(cell.Text); ok {
			symbolCols[cell.Col] = cell
		}
	}
	if len(symbolCols) == 0 {
		return nil
	}

	var out []Candidate
	for r := 1; r < t.RowCount(); r++ {
		if t.IsIrregular(r) || len(t.Rows[r]) != len(header) {
			continue
		}
		for _, cell := range t.Rows[r] {
			headerCell, ok := symbolCols[cell.Col]
			if !ok || cell.IsEmpty() || !looksNumeric(cell.Text) {
				continue
			}
			out = append(out, Candidate{
				SymbolText: headerCell.Text,
				ValueText:  cell.Text,
				UnitText:   context,
				Confidence: (headerCell.Confidence + cell.Confidence) / 2,
			})
		}
	}

	return out
}
