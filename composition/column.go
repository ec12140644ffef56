package composition

import "github.com/tsawler/matcert/model"

// ColumnStrategy assumes the first column of each row holds an element
// symbol and the subsequent columns hold values. One table may report
// several value columns for the same element (top/bottom specimens, heats);
// each value-bearing cell yields its own candidate.
type ColumnStrategy struct{}

// Name returns the strategy's identifier ("column").
func (s *ColumnStrategy) Name() string {
	return "column"
}

// Extract produces one candidate per (symbol row, value cell) pairing.
// Rows whose first cell does not correct to a recognized symbol are skipped,
// so header and caption rows fall out naturally.
func (s *ColumnStrategy) Extract(t *model.Table) []Candidate {
	var out []Candidate

	for i := range t.Rows {
		row := t.Rows[i]
		if len(row) < 2 {
			continue
		}

		first := row[0]
		if _, ok := CorrectSymbol(first.Text); !ok {
			continue
		}

		context := rowText(row)
		for _, cell := range row[1:] {
			if cell.IsEmpty() || !looksNumeric(cell.Text) {
				continue
			}
			out = append(out, Candidate{
				SymbolText: first.Text,
				ValueText:  cell.Text,
				UnitText:   context,
				Confidence: (first.Confidence + cell.Confidence) / 2,
			})
		}
	}

	return out
}
