package composition

import (
	"regexp"

	"github.com/tsawler/matcert/model"
)

var (
	leadingSymbolRe  = regexp.MustCompile(`^([A-Za-z]{1,3})[\s:=]*(<?\d[\d.,]*%?)$`)
	trailingSymbolRe = regexp.MustCompile(`^(<?\d[\d.,]*%?)[\s:=]*([A-Za-z]{1,3})$`)
)

// CellStrategy assumes a single cell holds both the element symbol and its
// value, concatenated or separated minimally ("Mn1.12", "C: 0.05",
// "0.19Fe"). The cell text is split into a symbol-like substring and a
// numeric substring by pattern matching.
type CellStrategy struct{}

// Name returns the strategy's identifier ("cell").
func (s *CellStrategy) Name() string {
	return "cell"
}

// Extract produces one candidate per cell whose text splits into a symbol
// part and a numeric part.
func (s *CellStrategy) Extract(t *model.Table) []Candidate {
	var out []Candidate

	t.Cells(func(c *model.Cell) {
		if c.IsEmpty() {
			return
		}

		var symbolText, valueText string
		if m := leadingSymbolRe.FindStringSubmatch(c.Text); m != nil {
			symbolText, valueText = m[1], m[2]
		} else if m := trailingSymbolRe.FindStringSubmatch(c.Text); m != nil {
			symbolText, valueText = m[2], m[1]
		} else {
			return
		}

		out = append(out, Candidate{
			SymbolText: symbolText,
			ValueText:  valueText,
			UnitText:   c.Text,
			Confidence: c.Confidence,
		})
	})

	return out
}
