package tables

import (
	"strings"

	"github.com/tsawler/matcert/composition"
	"github.com/tsawler/matcert/model"
)

// Signal identifies which rule accepted a table as a composition table.
// The parser uses it to bias strategy order.
type Signal int

const (
	// SignalNone indicates the table failed every rule.
	SignalNone Signal = iota
	// SignalHeaderSymbols indicates the leading rows contain enough
	// recognized element symbols.
	SignalHeaderSymbols
	// SignalUnitKeyword indicates a cell carries a unit marker or a
	// composition-related header keyword.
	SignalUnitKeyword
	// SignalHeuristicPairs indicates only heuristic pairing recovered
	// enough plausible element/value pairs.
	SignalHeuristicPairs
)

func (s Signal) String() string {
	switch s {
	case SignalHeaderSymbols:
		return "header-symbols"
	case SignalUnitKeyword:
		return "unit-keyword"
	case SignalHeuristicPairs:
		return "heuristic-pairs"
	default:
		return "none"
	}
}

// Classification is the classifier's judgment of one table. It annotates;
// the table itself is never modified.
type Classification struct {
	IsComposition bool
	Signal        Signal
}

// Classifier decides whether a reconstructed grid plausibly represents a
// chemical-composition table.
type Classifier struct {
	// MinHeaderSymbols is how many recognized symbols a leading row must
	// contain to accept on the header rule.
	MinHeaderSymbols int

	// MinHeuristicPairs is how many validated element/value pairs the
	// heuristic fallback must find to accept on that rule alone.
	MinHeuristicPairs int

	engine    *composition.Engine
	heuristic *composition.HeuristicStrategy
}

// NewClassifier creates a classifier using the given correction and
// validation configuration for its symbol and pair checks.
func NewClassifier(config composition.Config) (*Classifier, error) {
	engine, err := composition.NewEngine(config)
	if err != nil {
		return nil, err
	}
	return &Classifier{
		MinHeaderSymbols:  2,
		MinHeuristicPairs: 2,
		engine:            engine,
		heuristic:         &composition.HeuristicStrategy{},
	}, nil
}

// leadingRows is how many rows are considered header-like; certificates
// often stack a caption row above the symbol row.
const leadingRows = 3

// Classify judges one table. Tables failing every rule are excluded from
// downstream parsing; that is an expected outcome, not an error.
func (c *Classifier) Classify(t *model.Table) Classification {
	if c.headerSymbols(t) {
		return Classification{IsComposition: true, Signal: SignalHeaderSymbols}
	}
	if c.unitOrKeyword(t) {
		return Classification{IsComposition: true, Signal: SignalUnitKeyword}
	}
	if c.heuristicPairs(t) {
		return Classification{IsComposition: true, Signal: SignalHeuristicPairs}
	}
	return Classification{}
}

// headerSymbols reports whether any of the leading rows contains at least
// MinHeaderSymbols cells that correct to recognized element symbols.
func (c *Classifier) headerSymbols(t *model.Table) bool {
	limit := leadingRows
	if t.RowCount() < limit {
		limit = t.RowCount()
	}
	for r := 0; r < limit; r++ {
		count := 0
		for _, cell := range t.Rows[r] {
			if _, ok := composition.CorrectSymbol(cell.Text); ok {
				count++
			}
		}
		if count >= c.MinHeaderSymbols {
			return true
		}
	}
	return false
}

// unitOrKeyword reports whether any cell carries a unit marker or a
// composition keyword.
func (c *Classifier) unitOrKeyword(t *model.Table) bool {
	found := false
	t.Cells(func(cell *model.Cell) {
		if found || cell.IsEmpty() {
			return
		}
		if _, ok := composition.DetectUnit(cell.Text); ok {
			found = true
			return
		}
		lower := strings.ToLower(cell.Text)
		for _, kw := range composition.Keywords() {
			if strings.Contains(lower, kw) {
				found = true
				return
			}
		}
	})
	return found
}

// heuristicPairs reports whether structure-free pairing alone would recover
// at least MinHeuristicPairs validated element/value pairs.
func (c *Classifier) heuristicPairs(t *model.Table) bool {
	accepted := 0
	for _, cand := range c.heuristic.Extract(t) {
		if _, reason := c.engine.Resolve(cand); reason == composition.RejectNone {
			accepted++
			if accepted >= c.MinHeuristicPairs {
				return true
			}
		}
	}
	return false
}
