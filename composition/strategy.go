package composition

import (
	"strings"

	"github.com/tsawler/matcert/model"
)

// Strategy is one hypothesis about how a table encodes element/value pairs.
// Extract returns raw candidates; it performs no validation of its own.
// Strategies must be pure functions of the table and the static correction
// tables, safe for concurrent use.
type Strategy interface {
	// Extract produces candidate pairs from a table.
	Extract(t *model.Table) []Candidate

	// Name returns the strategy identifier.
	Name() string
}

// TableResult is the outcome of parsing one table.
type TableResult struct {
	// Entries are the accepted composition entries.
	Entries []model.CompositionEntry

	// Strategy is the name of the winning strategy, empty if none won.
	Strategy string

	// Dropped tallies candidate pairs the winning strategy produced that
	// failed correction or validation.
	Dropped DropCounts
}

// Parser extracts composition entries from classified tables by trying
// strategies in priority order. The first strategy yielding at least one
// validated entry wins for that table; results are never merged across
// strategies for the same table.
type Parser struct {
	engine     *Engine
	strategies []Strategy
}

// NewParser creates a parser with the standard strategy order: column-based,
// cell-based, header-based, then the heuristic fallback.
func NewParser(config Config) (*Parser, error) {
	engine, err := NewEngine(config)
	if err != nil {
		return nil, err
	}
	return &Parser{
		engine: engine,
		strategies: []Strategy{
			&ColumnStrategy{},
			&CellStrategy{},
			&HeaderStrategy{},
			&HeuristicStrategy{},
		},
	}, nil
}

// Parse runs the strategies against one table. When preferHeuristic is set
// (the classifier accepted the table on the heuristic signal alone), the
// heuristic fallback is tried first.
//
// Parsing is idempotent: the same table always yields identical entries.
func (p *Parser) Parse(t *model.Table, preferHeuristic bool) TableResult {
	order := p.strategies
	if preferHeuristic {
		order = make([]Strategy, 0, len(p.strategies))
		var rest []Strategy
		for _, s := range p.strategies {
			if _, ok := s.(*HeuristicStrategy); ok {
				order = append(order, s)
			} else {
				rest = append(rest, s)
			}
		}
		order = append(order, rest...)
	}

	for _, s := range order {
		candidates := s.Extract(t)
		if len(candidates) == 0 {
			continue
		}

		var entries []model.CompositionEntry
		var drops DropCounts
		for _, c := range candidates {
			entry, reason := p.engine.Resolve(c)
			if reason == RejectNone {
				entries = append(entries, entry)
			} else {
				drops.count(reason)
			}
		}

		if len(entries) > 0 {
			rescueDecimals(entries)
			return TableResult{Entries: entries, Strategy: s.Name(), Dropped: drops}
		}
	}

	return TableResult{}
}

// Engine returns the parser's correction and validation engine.
func (p *Parser) Engine() *Engine {
	return p.engine
}

// rescueDecimals repairs a table whose values collectively lost their
// decimal points: if the mean accepted value exceeds 50, every value is
// divided by 100; if the mean exceeds 20, only values above 50 are.
func rescueDecimals(entries []model.CompositionEntry) {
	if len(entries) == 0 {
		return
	}

	sum := 0.0
	for _, e := range entries {
		sum += e.Value
	}
	mean := sum / float64(len(entries))

	switch {
	case mean > 50:
		for i := range entries {
			entries[i].Value /= 100
		}
	case mean > 20:
		for i := range entries {
			if entries[i].Value > 50 {
				entries[i].Value /= 100
			}
		}
	}
}

// rowText joins the text of a row's cells for unit detection.
func rowText(row []model.Cell) string {
	var sb strings.Builder
	for i, c := range row {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(c.Text)
	}
	return sb.String()
}
