package composition

import (
	"fmt"
	"math"

	"github.com/tsawler/matcert/model"
)

// Config holds correction and validation parameters.
type Config struct {
	// MinValue and MaxValue bound the plausible range for composition
	// values in percentage units. Corrected values outside the range are
	// rejected, never clamped.
	MinValue float64
	MaxValue float64

	// DefaultUnit is assigned when no unit marker appears in the input.
	DefaultUnit string
}

// DefaultConfig returns the default correction and validation configuration.
func DefaultConfig() Config {
	return Config{
		MinValue:    0,
		MaxValue:    150,
		DefaultUnit: "wt.%",
	}
}

// RejectReason identifies why a candidate pair was dropped.
type RejectReason int

const (
	// RejectNone indicates the pair was accepted.
	RejectNone RejectReason = iota
	// RejectUnrecognizedElement indicates symbol correction failed.
	RejectUnrecognizedElement
	// RejectUnparseableValue indicates numeric correction failed.
	RejectUnparseableValue
	// RejectImplausibleValue indicates the corrected value fell outside
	// the configured plausible range.
	RejectImplausibleValue
)

func (r RejectReason) String() string {
	switch r {
	case RejectNone:
		return "accepted"
	case RejectUnrecognizedElement:
		return "unrecognized element"
	case RejectUnparseableValue:
		return "unparseable value"
	case RejectImplausibleValue:
		return "implausible value"
	default:
		return "unknown"
	}
}

// DropCounts tallies rejected candidate pairs by reason.
type DropCounts struct {
	UnrecognizedElement int
	UnparseableValue    int
	ImplausibleValue    int
}

// Total returns the total number of dropped pairs.
func (d DropCounts) Total() int {
	return d.UnrecognizedElement + d.UnparseableValue + d.ImplausibleValue
}

// Add merges another tally into this one.
func (d *DropCounts) Add(other DropCounts) {
	d.UnrecognizedElement += other.UnrecognizedElement
	d.UnparseableValue += other.UnparseableValue
	d.ImplausibleValue += other.ImplausibleValue
}

func (d *DropCounts) count(reason RejectReason) {
	switch reason {
	case RejectUnrecognizedElement:
		d.UnrecognizedElement++
	case RejectUnparseableValue:
		d.UnparseableValue++
	case RejectImplausibleValue:
		d.ImplausibleValue++
	}
}

// Candidate is a raw (symbol text, value text) pair produced by a strategy,
// before correction and validation.
type Candidate struct {
	SymbolText string
	ValueText  string

	// UnitText is the surrounding text searched for a unit marker: the
	// cell itself, its row, or the table header, depending on strategy.
	UnitText string

	// Confidence is the recognition confidence of the source cells.
	Confidence float64
}

// Engine applies two-stage repair to candidate pairs: symbol correction
// against the recognized set and misread table, then numeric correction and
// range validation. It is pure and deterministic; identical input always
// yields the identical outcome.
type Engine struct {
	config Config
}

// NewEngine validates the configuration and creates an engine. It refuses
// to run with an inverted plausible range.
func NewEngine(config Config) (*Engine, error) {
	if config.MaxValue <= config.MinValue {
		return nil, fmt.Errorf("composition: MaxValue (%g) must be greater than MinValue (%g)",
			config.MaxValue, config.MinValue)
	}
	if config.DefaultUnit == "" {
		return nil, fmt.Errorf("composition: DefaultUnit must not be empty")
	}
	return &Engine{config: config}, nil
}

// Resolve corrects and validates one candidate pair. On success it returns
// the finished entry and RejectNone; otherwise the reason the pair was
// dropped.
func (e *Engine) Resolve(c Candidate) (model.CompositionEntry, RejectReason) {
	symbol, ok := CorrectSymbol(c.SymbolText)
	if !ok {
		return model.CompositionEntry{}, RejectUnrecognizedElement
	}

	value, trace, ok := normalizeNumber(c.ValueText)
	if !ok || math.IsNaN(value) || math.IsInf(value, 0) {
		return model.CompositionEntry{}, RejectUnparseableValue
	}

	unit := e.config.DefaultUnit
	if u, found := DetectUnit(c.ValueText); found {
		unit = u
	} else if u, found := DetectUnit(c.UnitText); found {
		unit = u
	}

	if value < e.config.MinValue || value > e.config.MaxValue {
		return model.CompositionEntry{}, RejectImplausibleValue
	}

	return model.CompositionEntry{
		ElementSymbol: symbol,
		Value:         value,
		Unit:          unit,
		Trace:         trace,
		Confidence:    c.Confidence,
	}, RejectNone
}
