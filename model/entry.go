package model

// CompositionEntry is one accepted (element, value, unit) fact extracted
// from a composition table.
type CompositionEntry struct {
	ElementSymbol string  // A symbol from the recognized element set
	Value         float64 // Finite, within the configured plausible range
	Unit          string  // Defaults to "wt.%" when absent from the input

	// Trace marks a value read from a detection-limit bound such as
	// "<0.001"; Value then holds the bound itself.
	Trace bool

	// Confidence is the recognition confidence of the tokens the entry was
	// extracted from. It is not part of the exported record; the aggregator
	// uses it to pick between duplicate elements.
	Confidence float64
}
