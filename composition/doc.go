// Package composition extracts (element, value, unit) facts from
// reconstructed tables.
//
// # Strategies
//
// Extraction is performed by types implementing the [Strategy] interface,
// each a different hypothesis about how a table encodes element/value pairs.
// The [Parser] tries strategies in priority order and the first one whose
// candidates survive correction and validation wins for that table:
//
//   - [ColumnStrategy] - column 0 holds symbols, later columns hold values
//   - [CellStrategy] - symbol and value share a single cell ("Mn1.12")
//   - [HeaderStrategy] - header row holds symbols, data rows hold values
//   - [HeuristicStrategy] - nearest symbol/value pairing, ignoring structure
//
// # Correction and Validation
//
// Every candidate pair passes through the [Engine], which corrects known OCR
// misreads of element symbols, repairs numeric strings with a missing decimal
// point, assigns a unit, and rejects values outside the configured plausible
// range. Rejection reasons are counted, never fatal.
//
// The element symbol set and misread correction table are process-wide
// read-only state, safe for concurrent use across pages.
//
// # Aggregation
//
// The [Aggregator] merges entries across the pages of a document,
// deduplicating by element symbol; the reading with the higher recognition
// confidence wins.
package composition
