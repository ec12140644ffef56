// Package tables reconstructs table grids from positioned OCR tokens and
// judges whether a reconstructed grid is a chemical-composition table.
//
// # Grid Reconstruction
//
// The [GridBuilder] uses a multi-step algorithm:
//
//  1. Sort tokens by vertical center
//  2. Cluster into rows within a tolerance derived from the median token
//     height on the page
//  3. Sort each row by horizontal position
//  4. Derive column separators from horizontal gap statistics across rows
//  5. Assign tokens to the column their span overlaps most
//  6. Merge tokens sharing a (row, column) bucket into single cells
//
// Widely separated runs of rows become separate tables. Rows whose column
// count disagrees with the modal count are kept but flagged irregular.
//
// All tolerances are relative, derived from median token height and median
// intra-row gap, so reconstruction is stable across scan resolutions; the
// page DPI only anchors the fallback values used when the statistics are
// degenerate.
//
// # Classification
//
// The [Classifier] accepts a grid as a composition table when its leading
// rows contain recognized element symbols, when any cell carries a unit
// marker or composition keyword, or when heuristic pairing alone would
// recover enough element/value pairs. The classifier never mutates the
// grid; it records which signal triggered acceptance so parsing can bias
// its strategy order.
package tables
