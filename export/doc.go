// Package export writes extraction results to external formats.
//
// Composition entries can be exported as CSV for downstream systems, and a
// plain-text run report summarizes what was found and what was rejected.
package export
