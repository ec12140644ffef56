// Package model defines the shared data types used throughout matcert:
// geometric primitives, OCR tokens, reconstructed tables, and extracted
// composition entries.
//
// All coordinates are in pixel units of the rasterized page, with the origin
// at the top-left corner and Y increasing downward (the coordinate system
// OCR engines report bounding boxes in).
//
// # Data Flow
//
// [Token] values are produced by an OCR collaborator (the ocr or hocr
// packages) and grouped into [Table] values by the tables package. The
// composition package extracts [CompositionEntry] values from tables.
// Tables are never mutated after construction; corrections operate on
// derived entries only.
package model
