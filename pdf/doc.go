// Package pdf reads scanned-certificate PDFs and recovers their embedded
// page images for the OCR pipeline.
//
// Certificates usually arrive as scans wrapped in PDF: each page carries a
// single full-page image XObject. The parser scans the body for indirect
// objects rather than trusting the cross-reference table, so files that
// passed through fax or email gateways with mangled trailers still open.
package pdf
