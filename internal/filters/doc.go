// Package filters implements the PDF stream decompression filters needed to
// recover scanned page images, currently Flate with the PNG row predictors.
package filters
