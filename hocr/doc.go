// Package hocr parses hOCR documents into positioned tokens.
//
// hOCR is the de-facto standard HTML microformat OCR engines emit: each
// recognized word is a span with class "ocrx_word" whose title attribute
// carries the bounding box and confidence ("bbox 100 200 300 400;
// x_wconf 95"). This package is the ingestion path for input that has
// already been through an OCR pass, and is also used by the ocr package to
// decode Tesseract's own hOCR output.
package hocr
