//go:build ocr

// Package ocr extracts positioned word tokens from scanned page images.
//
// This package wraps the Tesseract OCR engine via gosseract and decodes its
// hOCR output into tokens. It requires Tesseract to be installed on the
// system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"github.com/tsawler/matcert/hocr"
	"github.com/tsawler/matcert/model"
)

// Client wraps Tesseract for token extraction.
type Client struct {
	client *gosseract.Client
}

// New creates a new OCR client.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	client := gosseract.NewClient()
	return &Client{client: client}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// RecognizePage performs OCR on image data (PNG, TIFF, JPEG, etc.) and
// returns the recognized word tokens for the given page index. Words the
// engine reports with empty text are discarded.
func (c *Client) RecognizePage(imageData []byte, page int) ([]model.Token, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	data, err := c.client.HOCRText()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	pages, err := hocr.Parse([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("decoding OCR output: %w", err)
	}

	var tokens []model.Token
	for _, p := range pages {
		for _, tok := range p.Tokens {
			tok.Page = page
			tokens = append(tokens, tok)
		}
	}
	return tokens, nil
}

// SetLanguage sets the language(s) for OCR recognition.
// Multiple languages can be specified as a "+" separated string (e.g., "eng+fra").
// Default is "eng" (English).
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}

// SetPageSegMode sets the page segmentation mode.
// This affects how Tesseract analyzes the page layout.
// See gosseract.PageSegMode constants for available modes.
func (c *Client) SetPageSegMode(mode gosseract.PageSegMode) error {
	return c.client.SetPageSegMode(mode)
}
