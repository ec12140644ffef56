package model

import (
	"fmt"
	"strings"
)

// Token is one OCR-recognized text fragment positioned on a rasterized page.
// Tokens are created once per page by the OCR collaborator and are immutable
// afterward.
type Token struct {
	Text       string
	BBox       BBox
	Confidence float64 // Recognition confidence reported by the engine (0-100)
	Page       int     // Zero-based page index
}

// NewToken validates and creates a token. Tokens with empty text or negative
// bounding box dimensions are rejected; upstream ingestion discards them.
func NewToken(text string, bbox BBox, confidence float64, page int) (Token, error) {
	if strings.TrimSpace(text) == "" {
		return Token{}, fmt.Errorf("token text is empty")
	}
	if bbox.Width < 0 || bbox.Height < 0 {
		return Token{}, fmt.Errorf("token %q has negative bounding box dimensions (%gx%g)",
			text, bbox.Width, bbox.Height)
	}
	if page < 0 {
		return Token{}, fmt.Errorf("token %q has negative page index %d", text, page)
	}
	return Token{
		Text:       strings.TrimSpace(text),
		BBox:       bbox,
		Confidence: confidence,
		Page:       page,
	}, nil
}

// Center returns the geometric center of the token's bounding box.
func (t Token) Center() Point {
	return t.BBox.Center()
}

// VerticalCenter returns the Y coordinate of the token's center.
func (t Token) VerticalCenter() float64 {
	return t.BBox.Y + t.BBox.Height/2
}

// HorizontalCenter returns the X coordinate of the token's center.
func (t Token) HorizontalCenter() float64 {
	return t.BBox.X + t.BBox.Width/2
}

// OverlapsVertically reports whether this token's vertical span overlaps
// another's, allowing a gap of up to tolerance pixels between them.
func (t Token) OverlapsVertically(other Token, tolerance float64) bool {
	return t.BBox.VerticalOverlap(other.BBox) >= -tolerance
}
