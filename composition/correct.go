package composition

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// CorrectSymbol resolves raw OCR text to a recognized element symbol.
// It tries, in order: an exact match against the symbol set, the misread
// correction table, and a whitespace-stripped case-normalized retry.
// The second return value is false when no correction succeeds.
//
// Correction is deterministic: identical input always yields the identical
// result.
func CorrectSymbol(raw string) (string, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", false
	}

	if IsSymbol(text) {
		return text, true
	}

	if fixed, ok := misreads[text]; ok {
		return fixed, true
	}

	// Strip embedded whitespace and normalize case ("NI " -> "Ni")
	stripped := strings.Join(strings.Fields(text), "")
	normalized := titleCaser.String(strings.ToLower(stripped))
	if IsSymbol(normalized) {
		return normalized, true
	}
	if fixed, ok := misreads[stripped]; ok {
		return fixed, true
	}

	return "", false
}

// DetectUnit scans text for a recognized composition unit marker and returns
// it. The second return value is false when no marker is present.
func DetectUnit(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, u := range units {
		if strings.Contains(lower, strings.ToLower(u)) {
			return u, true
		}
	}
	return "", false
}

var digitSpaceRe = regexp.MustCompile(`(\d)\s+(\d)`)

// normalizeNumber parses raw OCR text as a decimal value, repairing common
// recognition damage: comma decimal separators, stripped percent signs,
// spaces split into digit runs, and missing decimal points.
//
// A leading "<" marks a detection-limit bound ("<0.001"); the bound itself is
// returned with trace set.
//
// Missing-point repair applies only to all-digit strings with a leading
// zero: a printed "0.134" that loses its point leaves "0134", while a
// genuine integer never starts with zero. The point is restored after the
// leading zero, so "0134" becomes 0.134 and "011" becomes 0.11. Digit
// strings without a leading zero are taken at face value and left to range
// validation.
func normalizeNumber(raw string) (value float64, trace bool, ok bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return 0, false, false
	}

	if strings.HasPrefix(text, "<") {
		trace = true
		text = strings.TrimSpace(text[1:])
	}

	text = strings.ReplaceAll(text, ",", ".")
	text = strings.ReplaceAll(text, "%", "")
	text = digitSpaceRe.ReplaceAllString(text, "${1}${2}")
	text = strings.TrimSpace(text)

	// Ranges such as "0.05-0.10" report the lower bound
	if i := strings.Index(text, "-"); i > 0 {
		text = text[:i]
	}

	if strings.Contains(text, ".") {
		if v, err := strconv.ParseFloat(text, 64); err == nil {
			return v, trace, true
		}
		// Stray dot from noise; drop it and fall through to digit repair
		text = strings.ReplaceAll(text, ".", "")
	}

	digits := keepDigits(text)
	if digits == "" {
		return 0, false, false
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false, false
	}

	if trace {
		return traceScale(n), true, true
	}

	if digits[0] == '0' && len(digits) > 1 {
		v, err := strconv.ParseFloat("0."+digits[1:], 64)
		if err != nil {
			return 0, false, false
		}
		return v, false, true
	}

	return float64(n), false, true
}

// traceScale maps a separator-less trace reading to the magnitude trace
// values are printed at ("<1" means <0.001, "<25" means <0.0025).
func traceScale(n int64) float64 {
	switch {
	case n < 10:
		return float64(n) / 1000
	case n < 1000:
		return float64(n) / 10000
	default:
		return float64(n) / 1000000
	}
}

// keepDigits removes every non-digit rune.
func keepDigits(text string) string {
	var sb strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

var numericRe = regexp.MustCompile(`^<?\s*[\d.,\s]+%?$`)

// looksNumeric reports whether cell text is plausibly a numeric reading.
func looksNumeric(text string) bool {
	text = strings.TrimSpace(text)
	if !strings.ContainsAny(text, "0123456789") {
		return false
	}
	// Allow a trailing range ("0.05-0.10") by checking the first segment
	if i := strings.Index(text, "-"); i > 0 {
		text = text[:i]
	}
	return numericRe.MatchString(strings.TrimSpace(text))
}
