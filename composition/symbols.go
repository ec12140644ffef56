package composition

// symbols is the set of element symbols accepted in composition tables:
// the alloying and trace elements that appear on material certificates.
// Initialized once, never mutated.
var symbols = map[string]struct{}{
	"Al": {}, "As": {}, "B": {}, "C": {}, "Ca": {}, "Co": {}, "Cr": {},
	"Cu": {}, "Fe": {}, "H": {}, "Mg": {}, "Mn": {}, "Mo": {}, "N": {},
	"Nb": {}, "Ni": {}, "O": {}, "P": {}, "Pb": {}, "S": {}, "Si": {},
	"Sn": {}, "Ta": {}, "Ti": {}, "V": {}, "W": {}, "Y": {}, "Zn": {},
	"Zr": {},
}

// misreads maps known OCR error strings to the symbol they stand for.
// Every value in this table is a member of the symbol set. Read-only.
var misreads = map[string]string{
	"Kin": "Mn", // M+n ligature often reads as K+i+n
	"kin": "Mn",
	"A1":  "Al", // lowercase L and digit one
	"T1":  "Ti",
	"Sl":  "Si",
	"S1":  "Si",
	"Gu":  "Cu",
	"Gr":  "Cr",
	"Fo":  "Fe",
	"Mh":  "Mn",
	"0":   "O", // lone digits standing for a symbol in element position
	"5":   "S",
}

// units are the recognized composition unit markers, longest match first.
var units = []string{"wt.%", "wt%", "weight%", "mass%", "at.%", "%"}

// keywords are header terms that mark a table as composition-related.
var keywords = []string{
	"composition", "chemical", "element", "requirement",
	"actual", "sample", "analysis", "heat",
}

// priority lists the elements reported first in exported output, in order.
var priority = []string{"Al", "V", "Fe", "C", "N", "O", "Y", "H"}

var priorityRank = func() map[string]int {
	m := make(map[string]int, len(priority))
	for i, sym := range priority {
		m[sym] = i
	}
	return m
}()

// IsSymbol reports whether text is exactly a recognized element symbol.
func IsSymbol(text string) bool {
	_, ok := symbols[text]
	return ok
}

// SymbolCount returns the size of the recognized symbol set.
func SymbolCount() int {
	return len(symbols)
}

// Keywords returns the composition table keyword list.
func Keywords() []string {
	return keywords
}
