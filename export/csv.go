package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/tsawler/matcert/model"
)

// csvHeader is the fixed column layout of the CSV export.
var csvHeader = []string{"element_symbol", "value", "unit"}

// WriteCSV writes composition entries as CSV with a fixed header row.
// Trace entries are written with a leading "<" on the value.
func WriteCSV(w io.Writer, entries []model.CompositionEntry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("export: writing header: %w", err)
	}

	for _, entry := range entries {
		record := []string{entry.ElementSymbol, FormatValue(entry), entry.Unit}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("export: writing %s: %w", entry.ElementSymbol, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// FormatValue renders an entry's value for display. Small values keep four
// decimal places so trace-level content survives rounding; larger values keep
// two. Trace entries carry a leading "<".
func FormatValue(entry model.CompositionEntry) string {
	decimals := 2
	if entry.Value < 0.1 {
		decimals = 4
	}
	s := strconv.FormatFloat(entry.Value, 'f', decimals, 64)
	if entry.Trace {
		return "<" + s
	}
	return s
}
