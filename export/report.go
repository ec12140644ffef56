package export

import (
	"fmt"
	"io"

	"github.com/tsawler/matcert/composition"
	"github.com/tsawler/matcert/model"
)

// WriteReport writes a plain-text run report: the extracted composition
// followed by per-document diagnostics.
func WriteReport(w io.Writer, entries []model.CompositionEntry, summary composition.Summary) error {
	var err error
	p := func(format string, args ...interface{}) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	p("Chemical composition (%d elements)\n", len(entries))
	sum := 0.0
	for _, entry := range entries {
		p("  %-3s %10s %-8s (confidence %.1f)\n",
			entry.ElementSymbol, FormatValue(entry), entry.Unit, entry.Confidence)
		if !entry.Trace {
			sum += entry.Value
		}
	}
	if len(entries) > 0 {
		p("  sum %.2f (a full analysis totals near 100)\n", sum)
	}

	p("\nPages processed:       %d\n", summary.PagesProcessed)
	p("Tables reconstructed:  %d\n", summary.TablesFound)
	p("Composition tables:    %d\n", summary.TablesClassified)
	p("Entries accepted:      %d\n", summary.EntriesAccepted)
	p("Pairs dropped:         %d\n", summary.Dropped.Total())

	if summary.Dropped.Total() > 0 {
		p("  unrecognized element: %d\n", summary.Dropped.UnrecognizedElement)
		p("  unparseable value:    %d\n", summary.Dropped.UnparseableValue)
		p("  implausible value:    %d\n", summary.Dropped.ImplausibleValue)
	}

	return err
}
