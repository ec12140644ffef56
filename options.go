package matcert

import (
	"github.com/tsawler/matcert/composition"
	"github.com/tsawler/matcert/tables"
)

// Options holds configuration for a processing run.
type Options struct {
	// Tables configures grid reconstruction tolerances.
	Tables tables.Config

	// Composition configures symbol/value correction and the plausible
	// value range.
	Composition composition.Config

	// MinTokenConfidence is the recognition confidence floor; tokens below
	// it are discarded before grid reconstruction.
	MinTokenConfidence float64

	// SortByPriority reports common certificate elements first in the
	// merged output instead of first-seen order.
	SortByPriority bool

	// DPI is the assumed scan resolution for pages that do not report one.
	DPI int
}

// defaultDPI is the assumed scan resolution for certificate scans.
const defaultDPI = 300

// DefaultOptions returns the default processing options.
func DefaultOptions() Options {
	return Options{
		Tables:             tables.DefaultConfig(),
		Composition:        composition.DefaultConfig(),
		MinTokenConfidence: 30,
		SortByPriority:     false,
		DPI:                defaultDPI,
	}
}
