package composition

import (
	"sort"

	"github.com/tsawler/matcert/model"
)

// Aggregator merges composition entries across the tables and pages of one
// document into a single deduplicated list. When the same element is
// reported more than once, the entry with the higher source recognition
// confidence wins; ties keep the first-seen entry. Output preserves the
// first-seen order of distinct elements.
//
// The aggregator is the single synchronization point of a document run; it
// is not safe for concurrent use.
type Aggregator struct {
	byPriority bool
	order      []string
	best       map[string]model.CompositionEntry
}

// NewAggregator creates an aggregator. With sortByPriority set, the common
// certificate elements (Al, V, Fe, C, N, O, Y, H) are reported first in
// that order, other elements following in first-seen order.
func NewAggregator(sortByPriority bool) *Aggregator {
	return &Aggregator{
		byPriority: sortByPriority,
		best:       make(map[string]model.CompositionEntry),
	}
}

// Add merges a batch of entries. Batches must be added in page order for
// first-seen ordering to be meaningful.
func (a *Aggregator) Add(entries []model.CompositionEntry) {
	for _, entry := range entries {
		existing, seen := a.best[entry.ElementSymbol]
		if !seen {
			a.order = append(a.order, entry.ElementSymbol)
			a.best[entry.ElementSymbol] = entry
			continue
		}
		if entry.Confidence > existing.Confidence {
			a.best[entry.ElementSymbol] = entry
		}
	}
}

// Entries returns the merged, deduplicated composition list.
func (a *Aggregator) Entries() []model.CompositionEntry {
	out := make([]model.CompositionEntry, 0, len(a.order))
	for _, symbol := range a.order {
		out = append(out, a.best[symbol])
	}

	if a.byPriority {
		sort.SliceStable(out, func(i, j int) bool {
			return rankOf(out[i].ElementSymbol) < rankOf(out[j].ElementSymbol)
		})
	}

	return out
}

// rankOf returns an element's priority rank; non-priority elements share a
// rank past the end of the priority list, preserving their relative order.
func rankOf(symbol string) int {
	if r, ok := priorityRank[symbol]; ok {
		return r
	}
	return len(priority)
}

// Summary is the per-document diagnostics surface: how many tables were
// reconstructed, how many were classified as composition tables, and how
// candidate pairs fared in validation.
type Summary struct {
	PagesProcessed   int
	TablesFound      int
	TablesClassified int
	EntriesAccepted  int
	Dropped          DropCounts
}
