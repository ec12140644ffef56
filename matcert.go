// Package matcert extracts chemical composition data from scanned material
// certificates.
//
// Input is positioned OCR tokens (typically decoded from hOCR with the hocr
// package, or produced directly by the ocr package). The pipeline
// reconstructs table grids from token geometry, classifies which grids are
// composition tables, parses element/value pairs out of them with a series
// of structural strategies, repairs common OCR misreads, and merges the
// results across pages into one deduplicated composition list.
//
// Basic usage:
//
//	pages, err := hocr.Parse(data)
//	if err != nil {
//	    // handle error
//	}
//	proc, err := matcert.NewProcessor(matcert.DefaultOptions())
//	if err != nil {
//	    // handle error
//	}
//	result := proc.ProcessDocument(pages)
//	for _, entry := range result.Entries {
//	    fmt.Println(entry.ElementSymbol, entry.Value, entry.Unit)
//	}
package matcert

import (
	"sync"

	"github.com/tsawler/matcert/composition"
	"github.com/tsawler/matcert/hocr"
	"github.com/tsawler/matcert/model"
	"github.com/tsawler/matcert/tables"
)

// Result is the outcome of a document run: the merged composition list and
// the per-document diagnostics.
type Result struct {
	Entries []model.CompositionEntry
	Summary composition.Summary
}

// PageResult is the outcome of processing one page in isolation.
type PageResult struct {
	Entries          []model.CompositionEntry
	TablesFound      int
	TablesClassified int
	Dropped          composition.DropCounts
}

// Processor runs the extraction pipeline. It is immutable after construction
// and safe for concurrent use; each document run keeps its own state.
type Processor struct {
	options    Options
	builder    *tables.GridBuilder
	classifier *tables.Classifier
	parser     *composition.Parser
}

// NewProcessor validates the options and creates a processor.
func NewProcessor(opts Options) (*Processor, error) {
	builder, err := tables.NewGridBuilder(opts.Tables)
	if err != nil {
		return nil, err
	}
	classifier, err := tables.NewClassifier(opts.Composition)
	if err != nil {
		return nil, err
	}
	parser, err := composition.NewParser(opts.Composition)
	if err != nil {
		return nil, err
	}
	return &Processor{
		options:    opts,
		builder:    builder,
		classifier: classifier,
		parser:     parser,
	}, nil
}

// ProcessPage runs the pipeline on one page's tokens. The dpi argument
// anchors fallback tolerances; pass 0 to use the processor's default.
//
// ProcessPage is a pure function of its input: the same tokens always yield
// the same result.
func (p *Processor) ProcessPage(tokens []model.Token, dpi int) PageResult {
	if dpi <= 0 {
		dpi = p.options.DPI
	}

	kept := make([]model.Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Confidence >= p.options.MinTokenConfidence {
			kept = append(kept, tok)
		}
	}

	var result PageResult
	for _, table := range p.builder.Build(kept, dpi) {
		result.TablesFound++

		cls := p.classifier.Classify(table)
		if !cls.IsComposition {
			continue
		}
		result.TablesClassified++

		parsed := p.parser.Parse(table, cls.Signal == tables.SignalHeuristicPairs)
		result.Entries = append(result.Entries, parsed.Entries...)
		result.Dropped.Add(parsed.Dropped)
	}
	return result
}

// ProcessDocument runs the pipeline on every page concurrently and merges
// the results in page order, so output is deterministic regardless of which
// page finishes first.
func (p *Processor) ProcessDocument(pages []hocr.Page) Result {
	results := make([]PageResult, len(pages))

	var wg sync.WaitGroup
	for i := range pages {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = p.ProcessPage(pages[i].Tokens, pages[i].DPI)
		}(i)
	}
	wg.Wait()

	agg := composition.NewAggregator(p.options.SortByPriority)
	summary := composition.Summary{PagesProcessed: len(pages)}
	for _, r := range results {
		agg.Add(r.Entries)
		summary.TablesFound += r.TablesFound
		summary.TablesClassified += r.TablesClassified
		summary.Dropped.Add(r.Dropped)
	}

	entries := agg.Entries()
	summary.EntriesAccepted = len(entries)
	return Result{Entries: entries, Summary: summary}
}

// ProcessHOCR decodes an hOCR document and runs the pipeline over its pages.
func (p *Processor) ProcessHOCR(data []byte) (Result, error) {
	pages, err := hocr.Parse(data)
	if err != nil {
		return Result{}, err
	}
	return p.ProcessDocument(pages), nil
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
