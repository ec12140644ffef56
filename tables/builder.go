package tables

import (
	"fmt"
	"math"
	"sort"

	"github.com/tsawler/matcert/model"
)

// Config holds grid reconstruction parameters. All tolerances are relative
// to statistics of the page being processed, not absolute pixel counts.
type Config struct {
	// RowToleranceFraction is the fraction of the median token height a
	// token's vertical center may deviate from a row cluster's running
	// center and still join the row.
	RowToleranceFraction float64

	// GapMultiplier is the multiple of the median intra-row gap beyond
	// which a horizontal gap is treated as a column separator.
	GapMultiplier float64

	// SplitFactor is the multiple of the median token height beyond which
	// a vertical gap between adjacent rows starts a new table.
	SplitFactor float64

	// MinRows is the minimum row count for a reconstructed table.
	MinRows int
}

// DefaultConfig returns the default grid reconstruction configuration.
func DefaultConfig() Config {
	return Config{
		RowToleranceFraction: 0.5,
		GapMultiplier:        2.0,
		SplitFactor:          3.0,
		MinRows:              1,
	}
}

// GridBuilder reconstructs 2-D table grids from unordered page tokens by
// clustering vertical centers into rows and deriving column boundaries from
// horizontal gap statistics.
type GridBuilder struct {
	config Config
}

// NewGridBuilder validates the configuration and creates a builder. It
// refuses to run with non-positive tolerances, reporting which option is
// invalid.
func NewGridBuilder(config Config) (*GridBuilder, error) {
	if config.RowToleranceFraction <= 0 {
		return nil, fmt.Errorf("tables: RowToleranceFraction must be positive, got %g",
			config.RowToleranceFraction)
	}
	if config.GapMultiplier <= 0 {
		return nil, fmt.Errorf("tables: GapMultiplier must be positive, got %g",
			config.GapMultiplier)
	}
	if config.SplitFactor <= 0 {
		return nil, fmt.Errorf("tables: SplitFactor must be positive, got %g",
			config.SplitFactor)
	}
	if config.MinRows < 1 {
		return nil, fmt.Errorf("tables: MinRows must be at least 1, got %d", config.MinRows)
	}
	return &GridBuilder{config: config}, nil
}

// Build reconstructs zero or more tables from one page's tokens. A page
// yielding no row clusters produces no table; that is not an error. The
// page DPI anchors the fallback tolerances used when the page's own
// statistics are degenerate (a single token, zero-height boxes).
//
// Build is a pure function of its input and safe for concurrent use across
// pages.
func (b *GridBuilder) Build(tokens []model.Token, dpi int) []*model.Table {
	if len(tokens) == 0 {
		return nil
	}
	if dpi <= 0 {
		dpi = 300
	}

	sorted := make([]model.Token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].VerticalCenter() < sorted[j].VerticalCenter()
	})

	medHeight := medianTokenHeight(sorted)
	if medHeight <= 0 {
		medHeight = float64(dpi) / 12 // ~25px at 300 DPI
	}
	tolerance := b.config.RowToleranceFraction * medHeight

	rows := b.clusterRows(sorted, tolerance)

	var tables []*model.Table
	splitGap := b.config.SplitFactor * medHeight
	for _, group := range b.splitTables(rows, splitGap) {
		t := b.buildTable(group, dpi, tolerance)
		if t != nil && t.RowCount() >= b.config.MinRows {
			tables = append(tables, t)
		}
	}
	return tables
}

// rowCluster is one horizontal band of tokens with its running center.
type rowCluster struct {
	tokens []model.Token
	center float64
}

// clusterRows groups vertically sorted tokens into row clusters. A token
// joins the current cluster when its vertical center lies within tolerance
// of the cluster's running center; otherwise it starts a new cluster.
func (b *GridBuilder) clusterRows(sorted []model.Token, tolerance float64) []rowCluster {
	current := rowCluster{
		tokens: []model.Token{sorted[0]},
		center: sorted[0].VerticalCenter(),
	}

	var rows []rowCluster
	for _, tok := range sorted[1:] {
		vc := tok.VerticalCenter()
		if math.Abs(vc-current.center) <= tolerance {
			current.tokens = append(current.tokens, tok)
			n := float64(len(current.tokens))
			current.center = (current.center*(n-1) + vc) / n
		} else {
			rows = append(rows, current)
			current = rowCluster{tokens: []model.Token{tok}, center: vc}
		}
	}
	return append(rows, current)
}

// splitTables breaks a run of row clusters into separate tables wherever the
// vertical gap between adjacent rows exceeds splitGap.
func (b *GridBuilder) splitTables(rows []rowCluster, splitGap float64) [][]rowCluster {
	var groups [][]rowCluster
	current := []rowCluster{rows[0]}

	for i := 1; i < len(rows); i++ {
		if rows[i].center-rows[i-1].center > splitGap {
			groups = append(groups, current)
			current = nil
		}
		current = append(current, rows[i])
	}
	return append(groups, current)
}

// buildTable derives column boundaries from the group's gap statistics and
// assembles cells from (row, column) token buckets.
func (b *GridBuilder) buildTable(rows []rowCluster, dpi int, tolerance float64) *model.Table {
	for i := range rows {
		sortByLeft(rows[i].tokens)
	}

	bounds := b.columnBounds(rows, dpi, tolerance)

	table := &model.Table{
		Page: rows[0].tokens[0].Page,
	}

	for r, row := range rows {
		var cells []model.Cell
		var merged []int // token count per cell, for confidence averaging
		for _, tok := range row.tokens {
			col := columnOf(tok, bounds)
			if len(cells) > 0 && cells[len(cells)-1].Col == col {
				last := &cells[len(cells)-1]
				last.Text += " " + tok.Text
				last.BBox = last.BBox.Union(tok.BBox)
				last.Confidence += tok.Confidence
				merged[len(merged)-1]++
				continue
			}
			cells = append(cells, model.Cell{
				Text:       tok.Text,
				BBox:       tok.BBox,
				Row:        r,
				Col:        col,
				Confidence: tok.Confidence,
			})
			merged = append(merged, 1)
		}
		for i := range cells {
			cells[i].Confidence /= float64(merged[i])
			if table.BBox.IsEmpty() {
				table.BBox = cells[i].BBox
			} else {
				table.BBox = table.BBox.Union(cells[i].BBox)
			}
		}
		table.Rows = append(table.Rows, cells)
	}

	table.ModalCols = modalColumnCount(table.Rows)
	table.Irregular = make([]bool, len(table.Rows))
	for i, row := range table.Rows {
		table.Irregular[i] = len(row) != table.ModalCols
	}

	return table
}

// columnBounds accumulates horizontal gap statistics across all rows and
// returns the sorted separator positions: gaps wider than GapMultiplier
// times the median intra-row gap become separators at their midpoints, and
// midpoints within tolerance of each other are merged.
func (b *GridBuilder) columnBounds(rows []rowCluster, dpi int, tolerance float64) []float64 {
	var gaps []float64
	for _, row := range rows {
		for i := 1; i < len(row.tokens); i++ {
			gap := row.tokens[i].BBox.Left() - row.tokens[i-1].BBox.Right()
			if gap > 0 {
				gaps = append(gaps, gap)
			}
		}
	}

	medGap := median(gaps)
	if medGap <= 0 {
		medGap = 0.1 * float64(dpi) // ~30px at 300 DPI
	}
	threshold := b.config.GapMultiplier * medGap

	var cuts []float64
	for _, row := range rows {
		for i := 1; i < len(row.tokens); i++ {
			prev, next := row.tokens[i-1], row.tokens[i]
			if next.BBox.Left()-prev.BBox.Right() > threshold {
				cuts = append(cuts, (prev.BBox.Right()+next.BBox.Left())/2)
			}
		}
	}
	if len(cuts) == 0 {
		return nil
	}

	sort.Float64s(cuts)
	return mergeValues(cuts, tolerance)
}

// columnOf returns the index of the column interval the token's horizontal
// span overlaps most; ties go to the left column.
func columnOf(tok model.Token, bounds []float64) int {
	if len(bounds) == 0 {
		return 0
	}

	left, right := tok.BBox.Left(), tok.BBox.Right()
	best := 0
	bestOverlap := math.Inf(-1)

	for i := 0; i <= len(bounds); i++ {
		lo := math.Inf(-1)
		if i > 0 {
			lo = bounds[i-1]
		}
		hi := math.Inf(1)
		if i < len(bounds) {
			hi = bounds[i]
		}
		overlap := math.Min(right, hi) - math.Max(left, lo)
		if overlap > bestOverlap {
			best = i
			bestOverlap = overlap
		}
	}
	return best
}

// mergeValues merges sorted values that lie within tolerance of each other,
// averaging merged values into the cluster center.
func mergeValues(values []float64, tolerance float64) []float64 {
	merged := []float64{values[0]}
	counts := []int{1}

	for _, v := range values[1:] {
		last := len(merged) - 1
		if v-merged[last] <= tolerance {
			counts[last]++
			merged[last] += (v - merged[last]) / float64(counts[last])
		} else {
			merged = append(merged, v)
			counts = append(counts, 1)
		}
	}
	return merged
}

// modalColumnCount returns the most common cell count across rows; ties go
// to the larger count.
func modalColumnCount(rows [][]model.Cell) int {
	counts := make(map[int]int)
	for _, row := range rows {
		counts[len(row)]++
	}

	modal, freq := 0, 0
	for cols, n := range counts {
		if n > freq || (n == freq && cols > modal) {
			modal = cols
			freq = n
		}
	}
	return modal
}

func sortByLeft(tokens []model.Token) {
	sort.SliceStable(tokens, func(i, j int) bool {
		return tokens[i].BBox.Left() < tokens[j].BBox.Left()
	})
}

// medianTokenHeight returns the median bounding-box height of the tokens.
func medianTokenHeight(tokens []model.Token) float64 {
	heights := make([]float64, 0, len(tokens))
	for _, t := range tokens {
		if t.BBox.Height > 0 {
			heights = append(heights, t.BBox.Height)
		}
	}
	return median(heights)
}

// median returns the middle value of an unsorted slice, 0 when empty.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}
