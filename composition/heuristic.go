package composition

import (
	"math"
	"sort"

	"github.com/tsawler/matcert/model"
)

// pairDistanceFactor caps symbol/value pairing distance at this multiple of
// the median cell height, so a symbol never pairs with a number from the far
// side of the page.
const pairDistanceFactor = 10.0

// HeuristicStrategy is the last-resort extractor. It ignores row/column
// structure entirely and scans every cell: cells that correct to an element
// symbol are paired with the nearest numeric cell by Euclidean distance
// between bounding-box centers, each numeric cell consumable at most once.
type HeuristicStrategy struct{}

// Name returns the strategy's identifier ("heuristic").
func (s *HeuristicStrategy) Name() string {
	return "heuristic"
}

// Extract pairs symbol-like cells with their nearest unconsumed numeric
// cells. Symbol cells are visited in row-major order, which makes pairing
// deterministic when distances tie.
func (s *HeuristicStrategy) Extract(t *model.Table) []Candidate {
	var symbolCells, numericCells []*model.Cell

	t.Cells(func(c *model.Cell) {
		if c.IsEmpty() {
			return
		}
		if _, ok := CorrectSymbol(c.Text); ok {
			symbolCells = append(symbolCells, c)
		} else if looksNumeric(c.Text) {
			numericCells = append(numericCells, c)
		}
	})

	if len(symbolCells) == 0 || len(numericCells) == 0 {
		return nil
	}

	maxDist := pairDistanceFactor * medianCellHeight(t)
	if maxDist <= 0 {
		maxDist = math.MaxFloat64
	}
	context := t.Text()

	used := make([]bool, len(numericCells))
	var out []Candidate

	for _, sc := range symbolCells {
		best := -1
		bestDist := math.MaxFloat64
		for i, nc := range numericCells {
			if used[i] {
				continue
			}
			d := sc.BBox.Center().Distance(nc.BBox.Center())
			if d < bestDist {
				best = i
				bestDist = d
			}
		}
		if best < 0 || bestDist > maxDist {
			continue
		}
		used[best] = true
		out = append(out, Candidate{
			SymbolText: sc.Text,
			ValueText:  numericCells[best].Text,
			UnitText:   context,
			Confidence: (sc.Confidence + numericCells[best].Confidence) / 2,
		})
	}

	return out
}

// medianCellHeight returns the median bounding-box height across all
// non-empty cells of a table.
func medianCellHeight(t *model.Table) float64 {
	var heights []float64
	t.Cells(func(c *model.Cell) {
		if !c.IsEmpty() && c.BBox.Height > 0 {
			heights = append(heights, c.BBox.Height)
		}
	})
	if len(heights) == 0 {
		return 0
	}
	sort.Float64s(heights)
	return heights[len(heights)/2]
}
