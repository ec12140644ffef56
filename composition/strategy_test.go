package composition

import (
	"math"
	"reflect"
	"testing"

	"github.com/tsawler/matcert/model"
)

// makeTable builds a table from cell texts laid out on a uniform grid, the
// shape test tables take after grid reconstruction. Empty strings become
// empty cells occupying their grid position.
func makeTable(rows [][]string) *model.Table {
	t := &model.Table{ModalCols: modalLen(rows)}
	for r, texts := range rows {
		var row []model.Cell
		for c, text := range texts {
			row = append(row, model.Cell{
				Text:       text,
				BBox:       model.NewBBox(float64(c)*100, float64(r)*40, 60, 20),
				Row:        r,
				Col:        c,
				Confidence: 90,
			})
		}
		t.Rows = append(t.Rows, row)
		t.Irregular = append(t.Irregular, len(texts) != t.ModalCols)
	}
	return t
}

func modalLen(rows [][]string) int {
	counts := make(map[int]int)
	for _, r := range rows {
		counts[len(r)]++
	}
	best, bestCount := 0, 0
	for n, c := range counts {
		if c > bestCount || (c == bestCount && n > best) {
			best, bestCount = n, c
		}
	}
	return best
}

func symbolsOf(cands []Candidate) []string {
	var out []string
	for _, c := range cands {
		out = append(out, c.SymbolText)
	}
	return out
}

func TestColumnStrategy(t *testing.T) {
	table := makeTable([][]string{
		{"Element", "Min", "Max"},
		{"C", "0.05", "0.08"},
		{"Mn", "1.12", "1.40"},
		{"Total", "99.9", ""},
	})

	cands := (&ColumnStrategy{}).Extract(table)

	// Header row and the unrecognized "Total" row drop out; the two element
	// rows yield one candidate per value column.
	if len(cands) != 4 {
		t.Fatalf("Extract() returned %d candidates, want 4: %+v", len(cands), cands)
	}
	want := []string{"C", "C", "Mn", "Mn"}
	if got := symbolsOf(cands); !reflect.DeepEqual(got, want) {
		t.Errorf("symbols = %v, want %v", got, want)
	}
	if cands[0].ValueText != "0.05" || cands[1].ValueText != "0.08" {
		t.Errorf("C values = %q, %q, want 0.05, 0.08", cands[0].ValueText, cands[1].ValueText)
	}
}

func TestCellStrategy(t *testing.T) {
	table := makeTable([][]string{
		{"Kin1.12", "C: 0.05"},
		{"0.19Fe", "plain text"},
		{"Si=0,134", "<0.001H"},
	})

	cands := (&CellStrategy{}).Extract(table)

	want := map[string]string{
		"Kin": "1.12",
		"C":   "0.05",
		"Fe":  "0.19",
		"Si":  "0,134",
		"H":   "<0.001",
	}
	if len(cands) != len(want) {
		t.Fatalf("Extract() returned %d candidates, want %d: %+v", len(cands), len(want), cands)
	}
	for _, c := range cands {
		if want[c.SymbolText] != c.ValueText {
			t.Errorf("pair %q=%q, want value %q", c.SymbolText, c.ValueText, want[c.SymbolText])
		}
	}
}

func TestHeaderStrategy(t *testing.T) {
	table := makeTable([][]string{
		{"C", "Mn", "Si"},
		{"0.05", "1.12", "0.25"},
		{"0.06", "1.15", "0.27"},
	})

	cands := (&HeaderStrategy{}).Extract(table)
	if len(cands) != 6 {
		t.Fatalf("Extract() returned %d candidates, want 6", len(cands))
	}
	if cands[0].SymbolText != "C" || cands[0].ValueText != "0.05" {
		t.Errorf("first pair = %q=%q, want C=0.05", cands[0].SymbolText, cands[0].ValueText)
	}
}

func TestHeaderStrategy_SkipsIrregularRows(t *testing.T) {
	table := makeTable([][]string{
		{"C", "Mn", "Si"},
		{"0.05", "1.12", "0.25"},
		{"ladle analysis"},
	})

	cands := (&HeaderStrategy{}).Extract(table)
	if len(cands) != 3 {
		t.Fatalf("Extract() returned %d candidates, want 3 (ragged row excluded)", len(cands))
	}
}

func TestHeaderStrategy_NeedsDataRow(t *testing.T) {
	table := makeTable([][]string{{"C", "Mn", "Si"}})
	if cands := (&HeaderStrategy{}).Extract(table); cands != nil {
		t.Errorf("single-row table should yield nil, got %+v", cands)
	}
}

func TestHeuristicStrategy(t *testing.T) {
	// Symbols and values scattered without consistent rows: each symbol must
	// pair with its nearest numeric neighbor, each number consumed once.
	table := &model.Table{
		Rows: [][]model.Cell{
			{
				{Text: "C", BBox: model.NewBBox(0, 0, 30, 20), Confidence: 90},
				{Text: "0.05", BBox: model.NewBBox(40, 0, 60, 20), Confidence: 90},
				{Text: "Mn", BBox: model.NewBBox(300, 0, 30, 20), Confidence: 90},
				{Text: "1.12", BBox: model.NewBBox(340, 0, 60, 20), Confidence: 90},
			},
		},
		ModalCols: 4,
		Irregular: []bool{false},
	}

	cands := (&HeuristicStrategy{}).Extract(table)
	if len(cands) != 2 {
		t.Fatalf("Extract() returned %d candidates, want 2: %+v", len(cands), cands)
	}

	got := map[string]string{}
	for _, c := range cands {
		got[c.SymbolText] = c.ValueText
	}
	if got["C"] != "0.05" || got["Mn"] != "1.12" {
		t.Errorf("pairs = %v, want C=0.05 Mn=1.12", got)
	}
}

func TestHeuristicStrategy_DistanceCap(t *testing.T) {
	// The only numeric cell sits far beyond the pairing cap; the symbol must
	// stay unpaired rather than grab a number from across the page.
	table := &model.Table{
		Rows: [][]model.Cell{
			{
				{Text: "C", BBox: model.NewBBox(0, 0, 30, 20), Confidence: 90},
				{Text: "0.05", BBox: model.NewBBox(5000, 0, 60, 20), Confidence: 90},
			},
		},
		ModalCols: 2,
		Irregular: []bool{false},
	}

	if cands := (&HeuristicStrategy{}).Extract(table); len(cands) != 0 {
		t.Errorf("Extract() = %+v, want no pairs beyond the distance cap", cands)
	}
}

func TestParser_FirstWinningStrategy(t *testing.T) {
	parser, err := NewParser(DefaultConfig())
	if err != nil {
		t.Fatalf("NewParser() error = %v", err)
	}

	table := makeTable([][]string{
		{"Element", "Value"},
		{"C", "0.05"},
		{"Mn", "1.12"},
	})

	result := parser.Parse(table, false)
	if result.Strategy != "column" {
		t.Errorf("winning strategy = %q, want %q", result.Strategy, "column")
	}
	if len(result.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(result.Entries))
	}
}

func TestParser_RejectedSiblingDoesNotBlockRow(t *testing.T) {
	parser, err := NewParser(DefaultConfig())
	if err != nil {
		t.Fatalf("NewParser() error = %v", err)
	}

	// "999" fails range validation but its sibling row still extracts.
	table := makeTable([][]string{
		{"C", "999"},
		{"Mn", "1.12"},
	})

	result := parser.Parse(table, false)
	if len(result.Entries) != 1 || result.Entries[0].ElementSymbol != "Mn" {
		t.Fatalf("entries = %+v, want only Mn", result.Entries)
	}
	if result.Dropped.ImplausibleValue != 1 {
		t.Errorf("ImplausibleValue drops = %d, want 1", result.Dropped.ImplausibleValue)
	}
}

func TestParser_PreferHeuristic(t *testing.T) {
	parser, err := NewParser(DefaultConfig())
	if err != nil {
		t.Fatalf("NewParser() error = %v", err)
	}

	// Layout parseable by both column and heuristic; preferHeuristic must
	// flip the winner.
	table := makeTable([][]string{
		{"C", "0.05"},
		{"Mn", "1.12"},
	})

	if r := parser.Parse(table, false); r.Strategy != "column" {
		t.Errorf("default order winner = %q, want column", r.Strategy)
	}
	if r := parser.Parse(table, true); r.Strategy != "heuristic" {
		t.Errorf("preferHeuristic winner = %q, want heuristic", r.Strategy)
	}
}

func TestParser_Idempotent(t *testing.T) {
	parser, err := NewParser(DefaultConfig())
	if err != nil {
		t.Fatalf("NewParser() error = %v", err)
	}

	table := makeTable([][]string{
		{"C", "Mn", "Si"},
		{"0.05", "1.12", "0.25"},
	})

	a := parser.Parse(table, false)
	b := parser.Parse(table, false)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Parse not idempotent:\n%+v\n%+v", a, b)
	}
}

func TestParser_NoStrategyWins(t *testing.T) {
	parser, err := NewParser(DefaultConfig())
	if err != nil {
		t.Fatalf("NewParser() error = %v", err)
	}

	table := makeTable([][]string{
		{"Heat", "Number"},
		{"A", "B"},
	})

	result := parser.Parse(table, false)
	if len(result.Entries) != 0 || result.Strategy != "" {
		t.Errorf("Parse() = %+v, want empty result", result)
	}
}

func TestRescueDecimals(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   []float64
	}{
		{
			name:   "all lost their points",
			values: []float64{90, 70, 85},
			want:   []float64{0.90, 0.70, 0.85},
		},
		{
			name:   "only outliers repaired",
			values: []float64{90, 0.5, 0.3},
			want:   []float64{0.90, 0.5, 0.3},
		},
		{
			name:   "plausible table untouched",
			values: []float64{6.1, 4.0, 0.15},
			want:   []float64{6.1, 4.0, 0.15},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := make([]model.CompositionEntry, len(tt.values))
			for i, v := range tt.values {
				entries[i] = model.CompositionEntry{ElementSymbol: "C", Value: v}
			}
			rescueDecimals(entries)
			for i, want := range tt.want {
				if math.Abs(entries[i].Value-want) > 1e-9 {
					t.Errorf("value[%d] = %g, want %g", i, entries[i].Value, want)
				}
			}
		})
	}
}
