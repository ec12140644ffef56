package model

import "testing"

func TestNewToken(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		bbox    BBox
		page    int
		wantErr bool
	}{
		{"valid", "Fe", NewBBox(10, 10, 20, 12), 0, false},
		{"trims whitespace", "  Fe  ", NewBBox(10, 10, 20, 12), 0, false},
		{"empty text", "", NewBBox(10, 10, 20, 12), 0, true},
		{"whitespace only", "   ", NewBBox(10, 10, 20, 12), 0, true},
		{"negative width", "Fe", NewBBox(10, 10, -1, 12), 0, true},
		{"negative height", "Fe", NewBBox(10, 10, 20, -1), 0, true},
		{"negative page", "Fe", NewBBox(10, 10, 20, 12), -1, true},
		{"zero dimensions allowed", "Fe", NewBBox(10, 10, 0, 0), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := NewToken(tt.text, tt.bbox, 90, tt.page)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && tok.Text != "Fe" {
				t.Errorf("Text = %q, want %q", tok.Text, "Fe")
			}
		})
	}
}

func TestToken_Centers(t *testing.T) {
	tok, err := NewToken("C", NewBBox(100, 200, 20, 10), 95, 0)
	if err != nil {
		t.Fatalf("NewToken() error = %v", err)
	}

	if got := tok.VerticalCenter(); got != 205 {
		t.Errorf("VerticalCenter() = %g, want 205", got)
	}
	if got := tok.HorizontalCenter(); got != 110 {
		t.Errorf("HorizontalCenter() = %g, want 110", got)
	}
	if c := tok.Center(); c.X != 110 || c.Y != 205 {
		t.Errorf("Center() = %+v, want {110 205}", c)
	}
}

func TestToken_OverlapsVertically(t *testing.T) {
	a, _ := NewToken("a", NewBBox(0, 100, 10, 10), 90, 0)
	b, _ := NewToken("b", NewBBox(50, 105, 10, 10), 90, 0)
	c, _ := NewToken("c", NewBBox(50, 115, 10, 10), 90, 0)

	if !a.OverlapsVertically(b, 0) {
		t.Error("overlapping spans should overlap with zero tolerance")
	}
	if a.OverlapsVertically(c, 0) {
		t.Error("disjoint spans should not overlap with zero tolerance")
	}
	if !a.OverlapsVertically(c, 5) {
		t.Error("gap of 5 should overlap with tolerance 5")
	}
}

func TestTable_Accessors(t *testing.T) {
	table := &Table{
		Rows: [][]Cell{
			{{Text: "C", Row: 0, Col: 0}, {Text: "Mn", Row: 0, Col: 1}},
			{{Text: "0.05", Row: 1, Col: 0}},
		},
		Irregular: []bool{false, true},
		ModalCols: 2,
	}

	if table.RowCount() != 2 {
		t.Errorf("RowCount() = %d, want 2", table.RowCount())
	}
	if cell := table.GetCell(0, 1); cell == nil || cell.Text != "Mn" {
		t.Errorf("GetCell(0, 1) = %v, want Mn", cell)
	}
	if table.GetCell(2, 0) != nil {
		t.Error("GetCell out of row bounds should return nil")
	}
	if table.GetCell(1, 1) != nil {
		t.Error("GetCell out of column bounds should return nil")
	}
	if table.IsIrregular(0) {
		t.Error("row 0 should be regular")
	}
	if !table.IsIrregular(1) {
		t.Error("row 1 should be irregular")
	}
	if table.IsIrregular(99) {
		t.Error("out-of-range row should report regular")
	}

	want := "C\tMn\n0.05\n"
	if got := table.Text(); got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}

	count := 0
	table.Cells(func(c *Cell) { count++ })
	if count != 3 {
		t.Errorf("Cells visited %d cells, want 3", count)
	}
}
