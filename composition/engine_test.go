package composition

import (
	"math"
	"testing"
)

func TestNewEngine(t *testing.T) {
	if _, err := NewEngine(DefaultConfig()); err != nil {
		t.Fatalf("NewEngine(DefaultConfig()) error = %v", err)
	}

	bad := DefaultConfig()
	bad.MaxValue = bad.MinValue
	if _, err := NewEngine(bad); err == nil {
		t.Error("NewEngine should reject an inverted plausible range")
	}

	noUnit := DefaultConfig()
	noUnit.DefaultUnit = ""
	if _, err := NewEngine(noUnit); err == nil {
		t.Error("NewEngine should reject an empty default unit")
	}
}

func TestEngine_Resolve(t *testing.T) {
	engine, err := NewEngine(DefaultConfig())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	tests := []struct {
		name       string
		candidate  Candidate
		wantReason RejectReason
		wantSymbol string
		wantValue  float64
		wantUnit   string
		wantTrace  bool
	}{
		{
			name:       "clean pair",
			candidate:  Candidate{SymbolText: "C", ValueText: "0.05", Confidence: 95},
			wantReason: RejectNone,
			wantSymbol: "C", wantValue: 0.05, wantUnit: "wt.%",
		},
		{
			name:       "misread symbol",
			candidate:  Candidate{SymbolText: "Kin", ValueText: "1.12"},
			wantReason: RejectNone,
			wantSymbol: "Mn", wantValue: 1.12, wantUnit: "wt.%",
		},
		{
			name:       "lost decimal point",
			candidate:  Candidate{SymbolText: "Si", ValueText: "0134"},
			wantReason: RejectNone,
			wantSymbol: "Si", wantValue: 0.134, wantUnit: "wt.%",
		},
		{
			name:       "trace bound",
			candidate:  Candidate{SymbolText: "H", ValueText: "<0.001"},
			wantReason: RejectNone,
			wantSymbol: "H", wantValue: 0.001, wantUnit: "wt.%", wantTrace: true,
		},
		{
			name:       "unit from value text",
			candidate:  Candidate{SymbolText: "Fe", ValueText: "0.3%", UnitText: "wt.%"},
			wantReason: RejectNone,
			wantSymbol: "Fe", wantValue: 0.3, wantUnit: "%",
		},
		{
			name:       "unit from surrounding text",
			candidate:  Candidate{SymbolText: "Fe", ValueText: "0.3", UnitText: "values in mass%"},
			wantReason: RejectNone,
			wantSymbol: "Fe", wantValue: 0.3, wantUnit: "mass%",
		},
		{
			name:       "unrecognized element",
			candidate:  Candidate{SymbolText: "Total", ValueText: "0.05"},
			wantReason: RejectUnrecognizedElement,
		},
		{
			name:       "unparseable value",
			candidate:  Candidate{SymbolText: "C", ValueText: "bal"},
			wantReason: RejectUnparseableValue,
		},
		{
			name:       "implausible value",
			candidate:  Candidate{SymbolText: "C", ValueText: "999"},
			wantReason: RejectImplausibleValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, reason := engine.Resolve(tt.candidate)
			if reason != tt.wantReason {
				t.Fatalf("Resolve() reason = %v, want %v", reason, tt.wantReason)
			}
			if reason != RejectNone {
				return
			}
			if entry.ElementSymbol != tt.wantSymbol {
				t.Errorf("ElementSymbol = %q, want %q", entry.ElementSymbol, tt.wantSymbol)
			}
			if math.Abs(entry.Value-tt.wantValue) > 1e-9 {
				t.Errorf("Value = %g, want %g", entry.Value, tt.wantValue)
			}
			if entry.Unit != tt.wantUnit {
				t.Errorf("Unit = %q, want %q", entry.Unit, tt.wantUnit)
			}
			if entry.Trace != tt.wantTrace {
				t.Errorf("Trace = %v, want %v", entry.Trace, tt.wantTrace)
			}
		})
	}
}

func TestEngine_Resolve_NeverClamps(t *testing.T) {
	engine, _ := NewEngine(Config{MinValue: 0, MaxValue: 100, DefaultUnit: "wt.%"})

	_, reason := engine.Resolve(Candidate{SymbolText: "Fe", ValueText: "150"})
	if reason != RejectImplausibleValue {
		t.Errorf("out-of-range value should be rejected, got %v", reason)
	}
}

func TestDropCounts(t *testing.T) {
	var d DropCounts
	d.count(RejectUnrecognizedElement)
	d.count(RejectUnparseableValue)
	d.count(RejectUnparseableValue)
	d.count(RejectImplausibleValue)

	if d.Total() != 4 {
		t.Errorf("Total() = %d, want 4", d.Total())
	}

	var sum DropCounts
	sum.Add(d)
	sum.Add(d)
	if sum.Total() != 8 || sum.UnparseableValue != 4 {
		t.Errorf("Add() gave %+v, want doubled tallies", sum)
	}
}

func TestRejectReason_String(t *testing.T) {
	tests := []struct {
		reason RejectReason
		want   string
	}{
		{RejectNone, "accepted"},
		{RejectUnrecognizedElement, "unrecognized element"},
		{RejectUnparseableValue, "unparseable value"},
		{RejectImplausibleValue, "implausible value"},
		{RejectReason(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.reason.String(); got != tt.want {
			t.Errorf("RejectReason(%d).String() = %q, want %q", tt.reason, got, tt.want)
		}
	}
}
