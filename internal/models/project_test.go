package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNormalizeWBS(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"C-01", "C-01"},
		{" c-01 ", "C-01"},
		{"\tc-01\n", "C-01"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeWBS(tt.in); got != tt.want {
			t.Errorf("NormalizeWBS(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNetworkResetBalances(t *testing.T) {
	n := Network{
		LaborFull:     decimal.NewFromInt(4000),
		SuperviseFull: decimal.NewFromInt(3000),
	}
	n.ResetBalances()

	for _, c := range Categories {
		if !n.BalanceFor(c).Equal(n.FullFor(c)) {
			t.Errorf("%s balance = %s, want %s", c, n.BalanceFor(c), n.FullFor(c))
		}
	}
	if !n.TotalFull().Equal(decimal.NewFromInt(7000)) {
		t.Errorf("TotalFull = %s, want 7000", n.TotalFull())
	}
}

func TestCutRecordShape(t *testing.T) {
	var r CutRecord
	r.SetCut(CategoryTransport, decimal.NewFromInt(250))

	if r.Category() != CategoryTransport {
		t.Errorf("Category = %s, want transport", r.Category())
	}
	if !r.Total().Equal(decimal.NewFromInt(250)) {
		t.Errorf("Total = %s, want 250", r.Total())
	}
	if !r.LaborCut.IsZero() || !r.SuperviseCut.IsZero() || !r.MiscCut.IsZero() {
		t.Error("other cut columns must stay zero")
	}

	// Switching category zeroes the previous column.
	r.SetCut(CategoryLabor, decimal.NewFromInt(100))
	if !r.TransportCut.IsZero() {
		t.Error("transport column must be cleared after SetCut")
	}
}

func TestParseCategory(t *testing.T) {
	if _, err := ParseCategory("labor"); err != nil {
		t.Errorf("labor should parse: %v", err)
	}
	if _, err := ParseCategory("fuel"); err == nil {
		t.Error("unknown category should fail")
	}
}
