package decimal

import (
	"testing"

	stddec "github.com/shopspring/decimal"
)

func TestNewMoneyFromDecimal(t *testing.T) {
	d := stddec.NewFromFloat(10.125)
	m := NewMoneyFromDecimal(d)
	if !m.Decimal.Equal(d) {
		t.Fatalf("NewMoneyFromDecimal mismatch: got %s want %s", m.Decimal, d)
	}
	if m.String() != "10.13" {
		t.Fatalf("String got %s", m.String())
	}
}

func TestNetOfTaxAndGrossUp(t *testing.T) {
	rate := stddec.NewFromFloat(0.15)
	need := NewMoneyFromDecimal(stddec.NewFromInt(40000))

	gross := need.GrossUp(rate)
	if got := gross.String(); got != "47058.82" {
		t.Fatalf("GrossUp got %s want 47058.82", got)
	}
	if got := gross.NetOfTax(rate).String(); got != "40000.00" {
		t.Fatalf("NetOfTax after GrossUp got %s", got)
	}

	// 100% tax cannot be grossed up
	if got := need.GrossUp(stddec.NewFromInt(1)); !got.Decimal.Equal(need.Decimal) {
		t.Fatalf("GrossUp at 100%% should be identity, got %s", got)
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in    string
		full  string
		whole string
	}{
		{"0", "$0.00", "$0"},
		{"999.5", "$999.50", "$1,000"},
		{"1176470.588", "$1,176,470.59", "$1,176,471"},
		{"-12345.6", "$-12,345.60", "$-12,346"},
	}
	for _, c := range cases {
		m := NewMoneyFromDecimal(stddec.RequireFromString(c.in))
		if got := m.Format(); got != c.full {
			t.Errorf("Format(%s) got %s want %s", c.in, got, c.full)
		}
		if got := m.FormatWhole(); got != c.whole {
			t.Errorf("FormatWhole(%s) got %s want %s", c.in, got, c.whole)
		}
	}
}
