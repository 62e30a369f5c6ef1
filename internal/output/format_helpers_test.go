//go:build unit

package output

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatCurrency(t *testing.T) {
	cases := map[string]decimal.Decimal{
		"$1,234.57":     decimal.NewFromFloat(1234.567),
		"$0.00":         decimal.Zero,
		"$1,176,470.59": decimal.NewFromFloat(1176470.588),
		"$-999.00":      decimal.NewFromInt(-999),
	}
	for want, v := range cases {
		if got := FormatCurrency(v); got != want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", v, got, want)
		}
	}
	if got, want := FormatCurrencyWhole(decimal.NewFromFloat(1176470.588)), "$1,176,471"; got != want {
		t.Errorf("FormatCurrencyWhole = %q, want %q", got, want)
	}
}

func TestFormatPercentage(t *testing.T) {
	v := decimal.NewFromFloat(12.3456)
	got := FormatPercentage(v)
	want := "12.35%"
	if got != want {
		t.Errorf("FormatPercentage(%v) = %q, want %q", v, got, want)
	}
}

func TestOptionalHelpers(t *testing.T) {
	age := 45.25
	if got := formatAge(&age); got != "45.2" && got != "45.3" {
		t.Errorf("formatAge = %q", got)
	}
	if got := formatAge(nil); got != "-" {
		t.Errorf("formatAge(nil) = %q, want -", got)
	}
	if got := optionalCell(nil, 2); got != "" {
		t.Errorf("optionalCell(nil) = %q, want empty", got)
	}
	v := decimal.NewFromFloat(7.5)
	if got := optionalPercent(&v); got != "7.50%" {
		t.Errorf("optionalPercent = %q, want 7.50%%", got)
	}
}
