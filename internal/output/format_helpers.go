package output

import (
	"strconv"

	"github.com/shopspring/decimal"

	rates "github.com/rpgo/fire-calculator/pkg/decimal"
)

// FormatCurrency formats a decimal as USD with thousands separators and 2 decimals.
func FormatCurrency(amount decimal.Decimal) string { return rates.NewMoneyFromDecimal(amount).Format() }

// FormatCurrencyWhole formats a decimal as whole USD with thousands separators.
func FormatCurrencyWhole(amount decimal.Decimal) string {
	return rates.NewMoneyFromDecimal(amount).FormatWhole()
}

// FormatPercentage formats a decimal already in percent with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

func formatAge(age *float64) string {
	if age == nil {
		return "-"
	}
	return strconv.FormatFloat(*age, 'f', 1, 64)
}

func optionalPercent(v *decimal.Decimal) string {
	if v == nil {
		return "-"
	}
	return FormatPercentage(*v)
}

func optionalCell(v *decimal.Decimal, places int32) string {
	if v == nil {
		return ""
	}
	return v.StringFixed(places)
}

func optionalFloatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }
