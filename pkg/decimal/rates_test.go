package decimal

import (
	"testing"

	stddec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRealRate(t *testing.T) {
	tests := []struct {
		name      string
		nominal   float64
		inflation float64
		want      float64
	}{
		{"stocks 10% over 3%", 0.10, 0.03, 1.10/1.03 - 1},
		{"bonds 5% over 3%", 0.05, 0.03, 1.05/1.03 - 1},
		{"zero inflation", 0.07, 0, 0.07},
		{"deflation", 0.02, -0.02, 1.02/0.98 - 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RealRate(stddec.NewFromFloat(tt.nominal), stddec.NewFromFloat(tt.inflation))
			assert.InDelta(t, tt.want, got.InexactFloat64(), 1e-12)
		})
	}
}

func TestMonthlyCompoundRate(t *testing.T) {
	annual := stddec.NewFromFloat(0.10)
	monthly := MonthlyCompoundRate(annual).InexactFloat64()

	compounded := 1.0
	for i := 0; i < 12; i++ {
		compounded *= 1 + monthly
	}
	assert.InDelta(t, 1.10, compounded, 1e-9)

	assert.Equal(t, "-1", MonthlyCompoundRate(stddec.NewFromInt(-2)).String())
}

func TestPercentConversions(t *testing.T) {
	assert.Equal(t, "0.04", FromPercent(stddec.NewFromInt(4)).String())
	assert.Equal(t, "15", ToPercent(stddec.NewFromFloat(0.15)).String())
	assert.Equal(t, "0.01", MonthlySimpleRate(stddec.NewFromFloat(0.12)).String())
}
