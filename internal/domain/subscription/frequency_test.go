package subscription

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFrequencyNextIsMonotonic(t *testing.T) {
	start := time.Date(2023, 1, 1, 9, 30, 0, 0, time.UTC)
	for _, f := range AllFrequencies() {
		t.Run(string(f), func(t *testing.T) {
			for i := 0; i < 800; i++ {
				d := start.AddDate(0, 0, i)
				next := f.Next(d)
				assert.True(t, next.After(d), "%s: next(%s) = %s", f, d, next)
			}
		})
	}
}

func TestFrequencyNext(t *testing.T) {
	tests := []struct {
		name string
		f    Frequency
		in   time.Time
		want time.Time
	}{
		{"daily", FrequencyDaily, date(2024, 2, 28), date(2024, 2, 29)},
		{"weekly", FrequencyWeekly, date(2024, 12, 28), date(2025, 1, 4)},
		{"monthly", FrequencyMonthly, date(2024, 3, 15), date(2024, 4, 15)},
		{"monthly clamps to leap february", FrequencyMonthly, date(2024, 1, 31), date(2024, 2, 29)},
		{"monthly clamps to february", FrequencyMonthly, date(2023, 1, 31), date(2023, 2, 28)},
		{"monthly clamps to 30 day month", FrequencyMonthly, date(2024, 3, 31), date(2024, 4, 30)},
		{"monthly crosses year", FrequencyMonthly, date(2024, 12, 10), date(2025, 1, 10)},
		{"quarterly", FrequencyQuarterly, date(2024, 11, 30), date(2025, 2, 28)},
		{"yearly from leap day", FrequencyYearly, date(2024, 2, 29), date(2025, 2, 28)},
		{"unknown falls back to monthly", Frequency("fortnightly"), date(2024, 5, 1), date(2024, 6, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.f.Next(tt.in))
		})
	}
}

func TestFrequencyNextKeepsClock(t *testing.T) {
	in := time.Date(2024, 1, 31, 23, 59, 58, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 58, 0, time.UTC), FrequencyMonthly.Next(in))
}

func TestMonthlyFactor(t *testing.T) {
	amount := decimal.NewFromInt(120)
	assert.Equal(t, "120", amount.Mul(FrequencyMonthly.MonthlyFactor()).String())
	assert.Equal(t, "10", amount.Mul(FrequencyYearly.MonthlyFactor()).Round(2).String())
	assert.Equal(t, "40", amount.Mul(FrequencyQuarterly.MonthlyFactor()).Round(2).String())
	assert.Equal(t, "520", amount.Mul(FrequencyWeekly.MonthlyFactor()).Round(2).String())
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
