package subscription

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is the renewal cadence of a subscription
type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// AllFrequencies lists every supported cadence
func AllFrequencies() []Frequency {
	return []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly}
}

// IsValid checks if the frequency is supported
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

// String returns the string representation of Frequency
func (f Frequency) String() string {
	return string(f)
}

// Next returns the renewal date one period after d. Month based periods clamp
// to the last day of the target month, so Jan 31 + 1 month is Feb 28 (or 29).
// Next(d) is always strictly after d.
func (f Frequency) Next(d time.Time) time.Time {
	switch f {
	case FrequencyDaily:
		return d.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return d.AddDate(0, 0, 7)
	case FrequencyQuarterly:
		return addMonthsClamped(d, 3)
	case FrequencyYearly:
		return addMonthsClamped(d, 12)
	default:
		return addMonthsClamped(d, 1)
	}
}

// MonthlyFactor converts one period's amount into an average monthly amount
func (f Frequency) MonthlyFactor() decimal.Decimal {
	switch f {
	case FrequencyDaily:
		return decimal.NewFromInt(365).Div(decimal.NewFromInt(12))
	case FrequencyWeekly:
		return decimal.NewFromInt(52).Div(decimal.NewFromInt(12))
	case FrequencyQuarterly:
		return decimal.NewFromInt(1).Div(decimal.NewFromInt(3))
	case FrequencyYearly:
		return decimal.NewFromInt(1).Div(decimal.NewFromInt(12))
	default:
		return decimal.NewFromInt(1)
	}
}

func addMonthsClamped(d time.Time, months int) time.Time {
	year, month, day := d.Date()
	hour, minute, sec := d.Clock()
	first := time.Date(year, month+time.Month(months), 1, hour, minute, sec, d.Nanosecond(), d.Location())
	if last := daysIn(first.Year(), first.Month(), d.Location()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, hour, minute, sec, d.Nanosecond(), d.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
