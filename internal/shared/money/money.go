// Package money holds the decimal conventions shared by payroll arithmetic.
//
// All amounts are exact base-10 decimals. Rounding happens only when a value
// is rendered for display.
package money

import "github.com/shopspring/decimal"

var (
	// MonthlyWorkingHours converts a monthly salary into an hourly rate.
	MonthlyWorkingHours = decimal.NewFromInt(160)
	// OvertimeMultiplier is applied to the hourly rate for overtime hours.
	OvertimeMultiplier = decimal.RequireFromString("1.5")

	// hourlyFactor is exactly 1 / MonthlyWorkingHours.
	hourlyFactor = decimal.RequireFromString("0.00625")
)

// DisplayPlaces is the number of fractional digits used when rendering.
const DisplayPlaces = 2

// Max0 clamps negative values to zero.
func Max0(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// OrZero dereferences an optional amount.
func OrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// Sum adds all values exactly.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// HourlyRate is monthly / MonthlyWorkingHours, computed as a product so no
// division precision limit applies.
func HourlyRate(monthly decimal.Decimal) decimal.Decimal {
	return monthly.Mul(hourlyFactor)
}

// Display renders an amount with two decimals, rounding half away from zero.
func Display(d decimal.Decimal) string {
	return d.StringFixed(DisplayPlaces)
}

// Parse accepts an optional decimal string. An empty string yields nil.
func Parse(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
