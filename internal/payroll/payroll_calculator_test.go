package payroll_test

import (
	"context"
	"errors"
	"testing"

	"go-hris-payroll/internal/payroll"
	payrollerrors "go-hris-payroll/internal/payroll/errors"
	"go-hris-payroll/internal/taxbracket"
	taxbracketerrors "go-hris-payroll/internal/taxbracket/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

type lookupCall struct {
	country  string
	currency string
	year     int
	gross    decimal.Decimal
}

type fakeLookup struct {
	bracket *taxbracket.TaxBracket
	err     error
	calls   []lookupCall
}

func (f *fakeLookup) Resolve(_ context.Context, country, currency string, year int, gross decimal.Decimal) (*taxbracket.TaxBracket, error) {
	f.calls = append(f.calls, lookupCall{country, currency, year, gross})
	return f.bracket, f.err
}

func fivePercent() *taxbracket.TaxBracket {
	return &taxbracket.TaxBracket{
		BracketName: "Band 2",
		MinAmount:   dec("1000"),
		MaxAmount:   dec("5000"),
		TaxRate:     dec("0.05"),
		FixedAmount: decimal.Zero,
	}
}

func baseInput() payroll.CalculationInput {
	return payroll.CalculationInput{
		PositionMinSalary: decPtr("2500"),
		OvertimeHours:     dec("10"),
		Bonus:             dec("500"),
		Deductions:        dec("100"),
		TaxCountry:        "US",
		CurrencyCode:      "USD",
		TaxYear:           2026,
	}
}

func TestCalculate_EndToEndChain(t *testing.T) {
	lookup := &fakeLookup{bracket: fivePercent()}

	b, err := payroll.Calculate(context.Background(), baseInput(), lookup)

	require.NoError(t, err)
	assert.Equal(t, "2500", b.BasicSalary.String())
	assert.Equal(t, "15.625", b.HourlyRate.String())
	assert.Equal(t, "23.4375", b.OvertimeRate.String())
	assert.Equal(t, "234.375", b.OvertimePay.String())
	assert.Equal(t, "3234.375", b.GrossIncome.String())
	assert.Equal(t, "161.71875", b.TaxAmount.String())
	assert.Equal(t, "261.71875", b.TotalDeductions.String())
	assert.Equal(t, "2972.65625", b.NetSalary.String())
	assert.True(t, b.TaxApplied)

	require.Len(t, lookup.calls, 1)
	assert.Equal(t, "US", lookup.calls[0].country)
	assert.Equal(t, "USD", lookup.calls[0].currency)
	assert.Equal(t, 2026, lookup.calls[0].year)
	assert.True(t, lookup.calls[0].gross.Equal(dec("3234.375")))

	names := make([]string, 0, len(b.Lines))
	for _, l := range b.Lines {
		names = append(names, l.ItemName)
	}
	assert.Equal(t, []string{
		payroll.ItemBasicSalary, payroll.ItemOvertime, payroll.ItemBonus,
		payroll.ItemTax, payroll.ItemOtherDeductions,
	}, names)
	assert.Equal(t, payroll.ItemTypeEarning, b.Lines[1].ItemType)
	assert.Equal(t, payroll.ItemTypeDeduction, b.Lines[3].ItemType)
}

func TestCalculate_GrossIdentity(t *testing.T) {
	cases := []struct {
		basic, hours, bonus string
	}{
		{"2500", "0", "0"},
		{"3333.33", "7.5", "12.34"},
		{"1", "160", "0.01"},
		{"98765.4321", "3.25", "1000"},
		{"2500.1234567890123", "7", "500"},
	}

	for _, tc := range cases {
		in := baseInput()
		in.PositionMinSalary = nil
		in.BasicSalaryOverride = decPtr(tc.basic)
		in.OvertimeHours = dec(tc.hours)
		in.Bonus = dec(tc.bonus)

		b, err := payroll.Calculate(context.Background(), in, &fakeLookup{})
		require.NoError(t, err)

		want := dec(tc.basic).Mul(dec("0.00625")).Mul(dec("1.5")).Mul(dec(tc.hours)).Add(dec(tc.basic)).Add(dec(tc.bonus))
		assert.True(t, b.GrossIncome.Equal(want), "gross %s want %s", b.GrossIncome, want)
		assert.True(t, b.NetSalary.Equal(b.GrossIncome.Sub(b.TaxAmount).Sub(b.Deductions)))
	}
}

func TestCalculate_HighPrecisionSalaryStaysExact(t *testing.T) {
	in := baseInput()
	in.BasicSalaryOverride = decPtr("2500.1234567890123")
	in.OvertimeHours = dec("7")
	in.Bonus = dec("500")

	b, err := payroll.Calculate(context.Background(), in, &fakeLookup{})

	require.NoError(t, err)
	assert.Equal(t, "15.625771604931326875", b.HourlyRate.String())
	assert.Equal(t, "164.0706018517789321875", b.OvertimePay.String())
	assert.Equal(t, "3164.1940586407912321875", b.GrossIncome.String())
}

func TestCalculate_OverrideWinsOverPosition(t *testing.T) {
	in := baseInput()
	in.BasicSalaryOverride = decPtr("4000")
	in.OvertimeHours = decimal.Zero

	b, err := payroll.Calculate(context.Background(), in, &fakeLookup{})

	require.NoError(t, err)
	assert.Equal(t, "4000", b.BasicSalary.String())
}

func TestCalculate_ExemptSkipsLookup(t *testing.T) {
	in := baseInput()
	in.TaxExempt = true
	lookup := &fakeLookup{bracket: fivePercent()}

	b, err := payroll.Calculate(context.Background(), in, lookup)

	require.NoError(t, err)
	assert.Empty(t, lookup.calls)
	assert.True(t, b.TaxAmount.IsZero())
	assert.False(t, b.TaxApplied)
	assert.Nil(t, b.Bracket)
	for _, l := range b.Lines {
		assert.NotEqual(t, payroll.ItemTax, l.ItemName)
	}
	assert.Equal(t, "3134.375", b.NetSalary.String())
}

func TestCalculate_NoBracketMeansZeroTax(t *testing.T) {
	b, err := payroll.Calculate(context.Background(), baseInput(), &fakeLookup{})

	require.NoError(t, err)
	assert.True(t, b.TaxAmount.IsZero())
	assert.False(t, b.TaxApplied)
	assert.Len(t, b.Lines, 4)
}

func TestCalculate_TaxFloorAtZero(t *testing.T) {
	lookup := &fakeLookup{bracket: &taxbracket.TaxBracket{
		BracketName: "credit",
		MinAmount:   decimal.Zero,
		MaxAmount:   dec("100000"),
		TaxRate:     dec("0.01"),
		FixedAmount: dec("5000"),
	}}

	b, err := payroll.Calculate(context.Background(), baseInput(), lookup)

	require.NoError(t, err)
	assert.True(t, b.TaxAmount.IsZero())
	// a bracket matched, so the snapshot is still recorded
	assert.True(t, b.TaxApplied)
	for _, l := range b.Lines {
		assert.NotEqual(t, payroll.ItemTax, l.ItemName)
	}
}

func TestCalculate_OnlyPositiveLines(t *testing.T) {
	in := baseInput()
	in.OvertimeHours = decimal.Zero
	in.Bonus = decimal.Zero
	in.Deductions = decimal.Zero

	b, err := payroll.Calculate(context.Background(), in, &fakeLookup{})

	require.NoError(t, err)
	require.Len(t, b.Lines, 1)
	assert.Equal(t, payroll.ItemBasicSalary, b.Lines[0].ItemName)
	for _, l := range b.Lines {
		assert.True(t, l.Amount.IsPositive())
	}
}

func TestCalculate_ZeroBasicProducesNoLines(t *testing.T) {
	in := baseInput()
	in.PositionMinSalary = nil
	in.BasicSalaryOverride = decPtr("0")
	in.OvertimeHours = decimal.Zero
	in.Bonus = decimal.Zero
	in.Deductions = decimal.Zero

	b, err := payroll.Calculate(context.Background(), in, &fakeLookup{})

	require.NoError(t, err)
	assert.Empty(t, b.Lines)
	assert.True(t, b.NetSalary.IsZero())
}

func TestCalculate_ValidationErrors(t *testing.T) {
	noSalary := baseInput()
	noSalary.PositionMinSalary = nil

	negativeBonus := baseInput()
	negativeBonus.Bonus = dec("-1")

	negativeOverride := baseInput()
	negativeOverride.BasicSalaryOverride = decPtr("-10")

	tests := []struct {
		name string
		in   payroll.CalculationInput
		want error
	}{
		{"no salary source", noSalary, payrollerrors.ErrBasicSalaryUnavailable},
		{"negative bonus", negativeBonus, payrollerrors.ErrInvalidMoneyValue},
		{"negative override", negativeOverride, payrollerrors.ErrInvalidMoneyValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := payroll.Calculate(context.Background(), tt.in, &fakeLookup{})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCalculate_LookupFailure(t *testing.T) {
	cause := errors.New("db timeout")

	_, err := payroll.Calculate(context.Background(), baseInput(), &fakeLookup{err: cause})

	assert.ErrorIs(t, err, taxbracketerrors.ErrTaxBracketLookupFailed)
	assert.ErrorIs(t, err, cause)
}
