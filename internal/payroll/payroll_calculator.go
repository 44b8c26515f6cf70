package payroll

import (
	"context"
	"fmt"

	payrollerrors "go-hris-payroll/internal/payroll/errors"
	"go-hris-payroll/internal/shared/money"
	"go-hris-payroll/internal/taxbracket"
	taxbracketerrors "go-hris-payroll/internal/taxbracket/errors"

	"github.com/shopspring/decimal"
)

// BracketLookup resolves the bracket for a gross amount. A nil bracket means
// no band applies.
type BracketLookup interface {
	Resolve(ctx context.Context, countryCode, currencyCode string, taxYear int, grossIncome decimal.Decimal) (*taxbracket.TaxBracket, error)
}

type CalculationInput struct {
	// BasicSalaryOverride wins over PositionMinSalary when set.
	BasicSalaryOverride *decimal.Decimal
	PositionMinSalary   *decimal.Decimal
	OvertimeHours       decimal.Decimal
	Bonus               decimal.Decimal
	Deductions          decimal.Decimal
	TaxExempt           bool
	TaxCountry          string
	CurrencyCode        string
	TaxYear             int
}

type Line struct {
	ItemType    string
	ItemName    string
	Amount      decimal.Decimal
	Description string
}

type Breakdown struct {
	BasicSalary     decimal.Decimal
	HourlyRate      decimal.Decimal
	OvertimeHours   decimal.Decimal
	OvertimeRate    decimal.Decimal
	OvertimePay     decimal.Decimal
	Bonus           decimal.Decimal
	Deductions      decimal.Decimal
	GrossIncome     decimal.Decimal
	TaxAmount       decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal
	Bracket         *taxbracket.TaxBracket
	TaxApplied      bool
	Lines           []Line
}

// Calculate derives every payroll figure from its inputs. It performs no
// writes; the only I/O is the bracket lookup, skipped for exempt employees.
func Calculate(ctx context.Context, in CalculationInput, lookup BracketLookup) (Breakdown, error) {
	if in.OvertimeHours.IsNegative() || in.Bonus.IsNegative() || in.Deductions.IsNegative() {
		return Breakdown{}, payrollerrors.ErrInvalidMoneyValue
	}

	var basic decimal.Decimal
	switch {
	case in.BasicSalaryOverride != nil:
		basic = *in.BasicSalaryOverride
	case in.PositionMinSalary != nil:
		basic = *in.PositionMinSalary
	default:
		return Breakdown{}, payrollerrors.ErrBasicSalaryUnavailable
	}
	if basic.IsNegative() {
		return Breakdown{}, payrollerrors.ErrInvalidMoneyValue
	}

	b := Breakdown{
		BasicSalary:   basic,
		HourlyRate:    money.HourlyRate(basic),
		OvertimeHours: in.OvertimeHours,
		Bonus:         in.Bonus,
		Deductions:    in.Deductions,
	}
	b.OvertimeRate = b.HourlyRate.Mul(money.OvertimeMultiplier)
	b.OvertimePay = b.OvertimeRate.Mul(in.OvertimeHours)
	b.GrossIncome = money.Sum(basic, b.OvertimePay, in.Bonus)

	b.TaxAmount = decimal.Zero
	if !in.TaxExempt {
		bracket, err := lookup.Resolve(ctx, in.TaxCountry, in.CurrencyCode, in.TaxYear, b.GrossIncome)
		if err != nil {
			return Breakdown{}, taxbracketerrors.ErrTaxBracketLookupFailed.WithCause(err)
		}
		if bracket != nil {
			b.Bracket = bracket
			b.TaxApplied = true
			b.TaxAmount = taxbracket.ComputeTax(b.GrossIncome, bracket)
		}
	}

	b.TotalDeductions = b.TaxAmount.Add(in.Deductions)
	b.NetSalary = b.GrossIncome.Sub(b.TotalDeductions)
	b.Lines = buildLines(b)

	return b, nil
}

func buildLines(b Breakdown) []Line {
	lines := make([]Line, 0, 5)
	add := func(itemType, name string, amount decimal.Decimal, desc string) {
		if amount.IsPositive() {
			lines = append(lines, Line{ItemType: itemType, ItemName: name, Amount: amount, Description: desc})
		}
	}

	add(ItemTypeEarning, ItemBasicSalary, b.BasicSalary, "Monthly basic salary")
	add(ItemTypeEarning, ItemOvertime, b.OvertimePay,
		fmt.Sprintf("%s hours at %s per hour", b.OvertimeHours.String(), b.OvertimeRate.String()))
	add(ItemTypeEarning, ItemBonus, b.Bonus, "Bonus")

	taxDesc := "Income tax"
	if b.Bracket != nil {
		taxDesc = fmt.Sprintf("Income tax, bracket %s at rate %s", b.Bracket.BracketName, b.Bracket.TaxRate.String())
	}
	add(ItemTypeDeduction, ItemTax, b.TaxAmount, taxDesc)
	add(ItemTypeDeduction, ItemOtherDeductions, b.Deductions, "Other deductions")

	return lines
}
