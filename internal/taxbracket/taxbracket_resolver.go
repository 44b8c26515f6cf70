package taxbracket

import (
	"context"
	"fmt"
	"sort"

	"go-hris-payroll/internal/shared/money"

	"github.com/shopspring/decimal"
)

type Resolver struct {
	repo Repository
}

func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve returns the bracket whose [min, max) range contains grossIncome.
// A nil bracket with a nil error means no bracket applies and tax is zero.
func (r *Resolver) Resolve(
	ctx context.Context,
	countryCode, currencyCode string,
	taxYear int,
	grossIncome decimal.Decimal,
) (*TaxBracket, error) {
	brackets, err := r.repo.FindByScope(ctx, Scope{
		CountryCode:  countryCode,
		CurrencyCode: currencyCode,
		TaxYear:      taxYear,
	})
	if err != nil {
		return nil, fmt.Errorf("load tax brackets: %w", err)
	}

	for i := range brackets {
		if brackets[i].Contains(grossIncome) {
			return &brackets[i], nil
		}
	}
	return nil, nil
}

// ComputeTax is max(gross*rate - fixed, 0). A nil bracket yields zero.
func ComputeTax(grossIncome decimal.Decimal, b *TaxBracket) decimal.Decimal {
	if b == nil {
		return decimal.Zero
	}
	return money.Max0(grossIncome.Mul(b.TaxRate).Sub(b.FixedAmount))
}

// ValidateSchedule checks one scope's brackets: each band is non-empty,
// rates lie in [0, 1], fixed amounts are non-negative and consecutive bands
// meet exactly with no gap or overlap.
func ValidateSchedule(brackets []TaxBracket) error {
	if len(brackets) == 0 {
		return fmt.Errorf("schedule has no brackets")
	}

	sorted := make([]TaxBracket, len(brackets))
	copy(sorted, brackets)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinAmount.LessThan(sorted[j].MinAmount)
	})

	names := make(map[string]struct{}, len(sorted))
	one := decimal.NewFromInt(1)
	for i, b := range sorted {
		if b.BracketName == "" {
			return fmt.Errorf("bracket starting at %s has no name", b.MinAmount)
		}
		if _, dup := names[b.BracketName]; dup {
			return fmt.Errorf("duplicate bracket name %q", b.BracketName)
		}
		names[b.BracketName] = struct{}{}

		if b.MinAmount.IsNegative() {
			return fmt.Errorf("bracket %q: min amount is negative", b.BracketName)
		}
		if !b.MinAmount.LessThan(b.MaxAmount) {
			return fmt.Errorf("bracket %q: min amount must be below max amount", b.BracketName)
		}
		if b.TaxRate.IsNegative() || b.TaxRate.GreaterThan(one) {
			return fmt.Errorf("bracket %q: tax rate must be within [0, 1]", b.BracketName)
		}
		if b.FixedAmount.IsNegative() {
			return fmt.Errorf("bracket %q: fixed amount is negative", b.BracketName)
		}
		if i > 0 && !sorted[i-1].MaxAmount.Equal(b.MinAmount) {
			return fmt.Errorf("bracket %q: expected to start at %s, starts at %s",
				b.BracketName, sorted[i-1].MaxAmount, b.MinAmount)
		}
	}
	return nil
}
