package taxbracket

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxBracket is one band of a progressive schedule scoped by country,
// currency and tax year. MinAmount is inclusive, MaxAmount exclusive.
type TaxBracket struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CountryCode  string          `gorm:"size:2;not null;uniqueIndex:uq_tax_bracket_scope_name,priority:1"`
	CurrencyCode string          `gorm:"type:varchar(3);not null;uniqueIndex:uq_tax_bracket_scope_name,priority:2"`
	TaxYear      int             `gorm:"not null;uniqueIndex:uq_tax_bracket_scope_name,priority:3"`
	BracketName  string          `gorm:"size:100;not null;uniqueIndex:uq_tax_bracket_scope_name,priority:4"`
	MinAmount    decimal.Decimal `gorm:"type:numeric;not null"`
	MaxAmount    decimal.Decimal `gorm:"type:numeric;not null"`
	TaxRate      decimal.Decimal `gorm:"type:numeric;not null"`
	FixedAmount  decimal.Decimal `gorm:"type:numeric;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Contains reports whether amount falls in [MinAmount, MaxAmount).
func (b *TaxBracket) Contains(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(b.MinAmount) && amount.LessThan(b.MaxAmount)
}

// Scope identifies one schedule.
type Scope struct {
	CountryCode  string
	CurrencyCode string
	TaxYear      int
}
