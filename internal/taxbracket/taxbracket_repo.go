package taxbracket

import (
	"context"
	"database/sql"
	"strings"

	"go-hris-payroll/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=taxbracket_repo.go -destination=mock/taxbracket_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByScope(ctx context.Context, s Scope) ([]TaxBracket, error)
	Upsert(ctx context.Context, b *TaxBracket) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Bind(r.db, r.tx).WithContext(ctx)
}

// FindByScope returns the schedule ordered by min_amount descending.
func (r *repository) FindByScope(ctx context.Context, s Scope) ([]TaxBracket, error) {
	var brackets []TaxBracket
	err := r.conn(ctx).
		Where("country_code = ? AND currency_code = ? AND tax_year = ?",
			strings.ToUpper(s.CountryCode), strings.ToUpper(s.CurrencyCode), s.TaxYear).
		Order("min_amount DESC").
		Find(&brackets).Error
	return brackets, err
}

func (r *repository) Upsert(ctx context.Context, b *TaxBracket) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CountryCode = strings.ToUpper(b.CountryCode)
	b.CurrencyCode = strings.ToUpper(b.CurrencyCode)

	return r.conn(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "country_code"},
			{Name: "currency_code"},
			{Name: "tax_year"},
			{Name: "bracket_name"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"min_amount", "max_amount", "tax_rate", "fixed_amount", "updated_at",
		}),
	}).Create(b).Error
}
