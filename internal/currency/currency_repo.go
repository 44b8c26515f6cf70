package currency

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	currencyerrors "go-hris-payroll/internal/currency/errors"
	"go-hris-payroll/internal/shared/dbtx"
	"go-hris-payroll/internal/shared/scope"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=currency_repo.go -destination=mock/currency_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindActiveByCode(ctx context.Context, code string) (*Currency, error)
	Upsert(ctx context.Context, c *Currency) error
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

// FindActiveByCode returns the currency only when it is active and not deleted.
func (r *repository) FindActiveByCode(ctx context.Context, code string) (*Currency, error) {
	var c Currency
	err := r.conn(ctx).
		Scopes(scope.NotDeleted("currencies")).
		Where("currencies.is_active = ?", true).
		First(&c, "currencies.code = ?", strings.ToUpper(code)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, currencyerrors.ErrCurrencyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) Upsert(ctx context.Context, c *Currency) error {
	c.Code = strings.ToUpper(c.Code)
	return r.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "symbol", "is_active", "updated_at"}),
	}).Create(c).Error
}
