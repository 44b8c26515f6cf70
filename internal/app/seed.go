package app

import (
	"context"
	"fmt"

	"go-hris-payroll/internal/config"
	"go-hris-payroll/internal/currency"
	"go-hris-payroll/internal/database"
	"go-hris-payroll/internal/taxbracket"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RunSeed migrates the schema and upserts the currency and tax bracket
// reference files in a single transaction.
func RunSeed(ctx context.Context, cfg *config.Config) error {
	logger := zap.L().Named("app.seed")

	currencies, err := currency.LoadCurrencyFile(cfg.Payroll.CurrenciesPath)
	if err != nil {
		return err
	}
	brackets, err := taxbracket.LoadScheduleFile(cfg.Payroll.TaxBracketsPath)
	if err != nil {
		return err
	}

	gormDB, sqlDB, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := database.Migrate(sqlDB); err != nil {
		return err
	}

	if err := seedReferenceData(ctx, gormDB, currencies, brackets); err != nil {
		return err
	}

	logger.Info("reference data seeded",
		zap.Int("currencies", len(currencies)),
		zap.Int("tax_brackets", len(brackets)),
	)
	return nil
}

func seedReferenceData(
	ctx context.Context,
	gormDB *gorm.DB,
	currencies []currency.Currency,
	brackets []taxbracket.TaxBracket,
) error {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	currencyRepo := currency.NewRepository(gormDB).WithTx(tx)
	for i := range currencies {
		if err := currencyRepo.Upsert(ctx, &currencies[i]); err != nil {
			return fmt.Errorf("upsert currency %s: %w", currencies[i].Code, err)
		}
	}

	bracketRepo := taxbracket.NewRepository(gormDB).WithTx(tx)
	for i := range brackets {
		b := &brackets[i]
		if err := bracketRepo.Upsert(ctx, b); err != nil {
			return fmt.Errorf("upsert bracket %s/%s/%d %q: %w",
				b.CountryCode, b.CurrencyCode, b.TaxYear, b.BracketName, err)
		}
	}

	return tx.Commit()
}
