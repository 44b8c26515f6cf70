package main

import (
	"context"
	"flag"

	"go-hris-payroll/internal/app"
	"go-hris-payroll/internal/bootstrap"
	"go-hris-payroll/internal/config"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	flag.StringVar(&cfg.Payroll.CurrenciesPath, "currencies", cfg.Payroll.CurrenciesPath, "currency YAML file")
	flag.StringVar(&cfg.Payroll.TaxBracketsPath, "brackets", cfg.Payroll.TaxBracketsPath, "tax bracket schedule YAML file")
	flag.Parse()

	logger, sync := bootstrap.NewLogger(cfg.IsProduction())
	defer sync()

	if err := app.RunSeed(context.Background(), cfg); err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
}
