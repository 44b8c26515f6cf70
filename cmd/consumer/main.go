package main

import (
	"go-hris-payroll/internal/app"
	"go-hris-payroll/internal/bootstrap"
	"go-hris-payroll/internal/config"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	logger, sync := bootstrap.NewLogger(cfg.IsProduction())
	defer sync()

	if err := app.RunConsumer(cfg); err != nil {
		logger.Fatal("run consumer failed", zap.Error(err))
	}
}
