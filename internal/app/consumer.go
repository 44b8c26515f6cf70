package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-hris-payroll/internal/config"
	"go-hris-payroll/internal/events"
	"go-hris-payroll/internal/messaging/kafka/consumer"
	"go-hris-payroll/internal/shared/connection"

	"go.uber.org/zap"
)

// RunConsumer executes queued bulk payroll requests until SIGINT or SIGTERM.
func RunConsumer(cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

	gormDB, sqlDB, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	// summaries cached by the API must be invalidated by generated payrolls
	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, connectRetries)
	if err != nil {
		return err
	}
	defer rdb.Close()

	if _, err := connection.ConnectKafkaWithRetry(cfg.Kafka.Broker, connectRetries); err != nil {
		return err
	}

	payrollService := newPayrollService(sqlDB, gormDB, rdb, cfg)

	reader := consumer.NewReader(cfg.Kafka.Broker, events.PayrollBulkRequestedTopic, cfg.Kafka.ConsumerGroup)
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer.ConsumePayrollBulkRequested(ctx, reader, payrollService, logger)

	logger.Info("consumer shut down")
	return nil
}
