package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-hris-payroll/internal/config"
	"go-hris-payroll/internal/messaging/kafka"
	"go-hris-payroll/internal/messaging/kafka/producer"
	"go-hris-payroll/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker relays the outbox to Kafka until SIGINT or SIGTERM.
func RunWorker(cfg *config.Config) error {
	logger := zap.L().Named("app.worker")

	_, sqlDB, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if _, err := connection.ConnectKafkaWithRetry(cfg.Kafka.Broker, connectRetries); err != nil {
		return err
	}

	kafkaWriter := producer.NewWriter(cfg.Kafka.Broker)
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	producer.ProcessOutboxEvents(ctx, outboxRepo, kafkaWriter, logger, producer.WorkerConfig{
		PollInterval: cfg.Kafka.OutboxPollInterval,
		BatchSize:    cfg.Kafka.OutboxBatchSize,
		Lease:        cfg.Kafka.OutboxLease,
	})

	logger.Info("worker shut down")
	return nil
}
