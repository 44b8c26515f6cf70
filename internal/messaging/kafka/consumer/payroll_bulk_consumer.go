package consumer

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go-hris-payroll/internal/events"
	"go-hris-payroll/internal/messaging/kafka/producer"
	"go-hris-payroll/internal/payroll"
	"go-hris-payroll/internal/shared/apperror"
	"go-hris-payroll/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// BulkGenerator runs a bulk payroll generation.
type BulkGenerator interface {
	GenerateBulk(ctx context.Context, actorID string, req payroll.BulkGenerateRequest) (payroll.BulkGenerateResponse, error)
}

// retryBackoff is the wait before the given retry of a failed message.
var retryBackoff = func(attempt int) time.Duration {
	return time.Second << min(attempt-1, 5)
}

// ConsumePayrollBulkRequested executes queued bulk generations until ctx is
// done. Rejected requests are committed and dropped. A transient failure is
// retried in place before the next message is fetched, so no later commit can
// move the group offset past it.
func ConsumePayrollBulkRequested(
	ctx context.Context,
	reader MessageReader,
	generator BulkGenerator,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payroll_bulk")
	log.Info("payroll bulk consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payroll bulk consumer stopped")
				return
			}
			log.Error("fetch payroll bulk message failed", zap.Error(err))
			continue
		}

		if !handlePayrollBulkMessage(ctx, msg, generator, log) &&
			!retryPayrollBulkMessage(ctx, msg, generator, log) {
			log.Info("payroll bulk consumer stopped",
				zap.Int64("uncommitted_offset", msg.Offset),
			)
			return
		}
		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payroll bulk message failed", zap.Error(err))
		}
	}
}

// retryPayrollBulkMessage re-runs msg until it is done with. It returns false
// when ctx ends first.
func retryPayrollBulkMessage(
	ctx context.Context,
	msg kafkago.Message,
	generator BulkGenerator,
	log *zap.Logger,
) bool {
	for attempt := 1; ctx.Err() == nil; attempt++ {
		wait := retryBackoff(attempt)
		log.Warn("retrying payroll bulk message",
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", wait),
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}

		if handlePayrollBulkMessage(ctx, msg, generator, log) {
			return true
		}
	}
	return false
}

// handlePayrollBulkMessage reports whether the message is done with.
func handlePayrollBulkMessage(
	ctx context.Context,
	msg kafkago.Message,
	generator BulkGenerator,
	log *zap.Logger,
) bool {
	var event events.PayrollBulkRequestedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode payroll bulk event failed",
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		return true
	}

	requestID := event.RequestID
	if requestID == "" {
		requestID = headerValue(msg, producer.HeaderRequestID)
	}

	reqLog := log.With(
		zap.String("request_id", requestID),
		zap.String("requested_by", event.RequestedBy),
	)
	ctx = contextutil.WithRequestID(ctx, requestID)
	ctx = contextutil.WithUserID(ctx, event.RequestedBy)
	ctx = contextutil.WithLogger(ctx, reqLog)

	result, err := generator.GenerateBulk(ctx, event.RequestedBy, payroll.BulkGenerateRequest{
		PayPeriodStart: event.PayPeriodStart,
		PayPeriodEnd:   event.PayPeriodEnd,
		CurrencyCode:   event.CurrencyCode,
		DepartmentID:   event.DepartmentID,
		EmployeeIDs:    event.EmployeeIDs,
	})
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		if httpErr.Status < http.StatusInternalServerError {
			reqLog.Warn("payroll bulk request rejected",
				zap.String("code", httpErr.Code),
				zap.Error(err),
			)
			return true
		}
		reqLog.Error("payroll bulk generation failed", zap.Error(err))
		return false
	}

	reqLog.Info("payroll bulk generation finished",
		zap.Int("requested", result.Requested),
		zap.Int("generated", result.GeneratedCount),
		zap.Int("skipped", result.SkippedCount),
		zap.Int("failed", result.FailedCount),
	)
	return true
}
