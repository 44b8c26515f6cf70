package kafka

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
	// OutboxStatusDead marks an event that used up OutboxMaxAttempts. It is
	// never claimed again.
	OutboxStatusDead = "dead"
)

// Aggregates that write to the outbox. The aggregate id becomes the Kafka
// message key, so events of one payroll stay ordered on one partition.
const (
	AggregatePayroll     = "payroll"
	AggregatePayrollBulk = "payroll_bulk"
)

// OutboxMaxAttempts is how many failed publishes an event gets.
const OutboxMaxAttempts = 10

type OutboxEvent struct {
	ID            string
	RequestID     string
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	Payload       []byte
	Status        string
	RetryCount    int
	CreatedAt     time.Time
}

// NewOutboxEvent marshals payload into a pending event for one payroll
// aggregate.
func NewOutboxEvent(
	requestID, aggregateType, aggregateID, eventType, topic string,
	payload any,
) (OutboxEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return OutboxEvent{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	event := OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     requestID,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Topic:         topic,
		Payload:       raw,
		Status:        OutboxStatusPending,
	}
	return event, ValidateOutboxEvent(event)
}

func ValidateOutboxEvent(event OutboxEvent) error {
	if event.ID == "" {
		return errors.New("outbox id is required")
	}
	switch event.AggregateType {
	case AggregatePayroll, AggregatePayrollBulk:
	default:
		return fmt.Errorf("unknown outbox aggregate: %q", event.AggregateType)
	}
	if event.AggregateID == "" {
		return errors.New("outbox aggregate id is required")
	}
	if event.EventType == "" {
		return errors.New("outbox event type is required")
	}
	if event.Topic == "" {
		return errors.New("outbox topic is required")
	}
	if !json.Valid(event.Payload) {
		return errors.New("outbox payload must be a JSON document")
	}
	switch event.Status {
	case OutboxStatusPending, OutboxStatusSent, OutboxStatusFailed, OutboxStatusDead:
		return nil
	default:
		return fmt.Errorf("invalid outbox status: %s", event.Status)
	}
}
