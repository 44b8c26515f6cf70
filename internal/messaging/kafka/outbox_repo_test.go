package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-hris-payroll/internal/events"
	"go-hris-payroll/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOutboxEvent(t *testing.T) {
	event, err := kafka.NewOutboxEvent("req-1", kafka.AggregatePayroll, "p-1",
		events.PayrollFinalizedEventType, events.PayrollLifecycleTopic,
		events.PayrollFinalizedEvent{PayrollID: "p-1", NetSalary: "2972.65625"})

	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, kafka.OutboxStatusPending, event.Status)
	assert.Equal(t, "req-1", event.RequestID)

	var decoded events.PayrollFinalizedEvent
	require.NoError(t, json.Unmarshal(event.Payload, &decoded))
	assert.Equal(t, "2972.65625", decoded.NetSalary)
}

func TestNewOutboxEvent_RequiresTopic(t *testing.T) {
	_, err := kafka.NewOutboxEvent("", kafka.AggregatePayroll, "p-1", "x", "", map[string]string{"a": "b"})
	assert.Error(t, err)
}

func TestValidateOutboxEvent(t *testing.T) {
	base := kafka.OutboxEvent{
		ID: "1", AggregateType: kafka.AggregatePayrollBulk, AggregateID: "req-1",
		EventType: "payroll.bulk_requested", Topic: "t", Payload: []byte("{}"), Status: kafka.OutboxStatusPending,
	}
	assert.NoError(t, kafka.ValidateOutboxEvent(base))

	tests := map[string]func(e *kafka.OutboxEvent){
		"unknown status":       func(e *kafka.OutboxEvent) { e.Status = "lost" },
		"missing payload":      func(e *kafka.OutboxEvent) { e.Payload = nil },
		"payload is not json":  func(e *kafka.OutboxEvent) { e.Payload = []byte("{") },
		"unknown aggregate":    func(e *kafka.OutboxEvent) { e.AggregateType = "employee" },
		"missing aggregate id": func(e *kafka.OutboxEvent) { e.AggregateID = "" },
		"missing event type":   func(e *kafka.OutboxEvent) { e.EventType = "" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			bad := base
			mutate(&bad)
			assert.Error(t, kafka.ValidateOutboxEvent(bad))
		})
	}
}

func TestOutboxRepository_CreateWithinTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	event := kafka.OutboxEvent{
		ID: "evt-1", RequestID: "req-1", AggregateType: kafka.AggregatePayroll, AggregateID: "p-1",
		EventType: "payroll.finalized", Topic: "topic", Payload: []byte(`{}`), Status: kafka.OutboxStatusPending,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO outbox_events").
		WithArgs(event.ID, event.RequestID, event.AggregateType, event.AggregateID,
			event.EventType, event.Topic, event.Payload, event.Status).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, kafka.NewOutboxRepository(db).WithTx(tx).Create(context.Background(), event))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_CreateRejectsInvalidEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	err = kafka.NewOutboxRepository(db).Create(context.Background(), kafka.OutboxEvent{ID: "evt-1"})

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_ClaimDue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	older := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	newer := older.Add(time.Minute)
	rows := sqlmock.NewRows([]string{
		"id", "request_id", "aggregate_type", "aggregate_id", "event_type", "topic",
		"payload", "status", "retry_count", "created_at",
	}).
		AddRow("evt-2", "", "payroll_bulk", "req-2", "payroll.bulk_requested", "topic", []byte(`{}`), "failed", 3, newer).
		AddRow("evt-1", "req-1", "payroll", "p-1", "payroll.finalized", "topic", []byte(`{}`), "pending", 0, older)

	mock.ExpectQuery(`(?s)UPDATE outbox_events AS o.*FOR UPDATE SKIP LOCKED`).
		WithArgs(kafka.OutboxStatusPending, kafka.OutboxStatusFailed, 10, float64(90)).
		WillReturnRows(rows)

	got, err := kafka.NewOutboxRepository(db).ClaimDue(context.Background(), 10, 90*time.Second)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "evt-1", got[0].ID)
	assert.Equal(t, "req-1", got[0].RequestID)
	assert.Equal(t, "evt-2", got[1].ID)
	assert.Equal(t, 3, got[1].RetryCount)
	assert.Equal(t, kafka.AggregatePayrollBulk, got[1].AggregateType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := kafka.NewOutboxRepository(db)

	mock.ExpectQuery("UPDATE outbox_events").
		WithArgs("evt-1", kafka.OutboxStatusFailed, "broker down", kafka.OutboxMaxAttempts, kafka.OutboxStatusDead).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(kafka.OutboxStatusDead))

	status, err := repo.MarkFailed(context.Background(), "evt-1", "broker down")
	require.NoError(t, err)
	assert.Equal(t, kafka.OutboxStatusDead, status)

	mock.ExpectQuery("UPDATE outbox_events").
		WithArgs("evt-2", kafka.OutboxStatusFailed, "broker down", kafka.OutboxMaxAttempts, kafka.OutboxStatusDead).
		WillReturnError(errors.New("db down"))

	_, err = repo.MarkFailed(context.Background(), "evt-2", "broker down")
	assert.EqualError(t, err, "db down")
	assert.NoError(t, mock.ExpectationsWereMet())
}
