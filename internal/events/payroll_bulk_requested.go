package events

import "time"

const (
	PayrollBulkRequestedTopic = "hr.payroll.bulk.requested.v1"

	PayrollBulkRequestedEventType = "payroll.bulk.requested"
)

type PayrollBulkRequestedEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id"`
	PayPeriodStart string    `json:"pay_period_start"`
	PayPeriodEnd   string    `json:"pay_period_end"`
	CurrencyCode   string    `json:"currency_code"`
	DepartmentID   string    `json:"department_id,omitempty"`
	EmployeeIDs    []string  `json:"employee_ids,omitempty"`
	RequestedBy    string    `json:"requested_by"`
	OccurredAt     time.Time `json:"occurred_at"`
}
