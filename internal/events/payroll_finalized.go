package events

import "time"

const (
	PayrollLifecycleTopic = "hr.payroll.lifecycle.v1"

	PayrollFinalizedEventType = "payroll.finalized"
)

// PayrollFinalizedEvent is emitted when a payroll moves PENDING -> PROCESSED.
// Amounts are decimal strings.
type PayrollFinalizedEvent struct {
	EventType      string    `json:"event_type"`
	PayrollID      string    `json:"payroll_id"`
	EmployeeID     string    `json:"employee_id"`
	CurrencyCode   string    `json:"currency_code"`
	PayPeriodStart string    `json:"pay_period_start"`
	PayPeriodEnd   string    `json:"pay_period_end"`
	GrossIncome    string    `json:"gross_income"`
	TaxAmount      string    `json:"tax_amount"`
	NetSalary      string    `json:"net_salary"`
	ProcessedBy    string    `json:"processed_by"`
	OccurredAt     time.Time `json:"occurred_at"`
}
