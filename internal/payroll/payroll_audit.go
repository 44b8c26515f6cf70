package payroll

import (
	"go-hris-payroll/internal/audit"
	"go-hris-payroll/internal/messaging/kafka"
)

const (
	AuditActionDrafted       = "PAYROLL_DRAFTED"
	AuditActionFinalized     = "PAYROLL_FINALIZED"
	AuditActionDeleted       = "PAYROLL_DELETED"
	AuditActionBulkRequested = "PAYROLL_BULK_REQUESTED"
	AuditActionBulkGenerated = "PAYROLL_BULK_GENERATED"
)

func payrollAuditEntry(action, message, payrollID, actorID string, meta map[string]any) audit.Entry {
	return audit.Entry{
		Action:     action,
		Message:    message,
		Resource:   kafka.AggregatePayroll,
		ResourceID: payrollID,
		ActorID:    actorID,
		Meta:       meta,
	}
}
