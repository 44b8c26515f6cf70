package payroll

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go-hris-payroll/internal/audit"
	"go-hris-payroll/internal/events"
	"go-hris-payroll/internal/messaging/kafka"
	payrollerrors "go-hris-payroll/internal/payroll/errors"
	"go-hris-payroll/internal/shared/apperror"
	"go-hris-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const BulkRequestAcceptedStatus = "ACCEPTED"

var ErrBulkQueueUnavailable = apperror.New(
	apperror.CodeServiceUnavailable,
	"asynchronous payroll generation is not available",
	http.StatusServiceUnavailable,
)

// bulkTarget is a validated bulk request.
type bulkTarget struct {
	actorID      uuid.UUID
	periodStart  time.Time
	periodEnd    time.Time
	currencyCode string
	departmentID *uuid.UUID
	employeeIDs  []uuid.UUID
}

type bulkOutcome struct {
	payrollID string
	skipped   string
	failed    error
}

// GenerateBulk creates one draft per target employee. Each employee runs in
// its own transaction; a failure never undoes another employee's payroll.
// Results keep the order of the resolved employee list.
func (s *service) GenerateBulk(
	ctx context.Context,
	actorID string,
	req BulkGenerateRequest,
) (BulkGenerateResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	target, err := validateBulkRequest(actorID, req)
	if err != nil {
		log.Warn("bulk payroll rejected", zap.Error(err))
		return BulkGenerateResponse{}, err
	}

	employeeIDs := target.employeeIDs
	if len(employeeIDs) == 0 {
		employeeIDs, err = s.employeeRepo.FindActiveIDsByDepartment(ctx, *target.departmentID)
		if err != nil {
			log.Error("bulk payroll employee lookup failed", zap.Error(err))
			return BulkGenerateResponse{}, err
		}
	}

	outcomes := make([]bulkOutcome, len(employeeIDs))

	var g errgroup.Group
	g.SetLimit(s.bulkConcurrency)
	for i, employeeID := range employeeIDs {
		g.Go(func() error {
			p, err := s.createDraft(ctx, draftInput{
				employeeID:   employeeID,
				actorID:      target.actorID,
				periodStart:  target.periodStart,
				periodEnd:    target.periodEnd,
				currencyCode: target.currencyCode,
			})
			switch {
			case err == nil:
				outcomes[i] = bulkOutcome{payrollID: p.ID.String()}
			case errors.Is(err, payrollerrors.ErrPayrollAlreadyExists):
				outcomes[i] = bulkOutcome{skipped: payrollerrors.ErrPayrollAlreadyExists.Message}
			default:
				outcomes[i] = bulkOutcome{failed: err}
			}
			return nil
		})
	}
	_ = g.Wait()

	resp := BulkGenerateResponse{
		Requested: len(employeeIDs),
		Generated: []string{},
		Skipped:   []BulkSkipped{},
		Failed:    []BulkFailed{},
	}
	for i, o := range outcomes {
		employeeID := employeeIDs[i].String()
		switch {
		case o.failed != nil:
			httpErr := apperror.ToHTTP(o.failed)
			resp.Failed = append(resp.Failed, BulkFailed{
				EmployeeID: employeeID,
				Code:       httpErr.Code,
				Error:      httpErr.Message,
			})
			logServiceError(log, "bulk payroll employee failed", o.failed, zap.String("employee_id", employeeID))
		case o.skipped != "":
			resp.Skipped = append(resp.Skipped, BulkSkipped{EmployeeID: employeeID, Reason: o.skipped})
		default:
			resp.Generated = append(resp.Generated, o.payrollID)
		}
	}
	resp.GeneratedCount = len(resp.Generated)
	resp.SkippedCount = len(resp.Skipped)
	resp.FailedCount = len(resp.Failed)

	if resp.GeneratedCount > 0 {
		s.invalidateSummary(ctx)
	}

	log.Info("bulk payroll completed",
		zap.Int("requested", resp.Requested),
		zap.Int("generated", resp.GeneratedCount),
		zap.Int("skipped", resp.SkippedCount),
		zap.Int("failed", resp.FailedCount),
	)
	s.audit.Log(ctx, audit.Entry{
		Action:  AuditActionBulkGenerated,
		Message: "bulk payroll completed",
		ActorID: actorID,
		Meta: map[string]any{
			"requested": resp.Requested,
			"generated": resp.GeneratedCount,
			"skipped":   resp.SkippedCount,
			"failed":    resp.FailedCount,
		},
	})
	return resp, nil
}

// RequestBulkGeneration queues a bulk run through the outbox. The consumer
// replays it with GenerateBulk.
func (s *service) RequestBulkGeneration(
	ctx context.Context,
	actorID string,
	req BulkGenerateRequest,
) (BulkRequestAccepted, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if s.outboxRepo == nil {
		return BulkRequestAccepted{}, ErrBulkQueueUnavailable
	}

	target, err := validateBulkRequest(actorID, req)
	if err != nil {
		return BulkRequestAccepted{}, err
	}

	requestID := contextutil.GetRequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	employeeIDs := make([]string, len(target.employeeIDs))
	for i, id := range target.employeeIDs {
		employeeIDs[i] = id.String()
	}
	departmentID := ""
	if target.departmentID != nil {
		departmentID = target.departmentID.String()
	}

	event, err := kafka.NewOutboxEvent(
		requestID,
		kafka.AggregatePayrollBulk,
		requestID,
		events.PayrollBulkRequestedEventType,
		events.PayrollBulkRequestedTopic,
		events.PayrollBulkRequestedEvent{
			EventType:      events.PayrollBulkRequestedEventType,
			RequestID:      requestID,
			PayPeriodStart: target.periodStart.Format(dateLayout),
			PayPeriodEnd:   target.periodEnd.Format(dateLayout),
			CurrencyCode:   target.currencyCode,
			DepartmentID:   departmentID,
			EmployeeIDs:    employeeIDs,
			RequestedBy:    target.actorID.String(),
			OccurredAt:     s.now().UTC(),
		},
	)
	if err != nil {
		return BulkRequestAccepted{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return BulkRequestAccepted{}, err
	}
	defer tx.Rollback()

	if err := s.outboxRepo.WithTx(tx).Create(ctx, event); err != nil {
		log.Error("bulk payroll outbox persist failed", zap.Error(err))
		return BulkRequestAccepted{}, persistenceError("bulk payroll request", err)
	}
	if err := tx.Commit(); err != nil {
		return BulkRequestAccepted{}, persistenceError("bulk payroll request", err)
	}

	log.Info("bulk payroll queued", zap.String("bulk_request_id", requestID))
	s.audit.Log(ctx, audit.Entry{
		Action:     AuditActionBulkRequested,
		Message:    "bulk payroll queued",
		Resource:   kafka.AggregatePayrollBulk,
		ResourceID: requestID,
		ActorID:    actorID,
	})
	return BulkRequestAccepted{RequestID: requestID, Status: BulkRequestAcceptedStatus}, nil
}

func validateBulkRequest(actorID string, req BulkGenerateRequest) (bulkTarget, error) {
	actor, err := parseActorID(actorID)
	if err != nil {
		return bulkTarget{}, err
	}

	periodStart, periodEnd, err := parsePeriod(req.PayPeriodStart, req.PayPeriodEnd)
	if err != nil {
		return bulkTarget{}, err
	}

	currencyCode, err := normalizeCurrency(req.CurrencyCode)
	if err != nil {
		return bulkTarget{}, err
	}

	target := bulkTarget{
		actorID:      actor,
		periodStart:  periodStart,
		periodEnd:    periodEnd,
		currencyCode: currencyCode,
	}

	if len(req.EmployeeIDs) > 0 {
		seen := make(map[uuid.UUID]struct{}, len(req.EmployeeIDs))
		for _, raw := range req.EmployeeIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				return bulkTarget{}, payrollerrors.ErrInvalidEmployeeID
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			target.employeeIDs = append(target.employeeIDs, id)
		}
		return target, nil
	}

	if req.DepartmentID == "" {
		return bulkTarget{}, payrollerrors.ErrBulkTargetRequired
	}
	departmentID, err := uuid.Parse(req.DepartmentID)
	if err != nil {
		return bulkTarget{}, payrollerrors.ErrInvalidDepartmentID
	}
	target.departmentID = &departmentID
	return target, nil
}
