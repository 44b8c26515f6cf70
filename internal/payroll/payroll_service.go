package payroll

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-hris-payroll/internal/audit"
	"go-hris-payroll/internal/currency"
	"go-hris-payroll/internal/employee"
	"go-hris-payroll/internal/events"
	"go-hris-payroll/internal/messaging/kafka"
	payrollerrors "go-hris-payroll/internal/payroll/errors"
	"go-hris-payroll/internal/shared/apperror"
	"go-hris-payroll/internal/shared/contextutil"
	"go-hris-payroll/internal/shared/money"
	"go-hris-payroll/internal/taxbracket"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	CreateDraft(ctx context.Context, actorID string, req CreatePayrollRequest) (PayrollResponse, error)
	Finalize(ctx context.Context, actorID, id string) (PayrollResponse, error)
	Delete(ctx context.Context, actorID, id string) error
	GetByID(ctx context.Context, id string) (PayrollResponse, error)
	GetAll(ctx context.Context, filter GetPayrollsFilterRequest) ([]PayrollResponse, int64, error)
	GenerateBulk(ctx context.Context, actorID string, req BulkGenerateRequest) (BulkGenerateResponse, error)
	RequestBulkGeneration(ctx context.Context, actorID string, req BulkGenerateRequest) (BulkRequestAccepted, error)
	GetSummary(ctx context.Context, filter SummaryFilterRequest) (SummaryResponse, error)
	RenderPayslip(ctx context.Context, id string) ([]byte, string, error)
}

type service struct {
	db                *sql.DB
	repo              Repository
	employeeRepo      employee.Repository
	currencyRepo      currency.Repository
	bracketRepo       taxbracket.Repository
	outboxRepo        kafka.OutboxRepository
	rdb               *redis.Client
	sf                *singleflight.Group
	logger            *zap.Logger
	audit             audit.Logger
	now               func() time.Time
	defaultTaxCountry string
	bulkConcurrency   int
}

type Option func(*service)

func WithOutbox(repo kafka.OutboxRepository) Option {
	return func(s *service) { s.outboxRepo = repo }
}

func WithRedis(rdb *redis.Client) Option {
	return func(s *service) { s.rdb = rdb }
}

// WithAudit records draft, finalize, delete and bulk actions.
func WithAudit(l audit.Logger) Option {
	return func(s *service) {
		if l != nil {
			s.audit = l
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger.Named("payroll.service")
		}
	}
}

// WithClock replaces time.Now; the tax year is taken from it.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithDefaultTaxCountry(code string) Option {
	return func(s *service) {
		if code != "" {
			s.defaultTaxCountry = strings.ToUpper(code)
		}
	}
}

func WithBulkConcurrency(n int) Option {
	return func(s *service) {
		if n > 0 {
			s.bulkConcurrency = n
		}
	}
}

func NewService(
	db *sql.DB,
	repo Repository,
	employeeRepo employee.Repository,
	currencyRepo currency.Repository,
	bracketRepo taxbracket.Repository,
	opts ...Option,
) Service {
	s := &service{
		db:                db,
		repo:              repo,
		employeeRepo:      employeeRepo,
		currencyRepo:      currencyRepo,
		bracketRepo:       bracketRepo,
		sf:                &singleflight.Group{},
		logger:            zap.L().Named("payroll.service"),
		audit:             audit.Nop{},
		now:               time.Now,
		defaultTaxCountry: "US",
		bulkConcurrency:   4,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// draftInput is a validated create request.
type draftInput struct {
	employeeID    uuid.UUID
	actorID       uuid.UUID
	periodStart   time.Time
	periodEnd     time.Time
	currencyCode  string
	overtimeHours decimal.Decimal
	bonus         decimal.Decimal
	deductions    decimal.Decimal
	basicOverride *decimal.Decimal
}

func (s *service) CreateDraft(
	ctx context.Context,
	actorID string,
	req CreatePayrollRequest,
) (PayrollResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	in, err := validateCreateRequest(actorID, req)
	if err != nil {
		log.Warn("create payroll rejected", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return PayrollResponse{}, err
	}

	p, err := s.createDraft(ctx, in)
	if err != nil {
		logServiceError(log, "create payroll failed", err, zap.String("employee_id", req.EmployeeID))
		return PayrollResponse{}, err
	}

	s.invalidateSummary(ctx)
	log.Info("payroll draft created",
		zap.String("payroll_id", p.ID.String()),
		zap.String("employee_id", p.EmployeeID.String()),
		zap.String("net_salary", p.NetSalary.String()),
	)
	s.audit.Log(ctx, payrollAuditEntry(AuditActionDrafted, "payroll draft created", p.ID.String(), actorID,
		map[string]any{
			"employee_id":      p.EmployeeID.String(),
			"pay_period_start": p.PayPeriodStart.Format(dateLayout),
			"net_salary":       p.NetSalary.String(),
		}))
	return mapToResponse(*p), nil
}

// createDraft computes and persists one payroll in its own transaction.
// The header, items and tax snapshot are written together or not at all.
func (s *service) createDraft(ctx context.Context, in draftInput) (*Payroll, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	emp, err := s.employeeRepo.WithTx(tx).FindActiveByID(ctx, in.employeeID)
	if err != nil {
		return nil, err
	}
	if _, err := s.currencyRepo.WithTx(tx).FindActiveByCode(ctx, in.currencyCode); err != nil {
		return nil, err
	}

	exists, err := qtx.HasOverlappingPeriod(ctx, in.employeeID, in.periodStart, in.periodEnd)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, payrollerrors.ErrPayrollAlreadyExists
	}

	calcIn := CalculationInput{
		BasicSalaryOverride: in.basicOverride,
		OvertimeHours:       in.overtimeHours,
		Bonus:               in.bonus,
		Deductions:          in.deductions,
		TaxExempt:           emp.IsTaxExempt(),
		TaxCountry:          strings.ToUpper(emp.TaxCountry(s.defaultTaxCountry)),
		CurrencyCode:        in.currencyCode,
		TaxYear:             s.now().Year(),
	}
	if emp.Position != nil {
		minSalary := emp.Position.SalaryRangeMin
		calcIn.PositionMinSalary = &minSalary
	}

	breakdown, err := Calculate(ctx, calcIn, taxbracket.NewResolver(s.bracketRepo.WithTx(tx)))
	if err != nil {
		return nil, err
	}

	p := newPayroll(in, breakdown)
	if err := qtx.Create(ctx, p); err != nil {
		return nil, persistenceError("payroll", err)
	}
	if err := qtx.CreateItems(ctx, newItems(p.ID, breakdown)); err != nil {
		return nil, persistenceError("payroll items", err)
	}
	if breakdown.TaxApplied {
		if err := qtx.CreateTaxCalculation(ctx, newTaxCalculation(p, breakdown)); err != nil {
			return nil, persistenceError("tax calculation", err)
		}
	}

	saved, err := qtx.FindActiveByID(ctx, p.ID)
	if err != nil {
		return nil, persistenceError("payroll", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, persistenceError("payroll", err)
	}
	return saved, nil
}

func (s *service) Finalize(
	ctx context.Context,
	actorID, id string,
) (PayrollResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	actor, err := parseActorID(actorID)
	if err != nil {
		return PayrollResponse{}, err
	}
	payrollID, err := parsePayrollID(id)
	if err != nil {
		return PayrollResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	current, err := qtx.FindActiveByID(ctx, payrollID)
	if err != nil {
		return PayrollResponse{}, err
	}
	if current.Status != StatusPending {
		return PayrollResponse{}, finalizeStateError(current.Status)
	}

	now := s.now()
	updated, err := qtx.MarkProcessed(ctx, payrollID, actor, now)
	if err != nil {
		return PayrollResponse{}, persistenceError("payroll status", err)
	}
	if !updated {
		// another writer changed the row after it was read
		latest, err := qtx.FindActiveByID(ctx, payrollID)
		if err != nil {
			return PayrollResponse{}, err
		}
		return PayrollResponse{}, finalizeStateError(latest.Status)
	}

	p, err := qtx.FindActiveByID(ctx, payrollID)
	if err != nil {
		return PayrollResponse{}, err
	}

	if s.outboxRepo != nil {
		event, err := newFinalizedOutboxEvent(ctx, p, actor, now)
		if err != nil {
			return PayrollResponse{}, err
		}
		if err := s.outboxRepo.WithTx(tx).Create(ctx, event); err != nil {
			log.Error("finalize payroll outbox persist failed", zap.String("payroll_id", id), zap.Error(err))
			return PayrollResponse{}, persistenceError("payroll event", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, persistenceError("payroll status", err)
	}

	s.invalidateSummary(ctx)
	log.Info("payroll finalized", zap.String("payroll_id", id), zap.String("processed_by", actorID))
	s.audit.Log(ctx, payrollAuditEntry(AuditActionFinalized, "payroll finalized", id, actorID,
		map[string]any{"net_salary": p.NetSalary.String()}))
	return mapToResponse(*p), nil
}

func (s *service) Delete(
	ctx context.Context,
	actorID, id string,
) error {
	log := contextutil.GetLogger(ctx, s.logger)

	actor, err := parseActorID(actorID)
	if err != nil {
		return err
	}
	payrollID, err := parsePayrollID(id)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	current, err := qtx.FindActiveByID(ctx, payrollID)
	if err != nil {
		return err
	}
	if current.Status != StatusPending {
		return payrollerrors.ErrDeleteOnlyPending
	}

	deleted, err := qtx.SoftDelete(ctx, payrollID, actor, s.now())
	if err != nil {
		return persistenceError("payroll deletion", err)
	}
	if !deleted {
		return payrollerrors.ErrDeleteOnlyPending
	}

	if err := tx.Commit(); err != nil {
		return persistenceError("payroll deletion", err)
	}

	s.invalidateSummary(ctx)
	log.Info("payroll deleted", zap.String("payroll_id", id), zap.String("deleted_by", actorID))
	s.audit.Log(ctx, payrollAuditEntry(AuditActionDeleted, "payroll deleted", id, actorID, nil))
	return nil
}

func (s *service) GetByID(ctx context.Context, id string) (PayrollResponse, error) {
	payrollID, err := parsePayrollID(id)
	if err != nil {
		return PayrollResponse{}, err
	}

	p, err := s.repo.FindActiveByID(ctx, payrollID)
	if err != nil {
		return PayrollResponse{}, err
	}
	return mapToResponse(*p), nil
}

func (s *service) GetAll(ctx context.Context, req GetPayrollsFilterRequest) ([]PayrollResponse, int64, error) {
	filter := PayrollQueryFilter{Page: req.Page, Limit: req.PageSize}

	if req.EmployeeID != "" {
		employeeID, err := uuid.Parse(req.EmployeeID)
		if err != nil {
			return nil, 0, payrollerrors.ErrInvalidEmployeeID
		}
		filter.EmployeeID = &employeeID
	}

	if req.Status != "" {
		status := strings.ToUpper(req.Status)
		if !IsValidStatus(status) {
			return nil, 0, payrollerrors.ErrInvalidStatusFilter
		}
		filter.Status = status
	}

	from, to, err := periodWindow(req.Year, req.Month)
	if err != nil {
		return nil, 0, err
	}
	filter.PeriodFrom, filter.PeriodTo = from, to

	payrolls, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return mapToListResponse(payrolls), total, nil
}

// RenderPayslip returns a PDF for the payroll and a suggested file name.
func (s *service) RenderPayslip(ctx context.Context, id string) ([]byte, string, error) {
	payrollID, err := parsePayrollID(id)
	if err != nil {
		return nil, "", err
	}

	p, err := s.repo.FindActiveByID(ctx, payrollID)
	if err != nil {
		return nil, "", err
	}

	pdf, err := buildSimplePayslipPDF(payslipLines(p))
	if err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("payslip-%s-%s.pdf", p.PayPeriodStart.Format(dateLayout), p.ID.String())
	return pdf, name, nil
}

func newPayroll(in draftInput, b Breakdown) *Payroll {
	return &Payroll{
		ID:              uuid.New(),
		EmployeeID:      in.employeeID,
		CurrencyCode:    in.currencyCode,
		PayPeriodStart:  in.periodStart,
		PayPeriodEnd:    in.periodEnd,
		BasicSalary:     b.BasicSalary,
		OvertimeHours:   b.OvertimeHours,
		OvertimeRate:    b.OvertimeRate,
		OvertimePay:     b.OvertimePay,
		Bonus:           b.Bonus,
		Deductions:      b.Deductions,
		GrossIncome:     b.GrossIncome,
		TaxAmount:       b.TaxAmount,
		TotalDeductions: b.TotalDeductions,
		NetSalary:       b.NetSalary,
		Status:          StatusPending,
		CreatedBy:       in.actorID,
	}
}

func newItems(payrollID uuid.UUID, b Breakdown) []PayrollItem {
	items := make([]PayrollItem, 0, len(b.Lines))
	for i, line := range b.Lines {
		items = append(items, PayrollItem{
			ID:          uuid.New(),
			PayrollID:   payrollID,
			LineNo:      i + 1,
			ItemType:    line.ItemType,
			ItemName:    line.ItemName,
			Amount:      line.Amount,
			Description: line.Description,
		})
	}
	return items
}

func newTaxCalculation(p *Payroll, b Breakdown) *TaxCalculation {
	return &TaxCalculation{
		ID:             uuid.New(),
		PayrollID:      p.ID,
		TaxBracketID:   b.Bracket.ID,
		GrossIncome:    b.GrossIncome,
		TaxableIncome:  b.GrossIncome,
		TaxAmount:      b.TaxAmount,
		TaxRateUsed:    b.Bracket.TaxRate,
		PayPeriodStart: p.PayPeriodStart,
		PayPeriodEnd:   p.PayPeriodEnd,
	}
}

func newFinalizedOutboxEvent(ctx context.Context, p *Payroll, actor uuid.UUID, at time.Time) (kafka.OutboxEvent, error) {
	return kafka.NewOutboxEvent(
		contextutil.GetRequestID(ctx),
		kafka.AggregatePayroll,
		p.ID.String(),
		events.PayrollFinalizedEventType,
		events.PayrollLifecycleTopic,
		events.PayrollFinalizedEvent{
			EventType:      events.PayrollFinalizedEventType,
			PayrollID:      p.ID.String(),
			EmployeeID:     p.EmployeeID.String(),
			CurrencyCode:   p.CurrencyCode,
			PayPeriodStart: p.PayPeriodStart.Format(dateLayout),
			PayPeriodEnd:   p.PayPeriodEnd.Format(dateLayout),
			GrossIncome:    p.GrossIncome.String(),
			TaxAmount:      p.TaxAmount.String(),
			NetSalary:      p.NetSalary.String(),
			ProcessedBy:    actor.String(),
			OccurredAt:     at.UTC(),
		},
	)
}

func finalizeStateError(status string) error {
	return apperror.Reason(
		payrollerrors.ErrFinalizeOnlyPending,
		fmt.Sprintf("payroll is %s; only PENDING payrolls can be finalized", status),
	)
}

// persistenceError keeps duplicate-period violations recognisable and wraps
// every other write failure.
func persistenceError(op string, err error) error {
	if mapped := mapRepositoryError(err); errors.Is(mapped, payrollerrors.ErrPayrollAlreadyExists) {
		return mapped
	}
	return apperror.Persistence(op, err)
}

func logServiceError(log *zap.Logger, msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.HTTPStatus < 500 {
		log.Warn(msg, fields...)
		return
	}
	log.Error(msg, fields...)
}

func validateCreateRequest(actorID string, req CreatePayrollRequest) (draftInput, error) {
	actor, err := parseActorID(actorID)
	if err != nil {
		return draftInput{}, err
	}

	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return draftInput{}, payrollerrors.ErrInvalidEmployeeID
	}

	periodStart, periodEnd, err := parsePeriod(req.PayPeriodStart, req.PayPeriodEnd)
	if err != nil {
		return draftInput{}, err
	}

	currencyCode, err := normalizeCurrency(req.CurrencyCode)
	if err != nil {
		return draftInput{}, err
	}

	for _, v := range []*decimal.Decimal{req.OvertimeHours, req.Bonus, req.Deductions, req.BasicSalaryOverride} {
		if v != nil && v.IsNegative() {
			return draftInput{}, payrollerrors.ErrInvalidMoneyValue
		}
	}

	return draftInput{
		employeeID:    employeeID,
		actorID:       actor,
		periodStart:   periodStart,
		periodEnd:     periodEnd,
		currencyCode:  currencyCode,
		overtimeHours: money.OrZero(req.OvertimeHours),
		bonus:         money.OrZero(req.Bonus),
		deductions:    money.OrZero(req.Deductions),
		basicOverride: req.BasicSalaryOverride,
	}, nil
}

func parseActorID(v string) (uuid.UUID, error) {
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, payrollerrors.ErrInvalidActorID
	}
	return id, nil
}

func parsePayrollID(v string) (uuid.UUID, error) {
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, payrollerrors.ErrInvalidPayrollID
	}
	return id, nil
}

func parsePeriod(start, end string) (time.Time, time.Time, error) {
	periodStart, err := parseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	periodEnd, err := parseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !periodEnd.After(periodStart) {
		return time.Time{}, time.Time{}, payrollerrors.ErrInvalidDateRange
	}
	return periodStart, periodEnd, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, payrollerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func normalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", payrollerrors.ErrInvalidCurrencyCode
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", payrollerrors.ErrInvalidCurrencyCode
		}
	}
	return code, nil
}

// periodWindow converts year/month filters into a [from, to) range on
// pay_period_start. Zero values mean no filter.
func periodWindow(year, month int) (*time.Time, *time.Time, error) {
	if year == 0 && month == 0 {
		return nil, nil, nil
	}
	if year <= 0 || month < 0 || month > 12 {
		return nil, nil, payrollerrors.ErrInvalidPeriodFilter
	}

	if month == 0 {
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(1, 0, 0)
		return &from, &to, nil
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	return &from, &to, nil
}

func mapToResponse(p Payroll) PayrollResponse {
	resp := PayrollResponse{
		ID:              p.ID.String(),
		EmployeeID:      p.EmployeeID.String(),
		CurrencyCode:    p.CurrencyCode,
		PayPeriodStart:  p.PayPeriodStart.Format(dateLayout),
		PayPeriodEnd:    p.PayPeriodEnd.Format(dateLayout),
		BasicSalary:     p.BasicSalary,
		OvertimeHours:   p.OvertimeHours,
		OvertimeRate:    p.OvertimeRate,
		OvertimePay:     p.OvertimePay,
		Bonus:           p.Bonus,
		Deductions:      p.Deductions,
		GrossIncome:     p.GrossIncome,
		TaxAmount:       p.TaxAmount,
		TotalDeductions: p.TotalDeductions,
		NetSalary:       p.NetSalary,
		Status:          p.Status,
		CreatedBy:       p.CreatedBy.String(),
		Items:           make([]PayrollItemResponse, 0, len(p.Items)),
	}

	if p.Employee != nil {
		resp.EmployeeName = p.Employee.FullName
	}
	if p.ProcessedBy != nil {
		v := p.ProcessedBy.String()
		resp.ProcessedBy = &v
	}
	if p.ProcessedAt != nil {
		v := p.ProcessedAt.UTC().Format(time.RFC3339)
		resp.ProcessedAt = &v
	}
	if p.PaymentDate != nil {
		v := p.PaymentDate.Format(dateLayout)
		resp.PaymentDate = &v
	}

	for _, it := range p.Items {
		resp.Items = append(resp.Items, PayrollItemResponse{
			LineNo:      it.LineNo,
			ItemType:    it.ItemType,
			ItemName:    it.ItemName,
			Amount:      it.Amount,
			Description: it.Description,
		})
	}

	if tc := p.TaxCalculation; tc != nil {
		resp.TaxCalculation = &TaxCalculationResponse{
			TaxBracketID:  tc.TaxBracketID.String(),
			GrossIncome:   tc.GrossIncome,
			TaxableIncome: tc.TaxableIncome,
			TaxAmount:     tc.TaxAmount,
			TaxRateUsed:   tc.TaxRateUsed,
		}
	}

	return resp
}

func mapToListResponse(payrolls []Payroll) []PayrollResponse {
	resp := make([]PayrollResponse, len(payrolls))
	for i, p := range payrolls {
		resp[i] = mapToResponse(p)
	}
	return resp
}
