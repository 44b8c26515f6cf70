package payroll

import (
	"context"
	"database/sql"
	"time"

	"go-hris-payroll/internal/shared/dbtx"
	"go-hris-payroll/internal/shared/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PayrollQueryFilter struct {
	EmployeeID *uuid.UUID
	Status     string
	// PeriodFrom/PeriodTo bound pay_period_start as [from, to).
	PeriodFrom *time.Time
	PeriodTo   *time.Time
	Page       int
	Limit      int
}

type SummaryQuery struct {
	PeriodFrom   *time.Time
	PeriodTo     *time.Time
	DepartmentID *uuid.UUID
}

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, payroll *Payroll) error
	CreateItems(ctx context.Context, items []PayrollItem) error
	CreateTaxCalculation(ctx context.Context, calc *TaxCalculation) error
	FindActiveByID(ctx context.Context, id uuid.UUID) (*Payroll, error)
	FindAll(ctx context.Context, filter PayrollQueryFilter) ([]Payroll, int64, error)
	FindForSummary(ctx context.Context, q SummaryQuery) ([]Payroll, error)
	HasOverlappingPeriod(ctx context.Context, employeeID uuid.UUID, periodStart, periodEnd time.Time) (bool, error)
	MarkProcessed(ctx context.Context, id, actorID uuid.UUID, at time.Time) (bool, error)
	SoftDelete(ctx context.Context, id, actorID uuid.UUID, at time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Bind(r.db, r.tx).WithContext(ctx)
}

func (r *repository) Create(ctx context.Context, payroll *Payroll) error {
	return r.conn(ctx).Omit("Items", "TaxCalculation", "Employee").Create(payroll).Error
}

func (r *repository) CreateItems(ctx context.Context, items []PayrollItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.conn(ctx).Create(&items).Error
}

func (r *repository) CreateTaxCalculation(ctx context.Context, calc *TaxCalculation) error {
	return r.conn(ctx).Create(calc).Error
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("payroll_items.line_no ASC")
		}).
		Preload("TaxCalculation").
		Preload("Employee.Department")
}

func (r *repository) FindActiveByID(ctx context.Context, id uuid.UUID) (*Payroll, error) {
	var p Payroll
	err := r.conn(ctx).
		Scopes(scope.NotDeleted("payrolls"), withDetails).
		First(&p, "payrolls.id = ?", id).Error
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return &p, nil
}

func (r *repository) FindAll(ctx context.Context, filter PayrollQueryFilter) ([]Payroll, int64, error) {
	q := r.conn(ctx).Model(&Payroll{}).Scopes(scope.NotDeleted("payrolls"))

	if filter.EmployeeID != nil {
		q = q.Where("payrolls.employee_id = ?", *filter.EmployeeID)
	}
	if filter.Status != "" {
		q = q.Where("payrolls.status = ?", filter.Status)
	}
	if filter.PeriodFrom != nil {
		q = q.Where("payrolls.pay_period_start >= ?", *filter.PeriodFrom)
	}
	if filter.PeriodTo != nil {
		q = q.Where("payrolls.pay_period_start < ?", *filter.PeriodTo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payrolls []Payroll
	err := q.
		Scopes(withDetails, scope.Paginate(filter.Page, filter.Limit)).
		Order("payrolls.pay_period_start DESC, payrolls.created_at DESC").
		Find(&payrolls).Error
	return payrolls, total, err
}

func (r *repository) FindForSummary(ctx context.Context, q SummaryQuery) ([]Payroll, error) {
	db := r.conn(ctx).Model(&Payroll{}).Scopes(scope.NotDeleted("payrolls"))

	if q.PeriodFrom != nil {
		db = db.Where("payrolls.pay_period_start >= ?", *q.PeriodFrom)
	}
	if q.PeriodTo != nil {
		db = db.Where("payrolls.pay_period_start < ?", *q.PeriodTo)
	}
	if q.DepartmentID != nil {
		db = db.Where(
			"payrolls.employee_id IN (?)",
			r.conn(ctx).Table("employees").Select("id").Where("department_id = ?", *q.DepartmentID),
		)
	}

	var payrolls []Payroll
	err := db.
		Preload("Items").
		Preload("Employee.Department").
		Order("payrolls.pay_period_start ASC").
		Find(&payrolls).Error
	return payrolls, err
}

// HasOverlappingPeriod reports an active payroll for the employee whose
// period intersects [periodStart, periodEnd].
func (r *repository) HasOverlappingPeriod(
	ctx context.Context,
	employeeID uuid.UUID,
	periodStart, periodEnd time.Time,
) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Payroll{}).
		Scopes(scope.NotDeleted("payrolls")).
		Where("payrolls.employee_id = ?", employeeID).
		Where("payrolls.pay_period_start <= ? AND payrolls.pay_period_end >= ?", periodEnd, periodStart).
		Count(&count).Error
	return count > 0, err
}

// MarkProcessed moves a PENDING payroll to PROCESSED. It returns false when
// the row was no longer PENDING at write time.
func (r *repository) MarkProcessed(ctx context.Context, id, actorID uuid.UUID, at time.Time) (bool, error) {
	res := r.conn(ctx).
		Model(&Payroll{}).
		Where("id = ? AND status = ? AND is_deleted = ?", id, StatusPending, false).
		Updates(map[string]any{
			"status":       StatusProcessed,
			"processed_at": at,
			"processed_by": actorID,
			"updated_at":   at,
		})
	return res.RowsAffected == 1, res.Error
}

// SoftDelete flags a PENDING payroll as deleted. Items and the tax snapshot
// are kept for audit.
func (r *repository) SoftDelete(ctx context.Context, id, actorID uuid.UUID, at time.Time) (bool, error) {
	res := r.conn(ctx).
		Model(&Payroll{}).
		Where("id = ? AND status = ? AND is_deleted = ?", id, StatusPending, false).
		Updates(map[string]any{
			"is_deleted": true,
			"deleted_at": at,
			"deleted_by": actorID,
			"updated_at": at,
		})
	return res.RowsAffected == 1, res.Error
}
