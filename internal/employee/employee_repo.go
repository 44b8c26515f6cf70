package employee

import (
	"context"
	"database/sql"

	"go-hris-payroll/internal/shared/dbtx"
	"go-hris-payroll/internal/shared/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindActiveByID(ctx context.Context, id uuid.UUID) (*Employee, error)
	FindActiveIDsByDepartment(ctx context.Context, departmentID uuid.UUID) ([]uuid.UUID, error)
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

func (r *repository) FindActiveByID(ctx context.Context, id uuid.UUID) (*Employee, error) {
	var emp Employee
	err := r.conn(ctx).
		Scopes(scope.NotDeleted("employees")).
		Preload("Position").
		Preload("Department").
		Preload("TaxConfig").
		First(&emp, "employees.id = ?", id).Error
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return &emp, nil
}

func (r *repository) FindActiveIDsByDepartment(ctx context.Context, departmentID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.conn(ctx).
		Model(&Employee{}).
		Scopes(scope.NotDeleted("employees")).
		Where("employees.department_id = ?", departmentID).
		Order("employees.employee_number ASC, employees.id ASC").
		Pluck("employees.id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
