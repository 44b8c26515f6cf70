package employee

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Employee is the read model payroll needs. The HR directory owns writes.
type Employee struct {
	ID             uuid.UUID   `gorm:"type:uuid;primaryKey"`
	EmployeeNumber string      `gorm:"size:50"`
	FullName       string      `gorm:"size:255;not null"`
	DepartmentID   *uuid.UUID  `gorm:"type:uuid;index"`
	PositionID     *uuid.UUID  `gorm:"type:uuid;index"`
	Department     *Department `gorm:"foreignKey:DepartmentID;references:ID"`
	Position       *Position   `gorm:"foreignKey:PositionID;references:ID"`
	TaxConfig      *TaxConfig  `gorm:"foreignKey:EmployeeID;references:ID"`
	IsDeleted      bool        `gorm:"not null;default:false"`
	DeletedAt      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Department struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:255;not null"`
	IsDeleted bool      `gorm:"not null;default:false"`
}

func (Department) TableName() string {
	return "departments"
}

type Position struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Title          string          `gorm:"size:255;not null"`
	SalaryRangeMin decimal.Decimal `gorm:"type:numeric;not null"`
	SalaryRangeMax decimal.Decimal `gorm:"type:numeric;not null"`
	IsDeleted      bool            `gorm:"not null;default:false"`
}

func (Position) TableName() string {
	return "positions"
}

// TaxConfig is optional per employee. Absent means taxable in the default country.
type TaxConfig struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	TaxExempt  bool      `gorm:"not null;default:false"`
	TaxCountry *string   `gorm:"size:2"`
}

func (TaxConfig) TableName() string {
	return "employee_tax_configs"
}

func (e *Employee) IsTaxExempt() bool {
	return e.TaxConfig != nil && e.TaxConfig.TaxExempt
}

// TaxCountry returns the configured country or fallback.
func (e *Employee) TaxCountry(fallback string) string {
	if e.TaxConfig != nil && e.TaxConfig.TaxCountry != nil && *e.TaxConfig.TaxCountry != "" {
		return *e.TaxConfig.TaxCountry
	}
	return fallback
}
