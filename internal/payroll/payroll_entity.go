package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "PENDING"
	StatusProcessed = "PROCESSED"
	StatusPaid      = "PAID"
)

// Statuses lists every payroll status in lifecycle order.
var Statuses = []string{StatusPending, StatusProcessed, StatusPaid}

func IsValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

const (
	ItemTypeEarning   = "EARNING"
	ItemTypeDeduction = "DEDUCTION"
)

const (
	ItemBasicSalary     = "Basic Salary"
	ItemOvertime        = "Overtime"
	ItemBonus           = "Bonus"
	ItemTax             = "Tax"
	ItemOtherDeductions = "Other Deductions"
)

type Payroll struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EmployeeID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	CurrencyCode    string          `gorm:"type:varchar(3);not null"`
	PayPeriodStart  time.Time       `gorm:"type:date;not null"`
	PayPeriodEnd    time.Time       `gorm:"type:date;not null"`
	BasicSalary     decimal.Decimal `gorm:"type:numeric;not null"`
	OvertimeHours   decimal.Decimal `gorm:"type:numeric;not null"`
	OvertimeRate    decimal.Decimal `gorm:"type:numeric;not null"`
	OvertimePay     decimal.Decimal `gorm:"type:numeric;not null"`
	Bonus           decimal.Decimal `gorm:"type:numeric;not null"`
	Deductions      decimal.Decimal `gorm:"type:numeric;not null"`
	GrossIncome     decimal.Decimal `gorm:"type:numeric;not null"`
	TaxAmount       decimal.Decimal `gorm:"type:numeric;not null"`
	TotalDeductions decimal.Decimal `gorm:"type:numeric;not null"`
	NetSalary       decimal.Decimal `gorm:"type:numeric;not null"`
	Status          string          `gorm:"size:20;not null;index"`
	PaymentDate     *time.Time      `gorm:"type:date"`
	ProcessedAt     *time.Time
	ProcessedBy     *uuid.UUID `gorm:"type:uuid"`
	CreatedBy       uuid.UUID  `gorm:"type:uuid;not null"`
	IsDeleted       bool       `gorm:"not null;default:false"`
	DeletedAt       *time.Time
	DeletedBy       *uuid.UUID `gorm:"type:uuid"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items          []PayrollItem    `gorm:"foreignKey:PayrollID;references:ID"`
	TaxCalculation *TaxCalculation  `gorm:"foreignKey:PayrollID;references:ID"`
	Employee       *PayrollEmployee `gorm:"foreignKey:EmployeeID;references:ID"`
}

// PayrollItem is an immutable line of a payroll.
type PayrollItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PayrollID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNo      int             `gorm:"not null"`
	ItemType    string          `gorm:"size:20;not null"`
	ItemName    string          `gorm:"size:100;not null"`
	Amount      decimal.Decimal `gorm:"type:numeric;not null"`
	Description string          `gorm:"size:255"`
	CreatedAt   time.Time
}

// TaxCalculation snapshots the bracket applied to a payroll.
type TaxCalculation struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PayrollID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	TaxBracketID   uuid.UUID       `gorm:"type:uuid;not null"`
	GrossIncome    decimal.Decimal `gorm:"type:numeric;not null"`
	TaxableIncome  decimal.Decimal `gorm:"type:numeric;not null"`
	TaxAmount      decimal.Decimal `gorm:"type:numeric;not null"`
	TaxRateUsed    decimal.Decimal `gorm:"type:numeric;not null"`
	PayPeriodStart time.Time       `gorm:"type:date;not null"`
	PayPeriodEnd   time.Time       `gorm:"type:date;not null"`
	CreatedAt      time.Time
}

type PayrollEmployee struct {
	ID             uuid.UUID          `gorm:"type:uuid;primaryKey"`
	EmployeeNumber string             `gorm:"column:employee_number"`
	FullName       string             `gorm:"column:full_name"`
	DepartmentID   *uuid.UUID         `gorm:"type:uuid"`
	Department     *PayrollDepartment `gorm:"foreignKey:DepartmentID;references:ID"`
}

func (PayrollEmployee) TableName() string {
	return "employees"
}

type PayrollDepartment struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"column:name"`
}

func (PayrollDepartment) TableName() string {
	return "departments"
}

// Sum of item amounts of the given type.
func (p *Payroll) ItemTotal(itemType string) decimal.Decimal {
	total := decimal.Zero
	for _, it := range p.Items {
		if it.ItemType == itemType {
			total = total.Add(it.Amount)
		}
	}
	return total
}

// ItemAmount returns the amount of the named line, zero when absent.
func (p *Payroll) ItemAmount(name string) decimal.Decimal {
	total := decimal.Zero
	for _, it := range p.Items {
		if it.ItemName == name {
			total = total.Add(it.Amount)
		}
	}
	return total
}
