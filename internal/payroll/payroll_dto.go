package payroll

import "github.com/shopspring/decimal"

type CreatePayrollRequest struct {
	EmployeeID          string           `json:"employee_id" binding:"required,uuid"`
	PayPeriodStart      string           `json:"pay_period_start" binding:"required"`
	PayPeriodEnd        string           `json:"pay_period_end" binding:"required"`
	CurrencyCode        string           `json:"currency_code" binding:"required,len=3"`
	OvertimeHours       *decimal.Decimal `json:"overtime_hours"`
	Bonus               *decimal.Decimal `json:"bonus"`
	Deductions          *decimal.Decimal `json:"deductions"`
	BasicSalaryOverride *decimal.Decimal `json:"basic_salary_override"`
}

type GetPayrollsFilterRequest struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	Status     string `form:"status"`
	Year       int    `form:"year"`
	Month      int    `form:"month"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

type BulkGenerateRequest struct {
	PayPeriodStart string   `json:"pay_period_start" binding:"required"`
	PayPeriodEnd   string   `json:"pay_period_end" binding:"required"`
	CurrencyCode   string   `json:"currency_code" binding:"required,len=3"`
	DepartmentID   string   `json:"department_id" binding:"omitempty,uuid"`
	EmployeeIDs    []string `json:"employee_ids" binding:"omitempty,dive,uuid"`
}

type SummaryFilterRequest struct {
	Year         int    `form:"year"`
	Month        int    `form:"month"`
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
}

type PayrollItemResponse struct {
	LineNo      int             `json:"line_no"`
	ItemType    string          `json:"item_type"`
	ItemName    string          `json:"item_name"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

type TaxCalculationResponse struct {
	TaxBracketID  string          `json:"tax_bracket_id"`
	GrossIncome   decimal.Decimal `json:"gross_income"`
	TaxableIncome decimal.Decimal `json:"taxable_income"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	TaxRateUsed   decimal.Decimal `json:"tax_rate_used"`
}

type PayrollResponse struct {
	ID              string                  `json:"id"`
	EmployeeID      string                  `json:"employee_id"`
	EmployeeName    string                  `json:"employee_name,omitempty"`
	CurrencyCode    string                  `json:"currency_code"`
	PayPeriodStart  string                  `json:"pay_period_start"`
	PayPeriodEnd    string                  `json:"pay_period_end"`
	BasicSalary     decimal.Decimal         `json:"basic_salary"`
	OvertimeHours   decimal.Decimal         `json:"overtime_hours"`
	OvertimeRate    decimal.Decimal         `json:"overtime_rate"`
	OvertimePay     decimal.Decimal         `json:"overtime_pay"`
	Bonus           decimal.Decimal         `json:"bonus"`
	Deductions      decimal.Decimal         `json:"deductions"`
	GrossIncome     decimal.Decimal         `json:"gross_income"`
	TaxAmount       decimal.Decimal         `json:"tax_amount"`
	TotalDeductions decimal.Decimal         `json:"total_deductions"`
	NetSalary       decimal.Decimal         `json:"net_salary"`
	Status          string                  `json:"status"`
	CreatedBy       string                  `json:"created_by"`
	ProcessedBy     *string                 `json:"processed_by,omitempty"`
	ProcessedAt     *string                 `json:"processed_at,omitempty"`
	PaymentDate     *string                 `json:"payment_date,omitempty"`
	Items           []PayrollItemResponse   `json:"items"`
	TaxCalculation  *TaxCalculationResponse `json:"tax_calculation,omitempty"`
}

type BulkSkipped struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

type BulkFailed struct {
	EmployeeID string `json:"employee_id"`
	Code       string `json:"code"`
	Error      string `json:"error"`
}

type BulkGenerateResponse struct {
	Requested      int           `json:"requested"`
	GeneratedCount int           `json:"generated_count"`
	SkippedCount   int           `json:"skipped_count"`
	FailedCount    int           `json:"failed_count"`
	Generated      []string      `json:"generated"`
	Skipped        []BulkSkipped `json:"skipped"`
	Failed         []BulkFailed  `json:"failed"`
}

type BulkRequestAccepted struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
}

type SummaryTotals struct {
	PayrollCount    int             `json:"payroll_count"`
	TotalGross      decimal.Decimal `json:"total_gross"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalNet        decimal.Decimal `json:"total_net"`
	TotalTax        decimal.Decimal `json:"total_tax"`
	TotalOvertime   decimal.Decimal `json:"total_overtime"`
	TotalBonus      decimal.Decimal `json:"total_bonus"`
}

type StatusBreakdown struct {
	Status     string          `json:"status"`
	Count      int             `json:"count"`
	TotalGross decimal.Decimal `json:"total_gross"`
	TotalNet   decimal.Decimal `json:"total_net"`
}

type DepartmentBreakdown struct {
	DepartmentID    string          `json:"department_id"`
	DepartmentName  string          `json:"department_name"`
	EmployeeCount   int             `json:"employee_count"`
	TotalSalary     decimal.Decimal `json:"total_salary"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalNet        decimal.Decimal `json:"total_net"`
}

type SummaryResponse struct {
	Year         int                   `json:"year,omitempty"`
	Month        int                   `json:"month,omitempty"`
	DepartmentID string                `json:"department_id,omitempty"`
	Totals       SummaryTotals         `json:"totals"`
	ByStatus     []StatusBreakdown     `json:"by_status"`
	ByDepartment []DepartmentBreakdown `json:"by_department"`
}
