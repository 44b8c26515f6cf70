package payrollerrors

import (
	"net/http"

	"go-hris-payroll/internal/shared/apperror"
)

var (
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidPayrollID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidDepartmentID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid department id",
		http.StatusBadRequest,
	)
	ErrInvalidCurrencyCode = apperror.New(
		apperror.CodeInvalidInput,
		"currency code must be 3 letters",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"pay_period_end must be after pay_period_start",
		http.StatusBadRequest,
	)
	ErrInvalidMoneyValue = apperror.New(
		apperror.CodeInvalidInput,
		"amounts must be valid non-negative decimals",
		http.StatusBadRequest,
	)
	ErrBasicSalaryUnavailable = apperror.New(
		apperror.CodeInvalidInput,
		"basic salary override is required when the employee has no position",
		http.StatusBadRequest,
	)
	ErrBulkTargetRequired = apperror.New(
		apperror.CodeInvalidInput,
		"either employee_ids or department_id is required",
		http.StatusBadRequest,
	)
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll status filter",
		http.StatusBadRequest,
	)
	ErrInvalidPeriodFilter = apperror.New(
		apperror.CodeInvalidInput,
		"month filter requires year and must be between 1 and 12",
		http.StatusBadRequest,
	)
	ErrPayrollAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"payroll already exists for this employee in an overlapping period",
		http.StatusConflict,
	)
	ErrPayrollNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll not found",
		http.StatusNotFound,
	)
	ErrFinalizeOnlyPending = apperror.New(
		apperror.CodeInvalidState,
		"only PENDING payrolls can be finalized",
		http.StatusUnprocessableEntity,
	)
	ErrDeleteOnlyPending = apperror.New(
		apperror.CodeInvalidState,
		"only PENDING payrolls can be deleted",
		http.StatusUnprocessableEntity,
	)
)
