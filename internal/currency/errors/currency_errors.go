package currencyerrors

import (
	"go-hris-payroll/internal/shared/apperror"
	"net/http"
)

var (
	ErrCurrencyNotFound = apperror.New(
		apperror.CodeNotFound,
		"Currency not found or inactive",
		http.StatusNotFound,
	)
)
