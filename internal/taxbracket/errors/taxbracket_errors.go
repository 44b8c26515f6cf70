package taxbracketerrors

import (
	"go-hris-payroll/internal/shared/apperror"
	"net/http"
)

var (
	ErrTaxBracketLookupFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed to resolve tax bracket",
		http.StatusInternalServerError,
	)
)
