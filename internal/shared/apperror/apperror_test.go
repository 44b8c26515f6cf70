package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go-hris-payroll/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestToHTTP_AppError(t *testing.T) {
	err := apperror.New(apperror.CodeConflict, "duplicate", http.StatusConflict)

	got := apperror.ToHTTP(err)

	assert.Equal(t, http.StatusConflict, got.Status)
	assert.Equal(t, apperror.CodeConflict, got.Code)
	assert.Equal(t, "duplicate", got.Message)
}

func TestToHTTP_WrappedAppError(t *testing.T) {
	err := fmt.Errorf("outer: %w", apperror.ErrNotFound)

	got := apperror.ToHTTP(err)

	assert.Equal(t, http.StatusNotFound, got.Status)
	assert.Equal(t, apperror.CodeNotFound, got.Code)
}

func TestToHTTP_UnknownErrorIsInternal(t *testing.T) {
	got := apperror.ToHTTP(errors.New("pq: connection reset"))

	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.Equal(t, apperror.CodeInternalError, got.Code)
	assert.NotContains(t, got.Message, "pq")
}

func TestReason_KeepsSentinelIdentity(t *testing.T) {
	sentinel := apperror.New(apperror.CodeInvalidState, "bad state", http.StatusUnprocessableEntity)

	err := apperror.Reason(sentinel, "payroll is PROCESSED")

	assert.True(t, errors.Is(err, sentinel))
	assert.Equal(t, "payroll is PROCESSED", err.Message)
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.ToHTTP(err).Status)
	assert.True(t, apperror.Is(err, apperror.CodeInvalidState))
}

func TestPersistence_WrapsCause(t *testing.T) {
	cause := errors.New("disk full")

	err := apperror.Persistence("payroll", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, apperror.CodePersistence, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
}

func TestWrap_NilIsNil(t *testing.T) {
	assert.Nil(t, apperror.Wrap(nil, apperror.CodeInternalError, "x", 500))
}

type sample struct {
	PayPeriodStart string `json:"pay_period_start" validate:"required"`
	Currency       string `json:"currency_code" validate:"len=3"`
}

func TestMapValidationError(t *testing.T) {
	v := validator.New()

	err := v.Struct(sample{Currency: "USD"})
	mapped := apperror.MapValidationError(err)

	var appErr *apperror.AppError
	assert.ErrorAs(t, mapped, &appErr)
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
	assert.Contains(t, appErr.Message, "is required")
}

func TestMapValidationError_Invalid(t *testing.T) {
	v := validator.New()

	err := v.Struct(sample{PayPeriodStart: "2024-01-01", Currency: "US"})
	mapped := apperror.MapValidationError(err)

	assert.Contains(t, mapped.Error(), "is invalid")
}

func TestMapValidationError_NonValidator(t *testing.T) {
	mapped := apperror.MapValidationError(errors.New("EOF"))

	assert.Equal(t, "Invalid input", mapped.Error())
}

func TestWithCause_MatchesSentinelAndCause(t *testing.T) {
	sentinel := apperror.New(apperror.CodeInternalError, "lookup failed", http.StatusInternalServerError)
	cause := errors.New("timeout")

	err := sentinel.WithCause(cause)

	assert.ErrorIs(t, err, sentinel)
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, sentinel.Err)
	assert.False(t, errors.Is(err, apperror.ErrNotFound))
}
