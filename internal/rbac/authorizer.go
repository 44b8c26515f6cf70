package rbac

import (
	"fmt"
	"net/http"
	"strings"

	"go-hris-payroll/internal/shared/apperror"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

const (
	ModeEnforce    = "enforce"
	ModePermissive = "permissive"
)

const ResourcePayroll = "payroll"

const (
	ActionRead     = "read"
	ActionCreate   = "create"
	ActionFinalize = "finalize"
	ActionDelete   = "delete"
	ActionSummary  = "summary"
)

var ErrAuthorizationUnavailable = apperror.New(
	apperror.CodeInternalError,
	"authorization check failed",
	http.StatusInternalServerError,
)

// Authorizer evaluates role permissions against a casbin model and a CSV
// policy file loaded once at start-up.
type Authorizer struct {
	enforcer *casbin.SyncedEnforcer
}

func NewAuthorizer(modelPath, policyPath string) (*Authorizer, error) {
	e, err := casbin.NewSyncedEnforcer(modelPath, policyPath)
	if err != nil {
		return nil, fmt.Errorf("load rbac policy: %w", err)
	}

	zap.L().Named("rbac").Info("rbac policy loaded",
		zap.String("model", modelPath),
		zap.String("policy", policyPath),
	)
	return &Authorizer{enforcer: e}, nil
}

func (a *Authorizer) Authorize(role, resource, action string) (bool, error) {
	ok, err := a.enforcer.Enforce(strings.ToLower(role), resource, action)
	if err != nil {
		return false, ErrAuthorizationUnavailable.WithCause(err)
	}
	return ok, nil
}

// AllowAll grants every request. Only for local development.
type AllowAll struct{}

func (AllowAll) Authorize(string, string, string) (bool, error) {
	return true, nil
}

// Checker is satisfied by Authorizer and AllowAll.
type Checker interface {
	Authorize(role, resource, action string) (bool, error)
}

// FromMode builds the authorizer selected by AUTHZ_MODE.
func FromMode(mode, modelPath, policyPath string) (Checker, error) {
	switch strings.ToLower(mode) {
	case ModePermissive:
		zap.L().Named("rbac").Warn("rbac running in permissive mode; every request is allowed")
		return AllowAll{}, nil
	case "", ModeEnforce:
		return NewAuthorizer(modelPath, policyPath)
	default:
		return nil, fmt.Errorf("unknown AUTHZ_MODE %q", mode)
	}
}
