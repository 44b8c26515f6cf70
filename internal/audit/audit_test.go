package audit_test

import (
	"context"
	"testing"

	"go-hris-payroll/internal/audit"
	"go-hris-payroll/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_Log(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	ctx := contextutil.WithRequestID(context.Background(), "req-7")
	ctx = contextutil.WithUserID(ctx, "user-from-ctx")

	audit.NewZapLogger(zap.New(core)).Log(ctx, audit.Entry{
		Action:     "PAYROLL_FINALIZED",
		Message:    "payroll finalized",
		Resource:   "payroll",
		ResourceID: "p-1",
		ActorID:    "user-1",
		Meta:       map[string]any{"net_salary": "2972.65625"},
	})

	entries := logs.FilterMessage("audit event").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "audit", entries[0].LoggerName)

	fields := entries[0].ContextMap()
	assert.Equal(t, "PAYROLL_FINALIZED", fields["action"])
	assert.Equal(t, "p-1", fields["resource_id"])
	assert.Equal(t, "user-1", fields["actor_id"])
	assert.Equal(t, "req-7", fields["request_id"])
	assert.Equal(t, map[string]any{"net_salary": "2972.65625"}, fields["meta"])
}

func TestZapLogger_ActorFromContext(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := contextutil.WithUserID(context.Background(), "user-from-ctx")

	audit.NewZapLogger(zap.New(core)).Log(ctx, audit.Entry{Action: "SERVER_SHUTDOWN", Message: "stopping"})

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "user-from-ctx", fields["actor_id"])
	assert.NotContains(t, fields, "resource")
	assert.NotContains(t, fields, "request_id")
	assert.NotContains(t, fields, "meta")
}

func TestNewZapLogger_NilUsesGlobal(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	var l audit.Logger = audit.NewZapLogger(nil)
	l.Log(context.Background(), audit.Entry{Action: "SERVER_SHUTDOWN", Message: "stopping"})

	require.Len(t, logs.FilterMessage("audit event").All(), 1)
	assert.Equal(t, "audit", logs.All()[0].LoggerName)
}
