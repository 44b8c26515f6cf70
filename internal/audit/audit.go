// Package audit records who changed payroll state, and when, on a dedicated
// "audit" logger kept apart from debug output.
package audit

import (
	"context"
	"time"

	"go-hris-payroll/internal/shared/contextutil"

	"go.uber.org/zap"
)

// Entry is one auditable action. ActorID falls back to the user on ctx.
type Entry struct {
	Action     string
	Message    string
	Resource   string
	ResourceID string
	ActorID    string
	Meta       map[string]any
}

type Logger interface {
	Log(ctx context.Context, entry Entry)
}

// Nop discards entries.
type Nop struct{}

func (Nop) Log(context.Context, Entry) {}

type ZapLogger struct {
	log *zap.Logger
	now func() time.Time
}

// NewZapLogger writes entries through base, or the global logger when base
// is nil.
func NewZapLogger(base *zap.Logger) *ZapLogger {
	if base == nil {
		base = zap.L()
	}
	return &ZapLogger{log: base.Named("audit"), now: time.Now}
}

func (l *ZapLogger) Log(ctx context.Context, entry Entry) {
	md := contextutil.ExtractMetadata(ctx)
	actor := entry.ActorID
	if actor == "" {
		actor = md.UserID
	}

	fields := []zap.Field{
		zap.Time("at", l.now().UTC()),
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
	}
	if entry.Resource != "" {
		fields = append(fields,
			zap.String("resource", entry.Resource),
			zap.String("resource_id", entry.ResourceID),
		)
	}
	if actor != "" {
		fields = append(fields, zap.String("actor_id", actor))
	}
	if md.RequestID != "" {
		fields = append(fields, zap.String("request_id", md.RequestID))
	}
	if len(entry.Meta) > 0 {
		fields = append(fields, zap.Any("meta", entry.Meta))
	}

	l.log.Info("audit event", fields...)
}
