package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
	"github.com/rbac-admin/rbac-api/internal/core/ports"
)

// LogSink writes audit events as structured log lines. It is used when no
// database is configured for the audit trail.
type LogSink struct {
	log zerolog.Logger
}

var _ ports.AuditSink = LogSink{}

func NewLogSink(log zerolog.Logger) LogSink {
	return LogSink{log: log.With().Str("component", "audit").Logger()}
}

func (s LogSink) Write(_ context.Context, e domain.AuditEvent) error {
	s.log.Info().
		Str("event_id", e.ID).
		Str("action", e.Action).
		Int64("actor_id", e.ActorID).
		Str("target_type", e.TargetType).
		Int64("target_id", e.TargetID).
		Str("outcome", string(e.Outcome)).
		Str("rule", e.Rule).
		Time("at", e.At).
		Msg("audit")
	return nil
}
