package ports

import (
	"context"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
)

// AuditRecorder accepts audit events without blocking the request path.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}

// AuditSink persists audit events; it is driven by the audit dispatcher.
type AuditSink interface {
	Write(ctx context.Context, event domain.AuditEvent) error
}
