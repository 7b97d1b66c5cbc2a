package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
	"github.com/rbac-admin/rbac-api/internal/core/ports"
)

// Audited actions.
const (
	ActionCreateUser = "user.create"
	ActionUpdateUser = "user.update"
	ActionDeleteUser = "user.delete"
	ActionCreateRole = "role.create"
	ActionUpdateRole = "role.update"
	ActionDeleteRole = "role.delete"
)

type nopRecorder struct{}

func (nopRecorder) Record(domain.AuditEvent) {}

func recorderOrNop(r ports.AuditRecorder) ports.AuditRecorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}

// audit records the outcome of a mutation. Infrastructure failures are not
// decisions and are left to the error log.
func audit(rec ports.AuditRecorder, action, targetType string, actor *domain.Principal, targetID int64, err error) {
	event := domain.AuditEvent{
		ID:         uuid.NewString(),
		Action:     action,
		ActorID:    actor.ID(),
		TargetType: targetType,
		TargetID:   targetID,
		Outcome:    domain.OutcomeAllowed,
		At:         time.Now().UTC(),
	}
	if err != nil {
		var re *domain.RuleError
		if !errors.As(err, &re) || errors.Is(err, domain.ErrInconsistent) {
			return
		}
		event.Outcome = domain.OutcomeDenied
		event.Rule = re.Rule
	}
	rec.Record(event)
}
