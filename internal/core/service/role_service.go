package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
	"github.com/rbac-admin/rbac-api/internal/core/hierarchy"
	"github.com/rbac-admin/rbac-api/internal/core/ports"
	"github.com/rbac-admin/rbac-api/internal/core/rules"
)

const targetRole = "role"

type roleService struct {
	state ports.DocumentState
	rules *rules.Engine
	audit ports.AuditRecorder
	log   zerolog.Logger
}

// NewRoleService returns a RoleService implementation.
func NewRoleService(
	state ports.DocumentState,
	engine *rules.Engine,
	recorder ports.AuditRecorder,
	log zerolog.Logger,
) ports.RoleService {
	return &roleService{
		state: state,
		rules: engine,
		audit: recorderOrNop(recorder),
		log:   log,
	}
}

// List returns the roles the caller can reach: all of them for super admins,
// otherwise those at the caller's priority or weaker.
func (s *roleService) List(_ context.Context, actor *domain.Principal) ([]ports.RoleView, error) {
	doc := s.state.Snapshot()
	out := make([]ports.RoleView, 0, len(doc.Roles))
	for _, r := range doc.Roles {
		if !hierarchy.CanAccessRole(actor, r) {
			continue
		}
		out = append(out, ProjectRole(doc, r))
	}
	return out, nil
}

// Get returns one role with its counts. Roles above the caller are denied
// the same way List hides them.
func (s *roleService) Get(_ context.Context, actor *domain.Principal, id int64) (*ports.RoleView, error) {
	doc := s.state.Snapshot()
	r, ok := doc.FindRole(id)
	if !ok {
		return nil, domain.RoleNotFound()
	}
	if !hierarchy.CanAccessRole(actor, r) {
		return nil, domain.Deny(domain.ErrForbidden, domain.RuleHierarchy,
			"You can only view roles within your role hierarchy")
	}
	view := ProjectRole(doc, r)
	return &view, nil
}

func (s *roleService) Create(ctx context.Context, actor *domain.Principal, in ports.CreateRoleInput) (*ports.RoleView, error) {
	var view ports.RoleView
	err := s.state.Update(ctx, func(doc *domain.Document) error {
		created, err := s.rules.CreateRole(doc, actor, in)
		if err != nil {
			return err
		}
		view = ProjectRole(doc, created)
		return nil
	})
	audit(s.audit, ActionCreateRole, targetRole, actor, view.Role.ID, err)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("actor_id", actor.ID()).
		Int64("role_id", view.Role.ID).
		Int("priority", int(view.Role.Priority)).
		Msg("role created")
	return &view, nil
}

func (s *roleService) Update(ctx context.Context, actor *domain.Principal, id int64, in ports.UpdateRoleInput) (*ports.RoleView, error) {
	var view ports.RoleView
	err := s.state.Update(ctx, func(doc *domain.Document) error {
		updated, err := s.rules.UpdateRole(doc, actor, id, in)
		if err != nil {
			return err
		}
		view = ProjectRole(doc, updated)
		return nil
	})
	audit(s.audit, ActionUpdateRole, targetRole, actor, id, err)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("actor_id", actor.ID()).Int64("role_id", id).Msg("role updated")
	return &view, nil
}

func (s *roleService) Delete(ctx context.Context, actor *domain.Principal, id int64) error {
	err := s.state.Update(ctx, func(doc *domain.Document) error {
		_, err := s.rules.DeleteRole(doc, actor, id)
		return err
	})
	audit(s.audit, ActionDeleteRole, targetRole, actor, id, err)
	if err != nil {
		return err
	}

	s.log.Info().Int64("actor_id", actor.ID()).Int64("role_id", id).Msg("role deleted")
	return nil
}

// Permissions returns the global permission list.
func (s *roleService) Permissions(context.Context) []domain.Permission {
	perms := s.state.Snapshot().Permissions
	return append([]domain.Permission(nil), perms...)
}
