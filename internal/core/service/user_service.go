package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rbac-admin/rbac-api/internal/core/authz"
	"github.com/rbac-admin/rbac-api/internal/core/domain"
	"github.com/rbac-admin/rbac-api/internal/core/ports"
	"github.com/rbac-admin/rbac-api/internal/core/rules"
)

const targetUser = "user"

type userService struct {
	state ports.DocumentState
	rules *rules.Engine
	audit ports.AuditRecorder
	log   zerolog.Logger
}

// NewUserService returns a UserService implementation.
func NewUserService(
	state ports.DocumentState,
	engine *rules.Engine,
	recorder ports.AuditRecorder,
	log zerolog.Logger,
) ports.UserService {
	return &userService{
		state: state,
		rules: engine,
		audit: recorderOrNop(recorder),
		log:   log,
	}
}

// List returns every user to super admins and only the users the caller
// created to everybody else.
func (s *userService) List(_ context.Context, actor *domain.Principal) ([]ports.UserView, error) {
	doc := s.state.Snapshot()
	out := make([]ports.UserView, 0, len(doc.Users))
	for _, u := range doc.Users {
		if !actor.IsSuperAdmin() && u.CreatedByID() != actor.ID() {
			continue
		}
		out = append(out, ProjectUser(doc, u))
	}
	return out, nil
}

func (s *userService) Get(_ context.Context, actor *domain.Principal, id int64) (*ports.UserView, error) {
	doc := s.state.Snapshot()
	if err := authz.CheckUserAccess(actor, doc, id); err != nil {
		return nil, err
	}
	u, _ := doc.FindUser(id)
	view := ProjectUser(doc, u)
	return &view, nil
}

func (s *userService) Create(ctx context.Context, actor *domain.Principal, in ports.CreateUserInput) (*ports.UserView, error) {
	var view ports.UserView
	err := s.state.Update(ctx, func(doc *domain.Document) error {
		created, err := s.rules.CreateUser(doc, actor, in)
		if err != nil {
			return err
		}
		view = ProjectUser(doc, created)
		return nil
	})
	audit(s.audit, ActionCreateUser, targetUser, actor, view.User.ID, err)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("actor_id", actor.ID()).
		Int64("user_id", view.User.ID).
		Int64("role_id", view.User.RoleID).
		Msg("user created")
	return &view, nil
}

// Update re-checks the hierarchy guard against the locked document so a
// concurrent role change cannot slip past a stale gate decision.
func (s *userService) Update(ctx context.Context, actor *domain.Principal, id int64, in ports.UpdateUserInput) (*ports.UserView, error) {
	var view ports.UserView
	err := s.state.Update(ctx, func(doc *domain.Document) error {
		if err := authz.CheckUserAccess(actor, doc, id); err != nil {
			return err
		}
		updated, err := s.rules.UpdateUser(doc, actor, id, in)
		if err != nil {
			return err
		}
		view = ProjectUser(doc, updated)
		return nil
	})
	audit(s.audit, ActionUpdateUser, targetUser, actor, id, err)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("actor_id", actor.ID()).Int64("user_id", id).Msg("user updated")
	return &view, nil
}

func (s *userService) Delete(ctx context.Context, actor *domain.Principal, id int64) error {
	err := s.state.Update(ctx, func(doc *domain.Document) error {
		_, err := s.rules.DeleteUser(doc, actor, id)
		return err
	})
	audit(s.audit, ActionDeleteUser, targetUser, actor, id, err)
	if err != nil {
		return err
	}

	s.log.Info().Int64("actor_id", actor.ID()).Int64("user_id", id).Msg("user deleted")
	return nil
}

// UsernameAvailable reports whether no user holds username.
func (s *userService) UsernameAvailable(_ context.Context, username string) bool {
	_, taken := s.state.Snapshot().FindUserByUsername(username)
	return !taken
}
