package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
	"github.com/rbac-admin/rbac-api/internal/core/ports"
)

const defaultTokenTTL = 24 * time.Hour

// AuthService implements login, logout and token refresh.
type AuthService struct {
	state    ports.DocumentState
	tokens   ports.TokenManager
	revoker  ports.TokenRevoker
	tokenTTL time.Duration
	log      zerolog.Logger
}

func NewAuthService(
	state ports.DocumentState,
	tokens ports.TokenManager,
	revoker ports.TokenRevoker,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{state: state, tokens: tokens, revoker: revoker, tokenTTL: tokenTTL, log: log}
}

// Login returns a token and the principal for an active user whose password
// matches. Every failure is reported as the same invalid-credentials error.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.Principal, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	doc := s.state.Snapshot()
	user, ok := doc.FindUserByUsername(username)
	if !ok || !user.IsActive || !passwordMatches(user.Password, password) {
		s.log.Info().Str("username", username).Msg("login rejected")
		return "", nil, domain.ErrInvalidCredentials
	}

	principal, err := BuildPrincipal(doc, user)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, principal, nil
}

// Logout revokes the presented token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.revoker.Revoke(ctx, token, s.tokenTTL); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// Refresh swaps the presented token for a new one.
func (s *AuthService) Refresh(ctx context.Context, principal *domain.Principal, token string) (string, error) {
	fresh, err := s.tokens.Issue(principal.User)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	if err := s.revoker.Revoke(ctx, token, s.tokenTTL); err != nil {
		return "", fmt.Errorf("revoke token: %w", err)
	}
	return fresh, nil
}
