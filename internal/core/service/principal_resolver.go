package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
	"github.com/rbac-admin/rbac-api/internal/core/ports"
)

type principalResolver struct {
	state   ports.DocumentState
	tokens  ports.TokenManager
	revoked ports.TokenRevoker
	log     zerolog.Logger
}

// NewPrincipalResolver returns a PrincipalResolver backed by the current
// document snapshot.
func NewPrincipalResolver(
	state ports.DocumentState,
	tokens ports.TokenManager,
	revoked ports.TokenRevoker,
	log zerolog.Logger,
) ports.PrincipalResolver {
	return &principalResolver{state: state, tokens: tokens, revoked: revoked, log: log}
}

// Resolve authenticates the token and the claimed user id. It never writes.
func (r *principalResolver) Resolve(ctx context.Context, token, claimedUserID string) (*domain.Principal, error) {
	if token == "" {
		return nil, domain.Unauthenticated("Access token required")
	}

	userID, idErr := strconv.ParseInt(strings.TrimSpace(claimedUserID), 10, 64)
	if idErr != nil {
		userID = 0
	}

	if err := r.tokens.Verify(token, userID); err != nil {
		return nil, err
	}

	if r.revoked != nil {
		revoked, err := r.revoked.IsRevoked(ctx, token)
		if err != nil {
			r.log.Warn().Err(err).Msg("revocation check failed, accepting token")
		} else if revoked {
			return nil, domain.Unauthenticated("Token has been revoked")
		}
	}

	if idErr != nil {
		return nil, domain.Unauthenticated("Invalid token or user not found")
	}

	doc := r.state.Snapshot()
	user, ok := doc.FindUser(userID)
	if !ok || !user.IsActive {
		return nil, domain.Unauthenticated("Invalid token or user not found")
	}

	p, err := BuildPrincipal(doc, user)
	if err != nil {
		r.log.Error().Int64("user_id", user.ID).Int64("role_id", user.RoleID).Msg("principal role cannot be resolved")
		return nil, err
	}
	return p, nil
}
