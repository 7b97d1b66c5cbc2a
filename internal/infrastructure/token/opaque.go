// Package token implements the bearer token schemes: the opaque
// "mock-jwt-token-" format kept for client compatibility and an HS256 JWT
// alternative.
package token

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
	"github.com/rbac-admin/rbac-api/internal/core/ports"
)

// OpaquePrefix starts every opaque token.
const OpaquePrefix = "mock-jwt-token-"

const refreshedMarker = "refreshed"

// Opaque issues unsigned tokens of the form mock-jwt-token-<userId>-<millis>.
// The token does not prove who the caller is; identity comes from the
// x-user-id header. With strict binding the embedded user id must match it.
type Opaque struct {
	strict bool
	now    func() time.Time
	last   atomic.Int64
}

var _ ports.TokenManager = (*Opaque)(nil)

// NewOpaque returns an opaque token manager.
func NewOpaque(strict bool) *Opaque {
	return &Opaque{strict: strict, now: time.Now}
}

// Issue returns a new token for user. Timestamps are strictly increasing so
// two tokens issued within the same millisecond never collide.
func (o *Opaque) Issue(user domain.User) (string, error) {
	return fmt.Sprintf("%s%d-%d", OpaquePrefix, user.ID, o.stamp()), nil
}

func (o *Opaque) stamp() int64 {
	for {
		now := o.now().UnixMilli()
		last := o.last.Load()
		if now <= last {
			now = last + 1
		}
		if o.last.CompareAndSwap(last, now) {
			return now
		}
	}
}

// Verify accepts mock-jwt-token-<digits>-<digits> and the legacy
// mock-jwt-token-refreshed-<digits> shape.
func (o *Opaque) Verify(token string, claimedUserID int64) error {
	rest, ok := strings.CutPrefix(token, OpaquePrefix)
	if !ok {
		return domain.Unauthenticated("Invalid token format")
	}
	owner, stamp, ok := strings.Cut(rest, "-")
	if !ok || !isDigits(stamp) {
		return domain.Unauthenticated("Invalid token format")
	}

	if owner == refreshedMarker {
		if o.strict {
			return domain.Unauthenticated("Token is not bound to a user")
		}
		return nil
	}
	if !isDigits(owner) {
		return domain.Unauthenticated("Invalid token format")
	}

	if o.strict {
		id, err := strconv.ParseInt(owner, 10, 64)
		if err != nil || id != claimedUserID {
			return domain.Unauthenticated("Token does not match user")
		}
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
