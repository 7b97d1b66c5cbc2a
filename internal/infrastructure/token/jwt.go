package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
	"github.com/rbac-admin/rbac-api/internal/core/ports"
)

const defaultTTL = 24 * time.Hour

// JWT issues HS256 tokens whose subject is the user id. The subject must
// match the x-user-id header on every request.
type JWT struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

var _ ports.TokenManager = (*JWT)(nil)

// NewJWT returns a signed token manager. An empty secret is rejected.
func NewJWT(secret string, ttl time.Duration) (*JWT, error) {
	if secret == "" {
		return nil, errors.New("token: jwt scheme requires a secret")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &JWT{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (j *JWT) Issue(user domain.User) (string, error) {
	now := j.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (j *JWT) Verify(token string, claimedUserID int64) error {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return j.secret, nil
	}, jwt.WithTimeFunc(j.now))
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.Unauthenticated("Token has expired")
	case err != nil || !tkn.Valid:
		return domain.Unauthenticated("Invalid token")
	}

	if claims.Subject != strconv.FormatInt(claimedUserID, 10) {
		return domain.Unauthenticated("Token does not match user")
	}
	return nil
}
