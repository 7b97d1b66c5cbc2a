package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRevocations(t *testing.T) (*Revocations, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRevocations(client), mr
}

func TestRevocations_RevokeAndCheck(t *testing.T) {
	r, mr := newTestRevocations(t)
	ctx := context.Background()

	revoked, err := r.IsRevoked(ctx, "mock-jwt-token-1-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "mock-jwt-token-1-1", time.Hour))

	revoked, err = r.IsRevoked(ctx, "mock-jwt-token-1-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], "revoked:"))
	assert.NotContains(t, keys[0], "mock-jwt-token", "raw token must not be stored")
}

func TestRevocations_Expire(t *testing.T) {
	r, mr := newTestRevocations(t)
	ctx := context.Background()

	require.NoError(t, r.Revoke(ctx, "tok", time.Minute))
	mr.FastForward(2 * time.Minute)

	revoked, err := r.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevocations_BackendDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	r := NewRevocations(client)
	mr.Close()

	_, err = r.IsRevoked(context.Background(), "tok")
	assert.Error(t, err)
}

func TestConnect_PingsServer(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	require.NoError(t, err)
	_ = client.Close()

	_, err = Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond})
	assert.Error(t, err)
}
