package auth

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
	"github.com/yukikurage/project-task-api/internal/repository"
	"github.com/yukikurage/project-task-api/internal/testutil"
)

func newTestManager() *JWTManager {
	return NewJWTManager(JWTConfig{SecretKey: "test-secret", TTL: time.Hour, Issuer: "project-task-api"})
}

func TestJWTManager_RoundTrip(t *testing.T) {
	m := newTestManager()

	token, issued, err := m.Generate(42, "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, issued.ID)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestJWTManager_UniqueTokenIDs(t *testing.T) {
	m := newTestManager()

	_, first, err := m.Generate(1, "a@x.com")
	require.NoError(t, err)
	_, second, err := m.Generate(1, "a@x.com")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestJWTManager_Expired(t *testing.T) {
	m := newTestManager()
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := m.Generate(1, "a@x.com")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTManager_Invalid(t *testing.T) {
	m := newTestManager()
	other := NewJWTManager(JWTConfig{SecretKey: "other-secret", TTL: time.Hour, Issuer: "project-task-api"})

	token, _, err := other.Generate(1, "a@x.com")
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 1})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Validate(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMemoryRevocationList(t *testing.T) {
	ctx := context.Background()
	list := NewMemoryRevocationList()
	now := time.Now()
	list.now = func() time.Time { return now }

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Minute))
	require.NoError(t, list.Revoke(ctx, "", time.Minute))

	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = list.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked, "revocation lapses with the token")
}

func TestRedisRevocationList(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() {
		client.Close()
	})
	require.NoError(t, client.Ping(ctx).Err())

	list := NewRedisRevocationList(client)
	jti := "test-" + time.Now().Format(time.RFC3339Nano)

	revoked, err := list.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, list.Revoke(ctx, jti, time.Minute))
	revoked, err = list.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func newTestProvider(t *testing.T) (*Provider, *JWTManager) {
	t.Helper()

	db := testutil.NewDB(t)
	testutil.CreateUser(t, db, "Alice", "alice@example.com", "secret1")

	m := newTestManager()
	return NewProvider(repository.NewUserRepository(db), m, NewMemoryRevocationList()), m
}

func TestProvider_Attempt(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()

	token, user, err := p.Attempt(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "Alice", user.Name)

	_, _, err = p.Attempt(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = p.Attempt(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestProvider_ResolveAndInvalidate(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()

	token, _, err := p.Attempt(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)

	user, claims, err := p.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)

	require.NoError(t, p.Invalidate(ctx, claims))

	_, _, err = p.Resolve(ctx, token)
	assert.ErrorIs(t, err, apierrors.ErrTokenInvalid)
}

func TestProvider_ResolveFailures(t *testing.T) {
	p, m := newTestProvider(t)
	ctx := context.Background()

	_, _, err := p.Resolve(ctx, "garbage")
	assert.ErrorIs(t, err, apierrors.ErrTokenInvalid)

	orphan, _, err := m.Generate(999, "ghost@example.com")
	require.NoError(t, err)
	_, _, err = p.Resolve(ctx, orphan)
	assert.ErrorIs(t, err, apierrors.ErrTokenInvalid)

	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := m.Generate(1, "alice@example.com")
	require.NoError(t, err)
	m.now = time.Now

	_, _, err = p.Resolve(ctx, expired)
	assert.ErrorIs(t, err, apierrors.ErrTokenExpired)
}
