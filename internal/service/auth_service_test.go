package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kam-ticket/helpdesk-service/internal/config"
	apperrors "github.com/kam-ticket/helpdesk-service/pkg/util"
)

type fakeRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newFakeRevoker() *fakeRevoker {
	return &fakeRevoker{revoked: map[string]time.Time{}}
}

func (f *fakeRevoker) Revoke(_ context.Context, tokenID string, until time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[tokenID] = until
	return nil
}

func (f *fakeRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.revoked[tokenID]
	return ok, nil
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo, *fakeRevoker) {
	t.Helper()
	users := newFakeUserRepo()
	revoker := newFakeRevoker()
	svc := NewAuthService(config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 30,
		BcryptCost:            4,
	}, AuthDependencies{UserRepo: users, Revoker: revoker})
	return svc, users, revoker
}

func TestSignupAndLogin(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "Robin", "robin@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "user", user.Role)
	assert.NotEqual(t, "s3cret", user.PasswordHash)

	result, err := svc.Login(ctx, "robin@example.com", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, user.ID, result.User.ID)
	assert.Equal(t, 30*time.Minute, result.ExpiresAt.Sub(result.IssuedAt))
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Robin", "robin@example.com", "s3cret")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "Other", "robin@example.com", "different")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CONFLICT", domainErr.Code)
}

func TestSignup_MissingFields(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Signup(context.Background(), "", "robin@example.com", "")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Robin", "robin@example.com", "s3cret")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "robin@example.com", "wrong")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "nobody@example.com", "s3cret")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestLogout_RevokesToken(t *testing.T) {
	svc, _, revoker := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Robin", "robin@example.com", "s3cret")
	require.NoError(t, err)
	result, err := svc.Login(ctx, "robin@example.com", "s3cret")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, result.Token))

	claims, err := svc.TokenManager().ParseToken(result.Token)
	require.NoError(t, err)
	revoked, err := revoker.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestLogout_GarbageTokenIsNoop(t *testing.T) {
	svc, _, revoker := newAuthFixture(t)

	require.NoError(t, svc.Logout(context.Background(), "not-a-jwt"))
	assert.Empty(t, revoker.revoked)
}
