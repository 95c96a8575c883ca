package auth_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/stockwise/stockwise/internal/auth"
	"github.com/stockwise/stockwise/internal/shared"
	"github.com/stockwise/stockwise/internal/users"
)

type stubUsers struct {
	user      *users.User
	lastLogin *time.Time
}

func (s *stubUsers) FindByLoginID(_ context.Context, loginID string) (users.User, error) {
	if s.user == nil || s.user.LoginID != loginID {
		return users.User{}, shared.ErrNotFound
	}
	return *s.user, nil
}

func (s *stubUsers) TouchLastLogin(_ context.Context, _ int64, at time.Time) error {
	s.lastLogin = &at
	return nil
}

func newTestService(t *testing.T, stub *stubUsers) (*auth.Service, *auth.TokenStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	tokens := auth.NewTokenStore(client, 15*time.Minute, 24*time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return auth.NewService(logger, stub, tokens), tokens
}

func testUser(t *testing.T) *users.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("opensesame99"), bcrypt.DefaultCost)
	require.NoError(t, err)
	return &users.User{
		ID:           12,
		LoginID:      "wstaff01",
		Name:         "Sam Porter",
		Email:        "sam@warehouse.local",
		PasswordHash: string(hash),
		Role:         shared.RoleWarehouseStaff,
		IsActive:     true,
	}
}

func TestLoginIssuesResolvableTokens(t *testing.T) {
	stub := &stubUsers{user: testUser(t)}
	service, tokens := newTestService(t, stub)

	session, err := service.Login(context.Background(), "wstaff01", "opensesame99")
	require.NoError(t, err)
	require.NotEmpty(t, session.AccessToken)
	require.NotEmpty(t, session.RefreshToken)
	require.NotNil(t, stub.lastLogin)

	actor, err := tokens.ResolveAccess(context.Background(), session.AccessToken)
	require.NoError(t, err)
	require.Equal(t, int64(12), actor.UserID)
	require.Equal(t, shared.RoleWarehouseStaff, actor.Role)
}

func TestLoginRejectsBadPasswordAndInactiveAccount(t *testing.T) {
	stub := &stubUsers{user: testUser(t)}
	service, _ := newTestService(t, stub)

	_, err := service.Login(context.Background(), "wstaff01", "wrongpassword")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = service.Login(context.Background(), "nosuchuser1", "opensesame99")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	stub.user.IsActive = false
	_, err = service.Login(context.Background(), "wstaff01", "opensesame99")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestRefreshRotatesAndConsumesOldToken(t *testing.T) {
	stub := &stubUsers{user: testUser(t)}
	service, tokens := newTestService(t, stub)

	session, err := service.Login(context.Background(), "wstaff01", "opensesame99")
	require.NoError(t, err)

	pair, err := service.Refresh(context.Background(), session.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, session.RefreshToken, pair.RefreshToken)

	actor, err := tokens.ResolveAccess(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, int64(12), actor.UserID)

	// Replaying the consumed token must fail.
	_, err = service.Refresh(context.Background(), session.RefreshToken)
	require.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestLogoutRevokesAccess(t *testing.T) {
	stub := &stubUsers{user: testUser(t)}
	service, tokens := newTestService(t, stub)

	session, err := service.Login(context.Background(), "wstaff01", "opensesame99")
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background(), session.AccessToken, session.RefreshToken))

	_, err = tokens.ResolveAccess(context.Background(), session.AccessToken)
	require.ErrorIs(t, err, shared.ErrUnauthorized)
	_, err = service.Refresh(context.Background(), session.RefreshToken)
	require.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestLogoutAllRevokesEverySession(t *testing.T) {
	stub := &stubUsers{user: testUser(t)}
	service, tokens := newTestService(t, stub)

	first, err := service.Login(context.Background(), "wstaff01", "opensesame99")
	require.NoError(t, err)
	second, err := service.Login(context.Background(), "wstaff01", "opensesame99")
	require.NoError(t, err)

	actor := &shared.Actor{UserID: 12, Role: shared.RoleWarehouseStaff}
	require.NoError(t, service.LogoutAll(context.Background(), actor))

	_, err = tokens.ResolveAccess(context.Background(), first.AccessToken)
	require.ErrorIs(t, err, shared.ErrUnauthorized)
	_, err = tokens.ResolveAccess(context.Background(), second.AccessToken)
	require.ErrorIs(t, err, shared.ErrUnauthorized)
}
