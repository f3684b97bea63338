package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"storefront-be/internal/tokens"
)

func newAuthService(t *testing.T) *AuthService {
	return &AuthService{
		Repo:          initTestRepo(t),
		JWTSecret:     []byte("test-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "password", "seller")
	require.NoError(t, err)
	require.Equal(t, "seller", user.Role)
	require.NotEqual(t, "password", user.PasswordHash)

	res, err := svc.Login(ctx, "alice", "password")
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
	require.NotEmpty(t, res.RefreshToken)

	claims, err := tokens.ParseAccessClaims(res.AccessToken, svc.JWTSecret)
	require.NoError(t, err)
	require.Equal(t, user.ID.String(), claims.Subject)
	require.Equal(t, "seller", claims.Role)
}

func TestRegisterDefaultsToBuyer(t *testing.T) {
	svc := newAuthService(t)

	user, err := svc.Register(context.Background(), "bob", "password", "")
	require.NoError(t, err)
	require.Equal(t, "buyer", user.Role)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Register(context.Background(), "mallory", "password", "admin")
	require.ErrorIs(t, err, ErrValidation)
}

func TestRegisterDuplicate(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "carol", "password", "buyer")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "carol", "other", "buyer")
	require.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "dave", "password", "buyer")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "dave", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "password")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "erin", "password", "buyer")
	require.NoError(t, err)

	res, err := svc.Login(ctx, "erin", "password")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, res.RefreshToken))

	rt, err := svc.Repo.GetRefreshToken(ctx, res.RefreshToken)
	require.NoError(t, err)
	require.True(t, rt.Revoked)
}
