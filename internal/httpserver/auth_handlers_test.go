package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"storefront-be/internal/models"
)

func TestRegisterHandler(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/auth/register", RegisterRequest{
		Username: "alice",
		Password: "password",
		Role:     "seller",
	})
	require.NoError(t, env.Auth.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	user := decode[models.User](t, rec)
	require.Equal(t, "alice", user.Username)
	require.Equal(t, "seller", user.Role)
	require.Empty(t, user.PasswordHash)
}

func TestRegisterHandlerConflict(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/auth/register", RegisterRequest{
		Username: "bob", Password: "password",
	})
	require.NoError(t, env.Auth.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, c = env.doJSONRequest(http.MethodPost, "/api/auth/register", RegisterRequest{
		Username: "bob", Password: "other",
	})
	require.NoError(t, env.Auth.Register(c))
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginHandler(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/auth/register", RegisterRequest{
		Username: "carol", Password: "password",
	})
	require.NoError(t, env.Auth.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, c = env.doJSONRequest(http.MethodPost, "/api/auth/login", LoginRequest{
		Username: "carol", Password: "password",
	})
	require.NoError(t, env.Auth.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[LoginResponse](t, rec)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, "carol", resp.User.Username)

	cookies := rec.Result().Cookies()
	names := map[string]bool{}
	for _, ck := range cookies {
		names[ck.Name] = true
		require.True(t, ck.HttpOnly)
	}
	require.True(t, names["accessToken"])
	require.True(t, names["refreshToken"])
}

func TestLoginHandlerBadCredentials(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/auth/login", LoginRequest{
		Username: "ghost", Password: "nope",
	})
	require.NoError(t, env.Auth.Login(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutHandler(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/auth/register", RegisterRequest{
		Username: "dave", Password: "password",
	})
	require.NoError(t, env.Auth.Register(c))

	rec, c = env.doJSONRequest(http.MethodPost, "/api/auth/login", LoginRequest{
		Username: "dave", Password: "password",
	})
	require.NoError(t, env.Auth.Login(c))
	login := decode[LoginResponse](t, rec)

	rec, c = env.doJSONRequest(http.MethodPost, "/api/auth/logout", nil)
	c.Request().AddCookie(&http.Cookie{Name: "refreshToken", Value: login.RefreshToken})
	require.NoError(t, env.Auth.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	for _, ck := range rec.Result().Cookies() {
		require.Empty(t, ck.Value)
	}
}

func TestLogoutHandlerMissingCookie(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/auth/logout", nil)
	require.NoError(t, env.Auth.Logout(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
