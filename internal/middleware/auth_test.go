package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"storefront-be/internal/tokens"
)

var testSecret = []byte("test-secret")

func callWith(t *testing.T, mw echo.MiddlewareFunc, decorate func(*http.Request)) (int, echo.Context) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if decorate != nil {
		decorate(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		return httpErr.Code, c
	}
	return rec.Code, c
}

func accessToken(t *testing.T, role string) (uuid.UUID, string) {
	t.Helper()
	userID := uuid.New()
	token, err := tokens.NewAccessToken(testSecret, userID.String(), role, time.Now().Add(tokens.AccessTTL))
	require.NoError(t, err)
	return userID, token
}

func TestRequireAuthMissingToken(t *testing.T) {
	mw := NewAuthMiddleware(testSecret)
	code, _ := callWith(t, mw.RequireAuth, nil)
	require.Equal(t, http.StatusUnauthorized, code)
}

func TestRequireAuthInvalidToken(t *testing.T) {
	mw := NewAuthMiddleware(testSecret)
	code, _ := callWith(t, mw.RequireAuth, func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer not-a-jwt")
	})
	require.Equal(t, http.StatusUnauthorized, code)
}

func TestRequireAuthWrongSecret(t *testing.T) {
	_, token := accessToken(t, "buyer")
	mw := NewAuthMiddleware([]byte("other-secret"))
	code, _ := callWith(t, mw.RequireAuth, func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	})
	require.Equal(t, http.StatusUnauthorized, code)
}

func TestRequireAuthBearerHeader(t *testing.T) {
	userID, token := accessToken(t, "buyer")
	mw := NewAuthMiddleware(testSecret)
	code, c := callWith(t, mw.RequireAuth, func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, userID.String(), c.Get("user_id"))
	require.Equal(t, "buyer", c.Get("role"))
}

func TestRequireAuthCookie(t *testing.T) {
	_, token := accessToken(t, "buyer")
	mw := NewAuthMiddleware(testSecret)
	code, _ := callWith(t, mw.RequireAuth, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
	})
	require.Equal(t, http.StatusOK, code)
}

func TestRequireSellerRejectsBuyer(t *testing.T) {
	_, token := accessToken(t, "buyer")
	mw := NewAuthMiddleware(testSecret)
	code, _ := callWith(t, mw.RequireSeller, func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	})
	require.Equal(t, http.StatusForbidden, code)
}

func TestRequireSellerAdmitsSellerAndAdmin(t *testing.T) {
	mw := NewAuthMiddleware(testSecret)
	for _, role := range []string{"seller", "admin"} {
		_, token := accessToken(t, role)
		code, _ := callWith(t, mw.RequireSeller, func(r *http.Request) {
			r.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		})
		require.Equal(t, http.StatusOK, code, "role %s", role)
	}
}
