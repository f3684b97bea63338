package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"storefront-be/internal/tokens"
)

type AuthMiddleware struct {
	JWTSecret []byte
}

func NewAuthMiddleware(secret []byte) *AuthMiddleware {
	return &AuthMiddleware{JWTSecret: secret}
}

func tokenFromRequest(c echo.Context) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		if after, ok := strings.CutPrefix(h, "Bearer "); ok {
			return after
		}
	}
	if ck, err := c.Cookie("accessToken"); err == nil {
		return ck.Value
	}
	return ""
}

func (m *AuthMiddleware) requireWithValidator(next echo.HandlerFunc, validate func(*tokens.AccessClaims) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := tokenFromRequest(c)
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.ParseAccessClaims(raw, m.JWTSecret)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}
		if validate != nil {
			if err := validate(claims); err != nil {
				return err
			}
		}

		c.Set("user_id", claims.Subject)
		c.Set("role", claims.Role)
		return next(c)
	}
}

func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireWithValidator(next, nil)
}

// RequireSeller admits sellers and admins only.
func (m *AuthMiddleware) RequireSeller(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireWithValidator(next, func(claims *tokens.AccessClaims) error {
		if claims.Role != "seller" && claims.Role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "seller access required")
		}
		return nil
	})
}
