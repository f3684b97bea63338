package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"storefront-be/internal/events"
	"storefront-be/internal/logging"
	"storefront-be/internal/service"
)

type AuthHTTP struct {
	Svc      *service.AuthService
	Producer *events.Producer
}

func createCookie(name, value, path string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHTTP) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.Publish(ctx, events.TopicUserEvents, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid body", err)
	}

	user, err := h.Svc.Register(ctx, req.Username, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("register_failed", "status", 400, "error", err)
			return errJSON(c, http.StatusBadRequest, "invalid registration", err)
		}
		if errors.Is(err, service.ErrUserAlreadyExists) {
			l.Warn("register_failed", "status", 409, "username", req.Username)
			return errJSON(c, http.StatusConflict, "user already exists", nil)
		}
		l.Error("register_failed", "status", 500, "error", err)
		return errJSON(c, http.StatusInternalServerError, "registration failed", err)
	}

	h.publish(c, user.ID.String(), map[string]any{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
		"role":     user.Role,
	})

	l.Info("user registered", "user_id", user.ID, "role", user.Role)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid body", err)
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			l.Warn("login_failed", "status", 401, "username", req.Username)
			return errJSON(c, http.StatusUnauthorized, "invalid username or password", nil)
		}
		l.Error("login_failed", "status", 500, "error", err)
		return errJSON(c, http.StatusInternalServerError, "login failed", err)
	}

	c.SetCookie(createCookie("accessToken", res.AccessToken, "/", res.AccessExp))
	c.SetCookie(createCookie("refreshToken", res.RefreshToken, "/", res.RefreshExp))

	h.publish(c, res.User.ID.String(), map[string]any{
		"type":     "user_logged_in",
		"userID":   res.User.ID,
		"username": res.User.Username,
	})

	return c.JSON(http.StatusOK, LoginResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		User:         res.User,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	refreshCookie, err := c.Cookie("refreshToken")
	if err != nil {
		return errJSON(c, http.StatusBadRequest, "missing refresh token", nil)
	}

	if err := h.Svc.Logout(ctx, refreshCookie.Value); err != nil {
		l.Error("logout_failed", "status", 500, "error", err)
		return errJSON(c, http.StatusInternalServerError, "logout failed", err)
	}

	expired := time.Now().Add(-1 * time.Hour)
	c.SetCookie(createCookie("accessToken", "", "/", expired))
	c.SetCookie(createCookie("refreshToken", "", "/", expired))

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "logged out",
	})
}
