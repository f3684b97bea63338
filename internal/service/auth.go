package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"storefront-be/internal/hash"
	"storefront-be/internal/logging"
	"storefront-be/internal/models"
	"storefront-be/internal/repo"
	"storefront-be/internal/tokens"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
}

type LoginResult struct {
	User         models.User
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

func validRole(role string) bool {
	switch role {
	case "buyer", "seller":
		return true
	}
	return false
}

func (s *AuthService) Register(ctx context.Context, username, password, role string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required: %w", ErrValidation)
	}
	if role == "" {
		role = "buyer"
	}
	if !validRole(role) {
		return nil, fmt.Errorf("role must be buyer or seller: %w", ErrValidation)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash password", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     username,
		PasswordHash: pwHash,
		Role:         role,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExists) {
			return nil, ErrUserAlreadyExists
		}
		l.Error("register_error", "error", err)
		return nil, err
	}

	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := s.Repo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		l.Error("login_error", "error", err)
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	accessExp := time.Now().Add(tokens.AccessTTL)
	accessToken, err := tokens.NewAccessToken(s.JWTSecret, user.ID.String(), user.Role, accessExp)
	if err != nil {
		l.Error("login_error", "reason", "cannot sign access token", "error", err)
		return nil, err
	}

	refreshExp := time.Now().Add(tokens.RefreshTTL)
	refreshToken, err := tokens.NewRefreshToken(s.RefreshSecret, user.ID.String(), refreshExp)
	if err != nil {
		l.Error("login_error", "reason", "cannot sign refresh token", "error", err)
		return nil, err
	}

	if err := s.Repo.SaveRefreshToken(ctx, refreshToken, user.ID, refreshExp); err != nil {
		l.Error("login_error", "reason", "cannot persist refresh token", "error", err)
		return nil, err
	}

	return &LoginResult{
		User:         *user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return fmt.Errorf("refresh token is required: %w", ErrValidation)
	}
	return s.Repo.RevokeRefreshToken(ctx, refreshToken)
}
