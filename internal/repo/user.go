package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"storefront-be/internal/models"
)

var ErrUserAlreadyExists = errors.New("user already exists")

func (r *GormRepo) CreateUserIfNotExists(ctx context.Context, u *models.User) error {
	tx := r.DB.WithContext(ctx).Where("username = ?", u.Username).FirstOrCreate(u)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrUserAlreadyExists
	}
	return nil
}

func (r *GormRepo) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) SaveRefreshToken(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) error {
	return r.DB.WithContext(ctx).Create(&models.RefreshToken{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}).Error
}

func (r *GormRepo) RevokeRefreshToken(ctx context.Context, token string) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ?", token).
		Update("revoked", true).Error
}

func (r *GormRepo) GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("token = ?", token).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}
