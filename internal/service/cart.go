package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront-be/internal/models"
	"storefront-be/internal/repo"
)

type CartService struct {
	Repo *repo.GormRepo
}

func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("userId is required: %w", ErrValidation)
	}
	return s.Repo.GetCart(ctx, userID)
}

func (s *CartService) AddToCart(ctx context.Context, item *models.CartItem) error {
	if item.UserID == uuid.Nil {
		return fmt.Errorf("userId is required: %w", ErrValidation)
	}
	if item.ProductID == uuid.Nil {
		return fmt.Errorf("productId is required: %w", ErrValidation)
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	return s.Repo.AddToCart(ctx, item)
}

// SetQuantity applies the delete-on-zero policy: a quantity of zero or less
// removes the row instead of failing.
func (s *CartService) SetQuantity(ctx context.Context, cartItemID uuid.UUID, quantity int) (bool, *models.CartItem, error) {
	if cartItemID == uuid.Nil {
		return false, nil, fmt.Errorf("cartItemId is required: %w", ErrValidation)
	}

	removed, item, err := s.Repo.SetQuantity(ctx, cartItemID, quantity)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil, fmt.Errorf("cart item not found: %w", ErrNotFound)
	}
	return removed, item, err
}

func (s *CartService) RemoveFromCart(ctx context.Context, cartItemID uuid.UUID, userID *uuid.UUID) error {
	if cartItemID == uuid.Nil {
		return fmt.Errorf("cartItemId is required: %w", ErrValidation)
	}
	return s.Repo.RemoveFromCart(ctx, cartItemID, userID)
}

func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return fmt.Errorf("userId is required: %w", ErrValidation)
	}
	return s.Repo.ClearCart(ctx, userID)
}

// Reconcile replays a merged cart into the backend, one upsert per entry.
// It is best-effort: a failed entry does not stop the rest, and the
// collected failures come back as one joined error. There is no rollback;
// the store is the transaction boundary, one row at a time.
func (s *CartService) Reconcile(ctx context.Context, userID uuid.UUID, merged []models.MergedCartEntry) error {
	if userID == uuid.Nil {
		return fmt.Errorf("userId is required: %w", ErrValidation)
	}

	var errs []error
	for _, entry := range merged {
		item := models.CartItem{
			UserID:          userID,
			ProductID:       entry.ProductID,
			Quantity:        entry.Quantity,
			ProductSnapshot: entry.ProductSnapshot,
		}
		if err := s.Repo.SetQuantityByProduct(ctx, &item); err != nil {
			errs = append(errs, fmt.Errorf("replay product %s: %w", entry.ProductID, err))
		}
	}
	return errors.Join(errs...)
}
