package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront-be/internal/models"
)

func (r *GormRepo) GetCart(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AddToCart accumulates: an existing (user, product) row gets its quantity
// increased by item.Quantity, otherwise the row is inserted as given.
func (r *GormRepo) AddToCart(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).
			Update("quantity", gorm.Expr("quantity + ?", item.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).
				First(item).Error
		}
		return tx.Create(item).Error
	})
}

// SetQuantityByProduct overwrites the quantity of the (user, product) row,
// inserting it if absent. Reconciliation replay relies on this upsert.
func (r *GormRepo) SetQuantityByProduct(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).
			Update("quantity", item.Quantity)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).
				First(item).Error
		}
		return tx.Create(item).Error
	})
}

// SetQuantity updates a row's quantity by cart item id. A quantity of zero
// or less deletes the row and reports removal.
func (r *GormRepo) SetQuantity(ctx context.Context, cartItemID uuid.UUID, quantity int) (bool, *models.CartItem, error) {
	var item models.CartItem
	removed := false

	if err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", cartItemID).First(&item).Error; err != nil {
			return err
		}
		if quantity <= 0 {
			removed = true
			return tx.Delete(&item).Error
		}
		if err := tx.Model(&item).Update("quantity", quantity).Error; err != nil {
			return err
		}
		item.Quantity = quantity
		return nil
	}); err != nil {
		return false, nil, err
	}

	if removed {
		return true, nil, nil
	}
	return false, &item, nil
}

// RemoveFromCart deletes by id, additionally scoped to userID when non-nil
// so one user cannot delete another's row.
func (r *GormRepo) RemoveFromCart(ctx context.Context, cartItemID uuid.UUID, userID *uuid.UUID) error {
	q := r.DB.WithContext(ctx).Where("id = ?", cartItemID)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	return q.Delete(&models.CartItem{}).Error
}

func (r *GormRepo) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error
}
