package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront-be/internal/models"
)

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) GetProducts(ctx context.Context, category string, limit, offset int) (int64, []models.Product, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{})
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Product
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Create(prod).Error
}

// CreateProducts inserts one pre-chunked batch in a single statement.
func (r *GormRepo) CreateProducts(ctx context.Context, prods []models.Product) error {
	if len(prods) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Create(&prods).Error
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
