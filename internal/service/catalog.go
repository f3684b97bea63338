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

// bulkChunkSize bounds one insert statement; large uploads go in
// sequential chunks to stay under backend request-size limits.
const bulkChunkSize = 100

type CatalogService struct {
	Repo *repo.GormRepo
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product not found: %w", ErrNotFound)
	}
	return prod, err
}

func (s *CatalogService) GetProducts(ctx context.Context, category string, limit, offset int) (int64, []models.Product, error) {
	return s.Repo.GetProducts(ctx, category, limit, offset)
}

func validateProduct(p *models.Product) error {
	switch {
	case p.Name == "":
		return fmt.Errorf("name is required: %w", ErrValidation)
	case p.Category == "":
		return fmt.Errorf("category is required: %w", ErrValidation)
	case p.Price <= 0:
		return fmt.Errorf("price must be positive: %w", ErrValidation)
	case p.Stock < 0:
		return fmt.Errorf("stock cannot be negative: %w", ErrValidation)
	case p.SellerID == uuid.Nil:
		return fmt.Errorf("seller_id is required: %w", ErrValidation)
	}
	return nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, prod *models.Product) error {
	if err := validateProduct(prod); err != nil {
		return err
	}
	return s.Repo.CreateProduct(ctx, prod)
}

// BulkValidationError carries one message per failing upload row, so the
// client can fix the whole file at once.
type BulkValidationError struct {
	Messages []string
}

func (e *BulkValidationError) Error() string {
	return fmt.Sprintf("bulk validation failed for %d rows", len(e.Messages))
}

func (e *BulkValidationError) Unwrap() error { return ErrValidation }

func bulkValidate(prods []models.Product) error {
	var msgs []string
	for i := range prods {
		if err := validateProduct(&prods[i]); err != nil {
			msgs = append(msgs, fmt.Sprintf("row %d: %v", i+1, err))
		}
	}
	if len(msgs) > 0 {
		return &BulkValidationError{Messages: msgs}
	}
	return nil
}

// ChunkProducts splits rows into insert batches of at most size rows,
// preserving order.
func ChunkProducts(prods []models.Product, size int) [][]models.Product {
	if size < 1 {
		size = bulkChunkSize
	}
	var chunks [][]models.Product
	for len(prods) > size {
		chunks = append(chunks, prods[:size])
		prods = prods[size:]
	}
	if len(prods) > 0 {
		chunks = append(chunks, prods)
	}
	return chunks
}

// BulkUpload validates all rows, stamps the seller, and inserts the rows in
// sequential chunks. Validation failures reject the whole upload; an insert
// failure stops at the failing chunk.
func (s *CatalogService) BulkUpload(ctx context.Context, sellerID uuid.UUID, prods []models.Product) ([]models.Product, error) {
	if sellerID == uuid.Nil {
		return nil, fmt.Errorf("sellerId is required: %w", ErrValidation)
	}
	if len(prods) == 0 {
		return nil, fmt.Errorf("products are required: %w", ErrValidation)
	}

	for i := range prods {
		prods[i].SellerID = sellerID
	}
	if err := bulkValidate(prods); err != nil {
		return nil, err
	}

	inserted := make([]models.Product, 0, len(prods))
	for _, chunk := range ChunkProducts(prods, bulkChunkSize) {
		if err := s.Repo.CreateProducts(ctx, chunk); err != nil {
			return inserted, fmt.Errorf("bulk insert: %w", err)
		}
		inserted = append(inserted, chunk...)
	}
	return inserted, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	err := s.Repo.DeleteProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("product not found: %w", ErrNotFound)
	}
	return err
}
