package httpserver

import (
	"github.com/google/uuid"

	"storefront-be/internal/models"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type AddToCartRequest struct {
	UserID      uuid.UUID              `json:"userId"`
	ProductID   uuid.UUID              `json:"productId"`
	Quantity    int                    `json:"quantity"`
	ProductData models.ProductSnapshot `json:"productData"`
}

type UpdateQuantityRequest struct {
	CartItemID uuid.UUID `json:"cartItemId"`
	Quantity   *int      `json:"quantity"`
}

type ClearCartRequest struct {
	UserID uuid.UUID `json:"userId"`
}

type MergeCartRequest struct {
	UserID  uuid.UUID `json:"userId"`
	GuestID string    `json:"guestId"`
}

type CartResponse struct {
	CartItems []models.CartItem `json:"cartItems"`
}

type CartMutationResponse struct {
	Success  bool             `json:"success"`
	CartItem *models.CartItem `json:"cartItem,omitempty"`
	Message  string           `json:"message"`
}

type MergeCartResponse struct {
	Success   bool                     `json:"success"`
	CartItems []models.MergedCartEntry `json:"cartItems"`
	Count     int                      `json:"count"`
	Total     float64                  `json:"total"`
	Message   string                   `json:"message"`
}

type GuestCartRequest struct {
	GuestID     string                 `json:"guestId"`
	ProductID   uuid.UUID              `json:"productId"`
	Quantity    int                    `json:"quantity"`
	ProductData models.ProductSnapshot `json:"productData"`
}

type GuestCartResponse struct {
	CartItems []models.MergedCartEntry `json:"cartItems"`
	Count     int                      `json:"count"`
	Total     float64                  `json:"total"`
}

type CreateProductRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	ImageURL    string    `json:"image_url"`
	SellerID    uuid.UUID `json:"seller_id"`
}

type ProductListResponse struct {
	Success  bool             `json:"success"`
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
	Category string           `json:"category"`
}

type BulkUploadRequest struct {
	Products []CreateProductRequest `json:"products"`
	SellerID uuid.UUID              `json:"sellerId"`
}

type BulkUploadResponse struct {
	Message  string           `json:"message"`
	Count    int              `json:"count"`
	Products []models.Product `json:"products"`
	SellerID uuid.UUID        `json:"seller_id"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         models.User `json:"user"`
}
