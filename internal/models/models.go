package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID          uuid.UUID `gorm:"primaryKey"      json:"id"`
	Name        string    `gorm:"not null"        json:"name"`
	Description string    `gorm:"not null"        json:"description"`
	Category    string    `gorm:"index;not null"  json:"category"`
	Price       float64   `gorm:"not null"        json:"price"`
	Stock       int       `gorm:"default:0"       json:"stock"`
	ImageURL    string    `json:"image_url"`
	SellerID    uuid.UUID `gorm:"index"           json:"seller_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (Product) TableName() string {
	return "products"
}

// ProductSnapshot is the product state captured on a cart row at add time.
// Later price or name changes do not propagate to existing rows.
type ProductSnapshot struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image_url"`
	Category    string    `json:"category"`
	SellerID    uuid.UUID `json:"seller_id"`
}

type CartItem struct {
	ID              uuid.UUID `gorm:"primaryKey"                             json:"id"`
	UserID          uuid.UUID `gorm:"uniqueIndex:idx_user_product;not null"  json:"user_id"`
	ProductID       uuid.UUID `gorm:"uniqueIndex:idx_user_product;not null"  json:"product_id"`
	Quantity        int       `gorm:"not null;default:1"                     json:"quantity"`
	ProductSnapshot `gorm:"embedded" json:"product"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (CartItem) TableName() string {
	return "cart_items"
}

// LocalCartEntry is a cart line accumulated before sign-in. It has no
// backend identity and lives only in the guest session store.
type LocalCartEntry struct {
	ProductID       uuid.UUID `json:"product_id"`
	Quantity        int       `json:"quantity"`
	ProductSnapshot `json:"product"`
}

// MergedCartEntry is a LocalCartEntry annotated with the backend row id
// once reconciliation has matched it to a persisted cart row.
type MergedCartEntry struct {
	LocalCartEntry
	BackendID uuid.UUID `json:"backend_id,omitempty"`
}

type User struct {
	ID           uuid.UUID `gorm:"primaryKey"       json:"id"`
	Username     string    `gorm:"unique;not null"  json:"username"`
	PasswordHash string    `gorm:"not null"         json:"-"`
	Role         string    `gorm:"not null"         json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"       json:"id"`
	Token     string    `gorm:"unique;not null"  json:"token"`
	UserID    uuid.UUID `gorm:"index;not null"   json:"user_id"`
	ExpiresAt time.Time `gorm:"not null"         json:"expires_at"`
	Revoked   bool      `gorm:"default:false"    json:"revoked"`
}
