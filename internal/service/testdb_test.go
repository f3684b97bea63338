package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"storefront-be/internal/models"
	"storefront-be/internal/repo"
)

func initTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Product{},
		&models.User{},
		&models.RefreshToken{},
		&models.CartItem{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return repo.New(db)
}
