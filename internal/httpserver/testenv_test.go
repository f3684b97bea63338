package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"storefront-be/internal/middleware"
	"storefront-be/internal/models"
	"storefront-be/internal/repo"
	"storefront-be/internal/service"
)

// fakeGuestStore is an in-memory GuestStore for handler tests.
type fakeGuestStore struct {
	carts map[string][]models.LocalCartEntry
}

func newFakeGuestStore() *fakeGuestStore {
	return &fakeGuestStore{carts: make(map[string][]models.LocalCartEntry)}
}

func (s *fakeGuestStore) Get(ctx context.Context, guestID string) ([]models.LocalCartEntry, error) {
	return s.carts[guestID], nil
}

func (s *fakeGuestStore) Save(ctx context.Context, guestID string, entries []models.LocalCartEntry) error {
	s.carts[guestID] = entries
	return nil
}

func (s *fakeGuestStore) Delete(ctx context.Context, guestID string) error {
	delete(s.carts, guestID)
	return nil
}

type testEnv struct {
	T      *testing.T
	E      *echo.Echo
	DB     *gorm.DB
	Guest  *fakeGuestStore
	Cart   *CartHTTP
	GCart  *GuestCartHTTP
	Prod   *ProductHTTP
	Auth   *AuthHTTP
	AuthMW *middleware.AuthMiddleware
}

func newTestEnv(t *testing.T) *testEnv {
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

	gormRepo := repo.New(db)
	guest := newFakeGuestStore()

	cartSvc := &service.CartService{Repo: gormRepo}
	catalogSvc := &service.CatalogService{Repo: gormRepo}
	authSvc := &service.AuthService{
		Repo:          gormRepo,
		JWTSecret:     []byte("test-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}

	return &testEnv{
		T:      t,
		E:      echo.New(),
		DB:     db,
		Guest:  guest,
		Cart:   &CartHTTP{Svc: cartSvc, Guest: guest},
		GCart:  &GuestCartHTTP{Guest: guest},
		Prod:   &ProductHTTP{Svc: catalogSvc},
		Auth:   &AuthHTTP{Svc: authSvc},
		AuthMW: middleware.NewAuthMiddleware([]byte("test-secret")),
	}
}

// asSeller puts the context values the auth middleware would set for a
// seller acting as sellerID.
func asSeller(c echo.Context, sellerID uuid.UUID) {
	c.Set("user_id", sellerID.String())
	c.Set("role", "seller")
}

func asAdmin(c echo.Context) {
	c.Set("user_id", uuid.NewString())
	c.Set("role", "admin")
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}
