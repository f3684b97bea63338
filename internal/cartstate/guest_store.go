package cartstate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"storefront-be/internal/models"
)

const guestCartTTL = 30 * 24 * time.Hour

// GuestCartStore keeps pre-sign-in carts in Redis, one JSON blob per guest
// session id. Entries expire with the guest session.
type GuestCartStore struct {
	Client *redis.Client
}

func NewGuestCartStore(client *redis.Client) *GuestCartStore {
	return &GuestCartStore{Client: client}
}

func guestKey(guestID string) string {
	return "guest_cart:" + guestID
}

func (s *GuestCartStore) Get(ctx context.Context, guestID string) ([]models.LocalCartEntry, error) {
	val, err := s.Client.Get(ctx, guestKey(guestID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("guest cart get: %w", err)
	}

	var entries []models.LocalCartEntry
	if err := json.Unmarshal([]byte(val), &entries); err != nil {
		return nil, fmt.Errorf("guest cart decode: %w", err)
	}
	return entries, nil
}

func (s *GuestCartStore) Save(ctx context.Context, guestID string, entries []models.LocalCartEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("guest cart encode: %w", err)
	}
	if err := s.Client.Set(ctx, guestKey(guestID), data, guestCartTTL).Err(); err != nil {
		return fmt.Errorf("guest cart save: %w", err)
	}
	return nil
}

func (s *GuestCartStore) Delete(ctx context.Context, guestID string) error {
	return s.Client.Del(ctx, guestKey(guestID)).Err()
}
