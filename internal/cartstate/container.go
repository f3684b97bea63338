package cartstate

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"storefront-be/internal/models"
)

// Snapshot is the observable cart state: entries plus the derived count
// (sum of quantities) and total (sum of quantity times price).
type Snapshot struct {
	Items []models.MergedCartEntry `json:"items"`
	Count int                      `json:"count"`
	Total float64                  `json:"total"`
}

// ReconcileFunc persists a merged cart for a user; see service.CartService.
type ReconcileFunc func(ctx context.Context, userID uuid.UUID, merged []models.MergedCartEntry) error

// Container is the single owner of one session's cart state. All mutations
// go through its methods, derived values are refreshed synchronously, and
// subscribers are notified after every change.
type Container struct {
	mu      sync.Mutex
	entries []models.MergedCartEntry
	subs    []func(Snapshot)
}

func NewContainer(local []models.LocalCartEntry) *Container {
	c := &Container{}
	for _, e := range local {
		c.entries = append(c.entries, models.MergedCartEntry{LocalCartEntry: e})
	}
	return c
}

// Subscribe registers fn to run after each mutation with the new snapshot.
func (c *Container) Subscribe(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

func (c *Container) snapshotLocked() Snapshot {
	items := make([]models.MergedCartEntry, len(c.entries))
	copy(items, c.entries)

	snap := Snapshot{Items: items}
	for _, e := range c.entries {
		snap.Count += e.Quantity
		snap.Total += float64(e.Quantity) * e.Price
	}
	return snap
}

func (c *Container) notifyLocked(snap Snapshot) {
	for _, fn := range c.subs {
		fn(snap)
	}
}

func (c *Container) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Container) LocalEntries() []models.LocalCartEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries := make([]models.LocalCartEntry, len(c.entries))
	for i, e := range c.entries {
		entries[i] = e.LocalCartEntry
	}
	return entries
}

// AddItem accumulates quantity onto an existing entry for the same product,
// keeping product ids unique within the container, or appends a new entry.
func (c *Container) AddItem(entry models.LocalCartEntry) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry.Quantity < 1 {
		entry.Quantity = 1
	}

	found := false
	for i := range c.entries {
		if c.entries[i].ProductID == entry.ProductID {
			c.entries[i].Quantity += entry.Quantity
			found = true
			break
		}
	}
	if !found {
		c.entries = append(c.entries, models.MergedCartEntry{LocalCartEntry: entry})
	}

	snap := c.snapshotLocked()
	c.notifyLocked(snap)
	return snap
}

// UpdateQuantity sets an entry's quantity. Zero or less removes the entry.
func (c *Container) UpdateQuantity(productID uuid.UUID, quantity int) (bool, Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := false
	for i := range c.entries {
		if c.entries[i].ProductID != productID {
			continue
		}
		if quantity <= 0 {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			removed = true
		} else {
			c.entries[i].Quantity = quantity
		}
		break
	}

	snap := c.snapshotLocked()
	c.notifyLocked(snap)
	return removed, snap
}

func (c *Container) RemoveItem(productID uuid.UUID) Snapshot {
	_, snap := c.UpdateQuantity(productID, 0)
	return snap
}

func (c *Container) Clear() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = nil
	snap := c.snapshotLocked()
	c.notifyLocked(snap)
	return snap
}

// SignIn performs the sign-in transition: merge the container's local
// entries with the user's persisted rows, replay the merged set through
// reconcile, then replace local state with the reconciled result. The
// replaced state sticks even when reconcile partially fails; the error is
// returned for the caller to surface.
func (c *Container) SignIn(ctx context.Context, userID uuid.UUID, remote []models.CartItem, reconcile ReconcileFunc) (Snapshot, error) {
	c.mu.Lock()
	local := make([]models.LocalCartEntry, len(c.entries))
	for i, e := range c.entries {
		local[i] = e.LocalCartEntry
	}
	c.mu.Unlock()

	merged := Merge(local, remote)
	err := reconcile(ctx, userID, merged)

	c.mu.Lock()
	c.entries = merged
	snap := c.snapshotLocked()
	c.notifyLocked(snap)
	c.mu.Unlock()

	return snap, err
}
