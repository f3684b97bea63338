package cartstate

import "storefront-be/internal/models"

// Merge reconciles a pre-sign-in local cart with the persisted remote cart.
//
// The result starts from a copy of local, in local order. A remote row whose
// product already appears locally contributes max(local, remote) as the
// merged quantity: both carts carry genuine intent, and dropping the larger
// side would under-provision the cart. Remote rows with no local match are
// appended afterwards, carrying the remote row id and snapshot.
//
// Duplicate product ids inside local are the caller's invariant to hold;
// Merge does not deduplicate them. The function has no side effects.
func Merge(local []models.LocalCartEntry, remote []models.CartItem) []models.MergedCartEntry {
	merged := make([]models.MergedCartEntry, 0, len(local)+len(remote))
	for _, e := range local {
		merged = append(merged, models.MergedCartEntry{LocalCartEntry: e})
	}

	for _, row := range remote {
		matched := false
		for i := range merged {
			if merged[i].ProductID != row.ProductID {
				continue
			}
			if row.Quantity > merged[i].Quantity {
				merged[i].Quantity = row.Quantity
			}
			merged[i].BackendID = row.ID
			matched = true
			break
		}
		if matched {
			continue
		}
		merged = append(merged, models.MergedCartEntry{
			LocalCartEntry: models.LocalCartEntry{
				ProductID:       row.ProductID,
				Quantity:        row.Quantity,
				ProductSnapshot: row.ProductSnapshot,
			},
			BackendID: row.ID,
		})
	}

	return merged
}
