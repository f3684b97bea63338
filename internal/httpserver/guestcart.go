package httpserver

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"storefront-be/internal/cartstate"
	"storefront-be/internal/logging"
	"storefront-be/internal/models"
)

// GuestStore is the guest session cart storage; cartstate.GuestCartStore
// is the Redis-backed implementation.
type GuestStore interface {
	Get(ctx context.Context, guestID string) ([]models.LocalCartEntry, error)
	Save(ctx context.Context, guestID string, entries []models.LocalCartEntry) error
	Delete(ctx context.Context, guestID string) error
}

// GuestCartHTTP serves the pre-sign-in cart. Every mutation loads the
// guest's entries into a Container, applies the change there, and writes
// the result back, so guest and signed-in carts share one set of rules.
type GuestCartHTTP struct {
	Guest GuestStore
}

func (h *GuestCartHTTP) load(c echo.Context, guestID string) (*cartstate.Container, error) {
	entries, err := h.Guest.Get(c.Request().Context(), guestID)
	if err != nil {
		return nil, err
	}
	return cartstate.NewContainer(entries), nil
}

func (h *GuestCartHTTP) save(c echo.Context, guestID string, ctn *cartstate.Container) error {
	return h.Guest.Save(c.Request().Context(), guestID, ctn.LocalEntries())
}

func (h *GuestCartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "guest_cart.get")

	guestID := c.QueryParam("guestId")
	if guestID == "" {
		return errJSON(c, http.StatusBadRequest, "guestId is required", nil)
	}

	ctn, err := h.load(c, guestID)
	if err != nil {
		l.Error("guest_cart_get_failed", "status", 500, "error", err)
		return errJSON(c, http.StatusInternalServerError, "failed to fetch guest cart", err)
	}

	snap := ctn.Snapshot()
	if snap.Items == nil {
		snap.Items = []models.MergedCartEntry{}
	}
	return c.JSON(http.StatusOK, GuestCartResponse{
		CartItems: snap.Items,
		Count:     snap.Count,
		Total:     snap.Total,
	})
}

func (h *GuestCartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "guest_cart.add")

	var req GuestCartRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid body", err)
	}
	if req.GuestID == "" {
		return errJSON(c, http.StatusBadRequest, "guestId is required", nil)
	}
	if req.ProductID == uuid.Nil {
		return errJSON(c, http.StatusBadRequest, "productId is required", nil)
	}

	ctn, err := h.load(c, req.GuestID)
	if err != nil {
		l.Error("guest_cart_add_failed", "status", 500, "error", err)
		return errJSON(c, http.StatusInternalServerError, "failed to fetch guest cart", err)
	}

	snap := ctn.AddItem(models.LocalCartEntry{
		ProductID:       req.ProductID,
		Quantity:        req.Quantity,
		ProductSnapshot: req.ProductData,
	})

	if err := h.save(c, req.GuestID, ctn); err != nil {
		l.Error("guest_cart_add_failed", "status", 500, "error", err)
		return errJSON(c, http.StatusInternalServerError, "failed to save guest cart", err)
	}

	return c.JSON(http.StatusOK, GuestCartResponse{
		CartItems: snap.Items,
		Count:     snap.Count,
		Total:     snap.Total,
	})
}

func (h *GuestCartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "guest_cart.update_quantity")

	var req GuestCartRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid body", err)
	}
	if req.GuestID == "" {
		return errJSON(c, http.StatusBadRequest, "guestId is required", nil)
	}
	if req.ProductID == uuid.Nil {
		return errJSON(c, http.StatusBadRequest, "productId is required", nil)
	}

	ctn, err := h.load(c, req.GuestID)
	if err != nil {
		l.Error("guest_cart_update_failed", "status", 500, "error", err)
		return errJSON(c, http.StatusInternalServerError, "failed to fetch guest cart", err)
	}

	_, snap := ctn.UpdateQuantity(req.ProductID, req.Quantity)

	if err := h.save(c, req.GuestID, ctn); err != nil {
		l.Error("guest_cart_update_failed", "status", 500, "error", err)
		return errJSON(c, http.StatusInternalServerError, "failed to save guest cart", err)
	}

	return c.JSON(http.StatusOK, GuestCartResponse{
		CartItems: snap.Items,
		Count:     snap.Count,
		Total:     snap.Total,
	})
}

func (h *GuestCartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "guest_cart.clear")

	var req GuestCartRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid body", err)
	}
	if req.GuestID == "" {
		return errJSON(c, http.StatusBadRequest, "guestId is required", nil)
	}

	if err := h.Guest.Delete(ctx, req.GuestID); err != nil {
		l.Error("guest_cart_clear_failed", "status", 500, "error", err)
		return errJSON(c, http.StatusInternalServerError, "failed to clear guest cart", err)
	}

	return c.JSON(http.StatusOK, CartMutationResponse{
		Success: true,
		Message: "guest cart cleared",
	})
}
