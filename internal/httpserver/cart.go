package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"storefront-be/internal/cartstate"
	"storefront-be/internal/events"
	"storefront-be/internal/logging"
	"storefront-be/internal/models"
	"storefront-be/internal/service"
)

type CartHTTP struct {
	Svc      *service.CartService
	Guest    GuestStore
	Producer *events.Producer
}

func (h *CartHTTP) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.Publish(ctx, events.TopicCartEvents, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, err := uuid.Parse(c.QueryParam("userId"))
	if err != nil {
		l.Warn("get_cart_failed", "status", 400, "reason", "missing userId")
		return errJSON(c, http.StatusBadRequest, "userId is required", nil)
	}

	items, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		l.Error("get_cart_failed", "status", 500, "error", err)
		return errJSON(c, http.StatusInternalServerError, "failed to fetch cart", err)
	}
	if items == nil {
		items = []models.CartItem{}
	}

	return c.JSON(http.StatusOK, CartResponse{CartItems: items})
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	var req AddToCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_failed", "status", 400, "reason", "invalid body", "error", err)
		return errJSON(c, http.StatusBadRequest, "invalid body", err)
	}
	if req.UserID == uuid.Nil {
		return errJSON(c, http.StatusBadRequest, "userId is required", nil)
	}
	if req.ProductID == uuid.Nil {
		return errJSON(c, http.StatusBadRequest, "productId is required", nil)
	}

	item := models.CartItem{
		UserID:          req.UserID,
		ProductID:       req.ProductID,
		Quantity:        req.Quantity,
		ProductSnapshot: req.ProductData,
	}
	if err := h.Svc.AddToCart(ctx, &item); err != nil {
		l.Error("add_to_cart_failed", "status", 500, "error", err)
		return errJSON(c, http.StatusInternalServerError, "failed to add item to cart", err)
	}

	h.publish(c, req.UserID.String(), map[string]any{
		"type":       "cart_item_added",
		"userID":     req.UserID,
		"productID":  req.ProductID,
		"quantity":   item.Quantity,
		"cartItemID": item.ID,
	})

	l.Info("item added to cart", "product_id", req.ProductID)
	return c.JSON(http.StatusOK, CartMutationResponse{
		Success:  true,
		CartItem: &item,
		Message:  "item added to cart",
	})
}

func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_quantity")

	var req UpdateQuantityRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_quantity_failed", "status", 400, "reason", "invalid body", "error", err)
		return errJSON(c, http.StatusBadRequest, "invalid body", err)
	}
	if req.CartItemID == uuid.Nil {
		return errJSON(c, http.StatusBadRequest, "cartItemId is required", nil)
	}
	if req.Quantity == nil {
		return errJSON(c, http.StatusBadRequest, "quantity is required", nil)
	}

	removed, item, err := h.Svc.SetQuantity(ctx, req.CartItemID, *req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("update_quantity_failed", "status", 404, "error", err)
			return errJSON(c, http.StatusNotFound, "cart item not found", nil)
		}
		l.Error("update_quantity_failed", "status", 500, "error", err)
		return errJSON(c, http.StatusInternalServerError, "failed to update quantity", err)
	}

	if removed {
		h.publish(c, req.CartItemID.String(), map[string]any{
			"type":       "cart_item_removed",
			"cartItemID": req.CartItemID,
		})
		return c.JSON(http.StatusOK, CartMutationResponse{
			Success: true,
			Message: "item removed from cart",
		})
	}

	return c.JSON(http.StatusOK, CartMutationResponse{
		Success:  true,
		CartItem: item,
		Message:  "quantity updated",
	})
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	cartItemID, err := uuid.Parse(c.QueryParam("cartItemId"))
	if err != nil {
		l.Warn("remove_from_cart_failed", "status", 400, "reason", "missing cartItemId")
		return errJSON(c, http.StatusBadRequest, "cartItemId is required", nil)
	}

	var userID *uuid.UUID
	if raw := c.QueryParam("userId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return errJSON(c, http.StatusBadRequest, "userId is not a uuid", nil)
		}
		userID = &id
	}

	if err := h.Svc.RemoveFromCart(ctx, cartItemID, userID); err != nil {
		l.Error("remove_from_cart_failed", "status", 500, "error", err)
		return errJSON(c, http.StatusInternalServerError, "failed to remove item", err)
	}

	h.publish(c, cartItemID.String(), map[string]any{
		"type":       "cart_item_removed",
		"cartItemID": cartItemID,
	})

	return c.JSON(http.StatusOK, CartMutationResponse{
		Success: true,
		Message: "item removed from cart",
	})
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	var req ClearCartRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid body", err)
	}
	if req.UserID == uuid.Nil {
		return errJSON(c, http.StatusBadRequest, "userId is required", nil)
	}

	if err := h.Svc.ClearCart(ctx, req.UserID); err != nil {
		l.Error("clear_cart_failed", "status", 500, "error", err)
		return errJSON(c, http.StatusInternalServerError, "failed to clear cart", err)
	}

	h.publish(c, req.UserID.String(), map[string]any{
		"type":   "cart_cleared",
		"userID": req.UserID,
	})

	return c.JSON(http.StatusOK, CartMutationResponse{
		Success: true,
		Message: "cart cleared",
	})
}

// MergeCart is the sign-in transition: the guest cart accumulated before
// authentication is merged with the persisted cart, replayed to the
// backend, and the guest copy dropped.
func (h *CartHTTP) MergeCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.merge")

	var req MergeCartRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid body", err)
	}
	if req.UserID == uuid.Nil {
		return errJSON(c, http.StatusBadRequest, "userId is required", nil)
	}
	if req.GuestID == "" {
		return errJSON(c, http.StatusBadRequest, "guestId is required", nil)
	}

	local, err := h.Guest.Get(ctx, req.GuestID)
	if err != nil {
		l.Error("merge_cart_failed", "status", 500, "reason", "guest cart fetch", "error", err)
		return errJSON(c, http.StatusInternalServerError, "failed to load guest cart", err)
	}

	remote, err := h.Svc.GetCart(ctx, req.UserID)
	if err != nil {
		l.Error("merge_cart_failed", "status", 500, "reason", "remote cart fetch", "error", err)
		return errJSON(c, http.StatusInternalServerError, "failed to load cart", err)
	}

	ctn := cartstate.NewContainer(local)
	snap, err := ctn.SignIn(ctx, req.UserID, remote, h.Svc.Reconcile)
	if err != nil {
		// Replay is best-effort: some rows may have landed. Surface the
		// aggregate error instead of pretending the merge completed.
		l.Error("merge_cart_failed", "status", 500, "reason", "replay incomplete", "error", err)
		return errJSON(c, http.StatusInternalServerError, "cart merge incomplete", err)
	}

	if err := h.Guest.Delete(ctx, req.GuestID); err != nil {
		l.Warn("merge_cart", "reason", "guest cart cleanup failed", "error", err)
	}

	h.publish(c, req.UserID.String(), map[string]any{
		"type":   "cart_merged",
		"userID": req.UserID,
		"count":  snap.Count,
	})

	l.Info("cart merged", "items", len(snap.Items))
	return c.JSON(http.StatusOK, MergeCartResponse{
		Success:   true,
		CartItems: snap.Items,
		Count:     snap.Count,
		Total:     snap.Total,
		Message:   "cart merged",
	})
}
