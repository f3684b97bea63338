package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"storefront-be/internal/events"
	"storefront-be/internal/logging"
	"storefront-be/internal/models"
	"storefront-be/internal/service"
	"storefront-be/internal/util"
)

type ProductHTTP struct {
	Svc      *service.CatalogService
	Producer *events.Producer
}

// sellerAllowed reports whether the authenticated caller may act for
// sellerID: admins always, sellers only for themselves. A nil sellerID
// passes through so the missing-field validation can report it as a 400.
func sellerAllowed(c echo.Context, sellerID uuid.UUID) bool {
	if sellerID == uuid.Nil {
		return true
	}
	if role, _ := c.Get("role").(string); role == "admin" {
		return true
	}
	sub, _ := c.Get("user_id").(string)
	return sub != "" && sub == sellerID.String()
}

func (h *ProductHTTP) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.Publish(ctx, events.TopicProductEvents, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return errJSON(c, http.StatusBadRequest, "id is not a uuid", nil)
	}

	prod, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_product_failed", "status", 404, "product_id", id)
			return errJSON(c, http.StatusNotFound, "product not found", nil)
		}
		l.Error("get_product_failed", "status", 500, "error", err)
		return errJSON(c, http.StatusInternalServerError, "failed to fetch product", err)
	}

	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	category := c.QueryParam("category")
	limit := util.ParseIntDefault(c.QueryParam("limit"), util.DefaultLimit)
	offset := util.ParseIntDefault(c.QueryParam("offset"), 0)
	limit, offset = util.Window(limit, offset)

	total, items, err := h.Svc.GetProducts(ctx, category, limit, offset)
	if err != nil {
		l.Error("get_products_failed", "status", 500, "error", err)
		return errJSON(c, http.StatusInternalServerError, "failed to fetch products", err)
	}
	if items == nil {
		items = []models.Product{}
	}

	return c.JSON(http.StatusOK, ProductListResponse{
		Success:  true,
		Products: items,
		Total:    total,
		Category: category,
	})
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid body", err)
	}
	if !sellerAllowed(c, req.SellerID) {
		l.Warn("create_product_failed", "status", 403, "seller_id", req.SellerID)
		return errJSON(c, http.StatusForbidden, "seller_id does not match authenticated seller", nil)
	}

	prod := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		SellerID:    req.SellerID,
	}
	if err := h.Svc.CreateProduct(ctx, &prod); err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("create_product_failed", "status", 400, "error", err)
			return errJSON(c, http.StatusBadRequest, "missing required fields", err)
		}
		l.Error("create_product_failed", "status", 500, "error", err)
		return errJSON(c, http.StatusInternalServerError, "failed to create product", err)
	}

	h.publish(c, prod.SellerID.String(), map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})

	l.Info("product created", "product_id", prod.ID)
	return c.JSON(http.StatusCreated, map[string]any{
		"message": "product created",
		"product": prod,
	})
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return errJSON(c, http.StatusBadRequest, "id is not a uuid", nil)
	}

	prod, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("delete_product_failed", "status", 404, "product_id", id)
			return errJSON(c, http.StatusNotFound, "product not found", nil)
		}
		l.Error("delete_product_failed", "status", 500, "error", err)
		return errJSON(c, http.StatusInternalServerError, "failed to delete product", err)
	}
	if !sellerAllowed(c, prod.SellerID) {
		l.Warn("delete_product_failed", "status", 403, "product_id", id)
		return errJSON(c, http.StatusForbidden, "product belongs to another seller", nil)
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("delete_product_failed", "status", 404, "product_id", id)
			return errJSON(c, http.StatusNotFound, "product not found", nil)
		}
		l.Error("delete_product_failed", "status", 500, "error", err)
		return errJSON(c, http.StatusInternalServerError, "failed to delete product", err)
	}

	h.publish(c, id.String(), map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})

	l.Info("product deleted", "product_id", id)
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "product deleted",
	})
}

func (h *ProductHTTP) BulkUpload(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.bulk_upload")

	var req BulkUploadRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid body", err)
	}
	if !sellerAllowed(c, req.SellerID) {
		l.Warn("bulk_upload_failed", "status", 403, "seller_id", req.SellerID)
		return errJSON(c, http.StatusForbidden, "sellerId does not match authenticated seller", nil)
	}

	prods := make([]models.Product, len(req.Products))
	for i, p := range req.Products {
		prods[i] = models.Product{
			Name:        p.Name,
			Description: p.Description,
			Category:    p.Category,
			Price:       p.Price,
			Stock:       p.Stock,
			ImageURL:    p.ImageURL,
			SellerID:    req.SellerID,
		}
	}

	inserted, err := h.Svc.BulkUpload(ctx, req.SellerID, prods)
	if err != nil {
		var bulkErr *service.BulkValidationError
		if errors.As(err, &bulkErr) {
			l.Warn("bulk_upload_failed", "status", 400, "rows", len(bulkErr.Messages))
			return c.JSON(http.StatusBadRequest, map[string]any{
				"error":   "validation failed",
				"details": bulkErr.Messages,
			})
		}
		if errors.Is(err, service.ErrValidation) {
			return errJSON(c, http.StatusBadRequest, "invalid bulk upload", err)
		}
		l.Error("bulk_upload_failed", "status", 500, "error", err)
		return errJSON(c, http.StatusInternalServerError, "bulk upload failed", err)
	}

	h.publish(c, req.SellerID.String(), map[string]any{
		"type":     "products_bulk_uploaded",
		"sellerID": req.SellerID,
		"count":    len(inserted),
	})

	l.Info("bulk upload complete", "count", len(inserted))
	return c.JSON(http.StatusCreated, BulkUploadResponse{
		Message:  "products uploaded",
		Count:    len(inserted),
		Products: inserted,
		SellerID: req.SellerID,
	})
}
