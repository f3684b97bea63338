package httpserver

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"storefront-be/internal/logging"
	"storefront-be/internal/search"
	"storefront-be/internal/util"
)

type SearchHTTP struct {
	ES    *elasticsearch.Client
	Index string
}

func (h *SearchHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search")

	q := c.QueryParam("q")
	if q == "" {
		return errJSON(c, http.StatusBadRequest, "q is required", nil)
	}

	limit := util.ParseIntDefault(c.QueryParam("limit"), util.DefaultLimit)
	offset := util.ParseIntDefault(c.QueryParam("offset"), 0)
	limit, offset = util.Window(limit, offset)

	total, products, err := search.Search(ctx, h.ES, h.Index, q, offset, limit)
	if err != nil {
		l.Error("search_failed", "status", 500, "error", err)
		return errJSON(c, http.StatusInternalServerError, "search failed", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"total":    total,
		"products": products,
	})
}
