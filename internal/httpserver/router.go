package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"storefront-be/internal/middleware"
)

type Deps struct {
	DB          *gorm.DB
	Redis       *redis.Client
	CartHandler *CartHTTP
	GuestCart   *GuestCartHTTP
	Products    *ProductHTTP
	Auth        *AuthHTTP
	Search      *SearchHTTP
	AuthMW      *middleware.AuthMiddleware
	AuthLimiter *middleware.RateLimiter
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", readyHandler(d))

	api := e.Group("/api")

	auth := api.Group("/auth")
	if d.AuthLimiter != nil {
		auth.Use(d.AuthLimiter.Middleware)
	}
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/logout", d.Auth.Logout)

	cart := api.Group("/cart")
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.PUT("", d.CartHandler.UpdateQuantity)
	cart.DELETE("", d.CartHandler.RemoveFromCart)
	cart.POST("/clear", d.CartHandler.ClearCart)
	cart.POST("/merge", d.CartHandler.MergeCart, d.AuthMW.RequireAuth)

	guest := api.Group("/guest-cart")
	guest.GET("", d.GuestCart.GetCart)
	guest.POST("", d.GuestCart.AddToCart)
	guest.PUT("", d.GuestCart.UpdateQuantity)
	guest.POST("/clear", d.GuestCart.ClearCart)

	products := api.Group("/products")
	products.GET("", d.Products.GetProducts)
	products.GET("/:id", d.Products.GetProduct)
	products.POST("", d.Products.CreateProduct, d.AuthMW.RequireSeller)
	products.POST("/bulk-upload", d.Products.BulkUpload, d.AuthMW.RequireSeller)
	products.DELETE("/:id", d.Products.DeleteProduct, d.AuthMW.RequireSeller)

	if d.Search != nil && d.Search.ES != nil {
		api.GET("/search", d.Search.Search)
	}
}

// readyHandler reports readiness by pinging the backing stores.
func readyHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		if d.DB != nil {
			if sqlDB, err := d.DB.DB(); err != nil {
				checks["db"] = err.Error()
				healthy = false
			} else if err := sqlDB.PingContext(ctx); err != nil {
				checks["db"] = err.Error()
				healthy = false
			} else {
				checks["db"] = "ok"
			}
		}

		if d.Redis != nil {
			if err := d.Redis.Ping(ctx).Err(); err != nil {
				checks["redis"] = err.Error()
				healthy = false
			} else {
				checks["redis"] = "ok"
			}
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		return c.JSON(status, checks)
	}
}
