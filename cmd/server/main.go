package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"storefront-be/internal/cartstate"
	"storefront-be/internal/config"
	"storefront-be/internal/events"
	"storefront-be/internal/httpserver"
	"storefront-be/internal/logging"
	"storefront-be/internal/middleware"
	"storefront-be/internal/repo"
	"storefront-be/internal/search"
	"storefront-be/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LOG_LEVEL)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, cfg)
	if err != nil {
		cancel()
		log.Fatalf("db init error: %v", err)
	}

	rdb, err := config.InitRedis(initCtx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("redis init error: %v", err)
	}

	var producer *events.Producer
	if cfg.KAFKA_ADDRESS != "" {
		producer = events.NewProducer([]string{cfg.KAFKA_ADDRESS})
	}

	var searchHandler *httpserver.SearchHTTP
	if cfg.ES_URL != "" {
		esClient, err := search.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		searchHandler = &httpserver.SearchHTTP{ES: esClient, Index: "products"}
	}

	gormRepo := repo.New(db)
	cartSvc := &service.CartService{Repo: gormRepo}
	catalogSvc := &service.CatalogService{Repo: gormRepo}
	authSvc := &service.AuthService{
		Repo:          gormRepo,
		JWTSecret:     []byte(cfg.JWT_SECRET),
		RefreshSecret: []byte(cfg.REFRESH_SECRET),
	}
	guestStore := cartstate.NewGuestCartStore(rdb)

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID(), echomw.CORS())
	e.Use(middleware.RequestLogger(logger))

	authLimiter := middleware.NewRateLimiter(rate.Limit(2), 5)
	defer authLimiter.Stop()

	httpserver.Register(e, &httpserver.Deps{
		DB:          db,
		Redis:       rdb,
		CartHandler: &httpserver.CartHTTP{Svc: cartSvc, Guest: guestStore, Producer: producer},
		GuestCart:   &httpserver.GuestCartHTTP{Guest: guestStore},
		Products:    &httpserver.ProductHTTP{Svc: catalogSvc, Producer: producer},
		Auth:        &httpserver.AuthHTTP{Svc: authSvc, Producer: producer},
		Search:      searchHandler,
		AuthMW:      middleware.NewAuthMiddleware([]byte(cfg.JWT_SECRET)),
		AuthLimiter: authLimiter,
	})

	port := cfg.SERVER_PORT
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if err := rdb.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
