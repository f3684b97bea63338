package config

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"storefront-be/internal/models"
)

type Config struct {
	DB_HOST        string
	DB_PORT        string
	DB_USER        string
	DB_PASSWORD    string
	DB_NAME        string
	REDIS_ADDR     string
	KAFKA_ADDRESS  string
	ES_URL         string
	ES_USER        string
	ES_PASSWORD    string
	JWT_SECRET     string
	REFRESH_SECRET string
	SERVER_PORT    string
	LOG_LEVEL      string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		DB_HOST:        os.Getenv("DB_HOST"),
		DB_PORT:        os.Getenv("DB_PORT"),
		DB_USER:        os.Getenv("DB_USER"),
		DB_PASSWORD:    os.Getenv("DB_PASSWORD"),
		DB_NAME:        os.Getenv("DB_NAME"),
		REDIS_ADDR:     os.Getenv("REDIS_ADDR"),
		KAFKA_ADDRESS:  os.Getenv("KAFKA_ADDRESS"),
		ES_URL:         os.Getenv("ES_URL"),
		ES_USER:        os.Getenv("ES_USER"),
		ES_PASSWORD:    os.Getenv("ES_PASSWORD"),
		JWT_SECRET:     must(os.Getenv("JWT_SECRET"), "JWT_SECRET"),
		REFRESH_SECRET: must(os.Getenv("REFRESH_SECRET"), "REFRESH_SECRET"),
		SERVER_PORT:    os.Getenv("SERVER_PORT"),
		LOG_LEVEL:      os.Getenv("LOG_LEVEL"),
	}

	return config, nil
}

func must(v string, name string) string {
	if v == "" {
		log.Fatalf("missing required env %s", name)
	}
	return v
}

func configurePool(sqlDB *sql.DB) {
	const (
		maxOpenConns    = 20
		maxIdleConns    = 10
		connMaxLifetime = 30 * time.Minute
		connMaxIdleTime = 5 * time.Minute
	)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
}

func InitDB(ctx context.Context, cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DB_USER, cfg.DB_PASSWORD, cfg.DB_HOST, cfg.DB_PORT, cfg.DB_NAME,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt: true,
		NowFunc:     func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db handle: %w", err)
	}
	configurePool(sqlDB)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Product{},
		&models.User{},
		&models.RefreshToken{},
		&models.CartItem{},
	); err != nil {
		return nil, fmt.Errorf("db migrate: %w", err)
	}

	return db, nil
}

func InitRedis(ctx context.Context, cfg *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.REDIS_ADDR,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if _, err := client.Ping(pingCtx).Result(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
