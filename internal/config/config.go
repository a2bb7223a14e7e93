package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/usamadar/shopify-publish-channel/internal/domain"
)

const defaultAPIVersion = "2024-07"

// Config holds all runtime configuration loaded from environment variables.
// Only SHOP_NAME and SHOPIFY_ADMIN_API_KEY are required.
type Config struct {
	// Shopify Admin API
	ShopName    string
	AccessToken string
	APIVersion  string
	AdminURL    string
	HTTPTimeout time.Duration

	// Propagation
	PublishWorkers int
	RateLimit      int

	// Logging
	LogLevel string

	// Optional HTTP side surface (metrics, progress)
	MetricsAddr     string
	ShutdownTimeout time.Duration

	// Optional run journal
	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32
}

// LoadDotEnv reads a .env file from the working directory into the process
// environment. A missing file is not an error.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func Load() (*Config, error) {
	shop := os.Getenv("SHOP_NAME")
	token := os.Getenv("SHOPIFY_ADMIN_API_KEY")

	var missing []error
	if shop == "" {
		missing = append(missing, domain.ErrMissingShopName)
	}
	if token == "" {
		missing = append(missing, domain.ErrMissingAccessToken)
	}
	if len(missing) > 0 {
		return nil, errors.Join(missing...)
	}

	workers := getInt("PUBLISH_WORKERS", 1)
	if workers < 1 {
		workers = 1
	}

	cfg := &Config{
		ShopName:    shop,
		AccessToken: token,
		APIVersion:  getEnv("SHOPIFY_API_VERSION", defaultAPIVersion),
		AdminURL:    os.Getenv("SHOPIFY_ADMIN_URL"),
		HTTPTimeout: getDuration("SHOPIFY_TIMEOUT", 30*time.Second),

		PublishWorkers: workers,
		RateLimit:      getInt("RATE_LIMIT_PER_SECOND", 0),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		MetricsAddr:     os.Getenv("METRICS_ADDR"),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
	}
	loadDatabase(cfg)
	return cfg, nil
}

// LoadJournal loads only what the journal commands need. Unlike Load it
// does not require Shopify credentials, but DATABASE_URL must be set.
func LoadJournal() (*Config, error) {
	cfg := &Config{LogLevel: getEnv("LOG_LEVEL", "info")}
	loadDatabase(cfg)
	if cfg.DatabaseURL == "" {
		return nil, domain.ErrMissingDatabaseURL
	}
	return cfg, nil
}

func loadDatabase(cfg *Config) {
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.DBMaxConns = int32(getInt("DB_MAX_CONNS", 5))
	cfg.DBMinConns = int32(getInt("DB_MIN_CONNS", 1))
}

// Endpoint returns the GraphQL Admin API URL for the configured shop.
func (c *Config) Endpoint() string {
	if c.AdminURL != "" {
		return c.AdminURL
	}
	return fmt.Sprintf("https://%s.myshopify.com/admin/api/%s/graphql.json", c.ShopName, c.APIVersion)
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
