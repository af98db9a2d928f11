package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port string

	// DatabaseURL is the PostgreSQL DSN. Empty runs the service offline on
	// the seeded in-memory store.
	DatabaseURL    string
	DBMaxOpenConns int
	DBMaxIdleConns int
	QueryTimeout   time.Duration

	JWTSecret string
	JWTTTL    time.Duration

	// GeocoderAPIKey enables postal code geocoding at registration.
	GeocoderAPIKey string

	// ReconcileInterval controls how often stored nutrient bands are
	// re-classified (0 = disabled).
	ReconcileInterval time.Duration

	// In-memory store retention (records per district, 0 = unlimited).
	StoreMaxHistory int

	CORSAllowedOrigins string
	CropTablePath      string
	StaticDir          string
}

// Offline reports whether no database is configured.
func (c *AppConfig) Offline() bool {
	return c.DatabaseURL == ""
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	return fromEnv()
}

func fromEnv() (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.DBMaxOpenConns = getenvInt("DB_MAX_OPEN_CONNS", 25)
	cfg.DBMaxIdleConns = getenvInt("DB_MAX_IDLE_CONNS", 5)

	var err error
	if cfg.QueryTimeout, err = getenvDuration("QUERY_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTTTL, err = getenvDuration("JWT_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if !cfg.Offline() && cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required when DATABASE_URL is set")
	}

	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	// Re-banding job: default hourly.
	if cfg.ReconcileInterval, err = getenvDuration("RECONCILE_INTERVAL", time.Hour); err != nil {
		return nil, err
	}

	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 10)
	cfg.CORSAllowedOrigins = getenvDefault("CORS_ALLOWED_ORIGINS", "*")
	cfg.CropTablePath = os.Getenv("CROP_TABLE_PATH")
	cfg.StaticDir = getenvDefault("STATIC_DIR", "./static")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}
