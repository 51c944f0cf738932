package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	PricingTrust     = "trust"
	PricingRecompute = "recompute"

	BlobLocal = "local"
	BlobS3    = "s3"

	CartPostgres = "postgres"
	CartRedis    = "redis"
)

// Config holds environment-driven configuration.
type Config struct {
	Env      string
	Addr     string
	LogLevel string

	DatabaseURL     string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	JWTSecret    string
	JWTExpiresIn time.Duration

	PricingMode   string
	CORSOrigins   string
	AuthRateLimit int

	Blob BlobConfig
	Cart CartConfig
}

type BlobConfig struct {
	Backend   string
	UploadDir string
	S3Bucket  string
	AWSRegion string
	// AWSEndpoint points the S3 client at a local stack such as MinIO.
	AWSEndpoint string
}

type CartConfig struct {
	Backend       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	cfg := Config{
		Env:         getEnv("APP_ENV", "development"),
		Addr:        ":" + strings.TrimPrefix(getEnv("PORT", "8080"), ":"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		PricingMode: strings.ToLower(getEnv("PRICING_MODE", PricingTrust)),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		Blob: BlobConfig{
			Backend:     strings.ToLower(getEnv("BLOB_BACKEND", BlobLocal)),
			UploadDir:   getEnv("UPLOAD_DIR", "./uploads"),
			S3Bucket:    os.Getenv("S3_BUCKET"),
			AWSRegion:   getEnv("AWS_REGION", "us-east-1"),
			AWSEndpoint: os.Getenv("AWS_ENDPOINT"),
		},
		Cart: CartConfig{
			Backend:       strings.ToLower(getEnv("CART_BACKEND", CartPostgres)),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
		},
	}

	var err error
	if cfg.MaxOpenConns, err = getInt("DB_MAX_OPEN_CONNS", 25); err != nil {
		return Config{}, err
	}
	if cfg.MaxIdleConns, err = getInt("DB_MAX_IDLE_CONNS", 5); err != nil {
		return Config{}, err
	}
	if cfg.ConnMaxLifetime, err = getDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.JWTExpiresIn, err = getDuration("JWT_EXPIRES_IN", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.AuthRateLimit, err = getInt("AUTH_RATE_LIMIT", 20); err != nil {
		return Config{}, err
	}
	if cfg.Cart.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.Cart.TTL, err = getDuration("CART_TTL", 7*24*time.Hour); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first missing or out-of-range setting.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.PricingMode {
	case PricingTrust, PricingRecompute:
	default:
		return fmt.Errorf("PRICING_MODE must be %q or %q, got %q", PricingTrust, PricingRecompute, c.PricingMode)
	}
	switch c.Blob.Backend {
	case BlobLocal:
	case BlobS3:
		if c.Blob.S3Bucket == "" {
			return errors.New("S3_BUCKET is required when BLOB_BACKEND=s3")
		}
	default:
		return fmt.Errorf("unknown BLOB_BACKEND %q", c.Blob.Backend)
	}
	switch c.Cart.Backend {
	case CartPostgres, CartRedis:
	default:
		return fmt.Errorf("unknown CART_BACKEND %q", c.Cart.Backend)
	}
	if c.AuthRateLimit <= 0 {
		return errors.New("AUTH_RATE_LIMIT must be positive")
	}
	return nil
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
