package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Environment
	RunMode string // Set via flag, not env

	// Backend
	BackendURL     string
	RequestTimeout time.Duration

	// Server
	ApiPort        string
	ServiceApiPort string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Session persistence
	SessionStore string // "file" or "redis"
	SessionFile  string
	SessionKey   string

	// AWS S3
	AwsAccessKeyID     string
	AwsSecretAccessKey string
	AwsRegion          string
	AwsS3Bucket        string

	// Asset proxy
	ProxyAllowedHosts []string
	ProxyCacheTTL     time.Duration
	ProxyFetchTimeout time.Duration
	ImageMaxDimension int

	// Admin
	ItemsPerPage    int
	BulkUploadMaxMB int

	// Rate Limiting Defaults
	RateLimitBucketSize int
	RateLimitRefillRate int // tokens per second

	MockServices bool
}

// DefaultBackendURL is the origin every resource service talks to.
const DefaultBackendURL = "https://agents-store.onrender.com"

// Load configuration from environment variables.
// RunMode needs to be passed in as it comes from command-line flags.
func Load(runMode string) (*Config, error) {
	// Load .env file, ignoring errors if it doesn't exist
	godotenv.Load()

	cfg := &Config{
		RunMode: runMode,
	}

	var err error

	getEnv := func(key, defaultValue string) string {
		if value, exists := os.LookupEnv(key); exists {
			return value
		}
		return defaultValue
	}

	getSeconds := func(key, defaultValue string) (time.Duration, error) {
		seconds, err := strconv.ParseInt(getEnv(key, defaultValue), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", key, err)
		}
		if seconds <= 0 {
			return 0, fmt.Errorf("invalid %s: must be positive", key)
		}
		return time.Duration(seconds) * time.Second, nil
	}

	cfg.BackendURL = strings.TrimSuffix(getEnv("BACKEND_URL", DefaultBackendURL), "/")
	cfg.ApiPort = getEnv("API_PORT", "4000")
	cfg.ServiceApiPort = getEnv("SERVICE_API_PORT", "4001")
	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.SessionStore = getEnv("SESSION_STORE", "file")
	cfg.SessionKey = getEnv("SESSION_KEY", "auth-storage")
	cfg.AwsAccessKeyID = getEnv("AWS_ACCESS_KEY_ID", "")
	cfg.AwsSecretAccessKey = getEnv("AWS_SECRET_ACCESS_KEY", "")
	cfg.AwsRegion = getEnv("AWS_REGION", "us-east-1")
	cfg.AwsS3Bucket = getEnv("AWS_S3_BUCKET", "agentsstore")
	cfg.MockServices = getEnv("MOCK_SERVICES", "") == "true"

	cfg.SessionFile = getEnv("SESSION_FILE", "")
	if cfg.SessionFile == "" {
		dir, dirErr := os.UserConfigDir()
		if dirErr != nil {
			dir = os.TempDir()
		}
		cfg.SessionFile = filepath.Join(dir, "backoffice", "session.json")
	}

	if cfg.SessionStore != "file" && cfg.SessionStore != "redis" {
		return nil, fmt.Errorf("invalid SESSION_STORE: %q (want file or redis)", cfg.SessionStore)
	}
	if cfg.SessionStore == "redis" && cfg.RedisAddr == "" {
		return nil, fmt.Errorf("SESSION_STORE=redis requires REDIS_ADDR")
	}

	defaultHosts := fmt.Sprintf("%s.s3.%s.amazonaws.com,raw.githubusercontent.com", cfg.AwsS3Bucket, cfg.AwsRegion)
	for _, host := range strings.Split(getEnv("PROXY_ALLOWED_HOSTS", defaultHosts), ",") {
		if trimmed := strings.ToLower(strings.TrimSpace(host)); trimmed != "" {
			cfg.ProxyAllowedHosts = append(cfg.ProxyAllowedHosts, trimmed)
		}
	}

	cfg.RequestTimeout, err = getSeconds("REQUEST_TIMEOUT_SECONDS", "10")
	if err != nil {
		return nil, err
	}
	cfg.ProxyCacheTTL, err = getSeconds("PROXY_CACHE_TTL_SECONDS", "86400")
	if err != nil {
		return nil, err
	}
	cfg.ProxyFetchTimeout, err = getSeconds("PROXY_FETCH_TIMEOUT_SECONDS", "30")
	if err != nil {
		return nil, err
	}

	cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg.ImageMaxDimension, err = strconv.Atoi(getEnv("IMAGE_MAX_DIMENSION", "2048"))
	if err != nil {
		return nil, fmt.Errorf("invalid IMAGE_MAX_DIMENSION: %w", err)
	}

	cfg.ItemsPerPage, err = strconv.Atoi(getEnv("ITEMS_PER_PAGE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid ITEMS_PER_PAGE: %w", err)
	}

	cfg.BulkUploadMaxMB, err = strconv.Atoi(getEnv("BULK_UPLOAD_MAX_MB", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid BULK_UPLOAD_MAX_MB: %w", err)
	}

	// Rate Limiting
	cfg.RateLimitBucketSize, err = strconv.Atoi(getEnv("RATE_LIMIT_BUCKET_SIZE", "40"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BUCKET_SIZE: %w", err)
	}
	cfg.RateLimitRefillRate, err = strconv.Atoi(getEnv("RATE_LIMIT_REFILL_RATE", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_REFILL_RATE: %w", err)
	}

	return cfg, nil
}

// BulkUploadMaxBytes returns the bulk upload size limit in bytes.
func (c *Config) BulkUploadMaxBytes() int64 {
	return int64(c.BulkUploadMaxMB) * 1024 * 1024
}
