package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is read once at startup and shared read-only by all requests.
type Config struct {
	Port string

	APIKey             string
	AllowedIPs         []string
	RateLimitPerMinute int

	MaxFileSize int64
	MaxPages    int

	ImageQuality int
	ImageDPI     float64

	ConvertTimeout time.Duration

	// Optional archive-copy store. Disabled when S3Endpoint is empty.
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3Region    string
}

const (
	defaultMaxSizeMB  = 20
	defaultMaxPages   = 100
	defaultQuality    = 85
	defaultDPI        = 200
	defaultRateLimit  = 30
	defaultTimeout    = 3 * time.Minute
	defaultPort       = "8080"
)

func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", defaultPort),
		APIKey:      os.Getenv("API_KEY"),
		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3Region:    os.Getenv("S3_REGION"),
	}

	if raw := os.Getenv("ALLOWED_IPS"); raw != "" {
		for _, ip := range strings.Split(raw, ",") {
			if ip = strings.TrimSpace(ip); ip != "" {
				cfg.AllowedIPs = append(cfg.AllowedIPs, ip)
			}
		}
	}

	var err error
	if cfg.RateLimitPerMinute, err = getInt("RATE_LIMIT_PER_MINUTE", defaultRateLimit); err != nil {
		return nil, err
	}
	if cfg.MaxPages, err = getInt("MAX_PAGES", defaultMaxPages); err != nil {
		return nil, err
	}
	if cfg.ImageQuality, err = getInt("IMAGE_QUALITY", defaultQuality); err != nil {
		return nil, err
	}
	if cfg.ImageQuality < 1 || cfg.ImageQuality > 100 {
		return nil, fmt.Errorf("IMAGE_QUALITY must be in 1..100, got %d", cfg.ImageQuality)
	}

	dpi, err := getInt("IMAGE_DPI", defaultDPI)
	if err != nil {
		return nil, err
	}
	cfg.ImageDPI = float64(dpi)

	// MAX_FILE_SIZE is the exact byte cap; MAX_SIZE_MB is the legacy knob.
	if raw := os.Getenv("MAX_FILE_SIZE"); raw != "" {
		cfg.MaxFileSize, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_FILE_SIZE: %w", err)
		}
	} else {
		mb, err := getInt("MAX_SIZE_MB", defaultMaxSizeMB)
		if err != nil {
			return nil, err
		}
		cfg.MaxFileSize = int64(mb) << 20
	}
	if cfg.MaxFileSize <= 0 {
		return nil, fmt.Errorf("file size cap must be positive, got %d", cfg.MaxFileSize)
	}

	cfg.ConvertTimeout = defaultTimeout
	if raw := os.Getenv("CONVERT_TIMEOUT"); raw != "" {
		cfg.ConvertTimeout, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid CONVERT_TIMEOUT: %w", err)
		}
	}

	return cfg, nil
}

// AuthEnabled reports whether an API key is required for /convert.
func (c *Config) AuthEnabled() bool { return c.APIKey != "" }

// AllowlistEnabled reports whether origin filtering is active.
func (c *Config) AllowlistEnabled() bool { return len(c.AllowedIPs) > 0 }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
