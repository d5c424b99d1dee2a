package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SessionBackendRedis    = "redis"
	SessionBackendPostgres = "postgres"

	LoginEncodingForm = "form"
	LoginEncodingJSON = "json"
)

type Config struct {
	Env             string
	Port            string
	MetricsPort     string
	BackendURL      string
	BackendTimeout  time.Duration
	BagsMaxAttempts int
	BagsRetryDelay  time.Duration
	LoginEncoding   string
	SessionBackend  string
	SessionTTL      time.Duration
	RedisURL        string
	DatabaseURL     string
	CookieSecure    bool
	SendgridAPIKey  string
	MailFrom        string
}

// Load reads .env outside production, then the environment.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, continuing..")
		}
	}

	cfg := &Config{
		Env:            getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		MetricsPort:    getEnv("METRICS_PORT", "9090"),
		BackendURL:     strings.TrimRight(getEnv("BACKEND_URL", "http://127.0.0.1:8000"), "/"),
		LoginEncoding:  strings.ToLower(getEnv("LOGIN_ENCODING", LoginEncodingForm)),
		SessionBackend: strings.ToLower(getEnv("SESSION_BACKEND", SessionBackendRedis)),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		CookieSecure:   getEnv("COOKIE_SECURE", "false") == "true",
		SendgridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		MailFrom:       getEnv("MAIL_FROM", "donotreply@savefood.app"),
	}

	var err error
	if cfg.BackendTimeout, err = getDuration("BACKEND_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.BagsRetryDelay, err = getDuration("BAGS_RETRY_DELAY", time.Second); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.BagsMaxAttempts, err = getInt("BAGS_MAX_ATTEMPTS", 3); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid PORT %q", c.Port)
	}
	if c.BagsMaxAttempts < 1 {
		return fmt.Errorf("BAGS_MAX_ATTEMPTS must be at least 1, got %d", c.BagsMaxAttempts)
	}
	switch c.LoginEncoding {
	case LoginEncodingForm, LoginEncodingJSON:
	default:
		return fmt.Errorf("LOGIN_ENCODING must be %q or %q, got %q", LoginEncodingForm, LoginEncodingJSON, c.LoginEncoding)
	}
	switch c.SessionBackend {
	case SessionBackendRedis:
	case SessionBackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when SESSION_BACKEND=%s", SessionBackendPostgres)
		}
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
