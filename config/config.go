package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverFirestore = "firestore"
	DriverMemory    = "memory"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port        string
	GinMode     string
	CORSOrigins []string

	StoreDriver           string
	FirebaseCredentials   string
	FirebaseStorageBucket string

	JWTSecret        string
	JWTRefreshSecret string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration

	// CronSecret guards the reminder sweep; empty leaves it open.
	CronSecret string

	GoogleClientID string

	GoogleCloudProjectID string
	RecaptchaSiteKey     string
	RecaptchaCredentials string

	MaxUploadBytes int64
}

// Load reads .env when present, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file loaded", "error", err)
	}
	return FromEnv()
}

// FromEnv builds a validated Config from the process environment only.
func FromEnv() (Config, error) {
	accessTTL, err := getEnvDuration("ACCESS_TOKEN_TTL", time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("parse ACCESS_TOKEN_TTL: %w", err)
	}
	refreshTTL, err := getEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("parse REFRESH_TOKEN_TTL: %w", err)
	}
	maxUploadMB, err := getEnvInt("MAX_UPLOAD_MB", 20)
	if err != nil {
		return Config{}, fmt.Errorf("parse MAX_UPLOAD_MB: %w", err)
	}

	cfg := Config{
		Port:                  getEnv("PORT", "5000"),
		GinMode:               getEnv("GIN_MODE", "release"),
		CORSOrigins:           splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		StoreDriver:           strings.ToLower(getEnv("STORE_DRIVER", DriverFirestore)),
		FirebaseCredentials:   getEnv("GOOGLE_APPLICATION_CREDENTIALS_1", ""),
		FirebaseStorageBucket: getEnv("FIREBASE_STORAGE_BUCKET", ""),
		JWTSecret:             getEnv("JWT_SECRET_KEY", ""),
		JWTRefreshSecret:      getEnv("JWT_REFRESH_SECRET_KEY", ""),
		AccessTokenTTL:        accessTTL,
		RefreshTokenTTL:       refreshTTL,
		CronSecret:            getEnv("CRON_SECRET", ""),
		GoogleClientID:        getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleCloudProjectID:  getEnv("GOOGLE_CLOUD_PROJECT_ID", ""),
		RecaptchaSiteKey:      getEnv("RECAPTCHA_SITE_KEY", ""),
		RecaptchaCredentials:  getEnv("GOOGLE_APPLICATION_CREDENTIALS_2", ""),
		MaxUploadBytes:        int64(maxUploadMB) << 20,
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// CaptchaEnabled reports whether registration must pass reCAPTCHA.
func (c Config) CaptchaEnabled() bool {
	return c.RecaptchaSiteKey != "" && c.GoogleCloudProjectID != ""
}

func (c Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.JWTRefreshSecret == "" {
		return fmt.Errorf("JWT_REFRESH_SECRET_KEY is required")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unknown GIN_MODE %q", c.GinMode)
	}
	switch c.StoreDriver {
	case DriverMemory:
	case DriverFirestore:
		if c.FirebaseCredentials == "" {
			return fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS_1 is required for the firestore driver")
		}
		if c.FirebaseStorageBucket == "" {
			return fmt.Errorf("FIREBASE_STORAGE_BUCKET is required for the firestore driver")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(v)
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	return time.ParseDuration(v)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
