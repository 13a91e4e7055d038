// Package config loads settings from the environment, with a .env file
// outside containers.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverSheets = "sheets"
	DriverMemory = "memory"
)

type Config struct {
	Port int

	StoreDriver       string
	SpreadsheetID     string
	GoogleCredentials string

	FirebaseConfig string
	StorageBucket  string
	RedisAddr      string

	Timezone     string
	Location     *time.Location
	TableTTL     time.Duration
	TitlesTTL    time.Duration
	WeekdaysOnly bool

	RetryMaxAttempts     int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration

	AuthEnabled      bool
	APIKeys          []string
	AdminKey         string
	DefaultRateLimit int
	DefaultWindow    int

	LogMode string
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	v.SetDefault("PORT", 8080)
	v.SetDefault("STORE_DRIVER", DriverSheets)
	v.SetDefault("SPREADSHEET_ID", "")
	v.SetDefault("GOOGLE_CREDENTIALS", "")
	v.SetDefault("FIREBASE_CONFIG", "")
	v.SetDefault("STORAGE_BUCKET", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("TIMEZONE", "America/Mexico_City")
	v.SetDefault("TABLE_CACHE_TTL", 30*time.Second)
	v.SetDefault("TITLES_CACHE_TTL", 5*time.Minute)
	v.SetDefault("CAPTURE_WEEKDAYS_ONLY", true)
	v.SetDefault("RETRY_MAX_ATTEMPTS", 5)
	v.SetDefault("RETRY_INITIAL_INTERVAL", 700*time.Millisecond)
	v.SetDefault("RETRY_MAX_INTERVAL", 10*time.Second)
	v.SetDefault("AUTH_ENABLED", true)
	v.SetDefault("API_KEYS", "")
	v.SetDefault("ADMIN_KEY", "")
	v.SetDefault("DEFAULT_RATE_LIMIT", 120)
	v.SetDefault("DEFAULT_RATE_WINDOW", 60)
	v.SetDefault("LOG_MODE", "dev")

	v.AutomaticEnv()
	return v
}

// LoadDotEnv loads .env into the environment unless running in Docker. A
// missing file is not an error.
func LoadDotEnv() error {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return nil
	}
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return nil
	}
	return errors.Wrap(godotenv.Load(), "load .env")
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	v := newViper()

	cfg := &Config{
		Port:                 v.GetInt("PORT"),
		StoreDriver:          strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER"))),
		SpreadsheetID:        strings.TrimSpace(v.GetString("SPREADSHEET_ID")),
		GoogleCredentials:    v.GetString("GOOGLE_CREDENTIALS"),
		FirebaseConfig:       strings.TrimSpace(v.GetString("FIREBASE_CONFIG")),
		StorageBucket:        strings.TrimSpace(v.GetString("STORAGE_BUCKET")),
		RedisAddr:            strings.TrimSpace(v.GetString("REDIS_ADDR")),
		Timezone:             v.GetString("TIMEZONE"),
		TableTTL:             v.GetDuration("TABLE_CACHE_TTL"),
		TitlesTTL:            v.GetDuration("TITLES_CACHE_TTL"),
		WeekdaysOnly:         v.GetBool("CAPTURE_WEEKDAYS_ONLY"),
		RetryMaxAttempts:     v.GetInt("RETRY_MAX_ATTEMPTS"),
		RetryInitialInterval: v.GetDuration("RETRY_INITIAL_INTERVAL"),
		RetryMaxInterval:     v.GetDuration("RETRY_MAX_INTERVAL"),
		AuthEnabled:          v.GetBool("AUTH_ENABLED"),
		APIKeys:              splitList(v.GetString("API_KEYS")),
		AdminKey:             strings.TrimSpace(v.GetString("ADMIN_KEY")),
		DefaultRateLimit:     v.GetInt("DEFAULT_RATE_LIMIT"),
		DefaultWindow:        v.GetInt("DEFAULT_RATE_WINDOW"),
		LogMode:              v.GetString("LOG_MODE"),
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid TIMEZONE %q", cfg.Timezone)
	}
	cfg.Location = loc

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverSheets:
		if c.SpreadsheetID == "" {
			return errors.New("SPREADSHEET_ID is required with the sheets store")
		}
	case DriverMemory:
	default:
		return errors.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.Errorf("invalid PORT %d", c.Port)
	}
	if c.RetryMaxAttempts < 1 {
		return errors.New("RETRY_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
