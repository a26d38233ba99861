package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends selectable with DB_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is the full process configuration.
type Config struct {
	Port string

	DBDriver string
	DBDSN    string
	RedisURL string

	LocationsFile  string
	BlacklistedIPs []string
	SeedBlacklist  []string
	DefaultPhone   string
	Timezone       *time.Location
	SeedFile       string

	Twilio        Twilio
	SMSSandbox    bool
	NotifyTimeout time.Duration

	LogFormat string
	LogLevel  slog.Level
}

// Twilio holds SMS credentials. All three must be set for real delivery.
type Twilio struct {
	AccountSID string
	AuthToken  string
	From       string
}

func (t Twilio) Configured() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.From != ""
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:           getenv("PORT", "3001"),
		DBDriver:       strings.ToLower(getenv("DB_DRIVER", DriverSQLite)),
		DBDSN:          getenv("DB_DSN", "fraudguard.db"),
		RedisURL:       os.Getenv("REDIS_URL"),
		LocationsFile:  os.Getenv("LOCATIONS_FILE"),
		BlacklistedIPs: splitList(getenv("BLACKLISTED_IPS", "203.0.113.5,198.51.100.10,45.33.32.156")),
		SeedBlacklist:  splitList(getenv("SEED_BLACKLIST", "9876543210,1111222233")),
		DefaultPhone:   getenv("DEFAULT_PHONE", "+916374672882"),
		SeedFile:       getenv("SEED_FILE", "testdata/transactions.json"),
		Twilio: Twilio{
			AccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
			From:       os.Getenv("TWILIO_NUMBER"),
		},
		LogFormat: strings.ToLower(getenv("LOG_FORMAT", "text")),
	}

	switch cfg.DBDriver {
	case DriverSQLite, DriverPostgres, DriverMemory:
	default:
		return Config{}, fmt.Errorf("DB_DRIVER: unsupported driver %q", cfg.DBDriver)
	}

	var err error
	if cfg.Timezone, err = time.LoadLocation(getenv("TIMEZONE", "Local")); err != nil {
		return Config{}, fmt.Errorf("TIMEZONE: %w", err)
	}

	if cfg.SMSSandbox, err = strconv.ParseBool(getenv("SMS_SANDBOX", "false")); err != nil {
		return Config{}, fmt.Errorf("SMS_SANDBOX: %w", err)
	}

	if cfg.NotifyTimeout, err = time.ParseDuration(getenv("NOTIFY_TIMEOUT", "10s")); err != nil {
		return Config{}, fmt.Errorf("NOTIFY_TIMEOUT: %w", err)
	}
	if cfg.NotifyTimeout <= 0 {
		return Config{}, fmt.Errorf("NOTIFY_TIMEOUT: must be positive, got %s", cfg.NotifyTimeout)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getenv("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	return cfg, nil
}

// Logger builds the process logger described by LogFormat and LogLevel.
func (c Config) Logger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
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
