package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the report service.
type Config struct {
	AppName               string
	AppEnv                string
	AppPort               string
	LogLevel              string
	DatabaseDriver        string
	DatabaseURL           string
	RedisURL              string
	NATSURL               string
	RealtimeChannel       string
	ReportTimezone        string
	ReportLocation        *time.Location
	ReportSnapshotTTL     time.Duration
	ReportNow             *time.Time
	NotificationKeepAlive time.Duration
	ExportRateLimit       int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Clock returns the time source for report periods. A pinned REPORT_NOW wins over the wall clock.
func (c Config) Clock() func() time.Time {
	if c.ReportNow != nil {
		pinned := *c.ReportNow
		return func() time.Time { return pinned }
	}
	loc := c.ReportLocation
	if loc == nil {
		loc = time.UTC
	}
	return func() time.Time { return time.Now().In(loc) }
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PUSTAKA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Pustaka Activity API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.url", "file::memory:?cache=shared")
	v.SetDefault("realtime.channel", "pustaka")
	v.SetDefault("report.timezone", "Asia/Jakarta")
	v.SetDefault("report.snapshot_ttl", "10s")
	v.SetDefault("notification.keepalive", "30s")
	v.SetDefault("export.rate_limit", 30)

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	snapshotTTL, err := parseDuration(v.GetString("report.snapshot_ttl"), 10*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("invalid report snapshot ttl: %w", err)
	}

	keepAlive, err := parseDuration(v.GetString("notification.keepalive"), 30*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("invalid notification keepalive: %w", err)
	}

	timezone := strings.TrimSpace(v.GetString("report.timezone"))
	if timezone == "" {
		timezone = "UTC"
	}
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return Config{}, fmt.Errorf("invalid report timezone: %w", err)
	}

	cfg := Config{
		AppName:               v.GetString("app.name"),
		AppEnv:                v.GetString("app.env"),
		AppPort:               v.GetString("app.port"),
		LogLevel:              strings.ToLower(v.GetString("log.level")),
		DatabaseDriver:        strings.ToLower(strings.TrimSpace(v.GetString("database.driver"))),
		DatabaseURL:           v.GetString("database.url"),
		RedisURL:              v.GetString("redis.url"),
		NATSURL:               v.GetString("nats.url"),
		RealtimeChannel:       v.GetString("realtime.channel"),
		ReportTimezone:        timezone,
		ReportLocation:        location,
		ReportSnapshotTTL:     snapshotTTL,
		NotificationKeepAlive: keepAlive,
		ExportRateLimit:       v.GetInt("export.rate_limit"),
	}

	if raw := strings.TrimSpace(v.GetString("report.now")); raw != "" {
		pinned, err := parseReportNow(raw, location)
		if err != nil {
			return Config{}, fmt.Errorf("invalid report now: %w", err)
		}
		cfg.ReportNow = &pinned
	}

	switch cfg.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return Config{}, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	if cfg.ExportRateLimit <= 0 {
		cfg.ExportRateLimit = 30
	}

	return cfg, nil
}

func parseDuration(raw string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	return time.ParseDuration(raw)
}

func parseReportNow(raw string, loc *time.Location) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed.In(loc), nil
	}
	return time.ParseInLocation("2006-01-02 15:04", raw, loc)
}
