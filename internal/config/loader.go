package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage driver names accepted by BOOKING_STORAGE_DRIVER.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config captures environment driven configuration for the booking service.
type Config struct {
	HTTPPort             int
	StorageDriver        string
	SQLiteDSN            string
	SessionTTL           time.Duration
	AvailabilityCacheTTL time.Duration
	CORSAllowedOrigins   []string
}

// Load reads an optional .env file and then parses configuration from the
// process environment. Defaults cover every field; all invalid values are
// reported together. Session tokens are opaque random values checked against
// storage, so no signing secret is required.
func Load() (Config, error) {
	// A missing .env file is not an error; explicit environment wins.
	_ = godotenv.Load()

	cfg := Config{
		HTTPPort:             8080,
		StorageDriver:        DriverSQLite,
		SQLiteDSN:            "file:booking.db?_foreign_keys=on",
		SessionTTL:           24 * time.Hour,
		AvailabilityCacheTTL: 30 * time.Second,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("BOOKING_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "BOOKING_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if driver := strings.TrimSpace(strings.ToLower(os.Getenv("BOOKING_STORAGE_DRIVER"))); driver != "" {
		switch driver {
		case DriverMemory, DriverSQLite:
			cfg.StorageDriver = driver
		default:
			invalid = append(invalid, "BOOKING_STORAGE_DRIVER")
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("BOOKING_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if ttlValue := strings.TrimSpace(os.Getenv("BOOKING_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "BOOKING_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if ttlValue := strings.TrimSpace(os.Getenv("BOOKING_AVAILABILITY_CACHE_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl < 0 {
			invalid = append(invalid, "BOOKING_AVAILABILITY_CACHE_TTL")
		} else {
			cfg.AvailabilityCacheTTL = ttl
		}
	}

	if origins := strings.TrimSpace(os.Getenv("BOOKING_CORS_ALLOWED_ORIGINS")); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, trimmed)
			}
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
