package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Auth       AuthConfig
	Planning   PlanningConfig
	Scheduler  SchedulerConfig
	RosterPath string
	LogLevel   string
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port            string
	RateLimitPerSec float64
	RateLimitBurst  int
	CacheTTL        time.Duration
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN  string // Postgres; empty means SQLite at Path
	Path string
}

// AuthConfig holds the PIN gate and session token settings.
type AuthConfig struct {
	JWTSecret string
	AccessPin string
	TokenTTL  time.Duration
}

// PlanningConfig holds the monthly planning calendar settings.
type PlanningConfig struct {
	DeadlineDay      int
	HistoryLimit     int
	Timezone         string
	Location         *time.Location
	RolloverInterval time.Duration
}

// SchedulerConfig tunes the rota builder.
type SchedulerConfig struct {
	StreakLimit        int
	AllowDoubleBooking bool
}

// LoadEnvFiles loads the first .env file that exists. Missing files are not an error.
func LoadEnvFiles(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env", "../.env", "../../.env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

// Load builds the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getenv("PORT", "8000"),
		},
		Database: DatabaseConfig{
			DSN:  os.Getenv("DATABASE_URL"),
			Path: getenv("DATA_PATH", "rota.db"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			AccessPin: os.Getenv("ACCESS_PIN"),
		},
		Planning: PlanningConfig{
			Timezone: getenv("TIMEZONE", "Local"),
		},
		RosterPath: os.Getenv("ROSTER_PATH"),
		LogLevel:   getenv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.Server.RateLimitPerSec, err = getFloat("LOGIN_RATE_PER_SEC", 1); err != nil {
		return nil, err
	}
	if cfg.Server.RateLimitBurst, err = getInt("LOGIN_RATE_BURST", 5); err != nil {
		return nil, err
	}
	if cfg.Server.CacheTTL, err = getDuration("CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.Auth.TokenTTL, err = getDuration("TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.Planning.DeadlineDay, err = getInt("DEADLINE_DAY", 20); err != nil {
		return nil, err
	}
	if cfg.Planning.DeadlineDay < 1 || cfg.Planning.DeadlineDay > 28 {
		return nil, fmt.Errorf("DEADLINE_DAY must be between 1 and 28, got %d", cfg.Planning.DeadlineDay)
	}
	if cfg.Planning.HistoryLimit, err = getInt("HISTORY_LIMIT", 12); err != nil {
		return nil, err
	}
	if cfg.Planning.RolloverInterval, err = getDuration("ROLLOVER_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.Scheduler.StreakLimit, err = getInt("MAX_STREAK", 5); err != nil {
		return nil, err
	}
	if cfg.Scheduler.AllowDoubleBooking, err = getBool("ALLOW_DOUBLE_BOOKING", true); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Planning.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Planning.Timezone, err)
	}
	cfg.Planning.Location = loc

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return f, nil
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
