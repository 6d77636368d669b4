package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	ServerPort  string `yaml:"server_port"`
	FrontendURL string `yaml:"frontend_url"`

	// StoreBackend selects the storage implementation: mongo, sqlite or postgres.
	StoreBackend  string `yaml:"store_backend"`
	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`
	SQLitePath    string `yaml:"sqlite_path"`
	DatabaseURL   string `yaml:"database_url"`

	// RedisURL enables Redis-backed rate limiting; empty falls back to the
	// in-memory limiter store.
	RedisURL  string `yaml:"redis_url"`
	RateLimit string `yaml:"rate_limit"`

	EnableHSTS      bool   `yaml:"enable_hsts"`
	ServerDebugMode bool   `yaml:"server_debug_mode"`
	OTELEnabled     bool   `yaml:"otel_enabled"`
	OTELEndpoint    string `yaml:"otel_endpoint"`
}

// Load loads configuration from an optional YAML file (CONFIG_FILE) with
// environment variables taking precedence.
func Load() (*Config, error) {
	cfg := &Config{}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.ServerPort = getEnv("SERVER_PORT", defaultString(cfg.ServerPort, "8080"))
	cfg.FrontendURL = getEnv("FRONTEND_URL", defaultString(cfg.FrontendURL, "http://localhost:3000"))
	cfg.StoreBackend = getEnv("STORE_BACKEND", defaultString(cfg.StoreBackend, "mongo"))
	cfg.MongoURI = getEnv("MONGO_URI", defaultString(cfg.MongoURI, "mongodb://localhost:27017"))
	cfg.MongoDatabase = getEnv("MONGO_DATABASE", defaultString(cfg.MongoDatabase, "mindtrack"))
	cfg.SQLitePath = getEnv("SQLITE_PATH", defaultString(cfg.SQLitePath, "mindtrack.db"))
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.RateLimit = getEnv("RATE_LIMIT", defaultString(cfg.RateLimit, "20-S"))
	cfg.EnableHSTS = getEnvBool("ENABLE_HSTS", cfg.EnableHSTS)
	cfg.ServerDebugMode = getEnvBool("SERVER_DEBUG_MODE", cfg.ServerDebugMode)
	cfg.OTELEnabled = getEnvBool("OTEL_ENABLED", cfg.OTELEnabled)
	cfg.OTELEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTELEndpoint)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case "mongo":
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for the mongo backend")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("invalid STORE_BACKEND: %s (must be 'mongo', 'sqlite', or 'postgres')", c.StoreBackend)
	}
	return nil
}

func defaultString(current, fallback string) string {
	if current != "" {
		return current
	}
	return fallback
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
