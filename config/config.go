package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// DefaultFeedCacheTTL bounds how stale the cached global feed may get.
const DefaultFeedCacheTTL = 20 * time.Second

type Config struct {
	Port         string
	GinMode      string
	FrontOrigins []string

	DBUser string
	DBPass string
	DBHost string
	DBName string

	RedisAddr    string
	FeedCacheTTL time.Duration

	StorageBucket string
}

// Load reads the configuration from the environment. Only the pieces a
// request cannot proceed without are required.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          os.Getenv("PORT"),
		GinMode:       os.Getenv("GIN_MODE"),
		FrontOrigins:  strings.Split(os.Getenv("FE_ORIGINS"), ";"),
		DBUser:        os.Getenv("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"),
		DBHost:        os.Getenv("DB_HOST"),
		DBName:        getEnvDefault("DB_NAME", "inkwell"),
		RedisAddr:     getEnvDefault("REDIS_ADDR", "localhost:6379"),
		FeedCacheTTL:  DefaultFeedCacheTTL,
		StorageBucket: os.Getenv("STORAGE_BUCKET"),
	}
	if cfg.Port == "" {
		return nil, fmt.Errorf("$PORT must be set")
	}
	if cfg.DBHost == "" {
		return nil, fmt.Errorf("$DB_HOST must be set")
	}
	if ttl := os.Getenv("FEED_CACHE_TTL"); ttl != "" {
		parsed, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid $FEED_CACHE_TTL: %w", err)
		}
		cfg.FeedCacheTTL = parsed
	}
	return cfg, nil
}

func getEnvDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
