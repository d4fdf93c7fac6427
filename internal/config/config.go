// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	TelegramBotToken string
	DatabasePath     string
	LogLevel         string
	CheckInterval    time.Duration
	RelevanceWindow  time.Duration
	FeedLang         string
	FeedCountry      string
	FeedCeid         string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./data/farofino.db"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	intervalSec, err := intEnv("CHECK_INTERVAL_SECONDS", 300)
	if err != nil {
		return nil, err
	}
	if intervalSec < 10 {
		return nil, fmt.Errorf("CHECK_INTERVAL_SECONDS must be at least 10, got %d", intervalSec)
	}

	windowDays, err := intEnv("RELEVANCE_WINDOW_DAYS", 3)
	if err != nil {
		return nil, err
	}
	if windowDays < 1 {
		return nil, fmt.Errorf("RELEVANCE_WINDOW_DAYS must be at least 1, got %d", windowDays)
	}

	return &Config{
		TelegramBotToken: token,
		DatabasePath:     dbPath,
		LogLevel:         logLevel,
		CheckInterval:    time.Duration(intervalSec) * time.Second,
		RelevanceWindow:  time.Duration(windowDays) * 24 * time.Hour,
		FeedLang:         envOrDefault("FEED_LANG", "pt-BR"),
		FeedCountry:      envOrDefault("FEED_COUNTRY", "BR"),
		FeedCeid:         envOrDefault("FEED_CEID", "BR:pt-419"),
	}, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}
