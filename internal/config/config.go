package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabasePath         string
	RedisURL             string
	StateBackend         string // "sqlite" or "redis"
	Environment          string
	AutoSaveInterval     time.Duration
	ProgressHistoryLimit int
	ResultHistoryLimit   int
	Events               EventConfig
}

func LoadConfig() (*Config, error) {
	// Missing .env is fine; env vars and defaults still apply.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return &Config{
		DatabasePath:         getEnv("DATABASE_PATH", "mocktest.db"),
		RedisURL:             getEnv("REDIS_URL", "redis://localhost:6379"),
		StateBackend:         getEnv("STATE_BACKEND", "sqlite"),
		Environment:          getEnv("ENVIRONMENT", "development"),
		AutoSaveInterval:     getEnvDuration("AUTOSAVE_INTERVAL", 30*time.Second),
		ProgressHistoryLimit: getEnvInt("PROGRESS_HISTORY_LIMIT", 50),
		ResultHistoryLimit:   getEnvInt("RESULT_HISTORY_LIMIT", 200),
		Events: EventConfig{
			Enabled:    getEnvBool("EVENTS_ENABLED", true),
			Publisher:  getEnv("EVENTS_PUBLISHER", "channel"),
			Topic:      getEnv("NOTIFICATION_TOPIC", "mocktest_notifications"),
			BufferSize: int64(getEnvInt("EVENTS_BUFFER_SIZE", 64)),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
