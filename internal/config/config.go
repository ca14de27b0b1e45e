package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// AMap
	AMapKey     string
	AMapBaseURL string

	// Notes
	FlomoAPIURL string

	// Division table; empty means the bundled table
	AdcodeTable string

	// HTTP
	HTTPTimeout time.Duration
	HTTPRetries int

	// Cache
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Observability
	MetricsAddr string
	LogLevel    string
	LogFormat   string
}

// Load reads the configuration from the environment, after loading .env if it exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AMapKey:     getEnv("AMAP_KEY", ""),
		AMapBaseURL: getEnv("AMAP_BASE_URL", "https://restapi.amap.com"),

		FlomoAPIURL: getEnv("FLOMO_API_URL", ""),

		AdcodeTable: getEnv("ADCODE_TABLE", ""),

		HTTPTimeout: getEnvAsDuration("HTTP_TIMEOUT", 10*time.Second),
		HTTPRetries: getEnvAsInt("HTTP_RETRIES", 2),

		CacheTTL:      getEnvAsDuration("CACHE_TTL", 10*time.Minute),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		MetricsAddr: getEnv("METRICS_ADDR", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
