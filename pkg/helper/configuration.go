package helper

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	database "github.com/yishak-cs/bites/internal/database"
	"github.com/yishak-cs/bites/internal/keys"
	"github.com/yishak-cs/bites/internal/services"
	"github.com/yishak-cs/bites/internal/weather"
)

// Config is the process configuration
type Config struct {
	Redis          database.Config
	KeyPrefix      string
	WeatherAPIKey  string
	WeatherBaseURL string
	WeatherTTL     time.Duration
	RankDescending bool
	Port           string
	SeedFile       string
}

// LoadConfigFromEnv loads configuration from environment variables
func LoadConfigFromEnv() Config {
	return Config{
		Redis: database.Config{
			Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       getIntOrDefault("REDIS_DB", 0),
		},
		KeyPrefix:      getEnvOrDefault("KEY_PREFIX", keys.DefaultPrefix),
		WeatherAPIKey:  getEnvOrDefault("WEATHER_API_KEY", ""),
		WeatherBaseURL: getEnvOrDefault("WEATHER_BASE_URL", weather.DefaultBaseURL),
		WeatherTTL:     getDurationOrDefault("WEATHER_TTL", services.DefaultWeatherTTL),
		RankDescending: !strings.EqualFold(getEnvOrDefault("RANKING_ORDER", "desc"), "asc"),
		Port:           getEnvOrDefault("APP_PORT", "8080"),
		SeedFile:       getEnvOrDefault("SEED_FILE", ""),
	}
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	raw := getEnvOrDefault(key, "")
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, raw, defaultValue)
		return defaultValue
	}
	return value
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	raw := getEnvOrDefault(key, "")
	if raw == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		log.Printf("Warning: invalid %s=%q, using %s", key, raw, defaultValue)
		return defaultValue
	}
	return value
}
