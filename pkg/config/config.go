package config

import (
	"os"
	"strconv"
	"time"
)

// Application settings
type Config struct {
	Server   ServerConfig
	Logging  LoggingConfig
	Upstream UpstreamConfig
	Analysis AnalysisConfig
}

// Server settings
type ServerConfig struct {
	Port string
}

// Upstream transparency API settings
type UpstreamConfig struct {
	APIURL             string
	APIKey             string
	RequestTimeout     time.Duration
	MaxRetries         int
	RetryBackoff       time.Duration
	TranscriptTimeout  time.Duration
	RateLimitPerSecond int
}

// Analysis window and scoring context
type AnalysisConfig struct {
	WindowDays       int
	Region           string
	Vertical         string
	SnapshotLookback int
	CreativeLookback int
}

// Logging settings
type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
		},
		Upstream: UpstreamConfig{
			APIURL:             getEnv("UPSTREAM_API_URL", "https://serpapi.com/search.json"),
			APIKey:             getEnv("UPSTREAM_API_KEY", ""),
			RequestTimeout:     getDurationEnv("UPSTREAM_TIMEOUT", "15s"),
			MaxRetries:         getIntEnv("UPSTREAM_RETRIES", 2),
			RetryBackoff:       getDurationEnv("UPSTREAM_RETRY_BACKOFF", "400ms"),
			TranscriptTimeout:  getDurationEnv("TRANSCRIPT_TIMEOUT", "1800ms"),
			RateLimitPerSecond: getIntEnv("RATE_LIMIT_PER_SECOND", 10),
		},
		Analysis: AnalysisConfig{
			WindowDays:       getIntEnv("WINDOW_DAYS", 365),
			Region:           getEnv("REGION", "US"),
			Vertical:         getEnv("VERTICAL", "other"),
			SnapshotLookback: getIntEnv("SNAPSHOT_LOOKBACK_DAYS", 120),
			CreativeLookback: getIntEnv("CREATIVE_LOOKBACK_DAYS", 60),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
