package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	ServerPort string
	LogLevel   string

	KnowledgeDir string

	MaxPagesToScrape    int
	RequestTimeout      time.Duration
	MaxRetries          int
	PoliteDelay         time.Duration
	BatchSize           int
	MaxFallbackSearches int
	ConfidenceThreshold int
	RobotsTTL           time.Duration

	OpenAIAPIKey string
	OpenAIModel  string

	// Optional backends. Empty values wire the in-process / noop fallbacks.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	PostgresDSN   string
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		KnowledgeDir:        getEnv("KNOWLEDGE_DIR", "knowledge_files"),
		MaxPagesToScrape:    getEnvAsInt("MAX_PAGES_TO_SCRAPE", 10),
		RequestTimeout:      getEnvAsSeconds("REQUEST_TIMEOUT_SECONDS", 15),
		MaxRetries:          getEnvAsInt("MAX_RETRIES", 3),
		PoliteDelay:         getEnvAsMillis("POLITE_DELAY_MS", 500),
		BatchSize:           getEnvAsInt("BATCH_SIZE", 3),
		MaxFallbackSearches: getEnvAsInt("MAX_FALLBACK_SEARCHES", 5),
		ConfidenceThreshold: getEnvAsInt("CONFIDENCE_THRESHOLD", 7),
		RobotsTTL:           getEnvAsSeconds("ROBOTS_TTL_SECONDS", 3600),
		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:         getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		RedisAddr:           getEnv("REDIS_ADDR", ""),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             getEnvAsInt("REDIS_DB", 0),
		PostgresDSN:         getEnv("POSTGRES_DSN", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsSeconds(key string, fallback int) time.Duration {
	return time.Duration(getEnvAsInt(key, fallback)) * time.Second
}

func getEnvAsMillis(key string, fallback int) time.Duration {
	return time.Duration(getEnvAsInt(key, fallback)) * time.Millisecond
}
