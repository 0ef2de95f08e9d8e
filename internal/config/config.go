package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type ProviderConfig struct {
	Name    string
	BaseURL string
	APIKey  string
}

type Config struct {
	Port       string
	Env        string
	AppVersion string

	BreakerThreshold int
	BreakerTimeout   time.Duration
	RetryAttempts    int
	DailyTokenLimit  int

	Primary  ProviderConfig
	Fallback ProviderConfig

	ChatBaseURL string
	ChatAPIKey  string
	ChatModel   string

	EmbeddingsBaseURL string
	EmbeddingsAPIKey  string
	EmbeddingsModel   string

	RedisAddr        string
	QdrantHost       string
	QdrantPort       int
	QdrantCollection string

	// Stream pacing; set to 0 for non-interactive callers.
	StreamPace time.Duration
	WordPace   time.Duration
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.WithField("key", key).Warnf("invalid integer %q, using default %d", v, def)
		return def
	}
	return n
}

// Load reads all env vars and builds the config.
func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Info(".env file not found, using system environment variables")
	}

	return &Config{
		Port:       getEnv("PORT", "8080"),
		Env:        getEnv("ENV", "dev"),
		AppVersion: getEnv("APP_VERSION", "dev"),

		BreakerThreshold: getIntEnv("AI_CIRCUIT_BREAKER_THRESHOLD", 5),
		BreakerTimeout:   time.Duration(getIntEnv("AI_CIRCUIT_BREAKER_TIMEOUT_MS", 60000)) * time.Millisecond,
		RetryAttempts:    getIntEnv("AI_RETRY_ATTEMPTS", 3),
		DailyTokenLimit:  getIntEnv("DAILY_TOKEN_LIMIT", 1000),

		Primary: ProviderConfig{
			Name:    getEnv("AI_PRIMARY_PROVIDER", "groq"),
			BaseURL: os.Getenv("AI_PRIMARY_BASE_URL"),
			APIKey:  os.Getenv("AI_PRIMARY_API_KEY"),
		},
		Fallback: ProviderConfig{
			Name:    getEnv("AI_FALLBACK_PROVIDER", "openai"),
			BaseURL: os.Getenv("AI_FALLBACK_BASE_URL"),
			APIKey:  os.Getenv("AI_FALLBACK_API_KEY"),
		},

		ChatBaseURL: getEnv("CHAT_BASE_URL", "https://api.groq.com/openai/v1"),
		ChatAPIKey:  os.Getenv("CHAT_API_KEY"),
		ChatModel:   getEnv("CHAT_MODEL", "llama-3.3-70b-versatile"),

		EmbeddingsBaseURL: getEnv("EMBEDDINGS_BASE_URL", "https://api.openai.com/v1"),
		EmbeddingsAPIKey:  os.Getenv("EMBEDDINGS_API_KEY"),
		EmbeddingsModel:   getEnv("EMBEDDINGS_MODEL", "text-embedding-ada-002"),

		RedisAddr:        os.Getenv("REDIS_ADDR"),
		QdrantHost:       os.Getenv("QDRANT_HOST"),
		QdrantPort:       getIntEnv("QDRANT_PORT", 6334),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "learnify_content"),

		StreamPace: time.Duration(getIntEnv("STREAM_PACE_MS", 30)) * time.Millisecond,
		WordPace:   time.Duration(getIntEnv("WORD_PACE_MS", 50)) * time.Millisecond,
	}
}
