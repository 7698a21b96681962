package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultSystemPrompt = "You are a helpful assistant for a cryptocurrency wallet app. " +
	"Answer questions about crypto assets, prices and general usage concisely."

// Config holds application configuration values loaded from environment variables.
type Config struct {
	HTTPPort string

	// Upstream chat-completion API.
	OpenAIKey       string
	OpenAIModel     string
	Temperature     float32
	TopP            float32
	MaxTokens       int
	UpstreamTimeout time.Duration
	SystemPrompt    string

	// Chat pipeline policy.
	ChatMaxAttempts    int
	ChatRetryDelay     time.Duration
	MaxHistoryMessages int // 0 disables transcript eviction

	// Price quote API.
	CMCKey               string
	CMCBaseURL           string
	PriceRefreshInterval time.Duration

	// Optional queue broker. When set, completions go through the
	// redis-backed worker instead of inline retries.
	RedisAddr string

	// Max in-flight requests admitted by the throttle middleware.
	MaxConcurrentRequests int
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file (useful for development)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Could not load .env file. Using environment variables only.", err)
		// Don't fail if .env is not present, might be in production
	}

	openAIKey := os.Getenv("OPENAI_API_KEY")
	if openAIKey == "" {
		log.Fatal("FATAL: OPENAI_API_KEY environment variable is not set.")
	}
	cmcKey := os.Getenv("CMC_API_KEY")
	if cmcKey == "" {
		log.Fatal("FATAL: CMC_API_KEY environment variable is not set.")
	}

	cfg := &Config{
		HTTPPort: getEnv("HTTP_PORT", "8080"),

		OpenAIKey:       openAIKey,
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		Temperature:     float32(getEnvFloat("OPENAI_TEMPERATURE", 0.7)),
		TopP:            float32(getEnvFloat("OPENAI_TOP_P", 1)),
		MaxTokens:       getEnvInt("OPENAI_MAX_TOKENS", 512),
		UpstreamTimeout: getEnvDuration("UPSTREAM_TIMEOUT_SECONDS", 30) * time.Second,
		SystemPrompt:    getEnv("SYSTEM_PROMPT", defaultSystemPrompt),

		ChatMaxAttempts:    getEnvInt("CHAT_MAX_ATTEMPTS", 3),
		ChatRetryDelay:     getEnvDuration("CHAT_RETRY_DELAY_SECONDS", 2) * time.Second,
		MaxHistoryMessages: getEnvInt("MAX_HISTORY_MESSAGES", 40),

		CMCKey:               cmcKey,
		CMCBaseURL:           getEnv("CMC_BASE_URL", "https://pro-api.coinmarketcap.com"),
		PriceRefreshInterval: getEnvDuration("PRICE_REFRESH_MINUTES", 5) * time.Minute,

		RedisAddr: getEnv("REDIS_ADDR", ""),

		MaxConcurrentRequests: getEnvInt("MAX_CONCURRENT_REQUESTS", 100),
	}

	log.Printf("Loaded config: Port=%s, Model=%s, MaxAttempts=%d, RefreshInterval=%s, Redis=%q",
		cfg.HTTPPort, cfg.OpenAIModel, cfg.ChatMaxAttempts, cfg.PriceRefreshInterval, cfg.RedisAddr)

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Warning: invalid value for %s=%q, using default %d. Error: %v", key, raw, fallback, err)
		return fallback
	}
	return v
}

func getEnvFloat(key string, fallback float64) float64 {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("Warning: invalid value for %s=%q, using default %g. Error: %v", key, raw, fallback, err)
		return fallback
	}
	return v
}

// getEnvDuration reads an integer count of units; the caller multiplies by
// the unit (seconds, minutes) it documents for the key.
func getEnvDuration(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback))
}
