// Package config provides configuration management for MatchSignals.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration.
type Config struct {
	// football-data.org settings
	FootballDataAPIKey   string
	FootballDataEndpoint string

	// News search settings
	TavilyAPIKey string

	// LLM settings (any OpenAI-compatible endpoint)
	LLMAPIKey      string
	LLMEndpoint    string
	LLMModel       string
	LLMTemperature float32

	// MongoDB settings, empty URI disables the prediction journal
	MongoURI string
	MongoDB  string

	// Server settings
	HTTPAddr string
	Debug    bool
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Try to load .env file
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	cfg := &Config{
		// football-data.org
		FootballDataAPIKey:   getEnv("FOOTBALL_DATA_API_KEY", ""),
		FootballDataEndpoint: getEnv("FOOTBALL_DATA_ENDPOINT", "https://api.football-data.org/v4"),

		// News
		TavilyAPIKey: getEnv("TAVILY_API_KEY", ""),

		// LLM
		LLMAPIKey:      getEnv("LLM_API_KEY", getEnv("GEMINI_API_KEY", getEnv("API_KEY", ""))),
		LLMEndpoint:    getEnv("LLM_ENDPOINT", "https://generativelanguage.googleapis.com/v1beta/openai/"),
		LLMModel:       getEnv("LLM_MODEL", "gemini-2.5-flash"),
		LLMTemperature: float32(getEnvFloat("LLM_TEMPERATURE", 0.5)),

		// MongoDB
		MongoURI: getEnv("MONGO_URI", ""),
		MongoDB:  getEnv("MONGO_DB", "matchsignals"),

		// Server
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		Debug:    getEnvBool("DEBUG", false),
	}

	return cfg, nil
}

// Validate checks if required configuration is present.
func (c *Config) Validate() error {
	if c.FootballDataAPIKey == "" {
		log.Warn().Msg("FOOTBALL_DATA_API_KEY not set, fixtures and predictions will fail")
	}
	if c.TavilyAPIKey == "" {
		log.Warn().Msg("TAVILY_API_KEY not set, team news will fail")
	}
	if c.LLMAPIKey == "" {
		log.Warn().Msg("LLM_API_KEY not set, predictions will use the fallback heuristic")
	}
	if c.MongoURI == "" {
		log.Info().Msg("MONGO_URI not set, prediction journal disabled")
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
