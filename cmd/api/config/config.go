package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"ame_support_backend/internal/database"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderGemini LLMProvider = "gemini"
	ProviderMock   LLMProvider = "mock"
)

type Config struct {
	Port           string
	AllowedOrigins []string

	Database database.Config

	LLMProvider  LLMProvider
	OpenAIAPIKey string
	OpenAIModel  string
	GeminiAPIKey string
	GeminiModel  string
	LLMTimeout   time.Duration

	HistoryWindow int

	JWTSecret string
	JWTTTL    time.Duration

	SessionLockBackend string // "local" or "redis"
	SessionLockTTL     time.Duration
	RedisAddr          string
	RedisPassword      string

	AlertPingInterval time.Duration

	TranscriptFontPath string

	LogLevel  string
	LogFormat string

	AdminEmail    string
	AdminPassword string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDurationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getIntEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "3000"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
		Database: database.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "ame"),
			Port:     getEnv("DB_PORT", "5432"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4"),
		GeminiAPIKey:       os.Getenv("GOOGLE_AI_STUDIO_API_KEY"),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		SessionLockBackend: getEnv("SESSION_LOCK_BACKEND", "local"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		TranscriptFontPath: os.Getenv("TRANSCRIPT_FONT_PATH"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		AdminEmail:         getEnv("ADMIN_EMAIL", "admin@ame.com"),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
	}

	var err error
	if cfg.LLMTimeout, err = getDurationEnv("LLM_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.JWTTTL, err = getDurationEnv("JWT_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SessionLockTTL, err = getDurationEnv("SESSION_LOCK_TTL", 45*time.Second); err != nil {
		return nil, err
	}
	if cfg.AlertPingInterval, err = getDurationEnv("ALERT_PING_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.HistoryWindow, err = getIntEnv("HISTORY_WINDOW", 10); err != nil {
		return nil, err
	}

	cfg.LLMProvider = LLMProvider(os.Getenv("LLM_PROVIDER"))
	if cfg.LLMProvider == "" {
		switch {
		case cfg.OpenAIAPIKey != "":
			cfg.LLMProvider = ProviderOpenAI
		case cfg.GeminiAPIKey != "":
			cfg.LLMProvider = ProviderGemini
		default:
			cfg.LLMProvider = ProviderMock
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.LLMProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return errors.New("GOOGLE_AI_STUDIO_API_KEY is required for the gemini provider")
		}
	case ProviderMock:
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}

	switch c.SessionLockBackend {
	case "local", "redis":
	default:
		return fmt.Errorf("unknown SESSION_LOCK_BACKEND %q", c.SessionLockBackend)
	}

	if c.HistoryWindow < 0 {
		return errors.New("HISTORY_WINDOW must not be negative")
	}
	return nil
}

// RequireJWTSecret reports an error when no signing secret is configured.
// The seed command does not issue tokens and skips this check.
func (c *Config) RequireJWTSecret() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set in the environment")
	}
	return nil
}
