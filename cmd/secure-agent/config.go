package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/archestra-ai/secure-agent/provider/openai"
	"github.com/joho/godotenv"
)

const (
	// DefaultArchestraBaseURL is the security proxy endpoint used with --secure.
	DefaultArchestraBaseURL = "http://host.docker.internal:9000/v1"

	defaultMaxSteps = 50
	defaultLogLevel = "warn"
)

// Config holds the run configuration loaded from environment variables.
type Config struct {
	// Credentials
	OpenAIKey   string
	GitHubToken string

	// Endpoints
	OpenAIBaseURL    string
	ArchestraBaseURL string
	Secure           bool // route model traffic through Archestra

	// Agent
	Model    string
	MaxSteps int

	LogLevel string // debug, info, warn, error
}

// LoadConfig loads configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
func LoadConfig() *Config {
	godotenv.Load()

	return &Config{
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		GitHubToken:      os.Getenv("GITHUB_TOKEN"),
		OpenAIBaseURL:    getEnvOrDefault("OPENAI_BASE_URL", openai.DefaultBaseURL),
		ArchestraBaseURL: getEnvOrDefault("ARCHESTRA_BASE_URL", DefaultArchestraBaseURL),
		Model:            getEnvOrDefault("AGENT_MODEL", openai.DefaultChatModel.String()),
		MaxSteps:         getEnvIntOrDefault("AGENT_MAX_STEPS", defaultMaxSteps),
		LogLevel:         getEnvOrDefault("AGENT_LOG_LEVEL", defaultLogLevel),
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("AGENT_MAX_STEPS must not be negative, got %d", c.MaxSteps)
	}
	if _, err := c.slogLevel(); err != nil {
		return fmt.Errorf("invalid AGENT_LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return nil
}

// BaseURL returns the endpoint model traffic is sent to.
func (c *Config) BaseURL() string {
	if c.Secure {
		return c.ArchestraBaseURL
	}
	return c.OpenAIBaseURL
}

// Mode returns the banner label for the routing mode.
func (c *Config) Mode() string {
	if c.Secure {
		return "🔒 Archestra-secured"
	}
	return "⚠️  Direct OpenAI (UNSAFE)"
}

// NewProvider builds the chat provider for this configuration.
func (c *Config) NewProvider() *openai.Client {
	return openai.New(c.OpenAIKey,
		openai.WithBaseURL(c.BaseURL()),
		openai.WithModel(openai.ChatModel(c.Model)),
	)
}

func (c *Config) slogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.LogLevel))
	return level, err
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
