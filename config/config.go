package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	// Production switches structured logging to JSON
	Production bool

	// Database configuration
	Database DatabaseConfig

	// Market data providers
	Yahoo  YahooConfig
	Alpaca AlpacaConfig

	// Advisor backends
	Ollama  OllamaConfig
	OpenAI  OpenAIConfig
	Bedrock BedrockConfig

	// News feed source
	News NewsConfig

	// Engine configuration
	Engine EngineConfig

	// Screener configuration
	Screener ScreenerConfig

	// HTTP configuration
	HTTP HTTPConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// YahooConfig holds Yahoo Finance chart API configuration
type YahooConfig struct {
	BaseURL string
}

// AlpacaConfig holds Alpaca market data configuration
type AlpacaConfig struct {
	APIKey    string
	APISecret string
	BaseURL   string
}

// OllamaConfig holds the local Ollama advisor configuration
type OllamaConfig struct {
	Host  string
	Model string
}

// OpenAIConfig holds OpenAI advisor configuration
type OpenAIConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
}

// BedrockConfig holds AWS Bedrock advisor configuration
type BedrockConfig struct {
	Region    string
	ModelID   string
	MaxTokens int
}

// NewsConfig holds news feed search configuration
type NewsConfig struct {
	BaseURL  string
	MaxItems int
}

// EngineConfig holds analysis engine configuration
type EngineConfig struct {
	LookbackMonths      int
	RSIPeriod           int
	TrendWindow         int
	ConcurrencyLimit    int
	TimeoutSeconds      int
	SnapshotCacheTTLSec int
	AdvisorProbeTTLSec  int
}

// ScreenerConfig holds watchlist screener configuration
type ScreenerConfig struct {
	Symbols       []string
	CronSpec      string
	MaxConcurrent int
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Port               string
	CORSAllowedOrigins string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Production: getEnvString("APP_ENV", "development") == "production",
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Yahoo: YahooConfig{
			BaseURL: getEnvString("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
		},
		Alpaca: AlpacaConfig{
			APIKey:    os.Getenv("ALPACA_API_KEY"),
			APISecret: os.Getenv("ALPACA_API_SECRET"),
			BaseURL:   getEnvString("ALPACA_BASE_URL", "https://paper-api.alpaca.markets"),
		},
		Ollama: OllamaConfig{
			Host:  getEnvString("OLLAMA_HOST", "http://localhost:11434"),
			Model: getEnvString("OLLAMA_MODEL", "phi3.5"),
		},
		OpenAI: OpenAIConfig{
			APIKey:    os.Getenv("OPENAI_API_KEY"),
			Model:     getEnvString("OPENAI_MODEL", "gpt-4o-mini"),
			MaxTokens: getEnvInt("OPENAI_MAX_TOKENS", 1024),
		},
		Bedrock: BedrockConfig{
			Region:    os.Getenv("AWS_REGION"),
			ModelID:   os.Getenv("BEDROCK_MODEL_ID"),
			MaxTokens: getEnvInt("BEDROCK_MAX_TOKENS", 1024),
		},
		News: NewsConfig{
			BaseURL:  getEnvString("NEWS_FEED_BASE_URL", "https://news.google.com/rss/search"),
			MaxItems: getEnvInt("NEWS_MAX_ITEMS", 5),
		},
		Engine: EngineConfig{
			LookbackMonths:      getEnvInt("ENGINE_LOOKBACK_MONTHS", 6),
			RSIPeriod:           getEnvInt("ENGINE_RSI_PERIOD", 14),
			TrendWindow:         getEnvInt("ENGINE_TREND_WINDOW", 50),
			ConcurrencyLimit:    getEnvInt("ENGINE_CONCURRENCY_LIMIT", 3),
			TimeoutSeconds:      getEnvInt("ENGINE_TIMEOUT_SECONDS", 30),
			SnapshotCacheTTLSec: getEnvInt("ENGINE_SNAPSHOT_CACHE_TTL_SECONDS", 60),
			AdvisorProbeTTLSec:  getEnvInt("ENGINE_ADVISOR_PROBE_TTL_SECONDS", 300),
		},
		Screener: ScreenerConfig{
			Symbols:       getEnvList("SCREENER_SYMBOLS", []string{"BTC-USD", "AAPL", "RELIANCE.NS"}),
			CronSpec:      getEnvString("SCREENER_CRON", "0 0 * * * *"),
			MaxConcurrent: getEnvInt("SCREENER_MAX_CONCURRENT", 3),
		},
		HTTP: HTTPConfig{
			Port:               getEnvString("HTTP_PORT", "8080"),
			CORSAllowedOrigins: getEnvString("CORS_ALLOWED_ORIGINS", "*"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Engine.RSIPeriod <= 1 {
		return fmt.Errorf("ENGINE_RSI_PERIOD must be greater than 1, got %d", c.Engine.RSIPeriod)
	}
	if c.Engine.TrendWindow <= 1 {
		return fmt.Errorf("ENGINE_TREND_WINDOW must be greater than 1, got %d", c.Engine.TrendWindow)
	}
	if c.Engine.LookbackMonths <= 0 {
		return fmt.Errorf("ENGINE_LOOKBACK_MONTHS must be positive, got %d", c.Engine.LookbackMonths)
	}
	if c.Engine.ConcurrencyLimit <= 0 {
		return fmt.Errorf("ENGINE_CONCURRENCY_LIMIT must be positive, got %d", c.Engine.ConcurrencyLimit)
	}
	if c.Engine.TimeoutSeconds <= 0 {
		return fmt.Errorf("ENGINE_TIMEOUT_SECONDS must be positive, got %d", c.Engine.TimeoutSeconds)
	}
	if c.News.MaxItems <= 0 {
		return fmt.Errorf("NEWS_MAX_ITEMS must be positive, got %d", c.News.MaxItems)
	}
	if len(c.Screener.Symbols) == 0 {
		return fmt.Errorf("SCREENER_SYMBOLS must contain at least one symbol")
	}
	return nil
}

// HasDatabase returns true if database configuration is available
func (c *Config) HasDatabase() bool {
	return c.Database.URL != ""
}

// HasAlpaca returns true if Alpaca credentials are available
func (c *Config) HasAlpaca() bool {
	return c.Alpaca.APIKey != "" && c.Alpaca.APISecret != ""
}

// HasOpenAI returns true if OpenAI configuration is available
func (c *Config) HasOpenAI() bool {
	return c.OpenAI.APIKey != ""
}

// HasBedrock returns true if Bedrock configuration is available
func (c *Config) HasBedrock() bool {
	return c.Bedrock.Region != "" && c.Bedrock.ModelID != ""
}

func getEnvString(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// NewTestConfig creates a Config with default values for testing
func NewTestConfig() *Config {
	return &Config{
		Yahoo: YahooConfig{
			BaseURL: "https://query1.finance.yahoo.com",
		},
		Alpaca: AlpacaConfig{
			BaseURL: "https://paper-api.alpaca.markets",
		},
		Ollama: OllamaConfig{
			Host:  "http://localhost:11434",
			Model: "phi3.5",
		},
		OpenAI: OpenAIConfig{
			Model:     "gpt-4o-mini",
			MaxTokens: 1024,
		},
		News: NewsConfig{
			BaseURL:  "https://news.google.com/rss/search",
			MaxItems: 5,
		},
		Engine: EngineConfig{
			LookbackMonths:      6,
			RSIPeriod:           14,
			TrendWindow:         50,
			ConcurrencyLimit:    3,
			TimeoutSeconds:      30,
			SnapshotCacheTTLSec: 60,
			AdvisorProbeTTLSec:  300,
		},
		Screener: ScreenerConfig{
			Symbols:       []string{"BTC-USD", "AAPL", "RELIANCE.NS"},
			CronSpec:      "0 0 * * * *",
			MaxConcurrent: 3,
		},
		HTTP: HTTPConfig{
			Port:               "8080",
			CORSAllowedOrigins: "*",
		},
	}
}
