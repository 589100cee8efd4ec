package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear any ambient configuration that could leak into the test
	for _, key := range []string{
		"DATABASE_URL", "YAHOO_BASE_URL", "OLLAMA_HOST", "OLLAMA_MODEL",
		"NEWS_MAX_ITEMS", "ENGINE_RSI_PERIOD", "ENGINE_TREND_WINDOW",
		"SCREENER_SYMBOLS", "HTTP_PORT",
	} {
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Yahoo.BaseURL != "https://query1.finance.yahoo.com" {
		t.Errorf("Yahoo.BaseURL = %v, want default", cfg.Yahoo.BaseURL)
	}
	if cfg.Ollama.Model != "phi3.5" {
		t.Errorf("Ollama.Model = %v, want 'phi3.5'", cfg.Ollama.Model)
	}
	if cfg.Engine.RSIPeriod != 14 {
		t.Errorf("Engine.RSIPeriod = %v, want 14", cfg.Engine.RSIPeriod)
	}
	if cfg.Engine.TrendWindow != 50 {
		t.Errorf("Engine.TrendWindow = %v, want 50", cfg.Engine.TrendWindow)
	}
	if cfg.News.MaxItems != 5 {
		t.Errorf("News.MaxItems = %v, want 5", cfg.News.MaxItems)
	}
	if len(cfg.Screener.Symbols) != 3 {
		t.Errorf("Screener.Symbols = %v, want 3 defaults", cfg.Screener.Symbols)
	}
	if cfg.HasDatabase() {
		t.Error("HasDatabase() = true with no DATABASE_URL")
	}
}

func TestLoad_ScreenerSymbolsFromEnv(t *testing.T) {
	os.Setenv("SCREENER_SYMBOLS", "ETH-USD, TSLA ,,HDFCBANK.NS")
	defer os.Unsetenv("SCREENER_SYMBOLS")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []string{"ETH-USD", "TSLA", "HDFCBANK.NS"}
	if len(cfg.Screener.Symbols) != len(want) {
		t.Fatalf("Screener.Symbols = %v, want %v", cfg.Screener.Symbols, want)
	}
	for i, sym := range want {
		if cfg.Screener.Symbols[i] != sym {
			t.Errorf("Screener.Symbols[%d] = %v, want %v", i, cfg.Screener.Symbols[i], sym)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"rsi period too small", func(c *Config) { c.Engine.RSIPeriod = 1 }, true},
		{"trend window too small", func(c *Config) { c.Engine.TrendWindow = 0 }, true},
		{"zero lookback", func(c *Config) { c.Engine.LookbackMonths = 0 }, true},
		{"zero concurrency", func(c *Config) { c.Engine.ConcurrencyLimit = 0 }, true},
		{"zero news items", func(c *Config) { c.News.MaxItems = 0 }, true},
		{"empty screener list", func(c *Config) { c.Screener.Symbols = nil }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewTestConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_ProductionFromEnv(t *testing.T) {
	os.Unsetenv("APP_ENV")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Production {
		t.Error("Production = true without APP_ENV")
	}

	os.Setenv("APP_ENV", "production")
	defer os.Unsetenv("APP_ENV")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Production {
		t.Error("Production = false with APP_ENV=production")
	}
}

func TestHasHelpers(t *testing.T) {
	cfg := NewTestConfig()

	if cfg.HasAlpaca() {
		t.Error("HasAlpaca() = true without credentials")
	}
	cfg.Alpaca.APIKey = "key"
	cfg.Alpaca.APISecret = "secret"
	if !cfg.HasAlpaca() {
		t.Error("HasAlpaca() = false with credentials")
	}

	if cfg.HasOpenAI() {
		t.Error("HasOpenAI() = true without key")
	}
	cfg.OpenAI.APIKey = "key"
	if !cfg.HasOpenAI() {
		t.Error("HasOpenAI() = false with key")
	}

	if cfg.HasBedrock() {
		t.Error("HasBedrock() = true without region/model")
	}
	cfg.Bedrock.Region = "us-east-1"
	cfg.Bedrock.ModelID = "model"
	if !cfg.HasBedrock() {
		t.Error("HasBedrock() = false with region+model")
	}
}
