package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model.BaseURL != "http://localhost:11434" {
		t.Errorf("Expected BaseURL to be http://localhost:11434, got %s", cfg.Model.BaseURL)
	}

	if cfg.Model.Model != "llama3.1" {
		t.Errorf("Expected Model to be llama3.1, got %s", cfg.Model.Model)
	}

	if cfg.History.MaxContextMessages != 20 {
		t.Errorf("Expected MaxContextMessages to be 20, got %d", cfg.History.MaxContextMessages)
	}

	if cfg.WebSearch.Provider != "searxng" {
		t.Errorf("Expected WebSearch provider to be searxng, got %s", cfg.WebSearch.Provider)
	}

	if cfg.WebSearch.ResultsCount != 5 {
		t.Errorf("Expected ResultsCount to be 5, got %d", cfg.WebSearch.ResultsCount)
	}

	if !cfg.WebSearch.Enabled {
		t.Error("Expected web search to be enabled by default")
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.History.DBPath = "/tmp/test.db"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "empty model base URL",
			mutate:  func(c *Config) { c.Model.BaseURL = "" },
			wantErr: true,
		},
		{
			name:    "temperature out of range",
			mutate:  func(c *Config) { c.Model.Temperature = 3.0 },
			wantErr: true,
		},
		{
			name:    "zero max tokens",
			mutate:  func(c *Config) { c.Model.MaxTokens = 0 },
			wantErr: true,
		},
		{
			name:    "empty db path",
			mutate:  func(c *Config) { c.History.DBPath = "" },
			wantErr: true,
		},
		{
			name:    "zero results count",
			mutate:  func(c *Config) { c.WebSearch.ResultsCount = 0 },
			wantErr: true,
		},
		{
			name:    "zero search timeout",
			mutate:  func(c *Config) { c.WebSearch.TimeoutSeconds = 0 },
			wantErr: true,
		},
		{
			// An unknown provider degrades at search time instead of
			// blocking startup.
			name:    "unknown search provider accepted",
			mutate:  func(c *Config) { c.WebSearch.Provider = "altavista" },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	// Create temp directory
	tmpDir, err := os.MkdirTemp("", "periscope-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	// Set config directory for test
	configTestDir := filepath.Join(tmpDir, "config")
	SetConfigDir(configTestDir)

	// Create and save config
	cfg := DefaultConfig()
	cfg.Model.APIKey = "test-api-key"
	cfg.WebSearch.Provider = "duckduckgo"
	cfg.WebSearch.ResultsCount = 3

	err = Save(cfg)
	if err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	// Verify file exists
	configPath := filepath.Join(configTestDir, "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("Config file not created")
	}

	// Load config
	loadedCfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loadedCfg.Model.APIKey != cfg.Model.APIKey {
		t.Errorf("API Key mismatch: expected %s, got %s", cfg.Model.APIKey, loadedCfg.Model.APIKey)
	}
	if loadedCfg.WebSearch.Provider != "duckduckgo" {
		t.Errorf("Expected provider duckduckgo, got %s", loadedCfg.WebSearch.Provider)
	}
	if loadedCfg.WebSearch.ResultsCount != 3 {
		t.Errorf("Expected results count 3, got %d", loadedCfg.WebSearch.ResultsCount)
	}
}

func TestLoadMergesModelAPIKeyFromSecrets(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "periscope-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	configTestDir := filepath.Join(tmpDir, "config")
	SetConfigDir(configTestDir)

	cfg := DefaultConfig()
	cfg.History.DBPath = filepath.Join(tmpDir, "history.db")
	if err := Save(cfg); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	secretsContent := "# secrets\nMODEL_API_KEY=sk-from-secrets\n"
	if err := os.WriteFile(filepath.Join(configTestDir, ".secrets"), []byte(secretsContent), 0600); err != nil {
		t.Fatal(err)
	}

	loadedCfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if loadedCfg.Model.APIKey != "sk-from-secrets" {
		t.Errorf("Expected API key from secrets file, got %q", loadedCfg.Model.APIKey)
	}
}

func TestConfigStringRedactsAPIKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model.APIKey = "sk-very-secret-key-123"

	out := cfg.String()
	if strings.Contains(out, "sk-very-secret-key-123") {
		t.Error("String() must not expose the full API key")
	}
	if !strings.Contains(out, "sk-very-") {
		t.Errorf("Expected redacted key prefix in output, got:\n%s", out)
	}

	cfg.Model.APIKey = ""
	if !strings.Contains(cfg.String(), "(not configured)") {
		t.Error("Expected empty key to render as (not configured)")
	}
}
