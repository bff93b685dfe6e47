package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultPromptConfig(t *testing.T) {
	cfg := DefaultPromptConfig()

	if cfg.GetSystemPrompt() == "" {
		t.Error("Default system prompt should not be empty")
	}
	if !strings.Contains(cfg.GetSearchInstruction(), "web search results") {
		t.Errorf("Search instruction should mention web search results, got %q", cfg.GetSearchInstruction())
	}
	if !strings.HasSuffix(cfg.GetSearchInstruction(), "\n\n") {
		t.Error("Search instruction should end with a blank line so results start on their own paragraph")
	}
	if cfg.GetErrorPrefix() != "Error" {
		t.Errorf("Expected error prefix 'Error', got %q", cfg.GetErrorPrefix())
	}
}

func TestLoadPromptConfigOverrides(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "periscope-prompt-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	configTestDir := filepath.Join(tmpDir, "config")
	if err := os.MkdirAll(configTestDir, 0755); err != nil {
		t.Fatal(err)
	}
	SetConfigDir(configTestDir)

	promptYAML := "system: Custom system prompt.\n"
	if err := os.WriteFile(filepath.Join(configTestDir, "prompt.yaml"), []byte(promptYAML), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadPromptConfig()
	if err != nil {
		t.Fatalf("LoadPromptConfig failed: %v", err)
	}

	if cfg.GetSystemPrompt() != "Custom system prompt." {
		t.Errorf("Expected overridden system prompt, got %q", cfg.GetSystemPrompt())
	}
	// Fields absent from the file keep their defaults.
	if cfg.GetSearchInstruction() == "" {
		t.Error("Expected default search instruction to survive a partial override")
	}
}
