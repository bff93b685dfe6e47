package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PromptConfig prompt configuration structure
type PromptConfig struct {
	System            string `yaml:"system"`
	SearchInstruction string `yaml:"search_instruction"`
	ErrorPrefix       string `yaml:"error_prefix"`
}

// DefaultPromptConfig returns default prompt configuration
func DefaultPromptConfig() *PromptConfig {
	return &PromptConfig{
		System: `You are Periscope, a helpful conversational assistant. Answer clearly and concisely.

When web search results are provided, ground your answer in them and mention when the information comes from a search. When no results are available, answer from your own knowledge and say so if the question concerns current events.`,
		SearchInstruction: "IMPORTANT: Use the following current web search results to inform your response. " +
			"These are real-time search results that provide current information:\n\n",
		ErrorPrefix: "Error",
	}
}

// PromptConfigPath returns the prompt config file path
func PromptConfigPath() (string, error) {
	// First check if there's a config/prompt.yaml in current working directory
	cwd, err := os.Getwd()
	if err == nil {
		localPath := filepath.Join(cwd, "config", "prompt.yaml")
		if _, err := os.Stat(localPath); err == nil {
			return localPath, nil
		}
	}

	// Fall back to user config directory
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "prompt.yaml"), nil
}

// LoadPromptConfig loads prompt configuration from file
func LoadPromptConfig() (*PromptConfig, error) {
	configPath, err := PromptConfigPath()
	if err != nil {
		return DefaultPromptConfig(), nil
	}

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultPromptConfig(), nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt config: %w", err)
	}

	// Parse config; file values override the compiled-in defaults
	cfg := DefaultPromptConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse prompt config: %w", err)
	}

	return cfg, nil
}

// GetSystemPrompt returns the system prompt
func (p *PromptConfig) GetSystemPrompt() string {
	return p.System
}

// GetSearchInstruction returns the preamble placed before formatted search
// results when they are injected into the conversation
func (p *PromptConfig) GetSearchInstruction() string {
	return p.SearchInstruction
}

// GetErrorPrefix returns the error prefix
func (p *PromptConfig) GetErrorPrefix() string {
	return p.ErrorPrefix
}
