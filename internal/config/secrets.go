package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// modelAPIKeyName is the .secrets entry merged into the model config when
// the yaml file carries no key. Local Ollama deployments need none; hosted
// OpenAI-compatible endpoints do.
const modelAPIKeyName = "MODEL_API_KEY"

// Secrets holds key=value pairs from the .secrets file, kept out of
// config.yaml so the yaml file can be shared or committed safely.
type Secrets struct {
	values map[string]string
}

// SecretsPath returns the secrets file path.
func SecretsPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".secrets"), nil
}

// LoadSecrets reads the .secrets file. A missing or unreadable file is not
// an error: secrets are optional and absence simply yields empty values.
func LoadSecrets() (*Secrets, error) {
	secrets := &Secrets{values: make(map[string]string)}

	path, err := SecretsPath()
	if err != nil {
		return secrets, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return secrets, nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if key, value, ok := strings.Cut(line, "="); ok {
			secrets.values[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
	}
	return secrets, scanner.Err()
}

// Get returns the value for a key, or "" when absent.
func (s *Secrets) Get(key string) string {
	if s == nil || s.values == nil {
		return ""
	}
	return s.values[key]
}

// GetModelAPIKey returns the model API key entry.
func (s *Secrets) GetModelAPIKey() string {
	return s.Get(modelAPIKeyName)
}
