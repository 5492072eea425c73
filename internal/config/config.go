package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/zreport/internal/schema"
)

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return parse(data)
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// LoadWithDefaults reads a config file and applies default values.
func LoadWithDefaults(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	return cfg, nil
}

// LoadAndValidate reads a config file, checks it against the embedded schema,
// applies defaults, validates, and returns warnings.
func LoadAndValidate(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, unknownWarnings, err := LoadWithWarnings(path, data)
	if err != nil {
		return nil, nil, err
	}

	if !isEmpty(data) {
		if err := schema.ValidateConfigYAML(data); err != nil {
			return nil, unknownWarnings, err
		}
	}

	applyDefaults(cfg)

	validationWarnings, err := Validate(cfg)

	// Combine warnings from both sources.
	allWarnings := make([]string, 0, len(unknownWarnings)+len(validationWarnings))
	allWarnings = append(allWarnings, unknownWarnings...)
	allWarnings = append(allWarnings, validationWarnings...)

	if err != nil {
		return nil, allWarnings, err
	}

	return cfg, allWarnings, nil
}

func parse(data []byte) (*Config, error) {
	var cfg Config
	if isEmpty(data) {
		return &cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

func isEmpty(data []byte) bool {
	return len(bytes.TrimSpace(data)) == 0
}
