package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadWithWarnings parses config data and returns any unknown field warnings.
func LoadWithWarnings(path string, data []byte) (*Config, []string, error) {
	cfg, err := parse(data)
	if err != nil {
		return nil, nil, err
	}
	if isEmpty(data) {
		return cfg, nil, nil
	}

	// Detect unknown fields
	warnings := detectUnknownFields(data)

	return cfg, warnings, nil
}

// detectUnknownFields compares the raw YAML mapping with known struct fields.
func detectUnknownFields(data []byte) []string {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		// This should never happen since the data was already parsed successfully.
		// Return a warning so the condition is visible rather than silently ignored.
		return []string{"internal: failed to re-parse config for unknown field detection"}
	}

	warnings := unknownKeys(raw, reflect.TypeOf(Config{}), "root level")

	nested := []struct {
		key string
		typ reflect.Type
	}{
		{"limits", reflect.TypeOf(LimitsConfig{})},
		{"report", reflect.TypeOf(ReportConfig{})},
	}
	for _, n := range nested {
		section, ok := raw[n.key].(map[string]any)
		if !ok {
			continue
		}
		warnings = append(warnings, unknownKeys(section, n.typ, fmt.Sprintf("section %q", n.key))...)
	}

	return warnings
}

func unknownKeys(raw map[string]any, t reflect.Type, where string) []string {
	known := getYAMLFields(t)
	var keys []string
	for key := range raw {
		if key == "$schema" {
			continue // $schema is explicitly allowed and ignored
		}
		if !known[key] {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	warnings := make([]string, 0, len(keys))
	for _, key := range keys {
		warnings = append(warnings, fmt.Sprintf("unknown field %q at %s (ignored)", key, where))
	}
	return warnings
}

// getYAMLFields returns a map of known YAML field names for a struct type.
func getYAMLFields(t reflect.Type) map[string]bool {
	fields := make(map[string]bool)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("yaml")
		if tag == "" || tag == "-" {
			continue
		}
		// Extract field name from tag (before comma)
		name := strings.Split(tag, ",")[0]
		if name != "" {
			fields[name] = true
		}
	}
	return fields
}
