package config

import (
	"fmt"
	"regexp"
)

// MaxLimit bounds every limit.
const MaxLimit = 1_000_000

// Retry kind: the sub-command names the log's command-echo lines can carry.
var retryKindPattern = regexp.MustCompile(`^[A-Za-z][\w:.-]*$`)

var logLevels = map[string]bool{
	"debug": true,
	"trace": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a configuration for errors and returns warnings for non-fatal issues.
func Validate(cfg *Config) (warnings []string, err error) {
	if err := validateLimits(cfg.Limits); err != nil {
		return nil, err
	}

	warnings, err = validateRetryKinds(cfg.RetryKinds)
	if err != nil {
		return nil, err
	}

	if cfg.LogLevel != "" && !logLevels[cfg.LogLevel] {
		return nil, &ValidationError{
			Field:   "log_level",
			Message: `must be one of "debug", "trace", "info", "warn", "error"`,
		}
	}

	return warnings, nil
}

func validateLimits(limits *LimitsConfig) error {
	if limits == nil {
		return nil
	}
	checks := []struct {
		field string
		value int
	}{
		{"limits.context_lines", limits.ContextLines},
		{"limits.max_errors", limits.MaxErrors},
		{"limits.max_additional_info", limits.MaxAdditionalInfo},
	}
	for _, c := range checks {
		if c.value < 0 {
			return &ValidationError{Field: c.field, Message: "must not be negative"}
		}
		if c.value > MaxLimit {
			return &ValidationError{Field: c.field, Message: fmt.Sprintf("must be %d or less", MaxLimit)}
		}
	}
	return nil
}

func validateRetryKinds(kinds []string) ([]string, error) {
	var warnings []string
	seen := make(map[string]bool, len(kinds))
	for i, kind := range kinds {
		if !retryKindPattern.MatchString(kind) {
			return nil, &ValidationError{
				Field:   fmt.Sprintf("retry_kinds[%d]", i),
				Message: `must match pattern ^[A-Za-z][\w:.-]*$`,
			}
		}
		if seen[kind] {
			warnings = append(warnings, fmt.Sprintf("retry kind %q listed more than once", kind))
		}
		seen[kind] = true
	}
	return warnings, nil
}
