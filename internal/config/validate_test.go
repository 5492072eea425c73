package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		cfg       *Config
		wantField string
	}{
		{name: "defaults", cfg: Default()},
		{name: "empty", cfg: &Config{}},
		{
			name:      "negative context",
			cfg:       &Config{Limits: &LimitsConfig{ContextLines: -1}},
			wantField: "limits.context_lines",
		},
		{
			name:      "huge max errors",
			cfg:       &Config{Limits: &LimitsConfig{MaxErrors: MaxLimit + 1}},
			wantField: "limits.max_errors",
		},
		{
			name:      "negative additional info",
			cfg:       &Config{Limits: &LimitsConfig{MaxAdditionalInfo: -5}},
			wantField: "limits.max_additional_info",
		},
		{
			name:      "bad retry kind",
			cfg:       &Config{RetryKinds: []string{"retry", "re try"}},
			wantField: "retry_kinds[1]",
		},
		{
			name:      "empty retry kind",
			cfg:       &Config{RetryKinds: []string{""}},
			wantField: "retry_kinds[0]",
		},
		{
			name:      "unknown log level",
			cfg:       &Config{LogLevel: "verbose"},
			wantField: "log_level",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Validate(tt.cfg)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestValidate_DuplicateRetryKindWarns(t *testing.T) {
	t.Parallel()
	warnings, err := Validate(&Config{RetryKinds: []string{"rerun", "retry", "rerun"}})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], `"rerun"`) {
		t.Errorf("warnings = %v, want one about rerun", warnings)
	}
}

func TestValidationError_Error(t *testing.T) {
	t.Parallel()
	err := &ValidationError{Field: "limits.max_errors", Message: "must not be negative"}
	if got, want := err.Error(), "limits.max_errors: must not be negative"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
