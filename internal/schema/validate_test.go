package schema

import (
	"strings"
	"testing"
)

func TestSchemaValidConfigYAML(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty mapping", `{}`},
		{"limits only", "limits:\n  context_lines: 5\n"},
		{"full", `
limits:
  context_lines: 20
  max_errors: 500
  max_additional_info: 200
retry_kinds: [retry, rerun, retry-failed]
report:
  context: true
  summary: false
metrics_file: /var/lib/node_exporter/zreport.prom
log_level: debug
`},
		{"unknown fields allowed", "extra: 1\nreport:\n  colour: red\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateConfigYAML([]byte(tt.data)); err != nil {
				t.Errorf("expected valid config, got error: %v", err)
			}
		})
	}
}

func TestSchemaInvalidConfigYAML(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"zero limit", "limits:\n  max_errors: 0\n"},
		{"negative limit", "limits:\n  context_lines: -3\n"},
		{"limit not integer", "limits:\n  context_lines: many\n"},
		{"retry kinds not list", "retry_kinds: retry\n"},
		{"bad retry kind", "retry_kinds: ['--retry']\n"},
		{"report flag not bool", "report:\n  context: sometimes\n"},
		{"unknown log level", "log_level: loud\n"},
		{"not a mapping", "- a\n- b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateConfigYAML([]byte(tt.data)); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestSchemaInvalidYAMLSyntax(t *testing.T) {
	err := ValidateConfigYAML([]byte("limits: [unclosed"))
	if err == nil {
		t.Fatal("expected error for malformed YAML, got nil")
	}
	if !strings.Contains(err.Error(), "invalid YAML") {
		t.Errorf("error = %q, want to mention invalid YAML", err)
	}
}

func TestSchemaValidConfigJSON(t *testing.T) {
	data := []byte(`{"$schema": "./schema/config.schema.json", "limits": {"max_errors": 10}}`)
	if err := ValidateConfig(data); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestSchemaInvalidConfigMalformedJSON(t *testing.T) {
	if err := ValidateConfig([]byte(`{"limits": `)); err == nil {
		t.Error("expected validation error for malformed JSON, got nil")
	}
}

func TestSchemaInvalidConfigNotObject(t *testing.T) {
	if err := ValidateConfig([]byte(`"string"`)); err == nil {
		t.Error("expected validation error for non-object, got nil")
	}
}
