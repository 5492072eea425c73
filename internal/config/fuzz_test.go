package config

import (
	"testing"
)

// FuzzLoadWithWarnings tests YAML parsing and unknown-field detection with
// arbitrary input.
// Run: go test -fuzz=FuzzLoadWithWarnings -fuzztime=30s ./internal/config
func FuzzLoadWithWarnings(f *testing.F) {
	seeds := []string{
		// Valid minimal config
		"limits:\n  max_errors: 10\n",
		// Valid config with all top-level fields
		"limits: {context_lines: 1, max_errors: 2, max_additional_info: 3}\nretry_kinds: [retry]\nreport: {context: true, summary: true}\nmetrics_file: m\nlog_level: debug\n",
		// Edge cases: empty document
		``,
		// Edge cases: null
		`null`,
		// Edge cases: sequence root
		"- a\n- b\n",
		// Edge cases: scalar root
		`just a string`,
		// Edge cases: wrong nested types
		"limits: 5\nreport: [x]\n",
		// Edge cases: anchors and aliases
		"base: &b {context: true}\nreport: *b\n",
		// Edge cases: non-string keys
		"1: one\ntrue: yes\n",
		// Malformed: unclosed flow
		"limits: {context_lines: 1",
		// Malformed: bad indentation
		"limits:\n context_lines: 1\n  max_errors: 2\n",
		// Malformed: tabs
		"limits:\n\tmax_errors: 1\n",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, data string) {
		cfg, warnings, err := LoadWithWarnings("fuzz.yaml", []byte(data))
		if err != nil {
			if cfg != nil || warnings != nil {
				t.Errorf("error %v returned with non-nil results", err)
			}
			return
		}
		if cfg == nil {
			t.Fatal("nil config without error")
		}

		// Defaults and validation must not panic on anything that parsed.
		applyDefaults(cfg)
		if cfg.Limits == nil || cfg.Report == nil || len(cfg.RetryKinds) == 0 {
			t.Errorf("defaults not applied: %+v", cfg)
		}
		_, _ = Validate(cfg)
	})
}
