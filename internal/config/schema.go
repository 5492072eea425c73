// Package config provides loading and validation for the zreport YAML
// configuration file.
package config

// Config represents the complete configuration file.
type Config struct {
	Limits      *LimitsConfig `yaml:"limits,omitempty"`
	RetryKinds  []string      `yaml:"retry_kinds,omitempty"`
	Report      *ReportConfig `yaml:"report,omitempty"`
	MetricsFile string        `yaml:"metrics_file,omitempty"`
	LogLevel    string        `yaml:"log_level,omitempty"`
}

// LimitsConfig bounds the parser's buffers.
type LimitsConfig struct {
	ContextLines      int `yaml:"context_lines,omitempty"`
	MaxErrors         int `yaml:"max_errors,omitempty"`
	MaxAdditionalInfo int `yaml:"max_additional_info,omitempty"`
}

// ReportConfig selects optional report output.
type ReportConfig struct {
	Context bool `yaml:"context,omitempty"`
	Summary bool `yaml:"summary,omitempty"`
}
