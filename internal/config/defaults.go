package config

// Default configuration values.
const (
	DefaultContextLines      = 20
	DefaultMaxErrors         = 500
	DefaultMaxAdditionalInfo = 200
	DefaultLogLevel          = "info"
)

// DefaultRetryKinds are the sub-command names that mark a retry run.
var DefaultRetryKinds = []string{"retry", "rerun", "retry-failed"}

// applyDefaults fills in default values for unset configuration fields.
func applyDefaults(cfg *Config) {
	applyLimitsDefaults(cfg)
	applyReportDefaults(cfg)
	if len(cfg.RetryKinds) == 0 {
		cfg.RetryKinds = append([]string(nil), DefaultRetryKinds...)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
}

func applyLimitsDefaults(cfg *Config) {
	if cfg.Limits == nil {
		cfg.Limits = &LimitsConfig{}
	}
	if cfg.Limits.ContextLines == 0 {
		cfg.Limits.ContextLines = DefaultContextLines
	}
	if cfg.Limits.MaxErrors == 0 {
		cfg.Limits.MaxErrors = DefaultMaxErrors
	}
	if cfg.Limits.MaxAdditionalInfo == 0 {
		cfg.Limits.MaxAdditionalInfo = DefaultMaxAdditionalInfo
	}
}

func applyReportDefaults(cfg *Config) {
	if cfg.Report == nil {
		cfg.Report = &ReportConfig{}
	}
}
