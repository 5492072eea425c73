package parser

import "github.com/go-logr/logr"

// Default buffer limits.
const (
	DefaultContextLines      = 20
	DefaultMaxErrors         = 500
	DefaultMaxAdditionalInfo = 200
)

// DefaultRetryKinds are the sub-command names that mark a run as a retry.
var DefaultRetryKinds = []string{"retry", "rerun", "retry-failed"}

// Limits bounds the parser's ring buffers.
type Limits struct {
	ContextLines      int
	MaxErrors         int
	MaxAdditionalInfo int
}

// DefaultLimits returns the built-in limits.
func DefaultLimits() Limits {
	return Limits{
		ContextLines:      DefaultContextLines,
		MaxErrors:         DefaultMaxErrors,
		MaxAdditionalInfo: DefaultMaxAdditionalInfo,
	}
}

// withDefaults fills unset (non-positive) limits.
func (l Limits) withDefaults() Limits {
	def := DefaultLimits()
	if l.ContextLines <= 0 {
		l.ContextLines = def.ContextLines
	}
	if l.MaxErrors <= 0 {
		l.MaxErrors = def.MaxErrors
	}
	if l.MaxAdditionalInfo <= 0 {
		l.MaxAdditionalInfo = def.MaxAdditionalInfo
	}
	return l
}

// Observer receives parse events, typically for metrics.
type Observer interface {
	ObserveLine()
	ObserveEvent(kind string)
	ObserveFailure(status string)
}

type nopObserver struct{}

func (nopObserver) ObserveLine()          {}
func (nopObserver) ObserveEvent(string)   {}
func (nopObserver) ObserveFailure(string) {}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for inconsistencies and debug traces.
func WithLogger(log logr.Logger) Option {
	return func(p *Parser) {
		p.log = log
	}
}

// WithObserver registers an observer. A nil observer is ignored.
func WithObserver(o Observer) Option {
	return func(p *Parser) {
		if o != nil {
			p.observer = o
		}
	}
}

// WithLimits overrides the buffer limits. Non-positive values keep the default.
func WithLimits(l Limits) Option {
	return func(p *Parser) {
		p.limits = l.withDefaults()
	}
}

// WithRetryKinds replaces the sub-command names that mark a retry run.
func WithRetryKinds(kinds []string) Option {
	return func(p *Parser) {
		p.retryKinds = make(map[string]bool, len(kinds))
		for _, k := range kinds {
			p.retryKinds[k] = true
		}
	}
}
