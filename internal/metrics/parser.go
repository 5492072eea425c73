// Package metrics exposes Prometheus metrics for a zreport run.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AndreyAkinshin/zreport/internal/result"
)

// Result label values of zreport_tests_total.
const (
	ResultPassed  = "passed"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
)

// ParserMetrics holds Prometheus metrics for one parse. It implements
// parser.Observer.
type ParserMetrics struct {
	// LinesTotal counts physical input lines.
	LinesTotal prometheus.Counter
	// EventsTotal counts classified line shapes by event kind.
	EventsTotal *prometheus.CounterVec
	// FailuresTotal counts recorded failures by status.
	FailuresTotal *prometheus.CounterVec
	// TestsTotal holds the final test counts by result.
	TestsTotal *prometheus.GaugeVec
	// ParseDurationSeconds tracks how long a parse took.
	ParseDurationSeconds prometheus.Histogram

	gatherer prometheus.Gatherer
}

// NewParserMetricsWithRegistry creates parser metrics registered on reg.
func NewParserMetricsWithRegistry(reg *prometheus.Registry) *ParserMetrics {
	linesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "zreport_lines_total",
		Help: "Total number of input lines read",
	})
	eventsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "zreport_events_total",
		Help: "Total number of classified line shapes by event kind",
	}, []string{"event"})
	failuresTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "zreport_failures_total",
		Help: "Total number of recorded failures by status",
	}, []string{"status"})
	testsTotal := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "zreport_tests_total",
		Help: "Number of tests in the report by result",
	}, []string{"result"})
	parseDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "zreport_parse_duration_seconds",
		Help:    "Duration of a log parse in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 8), // 10ms to ~2.7min
	})

	reg.MustRegister(linesTotal, eventsTotal, failuresTotal, testsTotal, parseDuration)

	return &ParserMetrics{
		LinesTotal:           linesTotal,
		EventsTotal:          eventsTotal,
		FailuresTotal:        failuresTotal,
		TestsTotal:           testsTotal,
		ParseDurationSeconds: parseDuration,
		gatherer:             reg,
	}
}

// ObserveLine increments the line counter.
func (m *ParserMetrics) ObserveLine() {
	m.LinesTotal.Inc()
}

// ObserveEvent increments the event counter for kind.
func (m *ParserMetrics) ObserveEvent(kind string) {
	m.EventsTotal.WithLabelValues(kind).Inc()
}

// ObserveFailure increments the failure counter for status.
func (m *ParserMetrics) ObserveFailure(status string) {
	m.FailuresTotal.WithLabelValues(status).Inc()
}

// RecordDuration observes a parse duration.
func (m *ParserMetrics) RecordDuration(d time.Duration) {
	m.ParseDurationSeconds.Observe(d.Seconds())
}

// RecordResult sets the test gauges from a computed result.
func (m *ParserMetrics) RecordResult(g *result.Global) {
	m.TestsTotal.WithLabelValues(ResultPassed).Set(float64(g.Passed))
	m.TestsTotal.WithLabelValues(ResultFailed).Set(float64(g.Failed))
	m.TestsTotal.WithLabelValues(ResultSkipped).Set(float64(g.Skipped))
}

// WriteTextfile writes every registered metric to path in the text
// exposition format, for pickup by a node exporter textfile collector.
func (m *ParserMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.gatherer)
}
