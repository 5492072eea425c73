package cli

import (
	"context"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AndreyAkinshin/zreport/internal/config"
	"github.com/AndreyAkinshin/zreport/internal/errors"
	"github.com/AndreyAkinshin/zreport/internal/logging"
	"github.com/AndreyAkinshin/zreport/internal/metrics"
	"github.com/AndreyAkinshin/zreport/internal/output"
	"github.com/AndreyAkinshin/zreport/internal/parser"
	"github.com/AndreyAkinshin/zreport/internal/render"
	"github.com/AndreyAkinshin/zreport/internal/result"
)

// runReport parses the log named by opts and writes the z-report.
func runReport(ctx context.Context, opts *Options, stdin io.Reader, w *output.Writer) int {
	cfg, err := loadConfig(opts.ConfigPath, w)
	if err != nil {
		return fail(w, err)
	}
	applyFlags(cfg, opts)

	log, sync, err := logging.NewLogger(logLevel(cfg, opts))
	if err != nil {
		return fail(w, errors.Config(opts.ConfigPath, err.Error()))
	}
	defer sync()

	input, closeInput, err := openInput(opts.LogFile, stdin)
	if err != nil {
		return fail(w, errors.Environment(opts.LogFile, err))
	}
	defer closeInput()

	var m *metrics.ParserMetrics
	parserOpts := []parser.Option{
		parser.WithLogger(log),
		parser.WithLimits(parser.Limits{
			ContextLines:      cfg.Limits.ContextLines,
			MaxErrors:         cfg.Limits.MaxErrors,
			MaxAdditionalInfo: cfg.Limits.MaxAdditionalInfo,
		}),
		parser.WithRetryKinds(cfg.RetryKinds),
	}
	if cfg.MetricsFile != "" {
		m = metrics.NewParserMetricsWithRegistry(prometheus.NewRegistry())
		parserOpts = append(parserOpts, parser.WithObserver(m))
	}

	start := time.Now()
	g, err := parse(ctx, parser.New(parserOpts...), input)
	if err != nil {
		return fail(w, classifyParseError(opts.LogFile, err))
	}
	elapsed := time.Since(start)

	if err := render.ZReport(w.Out(), g, render.Options{Context: cfg.Report.Context}); err != nil {
		return fail(w, errors.Wrap(err, "cannot write report"))
	}
	if cfg.Report.Summary {
		w.Summary(g)
	}
	if m != nil {
		writeMetrics(m, g, elapsed, cfg.MetricsFile, w)
	}

	log.V(1).Info("report written",
		"input", opts.LogFile,
		"tests", g.Total,
		"failures", g.FailureCount,
		"elapsed", elapsed)

	if g.FailureCount > 0 {
		return errors.ExitTestsFailed
	}
	return errors.ExitSuccess
}

func parse(ctx context.Context, p *parser.Parser, input io.Reader) (*result.Global, error) {
	if err := p.ReadFrom(ctx, input); err != nil {
		return nil, err
	}
	return p.Finish()
}

func fail(w *output.Writer, err error) int {
	w.ErrorPrefix("%v", err)
	return errors.GetExitCode(err)
}

// loadConfig returns the configuration at path, or the defaults when no
// path is given. Warnings go to stderr.
func loadConfig(path string, w *output.Writer) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}

	cfg, warnings, err := config.LoadAndValidate(path)
	for _, warning := range warnings {
		w.Warning("%s: %s", path, warning)
	}
	if err != nil {
		var pathErr *fs.PathError
		if stderrors.As(err, &pathErr) {
			return nil, errors.Environment(path, pathErr)
		}
		return nil, errors.Config(path, err.Error())
	}
	return cfg, nil
}

// applyFlags lets command-line flags override configured values.
func applyFlags(cfg *config.Config, opts *Options) {
	if opts.Context {
		cfg.Report.Context = true
	}
	if opts.Summary {
		cfg.Report.Summary = true
	}
	if opts.MetricsFile != "" {
		cfg.MetricsFile = opts.MetricsFile
	}
}

func logLevel(cfg *config.Config, opts *Options) string {
	switch {
	case opts.Verbose:
		return logging.LevelDebug
	case opts.Quiet:
		return logging.LevelError
	}
	return logging.ResolveLevel(cfg.LogLevel)
}

func openInput(name string, stdin io.Reader) (io.Reader, func(), error) {
	if name == stdinName {
		return stdin, func() {}, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func classifyParseError(path string, err error) error {
	if stderrors.Is(err, parser.ErrInconsistent) {
		return errors.Inconsistent(path, err)
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(err, "interrupted")
	}
	return errors.Environment(path, err)
}

// writeMetrics exports the run's metrics. A failed export is reported as a
// warning and does not change the exit code.
func writeMetrics(m *metrics.ParserMetrics, g *result.Global, elapsed time.Duration, path string, w *output.Writer) {
	m.RecordDuration(elapsed)
	m.RecordResult(g)
	if err := m.WriteTextfile(path); err != nil {
		w.Warning("cannot write metrics to %s: %v", path, err)
	}
}
