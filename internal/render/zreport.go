// Package render writes the plain-text z-report.
package render

import (
	"fmt"
	"io"

	"github.com/AndreyAkinshin/zreport/internal/result"
)

// Options controls optional report sections.
type Options struct {
	// Context renders every failure's context lines, not only those of
	// failures without a trace.
	Context bool
}

// Line prefixes of the report body.
const (
	headerPrefix  = "# "
	itemPrefix    = ": "
	detailPrefix  = ":  "
	contextPrefix = ":  | "
)

// ZReport writes the report for a computed result.
func ZReport(w io.Writer, g *result.Global, opts Options) error {
	rw := &reportWriter{w: w}
	writeTotals(rw, g)
	writeFlags(rw, g)
	writeInfo(rw, g.Info())
	writeFailures(rw, g, opts)
	return rw.err
}

// reportWriter keeps the first write error and drops later output.
type reportWriter struct {
	w   io.Writer
	err error
}

func (rw *reportWriter) line(prefix, format string, args ...any) {
	if rw.err != nil {
		return
	}
	_, rw.err = fmt.Fprintf(rw.w, prefix+format+"\n", args...)
}

func writeTotals(rw *reportWriter, g *result.Global) {
	if g.Total == 0 {
		rw.line(headerPrefix, "NO TESTS FOUND")
		return
	}
	rw.line(headerPrefix, "TOTAL %d", g.Total)
	rw.line(headerPrefix, "SKIPPED %d (%.1f%%)", g.Skipped, g.SkippedPct)
	rw.line(headerPrefix, "FAILED %d (%.1f%%)", g.Failed, g.FailedPct)
	rw.line(headerPrefix, "SUCCESS %d (%.1f%%)", g.Passed, g.PassedPct)
}

func writeFlags(rw *reportWriter, g *result.Global) {
	if g.Kind != "" {
		if g.Retry {
			rw.line(headerPrefix, "KIND %s (retry)", g.Kind)
		} else {
			rw.line(headerPrefix, "KIND %s", g.Kind)
		}
	}
	if g.Core {
		rw.line(headerPrefix, "CORE DUMP")
	}
	if g.Timeout {
		rw.line(headerPrefix, "TIMEOUT")
	}
}

func writeInfo(rw *reportWriter, info []string) {
	if len(info) == 0 {
		return
	}
	rw.line(headerPrefix, "ADDITIONAL INFO")
	for _, l := range info {
		rw.line(detailPrefix, "%s", l)
	}
}

func writeFailures(rw *reportWriter, g *result.Global, opts Options) {
	failures := g.Failures()
	if len(failures) == 0 {
		return
	}
	if len(failures) < g.FailureCount {
		rw.line(headerPrefix, "ERRORS %d (showing last %d)", g.FailureCount, len(failures))
	} else {
		rw.line(headerPrefix, "ERRORS %d", g.FailureCount)
	}

	open := ""
	for _, f := range failures {
		if f.Suite != open {
			if open != "" {
				rw.line(itemPrefix, "error %s", open)
			}
			if f.Suite != "" {
				rw.line(itemPrefix, "starting %s", f.Suite)
			}
			open = f.Suite
		}
		writeFailure(rw, f, opts)
	}
	if open != "" {
		rw.line(itemPrefix, "error %s", open)
	}
}

func writeFailure(rw *reportWriter, f *result.Failure, opts Options) {
	rw.line(itemPrefix, "%s", f.Summary())
	if opts.Context || len(f.Trace) == 0 {
		for _, l := range f.Context {
			rw.line(contextPrefix, "%s", l)
		}
	}
	for _, l := range f.Trace {
		rw.line(detailPrefix, "%s", l)
	}
	for _, l := range f.BrowserLog {
		rw.line(detailPrefix, "[browser] %s", l)
	}
}
