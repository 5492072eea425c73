// Package cli provides the command-line interface for zreport.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/AndreyAkinshin/zreport/internal/errors"
	"github.com/AndreyAkinshin/zreport/internal/logging"
	"github.com/AndreyAkinshin/zreport/internal/output"
)

// Version is set at build time.
var Version = "dev"

// stdinName is the positional argument that selects standard input.
const stdinName = "-"

// widthFlagWithValue aligns flag descriptions in help output.
const widthFlagWithValue = 22

// Options holds the parsed command line.
type Options struct {
	Help    bool
	Version bool
	Quiet   bool
	Verbose bool

	ConfigPath  string
	Context     bool
	Summary     bool
	MetricsFile string

	// LogFile is the input path, or "-" for stdin.
	LogFile string
}

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return run(ctx, args, os.Stdin, output.New())
}

// Execute runs the CLI against the given streams. The report goes to stdout,
// diagnostics to stderr, and color is disabled.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return run(ctx, args, stdin, output.NewWithWriters(stdout, stderr, false))
}

func run(ctx context.Context, args []string, stdin io.Reader, w *output.Writer) int {
	if len(args) > 0 && args[0] == "completion" {
		return cmdCompletion(args[1:], w)
	}

	opts, err := parseFlags(args)
	if err != nil {
		w.ErrorPrefix("%v", err)
		w.Hint("run 'zreport --help' for usage")
		return errors.ExitUsageError
	}

	switch {
	case opts.Help:
		printUsage(w)
		return errors.ExitSuccess
	case opts.Version:
		w.Println("zreport %s", Version)
		return errors.ExitSuccess
	}

	w.SetQuiet(opts.Quiet)
	return runReport(ctx, opts, stdin, w)
}

// parseFlags manually parses the command line.
//
// Flags may appear before or after the log file, "--" ends flag parsing,
// and both "--flag value" and "--flag=value" are accepted.
func parseFlags(args []string) (*Options, error) {
	opts := &Options{}
	var positional []string

	i := 0
	for i < len(args) {
		arg := args[i]

		switch {
		case arg == "-h" || arg == "--help":
			opts.Help = true
			i++
		case arg == "--version":
			opts.Version = true
			i++
		case arg == "-q" || arg == "--quiet":
			opts.Quiet = true
			i++
		case arg == "-v" || arg == "--verbose":
			opts.Verbose = true
			i++
		case arg == "--context":
			opts.Context = true
			i++
		case arg == "--summary":
			opts.Summary = true
			i++
		case arg == "--config" || arg == "--metrics-file":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires a value", arg)
			}
			setValue(opts, arg, args[i+1])
			i += 2
		case strings.HasPrefix(arg, "--config=") || strings.HasPrefix(arg, "--metrics-file="):
			name, value, _ := strings.Cut(arg, "=")
			if value == "" {
				return nil, fmt.Errorf("%s requires a value", name)
			}
			setValue(opts, name, value)
			i++
		case arg == "--":
			positional = append(positional, args[i+1:]...)
			i = len(args)
		case arg == stdinName:
			positional = append(positional, arg)
			i++
		case strings.HasPrefix(arg, "-"):
			return nil, fmt.Errorf("unknown flag: %s", arg)
		default:
			positional = append(positional, arg)
			i++
		}
	}

	if opts.Help || opts.Version {
		return opts, nil
	}

	switch len(positional) {
	case 0:
		return nil, fmt.Errorf("log file required (use - for stdin)")
	case 1:
		opts.LogFile = positional[0]
	default:
		return nil, fmt.Errorf("unexpected argument: %s", positional[1])
	}

	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	return opts, nil
}

func setValue(opts *Options, name, value string) {
	switch name {
	case "--config":
		opts.ConfigPath = value
	case "--metrics-file":
		opts.MetricsFile = value
	}
}

// validateOptions checks that options are valid together.
func validateOptions(opts *Options) error {
	if opts.Quiet && opts.Verbose {
		return fmt.Errorf("--quiet and --verbose are mutually exclusive")
	}
	return nil
}

func printUsage(w *output.Writer) {
	w.HelpTitle("zreport - summarize a test-run log as a z-report")

	w.HelpSection("Usage:")
	w.HelpUsage("zreport [flags] <logfile>       Report on a log file")
	w.HelpUsage("zreport [flags] -               Report on standard input")
	w.HelpUsage("zreport completion <shell>      Generate shell completion")

	w.HelpSection("Flags:")
	w.HelpFlag("--config <file>", "Read limits and defaults from a YAML file", widthFlagWithValue)
	w.HelpFlag("--context", "Print context lines for every failure", widthFlagWithValue)
	w.HelpFlag("--summary", "Print a human summary to stderr", widthFlagWithValue)
	w.HelpFlag("--metrics-file <file>", "Write Prometheus metrics to a textfile", widthFlagWithValue)
	w.HelpFlag("-q, --quiet", "Errors only on stderr", widthFlagWithValue)
	w.HelpFlag("-v, --verbose", "Debug logging on stderr", widthFlagWithValue)
	w.HelpFlag("-h, --help", "Show this help", widthFlagWithValue)
	w.HelpFlag("--version", "Show version", widthFlagWithValue)

	w.HelpSection("Exit Codes:")
	w.HelpFlag("0", "No failures recorded", 4)
	w.HelpFlag("1", "Runtime error", 4)
	w.HelpFlag("2", "Usage or configuration error", 4)
	w.HelpFlag("3", "Input not readable", 4)
	w.HelpFlag("4", "Inconsistent test stream", 4)
	w.HelpFlag("255", "Failures recorded", 4)

	w.HelpSection("Environment:")
	w.HelpEnvVar(logging.EnvLevel, "Log level (debug, info, warn, error)", 18)
	w.HelpEnvVar("NO_COLOR", "Disable colored output", 18)

	w.HelpSection("Examples:")
	w.HelpExample("zreport run.log", "Report on run.log")
	w.HelpExample("make test 2>&1 | zreport --summary -", "Report on a live run with a summary")
	w.HelpExample("zreport --config zreport.yaml --metrics-file zreport.prom run.log", "Use a config file and export metrics")
	w.Println("")
}
