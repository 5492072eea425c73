package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AndreyAkinshin/zreport/internal/errors"
	"github.com/AndreyAkinshin/zreport/internal/output"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    Options
		wantErr string
	}{
		{
			name: "log file only",
			args: []string{"run.log"},
			want: Options{LogFile: "run.log"},
		},
		{
			name: "stdin",
			args: []string{"-"},
			want: Options{LogFile: "-"},
		},
		{
			name: "flags after log file",
			args: []string{"run.log", "--context", "--summary"},
			want: Options{LogFile: "run.log", Context: true, Summary: true},
		},
		{
			name: "--config with space",
			args: []string{"--config", "z.yaml", "run.log"},
			want: Options{LogFile: "run.log", ConfigPath: "z.yaml"},
		},
		{
			name: "--config=value",
			args: []string{"--config=z.yaml", "run.log"},
			want: Options{LogFile: "run.log", ConfigPath: "z.yaml"},
		},
		{
			name: "--metrics-file both forms",
			args: []string{"--metrics-file", "a.prom", "--metrics-file=b.prom", "run.log"},
			want: Options{LogFile: "run.log", MetricsFile: "b.prom"},
		},
		{
			name: "short verbosity",
			args: []string{"-q", "run.log"},
			want: Options{LogFile: "run.log", Quiet: true},
		},
		{
			name: "-- ends flags",
			args: []string{"--", "-odd.log"},
			want: Options{LogFile: "-odd.log"},
		},
		{
			name: "help needs no log file",
			args: []string{"--help"},
			want: Options{Help: true},
		},
		{
			name: "version needs no log file",
			args: []string{"--version"},
			want: Options{Version: true},
		},
		{
			name:    "missing log file",
			args:    []string{"--context"},
			wantErr: "log file required",
		},
		{
			name:    "two log files",
			args:    []string{"a.log", "b.log"},
			wantErr: "unexpected argument: b.log",
		},
		{
			name:    "unknown flag",
			args:    []string{"--colour", "run.log"},
			wantErr: "unknown flag: --colour",
		},
		{
			name:    "--config without value",
			args:    []string{"run.log", "--config"},
			wantErr: "--config requires a value",
		},
		{
			name:    "--metrics-file= empty",
			args:    []string{"--metrics-file=", "run.log"},
			wantErr: "--metrics-file requires a value",
		},
		{
			name:    "quiet and verbose",
			args:    []string{"-q", "-v", "run.log"},
			wantErr: "mutually exclusive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseFlags(tt.args)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("parseFlags(%v) expected error containing %q", tt.args, tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("parseFlags(%v) error = %q, want %q", tt.args, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseFlags(%v) unexpected error: %v", tt.args, err)
			}
			if *opts != tt.want {
				t.Errorf("parseFlags(%v) = %+v, want %+v", tt.args, *opts, tt.want)
			}
		})
	}
}

// runCLI runs the command line against buffers and returns the exit code,
// stdout and stderr.
func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("ZREPORT_LOG_LEVEL", "")
	var stdout, stderr bytes.Buffer
	w := output.NewWithWriters(&stdout, &stderr, false)
	code := run(context.Background(), args, strings.NewReader(stdin), w)
	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

var passingLog = []string{
	"starting suite core/a",
	"1..2 Foo",
	"1 pass a",
	"2 pass b",
	"done (1 seconds)",
	"# TOTAL",
}

var failingLog = []string{
	"starting suite core/a",
	"1..2 Foo",
	"1 fail a",
	"# boom",
	"2 pass b",
	"done (1 seconds)",
	"# TOTAL",
}

func TestRun_AllPass(t *testing.T) {
	path := writeFile(t, "run.log", passingLog...)

	code, stdout, _ := runCLI(t, "", path)

	if code != errors.ExitSuccess {
		t.Errorf("exit code = %d, want %d", code, errors.ExitSuccess)
	}
	want := "# TOTAL 2\n# SKIPPED 0 (0.0%)\n# FAILED 0 (0.0%)\n# SUCCESS 2 (100.0%)\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestRun_FailuresExit255(t *testing.T) {
	path := writeFile(t, "run.log", failingLog...)

	code, stdout, _ := runCLI(t, "", path)

	if code != errors.ExitTestsFailed {
		t.Errorf("exit code = %d, want %d", code, errors.ExitTestsFailed)
	}
	if !strings.Contains(stdout, "# FAILED 1 (50.0%)") {
		t.Errorf("stdout missing failed totals:\n%s", stdout)
	}
	if !strings.Contains(stdout, ": [fail] Foo :: a") {
		t.Errorf("stdout missing failure summary:\n%s", stdout)
	}
}

func TestRun_Stdin(t *testing.T) {
	code, stdout, _ := runCLI(t, strings.Join(passingLog, "\n"), "-")

	if code != errors.ExitSuccess {
		t.Errorf("exit code = %d, want %d", code, errors.ExitSuccess)
	}
	if !strings.HasPrefix(stdout, "# TOTAL 2\n") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRun_EmptyInput(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "-")

	if code != errors.ExitSuccess {
		t.Errorf("exit code = %d, want %d", code, errors.ExitSuccess)
	}
	if !strings.Contains(stdout, "NO TESTS FOUND") {
		t.Errorf("stdout = %q, want NO TESTS FOUND", stdout)
	}
	if !strings.Contains(stdout, "TIMEOUT") {
		t.Errorf("stdout = %q, want TIMEOUT flag", stdout)
	}
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no arguments", nil},
		{"unknown flag", []string{"--nope", "run.log"}},
		{"quiet and verbose", []string{"-q", "-v", "run.log"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, "", tt.args...)
			if code != errors.ExitUsageError {
				t.Errorf("exit code = %d, want %d", code, errors.ExitUsageError)
			}
			if stdout != "" {
				t.Errorf("stdout = %q, want empty", stdout)
			}
			if !strings.Contains(stderr, "zreport: ") {
				t.Errorf("stderr = %q, want error prefix", stderr)
			}
		})
	}
}

func TestRun_MissingLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.log")

	code, stdout, stderr := runCLI(t, "", path)

	if code != errors.ExitEnvironmentError {
		t.Errorf("exit code = %d, want %d", code, errors.ExitEnvironmentError)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want empty", stdout)
	}
	if !strings.Contains(stderr, "cannot read") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRun_Inconsistent(t *testing.T) {
	path := writeFile(t, "run.log", "starting suite core/a", "1..1 Foo", "2000 pass x")

	code, stdout, stderr := runCLI(t, "", path)

	if code != errors.ExitInconsistent {
		t.Errorf("exit code = %d, want %d", code, errors.ExitInconsistent)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want empty", stdout)
	}
	if !strings.Contains(stderr, "inconsistent test stream") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRun_Canceled(t *testing.T) {
	path := writeFile(t, "run.log", passingLog...)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	w := output.NewWithWriters(&stdout, &stderr, false)
	code := run(ctx, []string{path}, strings.NewReader(""), w)

	if code != errors.ExitRuntimeError {
		t.Errorf("exit code = %d, want %d", code, errors.ExitRuntimeError)
	}
	if !strings.Contains(stderr.String(), "interrupted") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRun_Config(t *testing.T) {
	log := writeFile(t, "run.log",
		"starting suite core/a",
		"1..3 Foo",
		"1 fail a",
		"2 fail b",
		"3 fail c",
		"done (1 seconds)",
		"# TOTAL",
	)
	cfg := writeFile(t, "zreport.yaml", "limits:", "  max_errors: 1", "colour: true")

	code, stdout, stderr := runCLI(t, "", "--config", cfg, log)

	if code != errors.ExitTestsFailed {
		t.Errorf("exit code = %d, want %d", code, errors.ExitTestsFailed)
	}
	if !strings.Contains(stdout, "ERRORS 3 (showing last 1)") {
		t.Errorf("stdout missing bounded errors header:\n%s", stdout)
	}
	if !strings.Contains(stderr, `unknown field "colour"`) {
		t.Errorf("stderr missing unknown field warning:\n%s", stderr)
	}
}

func TestRun_QuietSuppressesConfigWarnings(t *testing.T) {
	log := writeFile(t, "run.log", passingLog...)
	cfg := writeFile(t, "zreport.yaml", "colour: true")

	code, _, stderr := runCLI(t, "", "-q", "--config", cfg, log)

	if code != errors.ExitSuccess {
		t.Errorf("exit code = %d, want %d", code, errors.ExitSuccess)
	}
	if stderr != "" {
		t.Errorf("stderr = %q, want empty", stderr)
	}
}

func TestRun_ConfigErrors(t *testing.T) {
	log := writeFile(t, "run.log", passingLog...)

	tests := []struct {
		name     string
		config   string
		wantCode int
	}{
		{"negative limit", writeFile(t, "neg.yaml", "limits:", "  max_errors: -1"), errors.ExitUsageError},
		{"bad yaml", writeFile(t, "bad.yaml", "limits: [1"), errors.ExitUsageError},
		{"bad log level", writeFile(t, "level.yaml", "log_level: loud"), errors.ExitUsageError},
		{"missing file", filepath.Join(t.TempDir(), "absent.yaml"), errors.ExitEnvironmentError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, _ := runCLI(t, "", "--config", tt.config, log)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if stdout != "" {
				t.Errorf("stdout = %q, want empty", stdout)
			}
		})
	}
}

func TestRun_ContextFlag(t *testing.T) {
	log := writeFile(t, "run.log",
		"starting suite core/a",
		"1..1 Foo",
		"setting up fixtures",
		"1 fail a",
		"# boom",
		"done (1 seconds)",
		"# TOTAL",
	)

	_, plain, _ := runCLI(t, "", log)
	_, withContext, _ := runCLI(t, "", "--context", log)

	if strings.Contains(plain, "setting up fixtures") {
		t.Errorf("context printed without --context:\n%s", plain)
	}
	if !strings.Contains(withContext, "setting up fixtures") {
		t.Errorf("context missing with --context:\n%s", withContext)
	}
}

func TestRun_SummaryFlag(t *testing.T) {
	log := writeFile(t, "run.log", passingLog...)

	code, stdout, stderr := runCLI(t, "", "--summary", log)

	if code != errors.ExitSuccess {
		t.Errorf("exit code = %d, want %d", code, errors.ExitSuccess)
	}
	if strings.Contains(stdout, "All 2 tests passed.") {
		t.Errorf("summary leaked into stdout:\n%s", stdout)
	}
	if !strings.Contains(stderr, "All 2 tests passed.") {
		t.Errorf("stderr missing summary:\n%s", stderr)
	}
}

func TestRun_MetricsFile(t *testing.T) {
	log := writeFile(t, "run.log", failingLog...)
	metricsPath := filepath.Join(t.TempDir(), "zreport.prom")

	code, _, _ := runCLI(t, "", "--metrics-file="+metricsPath, log)

	if code != errors.ExitTestsFailed {
		t.Errorf("exit code = %d, want %d", code, errors.ExitTestsFailed)
	}
	data, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("metrics file not written: %v", err)
	}
	for _, want := range []string{
		"zreport_lines_total 7",
		`zreport_tests_total{result="failed"} 1`,
		`zreport_tests_total{result="passed"} 1`,
		"zreport_parse_duration_seconds_count 1",
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("metrics missing %q:\n%s", want, data)
		}
	}
}

func TestRun_MetricsFileUnwritable(t *testing.T) {
	log := writeFile(t, "run.log", passingLog...)
	metricsPath := filepath.Join(t.TempDir(), "missing-dir", "zreport.prom")

	code, _, stderr := runCLI(t, "", "--metrics-file", metricsPath, log)

	if code != errors.ExitSuccess {
		t.Errorf("exit code = %d, want %d", code, errors.ExitSuccess)
	}
	if !strings.Contains(stderr, "cannot write metrics") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRun_HelpAndVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "--help")
	if code != errors.ExitSuccess {
		t.Errorf("--help exit code = %d, want 0", code)
	}
	if !strings.Contains(stdout, "zreport [flags] <logfile>") {
		t.Errorf("--help output missing usage:\n%s", stdout)
	}

	code, stdout, _ = runCLI(t, "", "--version")
	if code != errors.ExitSuccess {
		t.Errorf("--version exit code = %d, want 0", code)
	}
	if stdout != "zreport "+Version+"\n" {
		t.Errorf("--version output = %q", stdout)
	}
}
