// Package main tests for the zreport CLI entry point.
package main

import (
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// buildBinary compiles the CLI once per test into a temp directory.
func buildBinary(t *testing.T) string {
	t.Helper()
	bin := filepath.Join(t.TempDir(), "zreport")
	cmd := exec.Command("go", "build", "-o", bin, ".")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build main package: %v\n%s", err, out)
	}
	return bin
}

// TestMain_HelpFlag verifies the --help flag works correctly.
func TestMain_HelpFlag(t *testing.T) {
	t.Parallel()
	bin := buildBinary(t)

	out, err := exec.Command(bin, "--help").CombinedOutput()
	if err != nil {
		t.Fatalf("--help failed: %v\noutput: %s", err, out)
	}
	if !strings.Contains(string(out), "zreport [flags] <logfile>") {
		t.Errorf("--help output missing usage:\n%s", out)
	}
}

// TestMain_Stdin verifies a report on stdin and the failure exit status.
func TestMain_Stdin(t *testing.T) {
	t.Parallel()
	bin := buildBinary(t)

	cmd := exec.Command(bin, "-")
	cmd.Stdin = strings.NewReader("1..1 Foo\n1 fail a\n# TOTAL\n")
	out, err := cmd.Output()

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected exit error, got %v", err)
	}
	if exitErr.ExitCode() != 255 {
		t.Errorf("exit code = %d, want 255", exitErr.ExitCode())
	}
	if !strings.HasPrefix(string(out), "# TOTAL 1\n") {
		t.Errorf("stdout = %q", out)
	}
}

// TestMain_MissingArgument verifies the usage exit status.
func TestMain_MissingArgument(t *testing.T) {
	t.Parallel()
	bin := buildBinary(t)

	err := exec.Command(bin).Run()

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 2 {
		t.Errorf("expected exit code 2, got %v", err)
	}
}
