package golden

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LoadSuite loads all cases from a suite directory, sorted by name.
func LoadSuite(dir, suite string) ([]Case, error) {
	suiteDir := filepath.Join(dir, suite)

	if _, err := os.Stat(suiteDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("golden suite directory not found: %s", suiteDir)
	}

	matches, err := filepath.Glob(filepath.Join(suiteDir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	cases := make([]Case, 0, len(matches))
	for _, path := range matches {
		c, err := LoadCase(path)
		if err != nil {
			return nil, fmt.Errorf("golden suite %q: %w (file: %s)", suite, err, path)
		}
		c.Suite = suite
		cases = append(cases, *c)
	}
	return cases, nil
}

// LoadAll loads cases from every suite directory under dir.
func LoadAll(dir string) (map[string][]Case, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read golden directory: %w", err)
	}

	suites := make(map[string][]Case)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		suite := entry.Name()
		cases, err := LoadSuite(dir, suite)
		if err != nil {
			return nil, err
		}
		if len(cases) > 0 {
			suites[suite] = cases
		}
	}
	return suites, nil
}

// LoadCase loads a single case from a JSON file.
func LoadCase(path string) (*Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw caseFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if raw.Input == nil {
		return nil, fmt.Errorf("missing required field \"input\"")
	}
	if raw.Output == nil {
		return nil, fmt.Errorf("missing required field \"output\"")
	}
	if raw.ExitCode == nil {
		return nil, fmt.Errorf("missing required field \"exit_code\"")
	}

	baseDir := filepath.Dir(path)
	input, err := resolveLines(raw.Input, baseDir)
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	output, err := resolveLines(raw.Output, baseDir)
	if err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}

	return &Case{
		Name:        strings.TrimSuffix(filepath.Base(path), ".json"),
		Path:        path,
		Description: raw.Description,
		Args:        raw.Args,
		Input:       input,
		Output:      output,
		ExitCode:    *raw.ExitCode,
		Skip:        raw.Skip,
	}, nil
}

// Stdin joins the case input into the text fed to the CLI.
func (c *Case) Stdin() string {
	if len(c.Input) == 0 {
		return ""
	}
	return strings.Join(c.Input, "\n") + "\n"
}

// Report joins the expected output into the exact text of the report.
func (c *Case) Report() string {
	if len(c.Output) == 0 {
		return ""
	}
	return strings.Join(c.Output, "\n") + "\n"
}

// resolveLines turns an array of strings or a $file reference into lines.
func resolveLines(value any, baseDir string) ([]string, error) {
	switch v := value.(type) {
	case []any:
		lines := make([]string, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("line %d is not a string", i+1)
			}
			lines[i] = s
		}
		return lines, nil

	case map[string]any:
		ref, ok := v["$file"].(string)
		if !ok {
			return nil, fmt.Errorf("object must be a {\"$file\": ...} reference")
		}
		text, err := loadFileRef(ref, baseDir)
		if err != nil {
			return nil, err
		}
		return splitLines(text), nil

	default:
		return nil, fmt.Errorf("must be an array of lines or a $file reference")
	}
}

// loadFileRef reads a file referenced by $file.
func loadFileRef(ref, baseDir string) (string, error) {
	if strings.Contains(ref, "..") {
		return "", fmt.Errorf("$file path contains \"..\": %s", ref)
	}

	path := filepath.Join(baseDir, ref)

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("$file path escapes golden directory: %s", ref)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("$file %q: %w", ref, err)
	}
	return string(data), nil
}

func splitLines(text string) []string {
	text = strings.TrimSuffix(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if text == "" {
		return []string{}
	}
	return strings.Split(text, "\n")
}
