package cli

import (
	"fmt"
	"strings"

	"github.com/AndreyAkinshin/zreport/internal/output"
)

// flagSpec describes one flag for completion scripts.
type flagSpec struct {
	long        string
	short       string
	description string
	// takesFile is set for flags whose value is a path.
	takesFile bool
}

// completionFlags returns the flags offered by completion scripts.
func completionFlags() []flagSpec {
	return []flagSpec{
		{long: "config", description: "Read limits and defaults from a YAML file", takesFile: true},
		{long: "context", description: "Print context lines for every failure"},
		{long: "summary", description: "Print a human summary to stderr"},
		{long: "metrics-file", description: "Write Prometheus metrics to a textfile", takesFile: true},
		{long: "quiet", short: "q", description: "Errors only on stderr"},
		{long: "verbose", short: "v", description: "Debug logging on stderr"},
		{long: "help", short: "h", description: "Show help"},
		{long: "version", description: "Show version"},
	}
}

// cmdCompletion generates shell completion scripts.
func cmdCompletion(args []string, w *output.Writer) int {
	shell := ""
	alias := ""

	for _, arg := range args {
		switch {
		case arg == "-h" || arg == "--help":
			printCompletionUsage(w)
			return 0
		case strings.HasPrefix(arg, "--alias="):
			alias = strings.TrimPrefix(arg, "--alias=")
		case arg == "--alias":
			w.ErrorPrefix("completion: --alias requires a value (--alias=<name>)")
			return 2
		case strings.HasPrefix(arg, "-"):
			w.ErrorPrefix("completion: unknown flag: %s", arg)
			return 2
		default:
			if shell != "" {
				w.ErrorPrefix("completion: unexpected argument: %s", arg)
				return 2
			}
			shell = arg
		}
	}

	if shell == "" {
		w.ErrorPrefix("completion: shell required (bash, zsh, fish)")
		return 2
	}

	cmdName := "zreport"
	if alias != "" {
		cmdName = alias
	}

	switch shell {
	case "bash":
		w.Print("%s", generateBashCompletion(cmdName))
	case "zsh":
		w.Print("%s", generateZshCompletion(cmdName))
	case "fish":
		w.Print("%s", generateFishCompletion(cmdName))
	default:
		w.ErrorPrefix("completion: unsupported shell %q (use bash, zsh, or fish)", shell)
		return 2
	}
	return 0
}

func printCompletionUsage(w *output.Writer) {
	w.HelpTitle("zreport completion - generate shell completion scripts")

	w.HelpSection("Usage:")
	w.HelpUsage("zreport completion <shell> [--alias=<name>]")

	w.HelpSection("Options:")
	w.HelpFlag("--alias=<name>", "Generate completion for command alias", 14)
	w.HelpFlag("-h, --help", "Show this help", 14)

	w.HelpSection("Installation:")
	w.Println("  Bash:  eval \"$(zreport completion bash)\"")
	w.Println("  Zsh:   eval \"$(zreport completion zsh)\"")
	w.Println("  Fish:  zreport completion fish | source")
	w.Println("")
}

func generateBashCompletion(cmdName string) string {
	funcName := "_" + strings.ReplaceAll(cmdName, "-", "_") + "_completions"

	var flags, fileFlags []string
	for _, f := range completionFlags() {
		flags = append(flags, "--"+f.long)
		if f.short != "" {
			flags = append(flags, "-"+f.short)
		}
		if f.takesFile {
			fileFlags = append(fileFlags, "--"+f.long)
		}
	}

	return fmt.Sprintf(`# zreport bash completion
# Add to ~/.bashrc: eval "$(zreport completion bash)"

%s() {
    local cur prev
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    case "${prev}" in
        %s)
            COMPREPLY=($(compgen -f -- "${cur}"))
            return
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "${cur}"))
            return
            ;;
    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=($(compgen -W "%s" -- "${cur}"))
        return
    fi

    COMPREPLY=($(compgen -f -- "${cur}"))
}

complete -F %s %s
`, funcName, strings.Join(fileFlags, "|"), strings.Join(flags, " "), funcName, cmdName)
}

func generateZshCompletion(cmdName string) string {
	funcName := "_" + strings.ReplaceAll(cmdName, "-", "_")

	var sb strings.Builder
	for _, f := range completionFlags() {
		value := ""
		if f.takesFile {
			value = ":file:_files"
		}
		if f.short != "" {
			fmt.Fprintf(&sb, "        '(-%s --%s)'{-%s,--%s}'[%s]%s' \\\n", f.short, f.long, f.short, f.long, f.description, value)
		} else {
			fmt.Fprintf(&sb, "        '--%s[%s]%s' \\\n", f.long, f.description, value)
		}
	}

	return fmt.Sprintf(`#compdef %s
# zreport zsh completion
# Add to ~/.zshrc: eval "$(zreport completion zsh)"

%s() {
    _arguments -s \
%s        '1:log file:_files'
}

compdef %s %s
`, cmdName, funcName, sb.String(), funcName, cmdName)
}

func generateFishCompletion(cmdName string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# zreport fish completion\n# Add to config: zreport completion fish | source\n\n")
	for _, f := range completionFlags() {
		fmt.Fprintf(&sb, "complete -c %s -l %s", cmdName, f.long)
		if f.short != "" {
			fmt.Fprintf(&sb, " -s %s", f.short)
		}
		if f.takesFile {
			sb.WriteString(" -r -F")
		}
		fmt.Fprintf(&sb, " -d '%s'\n", f.description)
	}

	sb.WriteString("\n# completion subcommand\n")
	for _, shell := range []string{"bash", "zsh", "fish"} {
		fmt.Fprintf(&sb, "complete -c %s -n '__fish_seen_subcommand_from completion' -f -a '%s' -d 'Generate %s completion'\n", cmdName, shell, shell)
	}
	return sb.String()
}
