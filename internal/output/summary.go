package output

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AndreyAkinshin/zreport/internal/result"
)

// BarColumns is the width of the summary bar in characters.
const BarColumns = 50

var titleCase = cases.Title(language.English)

// Summary prints a human-readable summary of a computed result to stderr:
// one row per suite, a proportional bar and a final verdict.
func (w *Writer) Summary(g *result.Global) {
	w.Errorln("")
	if w.color {
		w.Errorln("%s=== Test Summary ===%s", bold+cyan, reset)
	} else {
		w.Errorln("=== Test Summary ===")
	}
	w.Errorln("")

	var rows [][]string
	for _, product := range g.Products() {
		for _, suite := range product.Suites {
			rows = append(rows, []string{
				suite.Path,
				StatusLabel(suite.Status),
				fmt.Sprintf("%d", suite.Passed),
				fmt.Sprintf("%d", suite.Failed),
				fmt.Sprintf("%d", suite.Skipped),
				fmt.Sprintf("%.1fs", suite.Time),
			})
		}
	}
	if len(rows) > 0 {
		w.Table([]string{"Suite", "Status", "Passed", "Failed", "Skipped", "Time"}, rows)
		w.Errorln("")
	}

	w.Errorln("  %s", w.bar(g.Widths))
	w.Errorln("")

	switch {
	case g.Total == 0:
		w.finalLine(yellow, "No tests found.")
	case g.FailureCount == 0:
		w.finalLine(green, fmt.Sprintf("All %d tests passed.", g.Total))
	default:
		w.finalLine(red, fmt.Sprintf("%d of %d tests failed, %d errors recorded.", g.Failed, g.Total, g.FailureCount))
	}
}

// StatusLabel returns the display label of a suite status.
func StatusLabel(status string) string {
	if status == "" {
		return "Unfinished"
	}
	return titleCase.String(status)
}

func (w *Writer) finalLine(color, msg string) {
	if w.color {
		w.Errorln("%s%s%s", color, msg, reset)
	} else {
		w.Errorln("%s", msg)
	}
}

func (w *Writer) bar(widths result.Widths) string {
	passed, skipped, failed := BarSegments(widths, BarColumns)
	empty := BarColumns - passed - skipped - failed

	var sb strings.Builder
	sb.WriteByte('[')
	w.segment(&sb, green, "=", passed)
	w.segment(&sb, yellow, "-", skipped)
	w.segment(&sb, red, "x", failed)
	sb.WriteString(strings.Repeat(" ", empty))
	sb.WriteByte(']')
	return sb.String()
}

func (w *Writer) segment(sb *strings.Builder, color, char string, n int) {
	if n == 0 {
		return
	}
	if w.color {
		sb.WriteString(color)
	}
	sb.WriteString(strings.Repeat(char, n))
	if w.color {
		sb.WriteString(reset)
	}
}

// BarSegments converts percentage widths into character counts that sum to
// cols. All zero widths give an empty bar.
func BarSegments(widths result.Widths, cols int) (passed, skipped, failed int) {
	pcts := [3]float64{widths.Passed, widths.Skipped, widths.Failed}
	var segs [3]int
	sum, largest := 0, 0
	for i, pct := range pcts {
		segs[i] = int(math.Round(pct * float64(cols) / 100))
		sum += segs[i]
		if segs[i] > segs[largest] {
			largest = i
		}
	}
	if sum > 0 {
		segs[largest] += cols - sum
	}
	return segs[0], segs[1], segs[2]
}
