// Package classify recognizes the line shapes of an interleaved CI test log.
//
// Classification is stateless: a line maps to zero or more events. The
// structural shapes (suite, group, test, step) are mutually exclusive, while
// the auxiliary markers (core dump, screenshot, browser log) and the trace
// marker can accompany any of them.
package classify

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/AndreyAkinshin/zreport/internal/result"
)

// Kind identifies a recognized line shape.
type Kind int

const (
	KindStep Kind = iota
	SuiteStart
	SuiteDone
	GroupPlan
	TestResult
	StepResult
	EndMarker
	CoreDump
	CoreProcess
	Screenshot
	BrowserLog
)

var kindNames = [...]string{
	KindStep:    "kind-step",
	SuiteStart:  "suite-start",
	SuiteDone:   "done-suite",
	GroupPlan:   "group-plan",
	TestResult:  "test-result",
	StepResult:  "step-result",
	EndMarker:   "end-marker",
	CoreDump:    "core-marker",
	CoreProcess: "core-process-marker",
	Screenshot:  "screenshot-marker",
	BrowserLog:  "browser-log-marker",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// TraceMarker starts a trace line.
const TraceMarker = "#"

// DefaultGroupName names a group whose plan line carries no name.
const DefaultGroupName = "unnamed"

// Static regexes for the log grammar.
// Compiled once at package init.
var (
	kindStepRegex    = regexp.MustCompile(`^[+$] \S*test\S* ([A-Za-z][\w:.-]*)`)
	suiteStartRegex  = regexp.MustCompile(`^starting suite (\S+?)(?:\.\.\.)?\s*$`)
	suiteDoneRegex   = regexp.MustCompile(`^done \((\d+(?:\.\d+)?) seconds\)\s*$`)
	suiteFailedRegex = regexp.MustCompile(`^TEST SUITE (\S+) FAILED \((\d+(?:\.\d+)?) seconds\)\s*$`)
	groupPlanRegex   = regexp.MustCompile(`^1\.\.(\d+)(?:\s+(.*?))?\s*$`)
	testResultRegex  = regexp.MustCompile(`^(\d+) (pass|fail|skip|todo-pass|todo-fail) (.*?)(?: # \((\d+(?:\.\d+)?)s\)(?: (.*))?)?\s*$`)
	stepResultRegex  = regexp.MustCompile(`^# (\d+)-(\d+) (pass|fail|skip|todo-pass|todo-fail) (.+) (\S+):(\d+) # \((\d+(?:\.\d+)?)s\)\s*$`)
	endMarkerRegex   = regexp.MustCompile(`^# TOTAL\b`)
	coreDumpRegex    = regexp.MustCompile(`(?i)\bcore was generated\b`)
	coreProcessRegex = regexp.MustCompile(`(?i)\bprocessing core (?:dump|file)\b`)
	screenshotRegex  = regexp.MustCompile(`(?i)\bscreenshot: (\S+)`)
	browserLogRegex  = regexp.MustCompile(`\[browser\] (.*)$`)
)

// Event is one recognized shape with its captured fields. Only the fields
// relevant to Kind are set.
type Event struct {
	Kind Kind

	// KindStep: sub-command name. GroupPlan: group name. TestResult, StepResult: test or step name.
	Name string
	// SuiteStart: full suite path. SuiteDone: suite named by the failure variant.
	Path    string
	Product string

	// SuiteDone: failure variant matched.
	Failed bool
	// SuiteDone, TestResult, StepResult: elapsed seconds.
	Time float64

	// GroupPlan: declared total.
	Total int

	// TestResult, StepResult.
	Seq     int
	StepSeq int
	Status  result.Status
	Comment string
	File    string
	Line    int

	// Screenshot: URL. BrowserLog: message.
	Text string
}

// Match is the classification of one line.
type Match struct {
	Events []Event
	// Trace is set for lines carrying the trace marker.
	Trace bool
	// TraceText is the line without the marker.
	TraceText string
}

// Has returns the first event of the given kind.
func (m Match) Has(kind Kind) (Event, bool) {
	for _, ev := range m.Events {
		if ev.Kind == kind {
			return ev, true
		}
	}
	return Event{}, false
}

// Structural reports whether the line matched a hierarchy shape.
func (m Match) Structural() bool {
	for _, ev := range m.Events {
		switch ev.Kind {
		case SuiteStart, SuiteDone, GroupPlan, TestResult, StepResult, EndMarker:
			return true
		}
	}
	return false
}

type matcher struct {
	kind  Kind
	match func(line string) (Event, bool)
}

// Structural matchers are tried in order and stop at the first hit.
var structural = []matcher{
	{SuiteStart, matchSuiteStart},
	{SuiteDone, matchSuiteDone},
	{GroupPlan, matchGroupPlan},
	{TestResult, matchTestResult},
	{StepResult, matchStepResult},
	{EndMarker, matchEndMarker},
}

var auxiliary = []matcher{
	{KindStep, matchKindStep},
	{CoreDump, matchSimple(coreDumpRegex, CoreDump)},
	{CoreProcess, matchSimple(coreProcessRegex, CoreProcess)},
	{Screenshot, matchScreenshot},
	{BrowserLog, matchBrowserLog},
}

// Classify recognizes every shape line matches.
func Classify(line string) Match {
	var m Match

	for _, am := range auxiliary {
		if ev, ok := am.match(line); ok {
			m.Events = append(m.Events, ev)
		}
	}

	structuralHit := false
	for _, sm := range structural {
		if ev, ok := sm.match(line); ok {
			m.Events = append(m.Events, ev)
			structuralHit = true
			break
		}
	}

	if !structuralHit && strings.HasPrefix(line, TraceMarker) {
		m.Trace = true
		m.TraceText = strings.TrimPrefix(strings.TrimPrefix(line, TraceMarker), " ")
	}

	return m
}

func matchKindStep(line string) (Event, bool) {
	sub := kindStepRegex.FindStringSubmatch(line)
	if sub == nil {
		return Event{}, false
	}
	return Event{Kind: KindStep, Name: sub[1]}, true
}

func matchSuiteStart(line string) (Event, bool) {
	sub := suiteStartRegex.FindStringSubmatch(line)
	if sub == nil {
		return Event{}, false
	}
	path := sub[1]
	product, _, _ := strings.Cut(path, "/")
	return Event{Kind: SuiteStart, Path: path, Product: product}, true
}

func matchSuiteDone(line string) (Event, bool) {
	if sub := suiteDoneRegex.FindStringSubmatch(line); sub != nil {
		return Event{Kind: SuiteDone, Time: parseFloat(sub[1])}, true
	}
	if sub := suiteFailedRegex.FindStringSubmatch(line); sub != nil {
		return Event{Kind: SuiteDone, Path: sub[1], Failed: true, Time: parseFloat(sub[2])}, true
	}
	return Event{}, false
}

func matchGroupPlan(line string) (Event, bool) {
	sub := groupPlanRegex.FindStringSubmatch(line)
	if sub == nil {
		return Event{}, false
	}
	total, err := strconv.Atoi(sub[1])
	if err != nil {
		return Event{}, false
	}
	name := sub[2]
	if name == "" {
		name = DefaultGroupName
	}
	return Event{Kind: GroupPlan, Total: total, Name: name}, true
}

func matchTestResult(line string) (Event, bool) {
	sub := testResultRegex.FindStringSubmatch(line)
	if sub == nil {
		return Event{}, false
	}
	seq, err := strconv.Atoi(sub[1])
	if err != nil {
		return Event{}, false
	}
	status, _ := result.ParseStatus(sub[2])
	return Event{
		Kind:    TestResult,
		Seq:     seq,
		Status:  status,
		Name:    sub[3],
		Time:    parseFloat(sub[4]),
		Comment: sub[5],
	}, true
}

func matchStepResult(line string) (Event, bool) {
	sub := stepResultRegex.FindStringSubmatch(line)
	if sub == nil {
		return Event{}, false
	}
	seq, err1 := strconv.Atoi(sub[1])
	stepSeq, err2 := strconv.Atoi(sub[2])
	lineNo, err3 := strconv.Atoi(sub[6])
	if err1 != nil || err2 != nil || err3 != nil {
		return Event{}, false
	}
	status, _ := result.ParseStatus(sub[3])
	return Event{
		Kind:    StepResult,
		Seq:     seq,
		StepSeq: stepSeq,
		Status:  status,
		Name:    sub[4],
		File:    sub[5],
		Line:    lineNo,
		Time:    parseFloat(sub[7]),
	}, true
}

func matchEndMarker(line string) (Event, bool) {
	if !endMarkerRegex.MatchString(line) {
		return Event{}, false
	}
	return Event{Kind: EndMarker}, true
}

func matchScreenshot(line string) (Event, bool) {
	sub := screenshotRegex.FindStringSubmatch(line)
	if sub == nil {
		return Event{}, false
	}
	return Event{Kind: Screenshot, Text: sub[1]}, true
}

func matchBrowserLog(line string) (Event, bool) {
	sub := browserLogRegex.FindStringSubmatch(line)
	if sub == nil {
		return Event{}, false
	}
	return Event{Kind: BrowserLog, Text: sub[1]}, true
}

func matchSimple(re *regexp.Regexp, kind Kind) func(string) (Event, bool) {
	return func(line string) (Event, bool) {
		if !re.MatchString(line) {
			return Event{}, false
		}
		return Event{Kind: kind}, true
	}
}

// parseFloat returns 0 for an empty or malformed capture.
func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
