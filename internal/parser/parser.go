// Package parser rebuilds a run's result hierarchy from its console log.
//
// The parser is a single-pass state machine. Lines are fed one at a time;
// each line is split on stream-origin changes, classified, and applied to the
// cursor (current product, suite and group). Gaps in test numbering are
// backfilled with synthetic "missing" tests so that every closed group holds
// exactly the number of tests its plan line declared.
package parser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-logr/logr"

	"github.com/AndreyAkinshin/zreport/internal/classify"
	"github.com/AndreyAkinshin/zreport/internal/result"
	"github.com/AndreyAkinshin/zreport/internal/ringbuf"
)

// Names given to hierarchy nodes the stream never announced.
const (
	UnknownProduct = "unknown"
	UnknownSuite   = "unknown_suite"
)

// Test names of suite-level failures.
const (
	SuiteInitializeTest = "Suite initialize"
	OutsideAnyTest      = "Outside of any test"
	SuiteNotStartedTest = "Suite done without start"
)

// MaxLineLength is the longest physical line ReadFrom accepts.
const MaxLineLength = 1024 * 1024

// level is how deep the cursor currently is.
type level int

const (
	levelRun level = iota
	levelSuite
	levelGroup
)

// cursor points at the open hierarchy nodes. A group is only ever open
// inside a suite, and a suite inside a product.
type cursor struct {
	product *result.Product
	suite   *result.Suite
	group   *result.Group
}

func (c cursor) level() level {
	switch {
	case c.group != nil:
		return levelGroup
	case c.suite != nil:
		return levelSuite
	default:
		return levelRun
	}
}

// Parser consumes one run's log. It is not safe for concurrent use.
type Parser struct {
	log        logr.Logger
	observer   Observer
	limits     Limits
	retryKinds map[string]bool

	global   *result.Global
	splitter *classify.Splitter
	context  *ringbuf.Ring[string]
	cur      cursor

	steps          []*result.Step
	failure        *result.Failure
	screenshot     string
	failedStep     string
	failedStepFile string

	lineNo   int
	done     bool
	finished bool
	err      error
}

// New creates a parser with an empty result.
func New(opts ...Option) *Parser {
	p := &Parser{
		log:      logr.Discard(),
		observer: nopObserver{},
		limits:   DefaultLimits(),
	}
	WithRetryKinds(DefaultRetryKinds)(p)
	for _, opt := range opts {
		opt(p)
	}
	p.global = result.NewGlobal(p.limits.MaxErrors, p.limits.MaxAdditionalInfo)
	p.splitter = classify.NewSplitter()
	p.context = ringbuf.New[string](p.limits.ContextLines)
	return p
}

// ReadFrom feeds every line of r. Input after the end marker is drained
// without effect. It stops at the first inconsistency or when ctx is done.
func (p *Parser) ReadFrom(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineLength)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.Feed(strings.TrimRight(scanner.Text(), "\r")); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// Feed processes one physical line.
func (p *Parser) Feed(raw string) error {
	if p.err != nil {
		return p.err
	}
	p.lineNo++
	p.observer.ObserveLine()
	if p.done {
		return nil
	}
	for _, line := range p.splitter.Split(raw) {
		if err := p.handle(line.Text); err != nil {
			p.err = err
			return err
		}
		if p.done {
			break
		}
	}
	return nil
}

// Finish closes the open group and computes the aggregates. It returns the
// same result when called again.
func (p *Parser) Finish() (*result.Global, error) {
	if p.err != nil {
		return nil, p.err
	}
	if !p.finished {
		if err := p.closeGroup(); err != nil {
			p.err = err
			return nil, err
		}
		p.failure = nil
		p.global.Compute()
		p.finished = true
	}
	return p.global, nil
}

// Done reports whether the end marker was seen.
func (p *Parser) Done() bool {
	return p.done
}

func (p *Parser) handle(line string) error {
	m := classify.Classify(line)
	for _, ev := range m.Events {
		p.observer.ObserveEvent(ev.Kind.String())
	}
	if len(m.Events) > 0 {
		p.log.V(1).Info("classified line", "line", p.lineNo, "events", len(m.Events), "trace", m.Trace)
	}

	if ev, ok := m.Has(classify.KindStep); ok {
		p.global.Kind = ev.Name
		if p.retryKinds[ev.Name] {
			p.global.Retry = true
		}
	}
	if _, ok := m.Has(classify.EndMarker); ok {
		p.global.Timeout = false
		p.done = true
		return nil
	}
	if _, ok := m.Has(classify.CoreDump); ok {
		p.global.Core = true
	}
	if _, ok := m.Has(classify.CoreProcess); ok {
		p.global.CoreProcessing = true
	}

	if ev, ok := m.Has(classify.SuiteStart); ok {
		if err := p.startSuite(ev); err != nil {
			return err
		}
	}
	if ev, ok := m.Has(classify.GroupPlan); ok {
		if err := p.startGroup(ev); err != nil {
			return err
		}
	}
	if ev, ok := m.Has(classify.SuiteDone); ok {
		if err := p.finishSuite(ev); err != nil {
			return err
		}
	}
	if ev, ok := m.Has(classify.Screenshot); ok {
		p.screenshot = ev.Text
	}
	if ev, ok := m.Has(classify.BrowserLog); ok && p.failure != nil {
		p.failure.BrowserLog = append(p.failure.BrowserLog, ev.Text)
	}

	if ev, ok := m.Has(classify.TestResult); ok {
		return p.addTest(ev, line)
	}
	if ev, ok := m.Has(classify.StepResult); ok {
		p.queueStep(ev)
	}
	if m.Trace {
		p.trace(m.TraceText)
	}
	if !m.Structural() {
		p.context.Push(line)
	}
	return nil
}

func (p *Parser) startSuite(ev classify.Event) error {
	if err := p.closeGroup(); err != nil {
		return err
	}
	p.failure = nil
	p.context.Reset()

	product := p.global.Product(ev.Product)
	suite := result.NewSuite(ev.Path, ev.Product)
	product.AddSuite(suite)
	p.cur = cursor{product: product, suite: suite}
	return nil
}

func (p *Parser) startGroup(ev classify.Event) error {
	if err := p.closeGroup(); err != nil {
		return err
	}
	p.failure = nil

	if p.cur.level() == levelRun {
		p.openUnknownSuite()
	}
	group := result.NewGroup(ev.Name, ev.Total)
	p.cur.suite.AddGroup(group)
	p.cur.group = group
	return nil
}

// openUnknownSuite gives orphan groups a home.
func (p *Parser) openUnknownSuite() {
	product := p.cur.product
	if product == nil {
		product = p.global.Product(UnknownProduct)
	}
	suite := result.NewSuite(UnknownSuite, product.Name)
	product.AddSuite(suite)
	p.cur = cursor{product: product, suite: suite}
	p.log.Info("group outside of any suite", "line", p.lineNo, "suite", UnknownSuite)
}

func (p *Parser) finishSuite(ev classify.Event) error {
	if p.cur.level() == levelRun {
		p.log.Info("suite done without an open suite", "line", p.lineNo, "path", ev.Path)
		f := p.newFailure(result.StatusFail, SuiteNotStartedTest)
		f.Suite = ev.Path
		p.record(f)
		return nil
	}
	suite := p.cur.suite
	// Only reported failures count; backfilled tests do not.
	reported := anyOpensFailure(suite.Tests())
	if err := p.closeGroup(); err != nil {
		return err
	}
	p.failure = nil

	suite.Time = ev.Time
	suite.Status = result.SuitePass
	if ev.Failed {
		suite.Status = result.SuiteFail
		switch {
		case len(suite.Groups) == 0:
			p.record(p.newFailure(result.StatusFail, SuiteInitializeTest))
		case !reported:
			p.record(p.newFailure(result.StatusFail, OutsideAnyTest))
		}
	}
	p.cur.suite = nil
	p.cur.group = nil
	return nil
}

func anyOpensFailure(tests []*result.Test) bool {
	for _, t := range tests {
		if t.Status.OpensFailure() {
			return true
		}
	}
	return false
}

func (p *Parser) addTest(ev classify.Event, line string) error {
	p.failure = nil
	defer p.resetTestState(line)

	if p.cur.level() != levelGroup {
		p.log.Info("test result outside of a group", "line", p.lineNo, "seq", ev.Seq, "name", ev.Name)
		return nil
	}

	group := p.cur.group
	pos := group.Len() + 1
	switch {
	case ev.Seq < pos:
		p.context.Push(line)
		f := p.newFailure(result.StatusBadNumber, ev.Name)
		f.AddTrace(fmt.Sprintf("bad test number %d, expected %d", ev.Seq, pos))
		p.record(f)
		return nil
	case ev.Seq > pos:
		if err := p.backfill(group, pos, ev.Seq); err != nil {
			return err
		}
	}

	test := &result.Test{
		Seq:     ev.Seq,
		Status:  ev.Status,
		Name:    ev.Name,
		Time:    ev.Time,
		Comment: ev.Comment,
		Steps:   p.steps,
	}
	group.Add(test)
	p.context.Push(line)

	if ev.Status.OpensFailure() {
		f := p.newFailure(ev.Status, test.Name)
		f.Screenshot = p.screenshot
		f.FailedStep = p.failedStep
		f.FailedStepFile = p.failedStepFile
		f.AddTrace("Traceback:")
		if f.Screenshot != "" {
			f.AddTrace("Screenshot: " + f.Screenshot)
		}
		if f.FailedStep != "" {
			f.AddTrace(fmt.Sprintf("Failed step: %s (%s)", f.FailedStep, f.FailedStepFile))
		}
		p.record(f)
		p.failure = f
	}
	return nil
}

// resetTestState clears everything that belongs to a single test result.
// The context restarts from the test's own line.
func (p *Parser) resetTestState(line string) {
	p.steps = nil
	p.screenshot = ""
	p.failedStep = ""
	p.failedStepFile = ""
	p.context.Reset()
	p.context.Push(line)
}

func (p *Parser) queueStep(ev classify.Event) {
	p.steps = append(p.steps, &result.Step{
		TestSeq: ev.Seq,
		Seq:     ev.StepSeq,
		Status:  ev.Status,
		Name:    ev.Name,
		File:    ev.File,
		Line:    ev.Line,
		Time:    ev.Time,
	})
	if ev.Status == result.StatusFail && p.failedStep == "" {
		p.failedStep = ev.Name
		p.failedStepFile = fmt.Sprintf("%s:%d", ev.File, ev.Line)
	}
}

func (p *Parser) trace(text string) {
	if p.failure == nil {
		p.global.AddInfo(text)
		return
	}
	p.failure.AddTrace(text)
	if p.global.CoreProcessing {
		p.global.AddInfo(text)
	}
}

// closeGroup backfills the open group up to its declared total.
func (p *Parser) closeGroup() error {
	group := p.cur.group
	if group == nil {
		return nil
	}
	if group.Short() {
		if err := p.backfill(group, group.Len()+1, group.Declared+1); err != nil {
			return err
		}
	}
	p.cur.group = nil
	return nil
}

// backfill appends missing tests numbered from..to-1 and records one failure
// naming the first of them.
func (p *Parser) backfill(group *result.Group, from, to int) error {
	if from >= to || to-from >= MaxBackfill {
		return &InconsistencyError{Line: p.lineNo, Group: group.Name, From: from, To: to}
	}
	first := ""
	for pos := from; pos < to; pos++ {
		t := &result.Test{
			Seq:    pos,
			Status: result.StatusMissing,
			Name:   fmt.Sprintf("missing: %s.(%d->%d)(unknown)", group.Name, pos, to),
		}
		group.Add(t)
		if first == "" {
			first = t.Name
		}
	}
	p.record(p.newFailure(result.StatusMissing, first))
	return nil
}

func (p *Parser) newFailure(status result.Status, test string) *result.Failure {
	f := &result.Failure{
		Status:  status,
		Test:    test,
		Context: p.context.Snapshot(),
	}
	if p.cur.product != nil {
		f.Product = p.cur.product.Name
	}
	if p.cur.suite != nil {
		f.Suite = p.cur.suite.Path
		f.SuiteName = p.cur.suite.Name
	}
	if p.cur.group != nil {
		f.Group = p.cur.group.Name
	}
	return f
}

func (p *Parser) record(f *result.Failure) {
	p.global.AddFailure(f)
	p.observer.ObserveFailure(string(f.Status))
	p.log.V(1).Info("failure recorded", "line", p.lineNo, "status", f.Status, "suite", f.Suite, "test", f.Test)
}
