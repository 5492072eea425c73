package result

import (
	"fmt"
	"strings"

	"github.com/AndreyAkinshin/zreport/internal/ringbuf"
)

// Global is the root of one run's results.
type Global struct {
	Counts
	Time float64

	// Timeout stays true until the end marker is seen.
	Timeout bool
	// Core is set once a core dump was reported.
	Core bool
	// CoreProcessing is set once core post-processing started.
	CoreProcessing bool
	// Kind is the last sub-command name echoed by the producer.
	Kind  string
	Retry bool

	// Widths are the bar-chart widths derived by Compute.
	Widths Widths

	// FailureCount counts every failure recorded, including evicted ones.
	FailureCount int

	products     []*Product
	productIndex map[string]*Product
	failures     *ringbuf.Ring[*Failure]
	info         *ringbuf.Ring[string]
}

// NewGlobal creates an empty run result. maxFailures and maxInfo bound the
// failure and additional-info buffers.
func NewGlobal(maxFailures, maxInfo int) *Global {
	return &Global{
		Counts:       newCounts(),
		Timeout:      true,
		productIndex: make(map[string]*Product),
		failures:     ringbuf.New[*Failure](maxFailures),
		info:         ringbuf.New[string](maxInfo),
	}
}

// Product returns the product with the given name, creating it on first use.
func (g *Global) Product(name string) *Product {
	if p, ok := g.productIndex[name]; ok {
		return p
	}
	p := &Product{Counts: newCounts(), Name: name}
	g.productIndex[name] = p
	g.products = append(g.products, p)
	return p
}

// Products returns the products in insertion order.
func (g *Global) Products() []*Product {
	return g.products
}

// AddFailure records f, evicting the oldest failure when the buffer is full.
func (g *Global) AddFailure(f *Failure) {
	g.FailureCount++
	g.failures.Push(f)
}

// Failures returns the retained failures, oldest first.
func (g *Global) Failures() []*Failure {
	return g.failures.Snapshot()
}

// AddInfo records an additional-info line.
func (g *Global) AddInfo(line string) {
	g.info.Push(line)
}

// Info returns the retained additional-info lines, oldest first.
func (g *Global) Info() []string {
	return g.info.Snapshot()
}

// Compute aggregates every product and derives percentages and bar widths.
// It may be called more than once.
func (g *Global) Compute() {
	g.reset()
	g.Time = 0
	for _, p := range g.products {
		p.Compute()
		g.add(p.Counts)
		g.Time += p.Time
	}
	g.finish()
	g.Widths = AllocateWidths(g.PassedPct, g.SkippedPct, g.FailedPct, MinBarWidth)
}

// Product groups the suites that share a leading path segment.
type Product struct {
	Counts
	Name   string
	Suites []*Suite
	Time   float64
}

// AddSuite appends s to the product.
func (p *Product) AddSuite(s *Suite) {
	p.Suites = append(p.Suites, s)
}

// Compute aggregates every suite.
func (p *Product) Compute() {
	p.reset()
	p.Time = 0
	for _, s := range p.Suites {
		s.Compute()
		p.add(s.Counts)
		p.Time += s.Time
	}
	p.finish()
}

// Suite is one execution of a test file.
type Suite struct {
	Counts
	// Path is the full suite path as announced.
	Path string
	// Name is Path with its known prefix removed.
	Name    string
	Product string
	Groups  []*Group
	// Time is taken from the done marker.
	Time float64
	// Status is empty until the done marker, then SuitePass or SuiteFail.
	Status string
}

// NewSuite creates a suite for path under the named product.
func NewSuite(path, product string) *Suite {
	return &Suite{
		Counts:  newCounts(),
		Path:    path,
		Name:    ShortSuiteName(path, product),
		Product: product,
	}
}

// ShortSuiteName strips the first matching known prefix from path.
// Prefixes are tried in order: www/testem/, <product>/, testem/,
// jasmine/testem/, jasmine/.
func ShortSuiteName(path, product string) string {
	prefixes := []string{"www/testem/", product + "/", "testem/", "jasmine/testem/", "jasmine/"}
	for _, prefix := range prefixes {
		if prefix == "/" {
			continue
		}
		if strings.HasPrefix(path, prefix) {
			return strings.TrimPrefix(path, prefix)
		}
	}
	return path
}

// AddGroup appends g to the suite.
func (s *Suite) AddGroup(g *Group) {
	s.Groups = append(s.Groups, g)
}

// Tests returns every test of every group, in order.
func (s *Suite) Tests() []*Test {
	var tests []*Test
	for _, g := range s.Groups {
		tests = append(tests, g.tests...)
	}
	return tests
}

// Compute aggregates every group.
func (s *Suite) Compute() {
	s.reset()
	for _, g := range s.Groups {
		g.Compute()
		s.add(g.Counts)
	}
	s.finish()
}

// Group is a batch of tests announced by a 1..N plan line.
type Group struct {
	Counts
	Name string
	// Declared is the N of the plan line.
	Declared int
	Time     float64
	// Buckets holds per-status test counts after Compute.
	Buckets map[Status]int

	tests    []*Test
	index    map[string]*Test
	firstSeq map[string]int
}

// NewGroup creates an empty group declaring total tests.
func NewGroup(name string, declared int) *Group {
	return &Group{
		Counts:   newCounts(),
		Name:     name,
		Declared: declared,
		Buckets:  make(map[Status]int),
		index:    make(map[string]*Test),
		firstSeq: make(map[string]int),
	}
}

// Add appends t. A name already used in the group is rewritten to
// "<name> (outline <k>)", k counted from the first test with that name.
func (g *Group) Add(t *Test) {
	if first, ok := g.firstSeq[t.Name]; ok {
		t.Name = fmt.Sprintf("%s (outline %d)", t.Name, t.Seq-first+1)
	} else {
		g.firstSeq[t.Name] = t.Seq
	}
	g.index[t.Name] = t
	g.tests = append(g.tests, t)
}

// Len returns the number of tests appended so far.
func (g *Group) Len() int {
	return len(g.tests)
}

// Short reports whether fewer tests than declared were appended.
func (g *Group) Short() bool {
	return len(g.tests) < g.Declared
}

// Tests returns the tests in insertion order.
func (g *Group) Tests() []*Test {
	return g.tests
}

// Lookup finds a test by display name.
func (g *Group) Lookup(name string) (*Test, bool) {
	t, ok := g.index[name]
	return t, ok
}

// Compute tallies test statuses into buckets and the three-way counts.
func (g *Group) Compute() {
	g.reset()
	g.Time = 0
	g.Buckets = make(map[Status]int, len(AllStatuses))
	for _, t := range g.tests {
		g.Buckets[t.Status]++
		g.Time += t.Time
	}
	g.Skipped = g.Buckets[StatusSkip] + g.Buckets[StatusTodoFail]
	g.Passed = g.Buckets[StatusPass]
	g.Failed = g.Buckets[StatusFail] + g.Buckets[StatusTodoPass] +
		g.Buckets[StatusMissing] + g.Buckets[StatusBadNumber]
	g.Total = len(g.tests)
	g.finish()
}

// Test is a single reported (or synthesized) test.
type Test struct {
	Seq     int
	Status  Status
	Name    string
	Time    float64
	Comment string
	Steps   []*Step
}

// Step is one step of a behavioral test.
type Step struct {
	TestSeq int
	Seq     int
	Status  Status
	Name    string
	File    string
	Line    int
	Time    float64
}
