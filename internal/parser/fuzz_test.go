package parser

import (
	"errors"
	"strings"
	"testing"
)

// FuzzParser feeds arbitrary logs and checks the group invariants of
// whatever result comes out.
// Run: go test -fuzz=FuzzParser -fuzztime=30s ./internal/parser
func FuzzParser(f *testing.F) {
	seeds := []string{
		"starting suite core/a\n1..2 Foo\n1 pass a\n2 fail b\ndone (1 seconds)\n# TOTAL",
		"1..3 X\n3 pass c\n1 pass a",
		"starting suite a/b\nTEST SUITE a/b FAILED (1 seconds)",
		"done (1 seconds)\n1 pass stray",
		"1..1\n# 1-1 fail s f.feature:1 # (0.1s)\nScreenshot: u\n1 fail t\n# trace\n[browser] x",
		"1..999999\n1 pass a",
		"12:00:00,1:0 1..1 A 12:00:01,1:1 1 pass env",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		p := New(WithLimits(Limits{ContextLines: 4, MaxErrors: 8, MaxAdditionalInfo: 8}))
		for _, line := range strings.Split(input, "\n") {
			if err := p.Feed(line); err != nil {
				if !errors.Is(err, ErrInconsistent) {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
		}
		g, err := p.Finish()
		if err != nil {
			if !errors.Is(err, ErrInconsistent) {
				t.Fatalf("unexpected error: %v", err)
			}
			return
		}

		total := 0
		for _, product := range g.Products() {
			for _, suite := range product.Suites {
				for _, group := range suite.Groups {
					if group.Passed+group.Failed+group.Skipped != group.Total {
						t.Fatalf("group %q: buckets do not sum to total", group.Name)
					}
					if group.Total != len(group.Tests()) {
						t.Fatalf("group %q: total %d, %d tests", group.Name, group.Total, len(group.Tests()))
					}
					if group.Total < group.Declared {
						t.Fatalf("group %q: %d tests, %d declared", group.Name, group.Total, group.Declared)
					}
					total += group.Total
				}
			}
		}
		if total != g.Total {
			t.Fatalf("global total %d, groups sum to %d", g.Total, total)
		}
		if len(g.Failures()) > 8 {
			t.Fatalf("failure buffer holds %d entries", len(g.Failures()))
		}
	})
}
