package classify

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// Origin is the producer stream a line came from.
type Origin int

const (
	OriginUnknown Origin = -1
	OriginStdout  Origin = 0
	OriginEnv     Origin = 1
)

func (o Origin) String() string {
	switch o {
	case OriginStdout:
		return "stdout"
	case OriginEnv:
		return "env"
	default:
		return "unknown"
	}
}

// originTokenRegex matches "<text>,<digit>:(0|1)" standing on its own, e.g.
// "12:01:33,4:1". RE2 has no lookaround, hence regexp2.
var originTokenRegex = regexp2.MustCompile(`(?<=^|\s)\S+?,\d:([01])(?=\s|$)`, regexp2.None)

// Line is one logical line with its origin token removed.
type Line struct {
	Text   string
	Origin Origin
}

// Splitter cuts physical lines where the producer merged its two streams.
// It remembers the origin of the previous logical line.
type Splitter struct {
	last Origin
}

// NewSplitter creates a splitter with no origin seen yet.
func NewSplitter() *Splitter {
	return &Splitter{last: OriginUnknown}
}

type originToken struct {
	start, end int // rune offsets
	origin     Origin
}

type segment struct {
	start, textStart int
	origin           Origin
}

// Split returns the logical lines contained in raw. A token at the start of
// raw sets the line's origin; an embedded token whose origin differs from
// the origin in effect starts a new logical line.
func (s *Splitter) Split(raw string) []Line {
	tokens := findOriginTokens(raw)
	if len(tokens) == 0 {
		return []Line{{Text: raw, Origin: s.last}}
	}

	runes := []rune(raw)
	current := s.last
	segments := []segment{{origin: current}}
	for _, tok := range tokens {
		if tok.start == 0 {
			current = tok.origin
			segments[0] = segment{textStart: tok.end, origin: tok.origin}
			continue
		}
		if tok.origin == current {
			continue
		}
		current = tok.origin
		segments = append(segments, segment{start: tok.start, textStart: tok.end, origin: tok.origin})
	}
	s.last = current

	lines := make([]Line, 0, len(segments))
	for i, seg := range segments {
		end := len(runes)
		if i+1 < len(segments) {
			end = segments[i+1].start
		}
		text := string(runes[seg.textStart:end])
		// Only whitespace that separated a removed token is dropped.
		if seg.textStart > 0 {
			text = strings.TrimLeft(text, " \t")
		}
		if i+1 < len(segments) {
			text = strings.TrimRight(text, " \t")
		}
		lines = append(lines, Line{Text: text, Origin: seg.origin})
	}
	return lines
}

func findOriginTokens(raw string) []originToken {
	var tokens []originToken
	m, err := originTokenRegex.FindStringMatch(raw)
	for err == nil && m != nil {
		origin := OriginStdout
		if m.GroupByNumber(1).String() == "1" {
			origin = OriginEnv
		}
		tokens = append(tokens, originToken{start: m.Index, end: m.Index + m.Length, origin: origin})
		m, err = originTokenRegex.FindNextMatch(m)
	}
	return tokens
}
