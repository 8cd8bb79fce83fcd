package prompt

import (
	"regexp"
	"strings"
)

// highlightPattern matches one marked span. Spans never cross a line break.
var highlightPattern = regexp.MustCompile(regexp.QuoteMeta(HighlightOpen) + `(.*?)` + regexp.QuoteMeta(HighlightClose))

// Span is a run of text that is either highlighted or plain.
type Span struct {
	Text      string
	Highlight bool
}

// SplitHighlights splits s into plain and highlighted runs, removing the
// marker tags. Unmatched markers stay in the text literally.
func SplitHighlights(s string) []Span {
	matches := highlightPattern.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		if s == "" {
			return nil
		}
		return []Span{{Text: s}}
	}

	spans := make([]Span, 0, 2*len(matches)+1)
	last := 0
	for _, m := range matches {
		if m[0] > last {
			spans = append(spans, Span{Text: s[last:m[0]]})
		}
		if inner := s[m[2]:m[3]]; inner != "" {
			spans = append(spans, Span{Text: inner, Highlight: true})
		}
		last = m[1]
	}
	if last < len(s) {
		spans = append(spans, Span{Text: s[last:]})
	}
	return spans
}

// StripHighlights removes the marker tags, keeping the inner text.
func StripHighlights(s string) string {
	if !strings.Contains(s, HighlightOpen) {
		return s
	}
	return highlightPattern.ReplaceAllString(s, "$1")
}
