// Package transcript turns raw lecture text or structured JSON into an
// ordered, bounded list of segments suitable for a single model prompt.
package transcript

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Chunking configuration.
const (
	// sentencesPerChunk is the target number of sentences merged into one segment.
	sentencesPerChunk = 10

	// MaxChunks bounds the number of segments produced from raw text.
	MaxChunks = 50

	// maxHeadingRunes is the exclusive upper bound on heading line length.
	maxHeadingRunes = 60
)

// Segment is one unit of transcript context.
// Time is in seconds from the start of the recording and is 0 when unknown.
type Segment struct {
	Time    int    `json:"time"`
	Text    string `json:"text"`
	Heading string `json:"heading,omitempty"`
}

// Transcript is a parsed transcript: an optional title and its segments in order.
type Transcript struct {
	Title    string
	Segments []Segment
}

// IsEmpty reports whether the transcript carries no segments.
func (t Transcript) IsEmpty() bool {
	return len(t.Segments) == 0
}

// SegmentText splits unstructured text into at most MaxChunks segments of
// roughly ten sentences each. Empty or whitespace-only input yields nil.
//
// A sentence ends at '.', '?', '!' or ';' followed by whitespace. The chunk
// size is len(sentences)/clamp(len(sentences)/10, 1, 50); when that would
// still produce more than MaxChunks chunks, the size grows to keep the bound.
func SegmentText(raw string) []Segment {
	sentences := splitSentences(raw)
	if len(sentences) == 0 {
		return nil
	}

	size := chunkSize(len(sentences))

	segments := make([]Segment, 0, (len(sentences)+size-1)/size)
	for i := 0; i < len(sentences); i += size {
		end := min(i+size, len(sentences))
		segments = append(segments, Segment{
			Time: 0,
			Text: strings.Join(sentences[i:end], " "),
		})
	}
	return segments
}

// chunkSize returns the number of sentences per chunk for n sentences.
func chunkSize(n int) int {
	target := min(MaxChunks, max(1, n/sentencesPerChunk))
	size := max(1, n/target)
	if (n+size-1)/size > MaxChunks {
		size = (n + MaxChunks - 1) / MaxChunks
	}
	return size
}

// splitSentences breaks text on end-of-sentence punctuation followed by
// whitespace. Punctuation stays attached to its sentence; empty fragments are dropped.
func splitSentences(raw string) []string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil
	}

	var sentences []string
	start := 0
	for i := 0; i < len(text); {
		r, width := utf8.DecodeRuneInString(text[i:])
		i += width
		if !isSentenceEnd(r) || i >= len(text) {
			continue
		}
		next, _ := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsSpace(next) {
			continue
		}
		sentences = appendSentence(sentences, text[start:i])
		for i < len(text) {
			r, width := utf8.DecodeRuneInString(text[i:])
			if !unicode.IsSpace(r) {
				break
			}
			i += width
		}
		start = i
	}
	return appendSentence(sentences, text[start:])
}

func appendSentence(sentences []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '?', '!', ';':
		return true
	}
	return false
}

// SegmentByHeadings parses outline-style notes. The first non-empty line is
// the title. A line shorter than 60 characters that starts with an uppercase
// letter (or is entirely uppercase) and does not end with a period starts a
// new segment; other lines accumulate as that segment's content.
// Segments without content are dropped.
func SegmentByHeadings(raw string) Transcript {
	var (
		t       Transcript
		heading string
		content []string
	)

	flush := func() {
		if len(content) > 0 {
			t.Segments = append(t.Segments, Segment{
				Heading: heading,
				Text:    strings.Join(content, " "),
			})
		}
		content = nil
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if t.Title == "" {
			t.Title = line
			continue
		}
		if isHeading(line) {
			flush()
			heading = line
			continue
		}
		content = append(content, line)
	}
	flush()

	return t
}

// isHeading implements the heading heuristic used by SegmentByHeadings.
func isHeading(line string) bool {
	if utf8.RuneCountInString(line) >= maxHeadingRunes {
		return false
	}
	if strings.HasSuffix(line, ".") {
		return false
	}
	first, _ := utf8.DecodeRuneInString(line)
	return unicode.IsUpper(first) || isAllUpper(line)
}

// isAllUpper reports whether s has at least one cased letter and no lowercase ones.
func isAllUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}
