package transcript

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Input mode names.
const (
	Auto     = "auto"
	Text     = "text"
	JSON     = "json"
	Headings = "headings"
)

// Mode selects how raw input is interpreted.
// The zero value behaves like AutoMode.
type Mode struct {
	name string
}

// Pre-parsed modes.
var (
	AutoMode     = Mode{name: Auto}
	TextMode     = Mode{name: Text}
	JSONMode     = Mode{name: JSON}
	HeadingsMode = Mode{name: Headings}
)

// ParseMode validates an input mode name. Empty string selects AutoMode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", Auto:
		return AutoMode, nil
	case Text, JSON, Headings:
		return Mode{name: s}, nil
	}
	return Mode{}, fmt.Errorf("unknown input mode %q (use auto, text, json or headings): %w", s, ErrInvalidMode)
}

// String returns the mode name.
func (m Mode) String() string {
	if m.name == "" {
		return Auto
	}
	return m.name
}

// structuredDoc is the object form of structured input.
type structuredDoc struct {
	Title    string `json:"title"`
	Segments []struct {
		Heading string `json:"heading"`
		Content string `json:"content"`
	} `json:"segments"`
}

// Parse converts raw input into a Transcript according to mode.
//
// In auto mode, input that starts with '[' or '{' and is valid JSON is read
// as structured input; input that merely looks like JSON (e.g. "[Music] ...")
// falls back to sentence segmentation. Well-formed JSON of the wrong shape is
// an input error in every mode.
//
// Parse returns ErrEmptyTranscript when no segment can be produced.
func Parse(raw string, mode Mode) (Transcript, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Transcript{}, ErrEmptyTranscript
	}

	var (
		t   Transcript
		err error
	)

	switch mode.String() {
	case Text:
		t = Transcript{Segments: SegmentText(trimmed)}
	case Headings:
		t = SegmentByHeadings(trimmed)
	case JSON:
		t, err = parseStructured([]byte(trimmed))
	default:
		if looksStructured(trimmed) && json.Valid([]byte(trimmed)) {
			t, err = parseStructured([]byte(trimmed))
		} else {
			t = Transcript{Segments: SegmentText(trimmed)}
		}
	}
	if err != nil {
		return Transcript{}, err
	}
	if t.IsEmpty() {
		return Transcript{}, ErrEmptyTranscript
	}
	return t, nil
}

func looksStructured(s string) bool {
	return strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{")
}

// parseStructured decodes either a flat segment array or the
// {title, segments:[{heading, content}]} object form.
func parseStructured(data []byte) (Transcript, error) {
	if !json.Valid(data) {
		var probe any
		err := json.Unmarshal(data, &probe)
		return Transcript{}, fmt.Errorf("malformed transcript JSON: %v: %w", err, ErrInvalidInput)
	}

	switch data[0] {
	case '[':
		return parseSegmentArray(data)
	case '{':
		return parseSegmentObject(data)
	}
	return Transcript{}, fmt.Errorf("transcript JSON must be an array or object: %w", ErrInvalidInput)
}

func parseSegmentArray(data []byte) (Transcript, error) {
	var raw []struct {
		Time *json.Number `json:"time"`
		Text *string      `json:"text"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return Transcript{}, fmt.Errorf("transcript array must contain {time, text} objects: %v: %w", err, ErrInvalidInput)
	}

	segments := make([]Segment, 0, len(raw))
	for i, item := range raw {
		if item.Text == nil {
			return Transcript{}, fmt.Errorf("segment %d: missing text: %w", i, ErrInvalidInput)
		}
		text := strings.TrimSpace(*item.Text)
		if text == "" {
			continue
		}
		seconds, err := parseTime(item.Time)
		if err != nil {
			return Transcript{}, fmt.Errorf("segment %d: %w", i, err)
		}
		segments = append(segments, Segment{Time: seconds, Text: text})
	}
	return Transcript{Segments: segments}, nil
}

func parseSegmentObject(data []byte) (Transcript, error) {
	var doc structuredDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return Transcript{}, fmt.Errorf("transcript object must be {title, segments}: %v: %w", err, ErrInvalidInput)
	}

	t := Transcript{Title: strings.TrimSpace(doc.Title)}
	for _, s := range doc.Segments {
		content := strings.TrimSpace(s.Content)
		if content == "" {
			continue
		}
		t.Segments = append(t.Segments, Segment{
			Heading: strings.TrimSpace(s.Heading),
			Text:    content,
		})
	}
	return t, nil
}

// parseTime converts an optional JSON number of seconds to int.
// Fractional seconds are truncated; negative values are rejected.
func parseTime(n *json.Number) (int, error) {
	if n == nil {
		return 0, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", n.String(), ErrInvalidInput)
	}
	if f < 0 {
		return 0, fmt.Errorf("negative time %s: %w", n.String(), ErrInvalidInput)
	}
	return int(f), nil
}

// IsInputError reports whether err is a user input problem raised by this package.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrEmptyTranscript) || errors.Is(err, ErrInvalidMode)
}
