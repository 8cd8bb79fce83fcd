package section

import (
	"fmt"
	"strings"
)

// Section key constants.
// Use these instead of string literals for compile-time safety.
const (
	TopicBreakdown          = "topic_breakdown"
	KeyVocabulary           = "key_vocabulary"
	FormulasAndPrinciples   = "formulas_and_principles"
	TeacherInsights         = "teacher_insights"
	ExamFocusPoints         = "exam_focus_points"
	CommonMistakesExplained = "common_mistakes_explained"
	KeyPoints               = "key_points"
	ShortTricks             = "short_tricks"
	MustRemembers           = "must_remembers"
)

// ---------------------------------------------------------------------------
// Key type - represents a validated section key
// ---------------------------------------------------------------------------

// Key represents a validated section key.
// Zero value is invalid. Use ParseKey to create from user input,
// or the pre-parsed variables.
type Key struct {
	name string
}

// Pre-parsed section keys for use in code.
var (
	TopicBreakdownKey          = Key{name: TopicBreakdown}
	KeyVocabularyKey           = Key{name: KeyVocabulary}
	FormulasAndPrinciplesKey   = Key{name: FormulasAndPrinciples}
	TeacherInsightsKey         = Key{name: TeacherInsights}
	ExamFocusPointsKey         = Key{name: ExamFocusPoints}
	CommonMistakesExplainedKey = Key{name: CommonMistakesExplained}
	KeyPointsKey               = Key{name: KeyPoints}
	ShortTricksKey             = Key{name: ShortTricks}
	MustRemembersKey           = Key{name: MustRemembers}
)

// info is the per-section presentation metadata.
type info struct {
	label string
	icon  string
}

// order is the canonical section order used for prompts, help text and rendering.
var order = []string{
	TopicBreakdown,
	KeyVocabulary,
	FormulasAndPrinciples,
	TeacherInsights,
	ExamFocusPoints,
	CommonMistakesExplained,
	KeyPoints,
	ShortTricks,
	MustRemembers,
}

var catalogue = map[string]info{
	TopicBreakdown:          {label: "Topic Breakdown", icon: "📚"},
	KeyVocabulary:           {label: "Key Vocabulary", icon: "📖"},
	FormulasAndPrinciples:   {label: "Formulas & Principles", icon: "🔬"},
	TeacherInsights:         {label: "Teacher Insights", icon: "💡"},
	ExamFocusPoints:         {label: "Exam Focus Points", icon: "⭐"},
	CommonMistakesExplained: {label: "Common Mistakes Explained", icon: "⚠️"},
	KeyPoints:               {label: "Key Points", icon: "✨"},
	ShortTricks:             {label: "Short Tricks", icon: "⚡"},
	MustRemembers:           {label: "Must Remembers", icon: "🧠"},
}

// ParseKey validates and parses a section key string.
// Keys are case-sensitive and use the snake_case form.
func ParseKey(s string) (Key, error) {
	if s == "" {
		return Key{}, fmt.Errorf("section key cannot be empty: %w", ErrUnknown)
	}
	if _, ok := catalogue[s]; !ok {
		return Key{}, fmt.Errorf("unknown section %q (valid: %s): %w", s, strings.Join(order, ", "), ErrUnknown)
	}
	return Key{name: s}, nil
}

// MustParseKey parses a section key, panicking if invalid.
// Use only for compile-time constants and tests.
func MustParseKey(s string) Key {
	k, err := ParseKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

// ParseList parses a comma-separated list of section keys.
// Empty input and "all" select every section. Duplicates are dropped,
// first occurrence wins.
func ParseList(s string) ([]Key, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "all" {
		return All(), nil
	}

	seen := make(map[string]bool)
	var keys []Key
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, err := ParseKey(part)
		if err != nil {
			return nil, err
		}
		if seen[k.name] {
			continue
		}
		seen[k.name] = true
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("no sections selected: %w", ErrUnknown)
	}
	return keys, nil
}

// All returns every section key in canonical order.
func All() []Key {
	keys := make([]Key, len(order))
	for i, name := range order {
		keys[i] = Key{name: name}
	}
	return keys
}

// Names returns every section key string in canonical order.
func Names() []string {
	result := make([]string, len(order))
	copy(result, order)
	return result
}

// IsKnown reports whether s names a recognized section.
func IsKnown(s string) bool {
	_, ok := catalogue[s]
	return ok
}

// String returns the section key string.
// Returns empty string for zero value.
func (k Key) String() string {
	return k.name
}

// IsZero returns true if this is the zero value.
func (k Key) IsZero() bool {
	return k.name == ""
}

// Label returns the human-readable section title, e.g. "Key Vocabulary".
func (k Key) Label() string {
	return catalogue[k.name].label
}

// Icon returns the default icon for the section.
func (k Key) Icon() string {
	return catalogue[k.name].icon
}
