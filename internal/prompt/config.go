// Package prompt assembles the single instruction string sent to the model.
//
// The inline notation conventions below are a wire format: the prompt asks the
// model to emit them and internal/render interprets them. Both sides import
// these constants.
package prompt

import (
	"fmt"
	"slices"

	"github.com/alnah/studynotes/internal/lang"
	"github.com/alnah/studynotes/internal/section"
)

// Inline notation conventions embedded in note content.
const (
	DisplayMathDelim = "$$"
	InlineMathDelim  = "$"
	ChemMacro        = `\ce`
	HighlightOpen    = "<hl>"
	HighlightClose   = "</hl>"
)

// Word target bounds.
const (
	MinWords     = 200
	MaxWords     = 20000
	DefaultWords = 750
)

// DefaultFocus is the user focus used when none is given.
const DefaultFocus = "Summarize the key concepts and formulas presented in the video."

// Division identifies one part of a transcript analyzed on its own.
// Index is 1-based. The zero value means the whole transcript.
type Division struct {
	Index int
	Total int
}

// IsZero reports whether d names no division.
func (d Division) IsZero() bool {
	return d.Total == 0
}

func (d Division) valid() bool {
	return d.IsZero() || (d.Total > 0 && d.Index >= 1 && d.Index <= d.Total)
}

// Config holds the toggles of one prompt. It is immutable once built;
// use NewConfig to create one.
type Config struct {
	maxWords   int
	sections   []section.Key
	focus      string
	math       bool
	chem       bool
	easyRead   bool
	outputLang lang.Language
	division   Division
}

// Option configures a Config.
type Option func(*Config)

// WithFocus sets the free-text user focus. It is passed to the model verbatim.
func WithFocus(focus string) Option {
	return func(c *Config) {
		c.focus = focus
	}
}

// WithMath enables LaTeX math notation.
func WithMath(enabled bool) Option {
	return func(c *Config) {
		c.math = enabled
	}
}

// WithChem enables mhchem chemistry notation.
func WithChem(enabled bool) Option {
	return func(c *Config) {
		c.chem = enabled
	}
}

// WithEasyRead asks the model to mark critical words with highlight tags.
func WithEasyRead(enabled bool) Option {
	return func(c *Config) {
		c.easyRead = enabled
	}
}

// WithOutputLang sets the language the notes are written in.
// The zero Language keeps the transcript's language.
func WithOutputLang(l lang.Language) Option {
	return func(c *Config) {
		c.outputLang = l
	}
}

// WithDivision marks the prompt as covering one part of a longer transcript.
func WithDivision(d Division) Option {
	return func(c *Config) {
		c.division = d
	}
}

// NewConfig validates and builds a Config.
// maxWords must lie in [MinWords, MaxWords] and at least one section is required.
// Duplicate sections are dropped, keeping the first occurrence.
func NewConfig(maxWords int, sections []section.Key, opts ...Option) (Config, error) {
	if maxWords < MinWords || maxWords > MaxWords {
		return Config{}, fmt.Errorf("max words %d out of range [%d, %d]: %w",
			maxWords, MinWords, MaxWords, ErrInvalidConfig)
	}

	unique := make([]section.Key, 0, len(sections))
	for _, k := range sections {
		if k.IsZero() {
			return Config{}, fmt.Errorf("zero section key: %w", ErrInvalidConfig)
		}
		if !slices.Contains(unique, k) {
			unique = append(unique, k)
		}
	}
	if len(unique) == 0 {
		return Config{}, fmt.Errorf("at least one section is required: %w", ErrInvalidConfig)
	}

	c := Config{maxWords: maxWords, sections: unique}
	for _, opt := range opts {
		opt(&c)
	}
	if !c.division.valid() {
		return Config{}, fmt.Errorf("division %d of %d: %w", c.division.Index, c.division.Total, ErrInvalidConfig)
	}
	return c, nil
}

// ForDivision returns a copy of c scoped to part index of total.
func (c Config) ForDivision(index, total int) (Config, error) {
	d := Division{Index: index, Total: total}
	if d.IsZero() || !d.valid() {
		return Config{}, fmt.Errorf("division %d of %d: %w", index, total, ErrInvalidConfig)
	}
	c.sections = slices.Clone(c.sections)
	c.division = d
	return c, nil
}

// MaxWords returns the target total word count.
func (c Config) MaxWords() int { return c.maxWords }

// Sections returns a copy of the requested sections in order.
func (c Config) Sections() []section.Key { return slices.Clone(c.sections) }

// Focus returns the user focus text.
func (c Config) Focus() string { return c.focus }

// Math reports whether math notation is enabled.
func (c Config) Math() bool { return c.math }

// Chem reports whether chemistry notation is enabled.
func (c Config) Chem() bool { return c.chem }

// EasyRead reports whether highlight tags are requested.
func (c Config) EasyRead() bool { return c.easyRead }

// OutputLang returns the requested output language.
func (c Config) OutputLang() lang.Language { return c.outputLang }

// Division returns the division this prompt covers.
func (c Config) Division() Division { return c.division }
