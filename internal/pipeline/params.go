package pipeline

import (
	"fmt"

	"github.com/alnah/studynotes/internal/lang"
	"github.com/alnah/studynotes/internal/prompt"
	"github.com/alnah/studynotes/internal/section"
	"github.com/alnah/studynotes/internal/transcript"
)

// Params is the wire form of a Request, shared by the HTTP, websocket and
// MCP surfaces. Zero values select defaults.
type Params struct {
	Transcript string   `json:"transcript"`
	Input      string   `json:"input,omitempty"`
	Format     string   `json:"format,omitempty"`
	VideoURL   string   `json:"video_url,omitempty"`
	MaxWords   int      `json:"max_words,omitempty"`
	Sections   []string `json:"sections,omitempty"`
	Focus      string   `json:"focus,omitempty"`
	Math       bool     `json:"math,omitempty"`
	Chem       bool     `json:"chem,omitempty"`
	EasyRead   bool     `json:"easy_read,omitempty"`
	Lang       string   `json:"lang,omitempty"`
	Divisions  int      `json:"divisions,omitempty"`
	Title      string   `json:"title,omitempty"`
}

// Request validates p and builds a Request. Every failure wraps ErrInput.
func (p Params) Request() (Request, error) {
	mode, err := transcript.ParseMode(p.Input)
	if err != nil {
		return Request{}, newError(ErrInput, "", err)
	}
	f, err := ParseFormat(p.Format)
	if err != nil {
		return Request{}, err
	}
	cfg, err := p.Config()
	if err != nil {
		return Request{}, err
	}
	if p.Divisions < 0 || p.Divisions > MaxDivisions {
		return Request{}, newError(ErrInput, "", fmt.Errorf("divisions must be between 1 and %d, got %d", MaxDivisions, p.Divisions))
	}
	return Request{
		Input:     p.Transcript,
		InputMode: mode,
		Config:    cfg,
		VideoURL:  p.VideoURL,
		Format:    f,
		Title:     p.Title,
		Divisions: p.Divisions,
	}, nil
}

// Config builds the prompt configuration. All sections are selected when
// none are named; an empty focus selects prompt.DefaultFocus.
func (p Params) Config() (prompt.Config, error) {
	keys := section.All()
	if len(p.Sections) > 0 {
		keys = keys[:0:0]
		for _, s := range p.Sections {
			k, err := section.ParseKey(s)
			if err != nil {
				return prompt.Config{}, newError(ErrInput, "", err)
			}
			keys = append(keys, k)
		}
	}
	l, err := lang.Parse(p.Lang)
	if err != nil {
		return prompt.Config{}, newError(ErrInput, "", err)
	}
	words := p.MaxWords
	if words == 0 {
		words = prompt.DefaultWords
	}
	focus := p.Focus
	if focus == "" {
		focus = prompt.DefaultFocus
	}

	cfg, err := prompt.NewConfig(words, keys,
		prompt.WithFocus(focus),
		prompt.WithMath(p.Math),
		prompt.WithChem(p.Chem),
		prompt.WithEasyRead(p.EasyRead),
		prompt.WithOutputLang(l),
	)
	if err != nil {
		return prompt.Config{}, newError(ErrInput, "", err)
	}
	return cfg, nil
}
