package pipeline_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alnah/studynotes/internal/pipeline"
	"github.com/alnah/studynotes/internal/prompt"
	"github.com/alnah/studynotes/internal/section"
	"github.com/alnah/studynotes/internal/transcript"
)

// ---------------------------------------------------------------------------
// TestParams_Request - Wire parameters to a validated Request
// ---------------------------------------------------------------------------

func TestParams_Request_Defaults(t *testing.T) {
	t.Parallel()

	req, err := pipeline.Params{Transcript: "Hello."}.Request()
	require.NoError(t, err)

	assert.Equal(t, "Hello.", req.Input)
	assert.Equal(t, transcript.AutoMode, req.InputMode)
	assert.Equal(t, "pdf", req.Format.String())
	assert.Equal(t, prompt.DefaultWords, req.Config.MaxWords())
	assert.Equal(t, prompt.DefaultFocus, req.Config.Focus())
	assert.Equal(t, section.All(), req.Config.Sections())
	assert.True(t, req.Config.OutputLang().IsZero())
}

func TestParams_Request_Explicit(t *testing.T) {
	t.Parallel()

	req, err := pipeline.Params{
		Transcript: "[]",
		Input:      "json",
		Format:     "docx",
		MaxWords:   1200,
		Sections:   []string{"key_points", "must_remembers", "key_points"},
		Focus:      "exam prep",
		Math:       true,
		EasyRead:   true,
		Lang:       "pt-BR",
		Divisions:  3,
		Title:      "Week 3",
	}.Request()
	require.NoError(t, err)

	assert.Equal(t, transcript.JSONMode, req.InputMode)
	assert.Equal(t, "docx", req.Format.String())
	assert.Equal(t, 1200, req.Config.MaxWords())
	assert.Equal(t, []section.Key{section.KeyPointsKey, section.MustRemembersKey}, req.Config.Sections())
	assert.Equal(t, "exam prep", req.Config.Focus())
	assert.True(t, req.Config.Math())
	assert.False(t, req.Config.Chem())
	assert.True(t, req.Config.EasyRead())
	assert.Equal(t, "pt-br", req.Config.OutputLang().String())
	assert.Equal(t, 3, req.Divisions)
	assert.Equal(t, "Week 3", req.Title)
}

func TestParams_Request_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params pipeline.Params
	}{
		{name: "unknown input mode", params: pipeline.Params{Input: "yaml"}},
		{name: "unknown format", params: pipeline.Params{Format: "epub"}},
		{name: "unknown section", params: pipeline.Params{Sections: []string{"glossary"}}},
		{name: "unknown language", params: pipeline.Params{Lang: "xx"}},
		{name: "too few words", params: pipeline.Params{MaxWords: 10}},
		{name: "too many divisions", params: pipeline.Params{Divisions: pipeline.MaxDivisions + 1}},
		{name: "negative divisions", params: pipeline.Params{Divisions: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tt.params.Request()
			require.Error(t, err)
			assert.True(t, errors.Is(err, pipeline.ErrInput), "error %v should wrap ErrInput", err)
		})
	}
}
