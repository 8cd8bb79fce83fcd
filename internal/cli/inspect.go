package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alnah/studynotes/internal/notes"
	"github.com/alnah/studynotes/internal/pipeline"
	"github.com/alnah/studynotes/internal/prompt"
	"github.com/alnah/studynotes/internal/transcript"
)

// SegmentCmd creates the segment command (print parsed segments).
func SegmentCmd(env *Env) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "segment <transcript-file|->",
		Short: "Print the segments a transcript is split into",
		Example: `  studynotes segment lecture.txt
  studynotes segment lecture.md --input headings`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSegment(env, args[0], input)
		},
	}
	cmd.Flags().StringVar(&input, "input", "auto", "Input format: auto, text, json, headings")
	return cmd
}

func runSegment(env *Env, path, input string) error {
	t, err := parseTranscript(env, path, input)
	if err != nil {
		return err
	}
	return printJSON(env, struct {
		Title    string               `json:"title,omitempty"`
		Segments []transcript.Segment `json:"segments"`
	}{t.Title, t.Segments})
}

// PromptCmd creates the prompt command (print the model prompt).
func PromptCmd(env *Env) *cobra.Command {
	var flags notesFlags

	cmd := &cobra.Command{
		Use:   "prompt <transcript-file|->",
		Short: "Print the prompt that would be sent to the model",
		Example: `  studynotes prompt lecture.txt --math --sections key_points
  studynotes prompt lecture.txt --lang fr --easy-read`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrompt(env, args[0], flags)
		},
	}
	flags.bind(cmd)
	return cmd
}

func runPrompt(env *Env, path string, flags notesFlags) error {
	input, err := readInput(env, path)
	if err != nil {
		return err
	}
	req, err := flags.params(input).Request()
	if err != nil {
		return err
	}
	t, err := transcript.Parse(req.Input, req.InputMode)
	if err != nil {
		return fmt.Errorf("%w: %w", pipeline.ErrInput, err)
	}
	if req.Title != "" {
		t.Title = req.Title
	}
	_, err = fmt.Fprintln(env.Stdout, prompt.Build(req.Config, t))
	return err
}

// NormalizeCmd creates the normalize command (model reply to notes JSON).
func NormalizeCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <reply-file|->",
		Short: "Normalize a raw model reply into notes JSON",
		Long: `Normalize a raw model reply into a notes document.

Code fences and surrounding prose are removed, keys are converted to
snake_case and every known section is present in the output.`,
		Example: `  studynotes normalize reply.txt > notes.json`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(env, args[0])
		},
	}
}

func runNormalize(env *Env, path string) error {
	raw, err := readInput(env, path)
	if err != nil {
		return err
	}
	doc, err := notes.Normalize(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", pipeline.ErrParse, err)
	}
	return printJSON(env, notes.Backfill(doc))
}

func parseTranscript(env *Env, path, input string) (transcript.Transcript, error) {
	raw, err := readInput(env, path)
	if err != nil {
		return transcript.Transcript{}, err
	}
	if input == "auto" {
		input = ""
	}
	mode, err := transcript.ParseMode(input)
	if err != nil {
		return transcript.Transcript{}, fmt.Errorf("%w: %w", pipeline.ErrInput, err)
	}
	t, err := transcript.Parse(raw, mode)
	if err != nil {
		return transcript.Transcript{}, fmt.Errorf("%w: %w", pipeline.ErrInput, err)
	}
	return t, nil
}

func printJSON(env *Env, v any) error {
	enc := json.NewEncoder(env.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
