package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/alnah/studynotes/internal/apierr"
	"github.com/alnah/studynotes/internal/notes"
	"github.com/alnah/studynotes/internal/pipeline"
	"github.com/alnah/studynotes/internal/prompt"
	"github.com/alnah/studynotes/internal/transcript"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	runner *pipeline.Runner
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(runner *pipeline.Runner) *Handlers {
	return &Handlers{runner: runner}
}

// SegmentRequest represents the arguments for segment_transcript.
type SegmentRequest struct {
	Transcript string `json:"transcript"`
	Input      string `json:"input,omitempty"`
}

// NormalizeRequest represents the arguments for normalize_reply.
type NormalizeRequest struct {
	Reply string `json:"reply"`
}

// SegmentResult is the output of segment_transcript.
type SegmentResult struct {
	Title    string               `json:"title,omitempty"`
	Segments []transcript.Segment `json:"segments"`
}

// PromptResult is the output of build_prompt.
type PromptResult struct {
	Prompt string `json:"prompt"`
}

// GenerateResult is the output of generate_notes. Output is the rendered
// document: text for json and html, base64 for pdf and docx.
type GenerateResult struct {
	RunID    string         `json:"run_id"`
	Format   string         `json:"format"`
	Notes    notes.Document `json:"notes"`
	Output   string         `json:"output,omitempty"`
	Binary   []byte         `json:"binary,omitempty"`
	Failures []int          `json:"failed_divisions,omitempty"`
}

// HandleSegment implements segment_transcript.
func (h *Handlers) HandleSegment(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[SegmentRequest](req)
	if err != nil {
		return errorResult(inputError(err)), nil
	}
	mode, err := transcript.ParseMode(args.Input)
	if err != nil {
		return errorResult(inputError(err)), nil
	}
	t, err := transcript.Parse(args.Transcript, mode)
	if err != nil {
		return errorResult(inputError(err)), nil
	}
	return successResult(SegmentResult{Title: t.Title, Segments: t.Segments})
}

// HandlePrompt implements build_prompt.
func (h *Handlers) HandlePrompt(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params, err := decode[pipeline.Params](req)
	if err != nil {
		return errorResult(inputError(err)), nil
	}
	r, err := params.Request()
	if err != nil {
		return errorResult(err), nil
	}
	t, err := transcript.Parse(r.Input, r.InputMode)
	if err != nil {
		return errorResult(inputError(err)), nil
	}
	if params.Title != "" {
		t.Title = params.Title
	}
	return successResult(PromptResult{Prompt: prompt.Build(r.Config, t)})
}

// HandleNormalize implements normalize_reply.
func (h *Handlers) HandleNormalize(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[NormalizeRequest](req)
	if err != nil {
		return errorResult(inputError(err)), nil
	}
	doc, err := notes.Normalize(args.Reply)
	if err != nil {
		return errorResult(&pipeline.Error{Kind: pipeline.ErrParse, Err: err}), nil
	}
	return successResult(doc)
}

// HandleGenerate implements generate_notes. The format defaults to json.
func (h *Handlers) HandleGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params, err := decode[pipeline.Params](req)
	if err != nil {
		return errorResult(inputError(err)), nil
	}
	if params.Format == "" {
		params.Format = pipeline.JSON
	}
	r, err := params.Request()
	if err != nil {
		return errorResult(err), nil
	}

	res, err := h.runner.Run(ctx, r)
	if err != nil {
		return errorResult(err), nil
	}

	out := GenerateResult{
		RunID:  res.RunID,
		Format: res.Format.String(),
		Notes:  res.Document,
	}
	switch res.Format.String() {
	case pipeline.JSON, pipeline.HTML:
		out.Output = string(res.Output)
	default:
		out.Binary = res.Output
	}
	for _, f := range res.Failures {
		out.Failures = append(out.Failures, f.Index)
	}
	return successResult(out)
}

func inputError(err error) error {
	return &pipeline.Error{Kind: pipeline.ErrInput, Err: err}
}

// Result helpers

// errorResult creates an MCP error result with IsError set.
func errorResult(err error) *mcp.CallToolResult {
	obj := map[string]any{"message": err.Error()}
	if kind := pipeline.KindOf(err); kind != nil {
		obj["kind"] = kind.Error()
	}
	if code := apierr.Code(err); code != "" {
		obj["code"] = code
	}
	if p := pipeline.PromptOf(err); p != "" {
		obj["prompt"] = p
	}
	var pe *notes.ParseError
	if errors.As(err, &pe) {
		obj["snippet"] = pe.Snippet
	}

	content, _ := json.Marshal(map[string]any{"error": obj})
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
