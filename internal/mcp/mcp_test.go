package mcp

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/alnah/studynotes/internal/pipeline"
	"github.com/alnah/studynotes/internal/render"
)

type invokerFunc func(ctx context.Context, prompt string) (string, error)

func (f invokerFunc) Invoke(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func newHandlers(t *testing.T, reply string) *Handlers {
	t.Helper()
	r, err := render.NewRenderer(render.DefaultTheme())
	if err != nil {
		t.Fatal(err)
	}
	return NewHandlers(&pipeline.Runner{
		Renderer: r,
		Invoker: invokerFunc(func(context.Context, string) (string, error) {
			return reply, nil
		}),
	})
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

func decodeResult[T any](t *testing.T, res *mcp.CallToolResult) T {
	t.Helper()
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}
	var out T
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	return out
}

type errorPayload struct {
	Error struct {
		Message string `json:"message"`
		Kind    string `json:"kind"`
		Snippet string `json:"snippet"`
		Prompt  string `json:"prompt"`
	} `json:"error"`
}

func TestToolRegistry(t *testing.T) {
	names := ToolNames()
	slices.Sort(names)
	want := []string{ToolPrompt, ToolGenerate, ToolNormalize, ToolSegment}
	slices.Sort(want)
	if !slices.Equal(names, want) {
		t.Errorf("ToolNames() = %v, want %v", names, want)
	}
	for name, entry := range toolRegistry {
		if entry.def.Name != name {
			t.Errorf("tool %q registered as %q", entry.def.Name, name)
		}
	}
	if NewServer(&pipeline.Runner{}, "test") == nil {
		t.Error("NewServer returned nil")
	}
}

func TestHandleSegment(t *testing.T) {
	h := newHandlers(t, "{}")
	ctx := context.Background()

	res, err := h.HandleSegment(ctx, makeRequest(map[string]any{
		"transcript": `[{"time": 5, "text": "Hello."}, {"time": 9, "text": "World."}]`,
	}))
	if err != nil {
		t.Fatal(err)
	}
	out := decodeResult[SegmentResult](t, res)
	if len(out.Segments) != 2 || out.Segments[1].Time != 9 {
		t.Errorf("segments = %+v", out.Segments)
	}

	res, _ = h.HandleSegment(ctx, makeRequest(map[string]any{"transcript": "  "}))
	if !res.IsError {
		t.Error("empty transcript should be an error result")
	}

	res, _ = h.HandleSegment(ctx, makeRequest(map[string]any{"transcript": "x", "input": "yaml"}))
	if !res.IsError {
		t.Error("unknown input mode should be an error result")
	}
}

func TestHandlePrompt(t *testing.T) {
	h := newHandlers(t, "{}")

	res, err := h.HandlePrompt(context.Background(), makeRequest(map[string]any{
		"transcript": "Newton described motion.",
		"sections":   []any{"key_points"},
		"math":       true,
		"title":      "Mechanics",
	}))
	if err != nil {
		t.Fatal(err)
	}
	out := decodeResult[PromptResult](t, res)
	for _, want := range []string{`"key_points"`, "DOCUMENT TITLE: Mechanics", "Newton described motion."} {
		if !strings.Contains(out.Prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(out.Prompt, `"must_remembers"`) {
		t.Error("prompt names an unselected section")
	}

	res, _ = h.HandlePrompt(context.Background(), makeRequest(map[string]any{
		"transcript": "x", "max_words": 50,
	}))
	if !res.IsError {
		t.Error("max_words below range should be an error result")
	}
}

func TestHandleNormalize(t *testing.T) {
	h := newHandlers(t, "{}")

	res, _ := h.HandleNormalize(context.Background(), makeRequest(map[string]any{
		"reply": "Sure! {\"MainSubject\": \"Atoms\", \"keyPoints\": [\"Protons\"]}",
	}))
	doc := decodeResult[map[string]any](t, res)
	if doc["main_subject"] != "Atoms" {
		t.Errorf("main_subject = %v", doc["main_subject"])
	}

	res, _ = h.HandleNormalize(context.Background(), makeRequest(map[string]any{"reply": "no braces"}))
	if !res.IsError {
		t.Fatal("prose reply should be an error result")
	}
	var p errorPayload
	if err := json.Unmarshal([]byte(resultText(t, res)), &p); err != nil {
		t.Fatal(err)
	}
	if p.Error.Kind != "parse error" || p.Error.Snippet != "no braces" {
		t.Errorf("error payload = %+v", p.Error)
	}
}

func TestHandleGenerate(t *testing.T) {
	t.Run("json by default", func(t *testing.T) {
		h := newHandlers(t, `{"main_subject":"Optics","key_points":["Refraction"]}`)

		res, err := h.HandleGenerate(context.Background(), makeRequest(map[string]any{
			"transcript": "Light bends in water.",
		}))
		if err != nil {
			t.Fatal(err)
		}
		out := decodeResult[GenerateResult](t, res)
		if out.Format != "json" || out.RunID == "" {
			t.Errorf("result = %+v", out)
		}
		if out.Notes.Subject() != "Optics" {
			t.Errorf("notes subject = %q", out.Notes.Subject())
		}
		if !strings.Contains(out.Output, "Refraction") {
			t.Errorf("output = %q", out.Output)
		}
	})

	t.Run("docx is binary", func(t *testing.T) {
		h := newHandlers(t, `{"main_subject":"Optics"}`)

		res, _ := h.HandleGenerate(context.Background(), makeRequest(map[string]any{
			"transcript": "Light bends.", "format": "docx",
		}))
		out := decodeResult[GenerateResult](t, res)
		if out.Output != "" || !strings.HasPrefix(string(out.Binary), "PK") {
			t.Errorf("docx result: output=%q binary=%d bytes", out.Output, len(out.Binary))
		}
	})

	t.Run("parse failure keeps prompt", func(t *testing.T) {
		h := newHandlers(t, "I refuse.")

		res, _ := h.HandleGenerate(context.Background(), makeRequest(map[string]any{"transcript": "Hi."}))
		if !res.IsError {
			t.Fatal("expected error result")
		}
		var p errorPayload
		if err := json.Unmarshal([]byte(resultText(t, res)), &p); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(p.Error.Prompt, "TRANSCRIPT DATA:") {
			t.Errorf("prompt not retained: %+v", p.Error)
		}
	})
}
