// Package mcp exposes the notes pipeline as MCP tools over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/alnah/studynotes/internal/pipeline"
)

// Tool names.
const (
	ToolSegment   = "segment_transcript"
	ToolPrompt    = "build_prompt"
	ToolNormalize = "normalize_reply"
	ToolGenerate  = "generate_notes"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// notesOptions are the prompt options shared by build_prompt and generate_notes.
func notesOptions(extra ...mcp.ToolOption) []mcp.ToolOption {
	opts := []mcp.ToolOption{
		mcp.WithString("transcript", mcp.Required(), mcp.Description("Raw transcript text or structured JSON")),
		mcp.WithString("input", mcp.Description("Input mode: auto, text, json or headings"), mcp.Enum("auto", "text", "json", "headings")),
		mcp.WithNumber("max_words", mcp.Description("Target word count, 200 to 20000 (default 750)")),
		mcp.WithArray("sections", mcp.Description("Section keys to extract (default all)"), mcp.WithStringItems()),
		mcp.WithString("focus", mcp.Description("Free-text instructions passed to the model verbatim")),
		mcp.WithBoolean("math", mcp.Description("Use LaTeX math notation")),
		mcp.WithBoolean("chem", mcp.Description("Use mhchem chemistry notation")),
		mcp.WithBoolean("easy_read", mcp.Description("Highlight critical words")),
		mcp.WithString("lang", mcp.Description("Output language code, e.g. fr or pt-BR")),
		mcp.WithString("title", mcp.Description("Document title")),
	}
	return append(opts, extra...)
}

var toolRegistry = map[string]toolEntry{
	ToolSegment: {
		def: mcp.NewTool(ToolSegment,
			mcp.WithDescription("Split a transcript into the segments sent to the model"),
			mcp.WithString("transcript", mcp.Required(), mcp.Description("Raw transcript text or structured JSON")),
			mcp.WithString("input", mcp.Description("Input mode: auto, text, json or headings"), mcp.Enum("auto", "text", "json", "headings")),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSegment },
	},
	ToolPrompt: {
		def: mcp.NewTool(ToolPrompt, append([]mcp.ToolOption{
			mcp.WithDescription("Build the extraction prompt for a transcript without calling a model"),
		}, notesOptions()...)...),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePrompt },
	},
	ToolNormalize: {
		def: mcp.NewTool(ToolNormalize,
			mcp.WithDescription("Extract and normalize the notes JSON object from a raw model reply"),
			mcp.WithString("reply", mcp.Required(), mcp.Description("Raw model reply")),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNormalize },
	},
	ToolGenerate: {
		def: mcp.NewTool(ToolGenerate, append([]mcp.ToolOption{
			mcp.WithDescription("Generate study notes from a transcript with the configured model"),
		}, notesOptions(
			mcp.WithString("format", mcp.Description("Output format: json, html, pdf or docx (default json)"), mcp.Enum("json", "html", "pdf", "docx")),
			mcp.WithString("video_url", mcp.Description("YouTube URL used for timestamp links")),
			mcp.WithNumber("divisions", mcp.Description("Analyze the transcript in this many parts (1 to 10)")),
		)...)...),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGenerate },
	},
}

// ToolNames returns the registered tool names.
func ToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// NewServer creates an MCP server with every tool registered.
func NewServer(runner *pipeline.Runner, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"studynotes",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(runner)
	for _, entry := range toolRegistry {
		s.AddTool(entry.def, entry.handler(h))
	}
	return s
}

// Run serves the MCP tools on stdio until the client disconnects.
func Run(runner *pipeline.Runner, version string) error {
	return server.ServeStdio(NewServer(runner, version))
}
