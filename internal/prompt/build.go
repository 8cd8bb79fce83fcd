package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alnah/studynotes/internal/section"
	"github.com/alnah/studynotes/internal/transcript"
)

const (
	baseInstruction = "You are an expert academic content analyzer. Extract structured study notes from video transcripts."
	latexNotation   = " **Use LaTeX formatting for all complex mathematical and chemical notation.**"
	plainNotation   = " **Use plain text only. AVOID using any LaTeX commands unless absolutely necessary.**"

	highlightRule = "**Highlighting:** Wrap 2-4 critical words per item in " +
		HighlightOpen + "text" + HighlightClose + " tags."
	noHighlightRule = "**NO special tags:** Use plain text only."

	mathRule = "For all mathematics, use standard LaTeX syntax (e.g., " +
		DisplayMathDelim + `\frac{a}{b}` + DisplayMathDelim + " or " +
		InlineMathDelim + `\sqrt{x^2}` + InlineMathDelim + "). " +
		"Enclose all display equations in double dollar signs (" +
		DisplayMathDelim + "..." + DisplayMathDelim + ") and inline math in single dollar signs."
	chemRule = "For all chemistry, use the mhchem LaTeX command (e.g., " +
		InlineMathDelim + ChemMacro + "{H2O}" + InlineMathDelim + " or " +
		InlineMathDelim + ChemMacro + "{A + B -> C}" + InlineMathDelim + ")."
)

// Build assembles the full instruction prompt for cfg and t.
// It is pure: the same inputs always yield the same string.
func Build(cfg Config, t transcript.Transcript) string {
	var b strings.Builder

	b.WriteString(baseInstruction)
	if cfg.math || cfg.chem {
		b.WriteString(latexNotation)
	} else {
		b.WriteString(plainNotation)
	}
	b.WriteString("\n\n")

	b.WriteString("OUTPUT: Valid JSON object with these exact keys (use snake_case):\n")
	b.WriteString(skeleton(cfg.sections))
	b.WriteString("\n\n")

	highlight := noHighlightRule
	if cfg.easyRead {
		highlight = highlightRule
	}
	b.WriteString("RULES:\n")
	b.WriteString("1. Use EXACT 'time' values from input (in seconds).\n")
	b.WriteString("2. " + highlight + "\n")
	b.WriteString("3. Keep content concise and academic.\n")
	b.WriteString("4. Return ONLY a single valid JSON object (no markdown, no code fences, no comments, no prose).\n")
	b.WriteString("5. Fill ALL requested sections with available content.\n")
	fmt.Fprintf(&b, "6. Target total length: ~%d words across all sections.\n", cfg.maxWords)
	fmt.Fprintf(&b, "7. Extract ONLY these categories: %s. Do not emit any other section key.\n", joinKeys(cfg.sections))

	if cfg.math || cfg.chem {
		b.WriteString("\n**SPECIAL FORMATTING RULES:**\n")
		if cfg.math {
			b.WriteString(mathRule + "\n")
		}
		if cfg.chem {
			b.WriteString(chemRule + "\n")
		}
	}

	if !cfg.outputLang.IsZero() {
		fmt.Fprintf(&b, "\nLANGUAGE: Write all note content in %s. Keep the JSON keys exactly as listed.\n",
			cfg.outputLang.DisplayName())
	}
	if !cfg.division.IsZero() {
		fmt.Fprintf(&b, "\nDIVISION: This transcript is part %d of %d of a longer lecture. Extract notes for this part only.\n",
			cfg.division.Index, cfg.division.Total)
	}
	if t.Title != "" {
		fmt.Fprintf(&b, "\nDOCUMENT TITLE: %s\n", t.Title)
	}

	focus := cfg.focus
	if strings.TrimSpace(focus) == "" {
		focus = "none"
	}
	fmt.Fprintf(&b, "\nUSER PREFERENCES: %s\n", focus)
	b.WriteString("\nTRANSCRIPT DATA:\n")
	b.WriteString(payload(t.Segments))
	return b.String()
}

// skeleton lists main_subject and the requested sections as a JSON object.
func skeleton(keys []section.Key) string {
	parts := make([]string, 0, len(keys)+1)
	parts = append(parts, `"main_subject": "Brief subject description"`)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%q: [...]", k.String()))
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func joinKeys(keys []section.Key) string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}

// payload encodes segments as an indented JSON array without HTML escaping,
// so "<", ">" and "&" in lecture text reach the model unchanged.
func payload(segments []transcript.Segment) string {
	if segments == nil {
		segments = []transcript.Segment{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	// Segments hold only strings and ints; encoding cannot fail.
	_ = enc.Encode(segments)
	return strings.TrimSuffix(buf.String(), "\n")
}
