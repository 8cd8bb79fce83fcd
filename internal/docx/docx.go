// Package docx writes prepared study notes as a Word document.
package docx

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gomutex/godocx"
	gdocx "github.com/gomutex/godocx/docx"

	"github.com/alnah/studynotes/internal/render"
)

// Typography.
const (
	fontName    = "Calibri"
	bodySize    = 11
	titleSize   = 20
	subjectSize = 14
	headingSize = 15
	textColor   = "1F2937"
	mutedColor  = "6B7280"
	accentColor = "1E3A8A"
)

// Write renders p to a .docx file at path. The document title is title
// when set, otherwise the note subject.
func Write(p render.Prepared, title, path string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	subject := render.PlainText(p.Subject())
	heading := title
	if heading == "" {
		heading = render.PlainText(p.Title())
	}
	if heading == "" {
		heading = subject
	}
	if heading != "" {
		addRun(doc.AddParagraph(""), heading, true, titleSize, accentColor)
	}
	if subject != "" && subject != heading {
		addRun(doc.AddParagraph(""), subject, false, subjectSize, mutedColor)
	}

	for _, s := range p.Sections() {
		doc.AddParagraph("")
		label := s.Label
		if s.Icon != "" {
			label = s.Icon + " " + label
		}
		addRun(doc.AddParagraph(""), label, true, headingSize, accentColor)
		for _, item := range s.Items {
			addItem(doc, item, "")
		}
	}

	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Bytes renders p and returns the encoded document.
func Bytes(p render.Prepared, title string) ([]byte, error) {
	dir, err := os.MkdirTemp("", "studynotes-docx-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "notes.docx")
	if err := Write(p, title, path); err != nil {
		return nil, err
	}
	// #nosec G304 -- path is inside our own temp dir
	return os.ReadFile(path)
}

// addItem writes one item as a paragraph; secondary fields and details
// follow as indented paragraphs.
func addItem(doc *gdocx.RootDoc, item render.Item, indent string) {
	para := doc.AddParagraph("")
	addRun(para, indent+"• ", false, bodySize, textColor)
	if item.Timestamp != "" {
		addRun(para, "["+item.Timestamp+"] ", false, bodySize, mutedColor)
	}

	switch {
	case item.Text != "":
		addRich(para, item.Text)
	case len(item.Fields) > 0:
		addRich(para, item.Fields[0].Value)
		for _, f := range item.Fields[1:] {
			sub := doc.AddParagraph("")
			addRun(sub, indent+"    "+f.Label+": ", true, bodySize, mutedColor)
			addRich(sub, f.Value)
		}
	}

	for _, d := range item.Details {
		addItem(doc, d, indent+"    ")
	}
}

// addRich writes a prepared fragment, turning highlights into bold runs.
func addRich(p *gdocx.Paragraph, fragment string) {
	for _, r := range render.Runs(fragment) {
		if r.Text == "" {
			continue
		}
		addRun(p, r.Text, r.Highlight, bodySize, textColor)
	}
}

func addRun(p *gdocx.Paragraph, text string, bold bool, size uint64, color string) {
	run := p.AddText(text).Font(fontName).Size(size).Color(color)
	if bold {
		run.Bold(true)
	}
}
