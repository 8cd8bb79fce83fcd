package pipeline

import "fmt"

// Output format names.
const (
	PDF  = "pdf"
	HTML = "html"
	DOCX = "docx"
	JSON = "json"
)

// Format is a validated output format. The zero value behaves like PDFFormat.
type Format struct {
	name string
}

// Pre-parsed formats.
var (
	PDFFormat  = Format{name: PDF}
	HTMLFormat = Format{name: HTML}
	DOCXFormat = Format{name: DOCX}
	JSONFormat = Format{name: JSON}
)

var formatInfo = map[string]struct {
	ext         string
	contentType string
}{
	PDF:  {".pdf", "application/pdf"},
	HTML: {".html", "text/html; charset=utf-8"},
	DOCX: {".docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	JSON: {".json", "application/json"},
}

// ParseFormat validates a format name. Empty string selects PDFFormat.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return PDFFormat, nil
	}
	if _, ok := formatInfo[s]; !ok {
		return Format{}, fmt.Errorf("unknown format %q (use pdf, html, docx or json): %w", s, ErrInput)
	}
	return Format{name: s}, nil
}

// String returns the format name.
func (f Format) String() string {
	if f.name == "" {
		return PDF
	}
	return f.name
}

// Extension returns the file extension, including the dot.
func (f Format) Extension() string {
	return formatInfo[f.String()].ext
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	return formatInfo[f.String()].contentType
}
