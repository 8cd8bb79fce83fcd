package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/alnah/studynotes/internal/prompt"
)

//go:embed templates/notes.html
var templateFS embed.FS

// Renderer executes the notes template. It is safe for concurrent use.
type Renderer struct {
	tmpl  *template.Template
	theme Theme
}

// NewRenderer parses the embedded template for theme.
func NewRenderer(theme Theme) (*Renderer, error) {
	if err := theme.Validate(); err != nil {
		return nil, err
	}
	tmpl, err := template.New("notes.html").ParseFS(templateFS, "templates/notes.html")
	if err != nil {
		return nil, fmt.Errorf("parse notes template: %v: %w", err, ErrTemplate)
	}
	return &Renderer{tmpl: tmpl, theme: theme}, nil
}

// Theme returns the renderer's theme.
func (r *Renderer) Theme() Theme {
	return r.theme
}

// HTML renders p as a standalone HTML page.
func (r *Renderer) HTML(p Prepared) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, r.page(p)); err != nil {
		return "", fmt.Errorf("execute notes template: %v: %w", err, ErrTemplate)
	}
	return buf.String(), nil
}

// ---------------------------------------------------------------------------
// Template data
// ---------------------------------------------------------------------------

type pageData struct {
	Title       string
	Heading     template.HTML
	Subject     template.HTML
	VideoURL    string
	EasyRead    bool
	Colors      paletteCSS
	FontFamily  template.CSS
	DisplayMath string
	InlineMath  string
	Sections    []sectionData
}

type paletteCSS struct {
	Primary     template.CSS
	PrimaryDark template.CSS
	Secondary   template.CSS
	Accent      template.CSS
	TextDark    template.CSS
	TextMedium  template.CSS
	TextLight   template.CSS
	BgSection   template.CSS
	BgHighlight template.CSS
	BgCard      template.CSS
	Link        template.CSS
}

type sectionData struct {
	Key   string
	Label string
	Icon  string
	Items []itemData
}

type itemData struct {
	Text      template.HTML
	Timestamp template.HTML
	Lead      *fieldData
	Fields    []fieldData
	Details   []itemData
}

type fieldData struct {
	Label string
	Value template.HTML
}

// page converts p into template data. Prepared strings are safe fragments,
// which is what allows the template.HTML conversions below.
func (r *Renderer) page(p Prepared) pageData {
	c := r.theme.Colors
	heading := p.Title()
	if heading == "" {
		heading = p.Subject()
	}
	data := pageData{
		Title:    PlainText(heading),
		Heading:  template.HTML(heading),
		VideoURL: p.Video().URL(),
		EasyRead: p.EasyRead(),
		Colors: paletteCSS{
			Primary:     template.CSS(c.Primary),
			PrimaryDark: template.CSS(c.PrimaryDark),
			Secondary:   template.CSS(c.Secondary),
			Accent:      template.CSS(c.Accent),
			TextDark:    template.CSS(c.TextDark),
			TextMedium:  template.CSS(c.TextMedium),
			TextLight:   template.CSS(c.TextLight),
			BgSection:   template.CSS(c.BgSection),
			BgHighlight: template.CSS(c.BgHighlight),
			BgCard:      template.CSS(c.BgCard),
			Link:        template.CSS(c.Link),
		},
		FontFamily:  template.CSS(r.theme.FontFamily),
		DisplayMath: prompt.DisplayMathDelim,
		InlineMath:  prompt.InlineMathDelim,
	}
	if data.Title == "" {
		data.Title = "Study Notes"
	}
	if p.Subject() != heading {
		data.Subject = template.HTML(p.Subject())
	}

	for _, s := range p.Sections() {
		icon := s.Icon
		if themed, ok := r.theme.Icons[s.Key]; ok {
			icon = themed
		}
		data.Sections = append(data.Sections, sectionData{
			Key:   s.Key,
			Label: s.Label,
			Icon:  icon,
			Items: itemsData(s.Items),
		})
	}
	return data
}

func itemsData(items []Item) []itemData {
	out := make([]itemData, 0, len(items))
	for _, it := range items {
		d := itemData{
			Text:      template.HTML(it.Text),
			Timestamp: template.HTML(it.TimestampHTML),
			Details:   itemsData(it.Details),
		}
		for i, f := range it.Fields {
			fd := fieldData{Label: f.Label, Value: template.HTML(f.Value)}
			if i == 0 {
				d.Lead = &fd
				continue
			}
			d.Fields = append(d.Fields, fd)
		}
		out = append(out, d)
	}
	return out
}
