// Package render turns a normalized notes document into HTML.
//
// Prepare derives a presentation copy of a notes.Document; a Renderer turns
// that copy into a standalone HTML page for a PDF engine.
package render

import (
	"encoding/json"
	"fmt"
	"html"
	"maps"
	"math"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alnah/studynotes/internal/format"
	"github.com/alnah/studynotes/internal/notes"
	"github.com/alnah/studynotes/internal/prompt"
	"github.com/alnah/studynotes/internal/section"
	"github.com/alnah/studynotes/internal/video"
)

// Presentation fields added to object items.
const (
	TimestampField     = "timestamp"
	TimestampURLField  = "timestamp_url"
	TimestampHTMLField = "timestamp_html"
	timeField          = "time"
	detailsField       = "details"
)

// Highlight markup produced in easy-read mode.
const (
	highlightStart = `<span class="highlight-text"><b>`
	highlightEnd   = `</b></span>`
)

// primaryFields are shown first, in this order, when an item carries them.
var primaryFields = []string{
	"term", "topic", "title", "name", "point", "mistake", "trick",
	"formula_or_principle", "insight", "focus",
}

// Prepared is a render-ready copy of a notes.Document.
//
// Every string it holds is a safe HTML fragment: source text is escaped and
// highlight markers are rewritten (easy-read) or dropped. A Prepared is never
// accepted by Prepare, so the highlight rewrite runs once per source document.
type Prepared struct {
	fields   map[string]any
	ref      video.Reference
	easyRead bool
	title    string
}

// Prepare derives a Prepared from doc. doc is not modified.
//
// For object items of every list section, and for the details of
// topic_breakdown items, a numeric non-negative time combined with a non-zero
// ref adds timestamp, timestamp_url and timestamp_html fields; otherwise
// timestamp_html is "". A time of zero is read as "timing unknown" and links
// to the start of the video.
func Prepare(doc notes.Document, ref video.Reference, easyRead bool) Prepared {
	p := Prepared{
		fields:   make(map[string]any, len(doc)),
		ref:      ref,
		easyRead: easyRead,
	}
	for k, v := range doc {
		switch x := v.(type) {
		case string:
			p.fields[k] = p.markup(x)
		case []any:
			items := make([]any, len(x))
			for i, item := range x {
				items[i] = p.prepareItem(item, k == section.TopicBreakdown)
			}
			p.fields[k] = items
		default:
			p.fields[k] = deepCopy(v)
		}
	}
	return p
}

func (p Prepared) prepareItem(item any, withDetails bool) any {
	switch x := item.(type) {
	case string:
		return p.markup(x)
	case map[string]any:
		out := make(map[string]any, len(x)+3)
		for k, v := range x {
			switch {
			case k == detailsField && withDetails:
				if details, ok := v.([]any); ok {
					prepared := make([]any, len(details))
					for i, d := range details {
						prepared[i] = p.prepareItem(d, false)
					}
					out[k] = prepared
					continue
				}
				out[k] = deepCopy(v)
			default:
				if s, ok := v.(string); ok {
					out[k] = p.markup(s)
					continue
				}
				out[k] = deepCopy(v)
			}
		}
		p.attachTimestamp(out, x[timeField])
		return out
	}
	return deepCopy(item)
}

func (p Prepared) attachTimestamp(item map[string]any, t any) {
	secs, ok := seconds(t)
	if !ok || p.ref.IsZero() {
		item[TimestampHTMLField] = ""
		return
	}
	label := format.Timestamp(secs)
	link := html.EscapeString(p.ref.At(secs))
	item[TimestampField] = label
	item[TimestampURLField] = link
	item[TimestampHTMLField] = `<a href="` + link + `" class="timestamp-link">[` + label + `]</a>`
}

// markup escapes s and converts its highlight spans.
func (p Prepared) markup(s string) string {
	var b strings.Builder
	for _, span := range prompt.SplitHighlights(s) {
		text := html.EscapeString(span.Text)
		if span.Highlight && p.easyRead {
			b.WriteString(highlightStart + text + highlightEnd)
			continue
		}
		b.WriteString(text)
	}
	return b.String()
}

// seconds reads a numeric time value. Strings, negatives, NaN, infinities
// and values beyond the int range are not times.
// maxIntFloat is 2^63 on 64-bit platforms; float64(math.MaxInt) rounds up to it.
const maxIntFloat = float64(math.MaxInt)

func seconds(v any) (int, bool) {
	var f float64
	switch x := v.(type) {
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case float64:
		f = x
	case int:
		f = float64(x)
	default:
		return 0, false
	}
	if math.IsNaN(f) || f < 0 || f >= maxIntFloat {
		return 0, false
	}
	return int(f), true
}

func deepCopy(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = deepCopy(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = deepCopy(e)
		}
		return out
	}
	return v
}

// ---------------------------------------------------------------------------
// Read access
// ---------------------------------------------------------------------------

// EasyRead reports whether highlights were rendered as markup.
func (p Prepared) EasyRead() bool { return p.easyRead }

// Video returns the reference timestamps point into.
func (p Prepared) Video() video.Reference { return p.ref }

// WithTitle returns a copy of p whose document title is title. The title
// is plain text; Title returns it escaped. An empty title falls back to the
// subject when output is rendered.
func (p Prepared) WithTitle(title string) Prepared {
	p.title = html.EscapeString(strings.TrimSpace(title))
	return p
}

// Title returns the document title as a safe HTML fragment, or "" when none
// was set.
func (p Prepared) Title() string { return p.title }

// Subject returns the main subject as a safe HTML fragment.
func (p Prepared) Subject() string {
	s, _ := p.fields[notes.SubjectKey].(string)
	return s
}

// Field returns a top-level value, for callers that need raw access.
func (p Prepared) Field(key string) (any, bool) {
	v, ok := p.fields[key]
	return deepCopy(v), ok
}

// Section is one non-empty list of notes, ready for output.
type Section struct {
	Key   string
	Label string
	Icon  string
	Items []Item
}

// Item is one entry of a Section. Plain string items set Text; object items
// set Fields. Text, field values and TimestampHTML are safe HTML fragments.
type Item struct {
	Text          string
	Fields        []Field
	Timestamp     string
	TimestampHTML string
	Details       []Item
}

// Field is one descriptive field of an object item.
type Field struct {
	Name  string
	Label string
	Value string
}

// Sections returns the non-empty list sections: catalogue sections first in
// canonical order, then unknown list keys sorted by name.
func (p Prepared) Sections() []Section {
	var out []Section
	for _, k := range section.All() {
		if s, ok := p.section(k.String(), k.Label(), k.Icon()); ok {
			out = append(out, s)
		}
	}

	var extra []string
	for k, v := range p.fields {
		if _, isList := v.([]any); isList && !section.IsKnown(k) {
			extra = append(extra, k)
		}
	}
	slices.Sort(extra)
	for _, k := range extra {
		if s, ok := p.section(k, humanize(k), ""); ok {
			out = append(out, s)
		}
	}
	return out
}

func (p Prepared) section(key, label, icon string) (Section, bool) {
	list, _ := p.fields[key].([]any)
	items := toItems(list, key == section.TopicBreakdown)
	if len(items) == 0 {
		return Section{}, false
	}
	return Section{Key: key, Label: label, Icon: icon, Items: items}, true
}

// toItems converts prepared list items. Details are read only where Prepare
// processed them; elsewhere they are shown as an escaped field.
func toItems(list []any, withDetails bool) []Item {
	items := make([]Item, 0, len(list))
	for _, v := range list {
		if item, ok := toItem(v, withDetails); ok {
			items = append(items, item)
		}
	}
	return items
}

func toItem(v any, withDetails bool) (Item, bool) {
	switch x := v.(type) {
	case string:
		if x == "" {
			return Item{}, false
		}
		return Item{Text: x}, true
	case map[string]any:
		item := Item{Fields: fields(x, withDetails)}
		item.Timestamp, _ = x[TimestampField].(string)
		item.TimestampHTML, _ = x[TimestampHTMLField].(string)
		if details, ok := x[detailsField].([]any); ok && withDetails {
			item.Details = toItems(details, false)
		}
		if len(item.Fields) == 0 && len(item.Details) == 0 {
			return Item{}, false
		}
		return item, true
	case nil:
		return Item{}, false
	}
	return Item{Text: scalarHTML(v)}, true
}

func fields(m map[string]any, withDetails bool) []Field {
	skip := func(k string) bool {
		switch k {
		case timeField, TimestampField, TimestampURLField, TimestampHTMLField:
			return true
		case detailsField:
			return withDetails
		}
		return false
	}

	var out []Field
	for _, k := range primaryFields {
		if v, ok := m[k]; ok {
			if f, ok := field(k, v); ok {
				out = append(out, f)
			}
		}
	}
	rest := slices.Sorted(maps.Keys(m))
	for _, k := range rest {
		if skip(k) || slices.Contains(primaryFields, k) {
			continue
		}
		if f, ok := field(k, m[k]); ok {
			out = append(out, f)
		}
	}
	return out
}

func field(name string, v any) (Field, bool) {
	var value string
	switch x := v.(type) {
	case nil:
		return Field{}, false
	case string:
		value = x
	default:
		value = scalarHTML(x)
	}
	if value == "" {
		return Field{}, false
	}
	return Field{Name: name, Label: humanize(name), Value: value}, true
}

// scalarHTML formats a non-string value as escaped text.
func scalarHTML(v any) string {
	switch x := v.(type) {
	case json.Number, bool, float64, int:
		return html.EscapeString(fmt.Sprint(x))
	}
	data, err := json.Marshal(v)
	if err != nil {
		return html.EscapeString(fmt.Sprint(v))
	}
	return html.EscapeString(string(data))
}

// humanize turns a snake_case key into a title: "formula_or_principle" -> "Formula Or Principle".
func humanize(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// Runs splits a Prepared fragment back into plain text runs, marking the
// highlighted ones. Entities are unescaped. It understands only markup
// produced by Prepare.
func Runs(fragment string) []prompt.Span {
	var spans []prompt.Span
	rest := fragment
	for rest != "" {
		i := strings.Index(rest, highlightStart)
		if i == -1 {
			break
		}
		j := strings.Index(rest[i+len(highlightStart):], highlightEnd)
		if j == -1 {
			break
		}
		if i > 0 {
			spans = append(spans, prompt.Span{Text: html.UnescapeString(rest[:i])})
		}
		inner := rest[i+len(highlightStart) : i+len(highlightStart)+j]
		spans = append(spans, prompt.Span{Text: html.UnescapeString(inner), Highlight: true})
		rest = rest[i+len(highlightStart)+j+len(highlightEnd):]
	}
	if rest != "" {
		spans = append(spans, prompt.Span{Text: html.UnescapeString(rest)})
	}
	return spans
}

// PlainText returns a fragment as unescaped text without markup.
func PlainText(fragment string) string {
	var b strings.Builder
	for _, r := range Runs(fragment) {
		b.WriteString(r.Text)
	}
	return b.String()
}
