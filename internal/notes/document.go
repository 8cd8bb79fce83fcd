// Package notes turns a loosely shaped model reply into a Document with a
// fixed top-level schema.
package notes

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/alnah/studynotes/internal/section"
)

// SubjectKey is the only scalar key of a Document.
const SubjectKey = "main_subject"

// Document is a normalized study-notes document.
//
// After Backfill, SubjectKey holds a string and every section key holds a
// []any whose items are strings or map[string]any. Item field names are
// free-form. Unknown top-level keys are kept as returned by the model.
type Document map[string]any

// Subject returns the main subject, or "" when absent.
func (d Document) Subject() string {
	s, _ := d[SubjectKey].(string)
	return s
}

// Items returns the items of a section, or nil when it is absent or not a list.
func (d Document) Items(k section.Key) []any {
	items, _ := d[k.String()].([]any)
	return items
}

// Backfill enforces the schema on a copy of d:
//   - a missing SubjectKey becomes "" and a non-string one is stringified;
//   - a missing section becomes an empty list;
//   - a non-list section becomes a single-item list when truthy, or an
//     empty list when falsy (null, false, 0, "", {}).
//
// Unknown keys pass through. Backfill is idempotent.
func Backfill(d Document) Document {
	out := make(Document, len(d)+len(section.Names())+1)
	maps.Copy(out, d)

	out[SubjectKey] = subjectString(d[SubjectKey])

	for _, name := range section.Names() {
		v, ok := out[name]
		switch {
		case !ok:
			out[name] = []any{}
		case isList(v):
			if v.([]any) == nil {
				out[name] = []any{}
			}
		case truthy(v):
			out[name] = []any{v}
		default:
			out[name] = []any{}
		}
	}
	return out
}

// Merge combines documents in order: the subject is the first non-empty one,
// list values are concatenated, other unknown keys keep their first value.
// The result is backfilled.
func Merge(docs ...Document) Document {
	out := Document{}
	for _, d := range docs {
		d = Backfill(d)
		for k, v := range d {
			if k == SubjectKey {
				if out.Subject() == "" {
					out[k] = v
				}
				continue
			}
			prev, seen := out[k]
			if !seen {
				if list, ok := v.([]any); ok {
					v = append([]any{}, list...)
				}
				out[k] = v
				continue
			}
			pl, okPrev := prev.([]any)
			vl, okNext := v.([]any)
			if okPrev && okNext {
				out[k] = append(pl, vl...)
			}
		}
	}
	return Backfill(out)
}

func isList(v any) bool {
	_, ok := v.([]any)
	return ok
}

func subjectString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	case bool, float64, int:
		return fmt.Sprint(s)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// truthy mirrors the truthiness of decoded JSON values: null, false, zero,
// the empty string and containers are false.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	case float64:
		return x != 0
	case int:
		return x != 0
	case map[string]any:
		return len(x) > 0
	case []any:
		return len(x) > 0
	}
	return true
}
