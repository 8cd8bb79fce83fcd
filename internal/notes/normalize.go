package notes

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// fencePattern matches markdown code-fence markers around a JSON reply.
var fencePattern = regexp.MustCompile("```json\\s*|\\s*```")

// Normalize extracts the JSON object from a model reply and returns it as a
// backfilled Document with canonical keys.
//
// Fences are stripped, then the span from the first '{' to the last '}' is
// decoded, so prose around the object is tolerated. Top-level keys are
// canonicalized in document order: when two keys map to the same name the
// later one wins. Failures are reported as *ParseError.
func Normalize(raw string) (Document, error) {
	cleaned := fencePattern.ReplaceAllString(raw, "")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end < start {
		return nil, newParseError(strings.TrimSpace(cleaned), ErrNoJSON)
	}
	span := cleaned[start : end+1]

	doc, err := decodeObject(span)
	if err != nil {
		return nil, newParseError(span, fmt.Errorf("%w: %v", ErrInvalidJSON, err))
	}
	return Backfill(doc), nil
}

// decodeObject decodes a single JSON object, keeping numbers as json.Number
// and canonicalizing top-level keys as they are read.
func decodeObject(s string) (Document, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	doc := Document{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		doc[CanonicalKey(key)] = v
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level object")
	}
	return doc, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
