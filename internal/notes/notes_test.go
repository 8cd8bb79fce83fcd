package notes_test

// Notes:
// - Replies are written the way models actually send them: fenced, with prose
//   around the object, with camelCase keys and scalar sections.
// - Numbers decode as json.Number, so assertions compare against json.Number.

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alnah/studynotes/internal/notes"
	"github.com/alnah/studynotes/internal/section"
)

func assertSchema(t *testing.T, doc notes.Document) {
	t.Helper()
	_, ok := doc[notes.SubjectKey].(string)
	assert.True(t, ok, "main_subject should be a string, got %T", doc[notes.SubjectKey])
	for _, name := range section.Names() {
		_, ok := doc[name].([]any)
		assert.True(t, ok, "%s should be a list, got %T", name, doc[name])
	}
}

// ---------------------------------------------------------------------------
// TestCanonicalKey - camelCase/PascalCase to snake_case
// ---------------------------------------------------------------------------

func TestCanonicalKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"topicBreakdown", "topic_breakdown"},
		{"KeyVocabulary", "key_vocabulary"},
		{"main_subject", "main_subject"},
		{"commonMistakesExplained", "common_mistakes_explained"},
		{"FormulasAndPrinciples", "formulas_and_principles"},
		{"HTMLParser", "html_parser"},
		{"ABCDef", "abc_def"},
		{"mustRemembers2", "must_remembers2"},
		{"section2Notes", "section2_notes"},
		{"getHTTP", "get_http"},
		{"UPPER", "upper"},
		{"x", "x"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, notes.CanonicalKey(tt.input))
		})
	}
}

func TestCanonicalKey_Idempotent(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"topicBreakdown", "KeyVocabulary", "HTMLParser", "already_snake"} {
		once := notes.CanonicalKey(in)
		assert.Equal(t, once, notes.CanonicalKey(once), "CanonicalKey(%q) not stable", in)
	}
}

// ---------------------------------------------------------------------------
// TestNormalize - Extraction, canonicalization and backfill
// ---------------------------------------------------------------------------

func TestNormalize_FencedReplyWithProse(t *testing.T) {
	t.Parallel()

	raw := "Sure! Here are your notes:\n```json\n" +
		`{"mainSubject": "Cell energy", "keyPoints": ["ATP stores energy"], "shortTricks": "Think: ATP = battery"}` +
		"\n```\nLet me know if you need more."

	doc, err := notes.Normalize(raw)
	require.NoError(t, err)

	assertSchema(t, doc)
	assert.Equal(t, "Cell energy", doc.Subject())
	assert.Equal(t, []any{"ATP stores energy"}, doc.Items(section.KeyPointsKey))
	assert.Equal(t, []any{"Think: ATP = battery"}, doc.Items(section.ShortTricksKey))
	assert.Empty(t, doc.Items(section.TopicBreakdownKey))
}

func TestNormalize_FalsyScalarsBecomeEmpty(t *testing.T) {
	t.Parallel()

	raw := `{"main_subject": null, "key_points": "", "short_tricks": false,
		"must_remembers": 0, "exam_focus_points": {}, "teacher_insights": null}`

	doc, err := notes.Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, "", doc.Subject())
	for _, k := range []section.Key{
		section.KeyPointsKey, section.ShortTricksKey, section.MustRemembersKey,
		section.ExamFocusPointsKey, section.TeacherInsightsKey,
	} {
		assert.Equal(t, []any{}, doc.Items(k), k.String())
	}
}

func TestNormalize_TruthyScalarsAreWrapped(t *testing.T) {
	t.Parallel()

	raw := `{"key_points": 3, "short_tricks": true, "must_remembers": {"point": "x", "time": 30}}`

	doc, err := notes.Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, []any{json.Number("3")}, doc.Items(section.KeyPointsKey))
	assert.Equal(t, []any{true}, doc.Items(section.ShortTricksKey))
	assert.Equal(t, []any{map[string]any{"point": "x", "time": json.Number("30")}}, doc.Items(section.MustRemembersKey))
}

func TestNormalize_UnknownKeysPassThrough(t *testing.T) {
	t.Parallel()

	doc, err := notes.Normalize(`{"extraNotes": "kept", "main_subject": "S"}`)
	require.NoError(t, err)

	assert.Equal(t, "kept", doc["extra_notes"])
}

func TestNormalize_NonStringSubject(t *testing.T) {
	t.Parallel()

	doc, err := notes.Normalize(`{"main_subject": 42}`)
	require.NoError(t, err)
	assert.Equal(t, "42", doc.Subject())

	doc, err = notes.Normalize(`{"main_subject": ["Biology", "Cells"]}`)
	require.NoError(t, err)
	assert.Equal(t, `["Biology","Cells"]`, doc.Subject())
}

func TestNormalize_DuplicateCanonicalKeyLastWins(t *testing.T) {
	t.Parallel()

	doc, err := notes.Normalize(`{"key_points": ["first"], "keyPoints": ["second"]}`)
	require.NoError(t, err)

	assert.Equal(t, []any{"second"}, doc.Items(section.KeyPointsKey))
}

func TestNormalize_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{name: "prose only", raw: "I could not find any study material in this transcript.", wantErr: notes.ErrNoJSON},
		{name: "empty", raw: "", wantErr: notes.ErrNoJSON},
		{name: "closing before opening", raw: "} nothing {", wantErr: notes.ErrNoJSON},
		{name: "truncated object", raw: `{"key_points": ["a", "b"}`, wantErr: notes.ErrInvalidJSON},
		{name: "two objects", raw: `{"a": 1} and {"b": 2}`, wantErr: notes.ErrInvalidJSON},
		{name: "trailing comma", raw: `{"a": 1,}`, wantErr: notes.ErrInvalidJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := notes.Normalize(tt.raw)
			require.Error(t, err)
			assert.Nil(t, doc)
			assert.ErrorIs(t, err, tt.wantErr)

			var perr *notes.ParseError
			require.True(t, errors.As(err, &perr), "error should be *ParseError, got %T", err)
		})
	}
}

func TestNormalize_SnippetIsBounded(t *testing.T) {
	t.Parallel()

	long := make([]byte, 2000)
	for i := range long {
		long[i] = 'x'
	}
	_, err := notes.Normalize(string(long))

	var perr *notes.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Less(t, len(perr.Snippet), 600)
	assert.Contains(t, err.Error(), "snippet")
}

// ---------------------------------------------------------------------------
// TestNormalize_RoundTrip - Serialized documents normalize to valid documents
// ---------------------------------------------------------------------------

func TestNormalize_RoundTrip(t *testing.T) {
	t.Parallel()

	original := notes.Document{
		"main_subject": "Thermodynamics",
		"topic_breakdown": []any{
			map[string]any{"topic": "Entropy", "time": json.Number("120"), "details": []any{
				map[string]any{"detail": "Measure of disorder"},
			}},
		},
		"key_vocabulary": []any{"enthalpy"},
	}
	data, err := json.Marshal(original)
	require.NoError(t, err)

	doc, err := notes.Normalize(string(data))
	require.NoError(t, err)

	assertSchema(t, doc)
	assert.Equal(t, notes.Backfill(original), doc)
}

// ---------------------------------------------------------------------------
// TestBackfill - Schema enforcement
// ---------------------------------------------------------------------------

func TestBackfill_MissingKeys(t *testing.T) {
	t.Parallel()

	doc := notes.Backfill(notes.Document{})
	assertSchema(t, doc)
	assert.Len(t, doc, len(section.Names())+1)
}

func TestBackfill_Idempotent(t *testing.T) {
	t.Parallel()

	in := notes.Document{
		"main_subject": json.Number("7"),
		"key_points":   "one",
		"short_tricks": false,
		"custom":       map[string]any{"a": "b"},
	}
	once := notes.Backfill(in)
	twice := notes.Backfill(once)

	assert.Equal(t, once, twice)
}

func TestBackfill_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := notes.Document{"key_points": "one"}
	_ = notes.Backfill(in)

	assert.Equal(t, notes.Document{"key_points": "one"}, in)
}

// ---------------------------------------------------------------------------
// TestMerge - Ordered combination of per-division documents
// ---------------------------------------------------------------------------

func TestMerge(t *testing.T) {
	t.Parallel()

	first := notes.Document{"main_subject": "", "key_points": []any{"a"}, "custom": "one"}
	second := notes.Document{"main_subject": "Optics", "key_points": []any{"b", "c"}, "short_tricks": "s"}
	third := notes.Document{"main_subject": "Ignored", "key_points": []any{"d"}, "custom": "two"}

	got := notes.Merge(first, second, third)

	assertSchema(t, got)
	assert.Equal(t, "Optics", got.Subject())
	assert.Equal(t, []any{"a", "b", "c", "d"}, got.Items(section.KeyPointsKey))
	assert.Equal(t, []any{"s"}, got.Items(section.ShortTricksKey))
	assert.Equal(t, "one", got["custom"])
	assert.Equal(t, []any{"a"}, first["key_points"], "inputs must not be modified")
}

func TestMerge_Empty(t *testing.T) {
	t.Parallel()

	got := notes.Merge()
	assertSchema(t, got)
	assert.Equal(t, "", got.Subject())
}
