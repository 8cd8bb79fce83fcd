package section_test

// Notes:
// - Black-box testing through ParseKey, ParseList, All and Names
// - Labels and icons are presentation data; we only check they are present
// - Case-sensitivity is a feature: the snake_case keys are the wire format

import (
	"errors"
	"testing"

	"github.com/alnah/studynotes/internal/section"
)

// ---------------------------------------------------------------------------
// TestParseKey_Valid - Known keys parse and round-trip through String
// ---------------------------------------------------------------------------

func TestParseKey_Valid(t *testing.T) {
	t.Parallel()

	for _, name := range section.Names() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			k, err := section.ParseKey(name)
			if err != nil {
				t.Fatalf("ParseKey(%q) returned error: %v", name, err)
			}
			if k.String() != name {
				t.Errorf("ParseKey(%q).String() = %q", name, k.String())
			}
			if k.Label() == "" {
				t.Errorf("ParseKey(%q).Label() is empty", name)
			}
			if k.Icon() == "" {
				t.Errorf("ParseKey(%q).Icon() is empty", name)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestParseKey_Invalid - Unknown keys return ErrUnknown
// ---------------------------------------------------------------------------

func TestParseKey_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"empty string", ""},
		{"unknown", "summary"},
		{"camel case", "keyPoints"},
		{"upper case", "KEY_POINTS"},
		{"leading space", " key_points"},
		{"subject is not a section", "main_subject"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			k, err := section.ParseKey(tt.input)
			if !errors.Is(err, section.ErrUnknown) {
				t.Errorf("ParseKey(%q) error = %v, want ErrUnknown", tt.input, err)
			}
			if !k.IsZero() {
				t.Errorf("ParseKey(%q) returned non-zero key on error", tt.input)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestParseList - Comma-separated selection with defaults and dedup
// ---------------------------------------------------------------------------

func TestParseList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{name: "empty selects all", input: "", want: section.Names()},
		{name: "all keyword", input: "all", want: section.Names()},
		{name: "single", input: "key_points", want: []string{"key_points"}},
		{name: "keeps caller order", input: "short_tricks, topic_breakdown", want: []string{"short_tricks", "topic_breakdown"}},
		{name: "drops duplicates", input: "key_points,key_points,short_tricks", want: []string{"key_points", "short_tricks"}},
		{name: "ignores empty parts", input: "key_points,,", want: []string{"key_points"}},
		{name: "unknown key", input: "key_points,bogus", wantErr: true},
		{name: "only commas", input: ",,", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := section.ParseList(tt.input)
			if tt.wantErr {
				if !errors.Is(err, section.ErrUnknown) {
					t.Fatalf("ParseList(%q) error = %v, want ErrUnknown", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseList(%q) unexpected error: %v", tt.input, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseList(%q) returned %d keys, want %d", tt.input, len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i].String() != tt.want[i] {
					t.Errorf("ParseList(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestAll_CanonicalOrder - All and Names agree and start with topic_breakdown
// ---------------------------------------------------------------------------

func TestAll_CanonicalOrder(t *testing.T) {
	t.Parallel()

	all := section.All()
	names := section.Names()

	if len(all) != 9 {
		t.Fatalf("All() returned %d keys, want 9", len(all))
	}
	for i := range all {
		if all[i].String() != names[i] {
			t.Errorf("All()[%d] = %q, Names()[%d] = %q", i, all[i], i, names[i])
		}
	}
	if all[0] != section.TopicBreakdownKey {
		t.Errorf("All()[0] = %q, want topic_breakdown", all[0])
	}
	if all[8] != section.MustRemembersKey {
		t.Errorf("All()[8] = %q, want must_remembers", all[8])
	}
}

// ---------------------------------------------------------------------------
// TestNames_ReturnsCopy - Names returns a copy, not the internal slice
// ---------------------------------------------------------------------------

func TestNames_ReturnsCopy(t *testing.T) {
	t.Parallel()

	first := section.Names()
	original := first[0]
	first[0] = "hacked"

	second := section.Names()
	if second[0] != original {
		t.Errorf("Names() returned shared slice: got %q, want %q", second[0], original)
	}
}

// ---------------------------------------------------------------------------
// TestIsKnown - Matches ParseKey without allocating an error
// ---------------------------------------------------------------------------

func TestIsKnown(t *testing.T) {
	t.Parallel()

	if !section.IsKnown("formulas_and_principles") {
		t.Error("IsKnown(formulas_and_principles) = false, want true")
	}
	if section.IsKnown("main_subject") {
		t.Error("IsKnown(main_subject) = true, want false")
	}
}
