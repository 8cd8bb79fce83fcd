package lang_test

// Notes:
// - Black-box testing: all tests use the public API only (lang_test package)
// - Empty string is valid and means "keep the transcript's language"
// - validLanguages coverage: a representative sample, since the logic is a map lookup

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/studynotes/internal/lang"
)

// ---------------------------------------------------------------------------
// TestParse - Validates and normalizes language codes
// ---------------------------------------------------------------------------

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "empty means unset", input: "", want: ""},
		{name: "base code", input: "fr", want: "fr"},
		{name: "uppercase", input: "DE", want: "de"},
		{name: "locale hyphen", input: "pt-BR", want: "pt-br"},
		{name: "locale underscore", input: "zh_CN", want: "zh-cn"},
		{name: "uncommon but valid", input: "sw", want: "sw"},
		{name: "unknown code", input: "xx", wantErr: true},
		{name: "ISO 639-2 not supported", input: "fra", wantErr: true},
		{name: "garbage", input: "invalid-lang-code", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := lang.Parse(tt.input)
			if tt.wantErr {
				if !errors.Is(err, lang.ErrInvalid) {
					t.Fatalf("Parse(%q) error = %v, want ErrInvalid", tt.input, err)
				}
				if !strings.Contains(err.Error(), tt.input) {
					t.Errorf("error %q should mention input %q", err, tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if got.IsZero() != (tt.want == "") {
				t.Errorf("Parse(%q).IsZero() = %v", tt.input, got.IsZero())
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestDisplayName - Locale, base-language and raw-code fallbacks
// ---------------------------------------------------------------------------

func TestDisplayName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"pt-BR", "Brazilian Portuguese"},
		{"fr", "French"},
		{"fr-BE", "French"},
		{"sw", "sw"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := lang.MustParse(tt.input).DisplayName(); got != tt.want {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMustParse_PanicsOnInvalid(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("MustParse(\"xx\") did not panic")
		}
	}()
	lang.MustParse("xx")
}
