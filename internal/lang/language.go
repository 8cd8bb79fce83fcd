package lang

import (
	"fmt"
	"strings"
)

// validLanguages contains the ISO 639-1 base codes accepted for note output.
var validLanguages = map[string]bool{
	"af": true, "ar": true, "bg": true, "bn": true, "ca": true, "cs": true,
	"da": true, "de": true, "el": true, "en": true, "es": true, "et": true,
	"fa": true, "fi": true, "fr": true, "gu": true, "he": true, "hi": true,
	"hr": true, "hu": true, "id": true, "it": true, "ja": true, "kn": true,
	"ko": true, "lt": true, "lv": true, "mk": true, "ml": true, "mr": true,
	"ms": true, "nl": true, "no": true, "pa": true, "pl": true, "pt": true,
	"ro": true, "ru": true, "sk": true, "sl": true, "sr": true, "sv": true,
	"sw": true, "ta": true, "te": true, "th": true, "tl": true, "tr": true,
	"uk": true, "ur": true, "vi": true, "zh": true,
}

// displayNames maps common locales to the name used in the prompt instruction.
var displayNames = map[string]string{
	"en":    "English",
	"en-us": "American English",
	"en-gb": "British English",
	"fr":    "French",
	"fr-ca": "Canadian French",
	"es":    "Spanish",
	"es-mx": "Mexican Spanish",
	"pt":    "Portuguese",
	"pt-br": "Brazilian Portuguese",
	"pt-pt": "European Portuguese",
	"zh":    "Chinese",
	"zh-cn": "Simplified Chinese",
	"zh-tw": "Traditional Chinese",
	"de":    "German",
	"it":    "Italian",
	"ja":    "Japanese",
	"ko":    "Korean",
	"ru":    "Russian",
	"ar":    "Arabic",
	"hi":    "Hindi",
	"bn":    "Bengali",
	"ur":    "Urdu",
	"nl":    "Dutch",
	"pl":    "Polish",
	"sv":    "Swedish",
	"tr":    "Turkish",
	"vi":    "Vietnamese",
}

// Language is a validated output language.
// The zero value means "same language as the transcript".
type Language struct {
	code string
}

// Parse validates a language code. Accepts ISO 639-1 codes ("en", "fr")
// and locales ("pt-BR", "zh_CN"). Empty string returns the zero Language.
func Parse(s string) (Language, error) {
	if s == "" {
		return Language{}, nil
	}

	normalized := normalize(s)
	if !validLanguages[baseCode(normalized)] {
		return Language{}, fmt.Errorf("invalid language code %q (use ISO 639-1 codes like 'en', 'fr', 'pt-BR'): %w",
			s, ErrInvalid)
	}
	return Language{code: normalized}, nil
}

// MustParse parses a language code, panicking if invalid.
// Use only for compile-time constants and tests.
func MustParse(s string) Language {
	l, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return l
}

// String returns the normalized code, e.g. "pt-br". Empty for the zero value.
func (l Language) String() string {
	return l.code
}

// IsZero reports whether no language was set.
func (l Language) IsZero() bool {
	return l.code == ""
}

// DisplayName returns a human-readable name, falling back to the base
// language and finally to the code itself.
func (l Language) DisplayName() string {
	if name, ok := displayNames[l.code]; ok {
		return name
	}
	if name, ok := displayNames[baseCode(l.code)]; ok {
		return name
	}
	return l.code
}

// normalize lowercases a code and uses hyphen separators: "pt_BR" -> "pt-br".
func normalize(code string) string {
	return strings.ToLower(strings.ReplaceAll(code, "_", "-"))
}

// baseCode extracts the base language: "pt-br" -> "pt".
func baseCode(code string) string {
	if idx := strings.Index(code, "-"); idx != -1 {
		return code[:idx]
	}
	return code
}
