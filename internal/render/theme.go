package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/alnah/studynotes/internal/section"
)

var (
	colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{3,8}$`)
	fontPattern  = regexp.MustCompile(`^[A-Za-z0-9 ,'"-]+$`)
)

// Palette is the color set used by the notes template.
type Palette struct {
	Primary     string `yaml:"primary"`
	PrimaryDark string `yaml:"primary_dark"`
	Secondary   string `yaml:"secondary"`
	Accent      string `yaml:"accent"`
	TextDark    string `yaml:"text_dark"`
	TextMedium  string `yaml:"text_medium"`
	TextLight   string `yaml:"text_light"`
	BgSection   string `yaml:"bg_section"`
	BgHighlight string `yaml:"bg_highlight"`
	BgCard      string `yaml:"bg_card"`
	Link        string `yaml:"link"`
}

// Theme controls the look of rendered notes.
type Theme struct {
	Colors     Palette           `yaml:"colors"`
	FontFamily string            `yaml:"font_family"`
	Icons      map[string]string `yaml:"icons"`
}

// DefaultTheme returns the built-in palette and section icons.
func DefaultTheme() Theme {
	icons := make(map[string]string, len(section.Names()))
	for _, k := range section.All() {
		icons[k.String()] = k.Icon()
	}
	return Theme{
		Colors: Palette{
			Primary:     "#1E88E5",
			PrimaryDark: "#1565C0",
			Secondary:   "#26A69A",
			Accent:      "#FF6F00",
			TextDark:    "#212121",
			TextMedium:  "#424242",
			TextLight:   "#757575",
			BgSection:   "#E3F2FD",
			BgHighlight: "#FFF59D",
			BgCard:      "#FAFAFA",
			Link:        "#1976D2",
		},
		FontFamily: `"Inter", "Helvetica Neue", Arial, sans-serif`,
		Icons:      icons,
	}
}

// LoadTheme reads a YAML theme file and overlays it on DefaultTheme.
// Keys left out keep their default; unknown keys are rejected.
func LoadTheme(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("read theme: %w", err)
	}
	return ParseTheme(data)
}

// ParseTheme overlays YAML theme data on DefaultTheme.
func ParseTheme(data []byte) (Theme, error) {
	var overlay Theme
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&overlay); err != nil && !errors.Is(err, io.EOF) {
		return Theme{}, fmt.Errorf("parse theme: %v: %w", err, ErrInvalidTheme)
	}

	theme := DefaultTheme()
	theme.Colors = overlayPalette(theme.Colors, overlay.Colors)
	if overlay.FontFamily != "" {
		theme.FontFamily = overlay.FontFamily
	}
	maps.Copy(theme.Icons, overlay.Icons)

	if err := theme.Validate(); err != nil {
		return Theme{}, err
	}
	return theme, nil
}

// Validate checks colors, font family and icon keys.
func (t Theme) Validate() error {
	for name, c := range t.Colors.entries() {
		if !colorPattern.MatchString(c) {
			return fmt.Errorf("color %s: %q is not a hex color: %w", name, c, ErrInvalidTheme)
		}
	}
	if !fontPattern.MatchString(t.FontFamily) {
		return fmt.Errorf("font family %q: %w", t.FontFamily, ErrInvalidTheme)
	}
	for k := range t.Icons {
		if !section.IsKnown(k) {
			return fmt.Errorf("icon for unknown section %q: %w", k, ErrInvalidTheme)
		}
	}
	return nil
}

func (p Palette) entries() map[string]string {
	return map[string]string{
		"primary":      p.Primary,
		"primary_dark": p.PrimaryDark,
		"secondary":    p.Secondary,
		"accent":       p.Accent,
		"text_dark":    p.TextDark,
		"text_medium":  p.TextMedium,
		"text_light":   p.TextLight,
		"bg_section":   p.BgSection,
		"bg_highlight": p.BgHighlight,
		"bg_card":      p.BgCard,
		"link":         p.Link,
	}
}

func overlayPalette(base, over Palette) Palette {
	pick := func(b, o string) string {
		if o != "" {
			return o
		}
		return b
	}
	return Palette{
		Primary:     pick(base.Primary, over.Primary),
		PrimaryDark: pick(base.PrimaryDark, over.PrimaryDark),
		Secondary:   pick(base.Secondary, over.Secondary),
		Accent:      pick(base.Accent, over.Accent),
		TextDark:    pick(base.TextDark, over.TextDark),
		TextMedium:  pick(base.TextMedium, over.TextMedium),
		TextLight:   pick(base.TextLight, over.TextLight),
		BgSection:   pick(base.BgSection, over.BgSection),
		BgHighlight: pick(base.BgHighlight, over.BgHighlight),
		BgCard:      pick(base.BgCard, over.BgCard),
		Link:        pick(base.Link, over.Link),
	}
}
