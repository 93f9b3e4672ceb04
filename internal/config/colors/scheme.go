package colors

import (
	"fmt"
	"regexp"
)

// ColorScheme defines all configurable color values used when threads are rendered
type ColorScheme struct {
	// Preset name (e.g., "default", "monochrome")
	Preset string `yaml:"preset"`

	// Primary accent color (used for authors, section headers)
	Accent string `yaml:"accent"`

	// Card colors
	CardBorder     string `yaml:"card_border"`
	CardBackground string `yaml:"card_background"`
	ReplyBorder    string `yaml:"reply_border"` // Border of cards nested under another comment

	// Text colors
	Title  string `yaml:"title"`
	Subtle string `yaml:"subtle"` // Timestamps, edit markers, connectors
	Normal string `yaml:"normal"`
	Liked  string `yaml:"liked"` // Like counter

	// Status colors for CLI outcomes
	InfoFg    string `yaml:"info_fg"`
	WarningFg string `yaml:"warning_fg"`
	ErrorFg   string `yaml:"error_fg"`
}

// GetPreset returns a preset color scheme by name
func GetPreset(name string) *ColorScheme {
	switch name {
	case "monochrome":
		return Monochrome()
	case "default", "":
		return Default()
	default:
		return Default()
	}
}

// ApplyDefaults fills in missing color values using the preset as base
// If preset is specified, loads that preset first, then overrides with custom values
func (c *ColorScheme) ApplyDefaults() {
	preset := GetPreset(c.Preset)

	fill := func(field *string, fallback string) {
		if *field == "" {
			*field = fallback
		}
	}

	fill(&c.Accent, preset.Accent)
	fill(&c.CardBorder, preset.CardBorder)
	fill(&c.CardBackground, preset.CardBackground)
	fill(&c.ReplyBorder, preset.ReplyBorder)
	fill(&c.Title, preset.Title)
	fill(&c.Subtle, preset.Subtle)
	fill(&c.Normal, preset.Normal)
	fill(&c.Liked, preset.Liked)
	fill(&c.InfoFg, preset.InfoFg)
	fill(&c.WarningFg, preset.WarningFg)
	fill(&c.ErrorFg, preset.ErrorFg)
}

// MergeFrom overrides the scheme with every non-empty value of other
func (c *ColorScheme) MergeFrom(other ColorScheme) {
	merge := func(field *string, value string) {
		if value != "" {
			*field = value
		}
	}

	merge(&c.Preset, other.Preset)
	merge(&c.Accent, other.Accent)
	merge(&c.CardBorder, other.CardBorder)
	merge(&c.CardBackground, other.CardBackground)
	merge(&c.ReplyBorder, other.ReplyBorder)
	merge(&c.Title, other.Title)
	merge(&c.Subtle, other.Subtle)
	merge(&c.Normal, other.Normal)
	merge(&c.Liked, other.Liked)
	merge(&c.InfoFg, other.InfoFg)
	merge(&c.WarningFg, other.WarningFg)
	merge(&c.ErrorFg, other.ErrorFg)
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Validate checks that every set color is in hex format #RRGGBB
func (c *ColorScheme) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"accent", c.Accent},
		{"card_border", c.CardBorder},
		{"card_background", c.CardBackground},
		{"reply_border", c.ReplyBorder},
		{"title", c.Title},
		{"subtle", c.Subtle},
		{"normal", c.Normal},
		{"liked", c.Liked},
		{"info_fg", c.InfoFg},
		{"warning_fg", c.WarningFg},
		{"error_fg", c.ErrorFg},
	}
	for _, f := range fields {
		if f.value != "" && !hexColor.MatchString(f.value) {
			return fmt.Errorf("theme %s must be in hex format #RRGGBB (e.g., #FF0000), got: %s", f.name, f.value)
		}
	}
	return nil
}
