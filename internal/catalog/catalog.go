// Package catalog holds the static reference data rendered on the page:
// language display colors and the selectable technology icons.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// UnknownLanguageColor is used for a language missing from the color table.
const UnknownLanguageColor = "#000000"

//go:embed data/language_colors.json
var languageColorsJSON []byte

//go:embed data/devicons.json
var deviconsJSON []byte

type Icon struct {
	Name string `json:"name"`
	Src  string `json:"src"`
}

type IconCategory struct {
	Name  string `json:"category"`
	Icons []Icon `json:"icons"`
}

type Catalog struct {
	colors     map[string]string
	foldColors map[string]string
	categories []IconCategory
}

func NewCatalog() (*Catalog, error) {
	return parse(languageColorsJSON, deviconsJSON)
}

func parse(colorData, iconData []byte) (*Catalog, error) {
	var colors map[string]string
	if err := json.Unmarshal(colorData, &colors); err != nil {
		return nil, fmt.Errorf("parse language colors: %w", err)
	}
	foldColors := make(map[string]string, len(colors))
	for lang, color := range colors {
		if color == "" {
			return nil, fmt.Errorf("language %q has no color", lang)
		}
		foldColors[strings.ToLower(lang)] = color
	}

	var categories []IconCategory
	if err := json.Unmarshal(iconData, &categories); err != nil {
		return nil, fmt.Errorf("parse devicons: %w", err)
	}
	seen := make(map[string]bool, len(categories))
	for _, cat := range categories {
		if cat.Name == "" {
			return nil, errors.New("devicons: category without a name")
		}
		if seen[cat.Name] {
			return nil, fmt.Errorf("devicons: duplicate category %q", cat.Name)
		}
		seen[cat.Name] = true
		for _, icon := range cat.Icons {
			if icon.Name == "" || icon.Src == "" {
				return nil, fmt.Errorf("devicons: incomplete icon in category %q", cat.Name)
			}
		}
	}

	return &Catalog{
		colors:     colors,
		foldColors: foldColors,
		categories: categories,
	}, nil
}

// LanguageColor returns the display color for a repository language. An empty
// language has no color.
func (c *Catalog) LanguageColor(language string) string {
	if language == "" {
		return ""
	}
	if color, ok := c.colors[language]; ok {
		return color
	}
	if color, ok := c.foldColors[strings.ToLower(language)]; ok {
		return color
	}
	return UnknownLanguageColor
}

// Categories returns the icon category names in file order.
func (c *Catalog) Categories() []string {
	names := make([]string, len(c.categories))
	for i, cat := range c.categories {
		names[i] = cat.Name
	}
	return names
}

// CategoryEnvVar maps a category name to the environment variable that lists
// its selected icons, e.g. "Frameworks & Libraries" -> FRAMEWORKS_AND_LIBRARIES.
func CategoryEnvVar(category string) string {
	v := strings.ReplaceAll(category, " & ", "_AND_")
	v = strings.ReplaceAll(v, " ", "_")
	return strings.ToUpper(v)
}

// SelectedIcons resolves configured icon names per category. Every category is
// returned, in file order; unknown names are skipped.
func (c *Catalog) SelectedIcons(selections map[string][]string) []IconCategory {
	out := make([]IconCategory, 0, len(c.categories))
	for _, cat := range c.categories {
		picked := IconCategory{Name: cat.Name, Icons: []Icon{}}
		for _, name := range selections[cat.Name] {
			if icon, ok := findIcon(cat.Icons, name); ok {
				picked.Icons = append(picked.Icons, icon)
			}
		}
		out = append(out, picked)
	}
	return out
}

func findIcon(icons []Icon, name string) (Icon, bool) {
	for _, icon := range icons {
		if icon.Name == name {
			return icon, true
		}
	}
	return Icon{}, false
}
