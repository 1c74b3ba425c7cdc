// Package theme provides color themes for the TUI.
package theme

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed embedded/*.toml
var embeddedThemes embed.FS

const defaultTheme = "mocha"

// Theme holds all colors for a TUI theme.
type Theme struct {
	Name        string `toml:"name"`
	Bg          string `toml:"bg"`           // Base background
	BgHighlight string `toml:"bg_highlight"` // Empty timeline rows
	BgSelection string `toml:"bg_selection"` // Selected block
	Fg          string `toml:"fg"`
	FgMuted     string `toml:"fg_muted"` // Past blocks, hour labels
	Accent      string `toml:"accent"`   // Title, prompt border
	High        string `toml:"high"`
	Medium      string `toml:"medium"`
	Low         string `toml:"low"`
	Fixed       string `toml:"fixed"`   // Non-negotiables
	Current     string `toml:"current"` // Block under the wall clock
	Warning     string `toml:"warning"` // Errors, overlaps
}

// Load reads an embedded theme by name, case-insensitively.
// Unknown names fall back to mocha.
func Load(name string) (*Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if !IsAvailable(name) {
		name = defaultTheme
	}

	data, err := embeddedThemes.ReadFile("embedded/" + name + ".toml")
	if err != nil {
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}

	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	t.applyDefaults()
	return &t, nil
}

// applyDefaults fills optional colors from the required ones.
func (t *Theme) applyDefaults() {
	if t.Fixed == "" {
		t.Fixed = t.Accent
	}
	if t.Warning == "" {
		t.Warning = t.High
	}
	if t.BgSelection == "" {
		t.BgSelection = t.BgHighlight
	}
	if t.BgSelection == "" {
		t.BgSelection = t.Bg
	}
}

// Available returns the embedded theme names in alphabetical order.
func Available() []string {
	entries, err := fs.ReadDir(embeddedThemes, "embedded")
	if err != nil {
		return []string{defaultTheme}
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if ext := path.Ext(e.Name()); ext == ".toml" {
			names = append(names, strings.TrimSuffix(e.Name(), ext))
		}
	}
	slices.Sort(names)
	return names
}

// IsAvailable reports whether a theme name is available.
func IsAvailable(name string) bool {
	return slices.Contains(Available(), strings.ToLower(name))
}
