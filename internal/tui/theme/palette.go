package theme

import (
	"fmt"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// Palette holds precomputed colors derived from a Theme.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	High        lipgloss.Color
	Medium      lipgloss.Color
	Low         lipgloss.Color
	Fixed       lipgloss.Color
	Current     lipgloss.Color
	Warning     lipgloss.Color

	// Block backgrounds
	HighBg     lipgloss.Color
	MediumBg   lipgloss.Color
	LowBg      lipgloss.Color
	FixedBg    lipgloss.Color
	FixedBgAlt lipgloss.Color // Back-to-back non-negotiables
	PastBg     lipgloss.Color

	// Readable text over the colors above
	TextOnAccent  lipgloss.Color
	TextOnCurrent lipgloss.Color
	TextOnBlock   lipgloss.Color
}

// NewPalette derives a Palette from the provided Theme.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load(defaultTheme)
	}

	light := isLightTheme(t.Bg)
	blockBg := func(accent string) string {
		if light {
			return blendColors(accent, t.Bg, 0.75)
		}
		return darkenColor(accent)
	}
	pastBg := muteColor(t.FgMuted)
	if light {
		pastBg = blendColors(t.FgMuted, t.Bg, 0.88)
	}

	mediumBg := blockBg(t.Medium)
	fixedBg := blockBg(t.Fixed)

	return &Palette{
		Bg:          lipgloss.Color(t.Bg),
		BgHighlight: lipgloss.Color(t.BgHighlight),
		BgSelection: lipgloss.Color(t.BgSelection),
		Fg:          lipgloss.Color(t.Fg),
		FgMuted:     lipgloss.Color(t.FgMuted),
		Accent:      lipgloss.Color(t.Accent),
		High:        lipgloss.Color(t.High),
		Medium:      lipgloss.Color(t.Medium),
		Low:         lipgloss.Color(t.Low),
		Fixed:       lipgloss.Color(t.Fixed),
		Current:     lipgloss.Color(t.Current),
		Warning:     lipgloss.Color(t.Warning),

		HighBg:     lipgloss.Color(blockBg(t.High)),
		MediumBg:   lipgloss.Color(mediumBg),
		LowBg:      lipgloss.Color(blockBg(t.Low)),
		FixedBg:    lipgloss.Color(fixedBg),
		FixedBgAlt: lipgloss.Color(alternateShade(fixedBg, light)),
		PastBg:     lipgloss.Color(pastBg),

		TextOnAccent:  lipgloss.Color(chooseTextColor(t.Accent, t.Bg, t.Fg)),
		TextOnCurrent: lipgloss.Color(chooseTextColor(t.Current, t.Bg, t.Fg)),
		TextOnBlock:   lipgloss.Color(chooseTextColor(mediumBg, t.Fg, t.Bg)),
	}
}

// rgb is a color with 0-255 channels.
type rgb struct {
	r, g, b int
}

// parseRGB parses "#rrggbb". Anything else is reported as not ok.
func parseRGB(hex string) (rgb, bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return rgb{}, false
	}
	var ch [3]int
	for i := range ch {
		v, err := strconv.ParseUint(hex[1+2*i:3+2*i], 16, 8)
		if err != nil {
			return rgb{}, false
		}
		ch[i] = int(v)
	}
	return rgb{ch[0], ch[1], ch[2]}, true
}

func (c rgb) String() string {
	return fmt.Sprintf("#%02x%02x%02x", clampChannel(c.r), clampChannel(c.g), clampChannel(c.b))
}

// scale multiplies every channel by factor and keeps it at or above floor.
func (c rgb) scale(factor float64, floor int) rgb {
	ch := func(v int) int {
		return max(int(float64(v)*factor), floor)
	}
	return rgb{ch(c.r), ch(c.g), ch(c.b)}
}

func clampChannel(v int) int {
	return min(max(v, 0), 255)
}

func isLightTheme(bg string) bool {
	return relativeLuminance(bg) > 0.55
}

// darkenColor halves a color for use as a block background on dark themes.
func darkenColor(hex string) string {
	c, ok := parseRGB(hex)
	if !ok {
		return hex
	}
	return c.scale(0.50, 40).String()
}

// muteColor darkens further than darkenColor, for blocks already over.
func muteColor(hex string) string {
	c, ok := parseRGB(hex)
	if !ok {
		return hex
	}
	return c.scale(0.30, 30).String()
}

// alternateShade separates adjacent blocks of the same color.
func alternateShade(hex string, light bool) string {
	if light {
		return blendColors(hex, "#000000", 0.10)
	}
	return blendColors(hex, "#ffffff", 0.30)
}

// blendColors mixes b into a; ratio 0 is a and 1 is b.
func blendColors(a, b string, ratio float64) string {
	ca, okA := parseRGB(a)
	cb, okB := parseRGB(b)
	if !okA || !okB {
		return a
	}
	ratio = math.Min(math.Max(ratio, 0), 1)
	mix := func(x, y int) int {
		return int(float64(x)*(1-ratio) + float64(y)*ratio)
	}
	return rgb{mix(ca.r, cb.r), mix(ca.g, cb.g), mix(ca.b, cb.b)}.String()
}

// chooseTextColor returns whichever candidate contrasts more with bg.
func chooseTextColor(bg, lightText, darkText string) string {
	if contrastRatio(bg, lightText) >= contrastRatio(bg, darkText) {
		return lightText
	}
	return darkText
}

func contrastRatio(a, b string) float64 {
	l1 := relativeLuminance(a)
	l2 := relativeLuminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// relativeLuminance follows the WCAG definition; invalid colors are black.
func relativeLuminance(hex string) float64 {
	c, ok := parseRGB(hex)
	if !ok {
		return 0
	}
	return 0.2126*linear(c.r) + 0.7152*linear(c.g) + 0.0722*linear(c.b)
}

func linear(channel int) float64 {
	v := float64(channel) / 255.0
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}
