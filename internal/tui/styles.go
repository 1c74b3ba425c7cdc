package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/timeflow/internal/task"
	"github.com/javiermolinar/timeflow/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	// Theme colors as lipgloss colors
	colorBgSelection lipgloss.Color
	colorFg          lipgloss.Color
	colorFgMuted     lipgloss.Color
	colorAccent      lipgloss.Color
	colorCurrent     lipgloss.Color
	colorWarning     lipgloss.Color

	// Title style
	TitleStyle lipgloss.Style
	TodayStyle lipgloss.Style

	// Time column
	HourStyle lipgloss.Style

	// Block styles
	BlockHighStyle   lipgloss.Style
	BlockMediumStyle lipgloss.Style
	BlockLowStyle    lipgloss.Style
	BlockFixedStyle  lipgloss.Style
	BlockFixedAlt    lipgloss.Style // Fixed block right after another fixed block
	BlockPastStyle   lipgloss.Style // Ended before now on today's view
	SelectedStyle    lipgloss.Style
	CurrentMarker    lipgloss.Style

	// Empty hour
	EmptyStyle lipgloss.Style

	// Footer
	HelpStyle   lipgloss.Style
	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style
	PromptStyle lipgloss.Style
	HintStyle   lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t *theme.Theme) *Styles {
	s := &Styles{}
	palette := theme.NewPalette(t)

	s.colorBgSelection = palette.BgSelection
	s.colorFg = palette.Fg
	s.colorFgMuted = palette.FgMuted
	s.colorAccent = palette.Accent
	s.colorCurrent = palette.Current
	s.colorWarning = palette.Warning

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(palette.TextOnAccent).
		Background(s.colorAccent).
		Padding(0, 1)

	s.TodayStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(palette.TextOnCurrent).
		Background(s.colorCurrent).
		Padding(0, 1)

	s.HourStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Width(6)

	block := lipgloss.NewStyle().
		Foreground(palette.TextOnBlock).
		Padding(0, 1)

	s.BlockHighStyle = block.Background(palette.HighBg)
	s.BlockMediumStyle = block.Background(palette.MediumBg)
	s.BlockLowStyle = block.Background(palette.LowBg)
	s.BlockFixedStyle = block.Background(palette.FixedBg).Italic(true)
	s.BlockFixedAlt = block.Background(palette.FixedBgAlt).Italic(true)
	s.BlockPastStyle = block.Background(palette.PastBg).Foreground(s.colorFgMuted)
	s.SelectedStyle = block.Background(s.colorBgSelection).Foreground(s.colorFg).Bold(true)

	s.CurrentMarker = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorCurrent)

	s.EmptyStyle = lipgloss.NewStyle().
		Foreground(palette.BgHighlight)

	s.HelpStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(s.colorAccent)

	s.ErrorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorWarning)

	s.PromptStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(s.colorAccent)

	s.HintStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Italic(true)

	return s
}

// BlockStyle returns the style for a block. alt shades a non-negotiable
// that directly follows another one.
func (s *Styles) BlockStyle(t task.Task, past, selected, alt bool) lipgloss.Style {
	switch {
	case selected:
		return s.SelectedStyle
	case past:
		return s.BlockPastStyle
	case t.IsNonNegotiable && alt:
		return s.BlockFixedAlt
	case t.IsNonNegotiable:
		return s.BlockFixedStyle
	}
	switch t.Priority {
	case task.PriorityHigh:
		return s.BlockHighStyle
	case task.PriorityLow:
		return s.BlockLowStyle
	default:
		return s.BlockMediumStyle
	}
}
