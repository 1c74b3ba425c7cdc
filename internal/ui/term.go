package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/javiermolinar/timeflow/internal/task"
)

// Color definitions for consistent styling across the UI.
var (
	// High priority: bold red so it stands out
	colorHigh = color.New(color.FgRed, color.Bold)

	// Medium priority: plain yellow
	colorMedium = color.New(color.FgYellow)

	// Low priority: dim
	colorLow = color.New(color.FgWhite, color.Faint)

	// Non-negotiables: magenta
	colorFixed = color.New(color.FgMagenta)

	// Current task: bold green
	colorCurrent = color.New(color.FgGreen, color.Bold)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Warnings: yellow
	colorWarning = color.New(color.FgYellow)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// isInteractive reports whether stdin is a terminal.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// formatPriority colors a priority label.
func formatPriority(p task.Priority) string {
	switch p {
	case task.PriorityHigh:
		return colorHigh.Sprint(string(p))
	case task.PriorityLow:
		return colorLow.Sprint(string(p))
	default:
		return colorMedium.Sprint(string(p))
	}
}

func formatFixed(s string) string {
	return colorFixed.Sprint(s)
}

func formatCurrent(s string) string {
	return colorCurrent.Sprint(s)
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatWarning(s string) string {
	return colorWarning.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
