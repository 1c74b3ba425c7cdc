// Package tui provides the terminal user interface for timeflow.
package tui

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/timeflow/internal/planner"
	"github.com/javiermolinar/timeflow/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModePrompt      // Typing a command line
)

// tickInterval refreshes the current task marker.
const tickInterval = 30 * time.Second

// Options configures the TUI.
type Options struct {
	Theme     string
	StartHour int // First hour row of the timeline
	EndHour   int // Last hour row of the timeline
	Log       planner.Logger
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	store *planner.Store
	opts  Options
	log   planner.Logger
	copy  func(string) error

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// State
	mode     Mode
	selected int // Index into the sorted blocks of the active day

	// Components
	prompt textinput.Model

	// Terminal dimensions
	width  int
	height int

	// Messages
	statusMsg  string    // Temporary status message
	statusErr  bool      // Render statusMsg as an error
	statusTime time.Time // When to clear message
}

type tickMsg time.Time

type clearStatusMsg struct{}

// New creates a new TUI model.
func New(store *planner.Store, opts Options) *Model {
	if opts.EndHour <= opts.StartHour {
		opts.StartHour, opts.EndHour = 6, 23
	}

	t, err := theme.Load(opts.Theme)
	if err != nil {
		// Fallback to mocha on error
		t, _ = theme.Load("mocha")
	}
	styles := NewStyles(t)

	ti := textinput.New()
	ti.Prompt = ": "
	ti.Placeholder = `add "Write report" 60 --at 09:00`
	ti.CharLimit = 256
	ti.PromptStyle = styles.StatusStyle
	ti.PlaceholderStyle = styles.HintStyle

	var log planner.Logger = nopLogger{}
	if opts.Log != nil {
		log = opts.Log
	}

	return &Model{
		store:  store,
		opts:   opts,
		log:    log,
		copy:   clipboard.WriteAll,
		theme:  t,
		styles: styles,
		mode:   ModeNormal,
		prompt: ti,
	}
}

type nopLogger struct{}

func (nopLogger) Log(string, map[string]any) {}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run starts the TUI.
func Run(store *planner.Store, opts Options) error {
	model := New(store, opts)
	p := tea.NewProgram(*model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
