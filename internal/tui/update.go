package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// statusDuration is how long a status message stays in the footer.
const statusDuration = 3 * time.Second

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.prompt.Width = max(msg.Width-4, 10)
		return m, nil

	case tickMsg:
		// The view reads the clock; a tick only needs a redraw.
		return m, tick()

	case clearStatusMsg:
		if !time.Now().Before(m.statusTime) {
			m.statusMsg = ""
			m.statusErr = false
		}
		return m, nil
	}

	if m.mode == ModePrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) setStatus(msg string) tea.Cmd {
	m.statusMsg = msg
	m.statusErr = false
	m.statusTime = time.Now().Add(statusDuration)
	return clearStatusAfter(statusDuration)
}

func (m *Model) setError(err error) tea.Cmd {
	m.statusMsg = "Error: " + err.Error()
	m.statusErr = true
	m.statusTime = time.Now().Add(2 * statusDuration)
	m.log.Log("ERROR", map[string]any{"error": err.Error()})
	return clearStatusAfter(2 * statusDuration)
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
