package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/timeflow/internal/cmdline"
	"github.com/javiermolinar/timeflow/internal/task"
	"github.com/javiermolinar/timeflow/internal/tui/input"
)

var errNoSelection = errors.New("no block selected")

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.log.Log("KEY", map[string]any{"key": msg.String(), "mode": int(m.mode)})

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.mode == ModePrompt {
		return m.handlePromptKey(msg)
	}
	return m.handleNormalKey(msg)
}

func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "h", "left":
		return m.shiftDate(-1)

	case "l", "right":
		return m.shiftDate(1)

	case "t":
		if err := m.store.GoToday(); err != nil {
			return m, m.setError(err)
		}
		m.selected = 0
		return m, nil

	case "j", "down":
		m.selected++
		m.clampSelection()
		return m, nil

	case "k", "up":
		m.selected--
		m.clampSelection()
		return m, nil

	case "a":
		prev := m.selectedTaskID()
		n, err := m.store.AutoScheduleTasks()
		if err != nil {
			return m, m.setError(err)
		}
		m.selectTask(prev)
		return m, m.setStatus(fmt.Sprintf("Auto-scheduled %d task(s)", n))

	case "r":
		prev := m.selectedTaskID()
		if err := m.store.RegenerateSchedule(); err != nil {
			return m, m.setError(err)
		}
		m.selectTask(prev)
		return m, m.setStatus("Schedule rebuilt")

	case "x":
		b, ok := m.selectedBlock()
		if !ok {
			return m, m.setError(errNoSelection)
		}
		if b.Task.IsNonNegotiable {
			return m, m.setError(fmt.Errorf("%s is a non-negotiable", b.Task.Title))
		}
		if err := m.store.CompleteTask(b.Task.ID); err != nil {
			return m, m.setError(err)
		}
		m.clampSelection()
		return m, m.setStatus("Completed " + b.Task.Title)

	case "d":
		b, ok := m.selectedBlock()
		if !ok {
			return m, m.setError(errNoSelection)
		}
		var err error
		if b.Task.IsNonNegotiable {
			err = m.store.DeleteNonNegotiable(b.Task.ID)
		} else {
			err = m.store.DeleteTask(b.Task.ID)
		}
		if err != nil {
			return m, m.setError(err)
		}
		m.clampSelection()
		return m, m.setStatus("Deleted " + b.Task.Title)

	case "y":
		if err := m.copy(agendaText(m.store.Agenda())); err != nil {
			return m, m.setError(fmt.Errorf("copying agenda: %w", err))
		}
		return m, m.setStatus("Agenda copied to clipboard")

	case ":", "/":
		m.mode = ModePrompt
		m.prompt.Reset()
		return m, m.prompt.Focus()
	}
	return m, nil
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePrompt()
		return m, nil

	case "tab":
		if value, ok := input.PromptAutocomplete(m.prompt.Value(), promptCommands); ok {
			m.prompt.SetValue(value)
			m.prompt.CursorEnd()
		}
		return m, nil

	case "enter":
		line := strings.TrimSpace(m.prompt.Value())
		m.closePrompt()
		if line == "" {
			return m, nil
		}
		prev := m.selectedTaskID()
		out, err := cmdline.Execute(m.store, line)
		if err != nil {
			return m, m.setError(err)
		}
		m.selectTask(prev)
		return m, m.setStatus(out)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) closePrompt() {
	m.mode = ModeNormal
	m.prompt.Blur()
	m.prompt.Reset()
}

func (m Model) shiftDate(n int) (tea.Model, tea.Cmd) {
	if err := m.store.ShiftDate(n); err != nil {
		return m, m.setError(err)
	}
	m.selected = 0
	return m, nil
}

// blocks returns the active day's blocks ordered by start.
func (m Model) blocks() []task.TimeBlock {
	day := m.store.Today()
	return day.Sorted()
}

func (m Model) selectedBlock() (task.TimeBlock, bool) {
	blocks := m.blocks()
	if m.selected < 0 || m.selected >= len(blocks) {
		return task.TimeBlock{}, false
	}
	return blocks[m.selected], true
}

func (m Model) selectedTaskID() string {
	if b, ok := m.selectedBlock(); ok {
		return b.Task.ID
	}
	return ""
}

// selectTask keeps the selection on the block of id when it is still on
// the active day, and clamps it otherwise.
func (m *Model) selectTask(id string) {
	day := m.store.Today()
	b, ok := day.Find(id)
	if !ok {
		m.clampSelection()
		return
	}
	for i, other := range day.Sorted() {
		if other.ID == b.ID {
			m.selected = i
			return
		}
	}
}

func (m *Model) clampSelection() {
	n := len(m.blocks())
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

var promptCommands = []input.PromptCommand{
	{Name: "add", Description: "Add a task"},
	{Name: "addnn", Description: "Add a non-negotiable"},
	{Name: "auto", Description: "Auto-schedule unscheduled tasks"},
	{Name: "complete", Description: "Mark a task done"},
	{Name: "date", Description: "Change the active day"},
	{Name: "delete", Description: "Delete a task"},
	{Name: "deletenn", Description: "Delete a non-negotiable"},
	{Name: "move", Description: "Move a block"},
	{Name: "regen", Description: "Rebuild the schedule"},
	{Name: "schedule", Description: "Place a task"},
	{Name: "update", Description: "Edit a task"},
	{Name: "updatenn", Description: "Edit a non-negotiable"},
}
