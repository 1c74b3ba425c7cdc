package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/timeflow/internal/dateutil"
	"github.com/javiermolinar/timeflow/internal/planner"
	"github.com/javiermolinar/timeflow/internal/task"
	"github.com/javiermolinar/timeflow/internal/tui/input"
)

const helpLine = "h/l day  t today  j/k select  x done  d delete  a auto  r regen  y copy  : command  q quit"

// View renders the model.
func (m Model) View() string {
	header := m.renderHeader()
	footer := m.renderFooter()

	timeline, focus := m.renderTimeline()
	if m.height > 0 {
		avail := m.height - len(header) - len(footer)
		timeline = window(timeline, focus, max(avail, 1))
	}

	lines := make([]string, 0, len(header)+len(timeline)+len(footer))
	lines = append(lines, header...)
	lines = append(lines, timeline...)
	lines = append(lines, footer...)

	if m.width > 0 {
		for i, l := range lines {
			lines[i] = ansi.Truncate(l, m.width, "…")
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHeader() []string {
	date := m.store.CurrentDate()
	title := m.styles.TitleStyle.Render("timeflow") + "  " + dayHeading(date)
	if date == dateutil.Today(m.store.Now()) {
		title += " " + m.styles.TodayStyle.Render("today")
	}
	return []string{title, ""}
}

// renderTimeline returns one line per 30 minute slot plus extra lines for
// additional blocks starting in the same slot. focus is the line of the
// selected block.
func (m Model) renderTimeline() ([]string, int) {
	day := m.store.Today()
	blocks := day.Sorted()
	now := m.store.Now()
	isToday := day.Date == dateutil.Today(now)
	nowMin := now.Hour()*60 + now.Minute()
	nowSlot := task.CurrentSlot(now)

	var currentID string
	if isToday {
		if b, ok := day.BlockAt(nowSlot); ok {
			currentID = b.ID
		}
	}

	// Blocks outside the visible range stick to the first or last row.
	first := m.opts.StartHour * 60
	last := m.opts.EndHour*60 + task.SlotMinutes
	bySlot := make(map[int][]int, len(blocks))
	for i, b := range blocks {
		start := b.StartMinutes()
		start -= start % task.SlotMinutes
		start = min(max(start, first), last)
		bySlot[start] = append(bySlot[start], i)
	}

	var lines []string
	focus := 0
	for _, slot := range task.SlotTimes(m.opts.StartHour, m.opts.EndHour) {
		minute, _ := task.ToMinutes(slot)
		label := m.styles.HourStyle.Render(slot)
		if isToday && slot == nowSlot {
			label = m.styles.CurrentMarker.Inherit(m.styles.HourStyle).Render(slot)
		}

		idxs := bySlot[minute]
		if len(idxs) == 0 {
			empty := ""
			if minute%60 == 0 {
				empty = m.styles.EmptyStyle.Render("·")
			}
			lines = append(lines, label+empty)
			continue
		}
		for n, i := range idxs {
			if n > 0 {
				label = m.styles.HourStyle.Render("")
			}
			b := blocks[i]
			past := isToday && !b.Wraps() && b.EndMinutes() <= nowMin
			alt := i > 0 && blocks[i-1].Task.IsNonNegotiable
			if i == m.selected {
				focus = len(lines)
			}
			style := m.styles.BlockStyle(b.Task, past, i == m.selected, alt)
			lines = append(lines, label+m.renderBlock(b, style, b.ID == currentID))
		}
	}

	lines = append(lines, "")
	lines = append(lines, m.renderSummary(day))
	return lines, focus
}

func (m Model) renderBlock(b task.TimeBlock, style lipgloss.Style, current bool) string {
	marker := "  "
	if current {
		marker = m.styles.CurrentMarker.Render("▶") + " "
	}

	span := b.Start + "-" + b.End
	if b.Wraps() {
		span += "+1"
	}
	text := fmt.Sprintf("%s  %s", span, b.Task.Title)
	return marker + style.Render(text) + " " + m.styles.HelpStyle.Render(formatDuration(b.Task.Duration))
}

func (m Model) renderSummary(day task.DaySchedule) string {
	parts := []string{fmt.Sprintf("Booked %s", formatDuration(day.BusyMinutes()))}
	if n := len(m.store.Agenda().Unscheduled); n > 0 {
		parts = append(parts, fmt.Sprintf("%d unscheduled", n))
	}
	summary := m.styles.HelpStyle.Render(strings.Join(parts, " · "))
	if c := len(day.Conflicts()); c > 0 {
		summary += "  " + m.styles.ErrorStyle.Render(fmt.Sprintf("%d overlap(s)", c))
	}
	return summary
}

func (m Model) renderFooter() []string {
	if m.mode == ModePrompt {
		lines := []string{m.styles.PromptStyle.Render(m.prompt.View())}
		matches := input.PromptMatchingCommands(m.prompt.Value(), promptCommands)
		hints := make([]string, 0, len(matches))
		for _, c := range matches {
			hints = append(hints, c.Name+" "+m.styles.HintStyle.Render(c.Description))
		}
		return append(lines, strings.Join(hints, "   "))
	}

	line := m.styles.HelpStyle.Render(helpLine)
	if m.statusMsg != "" {
		if m.statusErr {
			line = m.styles.ErrorStyle.Render(m.statusMsg)
		} else {
			line = m.styles.StatusStyle.Render(m.statusMsg)
		}
	}
	return []string{"", line}
}

// window returns at most n lines of lines, keeping focus visible.
func window(lines []string, focus, n int) []string {
	if len(lines) <= n {
		return lines
	}
	start := focus - n/2
	start = min(max(start, 0), len(lines)-n)
	return lines[start : start+n]
}

// agendaText renders the task list as plain text for the clipboard.
func agendaText(a planner.Agenda) string {
	var b strings.Builder
	if len(a.Unscheduled) > 0 {
		b.WriteString("Unscheduled\n")
		for _, t := range a.Unscheduled {
			fmt.Fprintf(&b, "- %s (%s, %s)\n", t.Title, formatDuration(t.Duration), t.Priority)
		}
	}
	for _, d := range a.Upcoming {
		b.WriteString(d.Date + "\n")
		for _, t := range d.Tasks {
			fmt.Fprintf(&b, "- %s-%s %s\n", t.Scheduled.Start, t.End(), t.Title)
		}
	}
	if len(a.Completed) > 0 {
		b.WriteString("Completed\n")
		for _, t := range a.Completed {
			fmt.Fprintf(&b, "- [x] %s\n", t.Title)
		}
	}
	return b.String()
}

func dayHeading(date string) string {
	t, err := dateutil.ParseDay(date)
	if err != nil {
		return date
	}
	return t.Format("Monday, January 2, 2006")
}

func formatDuration(minutes int) string {
	h, mm := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", mm)
	case mm == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%dm", h, mm)
	}
}
