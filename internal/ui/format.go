package ui

import (
	"fmt"
	"io"

	"github.com/gosuri/uitable"

	"github.com/javiermolinar/timeflow/internal/dateutil"
	"github.com/javiermolinar/timeflow/internal/planner"
	"github.com/javiermolinar/timeflow/internal/task"
)

// PrintOpts configures day printing behavior.
type PrintOpts struct {
	CurrentSlot  string // "HH:MM" slot to highlight, empty for none
	Verbose      bool   // Show full titles and descriptions
	MaxDescWidth int    // Maximum title width (0 = auto)
}

// CalcMaxDescWidth calculates the maximum title width based on options.
func (o PrintOpts) CalcMaxDescWidth(defaultWidth int) int {
	if o.MaxDescWidth > 0 {
		return o.MaxDescWidth
	}
	if !o.Verbose {
		return defaultWidth
	}
	// Base: "  ▶ HH:MM-HH:MM  [medium]  " = ~28 chars, duration suffix ~8
	available := termWidth() - 36
	if available > defaultWidth {
		return available
	}
	return defaultWidth
}

// PrintDay prints the blocks of a day ordered by start time.
func PrintDay(w io.Writer, day task.DaySchedule, opts PrintOpts) {
	fmt.Fprintf(w, "=== %s ===\n\n", formatHeader(dayHeading(day.Date)))

	blocks := day.Sorted()
	if len(blocks) == 0 {
		fmt.Fprintln(w, formatMuted("  Nothing scheduled."))
		return
	}

	var current string
	if opts.CurrentSlot != "" {
		if b, ok := day.BlockAt(opts.CurrentSlot); ok {
			current = b.ID
		}
	}

	maxWidth := opts.CalcMaxDescWidth(40)
	for _, b := range blocks {
		PrintBlockRow(w, b, b.ID == current, maxWidth)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Booked: %s in %d block(s)\n", FormatDuration(day.BusyMinutes()), day.Len())
	if conflicts := day.Conflicts(); len(conflicts) > 0 {
		fmt.Fprintln(w, formatWarning(fmt.Sprintf("Overlaps: %d", len(conflicts))))
		for _, c := range conflicts {
			fmt.Fprintf(w, "  %s\n", formatMuted(fmt.Sprintf("%s (%s) / %s (%s): %s",
				c.A.Task.Title, c.A.Start, c.B.Task.Title, c.B.Start, FormatDuration(c.Minutes()))))
		}
	}
}

// PrintBlockRow prints a single block row with consistent formatting.
func PrintBlockRow(w io.Writer, b task.TimeBlock, current bool, maxDescWidth int) {
	marker := " "
	if current {
		marker = formatCurrent("▶")
	}

	label := "[" + formatPriority(b.Task.Priority) + "]"
	if b.Task.IsNonNegotiable {
		label = formatFixed("[fixed]")
	}

	title := truncate(b.Task.Title, maxDescWidth)
	if current {
		title = formatCurrent(title)
	}

	span := b.Start + "-" + b.End
	if b.Wraps() {
		span += "+1"
	}

	fmt.Fprintf(w, "  %s %-13s %s  %s  %s\n",
		marker, span, label, title, formatMuted(FormatDuration(b.Task.Duration)))
}

// PrintAgenda prints the task list as a table.
func PrintAgenda(w io.Writer, a planner.Agenda) {
	if a.Len() == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 50
	tbl.AddRow(formatHeader("ID"), formatHeader("When"), formatHeader("Title"),
		formatHeader("Duration"), formatHeader("Priority"), formatHeader("Category"))

	for _, t := range a.Unscheduled {
		tbl.AddRow(t.ID, formatMuted("unscheduled"), t.Title, FormatDuration(t.Duration),
			formatPriority(t.Priority), t.Category)
	}
	for _, d := range a.Upcoming {
		for _, t := range d.Tasks {
			tbl.AddRow(t.ID, d.Date+" "+t.Scheduled.Start, t.Title, FormatDuration(t.Duration),
				formatPriority(t.Priority), t.Category)
		}
	}
	for _, t := range a.Completed {
		tbl.AddRow(formatMuted(t.ID), formatMuted("done"), formatMuted(t.Title),
			formatMuted(FormatDuration(t.Duration)), formatMuted(string(t.Priority)), formatMuted(t.Category))
	}

	fmt.Fprintln(w, tbl)
}

// PrintCurrent prints the current task line.
func PrintCurrent(w io.Writer, s *planner.Store) {
	slot := s.CurrentSlot()
	t, ok := s.CurrentTask()
	if !ok {
		fmt.Fprintf(w, "%s  %s\n", slot, formatMuted("no current task"))
		return
	}
	fmt.Fprintf(w, "%s  %s %s-%s\n", slot, formatCurrent(t.Title), t.Scheduled.Start, t.End())
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

func dayHeading(date string) string {
	t, err := dateutil.ParseDay(date)
	if err != nil {
		return date
	}
	return t.Format("Monday, January 2, 2006")
}

func truncate(s string, max int) string {
	if max <= 3 || len([]rune(s)) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}
