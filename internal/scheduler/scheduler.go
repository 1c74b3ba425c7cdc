// Package scheduler builds day schedules and places unscheduled tasks.
package scheduler

import (
	"errors"
	"fmt"

	"github.com/javiermolinar/timeflow/internal/task"
)

// ErrNoWindows is returned when a policy has no window to assign.
var ErrNoWindows = errors.New("auto-schedule policy has no windows")

// SleepID is the id of the seeded sleep non-negotiable.
const SleepID = "sleep"

// Window is a candidate start time for auto-scheduled tasks.
type Window struct {
	Start    string // "HH:MM"
	Duration int    // minutes
}

// Policy decides where unscheduled tasks go.
//
// Windows is used when the sentinel non-negotiable is scheduled on the
// active day and FallbackWindows otherwise. Tasks are handed out round-robin
// over the chosen list; once the list is exhausted it starts over, so several
// tasks can share a start time. Window durations do not limit how many tasks
// a window takes.
type Policy struct {
	Windows         []Window
	FallbackWindows []Window
	SentinelID      string
}

// DefaultPolicy returns a single afternoon window at 14:00 for three hours
// in both branches, keyed on the sleep non-negotiable.
func DefaultPolicy() Policy {
	afternoon := []Window{{Start: "14:00", Duration: 180}}
	return Policy{
		Windows:         afternoon,
		FallbackWindows: afternoon,
		SentinelID:      SleepID,
	}
}

// Validate checks every window of the policy.
func (p Policy) Validate() error {
	if len(p.Windows) == 0 || len(p.FallbackWindows) == 0 {
		return ErrNoWindows
	}
	for _, list := range [][]Window{p.Windows, p.FallbackWindows} {
		for _, w := range list {
			if _, err := task.ToMinutes(w.Start); err != nil {
				return fmt.Errorf("window start: %w", err)
			}
			if w.Duration <= 0 {
				return fmt.Errorf("window %s: %w", w.Start, task.ErrInvalidDuration)
			}
		}
	}
	return nil
}

// WindowsFor returns the windows to use on day.
func (p Policy) WindowsFor(day string, nonNegotiables []task.Task) []Window {
	for _, nn := range nonNegotiables {
		if nn.ID == p.SentinelID && nn.ScheduledOn(day) {
			return p.Windows
		}
	}
	return p.FallbackWindows
}

// Assign places every unscheduled, incomplete task on day, walking tasks in
// order and windows round-robin. Scheduled or completed tasks are left
// untouched. It returns a new slice and the number of tasks placed.
func (p Policy) Assign(tasks, nonNegotiables []task.Task, day string) ([]task.Task, int) {
	updated := task.CloneAll(tasks)
	windows := p.WindowsFor(day, nonNegotiables)
	if len(windows) == 0 {
		return updated, 0
	}

	next := 0
	for i := range updated {
		t := &updated[i]
		if t.Scheduled != nil || t.Completed {
			continue
		}
		w := windows[next%len(windows)]
		t.Scheduled = &task.Slot{Day: day, Start: w.Start}
		next++
	}
	return updated, next
}
