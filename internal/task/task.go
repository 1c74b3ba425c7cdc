// Package task defines the core domain types for timeflow.
package task

import (
	"strings"
	"time"

	"github.com/javiermolinar/timeflow/internal/dateutil"
)

// Priority ranks how important a task is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid returns true if the priority is a known value.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// ParsePriority parses a priority name, case-insensitively.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", ErrInvalidPriority
	}
	return p, nil
}

// Defaults used when a draft leaves a field empty.
const (
	DefaultDuration = 30
	DefaultPriority = PriorityMedium
)

// Slot places a task on the timeline.
type Slot struct {
	Day   string // "YYYY-MM-DD"
	Start string // "HH:MM"
}

// Task is a unit of work or a fixed commitment.
// Non-negotiables share this shape and set IsNonNegotiable.
type Task struct {
	ID              string
	Title           string
	Description     string
	Duration        int       // minutes
	DueDate         time.Time // informational only
	Scheduled       *Slot     // nil means unscheduled
	Completed       bool
	Priority        Priority
	Category        string
	IsNonNegotiable bool
}

// Draft is a task that has not been assigned an id yet.
type Draft struct {
	Title       string
	Description string
	Duration    int
	DueDate     time.Time
	Scheduled   *Slot
	Priority    Priority
	Category    string
}

// Build turns the draft into a task with the given id.
// An empty priority becomes DefaultPriority; the duration is kept as is
// so that Validate can reject it.
func (d Draft) Build(id string) Task {
	t := Task{
		ID:          id,
		Title:       strings.TrimSpace(d.Title),
		Description: d.Description,
		Duration:    d.Duration,
		DueDate:     d.DueDate,
		Priority:    d.Priority,
		Category:    d.Category,
	}
	if t.Priority == "" {
		t.Priority = DefaultPriority
	}
	if d.Scheduled != nil {
		s := *d.Scheduled
		t.Scheduled = &s
	}
	return t
}

// Validate checks the fields a task needs before it can enter the planner.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return &ValidationError{Field: "id", Err: ErrEmptyID}
	}
	if strings.TrimSpace(t.Title) == "" {
		return &ValidationError{Field: "title", Err: ErrEmptyTitle}
	}
	if t.Duration <= 0 {
		return &ValidationError{Field: "duration", Err: ErrInvalidDuration}
	}
	if !t.Priority.Valid() {
		return &ValidationError{Field: "priority", Err: ErrInvalidPriority}
	}
	if t.Scheduled != nil {
		if err := t.Scheduled.Validate(); err != nil {
			return &ValidationError{Field: "scheduled", Err: err}
		}
	}
	return nil
}

// Validate checks the day and start time of the slot.
func (s Slot) Validate() error {
	if _, err := dateutil.ParseDay(s.Day); err != nil {
		return err
	}
	if _, err := ToMinutes(s.Start); err != nil {
		return err
	}
	return nil
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	if t.Scheduled != nil {
		s := *t.Scheduled
		t.Scheduled = &s
	}
	return t
}

// IsScheduled returns true if the task has a slot on the timeline.
func (t *Task) IsScheduled() bool {
	return t.Scheduled != nil
}

// ScheduledOn returns true if the task is scheduled on the given day.
func (t *Task) ScheduledOn(day string) bool {
	return t.Scheduled != nil && t.Scheduled.Day == day
}

// End returns the "HH:MM" at which the scheduled task ends.
// Returns "" for an unscheduled task.
func (t *Task) End() string {
	if t.Scheduled == nil {
		return ""
	}
	end, err := AddDuration(t.Scheduled.Start, t.Duration)
	if err != nil {
		return ""
	}
	return end
}

// CloneAll copies a slice of tasks, including their slots.
func CloneAll(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
