package planner

import (
	"errors"
	"strings"

	"github.com/javiermolinar/timeflow/internal/dateutil"
	"github.com/javiermolinar/timeflow/internal/scheduler"
	"github.com/javiermolinar/timeflow/internal/task"
)

// ErrDuplicateID is returned when an added entry reuses an existing id.
var ErrDuplicateID = errors.New("id already in use")

// Command is a state transition. The set of commands is closed: only the
// types in this package implement it.
type Command interface {
	// Name identifies the command in logs.
	Name() string

	// apply mutates s, which the caller owns, and reports whether the
	// schedule must be rebuilt.
	apply(s *State, policy scheduler.Policy) (bool, error)
}

// AddTask appends a new flexible task. The id must already be assigned.
type AddTask struct {
	Task task.Task
}

// UpdateTask replaces the task with the same id.
type UpdateTask struct {
	Task task.Task
}

// DeleteTask removes the task with the given id.
type DeleteTask struct {
	ID string
}

// CompleteTask marks the task with the given id as completed.
type CompleteTask struct {
	ID string
}

// SetCurrentDate changes the active day.
type SetCurrentDate struct {
	Date string
}

// ScheduleTask places a task on the timeline.
type ScheduleTask struct {
	ID    string
	Start string
	Day   string
}

// MoveTask places a task or a non-negotiable on the timeline.
type MoveTask struct {
	ID    string
	Start string
	Day   string
}

// AutoScheduleTasks assigns unscheduled tasks to the active day.
type AutoScheduleTasks struct{}

// AddNonNegotiable appends a fixed commitment. The id must already be assigned.
type AddNonNegotiable struct {
	Task task.Task
}

// UpdateNonNegotiable replaces the non-negotiable with the same id.
type UpdateNonNegotiable struct {
	Task task.Task
}

// DeleteNonNegotiable removes the non-negotiable with the given id.
type DeleteNonNegotiable struct {
	ID string
}

// RegenerateSchedule rebuilds the schedule without changing anything else.
type RegenerateSchedule struct{}

func (AddTask) Name() string             { return "add_task" }
func (UpdateTask) Name() string          { return "update_task" }
func (DeleteTask) Name() string          { return "delete_task" }
func (CompleteTask) Name() string        { return "complete_task" }
func (SetCurrentDate) Name() string      { return "set_current_date" }
func (ScheduleTask) Name() string        { return "schedule_task" }
func (MoveTask) Name() string            { return "move_task" }
func (AutoScheduleTasks) Name() string   { return "auto_schedule_tasks" }
func (AddNonNegotiable) Name() string    { return "add_non_negotiable" }
func (UpdateNonNegotiable) Name() string { return "update_non_negotiable" }
func (DeleteNonNegotiable) Name() string { return "delete_non_negotiable" }
func (RegenerateSchedule) Name() string  { return "regenerate_schedule" }

func (c AddTask) apply(s *State, _ scheduler.Policy) (bool, error) {
	t := c.Task.Clone()
	t.IsNonNegotiable = false
	if err := checkNew(s, t); err != nil {
		return false, err
	}
	s.Tasks = append(s.Tasks, t)
	return true, nil
}

func (c UpdateTask) apply(s *State, _ scheduler.Policy) (bool, error) {
	t := c.Task
	t.IsNonNegotiable = false
	if err := t.Validate(); err != nil {
		return false, err
	}
	s.Tasks = replace(s.Tasks, t)
	return true, nil
}

func (c DeleteTask) apply(s *State, _ scheduler.Policy) (bool, error) {
	s.Tasks = remove(s.Tasks, c.ID)
	return true, nil
}

func (c CompleteTask) apply(s *State, _ scheduler.Policy) (bool, error) {
	for i := range s.Tasks {
		if s.Tasks[i].ID == c.ID {
			s.Tasks[i].Completed = true
		}
	}
	return true, nil
}

func (c SetCurrentDate) apply(s *State, _ scheduler.Policy) (bool, error) {
	if !dateutil.ValidDay(c.Date) {
		return false, &task.ValidationError{Field: "date", Err: dateutil.ErrInvalidDateFormat}
	}
	s.CurrentDate = c.Date
	return false, nil
}

func (c ScheduleTask) apply(s *State, _ scheduler.Policy) (bool, error) {
	slot, err := newSlot(c.Day, c.Start)
	if err != nil {
		return false, err
	}
	setSlot(s.Tasks, c.ID, slot)
	return true, nil
}

func (c MoveTask) apply(s *State, _ scheduler.Policy) (bool, error) {
	slot, err := newSlot(c.Day, c.Start)
	if err != nil {
		return false, err
	}
	setSlot(s.Tasks, c.ID, slot)
	setSlot(s.NonNegotiables, c.ID, slot)
	return true, nil
}

func (AutoScheduleTasks) apply(s *State, policy scheduler.Policy) (bool, error) {
	s.Tasks, _ = policy.Assign(s.Tasks, s.NonNegotiables, s.CurrentDate)
	return true, nil
}

func (c AddNonNegotiable) apply(s *State, _ scheduler.Policy) (bool, error) {
	t := c.Task.Clone()
	t.IsNonNegotiable = true
	if err := checkNew(s, t); err != nil {
		return false, err
	}
	s.NonNegotiables = append(s.NonNegotiables, t)
	return true, nil
}

func (c UpdateNonNegotiable) apply(s *State, _ scheduler.Policy) (bool, error) {
	t := c.Task
	t.IsNonNegotiable = true
	if err := t.Validate(); err != nil {
		return false, err
	}
	s.NonNegotiables = replace(s.NonNegotiables, t)
	return true, nil
}

func (c DeleteNonNegotiable) apply(s *State, _ scheduler.Policy) (bool, error) {
	s.NonNegotiables = remove(s.NonNegotiables, c.ID)
	return true, nil
}

func (RegenerateSchedule) apply(*State, scheduler.Policy) (bool, error) {
	return true, nil
}

// checkNew validates an entry about to be added.
func checkNew(s *State, t task.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if _, exists := s.Lookup(t.ID); exists {
		return &task.ValidationError{Field: "id", Err: ErrDuplicateID}
	}
	return nil
}

// newSlot validates a day and start time pair.
// Malformed times come back as *task.ParseError.
func newSlot(day, start string) (task.Slot, error) {
	if _, err := task.ToMinutes(start); err != nil {
		return task.Slot{}, err
	}
	day = strings.TrimSpace(day)
	if !dateutil.ValidDay(day) {
		return task.Slot{}, &task.ValidationError{Field: "day", Err: dateutil.ErrInvalidDateFormat}
	}
	return task.Slot{Day: day, Start: start}, nil
}

func setSlot(list []task.Task, id string, slot task.Slot) {
	for i := range list {
		if list[i].ID == id {
			s := slot
			list[i].Scheduled = &s
		}
	}
}

// replace swaps in t for the entry with the same id. Completion is sticky.
func replace(list []task.Task, t task.Task) []task.Task {
	for i := range list {
		if list[i].ID == t.ID {
			done := list[i].Completed
			list[i] = t.Clone()
			list[i].Completed = list[i].Completed || done
		}
	}
	return list
}

func remove(list []task.Task, id string) []task.Task {
	out := list[:0]
	for _, t := range list {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}
