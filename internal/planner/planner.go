// Package planner holds the planner state and the commands that change it.
package planner

import (
	"github.com/javiermolinar/timeflow/internal/scheduler"
	"github.com/javiermolinar/timeflow/internal/task"
)

// State is one consistent snapshot of the planner.
// Schedule is derived from Tasks and NonNegotiables and is rebuilt after
// every command that changes either collection.
type State struct {
	Tasks          []task.Task
	NonNegotiables []task.Task
	Schedule       []task.DaySchedule
	CurrentDate    string // "YYYY-MM-DD"
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	return State{
		Tasks:          task.CloneAll(s.Tasks),
		NonNegotiables: task.CloneAll(s.NonNegotiables),
		Schedule:       cloneSchedule(s.Schedule),
		CurrentDate:    s.CurrentDate,
	}
}

// Day returns the schedule for date, empty if nothing is booked.
func (s State) Day(date string) task.DaySchedule {
	d, ok := scheduler.FindDay(s.Schedule, date)
	if !ok {
		return task.DaySchedule{Date: date}
	}
	return d
}

// Lookup finds an entry by id in either collection.
func (s State) Lookup(id string) (task.Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t.Clone(), true
		}
	}
	for _, t := range s.NonNegotiables {
		if t.ID == id {
			return t.Clone(), true
		}
	}
	return task.Task{}, false
}

// Apply returns the state that results from running cmd against s.
// s itself is never modified. On error the returned state is s and nothing
// has been applied. Unknown ids are not errors: the command changes nothing.
func Apply(s State, cmd Command, policy scheduler.Policy) (State, error) {
	next := s.Clone()
	recompute, err := cmd.apply(&next, policy)
	if err != nil {
		return s, err
	}
	if recompute {
		next.rebuild()
	}
	return next, nil
}

// rebuild regenerates the derived schedule from the source collections.
func (s *State) rebuild() {
	s.Schedule = scheduler.Build(s.Tasks, s.NonNegotiables)
}

func cloneSchedule(days []task.DaySchedule) []task.DaySchedule {
	if days == nil {
		return nil
	}
	out := make([]task.DaySchedule, len(days))
	for i, d := range days {
		blocks := make([]task.TimeBlock, len(d.Blocks))
		for j, b := range d.Blocks {
			b.Task = b.Task.Clone()
			blocks[j] = b
		}
		out[i] = task.DaySchedule{Date: d.Date, Blocks: blocks}
	}
	return out
}
