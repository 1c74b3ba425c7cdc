package planner

import (
	"sort"

	"github.com/javiermolinar/timeflow/internal/task"
)

// Agenda is the task list split the way it is shown to the user.
type Agenda struct {
	Unscheduled []task.Task
	Upcoming    []AgendaDay
	Completed   []task.Task
}

// AgendaDay groups scheduled, incomplete tasks of one day by start time.
type AgendaDay struct {
	Date  string
	Tasks []task.Task
}

// Agenda returns the flexible tasks grouped by status.
func (s *Store) Agenda() Agenda {
	return BuildAgenda(s.state.Tasks)
}

// BuildAgenda groups tasks into unscheduled, upcoming and completed.
// Upcoming days are sorted by date and their tasks by start time.
func BuildAgenda(tasks []task.Task) Agenda {
	var a Agenda
	byDay := make(map[string][]task.Task)
	for _, t := range tasks {
		switch {
		case t.Completed:
			a.Completed = append(a.Completed, t.Clone())
		case t.Scheduled == nil:
			a.Unscheduled = append(a.Unscheduled, t.Clone())
		default:
			byDay[t.Scheduled.Day] = append(byDay[t.Scheduled.Day], t.Clone())
		}
	}

	for date, list := range byDay {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Scheduled.Start < list[j].Scheduled.Start
		})
		a.Upcoming = append(a.Upcoming, AgendaDay{Date: date, Tasks: list})
	}
	sort.Slice(a.Upcoming, func(i, j int) bool {
		return a.Upcoming[i].Date < a.Upcoming[j].Date
	})
	return a
}

// Len returns the number of tasks in the agenda.
func (a Agenda) Len() int {
	n := len(a.Unscheduled) + len(a.Completed)
	for _, d := range a.Upcoming {
		n += len(d.Tasks)
	}
	return n
}
