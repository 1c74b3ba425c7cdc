package scheduler

import (
	"slices"
	"strings"

	"github.com/javiermolinar/timeflow/internal/task"
)

// Build projects scheduled, incomplete entries onto per-day schedules.
// Non-negotiables are walked before tasks. Days appear in the order in which
// they are first seen and blocks keep walk order; nothing is reordered and
// overlaps are left in place. Build does not modify its inputs and returns
// equal output for equal input.
func Build(tasks, nonNegotiables []task.Task) []task.DaySchedule {
	var days []task.DaySchedule
	index := make(map[string]int)

	add := func(t task.Task) {
		if t.Completed || t.Scheduled == nil {
			return
		}
		block, ok := task.NewTimeBlock(t)
		if !ok {
			return
		}
		i, seen := index[block.Day]
		if !seen {
			i = len(days)
			index[block.Day] = i
			days = append(days, task.DaySchedule{Date: block.Day})
		}
		days[i].Blocks = append(days[i].Blocks, block)
	}

	for _, t := range nonNegotiables {
		add(t)
	}
	for _, t := range tasks {
		add(t)
	}
	return days
}

// SortDays returns a copy of the schedule ordered by date.
// YYYY-MM-DD strings sort chronologically.
func SortDays(days []task.DaySchedule) []task.DaySchedule {
	result := slices.Clone(days)
	slices.SortFunc(result, func(a, b task.DaySchedule) int {
		return strings.Compare(a.Date, b.Date)
	})
	return result
}

// FindDay returns the schedule of the given date.
func FindDay(days []task.DaySchedule, date string) (task.DaySchedule, bool) {
	for _, d := range days {
		if d.Date == date {
			return d, true
		}
	}
	return task.DaySchedule{}, false
}
