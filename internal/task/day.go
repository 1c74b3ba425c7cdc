package task

import (
	"slices"
	"strings"
)

// BlockIDPrefix is prepended to a task id to form its block id.
const BlockIDPrefix = "block-"

// TimeBlock is the derived occupancy of one task on one day.
type TimeBlock struct {
	ID    string
	Task  Task
	Start string // "HH:MM"
	End   string // "HH:MM", may be earlier than Start when the block crosses midnight
	Day   string // "YYYY-MM-DD"
}

// NewTimeBlock builds the block of a scheduled task.
// Returns false if the task is unscheduled or its start time is malformed.
func NewTimeBlock(t Task) (TimeBlock, bool) {
	if t.Scheduled == nil {
		return TimeBlock{}, false
	}
	end, err := AddDuration(t.Scheduled.Start, t.Duration)
	if err != nil {
		return TimeBlock{}, false
	}
	return TimeBlock{
		ID:    BlockIDPrefix + t.ID,
		Task:  t.Clone(),
		Start: t.Scheduled.Start,
		End:   end,
		Day:   t.Scheduled.Day,
	}, true
}

// StartMinutes returns the start as minutes since midnight.
func (b TimeBlock) StartMinutes() int {
	m, _ := ToMinutes(b.Start)
	return m
}

// EndMinutes returns the end as minutes since midnight.
func (b TimeBlock) EndMinutes() int {
	m, _ := ToMinutes(b.End)
	return m
}

// Wraps reports whether the block runs past midnight.
// The block still belongs to its start day.
func (b TimeBlock) Wraps() bool {
	return b.EndMinutes() < b.StartMinutes()
}

// Covers reports whether minute falls in [start, end).
// Wrapped blocks never cover anything: end is compared as written.
func (b TimeBlock) Covers(minute int) bool {
	return b.StartMinutes() <= minute && minute < b.EndMinutes()
}

// span returns the block as an unwrapped half-open minute range.
func (b TimeBlock) span() (int, int) {
	start := b.StartMinutes()
	end := b.EndMinutes()
	if end <= start && b.Task.Duration > 0 {
		end += MinutesPerDay
	}
	return start, end
}

// Overlaps reports whether two blocks on the same day share any minute.
func (b TimeBlock) Overlaps(other TimeBlock) bool {
	if b.Day != other.Day {
		return false
	}
	s1, e1 := b.span()
	s2, e2 := other.span()
	return TimesOverlap(s1, e1, s2, e2)
}

// DaySchedule holds the blocks of a single day.
type DaySchedule struct {
	Date   string // "YYYY-MM-DD"
	Blocks []TimeBlock
}

// Find returns the block of the given task id.
func (d *DaySchedule) Find(taskID string) (TimeBlock, bool) {
	for _, b := range d.Blocks {
		if b.Task.ID == taskID {
			return b, true
		}
	}
	return TimeBlock{}, false
}

// BlockAt returns the first block covering the given "HH:MM" slot.
func (d *DaySchedule) BlockAt(slot string) (TimeBlock, bool) {
	m, err := ToMinutes(slot)
	if err != nil {
		return TimeBlock{}, false
	}
	for _, b := range d.Blocks {
		if b.Covers(m) {
			return b, true
		}
	}
	return TimeBlock{}, false
}

// Sorted returns a copy of the blocks ordered by start time.
// Blocks with the same start keep their original order.
func (d *DaySchedule) Sorted() []TimeBlock {
	result := slices.Clone(d.Blocks)
	slices.SortStableFunc(result, func(a, b TimeBlock) int {
		return strings.Compare(a.Start, b.Start)
	})
	return result
}

// Conflict is a pair of blocks that share time on the same day.
type Conflict struct {
	A, B TimeBlock
}

// Minutes returns how long the two blocks overlap.
func (c Conflict) Minutes() int {
	s1, e1 := c.A.span()
	s2, e2 := c.B.span()
	return OverlapMinutes(s1, e1, s2, e2)
}

// Conflicts returns every overlapping pair of blocks.
// Overlaps are allowed in the schedule; this only reports them.
func (d *DaySchedule) Conflicts() []Conflict {
	var result []Conflict
	for i := 0; i < len(d.Blocks); i++ {
		for j := i + 1; j < len(d.Blocks); j++ {
			if d.Blocks[i].Overlaps(d.Blocks[j]) {
				result = append(result, Conflict{A: d.Blocks[i], B: d.Blocks[j]})
			}
		}
	}
	return result
}

// BusyMinutes returns the total minutes booked on the day.
func (d *DaySchedule) BusyMinutes() int {
	var total int
	for _, b := range d.Blocks {
		total += b.Task.Duration
	}
	return total
}

// Len returns the number of blocks in the day.
func (d *DaySchedule) Len() int {
	return len(d.Blocks)
}
