package planner

import (
	"fmt"
	"time"

	"github.com/javiermolinar/timeflow/internal/dateutil"
	"github.com/javiermolinar/timeflow/internal/scheduler"
	"github.com/javiermolinar/timeflow/internal/task"
)

// Logger receives one event per dispatched command.
type Logger interface {
	Log(event string, data map[string]any)
}

type nopLogger struct{}

func (nopLogger) Log(string, map[string]any) {}

// Sleep describes the non-negotiable seeded by Init.
type Sleep struct {
	Enabled  bool
	Title    string
	Start    string // "HH:MM"
	Duration int    // minutes
}

// DefaultSleep is eight hours from 22:00.
func DefaultSleep() Sleep {
	return Sleep{Enabled: true, Title: "Sleep", Start: "22:00", Duration: 480}
}

// Store owns the planner state. Every change goes through Dispatch.
// A Store is not safe for concurrent use; callers serialise commands.
type Store struct {
	state       State
	policy      scheduler.Policy
	ids         IDGenerator
	now         func() time.Time
	log         Logger
	sleep       Sleep
	initialized bool
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the wall clock used for the current date and slot.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDs sets the id generator.
func WithIDs(ids IDGenerator) Option {
	return func(s *Store) {
		s.ids = ids
	}
}

// WithPolicy sets the auto-schedule policy.
func WithPolicy(p scheduler.Policy) Option {
	return func(s *Store) {
		s.policy = p
	}
}

// WithSleep sets the non-negotiable seeded by Init.
func WithSleep(sleep Sleep) Option {
	return func(s *Store) {
		s.sleep = sleep
	}
}

// WithLogger sets the command logger.
func WithLogger(l Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates an empty store whose current date is today.
// Call Init to seed it.
func New(opts ...Option) *Store {
	s := &Store{
		policy: scheduler.DefaultPolicy(),
		ids:    UUIDs{},
		now:    time.Now,
		log:    nopLogger{},
		sleep:  DefaultSleep(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state.CurrentDate = dateutil.Today(s.now())
	return s
}

// Init seeds the sleep non-negotiable on today and runs the auto-scheduler
// once. Calling it again does nothing.
func (s *Store) Init() error {
	if s.initialized {
		return nil
	}
	if s.sleep.Enabled {
		seed := task.Task{
			ID:              scheduler.SleepID,
			Title:           s.sleep.Title,
			Duration:        s.sleep.Duration,
			DueDate:         s.now(),
			Scheduled:       &task.Slot{Day: s.state.CurrentDate, Start: s.sleep.Start},
			Priority:        task.PriorityHigh,
			IsNonNegotiable: true,
		}
		if err := s.Dispatch(AddNonNegotiable{Task: seed}); err != nil {
			return fmt.Errorf("seeding sleep: %w", err)
		}
	}
	if err := s.Dispatch(AutoScheduleTasks{}); err != nil {
		return fmt.Errorf("initial auto-schedule: %w", err)
	}
	s.initialized = true
	s.log.Log("INIT", map[string]any{
		"date":  s.state.CurrentDate,
		"sleep": s.sleep.Enabled,
	})
	return nil
}

// Dispatch applies a command. Either the whole command is applied or,
// when it returns an error, nothing is.
func (s *Store) Dispatch(cmd Command) error {
	next, err := Apply(s.state, cmd, s.policy)
	if err != nil {
		fields := describe(cmd)
		fields["error"] = err.Error()
		s.log.Log("COMMAND_REJECTED", fields)
		return err
	}
	s.state = next
	s.log.Log("COMMAND", describe(cmd))
	return nil
}

// AddTask creates a task from the draft with a fresh id.
func (s *Store) AddTask(d task.Draft) (task.Task, error) {
	t := d.Build(s.ids.NewID(KindTask))
	if err := s.Dispatch(AddTask{Task: t}); err != nil {
		return task.Task{}, err
	}
	return t, nil
}

// AddNonNegotiable creates a non-negotiable from the draft with a fresh id.
func (s *Store) AddNonNegotiable(d task.Draft) (task.Task, error) {
	t := d.Build(s.ids.NewID(KindNonNegotiable))
	t.IsNonNegotiable = true
	if err := s.Dispatch(AddNonNegotiable{Task: t}); err != nil {
		return task.Task{}, err
	}
	return t, nil
}

// UpdateTask replaces the task with the same id.
func (s *Store) UpdateTask(t task.Task) error {
	return s.Dispatch(UpdateTask{Task: t})
}

// UpdateNonNegotiable replaces the non-negotiable with the same id.
func (s *Store) UpdateNonNegotiable(t task.Task) error {
	return s.Dispatch(UpdateNonNegotiable{Task: t})
}

// DeleteTask removes a task.
func (s *Store) DeleteTask(id string) error {
	return s.Dispatch(DeleteTask{ID: id})
}

// DeleteNonNegotiable removes a non-negotiable.
func (s *Store) DeleteNonNegotiable(id string) error {
	return s.Dispatch(DeleteNonNegotiable{ID: id})
}

// CompleteTask marks a task as completed.
func (s *Store) CompleteTask(id string) error {
	return s.Dispatch(CompleteTask{ID: id})
}

// SetCurrentDate changes the active day.
func (s *Store) SetCurrentDate(date string) error {
	return s.Dispatch(SetCurrentDate{Date: date})
}

// ShiftDate moves the active day by n days.
func (s *Store) ShiftDate(n int) error {
	date, err := dateutil.AddDays(s.state.CurrentDate, n)
	if err != nil {
		return err
	}
	return s.SetCurrentDate(date)
}

// GoToday makes today the active day.
func (s *Store) GoToday() error {
	return s.SetCurrentDate(dateutil.Today(s.now()))
}

// ScheduleTask places a task at start on day.
func (s *Store) ScheduleTask(id, start, day string) error {
	return s.Dispatch(ScheduleTask{ID: id, Start: start, Day: day})
}

// MoveTask places a task or non-negotiable at start on day.
func (s *Store) MoveTask(id, start, day string) error {
	return s.Dispatch(MoveTask{ID: id, Start: start, Day: day})
}

// AutoScheduleTasks places unscheduled tasks on the active day and returns
// how many were placed.
func (s *Store) AutoScheduleTasks() (int, error) {
	before := countUnscheduled(s.state.Tasks)
	if err := s.Dispatch(AutoScheduleTasks{}); err != nil {
		return 0, err
	}
	return before - countUnscheduled(s.state.Tasks), nil
}

// RegenerateSchedule rebuilds the schedule from the collections.
func (s *Store) RegenerateSchedule() error {
	return s.Dispatch(RegenerateSchedule{})
}

// State returns a copy of the current state.
func (s *Store) State() State {
	return s.state.Clone()
}

// CurrentDate returns the active day.
func (s *Store) CurrentDate() string {
	return s.state.CurrentDate
}

// Today returns the schedule of the active day.
func (s *Store) Today() task.DaySchedule {
	return s.state.Clone().Day(s.state.CurrentDate)
}

// Days returns every scheduled day in date order.
func (s *Store) Days() []task.DaySchedule {
	return scheduler.SortDays(s.state.Clone().Schedule)
}

// Task looks up a task or non-negotiable by id.
func (s *Store) Task(id string) (task.Task, error) {
	t, ok := s.state.Lookup(id)
	if !ok {
		return task.Task{}, fmt.Errorf("%w: %s", task.ErrNotFound, id)
	}
	return t, nil
}

// CurrentSlot returns the wall clock floored to 30 minutes.
func (s *Store) CurrentSlot() string {
	return task.CurrentSlot(s.now())
}

// CurrentTask returns the entry whose block on the active day covers the
// current slot.
func (s *Store) CurrentTask() (task.Task, bool) {
	day, ok := scheduler.FindDay(s.state.Schedule, s.state.CurrentDate)
	if !ok {
		return task.Task{}, false
	}
	b, ok := day.BlockAt(s.CurrentSlot())
	if !ok {
		return task.Task{}, false
	}
	return b.Task.Clone(), true
}

// Now returns the store's wall clock reading.
func (s *Store) Now() time.Time {
	return s.now()
}

func countUnscheduled(tasks []task.Task) int {
	var n int
	for _, t := range tasks {
		if t.Scheduled == nil && !t.Completed {
			n++
		}
	}
	return n
}

// describe returns the log fields of a command.
func describe(cmd Command) map[string]any {
	data := map[string]any{"command": cmd.Name()}
	switch c := cmd.(type) {
	case AddTask:
		data["id"] = c.Task.ID
		data["title"] = c.Task.Title
	case AddNonNegotiable:
		data["id"] = c.Task.ID
		data["title"] = c.Task.Title
	case UpdateTask:
		data["id"] = c.Task.ID
	case UpdateNonNegotiable:
		data["id"] = c.Task.ID
	case DeleteTask:
		data["id"] = c.ID
	case DeleteNonNegotiable:
		data["id"] = c.ID
	case CompleteTask:
		data["id"] = c.ID
	case SetCurrentDate:
		data["date"] = c.Date
	case ScheduleTask:
		data["id"] = c.ID
		data["start"] = c.Start
		data["day"] = c.Day
	case MoveTask:
		data["id"] = c.ID
		data["start"] = c.Start
		data["day"] = c.Day
	}
	return data
}
