package planner

import (
	"errors"
	"reflect"
	"testing"

	"github.com/javiermolinar/timeflow/internal/scheduler"
	"github.com/javiermolinar/timeflow/internal/task"
)

const today = "2025-01-15"

func scheduled(id string, duration int, day, start string) task.Task {
	return task.Task{
		ID:        id,
		Title:     id,
		Duration:  duration,
		Priority:  task.PriorityMedium,
		Scheduled: &task.Slot{Day: day, Start: start},
	}
}

func loose(id string) task.Task {
	return task.Task{ID: id, Title: id, Duration: 30, Priority: task.PriorityMedium}
}

func apply(t *testing.T, s State, cmds ...Command) State {
	t.Helper()
	for _, cmd := range cmds {
		next, err := Apply(s, cmd, scheduler.DefaultPolicy())
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", cmd.Name(), err)
		}
		s = next
	}
	return s
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	s := apply(t, State{CurrentDate: today}, AddTask{Task: loose("task-1")})
	before := s.Clone()

	_ = apply(t, s,
		ScheduleTask{ID: "task-1", Start: "09:00", Day: today},
		CompleteTask{ID: "task-1"},
	)

	if !reflect.DeepEqual(s, before) {
		t.Errorf("input state changed:\n got %+v\nwant %+v", s, before)
	}
}

func TestApply_RebuildsScheduleAfterMutation(t *testing.T) {
	s := apply(t, State{CurrentDate: today},
		AddTask{Task: scheduled("task-1", 60, today, "09:00")},
		AddTask{Task: scheduled("task-2", 30, today, "11:00")},
	)

	d := s.Day(today)
	if d.Len() != 2 {
		t.Fatalf("expected 2 blocks, got %d", d.Len())
	}

	s = apply(t, s, DeleteTask{ID: "task-1"})
	d = s.Day(today)
	if d.Len() != 1 || d.Blocks[0].Task.ID != "task-2" {
		t.Errorf("after delete blocks = %+v, want only task-2", d.Blocks)
	}
}

func TestApply_ValidationLeavesStateUntouched(t *testing.T) {
	base := apply(t, State{CurrentDate: today}, AddTask{Task: loose("task-1")})

	tests := []struct {
		name  string
		cmd   Command
		field string
	}{
		{"empty title", AddTask{Task: task.Task{ID: "x", Title: "  ", Duration: 30, Priority: task.PriorityLow}}, "title"},
		{"zero duration", AddTask{Task: task.Task{ID: "x", Title: "x", Priority: task.PriorityLow}}, "duration"},
		{"bad priority", AddTask{Task: task.Task{ID: "x", Title: "x", Duration: 30, Priority: "urgent"}}, "priority"},
		{"duplicate id", AddTask{Task: loose("task-1")}, "id"},
		{"bad slot", AddNonNegotiable{Task: scheduled("nn", 30, "15-01-2025", "09:00")}, "scheduled"},
		{"update empty title", UpdateTask{Task: task.Task{ID: "task-1", Duration: 30, Priority: task.PriorityLow}}, "title"},
		{"bad date", SetCurrentDate{Date: "tomorrow"}, "date"},
		{"bad day", ScheduleTask{ID: "task-1", Start: "09:00", Day: "2025/01/15"}, "day"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(base, tt.cmd, scheduler.DefaultPolicy())
			var verr *task.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *task.ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
			if !reflect.DeepEqual(got, base) {
				t.Errorf("state changed on error")
			}
		})
	}
}

func TestApply_DuplicateIDAcrossCollections(t *testing.T) {
	s := apply(t, State{CurrentDate: today}, AddTask{Task: loose("shared")})

	nn := scheduled("shared", 60, today, "12:00")
	_, err := Apply(s, AddNonNegotiable{Task: nn}, scheduler.DefaultPolicy())
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
}

func TestApply_MalformedTimeIsParseError(t *testing.T) {
	s := apply(t, State{CurrentDate: today}, AddTask{Task: loose("task-1")})

	for _, cmd := range []Command{
		ScheduleTask{ID: "task-1", Start: "9:00", Day: today},
		MoveTask{ID: "task-1", Start: "25:00", Day: today},
	} {
		_, err := Apply(s, cmd, scheduler.DefaultPolicy())
		var perr *task.ParseError
		if !errors.As(err, &perr) && !errors.Is(err, task.ErrTimeOutOfRange) {
			t.Errorf("%s: expected time error, got %v", cmd.Name(), err)
		}
	}
}

func TestApply_UnknownIDIsNoOp(t *testing.T) {
	s := apply(t, State{CurrentDate: today},
		AddTask{Task: scheduled("task-1", 60, today, "09:00")},
	)

	for _, cmd := range []Command{
		DeleteTask{ID: "missing"},
		CompleteTask{ID: "missing"},
		UpdateTask{Task: loose("missing")},
		ScheduleTask{ID: "missing", Start: "10:00", Day: today},
		MoveTask{ID: "missing", Start: "10:00", Day: today},
		DeleteNonNegotiable{ID: "missing"},
		UpdateNonNegotiable{Task: loose("missing")},
	} {
		got, err := Apply(s, cmd, scheduler.DefaultPolicy())
		if err != nil {
			t.Errorf("%s: unexpected error: %v", cmd.Name(), err)
		}
		if !reflect.DeepEqual(got.Tasks, s.Tasks) || !reflect.DeepEqual(got.NonNegotiables, s.NonNegotiables) {
			t.Errorf("%s: collections changed", cmd.Name())
		}
	}
}

func TestApply_CompleteRemovesBlock(t *testing.T) {
	s := apply(t, State{CurrentDate: today},
		AddTask{Task: scheduled("task-1", 60, today, "09:00")},
		CompleteTask{ID: "task-1"},
		CompleteTask{ID: "task-1"},
	)

	if !s.Tasks[0].Completed {
		t.Error("expected task to stay completed")
	}
	if d := s.Day(today); d.Len() != 0 {
		t.Errorf("expected no blocks, got %d", d.Len())
	}
}

func TestApply_CompleteIgnoresNonNegotiables(t *testing.T) {
	s := apply(t, State{CurrentDate: today},
		AddNonNegotiable{Task: scheduled("gym", 60, today, "07:00")},
		CompleteTask{ID: "gym"},
	)

	if s.NonNegotiables[0].Completed {
		t.Error("complete_task must not touch non-negotiables")
	}
}

func TestApply_SetCurrentDateKeepsSchedule(t *testing.T) {
	s := apply(t, State{CurrentDate: today},
		AddTask{Task: scheduled("task-1", 60, today, "09:00")},
	)

	next := apply(t, s, SetCurrentDate{Date: "2025-01-16"})

	if next.CurrentDate != "2025-01-16" {
		t.Errorf("CurrentDate = %q", next.CurrentDate)
	}
	if !reflect.DeepEqual(next.Schedule, s.Schedule) {
		t.Error("schedule should not change")
	}
}

func TestApply_MoveTaskReachesNonNegotiables(t *testing.T) {
	s := apply(t, State{CurrentDate: today},
		AddNonNegotiable{Task: scheduled("gym", 60, today, "07:00")},
		MoveTask{ID: "gym", Start: "18:00", Day: "2025-01-16"},
	)

	got := s.NonNegotiables[0].Scheduled
	if got.Day != "2025-01-16" || got.Start != "18:00" {
		t.Errorf("slot = %+v", got)
	}
	if d := s.Day("2025-01-16"); d.Len() != 1 {
		t.Errorf("expected gym on 2025-01-16, got %d blocks", d.Len())
	}
}

func TestApply_ScheduleTaskSkipsNonNegotiables(t *testing.T) {
	s := apply(t, State{CurrentDate: today},
		AddNonNegotiable{Task: scheduled("gym", 60, today, "07:00")},
		ScheduleTask{ID: "gym", Start: "18:00", Day: today},
	)

	if got := s.NonNegotiables[0].Scheduled.Start; got != "07:00" {
		t.Errorf("Start = %q, want 07:00", got)
	}
}

func TestApply_AddForcesCollectionFlag(t *testing.T) {
	nn := loose("x")
	nn.IsNonNegotiable = true
	s := apply(t, State{CurrentDate: today},
		AddTask{Task: nn},
		AddNonNegotiable{Task: scheduled("y", 30, today, "08:00")},
	)

	if s.Tasks[0].IsNonNegotiable {
		t.Error("task added through add_task is flagged as non-negotiable")
	}
	if !s.NonNegotiables[0].IsNonNegotiable {
		t.Error("non-negotiable is not flagged")
	}

	flagged := s.Tasks[0]
	flagged.IsNonNegotiable = true
	unflagged := s.NonNegotiables[0]
	unflagged.IsNonNegotiable = false
	s = apply(t, s, UpdateTask{Task: flagged}, UpdateNonNegotiable{Task: unflagged})

	if s.Tasks[0].IsNonNegotiable {
		t.Error("update_task flagged a task as non-negotiable")
	}
	if !s.NonNegotiables[0].IsNonNegotiable {
		t.Error("update_non_negotiable cleared the flag")
	}
}

func TestApply_UpdateKeepsCompletion(t *testing.T) {
	s := apply(t, State{CurrentDate: today},
		AddTask{Task: scheduled("task-1", 60, today, "09:00")},
	)
	stale := s.Tasks[0]
	stale.Title = "Renamed"

	s = apply(t, s, CompleteTask{ID: "task-1"}, UpdateTask{Task: stale})

	got := s.Tasks[0]
	if !got.Completed {
		t.Error("update reverted completion")
	}
	if got.Title != "Renamed" {
		t.Errorf("title = %q, want Renamed", got.Title)
	}
	if d := s.Day(today); d.Len() != 0 {
		t.Errorf("completed task back on the schedule: %d block(s)", d.Len())
	}
}

func TestApply_RegenerateSchedule(t *testing.T) {
	s := apply(t, State{CurrentDate: today},
		AddTask{Task: scheduled("task-1", 60, today, "09:00")},
	)
	s.Schedule = nil

	s = apply(t, s, RegenerateSchedule{})

	if d := s.Day(today); d.Len() != 1 {
		t.Errorf("expected 1 block after regenerate, got %d", d.Len())
	}
}

func TestBuildAgenda(t *testing.T) {
	done := scheduled("done", 30, today, "08:00")
	done.Completed = true
	tasks := []task.Task{
		scheduled("late", 30, "2025-01-16", "15:00"),
		loose("todo"),
		scheduled("b", 30, today, "11:00"),
		done,
		scheduled("a", 30, today, "09:00"),
	}

	a := BuildAgenda(tasks)

	if len(a.Unscheduled) != 1 || a.Unscheduled[0].ID != "todo" {
		t.Errorf("Unscheduled = %+v", a.Unscheduled)
	}
	if len(a.Completed) != 1 || a.Completed[0].ID != "done" {
		t.Errorf("Completed = %+v", a.Completed)
	}
	if len(a.Upcoming) != 2 {
		t.Fatalf("expected 2 upcoming days, got %d", len(a.Upcoming))
	}
	var got []string
	for _, d := range a.Upcoming {
		for _, tk := range d.Tasks {
			got = append(got, d.Date+" "+tk.ID)
		}
	}
	want := []string{today + " a", today + " b", "2025-01-16 late"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("upcoming = %v, want %v", got, want)
	}
	if a.Len() != len(tasks) {
		t.Errorf("Len() = %d, want %d", a.Len(), len(tasks))
	}
}
