package scheduler

import (
	"errors"
	"reflect"
	"testing"

	"github.com/javiermolinar/timeflow/internal/task"
)

const day = "2025-01-15"

func newTask(id string, duration int) task.Task {
	return task.Task{ID: id, Title: id, Duration: duration, Priority: task.PriorityMedium}
}

func at(t task.Task, d, start string) task.Task {
	t.Scheduled = &task.Slot{Day: d, Start: start}
	return t
}

func sleep(d string) task.Task {
	s := at(newTask(SleepID, 480), d, "22:00")
	s.Title = "Sleep"
	s.IsNonNegotiable = true
	return s
}

func TestBuild_SleepAndReport(t *testing.T) {
	tasks := []task.Task{at(newTask("task-1", 60), day, "09:00")}
	nns := []task.Task{sleep(day)}

	days := Build(tasks, nns)

	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}
	d := days[0]
	if d.Date != day {
		t.Errorf("Date = %q, want %q", d.Date, day)
	}
	if len(d.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(d.Blocks))
	}
	if b := d.Blocks[0]; b.Task.ID != SleepID || b.Start != "22:00" || b.End != "06:00" {
		t.Errorf("first block = %s %s-%s, want sleep 22:00-06:00", b.Task.ID, b.Start, b.End)
	}
	if b := d.Blocks[1]; b.Task.ID != "task-1" || b.Start != "09:00" || b.End != "10:00" {
		t.Errorf("second block = %s %s-%s, want task-1 09:00-10:00", b.Task.ID, b.Start, b.End)
	}
}

func TestBuild_SkipsUnscheduledAndCompleted(t *testing.T) {
	done := at(newTask("done", 30), day, "10:00")
	done.Completed = true
	doneNN := sleep("2025-01-16")
	doneNN.Completed = true

	days := Build(
		[]task.Task{newTask("loose", 30), done},
		[]task.Task{doneNN},
	)

	if len(days) != 0 {
		t.Fatalf("expected no days, got %+v", days)
	}
}

func TestBuild_DayOrderIsFirstOccurrence(t *testing.T) {
	tasks := []task.Task{
		at(newTask("a", 30), "2025-01-17", "09:00"),
		at(newTask("b", 30), "2025-01-15", "09:00"),
		at(newTask("c", 30), "2025-01-17", "08:00"),
	}

	days := Build(tasks, nil)

	var dates []string
	for _, d := range days {
		dates = append(dates, d.Date)
	}
	if !reflect.DeepEqual(dates, []string{"2025-01-17", "2025-01-15"}) {
		t.Errorf("dates = %v, want first-occurrence order", dates)
	}
	if days[0].Blocks[0].Task.ID != "a" || days[0].Blocks[1].Task.ID != "c" {
		t.Error("blocks must keep walk order, not start order")
	}

	sorted := SortDays(days)
	if sorted[0].Date != "2025-01-15" || days[0].Date != "2025-01-17" {
		t.Error("SortDays must sort a copy by date")
	}
}

func TestBuild_Idempotent(t *testing.T) {
	tasks := []task.Task{
		at(newTask("a", 30), day, "09:00"),
		at(newTask("b", 45), day, "09:15"),
		newTask("c", 30),
	}
	nns := []task.Task{sleep(day)}

	first := Build(tasks, nns)
	second := Build(tasks, nns)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Build is not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestBuild_KeepsOverlaps(t *testing.T) {
	tasks := []task.Task{
		at(newTask("a", 60), day, "09:00"),
		at(newTask("b", 60), day, "09:30"),
	}

	days := Build(tasks, nil)

	if len(days[0].Blocks) != 2 {
		t.Fatalf("expected both overlapping blocks, got %d", len(days[0].Blocks))
	}
	if len(days[0].Conflicts()) != 1 {
		t.Error("expected the overlap to be reported")
	}
}

func TestBuild_DurationInvariant(t *testing.T) {
	tasks := []task.Task{
		at(newTask("a", 90), day, "23:30"),
		at(newTask("b", 15), day, "00:00"),
		at(newTask("c", 600), day, "20:00"),
	}

	for _, b := range Build(tasks, nil)[0].Blocks {
		span := (b.EndMinutes() - b.StartMinutes() + task.MinutesPerDay) % task.MinutesPerDay
		if span != b.Task.Duration%task.MinutesPerDay {
			t.Errorf("block %s spans %d, want %d", b.ID, span, b.Task.Duration)
		}
		if b.Day != day {
			t.Errorf("block %s day = %s, want %s", b.ID, b.Day, day)
		}
	}
}

func TestBuild_DoesNotAliasInput(t *testing.T) {
	tasks := []task.Task{at(newTask("a", 30), day, "09:00")}
	days := Build(tasks, nil)

	tasks[0].Scheduled.Start = "12:00"
	if days[0].Blocks[0].Task.Scheduled.Start != "09:00" {
		t.Error("block task must be a copy")
	}
}

func TestFindDay(t *testing.T) {
	days := Build([]task.Task{at(newTask("a", 30), day, "09:00")}, nil)
	if _, ok := FindDay(days, day); !ok {
		t.Error("expected to find day")
	}
	if _, ok := FindDay(days, "2025-01-16"); ok {
		t.Error("unexpected day found")
	}
}

func TestAssign_RoundRobinSingleWindow(t *testing.T) {
	tasks := []task.Task{newTask("a", 30), newTask("b", 60), newTask("c", 90)}
	nns := []task.Task{sleep(day)}

	updated, placed := DefaultPolicy().Assign(tasks, nns, day)

	if placed != 3 {
		t.Errorf("placed = %d, want 3", placed)
	}
	for _, tsk := range updated {
		if tsk.Scheduled == nil {
			t.Fatalf("task %s left unscheduled", tsk.ID)
		}
		if tsk.Scheduled.Start != "14:00" || tsk.Scheduled.Day != day {
			t.Errorf("task %s scheduled at %+v, want 14:00 on %s", tsk.ID, *tsk.Scheduled, day)
		}
	}
	for _, tsk := range tasks {
		if tsk.Scheduled != nil {
			t.Error("Assign must not modify its input")
		}
	}

	again, placed := DefaultPolicy().Assign(updated, nns, day)
	if placed != 0 {
		t.Errorf("second pass placed %d, want 0", placed)
	}
	if !reflect.DeepEqual(again, updated) {
		t.Error("second pass must leave scheduled tasks untouched")
	}
}

func TestAssign_SkipsScheduledAndCompleted(t *testing.T) {
	done := newTask("done", 30)
	done.Completed = true
	fixed := at(newTask("fixed", 30), "2025-01-10", "08:00")

	updated, placed := DefaultPolicy().Assign([]task.Task{done, fixed, newTask("open", 30)}, nil, day)

	if placed != 1 {
		t.Errorf("placed = %d, want 1", placed)
	}
	if updated[0].Scheduled != nil {
		t.Error("completed task must stay unscheduled")
	}
	if updated[1].Scheduled.Day != "2025-01-10" || updated[1].Scheduled.Start != "08:00" {
		t.Error("already scheduled task must not move")
	}
	if updated[2].Scheduled == nil || updated[2].Scheduled.Start != "14:00" {
		t.Error("open task must be placed at 14:00")
	}
}

func TestAssign_CyclesWindows(t *testing.T) {
	p := Policy{
		Windows:         []Window{{Start: "09:00", Duration: 60}, {Start: "15:00", Duration: 60}},
		FallbackWindows: []Window{{Start: "11:00", Duration: 60}},
		SentinelID:      SleepID,
	}
	tasks := []task.Task{newTask("a", 30), newTask("b", 30), newTask("c", 30)}

	updated, _ := p.Assign(tasks, []task.Task{sleep(day)}, day)
	want := []string{"09:00", "15:00", "09:00"}
	for i, w := range want {
		if updated[i].Scheduled.Start != w {
			t.Errorf("task %d start = %s, want %s", i, updated[i].Scheduled.Start, w)
		}
	}

	// Sleep scheduled on another day: fallback windows apply.
	updated, _ = p.Assign(tasks, []task.Task{sleep("2025-01-16")}, day)
	for _, tsk := range updated {
		if tsk.Scheduled.Start != "11:00" {
			t.Errorf("task %s start = %s, want fallback 11:00", tsk.ID, tsk.Scheduled.Start)
		}
	}
}

func TestAssign_NoWindows(t *testing.T) {
	updated, placed := Policy{}.Assign([]task.Task{newTask("a", 30)}, nil, day)
	if placed != 0 || updated[0].Scheduled != nil {
		t.Error("empty policy must not place tasks")
	}
}

func TestPolicyValidate(t *testing.T) {
	if err := DefaultPolicy().Validate(); err != nil {
		t.Errorf("default policy invalid: %v", err)
	}

	tests := []struct {
		name    string
		policy  Policy
		wantErr error
	}{
		{name: "empty", policy: Policy{}, wantErr: ErrNoWindows},
		{
			name: "bad start",
			policy: Policy{
				Windows:         []Window{{Start: "2pm", Duration: 60}},
				FallbackWindows: []Window{{Start: "14:00", Duration: 60}},
			},
			wantErr: task.ErrInvalidTimeFormat,
		},
		{
			name: "bad duration",
			policy: Policy{
				Windows:         []Window{{Start: "14:00", Duration: 60}},
				FallbackWindows: []Window{{Start: "14:00", Duration: 0}},
			},
			wantErr: task.ErrInvalidDuration,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.policy.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
