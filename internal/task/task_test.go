package task

import (
	"errors"
	"testing"

	"github.com/javiermolinar/timeflow/internal/dateutil"
)

func validTask() Task {
	return Task{
		ID:       "task-1",
		Title:    "Write report",
		Duration: 60,
		Priority: PriorityMedium,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Task)
		wantField string
		wantErr   error
	}{
		{name: "valid unscheduled", mutate: func(*Task) {}},
		{
			name:   "valid scheduled",
			mutate: func(t *Task) { t.Scheduled = &Slot{Day: "2025-01-15", Start: "09:00"} },
		},
		{
			name:      "empty id",
			mutate:    func(t *Task) { t.ID = "" },
			wantField: "id",
			wantErr:   ErrEmptyID,
		},
		{
			name:      "empty title",
			mutate:    func(t *Task) { t.Title = "" },
			wantField: "title",
			wantErr:   ErrEmptyTitle,
		},
		{
			name:      "whitespace title",
			mutate:    func(t *Task) { t.Title = "   " },
			wantField: "title",
			wantErr:   ErrEmptyTitle,
		},
		{
			name:      "zero duration",
			mutate:    func(t *Task) { t.Duration = 0 },
			wantField: "duration",
			wantErr:   ErrInvalidDuration,
		},
		{
			name:      "negative duration",
			mutate:    func(t *Task) { t.Duration = -15 },
			wantField: "duration",
			wantErr:   ErrInvalidDuration,
		},
		{
			name:      "unknown priority",
			mutate:    func(t *Task) { t.Priority = "urgent" },
			wantField: "priority",
			wantErr:   ErrInvalidPriority,
		},
		{
			name:      "bad slot time",
			mutate:    func(t *Task) { t.Scheduled = &Slot{Day: "2025-01-15", Start: "9am"} },
			wantField: "scheduled",
			wantErr:   ErrInvalidTimeFormat,
		},
		{
			name:      "bad slot day",
			mutate:    func(t *Task) { t.Scheduled = &Slot{Day: "15/01/2025", Start: "09:00"} },
			wantField: "scheduled",
			wantErr:   dateutil.ErrInvalidDateFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tsk := validTask()
			tt.mutate(&tsk)
			err := tsk.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		input   string
		want    Priority
		wantErr bool
	}{
		{input: "low", want: PriorityLow},
		{input: "Medium", want: PriorityMedium},
		{input: " HIGH ", want: PriorityHigh},
		{input: "urgent", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePriority(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPriority) {
					t.Fatalf("expected ErrInvalidPriority, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParsePriority(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDraftBuild(t *testing.T) {
	slot := &Slot{Day: "2025-01-15", Start: "09:00"}
	d := Draft{Title: "  Review PRs  ", Duration: 45, Scheduled: slot}

	got := d.Build("task-7")

	if got.ID != "task-7" {
		t.Errorf("ID = %q, want task-7", got.ID)
	}
	if got.Title != "Review PRs" {
		t.Errorf("Title = %q, want trimmed title", got.Title)
	}
	if got.Priority != DefaultPriority {
		t.Errorf("Priority = %q, want %q", got.Priority, DefaultPriority)
	}
	if got.Completed || got.IsNonNegotiable {
		t.Error("new task must be incomplete and flexible")
	}

	slot.Start = "10:00"
	if got.Scheduled.Start != "09:00" {
		t.Error("built task must not share the draft's slot")
	}
}

func TestDraftBuild_KeepsZeroDuration(t *testing.T) {
	got := Draft{Title: "x"}.Build("task-1")
	if err := got.Validate(); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("expected zero duration to be rejected, got %v", err)
	}
}

func TestClone(t *testing.T) {
	orig := validTask()
	orig.Scheduled = &Slot{Day: "2025-01-15", Start: "09:00"}

	c := orig.Clone()
	c.Scheduled.Start = "11:00"

	if orig.Scheduled.Start != "09:00" {
		t.Error("Clone must copy the slot")
	}
}

func TestEnd(t *testing.T) {
	tsk := validTask()
	if got := tsk.End(); got != "" {
		t.Errorf("unscheduled End() = %q, want empty", got)
	}
	tsk.Scheduled = &Slot{Day: "2025-01-15", Start: "23:30"}
	tsk.Duration = 90
	if got := tsk.End(); got != "01:00" {
		t.Errorf("End() = %q, want 01:00", got)
	}
	if !tsk.ScheduledOn("2025-01-15") || tsk.ScheduledOn("2025-01-16") {
		t.Error("ScheduledOn must match only the start day")
	}
}
