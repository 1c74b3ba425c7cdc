package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestParseDay(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		got, err := ParseDay("2025-01-15")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	invalid := []string{"", "01-15-2025", "2025-1-15", "2025-02-30", "2025-01-15T10:00"}
	for _, in := range invalid {
		t.Run("invalid "+in, func(t *testing.T) {
			_, err := ParseDay(in)
			if !errors.Is(err, ErrInvalidDateFormat) {
				t.Errorf("ParseDay(%q) error = %v, want %v", in, err, ErrInvalidDateFormat)
			}
		})
	}
}

func TestToday(t *testing.T) {
	now := time.Date(2025, 3, 9, 23, 59, 0, 0, time.Local)
	if got := Today(now); got != "2025-03-09" {
		t.Errorf("Today() = %q, want 2025-03-09", got)
	}

	// The calendar date follows the clock's zone, not UTC.
	auckland := time.FixedZone("NZDT", 13*60*60)
	now = time.Date(2025, 1, 15, 9, 0, 0, 0, auckland)
	if got := Today(now); got != "2025-01-15" {
		t.Errorf("Today(%v) = %q, want 2025-01-15", now, got)
	}
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		name string
		day  string
		n    int
		want string
	}{
		{name: "next day", day: "2025-01-15", n: 1, want: "2025-01-16"},
		{name: "previous day", day: "2025-01-15", n: -1, want: "2025-01-14"},
		{name: "month rollover", day: "2025-01-31", n: 1, want: "2025-02-01"},
		{name: "leap day", day: "2024-02-28", n: 1, want: "2024-02-29"},
		{name: "year rollback", day: "2025-01-01", n: -1, want: "2024-12-31"},
		{name: "zero", day: "2025-01-15", n: 0, want: "2025-01-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AddDays(tt.day, tt.n)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("AddDays(%q, %d) = %q, want %q", tt.day, tt.n, got, tt.want)
			}
		})
	}

	if _, err := AddDays("not-a-day", 1); !errors.Is(err, ErrInvalidDateFormat) {
		t.Errorf("expected ErrInvalidDateFormat, got %v", err)
	}
}

func TestParseRelativeDay(t *testing.T) {
	// 2025-01-15 is a Wednesday
	today := "2025-01-15"
	viewing := "2025-01-20"

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "empty", input: "", want: today},
		{name: "today", input: "today", want: today},
		{name: "today uppercase", input: "TODAY", want: today},
		{name: "tomorrow", input: "tomorrow", want: "2025-01-16"},
		{name: "yesterday", input: "yesterday", want: "2025-01-14"},
		{name: "plus offset from viewed day", input: "+1", want: "2025-01-21"},
		{name: "minus offset from viewed day", input: "-3", want: "2025-01-17"},
		{name: "weekday after viewed monday", input: "friday", want: "2025-01-24"},
		{name: "same weekday is a week later", input: "monday", want: "2025-01-27"},
		{name: "absolute", input: "2024-12-31", want: "2024-12-31"},
		{name: "bad offset", input: "+x", wantErr: ErrInvalidOffset},
		{name: "garbage", input: "someday", wantErr: ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRelativeDay(tt.input, viewing, today)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseRelativeDay(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
