package schedule

import (
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "09:00", want: NewTimeOfDay(9, 0)},
		{in: "09:00:00", want: NewTimeOfDay(9, 0)},
		{in: "23:59", want: NewTimeOfDay(23, 59)},
		{in: "00:00", want: NewTimeOfDay(0, 0)},
		{in: " 10:30 ", want: NewTimeOfDay(10, 30)},
		{in: "24:00", wantErr: true},
		{in: "09:60", wantErr: true},
		{in: "9", wantErr: true},
		{in: "", wantErr: true},
		{in: "morning", wantErr: true},
	}

	for _, tc := range cases {
		got, err := ParseTimeOfDay(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseTimeOfDay(%q): expected error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTimeOfDay(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestTimeOfDayString(t *testing.T) {
	if got := NewTimeOfDay(9, 5).String(); got != "09:05:00" {
		t.Errorf("String() = %q, want 09:05:00", got)
	}
	if got := NewTimeOfDay(0, 0).String(); got != "00:00:00" {
		t.Errorf("String() = %q, want 00:00:00", got)
	}
}

func TestTimeOfDayArithmetic(t *testing.T) {
	start := NewTimeOfDay(9, 0)

	if !start.Before(NewTimeOfDay(9, 1)) {
		t.Error("09:00 should be before 09:01")
	}
	if start.Before(start) {
		t.Error("Before must be strict")
	}
	if got := start.Add(90 * time.Minute); got != NewTimeOfDay(10, 30) {
		t.Errorf("09:00 + 90m = %v, want 10:30", got)
	}
}

func TestTimeOfDayAt(t *testing.T) {
	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	got := NewTimeOfDay(14, 30).At(day)
	want := time.Date(2026, 9, 7, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("At() = %v, want %v", got, want)
	}
}

func TestTimeOfDayScan(t *testing.T) {
	var tod TimeOfDay
	if err := tod.Scan("10:00:00"); err != nil {
		t.Fatalf("Scan(string): %v", err)
	}
	if tod != NewTimeOfDay(10, 0) {
		t.Errorf("Scan(string) = %v, want 10:00", tod)
	}

	if err := tod.Scan(time.Date(1, 1, 1, 15, 45, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Scan(time.Time): %v", err)
	}
	if tod != NewTimeOfDay(15, 45) {
		t.Errorf("Scan(time.Time) = %v, want 15:45", tod)
	}
}

func TestParseWeekday(t *testing.T) {
	cases := map[string]time.Weekday{
		"monday":    time.Monday,
		"Monday":    time.Monday,
		"SATURDAY":  time.Saturday,
		" sunday ":  time.Sunday,
		"wednesday": time.Wednesday,
	}
	for in, want := range cases {
		got, err := ParseWeekday(in)
		if err != nil {
			t.Errorf("ParseWeekday(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseWeekday(%q) = %v, want %v", in, got, want)
		}
	}

	for _, in := range []string{"mon", "", "someday"} {
		if _, err := ParseWeekday(in); err == nil {
			t.Errorf("ParseWeekday(%q): expected error", in)
		}
	}
}

func TestWorkingHourValidate(t *testing.T) {
	ok := WorkingHour{Weekday: time.Monday, StartTime: NewTimeOfDay(9, 0), EndTime: NewTimeOfDay(17, 0), IsAvailable: true}
	if err := ok.Validate(); err != nil {
		t.Errorf("valid entry rejected: %v", err)
	}

	inverted := WorkingHour{Weekday: time.Monday, StartTime: NewTimeOfDay(17, 0), EndTime: NewTimeOfDay(9, 0), IsAvailable: true}
	if err := inverted.Validate(); err != ErrInvalidWindow {
		t.Errorf("inverted window: got %v, want ErrInvalidWindow", err)
	}

	// Closed days carry no window at all.
	closed := WorkingHour{Weekday: time.Tuesday, IsAvailable: false}
	if err := closed.Validate(); err != nil {
		t.Errorf("closed day rejected: %v", err)
	}
}
