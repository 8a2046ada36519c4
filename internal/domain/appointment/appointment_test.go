package appointment

import (
	"testing"
	"time"

	"github.com/physiocore/clinic-api/internal/domain/schedule"
)

func TestStatusIsValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled} {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	for _, s := range []Status{"", "archived", "PENDING", "done"} {
		if s.IsValid() {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestOccupies(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name string
		a    Appointment
		want bool
	}{
		{"pending holds its slot", Appointment{Status: StatusPending}, true},
		{"confirmed holds its slot", Appointment{Status: StatusConfirmed}, true},
		{"completed holds its slot", Appointment{Status: StatusCompleted}, true},
		{"cancelled releases it", Appointment{Status: StatusCancelled}, false},
		{"deleted releases it", Appointment{Status: StatusConfirmed, DeletedAt: &now}, false},
	}
	for _, tc := range cases {
		if got := tc.a.Occupies(); got != tc.want {
			t.Errorf("%s: Occupies() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestStartsAt(t *testing.T) {
	a := Appointment{
		Date: time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		Time: schedule.NewTimeOfDay(10, 30),
	}
	want := time.Date(2026, 9, 7, 10, 30, 0, 0, time.UTC)
	if got := a.StartsAt(); !got.Equal(want) {
		t.Errorf("StartsAt() = %v, want %v", got, want)
	}
}
