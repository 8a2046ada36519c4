package schedule

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time expressed as minutes since midnight.
// It serializes as a zero-padded 24-hour "HH:MM:SS" string, which is also
// the wire format the booking API uses for slot values.
type TimeOfDay int

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS"; seconds are discarded
// (slots are minute-aligned).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}

	var hour, minute int
	if _, err := fmt.Sscanf(parts[0]+":"+parts[1], "%02d:%02d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}

	return NewTimeOfDay(hour, minute), nil
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) Add(d time.Duration) TimeOfDay {
	return t + TimeOfDay(d/time.Minute)
}

// Before reports whether t is strictly earlier than other. Slot generation
// depends on the strict comparison: the last slot of the day may start before
// close even when the nominal interval would overrun it.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t < other
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), 0)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value stores the time as a postgres TIME column.
func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String(), nil
}

func (t *TimeOfDay) Scan(src any) error {
	switch v := src.(type) {
	case string:
		parsed, err := ParseTimeOfDay(v)
		if err != nil {
			return err
		}
		*t = parsed
	case []byte:
		return t.Scan(string(v))
	case time.Time:
		*t = NewTimeOfDay(v.Hour(), v.Minute())
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", src)
	}
	return nil
}

// GormDataType tells gorm to create a TIME column for TimeOfDay fields.
func (TimeOfDay) GormDataType() string {
	return "time"
}

// At anchors the time-of-day onto a calendar date.
func (t TimeOfDay) At(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, date.Location())
}
