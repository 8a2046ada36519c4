package schedule

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// WorkingHour is a doctor's recurring availability window for one weekday.
// Weekday is stored as the numeric time.Weekday ordinal; English names exist
// only at the API boundary (see WeekdayName/ParseWeekday).
type WorkingHour struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`

	DoctorID uuid.UUID    `gorm:"column:doctor_id;type:uuid;not null;uniqueIndex:idx_working_hours_doctor_day" json:"doctor_id"`
	Weekday  time.Weekday `gorm:"column:weekday;type:smallint;not null;uniqueIndex:idx_working_hours_doctor_day" json:"-"`

	StartTime   TimeOfDay `gorm:"column:start_time;not null" json:"start_time"`
	EndTime     TimeOfDay `gorm:"column:end_time;not null" json:"end_time"`
	IsAvailable bool      `gorm:"column:is_available;not null;default:true" json:"is_available"`
}

func (WorkingHour) TableName() string {
	return "clinic.working_hours"
}

// Validate enforces the per-entry invariant: an available window must be
// non-empty.
func (w *WorkingHour) Validate() error {
	if w.Weekday < time.Sunday || w.Weekday > time.Saturday {
		return ErrInvalidWeekday
	}
	if w.IsAvailable && !w.StartTime.Before(w.EndTime) {
		return ErrInvalidWindow
	}
	return nil
}

// OffDay is a clinic-wide closure date, independent of any doctor's schedule.
type OffDay struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Date   time.Time `gorm:"column:date;type:date;not null;uniqueIndex" json:"date"`
	Reason string    `gorm:"column:reason;type:varchar(255)" json:"reason"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid" json:"-"`
}

func (OffDay) TableName() string {
	return "clinic.off_days"
}

// WeekEntry is one weekday's window in a full-week replacement command.
type WeekEntry struct {
	Weekday     time.Weekday
	StartTime   TimeOfDay
	EndTime     TimeOfDay
	IsAvailable bool
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday maps an English weekday name (any casing) to its ordinal.
func ParseWeekday(name string) (time.Weekday, error) {
	if d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return d, nil
	}
	return 0, ErrInvalidWeekday
}

// WeekdayName formats the ordinal back to its display name.
func WeekdayName(d time.Weekday) string {
	return d.String()
}

// DateOnly truncates a timestamp to its calendar day in UTC, the canonical
// form for appointment and off-day dates.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
