package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// Week returns all working-hour entries for a doctor, ordered by weekday.
	Week(ctx context.Context, doctorID uuid.UUID) ([]*WorkingHour, error)

	// EntryFor returns the single entry for (doctor, weekday).
	// Returns ErrWorkingHoursNotFound when the doctor has no entry that day —
	// callers treat that as "not working", a normal outcome.
	EntryFor(ctx context.Context, doctorID uuid.UUID, day time.Weekday) (*WorkingHour, error)

	// ReplaceWeek transactionally deletes a doctor's entries and inserts the
	// given set. Working hours are never patched incrementally.
	ReplaceWeek(ctx context.Context, doctorID uuid.UUID, entries []WeekEntry) ([]*WorkingHour, error)
}

type OffDayRepository interface {
	// Create registers a closure date. Returns ErrOffDayExists on duplicates.
	Create(ctx context.Context, od *OffDay) error

	Delete(ctx context.Context, id uuid.UUID) error

	// List returns off days on or after the given date, chronological.
	List(ctx context.Context, from time.Time) ([]*OffDay, error)

	// IsOffDay reports whether the clinic is closed on the given date.
	IsOffDay(ctx context.Context, date time.Time) (bool, error)
}
