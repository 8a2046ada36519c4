package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// Create inserts the appointment. The partial unique index over
	// (doctor_id, appointment_date, appointment_time) for non-cancelled rows
	// is the sole source of truth for "slot taken": a duplicate-key violation
	// surfaces as ErrSlotTaken. There is no separate pre-check to race with.
	Create(ctx context.Context, a *Appointment) error

	// GetByID returns ErrAppointmentNotFound if no row exists.
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// UpdateStatus persists a status change.
	UpdateStatus(ctx context.Context, a *Appointment) error

	// Reschedule moves the appointment to a new (date, time). The same index
	// guards the update; on conflict the row is left unchanged and
	// ErrSlotTaken is returned.
	Reschedule(ctx context.Context, id uuid.UUID, cmd *RescheduleCommand) (*Appointment, error)

	// ListByDoctorDate returns the non-cancelled appointments holding slots
	// for (doctor, date), ordered by time. Feeds the slot calculator.
	ListByDoctorDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*Appointment, error)

	List(ctx context.Context, q *ListAppointmentsQuery) (*PagedAppointments, error)

	// SoftDelete removes the appointment from every query, including the
	// uniqueness scope, so its slot becomes bookable again.
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
