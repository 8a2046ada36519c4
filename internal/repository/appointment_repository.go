package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/physiocore/clinic-api/internal/domain/appointment"
)

// AppointmentRepository is the GORM implementation of appointment.Repository.
// Slot uniqueness is delegated entirely to the partial unique index created
// in pkg/database; this layer only translates the resulting duplicate-key
// errors into appointment.ErrSlotTaken.
type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return appointment.ErrSlotTaken
		}
		return err
	}
	return nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	var a appointment.Appointment
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appointment.ErrAppointmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, a *appointment.Appointment) error {
	// Un-cancelling re-enters the scope of the unique index, so a duplicate
	// here means the slot was re-booked after the cancellation.
	tx := r.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Where("id = ? AND deleted_at IS NULL", a.ID).
		Update("status", a.Status)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrDuplicatedKey) {
			return appointment.ErrSlotTaken
		}
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return appointment.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepository) Reschedule(ctx context.Context, id uuid.UUID, cmd *appointment.RescheduleCommand) (*appointment.Appointment, error) {
	// A conflicting target slot trips the unique index and the UPDATE rolls
	// back as a whole, leaving the original row untouched.
	tx := r.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]any{
			"appointment_date": cmd.Date,
			"appointment_time": cmd.Time,
		})
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrDuplicatedKey) {
			return nil, appointment.ErrSlotTaken
		}
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, appointment.ErrAppointmentNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *AppointmentRepository) ListByDoctorDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*appointment.Appointment, error) {
	var appts []*appointment.Appointment
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND appointment_date = ? AND status <> ? AND deleted_at IS NULL",
			doctorID, date, appointment.StatusCancelled).
		Order("appointment_time").
		Find(&appts).Error
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *AppointmentRepository) List(ctx context.Context, q *appointment.ListAppointmentsQuery) (*appointment.PagedAppointments, error) {
	query := r.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Where("deleted_at IS NULL")

	if q.DoctorID != nil {
		query = query.Where("doctor_id = ?", *q.DoctorID)
	}
	if q.Status != nil {
		query = query.Where("status = ?", *q.Status)
	}
	if q.DateFrom != nil {
		query = query.Where("appointment_date >= ?", *q.DateFrom)
	}
	if q.DateTo != nil {
		query = query.Where("appointment_date <= ?", *q.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var appts []*appointment.Appointment
	err := query.
		Order("appointment_date DESC, appointment_time").
		Limit(q.PageSize).
		Offset((q.Page - 1) * q.PageSize).
		Find(&appts).Error
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(q.PageSize) - 1) / int64(q.PageSize))
	return &appointment.PagedAppointments{
		Appointments: appts,
		TotalCount:   total,
		Page:         q.Page,
		PageSize:     q.PageSize,
		TotalPages:   totalPages,
	}, nil
}

func (r *AppointmentRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", time.Now())
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return appointment.ErrAppointmentNotFound
	}
	return nil
}
