package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/physiocore/clinic-api/internal/domain/schedule"
)

// Status lifecycle:
//
//	starts at pending on creation; staff may set any of the four values from
//	any other (deliberate admin override — there is no transition graph, only
//	membership in this fixed set).
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Appointment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"-"`

	DoctorID  uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;index" json:"doctor_id"`
	ServiceID uuid.UUID `gorm:"column:service_id;type:uuid;not null" json:"service_id"`

	PatientName   string `gorm:"column:patient_name;type:varchar(150);not null" json:"patient_name"`
	PatientEmail  string `gorm:"column:patient_email;type:varchar(255);not null" json:"patient_email"`
	PatientPhone  string `gorm:"column:patient_phone;type:varchar(30);not null" json:"patient_phone"`
	PatientAge    *int   `gorm:"column:patient_age" json:"patient_age,omitempty"`
	PatientGender string `gorm:"column:patient_gender;type:varchar(20)" json:"patient_gender,omitempty"`

	// Uniqueness of (doctor_id, date, time) over non-cancelled rows is
	// enforced by a partial unique index created in pkg/database.
	Date time.Time          `gorm:"column:appointment_date;type:date;not null;index" json:"appointment_date"`
	Time schedule.TimeOfDay `gorm:"column:appointment_time;not null" json:"appointment_time"`

	Status Status `gorm:"column:status;type:varchar(20);not null;default:'pending';index" json:"status"`
	Notes  string `gorm:"column:notes;type:text" json:"notes,omitempty"`
}

func (Appointment) TableName() string {
	return "clinic.appointments"
}

// StartsAt anchors the appointment on the timeline.
func (a *Appointment) StartsAt() time.Time {
	return a.Time.At(a.Date)
}

// Occupies reports whether the appointment still holds its slot.
func (a *Appointment) Occupies() bool {
	return a.Status != StatusCancelled && a.DeletedAt == nil
}

type CreateAppointmentCommand struct {
	DoctorID      uuid.UUID
	ServiceID     uuid.UUID
	PatientName   string
	PatientEmail  string
	PatientPhone  string
	PatientAge    *int
	PatientGender string
	Date          time.Time
	Time          schedule.TimeOfDay
	Notes         string
}

type RescheduleCommand struct {
	Date time.Time
	Time schedule.TimeOfDay
}

type ListAppointmentsQuery struct {
	DoctorID *uuid.UUID
	Status   *Status
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	PageSize int
}

type PagedAppointments struct {
	Appointments []*Appointment
	TotalCount   int64
	Page         int
	PageSize     int
	TotalPages   int
}
