package doctor

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Doctor struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"-"` // Soft delete: rows are retained for appointment history

	Name           string  `gorm:"column:name;type:varchar(150);not null" json:"name"`
	Designation    string  `gorm:"column:designation;type:varchar(150)" json:"designation"`
	Specialization string  `gorm:"column:specialization;type:varchar(150);index" json:"specialization"`
	ImageURL       string  `gorm:"column:image_url;type:text" json:"image_url"`
	ConsultationFee float64 `gorm:"column:consultation_fee;type:numeric(10,2)" json:"consultation_fee"`
}

func (Doctor) TableName() string {
	return "clinic.doctors"
}

func (d *Doctor) IsActive() bool {
	return d.DeletedAt == nil
}

// Service is a treatment a doctor offers (e.g. "Sports Injury Rehab").
// Belongs to exactly one doctor.
type Service struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"-"`

	DoctorID uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;index" json:"doctor_id"`

	Name         string  `gorm:"column:name;type:varchar(150);not null" json:"name"`
	Description  string  `gorm:"column:description;type:text" json:"description"`
	DurationMins int     `gorm:"column:duration_mins;not null;default:60" json:"duration_mins"`
	Price        float64 `gorm:"column:price;type:numeric(10,2)" json:"price"`
}

func (Service) TableName() string {
	return "clinic.doctor_services"
}

func (s *Service) IsActive() bool {
	return s.DeletedAt == nil
}

type CreateDoctorCommand struct {
	Name            string
	Designation     string
	Specialization  string
	ImageURL        string
	ConsultationFee float64
}

func (cmd *CreateDoctorCommand) Normalize() {
	cmd.Name = strings.TrimSpace(cmd.Name)
	cmd.Designation = strings.TrimSpace(cmd.Designation)
	cmd.Specialization = strings.TrimSpace(cmd.Specialization)
}

type UpdateDoctorCommand struct {
	Name            *string
	Designation     *string
	Specialization  *string
	ImageURL        *string
	ConsultationFee *float64
}

type CreateServiceCommand struct {
	DoctorID     uuid.UUID
	Name         string
	Description  string
	DurationMins int
	Price        float64
}

type UpdateServiceCommand struct {
	Name         *string
	Description  *string
	DurationMins *int
	Price        *float64
}
