package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/physiocore/clinic-api/internal/domain/doctor"
)

type DoctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) *DoctorRepository {
	return &DoctorRepository{db: db}
}

func (r *DoctorRepository) Create(ctx context.Context, d *doctor.Doctor) error {
	return r.db.WithContext(ctx).Create(d).Error
}

// GetByID intentionally returns soft-deleted doctors too: appointment history
// screens still need their display names. Callers check IsActive when they
// require a live record.
func (r *DoctorRepository) GetByID(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	var d doctor.Doctor
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, doctor.ErrDoctorNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DoctorRepository) Update(ctx context.Context, id uuid.UUID, cmd *doctor.UpdateDoctorCommand) (*doctor.Doctor, error) {
	updates := map[string]any{}
	if cmd.Name != nil {
		updates["name"] = *cmd.Name
	}
	if cmd.Designation != nil {
		updates["designation"] = *cmd.Designation
	}
	if cmd.Specialization != nil {
		updates["specialization"] = *cmd.Specialization
	}
	if cmd.ImageURL != nil {
		updates["image_url"] = *cmd.ImageURL
	}
	if cmd.ConsultationFee != nil {
		updates["consultation_fee"] = *cmd.ConsultationFee
	}

	if len(updates) > 0 {
		tx := r.db.WithContext(ctx).
			Model(&doctor.Doctor{}).
			Where("id = ? AND deleted_at IS NULL", id).
			Updates(updates)
		if tx.Error != nil {
			return nil, tx.Error
		}
		if tx.RowsAffected == 0 {
			return nil, doctor.ErrDoctorNotFound
		}
	}

	return r.GetByID(ctx, id)
}

func (r *DoctorRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx).
		Model(&doctor.Doctor{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", time.Now())
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return doctor.ErrDoctorNotFound
	}
	return nil
}

func (r *DoctorRepository) List(ctx context.Context) ([]*doctor.Doctor, error) {
	var doctors []*doctor.Doctor
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Order("name").
		Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) Create(ctx context.Context, s *doctor.Service) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *ServiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*doctor.Service, error) {
	var s doctor.Service
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, doctor.ErrServiceNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *ServiceRepository) Update(ctx context.Context, id uuid.UUID, cmd *doctor.UpdateServiceCommand) (*doctor.Service, error) {
	updates := map[string]any{}
	if cmd.Name != nil {
		updates["name"] = *cmd.Name
	}
	if cmd.Description != nil {
		updates["description"] = *cmd.Description
	}
	if cmd.DurationMins != nil {
		updates["duration_mins"] = *cmd.DurationMins
	}
	if cmd.Price != nil {
		updates["price"] = *cmd.Price
	}

	if len(updates) > 0 {
		tx := r.db.WithContext(ctx).
			Model(&doctor.Service{}).
			Where("id = ? AND deleted_at IS NULL", id).
			Updates(updates)
		if tx.Error != nil {
			return nil, tx.Error
		}
		if tx.RowsAffected == 0 {
			return nil, doctor.ErrServiceNotFound
		}
	}

	return r.GetByID(ctx, id)
}

func (r *ServiceRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx).
		Model(&doctor.Service{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", time.Now())
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return doctor.ErrServiceNotFound
	}
	return nil
}

func (r *ServiceRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*doctor.Service, error) {
	var services []*doctor.Service
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND deleted_at IS NULL", doctorID).
		Order("name").
		Find(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}
