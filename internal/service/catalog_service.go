package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/physiocore/clinic-api/internal/domain/doctor"
)

// CatalogService manages the doctor and service records the marketing site
// renders and the booking flow references. Deletes are always soft: existing
// appointments keep pointing at the rows.
type CatalogService struct {
	doctorRepo  doctor.Repository
	serviceRepo doctor.ServiceRepository
	auditSvc    *AuditService
	log         *zap.Logger
}

func NewCatalogService(doctorRepo doctor.Repository, serviceRepo doctor.ServiceRepository, auditSvc *AuditService, log *zap.Logger) *CatalogService {
	return &CatalogService{
		doctorRepo:  doctorRepo,
		serviceRepo: serviceRepo,
		auditSvc:    auditSvc,
		log:         log,
	}
}

func (s *CatalogService) CreateDoctor(ctx context.Context, cmd *doctor.CreateDoctorCommand, caller AuditEntry) (*doctor.Doctor, error) {
	cmd.Normalize()
	if cmd.Name == "" {
		return nil, &ValidationError{Fields: []string{"name is required"}}
	}

	d := &doctor.Doctor{
		Name:            cmd.Name,
		Designation:     cmd.Designation,
		Specialization:  cmd.Specialization,
		ImageURL:        cmd.ImageURL,
		ConsultationFee: cmd.ConsultationFee,
	}

	if err := s.doctorRepo.Create(ctx, d); err != nil {
		s.log.Error("failed to create doctor", zap.Error(err))
		return nil, fmt.Errorf("creating doctor: %w", err)
	}

	caller.Action = "create"
	caller.ResourceType = "doctor"
	caller.ResourceID = d.ID.String()
	s.auditSvc.LogAsync(ctx, caller)

	return d, nil
}

func (s *CatalogService) GetDoctor(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	d, err := s.doctorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !d.IsActive() {
		return nil, doctor.ErrDoctorNotFound
	}
	return d, nil
}

func (s *CatalogService) ListDoctors(ctx context.Context) ([]*doctor.Doctor, error) {
	return s.doctorRepo.List(ctx)
}

func (s *CatalogService) UpdateDoctor(ctx context.Context, id uuid.UUID, cmd *doctor.UpdateDoctorCommand, caller AuditEntry) (*doctor.Doctor, error) {
	if cmd.Name != nil && strings.TrimSpace(*cmd.Name) == "" {
		return nil, &ValidationError{Fields: []string{"name must not be empty"}}
	}

	d, err := s.doctorRepo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	caller.Action = "update"
	caller.ResourceType = "doctor"
	caller.ResourceID = id.String()
	s.auditSvc.LogAsync(ctx, caller)

	return d, nil
}

func (s *CatalogService) DeleteDoctor(ctx context.Context, id uuid.UUID, caller AuditEntry) error {
	if _, err := s.doctorRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.doctorRepo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("deleting doctor: %w", err)
	}

	caller.Action = "delete"
	caller.ResourceType = "doctor"
	caller.ResourceID = id.String()
	s.auditSvc.LogAsync(ctx, caller)
	return nil
}

func (s *CatalogService) CreateService(ctx context.Context, cmd *doctor.CreateServiceCommand, caller AuditEntry) (*doctor.Service, error) {
	var fields []string
	if strings.TrimSpace(cmd.Name) == "" {
		fields = append(fields, "name is required")
	}
	if cmd.DurationMins <= 0 {
		fields = append(fields, "durationMins must be positive")
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	d, err := s.doctorRepo.GetByID(ctx, cmd.DoctorID)
	if err != nil {
		return nil, err
	}
	if !d.IsActive() {
		return nil, doctor.ErrDoctorNotFound
	}

	svc := &doctor.Service{
		DoctorID:     cmd.DoctorID,
		Name:         strings.TrimSpace(cmd.Name),
		Description:  cmd.Description,
		DurationMins: cmd.DurationMins,
		Price:        cmd.Price,
	}

	if err := s.serviceRepo.Create(ctx, svc); err != nil {
		s.log.Error("failed to create service", zap.Error(err))
		return nil, fmt.Errorf("creating service: %w", err)
	}

	caller.Action = "create"
	caller.ResourceType = "service"
	caller.ResourceID = svc.ID.String()
	s.auditSvc.LogAsync(ctx, caller)

	return svc, nil
}

func (s *CatalogService) ListServices(ctx context.Context, doctorID uuid.UUID) ([]*doctor.Service, error) {
	return s.serviceRepo.ListByDoctor(ctx, doctorID)
}

func (s *CatalogService) UpdateService(ctx context.Context, id uuid.UUID, cmd *doctor.UpdateServiceCommand, caller AuditEntry) (*doctor.Service, error) {
	if cmd.DurationMins != nil && *cmd.DurationMins <= 0 {
		return nil, doctor.ErrInvalidDuration
	}

	svc, err := s.serviceRepo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	caller.Action = "update"
	caller.ResourceType = "service"
	caller.ResourceID = id.String()
	s.auditSvc.LogAsync(ctx, caller)

	return svc, nil
}

func (s *CatalogService) DeleteService(ctx context.Context, id uuid.UUID, caller AuditEntry) error {
	if _, err := s.serviceRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.serviceRepo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("deleting service: %w", err)
	}

	caller.Action = "delete"
	caller.ResourceType = "service"
	caller.ResourceID = id.String()
	s.auditSvc.LogAsync(ctx, caller)
	return nil
}
