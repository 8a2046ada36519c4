package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/physiocore/clinic-api/internal/domain/appointment"
	"github.com/physiocore/clinic-api/internal/domain/doctor"
	"github.com/physiocore/clinic-api/internal/domain/schedule"
	"github.com/physiocore/clinic-api/pkg/metrics"
)

type BookingService struct {
	apptRepo    appointment.Repository
	doctorRepo  doctor.Repository
	serviceRepo doctor.ServiceRepository
	offDayRepo  schedule.OffDayRepository
	notifier    *NotificationService
	auditSvc    *AuditService
	collector   *metrics.Collector
	log         *zap.Logger
}

func NewBookingService(
	apptRepo appointment.Repository,
	doctorRepo doctor.Repository,
	serviceRepo doctor.ServiceRepository,
	offDayRepo schedule.OffDayRepository,
	notifier *NotificationService,
	auditSvc *AuditService,
	collector *metrics.Collector,
	log *zap.Logger,
) *BookingService {
	return &BookingService{
		apptRepo:    apptRepo,
		doctorRepo:  doctorRepo,
		serviceRepo: serviceRepo,
		offDayRepo:  offDayRepo,
		notifier:    notifier,
		auditSvc:    auditSvc,
		collector:   collector,
		log:         log,
	}
}

// Book persists a new pending appointment if its slot is free. There is no
// read-side pre-check: the insert either lands or trips the partial unique
// index, which the repository reports as ErrSlotTaken. Confirmation mail to
// the patient and an alert to the staff inbox are dispatched fire-and-forget;
// booking success is determined solely by successful persistence.
func (s *BookingService) Book(ctx context.Context, cmd *appointment.CreateAppointmentCommand) (*appointment.Appointment, error) {
	if err := validateBooking(cmd); err != nil {
		return nil, err
	}

	day := schedule.DateOnly(cmd.Date)
	if cmd.Time.At(day).Before(time.Now()) {
		return nil, appointment.ErrScheduledInPast
	}

	closed, err := s.offDayRepo.IsOffDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("checking off day: %w", err)
	}
	if closed {
		return nil, schedule.ErrClinicClosed
	}

	d, err := s.doctorRepo.GetByID(ctx, cmd.DoctorID)
	if err != nil {
		return nil, err
	}
	if !d.IsActive() {
		return nil, doctor.ErrDoctorNotFound
	}

	svc, err := s.serviceRepo.GetByID(ctx, cmd.ServiceID)
	if err != nil {
		return nil, err
	}
	if svc.DoctorID != d.ID {
		return nil, doctor.ErrServiceMismatch
	}

	a := &appointment.Appointment{
		DoctorID:      cmd.DoctorID,
		ServiceID:     cmd.ServiceID,
		PatientName:   strings.TrimSpace(cmd.PatientName),
		PatientEmail:  strings.ToLower(strings.TrimSpace(cmd.PatientEmail)),
		PatientPhone:  strings.TrimSpace(cmd.PatientPhone),
		PatientAge:    cmd.PatientAge,
		PatientGender: cmd.PatientGender,
		Date:          day,
		Time:          cmd.Time,
		Status:        appointment.StatusPending,
		Notes:         cmd.Notes,
	}

	if err := s.apptRepo.Create(ctx, a); err != nil {
		if errors.Is(err, appointment.ErrSlotTaken) && s.collector != nil {
			s.collector.BookingConflicts.Inc()
		}
		return nil, err
	}

	if s.collector != nil {
		s.collector.BookingsTotal.WithLabelValues("created").Inc()
	}

	s.notifier.BookingCreated(a, d.Name, svc.Name)

	s.log.Info("appointment booked",
		zap.String("appointment_id", a.ID.String()),
		zap.String("doctor_id", a.DoctorID.String()),
		zap.String("date", day.Format("2006-01-02")),
		zap.String("time", a.Time.String()),
	)

	return a, nil
}

// UpdateStatus sets the appointment to any member of the four-value status
// set; no transition graph is enforced. Moving a cancelled appointment back
// to an active status reclaims its slot, so it fails with ErrSlotTaken when
// the slot was re-booked in the meantime.
func (s *BookingService) UpdateStatus(ctx context.Context, id uuid.UUID, status appointment.Status, caller AuditEntry) (*appointment.Appointment, error) {
	if !status.IsValid() {
		return nil, appointment.ErrInvalidStatus
	}

	a, err := s.apptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := a.Status
	a.Status = status
	if err := s.apptRepo.UpdateStatus(ctx, a); err != nil {
		if errors.Is(err, appointment.ErrSlotTaken) {
			if s.collector != nil {
				s.collector.BookingConflicts.Inc()
			}
			return nil, err
		}
		return nil, fmt.Errorf("updating appointment status: %w", err)
	}

	if s.collector != nil {
		s.collector.StatusChangesTotal.WithLabelValues(string(status)).Inc()
	}

	s.notifier.StatusChanged(a, previous)

	caller.Action = "update"
	caller.ResourceType = "appointment"
	caller.ResourceID = id.String()
	caller.Changes = fmt.Sprintf(`{"status":{"from":%q,"to":%q}}`, previous, status)
	s.auditSvc.LogAsync(ctx, caller)

	return a, nil
}

// Reschedule moves an appointment to a new (date, time) under the same
// conflict semantics as booking, excluding the row being moved. On conflict
// the original appointment is left unchanged.
func (s *BookingService) Reschedule(ctx context.Context, id uuid.UUID, cmd *appointment.RescheduleCommand, caller AuditEntry) (*appointment.Appointment, error) {
	day := schedule.DateOnly(cmd.Date)

	closed, err := s.offDayRepo.IsOffDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("checking off day: %w", err)
	}
	if closed {
		return nil, schedule.ErrClinicClosed
	}

	before, err := s.apptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldDate, oldTime := before.Date, before.Time

	moved, err := s.apptRepo.Reschedule(ctx, id, &appointment.RescheduleCommand{Date: day, Time: cmd.Time})
	if err != nil {
		if errors.Is(err, appointment.ErrSlotTaken) && s.collector != nil {
			s.collector.BookingConflicts.Inc()
		}
		return nil, err
	}

	if s.collector != nil {
		s.collector.ReschedulesTotal.Inc()
	}

	s.notifier.Rescheduled(moved, oldDate, oldTime)

	caller.Action = "update"
	caller.ResourceType = "appointment"
	caller.ResourceID = id.String()
	caller.Changes = fmt.Sprintf(`{"moved":{"from":"%s %s","to":"%s %s"}}`,
		oldDate.Format("2006-01-02"), oldTime, day.Format("2006-01-02"), moved.Time)
	s.auditSvc.LogAsync(ctx, caller)

	return moved, nil
}

func (s *BookingService) Get(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	return s.apptRepo.GetByID(ctx, id)
}

func (s *BookingService) List(ctx context.Context, q *appointment.ListAppointmentsQuery) (*appointment.PagedAppointments, error) {
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.apptRepo.List(ctx, q)
}

// Delete soft-deletes an appointment, releasing its slot.
func (s *BookingService) Delete(ctx context.Context, id uuid.UUID, caller AuditEntry) error {
	if _, err := s.apptRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.apptRepo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("deleting appointment: %w", err)
	}

	caller.Action = "delete"
	caller.ResourceType = "appointment"
	caller.ResourceID = id.String()
	s.auditSvc.LogAsync(ctx, caller)
	return nil
}

func validateBooking(cmd *appointment.CreateAppointmentCommand) error {
	var missing []string
	if cmd.DoctorID == uuid.Nil {
		missing = append(missing, "doctorId is required")
	}
	if cmd.ServiceID == uuid.Nil {
		missing = append(missing, "serviceId is required")
	}
	if strings.TrimSpace(cmd.PatientName) == "" {
		missing = append(missing, "patientName is required")
	}
	if strings.TrimSpace(cmd.PatientEmail) == "" {
		missing = append(missing, "patientEmail is required")
	}
	if strings.TrimSpace(cmd.PatientPhone) == "" {
		missing = append(missing, "patientPhone is required")
	}
	if cmd.Date.IsZero() {
		missing = append(missing, "appointmentDate is required")
	}

	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}
