package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/physiocore/clinic-api/internal/domain/doctor"
	"github.com/physiocore/clinic-api/internal/domain/schedule"
)

// ScheduleService manages working hours and clinic off days. A doctor's week
// is always replaced wholesale, never patched entry by entry.
type ScheduleService struct {
	schedRepo  schedule.Repository
	offDayRepo schedule.OffDayRepository
	doctorRepo doctor.Repository
	auditSvc   *AuditService
	log        *zap.Logger
}

func NewScheduleService(
	schedRepo schedule.Repository,
	offDayRepo schedule.OffDayRepository,
	doctorRepo doctor.Repository,
	auditSvc *AuditService,
	log *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		schedRepo:  schedRepo,
		offDayRepo: offDayRepo,
		doctorRepo: doctorRepo,
		auditSvc:   auditSvc,
		log:        log,
	}
}

func (s *ScheduleService) Week(ctx context.Context, doctorID uuid.UUID) ([]*schedule.WorkingHour, error) {
	if _, err := s.doctorRepo.GetByID(ctx, doctorID); err != nil {
		return nil, err
	}
	return s.schedRepo.Week(ctx, doctorID)
}

// ReplaceWeek validates the incoming entries (at most one per weekday,
// non-empty window when available) and swaps the doctor's schedule in one
// transaction.
func (s *ScheduleService) ReplaceWeek(ctx context.Context, doctorID uuid.UUID, entries []schedule.WeekEntry, caller AuditEntry) ([]*schedule.WorkingHour, error) {
	d, err := s.doctorRepo.GetByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !d.IsActive() {
		return nil, doctor.ErrDoctorNotFound
	}

	seen := make(map[time.Weekday]struct{}, len(entries))
	for _, e := range entries {
		wh := schedule.WorkingHour{
			Weekday:     e.Weekday,
			StartTime:   e.StartTime,
			EndTime:     e.EndTime,
			IsAvailable: e.IsAvailable,
		}
		if err := wh.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[e.Weekday]; dup {
			return nil, schedule.ErrDuplicateWeekday
		}
		seen[e.Weekday] = struct{}{}
	}

	week, err := s.schedRepo.ReplaceWeek(ctx, doctorID, entries)
	if err != nil {
		return nil, fmt.Errorf("replacing working hours: %w", err)
	}

	caller.Action = "update"
	caller.ResourceType = "working_hours"
	caller.ResourceID = doctorID.String()
	s.auditSvc.LogAsync(ctx, caller)

	s.log.Info("working hours replaced",
		zap.String("doctor_id", doctorID.String()),
		zap.Int("entries", len(entries)),
	)

	return week, nil
}

func (s *ScheduleService) ListOffDays(ctx context.Context, from time.Time) ([]*schedule.OffDay, error) {
	return s.offDayRepo.List(ctx, schedule.DateOnly(from))
}

func (s *ScheduleService) AddOffDay(ctx context.Context, date time.Time, reason string, caller AuditEntry) (*schedule.OffDay, error) {
	od := &schedule.OffDay{
		Date:      schedule.DateOnly(date),
		Reason:    reason,
		CreatedBy: caller.UserID,
	}

	if err := s.offDayRepo.Create(ctx, od); err != nil {
		return nil, err
	}

	caller.Action = "create"
	caller.ResourceType = "off_day"
	caller.ResourceID = od.ID.String()
	s.auditSvc.LogAsync(ctx, caller)

	return od, nil
}

func (s *ScheduleService) RemoveOffDay(ctx context.Context, id uuid.UUID, caller AuditEntry) error {
	if err := s.offDayRepo.Delete(ctx, id); err != nil {
		return err
	}

	caller.Action = "delete"
	caller.ResourceType = "off_day"
	caller.ResourceID = id.String()
	s.auditSvc.LogAsync(ctx, caller)
	return nil
}
