package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/physiocore/clinic-api/internal/domain/appointment"
	"github.com/physiocore/clinic-api/internal/domain/schedule"
	"github.com/physiocore/clinic-api/pkg/metrics"
)

// AvailabilityService derives the bookable slots for a doctor on a date:
// fixed-interval starts within that weekday's working hours, minus the times
// already held by non-cancelled appointments, minus clinic-wide off days.
type AvailabilityService struct {
	schedRepo  schedule.Repository
	offDayRepo schedule.OffDayRepository
	apptRepo   appointment.Repository
	interval   time.Duration
	collector  *metrics.Collector
	log        *zap.Logger
}

func NewAvailabilityService(
	schedRepo schedule.Repository,
	offDayRepo schedule.OffDayRepository,
	apptRepo appointment.Repository,
	interval time.Duration,
	collector *metrics.Collector,
	log *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		schedRepo:  schedRepo,
		offDayRepo: offDayRepo,
		apptRepo:   apptRepo,
		interval:   interval,
		collector:  collector,
		log:        log,
	}
}

// AvailableSlots returns the ordered free slot start times for (doctor, date).
// An unknown doctor, a weekday without working hours, or an off day all yield
// an empty list — none of these are errors. Past dates are not rejected here.
func (s *AvailabilityService) AvailableSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]schedule.TimeOfDay, error) {
	if s.collector != nil {
		s.collector.SlotQueriesTotal.Inc()
	}

	day := schedule.DateOnly(date)

	closed, err := s.offDayRepo.IsOffDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("checking off day: %w", err)
	}
	if closed {
		return []schedule.TimeOfDay{}, nil
	}

	entry, err := s.schedRepo.EntryFor(ctx, doctorID, day.Weekday())
	if err != nil {
		if errors.Is(err, schedule.ErrWorkingHoursNotFound) {
			return []schedule.TimeOfDay{}, nil
		}
		return nil, fmt.Errorf("loading working hours: %w", err)
	}
	if !entry.IsAvailable {
		return []schedule.TimeOfDay{}, nil
	}

	booked, err := s.apptRepo.ListByDoctorDate(ctx, doctorID, day)
	if err != nil {
		return nil, fmt.Errorf("loading booked slots: %w", err)
	}

	taken := make(map[schedule.TimeOfDay]struct{}, len(booked))
	for _, a := range booked {
		taken[a.Time] = struct{}{}
	}

	// The strict comparison matters: the last slot may start before close even
	// when the full interval would overrun it.
	slots := make([]schedule.TimeOfDay, 0, 8)
	for t := entry.StartTime; t.Before(entry.EndTime); t = t.Add(s.interval) {
		if _, ok := taken[t]; ok {
			continue
		}
		slots = append(slots, t)
	}

	return slots, nil
}
