package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/physiocore/clinic-api/internal/domain"
	"github.com/physiocore/clinic-api/internal/domain/appointment"
	"github.com/physiocore/clinic-api/internal/domain/doctor"
	"github.com/physiocore/clinic-api/internal/domain/schedule"
	"github.com/physiocore/clinic-api/pkg/mailer"
)

// fakeAppointmentRepo enforces the same slot-uniqueness rule the partial
// index provides in postgres, under a mutex so concurrent booking tests
// exercise the single-winner guarantee.
type fakeAppointmentRepo struct {
	mu    sync.Mutex
	rows  map[uuid.UUID]*appointment.Appointment
	order []uuid.UUID
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{rows: make(map[uuid.UUID]*appointment.Appointment)}
}

func (r *fakeAppointmentRepo) slotTakenLocked(doctorID uuid.UUID, date time.Time, t schedule.TimeOfDay, exclude uuid.UUID) bool {
	for _, a := range r.rows {
		if a.ID == exclude {
			continue
		}
		if a.DoctorID == doctorID && a.Date.Equal(date) && a.Time == t && a.Occupies() {
			return true
		}
	}
	return false
}

func (r *fakeAppointmentRepo) Create(_ context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.slotTakenLocked(a.DoctorID, a.Date, a.Time, uuid.Nil) {
		return appointment.ErrSlotTaken
	}
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	cp := *a
	r.rows[a.ID] = &cp
	r.order = append(r.order, a.ID)
	return nil
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok || a.DeletedAt != nil {
		return nil, appointment.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAppointmentRepo) UpdateStatus(_ context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.rows[a.ID]
	if !ok || stored.DeletedAt != nil {
		return appointment.ErrAppointmentNotFound
	}
	if a.Status != appointment.StatusCancelled && r.slotTakenLocked(stored.DoctorID, stored.Date, stored.Time, a.ID) {
		return appointment.ErrSlotTaken
	}
	stored.Status = a.Status
	return nil
}

func (r *fakeAppointmentRepo) Reschedule(_ context.Context, id uuid.UUID, cmd *appointment.RescheduleCommand) (*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.rows[id]
	if !ok || stored.DeletedAt != nil {
		return nil, appointment.ErrAppointmentNotFound
	}
	if r.slotTakenLocked(stored.DoctorID, cmd.Date, cmd.Time, id) {
		return nil, appointment.ErrSlotTaken
	}
	stored.Date = cmd.Date
	stored.Time = cmd.Time
	cp := *stored
	return &cp, nil
}

func (r *fakeAppointmentRepo) ListByDoctorDate(_ context.Context, doctorID uuid.UUID, date time.Time) ([]*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*appointment.Appointment
	for _, id := range r.order {
		a := r.rows[id]
		if a.DoctorID == doctorID && a.Date.Equal(date) && a.Occupies() {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) List(_ context.Context, q *appointment.ListAppointmentsQuery) (*appointment.PagedAppointments, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*appointment.Appointment
	for _, id := range r.order {
		a := r.rows[id]
		if a.DeletedAt != nil {
			continue
		}
		if q.DoctorID != nil && a.DoctorID != *q.DoctorID {
			continue
		}
		if q.Status != nil && a.Status != *q.Status {
			continue
		}
		cp := *a
		matched = append(matched, &cp)
	}
	return &appointment.PagedAppointments{
		Appointments: matched,
		TotalCount:   int64(len(matched)),
		Page:         q.Page,
		PageSize:     q.PageSize,
	}, nil
}

func (r *fakeAppointmentRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok || a.DeletedAt != nil {
		return appointment.ErrAppointmentNotFound
	}
	now := time.Now()
	a.DeletedAt = &now
	return nil
}

type fakeDoctorRepo struct {
	doctors map[uuid.UUID]*doctor.Doctor
}

func newFakeDoctorRepo(docs ...*doctor.Doctor) *fakeDoctorRepo {
	r := &fakeDoctorRepo{doctors: make(map[uuid.UUID]*doctor.Doctor)}
	for _, d := range docs {
		r.doctors[d.ID] = d
	}
	return r
}

func (r *fakeDoctorRepo) Create(_ context.Context, d *doctor.Doctor) error {
	d.ID = uuid.New()
	r.doctors[d.ID] = d
	return nil
}

func (r *fakeDoctorRepo) GetByID(_ context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	if d, ok := r.doctors[id]; ok {
		return d, nil
	}
	return nil, doctor.ErrDoctorNotFound
}

func (r *fakeDoctorRepo) Update(_ context.Context, id uuid.UUID, cmd *doctor.UpdateDoctorCommand) (*doctor.Doctor, error) {
	d, ok := r.doctors[id]
	if !ok || d.DeletedAt != nil {
		return nil, doctor.ErrDoctorNotFound
	}
	if cmd.Name != nil {
		d.Name = *cmd.Name
	}
	return d, nil
}

func (r *fakeDoctorRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	d, ok := r.doctors[id]
	if !ok || d.DeletedAt != nil {
		return doctor.ErrDoctorNotFound
	}
	now := time.Now()
	d.DeletedAt = &now
	return nil
}

func (r *fakeDoctorRepo) List(_ context.Context) ([]*doctor.Doctor, error) {
	var out []*doctor.Doctor
	for _, d := range r.doctors {
		if d.DeletedAt == nil {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeServiceRepo struct {
	services map[uuid.UUID]*doctor.Service
}

func newFakeServiceRepo(svcs ...*doctor.Service) *fakeServiceRepo {
	r := &fakeServiceRepo{services: make(map[uuid.UUID]*doctor.Service)}
	for _, s := range svcs {
		r.services[s.ID] = s
	}
	return r
}

func (r *fakeServiceRepo) Create(_ context.Context, s *doctor.Service) error {
	s.ID = uuid.New()
	r.services[s.ID] = s
	return nil
}

func (r *fakeServiceRepo) GetByID(_ context.Context, id uuid.UUID) (*doctor.Service, error) {
	if s, ok := r.services[id]; ok && s.DeletedAt == nil {
		return s, nil
	}
	return nil, doctor.ErrServiceNotFound
}

func (r *fakeServiceRepo) Update(_ context.Context, id uuid.UUID, cmd *doctor.UpdateServiceCommand) (*doctor.Service, error) {
	s, ok := r.services[id]
	if !ok || s.DeletedAt != nil {
		return nil, doctor.ErrServiceNotFound
	}
	if cmd.Name != nil {
		s.Name = *cmd.Name
	}
	return s, nil
}

func (r *fakeServiceRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	s, ok := r.services[id]
	if !ok || s.DeletedAt != nil {
		return doctor.ErrServiceNotFound
	}
	now := time.Now()
	s.DeletedAt = &now
	return nil
}

func (r *fakeServiceRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID) ([]*doctor.Service, error) {
	var out []*doctor.Service
	for _, s := range r.services {
		if s.DoctorID == doctorID && s.DeletedAt == nil {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeScheduleRepo struct {
	entries map[uuid.UUID]map[time.Weekday]*schedule.WorkingHour
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{entries: make(map[uuid.UUID]map[time.Weekday]*schedule.WorkingHour)}
}

func (r *fakeScheduleRepo) set(doctorID uuid.UUID, wh *schedule.WorkingHour) {
	if r.entries[doctorID] == nil {
		r.entries[doctorID] = make(map[time.Weekday]*schedule.WorkingHour)
	}
	r.entries[doctorID][wh.Weekday] = wh
}

func (r *fakeScheduleRepo) Week(_ context.Context, doctorID uuid.UUID) ([]*schedule.WorkingHour, error) {
	var out []*schedule.WorkingHour
	for day := time.Sunday; day <= time.Saturday; day++ {
		if wh, ok := r.entries[doctorID][day]; ok {
			out = append(out, wh)
		}
	}
	return out, nil
}

func (r *fakeScheduleRepo) EntryFor(_ context.Context, doctorID uuid.UUID, day time.Weekday) (*schedule.WorkingHour, error) {
	if wh, ok := r.entries[doctorID][day]; ok {
		return wh, nil
	}
	return nil, schedule.ErrWorkingHoursNotFound
}

func (r *fakeScheduleRepo) ReplaceWeek(_ context.Context, doctorID uuid.UUID, entries []schedule.WeekEntry) ([]*schedule.WorkingHour, error) {
	r.entries[doctorID] = make(map[time.Weekday]*schedule.WorkingHour)
	for _, e := range entries {
		r.set(doctorID, &schedule.WorkingHour{
			ID:          uuid.New(),
			DoctorID:    doctorID,
			Weekday:     e.Weekday,
			StartTime:   e.StartTime,
			EndTime:     e.EndTime,
			IsAvailable: e.IsAvailable,
		})
	}
	return r.Week(context.Background(), doctorID)
}

type fakeOffDayRepo struct {
	days map[uuid.UUID]*schedule.OffDay
}

func newFakeOffDayRepo() *fakeOffDayRepo {
	return &fakeOffDayRepo{days: make(map[uuid.UUID]*schedule.OffDay)}
}

func (r *fakeOffDayRepo) Create(_ context.Context, od *schedule.OffDay) error {
	for _, existing := range r.days {
		if existing.Date.Equal(od.Date) {
			return schedule.ErrOffDayExists
		}
	}
	od.ID = uuid.New()
	r.days[od.ID] = od
	return nil
}

func (r *fakeOffDayRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.days[id]; !ok {
		return schedule.ErrOffDayNotFound
	}
	delete(r.days, id)
	return nil
}

func (r *fakeOffDayRepo) List(_ context.Context, from time.Time) ([]*schedule.OffDay, error) {
	var out []*schedule.OffDay
	for _, od := range r.days {
		if !od.Date.Before(from) {
			out = append(out, od)
		}
	}
	return out, nil
}

func (r *fakeOffDayRepo) IsOffDay(_ context.Context, date time.Time) (bool, error) {
	for _, od := range r.days {
		if od.Date.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

// fakeMailer records sent messages for assertions after Shutdown drains the
// notification queue.
type fakeMailer struct {
	mu   sync.Mutex
	sent []*mailer.Message
}

func (m *fakeMailer) Send(msg *mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) messages() []*mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*mailer.Message, len(m.sent))
	copy(out, m.sent)
	return out
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func (r *fakeAuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
