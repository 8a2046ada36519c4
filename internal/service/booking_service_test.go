package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/physiocore/clinic-api/internal/domain/appointment"
	"github.com/physiocore/clinic-api/internal/domain/doctor"
	"github.com/physiocore/clinic-api/internal/domain/schedule"
)

type bookingFixture struct {
	svc        *BookingService
	apptRepo   *fakeAppointmentRepo
	offDayRepo *fakeOffDayRepo
	mailer     *fakeMailer
	notifier   *NotificationService
	auditRepo  *fakeAuditRepo
	auditSvc   *AuditService

	doctor  *doctor.Doctor
	service *doctor.Service
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	d := &doctor.Doctor{ID: uuid.New(), Name: "Dr. Asha Rao", Specialization: "Physiotherapy"}
	svcRow := &doctor.Service{ID: uuid.New(), DoctorID: d.ID, Name: "Sports Injury Rehab", DurationMins: 60}

	apptRepo := newFakeAppointmentRepo()
	offDayRepo := newFakeOffDayRepo()
	fm := &fakeMailer{}
	notifier := NewNotificationService(fm, "bookings@physiocore.clinic", nil, testLogger())
	auditRepo := &fakeAuditRepo{}
	auditSvc := NewAuditService(auditRepo, testLogger())

	f := &bookingFixture{
		apptRepo:   apptRepo,
		offDayRepo: offDayRepo,
		mailer:     fm,
		notifier:   notifier,
		auditRepo:  auditRepo,
		auditSvc:   auditSvc,
		doctor:     d,
		service:    svcRow,
	}
	f.svc = NewBookingService(
		apptRepo,
		newFakeDoctorRepo(d),
		newFakeServiceRepo(svcRow),
		offDayRepo,
		notifier,
		auditSvc,
		nil,
		testLogger(),
	)
	return f
}

// flush drains the async notification and audit queues so assertions see
// every message. Call at most once per fixture.
func (f *bookingFixture) flush() {
	f.notifier.Shutdown()
	f.auditSvc.Shutdown()
}

// futureDay returns a weekday-stable date safely in the future.
func futureDay() time.Time {
	return schedule.DateOnly(time.Now().AddDate(0, 0, 14))
}

func (f *bookingFixture) cmd() *appointment.CreateAppointmentCommand {
	return &appointment.CreateAppointmentCommand{
		DoctorID:     f.doctor.ID,
		ServiceID:    f.service.ID,
		PatientName:  "Priya Menon",
		PatientEmail: "Priya.Menon@example.com",
		PatientPhone: "+91 98450 12345",
		Date:         futureDay(),
		Time:         schedule.NewTimeOfDay(10, 0),
	}
}

func TestBook(t *testing.T) {
	t.Run("success creates pending appointment and notifies", func(t *testing.T) {
		f := newBookingFixture(t)

		a, err := f.svc.Book(context.Background(), f.cmd())
		if err != nil {
			t.Fatalf("Book: %v", err)
		}
		if a.Status != appointment.StatusPending {
			t.Errorf("status = %s, want pending", a.Status)
		}
		if a.PatientEmail != "priya.menon@example.com" {
			t.Errorf("email not normalized: %s", a.PatientEmail)
		}
		if a.ID == uuid.Nil {
			t.Error("appointment not assigned an ID")
		}

		f.flush()
		msgs := f.mailer.messages()
		if len(msgs) != 2 {
			t.Fatalf("got %d notifications, want patient confirmation plus staff alert", len(msgs))
		}
		if msgs[0].To != "priya.menon@example.com" {
			t.Errorf("first message to %s, want patient", msgs[0].To)
		}
		if msgs[1].To != "bookings@physiocore.clinic" {
			t.Errorf("second message to %s, want staff inbox", msgs[1].To)
		}
	})

	t.Run("slot conflict", func(t *testing.T) {
		f := newBookingFixture(t)

		if _, err := f.svc.Book(context.Background(), f.cmd()); err != nil {
			t.Fatalf("first Book: %v", err)
		}
		_, err := f.svc.Book(context.Background(), f.cmd())
		if !errors.Is(err, appointment.ErrSlotTaken) {
			t.Fatalf("second Book: got %v, want ErrSlotTaken", err)
		}
	})

	t.Run("cancelled appointment frees the slot", func(t *testing.T) {
		f := newBookingFixture(t)

		first, err := f.svc.Book(context.Background(), f.cmd())
		if err != nil {
			t.Fatalf("first Book: %v", err)
		}
		if _, err := f.svc.UpdateStatus(context.Background(), first.ID, appointment.StatusCancelled, AuditEntry{}); err != nil {
			t.Fatalf("cancelling: %v", err)
		}

		if _, err := f.svc.Book(context.Background(), f.cmd()); err != nil {
			t.Fatalf("rebooking a cancelled slot: %v", err)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		f := newBookingFixture(t)
		cmd := f.cmd()
		cmd.PatientName = "  "
		cmd.PatientEmail = ""

		_, err := f.svc.Book(context.Background(), cmd)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("got %v, want ValidationError", err)
		}
		if len(verr.Fields) != 2 {
			t.Errorf("got %d field errors %v, want 2", len(verr.Fields), verr.Fields)
		}
	})

	t.Run("past slot rejected", func(t *testing.T) {
		f := newBookingFixture(t)
		cmd := f.cmd()
		cmd.Date = schedule.DateOnly(time.Now().AddDate(0, 0, -1))

		_, err := f.svc.Book(context.Background(), cmd)
		if !errors.Is(err, appointment.ErrScheduledInPast) {
			t.Fatalf("got %v, want ErrScheduledInPast", err)
		}
	})

	t.Run("off day rejected", func(t *testing.T) {
		f := newBookingFixture(t)
		cmd := f.cmd()
		if err := f.offDayRepo.Create(context.Background(), &schedule.OffDay{Date: cmd.Date}); err != nil {
			t.Fatalf("seeding off day: %v", err)
		}

		_, err := f.svc.Book(context.Background(), cmd)
		if !errors.Is(err, schedule.ErrClinicClosed) {
			t.Fatalf("got %v, want ErrClinicClosed", err)
		}
	})

	t.Run("unknown doctor", func(t *testing.T) {
		f := newBookingFixture(t)
		cmd := f.cmd()
		cmd.DoctorID = uuid.New()

		_, err := f.svc.Book(context.Background(), cmd)
		if !errors.Is(err, doctor.ErrDoctorNotFound) {
			t.Fatalf("got %v, want ErrDoctorNotFound", err)
		}
	})

	t.Run("service belonging to another doctor", func(t *testing.T) {
		f := newBookingFixture(t)

		other := &doctor.Doctor{ID: uuid.New(), Name: "Dr. Other"}
		strayService := &doctor.Service{ID: uuid.New(), DoctorID: other.ID, Name: "Stray"}
		f.svc = NewBookingService(
			f.apptRepo,
			newFakeDoctorRepo(f.doctor, other),
			newFakeServiceRepo(f.service, strayService),
			f.offDayRepo,
			f.notifier,
			f.auditSvc,
			nil,
			testLogger(),
		)

		cmd := f.cmd()
		cmd.ServiceID = strayService.ID
		_, err := f.svc.Book(context.Background(), cmd)
		if !errors.Is(err, doctor.ErrServiceMismatch) {
			t.Fatalf("got %v, want ErrServiceMismatch", err)
		}
	})

	t.Run("concurrent bookings, one winner", func(t *testing.T) {
		f := newBookingFixture(t)

		const attempts = 16
		var wg sync.WaitGroup
		errs := make([]error, attempts)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = f.svc.Book(context.Background(), f.cmd())
			}(i)
		}
		wg.Wait()

		var won, conflicted int
		for _, err := range errs {
			switch {
			case err == nil:
				won++
			case errors.Is(err, appointment.ErrSlotTaken):
				conflicted++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if won != 1 || conflicted != attempts-1 {
			t.Fatalf("won=%d conflicted=%d, want exactly one winner", won, conflicted)
		}
	})
}

func TestUpdateStatus(t *testing.T) {
	t.Run("invalid status", func(t *testing.T) {
		f := newBookingFixture(t)
		_, err := f.svc.UpdateStatus(context.Background(), uuid.New(), appointment.Status("archived"), AuditEntry{})
		if !errors.Is(err, appointment.ErrInvalidStatus) {
			t.Fatalf("got %v, want ErrInvalidStatus", err)
		}
	})

	t.Run("unknown appointment sends nothing", func(t *testing.T) {
		f := newBookingFixture(t)
		_, err := f.svc.UpdateStatus(context.Background(), uuid.New(), appointment.StatusConfirmed, AuditEntry{})
		if !errors.Is(err, appointment.ErrAppointmentNotFound) {
			t.Fatalf("got %v, want ErrAppointmentNotFound", err)
		}

		f.flush()
		if n := len(f.mailer.messages()); n != 0 {
			t.Errorf("got %d notifications after a failed update, want none", n)
		}
	})

	t.Run("transition notifies and audits", func(t *testing.T) {
		f := newBookingFixture(t)
		a, err := f.svc.Book(context.Background(), f.cmd())
		if err != nil {
			t.Fatalf("Book: %v", err)
		}

		updated, err := f.svc.UpdateStatus(context.Background(), a.ID, appointment.StatusConfirmed, AuditEntry{UserID: uuid.New(), UserRole: "staff"})
		if err != nil {
			t.Fatalf("UpdateStatus: %v", err)
		}
		if updated.Status != appointment.StatusConfirmed {
			t.Errorf("status = %s, want confirmed", updated.Status)
		}

		f.flush()
		var statusMail bool
		for _, m := range f.mailer.messages() {
			if strings.Contains(m.Subject, "confirmed") {
				statusMail = true
			}
		}
		if !statusMail {
			t.Error("no status-change mail sent to the patient")
		}
		if len(f.auditRepo.entries) == 0 {
			t.Error("status change not audited")
		}
	})

	t.Run("un-cancel loses to a later booking of the slot", func(t *testing.T) {
		f := newBookingFixture(t)
		first, err := f.svc.Book(context.Background(), f.cmd())
		if err != nil {
			t.Fatalf("Book: %v", err)
		}
		if _, err := f.svc.UpdateStatus(context.Background(), first.ID, appointment.StatusCancelled, AuditEntry{}); err != nil {
			t.Fatalf("cancel: %v", err)
		}
		second, err := f.svc.Book(context.Background(), f.cmd())
		if err != nil {
			t.Fatalf("rebooking the freed slot: %v", err)
		}

		_, err = f.svc.UpdateStatus(context.Background(), first.ID, appointment.StatusConfirmed, AuditEntry{})
		if !errors.Is(err, appointment.ErrSlotTaken) {
			t.Fatalf("got %v, want ErrSlotTaken", err)
		}

		stored, err := f.apptRepo.GetByID(context.Background(), first.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if stored.Status != appointment.StatusCancelled {
			t.Errorf("status = %s, want the appointment left cancelled", stored.Status)
		}
		occupying, err := f.apptRepo.ListByDoctorDate(context.Background(), f.doctor.ID, futureDay())
		if err != nil {
			t.Fatalf("ListByDoctorDate: %v", err)
		}
		if len(occupying) != 1 || occupying[0].ID != second.ID {
			t.Errorf("slot held by %d appointments, want only the rebooking", len(occupying))
		}
	})

	t.Run("no-op transition skips notification", func(t *testing.T) {
		f := newBookingFixture(t)
		a, err := f.svc.Book(context.Background(), f.cmd())
		if err != nil {
			t.Fatalf("Book: %v", err)
		}

		if _, err := f.svc.UpdateStatus(context.Background(), a.ID, appointment.StatusPending, AuditEntry{}); err != nil {
			t.Fatalf("UpdateStatus: %v", err)
		}

		f.flush()
		// Two booking mails only; pending -> pending adds nothing.
		if n := len(f.mailer.messages()); n != 2 {
			t.Errorf("got %d notifications, want 2", n)
		}
	})
}

func TestReschedule(t *testing.T) {
	t.Run("moves the appointment", func(t *testing.T) {
		f := newBookingFixture(t)
		a, err := f.svc.Book(context.Background(), f.cmd())
		if err != nil {
			t.Fatalf("Book: %v", err)
		}

		newDate := futureDay().AddDate(0, 0, 1)
		moved, err := f.svc.Reschedule(context.Background(), a.ID, &appointment.RescheduleCommand{
			Date: newDate,
			Time: schedule.NewTimeOfDay(11, 0),
		}, AuditEntry{})
		if err != nil {
			t.Fatalf("Reschedule: %v", err)
		}
		if !moved.Date.Equal(newDate) || moved.Time != schedule.NewTimeOfDay(11, 0) {
			t.Errorf("moved to %s %s, want %s 11:00:00", moved.Date.Format("2006-01-02"), moved.Time, newDate.Format("2006-01-02"))
		}

		// The old slot is free again.
		if _, err := f.svc.Book(context.Background(), f.cmd()); err != nil {
			t.Errorf("rebooking the vacated slot: %v", err)
		}

		f.flush()
		var rescheduleMail bool
		for _, m := range f.mailer.messages() {
			if strings.Contains(m.Subject, "rescheduled") {
				rescheduleMail = true
			}
		}
		if !rescheduleMail {
			t.Error("no reschedule mail sent")
		}
	})

	t.Run("conflict leaves the appointment unchanged", func(t *testing.T) {
		f := newBookingFixture(t)
		first, err := f.svc.Book(context.Background(), f.cmd())
		if err != nil {
			t.Fatalf("first Book: %v", err)
		}

		second := f.cmd()
		second.Time = schedule.NewTimeOfDay(11, 0)
		b, err := f.svc.Book(context.Background(), second)
		if err != nil {
			t.Fatalf("second Book: %v", err)
		}

		_, err = f.svc.Reschedule(context.Background(), b.ID, &appointment.RescheduleCommand{
			Date: first.Date,
			Time: first.Time,
		}, AuditEntry{})
		if !errors.Is(err, appointment.ErrSlotTaken) {
			t.Fatalf("got %v, want ErrSlotTaken", err)
		}

		kept, err := f.svc.Get(context.Background(), b.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if kept.Time != schedule.NewTimeOfDay(11, 0) {
			t.Errorf("appointment moved despite conflict: now at %s", kept.Time)
		}
	})

	t.Run("off day rejected", func(t *testing.T) {
		f := newBookingFixture(t)
		a, err := f.svc.Book(context.Background(), f.cmd())
		if err != nil {
			t.Fatalf("Book: %v", err)
		}

		closed := futureDay().AddDate(0, 0, 2)
		if err := f.offDayRepo.Create(context.Background(), &schedule.OffDay{Date: closed}); err != nil {
			t.Fatalf("seeding off day: %v", err)
		}

		_, err = f.svc.Reschedule(context.Background(), a.ID, &appointment.RescheduleCommand{
			Date: closed,
			Time: a.Time,
		}, AuditEntry{})
		if !errors.Is(err, schedule.ErrClinicClosed) {
			t.Fatalf("got %v, want ErrClinicClosed", err)
		}
	})
}

func TestDelete(t *testing.T) {
	f := newBookingFixture(t)
	a, err := f.svc.Book(context.Background(), f.cmd())
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	if err := f.svc.Delete(context.Background(), a.ID, AuditEntry{}); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), a.ID); !errors.Is(err, appointment.ErrAppointmentNotFound) {
		t.Fatalf("Get after delete: got %v, want ErrAppointmentNotFound", err)
	}

	// Soft deletion frees the slot.
	if _, err := f.svc.Book(context.Background(), f.cmd()); err != nil {
		t.Errorf("rebooking a deleted slot: %v", err)
	}
}
