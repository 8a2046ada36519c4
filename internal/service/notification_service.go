package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/physiocore/clinic-api/internal/domain/appointment"
	"github.com/physiocore/clinic-api/internal/domain/schedule"
	"github.com/physiocore/clinic-api/pkg/mailer"
	"github.com/physiocore/clinic-api/pkg/metrics"
)

const notifyBufferSize = 1_000

// NotificationService dispatches booking e-mails asynchronously through a
// bounded buffer. Delivery is best-effort: failures are logged and counted,
// never surfaced to the operation that triggered them.
type NotificationService struct {
	mailer     mailer.Mailer
	staffInbox string
	collector  *metrics.Collector
	log        *zap.Logger
	queue      chan *mailer.Message
	done       chan struct{}
}

func NewNotificationService(m mailer.Mailer, staffInbox string, collector *metrics.Collector, log *zap.Logger) *NotificationService {
	svc := &NotificationService{
		mailer:     m,
		staffInbox: staffInbox,
		collector:  collector,
		log:        log,
		queue:      make(chan *mailer.Message, notifyBufferSize),
		done:       make(chan struct{}),
	}
	go svc.worker()
	return svc
}

// BookingCreated sends the patient confirmation and the staff alert.
func (s *NotificationService) BookingCreated(a *appointment.Appointment, doctorName, serviceName string) {
	when := fmt.Sprintf("%s at %s", a.Date.Format("Monday, 2 January 2006"), a.Time)

	s.enqueue(&mailer.Message{
		To:      a.PatientEmail,
		Subject: "Your appointment request at PhysioCore",
		Body: fmt.Sprintf(
			"Dear %s,\n\nWe received your appointment request for %s with %s on %s.\n"+
				"Current status: %s. We will confirm shortly.\n\nPhysioCore Clinic",
			a.PatientName, serviceName, doctorName, when, a.Status),
	})

	s.enqueue(&mailer.Message{
		To:      s.staffInbox,
		Subject: fmt.Sprintf("New booking: %s — %s", doctorName, when),
		Body: fmt.Sprintf(
			"New appointment request.\n\nDoctor: %s\nService: %s\nWhen: %s\n"+
				"Patient: %s <%s> %s\nNotes: %s\n",
			doctorName, serviceName, when, a.PatientName, a.PatientEmail, a.PatientPhone, a.Notes),
	})
}

// StatusChanged notifies the patient of a staff-driven status transition.
func (s *NotificationService) StatusChanged(a *appointment.Appointment, previous appointment.Status) {
	if a.Status == previous {
		return
	}
	s.enqueue(&mailer.Message{
		To:      a.PatientEmail,
		Subject: fmt.Sprintf("Your appointment is now %s", a.Status),
		Body: fmt.Sprintf(
			"Dear %s,\n\nYour appointment on %s at %s has been updated: %s → %s.\n\nPhysioCore Clinic",
			a.PatientName, a.Date.Format("Monday, 2 January 2006"), a.Time, previous, a.Status),
	})
}

// Rescheduled sends the "old vs new" notice to the patient and staff.
func (s *NotificationService) Rescheduled(a *appointment.Appointment, oldDate time.Time, oldTime schedule.TimeOfDay) {
	oldWhen := fmt.Sprintf("%s at %s", oldDate.Format("Monday, 2 January 2006"), oldTime)
	newWhen := fmt.Sprintf("%s at %s", a.Date.Format("Monday, 2 January 2006"), a.Time)

	s.enqueue(&mailer.Message{
		To:      a.PatientEmail,
		Subject: "Your appointment has been rescheduled",
		Body: fmt.Sprintf(
			"Dear %s,\n\nYour appointment has been moved.\n\nPrevious: %s\nNew: %s\n\nPhysioCore Clinic",
			a.PatientName, oldWhen, newWhen),
	})

	s.enqueue(&mailer.Message{
		To:      s.staffInbox,
		Subject: "Appointment rescheduled",
		Body: fmt.Sprintf(
			"Appointment %s moved.\n\nPrevious: %s\nNew: %s\nPatient: %s <%s>\n",
			a.ID, oldWhen, newWhen, a.PatientName, a.PatientEmail),
	})
}

func (s *NotificationService) enqueue(msg *mailer.Message) {
	select {
	case s.queue <- msg:
	default:
		if s.collector != nil {
			s.collector.NotificationDropped.Inc()
		}
		s.log.Warn("notification buffer full, dropping message",
			zap.String("subject", msg.Subject),
		)
	}
}

func (s *NotificationService) Shutdown() {
	close(s.queue)
	select {
	case <-s.done:
	case <-time.After(10 * time.Second):
		s.log.Warn("notification service shutdown timed out; some messages may be lost")
	}
}

func (s *NotificationService) worker() {
	defer close(s.done)
	for msg := range s.queue {
		if err := s.mailer.Send(msg); err != nil {
			if s.collector != nil {
				s.collector.NotificationsTotal.WithLabelValues("error").Inc()
			}
			s.log.Error("failed to send notification",
				zap.String("subject", msg.Subject),
				zap.Error(err),
			)
			continue
		}
		if s.collector != nil {
			s.collector.NotificationsTotal.WithLabelValues("sent").Inc()
		}
	}
}
