package mailer

import (
	"gopkg.in/gomail.v2"

	"github.com/physiocore/clinic-api/internal/config"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers a single message. Implementations are provider-specific;
// the notification service only needs "send e-mail with these fields".
type Mailer interface {
	Send(msg *Message) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTP(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (m *SMTPMailer) Send(msg *Message) error {
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)
	return m.dialer.DialAndSend(gm)
}

// Noop discards messages; used when MAIL_ENABLED=false.
type Noop struct{}

func (Noop) Send(*Message) error { return nil }
