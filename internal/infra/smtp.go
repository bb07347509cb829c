package infra

import (
	"fmt"
	"net/smtp"

	"evidencias/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer sends plain-text notifications through the configured SMTP relay.
type Mailer struct {
	host     string
	user     string
	password string
	from     string
	addr     string
	breaker  *CircuitBreaker
}

// NewMailer returns nil when SMTP_HOST is empty, which disables email delivery.
func NewMailer(cfg *config.Config) *Mailer {
	if cfg.SMTPHost == "" {
		return nil
	}
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     from,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		breaker:  NewCircuitBreaker(DefaultCBConfig()),
	}
}

// Send delivers one message. Once the relay has failed repeatedly, calls fail
// fast with ErrCircuitOpen until the breaker lets a probe through.
func (m *Mailer) Send(to, subject, body string) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return m.breaker.Execute(func() error {
		if err := e.Send(m.addr, auth); err != nil {
			return fmt.Errorf("mailer: send to %s: %w", to, err)
		}
		return nil
	})
}
