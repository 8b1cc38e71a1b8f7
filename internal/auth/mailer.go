package auth

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/justCallMeJeg/eboto/internal/config"
	"github.com/justCallMeJeg/eboto/internal/domain/common"
	"github.com/justCallMeJeg/eboto/internal/logger"
)

// Mailer delivers login and recovery links to voters and organizers.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends mail through a configured SMTP relay.
type SMTPMailer struct {
	host     string
	port     string
	from     string
	username string
	password string
	log      *log.Logger
}

// NewSMTPMailer creates a mailer from the SMTP configuration.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTP.Host,
		port:     cfg.SMTP.Port,
		from:     cfg.SMTP.From,
		username: cfg.SMTP.Username,
		password: cfg.SMTP.Password,
		log:      logger.Auth(),
	}
}

// Send delivers one message. Delivery failures wrap
// common.ErrAuthDelivery so callers can report them without exposing
// relay details.
func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	addr := m.host + ":" + m.port

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		m.log.Error("failed to send mail", "to", to, "error", err)
		return fmt.Errorf("%w: %v", common.ErrAuthDelivery, err)
	}

	m.log.Debug("mail sent", "to", to, "subject", subject)
	return nil
}

// LogMailer logs messages instead of sending them. It stands in for the
// SMTP relay in development and in tests.
type LogMailer struct {
	log *log.Logger
}

// NewLogMailer creates a mailer that only logs.
func NewLogMailer() *LogMailer {
	return &LogMailer{log: logger.Auth()}
}

func (m *LogMailer) Send(to, subject, body string) error {
	m.log.Info("mail delivery (log only)", "to", to, "subject", subject, "body", body)
	return nil
}

// NewMailer returns the SMTP mailer when a relay is configured and the
// log mailer otherwise.
func NewMailer(cfg *config.Config) Mailer {
	if cfg.MailEnabled() {
		return NewSMTPMailer(cfg)
	}
	return NewLogMailer()
}
