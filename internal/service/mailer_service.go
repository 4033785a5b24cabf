package service

import (
	"fmt"
	"net/smtp"

	"github.com/aulago/campus/config"
	"github.com/jordan-wright/email"
	"github.com/rs/zerolog/log"
)

type Mailer interface {
	Send(to, subject, body string) error
}

type smtpMailer struct {
	addr string
	auth smtp.Auth
	from string
}

// NewMailer builds an SMTP-backed mailer. Without an SMTP host it degrades
// to a logging no-op so local setups work without a mail server.
func NewMailer(cfg *config.Config) Mailer {
	if cfg.SMTP.Host == "" {
		log.Warn().Msg("SMTP_HOST not set, outgoing mail will only be logged")
		return &logMailer{}
	}
	return &smtpMailer{
		addr: fmt.Sprintf("%s:%s", cfg.SMTP.Host, cfg.SMTP.Port),
		auth: smtp.PlainAuth("", cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Host),
		from: cfg.SMTP.From,
	}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	msg := email.NewEmail()
	msg.From = m.from
	msg.To = []string{to}
	msg.Subject = subject
	msg.Text = []byte(body)
	if err := msg.Send(m.addr, m.auth); err != nil {
		return fmt.Errorf("could not send email to %s: %w", to, err)
	}
	return nil
}

type logMailer struct{}

func (m *logMailer) Send(to, subject, body string) error {
	log.Info().Str("to", to).Str("subject", subject).Msg("Email suppressed (no SMTP configured)")
	return nil
}
