package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/skillmatch/skillmatch/internal/config"
)

// Mailer delivers a single email. Implementations are at-most-once
// best-effort; callers treat failure as non-fatal.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NewMailer picks an SMTP mailer when a host is configured, otherwise a
// logging stub so development environments work without a relay.
func NewMailer(cfg config.SMTPConfig, from string, logger *zap.Logger) Mailer {
	if strings.TrimSpace(cfg.Host) == "" {
		logger.Warn("SMTP_HOST not configured; outbound mail is logged only")
		return &logMailer{from: from, logger: logger}
	}
	return &smtpMailer{cfg: cfg, from: from}
}

type smtpMailer struct {
	cfg  config.SMTPConfig
	from string
}

func (m *smtpMailer) Send(_ context.Context, to, subject, body string) error {
	addr := m.cfg.Host + ":" + m.cfg.Port
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n",
		m.from, to, subject, body)

	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg))
}

type logMailer struct {
	from   string
	logger *zap.Logger
}

func (m *logMailer) Send(_ context.Context, to, subject, _ string) error {
	m.logger.Info("mail (stub)",
		zap.String("from", m.from),
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}
