package mailer

import (
	"fmt"
	"net/smtp"

	"saas-platform-backend/internal/config"
	"saas-platform-backend/internal/logger"
)

// Sender dispatches out-of-band notifications to users. The password reset
// flow hands it the raw token; delivery failures are the sender's problem
// and are never surfaced to the requesting client.
type Sender interface {
	SendPasswordReset(email, token string) error
}

// SMTPSender delivers mail through a plain SMTP relay
type SMTPSender struct {
	cfg *config.Config
}

// NewSMTPSender creates an SMTP-backed sender
func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// SendPasswordReset sends the reset token to the user's address
func (s *SMTPSender) SendPasswordReset(email, token string) error {
	addr := s.cfg.SMTPHost + ":" + s.cfg.SMTPPort

	var auth smtp.Auth
	if s.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Password reset\r\n\r\n"+
		"A password reset was requested for your account.\r\n\r\n"+
		"Reset token: %s\r\n\r\n"+
		"The token expires in %d minutes. If you did not request this, ignore this message.\r\n",
		s.cfg.MailFrom, email, token, s.cfg.ResetTokenTTLMin)

	if err := smtp.SendMail(addr, auth, s.cfg.MailFrom, []string{email}, []byte(msg)); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// LogSender writes the notification to the log instead of sending mail.
// Used in development when no SMTP host is configured.
type LogSender struct{}

// NewLogSender creates a log-backed sender
func NewLogSender() *LogSender {
	return &LogSender{}
}

// SendPasswordReset logs the reset token
func (s *LogSender) SendPasswordReset(email, token string) error {
	logger.New().WithFields(map[string]interface{}{
		"email": email,
		"token": token,
	}).Info("password reset requested (mail delivery disabled)")
	return nil
}

// FromConfig picks the SMTP sender when a host is configured, the log
// sender otherwise.
func FromConfig(cfg *config.Config) Sender {
	if cfg.SMTPHost == "" {
		return NewLogSender()
	}
	return NewSMTPSender(cfg)
}
