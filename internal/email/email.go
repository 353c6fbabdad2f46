// Package email provides SMTP email sending for verification and
// password-reset codes. When configured, it uses STARTTLS and authentication.
package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
	"time"

	"treehouse/internal/config"
)

// Sender delivers outbound mail. Services depend on this interface so tests
// can swap in a recorder.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Service provides email sending over SMTP.
type Service struct {
	cfg    config.SMTPConfig
	logger *slog.Logger
}

// NewService creates an SMTP sender from the given configuration.
func NewService(cfg config.SMTPConfig, logger *slog.Logger) *Service {
	return &Service{cfg: cfg, logger: logger}
}

// Send sends a plain-text email to a single recipient. Without SMTP
// configuration the message is logged and dropped, which keeps local
// development working without a mail server.
func (s *Service) Send(ctx context.Context, to, subject, body string) error {
	if !s.cfg.Enabled() {
		s.logger.Info("smtp not configured, dropping email", "to", to, "subject", subject)
		return nil
	}

	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)

	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp client: %w", err)
	}
	defer func() {
		if err := client.Quit(); err != nil {
			s.logger.Warn("smtp quit failed", "error", err)
		}
	}()

	tlsConfig := &tls.Config{
		ServerName: s.cfg.Host,
		MinVersion: tls.VersionTLS12,
	}
	if err := client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("starttls: %w", err)
	}

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("auth: %w", err)
	}

	if err := client.Mail(s.cfg.From); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt to %s: %w", to, err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write([]byte(buildMessage(s.cfg.From, to, subject, body))); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}

	s.logger.Info("email sent", "to", to, "subject", subject)
	return nil
}

func buildMessage(from, to, subject, body string) string {
	var sb strings.Builder
	sb.WriteString("From: ")
	sb.WriteString(from)
	sb.WriteString("\r\n")
	sb.WriteString("To: ")
	sb.WriteString(to)
	sb.WriteString("\r\n")
	sb.WriteString("Subject: ")
	sb.WriteString(subject)
	sb.WriteString("\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)
	return sb.String()
}

// VerificationEmail renders the subject and body for a verification code.
func VerificationEmail(code string) (subject, body string) {
	return "Email Verification", fmt.Sprintf("Your verification code is %s", code)
}

// PasswordResetEmail renders the subject and body for a reset code.
func PasswordResetEmail(code string) (subject, body string) {
	return "Password Reset", fmt.Sprintf("Your password reset code is %s", code)
}
