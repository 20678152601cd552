package mailer

import (
	"context"
	"fmt"
	"log"
	"net/smtp"

	"atelier/internal/config"
)

// Mailer sends confirmation emails over SMTP
type Mailer struct {
	cfg *config.EmailConfig
}

// New creates a new mailer
func New(cfg *config.EmailConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// IsEnabled returns whether email sending is enabled
func (m *Mailer) IsEnabled() bool {
	return m.cfg.Enabled
}

// Send sends a multipart text+HTML email and returns the provider response.
// The send is abandoned when ctx expires; SMTP has no cancellation, so the
// in-flight delivery finishes in the background and its result is dropped.
func (m *Mailer) Send(ctx context.Context, to, subject, textBody, htmlBody string) (string, error) {
	if !m.cfg.Enabled {
		log.Printf("[MAIL] Email disabled, would send to %s: %s", to, subject)
		return "email disabled, message logged", nil
	}

	if m.cfg.SMTPHost == "" || m.cfg.Username == "" || m.cfg.Password == "" {
		return "", fmt.Errorf("email service not properly configured")
	}

	message := m.buildMessage(to, subject, textBody, htmlBody)
	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.SMTPHost)

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, m.cfg.FromEmail, []string{to}, message)
	}()

	select {
	case err := <-done:
		if err != nil {
			return "", fmt.Errorf("failed to send email: %w", err)
		}
		return fmt.Sprintf("accepted by %s", addr), nil
	case <-ctx.Done():
		return "", fmt.Errorf("email send timed out: %w", ctx.Err())
	}
}

// buildMessage assembles a multipart/alternative message with a plain text
// part and an optional HTML part
func (m *Mailer) buildMessage(to, subject, textBody, htmlBody string) []byte {
	from := m.cfg.FromEmail
	if m.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.FromEmail)
	}

	boundary := "----=_NextPart_1234567890"

	message := fmt.Sprintf("From: %s\r\n", from) +
		fmt.Sprintf("To: %s\r\n", to) +
		fmt.Sprintf("Subject: %s\r\n", subject) +
		"MIME-Version: 1.0\r\n" +
		fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n", boundary) +
		"\r\n"

	message += fmt.Sprintf("--%s\r\n", boundary) +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"Content-Transfer-Encoding: quoted-printable\r\n" +
		"\r\n" +
		textBody + "\r\n"

	if htmlBody != "" {
		message += fmt.Sprintf("--%s\r\n", boundary) +
			"Content-Type: text/html; charset=UTF-8\r\n" +
			"Content-Transfer-Encoding: quoted-printable\r\n" +
			"\r\n" +
			htmlBody + "\r\n"
	}

	message += fmt.Sprintf("--%s--\r\n", boundary)
	return []byte(message)
}
