// Package notify implements the outbound email channel used to deliver
// password reset codes. A single synchronous attempt, no retry.
package notify

import (
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/healthhub-app/healthhub/backend/internal/config"
)

// EmailSender sends reset codes over SMTP.
type EmailSender struct {
	cfg    *config.Config
	logger *slog.Logger
}

func NewEmailSender(cfg *config.Config, logger *slog.Logger) *EmailSender {
	return &EmailSender{cfg: cfg, logger: logger}
}

// SendResetCode mails the six-digit code to the given address.
func (n *EmailSender) SendResetCode(toEmail string, code string) error {
	if n.cfg.SMTPHost == "" || n.cfg.SMTPUser == "" || n.cfg.FromEmail == "" {
		return fmt.Errorf("email config missing")
	}
	if strings.TrimSpace(toEmail) == "" {
		return fmt.Errorf("empty recipient")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.FromEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "[HealthHub] Password reset code")

	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <div style="max-width: 520px; margin: 0 auto; padding: 16px;">
    <h2>HealthHub password reset</h2>
    <p>Your reset code is:</p>
    <div style="font-size: 28px; font-weight: bold; letter-spacing: 3px;">%s</div>
    <p>The code is valid for 15 minutes.</p>
  </div>
</body>
</html>`, code)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(n.cfg.SMTPHost, n.cfg.SMTPPort, n.cfg.SMTPUser, n.cfg.SMTPPass)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	n.logger.Info("reset code email sent", slog.String("to", toEmail))
	return nil
}
