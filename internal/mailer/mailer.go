package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/quotedesk/quotation-api/internal/config"
	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Mailer sends transactional mail over the configured SMTP server
type Mailer struct {
	cfg    *config.EmailConfig
	logger *zap.Logger
}

func NewMailer(cfg *config.EmailConfig, logger *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger}
}

const credentialsBody = `Hello %s,

Your account has been created.

  Email:    %s
  Password: %s

Please sign in and change this password on first use.
`

// SendCredentials delivers the generated sign-in password to a newly
// provisioned account
func (m *Mailer) SendCredentials(ctx context.Context, name, toEmail, password string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(m.cfg.FromName, m.cfg.FromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject("Your account credentials")
	msg.SetBodyString(gomail.TypeTextPlain, fmt.Sprintf(credentialsBody, name, toEmail, password))

	client, err := gomail.NewClient(m.cfg.Host,
		gomail.WithPort(m.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.cfg.Username),
		gomail.WithPassword(m.cfg.Password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	m.logger.Info("credentials email sent", zap.String("to", toEmail))
	return nil
}
