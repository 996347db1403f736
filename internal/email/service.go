package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/skinsewa/api/internal/config"
	"github.com/skinsewa/api/internal/model"
	"github.com/skinsewa/api/pkg/logger"
)

// Sender delivers outbound mail. It is an interface so handlers can be
// tested without an SMTP server.
type Sender interface {
	SendContactMessage(req *model.ContactRequest) error
	SendWelcome(to, clinicName string) error
}

type service struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
	logger *logger.Logger
}

func NewService(cfg config.SMTPConfig, logger *logger.Logger) Sender {
	return &service{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		logger: logger,
	}
}

// SendContactMessage forwards a contact-form submission to the support
// inbox, with the submitter set as reply-to.
func (s *service) SendContactMessage(req *model.ContactRequest) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", s.cfg.ContactTo)
	m.SetHeader("Reply-To", req.Email)
	m.SetHeader("Subject", fmt.Sprintf("[Contact] %s", req.Subject))
	m.SetBody("text/plain", fmt.Sprintf("From: %s <%s>\n\n%s", req.Name, req.Email, req.Message))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send contact message: %w", err)
	}
	s.logger.Info("contact message forwarded", "from", req.Email)
	return nil
}

func (s *service) SendWelcome(to, clinicName string) error {
	if to == "" {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Welcome to SkinSewa")
	m.SetBody("text/plain", fmt.Sprintf(
		"Hello %s,\n\nYour clinic account is ready. You can now sign in to the dashboard to review forwarded reports and appointments.\n\nThe SkinSewa team",
		clinicName,
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}
