package service

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/platewise/backend/config"
	"github.com/platewise/backend/internal/models"
)

// IEmailService is what the auth handler depends on; tests swap in a no-op.
type IEmailService interface {
	SendWelcomeEmail(user *models.User) error
}

type EmailService struct {
	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string
}

func NewEmailService(cfg *config.Config) IEmailService {
	return &EmailService{
		smtpHost:     cfg.SMTPHost,
		smtpPort:     cfg.SMTPPort,
		smtpUsername: cfg.SMTPUsername,
		smtpPassword: cfg.SMTPPassword,
		fromEmail:    cfg.EmailFrom,
	}
}

// SendWelcomeEmail greets a new user after registration. Missing SMTP
// settings turn this into a logged no-op so local stacks work offline.
func (s *EmailService) SendWelcomeEmail(user *models.User) error {
	if s.smtpHost == "" {
		log.Printf("[EmailService] SMTP not configured, skipping welcome email for %s", user.Email)
		return nil
	}

	name := cases.Title(language.English).String(strings.ToLower(user.Name))
	subject := fmt.Sprintf("Welcome to Platewise, %s", name)
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nYour account is ready. Finish onboarding in the app and we'll draft your first weekly plan.\r\n\r\nHappy cooking,\r\nThe Platewise team\r\n",
		name,
	)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", s.fromEmail, user.Email, subject, body)
	auth := smtp.PlainAuth("", s.smtpUsername, s.smtpPassword, s.smtpHost)
	addr := fmt.Sprintf("%s:%s", s.smtpHost, s.smtpPort)

	if err := smtp.SendMail(addr, auth, s.fromEmail, []string{user.Email}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}
