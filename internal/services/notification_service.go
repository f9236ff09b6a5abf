// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/tonearm/tonearm-backend/internal/config"
	"github.com/tonearm/tonearm-backend/internal/models"
)

// NotificationService sends transactional email. Delivery is best effort:
// a failed send is logged, never surfaced to the payment path.
type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

func (s *NotificationService) SendWelcomeEmail(user *models.User, verificationToken string) error {
	tmpl := s.getEmailTemplate("welcome")

	data := map[string]interface{}{
		"Name":            user.Name(),
		"VerificationURL": fmt.Sprintf("%s/verify-email?token=%s", s.config.Frontend.BaseURL, verificationToken),
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, tmpl.Subject, body)
}

func (s *NotificationService) SendPurchaseReceipt(user *models.User, itemTitle string, amount int64, currency string) {
	tmpl := s.getEmailTemplate("purchase_receipt")

	data := map[string]interface{}{
		"Name":     user.Name(),
		"Item":     itemTitle,
		"Amount":   formatAmount(amount, currency),
		"Currency": currency,
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		logrus.WithError(err).Error("failed to render purchase receipt")
		return
	}
	if err := s.sendEmail(user.Email, tmpl.Subject, body); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to send purchase receipt")
	}
}

func (s *NotificationService) SendPledgeReceipt(pledge *models.Pledge) {
	tmpl := s.getEmailTemplate("pledge_receipt")

	data := map[string]interface{}{
		"Name":       pledge.User.Name(),
		"Fundraiser": pledge.Fundraiser.Title,
		"Amount":     formatAmount(pledge.Amount, pledge.Currency),
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		logrus.WithError(err).Error("failed to render pledge receipt")
		return
	}
	if err := s.sendEmail(pledge.User.Email, tmpl.Subject, body); err != nil {
		logrus.WithError(err).WithField("pledge_id", pledge.ID).Error("failed to send pledge receipt")
	}
}

func (s *NotificationService) SendFundraiserFunded(pledge *models.Pledge) {
	tmpl := s.getEmailTemplate("fundraiser_funded")

	data := map[string]interface{}{
		"Name":       pledge.User.Name(),
		"Fundraiser": pledge.Fundraiser.Title,
		"Amount":     formatAmount(pledge.Amount, pledge.Currency),
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		logrus.WithError(err).Error("failed to render funded notification")
		return
	}
	if err := s.sendEmail(pledge.User.Email, tmpl.Subject, body); err != nil {
		logrus.WithError(err).WithField("pledge_id", pledge.ID).Error("failed to send funded notification")
	}
}

func (s *NotificationService) SendFundraiserFailed(pledge *models.Pledge) {
	tmpl := s.getEmailTemplate("fundraiser_failed")

	data := map[string]interface{}{
		"Name":       pledge.User.Name(),
		"Fundraiser": pledge.Fundraiser.Title,
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		logrus.WithError(err).Error("failed to render failed-campaign notification")
		return
	}
	if err := s.sendEmail(pledge.User.Email, tmpl.Subject, body); err != nil {
		logrus.WithError(err).WithField("pledge_id", pledge.ID).Error("failed to send failed-campaign notification")
	}
}

func (s *NotificationService) getEmailTemplate(name string) EmailTemplate {
	switch name {
	case "welcome":
		return EmailTemplate{
			Subject: "Welcome to Tonearm",
			Body:    `<p>Hi {{.Name}},</p><p>Welcome! Please confirm your email address: <a href="{{.VerificationURL}}">verify email</a>.</p>`,
		}
	case "purchase_receipt":
		return EmailTemplate{
			Subject: "Your purchase receipt",
			Body:    `<p>Hi {{.Name}},</p><p>Thanks for supporting the artist. You paid {{.Amount}} for {{.Item}}.</p>`,
		}
	case "pledge_receipt":
		return EmailTemplate{
			Subject: "Your pledge was received",
			Body:    `<p>Hi {{.Name}},</p><p>Your pledge of {{.Amount}} to "{{.Fundraiser}}" has been recorded.</p>`,
		}
	case "fundraiser_funded":
		return EmailTemplate{
			Subject: "Campaign funded!",
			Body:    `<p>Hi {{.Name}},</p><p>"{{.Fundraiser}}" reached its goal. Your pledge of {{.Amount}} has been charged. Thank you!</p>`,
		}
	case "fundraiser_failed":
		return EmailTemplate{
			Subject: "Campaign did not reach its goal",
			Body:    `<p>Hi {{.Name}},</p><p>"{{.Fundraiser}}" ended without reaching its goal. Your pledge was released and you have not been charged.</p>`,
		}
	}
	return EmailTemplate{Subject: "Tonearm", Body: "<p>{{.Name}}</p>"}
}

func (s *NotificationService) renderTemplate(body string, data map[string]interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(body)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPUsername == "" {
		logrus.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("email delivery skipped, SMTP not configured")
		return nil
	}

	from := fmt.Sprintf("%s <%s>", s.config.Email.FromName, s.config.Email.FromEmail)
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		from, to, subject, body,
	))

	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func formatAmount(amount int64, currency string) string {
	return fmt.Sprintf("%.2f %s", float64(amount)/100, currency)
}
