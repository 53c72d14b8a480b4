package mailer

import (
	"bytes"
	"fmt"
	"net/smtp"
	"text/template"

	"storefront/internal/models"
)

// Mailer sends transactional store emails. All sends are best-effort: a
// failed notification never rolls back the operation that triggered it.
type Mailer interface {
	SendOrderConfirmation(to string, order *models.Order) error
	SendOrderStatusUpdate(to string, order *models.Order) error
	SendPasswordReset(to string, resetURL string) error
}

// SettingsSource supplies the current email and general settings so runtime
// settings changes take effect without restarting.
type SettingsSource interface {
	Email() models.EmailSettings
	General() models.GeneralSettings
}

// SMTPMailer is a Mailer backed by a plain SMTP transport configured from the
// stored email settings.
type SMTPMailer struct {
	settings SettingsSource
}

// NewSMTPMailer creates a new SMTPMailer.
func NewSMTPMailer(settings SettingsSource) *SMTPMailer {
	return &SMTPMailer{settings: settings}
}

var orderConfirmationTmpl = template.Must(template.New("orderConfirmation").Parse(
	`Hello {{.Order.ShippingAddress.Name}},

Thank you for your order at {{.SiteName}}.

Order {{.Order.ID}} ({{.Order.Status}})
{{range .Order.Items}}  - product {{.ProductID}} x{{.Quantity}} @ {{printf "%.2f" .Price}}
{{end}}
Subtotal: {{printf "%.2f" .Order.Subtotal}}
Tax:      {{printf "%.2f" .Order.Tax}}
Shipping: {{printf "%.2f" .Order.ShippingCost}}
Total:    {{printf "%.2f" .Order.Total}}
`))

var orderStatusTmpl = template.Must(template.New("orderStatusUpdate").Parse(
	`Hello {{.Order.ShippingAddress.Name}},

Your order {{.Order.ID}} at {{.SiteName}} is now {{.Order.Status}}.
{{if .Order.TrackingNumber}}Tracking number: {{.Order.TrackingNumber}}
{{end}}`))

// SendOrderConfirmation sends the post-checkout confirmation email.
func (m *SMTPMailer) SendOrderConfirmation(to string, order *models.Order) error {
	subject := fmt.Sprintf("Order Confirmation - %s", order.ID)
	return m.sendTemplate(to, subject, orderConfirmationTmpl, order)
}

// SendOrderStatusUpdate sends a status change notification.
func (m *SMTPMailer) SendOrderStatusUpdate(to string, order *models.Order) error {
	subject := fmt.Sprintf("Order Status Update - %s", order.ID)
	return m.sendTemplate(to, subject, orderStatusTmpl, order)
}

// SendPasswordReset sends the password reset link carrying the raw token.
func (m *SMTPMailer) SendPasswordReset(to string, resetURL string) error {
	general := m.settings.General()
	body := fmt.Sprintf("A password reset was requested for your %s account.\n\n"+
		"Reset your password within 10 minutes: %s\n\n"+
		"If you did not request this, ignore this email.\n", general.SiteName, resetURL)
	return m.send(to, "Password Reset Request", body)
}

func (m *SMTPMailer) sendTemplate(to, subject string, tmpl *template.Template, order *models.Order) error {
	general := m.settings.General()
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, struct {
		SiteName string
		Order    *models.Order
	}{general.SiteName, order})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}
	return m.send(to, subject, buf.String())
}

func (m *SMTPMailer) send(to, subject, body string) error {
	email := m.settings.Email()
	if !email.EnableEmailNotifications {
		return nil
	}

	from := email.FromEmail
	msg := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		email.FromName, from, to, subject, body)

	addr := fmt.Sprintf("%s:%d", email.SMTPHost, email.SMTPPort)
	var auth smtp.Auth
	if email.SMTPUsername != "" {
		auth = smtp.PlainAuth("", email.SMTPUsername, email.SMTPPassword, email.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}
