package models

import "gorm.io/gorm"

// Setting is one named configuration section persisted as a JSON blob.
// Known keys are the Section* constants below.
type Setting struct {
	ID      string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	KeyName string         `json:"key_name" gorm:"uniqueIndex;type:varchar(255)"`
	Value   map[string]any `json:"value" gorm:"serializer:json"`
	gorm.Model
}

const (
	SectionGeneral  = "general"
	SectionEmail    = "email"
	SectionPayment  = "payment"
	SectionShipping = "shipping"
	SectionSecurity = "security"
)

// GeneralSettings configure the storefront identity and global switches.
type GeneralSettings struct {
	SiteName            string `json:"siteName" validate:"required"`
	SiteDescription     string `json:"siteDescription"`
	ContactEmail        string `json:"contactEmail" validate:"required,email"`
	PhoneNumber         string `json:"phoneNumber"`
	Address             string `json:"address"`
	EnableRegistration  bool   `json:"enableRegistration"`
	EnableGuestCheckout bool   `json:"enableGuestCheckout"`
	Currency            string `json:"currency" validate:"required,len=3"`
	Timezone            string `json:"timezone"`
	DateFormat          string `json:"dateFormat"`
	MaintenanceMode     bool   `json:"maintenanceMode"`
}

// EmailSettings configure the outbound SMTP transport.
type EmailSettings struct {
	SMTPHost                 string `json:"smtpHost" validate:"required"`
	SMTPPort                 int    `json:"smtpPort" validate:"required,gt=0,lte=65535"`
	SMTPUsername             string `json:"smtpUsername"`
	SMTPPassword             string `json:"smtpPassword"`
	FromEmail                string `json:"fromEmail" validate:"required,email"`
	FromName                 string `json:"fromName"`
	EnableEmailNotifications bool   `json:"enableEmailNotifications"`
}

// PaymentSettings toggle the supported payment providers.
type PaymentSettings struct {
	EnableStripe         bool   `json:"enableStripe"`
	EnablePayPal         bool   `json:"enablePayPal"`
	DefaultPaymentMethod string `json:"defaultPaymentMethod" validate:"required,oneof=Stripe PayPal"`
}

// ShippingSettings feed the order total calculation.
type ShippingSettings struct {
	DefaultShippingCost   float64 `json:"defaultShippingCost" validate:"gte=0"`
	FreeShippingThreshold float64 `json:"freeShippingThreshold" validate:"gte=0"`
	EnableFreeShipping    bool    `json:"enableFreeShipping"`
}

// SecuritySettings hold authentication-related knobs.
type SecuritySettings struct {
	EnableTwoFactorAuth bool `json:"enableTwoFactorAuth"`
	MaxLoginAttempts    int  `json:"maxLoginAttempts" validate:"gt=0"`
	SessionTimeout      int  `json:"sessionTimeout" validate:"gt=0"`
	EnableCaptcha       bool `json:"enableCaptcha"`
}

// DefaultGeneralSettings returns the documented defaults for the general section.
func DefaultGeneralSettings() GeneralSettings {
	return GeneralSettings{
		SiteName:            "E-Commerce Store",
		SiteDescription:     "Your one-stop shop for everything",
		ContactEmail:        "contact@example.com",
		PhoneNumber:         "+1 (555) 123-4567",
		Address:             "123 Main St, City, Country",
		EnableRegistration:  true,
		EnableGuestCheckout: true,
		Currency:            "USD",
		Timezone:            "UTC",
		DateFormat:          "MM/DD/YYYY",
	}
}

// DefaultEmailSettings returns the documented defaults for the email section.
func DefaultEmailSettings() EmailSettings {
	return EmailSettings{
		SMTPHost:                 "smtp.example.com",
		SMTPPort:                 587,
		SMTPUsername:             "noreply@example.com",
		FromEmail:                "noreply@example.com",
		FromName:                 "E-Commerce Store",
		EnableEmailNotifications: true,
	}
}

// DefaultPaymentSettings returns the documented defaults for the payment section.
func DefaultPaymentSettings() PaymentSettings {
	return PaymentSettings{DefaultPaymentMethod: "Stripe"}
}

// DefaultShippingSettings returns the documented defaults for the shipping section.
func DefaultShippingSettings() ShippingSettings {
	return ShippingSettings{}
}

// DefaultSecuritySettings returns the documented defaults for the security section.
func DefaultSecuritySettings() SecuritySettings {
	return SecuritySettings{MaxLoginAttempts: 5, SessionTimeout: 30}
}
