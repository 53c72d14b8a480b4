package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// SettingsService is the single validated write path for the store settings.
// All five sections are loaded (and seeded with defaults if absent) at startup
// and cached; reads never hit the database afterwards.
type SettingsService struct {
	repo     repositories.SettingsRepository
	validate *validator.Validate

	mu       sync.RWMutex
	general  models.GeneralSettings
	email    models.EmailSettings
	payment  models.PaymentSettings
	shipping models.ShippingSettings
	security models.SecuritySettings
}

// NewSettingsService creates a SettingsService and loads every section,
// seeding documented defaults for sections that do not exist yet.
func NewSettingsService(repo repositories.SettingsRepository) (*SettingsService, error) {
	s := &SettingsService{
		repo:     repo,
		validate: validator.New(),
		general:  models.DefaultGeneralSettings(),
		email:    models.DefaultEmailSettings(),
		payment:  models.DefaultPaymentSettings(),
		shipping: models.DefaultShippingSettings(),
		security: models.DefaultSecuritySettings(),
	}

	stored, err := repo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	found := make(map[string]bool, len(stored))
	for _, setting := range stored {
		if err := s.applySection(setting.KeyName, setting.Value); err != nil {
			return nil, err
		}
		found[setting.KeyName] = true
	}

	// Seed sections missing from the database with their defaults.
	for _, section := range []string{
		models.SectionGeneral, models.SectionEmail, models.SectionPayment,
		models.SectionShipping, models.SectionSecurity,
	} {
		if found[section] {
			continue
		}
		if err := repo.Upsert(section, s.sectionValue(section)); err != nil {
			return nil, fmt.Errorf("failed to seed %s settings: %w", section, err)
		}
	}

	return s, nil
}

// General returns the current general settings.
func (s *SettingsService) General() models.GeneralSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.general
}

// Email returns the current email settings.
func (s *SettingsService) Email() models.EmailSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email
}

// Payment returns the current payment settings.
func (s *SettingsService) Payment() models.PaymentSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.payment
}

// Shipping returns the current shipping settings.
func (s *SettingsService) Shipping() models.ShippingSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shipping
}

// Security returns the current security settings.
func (s *SettingsService) Security() models.SecuritySettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.security
}

// GetAll returns every section keyed by section name.
func (s *SettingsService) GetAll() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]any{
		models.SectionGeneral:  s.general,
		models.SectionEmail:    s.email,
		models.SectionPayment:  s.payment,
		models.SectionShipping: s.shipping,
		models.SectionSecurity: s.security,
	}
}

// UpdateSection decodes and validates the raw section payload, persists it
// and refreshes the cache. Unknown sections are rejected.
func (s *SettingsService) UpdateSection(section string, raw map[string]any) error {
	if err := s.applySection(section, raw); err != nil {
		return err
	}
	if err := s.repo.Upsert(section, s.sectionValue(section)); err != nil {
		return fmt.Errorf("failed to persist %s settings: %w", section, err)
	}
	return nil
}

// applySection decodes raw into the typed struct for the section, validates
// it and stores it in the cache.
func (s *SettingsService) applySection(section string, raw map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch section {
	case models.SectionGeneral:
		return decodeSection(s.validate, raw, &s.general)
	case models.SectionEmail:
		return decodeSection(s.validate, raw, &s.email)
	case models.SectionPayment:
		return decodeSection(s.validate, raw, &s.payment)
	case models.SectionShipping:
		return decodeSection(s.validate, raw, &s.shipping)
	case models.SectionSecurity:
		return decodeSection(s.validate, raw, &s.security)
	default:
		return fmt.Errorf("settings section %q: %w", section, repositories.ErrNotFound)
	}
}

// sectionValue returns the cached section as a generic map for persistence.
// Callers must not hold the write lock.
func (s *SettingsService) sectionValue(section string) map[string]any {
	s.mu.RLock()
	var v any
	switch section {
	case models.SectionGeneral:
		v = s.general
	case models.SectionEmail:
		v = s.email
	case models.SectionPayment:
		v = s.payment
	case models.SectionShipping:
		v = s.shipping
	case models.SectionSecurity:
		v = s.security
	}
	s.mu.RUnlock()

	data, _ := json.Marshal(v)
	out := make(map[string]any)
	_ = json.Unmarshal(data, &out)
	return out
}

// decodeSection round-trips the raw map through JSON into the typed section
// and validates the result before committing it to dst.
func decodeSection[T any](validate *validator.Validate, raw map[string]any, dst *T) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to encode settings payload: %w", err)
	}
	decoded := *dst // start from current values so partial payloads keep the rest
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("failed to decode settings payload: %w", err)
	}
	if err := validate.Struct(decoded); err != nil {
		return fmt.Errorf("invalid settings payload: %w", err)
	}
	*dst = decoded
	return nil
}
