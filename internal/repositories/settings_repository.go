package repositories

import (
	"storefront/internal/models"
)

// SettingsRepository defines the interface for the settings key/value store.
type SettingsRepository interface {
	GetAll() ([]models.Setting, error)
	Get(keyName string) (*models.Setting, error)
	// Upsert inserts the section or replaces its value if the key exists.
	Upsert(keyName string, value map[string]any) error
}
