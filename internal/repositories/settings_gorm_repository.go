package repositories

import (
	"errors"
	"fmt"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMSettingsRepository is a GORM implementation of SettingsRepository.
type GORMSettingsRepository struct {
	db *gorm.DB
}

// NewGORMSettingsRepository creates a new instance of GORMSettingsRepository.
func NewGORMSettingsRepository(db *gorm.DB) *GORMSettingsRepository {
	return &GORMSettingsRepository{
		db: db,
	}
}

// GetAll retrieves every settings section.
func (r *GORMSettingsRepository) GetAll() ([]models.Setting, error) {
	var settings []models.Setting
	if err := r.db.Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return settings, nil
}

// Get retrieves a single settings section by key.
func (r *GORMSettingsRepository) Get(keyName string) (*models.Setting, error) {
	var setting models.Setting
	if err := r.db.First(&setting, "key_name = ?", keyName).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("settings section %q: %w", keyName, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get settings section %q: %w", keyName, err)
	}
	return &setting, nil
}

// Upsert inserts the section or replaces its value if the key already exists.
func (r *GORMSettingsRepository) Upsert(keyName string, value map[string]any) error {
	setting := models.Setting{
		ID:      uuid.New().String(),
		KeyName: keyName,
		Value:   value,
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		return fmt.Errorf("failed to upsert settings section %q: %w", keyName, err)
	}
	return nil
}
