package repositories

import (
	"fmt"
	"sync"

	"storefront/internal/models"

	"github.com/google/uuid"
)

// MockSettingsRepository is an in-memory implementation of SettingsRepository.
type MockSettingsRepository struct {
	settings map[string]models.Setting
	mu       sync.RWMutex
}

// NewMockSettingsRepository creates a new instance of MockSettingsRepository.
func NewMockSettingsRepository() *MockSettingsRepository {
	return &MockSettingsRepository{
		settings: make(map[string]models.Setting),
	}
}

// GetAll returns every stored settings section.
func (r *MockSettingsRepository) GetAll() ([]models.Setting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	settingList := make([]models.Setting, 0, len(r.settings))
	for _, s := range r.settings {
		settingList = append(settingList, s)
	}
	return settingList, nil
}

// Get returns a settings section by its key.
func (r *MockSettingsRepository) Get(keyName string) (*models.Setting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	setting, ok := r.settings[keyName]
	if !ok {
		return nil, fmt.Errorf("setting %s: %w", keyName, ErrNotFound)
	}
	return &setting, nil
}

// Upsert inserts the section or replaces its value if the key exists.
func (r *MockSettingsRepository) Upsert(keyName string, value map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	setting, ok := r.settings[keyName]
	if !ok {
		setting = models.Setting{ID: uuid.New().String(), KeyName: keyName}
	}
	setting.Value = value
	r.settings[keyName] = setting
	return nil
}
