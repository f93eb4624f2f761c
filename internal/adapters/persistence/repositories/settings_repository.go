package repositories

import (
	"context"

	"quickcred-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// settingsID is the primary key of the singleton settings row
const settingsID = 1

// SettingsRepository handles the singleton settings row
type SettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the singleton settings row
func (r *SettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	err := r.db.WithContext(ctx).First(&settings, settingsID).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Update saves the singleton settings row
func (r *SettingsRepository) Update(ctx context.Context, settings *models.Settings) error {
	settings.ID = settingsID
	return r.db.WithContext(ctx).Save(settings).Error
}
