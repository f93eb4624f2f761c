package services

import (
	"context"
	"errors"

	"quickcred-backend/internal/adapters/persistence/models"
	"quickcred-backend/internal/adapters/persistence/repositories"
)

// ErrInvalidSettings is returned when updated settings are not coherent
var ErrInvalidSettings = errors.New("invalid settings values")

// SettingsService handles the singleton origination settings row
type SettingsService struct {
	settingsRepo *repositories.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo *repositories.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// Get gets the current settings
func (s *SettingsService) Get(ctx context.Context) (*models.Settings, error) {
	return s.settingsRepo.Get(ctx)
}

// UpdateSettingsInput represents settings update input
type UpdateSettingsInput struct {
	InterestRateDefault  *float64 `json:"interest_rate_default,omitempty"`
	ProcessingFeePercent *float64 `json:"processing_fee_percent,omitempty"`
	MinLoan              *float64 `json:"min_loan,omitempty"`
	MaxLoan              *float64 `json:"max_loan,omitempty"`
	MaxMonths            *int     `json:"max_months,omitempty"`
}

// Update applies a partial update to the settings row
func (s *SettingsService) Update(ctx context.Context, input *UpdateSettingsInput) (*models.Settings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if input.InterestRateDefault != nil {
		settings.InterestRateDefault = *input.InterestRateDefault
	}
	if input.ProcessingFeePercent != nil {
		settings.ProcessingFeePercent = *input.ProcessingFeePercent
	}
	if input.MinLoan != nil {
		settings.MinLoan = *input.MinLoan
	}
	if input.MaxLoan != nil {
		settings.MaxLoan = *input.MaxLoan
	}
	if input.MaxMonths != nil {
		settings.MaxMonths = *input.MaxMonths
	}

	if settings.InterestRateDefault < 0 || settings.ProcessingFeePercent < 0 {
		return nil, ErrInvalidSettings
	}
	if settings.MinLoan <= 0 || settings.MaxLoan < settings.MinLoan {
		return nil, ErrInvalidSettings
	}
	if settings.MaxMonths < 1 {
		return nil, ErrInvalidSettings
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}

	return settings, nil
}
