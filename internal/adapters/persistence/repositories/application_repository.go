package repositories

import (
	"context"
	"time"

	"quickcred-backend/internal/adapters/persistence/models"
	"quickcred-backend/internal/core/domain"

	"gorm.io/gorm"
)

// ApplicationRepository handles loan application data access
type ApplicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create creates a new application
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

// GetByID gets an application by ID with relations
func (r *ApplicationRepository) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Loan").
		First(&app, id).Error
	return &app, err
}

// ListByUserID gets applications belonging to a user
func (r *ApplicationRepository) ListByUserID(ctx context.Context, userID uint) ([]*models.Application, error) {
	var apps []*models.Application
	err := r.db.WithContext(ctx).
		Preload("Loan").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

// List lists applications with pagination, optionally filtered by status
func (r *ApplicationRepository) List(ctx context.Context, status *domain.ApplicationStatus, offset, limit int) ([]*models.Application, int64, error) {
	var apps []*models.Application
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Application{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	query.Count(&total)

	listQuery := r.db.WithContext(ctx).Preload("User")
	if status != nil {
		listQuery = listQuery.Where("status = ?", *status)
	}

	err := listQuery.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&apps).Error

	return apps, total, err
}

// Update updates an application
func (r *ApplicationRepository) Update(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Save(app).Error
}

// CountByStatus counts applications in a given status
func (r *ApplicationRepository) CountByStatus(ctx context.Context, status domain.ApplicationStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// ChargeRepository handles charge data access
type ChargeRepository struct {
	db *gorm.DB
}

// NewChargeRepository creates a new charge repository
func NewChargeRepository(db *gorm.DB) *ChargeRepository {
	return &ChargeRepository{db: db}
}

// Create creates a new charge
func (r *ChargeRepository) Create(ctx context.Context, charge *models.Charge) error {
	return r.db.WithContext(ctx).Create(charge).Error
}

// GetByApplicationID gets a charge by application ID and type
func (r *ChargeRepository) GetByApplicationID(ctx context.Context, applicationID uint, chargeType domain.ChargeType) (*models.Charge, error) {
	var charge models.Charge
	err := r.db.WithContext(ctx).
		Where("application_id = ? AND type = ?", applicationID, chargeType).
		First(&charge).Error
	if err != nil {
		return nil, err
	}
	return &charge, nil
}

// MarkPaid marks a charge as paid
func (r *ChargeRepository) MarkPaid(ctx context.Context, id uint) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&models.Charge{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":  domain.ChargePaid,
			"paid_at": now,
		}).Error
}

// ListByApplicationID lists charges for an application
func (r *ChargeRepository) ListByApplicationID(ctx context.Context, applicationID uint) ([]*models.Charge, error) {
	var charges []*models.Charge
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at DESC").
		Find(&charges).Error
	return charges, err
}
