package services

import (
	"context"
	"time"

	"quickcred-backend/internal/adapters/persistence/models"
	"quickcred-backend/internal/core/domain"

	"gorm.io/gorm"
)

// AnalyticsService computes portfolio aggregates for the admin dashboard
type AnalyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// DashboardOutput represents the admin dashboard aggregates
type DashboardOutput struct {
	Users        UserStats                     `json:"users"`
	Applications ApplicationStats              `json:"applications"`
	Loans        LoanStats                     `json:"loans"`
	Recent       []*models.ApplicationResponse `json:"recent_applications"`
}

// UserStats holds user counts
type UserStats struct {
	Total    int64 `json:"total"`
	Verified int64 `json:"verified"`
	NewMonth int64 `json:"new_this_month"`
}

// ApplicationStats holds application counts by status
type ApplicationStats struct {
	Total     int64 `json:"total"`
	Submitted int64 `json:"submitted"`
	Approved  int64 `json:"approved"`
	Rejected  int64 `json:"rejected"`
	Review    int64 `json:"review"`
	ThisMonth int64 `json:"this_month"`
}

// LoanStats holds loan portfolio figures
type LoanStats struct {
	Active           int64   `json:"active"`
	Completed        int64   `json:"completed"`
	TotalDisbursed   float64 `json:"total_disbursed"`
	TotalOutstanding float64 `json:"total_outstanding"`
	DisbursedMonth   float64 `json:"disbursed_this_month"`
	OverdueCount     int64   `json:"overdue_installments"`
}

// GetDashboard computes all dashboard aggregates
func (s *AnalyticsService) GetDashboard(ctx context.Context) (*DashboardOutput, error) {
	db := s.db.WithContext(ctx)
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	out := &DashboardOutput{}

	// User counts
	db.Model(&models.User{}).Count(&out.Users.Total)
	db.Model(&models.User{}).Where("is_verified = ?", true).Count(&out.Users.Verified)
	db.Model(&models.User{}).Where("created_at >= ?", monthStart).Count(&out.Users.NewMonth)

	// Application counts by status
	db.Model(&models.Application{}).Count(&out.Applications.Total)
	db.Model(&models.Application{}).Where("status = ?", domain.StatusSubmitted).Count(&out.Applications.Submitted)
	db.Model(&models.Application{}).Where("status = ?", domain.StatusApproved).Count(&out.Applications.Approved)
	db.Model(&models.Application{}).Where("status = ?", domain.StatusRejected).Count(&out.Applications.Rejected)
	db.Model(&models.Application{}).Where("status = ?", domain.StatusReview).Count(&out.Applications.Review)
	db.Model(&models.Application{}).Where("created_at >= ?", monthStart).Count(&out.Applications.ThisMonth)

	// Loan portfolio figures
	db.Model(&models.Loan{}).Where("status = ?", domain.LoanActive).Count(&out.Loans.Active)
	db.Model(&models.Loan{}).Where("status = ?", domain.LoanCompleted).Count(&out.Loans.Completed)

	db.Model(&models.Loan{}).
		Select("COALESCE(SUM(principal_amount), 0)").
		Scan(&out.Loans.TotalDisbursed)

	db.Model(&models.Repayment{}).
		Where("status <> ?", domain.RepaymentPaid).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&out.Loans.TotalOutstanding)

	db.Model(&models.Loan{}).
		Where("created_at >= ?", monthStart).
		Select("COALESCE(SUM(principal_amount), 0)").
		Scan(&out.Loans.DisbursedMonth)

	db.Model(&models.Repayment{}).
		Where("status = ?", domain.RepaymentOverdue).
		Count(&out.Loans.OverdueCount)

	// Latest five applications for the activity feed
	var recent []*models.Application
	if err := db.Preload("User").
		Order("created_at DESC").
		Limit(5).
		Find(&recent).Error; err != nil {
		return nil, err
	}

	out.Recent = make([]*models.ApplicationResponse, 0, len(recent))
	for _, app := range recent {
		out.Recent = append(out.Recent, app.ToResponse())
	}

	return out, nil
}
