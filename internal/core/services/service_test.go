package services

import (
	"context"
	"testing"

	"quickcred-backend/internal/adapters/persistence/models"
	"quickcred-backend/internal/adapters/persistence/repositories"
	"quickcred-backend/internal/core/domain"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB opens an isolated in-memory database with the full schema
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, models.AutoMigrate(db))

	require.NoError(t, db.Create(&models.Settings{
		ID:                   1,
		InterestRateDefault:  0.06,
		ProcessingFeePercent: 0.02,
		MinLoan:              5000,
		MaxLoan:              500000,
		MaxMonths:            36,
	}).Error)

	return db
}

// testEnv bundles the repositories and services under test
type testEnv struct {
	db                 *gorm.DB
	applicationService *ApplicationService
	loanService        *LoanService
	notifyService      *NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testDB(t)

	userRepo := repositories.NewUserRepository(db)
	applicationRepo := repositories.NewApplicationRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	repaymentRepo := repositories.NewRepaymentRepository(db)
	chargeRepo := repositories.NewChargeRepository(db)
	settingsRepo := repositories.NewSettingsRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	notifyService := NewNotificationService(notificationRepo)

	return &testEnv{
		db: db,
		applicationService: NewApplicationService(
			applicationRepo, loanRepo, repaymentRepo, chargeRepo,
			settingsRepo, userRepo, notifyService,
		),
		loanService:   NewLoanService(loanRepo, repaymentRepo, notifyService),
		notifyService: notifyService,
	}
}

// createTestUser inserts a borrower
func (e *testEnv) createTestUser(t *testing.T) *models.User {
	t.Helper()
	user := &models.User{
		FullName:  "Jane Borrower",
		Email:     "jane@example.com",
		Phone:     "+15550001111",
		Password:  "not-a-real-hash",
		Role:      domain.RoleUser,
		KYCStatus: domain.KYCVerified,
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

// submitApplication creates an application through the service
func (e *testEnv) submitApplication(t *testing.T, userID uint, amount float64, months int) *models.Application {
	t.Helper()
	app, err := e.applicationService.Create(context.Background(), userID, &CreateApplicationInput{
		LoanAmount:      amount,
		RepaymentPeriod: months,
	})
	require.NoError(t, err)
	return app
}

// countNotifications counts notifications of a given type for a user
func (e *testEnv) countNotifications(t *testing.T, userID uint, notifType domain.NotificationType) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", userID, notifType).
		Count(&count).Error)
	return count
}
