package repositories

import (
	"context"
	"testing"
	"time"

	"quickcred-backend/internal/adapters/persistence/models"
	"quickcred-backend/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func repoTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func seedApplication(t *testing.T, db *gorm.DB) *models.Application {
	t.Helper()

	user := &models.User{
		FullName: "Jane Borrower",
		Email:    "jane@example.com",
		Phone:    "+15550001111",
		Password: "hash",
		Role:     domain.RoleUser,
	}
	require.NoError(t, db.Create(user).Error)

	app := &models.Application{
		UserID:          user.ID,
		LoanAmount:      25000,
		RepaymentPeriod: 12,
		Status:          domain.StatusApproved,
	}
	require.NoError(t, db.Create(app).Error)
	return app
}

func newLoan(app *models.Application) *models.Loan {
	now := time.Now()
	return &models.Loan{
		ApplicationID:      app.ID,
		UserID:             app.UserID,
		PrincipalAmount:    app.LoanAmount,
		InterestRate:       0.06,
		TotalInterest:      18000,
		TotalRepayment:     43000,
		MonthlyInstallment: 3583.33,
		StartDate:          now,
		EndDate:            now.AddDate(0, 12, 0),
		Status:             domain.LoanActive,
	}
}

func TestLoanUniquePerApplication(t *testing.T) {
	db := repoTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()
	app := seedApplication(t, db)

	require.NoError(t, repo.Create(ctx, newLoan(app)))

	// A second loan on the same application hits the unique index
	err := repo.Create(ctx, newLoan(app))
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	exists, err := repo.ExistsByApplicationID(ctx, app.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGetByApplicationID(t *testing.T) {
	db := repoTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()
	app := seedApplication(t, db)

	created := newLoan(app)
	require.NoError(t, repo.Create(ctx, created))

	loan, err := repo.GetByApplicationID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, loan.ID)

	_, err = repo.GetByApplicationID(ctx, 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepaymentDueQueries(t *testing.T) {
	db := repoTestDB(t)
	loanRepo := NewLoanRepository(db)
	repayRepo := NewRepaymentRepository(db)
	ctx := context.Background()
	app := seedApplication(t, db)

	loan := newLoan(app)
	require.NoError(t, loanRepo.Create(ctx, loan))

	now := time.Now()
	repayments := []*models.Repayment{
		{LoanID: loan.ID, InstallmentNo: 1, Amount: 3583.33, DueDate: now.AddDate(0, 0, -10), Status: domain.RepaymentPending},
		{LoanID: loan.ID, InstallmentNo: 2, Amount: 3583.33, DueDate: now.AddDate(0, 0, 2), Status: domain.RepaymentPending},
		{LoanID: loan.ID, InstallmentNo: 3, Amount: 3583.33, DueDate: now.AddDate(0, 0, 30), Status: domain.RepaymentPending},
	}
	require.NoError(t, repayRepo.CreateBatch(ctx, repayments))

	overdue, err := repayRepo.ListDueBefore(ctx, now)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, 1, overdue[0].InstallmentNo)

	dueSoon, err := repayRepo.ListDueBetween(ctx, now, now.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.Len(t, dueSoon, 1)
	assert.Equal(t, 2, dueSoon[0].InstallmentNo)

	unpaid, err := repayRepo.CountUnpaidByLoanID(ctx, loan.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, unpaid)
}
