package services

import (
	"context"
	"testing"

	"quickcred-backend/internal/adapters/persistence/models"
	"quickcred-backend/internal/core/domain"
	"quickcred-backend/internal/pkg/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// disburseLoan walks an application through approval and fee confirmation
func disburseLoan(t *testing.T, env *testEnv, userID uint, amount float64, months int) *models.Loan {
	t.Helper()
	ctx := context.Background()

	app := env.submitApplication(t, userID, amount, months)
	_, err := env.applicationService.ChangeStatus(ctx, app.ID, &ChangeStatusInput{Status: domain.StatusApproved})
	require.NoError(t, err)

	_, loan, err := env.applicationService.ConfirmFee(ctx, app.ID)
	require.NoError(t, err)
	require.NotNil(t, loan)
	return loan
}

func TestRecordRepayment(t *testing.T) {
	ctx := context.Background()

	t.Run("installment is marked paid", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createTestUser(t)
		loan := disburseLoan(t, env, user.ID, 25000, 12)

		repayment, err := env.loanService.RecordRepayment(ctx, loan.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, domain.RepaymentPaid, repayment.Status)
		assert.NotNil(t, repayment.PaidAt)
	})

	t.Run("paying twice is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createTestUser(t)
		loan := disburseLoan(t, env, user.ID, 25000, 12)

		_, err := env.loanService.RecordRepayment(ctx, loan.ID, 1)
		require.NoError(t, err)

		_, err = env.loanService.RecordRepayment(ctx, loan.ID, 1)
		assert.ErrorIs(t, err, ErrInstallmentPaid)
	})

	t.Run("unknown installment returns not found", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createTestUser(t)
		loan := disburseLoan(t, env, user.ID, 25000, 12)

		_, err := env.loanService.RecordRepayment(ctx, loan.ID, 13)
		assert.ErrorIs(t, err, ErrInstallmentNotFound)
	})

	t.Run("unknown loan returns not found", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.loanService.RecordRepayment(ctx, 42, 1)
		assert.ErrorIs(t, err, ErrLoanNotFound)
	})

	t.Run("last installment completes the loan", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createTestUser(t)
		loan := disburseLoan(t, env, user.ID, 25000, 6)

		for no := 1; no <= 6; no++ {
			_, err := env.loanService.RecordRepayment(ctx, loan.ID, no)
			require.NoError(t, err)
		}

		var stored models.Loan
		require.NoError(t, env.db.First(&stored, loan.ID).Error)
		assert.Equal(t, domain.LoanCompleted, stored.Status)

		// Intake INFO + approval SUCCESS + disbursement SUCCESS + completion SUCCESS
		assert.EqualValues(t, 3, env.countNotifications(t, user.ID, domain.NotifySuccess))
	})

	t.Run("partial repayment keeps the loan active", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createTestUser(t)
		loan := disburseLoan(t, env, user.ID, 25000, 6)

		_, err := env.loanService.RecordRepayment(ctx, loan.ID, 1)
		require.NoError(t, err)

		var stored models.Loan
		require.NoError(t, env.db.First(&stored, loan.ID).Error)
		assert.Equal(t, domain.LoanActive, stored.Status)
	})
}

func TestGetSchedule(t *testing.T) {
	env := newTestEnv(t)
	user := env.createTestUser(t)
	ctx := context.Background()
	loan := disburseLoan(t, env, user.ID, 25000, 12)

	schedule, err := env.loanService.GetSchedule(ctx, loan.ID)
	require.NoError(t, err)
	require.Len(t, schedule, 12)

	for i := 1; i < len(schedule); i++ {
		assert.Greater(t, schedule[i].InstallmentNo, schedule[i-1].InstallmentNo)
		assert.True(t, schedule[i].DueDate.After(schedule[i-1].DueDate))
	}

	_, err = env.loanService.GetSchedule(ctx, 999)
	assert.ErrorIs(t, err, ErrLoanNotFound)
}

func TestListLoans(t *testing.T) {
	env := newTestEnv(t)
	user := env.createTestUser(t)
	ctx := context.Background()

	disburseLoan(t, env, user.ID, 25000, 12)
	disburseLoan(t, env, user.ID, 50000, 6)

	t.Run("list by user", func(t *testing.T) {
		loans, err := env.loanService.ListByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, loans, 2)
	})

	t.Run("paginated list", func(t *testing.T) {
		loans, total, err := env.loanService.List(ctx, &pagination.Params{Page: 1, Limit: 1})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, loans, 1)
	})
}
