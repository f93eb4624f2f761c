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

func TestCreateApplication(t *testing.T) {
	env := newTestEnv(t)
	user := env.createTestUser(t)
	ctx := context.Background()

	t.Run("valid application is submitted", func(t *testing.T) {
		app := env.submitApplication(t, user.ID, 25000, 12)

		assert.Equal(t, domain.StatusSubmitted, app.Status)
		assert.Equal(t, 25000.0, app.LoanAmount)
		assert.Equal(t, 12, app.RepaymentPeriod)
		assert.False(t, app.ProcessingFeePaid)
		assert.Equal(t, 0, app.ProcessingProgress)

		// Intake writes one INFO notification
		assert.EqualValues(t, 1, env.countNotifications(t, user.ID, domain.NotifyInfo))
	})

	t.Run("amount below minimum is rejected", func(t *testing.T) {
		_, err := env.applicationService.Create(ctx, user.ID, &CreateApplicationInput{
			LoanAmount:      1000,
			RepaymentPeriod: 12,
		})
		assert.ErrorIs(t, err, ErrAmountOutOfRange)
	})

	t.Run("amount above maximum is rejected", func(t *testing.T) {
		_, err := env.applicationService.Create(ctx, user.ID, &CreateApplicationInput{
			LoanAmount:      900000,
			RepaymentPeriod: 12,
		})
		assert.ErrorIs(t, err, ErrAmountOutOfRange)
	})

	t.Run("period beyond maximum is rejected", func(t *testing.T) {
		_, err := env.applicationService.Create(ctx, user.ID, &CreateApplicationInput{
			LoanAmount:      25000,
			RepaymentPeriod: 48,
		})
		assert.ErrorIs(t, err, ErrPeriodOutOfRange)
	})

	t.Run("unknown applicant is rejected", func(t *testing.T) {
		_, err := env.applicationService.Create(ctx, 9999, &CreateApplicationInput{
			LoanAmount:      25000,
			RepaymentPeriod: 12,
		})
		assert.ErrorIs(t, err, ErrApplicantNotFound)
	})
}

func TestChangeStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("approval emits exactly one success notification", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createTestUser(t)
		app := env.submitApplication(t, user.ID, 25000, 12)

		updated, err := env.applicationService.ChangeStatus(ctx, app.ID, &ChangeStatusInput{
			Status: domain.StatusApproved,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, updated.Status)
		assert.EqualValues(t, 1, env.countNotifications(t, user.ID, domain.NotifySuccess))

		// A pending processing fee charge is recorded
		var charge models.Charge
		require.NoError(t, env.db.Where("application_id = ?", app.ID).First(&charge).Error)
		assert.Equal(t, domain.ChargeProcessingFee, charge.Type)
		assert.Equal(t, domain.ChargePending, charge.Status)
		assert.InDelta(t, 500.0, charge.Amount, 0.001) // 2% of 25000
	})

	t.Run("rejection records the reason", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createTestUser(t)
		app := env.submitApplication(t, user.ID, 25000, 12)

		updated, err := env.applicationService.ChangeStatus(ctx, app.ID, &ChangeStatusInput{
			Status: domain.StatusRejected,
			Reason: "insufficient credit history",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRejected, updated.Status)
		assert.Equal(t, "insufficient credit history", updated.RejectionReason)
		assert.EqualValues(t, 1, env.countNotifications(t, user.ID, domain.NotifyError))
	})

	t.Run("terminal statuses cannot move", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createTestUser(t)
		app := env.submitApplication(t, user.ID, 25000, 12)

		_, err := env.applicationService.ChangeStatus(ctx, app.ID, &ChangeStatusInput{Status: domain.StatusApproved})
		require.NoError(t, err)

		_, err = env.applicationService.ChangeStatus(ctx, app.ID, &ChangeStatusInput{Status: domain.StatusRejected})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("review can still be decided", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createTestUser(t)
		app := env.submitApplication(t, user.ID, 25000, 12)

		_, err := env.applicationService.ChangeStatus(ctx, app.ID, &ChangeStatusInput{Status: domain.StatusReview})
		require.NoError(t, err)

		updated, err := env.applicationService.ChangeStatus(ctx, app.ID, &ChangeStatusInput{Status: domain.StatusApproved})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, updated.Status)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createTestUser(t)
		app := env.submitApplication(t, user.ID, 25000, 12)

		_, err := env.applicationService.ChangeStatus(ctx, app.ID, &ChangeStatusInput{Status: "FROZEN"})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("missing application returns not found", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.applicationService.ChangeStatus(ctx, 42, &ChangeStatusInput{Status: domain.StatusApproved})
		assert.ErrorIs(t, err, ErrApplicationNotFound)
	})
}

func TestConfirmFee(t *testing.T) {
	ctx := context.Background()

	t.Run("approved application gets a loan with flat interest figures", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createTestUser(t)
		app := env.submitApplication(t, user.ID, 25000, 12)

		_, err := env.applicationService.ChangeStatus(ctx, app.ID, &ChangeStatusInput{Status: domain.StatusApproved})
		require.NoError(t, err)

		updated, loan, err := env.applicationService.ConfirmFee(ctx, app.ID)
		require.NoError(t, err)
		require.NotNil(t, loan)

		assert.True(t, updated.ProcessingFeePaid)
		assert.Equal(t, domain.LoanActive, loan.Status)
		assert.Equal(t, 25000.0, loan.PrincipalAmount)
		assert.InDelta(t, 0.06, loan.InterestRate, 1e-9)
		assert.InDelta(t, 18000.0, loan.TotalInterest, 0.001)   // 25000 * 0.06 * 12
		assert.InDelta(t, 43000.0, loan.TotalRepayment, 0.001)  // principal + interest
		assert.InDelta(t, 3583.333, loan.MonthlyInstallment, 0.001)
		assert.Equal(t, loan.StartDate.AddDate(0, 12, 0), loan.EndDate)

		// Twelve PENDING installments are scheduled
		var repayments []models.Repayment
		require.NoError(t, env.db.Where("loan_id = ?", loan.ID).Order("installment_no").Find(&repayments).Error)
		require.Len(t, repayments, 12)
		for i, r := range repayments {
			assert.Equal(t, i+1, r.InstallmentNo)
			assert.Equal(t, domain.RepaymentPending, r.Status)
			assert.InDelta(t, loan.MonthlyInstallment, r.Amount, 0.001)
		}

		// The processing fee charge flips to PAID
		var charge models.Charge
		require.NoError(t, env.db.Where("application_id = ?", app.ID).First(&charge).Error)
		assert.Equal(t, domain.ChargePaid, charge.Status)
		assert.NotNil(t, charge.PaidAt)

		// Disbursement notification on top of approval and intake
		assert.EqualValues(t, 2, env.countNotifications(t, user.ID, domain.NotifySuccess))
	})

	t.Run("second confirmation is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createTestUser(t)
		app := env.submitApplication(t, user.ID, 25000, 12)

		_, err := env.applicationService.ChangeStatus(ctx, app.ID, &ChangeStatusInput{Status: domain.StatusApproved})
		require.NoError(t, err)

		_, _, err = env.applicationService.ConfirmFee(ctx, app.ID)
		require.NoError(t, err)

		_, _, err = env.applicationService.ConfirmFee(ctx, app.ID)
		assert.ErrorIs(t, err, ErrFeeAlreadyConfirmed)

		// Still exactly one loan
		var count int64
		env.db.Model(&models.Loan{}).Where("application_id = ?", app.ID).Count(&count)
		assert.EqualValues(t, 1, count)
	})

	t.Run("fee on a submitted application does not create a loan", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createTestUser(t)
		app := env.submitApplication(t, user.ID, 25000, 12)

		updated, loan, err := env.applicationService.ConfirmFee(ctx, app.ID)
		require.NoError(t, err)
		assert.Nil(t, loan)
		assert.True(t, updated.ProcessingFeePaid)

		var count int64
		env.db.Model(&models.Loan{}).Count(&count)
		assert.EqualValues(t, 0, count)
	})
}

func TestUpdateProgress(t *testing.T) {
	env := newTestEnv(t)
	user := env.createTestUser(t)
	ctx := context.Background()
	app := env.submitApplication(t, user.ID, 25000, 12)

	t.Run("valid progress is stored", func(t *testing.T) {
		updated, err := env.applicationService.UpdateProgress(ctx, app.ID, &UpdateProgressInput{
			Progress: 60,
			Note:     "Income documents verified",
		})
		require.NoError(t, err)
		assert.Equal(t, 60, updated.ProcessingProgress)
		assert.Equal(t, "Income documents verified", updated.ProgressNote)
	})

	t.Run("progress outside 0-100 is rejected", func(t *testing.T) {
		_, err := env.applicationService.UpdateProgress(ctx, app.ID, &UpdateProgressInput{Progress: 120})
		assert.ErrorIs(t, err, ErrInvalidProgress)

		_, err = env.applicationService.UpdateProgress(ctx, app.ID, &UpdateProgressInput{Progress: -1})
		assert.ErrorIs(t, err, ErrInvalidProgress)
	})
}

func TestListApplications(t *testing.T) {
	env := newTestEnv(t)
	user := env.createTestUser(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		env.submitApplication(t, user.ID, 25000, 12)
	}
	app := env.submitApplication(t, user.ID, 30000, 6)
	_, err := env.applicationService.ChangeStatus(ctx, app.ID, &ChangeStatusInput{Status: domain.StatusApproved})
	require.NoError(t, err)

	t.Run("list all", func(t *testing.T) {
		apps, total, err := env.applicationService.List(ctx, nil, &pagination.Params{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 4, total)
		assert.Len(t, apps, 4)
	})

	t.Run("filter by status", func(t *testing.T) {
		approved := domain.StatusApproved
		_, total, err := env.applicationService.List(ctx, &approved, &pagination.Params{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
	})

	t.Run("pagination", func(t *testing.T) {
		apps, total, err := env.applicationService.List(ctx, nil, &pagination.Params{Page: 2, Limit: 3, Offset: 3})
		require.NoError(t, err)
		assert.EqualValues(t, 4, total)
		assert.Len(t, apps, 1)
	})

	t.Run("list by user", func(t *testing.T) {
		apps, err := env.applicationService.ListByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, apps, 4)
	})
}
