package services

import (
	"context"
	"testing"
	"time"

	"quickcred-backend/internal/adapters/persistence/models"
	"quickcred-backend/internal/adapters/persistence/repositories"
	"quickcred-backend/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSchedulerTestEnv(t *testing.T) (*testEnv, *SchedulerService) {
	t.Helper()
	env := newTestEnv(t)

	scheduler := NewSchedulerService(
		repositories.NewLoanRepository(env.db),
		repositories.NewRepaymentRepository(env.db),
		repositories.NewRefreshTokenRepository(env.db),
		env.notifyService,
	)
	return env, scheduler
}

func TestMarkOverdue(t *testing.T) {
	env, scheduler := newSchedulerTestEnv(t)
	user := env.createTestUser(t)
	loan := disburseLoan(t, env, user.ID, 25000, 12)
	ctx := context.Background()

	// Backdate the first installment past its due date
	require.NoError(t, env.db.Model(&models.Repayment{}).
		Where("loan_id = ? AND installment_no = ?", loan.ID, 1).
		Update("due_date", time.Now().AddDate(0, 0, -5)).Error)

	marked := scheduler.markOverdue(ctx)
	assert.Equal(t, 1, marked)

	var repayment models.Repayment
	require.NoError(t, env.db.Where("loan_id = ? AND installment_no = ?", loan.ID, 1).First(&repayment).Error)
	assert.Equal(t, domain.RepaymentOverdue, repayment.Status)

	assert.EqualValues(t, 1, env.countNotifications(t, user.ID, domain.NotifyError))

	// A second sweep finds nothing new
	assert.Equal(t, 0, scheduler.markOverdue(ctx))
}

func TestSendDueReminders(t *testing.T) {
	env, scheduler := newSchedulerTestEnv(t)
	user := env.createTestUser(t)
	loan := disburseLoan(t, env, user.ID, 25000, 12)
	ctx := context.Background()

	// Move the first installment into the reminder window
	require.NoError(t, env.db.Model(&models.Repayment{}).
		Where("loan_id = ? AND installment_no = ?", loan.ID, 1).
		Update("due_date", time.Now().AddDate(0, 0, 1)).Error)

	sent := scheduler.sendDueReminders(ctx)
	assert.Equal(t, 1, sent)

	// Paid installments get no reminder
	_, err := env.loanService.RecordRepayment(ctx, loan.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, scheduler.sendDueReminders(ctx))
}
