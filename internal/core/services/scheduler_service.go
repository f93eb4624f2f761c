package services

import (
	"context"
	"log"
	"time"

	"quickcred-backend/internal/adapters/persistence/repositories"
	"quickcred-backend/internal/core/domain"

	"github.com/robfig/cron/v3"
)

// reminderWindowDays is how many days ahead the due-soon reminder looks
const reminderWindowDays = 3

// SchedulerService runs the daily repayment checks: pending
// installments past their due date are marked OVERDUE and borrowers
// with an installment due soon get a reminder.
type SchedulerService struct {
	cron             *cron.Cron
	loanRepo         *repositories.LoanRepository
	repaymentRepo    *repositories.RepaymentRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	notifyService    *NotificationService
}

// NewSchedulerService creates a new scheduler service
func NewSchedulerService(
	loanRepo *repositories.LoanRepository,
	repaymentRepo *repositories.RepaymentRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	notifyService *NotificationService,
) *SchedulerService {
	return &SchedulerService{
		cron:             cron.New(),
		loanRepo:         loanRepo,
		repaymentRepo:    repaymentRepo,
		refreshTokenRepo: refreshTokenRepo,
		notifyService:    notifyService,
	}
}

// Start registers and starts the cron jobs
func (s *SchedulerService) Start() error {
	// Daily repayment sweep at 08:30
	if _, err := s.cron.AddFunc("30 8 * * *", s.runDailySweep); err != nil {
		return err
	}

	// Purge expired refresh tokens nightly
	if _, err := s.cron.AddFunc("0 3 * * *", s.purgeExpiredTokens); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("✅ Scheduler started: daily repayment sweep at 08:30")
	return nil
}

// Stop stops the cron scheduler and waits for running jobs
func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Scheduler stopped")
}

// runDailySweep marks overdue installments and sends due-soon reminders
func (s *SchedulerService) runDailySweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	log.Println("⏰ Running daily repayment sweep...")

	overdue := s.markOverdue(ctx)
	reminders := s.sendDueReminders(ctx)

	log.Printf("✅ Repayment sweep done: %d marked overdue, %d reminders sent", overdue, reminders)
}

// markOverdue flips PENDING installments past their due date to OVERDUE
func (s *SchedulerService) markOverdue(ctx context.Context) int {
	repayments, err := s.repaymentRepo.ListDueBefore(ctx, time.Now())
	if err != nil {
		log.Printf("❌ Failed to list overdue installments: %v", err)
		return 0
	}

	marked := 0
	for _, r := range repayments {
		r.Status = domain.RepaymentOverdue
		if err := s.repaymentRepo.Update(ctx, r); err != nil {
			log.Printf("❌ Failed to mark installment %d of loan %d overdue: %v", r.InstallmentNo, r.LoanID, err)
			continue
		}
		marked++

		loan, err := s.loanRepo.GetByID(ctx, r.LoanID)
		if err != nil {
			continue
		}
		s.notifyService.NotifyInstallmentOverdue(ctx, loan, r)
	}

	return marked
}

// sendDueReminders notifies borrowers with an installment due within
// the reminder window
func (s *SchedulerService) sendDueReminders(ctx context.Context) int {
	now := time.Now()
	repayments, err := s.repaymentRepo.ListDueBetween(ctx, now, now.AddDate(0, 0, reminderWindowDays))
	if err != nil {
		log.Printf("❌ Failed to list upcoming installments: %v", err)
		return 0
	}

	sent := 0
	for _, r := range repayments {
		loan, err := s.loanRepo.GetByID(ctx, r.LoanID)
		if err != nil {
			continue
		}
		s.notifyService.NotifyInstallmentDue(ctx, loan, r)
		sent++
	}

	return sent
}

// purgeExpiredTokens deletes expired refresh tokens
func (s *SchedulerService) purgeExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.refreshTokenRepo.DeleteExpired(ctx); err != nil {
		log.Printf("❌ Failed to purge expired refresh tokens: %v", err)
		return
	}
	log.Println("✅ Expired refresh tokens purged")
}
