package services

import (
	"context"
	"errors"
	"time"

	"quickcred-backend/internal/adapters/persistence/models"
	"quickcred-backend/internal/adapters/persistence/repositories"
	"quickcred-backend/internal/core/domain"
	"quickcred-backend/internal/pkg/pagination"

	"gorm.io/gorm"
)

// Loan service errors
var (
	ErrLoanNotFound        = errors.New("loan not found")
	ErrInstallmentNotFound = errors.New("installment not found")
	ErrInstallmentPaid     = errors.New("installment already paid")
)

// LoanService handles loans and their repayment schedules
type LoanService struct {
	loanRepo      *repositories.LoanRepository
	repaymentRepo *repositories.RepaymentRepository
	notifyService *NotificationService
}

// NewLoanService creates a new loan service
func NewLoanService(
	loanRepo *repositories.LoanRepository,
	repaymentRepo *repositories.RepaymentRepository,
	notifyService *NotificationService,
) *LoanService {
	return &LoanService{
		loanRepo:      loanRepo,
		repaymentRepo: repaymentRepo,
		notifyService: notifyService,
	}
}

// GetByID gets a loan by ID
func (s *LoanService) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	return loan, nil
}

// ListByUser gets the loans of one user
func (s *LoanService) ListByUser(ctx context.Context, userID uint) ([]*models.Loan, error) {
	return s.loanRepo.ListByUserID(ctx, userID)
}

// List lists all loans with pagination
func (s *LoanService) List(ctx context.Context, params *pagination.Params) ([]*models.Loan, int64, error) {
	return s.loanRepo.List(ctx, params.Offset, params.Limit)
}

// GetSchedule gets the installment schedule of a loan
func (s *LoanService) GetSchedule(ctx context.Context, loanID uint) ([]*models.Repayment, error) {
	if _, err := s.loanRepo.GetByID(ctx, loanID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	return s.repaymentRepo.ListByLoanID(ctx, loanID)
}

// RecordRepayment marks one installment as paid. When the last unpaid
// installment is settled the loan moves to COMPLETED and the borrower
// is notified.
func (s *LoanService) RecordRepayment(ctx context.Context, loanID uint, installmentNo int) (*models.Repayment, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}

	repayment, err := s.repaymentRepo.GetByLoanAndInstallment(ctx, loanID, installmentNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInstallmentNotFound
		}
		return nil, err
	}

	if repayment.Status == domain.RepaymentPaid {
		return nil, ErrInstallmentPaid
	}

	now := time.Now()
	repayment.Status = domain.RepaymentPaid
	repayment.PaidAt = &now

	if err := s.repaymentRepo.Update(ctx, repayment); err != nil {
		return nil, err
	}

	unpaid, err := s.repaymentRepo.CountUnpaidByLoanID(ctx, loanID)
	if err != nil {
		return repayment, nil
	}

	if unpaid == 0 && loan.Status == domain.LoanActive {
		loan.Status = domain.LoanCompleted
		if err := s.loanRepo.Update(ctx, loan); err != nil {
			return nil, err
		}
		s.notifyService.NotifyLoanCompleted(ctx, loan)
	}

	return repayment, nil
}
