package repositories

import (
	"context"
	"time"

	"quickcred-backend/internal/adapters/persistence/models"
	"quickcred-backend/internal/core/domain"

	"gorm.io/gorm"
)

// LoanRepository handles loan data access
type LoanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

// Create creates a new loan. The unique index on application_id makes
// this fail for a second loan on the same application.
func (r *LoanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

// GetByID gets a loan by ID with relations
func (r *LoanRepository) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Application").
		First(&loan, id).Error
	return &loan, err
}

// GetByApplicationID gets the loan created for an application
func (r *LoanRepository) GetByApplicationID(ctx context.Context, applicationID uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		First(&loan).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// ExistsByApplicationID checks if a loan already exists for an application
func (r *LoanRepository) ExistsByApplicationID(ctx context.Context, applicationID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Loan{}).
		Where("application_id = ?", applicationID).
		Count(&count).Error
	return count > 0, err
}

// ListByUserID gets loans belonging to a user
func (r *LoanRepository) ListByUserID(ctx context.Context, userID uint) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&loans).Error
	return loans, err
}

// List lists all loans with pagination
func (r *LoanRepository) List(ctx context.Context, offset, limit int) ([]*models.Loan, int64, error) {
	var loans []*models.Loan
	var total int64

	r.db.WithContext(ctx).Model(&models.Loan{}).Count(&total)

	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&loans).Error

	return loans, total, err
}

// Update updates a loan
func (r *LoanRepository) Update(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Save(loan).Error
}

// RepaymentRepository handles repayment schedule data access
type RepaymentRepository struct {
	db *gorm.DB
}

// NewRepaymentRepository creates a new repayment repository
func NewRepaymentRepository(db *gorm.DB) *RepaymentRepository {
	return &RepaymentRepository{db: db}
}

// CreateBatch inserts a full installment schedule
func (r *RepaymentRepository) CreateBatch(ctx context.Context, repayments []*models.Repayment) error {
	return r.db.WithContext(ctx).Create(&repayments).Error
}

// GetByLoanAndInstallment gets one installment of a loan
func (r *RepaymentRepository) GetByLoanAndInstallment(ctx context.Context, loanID uint, installmentNo int) (*models.Repayment, error) {
	var repayment models.Repayment
	err := r.db.WithContext(ctx).
		Where("loan_id = ? AND installment_no = ?", loanID, installmentNo).
		First(&repayment).Error
	if err != nil {
		return nil, err
	}
	return &repayment, nil
}

// ListByLoanID gets the schedule for a loan in installment order
func (r *RepaymentRepository) ListByLoanID(ctx context.Context, loanID uint) ([]*models.Repayment, error) {
	var repayments []*models.Repayment
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("installment_no ASC").
		Find(&repayments).Error
	return repayments, err
}

// Update updates a repayment row
func (r *RepaymentRepository) Update(ctx context.Context, repayment *models.Repayment) error {
	return r.db.WithContext(ctx).Save(repayment).Error
}

// CountUnpaidByLoanID counts installments not yet paid
func (r *RepaymentRepository) CountUnpaidByLoanID(ctx context.Context, loanID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Repayment{}).
		Where("loan_id = ? AND status <> ?", loanID, domain.RepaymentPaid).
		Count(&count).Error
	return count, err
}

// ListDueBefore gets PENDING installments with a due date before the cutoff
func (r *RepaymentRepository) ListDueBefore(ctx context.Context, cutoff time.Time) ([]*models.Repayment, error) {
	var repayments []*models.Repayment
	err := r.db.WithContext(ctx).
		Preload("Loan").
		Where("status = ? AND due_date < ?", domain.RepaymentPending, cutoff).
		Find(&repayments).Error
	return repayments, err
}

// ListDueBetween gets PENDING installments due inside a window (for reminders)
func (r *RepaymentRepository) ListDueBetween(ctx context.Context, from, to time.Time) ([]*models.Repayment, error) {
	var repayments []*models.Repayment
	err := r.db.WithContext(ctx).
		Preload("Loan").
		Where("status = ? AND due_date >= ? AND due_date < ?", domain.RepaymentPending, from, to).
		Find(&repayments).Error
	return repayments, err
}
