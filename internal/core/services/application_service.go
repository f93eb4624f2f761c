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

// Application service errors
var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrApplicantNotFound   = errors.New("applicant not found")
	ErrAmountOutOfRange    = errors.New("loan amount outside allowed range")
	ErrPeriodOutOfRange    = errors.New("repayment period outside allowed range")
	ErrInvalidStatus       = errors.New("invalid application status")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrFeeAlreadyConfirmed = errors.New("processing fee already confirmed")
	ErrLoanAlreadyExists   = errors.New("loan already exists for this application")
	ErrInvalidProgress     = errors.New("progress must be between 0 and 100")
)

// flatMonthlyRate is the flat monthly interest rate applied at loan creation.
// Kept as a constant rather than Settings.InterestRateDefault to match the
// original disbursement behavior.
const flatMonthlyRate = 0.06

// ApplicationService handles the application intake and status workflow
type ApplicationService struct {
	applicationRepo *repositories.ApplicationRepository
	loanRepo        *repositories.LoanRepository
	repaymentRepo   *repositories.RepaymentRepository
	chargeRepo      *repositories.ChargeRepository
	settingsRepo    *repositories.SettingsRepository
	userRepo        repositories.UserRepository
	notifyService   *NotificationService
}

// NewApplicationService creates a new application service
func NewApplicationService(
	applicationRepo *repositories.ApplicationRepository,
	loanRepo *repositories.LoanRepository,
	repaymentRepo *repositories.RepaymentRepository,
	chargeRepo *repositories.ChargeRepository,
	settingsRepo *repositories.SettingsRepository,
	userRepo repositories.UserRepository,
	notifyService *NotificationService,
) *ApplicationService {
	return &ApplicationService{
		applicationRepo: applicationRepo,
		loanRepo:        loanRepo,
		repaymentRepo:   repaymentRepo,
		chargeRepo:      chargeRepo,
		settingsRepo:    settingsRepo,
		userRepo:        userRepo,
		notifyService:   notifyService,
	}
}

// CreateApplicationInput represents application intake input
type CreateApplicationInput struct {
	LoanAmount      float64 `json:"loan_amount" validate:"required,gt=0"`
	RepaymentPeriod int     `json:"repayment_period" validate:"required,gt=0"`
}

// Create validates the request against the current settings bounds and
// persists a new application in SUBMITTED status.
func (s *ApplicationService) Create(ctx context.Context, userID uint, input *CreateApplicationInput) (*models.Application, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || user == nil {
		return nil, ErrApplicantNotFound
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if input.LoanAmount < settings.MinLoan || input.LoanAmount > settings.MaxLoan {
		return nil, ErrAmountOutOfRange
	}
	if input.RepaymentPeriod < 1 || input.RepaymentPeriod > settings.MaxMonths {
		return nil, ErrPeriodOutOfRange
	}

	app := &models.Application{
		UserID:             userID,
		LoanAmount:         input.LoanAmount,
		RepaymentPeriod:    input.RepaymentPeriod,
		Status:             domain.StatusSubmitted,
		ProcessingProgress: 0,
	}

	if err := s.applicationRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	s.notifyService.NotifyApplicationReceived(ctx, app)

	return app, nil
}

// GetByID gets an application by ID
func (s *ApplicationService) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	app, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

// ListByUser gets the applications of one user
func (s *ApplicationService) ListByUser(ctx context.Context, userID uint) ([]*models.Application, error) {
	return s.applicationRepo.ListByUserID(ctx, userID)
}

// List lists applications with pagination, optionally filtered by status
func (s *ApplicationService) List(ctx context.Context, status *domain.ApplicationStatus, params *pagination.Params) ([]*models.Application, int64, error) {
	return s.applicationRepo.List(ctx, status, params.Offset, params.Limit)
}

// ChangeStatusInput represents status transition input
type ChangeStatusInput struct {
	Status domain.ApplicationStatus `json:"status" validate:"required"`
	Reason string                   `json:"reason,omitempty"`
}

// ChangeStatus moves an application between statuses and emits the
// matching notification. The notification write is best-effort: its
// failure does not roll the status change back.
func (s *ApplicationService) ChangeStatus(ctx context.Context, applicationID uint, input *ChangeStatusInput) (*models.Application, error) {
	if !domain.IsValidStatus(input.Status) {
		return nil, ErrInvalidStatus
	}

	app, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}

	if !domain.CanTransition(app.Status, input.Status) {
		return nil, ErrInvalidTransition
	}

	app.Status = input.Status
	if input.Status == domain.StatusRejected {
		app.RejectionReason = input.Reason
	}

	if err := s.applicationRepo.Update(ctx, app); err != nil {
		return nil, err
	}

	switch input.Status {
	case domain.StatusApproved:
		s.createProcessingFeeCharge(ctx, app)
		s.notifyService.NotifyApproved(ctx, app)
	case domain.StatusRejected:
		s.notifyService.NotifyRejected(ctx, app, input.Reason)
	case domain.StatusReview:
		s.notifyService.NotifyInReview(ctx, app)
	}

	return app, nil
}

// createProcessingFeeCharge records the pending processing fee for an
// approved application. Best-effort, like the notification writes.
func (s *ApplicationService) createProcessingFeeCharge(ctx context.Context, app *models.Application) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return
	}

	charge := &models.Charge{
		ApplicationID: app.ID,
		Type:          domain.ChargeProcessingFee,
		Amount:        app.LoanAmount * settings.ProcessingFeePercent,
		Status:        domain.ChargePending,
	}
	s.chargeRepo.Create(ctx, charge)
}

// UpdateProgressInput represents processing progress input
type UpdateProgressInput struct {
	Progress int    `json:"progress"`
	Note     string `json:"note,omitempty"`
}

// UpdateProgress updates the processing progress of an application
func (s *ApplicationService) UpdateProgress(ctx context.Context, applicationID uint, input *UpdateProgressInput) (*models.Application, error) {
	if input.Progress < 0 || input.Progress > 100 {
		return nil, ErrInvalidProgress
	}

	app, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}

	app.ProcessingProgress = input.Progress
	app.ProgressNote = input.Note

	if err := s.applicationRepo.Update(ctx, app); err != nil {
		return nil, err
	}

	s.notifyService.NotifyProgressUpdate(ctx, app)

	return app, nil
}

// ConfirmFee marks the processing fee as paid. If the application is
// APPROVED this also materializes the loan: interest is computed at a
// flat monthly rate, the installment schedule is written, and a
// disbursement notification is emitted. At-most-once loan creation is
// backed by the unique index on loans.application_id; a concurrent
// second insert fails rather than duplicating.
func (s *ApplicationService) ConfirmFee(ctx context.Context, applicationID uint) (*models.Application, *models.Loan, error) {
	app, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrApplicationNotFound
		}
		return nil, nil, err
	}

	if app.ProcessingFeePaid {
		return nil, nil, ErrFeeAlreadyConfirmed
	}

	app.ProcessingFeePaid = true
	if err := s.applicationRepo.Update(ctx, app); err != nil {
		return nil, nil, err
	}

	// Mark the pending processing fee charge as paid, if one was recorded
	if charge, err := s.chargeRepo.GetByApplicationID(ctx, app.ID, domain.ChargeProcessingFee); err == nil {
		s.chargeRepo.MarkPaid(ctx, charge.ID)
	}

	if app.Status != domain.StatusApproved {
		return app, nil, nil
	}

	loan, err := s.createLoan(ctx, app)
	if err != nil {
		return nil, nil, err
	}

	s.notifyService.NotifyLoanDisbursed(ctx, loan)

	return app, loan, nil
}

// createLoan computes the repayment figures and persists the loan with
// its installment schedule
func (s *ApplicationService) createLoan(ctx context.Context, app *models.Application) (*models.Loan, error) {
	exists, err := s.loanRepo.ExistsByApplicationID(ctx, app.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrLoanAlreadyExists
	}

	principal := app.LoanAmount
	months := app.RepaymentPeriod

	monthlyInterest := principal * flatMonthlyRate
	totalInterest := monthlyInterest * float64(months)
	totalRepayment := principal + totalInterest
	monthlyInstallment := totalRepayment / float64(months)

	now := time.Now()
	loan := &models.Loan{
		ApplicationID:      app.ID,
		UserID:             app.UserID,
		PrincipalAmount:    principal,
		InterestRate:       flatMonthlyRate,
		TotalInterest:      totalInterest,
		TotalRepayment:     totalRepayment,
		MonthlyInstallment: monthlyInstallment,
		StartDate:          now,
		EndDate:            now.AddDate(0, months, 0),
		Status:             domain.LoanActive,
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrLoanAlreadyExists
		}
		return nil, err
	}

	// Installment schedule, one row per month
	repayments := make([]*models.Repayment, 0, months)
	for i := 1; i <= months; i++ {
		repayments = append(repayments, &models.Repayment{
			LoanID:        loan.ID,
			InstallmentNo: i,
			Amount:        monthlyInstallment,
			DueDate:       now.AddDate(0, i, 0),
			Status:        domain.RepaymentPending,
		})
	}
	if err := s.repaymentRepo.CreateBatch(ctx, repayments); err != nil {
		return nil, err
	}

	return loan, nil
}

// GetCharges lists the charges recorded against an application
func (s *ApplicationService) GetCharges(ctx context.Context, applicationID uint) ([]*models.Charge, error) {
	if _, err := s.applicationRepo.GetByID(ctx, applicationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return s.chargeRepo.ListByApplicationID(ctx, applicationID)
}
