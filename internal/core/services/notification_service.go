package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"quickcred-backend/internal/adapters/persistence/models"
	"quickcred-backend/internal/adapters/persistence/repositories"
	"quickcred-backend/internal/core/domain"
	"quickcred-backend/internal/pkg/pagination"
)

// ErrNotificationNotFound is returned when a notification does not exist
// or belongs to another user
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService writes notification rows on workflow transitions.
// Writes are best-effort: a failed insert is logged and never rolls back
// the transition that triggered it, and repeated calls produce repeated rows.
type NotificationService struct {
	notificationRepo *repositories.NotificationRepository
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationRepo *repositories.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// ListByUser gets a user's notifications, newest first, with the
// unread count
func (s *NotificationService) ListByUser(ctx context.Context, userID uint, params *pagination.Params) ([]*models.Notification, int64, int64, error) {
	notifications, total, err := s.notificationRepo.ListByUserID(ctx, userID, params.Offset, params.Limit)
	if err != nil {
		return nil, 0, 0, err
	}

	unread, err := s.notificationRepo.CountUnreadByUserID(ctx, userID)
	if err != nil {
		return nil, 0, 0, err
	}

	return notifications, total, unread, nil
}

// MarkRead marks one of the user's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	n, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return ErrNotificationNotFound
	}
	if n.UserID != userID {
		return ErrNotificationNotFound
	}
	return s.notificationRepo.MarkRead(ctx, notificationID)
}

// emit appends a notification row, logging on failure
func (s *NotificationService) emit(ctx context.Context, n *models.Notification) {
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		log.Printf("⚠️ Failed to write notification for user %d: %v", n.UserID, err)
	}
}

// NotifyApplicationReceived notifies the applicant that their application was recorded
func (s *NotificationService) NotifyApplicationReceived(ctx context.Context, app *models.Application) {
	s.emit(ctx, &models.Notification{
		UserID:        app.UserID,
		ApplicationID: &app.ID,
		Type:          domain.NotifyInfo,
		Title:         "Application received",
		Message: fmt.Sprintf("Your loan application #%d for %.2f over %d months has been received and is being processed.",
			app.ID, app.LoanAmount, app.RepaymentPeriod),
	})
}

// NotifyApproved notifies the applicant of an approval
func (s *NotificationService) NotifyApproved(ctx context.Context, app *models.Application) {
	s.emit(ctx, &models.Notification{
		UserID:        app.UserID,
		ApplicationID: &app.ID,
		Type:          domain.NotifySuccess,
		Title:         "Application approved",
		Message: fmt.Sprintf("Congratulations! Your loan application #%d for %.2f has been approved. Pay the processing fee to receive your funds.",
			app.ID, app.LoanAmount),
		Persistent: true,
	})
}

// NotifyRejected notifies the applicant of a rejection
func (s *NotificationService) NotifyRejected(ctx context.Context, app *models.Application, reason string) {
	message := fmt.Sprintf("Unfortunately your loan application #%d was not approved.", app.ID)
	if reason != "" {
		message += " Reason: " + reason
	}

	s.emit(ctx, &models.Notification{
		UserID:        app.UserID,
		ApplicationID: &app.ID,
		Type:          domain.NotifyError,
		Title:         "Application rejected",
		Message:       message,
		Persistent:    true,
	})
}

// NotifyInReview notifies the applicant that their application needs review
func (s *NotificationService) NotifyInReview(ctx context.Context, app *models.Application) {
	s.emit(ctx, &models.Notification{
		UserID:        app.UserID,
		ApplicationID: &app.ID,
		Type:          domain.NotifyInfo,
		Title:         "Application under review",
		Message: fmt.Sprintf("Your loan application #%d requires additional review. We will notify you once a decision is made.",
			app.ID),
	})
}

// NotifyProgressUpdate notifies the applicant of a processing progress change
func (s *NotificationService) NotifyProgressUpdate(ctx context.Context, app *models.Application) {
	message := fmt.Sprintf("Your loan application #%d is now %d%% processed.", app.ID, app.ProcessingProgress)
	if app.ProgressNote != "" {
		message += " " + app.ProgressNote
	}

	s.emit(ctx, &models.Notification{
		UserID:        app.UserID,
		ApplicationID: &app.ID,
		Type:          domain.NotifyInfo,
		Title:         "Processing update",
		Message:       message,
	})
}

// NotifyLoanDisbursed notifies the borrower that their loan is active
func (s *NotificationService) NotifyLoanDisbursed(ctx context.Context, loan *models.Loan) {
	s.emit(ctx, &models.Notification{
		UserID: loan.UserID,
		LoanID: &loan.ID,
		Type:   domain.NotifySuccess,
		Title:  "Loan disbursed",
		Message: fmt.Sprintf("Your loan of %.2f has been disbursed. Repay %.2f per month until %s.",
			loan.PrincipalAmount, loan.MonthlyInstallment, loan.EndDate.Format("2 Jan 2006")),
		Persistent: true,
	})
}

// NotifyLoanCompleted notifies the borrower that all installments are paid
func (s *NotificationService) NotifyLoanCompleted(ctx context.Context, loan *models.Loan) {
	s.emit(ctx, &models.Notification{
		UserID: loan.UserID,
		LoanID: &loan.ID,
		Type:   domain.NotifySuccess,
		Title:  "Loan fully repaid",
		Message: fmt.Sprintf("You have repaid your loan of %.2f in full. Thank you!",
			loan.PrincipalAmount),
		Persistent: true,
	})
}

// NotifyInstallmentDue reminds the borrower of an upcoming installment
func (s *NotificationService) NotifyInstallmentDue(ctx context.Context, loan *models.Loan, repayment *models.Repayment) {
	s.emit(ctx, &models.Notification{
		UserID: loan.UserID,
		LoanID: &loan.ID,
		Type:   domain.NotifyInfo,
		Title:  "Installment due soon",
		Message: fmt.Sprintf("Installment %d of %.2f is due on %s.",
			repayment.InstallmentNo, repayment.Amount, repayment.DueDate.Format("2 Jan 2006")),
	})
}

// NotifyInstallmentOverdue warns the borrower about a missed installment
func (s *NotificationService) NotifyInstallmentOverdue(ctx context.Context, loan *models.Loan, repayment *models.Repayment) {
	s.emit(ctx, &models.Notification{
		UserID: loan.UserID,
		LoanID: &loan.ID,
		Type:   domain.NotifyError,
		Title:  "Installment overdue",
		Message: fmt.Sprintf("Installment %d of %.2f was due on %s and is now overdue.",
			repayment.InstallmentNo, repayment.Amount, repayment.DueDate.Format("2 Jan 2006")),
		Persistent: true,
	})
}
