package handlers

import (
	"errors"

	"quickcred-backend/internal/core/services"
	"quickcred-backend/internal/pkg/pagination"
	"quickcred-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles loan endpoints
type LoanHandler struct {
	loanService *services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// ListMine lists the authenticated user's loans
// @Summary List own loans
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/loans/my [get]
func (h *LoanHandler) ListMine(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	loans, err := h.loanService.ListByUser(c.UserContext(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list loans")
	}

	responses := make([]interface{}, 0, len(loans))
	for _, loan := range loans {
		responses = append(responses, loan.ToResponse())
	}

	return response.Success(c, "Loans retrieved", responses)
}

// GetMySchedule gets the repayment schedule of one of the user's loans
// @Summary Get own loan repayment schedule
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/loans/{id}/schedule [get]
func (h *LoanHandler) GetMySchedule(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	loanID, err := c.ParamsInt("id")
	if err != nil || loanID < 1 {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.loanService.GetByID(c.UserContext(), uint(loanID))
	if err != nil {
		if errors.Is(err, services.ErrLoanNotFound) {
			return response.NotFound(c, "Loan not found")
		}
		return response.InternalServerError(c, "Failed to get loan")
	}

	if loan.UserID != userID {
		return response.NotFound(c, "Loan not found")
	}

	schedule, err := h.loanService.GetSchedule(c.UserContext(), uint(loanID))
	if err != nil {
		return response.InternalServerError(c, "Failed to get schedule")
	}

	return response.Success(c, "Schedule retrieved", fiber.Map{
		"loan":     loan.ToResponse(),
		"schedule": schedule,
	})
}

// List lists all loans (admin)
// @Summary List loans
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /api/admin/loans [get]
func (h *LoanHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	loans, total, err := h.loanService.List(c.UserContext(), params)
	if err != nil {
		return response.InternalServerError(c, "Failed to list loans")
	}

	responses := make([]interface{}, 0, len(loans))
	for _, loan := range loans {
		responses = append(responses, loan.ToResponse())
	}

	return response.Success(c, "Loans retrieved", pagination.NewResponse(responses, params, total))
}

// Get gets a loan with its schedule (admin)
// @Summary Get loan by ID
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/admin/loans/{id} [get]
func (h *LoanHandler) Get(c *fiber.Ctx) error {
	loanID, err := c.ParamsInt("id")
	if err != nil || loanID < 1 {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.loanService.GetByID(c.UserContext(), uint(loanID))
	if err != nil {
		if errors.Is(err, services.ErrLoanNotFound) {
			return response.NotFound(c, "Loan not found")
		}
		return response.InternalServerError(c, "Failed to get loan")
	}

	schedule, err := h.loanService.GetSchedule(c.UserContext(), uint(loanID))
	if err != nil {
		return response.InternalServerError(c, "Failed to get schedule")
	}

	return response.Success(c, "Loan retrieved", fiber.Map{
		"loan":     loan.ToResponse(),
		"schedule": schedule,
	})
}

// RecordRepayment marks one installment as paid (admin)
// @Summary Record an installment payment
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param no path int true "Installment number"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/admin/loans/{id}/repayments/{no}/pay [post]
func (h *LoanHandler) RecordRepayment(c *fiber.Ctx) error {
	loanID, err := c.ParamsInt("id")
	if err != nil || loanID < 1 {
		return response.BadRequest(c, "Invalid loan ID")
	}

	installmentNo, err := c.ParamsInt("no")
	if err != nil || installmentNo < 1 {
		return response.BadRequest(c, "Invalid installment number")
	}

	repayment, err := h.loanService.RecordRepayment(c.UserContext(), uint(loanID), installmentNo)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLoanNotFound):
			return response.NotFound(c, "Loan not found")
		case errors.Is(err, services.ErrInstallmentNotFound):
			return response.NotFound(c, "Installment not found")
		case errors.Is(err, services.ErrInstallmentPaid):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to record repayment")
		}
	}

	return response.Success(c, "Repayment recorded", repayment)
}
