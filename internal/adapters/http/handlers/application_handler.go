package handlers

import (
	"errors"

	"quickcred-backend/internal/core/domain"
	"quickcred-backend/internal/core/services"
	"quickcred-backend/internal/pkg/pagination"
	"quickcred-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ApplicationHandler handles loan application endpoints
type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

// Create submits a new loan application
// @Summary Submit a loan application
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.CreateApplicationInput true "Application data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/applications [post]
func (h *ApplicationHandler) Create(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var input services.CreateApplicationInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if input.LoanAmount <= 0 {
		return response.BadRequest(c, "Loan amount must be greater than zero")
	}
	if input.RepaymentPeriod < 1 {
		return response.BadRequest(c, "Repayment period must be at least one month")
	}

	app, err := h.applicationService.Create(c.UserContext(), userID, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAmountOutOfRange),
			errors.Is(err, services.ErrPeriodOutOfRange):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrApplicantNotFound):
			return response.NotFound(c, "Applicant not found")
		default:
			return response.InternalServerError(c, "Failed to submit application")
		}
	}

	return response.Created(c, "Application submitted", app.ToResponse())
}

// ListMine lists the authenticated user's applications
// @Summary List own applications
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/applications/my [get]
func (h *ApplicationHandler) ListMine(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	apps, err := h.applicationService.ListByUser(c.UserContext(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list applications")
	}

	responses := make([]interface{}, 0, len(apps))
	for _, app := range apps {
		responses = append(responses, app.ToResponse())
	}

	return response.Success(c, "Applications retrieved", responses)
}

// GetMine gets one of the authenticated user's applications
// @Summary Get own application by ID
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/applications/{id} [get]
func (h *ApplicationHandler) GetMine(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	appID, err := c.ParamsInt("id")
	if err != nil || appID < 1 {
		return response.BadRequest(c, "Invalid application ID")
	}

	app, err := h.applicationService.GetByID(c.UserContext(), uint(appID))
	if err != nil {
		if errors.Is(err, services.ErrApplicationNotFound) {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to get application")
	}

	// Users may only see their own applications
	if app.UserID != userID {
		return response.NotFound(c, "Application not found")
	}

	return response.Success(c, "Application retrieved", app.ToResponse())
}

// List lists all applications (admin)
// @Summary List applications
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Response
// @Router /api/admin/applications [get]
func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	var status *domain.ApplicationStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.ApplicationStatus(raw)
		if !domain.IsValidStatus(s) {
			return response.BadRequest(c, "Unknown application status")
		}
		status = &s
	}

	apps, total, err := h.applicationService.List(c.UserContext(), status, params)
	if err != nil {
		return response.InternalServerError(c, "Failed to list applications")
	}

	responses := make([]interface{}, 0, len(apps))
	for _, app := range apps {
		responses = append(responses, app.ToResponse())
	}

	return response.Success(c, "Applications retrieved", pagination.NewResponse(responses, params, total))
}

// Get gets any application by ID (admin)
// @Summary Get application by ID
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/admin/applications/{id} [get]
func (h *ApplicationHandler) Get(c *fiber.Ctx) error {
	appID, err := c.ParamsInt("id")
	if err != nil || appID < 1 {
		return response.BadRequest(c, "Invalid application ID")
	}

	app, err := h.applicationService.GetByID(c.UserContext(), uint(appID))
	if err != nil {
		if errors.Is(err, services.ErrApplicationNotFound) {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to get application")
	}

	return response.Success(c, "Application retrieved", app.ToResponse())
}

// ChangeStatus moves an application to a new status (admin)
// @Summary Change application status
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param request body services.ChangeStatusInput true "Target status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/admin/applications/{id}/status [patch]
func (h *ApplicationHandler) ChangeStatus(c *fiber.Ctx) error {
	appID, err := c.ParamsInt("id")
	if err != nil || appID < 1 {
		return response.BadRequest(c, "Invalid application ID")
	}

	var input services.ChangeStatusInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	app, err := h.applicationService.ChangeStatus(c.UserContext(), uint(appID), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, services.ErrInvalidStatus),
			errors.Is(err, services.ErrInvalidTransition):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to change status")
		}
	}

	return response.Success(c, "Status updated", app.ToResponse())
}

// UpdateProgress updates an application's processing progress (admin)
// @Summary Update processing progress
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param request body services.UpdateProgressInput true "Progress data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/admin/applications/{id}/progress [patch]
func (h *ApplicationHandler) UpdateProgress(c *fiber.Ctx) error {
	appID, err := c.ParamsInt("id")
	if err != nil || appID < 1 {
		return response.BadRequest(c, "Invalid application ID")
	}

	var input services.UpdateProgressInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	app, err := h.applicationService.UpdateProgress(c.UserContext(), uint(appID), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, services.ErrInvalidProgress):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to update progress")
		}
	}

	return response.Success(c, "Progress updated", app.ToResponse())
}

// ConfirmFee confirms the processing fee payment (admin)
// @Summary Confirm processing fee payment
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/admin/applications/{id}/confirm-fee [post]
func (h *ApplicationHandler) ConfirmFee(c *fiber.Ctx) error {
	appID, err := c.ParamsInt("id")
	if err != nil || appID < 1 {
		return response.BadRequest(c, "Invalid application ID")
	}

	app, loan, err := h.applicationService.ConfirmFee(c.UserContext(), uint(appID))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, services.ErrFeeAlreadyConfirmed),
			errors.Is(err, services.ErrLoanAlreadyExists):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to confirm fee")
		}
	}

	data := fiber.Map{"application": app.ToResponse()}
	message := "Processing fee confirmed"
	if loan != nil {
		data["loan"] = loan.ToResponse()
		message = "Processing fee confirmed, loan disbursed"
	}

	return response.Success(c, message, data)
}

// GetCharges lists charges for an application (admin)
// @Summary List application charges
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/admin/applications/{id}/charges [get]
func (h *ApplicationHandler) GetCharges(c *fiber.Ctx) error {
	appID, err := c.ParamsInt("id")
	if err != nil || appID < 1 {
		return response.BadRequest(c, "Invalid application ID")
	}

	charges, err := h.applicationService.GetCharges(c.UserContext(), uint(appID))
	if err != nil {
		if errors.Is(err, services.ErrApplicationNotFound) {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to list charges")
	}

	return response.Success(c, "Charges retrieved", charges)
}
