package handlers

import (
	"quickcred-backend/internal/core/services"
	"quickcred-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AnalyticsHandler handles the admin dashboard endpoint
type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Dashboard returns portfolio aggregates (admin)
// @Summary Get dashboard analytics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/admin/analytics [get]
func (h *AnalyticsHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.analyticsService.GetDashboard(c.UserContext())
	if err != nil {
		return response.InternalServerError(c, "Failed to compute analytics")
	}

	return response.Success(c, "Analytics retrieved", out)
}
