package handlers

import (
	"errors"

	"quickcred-backend/internal/core/services"
	"quickcred-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SettingsHandler handles origination settings endpoints
type SettingsHandler struct {
	settingsService *services.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get returns the current origination settings (admin)
// @Summary Get origination settings
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/admin/settings [get]
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	settings, err := h.settingsService.Get(c.UserContext())
	if err != nil {
		return response.InternalServerError(c, "Failed to get settings")
	}

	return response.Success(c, "Settings retrieved", settings)
}

// Update applies a partial update to the origination settings (admin)
// @Summary Update origination settings
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.UpdateSettingsInput true "Settings fields"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/admin/settings [put]
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var input services.UpdateSettingsInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	settings, err := h.settingsService.Update(c.UserContext(), &input)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSettings) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to update settings")
	}

	return response.Success(c, "Settings updated", settings)
}
