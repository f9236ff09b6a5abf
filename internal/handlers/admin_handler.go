// internal/handlers/admin_handler.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tonearm/tonearm-backend/internal/services"
	"github.com/tonearm/tonearm-backend/internal/utils"
)

// AdminHandler exposes platform settings to instance operators.
type AdminHandler struct {
	settings *services.SettingsService
}

func NewAdminHandler(settings *services.SettingsService) *AdminHandler {
	return &AdminHandler{settings: settings}
}

// GetSettings handles GET /v1/admin/settings
func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.settings.Get()
	if err != nil {
		utils.UnexpectedErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, settings)
}

// UpdateSettings handles PUT /v1/admin/settings
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var req services.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	settings, err := h.settings.Update(&req)
	if err != nil {
		utils.UnexpectedErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, settings)
}
