package handler

import (
	settingsapp "github.com/fintrack/backend/internal/application/settings"
	"github.com/gin-gonic/gin"
)

// SettingsHandler handles per-user preferences
type SettingsHandler struct {
	BaseHandler
	settingsService *settingsapp.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *settingsapp.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get godoc
//
//	@ID				getSettings
//	@Summary		Get user settings
//	@Description	Users without stored settings get the defaults
//	@Tags			settings
//	@Produce		json
//	@Success		200	{object}	APIResponse[settingsapp.SettingsResponse]
//	@Security		BearerAuth
//	@Router			/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	resp, err := h.settingsService.Get(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update godoc
//
//	@ID				updateSettings
//	@Summary		Update user settings
//	@Description	Omitted fields keep their value
//	@Tags			settings
//	@Accept			json
//	@Produce		json
//	@Param			request	body		settingsapp.UpdateSettingsRequest	true	"Changed settings"
//	@Success		200		{object}	APIResponse[settingsapp.SettingsResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	var req settingsapp.UpdateSettingsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.settingsService.Update(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
