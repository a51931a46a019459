package handler

import (
	activityapp "github.com/fintrack/backend/internal/application/activity"
	"github.com/gin-gonic/gin"
)

// ActivityHandler serves the user's audit trail
type ActivityHandler struct {
	BaseHandler
	activityService *activityapp.ActivityService
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(activityService *activityapp.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// List godoc
//
//	@ID				listActivities
//	@Summary		List recent activity
//	@Tags			activities
//	@Produce		json
//	@Param			entity_type	query		string	false	"Entity type"	example(transaction)
//	@Param			entity_id	query		string	false	"Entity ID"		format(uuid)
//	@Param			since		query		string	false	"First day (YYYY-MM-DD)"
//	@Param			page		query		int		false	"Page number"	default(1)
//	@Param			page_size	query		int		false	"Page size"		default(20)
//	@Success		200			{object}	APIResponse[[]activityapp.ActivityResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/activities [get]
func (h *ActivityHandler) List(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	var filter activityapp.ActivityListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.activityService.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}
