package handler

import (
	"context"

	goalapp "github.com/fintrack/backend/internal/application/goal"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoalHandler handles savings goal endpoints
type GoalHandler struct {
	BaseHandler
	goalService *goalapp.GoalService
}

// NewGoalHandler creates a new GoalHandler
func NewGoalHandler(goalService *goalapp.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// List godoc
//
//	@ID				listGoals
//	@Summary		List savings goals
//	@Tags			goals
//	@Produce		json
//	@Param			search		query		string	false	"Name search"
//	@Param			completed	query		bool	false	"Filter by completion"
//	@Param			page		query		int		false	"Page number"	default(1)
//	@Param			page_size	query		int		false	"Page size"		default(20)
//	@Param			order_by	query		string	false	"Sort field"	default(created_at)
//	@Param			order_dir	query		string	false	"Sort order"	Enums(asc, desc)
//	@Success		200			{object}	APIResponse[[]goalapp.GoalResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/goals [get]
func (h *GoalHandler) List(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	var filter goalapp.GoalListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	goals, total, err := h.goalService.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, goals, total, filter.Page, filter.PageSize)
}

// Create godoc
//
//	@ID				createGoal
//	@Summary		Create a savings goal
//	@Tags			goals
//	@Accept			json
//	@Produce		json
//	@Param			request	body		goalapp.GoalRequest	true	"Goal details"
//	@Success		201		{object}	APIResponse[goalapp.GoalResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/goals [post]
func (h *GoalHandler) Create(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	var req goalapp.GoalRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.goalService.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get godoc
//
//	@ID				getGoal
//	@Summary		Get a savings goal
//	@Tags			goals
//	@Produce		json
//	@Param			id	path		string	true	"Goal ID"	format(uuid)
//	@Success		200	{object}	APIResponse[goalapp.GoalResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/goals/{id} [get]
func (h *GoalHandler) Get(c *gin.Context) {
	byID(&h.BaseHandler, c, h.goalService.GetByID)
}

// Update godoc
//
//	@ID				updateGoal
//	@Summary		Update a savings goal
//	@Tags			goals
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Goal ID"	format(uuid)
//	@Param			request	body		goalapp.GoalRequest	true	"Goal details"
//	@Success		200		{object}	APIResponse[goalapp.GoalResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/goals/{id} [put]
func (h *GoalHandler) Update(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req goalapp.GoalRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.goalService.Update(c.Request.Context(), ownerID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
//
//	@ID				deleteGoal
//	@Summary		Delete a savings goal
//	@Tags			goals
//	@Param			id	path	string	true	"Goal ID"	format(uuid)
//	@Success		204
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/goals/{id} [delete]
func (h *GoalHandler) Delete(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.goalService.Delete(c.Request.Context(), ownerID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Contribute godoc
//
//	@ID				contributeToGoal
//	@Summary		Add money to a goal
//	@Description	Reaching the target completes the goal and sends a notification
//	@Tags			goals
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Goal ID"	format(uuid)
//	@Param			request	body		goalapp.AmountRequest	true	"Amount"
//	@Success		200		{object}	APIResponse[goalapp.GoalResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/goals/{id}/contribute [post]
func (h *GoalHandler) Contribute(c *gin.Context) {
	h.amount(c, h.goalService.Contribute)
}

// Withdraw godoc
//
//	@ID				withdrawFromGoal
//	@Summary		Take money out of a goal
//	@Tags			goals
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Goal ID"	format(uuid)
//	@Param			request	body		goalapp.AmountRequest	true	"Amount"
//	@Success		200		{object}	APIResponse[goalapp.GoalResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/goals/{id}/withdraw [post]
func (h *GoalHandler) Withdraw(c *gin.Context) {
	h.amount(c, h.goalService.Withdraw)
}

func (h *GoalHandler) amount(c *gin.Context, fn func(context.Context, uuid.UUID, uuid.UUID, decimal.Decimal) (*goalapp.GoalResponse, error)) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req goalapp.AmountRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := fn(c.Request.Context(), ownerID, id, req.Amount)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
