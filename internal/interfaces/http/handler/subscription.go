package handler

import (
	subapp "github.com/fintrack/backend/internal/application/subscription"
	"github.com/gin-gonic/gin"
)

// UpcomingQuery selects the window for upcoming renewals
type UpcomingQuery struct {
	Days int `form:"days" binding:"omitempty,min=1,max=365"`
}

// SubscriptionHandler handles recurring payment endpoints
type SubscriptionHandler struct {
	BaseHandler
	subscriptionService *subapp.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(subscriptionService *subapp.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// List godoc
//
//	@ID				listSubscriptions
//	@Summary		List subscriptions
//	@Tags			subscriptions
//	@Produce		json
//	@Param			search		query		string	false	"Name search"
//	@Param			status		query		string	false	"Status"		Enums(active, paused, cancelled)
//	@Param			frequency	query		string	false	"Frequency"		Enums(daily, weekly, monthly, quarterly, yearly)
//	@Param			account_id	query		string	false	"Account"		format(uuid)
//	@Param			page		query		int		false	"Page number"	default(1)
//	@Param			page_size	query		int		false	"Page size"		default(20)
//	@Param			order_by	query		string	false	"Sort field"	default(next_renewal_date)
//	@Param			order_dir	query		string	false	"Sort order"	Enums(asc, desc)
//	@Success		200			{object}	APIResponse[[]subapp.SubscriptionResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/subscriptions [get]
func (h *SubscriptionHandler) List(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	var filter subapp.SubscriptionListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	subs, total, err := h.subscriptionService.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, subs, total, filter.Page, filter.PageSize)
}

// Upcoming godoc
//
//	@ID				listUpcomingSubscriptions
//	@Summary		List upcoming renewals
//	@Description	Active subscriptions renewing within the next days (default 7)
//	@Tags			subscriptions
//	@Produce		json
//	@Param			days	query		int	false	"Window in days"	default(7)
//	@Success		200		{object}	APIResponse[[]subapp.SubscriptionResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/subscriptions/upcoming [get]
func (h *SubscriptionHandler) Upcoming(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	var q UpcomingQuery
	if !h.bindQuery(c, &q) {
		return
	}
	subs, err := h.subscriptionService.Upcoming(c.Request.Context(), ownerID, q.Days)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if subs == nil {
		subs = []subapp.SubscriptionResponse{}
	}
	h.Success(c, subs)
}

// Create godoc
//
//	@ID				createSubscription
//	@Summary		Create a subscription
//	@Tags			subscriptions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		subapp.SubscriptionRequest	true	"Subscription details"
//	@Success		201		{object}	APIResponse[subapp.SubscriptionResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/subscriptions [post]
func (h *SubscriptionHandler) Create(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	var req subapp.SubscriptionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.subscriptionService.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get godoc
//
//	@ID				getSubscription
//	@Summary		Get a subscription
//	@Tags			subscriptions
//	@Produce		json
//	@Param			id	path		string	true	"Subscription ID"	format(uuid)
//	@Success		200	{object}	APIResponse[subapp.SubscriptionResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/subscriptions/{id} [get]
func (h *SubscriptionHandler) Get(c *gin.Context) {
	byID(&h.BaseHandler, c, h.subscriptionService.GetByID)
}

// Update godoc
//
//	@ID				updateSubscription
//	@Summary		Update a subscription
//	@Tags			subscriptions
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Subscription ID"	format(uuid)
//	@Param			request	body		subapp.SubscriptionRequest	true	"Subscription details"
//	@Success		200		{object}	APIResponse[subapp.SubscriptionResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/subscriptions/{id} [put]
func (h *SubscriptionHandler) Update(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req subapp.SubscriptionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.subscriptionService.Update(c.Request.Context(), ownerID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
//
//	@ID				deleteSubscription
//	@Summary		Delete a subscription
//	@Description	Transactions already booked by the subscription are kept
//	@Tags			subscriptions
//	@Param			id	path	string	true	"Subscription ID"	format(uuid)
//	@Success		204
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/subscriptions/{id} [delete]
func (h *SubscriptionHandler) Delete(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.subscriptionService.Delete(c.Request.Context(), ownerID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Pause godoc
//
//	@ID				pauseSubscription
//	@Summary		Pause a subscription
//	@Tags			subscriptions
//	@Produce		json
//	@Param			id	path		string	true	"Subscription ID"	format(uuid)
//	@Success		200	{object}	APIResponse[subapp.SubscriptionResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/subscriptions/{id}/pause [post]
func (h *SubscriptionHandler) Pause(c *gin.Context) {
	byID(&h.BaseHandler, c, h.subscriptionService.Pause)
}

// Resume godoc
//
//	@ID				resumeSubscription
//	@Summary		Resume a paused subscription
//	@Description	Periods skipped while paused are not charged
//	@Tags			subscriptions
//	@Produce		json
//	@Param			id	path		string	true	"Subscription ID"	format(uuid)
//	@Success		200	{object}	APIResponse[subapp.SubscriptionResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/subscriptions/{id}/resume [post]
func (h *SubscriptionHandler) Resume(c *gin.Context) {
	byID(&h.BaseHandler, c, h.subscriptionService.Resume)
}

// Cancel godoc
//
//	@ID				cancelSubscription
//	@Summary		Cancel a subscription
//	@Tags			subscriptions
//	@Produce		json
//	@Param			id	path		string	true	"Subscription ID"	format(uuid)
//	@Success		200	{object}	APIResponse[subapp.SubscriptionResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/subscriptions/{id}/cancel [post]
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	byID(&h.BaseHandler, c, h.subscriptionService.Cancel)
}

// Renew godoc
//
//	@ID				renewSubscription
//	@Summary		Renew a subscription now
//	@Description	Books the renewal immediately, ahead of schedule when it is not yet due
//	@Tags			subscriptions
//	@Produce		json
//	@Param			id	path		string	true	"Subscription ID"	format(uuid)
//	@Success		200	{object}	APIResponse[subapp.RenewalResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/subscriptions/{id}/renew [post]
func (h *SubscriptionHandler) Renew(c *gin.Context) {
	byID(&h.BaseHandler, c, h.subscriptionService.Renew)
}
