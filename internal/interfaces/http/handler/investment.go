package handler

import (
	investmentapp "github.com/fintrack/backend/internal/application/investment"
	"github.com/gin-gonic/gin"
)

// InvestmentHandler handles holding and price history endpoints
type InvestmentHandler struct {
	BaseHandler
	investmentService *investmentapp.InvestmentService
}

// NewInvestmentHandler creates a new InvestmentHandler
func NewInvestmentHandler(investmentService *investmentapp.InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{investmentService: investmentService}
}

// List godoc
//
//	@ID				listInvestments
//	@Summary		List investments
//	@Tags			investments
//	@Produce		json
//	@Param			search		query		string	false	"Name or symbol search"
//	@Param			type		query		string	false	"Holding type"	Enums(stock, etf, crypto, bond, fund, other)
//	@Param			page		query		int		false	"Page number"	default(1)
//	@Param			page_size	query		int		false	"Page size"		default(20)
//	@Param			order_by	query		string	false	"Sort field"	default(name)
//	@Param			order_dir	query		string	false	"Sort order"	Enums(asc, desc)
//	@Success		200			{object}	APIResponse[[]investmentapp.InvestmentResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/investments [get]
func (h *InvestmentHandler) List(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	var filter investmentapp.InvestmentListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.investmentService.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Create godoc
//
//	@ID				createInvestment
//	@Summary		Add an investment
//	@Tags			investments
//	@Accept			json
//	@Produce		json
//	@Param			request	body		investmentapp.InvestmentRequest	true	"Holding details"
//	@Success		201		{object}	APIResponse[investmentapp.InvestmentResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/investments [post]
func (h *InvestmentHandler) Create(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	var req investmentapp.InvestmentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.investmentService.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get godoc
//
//	@ID				getInvestment
//	@Summary		Get an investment
//	@Tags			investments
//	@Produce		json
//	@Param			id	path		string	true	"Investment ID"	format(uuid)
//	@Success		200	{object}	APIResponse[investmentapp.InvestmentResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/investments/{id} [get]
func (h *InvestmentHandler) Get(c *gin.Context) {
	byID(&h.BaseHandler, c, h.investmentService.GetByID)
}

// Update godoc
//
//	@ID				updateInvestment
//	@Summary		Update an investment
//	@Tags			investments
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Investment ID"	format(uuid)
//	@Param			request	body		investmentapp.InvestmentRequest	true	"Holding details"
//	@Success		200		{object}	APIResponse[investmentapp.InvestmentResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/investments/{id} [put]
func (h *InvestmentHandler) Update(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req investmentapp.InvestmentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.investmentService.Update(c.Request.Context(), ownerID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdatePrice godoc
//
//	@ID				updateInvestmentPrice
//	@Summary		Record a market price
//	@Tags			investments
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Investment ID"	format(uuid)
//	@Param			request	body		investmentapp.PriceRequest	true	"New price"
//	@Success		200		{object}	APIResponse[investmentapp.InvestmentResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/investments/{id}/price [put]
func (h *InvestmentHandler) UpdatePrice(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req investmentapp.PriceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.investmentService.UpdatePrice(c.Request.Context(), ownerID, id, req.Price)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
//
//	@ID				deleteInvestment
//	@Summary		Delete an investment
//	@Description	Its snapshot history is removed too
//	@Tags			investments
//	@Param			id	path	string	true	"Investment ID"	format(uuid)
//	@Success		204
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/investments/{id} [delete]
func (h *InvestmentHandler) Delete(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.investmentService.Delete(c.Request.Context(), ownerID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Snapshots godoc
//
//	@ID				listInvestmentSnapshots
//	@Summary		Value history of an investment
//	@Tags			investments
//	@Produce		json
//	@Param			id		path		string	true	"Investment ID"	format(uuid)
//	@Param			from	query		string	false	"First day (YYYY-MM-DD)"
//	@Param			to		query		string	false	"Last day (YYYY-MM-DD)"
//	@Success		200		{object}	APIResponse[[]investmentapp.SnapshotResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/investments/{id}/snapshots [get]
func (h *InvestmentHandler) Snapshots(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var q investmentapp.SnapshotQuery
	if !h.bindQuery(c, &q) {
		return
	}
	snapshots, err := h.investmentService.Snapshots(c.Request.Context(), ownerID, id, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if snapshots == nil {
		snapshots = []investmentapp.SnapshotResponse{}
	}
	h.Success(c, snapshots)
}
