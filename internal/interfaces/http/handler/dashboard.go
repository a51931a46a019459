package handler

import (
	dashboardapp "github.com/fintrack/backend/internal/application/dashboard"
	"github.com/gin-gonic/gin"
)

// DashboardHandler serves aggregated views in the user's base currency
type DashboardHandler struct {
	BaseHandler
	dashboardService *dashboardapp.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *dashboardapp.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Summary godoc
//
//	@ID				getDashboardSummary
//	@Summary		Financial summary
//	@Description	Net worth, current month cash flow, subscription cost, investments and goals
//	@Tags			dashboard
//	@Produce		json
//	@Success		200	{object}	APIResponse[dashboardapp.SummaryResponse]
//	@Failure		422	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/dashboard/summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	resp, err := h.dashboardService.Summary(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SpendingByCategory godoc
//
//	@ID				getSpendingByCategory
//	@Summary		Totals per category
//	@Tags			dashboard
//	@Produce		json
//	@Param			from	query		string	false	"First day (YYYY-MM-DD)"
//	@Param			to		query		string	false	"Last day (YYYY-MM-DD)"
//	@Param			type	query		string	false	"Entry type"	Enums(expense, income)	default(expense)
//	@Success		200		{object}	APIResponse[dashboardapp.SpendingResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/dashboard/spending-by-category [get]
func (h *DashboardHandler) SpendingByCategory(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	var q dashboardapp.SpendingQuery
	if !h.bindQuery(c, &q) {
		return
	}
	resp, err := h.dashboardService.SpendingByCategory(c.Request.Context(), ownerID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CashFlow godoc
//
//	@ID				getCashFlow
//	@Summary		Monthly income and expense
//	@Tags			dashboard
//	@Produce		json
//	@Param			months	query		int	false	"Trailing months"	default(6)
//	@Success		200		{object}	APIResponse[dashboardapp.CashFlowResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/dashboard/cash-flow [get]
func (h *DashboardHandler) CashFlow(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	var q dashboardapp.CashFlowQuery
	if !h.bindQuery(c, &q) {
		return
	}
	resp, err := h.dashboardService.CashFlow(c.Request.Context(), ownerID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
