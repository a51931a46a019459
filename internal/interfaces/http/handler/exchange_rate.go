package handler

import (
	rateapp "github.com/fintrack/backend/internal/application/exchangerate"
	"github.com/gin-gonic/gin"
)

// ExchangeRateHandler handles the shared rate table and conversions
type ExchangeRateHandler struct {
	BaseHandler
	rateService *rateapp.ExchangeRateService
}

// NewExchangeRateHandler creates a new ExchangeRateHandler
func NewExchangeRateHandler(rateService *rateapp.ExchangeRateService) *ExchangeRateHandler {
	return &ExchangeRateHandler{rateService: rateService}
}

// List godoc
//
//	@ID				listExchangeRates
//	@Summary		List stored exchange rates
//	@Tags			exchange-rates
//	@Produce		json
//	@Success		200	{object}	APIResponse[[]rateapp.ExchangeRateResponse]
//	@Security		BearerAuth
//	@Router			/exchange-rates [get]
func (h *ExchangeRateHandler) List(c *gin.Context) {
	rates, err := h.rateService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rates)
}

// Upsert godoc
//
//	@ID				upsertExchangeRate
//	@Summary		Set the rate of a currency pair
//	@Tags			exchange-rates
//	@Accept			json
//	@Produce		json
//	@Param			request	body		rateapp.UpsertRateRequest	true	"Pair and rate"
//	@Success		200		{object}	APIResponse[rateapp.ExchangeRateResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/exchange-rates [put]
func (h *ExchangeRateHandler) Upsert(c *gin.Context) {
	var req rateapp.UpsertRateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.rateService.Upsert(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Convert godoc
//
//	@ID				convertCurrency
//	@Summary		Convert an amount
//	@Description	Resolves the rate directly, by inverse, through USD, or from the built-in table. Results are rounded to 2 decimals.
//	@Tags			exchange-rates
//	@Produce		json
//	@Param			amount	query		string	true	"Amount"	example(100.00)
//	@Param			from	query		string	true	"Source currency"	example(EUR)
//	@Param			to		query		string	true	"Target currency"	example(USD)
//	@Success		200		{object}	APIResponse[rateapp.ConvertResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/exchange-rates/convert [get]
func (h *ExchangeRateHandler) Convert(c *gin.Context) {
	var q rateapp.ConvertQuery
	if !h.bindQuery(c, &q) {
		return
	}
	resp, err := h.rateService.Convert(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Refresh godoc
//
//	@ID				refreshExchangeRates
//	@Summary		Pull rates from the configured feed
//	@Description	Does nothing when no feed is configured
//	@Tags			exchange-rates
//	@Produce		json
//	@Success		200	{object}	APIResponse[rateapp.RefreshReport]
//	@Failure		500	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/exchange-rates/refresh [post]
func (h *ExchangeRateHandler) Refresh(c *gin.Context) {
	report, err := h.rateService.Refresh(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
