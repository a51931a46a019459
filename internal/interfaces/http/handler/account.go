package handler

import (
	accountapp "github.com/fintrack/backend/internal/application/account"
	"github.com/gin-gonic/gin"
)

// AccountHandler handles account endpoints
type AccountHandler struct {
	BaseHandler
	accountService *accountapp.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *accountapp.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// List godoc
//
//	@ID				listAccounts
//	@Summary		List accounts
//	@Description	Archived accounts are hidden unless include_archived is set
//	@Tags			accounts
//	@Produce		json
//	@Param			search				query		string	false	"Name search"
//	@Param			type				query		string	false	"Account type"	Enums(checking, savings, credit, cash, investment)
//	@Param			include_archived	query		bool	false	"Include archived accounts"
//	@Param			page				query		int		false	"Page number"	default(1)
//	@Param			page_size			query		int		false	"Page size"		default(20)
//	@Param			order_by			query		string	false	"Sort field"	default(name)
//	@Param			order_dir			query		string	false	"Sort order"	Enums(asc, desc)
//	@Success		200					{object}	APIResponse[[]accountapp.AccountResponse]
//	@Failure		400					{object}	ErrorResponse
//	@Failure		401					{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/accounts [get]
func (h *AccountHandler) List(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	var filter accountapp.AccountListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	accounts, total, err := h.accountService.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, accounts, total, filter.Page, filter.PageSize)
}

// Create godoc
//
//	@ID				createAccount
//	@Summary		Open an account
//	@Tags			accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountapp.CreateAccountRequest	true	"Account details"
//	@Success		201		{object}	APIResponse[accountapp.AccountResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/accounts [post]
func (h *AccountHandler) Create(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	var req accountapp.CreateAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.accountService.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get godoc
//
//	@ID				getAccount
//	@Summary		Get an account
//	@Tags			accounts
//	@Produce		json
//	@Param			id	path		string	true	"Account ID"	format(uuid)
//	@Success		200	{object}	APIResponse[accountapp.AccountResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/accounts/{id} [get]
func (h *AccountHandler) Get(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.accountService.GetByID(c.Request.Context(), ownerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update godoc
//
//	@ID				updateAccount
//	@Summary		Update an account
//	@Description	The currency can only change while the account has no transactions
//	@Tags			accounts
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Account ID"	format(uuid)
//	@Param			request	body		accountapp.UpdateAccountRequest	true	"Account details"
//	@Success		200		{object}	APIResponse[accountapp.AccountResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/accounts/{id} [put]
func (h *AccountHandler) Update(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req accountapp.UpdateAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.accountService.Update(c.Request.Context(), ownerID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
//
//	@ID				deleteAccount
//	@Summary		Delete an account
//	@Tags			accounts
//	@Param			id	path	string	true	"Account ID"	format(uuid)
//	@Success		204
//	@Failure		404	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/accounts/{id} [delete]
func (h *AccountHandler) Delete(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.accountService.Delete(c.Request.Context(), ownerID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Archive godoc
//
//	@ID				archiveAccount
//	@Summary		Archive an account
//	@Tags			accounts
//	@Produce		json
//	@Param			id	path		string	true	"Account ID"	format(uuid)
//	@Success		200	{object}	APIResponse[accountapp.AccountResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/accounts/{id}/archive [post]
func (h *AccountHandler) Archive(c *gin.Context) {
	byID(&h.BaseHandler, c, h.accountService.Archive)
}

// Unarchive godoc
//
//	@ID				unarchiveAccount
//	@Summary		Restore an archived account
//	@Tags			accounts
//	@Produce		json
//	@Param			id	path		string	true	"Account ID"	format(uuid)
//	@Success		200	{object}	APIResponse[accountapp.AccountResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/accounts/{id}/unarchive [post]
func (h *AccountHandler) Unarchive(c *gin.Context) {
	byID(&h.BaseHandler, c, h.accountService.Unarchive)
}

// AdjustBalance godoc
//
//	@ID				adjustAccountBalance
//	@Summary		Set an account balance
//	@Description	Overrides the balance, for reconciling against a bank statement
//	@Tags			accounts
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Account ID"	format(uuid)
//	@Param			request	body		accountapp.AdjustBalanceRequest	true	"New balance"
//	@Success		200		{object}	APIResponse[accountapp.AccountResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/accounts/{id}/adjust-balance [post]
func (h *AccountHandler) AdjustBalance(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req accountapp.AdjustBalanceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.accountService.AdjustBalance(c.Request.Context(), ownerID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
