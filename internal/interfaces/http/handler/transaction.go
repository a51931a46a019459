package handler

import (
	"fmt"
	"net/http"
	"time"

	txnapp "github.com/fintrack/backend/internal/application/transaction"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxImportFileSize bounds a multipart CSV upload
const maxImportFileSize = 5 << 20

// TransactionHandler handles ledger entry endpoints, CSV import/export and
// monthly statements
type TransactionHandler struct {
	BaseHandler
	transactionService *txnapp.TransactionService
	csvService         *txnapp.CSVService
	statementService   *txnapp.StatementService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(
	transactionService *txnapp.TransactionService,
	csvService *txnapp.CSVService,
	statementService *txnapp.StatementService,
) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		csvService:         csvService,
		statementService:   statementService,
	}
}

// List godoc
//
//	@ID				listTransactions
//	@Summary		List transactions
//	@Tags			transactions
//	@Produce		json
//	@Param			search		query		string	false	"Description search"
//	@Param			account_id	query		string	false	"Source or destination account"	format(uuid)
//	@Param			category_id	query		string	false	"Category"						format(uuid)
//	@Param			type		query		string	false	"Entry type"					Enums(expense, income, transfer)
//	@Param			from_date	query		string	false	"First day (YYYY-MM-DD)"
//	@Param			to_date		query		string	false	"Last day (YYYY-MM-DD)"
//	@Param			page		query		int		false	"Page number"	default(1)
//	@Param			page_size	query		int		false	"Page size"		default(20)
//	@Param			order_by	query		string	false	"Sort field"	default(date)
//	@Param			order_dir	query		string	false	"Sort order"	Enums(asc, desc)
//	@Success		200			{object}	APIResponse[[]txnapp.TransactionResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	var filter txnapp.TransactionListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	txns, total, err := h.transactionService.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, txns, total, filter.Page, filter.PageSize)
}

// Create godoc
//
//	@ID				createTransaction
//	@Summary		Record a transaction
//	@Description	Updates the account balance, and the destination balance for transfers
//	@Tags			transactions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		txnapp.TransactionRequest	true	"Transaction details"
//	@Success		201		{object}	APIResponse[txnapp.TransactionResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	var req txnapp.TransactionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.transactionService.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get godoc
//
//	@ID				getTransaction
//	@Summary		Get a transaction
//	@Tags			transactions
//	@Produce		json
//	@Param			id	path		string	true	"Transaction ID"	format(uuid)
//	@Success		200	{object}	APIResponse[txnapp.TransactionResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	byID(&h.BaseHandler, c, h.transactionService.GetByID)
}

// Update godoc
//
//	@ID				updateTransaction
//	@Summary		Replace a transaction
//	@Description	Reverses the old balance effect and applies the new one atomically
//	@Tags			transactions
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Transaction ID"	format(uuid)
//	@Param			request	body		txnapp.TransactionRequest	true	"Transaction details"
//	@Success		200		{object}	APIResponse[txnapp.TransactionResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req txnapp.TransactionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.transactionService.Update(c.Request.Context(), ownerID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
//
//	@ID				deleteTransaction
//	@Summary		Delete a transaction
//	@Description	Reverses its balance effect
//	@Tags			transactions
//	@Param			id	path	string	true	"Transaction ID"	format(uuid)
//	@Success		204
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.transactionService.Delete(c.Request.Context(), ownerID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Export godoc
//
//	@ID				exportTransactions
//	@Summary		Export transactions as CSV
//	@Tags			transactions
//	@Produce		text/csv
//	@Param			account_id	query		string	false	"Account"	format(uuid)
//	@Param			from_date	query		string	false	"First day (YYYY-MM-DD)"
//	@Param			to_date		query		string	false	"Last day (YYYY-MM-DD)"
//	@Success		200			{file}		file
//	@Failure		400			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/transactions/export [get]
func (h *TransactionHandler) Export(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	var q txnapp.ExportQuery
	if !h.bindQuery(c, &q) {
		return
	}
	data, rows, err := h.csvService.Export(c.Request.Context(), ownerID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("transactions-%s.csv", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("X-Export-Rows", fmt.Sprint(rows))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// UploadExport godoc
//
//	@ID				uploadTransactionExport
//	@Summary		Export transactions to object storage
//	@Description	Stores the CSV export and returns a presigned download link
//	@Tags			transactions
//	@Produce		json
//	@Param			account_id	query		string	false	"Account"	format(uuid)
//	@Param			from_date	query		string	false	"First day (YYYY-MM-DD)"
//	@Param			to_date		query		string	false	"Last day (YYYY-MM-DD)"
//	@Success		201			{object}	APIResponse[txnapp.ExportUploadResponse]
//	@Failure		503			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/transactions/export/upload [post]
func (h *TransactionHandler) UploadExport(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	var q txnapp.ExportQuery
	if !h.bindQuery(c, &q) {
		return
	}
	resp, err := h.csvService.UploadExport(c.Request.Context(), ownerID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Statement godoc
//
//	@ID				transactionStatement
//	@Summary		Monthly account statement
//	@Description	Opening and closing balance with every entry of the month. PDF output needs a configured renderer.
//	@Tags			transactions
//	@Produce		application/pdf
//	@Produce		text/html
//	@Param			account_id	query		string	true	"Account"	format(uuid)
//	@Param			month		query		string	true	"Month (YYYY-MM)"
//	@Param			format		query		string	false	"Output format"	Enums(pdf, html)	default(pdf)
//	@Success		200			{file}		file
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		503			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/transactions/statement [get]
func (h *TransactionHandler) Statement(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	var q txnapp.StatementQuery
	if !h.bindQuery(c, &q) {
		return
	}

	if q.Format == "html" {
		page, _, err := h.statementService.HTML(c.Request.Context(), ownerID, q)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
		return
	}

	data, stmt, err := h.statementService.PDF(c.Request.Context(), ownerID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, stmt.FileName("pdf")))
	c.Data(http.StatusOK, "application/pdf", data)
}

// Import godoc
//
//	@ID				importTransactions
//	@Summary		Import transactions from CSV
//	@Description	Rows that cannot be parsed are reported; the rest are recorded
//	@Tags			transactions
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			account_id	formData	string	true	"Target account"	format(uuid)
//	@Param			file		formData	file	true	"CSV file"
//	@Success		200			{object}	APIResponse[txnapp.ImportResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/transactions/import [post]
func (h *TransactionHandler) Import(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	accountID, err := uuid.Parse(c.PostForm("account_id"))
	if err != nil {
		h.BadRequest(c, "Invalid account_id")
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "A CSV file is required")
		return
	}
	if header.Size > maxImportFileSize {
		h.BadRequest(c, "CSV file is too large")
		return
	}
	file, err := header.Open()
	if err != nil {
		h.BadRequest(c, "Unable to read uploaded file")
		return
	}
	defer file.Close()

	resp, err := h.csvService.Import(c.Request.Context(), ownerID, accountID, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
