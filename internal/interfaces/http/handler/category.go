package handler

import (
	categoryapp "github.com/fintrack/backend/internal/application/category"
	"github.com/gin-gonic/gin"
)

// CategoryHandler handles income and expense category endpoints
type CategoryHandler struct {
	BaseHandler
	categoryService *categoryapp.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *categoryapp.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// List godoc
//
//	@ID				listCategories
//	@Summary		List categories
//	@Tags			categories
//	@Produce		json
//	@Param			search		query		string	false	"Name search"
//	@Param			type		query		string	false	"Category type"	Enums(expense, income)
//	@Param			page		query		int		false	"Page number"	default(1)
//	@Param			page_size	query		int		false	"Page size"		default(20)
//	@Param			order_by	query		string	false	"Sort field"	default(name)
//	@Param			order_dir	query		string	false	"Sort order"	Enums(asc, desc)
//	@Success		200			{object}	APIResponse[[]categoryapp.CategoryResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	var filter categoryapp.CategoryListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	categories, total, err := h.categoryService.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, categories, total, filter.Page, filter.PageSize)
}

// Create godoc
//
//	@ID				createCategory
//	@Summary		Create a category
//	@Description	Names are unique per user and type, ignoring case
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			request	body		categoryapp.CategoryRequest	true	"Category details"
//	@Success		201		{object}	APIResponse[categoryapp.CategoryResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	var req categoryapp.CategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.categoryService.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get godoc
//
//	@ID				getCategory
//	@Summary		Get a category
//	@Tags			categories
//	@Produce		json
//	@Param			id	path		string	true	"Category ID"	format(uuid)
//	@Success		200	{object}	APIResponse[categoryapp.CategoryResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/categories/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	byID(&h.BaseHandler, c, h.categoryService.GetByID)
}

// Update godoc
//
//	@ID				updateCategory
//	@Summary		Update a category
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Category ID"	format(uuid)
//	@Param			request	body		categoryapp.CategoryRequest	true	"Category details"
//	@Success		200		{object}	APIResponse[categoryapp.CategoryResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req categoryapp.CategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.categoryService.Update(c.Request.Context(), ownerID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
//
//	@ID				deleteCategory
//	@Summary		Delete a category
//	@Description	Transactions and subscriptions in the category become uncategorized
//	@Tags			categories
//	@Param			id	path	string	true	"Category ID"	format(uuid)
//	@Success		204
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.categoryService.Delete(c.Request.Context(), ownerID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
