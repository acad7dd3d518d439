package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/librarian/backend/internal/application/catalog"
	"github.com/librarian/backend/internal/interfaces/http/dto"
	"github.com/librarian/backend/internal/interfaces/http/middleware"
)

// BookHandler handles book catalog API endpoints
type BookHandler struct {
	BaseHandler
	bookService *catalogapp.BookService
}

// NewBookHandler creates a new BookHandler
func NewBookHandler(bookService *catalogapp.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// RegisterRoutes registers all book catalog routes
func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	books := rg.Group("/books")
	{
		books.POST("", h.Create)
		books.GET("", h.List)
		books.GET("/search", h.Search)
		books.GET("/:id", h.GetByID)
		books.PUT("/:id", h.Update)
		books.DELETE("/:id", h.Delete)
	}
}

// Create handles POST /books
func (h *BookHandler) Create(c *gin.Context) {
	var req catalogapp.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	book, err := h.bookService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, book)
}

// GetByID handles GET /books/:id
func (h *BookHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid book ID format")
		return
	}

	book, err := h.bookService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, book)
}

// List handles GET /books
func (h *BookHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.bookService.List(c.Request.Context(), req.Page, req.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.Limit)
}

// Search handles GET /books/search
func (h *BookHandler) Search(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.bookService.Search(c.Request.Context(), req.Query, req.Page, req.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.Limit)
}

// Update handles PUT /books/:id
func (h *BookHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid book ID format")
		return
	}

	var req catalogapp.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	book, err := h.bookService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, book)
}

// Delete handles DELETE /books/:id
func (h *BookHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid book ID format")
		return
	}

	if err := h.bookService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
