package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	lendingapp "github.com/librarian/backend/internal/application/lending"
	"github.com/librarian/backend/internal/interfaces/http/dto"
	"github.com/librarian/backend/internal/interfaces/http/middleware"
)

// TransactionHandler handles lending workflow API endpoints
type TransactionHandler struct {
	BaseHandler
	lendingService *lendingapp.LendingService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(lendingService *lendingapp.LendingService) *TransactionHandler {
	return &TransactionHandler{lendingService: lendingService}
}

// RegisterRoutes registers all lending routes
func (h *TransactionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	transactions := rg.Group("/transactions")
	{
		transactions.POST("/issue", h.Issue)
		transactions.PUT("/return/:id", h.Return)
		transactions.GET("", h.List)
		transactions.GET("/member/:memberId", h.ListByMember)
	}
}

// Issue handles POST /transactions/issue
func (h *TransactionHandler) Issue(c *gin.Context) {
	var req lendingapp.IssueBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	tx, err := h.lendingService.Issue(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, tx)
}

// Return handles PUT /transactions/return/:id
func (h *TransactionHandler) Return(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID format")
		return
	}

	// The body is optional; an absent return date defaults to now.
	var req lendingapp.ReturnBookRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
	}

	result, err := h.lendingService.Return(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List handles GET /transactions
func (h *TransactionHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.lendingService.ListAll(c.Request.Context(), req.Page, req.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.Limit)
}

// ListByMember handles GET /transactions/member/:memberId
func (h *TransactionHandler) ListByMember(c *gin.Context) {
	memberID, err := uuid.Parse(c.Param("memberId"))
	if err != nil {
		h.BadRequest(c, "Invalid member ID format")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.lendingService.ListByMember(c.Request.Context(), memberID, req.Page, req.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.Limit)
}
