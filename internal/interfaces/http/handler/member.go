package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	memberapp "github.com/librarian/backend/internal/application/member"
	"github.com/librarian/backend/internal/interfaces/http/dto"
	"github.com/librarian/backend/internal/interfaces/http/middleware"
)

// MemberHandler handles member registry API endpoints
type MemberHandler struct {
	BaseHandler
	memberService *memberapp.MemberService
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(memberService *memberapp.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// RegisterRoutes registers all member registry routes
func (h *MemberHandler) RegisterRoutes(rg *gin.RouterGroup) {
	members := rg.Group("/members")
	{
		members.POST("", h.Create)
		members.GET("", h.List)
		members.GET("/search", h.Search)
		members.GET("/:id", h.GetByID)
		members.PUT("/:id", h.Update)
		members.DELETE("/:id", h.Delete)
	}
}

// Create handles POST /members
func (h *MemberHandler) Create(c *gin.Context) {
	var req memberapp.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	m, err := h.memberService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, m)
}

// GetByID handles GET /members/:id
func (h *MemberHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid member ID format")
		return
	}

	m, err := h.memberService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, m)
}

// List handles GET /members
func (h *MemberHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.memberService.List(c.Request.Context(), req.Page, req.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.Limit)
}

// Search handles GET /members/search
func (h *MemberHandler) Search(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.memberService.Search(c.Request.Context(), req.Query, req.Page, req.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.Limit)
}

// Update handles PUT /members/:id
func (h *MemberHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid member ID format")
		return
	}

	var req memberapp.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	m, err := h.memberService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, m)
}

// Delete handles DELETE /members/:id
func (h *MemberHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid member ID format")
		return
	}

	m, err := h.memberService.Delete(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, m)
}
