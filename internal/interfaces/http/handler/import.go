package handler

import (
	"github.com/gin-gonic/gin"
	importerapp "github.com/librarian/backend/internal/application/importer"
	"github.com/librarian/backend/internal/interfaces/http/middleware"
)

// ImportHandler handles bulk book import API endpoints
type ImportHandler struct {
	BaseHandler
	importService *importerapp.ImportService
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(importService *importerapp.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// RegisterRoutes registers the import routes
func (h *ImportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/import", h.Import)
}

// Import handles POST /import
func (h *ImportHandler) Import(c *gin.Context) {
	var req importerapp.ImportBooksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.importService.Import(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
