package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/pantry-helper/internal/domain/models"
	"github.com/mamadbah2/pantry-helper/internal/server/middleware"
	"github.com/mamadbah2/pantry-helper/internal/service/finance"
)

// FinanceHandler serves a pantry's money movements.
type FinanceHandler struct {
	svc    *finance.Service
	logger *zap.Logger
}

// NewFinanceHandler constructs the finance HTTP adapter.
func NewFinanceHandler(svc *finance.Service, logger *zap.Logger) *FinanceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FinanceHandler{svc: svc, logger: logger}
}

// List handles GET /api/finance/:pantryID.
func (h *FinanceHandler) List(c *gin.Context) {
	pantryID, ok := int64Param(c, "pantryID")
	if !ok {
		return
	}
	records, err := h.svc.List(c.Request.Context(), middleware.Actor(c), pantryID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// Summary handles GET /api/finance/:pantryID/summary.
func (h *FinanceHandler) Summary(c *gin.Context) {
	pantryID, ok := int64Param(c, "pantryID")
	if !ok {
		return
	}
	summary, err := h.svc.Summary(c.Request.Context(), middleware.Actor(c), pantryID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Create handles POST /api/finance/:pantryID.
func (h *FinanceHandler) Create(c *gin.Context) {
	pantryID, ok := int64Param(c, "pantryID")
	if !ok {
		return
	}
	var in models.FinanceInput
	if !bindJSON(c, &in) {
		return
	}
	record, err := h.svc.Create(c.Request.Context(), middleware.Actor(c), pantryID, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// Update handles PUT /api/finance/:id.
func (h *FinanceHandler) Update(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	var in models.FinanceInput
	if !bindJSON(c, &in) {
		return
	}
	if err := h.svc.Update(c.Request.Context(), middleware.Actor(c), id, in); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Finance record updated successfully."})
}

// Delete handles DELETE /api/finance/:id.
func (h *FinanceHandler) Delete(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Finance record deleted successfully."})
}
