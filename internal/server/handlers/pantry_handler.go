package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/pantry-helper/internal/domain/models"
	"github.com/mamadbah2/pantry-helper/internal/server/middleware"
	"github.com/mamadbah2/pantry-helper/internal/service/pantries"
)

// PantryHandler serves pantries, access codes and contact cards.
type PantryHandler struct {
	svc    *pantries.Service
	logger *zap.Logger
}

// NewPantryHandler constructs the pantry HTTP adapter.
func NewPantryHandler(svc *pantries.Service, logger *zap.Logger) *PantryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PantryHandler{svc: svc, logger: logger}
}

// List handles GET /api/pantries.
func (h *PantryHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get handles GET /api/pantries/:id.
func (h *PantryHandler) Get(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	pantry, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, pantry)
}

// Create handles POST /api/pantries.
func (h *PantryHandler) Create(c *gin.Context) {
	var in models.NewPantryInput
	if !bindJSON(c, &in) {
		return
	}
	pantry, err := h.svc.Create(c.Request.Context(), middleware.Actor(c), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, pantry)
}

// Update handles PUT /api/pantries/:id.
func (h *PantryHandler) Update(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	var in models.NewPantryInput
	if !bindJSON(c, &in) {
		return
	}
	if err := h.svc.Update(c.Request.Context(), middleware.Actor(c), id, in); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pantry updated successfully."})
}

// Delete handles DELETE /api/pantries/:id.
func (h *PantryHandler) Delete(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pantry deleted successfully."})
}

// VerifyAccessCode handles POST /api/pantries/verify-access-code.
func (h *PantryHandler) VerifyAccessCode(c *gin.Context) {
	var in models.VerifyAccessCodeInput
	if !bindJSON(c, &in) {
		return
	}
	authority, err := h.svc.VerifyAccessCode(c.Request.Context(), middleware.Actor(c), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Access code verified.", "userAuthority": authority})
}

// ListInfo handles GET /api/pantries/all.
func (h *PantryHandler) ListInfo(c *gin.Context) {
	list, err := h.svc.ListInfo(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// InfoField returns a handler for GET /api/pantries/:id/<field>. An empty
// field answers 400 "No <label> Field".
func (h *PantryHandler) InfoField(field, label string, pick func(models.PantryInfo) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := int64Param(c, "id")
		if !ok {
			return
		}
		info, err := h.svc.Info(c.Request.Context(), id)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		value := pick(info)
		if value == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No " + label + " Field"})
			return
		}
		c.JSON(http.StatusOK, gin.H{field: value})
	}
}

// SaveInfo handles PUT /api/pantries/:id/info.
func (h *PantryHandler) SaveInfo(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	var in models.PantryInfoInput
	if !bindJSON(c, &in) {
		return
	}
	info, err := h.svc.SaveInfo(c.Request.Context(), middleware.Actor(c), id, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, info)
}
