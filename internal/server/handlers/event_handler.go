package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/pantry-helper/internal/domain/models"
	"github.com/mamadbah2/pantry-helper/internal/server/middleware"
	"github.com/mamadbah2/pantry-helper/internal/service/events"
)

// EventHandler serves pantry events.
type EventHandler struct {
	svc    *events.Service
	logger *zap.Logger
}

// NewEventHandler constructs the event HTTP adapter.
func NewEventHandler(svc *events.Service, logger *zap.Logger) *EventHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventHandler{svc: svc, logger: logger}
}

// List handles GET /api/events/pantry/:pantryID.
func (h *EventHandler) List(c *gin.Context) {
	pantryID, ok := int64Param(c, "pantryID")
	if !ok {
		return
	}
	list, err := h.svc.List(c.Request.Context(), pantryID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Create handles POST /api/events.
func (h *EventHandler) Create(c *gin.Context) {
	var in models.EventInput
	if !bindJSON(c, &in) {
		return
	}
	event, err := h.svc.Create(c.Request.Context(), middleware.Actor(c), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

// Update handles PUT /api/events/:eventID.
func (h *EventHandler) Update(c *gin.Context) {
	id, ok := int64Param(c, "eventID")
	if !ok {
		return
	}
	var in models.EventInput
	if !bindJSON(c, &in) {
		return
	}
	if err := h.svc.Update(c.Request.Context(), middleware.Actor(c), id, in); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event updated successfully."})
}

// Delete handles DELETE /api/events/:eventID.
func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := int64Param(c, "eventID")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully."})
}
